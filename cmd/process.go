package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonesrussell/north-cloud/review-responder/internal/api"
	"github.com/jonesrussell/north-cloud/review-responder/internal/bootstrap"
	"github.com/jonesrussell/north-cloud/review-responder/internal/domain"
	"github.com/jonesrussell/north-cloud/review-responder/internal/serviceerror"
)

func newProcessCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "process <request.json|->",
		Short: "Process one review request and print the response envelope",
		Long: `Reads a process request as JSON from a file, or from stdin when the
argument is "-", runs it through the same pipeline as POST /api/v1/review/process
and prints the response envelope to stdout. Logs go to stderr.

A failed request prints the error body and exits non-zero.`,
		Args: cobra.ExactArgs(1),
		RunE: runProcess,
	}
}

func runProcess(cmd *cobra.Command, args []string) error {
	req, err := readProcessRequest(cmd.InOrStdin(), args[0])
	if err != nil {
		return err
	}

	cfg, err := bootstrap.LoadConfig(configPath)
	if err != nil {
		return err
	}
	log, err := bootstrap.CreateLogger(cfg, "stderr")
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	app, err := bootstrap.Build(cmd.Context(), cfg, log)
	if err != nil {
		return err
	}
	defer app.Close()

	out := json.NewEncoder(cmd.OutOrStdout())
	out.SetIndent("", "  ")

	resp, err := app.Service.Process(cmd.Context(), req)
	if err != nil {
		classified := serviceerror.Classify(err)
		if encErr := out.Encode(api.ErrorResponse{
			Error:   string(classified.Kind),
			Message: classified.Message,
		}); encErr != nil {
			return errors.Join(classified, encErr)
		}
		return fmt.Errorf("process failed with status %d: %w", classified.Status, classified)
	}

	return out.Encode(resp)
}

func readProcessRequest(stdin io.Reader, path string) (*domain.ProcessRequest, error) {
	var src io.Reader = stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open request: %w", err)
		}
		defer func() { _ = f.Close() }()
		src = f
	}

	var req domain.ProcessRequest
	if err := json.NewDecoder(src).Decode(&req); err != nil {
		return nil, fmt.Errorf("decode request: %w", err)
	}
	return &req, nil
}
