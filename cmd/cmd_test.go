package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const requestJSON = `{
  "reviewId": "review-9",
  "mode": "VERIFY_EXISTING_DRAFT",
  "candidateDraftText": "Thanks for visiting!",
  "evidence": {
    "starRating": 4,
    "locationDisplayName": "Harbour Grill",
    "createTime": "2026-03-14T18:30:00Z",
    "tone": {"preset": "warm"}
  }
}`

func TestReadProcessRequest_File(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "request.json")
	require.NoError(t, os.WriteFile(path, []byte(requestJSON), 0o600))

	req, err := readProcessRequest(strings.NewReader(""), path)
	require.NoError(t, err)
	assert.Equal(t, "review-9", req.ReviewID)
	assert.Equal(t, "VERIFY_EXISTING_DRAFT", req.Mode)
	require.NotNil(t, req.CandidateDraftText)
	assert.Equal(t, 4, req.Evidence.StarRating)
}

func TestReadProcessRequest_Stdin(t *testing.T) {
	t.Parallel()

	req, err := readProcessRequest(strings.NewReader(requestJSON), "-")
	require.NoError(t, err)
	assert.Equal(t, "Harbour Grill", req.Evidence.LocationDisplayName)
}

func TestReadProcessRequest_Errors(t *testing.T) {
	t.Parallel()

	_, err := readProcessRequest(strings.NewReader(""), filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open request")

	_, err = readProcessRequest(strings.NewReader("{not json"), "-")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode request")
}

// The root command binds package-level flag storage, so these tests are not
// run in parallel.
func TestMigrateCommand_RejectsUnknownDirection(t *testing.T) {
	root := newRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs([]string{"migrate", "sideways"})

	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid argument")
}

func TestRootCommand_Subcommands(t *testing.T) {
	root := newRootCommand()
	names := make([]string, 0, len(root.Commands()))
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}

	assert.Subset(t, names, []string{"serve", "process", "migrate"})
}
