// Package artifact loads compiled program artifacts: the system instructions
// and few-shot demos a provider sends with every call.
package artifact

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jonesrussell/north-cloud/review-responder/internal/capability"
)

const fingerprintHexLen = 12

// Demo is one worked example. Inputs are keyed by field name.
type Demo struct {
	Inputs map[string]string `yaml:"inputs"`
	Output string            `yaml:"output"`
}

// Program is a compiled program artifact.
type Program struct {
	Name         string `yaml:"name"`
	Instructions string `yaml:"instructions"`
	Demos        []Demo `yaml:"demos"`

	// Version is the content fingerprint, or capability.ArtifactMissing.
	Version string `yaml:"-"`
}

// Load reads the artifact at path. A missing file is not an error: it yields
// an empty program whose Version is capability.ArtifactMissing. A file that
// exists but cannot be parsed is an error.
func Load(path string) (*Program, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return &Program{Version: capability.ArtifactMissing}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read program artifact %s: %w", path, err)
	}

	var p Program
	if err = yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse program artifact %s: %w", path, err)
	}

	for i, demo := range p.Demos {
		if strings.TrimSpace(demo.Output) == "" {
			return nil, fmt.Errorf("program artifact %s: demo %d has no output", path, i)
		}
	}

	p.Version = Fingerprint(filepath.Base(path), data)
	return &p, nil
}

// Fingerprint returns "<name>:<first 12 hex chars of sha256(data)>".
func Fingerprint(name string, data []byte) string {
	sum := sha256.Sum256(data)
	return name + ":" + hex.EncodeToString(sum[:])[:fingerprintHexLen]
}

// ArtifactVersion implements capability.Fingerprinted. A nil program reports
// capability.ArtifactMissing.
func (p *Program) ArtifactVersion() string {
	if p == nil || p.Version == "" {
		return capability.ArtifactMissing
	}
	return p.Version
}

// SystemPrompt joins the base prompt with the artifact's instructions.
func (p *Program) SystemPrompt(base string) string {
	if p == nil || strings.TrimSpace(p.Instructions) == "" {
		return base
	}
	return base + "\n\n" + strings.TrimSpace(p.Instructions)
}
