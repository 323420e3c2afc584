// Package boilerplate implements the project scaffold generation pipeline:
// render a prompt from user preferences, call the model, extract a JSON
// manifest from whatever text comes back, materialize the files into a
// sandboxed temporary tree and package the tree into a downloadable
// archive. Data flows strictly forward; nothing is retained between runs
// except the archive bytes handed to the caller.
package boilerplate

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TextGenerator is the minimal model surface the pipeline needs.
// Mirrors gemini.Client so tests can substitute a canned model.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// Result is everything a successful generation run produces. The archive
// bytes are the only artifact that outlives the run; the materialized tree
// lived in a temporary directory that is gone by the time Run returns.
type Result struct {
	Manifest     *Manifest
	WrittenFiles []string
	Archive      *Archive
}

// Generator runs the four-stage pipeline: prompt, model call, manifest
// extraction, materialization plus packaging.
type Generator struct {
	model TextGenerator
	log   *zap.Logger
}

// NewGenerator wires a generator around a model client.
func NewGenerator(model TextGenerator, log *zap.Logger) *Generator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Generator{model: model, log: log}
}

// Run executes one generation request, synchronously, top to bottom.
// Each run gets a fresh uniquely named temporary directory which is removed
// on every exit path; removal failure is logged, never fatal.
func (g *Generator) Run(ctx context.Context, prefs *Preferences) (*Result, error) {
	prompt := BuildPrompt(prefs)

	raw, err := g.model.GenerateText(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRemoteCall, err)
	}

	manifest, err := ExtractManifest(raw)
	if err != nil {
		return nil, err
	}

	tmpRoot, err := os.MkdirTemp("", "boilerplate_"+uuid.NewString()[:8]+"_")
	if err != nil {
		return nil, fmt.Errorf("%w: create temp dir: %v", ErrFileSystem, err)
	}
	defer func() {
		if err := os.RemoveAll(tmpRoot); err != nil {
			g.log.Warn("Could not remove temp dir", zap.String("dir", tmpRoot), zap.Error(err))
		}
	}()

	projName := projectDirName(manifest, prefs)
	projDir := filepath.Join(tmpRoot, projName)
	if err := os.MkdirAll(projDir, 0755); err != nil {
		return nil, fmt.Errorf("%w: create project dir: %v", ErrFileSystem, err)
	}

	written, err := Materialize(projDir, manifest, g.log)
	if err != nil {
		return nil, err
	}
	g.log.Info("Materialized manifest",
		zap.String("project", projName),
		zap.Int("files", len(written)))

	archive, err := CreateArchive(ctx, projDir, projName, g.log)
	if err != nil {
		return nil, err
	}

	return &Result{
		Manifest:     manifest,
		WrittenFiles: written,
		Archive:      archive,
	}, nil
}

// projectDirName picks the sanitized root directory name: manifest name
// first, then the preference name, then a fixed fallback.
func projectDirName(m *Manifest, prefs *Preferences) string {
	if name := SanitizeRelativePath(m.ProjectName); name != "" {
		return name
	}
	if name := SanitizeRelativePath(prefs.ProjectName); name != "" {
		return name
	}
	return "project"
}
