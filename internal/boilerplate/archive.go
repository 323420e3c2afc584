package boilerplate

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"

	"go.uber.org/zap"
)

// Archive is the final artifact of a generation run: the only thing that
// survives after the temporary directory is removed.
type Archive struct {
	Name  string
	MIME  string
	Bytes []byte
}

const (
	mimeRAR = "application/x-rar-compressed"
	mimeZIP = "application/zip"
)

// rarCasings are the binary names probed on PATH. WinRAR installs differ
// in casing across platforms.
var rarCasings = []string{"rar", "Rar", "rar.exe", "Rar.exe"}

// lookRarBinary returns the resolved rar binary path, or "" when none of
// the known casings is on PATH.
func lookRarBinary() string {
	for _, name := range rarCasings {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}
	return ""
}

// CreateArchive compresses dir's full recursive contents into a single
// archive named after name. When a rar binary is on PATH it is preferred
// and produces a .rar; otherwise a .zip is built in-process. The two paths
// carry the same relative file set with the same bytes.
//
// The existence check happens before invocation, so a rar binary that is
// present but exits nonzero is a hard ErrPackaging, never silently
// downgraded to zip.
func CreateArchive(ctx context.Context, dir, name string, log *zap.Logger) (*Archive, error) {
	if log == nil {
		log = zap.NewNop()
	}

	if rarBin := lookRarBinary(); rarBin != "" {
		log.Debug("Packaging with rar", zap.String("binary", rarBin))
		return createRarArchive(ctx, rarBin, dir, name)
	}

	log.Debug("No rar binary on PATH, packaging with zip")
	return createZipArchive(dir, name)
}

func createRarArchive(ctx context.Context, rarBin, dir, name string) (*Archive, error) {
	outPath := filepath.Join(filepath.Dir(dir), name+".rar")

	// rar a -r archive.rar . is run from inside the tree so entries are relative
	cmd := exec.CommandContext(ctx, rarBin, "a", "-r", outPath, ".")
	cmd.Dir = dir
	if out, err := cmd.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("%w: rar exited with error: %v (output: %s)", ErrPackaging, err, bytes.TrimSpace(out))
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		return nil, fmt.Errorf("%w: read rar output: %v", ErrPackaging, err)
	}
	return &Archive{Name: name + ".rar", MIME: mimeRAR, Bytes: data}, nil
}

func createZipArchive(dir, name string) (*Archive, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		w, err := zw.Create(filepath.ToSlash(rel))
		if err != nil {
			return err
		}
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		_, err = io.Copy(w, f)
		return err
	})
	if err != nil {
		zw.Close()
		return nil, fmt.Errorf("%w: zip walk: %v", ErrPackaging, err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("%w: finalize zip: %v", ErrPackaging, err)
	}

	return &Archive{Name: name + ".zip", MIME: mimeZIP, Bytes: buf.Bytes()}, nil
}
