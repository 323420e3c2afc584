package boilerplate

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"
)

// SanitizeRelativePath rewrites an untrusted manifest path into a safe
// relative path: backslashes become forward slashes, leading "./" and "/"
// prefixes are stripped, and empty, "." and ".." segments are dropped.
// The result never escapes the directory it is joined to. An empty result
// means the entry has no valid target.
func SanitizeRelativePath(p string) string {
	p = strings.TrimSpace(p)
	p = strings.ReplaceAll(p, "\\", "/")
	for strings.HasPrefix(p, "./") {
		p = strings.TrimPrefix(p, "./")
	}
	p = strings.TrimLeft(p, "/")

	parts := make([]string, 0, strings.Count(p, "/")+1)
	for _, part := range strings.Split(p, "/") {
		if part == "" || part == "." || part == ".." {
			continue
		}
		parts = append(parts, part)
	}
	return strings.Join(parts, "/")
}

// normalizeLineEndings converts CRLF and bare CR to \n.
func normalizeLineEndings(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

// Materialize writes the manifest's file entries under root, in manifest
// order, and returns the relative paths actually written. Entries whose
// path sanitizes to nothing are skipped. Duplicate paths are legal: the
// last write wins. Setting the executable bit is best-effort; a chmod
// failure is logged and never aborts the run.
func Materialize(root string, m *Manifest, log *zap.Logger) ([]string, error) {
	if log == nil {
		log = zap.NewNop()
	}

	written := make([]string, 0, len(m.Files))
	for _, entry := range m.Files {
		rel := SanitizeRelativePath(entry.Path)
		if rel == "" {
			log.Debug("Skipping entry with no valid target path", zap.String("raw", entry.Path))
			continue
		}

		dst := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
			return written, fmt.Errorf("%w: create parent for %s: %v", ErrFileSystem, rel, err)
		}

		content := normalizeLineEndings(entry.Content)
		if err := os.WriteFile(dst, []byte(content), 0644); err != nil {
			return written, fmt.Errorf("%w: write %s: %v", ErrFileSystem, rel, err)
		}

		if entry.Executable {
			if err := chmodExecutable(dst); err != nil {
				log.Warn("Could not set executable bit", zap.String("path", rel), zap.Error(err))
			}
		}

		written = append(written, rel)
	}
	return written, nil
}

func chmodExecutable(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	return os.Chmod(path, info.Mode()|0111)
}

// PreviewFileTree renders a simple indented listing of written paths,
// sorted, one line per file. Display-only.
func PreviewFileTree(files []string) string {
	sorted := make([]string, len(files))
	copy(sorted, files)
	sort.Strings(sorted)

	var sb strings.Builder
	for i, p := range sorted {
		if i > 0 {
			sb.WriteString("\n")
		}
		depth := strings.Count(p, "/")
		name := p[strings.LastIndex(p, "/")+1:]
		sb.WriteString(strings.Repeat("  ", depth))
		sb.WriteString("- ")
		sb.WriteString(name)
		sb.WriteString(" (")
		sb.WriteString(p)
		sb.WriteString(")")
	}
	return sb.String()
}
