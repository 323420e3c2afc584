package boilerplate

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeRelativePath(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"plain relative", "src/main.py", "src/main.py"},
		{"leading dot slash", "./src/main.py", "src/main.py"},
		{"repeated dot slash", "././src/main.py", "src/main.py"},
		{"leading slash", "/etc/passwd", "etc/passwd"},
		{"backslashes", "src\\win\\file.txt", "src/win/file.txt"},
		{"parent traversal", "../../etc/passwd", "etc/passwd"},
		{"embedded traversal", "src/../../../etc/passwd", "src/etc/passwd"},
		{"dot segments", "a/./b/./c", "a/b/c"},
		{"double slashes", "a//b///c", "a/b/c"},
		{"only traversal", "../..", ""},
		{"empty", "", ""},
		{"whitespace", "   ", ""},
		{"single dot", ".", ""},
		{"mixed separators and traversal", "..\\..\\win\\..\\file", "win/file"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, SanitizeRelativePath(tc.in))
		})
	}
}

func TestSanitizeRelativePath_NeverEscapesRoot(t *testing.T) {
	root := "/fixed/root"
	hostile := []string{
		"../../../../etc/passwd",
		"/absolute/path",
		"..\\..\\windows\\system32",
		"a/../../b",
		"....//....//x",
		"./../.",
		"\\\\server\\share",
	}
	for _, p := range hostile {
		rel := SanitizeRelativePath(p)
		joined := filepath.Clean(filepath.Join(root, filepath.FromSlash(rel)))
		assert.True(t, strings.HasPrefix(joined, filepath.Clean(root)),
			"sanitize(%q) = %q resolved outside root: %q", p, rel, joined)
	}
}

func TestMaterialize_WritesFilesInOrder(t *testing.T) {
	root := t.TempDir()
	m := &Manifest{Files: []FileEntry{
		{Path: "src/main.py", Content: "print('hi')\n"},
		{Path: "README.md", Content: "# demo\n"},
	}}

	written, err := Materialize(root, m, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"src/main.py", "README.md"}, written)

	data, err := os.ReadFile(filepath.Join(root, "src", "main.py"))
	require.NoError(t, err)
	assert.Equal(t, "print('hi')\n", string(data))
}

func TestMaterialize_EmptyManifest(t *testing.T) {
	root := t.TempDir()
	written, err := Materialize(root, &Manifest{}, nil)
	require.NoError(t, err)
	assert.Empty(t, written)
}

func TestMaterialize_SkipsEmptyPaths(t *testing.T) {
	root := t.TempDir()
	m := &Manifest{Files: []FileEntry{
		{Path: "../..", Content: "never written"},
		{Path: "", Content: "never written"},
		{Path: "kept.txt", Content: "kept"},
	}}

	written, err := Materialize(root, m, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"kept.txt"}, written)
}

func TestMaterialize_LastWriteWins(t *testing.T) {
	root := t.TempDir()
	m := &Manifest{Files: []FileEntry{
		{Path: "dup.txt", Content: "first"},
		{Path: "./dup.txt", Content: "second"},
	}}

	written, err := Materialize(root, m, nil)
	require.NoError(t, err)
	// Both writes are reported; one file exists with the second content.
	assert.Equal(t, []string{"dup.txt", "dup.txt"}, written)

	data, err := os.ReadFile(filepath.Join(root, "dup.txt"))
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))
}

func TestMaterialize_NormalizesLineEndings(t *testing.T) {
	root := t.TempDir()
	m := &Manifest{Files: []FileEntry{
		{Path: "crlf.txt", Content: "a\r\nb\rc\n"},
	}}

	_, err := Materialize(root, m, nil)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(root, "crlf.txt"))
	require.NoError(t, err)
	assert.Equal(t, "a\nb\nc\n", string(data))
}

func TestMaterialize_ExecutableBit(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("no unix permission bits on windows")
	}
	root := t.TempDir()
	m := &Manifest{Files: []FileEntry{
		{Path: "run.sh", Content: "#!/bin/sh\necho hi\n", Executable: true},
		{Path: "plain.txt", Content: "text", Executable: false},
	}}

	_, err := Materialize(root, m, nil)
	require.NoError(t, err)

	info, err := os.Stat(filepath.Join(root, "run.sh"))
	require.NoError(t, err)
	assert.NotZero(t, info.Mode()&0100, "owner execute bit should be set")

	info, err = os.Stat(filepath.Join(root, "plain.txt"))
	require.NoError(t, err)
	assert.Zero(t, info.Mode()&0111, "plain file should not be executable")
}

func TestPreviewFileTree(t *testing.T) {
	out := PreviewFileTree([]string{"src/main.py", "README.md"})
	assert.Equal(t, "- README.md (README.md)\n  - main.py (src/main.py)", out)
}
