package boilerplate

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeModel returns canned text, recording the prompt it was given.
type fakeModel struct {
	response string
	err      error
	prompt   string
}

func (f *fakeModel) GenerateText(_ context.Context, prompt string) (string, error) {
	f.prompt = prompt
	return f.response, f.err
}

const endToEndManifest = `{"project_name":"demo","summary":"s","files":[{"path":"src/main.txt","content":"hello","executable":false}],"post_create_commands":[],"run_instructions":"run it"}`

func TestGeneratorRun_EndToEnd(t *testing.T) {
	t.Setenv("PATH", "") // force the zip packager

	model := &fakeModel{response: "Here you go:\n```json\n" + endToEndManifest + "\n```"}
	gen := NewGenerator(model, nil)

	result, err := gen.Run(context.Background(), DefaultPreferences())
	require.NoError(t, err)

	assert.Equal(t, "demo", result.Manifest.ProjectName)
	assert.Equal(t, []string{"src/main.txt"}, result.WrittenFiles)
	assert.Equal(t, "demo.zip", result.Archive.Name)
	assert.Equal(t, "application/zip", result.Archive.MIME)

	entries := readZipEntries(t, result.Archive.Bytes)
	assert.Equal(t, map[string]string{"src/main.txt": "hello"}, entries)

	// The model was given the rendered preferences prompt.
	assert.Contains(t, model.prompt, "RESPOND EXCLUSIVELY with valid JSON")
}

func TestGeneratorRun_RemoteFailure(t *testing.T) {
	model := &fakeModel{err: errors.New("network down")}
	gen := NewGenerator(model, nil)

	_, err := gen.Run(context.Background(), DefaultPreferences())
	assert.ErrorIs(t, err, ErrRemoteCall)
	assert.Contains(t, err.Error(), "network down")
}

func TestGeneratorRun_MalformedResponse(t *testing.T) {
	model := &fakeModel{response: "I refuse to answer in JSON."}
	gen := NewGenerator(model, nil)

	_, err := gen.Run(context.Background(), DefaultPreferences())
	assert.ErrorIs(t, err, ErrMalformedManifest)
}

func TestGeneratorRun_EmptyFileList(t *testing.T) {
	t.Setenv("PATH", "")

	model := &fakeModel{response: `{"project_name":"bare","summary":"","files":[],"post_create_commands":[],"run_instructions":""}`}
	gen := NewGenerator(model, nil)

	result, err := gen.Run(context.Background(), DefaultPreferences())
	require.NoError(t, err)
	assert.Empty(t, result.WrittenFiles)
	// Packaging still yields a valid, empty archive.
	assert.Equal(t, "bare.zip", result.Archive.Name)
	assert.Empty(t, readZipEntries(t, result.Archive.Bytes))
}

func TestGeneratorRun_HostileManifestPaths(t *testing.T) {
	t.Setenv("PATH", "")

	model := &fakeModel{response: `{"project_name":"../evil","files":[{"path":"/etc/passwd","content":"x"},{"path":"../../escape.txt","content":"y"}]}`}
	gen := NewGenerator(model, nil)

	result, err := gen.Run(context.Background(), DefaultPreferences())
	require.NoError(t, err)
	// Project dir and every entry were forced inside the sandbox.
	assert.Equal(t, []string{"etc/passwd", "escape.txt"}, result.WrittenFiles)
	assert.Equal(t, "evil.zip", result.Archive.Name)
}

func TestProjectDirName_Fallbacks(t *testing.T) {
	prefs := &Preferences{ProjectName: "from-prefs"}

	assert.Equal(t, "named", projectDirName(&Manifest{ProjectName: "named"}, prefs))
	assert.Equal(t, "from-prefs", projectDirName(&Manifest{}, prefs))
	assert.Equal(t, "project", projectDirName(&Manifest{ProjectName: ".."}, &Preferences{}))
}
