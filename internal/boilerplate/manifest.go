package boilerplate

// Manifest is the structured payload the model is instructed to return.
// Fields missing from the JSON simply stay at their zero values; validation
// of individual entries happens during materialization, not parsing.
type Manifest struct {
	ProjectName        string      `json:"project_name"`
	Summary            string      `json:"summary"`
	Files              []FileEntry `json:"files"`
	PostCreateCommands []string    `json:"post_create_commands"`
	RunInstructions    string      `json:"run_instructions"`
}

// FileEntry describes one file to materialize. Path is a slash-separated
// relative path and is sanitized before any write; Content is written
// verbatim as UTF-8 with line endings normalized to \n.
type FileEntry struct {
	Path       string `json:"path"`
	Content    string `json:"content"`
	Executable bool   `json:"executable"`
}
