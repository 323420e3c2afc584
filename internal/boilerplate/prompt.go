package boilerplate

import (
	"fmt"
	"strings"
)

// joinOrNA renders a selection list for the prompt; empty means the user
// chose nothing for that concern.
func joinOrNA(items []string) string {
	if len(items) == 0 {
		return "N/A"
	}
	return strings.Join(items, ", ")
}

// BuildPrompt renders the preferences into the instruction string sent to
// the model. Pure and deterministic: identical preferences always produce
// the identical prompt. The strict-JSON requirement at the end is the
// contract the extractor depends on, but compliance is advisory and the
// extractor never assumes it was honored.
func BuildPrompt(p *Preferences) string {
	var sb strings.Builder

	sb.WriteString(`You are an assistant that generates high-quality software project boilerplates, focused on:
- Security, maintainability, reproducibility and portability best practices.
- A minimal but runnable structure, ready to serve as an initial sketch.
- Clear files, with no real secrets or credentials.
- Concise, useful comments and README.

Generate the boilerplate from these user preferences:
`)

	fmt.Fprintf(&sb, "- Project name: %s\n", p.ProjectName)
	fmt.Fprintf(&sb, "- Description: %s\n", p.Description)
	fmt.Fprintf(&sb, "- Project scope: %s\n", p.Scope)
	fmt.Fprintf(&sb, "- Architecture: %s\n", p.Architecture)
	fmt.Fprintf(&sb, "- Target languages: %s\n", joinOrNA(p.Languages))
	fmt.Fprintf(&sb, "- Frameworks: %s\n", joinOrNA(p.Frameworks))
	fmt.Fprintf(&sb, "- Technologies: %s\n", joinOrNA(p.Technologies))
	fmt.Fprintf(&sb, "- Base language (comments/README): %s\n", p.BaseLanguage)
	fmt.Fprintf(&sb, "- Devcontainers: %s\n", p.Devcontainers)
	fmt.Fprintf(&sb, "- Include docker-compose: %t\n", p.DockerCompose)
	fmt.Fprintf(&sb, "- Package managers: %s\n", joinOrNA(p.PackageManagers))
	fmt.Fprintf(&sb, "- Testing: %s\n", joinOrNA(p.Testing))
	fmt.Fprintf(&sb, "- Linters/Formatters: %s\n", joinOrNA(p.Linters))
	fmt.Fprintf(&sb, "- CI/CD: %s\n", joinOrNA(p.CICD))
	fmt.Fprintf(&sb, "- Databases: %s\n", joinOrNA(p.Databases))
	fmt.Fprintf(&sb, "- Cloud/Infra: %s\n", joinOrNA(p.Cloud))
	fmt.Fprintf(&sb, "- Include API example: %t\n", p.IncludeAPIExample)
	fmt.Fprintf(&sb, "- Include docs: %t (tool: %s)\n", p.IncludeDocs, p.DocsTool)
	fmt.Fprintf(&sb, "- License: %s\n", p.License)
	fmt.Fprintf(&sb, "- Target versions: Python=%s, Node=%s\n", p.PythonVersion, p.NodeVersion)
	fmt.Fprintf(&sb, "- Security options: %s\n", joinOrNA(p.SecurityOptions))
	fmt.Fprintf(&sb, "- Reproducibility: %s\n", joinOrNA(p.Reproducibility))
	fmt.Fprintf(&sb, "- Keep a minimal but runnable essence: %t\n", p.MinimalBoilerplate)
	sb.WriteString("- Important: no huge files, no unnecessary heavy dependencies, no secrets. Include a .env.example where it applies.\n")

	sb.WriteString(`
Critical requirements:
1) RESPOND EXCLUSIVELY with valid JSON following this EXACT schema:
{
  "project_name": "string",
  "summary": "string (short summary of the generated boilerplate and key decisions)",
  "files": [
    {
      "path": "relative/path/file.ext",
      "content": "file content (plain UTF-8 text)",
      "executable": false
    }
  ],
  "post_create_commands": [
    "optional commands to prepare/install after download"
  ],
  "run_instructions": "simple instructions to run the project locally"
}

2) Include only the minimal files needed for the project to run simply and show the structure:
   - If Devcontainers = "dockerfile": include a minimal Dockerfile, and docker-compose if requested.
   - If Devcontainers = "devcontainer.json": include .devcontainer/devcontainer.json; a Dockerfile may accompany it.
3) If testing/linters/formatters were selected, add minimal configuration (for example: pytest plus a simple test; ruff/isort/black/eslint/prettier).
4) If reproducibility was selected, pin versions in requirements.txt/pyproject/lockfiles or package.json.
5) If an API example was requested, add the simplest endpoint (health or ping) in the chosen framework.
6) Include .gitignore, README.md and LICENSE of the selected type.
7) If docs were selected, include minimal configuration (for example mkdocs or docusaurus), kept simple.
8) Never invent secrets; use .env.example with placeholder keys only.
`)
	fmt.Fprintf(&sb, "9) Keep comments in the indicated base language: %s.\n", p.BaseLanguage)

	sb.WriteString("\nHighlight best practices without bloating the boilerplate. The JSON must be the only content of your response.")

	return sb.String()
}
