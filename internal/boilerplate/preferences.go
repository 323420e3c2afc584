package boilerplate

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Preferences describes the project the prompt asks the model to scaffold.
// The YAML tags let users keep a reusable preferences file instead of
// re-entering flags.
type Preferences struct {
	ProjectName  string `yaml:"project_name"`
	Description  string `yaml:"description"`
	Scope        string `yaml:"scope"`
	Architecture string `yaml:"architecture"`

	Languages    []string `yaml:"languages"`
	Frameworks   []string `yaml:"frameworks"`
	Technologies []string `yaml:"technologies"`

	// BaseLanguage is the natural language for comments and the README.
	BaseLanguage string `yaml:"base_language"`

	Devcontainers   string   `yaml:"devcontainers"` // "dockerfile", "devcontainer.json" or "none"
	DockerCompose   bool     `yaml:"docker_compose"`
	PackageManagers []string `yaml:"package_managers"`

	Testing []string `yaml:"testing"`
	Linters []string `yaml:"linters"`
	CICD    []string `yaml:"ci_cd"`

	Databases []string `yaml:"databases"`
	Cloud     []string `yaml:"cloud"`

	IncludeAPIExample bool   `yaml:"include_api_example"`
	IncludeDocs       bool   `yaml:"include_docs"`
	DocsTool          string `yaml:"docs_tool"`

	License string `yaml:"license"`

	PythonVersion string `yaml:"python_version"`
	NodeVersion   string `yaml:"node_version"`

	SecurityOptions []string `yaml:"security_options"`
	Reproducibility []string `yaml:"reproducibility"`

	MinimalBoilerplate bool `yaml:"minimal_boilerplate"`
}

// LoadPreferences reads a YAML preferences file.
func LoadPreferences(path string) (*Preferences, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read preferences: %w", err)
	}
	prefs := DefaultPreferences()
	if err := yaml.Unmarshal(data, prefs); err != nil {
		return nil, fmt.Errorf("parse preferences: %w", err)
	}
	return prefs, nil
}

// DefaultPreferences returns the pre-selected generation defaults.
func DefaultPreferences() *Preferences {
	return &Preferences{
		ProjectName:        "my-sample-project",
		Architecture:       "Monolith",
		Languages:          []string{"Python"},
		Frameworks:         []string{"FastAPI"},
		BaseLanguage:       "English",
		Devcontainers:      "dockerfile",
		DockerCompose:      true,
		PackageManagers:    []string{"pip"},
		Testing:            []string{"pytest"},
		Linters:            []string{"ruff", "black", "isort"},
		CICD:               []string{"GitHub Actions"},
		Databases:          []string{"SQLite"},
		IncludeAPIExample:  true,
		DocsTool:           "none",
		License:            "MIT",
		PythonVersion:      "3.11",
		NodeVersion:        "20",
		SecurityOptions:    []string{"pre-commit", "dotenv .env.example"},
		Reproducibility:    []string{"Pinned versions", "Lockfiles", "SemVer"},
		MinimalBoilerplate: true,
	}
}
