// This file contains the boilerplate generation command: preferences in,
// downloadable archive out.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"sysmarket/internal/boilerplate"
	"sysmarket/internal/gemini"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	prefsPath   string
	outDir      string
	genModel    string
	projectName string
	description string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a project boilerplate with Gemini and package it",
	Long: `Renders your preferences into a prompt, asks Gemini for a strict
JSON manifest, materializes the files into a sandboxed temporary tree and
packages them into a .rar (when the rar binary is on PATH) or a .zip.

Example:
  sysmarket generate --prefs myproject.yaml -o ./downloads`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringVar(&prefsPath, "prefs", "", "YAML preferences file (defaults apply when omitted)")
	generateCmd.Flags().StringVarP(&outDir, "out", "o", ".", "Directory to write the archive into")
	generateCmd.Flags().StringVar(&genModel, "model", "", "Gemini model (default from config)")
	generateCmd.Flags().StringVar(&projectName, "name", "", "Override the project name")
	generateCmd.Flags().StringVar(&description, "description", "", "Override the project description")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	// Credential check happens before anything else touches the network.
	key := cfg.LLM.APIKey
	if key == "" {
		key = gemini.APIKeyFromEnv()
	}
	if key == "" {
		return fmt.Errorf("%w: set GEMINI_API_KEY or GOOGLE_API_KEY", boilerplate.ErrMissingCredential)
	}

	prefs := boilerplate.DefaultPreferences()
	if prefsPath != "" {
		var err error
		prefs, err = boilerplate.LoadPreferences(prefsPath)
		if err != nil {
			return err
		}
	}
	if projectName != "" {
		prefs.ProjectName = projectName
	}
	if description != "" {
		prefs.Description = description
	}

	clientConfig := gemini.Config{
		APIKey:          key,
		Model:           cfg.LLM.Model,
		Temperature:     cfg.LLM.Temperature,
		TopP:            cfg.LLM.TopP,
		MaxOutputTokens: cfg.LLM.MaxOutputTokens,
		Timeout:         cfg.LLMTimeout(),
	}
	if genModel != "" {
		clientConfig.Model = genModel
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	client, err := gemini.NewClient(ctx, clientConfig, logger)
	if err != nil {
		return err
	}

	logger.Info("Generating boilerplate",
		zap.String("project", prefs.ProjectName),
		zap.String("model", client.Model()))

	gen := boilerplate.NewGenerator(client, logger)
	result, err := gen.Run(ctx, prefs)
	if err != nil {
		return err
	}

	archivePath := filepath.Join(outDir, result.Archive.Name)
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	if err := os.WriteFile(archivePath, result.Archive.Bytes, 0644); err != nil {
		return fmt.Errorf("write archive: %w", err)
	}

	printGenerateReport(cmd, result, archivePath)
	return nil
}

func printGenerateReport(cmd *cobra.Command, result *boilerplate.Result, archivePath string) {
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, titleStyle.Render("Boilerplate generated"))
	if result.Manifest.Summary != "" {
		fmt.Fprintln(out, renderMarkdown(result.Manifest.Summary))
	}

	if len(result.WrittenFiles) > 0 {
		fmt.Fprintln(out, sectionStyle.Render("Files"))
		fmt.Fprintln(out, treeStyle.Render(boilerplate.PreviewFileTree(result.WrittenFiles)))
	} else {
		fmt.Fprintln(out, "No files reported in the manifest.")
	}

	if len(result.Manifest.PostCreateCommands) > 0 {
		fmt.Fprintln(out, sectionStyle.Render("Post-create commands"))
		fmt.Fprintln(out, treeStyle.Render(strings.Join(result.Manifest.PostCreateCommands, "\n")))
	}

	if result.Manifest.RunInstructions != "" {
		fmt.Fprintln(out, sectionStyle.Render("Run instructions"))
		fmt.Fprintln(out, renderMarkdown(result.Manifest.RunInstructions))
	}

	if result.Archive.MIME == "application/zip" {
		fmt.Fprintln(out, "No 'rar' binary detected; produced a .zip archive instead.")
	}
	fmt.Fprintf(out, "Archive written to %s (%s, %d bytes)\n",
		archivePath, result.Archive.MIME, len(result.Archive.Bytes))
}

// renderMarkdown pretty-prints model-supplied markdown for the terminal,
// falling back to the raw text when rendering fails.
func renderMarkdown(text string) string {
	renderer, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
	if err != nil {
		return text
	}
	rendered, err := renderer.Render(text)
	if err != nil {
		return text
	}
	return strings.TrimRight(rendered, "\n")
}
