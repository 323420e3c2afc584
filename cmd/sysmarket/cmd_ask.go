// This file contains the one-shot question command.
package main

import (
	"context"
	"fmt"
	"strings"

	"sysmarket/internal/boilerplate"
	"sysmarket/internal/gemini"

	"github.com/spf13/cobra"
)

var askModel string

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask Gemini a one-off question",
	Long: `Sends a single free-form question to Gemini and prints the answer.

Example:
  sysmarket ask "What is a good schema for a products table?"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringVar(&askModel, "model", "gemini-2.5-flash", "Gemini model for quick questions")
}

func runAsk(cmd *cobra.Command, args []string) error {
	key := cfg.LLM.APIKey
	if key == "" {
		key = gemini.APIKeyFromEnv()
	}
	if key == "" {
		return fmt.Errorf("%w: set GEMINI_API_KEY or GOOGLE_API_KEY", boilerplate.ErrMissingCredential)
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	clientConfig := gemini.DefaultConfig(key)
	clientConfig.Model = askModel

	client, err := gemini.NewClient(ctx, clientConfig, logger)
	if err != nil {
		return err
	}

	answer, err := client.GenerateText(ctx, strings.Join(args, " "))
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), renderMarkdown(answer))
	return nil
}
