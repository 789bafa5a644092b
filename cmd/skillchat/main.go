package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/jingkaihe/skillchat/pkg/logger"
	"github.com/jingkaihe/skillchat/pkg/presenter"
)

var rootCmd = &cobra.Command{
	Use:   "skillchat",
	Short: "Chat with a local model, steered by on-disk skills",
	Long: `skillchat is an interactive terminal chat client for a local model server (Ollama by default).
Skills are folders under the skills directory holding a SKILL.md instruction file and optional
reference files. Activate one with /skill use <name> and its instructions are added to the system
prompt of every following turn. Type /help at the prompt for all commands.

Configuration is read from the environment (OLLAMA_HOST, OLLAMA_MODEL, OLLAMA_OPTIONS and
SKILLCHAT_* variables), a .env file in the working directory and an optional config.yaml in
$HOME/.skillchat or the working directory.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runChat(cmd.Context(), os.Stdin)
	},
}

// loadDotEnv populates the environment from ./.env without overriding
// variables that are already set.
func loadDotEnv(ctx context.Context) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logger.G(ctx).WithError(err).Warn("failed to load .env file")
	}
}

func main() {
	ctx := context.Background()
	loadDotEnv(ctx)

	rootCmd.AddCommand(versionCmd)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		presenter.Error(err, "")
		os.Exit(1)
	}
}
