package main

import (
	"log/slog"

	"github.com/spf13/cobra"
)

var version = "dev"

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clfeval",
		Short: "clfeval - evaluation and error analysis for multi-class classifiers",
		Long: `clfeval turns per-sample classifier predictions into confusion matrices,
precision/recall/F1, one-vs-rest ROC/AUC, cross-model rankings and
misclassification diagnostics.

Predictions are produced externally (by whatever trained the models) and fed
in as JSON; clfeval only evaluates.`,
		Version:      version,
		SilenceUsage: true,
	}

	debugLogging := cmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	cmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if *debugLogging {
			slog.SetLogLoggerLevel(slog.LevelDebug)
		}
	}

	// Add subcommands
	cmd.AddCommand(newEvaluateCommand())
	cmd.AddCommand(newCompareCommand())
	cmd.AddCommand(newAnalyzeCommand())
	cmd.AddCommand(newValidateCommand())

	return cmd
}

func execute() error {
	rootCmd := newRootCommand()
	return rootCmd.Execute()
}
