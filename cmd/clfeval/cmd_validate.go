package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/clfeval/clfeval/internal/models"
	"github.com/clfeval/clfeval/internal/validation"
)

func newValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <predictions.json>",
		Short: "Validate a predictions file against the schema",
		Args:  cobra.ExactArgs(1),
		RunE:  validateCommandE,
	}
}

func validateCommandE(_ *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}

	errs := validation.ValidatePredictionsBytes(data)
	if len(errs) == 0 {
		fmt.Printf("%s: valid\n", args[0])
		return nil
	}

	for _, e := range errs {
		fmt.Printf("  %s\n", e)
	}
	return fmt.Errorf("%w: %s has %d schema violations", models.ErrInvalidInput, args[0], len(errs))
}
