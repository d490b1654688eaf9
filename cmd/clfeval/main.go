package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/clfeval/clfeval/internal/models"
)

// Exit codes for different failure modes
const (
	ExitSuccess      = 0 // Evaluation completed
	ExitInvalidInput = 1 // A prediction set or suite file failed validation
	ExitError        = 2 // Configuration or runtime error
)

func main() {
	if err := execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)

		if errors.Is(err, models.ErrInvalidInput) {
			os.Exit(ExitInvalidInput)
		}
		os.Exit(ExitError)
	}
}
