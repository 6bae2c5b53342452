package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/viper"

	"revenue-reconciliation-service/pkg/errors"
)

// CLIErrorHandler maps command failures to user-facing messages and exit codes
type CLIErrorHandler struct {
	verbose bool
}

// NewCLIErrorHandler creates a new CLI error handler
func NewCLIErrorHandler() *CLIErrorHandler {
	return &CLIErrorHandler{
		verbose: viper.GetBool("verbose"),
	}
}

// HandleError prints a message for err and returns the process exit code
func (h *CLIErrorHandler) HandleError(err error) int {
	if err == nil {
		return 0
	}

	if svcErr, ok := errors.AsServiceError(err); ok {
		return h.handleServiceError(svcErr)
	}

	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	return 1
}

func (h *CLIErrorHandler) handleServiceError(err *errors.ServiceError) int {
	fmt.Fprintf(os.Stderr, "Error: %s\n", err.Message)

	if len(err.Context) > 0 {
		fmt.Fprintf(os.Stderr, "\nContext:\n")
		for key, value := range err.Context {
			fmt.Fprintf(os.Stderr, "  %s: %v\n", key, value)
		}
	}

	fmt.Fprintf(os.Stderr, "\n%s\n", h.getCategoryHelp(err.Category))

	if h.verbose && err.Cause != nil {
		fmt.Fprintf(os.Stderr, "\nUnderlying error: %v\n", err.Cause)
	}

	return err.GetExitCode()
}

func (h *CLIErrorHandler) getCategoryHelp(category errors.ErrorCategory) string {
	switch category {
	case errors.CategoryStore:
		return `Store error help:
• Check that the database path is correct and writable
• Verify no other process holds the database open
• Run with --verbose to see the underlying database error`

	case errors.CategoryConfiguration:
		return `Configuration error help:
• Check your command-line flags and arguments
• Verify date flags use YYYY-MM-DD
• Use 'reconciler reconcile --help' to see all available options`

	case errors.CategoryReconciliation:
		return `Reconciliation error help:
• Verify the location, treasury location, and merchant ids are correct
• Check that payments and deposits exist for the requested date range
• Run with --verbose for per-round matching details`

	default:
		return `For more help:
• Use 'reconciler --help' for general help
• Use 'reconciler reconcile --help' for command-specific help
• Report bugs or ask for help on the project repository`
	}
}
