package cli

import (
	"io"

	"github.com/fatih/color"
)

const (
	successMessage = "Milkmilk was successful!"
	failureMessage = "Looks like an error happened :( feel free to report the error on GitHub!"
)

func reportSuccess(w io.Writer) {
	_, _ = color.New(color.FgGreen).Fprintln(w, successMessage)
}

// ReportFailure prints the closing failure line. Callers log the cause first.
func ReportFailure(w io.Writer) {
	_, _ = color.New(color.FgRed).Fprintln(w, failureMessage)
}
