package errors

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/flowday/flowday/internal/api"
	"github.com/flowday/flowday/internal/logger"
	"github.com/flowday/flowday/internal/validation"
)

// NetworkMessage is shown for transport failures, which carry no server message.
const NetworkMessage = "Could not reach the Flowday API. Check your connection and try again."

// Format formats an error message with a consistent "Error: " prefix
func Format(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %v", err)
}

// Formatf formats an error message with a consistent "Error: " prefix using a format string
func Formatf(format string, args ...interface{}) string {
	return fmt.Sprintf("Error: "+format, args...)
}

// UserMessage maps an error to the text shown to the user: local validation
// problems as-is, remote rejections with the server's message verbatim and
// network failures with a generic message.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var remote *api.RemoteError
	if stderrors.As(err, &remote) {
		if remote.Message != "" {
			return remote.Message
		}
		return fmt.Sprintf("Request failed with status %d", remote.StatusCode)
	}

	var network *api.NetworkError
	if stderrors.As(err, &network) {
		return NetworkMessage
	}

	var invalid *validation.Error
	if stderrors.As(err, &invalid) {
		return invalid.Error()
	}

	if stderrors.Is(err, api.ErrUnauthorized) {
		return "Not signed in. Run 'flowday auth login <token>' first."
	}

	return err.Error()
}

// Fatal logs an error and exits the program with exit code 1
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err)
		fmt.Fprintf(os.Stderr, "%s\n", Formatf("%s", UserMessage(err)))
		os.Exit(1)
	}
}

// Fatalf logs and formats an error message, then exits the program with exit code 1
func Fatalf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	logger.Error("Command execution failed", "error", msg)
	fmt.Fprintf(os.Stderr, "%s\n", Formatf(format, args...))
	os.Exit(1)
}
