package cli

// This file defines error handling utilities for the CLI, including:
//   - Sentinel errors for each error category (CLI, Discovery, Transfer, ...)
//   - Error wrapping functions that integrate with the errx error system
//   - Structured error logging with context
//   - Debug mode management for error output

import (
	"errors"
	"sync"

	"go.uber.org/zap"

	"airgapctl/pkg/errx"
)

var (
	debugMode   bool
	debugModeMu sync.RWMutex
)

// SetDebugMode sets the global debug mode flag.
// When enabled, logStructuredError will output structured error logs to terminal.
func SetDebugMode(enabled bool) {
	debugModeMu.Lock()
	defer debugModeMu.Unlock()
	debugMode = enabled
}

// IsDebugMode returns whether debug mode is enabled.
func IsDebugMode() bool {
	debugModeMu.RLock()
	defer debugModeMu.RUnlock()
	return debugMode
}

type errorSpec struct {
	code        string
	description string
}

// newSentinelError creates a sentinel error and registers it in errorSpecs
// in one step, keeping the definition and the category mapping together.
func newSentinelError(msg string, code, description string) error {
	err := errors.New(msg)
	errorSpecs[err] = errorSpec{code: code, description: description}
	return err
}

// errorSpecs maps sentinel errors to their error codes and descriptions.
// Populated automatically by newSentinelError() during variable initialization.
// Must be declared before sentinel errors to ensure proper initialization order.
var errorSpecs = make(map[error]errorSpec)

// lookupSpec provides a lookup function for errx.FromSentinel.
func lookupSpec(sentinel error) (code, description string) {
	spec := specFor(sentinel)
	return spec.code, spec.description
}

// newWithSentinel creates a new error using the appropriate errx category.
func newWithSentinel(base error, msg string) error {
	if base == nil {
		return errx.CreateByCode(errx.CodeCLI, errx.DescCLI, msg, nil)
	}
	return errx.FromSentinel(base, lookupSpec, msg, nil)
}

// wrapWithSentinel wraps a cause error using the appropriate errx category.
func wrapWithSentinel(base, cause error, msg string) error {
	if base == nil {
		return errx.CreateByCode(errx.CodeCLI, errx.DescCLI, msg, cause)
	}
	return errx.FromSentinel(base, lookupSpec, msg, cause)
}

// wrapWithSentinelAndContext wraps an error with additional structured context.
func wrapWithSentinelAndContext(base, cause error, msg string, context map[string]any) error {
	err := wrapWithSentinel(base, cause, msg)
	if errxErr, ok := err.(*errx.Error); ok && len(context) > 0 {
		return errxErr.WithContextMap(context)
	}
	return err
}

// Sentinel errors for CLI operations.
var (
	// CLI/validation errors.
	ErrRegistryURLRequired = newSentinelError("registry url is required", errx.CodeCLI, errx.DescCLI)
	ErrDownloadDirMissing  = newSentinelError("download directory does not exist", errx.CodeCLI, errx.DescCLI)
	ErrCreateDownloadDir   = newSentinelError("failed to create download directory", errx.CodeCLI, errx.DescCLI)

	// Transfer errors.
	ErrSkopeoNotFound  = newSentinelError("skopeo not found", errx.CodeTransfer, errx.DescTransfer)
	ErrTransferBatch   = newSentinelError("transfer batch had failures", errx.CodeTransfer, errx.DescTransfer)
	ErrRegistryLogin   = newSentinelError("failed to login to registry", errx.CodeCredential, errx.DescCredential)
	ErrAuthfileCreate  = newSentinelError("failed to create auth file", errx.CodeCredential, errx.DescCredential)
	ErrAuthfileCleanup = newSentinelError("failed to remove auth file", errx.CodeCredential, errx.DescCredential)

	// Credential errors.
	ErrPasswordFileMissing   = newSentinelError("password file not found", errx.CodeCredential, errx.DescCredential)
	ErrPasswordFileMalformed = newSentinelError("password file is not valid base64", errx.CodeCredential, errx.DescCredential)
	ErrUsernameRequired      = newSentinelError("username is required", errx.CodeCredential, errx.DescCredential)
	ErrPasswordRequired      = newSentinelError("password is required", errx.CodeCredential, errx.DescCredential)

	// Registry hosting errors.
	ErrUnsupportedOS        = newSentinelError("unsupported operating system", errx.CodeRegistry, errx.DescRegistry)
	ErrDockerInstallFailed  = newSentinelError("failed to install docker", errx.CodeRegistry, errx.DescRegistry)
	ErrRegistryStartFailed  = newSentinelError("failed to start registry container", errx.CodeRegistry, errx.DescRegistry)
	ErrRegistryRemoveFailed = newSentinelError("failed to remove previous registry container", errx.CodeRegistry, errx.DescRegistry)

	// Mirror configuration errors.
	ErrMirrorConfigWrite = newSentinelError("failed to write mirror configuration", errx.CodeMirror, errx.DescMirror)
)

func specFor(base error) errorSpec {
	spec, ok := errorSpecs[base]
	if ok {
		return spec
	}
	return errorSpec{code: errx.CodeCLI, description: errx.DescCLI}
}

// logStructuredError logs an error with structured fields to terminal.
// Only logs when debug mode is enabled (via --debug flag).
// The zap logger is configured with console encoding, so structured fields
// are displayed in a human-readable format in the terminal.
func logStructuredError(logger *zap.Logger, err error, msg string) {
	if logger == nil || err == nil || !IsDebugMode() {
		return
	}

	var errxErr *errx.Error
	if errors.As(err, &errxErr) {
		fields := []zap.Field{
			zap.String("error.code", errxErr.Code()),
			zap.String("error.category", errxErr.Description()),
			zap.String("error.message", errxErr.Message()),
			zap.Error(err),
		}

		if ctx := errxErr.Context(); ctx != nil {
			for key, value := range ctx {
				fields = append(fields, zap.Any("error.context."+key, value))
			}
		}

		if cause := errxErr.Cause(); cause != nil {
			fields = append(fields, zap.NamedError("error.cause", cause))
		}

		logger.Error(msg, fields...)
	} else {
		logger.Error(msg, zap.Error(err))
	}
}
