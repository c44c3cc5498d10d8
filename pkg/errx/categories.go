package errx

// CreateByCode creates an Error using the provided code, description, and message.
// This is a convenience function that directly calls New() or Wrap().
func CreateByCode(code, description, message string, cause error) *Error {
	if cause != nil {
		return Wrap(code, description, message, cause)
	}
	return New(code, description, message)
}

// FromSentinel creates an Error from a sentinel error and optional message/cause.
// This is useful when you have a sentinel error and want to create an errx.Error
// with the same category. The sentinel is used to determine the category via a lookup function.
func FromSentinel(sentinel error, lookup func(error) (code, description string), message string, cause error) *Error {
	code, desc := lookup(sentinel)
	if code == "" {
		code = CodeCLI
		desc = DescCLI
	}
	return CreateByCode(code, desc, message, cause).WithBase(sentinel)
}

// CLI creates a CLI/argument validation error with code 70000.
// Use this for errors related to command-line argument validation,
// invalid user input, or CLI-specific issues.
func CLI(message string) *Error {
	return New(CodeCLI, DescCLI, message)
}

// WrapCLI wraps a cause with a CLI/argument validation error.
// Use this when a CLI error is caused by another error that should be preserved.
func WrapCLI(message string, cause error) *Error {
	return Wrap(CodeCLI, DescCLI, message, cause)
}

// Transfer creates an image transfer error.
// Per-image copy failures in a batch are reported with this category.
func Transfer(message string) *Error {
	return New(CodeTransfer, DescTransfer, message)
}

// WrapTransfer wraps a cause with an image transfer error.
func WrapTransfer(message string, cause error) *Error {
	return Wrap(CodeTransfer, DescTransfer, message, cause)
}

// Discovery creates a release discovery error.
// Use this when the upstream releases API is unreachable or its response
// is missing the version tag.
func Discovery(message string) *Error {
	return New(CodeDiscovery, DescDiscovery, message)
}

// WrapDiscovery wraps a cause with a release discovery error.
func WrapDiscovery(message string, cause error) *Error {
	return Wrap(CodeDiscovery, DescDiscovery, message, cause)
}
