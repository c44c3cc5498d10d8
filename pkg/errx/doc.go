// Package errx provides structured, code-based errors for the airgapctl CLI.
//
// The package implements a code-based error system where each error has:
//   - A stable 5-digit error code (e.g., "73000" for transfer errors)
//   - A category description (e.g., "Image transfer error")
//   - A user-facing message
//   - Optional structured context (key-value pairs)
//   - Optional cause and base sentinel errors
//
// Error codes follow a scheme where the first two digits represent the domain:
//   - 70xxx: CLI/argument validation errors
//   - 71xxx: Release discovery errors
//   - 72xxx: Image manifest errors
//   - 73xxx: Image transfer errors
//   - 74xxx: Credential resolution errors
//   - 75xxx: Mirror configuration errors
//   - 76xxx: Registry hosting errors
//   - 77xxx: Configuration errors
//
// The last three digits are reserved for subcodes (future use).
//
// Example usage:
//
//	err := errx.Transfer("failed to copy image").
//		WithContext("image", "docker.io/rancher/rke2-runtime:v1.34.1").
//		WithBase(sentinelErr)
//
//	if errors.Is(err, sentinelErr) {
//		// Handle specific error
//	}
//
//	fmt.Println(errx.UserString(err))  // User-friendly message
//	fmt.Println(errx.DebugString(err)) // Full debug details
package errx
