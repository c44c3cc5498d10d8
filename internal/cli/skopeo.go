package cli

// This file wraps skopeo, the transfer engine. Every copy forces a single
// fixed architecture so the local store is deterministic across build
// machines, and carries a command timeout so a stalled registry surfaces as
// a per-image failure instead of hanging the batch. Credentials reach
// skopeo through an authfile produced by `skopeo login --password-stdin`;
// the secret is never placed on a command line.

import (
	"fmt"
	"strings"
)

// SkopeoClient wraps skopeo command execution with validation.
type SkopeoClient struct {
	exec       Executor
	validators []ExecValidator
}

// NewSkopeoClient creates a SkopeoClient with default validators.
func NewSkopeoClient(exec Executor) *SkopeoClient {
	return &SkopeoClient{
		exec: exec,
		validators: []ExecValidator{
			NoControlChars(),
		},
	}
}

// CommandArgs builds a skopeo command with the given arguments.
// Validates arguments against configured validators before building.
func (c *SkopeoClient) CommandArgs(args []string) (Command, error) {
	return c.exec.Command("skopeo", args, c.validators...)
}

// Available probes for a usable skopeo binary. Checked as a precondition
// before any network or transfer activity begins.
func (c *SkopeoClient) Available() error {
	cmd, err := c.CommandArgs([]string{"--version"})
	if err != nil {
		return err
	}
	if _, err := cmd.Output(); err != nil {
		return wrapWithSentinel(ErrSkopeoNotFound, err,
			"skopeo not found; install it first (e.g. apt-get install skopeo)")
	}
	return nil
}

// Copy transfers one image from src to dest, implementing transfer.Engine.
// authfile, when non-empty, is attached for docker:// destinations only.
func (c *SkopeoClient) Copy(src, dest, authfile string) error {
	args := []string{
		"--command-timeout", DefaultCLIConfig.CopyTimeout.String(),
		"copy", "--override-arch", DefaultCLIConfig.Arch,
	}
	if authfile != "" && strings.HasPrefix(dest, "docker://") {
		args = append(args, "--dest-authfile", authfile)
	}
	args = append(args, src, dest)

	// #nosec G204 -- src/dest are image references and store paths built
	// from parsed manifest entries, validated for control characters.
	cmd, err := c.CommandArgs(args)
	if err != nil {
		return err
	}
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("skopeo copy %s -> %s: %w: %s", src, dest, err, lastOutputLine(out))
	}
	return nil
}

// Login authenticates against registryURL into the given authfile. The
// password travels over stdin, never argv.
func (c *SkopeoClient) Login(registryURL, username, password, authfile string) error {
	// #nosec G204 -- registry and username from validated flags; password via stdin.
	cmd, err := c.CommandArgs([]string{
		"login", "--authfile", authfile, "--username", username, "--password-stdin", registryURL,
	})
	if err != nil {
		return err
	}
	cmd.SetStdin(strings.NewReader(password))
	out, err := cmd.CombinedOutput()
	if err != nil {
		return wrapWithSentinelAndContext(ErrRegistryLogin, err,
			fmt.Sprintf("failed to login to %s: %v", registryURL, err),
			map[string]any{"registry": registryURL, "output": lastOutputLine(out)})
	}
	return nil
}

// lastOutputLine trims skopeo's combined output to its final line, which
// carries the actionable message.
func lastOutputLine(out []byte) string {
	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	if len(lines) == 0 {
		return ""
	}
	return lines[len(lines)-1]
}
