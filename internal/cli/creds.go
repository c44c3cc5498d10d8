package cli

// This file resolves push credentials from one of three mutually exclusive
// sources: explicit none, an encoded password file, or an interactive
// prompt. The resolved secret lives only in process memory for the duration
// of the push and must never be written to a log or file in cleartext.

import (
	"bufio"
	"encoding/base64"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Credentials holds registry credentials for a push. The zero value means
// no authentication.
type Credentials struct {
	Username string
	Password string
}

// None reports whether no credentials were resolved.
func (c Credentials) None() bool {
	return c.Username == "" && c.Password == ""
}

// ResolveCredentials determines push credentials.
//   - noAuth: returns none; any other credential input is ignored.
//   - passwordFile: the base64-decoded file content is the secret; the
//     username is still prompted for. Decoding is not decryption — the file
//     is treated as sensitively as a cleartext secret.
//   - otherwise both halves are prompted, the password without echo.
func ResolveCredentials(noAuth bool, passwordFile string, in io.Reader, out io.Writer) (Credentials, error) {
	if noAuth {
		return Credentials{}, nil
	}

	var password string
	if passwordFile != "" {
		data, err := os.ReadFile(passwordFile) // #nosec G304 -- operator-chosen path from a flag.
		if err != nil {
			if os.IsNotExist(err) {
				return Credentials{}, wrapWithSentinelAndContext(ErrPasswordFileMissing, err,
					fmt.Sprintf("password file %s not found", passwordFile),
					map[string]any{"path": passwordFile})
			}
			return Credentials{}, wrapWithSentinel(ErrPasswordFileMissing, err,
				fmt.Sprintf("failed to read password file: %v", err))
		}
		decoded, err := base64.StdEncoding.DecodeString(strings.TrimSpace(string(data)))
		if err != nil {
			return Credentials{}, wrapWithSentinelAndContext(ErrPasswordFileMalformed, err,
				fmt.Sprintf("password file %s is not valid base64", passwordFile),
				map[string]any{"path": passwordFile})
		}
		password = string(decoded)
	}

	// One buffered reader for every prompt, so the username read does not
	// swallow the password line.
	reader := bufio.NewReader(in)

	username, err := promptLine(reader, out, "Registry username: ")
	if err != nil {
		return Credentials{}, wrapWithSentinel(ErrUsernameRequired, err, "failed to read username")
	}
	if username == "" {
		return Credentials{}, newWithSentinel(ErrUsernameRequired, "username is required")
	}

	if password == "" {
		password, err = promptPassword(in, reader, out, "Registry password: ")
		if err != nil {
			return Credentials{}, wrapWithSentinel(ErrPasswordRequired, err, "failed to read password")
		}
		if password == "" {
			return Credentials{}, newWithSentinel(ErrPasswordRequired, "password is required")
		}
	}

	return Credentials{Username: username, Password: password}, nil
}

func promptLine(reader *bufio.Reader, out io.Writer, prompt string) (string, error) {
	fmt.Fprint(out, prompt)
	line, err := reader.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// promptPassword reads a secret without echo when attached to a terminal,
// falling back to a plain line read otherwise (pipes, tests).
func promptPassword(in io.Reader, reader *bufio.Reader, out io.Writer, prompt string) (string, error) {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(out, prompt)
		secret, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(out)
		if err != nil {
			return "", err
		}
		return string(secret), nil
	}
	return promptLine(reader, out, prompt)
}
