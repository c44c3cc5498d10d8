package cli

import (
	"bytes"
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreds_NoAuth(t *testing.T) {
	creds, err := ResolveCredentials(true, "", strings.NewReader(""), &bytes.Buffer{})
	require.NoError(t, err)
	assert.True(t, creds.None())
}

func TestCreds_Prompted(t *testing.T) {
	in := strings.NewReader("pusher\ns3cret\n")
	out := &bytes.Buffer{}

	creds, err := ResolveCredentials(false, "", in, out)
	require.NoError(t, err)
	assert.Equal(t, "pusher", creds.Username)
	assert.Equal(t, "s3cret", creds.Password)
	assert.Contains(t, out.String(), "username")
	assert.Contains(t, out.String(), "password")
}

func TestCreds_PasswordFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pw")
	encoded := base64.StdEncoding.EncodeToString([]byte("s3cret"))
	require.NoError(t, os.WriteFile(path, []byte(encoded+"\n"), 0o600))

	in := strings.NewReader("pusher\n")
	creds, err := ResolveCredentials(false, path, in, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, "pusher", creds.Username)
	assert.Equal(t, "s3cret", creds.Password)
}

func TestCreds_PasswordFileMissing(t *testing.T) {
	_, err := ResolveCredentials(false, filepath.Join(t.TempDir(), "nope"), strings.NewReader(""), &bytes.Buffer{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPasswordFileMissing)
}

func TestCreds_PasswordFileMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pw")
	require.NoError(t, os.WriteFile(path, []byte("not base64 at all!!"), 0o600))

	_, err := ResolveCredentials(false, path, strings.NewReader(""), &bytes.Buffer{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPasswordFileMalformed)
}

func TestCreds_EmptyUsername(t *testing.T) {
	_, err := ResolveCredentials(false, "", strings.NewReader("\n"), &bytes.Buffer{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUsernameRequired)
}

func TestCreds_EmptyPassword(t *testing.T) {
	_, err := ResolveCredentials(false, "", strings.NewReader("pusher\n\n"), &bytes.Buffer{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPasswordRequired)
}
