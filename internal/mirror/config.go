// Package mirror emits the registries.yaml mirror configuration consumed by
// RKE2 nodes. The document redirects pulls for the default registry (and a
// wildcard fallback) to the private registry a push batch populated.
package mirror

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"airgapctl/pkg/errx"
)

// PasswordPlaceholder is written in place of the real secret. The file is
// copied onto every node, a different trust boundary than the process that
// resolved the credential, so the operator fills the password in by hand.
const PasswordPlaceholder = "<password>"

// DefaultFileName is the mirror configuration file written after a push.
const DefaultFileName = "registries.yaml"

// Document is an RKE2 registries.yaml.
type Document struct {
	Mirrors map[string]Mirror         `yaml:"mirrors"`
	Configs map[string]RegistryConfig `yaml:"configs,omitempty"`
}

// Mirror lists the endpoints pulls for one source registry redirect to.
type Mirror struct {
	Endpoint []string `yaml:"endpoint"`
}

// RegistryConfig holds per-registry settings, currently only auth.
type RegistryConfig struct {
	Auth *AuthConfig `yaml:"auth,omitempty"`
}

// AuthConfig is the basic-auth block for one registry.
type AuthConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// Build assembles the mirror document for registryURL. Two mirror entries
// are emitted, one for docker.io and one wildcard fallback, both pointing
// at the private registry. username, when non-empty, adds an auth block
// with the password left as a placeholder.
func Build(registryURL, username string) *Document {
	endpoint := registryEndpoint(registryURL)
	doc := &Document{
		Mirrors: map[string]Mirror{
			"docker.io": {Endpoint: []string{endpoint}},
			"*":         {Endpoint: []string{endpoint}},
		},
	}
	if username != "" {
		doc.Configs = map[string]RegistryConfig{
			registryURL: {Auth: &AuthConfig{Username: username, Password: PasswordPlaceholder}},
		}
	}
	return doc
}

// Write marshals the document to path with owner-only permissions.
func (d *Document) Write(path string) error {
	data, err := yaml.Marshal(d)
	if err != nil {
		return errx.Wrap(errx.CodeMirror, errx.DescMirror,
			fmt.Sprintf("failed to marshal mirror configuration: %v", err), err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return errx.Wrap(errx.CodeMirror, errx.DescMirror,
			fmt.Sprintf("failed to write mirror configuration: %v", err), err).
			WithContext("path", path)
	}
	return nil
}

// registryEndpoint normalizes a registry URL into an endpoint value,
// defaulting to https when no scheme was given.
func registryEndpoint(registryURL string) string {
	if strings.HasPrefix(registryURL, "http://") || strings.HasPrefix(registryURL, "https://") {
		return registryURL
	}
	return "https://" + registryURL
}
