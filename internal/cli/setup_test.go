package cli

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// quietPrinter silences user-facing output for the duration of a test.
func quietPrinter(t *testing.T) {
	t.Helper()
	prev := DefaultPrinter
	DefaultPrinter = &Printer{Quiet: true}
	t.Cleanup(func() { DefaultPrinter = prev })
}

// withManifestServer stands up a synthetic release backend serving the given
// versions and image list, and points the CLI configuration at it until the
// test ends.
func withManifestServer(t *testing.T, rke2Tag, cniTag string, images []string) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/rke2/latest", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprintf(w, `{"tag_name": %q}`, rke2Tag)
	})
	mux.HandleFunc("/cni/latest", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprintf(w, `{"tag_name": %q}`, cniTag)
	})
	mux.HandleFunc("/list/", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, strings.Join(images, "\n"))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	prev := DefaultCLIConfig
	DefaultCLIConfig.RKE2ReleasesAPI = server.URL + "/rke2"
	DefaultCLIConfig.CNIReleasesAPI = server.URL + "/cni"
	DefaultCLIConfig.ImageListURL = server.URL + "/list/%s"
	t.Cleanup(func() { DefaultCLIConfig = prev })

	return server
}

// withBrokenManifestServer points the CLI configuration at a backend that
// fails every request.
func withBrokenManifestServer(t *testing.T) {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "nope", http.StatusNotFound)
	}))
	t.Cleanup(server.Close)

	prev := DefaultCLIConfig
	DefaultCLIConfig.RKE2ReleasesAPI = server.URL + "/rke2"
	DefaultCLIConfig.CNIReleasesAPI = server.URL + "/cni"
	DefaultCLIConfig.ImageListURL = server.URL + "/list/%s"
	t.Cleanup(func() { DefaultCLIConfig = prev })
}
