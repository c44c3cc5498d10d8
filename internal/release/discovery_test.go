package release

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func newTestClient() *Client {
	c := NewClient(5*time.Second, nil)
	c.attempts = 1
	return c
}

func TestClient_LatestVersion(t *testing.T) {
	t.Run("returns tag_name", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/releases/latest" {
				t.Errorf("unexpected path %q", r.URL.Path)
			}
			fmt.Fprint(w, `{"tag_name":"v1.34.1+rke2r1","assets":[]}`)
		}))
		defer srv.Close()

		got, err := newTestClient().LatestVersion(context.Background(), srv.URL+"/releases", "rke2")
		if err != nil {
			t.Fatalf("LatestVersion error: %v", err)
		}
		if got != "v1.34.1+rke2r1" {
			t.Errorf("LatestVersion = %q, want %q", got, "v1.34.1+rke2r1")
		}
	})

	t.Run("missing tag_name is a discovery error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"name":"nightly"}`)
		}))
		defer srv.Close()

		_, err := newTestClient().LatestVersion(context.Background(), srv.URL+"/releases", "rke2")
		if !errors.Is(err, ErrVersionTagMissing) {
			t.Fatalf("expected ErrVersionTagMissing, got %v", err)
		}
	})

	t.Run("malformed body is a discovery error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `not json`)
		}))
		defer srv.Close()

		_, err := newTestClient().LatestVersion(context.Background(), srv.URL+"/releases", "cni")
		if !errors.Is(err, ErrReleaseUnreachable) {
			t.Fatalf("expected ErrReleaseUnreachable, got %v", err)
		}
	})

	t.Run("unreachable endpoint is a discovery error", func(t *testing.T) {
		_, err := newTestClient().LatestVersion(context.Background(), "http://127.0.0.1:1/releases", "rke2")
		if !errors.Is(err, ErrReleaseUnreachable) {
			t.Fatalf("expected ErrReleaseUnreachable, got %v", err)
		}
	})

	t.Run("retries transient server errors", func(t *testing.T) {
		calls := 0
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls++
			if calls == 1 {
				w.WriteHeader(http.StatusBadGateway)
				return
			}
			fmt.Fprint(w, `{"tag_name":"v0.27.4"}`)
		}))
		defer srv.Close()

		c := NewClient(5*time.Second, nil)
		c.attempts = 3
		got, err := c.LatestVersion(context.Background(), srv.URL+"/releases", "cni")
		if err != nil {
			t.Fatalf("LatestVersion error: %v", err)
		}
		if got != "v0.27.4" {
			t.Errorf("LatestVersion = %q, want %q", got, "v0.27.4")
		}
		if calls != 2 {
			t.Errorf("expected 2 calls, got %d", calls)
		}
	})

	t.Run("does not retry 404", func(t *testing.T) {
		calls := 0
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls++
			w.WriteHeader(http.StatusNotFound)
		}))
		defer srv.Close()

		c := NewClient(5*time.Second, nil)
		c.attempts = 3
		if _, err := c.LatestVersion(context.Background(), srv.URL+"/releases", "rke2"); err == nil {
			t.Fatal("expected error for 404")
		}
		if calls != 1 {
			t.Errorf("expected 1 call for client error, got %d", calls)
		}
	})
}

func TestClient_FetchImageList(t *testing.T) {
	t.Run("parses lines in order, skipping blanks", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, "docker.io/rancher/rke2-runtime:v1.34.1-rke2r1\n\n  \nrancher/klipper-lb:v0.4.9\nrancher/hardened-etcd:v3.5.16\n")
		}))
		defer srv.Close()

		got, err := newTestClient().FetchImageList(context.Background(), srv.URL+"/rke2-images.linux-amd64.txt")
		if err != nil {
			t.Fatalf("FetchImageList error: %v", err)
		}
		want := []ImageReference{
			{Registry: "docker.io", Repository: "rancher/rke2-runtime", Tag: "v1.34.1-rke2r1"},
			{Registry: "docker.io", Repository: "rancher/klipper-lb", Tag: "v0.4.9"},
			{Registry: "docker.io", Repository: "rancher/hardened-etcd", Tag: "v3.5.16"},
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("FetchImageList mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("404 is a manifest fetch error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer srv.Close()

		_, err := newTestClient().FetchImageList(context.Background(), srv.URL+"/missing.txt")
		if !errors.Is(err, ErrImageListFetchFailed) {
			t.Fatalf("expected ErrImageListFetchFailed, got %v", err)
		}
	})

	t.Run("duplicate lines are preserved", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, "rancher/mirrored-pause:3.6\nrancher/mirrored-pause:3.6\n")
		}))
		defer srv.Close()

		got, err := newTestClient().FetchImageList(context.Background(), srv.URL+"/list.txt")
		if err != nil {
			t.Fatalf("FetchImageList error: %v", err)
		}
		if len(got) != 2 {
			t.Fatalf("expected duplicates preserved, got %d entries", len(got))
		}
	})
}
