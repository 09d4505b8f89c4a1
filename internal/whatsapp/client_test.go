package whatsapp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/spec-kit/complaint-service/internal/config"
)

// The Cloud API serves media in two hops: the media ID resolves to a
// short-lived URL, then the content comes from that URL.
func TestDownloadMedia(t *testing.T) {
	content := []byte("jpeg bytes")

	var srv *httptest.Server
	mux := http.NewServeMux()
	mux.HandleFunc("/media-42", func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("metadata auth header = %q", got)
		}
		json.NewEncoder(w).Encode(map[string]string{"url": srv.URL + "/content/media-42"})
	})
	mux.HandleFunc("/content/media-42", func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("download auth header = %q", got)
		}
		w.Write(content)
	})
	srv = httptest.NewServer(mux)
	defer srv.Close()

	client := NewClient(config.WhatsAppConfig{
		APIURL:      srv.URL,
		AccessToken: "test-token",
	})

	data, err := client.DownloadMedia(context.Background(), "media-42")
	if err != nil {
		t.Fatalf("DownloadMedia: %v", err)
	}
	if string(data) != string(content) {
		t.Errorf("data = %q, want %q", data, content)
	}
}

func TestDownloadMediaMissingURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{}`)
	}))
	defer srv.Close()

	client := NewClient(config.WhatsAppConfig{APIURL: srv.URL, AccessToken: "test-token"})
	if _, err := client.DownloadMedia(context.Background(), "media-42"); err == nil {
		t.Fatal("expected error for missing download url")
	}
}
