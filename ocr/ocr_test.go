package ocr

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestRemoteProcessImage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/ocr" {
			t.Errorf("path = %q, want /v1/ocr", r.URL.Path)
		}
		var req ocrRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Language != "eng" {
			t.Errorf("language = %q, want eng", req.Language)
		}
		json.NewEncoder(w).Encode(ocrResponse{Text: "recognized text"})
	}))
	defer srv.Close()

	backend := NewRemote(Config{Name: "test-ocr", Endpoint: srv.URL, Languages: []string{"eng", "deu"}})
	text, err := backend.ProcessImage(context.Background(), "aW1hZ2U=", "eng")
	if err != nil {
		t.Fatalf("ProcessImage: %v", err)
	}
	if text != "recognized text" {
		t.Errorf("text = %q", text)
	}
}

func TestRemoteServiceError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(ocrResponse{Error: "unsupported image format"})
	}))
	defer srv.Close()

	backend := NewRemote(Config{Endpoint: srv.URL})
	_, err := backend.ProcessImage(context.Background(), "xx", "")
	if err == nil || !strings.Contains(err.Error(), "unsupported image format") {
		t.Fatalf("err = %v, want service error", err)
	}
}

func TestRemoteHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	backend := NewRemote(Config{Endpoint: srv.URL})
	_, err := backend.ProcessImage(context.Background(), "xx", "")
	if err == nil || !strings.Contains(err.Error(), "503") {
		t.Fatalf("err = %v, want HTTP 503", err)
	}
}

func TestRemoteContextCancel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(2 * time.Second)
	}))
	defer srv.Close()

	backend := NewRemote(Config{Endpoint: srv.URL})
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := backend.ProcessImage(ctx, "xx", "")
	if err == nil {
		t.Fatal("expected context deadline error")
	}
}

func TestRemoteMetadata(t *testing.T) {
	backend := NewRemote(Config{Name: "svc", Languages: []string{"eng"}})
	if backend.Name() != "svc" {
		t.Errorf("Name() = %q", backend.Name())
	}
	if len(backend.SupportedLanguages()) != 1 {
		t.Errorf("SupportedLanguages() = %v", backend.SupportedLanguages())
	}
}
