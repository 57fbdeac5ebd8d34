package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/hazyhaar/docintel/pipeline"
	"github.com/hazyhaar/docintel/registry"
)

func newTestService(t *testing.T, cfg Config, reg *registry.Registry) *Service {
	t.Helper()
	p, err := pipeline.New(pipeline.Config{}, reg)
	if err != nil {
		t.Fatalf("pipeline.New: %v", err)
	}
	t.Cleanup(func() { p.Close() })
	return New(cfg, p)
}

func TestHealth(t *testing.T) {
	s := newTestService(t, Config{}, nil)
	srv := httptest.NewServer(s.Router())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d", resp.StatusCode)
	}
}

func TestExtractEndpoint(t *testing.T) {
	s := newTestService(t, Config{}, nil)
	srv := httptest.NewServer(s.Router())
	defer srv.Close()

	req, _ := http.NewRequest(http.MethodPost, srv.URL+"/v1/extract",
		strings.NewReader("some document text"))
	req.Header.Set("X-Filename", "doc.txt")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	var result pipeline.ExtractionResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatal(err)
	}
	if result.Content != "some document text" {
		t.Errorf("content = %q", result.Content)
	}
	if result.MimeType != "text/plain" {
		t.Errorf("mime = %q", result.MimeType)
	}
}

func TestExtractEmptyBody(t *testing.T) {
	s := newTestService(t, Config{}, nil)
	srv := httptest.NewServer(s.Router())
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/v1/extract", "application/octet-stream", nil)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestExtractUnsupportedFormat(t *testing.T) {
	s := newTestService(t, Config{}, nil)
	srv := httptest.NewServer(s.Router())
	defer srv.Close()

	png := []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0}
	resp, err := http.Post(srv.URL+"/v1/extract", "application/octet-stream", bytes.NewReader(png))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnsupportedMediaType {
		t.Errorf("status = %d, want 415", resp.StatusCode)
	}
}

func TestBatchEndpoint(t *testing.T) {
	s := newTestService(t, Config{}, nil)
	srv := httptest.NewServer(s.Router())
	defer srv.Close()

	body, _ := json.Marshal(batchRequest{Documents: []batchDocument{
		{Data: []byte("first doc"), Filename: "a.txt"},
		{Data: []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}, Filename: "b.png"},
	}})

	resp, err := http.Post(srv.URL+"/v1/batch", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	var out struct {
		BatchID string              `json:"batch_id"`
		Items   []batchItemResponse `json:"items"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if out.BatchID == "" {
		t.Error("missing batch_id")
	}
	if len(out.Items) != 2 {
		t.Fatalf("items = %d", len(out.Items))
	}
	if out.Items[0].Error != "" || out.Items[0].Result == nil {
		t.Errorf("item 0 = %+v", out.Items[0])
	}
	if out.Items[1].Error == "" {
		t.Error("item 1 should carry the decode error")
	}
}

func TestPluginsListAndDelete(t *testing.T) {
	reg := registry.New()
	if err := reg.RegisterValidator(registry.ValidatorFunc("length-check", 50,
		func(context.Context, string) (string, error) { return "", nil })); err != nil {
		t.Fatal(err)
	}

	s := newTestService(t, Config{}, reg)
	srv := httptest.NewServer(s.Router())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/v1/plugins")
	if err != nil {
		t.Fatal(err)
	}
	var listing struct {
		Validators []string `json:"validators"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&listing); err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if len(listing.Validators) != 1 || listing.Validators[0] != "length-check" {
		t.Fatalf("validators = %v", listing.Validators)
	}

	req, _ := http.NewRequest(http.MethodDelete, srv.URL+"/v1/plugins/validator/length-check", nil)
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("delete status = %d", resp.StatusCode)
	}

	req, _ = http.NewRequest(http.MethodDelete, srv.URL+"/v1/plugins/validator/length-check", nil)
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("second delete status = %d, want 404", resp.StatusCode)
	}
}

func TestBasicAuth(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	s := newTestService(t, Config{AuthUser: "ops", AuthHash: string(hash)}, nil)
	srv := httptest.NewServer(s.Router())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("unauthenticated status = %d, want 401", resp.StatusCode)
	}

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/healthz", nil)
	req.SetBasicAuth("ops", "secret")
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("authenticated status = %d, want 200", resp.StatusCode)
	}

	req.SetBasicAuth("ops", "wrong")
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("wrong password status = %d, want 401", resp.StatusCode)
	}
}
