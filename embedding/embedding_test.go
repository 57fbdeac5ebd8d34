package embedding

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestNoopEmbedder(t *testing.T) {
	emb := New(Config{Dimension: 256, Model: "test-noop"})

	vecs, err := emb.EmbedBatch(context.Background(), []string{"a", "b"})
	if err != nil {
		t.Fatal(err)
	}
	if len(vecs) != 2 {
		t.Fatalf("expected 2 vectors, got %d", len(vecs))
	}
	for i, v := range vecs {
		if len(v) != 256 {
			t.Fatalf("vec[%d] has %d dims, expected 256", i, len(v))
		}
	}
	if emb.Dimension() != 256 {
		t.Fatalf("expected dimension 256, got %d", emb.Dimension())
	}
	if emb.Model() != "test-noop" {
		t.Fatalf("expected model test-noop, got %q", emb.Model())
	}
}

func newMockServer(t *testing.T, dim int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/embeddings" {
			t.Errorf("unexpected path: %s", r.URL.Path)
			http.Error(w, "not found", 404)
			return
		}
		var req embedRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), 400)
			return
		}
		data := make([]map[string]any, len(req.Input))
		for i := range data {
			vec := make([]float32, dim)
			for j := range vec {
				vec[j] = float32(i+1) * 0.5
			}
			data[i] = map[string]any{"embedding": vec, "index": i}
		}
		json.NewEncoder(w).Encode(map[string]any{"data": data, "model": req.Model})
	}))
}

func TestHTTPClientBatch(t *testing.T) {
	srv := newMockServer(t, 4)
	defer srv.Close()

	emb := New(Config{Endpoint: srv.URL, Model: "e5-test"})
	vecs, err := emb.EmbedBatch(context.Background(), []string{"one", "two", "three"})
	if err != nil {
		t.Fatal(err)
	}
	if len(vecs) != 3 {
		t.Fatalf("expected 3 vectors, got %d", len(vecs))
	}
	// Order must match input order.
	if vecs[0][0] != 0.5 || vecs[1][0] != 1.0 || vecs[2][0] != 1.5 {
		t.Errorf("vectors out of order: %v", vecs)
	}
}

func TestHTTPClientDimensionAutoDetect(t *testing.T) {
	srv := newMockServer(t, 12)
	defer srv.Close()

	emb := New(Config{Endpoint: srv.URL})
	if emb.Dimension() != 0 {
		t.Fatalf("dimension before first call: got %d, want 0", emb.Dimension())
	}
	if _, err := emb.EmbedBatch(context.Background(), []string{"x"}); err != nil {
		t.Fatal(err)
	}
	if emb.Dimension() != 12 {
		t.Errorf("auto-detected dimension: got %d, want 12", emb.Dimension())
	}
}

func TestHTTPClientSplitsLargeBatches(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		var req embedRequest
		json.NewDecoder(r.Body).Decode(&req)
		if len(req.Input) > 2 {
			t.Errorf("batch of %d exceeds configured size 2", len(req.Input))
		}
		data := make([]map[string]any, len(req.Input))
		for i := range data {
			data[i] = map[string]any{"embedding": []float32{1}, "index": i}
		}
		json.NewEncoder(w).Encode(map[string]any{"data": data})
	}))
	defer srv.Close()

	emb := New(Config{Endpoint: srv.URL, BatchSize: 2})
	vecs, err := emb.EmbedBatch(context.Background(), []string{"a", "b", "c", "d", "e"})
	if err != nil {
		t.Fatal(err)
	}
	if len(vecs) != 5 {
		t.Fatalf("expected 5 vectors, got %d", len(vecs))
	}
	if calls != 3 {
		t.Errorf("expected 3 HTTP calls, got %d", calls)
	}
}

func TestHTTPClientServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "model not loaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	emb := New(Config{Endpoint: srv.URL})
	if _, err := emb.EmbedBatch(context.Background(), []string{"x"}); err == nil {
		t.Fatal("expected error from 503 response")
	}
}

func TestHTTPClientContextCancel(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
		<-block
	}))
	defer srv.Close()
	defer close(block)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	emb := New(Config{Endpoint: srv.URL})
	if _, err := emb.EmbedBatch(ctx, []string{"x"}); err == nil {
		t.Fatal("expected error from canceled context")
	}
}
