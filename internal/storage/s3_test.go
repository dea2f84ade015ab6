package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// fakeS3 is a minimal path-style object store that understands the three
// object operations the KV uses.
type fakeS3 struct {
	mu      sync.Mutex
	objects map[string][]byte
	puts    int
}

func (f *fakeS3) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch r.Method {
	case http.MethodPut:
		body, _ := io.ReadAll(r.Body)
		f.objects[r.URL.Path] = body
		f.puts++
		w.WriteHeader(http.StatusOK)
	case http.MethodGet:
		body, ok := f.objects[r.URL.Path]
		if !ok {
			w.Header().Set("Content-Type", "application/xml")
			w.WriteHeader(http.StatusNotFound)
			io.WriteString(w, `<?xml version="1.0" encoding="UTF-8"?><Error><Code>NoSuchKey</Code><Message>The specified key does not exist.</Message></Error>`)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write(body)
	case http.MethodDelete:
		delete(f.objects, r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func testKV(t *testing.T) (*KV, *fakeS3) {
	t.Helper()
	fake := &fakeS3{objects: make(map[string][]byte)}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	kv, err := New(Options{
		Endpoint:  srv.URL + "/",
		Region:    "eu-central",
		AccessKey: "test",
		SecretKey: "test",
		Bucket:    "catalog",
		Prefix:    "discovery/",
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return kv, fake
}

func TestNewRequiresConfig(t *testing.T) {
	tests := []struct {
		name string
		opts Options
	}{
		{"no endpoint", Options{AccessKey: "a", SecretKey: "b", Bucket: "c"}},
		{"no credentials", Options{Endpoint: "http://localhost:9000", Bucket: "c"}},
		{"no bucket", Options{Endpoint: "http://localhost:9000", AccessKey: "a", SecretKey: "b"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.opts); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestKVRoundTrip(t *testing.T) {
	kv, fake := testKV(t)
	ctx := context.Background()

	if _, ok, err := kv.Get(ctx, "catalog-overrides"); err != nil || ok {
		t.Fatalf("Get before Set: ok=%v err=%v", ok, err)
	}

	blob := []byte(`{"version":1,"studies":{},"videos":{}}`)
	if err := kv.Set(ctx, "catalog-overrides", blob); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if _, ok := fake.objects["/catalog/discovery/catalog-overrides"]; !ok {
		t.Errorf("object not stored at path-style key; have %v", fake.objects)
	}

	got, ok, err := kv.Get(ctx, "catalog-overrides")
	if err != nil || !ok {
		t.Fatalf("Get: ok=%v err=%v", ok, err)
	}
	if string(got) != string(blob) {
		t.Errorf("got %q, want %q", got, blob)
	}

	if err := kv.Remove(ctx, "catalog-overrides"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, ok, err := kv.Get(ctx, "catalog-overrides"); err != nil || ok {
		t.Errorf("Get after Remove: ok=%v err=%v", ok, err)
	}
}

func TestKVServerErrorIsReported(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/xml")
		w.WriteHeader(http.StatusForbidden)
		io.WriteString(w, `<Error><Code>AccessDenied</Code><Message>denied</Message></Error>`)
	}))
	defer srv.Close()

	kv, err := New(Options{Endpoint: srv.URL, AccessKey: "a", SecretKey: "b", Bucket: "catalog"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, _, err := kv.Get(context.Background(), "saved-items"); err == nil {
		t.Error("expected error for AccessDenied")
	}
}
