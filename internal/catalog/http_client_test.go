package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFindOneDecodesEntity(t *testing.T) {
	var gotBody searchRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/entity/Sequence/_search" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("X-Script-Name") != "stockwell" {
			t.Errorf("missing script name header")
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode request: %v", err)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]any{"type": "Sequence", "id": 7, "attributes": map[string]any{"code": "stock"}},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, "stockwell", "key", nil)
	entity, err := client.FindOne(context.Background(), TypeCategory, []Filter{Is("code", "stock")}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if entity == nil || entity.ID != 7 {
		t.Fatalf("entity = %+v", entity)
	}
	if entity.Fields["code"] != "stock" {
		t.Fatalf("fields = %v", entity.Fields)
	}
	if len(gotBody.Filters) != 1 || gotBody.Filters[0][1] != "is" {
		t.Fatalf("filters = %v", gotBody.Filters)
	}
}

func TestFindOneNoMatchReturnsNil(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"data": nil})
	}))
	defer server.Close()

	client := NewClient(server.URL, "s", "k", nil)
	entity, err := client.FindOne(context.Background(), TypeAsset, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if entity != nil {
		t.Fatalf("expected nil entity, got %+v", entity)
	}
}

func TestCreateReturnsHandle(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			Data Fields `json:"data"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if payload.Data["code"] != "render (mov)" {
			t.Errorf("data = %v", payload.Data)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]any{"type": "Asset", "id": 12},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, "s", "k", nil)
	entity, err := client.Create(context.Background(), TypeAsset, Fields{"code": "render (mov)"})
	if err != nil {
		t.Fatal(err)
	}
	if entity.ID != 12 || entity.Type != "Asset" {
		t.Fatalf("entity = %+v", entity)
	}
}

func TestServerErrorIsBadResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL, "s", "k", nil)
	_, err := client.FindOne(context.Background(), TypeVersion, nil, nil)
	if !errors.Is(err, ErrBadResponse) {
		t.Fatalf("err = %v, want ErrBadResponse", err)
	}
}

func TestUploadSendsMultipart(t *testing.T) {
	var gotPath, contentType string
	var gotFilename string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		contentType = r.Header.Get("Content-Type")
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
			return
		}
		if files := r.MultipartForm.File["file"]; len(files) == 1 {
			gotFilename = files[0].Filename
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	dir := t.TempDir()
	moviePath := filepath.Join(dir, "proxy.mov")
	if err := os.WriteFile(moviePath, []byte("movie-bytes"), 0o644); err != nil {
		t.Fatal(err)
	}

	client := NewClient(server.URL, "s", "k", nil)
	if err := client.Upload(context.Background(), TypeVersion, 33, moviePath, FieldUploadedMovie); err != nil {
		t.Fatal(err)
	}
	if gotPath != "/api/v1/entity/Version/33/sg_uploaded_movie/_upload" {
		t.Fatalf("path = %s", gotPath)
	}
	if !strings.HasPrefix(contentType, "multipart/form-data") {
		t.Fatalf("content type = %s", contentType)
	}
	if gotFilename != "proxy.mov" {
		t.Fatalf("filename = %s", gotFilename)
	}
}

func TestFindOrCreateSkipsCreateWhenFound(t *testing.T) {
	creates := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/_search") {
			_ = json.NewEncoder(w).Encode(map[string]any{
				"data": map[string]any{"type": "Sequence", "id": 5},
			})
			return
		}
		creates++
		_ = json.NewEncoder(w).Encode(map[string]any{"data": map[string]any{"type": "Sequence", "id": 6}})
	}))
	defer server.Close()

	client := NewClient(server.URL, "s", "k", nil)
	entity, created, err := FindOrCreate(context.Background(), client, TypeCategory, []Filter{Is("code", "x")}, Fields{"code": "x"})
	if err != nil {
		t.Fatal(err)
	}
	if created {
		t.Fatal("expected find, not create")
	}
	if entity.ID != 5 {
		t.Fatalf("entity id = %d", entity.ID)
	}
	if creates != 0 {
		t.Fatalf("create called %d times", creates)
	}
}

func TestFindOrCreateCreatesWhenMissing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/_search") {
			_ = json.NewEncoder(w).Encode(map[string]any{"data": nil})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"data": map[string]any{"type": "Sequence", "id": 9}})
	}))
	defer server.Close()

	client := NewClient(server.URL, "s", "k", nil)
	entity, created, err := FindOrCreate(context.Background(), client, TypeCategory, nil, Fields{"code": "x"})
	if err != nil {
		t.Fatal(err)
	}
	if !created || entity.ID != 9 {
		t.Fatalf("created=%v entity=%+v", created, entity)
	}
}
