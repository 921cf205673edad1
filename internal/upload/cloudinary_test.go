package upload

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestUploadSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/my-cloud/image/upload" {
			t.Errorf("path = %q, want /my-cloud/image/upload", r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parsing multipart form: %v", err)
		}
		if got := r.FormValue("upload_preset"); got != "unsigned-preset" {
			t.Errorf("upload_preset = %q, want unsigned-preset", got)
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			t.Fatalf("reading file part: %v", err)
		}
		defer file.Close()
		if header.Filename != "poster.png" {
			t.Errorf("filename = %q, want poster.png", header.Filename)
		}
		data, _ := io.ReadAll(file)
		if string(data) != "png bytes" {
			t.Errorf("file contents = %q", data)
		}
		w.Write([]byte(`{"secure_url":"https://res.example.com/image/upload/v1/abc.png"}`))
	}))
	defer srv.Close()

	client := NewClientWithBaseURL("my-cloud", "unsigned-preset", srv.URL)
	url, err := client.Upload(context.Background(), "poster.png", strings.NewReader("png bytes"))
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	if url != "https://res.example.com/image/upload/v1/abc.png" {
		t.Errorf("Upload() url = %q", url)
	}
}

func TestUploadRejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"message":"Upload preset not found"}}`))
	}))
	defer srv.Close()

	client := NewClientWithBaseURL("my-cloud", "bad-preset", srv.URL)
	_, err := client.Upload(context.Background(), "poster.png", strings.NewReader("png bytes"))
	if err == nil {
		t.Fatal("expected an error")
	}
	if !strings.Contains(err.Error(), "Upload preset not found") {
		t.Errorf("error must carry the upstream message, got %v", err)
	}
}

func TestUploadMissingSecureURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	client := NewClientWithBaseURL("my-cloud", "unsigned-preset", srv.URL)
	_, err := client.Upload(context.Background(), "poster.png", strings.NewReader("png bytes"))
	if err == nil {
		t.Fatal("expected an error for a response without secure_url")
	}
}
