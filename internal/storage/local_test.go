package storage

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func newTestClient(t *testing.T) *LocalStorageClient {
	t.Helper()
	client, err := NewLocalStorageClient(filepath.Join(t.TempDir(), "dashboards"))
	if err != nil {
		t.Fatalf("Failed to create LocalStorageClient: %v", err)
	}
	t.Cleanup(func() { client.Close() })
	return client
}

func TestNewLocalStorageClient(t *testing.T) {
	client := newTestClient(t)

	if _, err := os.Stat(client.BaseDir()); os.IsNotExist(err) {
		t.Error("Base directory was not created")
	}
}

func TestLocalStorageClient_Close(t *testing.T) {
	client := newTestClient(t)

	if err := client.Close(); err != nil {
		t.Errorf("Close() returned unexpected error: %v", err)
	}
}

func TestLocalStorageClient_CreateDir(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		dirPath string
	}{
		{"simple directory", "test-dir"},
		{"nested directory", "2025/09/17"},
		{"escaping directory", "../outside"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := client.CreateDir(ctx, tt.dirPath); err != nil {
				t.Fatalf("CreateDir() error = %v", err)
			}
			full := filepath.Join(client.BaseDir(), cleanPath(tt.dirPath))
			if info, err := os.Stat(full); err != nil || !info.IsDir() {
				t.Errorf("Expected directory %s to exist", full)
			}
		})
	}

	if _, err := os.Stat(filepath.Join(filepath.Dir(client.BaseDir()), "outside")); !os.IsNotExist(err) {
		t.Error("Expected no directory outside the base directory")
	}
}

func TestLocalStorageClient_StoreAndGetFile(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	data := []byte("<html>dashboard</html>")
	if err := client.StoreFile(ctx, "2025/01/02/index.html", data); err != nil {
		t.Fatalf("StoreFile() error = %v", err)
	}

	got, err := client.GetFile(ctx, "2025/01/02/index.html")
	if err != nil {
		t.Fatalf("GetFile() error = %v", err)
	}
	if string(got) != string(data) {
		t.Errorf("Expected %q, got %q", data, got)
	}

	if _, err := client.GetFile(ctx, "missing.html"); err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestLocalStorageClient_ListDir(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	files := []string{"a/index.html", "a/charts/type-split.png", "b.json"}
	for _, f := range files {
		if err := client.StoreFile(ctx, f, []byte("x")); err != nil {
			t.Fatalf("StoreFile(%s) error = %v", f, err)
		}
	}

	recursive, err := client.ListDir(ctx, "", true)
	if err != nil {
		t.Fatalf("ListDir() error = %v", err)
	}
	want := []string{"a/charts/type-split.png", "a/index.html", "b.json"}
	if !reflect.DeepEqual(recursive, want) {
		t.Errorf("Expected %v, got %v", want, recursive)
	}

	flat, err := client.ListDir(ctx, "a", false)
	if err != nil {
		t.Fatalf("ListDir() error = %v", err)
	}
	want = []string{"a/charts/", "a/index.html"}
	if !reflect.DeepEqual(flat, want) {
		t.Errorf("Expected %v, got %v", want, flat)
	}

	if _, err := client.ListDir(ctx, "missing", false); err == nil {
		t.Error("Expected error for missing directory")
	}
}

func TestLocalStorageClient_FileExists(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	if err := client.StoreFile(ctx, "views.json", []byte("{}")); err != nil {
		t.Fatalf("StoreFile() error = %v", err)
	}
	if err := client.CreateDir(ctx, "empty"); err != nil {
		t.Fatalf("CreateDir() error = %v", err)
	}

	tests := []struct {
		path     string
		expected bool
	}{
		{"views.json", true},
		{"missing.json", false},
		{"empty", false},
	}

	for _, tt := range tests {
		exists, err := client.FileExists(ctx, tt.path)
		if err != nil {
			t.Errorf("FileExists(%s) error = %v", tt.path, err)
		}
		if exists != tt.expected {
			t.Errorf("FileExists(%s) = %v, want %v", tt.path, exists, tt.expected)
		}
	}
}

func TestLocalStorageClient_CancelledContext(t *testing.T) {
	client := newTestClient(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := client.StoreFile(ctx, "x.txt", []byte("x")); err == nil {
		t.Error("Expected error for cancelled context")
	}
}
