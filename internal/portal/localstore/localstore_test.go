package localstore

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "state.yaml")
	f := Open(path)

	if _, ok := f.Get(KeyToken); ok {
		t.Fatal("expected empty store")
	}
	if err := f.Set(KeyToken, "abc"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := f.Set(KeyTheme, "dark"); err != nil {
		t.Fatalf("set: %v", err)
	}

	reopened := Open(path)
	if v, ok := reopened.Get(KeyToken); !ok || v != "abc" {
		t.Fatalf("unexpected token %q %v", v, ok)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(string(data), "theme: dark") {
		t.Fatalf("unexpected yaml %q", data)
	}

	if err := reopened.Delete(KeyToken); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok := f.Get(KeyToken); ok {
		t.Fatal("expected token removed")
	}
	if v, _ := f.Get(KeyTheme); v != "dark" {
		t.Fatalf("theme lost: %q", v)
	}
}

func TestFileCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.yaml")
	if err := os.WriteFile(path, []byte("token: [unterminated"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	f := Open(path)
	if _, ok := f.Get(KeyToken); ok {
		t.Fatal("expected corrupt file to read as missing")
	}
	if err := f.Set(KeyToken, "x"); err == nil {
		t.Fatal("expected set to refuse overwriting a corrupt file")
	}
}

func TestMemory(t *testing.T) {
	var kv KV = NewMemory()
	_ = kv.Set(KeyTheme, "light")
	if v, ok := kv.Get(KeyTheme); !ok || v != "light" {
		t.Fatalf("unexpected %q", v)
	}
	_ = kv.Delete(KeyTheme)
	if _, ok := kv.Get(KeyTheme); ok {
		t.Fatal("expected delete")
	}
}
