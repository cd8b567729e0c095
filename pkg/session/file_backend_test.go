package session

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileBackend_PersistsAcrossInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.yaml")

	first := NewFileBackend(path)
	if _, ok, err := first.Get(KeyToken); ok || err != nil {
		t.Fatalf("missing file should read as empty: %v %v", ok, err)
	}
	if err := first.Set(KeyToken, "T"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := first.Set(KeyUser, `{"id":"u1","email":"alice@x.com"}`); err != nil {
		t.Fatalf("set user: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Fatalf("expected 0600, got %v", info.Mode().Perm())
	}

	second := NewFileBackend(path)
	if v, ok, err := second.Get(KeyUser); err != nil || !ok || v != `{"id":"u1","email":"alice@x.com"}` {
		t.Fatalf("unexpected user entry %q %v %v", v, ok, err)
	}

	if err := second.Delete(KeyToken); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok, _ := first.Get(KeyToken); ok {
		t.Fatalf("delete should be visible to other instances")
	}
}

func TestFileBackend_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.yaml")
	if err := os.WriteFile(path, []byte("token: [unterminated\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	b := NewFileBackend(path)
	if _, _, err := b.Get(KeyToken); err == nil {
		t.Fatalf("expected parse error")
	}

	s := Open(b).Current()
	if s.Token != "" {
		t.Fatalf("corrupt file should load as logged out, got %+v", s)
	}

	if err := b.Set(KeyToken, "T"); err != nil {
		t.Fatalf("set should replace a corrupt file: %v", err)
	}
	if v, ok, err := b.Get(KeyToken); err != nil || !ok || v != "T" {
		t.Fatalf("unexpected %q %v %v", v, ok, err)
	}
}

func TestFileBackend_SetManyOneRewrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.yaml")
	b := NewFileBackend(path)
	if err := b.Set(KeyProfile, `{"bio":"hi"}`); err != nil {
		t.Fatalf("set: %v", err)
	}

	err := b.SetMany(map[string]string{KeyToken: "T", KeyRole: "admin", KeyUser: `{"id":"u1"}`})
	if err != nil {
		t.Fatalf("set many: %v", err)
	}

	other := NewFileBackend(path)
	for key, want := range map[string]string{KeyToken: "T", KeyRole: "admin", KeyUser: `{"id":"u1"}`, KeyProfile: `{"bio":"hi"}`} {
		if v, ok, err := other.Get(key); err != nil || !ok || v != want {
			t.Fatalf("%s: got %q %v %v, want %q", key, v, ok, err, want)
		}
	}

	if err := b.SetMany(map[string]string{KeyToken: "", KeyRole: "", KeyUser: ""}); err != nil {
		t.Fatalf("clear: %v", err)
	}
	for _, key := range []string{KeyToken, KeyRole, KeyUser} {
		if _, ok, _ := other.Get(key); ok {
			t.Fatalf("%s should be gone", key)
		}
	}
	if _, ok, _ := other.Get(KeyProfile); !ok {
		t.Fatal("unrelated keys must survive")
	}

	matches, _ := filepath.Glob(filepath.Join(filepath.Dir(path), ".session-*"))
	if len(matches) != 0 {
		t.Fatalf("temp files left behind: %v", matches)
	}
}
