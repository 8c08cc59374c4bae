package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopyhq/shopy/internal/domain"
)

func makeSession() domain.Session {
	return domain.Session{
		Token: "jwt-token",
		User: domain.User{
			ID:        1,
			Name:      "Ann",
			Email:     "a@b.c",
			Telephone: "111",
			Address:   "Warehouse st. 1",
		},
	}
}

func newManager(t *testing.T) (*Manager, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "session.json")
	return NewManager(NewFileStore(path), nil), path
}

func TestInit_NoPersistedSession(t *testing.T) {
	m, _ := newManager(t)

	if err := m.Init(); err != nil {
		t.Fatalf("unexpected init error: %v", err)
	}
	if m.IsAuthenticated() {
		t.Fatal("fresh manager must not be authenticated")
	}
	if _, ok := m.Current(); ok {
		t.Fatal("fresh manager must not hold a user")
	}
}

func TestSetPersistsAndRestores(t *testing.T) {
	m, path := newManager(t)

	if err := m.Set(makeSession()); err != nil {
		t.Fatalf("set: %v", err)
	}
	if !m.IsAuthenticated() {
		t.Fatal("expected authenticated after Set")
	}
	if m.Token() != "jwt-token" {
		t.Fatalf("unexpected token %q", m.Token())
	}

	// Новый процесс: менеджер поверх того же файла восстанавливает сессию.
	restored := NewManager(NewFileStore(path), nil)
	if err := restored.Init(); err != nil {
		t.Fatalf("init: %v", err)
	}
	user, ok := restored.Current()
	if !ok {
		t.Fatal("expected restored session")
	}
	if user.Email != "a@b.c" {
		t.Fatalf("unexpected restored user %+v", user)
	}
}

func TestSetRejectsTokenlessSession(t *testing.T) {
	m, _ := newManager(t)

	err := m.Set(domain.Session{User: domain.User{ID: 1}})
	if err == nil {
		t.Fatal("expected error for session without token")
	}
	if !domain.IsSession(err) {
		t.Fatalf("expected SessionError, got %v", err)
	}
}

func TestClear(t *testing.T) {
	m, path := newManager(t)

	if err := m.Set(makeSession()); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := m.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if m.IsAuthenticated() {
		t.Fatal("expected cleared session")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatal("expected session file removed")
	}

	// Повторная очистка безвредна.
	if err := m.Clear(); err != nil {
		t.Fatalf("second clear: %v", err)
	}
}

func TestInit_CorruptedFileIsDiscarded(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	m := NewManager(NewFileStore(path), nil)
	if err := m.Init(); err != nil {
		t.Fatalf("init: %v", err)
	}
	if m.IsAuthenticated() {
		t.Fatal("corrupted session must not authenticate")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatal("corrupted session file must be removed")
	}
}

func TestFileStore_SavePermissions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.json")
	store := NewFileStore(path)

	if err := store.Save(makeSession()); err != nil {
		t.Fatalf("save: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Fatalf("session file mode = %o, want 600", perm)
	}
}
