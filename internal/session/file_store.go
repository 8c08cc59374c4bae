package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/shopyhq/shopy/internal/domain"
)

// FileStore хранит сессию в одном JSON-файле — аналог localStorage браузера.
// Файл содержит токен и запись пользователя и читается только при старте.
type FileStore struct {
	path string
}

// NewFileStore конструирует хранилище по пути path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load возвращает сохранённую сессию; отсутствие файла — пустая сессия без ошибки.
func (s *FileStore) Load() (domain.Session, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domain.Session{}, nil
		}
		return domain.Session{}, fmt.Errorf("read session file: %w", err)
	}

	var restored domain.Session
	if err := json.Unmarshal(data, &restored); err != nil {
		return domain.Session{}, fmt.Errorf("decode session file: %w", err)
	}
	return restored, nil
}

// Save перезаписывает файл сессии. Токен — секрет, права только для владельца.
func (s *FileStore) Save(sess domain.Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("create session dir: %w", err)
		}
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}
	return nil
}

// Clear удаляет файл сессии; отсутствие файла не ошибка.
func (s *FileStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove session file: %w", err)
	}
	return nil
}

var _ domain.SessionStore = (*FileStore)(nil)
