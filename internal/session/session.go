package session

import (
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/shopyhq/shopy/internal/domain"
)

// Manager владеет единственной сессией процесса. Жизненный цикл явный:
// Init восстанавливает сессию из хранилища при старте, Set сохраняет её
// после входа или регистрации, Clear уничтожает при выходе либо при ответе
// сервера о недействительном токене. Кроме Manager сессию никто не изменяет.
type Manager struct {
	mu     sync.RWMutex
	store  domain.SessionStore
	cur    domain.Session
	logger *log.Entry
}

// NewManager конструирует менеджер поверх персистентного хранилища.
func NewManager(store domain.SessionStore, logger *log.Entry) *Manager {
	if logger == nil {
		logger = log.New().WithField("component", "session")
	}
	return &Manager{store: store, logger: logger}
}

// Init восстанавливает сессию из хранилища. Отсутствие сохранённой сессии —
// не ошибка; повреждённая запись сбрасывается, процесс продолжает без сессии.
func (m *Manager) Init() error {
	restored, err := m.store.Load()
	if err != nil {
		m.logger.WithError(err).Warn("не удалось восстановить сессию, очищаем хранилище")
		if clearErr := m.store.Clear(); clearErr != nil {
			return clearErr
		}
		return nil
	}

	m.mu.Lock()
	m.cur = restored
	m.mu.Unlock()

	if restored.Authenticated() {
		m.logger.WithField("user", restored.User.Email).Info("сессия восстановлена")
	}
	return nil
}

// Set сохраняет новую сессию: сначала в хранилище, затем в память.
func (m *Manager) Set(s domain.Session) error {
	if !s.Authenticated() {
		return &domain.SessionError{Message: "cannot store a session without a token"}
	}
	if err := m.store.Save(s); err != nil {
		return &domain.SessionError{Message: "failed to persist session", Err: err}
	}

	m.mu.Lock()
	m.cur = s
	m.mu.Unlock()
	return nil
}

// Clear уничтожает сессию в памяти и в хранилище. Повторный вызов безвреден.
func (m *Manager) Clear() error {
	m.mu.Lock()
	m.cur = domain.Session{}
	m.mu.Unlock()

	if err := m.store.Clear(); err != nil {
		return &domain.SessionError{Message: "failed to clear persisted session", Err: err}
	}
	return nil
}

// Current возвращает текущего пользователя, если сессия есть.
func (m *Manager) Current() (domain.User, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cur.User, m.cur.Authenticated()
}

// Token возвращает bearer-токен текущей сессии или пустую строку.
func (m *Manager) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cur.Token
}

// IsAuthenticated сообщает, держит ли процесс действующую сессию.
func (m *Manager) IsAuthenticated() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cur.Authenticated()
}
