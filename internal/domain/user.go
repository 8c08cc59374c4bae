package domain

// User — аутентифицированный пользователь склада.
type User struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Telephone string `json:"telephone"`
	Address   string `json:"address"`
}

// Session — пользователь и его bearer-токен. Процесс держит не более одной
// сессии; она создаётся входом или регистрацией, восстанавливается из
// персистентного хранилища при старте и уничтожается выходом либо ответом
// сервера о недействительном токене.
type Session struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// Authenticated сообщает, есть ли действующая сессия.
func (s Session) Authenticated() bool {
	return s.Token != ""
}

// Registration — данные формы регистрации.
type Registration struct {
	Name      string
	Email     string
	Password  string
	Telephone string
	Address   string
}
