package api

import (
	"context"
	"net/http"

	"github.com/shopyhq/shopy/internal/domain"
)

const (
	opLogin    = "login"
	opRegister = "register"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerRequest struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Telephone string `json:"telephone"`
	Address   string `json:"address"`
}

// Login обменивает учётные данные на сессию. Отклонённые учётные данные
// приходят как 401 и транслируются в SessionError.
func (c *Client) Login(ctx context.Context, email, password string) (domain.Session, error) {
	var payload sessionPayload
	req := loginRequest{Email: email, Password: password}
	if err := c.do(ctx, opLogin, http.MethodPost, "/auth/login", req, &payload); err != nil {
		return domain.Session{}, err
	}
	return payload.toDomain(opLogin)
}

// Register создаёт пользователя и сразу возвращает сессию.
func (c *Client) Register(ctx context.Context, reg domain.Registration) (domain.Session, error) {
	var payload sessionPayload
	req := registerRequest{
		Name:      reg.Name,
		Email:     reg.Email,
		Password:  reg.Password,
		Telephone: reg.Telephone,
		Address:   reg.Address,
	}
	if err := c.do(ctx, opRegister, http.MethodPost, "/auth/register", req, &payload); err != nil {
		return domain.Session{}, err
	}
	return payload.toDomain(opRegister)
}

var _ domain.AuthGateway = (*Client)(nil)
