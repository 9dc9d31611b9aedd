package api

import (
	"context"
	"net/http"

	"racketoutlet/pkg/domain"
)

// Credentials is a login request body.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Registration is the register request body.
type Registration struct {
	Email           string `json:"email"`
	Username        string `json:"username"`
	FirstName       string `json:"first_name,omitempty"`
	LastName        string `json:"last_name,omitempty"`
	PhoneNumber     string `json:"phone_number,omitempty"`
	Address         string `json:"address,omitempty"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"password_confirm"`
}

// AuthResult carries the token pair and the user the server returned. Tokens
// may be empty on registration flows that do not auto-login.
type AuthResult struct {
	Access  string      `json:"access"`
	Refresh string      `json:"refresh"`
	User    domain.User `json:"user"`
}

func (c *Client) Login(ctx context.Context, creds Credentials) (AuthResult, error) {
	var res AuthResult
	if err := c.doJSON(ctx, http.MethodPost, "/api/users/login/", nil, creds, &res); err != nil {
		return AuthResult{}, err
	}
	return res, nil
}

func (c *Client) Register(ctx context.Context, reg Registration) (AuthResult, error) {
	var res AuthResult
	if err := c.doJSON(ctx, http.MethodPost, "/api/users/register/", nil, reg, &res); err != nil {
		return AuthResult{}, err
	}
	return res, nil
}

// RequestPasswordReset asks the server to mail a reset token.
func (c *Client) RequestPasswordReset(ctx context.Context, email string) error {
	payload := map[string]string{"email": email}
	return c.doJSON(ctx, http.MethodPost, "/api/users/password/reset/", nil, payload, nil)
}

// ConfirmPasswordReset sets a new password using a mailed reset token.
func (c *Client) ConfirmPasswordReset(ctx context.Context, token, newPassword string) error {
	payload := map[string]string{"token": token, "password": newPassword}
	return c.doJSON(ctx, http.MethodPost, "/api/users/password/reset/confirm/", nil, payload, nil)
}

// ChangePassword changes the password of the authenticated user.
func (c *Client) ChangePassword(ctx context.Context, currentPassword, newPassword string) error {
	payload := map[string]string{
		"current_password": currentPassword,
		"new_password":     newPassword,
	}
	return c.doJSON(ctx, http.MethodPost, "/api/users/password/change/", nil, payload, nil)
}
