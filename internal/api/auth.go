package api

import (
	"context"
	"net/http"

	"github.com/fekuna/omnipos-stock-app/internal/model"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Name                 string `json:"name"`
	Email                string `json:"email"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation"`
	CompanyName          string `json:"company_name,omitempty"`
}

type ResetPasswordRequest struct {
	Token                string `json:"token"`
	Email                string `json:"email"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation"`
}

type authResponse struct {
	User         *model.User `json:"user"`
	Token        *string     `json:"token"`
	RefreshToken *string     `json:"refresh_token"`
}

func (r authResponse) credentials() *model.Credentials {
	creds := &model.Credentials{User: r.User}
	if r.Token != nil {
		creds.Token = *r.Token
	}
	if r.RefreshToken != nil {
		creds.RefreshToken = *r.RefreshToken
	}
	return creds
}

func (c *Client) Login(ctx context.Context, req LoginRequest) (*model.Credentials, error) {
	var resp authResponse
	if err := c.do(ctx, "login", http.MethodPost, "/auth/login", req, &resp); err != nil {
		return nil, err
	}
	return resp.credentials(), nil
}

func (c *Client) Register(ctx context.Context, req RegisterRequest) (*model.Credentials, error) {
	var resp authResponse
	if err := c.do(ctx, "register", http.MethodPost, "/auth/register", req, &resp); err != nil {
		return nil, err
	}
	return resp.credentials(), nil
}

func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, "logout", http.MethodPost, "/auth/logout", nil, nil)
}

func (c *Client) ForgotPassword(ctx context.Context, email string) (string, error) {
	var resp messageResponse
	err := c.do(ctx, "forgot-password", http.MethodPost, "/auth/forgot-password", map[string]string{"email": email}, &resp)
	return resp.Message, err
}

func (c *Client) ResetPassword(ctx context.Context, req ResetPasswordRequest) (string, error) {
	var resp messageResponse
	err := c.do(ctx, "reset-password", http.MethodPost, "/auth/reset-password", req, &resp)
	return resp.Message, err
}

func (c *Client) VerifyEmail(ctx context.Context, id, hash string) (string, error) {
	var resp messageResponse
	path := "/auth/verify-email/" + pathEscape(id) + "/" + pathEscape(hash)
	err := c.do(ctx, "verify-email", http.MethodGet, path, nil, &resp)
	return resp.Message, err
}

func (c *Client) ResendVerification(ctx context.Context) (string, error) {
	var resp messageResponse
	err := c.do(ctx, "verification-notification", http.MethodPost, "/auth/email/verification-notification", nil, &resp)
	return resp.Message, err
}

func (c *Client) Company(ctx context.Context, id string) (*model.Company, error) {
	var resp envelope[model.Company]
	if err := c.do(ctx, "company", http.MethodGet, "/companies/"+pathEscape(id), nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}
