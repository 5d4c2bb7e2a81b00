package auth

import (
	"context"

	"github.com/fekuna/omnipos-stock-app/internal/api"
	"github.com/fekuna/omnipos-stock-app/internal/auth/dto"
	"github.com/fekuna/omnipos-stock-app/internal/model"
)

type UseCase interface {
	Login(ctx context.Context, input *dto.LoginInput) (State, error)
	Register(ctx context.Context, input *dto.RegisterInput) (State, error)
	// Logout always ends the local session, whatever the backend says.
	Logout(ctx context.Context) error
	// Expire ends a session the backend no longer accepts.
	Expire(ctx context.Context)
	ForgotPassword(ctx context.Context, input *dto.ForgotPasswordInput) (string, error)
	ResetPassword(ctx context.Context, input *dto.ResetPasswordInput) (string, error)
	VerifyEmail(ctx context.Context, id, hash string) (string, error)
	ResendVerification(ctx context.Context) (string, error)

	// Rehydrate restores the persisted session and opens the gate, even
	// when the stored session cannot be read.
	Rehydrate(ctx context.Context) error
	Session(ctx context.Context) State
	UpdateProfile(ctx context.Context, patch model.UserPatch) (State, error)
	CurrentCompany(ctx context.Context) (*model.Company, error)
}

// Remote is satisfied by *api.Client.
type Remote interface {
	Login(ctx context.Context, req api.LoginRequest) (*model.Credentials, error)
	Register(ctx context.Context, req api.RegisterRequest) (*model.Credentials, error)
	Logout(ctx context.Context) error
	ForgotPassword(ctx context.Context, email string) (string, error)
	ResetPassword(ctx context.Context, req api.ResetPasswordRequest) (string, error)
	VerifyEmail(ctx context.Context, id, hash string) (string, error)
	ResendVerification(ctx context.Context) (string, error)
	Company(ctx context.Context, id string) (*model.Company, error)
}
