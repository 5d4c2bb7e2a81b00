package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fekuna/omnipos-stock-app/internal/api"
	"github.com/fekuna/omnipos-stock-app/internal/apperror"
	"github.com/fekuna/omnipos-stock-app/internal/auth"
	"github.com/fekuna/omnipos-stock-app/internal/auth/dto"
	"github.com/fekuna/omnipos-stock-app/internal/model"
	"github.com/fekuna/omnipos-stock-app/internal/operation"
	"github.com/fekuna/omnipos-stock-app/internal/validation"
	"github.com/fekuna/omnipos-stock-app/pkg/logger"
	"go.uber.org/zap"
)

type authUseCase struct {
	session *auth.Session
	persist *auth.Persister
	remote  auth.Remote
	gate    *auth.Gate
	tracker *operation.Tracker
	logger  logger.ZapLogger
	now     func() time.Time
}

func NewAuthUseCase(session *auth.Session, persist *auth.Persister, remote auth.Remote, gate *auth.Gate, tracker *operation.Tracker, log logger.ZapLogger) auth.UseCase {
	return &authUseCase{
		session: session,
		persist: persist,
		remote:  remote,
		gate:    gate,
		tracker: tracker,
		logger:  log,
		now:     time.Now,
	}
}

func (uc *authUseCase) Login(ctx context.Context, input *dto.LoginInput) (auth.State, error) {
	if err := validation.Struct(input); err != nil {
		return auth.State{}, err
	}

	done, err := uc.tracker.Begin(operation.Login)
	if err != nil {
		return auth.State{}, err
	}
	defer done()

	creds, err := uc.remote.Login(ctx, api.LoginRequest{
		Email:    strings.TrimSpace(input.Email),
		Password: input.Password,
	})
	if err != nil {
		uc.logger.Warn("login failed", zap.Error(err))
		return auth.State{}, err
	}
	return uc.signIn(ctx, creds), nil
}

func (uc *authUseCase) Register(ctx context.Context, input *dto.RegisterInput) (auth.State, error) {
	if err := validation.Struct(input); err != nil {
		return auth.State{}, err
	}

	done, err := uc.tracker.Begin(operation.Register)
	if err != nil {
		return auth.State{}, err
	}
	defer done()

	creds, err := uc.remote.Register(ctx, api.RegisterRequest{
		Name:                 strings.TrimSpace(input.Name),
		Email:                strings.TrimSpace(input.Email),
		Password:             input.Password,
		PasswordConfirmation: input.PasswordConfirmation,
		CompanyName:          strings.TrimSpace(input.CompanyName),
	})
	if err != nil {
		uc.logger.Warn("registration failed", zap.Error(err))
		return auth.State{}, err
	}
	return uc.signIn(ctx, creds), nil
}

// signIn replaces the session with creds. Only an authenticated session is
// persisted; storage failures are logged and do not fail the sign-in.
func (uc *authUseCase) signIn(ctx context.Context, creds *model.Credentials) auth.State {
	st := uc.session.SetCredentials(*creds)
	if !st.IsAuthenticated() {
		uc.logger.Warn("backend returned no token, session stays signed out")
		return st
	}
	if err := uc.persist.Save(ctx, st); err != nil {
		uc.logger.Error("failed to persist session", zap.Error(err))
	}
	if st.User != nil {
		uc.logger.Info("signed in", zap.String("user_id", st.User.ID), zap.String("company_id", st.User.CompanyID))
	}
	return st
}

func (uc *authUseCase) Logout(ctx context.Context) error {
	// Only the remote call is tracked; local clearing always happens.
	if done, err := uc.tracker.Begin(operation.Logout); err == nil {
		if uc.session.IsAuthenticated() {
			if err := uc.remote.Logout(ctx); err != nil {
				uc.logger.Warn("remote logout failed, clearing local session anyway", zap.Error(err))
			}
		}
		done()
	}
	return uc.clear(ctx)
}

func (uc *authUseCase) Expire(ctx context.Context) {
	if !uc.session.IsAuthenticated() {
		return
	}
	uc.logger.Warn("session rejected by backend, signing out")
	_ = uc.clear(ctx)
}

func (uc *authUseCase) clear(ctx context.Context) error {
	uc.session.ClearCredentials()
	if err := uc.persist.Clear(ctx); err != nil {
		uc.logger.Error("failed to clear stored session", zap.Error(err))
		return err
	}
	return nil
}

func (uc *authUseCase) ForgotPassword(ctx context.Context, input *dto.ForgotPasswordInput) (string, error) {
	if err := validation.Struct(input); err != nil {
		return "", err
	}
	return uc.remote.ForgotPassword(ctx, strings.TrimSpace(input.Email))
}

func (uc *authUseCase) ResetPassword(ctx context.Context, input *dto.ResetPasswordInput) (string, error) {
	if err := validation.Struct(input); err != nil {
		return "", err
	}
	return uc.remote.ResetPassword(ctx, api.ResetPasswordRequest{
		Token:                input.Token,
		Email:                strings.TrimSpace(input.Email),
		Password:             input.Password,
		PasswordConfirmation: input.PasswordConfirmation,
	})
}

// VerifyEmail marks the signed-in user verified when the link is theirs.
func (uc *authUseCase) VerifyEmail(ctx context.Context, id, hash string) (string, error) {
	if id == "" || hash == "" {
		return "", apperror.Validation("", "verification link is incomplete")
	}

	msg, err := uc.remote.VerifyEmail(ctx, id, hash)
	if err != nil {
		return "", err
	}

	if st := uc.session.State(); st.User != nil && st.User.ID == id {
		now := uc.now()
		st = uc.session.UpdateUser(model.UserPatch{EmailVerifiedAt: &now})
		if err := uc.persist.SaveUser(ctx, st.User); err != nil {
			uc.logger.Error("failed to persist verified user", zap.Error(err))
		}
	}
	return msg, nil
}

func (uc *authUseCase) ResendVerification(ctx context.Context) (string, error) {
	return uc.remote.ResendVerification(ctx)
}

func (uc *authUseCase) Rehydrate(ctx context.Context) error {
	defer uc.gate.Open()

	creds, err := uc.persist.Load(ctx)
	if err != nil {
		uc.logger.Warn("failed to restore session, starting signed out", zap.Error(err))
		return nil
	}
	if creds.Token == "" || creds.User == nil {
		uc.logger.Debug("no stored session")
		return nil
	}

	uc.session.SetCredentials(creds)
	uc.logger.Info("session restored", zap.String("user_id", creds.User.ID))
	return nil
}

func (uc *authUseCase) Session(_ context.Context) auth.State {
	return uc.session.State()
}

func (uc *authUseCase) UpdateProfile(ctx context.Context, patch model.UserPatch) (auth.State, error) {
	st := uc.session.UpdateUser(patch)
	if st.User == nil {
		return st, nil
	}
	if err := uc.persist.SaveUser(ctx, st.User); err != nil {
		uc.logger.Error("failed to persist user", zap.Error(err))
		return st, err
	}
	return st, nil
}

func (uc *authUseCase) CurrentCompany(ctx context.Context) (*model.Company, error) {
	id := auth.GetCompanyID(ctx)
	if id == "" {
		id = uc.session.CompanyID()
	}
	if id == "" {
		return nil, fmt.Errorf("company: %w", apperror.ErrNotFound)
	}
	return uc.remote.Company(ctx, id)
}
