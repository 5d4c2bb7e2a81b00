package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fekuna/omnipos-stock-app/internal/api"
	"github.com/fekuna/omnipos-stock-app/internal/auth"
	"github.com/fekuna/omnipos-stock-app/internal/auth/usecase"
	"github.com/fekuna/omnipos-stock-app/internal/httpio"
	"github.com/fekuna/omnipos-stock-app/internal/model"
	"github.com/fekuna/omnipos-stock-app/internal/operation"
	"github.com/fekuna/omnipos-stock-app/internal/storage/memory"
	"github.com/fekuna/omnipos-stock-app/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRemote struct{}

func (stubRemote) Login(context.Context, api.LoginRequest) (*model.Credentials, error) {
	return &model.Credentials{User: &model.User{ID: "u1", Email: "chef@example.com", CompanyID: "co1"}, Token: "tok"}, nil
}

func (stubRemote) Register(_ context.Context, req api.RegisterRequest) (*model.Credentials, error) {
	return &model.Credentials{User: &model.User{ID: "u2", Name: req.Name, Email: req.Email, CompanyID: "co2"}, Token: "tok2"}, nil
}

func (stubRemote) Logout(context.Context) error { return nil }

func (stubRemote) ForgotPassword(context.Context, string) (string, error) {
	return "We have emailed your password reset link.", nil
}

func (stubRemote) ResetPassword(context.Context, api.ResetPasswordRequest) (string, error) {
	return "Your password has been reset.", nil
}

func (stubRemote) VerifyEmail(context.Context, string, string) (string, error) {
	return "Email verified.", nil
}

func (stubRemote) ResendVerification(context.Context) (string, error) {
	return "Verification link sent.", nil
}

func (stubRemote) Company(_ context.Context, id string) (*model.Company, error) {
	return &model.Company{ID: id, Name: "Bistro"}, nil
}

func setup(t *testing.T) (*gin.Engine, *auth.Session) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	session := auth.NewSession()
	uc := usecase.NewAuthUseCase(session, auth.NewPersister(memory.New(), memory.New()), stubRemote{}, auth.NewGate(), operation.NewTracker(), logger.NewNop())

	r := gin.New()
	NewAuthHandler(uc, logger.NewNop()).Register(r.Group("/auth"), r.Group("/app"))
	return r, session
}

func serve(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestAuthHandler_SignUpAndAccount(t *testing.T) {
	r, session := setup(t)

	w := serve(r, http.MethodPost, "/auth/register", `{"name":"Chef","email":"chef@example.com","password":"password1","password_confirmation":"nope"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	var errBody httpio.ErrorBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &errBody))
	assert.Equal(t, "ValidationError", errBody.Error)

	w = serve(r, http.MethodPost, "/auth/register", `{"name":"Chef","email":"chef@example.com","password":"password1","password_confirmation":"password1"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var resp struct {
		Data sessionResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Data.IsAuthenticated)
	assert.NotContains(t, w.Body.String(), "tok2")
	assert.True(t, session.IsAuthenticated())

	w = serve(r, http.MethodPatch, "/app/account", `{"name":"Head Chef"}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Head Chef", resp.Data.User.Name)

	w = serve(r, http.MethodGet, "/app/account/company", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"id":"co2"`)

	w = serve(r, http.MethodGet, "/app/account/verify-email/u2/abc", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotNil(t, session.State().User.EmailVerifiedAt)

	w = serve(r, http.MethodPost, "/app/logout", "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = serve(r, http.MethodGet, "/app/account", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Data.IsAuthenticated)
	assert.Nil(t, resp.Data.User)
}

func TestAuthHandler_PasswordReset(t *testing.T) {
	r, _ := setup(t)

	w := serve(r, http.MethodPost, "/auth/forgot-password", `{"email":"chef@example.com"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "reset link")

	w = serve(r, http.MethodPost, "/auth/forgot-password", `{"email":""}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = serve(r, http.MethodPost, "/auth/login", `not json`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}
