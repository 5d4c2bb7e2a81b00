package handler

import (
	"net/http"

	"github.com/fekuna/omnipos-stock-app/internal/auth"
	"github.com/fekuna/omnipos-stock-app/internal/auth/dto"
	"github.com/fekuna/omnipos-stock-app/internal/httpio"
	"github.com/fekuna/omnipos-stock-app/internal/model"
	"github.com/fekuna/omnipos-stock-app/pkg/logger"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	uc     auth.UseCase
	logger logger.ZapLogger
}

func NewAuthHandler(uc auth.UseCase, log logger.ZapLogger) *AuthHandler {
	return &AuthHandler{
		uc:     uc,
		logger: log,
	}
}

// Register mounts the sign-in screens on public and the account screens on
// protected.
func (h *AuthHandler) Register(public, protected *gin.RouterGroup) {
	public.POST("/login", h.Login)
	public.POST("/register", h.SignUp)
	public.POST("/forgot-password", h.ForgotPassword)
	public.POST("/reset-password", h.ResetPassword)

	a := protected.Group("/account")
	a.GET("", h.Session)
	a.PATCH("", h.UpdateProfile)
	a.GET("/company", h.Company)
	a.GET("/verify-email/:id/:hash", h.VerifyEmail)
	a.POST("/email/verification-notification", h.ResendVerification)
	protected.POST("/logout", h.Logout)
}

type sessionResponse struct {
	User            *model.User `json:"user"`
	IsAuthenticated bool        `json:"is_authenticated"`
}

func toResponse(st auth.State) sessionResponse {
	return sessionResponse{User: st.User, IsAuthenticated: st.IsAuthenticated()}
}

func (h *AuthHandler) Login(c *gin.Context) {
	var input dto.LoginInput
	if err := httpio.Bind(c, &input); err != nil {
		httpio.Error(c, h.logger, err)
		return
	}
	st, err := h.uc.Login(c.Request.Context(), &input)
	if err != nil {
		httpio.Error(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": toResponse(st)})
}

func (h *AuthHandler) SignUp(c *gin.Context) {
	var input dto.RegisterInput
	if err := httpio.Bind(c, &input); err != nil {
		httpio.Error(c, h.logger, err)
		return
	}
	st, err := h.uc.Register(c.Request.Context(), &input)
	if err != nil {
		httpio.Error(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": toResponse(st)})
}

func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var input dto.ForgotPasswordInput
	if err := httpio.Bind(c, &input); err != nil {
		httpio.Error(c, h.logger, err)
		return
	}
	h.message(c)(h.uc.ForgotPassword(c.Request.Context(), &input))
}

func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var input dto.ResetPasswordInput
	if err := httpio.Bind(c, &input); err != nil {
		httpio.Error(c, h.logger, err)
		return
	}
	h.message(c)(h.uc.ResetPassword(c.Request.Context(), &input))
}

func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	h.message(c)(h.uc.VerifyEmail(c.Request.Context(), c.Param("id"), c.Param("hash")))
}

func (h *AuthHandler) ResendVerification(c *gin.Context) {
	h.message(c)(h.uc.ResendVerification(c.Request.Context()))
}

func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.uc.Logout(c.Request.Context()); err != nil {
		httpio.Error(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *AuthHandler) Session(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": toResponse(h.uc.Session(c.Request.Context()))})
}

func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	var patch model.UserPatch
	if err := httpio.Bind(c, &patch); err != nil {
		httpio.Error(c, h.logger, err)
		return
	}
	st, err := h.uc.UpdateProfile(c.Request.Context(), patch)
	if err != nil {
		httpio.Error(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": toResponse(st)})
}

func (h *AuthHandler) Company(c *gin.Context) {
	company, err := h.uc.CurrentCompany(c.Request.Context())
	if err != nil {
		httpio.Error(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": company})
}

func (h *AuthHandler) message(c *gin.Context) func(string, error) {
	return func(msg string, err error) {
		if err != nil {
			httpio.Error(c, h.logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": msg})
	}
}
