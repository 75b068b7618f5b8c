package controller

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/octopus12176/tokimeki-checker/internal/api/response"
	"github.com/octopus12176/tokimeki-checker/internal/model"
	"github.com/octopus12176/tokimeki-checker/internal/repository"
	"github.com/octopus12176/tokimeki-checker/internal/service"
)

// AuthController 处理用户认证
type AuthController struct {
	authService *service.AuthService
}

// NewAuthController 构造函数
func NewAuthController(authService *service.AuthService) *AuthController {
	return &AuthController{
		authService: authService,
	}
}

// ==========================================
// DTOs (请求/响应参数定义)
// ==========================================

type GoogleLoginRequest struct {
	IDToken string `json:"id_token" binding:"required"`
}

type LoginResponse struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

// ==========================================
// Handlers
// ==========================================

// GoogleLogin Google 登录
// @Summary Google 登录
// @Description 校验前端拿到的 Google ID Token，通过白名单后颁发 JWT
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body GoogleLoginRequest true "登录参数"
// @Success 200 {object} response.Response{data=LoginResponse}
// @Router /auth/google [post]
func (ctrl *AuthController) GoogleLogin(c *gin.Context) {
	var req GoogleLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "参数格式错误")
		return
	}

	token, user, err := ctrl.authService.LoginWithGoogle(c.Request.Context(), req.IDToken)
	switch {
	case errors.Is(err, service.ErrInvalidToken):
		slog.Warn("Google token 校验失败")
		response.Error(c, http.StatusUnauthorized, "Google 認証に失敗しました")
		return
	case errors.Is(err, service.ErrEmailNotAllowed):
		slog.Warn("白名单拦截", "err", err)
		response.Error(c, http.StatusForbidden, "このGoogleアカウントはアクセス許可されていません")
		return
	case err != nil:
		slog.Error("Login failed", "err", err)
		response.Error(c, http.StatusInternalServerError, "ログインに失敗しました")
		return
	}

	slog.Info("User logged in", "uid", user.ID, "email", user.Email)
	response.Success(c, LoginResponse{Token: token, User: user})
}

// Me 当前用户档案
// @Summary 当前用户
// @Description 按 JWT 返回当前用户的档案
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=model.User}
// @Router /auth/me [get]
func (ctrl *AuthController) Me(c *gin.Context) {
	userID := c.GetString("userID")

	user, err := ctrl.authService.Profile(c.Request.Context(), userID)
	if errors.Is(err, repository.ErrNotFound) {
		response.Error(c, http.StatusUnauthorized, "セッションが無効です")
		return
	}
	if err != nil {
		slog.Error("档案读取失败", "uid", userID, "err", err)
		response.Error(c, http.StatusInternalServerError, "プロフィールの取得に失敗しました")
		return
	}

	response.Success(c, user)
}
