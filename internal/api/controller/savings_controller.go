package controller

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/octopus12176/tokimeki-checker/internal/api/response"
	"github.com/octopus12176/tokimeki-checker/internal/service"
)

// SavingsController 节约画面
type SavingsController struct {
	service *service.SavingsService
}

// NewSavingsController 构造函数
func NewSavingsController(s *service.SavingsService) *SavingsController {
	return &SavingsController{service: s}
}

// Overview 节约一览
// @Summary 节约一览
// @Description 累计节约额 + 月别内訳 + 最近 20 条节约记录
// @Tags Savings
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=service.SavingsOverview}
// @Router /savings [get]
func (ctrl *SavingsController) Overview(c *gin.Context) {
	userID := c.GetString("userID")

	overview, err := ctrl.service.Overview(c.Request.Context(), userID)
	if err != nil {
		slog.Error("节约画面数据获取失败", "uid", userID, "err", err)
		response.Error(c, http.StatusInternalServerError, "節約データの取得に失敗しました")
		return
	}

	response.Success(c, overview)
}

// Reset 清零累计节约额
// @Summary 节约额清零
// @Description 只动累计值，历史记录原样保留
// @Tags Savings
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /savings [delete]
func (ctrl *SavingsController) Reset(c *gin.Context) {
	userID := c.GetString("userID")

	if err := ctrl.service.Reset(c.Request.Context(), userID); err != nil {
		slog.Error("节约额清零失败", "uid", userID, "err", err)
		response.Error(c, http.StatusInternalServerError, "リセットに失敗しました")
		return
	}

	slog.Info("節約額をリセット", "uid", userID)
	response.Success(c, gin.H{"message": "節約額をリセットしました"})
}
