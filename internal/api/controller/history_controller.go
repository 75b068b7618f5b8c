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

// HistoryController 历史列表与购买决定
type HistoryController struct {
	service *service.HistoryService
}

// NewHistoryController 构造函数
func NewHistoryController(s *service.HistoryService) *HistoryController {
	return &HistoryController{service: s}
}

type HistoryResponse struct {
	History    []model.CheckEntity `json:"history"`
	TotalSaved float64             `json:"totalSaved"`
}

// List 历史列表
// @Summary 历史列表
// @Description 新→旧最多 100 条，附带累计节约额
// @Tags History
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=HistoryResponse}
// @Router /history [get]
func (ctrl *HistoryController) List(c *gin.Context) {
	userID := c.GetString("userID")

	records, total, err := ctrl.service.List(c.Request.Context(), userID)
	if err != nil {
		slog.Error("获取历史失败", "uid", userID, "err", err)
		response.Error(c, http.StatusInternalServerError, "履歴の取得に失敗しました")
		return
	}

	response.Success(c, HistoryResponse{History: records, TotalSaved: total})
}

type ResolveRequest struct {
	// Bought true = 买了 / false = 忍住没买（计入节约）
	Bought *bool `json:"bought" binding:"required"`
}

type ResolveResponse struct {
	Record     *model.CheckEntity `json:"record"`
	TotalSaved float64            `json:"totalSaved"`
}

// Resolve 记录购买决定
// @Summary 记录买了/没买
// @Description 未决定记录只能决定一次，重复决定返回 409
// @Tags History
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "记录 id"
// @Param request body ResolveRequest true "决定"
// @Success 200 {object} response.Response{data=ResolveResponse}
// @Router /history/{id} [patch]
func (ctrl *HistoryController) Resolve(c *gin.Context) {
	userID := c.GetString("userID")
	recordID := c.Param("id")

	var req ResolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "bought (true/false) が必要です")
		return
	}

	record, total, err := ctrl.service.Resolve(c.Request.Context(), userID, recordID, *req.Bought)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		response.Error(c, http.StatusNotFound, "レコードが見つかりません")
		return
	case errors.Is(err, repository.ErrAlreadyDecided):
		response.Error(c, http.StatusConflict, "既に決定済みです")
		return
	case err != nil:
		slog.Error("决定写入失败", "uid", userID, "record", recordID, "err", err)
		response.Error(c, http.StatusInternalServerError, "決定の保存に失敗しました")
		return
	}

	response.Success(c, ResolveResponse{Record: record, TotalSaved: total})
}

// Delete 删除单条历史
// @Summary 删除单条历史
// @Tags History
// @Produce json
// @Security BearerAuth
// @Param id path string true "记录 id"
// @Success 200 {object} response.Response
// @Router /history/{id} [delete]
func (ctrl *HistoryController) Delete(c *gin.Context) {
	userID := c.GetString("userID")
	recordID := c.Param("id")

	err := ctrl.service.Delete(c.Request.Context(), userID, recordID)
	if errors.Is(err, repository.ErrNotFound) {
		response.Error(c, http.StatusNotFound, "レコードが見つかりません")
		return
	}
	if err != nil {
		slog.Error("删除历史失败", "uid", userID, "record", recordID, "err", err)
		response.Error(c, http.StatusInternalServerError, "削除に失敗しました")
		return
	}

	response.Success(c, nil)
}

// Clear 清空历史
// @Summary 清空全部历史
// @Description 不可逆；节约额不受影响
// @Tags History
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /history [delete]
func (ctrl *HistoryController) Clear(c *gin.Context) {
	userID := c.GetString("userID")

	if err := ctrl.service.Clear(c.Request.Context(), userID); err != nil {
		slog.Error("清空历史失败", "uid", userID, "err", err)
		response.Error(c, http.StatusInternalServerError, "履歴のクリアに失敗しました")
		return
	}

	response.Success(c, nil)
}
