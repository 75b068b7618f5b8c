package controller

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/octopus12176/tokimeki-checker/internal/api/response"
	"github.com/octopus12176/tokimeki-checker/internal/model"
	"github.com/octopus12176/tokimeki-checker/internal/service"
)

// CheckController 六问流程：开始 / 逐题回答 / 出结果
type CheckController struct {
	service *service.CheckService
}

// NewCheckController 构造函数
func NewCheckController(s *service.CheckService) *CheckController {
	return &CheckController{service: s}
}

type StartCheckRequest struct {
	ItemName  string  `json:"item_name"`
	ItemPrice float64 `json:"item_price" binding:"gte=0"` // 0 = 没填价格
}

type StartCheckResponse struct {
	SessionID string `json:"session_id"`
	Questions int    `json:"questions"`
}

// Questions 六问清单
// @Summary 获取六问清单
// @Description 返回固定的六问及其选项，顺序就是提问顺序
// @Tags Check
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=[]model.Question}
// @Router /questions [get]
func (ctrl *CheckController) Questions(c *gin.Context) {
	response.Success(c, model.Questions)
}

// Start 开始一次检查
// @Summary 开始一次购买检查
// @Description 建立问答会话，返回会话 id
// @Tags Check
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body StartCheckRequest true "检查对象"
// @Success 200 {object} response.Response{data=StartCheckResponse}
// @Router /checks [post]
func (ctrl *CheckController) Start(c *gin.Context) {
	userID := c.GetString("userID")

	var req StartCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "参数错误: "+err.Error())
		return
	}

	sessionID := ctrl.service.StartCheck(userID, req.ItemName, req.ItemPrice)
	response.Success(c, StartCheckResponse{
		SessionID: sessionID,
		Questions: len(model.Questions),
	})
}

type SubmitAnswerRequest struct {
	Theme      string `json:"theme"`
	ThemeLabel string `json:"themeLabel"`
	Question   string `json:"q" binding:"required"`
	AnswerText string `json:"a" binding:"required"`
	Score      int    `json:"score"`
}

type SubmitAnswerResponse struct {
	Feedback string `json:"feedback"`
	Done     bool   `json:"done"` // true = 六问答完，可以 finish 了
}

// Answer 提交一个回答
// @Summary 提交回答并获取 AI 反馈
// @Description 记录回答；反馈生成失败时返回兜底文案，流程不中断
// @Tags Check
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param sid path string true "会话 id"
// @Param request body SubmitAnswerRequest true "回答内容"
// @Success 200 {object} response.Response{data=SubmitAnswerResponse}
// @Router /checks/{sid}/answers [post]
func (ctrl *CheckController) Answer(c *gin.Context) {
	userID := c.GetString("userID")
	sessionID := c.Param("sid")

	var req SubmitAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "参数错误: "+err.Error())
		return
	}

	feedback, done, err := ctrl.service.SubmitAnswer(c.Request.Context(), userID, sessionID, model.Answer{
		Theme:      req.Theme,
		ThemeLabel: req.ThemeLabel,
		Question:   req.Question,
		AnswerText: req.AnswerText,
		Score:      req.Score,
	})
	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		response.Error(c, http.StatusNotFound, "セッションが見つかりません。最初からやり直してください")
		return
	case errors.Is(err, service.ErrValidation):
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		slog.Error("回答处理失败", "uid", userID, "err", err)
		response.Error(c, http.StatusInternalServerError, "回答の処理に失敗しました")
		return
	}

	response.Success(c, SubmitAnswerResponse{Feedback: feedback, Done: done})
}

// Finish 结束检查并出结果
// @Summary 出判定结果
// @Description 六问答完后打分、判定并以"未决定"状态写入历史
// @Tags Check
// @Produce json
// @Security BearerAuth
// @Param sid path string true "会话 id"
// @Success 200 {object} response.Response{data=service.CheckResult}
// @Router /checks/{sid}/finish [post]
func (ctrl *CheckController) Finish(c *gin.Context) {
	userID := c.GetString("userID")
	sessionID := c.Param("sid")

	result, err := ctrl.service.FinishCheck(c.Request.Context(), userID, sessionID)
	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		response.Error(c, http.StatusNotFound, "セッションが見つかりません")
		return
	case errors.Is(err, service.ErrCheckIncomplete):
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		// 落库失败必须让前端知道，静默丢结果不可接受
		slog.Error("結果の保存に失敗", "uid", userID, "err", err)
		response.Error(c, http.StatusInternalServerError, "結果の保存に失敗しました。もう一度お試しください")
		return
	}

	response.Success(c, result)
}
