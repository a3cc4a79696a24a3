package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"TripPlanner-App/internal/domain/model"
	"TripPlanner-App/internal/usecase"
)

// WorkflowHandler はチャット1ターン分のワークフローを実行するハンドラー
type WorkflowHandler struct {
	workflowUseCase usecase.RecommendationWorkflowUseCase
}

// NewWorkflowHandler は新しいWorkflowHandlerインスタンスを作成
func NewWorkflowHandler(workflowUseCase usecase.RecommendationWorkflowUseCase) *WorkflowHandler {
	return &WorkflowHandler{
		workflowUseCase: workflowUseCase,
	}
}

// chatRequest はチャットAPIのリクエストボディ
type chatRequest struct {
	Messages         []model.ChatMessage     `json:"messages" binding:"required,min=1,dive"`
	RecommendedSpots *model.RecommendedSpots `json:"recommendedSpots"`
}

// PostChat はユーザーの発言を受け取り、ワークフローの結果を返す
// POST /plans/:plan_id/chat
func (h *WorkflowHandler) PostChat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	input := &model.WorkflowInput{
		PlanID:           c.Param("plan_id"),
		Messages:         req.Messages,
		RecommendedSpots: req.RecommendedSpots,
	}

	output, err := h.workflowUseCase.RunTurn(c.Request.Context(), input)
	if err != nil {
		respondError(c, err, "チャットの処理に失敗しました")
		return
	}

	c.JSON(http.StatusOK, output)
}
