package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"TripPlanner-App/internal/domain/model"
	"TripPlanner-App/internal/usecase"
)

// SpotSelectionHandler はおすすめスポットの参照・選択APIのハンドラー
type SpotSelectionHandler struct {
	selectionUseCase usecase.SpotSelectionUseCase
}

// NewSpotSelectionHandler は新しいSpotSelectionHandlerインスタンスを作成
func NewSpotSelectionHandler(selectionUseCase usecase.SpotSelectionUseCase) *SpotSelectionHandler {
	return &SpotSelectionHandler{
		selectionUseCase: selectionUseCase,
	}
}

// GetRecommendations GET /plans/:plan_id/recommendations
func (h *SpotSelectionHandler) GetRecommendations(c *gin.Context) {
	spots, err := h.selectionUseCase.GetRecommendations(c.Request.Context(), c.Param("plan_id"))
	if err != nil {
		respondError(c, err, "おすすめスポットが見つかりません")
		return
	}
	c.JSON(http.StatusOK, spots)
}

// PutRecommendations PUT /plans/:plan_id/recommendations
func (h *SpotSelectionHandler) PutRecommendations(c *gin.Context) {
	var spots model.RecommendedSpots
	if err := c.ShouldBindJSON(&spots); err != nil {
		bindError(c, err)
		return
	}

	if err := h.selectionUseCase.ReplaceRecommendations(c.Request.Context(), c.Param("plan_id"), &spots); err != nil {
		respondError(c, err, "おすすめスポットの保存に失敗しました")
		return
	}
	c.JSON(http.StatusOK, &spots)
}

// selectionRequest は選択状態の更新リクエスト
// selected を省略すると現在の状態を反転する
type selectionRequest struct {
	Selected *bool `json:"selected"`
}

// PatchSelection PATCH /plans/:plan_id/spots/:spot_id/selection
func (h *SpotSelectionHandler) PatchSelection(c *gin.Context) {
	var req selectionRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		bindError(c, err)
		return
	}

	spot, err := h.selectionUseCase.UpdateSelection(c.Request.Context(), c.Param("plan_id"), c.Param("spot_id"), req.Selected)
	if err != nil {
		respondError(c, err, "選択状態の更新に失敗しました")
		return
	}
	c.JSON(http.StatusOK, spot)
}

// GetRoute GET /plans/:plan_id/route
func (h *SpotSelectionHandler) GetRoute(c *gin.Context) {
	route, err := h.selectionUseCase.GetRoute(c.Request.Context(), c.Param("plan_id"))
	if err != nil {
		respondError(c, err, "ルートが見つかりません")
		return
	}
	c.JSON(http.StatusOK, route)
}
