package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"TripPlanner-App/internal/domain/model"
)

// respondError はエラーの種類に応じたステータスコードでレスポンスを返す
func respondError(c *gin.Context, err error, message string) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, model.ErrInvalidInput):
		status = http.StatusBadRequest
	case errors.Is(err, model.ErrNotFound):
		status = http.StatusNotFound
	}
	_ = c.Error(err)
	c.JSON(status, gin.H{
		"error":   message,
		"details": err.Error(),
	})
}

// bindError はリクエストボディの解析エラーを返す
func bindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error":   "リクエストの形式が正しくありません",
		"details": err.Error(),
	})
}
