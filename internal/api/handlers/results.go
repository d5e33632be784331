package handlers

import (
	"context"
	"net/http"

	"poll-service/internal/models"
	"poll-service/pkg/response"

	"github.com/gin-gonic/gin"
)

type ResultReader interface {
	GetResults(ctx context.Context, questionID uint) (*models.QuestionResults, error)
	GetLiveResults(ctx context.Context, questionID uint) (*models.LiveResults, error)
}

type ResultHandler struct {
	resultService ResultReader
}

func NewResultHandler(resultService ResultReader) *ResultHandler {
	return &ResultHandler{resultService: resultService}
}

// GetResults godoc
// @Summary Question results
// @Description Authoritative vote counts for every option of a question, in display order
// @Tags results
// @Produce json
// @Param question_id path int true "Question ID"
// @Success 200 {object} models.QuestionResults
// @Failure 400 {object} models.ErrorResponse "Invalid question id"
// @Failure 404 {object} models.ErrorResponse "Question not found"
// @Failure 503 {object} models.ErrorResponse "Temporarily unavailable"
// @Router /questions/{question_id}/results [get]
func (h *ResultHandler) GetResults(c *gin.Context) {
	questionID, ok := idParam(c, "question_id")
	if !ok {
		return
	}

	results, err := h.resultService.GetResults(c.Request.Context(), questionID)
	if err != nil {
		respondError(c, err, response.QuestionNotFound)
		return
	}
	c.JSON(http.StatusOK, results)
}

// GetLiveResults godoc
// @Summary Live question results
// @Description Approximate counts served from the fast counters. May lag the authoritative results.
// @Tags results
// @Produce json
// @Param question_id path int true "Question ID"
// @Success 200 {object} models.LiveResults
// @Failure 400 {object} models.ErrorResponse "Invalid question id"
// @Failure 404 {object} models.ErrorResponse "Question not found"
// @Failure 503 {object} models.ErrorResponse "Temporarily unavailable"
// @Router /questions/{question_id}/live [get]
func (h *ResultHandler) GetLiveResults(c *gin.Context) {
	questionID, ok := idParam(c, "question_id")
	if !ok {
		return
	}

	results, err := h.resultService.GetLiveResults(c.Request.Context(), questionID)
	if err != nil {
		respondError(c, err, response.QuestionNotFound)
		return
	}
	c.JSON(http.StatusOK, results)
}
