package handlers

import (
	"context"
	"net/http"
	"strconv"

	"poll-service/internal/models"
	"poll-service/internal/services"
	"poll-service/pkg/response"

	"github.com/gin-gonic/gin"
)

type VoteCaster interface {
	CastVote(ctx context.Context, optionID uint, clientIdentity string) (services.VoteResult, error)
}

type VoteHandler struct {
	voteService VoteCaster
}

func NewVoteHandler(voteService VoteCaster) *VoteHandler {
	return &VoteHandler{voteService: voteService}
}

// CastVote godoc
// @Summary Vote for an option
// @Description Record an anonymous vote. Each client may vote once per question within the vote window.
// @Tags votes
// @Produce json
// @Param option_id path int true "Option ID"
// @Success 201 {object} models.VoteResponse "Vote recorded"
// @Failure 400 {object} models.ErrorResponse "Invalid option id"
// @Failure 404 {object} models.ErrorResponse "Option not found"
// @Failure 429 {object} models.VoteResponse "Already voted on this question recently"
// @Failure 503 {object} models.ErrorResponse "Temporarily unavailable, retry"
// @Router /options/{option_id}/vote [post]
func (h *VoteHandler) CastVote(c *gin.Context) {
	optionID, ok := idParam(c, "option_id")
	if !ok {
		return
	}

	result, err := h.voteService.CastVote(c.Request.Context(), optionID, c.ClientIP())
	if err != nil {
		respondError(c, err, response.OptionNotFound)
		return
	}

	if !result.Accepted {
		if seconds := int(result.RetryAfter.Seconds()); seconds > 0 {
			c.Header("Retry-After", strconv.Itoa(seconds))
		}
		c.JSON(http.StatusTooManyRequests, models.VoteResponse{Message: response.Msg(response.VoteRateLimited)})
		return
	}

	c.JSON(http.StatusCreated, models.VoteResponse{
		Message: response.Msg(response.VoteAccepted),
		VoteID:  result.VoteID,
	})
}
