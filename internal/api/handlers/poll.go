package handlers

import (
	"context"
	"net/http"

	"poll-service/internal/models"
	"poll-service/pkg/response"

	"github.com/gin-gonic/gin"
)

type PollManager interface {
	List(ctx context.Context) ([]models.PollResponse, error)
	Get(ctx context.Context, id uint) (*models.PollResponse, error)
	Create(ctx context.Context, req *models.CreatePollRequest) (*models.PollResponse, error)
	Delete(ctx context.Context, id uint) error
	AddQuestion(ctx context.Context, pollID uint, req *models.CreateQuestionRequest) (*models.QuestionResponse, error)
	AddOption(ctx context.Context, questionID uint, req *models.CreateOptionRequest) (*models.OptionResponse, error)
	BulkUpsert(ctx context.Context, req *models.BulkUpsertPollsRequest) ([]models.PollResponse, error)
}

type PollHandler struct {
	pollService PollManager
}

func NewPollHandler(pollService PollManager) *PollHandler {
	return &PollHandler{pollService: pollService}
}

// ListPolls godoc
// @Summary List polls
// @Description Every poll with its questions, options and vote counts
// @Tags polls
// @Produce json
// @Success 200 {array} models.PollResponse
// @Failure 503 {object} models.ErrorResponse "Temporarily unavailable"
// @Router /polls [get]
func (h *PollHandler) ListPolls(c *gin.Context) {
	polls, err := h.pollService.List(c.Request.Context())
	if err != nil {
		respondError(c, err, response.PollNotFound)
		return
	}
	c.JSON(http.StatusOK, polls)
}

// GetPoll godoc
// @Summary Get a poll
// @Tags polls
// @Produce json
// @Param poll_id path int true "Poll ID"
// @Success 200 {object} models.PollResponse
// @Failure 400 {object} models.ErrorResponse "Invalid poll id"
// @Failure 404 {object} models.ErrorResponse "Poll not found"
// @Router /polls/{poll_id} [get]
func (h *PollHandler) GetPoll(c *gin.Context) {
	pollID, ok := idParam(c, "poll_id")
	if !ok {
		return
	}

	poll, err := h.pollService.Get(c.Request.Context(), pollID)
	if err != nil {
		respondError(c, err, response.PollNotFound)
		return
	}
	c.JSON(http.StatusOK, poll)
}

// CreatePoll godoc
// @Summary Create a poll
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.CreatePollRequest true "Poll data"
// @Success 201 {object} models.PollResponse
// @Failure 400 {object} models.ErrorResponse "Bad request - invalid input data"
// @Failure 401 {object} models.ErrorResponse "Unauthorized"
// @Router /polls [post]
func (h *PollHandler) CreatePoll(c *gin.Context) {
	var req models.CreatePollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, response.ErrCodeParamInvalid)
		return
	}

	poll, err := h.pollService.Create(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, response.PollNotFound)
		return
	}
	c.JSON(http.StatusCreated, poll)
}

// BulkUpsertPolls godoc
// @Summary Create or update polls in bulk
// @Description Entries with an id update the existing poll, question or option; entries without one are created. Nothing is deleted.
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.BulkUpsertPollsRequest true "Poll trees"
// @Success 200 {array} models.PollResponse
// @Failure 400 {object} models.ErrorResponse "Bad request - invalid input data"
// @Failure 401 {object} models.ErrorResponse "Unauthorized"
// @Failure 404 {object} models.ErrorResponse "Referenced poll, question or option not found"
// @Router /polls/bulk [post]
func (h *PollHandler) BulkUpsertPolls(c *gin.Context) {
	var req models.BulkUpsertPollsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, response.ErrCodeParamInvalid)
		return
	}

	polls, err := h.pollService.BulkUpsert(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, response.PollNotFound)
		return
	}
	c.JSON(http.StatusOK, polls)
}

// DeletePoll godoc
// @Summary Delete a poll
// @Description Deletes the poll with its questions, options and votes
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param poll_id path int true "Poll ID"
// @Success 200 {object} models.MessageResponse
// @Failure 401 {object} models.ErrorResponse "Unauthorized"
// @Failure 404 {object} models.ErrorResponse "Poll not found"
// @Router /polls/{poll_id} [delete]
func (h *PollHandler) DeletePoll(c *gin.Context) {
	pollID, ok := idParam(c, "poll_id")
	if !ok {
		return
	}

	if err := h.pollService.Delete(c.Request.Context(), pollID); err != nil {
		respondError(c, err, response.PollNotFound)
		return
	}
	c.JSON(http.StatusOK, models.MessageResponse{Message: response.Msg(response.PollDeleted)})
}

// AddQuestion godoc
// @Summary Add a question to a poll
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param poll_id path int true "Poll ID"
// @Param request body models.CreateQuestionRequest true "Question data"
// @Success 201 {object} models.QuestionResponse
// @Failure 400 {object} models.ErrorResponse "Bad request - invalid input data"
// @Failure 404 {object} models.ErrorResponse "Poll not found"
// @Router /polls/{poll_id}/questions [post]
func (h *PollHandler) AddQuestion(c *gin.Context) {
	pollID, ok := idParam(c, "poll_id")
	if !ok {
		return
	}

	var req models.CreateQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, response.ErrCodeParamInvalid)
		return
	}

	question, err := h.pollService.AddQuestion(c.Request.Context(), pollID, &req)
	if err != nil {
		respondError(c, err, response.PollNotFound)
		return
	}
	c.JSON(http.StatusCreated, question)
}

// AddOption godoc
// @Summary Add an option to a question
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param question_id path int true "Question ID"
// @Param request body models.CreateOptionRequest true "Option data"
// @Success 201 {object} models.OptionResponse
// @Failure 400 {object} models.ErrorResponse "Bad request - invalid input data"
// @Failure 404 {object} models.ErrorResponse "Question not found"
// @Router /questions/{question_id}/options [post]
func (h *PollHandler) AddOption(c *gin.Context) {
	questionID, ok := idParam(c, "question_id")
	if !ok {
		return
	}

	var req models.CreateOptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, response.ErrCodeParamInvalid)
		return
	}

	option, err := h.pollService.AddOption(c.Request.Context(), questionID, &req)
	if err != nil {
		respondError(c, err, response.QuestionNotFound)
		return
	}
	c.JSON(http.StatusCreated, option)
}
