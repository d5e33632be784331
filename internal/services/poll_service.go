package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"poll-service/internal/cache"
	"poll-service/internal/models"
)

type PollStore interface {
	List(ctx context.Context) ([]models.Poll, error)
	FindByID(ctx context.Context, id uint) (*models.Poll, error)
	Create(ctx context.Context, poll *models.Poll) error
	Delete(ctx context.Context, id uint) error
	CreateQuestion(ctx context.Context, question *models.Question) error
	CreateOption(ctx context.Context, option *models.Option) error
	Upsert(ctx context.Context, poll *models.Poll) error
}

type PollService struct {
	polls   PollStore
	votes   VoteCounter
	counter cache.Counter
}

func NewPollService(polls PollStore, votes VoteCounter, counter cache.Counter) *PollService {
	return &PollService{
		polls:   polls,
		votes:   votes,
		counter: counter,
	}
}

func (s *PollService) List(ctx context.Context) ([]models.PollResponse, error) {
	polls, err := s.polls.List(ctx)
	if err != nil {
		return nil, storeError("list polls", err)
	}

	var ids []uint
	for _, poll := range polls {
		for _, question := range poll.Questions {
			ids = append(ids, optionIDs(question.Options)...)
		}
	}
	counts, err := s.votes.CountVotesByOption(ctx, ids)
	if err != nil {
		return nil, storeError("list polls", err)
	}

	responses := make([]models.PollResponse, 0, len(polls))
	for i := range polls {
		responses = append(responses, toPollResponse(&polls[i], counts))
	}
	return responses, nil
}

func (s *PollService) Get(ctx context.Context, id uint) (*models.PollResponse, error) {
	poll, err := s.polls.FindByID(ctx, id)
	if err != nil {
		return nil, storeError("get poll", err)
	}
	return s.withCounts(ctx, poll)
}

func (s *PollService) Create(ctx context.Context, req *models.CreatePollRequest) (*models.PollResponse, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, fmt.Errorf("create poll: title is required: %w", ErrValidation)
	}

	poll := &models.Poll{Title: title, Description: strings.TrimSpace(req.Description)}
	if err := s.polls.Create(ctx, poll); err != nil {
		return nil, storeError("create poll", err)
	}

	slog.Info("Poll created", "pollID", poll.ID)
	response := toPollResponse(poll, nil)
	return &response, nil
}

// Delete removes a poll and everything under it, then drops the fast
// counters of its options.
func (s *PollService) Delete(ctx context.Context, id uint) error {
	poll, err := s.polls.FindByID(ctx, id)
	if err != nil {
		return storeError("delete poll", err)
	}
	if err := s.polls.Delete(ctx, id); err != nil {
		return storeError("delete poll", err)
	}

	for _, question := range poll.Questions {
		for _, option := range question.Options {
			if err := s.counter.Delete(ctx, cache.OptionCounterKey(option.ID)); err != nil {
				slog.Warn("Failed to drop option counter", "optionID", option.ID, "error", err)
			}
		}
	}

	slog.Info("Poll deleted", "pollID", id)
	return nil
}

func (s *PollService) AddQuestion(ctx context.Context, pollID uint, req *models.CreateQuestionRequest) (*models.QuestionResponse, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, fmt.Errorf("add question: text is required: %w", ErrValidation)
	}

	question := &models.Question{PollID: pollID, Text: text}
	if err := s.polls.CreateQuestion(ctx, question); err != nil {
		return nil, storeError("add question", err)
	}

	response := toQuestionResponse(question, nil)
	return &response, nil
}

func (s *PollService) AddOption(ctx context.Context, questionID uint, req *models.CreateOptionRequest) (*models.OptionResponse, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, fmt.Errorf("add option: text is required: %w", ErrValidation)
	}

	option := &models.Option{QuestionID: questionID, Text: text}
	if err := s.polls.CreateOption(ctx, option); err != nil {
		return nil, storeError("add option", err)
	}

	return &models.OptionResponse{ID: option.ID, Text: option.Text, QuestionID: option.QuestionID}, nil
}

// BulkUpsert writes each poll tree in its own transaction and returns the
// stored polls in request order. It stops at the first failing poll; polls
// before it stay committed.
func (s *PollService) BulkUpsert(ctx context.Context, req *models.BulkUpsertPollsRequest) ([]models.PollResponse, error) {
	if len(req.Polls) == 0 {
		return nil, fmt.Errorf("bulk upsert: no polls given: %w", ErrValidation)
	}

	responses := make([]models.PollResponse, 0, len(req.Polls))
	for i := range req.Polls {
		poll, err := fromUpsertRequest(&req.Polls[i])
		if err != nil {
			return nil, err
		}
		if err := s.polls.Upsert(ctx, poll); err != nil {
			return nil, storeError(fmt.Sprintf("bulk upsert poll %d", i), err)
		}

		stored, err := s.Get(ctx, poll.ID)
		if err != nil {
			return nil, err
		}
		responses = append(responses, *stored)
	}

	slog.Info("Polls upserted", "count", len(responses))
	return responses, nil
}

func (s *PollService) withCounts(ctx context.Context, poll *models.Poll) (*models.PollResponse, error) {
	var ids []uint
	for _, question := range poll.Questions {
		ids = append(ids, optionIDs(question.Options)...)
	}
	counts, err := s.votes.CountVotesByOption(ctx, ids)
	if err != nil {
		return nil, storeError("count poll votes", err)
	}
	response := toPollResponse(poll, counts)
	return &response, nil
}

func fromUpsertRequest(req *models.UpsertPollRequest) (*models.Poll, error) {
	poll := &models.Poll{
		ID:          req.ID,
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
	}
	if poll.Title == "" {
		return nil, fmt.Errorf("bulk upsert: title is required: %w", ErrValidation)
	}

	for _, q := range req.Questions {
		question := models.Question{ID: q.ID, Text: strings.TrimSpace(q.Text)}
		if question.Text == "" {
			return nil, fmt.Errorf("bulk upsert: question text is required: %w", ErrValidation)
		}
		for _, o := range q.Options {
			option := models.Option{ID: o.ID, Text: strings.TrimSpace(o.Text)}
			if option.Text == "" {
				return nil, fmt.Errorf("bulk upsert: option text is required: %w", ErrValidation)
			}
			question.Options = append(question.Options, option)
		}
		poll.Questions = append(poll.Questions, question)
	}
	return poll, nil
}

func toPollResponse(poll *models.Poll, counts map[uint]int64) models.PollResponse {
	questions := make([]models.QuestionResponse, 0, len(poll.Questions))
	for i := range poll.Questions {
		questions = append(questions, toQuestionResponse(&poll.Questions[i], counts))
	}
	return models.PollResponse{
		ID:          poll.ID,
		Title:       poll.Title,
		Description: poll.Description,
		Questions:   questions,
	}
}

func toQuestionResponse(question *models.Question, counts map[uint]int64) models.QuestionResponse {
	options := make([]models.OptionResponse, 0, len(question.Options))
	for _, option := range question.Options {
		options = append(options, models.OptionResponse{
			ID:         option.ID,
			Text:       option.Text,
			QuestionID: option.QuestionID,
			VotesCount: counts[option.ID],
		})
	}
	return models.QuestionResponse{
		ID:      question.ID,
		Text:    question.Text,
		PollID:  question.PollID,
		Options: options,
	}
}
