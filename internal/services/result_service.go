package services

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"poll-service/internal/cache"
	"poll-service/internal/models"
)

// optionCounterTTL caps the life of a seeded or reconciled counter so that
// counters of deleted options do not outlive them for long. An expired
// counter is rebuilt from the vote rows on the next live read.
const optionCounterTTL = 24 * time.Hour

type QuestionStore interface {
	FindQuestion(ctx context.Context, id uint) (*models.Question, error)
}

// VoteCounter reads authoritative tallies from vote rows.
type VoteCounter interface {
	CountVotes(ctx context.Context, optionID uint) (int64, error)
	CountVotesByOption(ctx context.Context, optionIDs []uint) (map[uint]int64, error)
}

type ResultService struct {
	questions QuestionStore
	votes     VoteCounter
	counter   cache.Counter
}

func NewResultService(questions QuestionStore, votes VoteCounter, counter cache.Counter) *ResultService {
	return &ResultService{
		questions: questions,
		votes:     votes,
		counter:   counter,
	}
}

// GetResults returns the authoritative tally of a question, options in
// display order. It never consults the fast counters.
func (s *ResultService) GetResults(ctx context.Context, questionID uint) (*models.QuestionResults, error) {
	question, err := s.questions.FindQuestion(ctx, questionID)
	if err != nil {
		return nil, storeError("get results", err)
	}

	counts, err := s.votes.CountVotesByOption(ctx, optionIDs(question.Options))
	if err != nil {
		return nil, storeError("get results", err)
	}

	results := make([]models.OptionResult, 0, len(question.Options))
	for _, option := range question.Options {
		results = append(results, models.OptionResult{
			OptionID: option.ID,
			Text:     option.Text,
			Votes:    counts[option.ID],
		})
	}

	return &models.QuestionResults{
		QuestionID:   question.ID,
		QuestionText: question.Text,
		Results:      results,
	}, nil
}

// GetLiveResults serves the fast counters. Missing counters are seeded from
// the store; if the cache is down every option is counted from the store.
func (s *ResultService) GetLiveResults(ctx context.Context, questionID uint) (*models.LiveResults, error) {
	question, err := s.questions.FindQuestion(ctx, questionID)
	if err != nil {
		return nil, storeError("get live results", err)
	}

	results := make([]models.LiveOptionResult, 0, len(question.Options))
	for _, option := range question.Options {
		votes, err := s.liveCount(ctx, option.ID)
		if err != nil {
			return nil, err
		}
		results = append(results, models.LiveOptionResult{
			OptionID:         option.ID,
			Text:             option.Text,
			ApproximateVotes: votes,
		})
	}

	return &models.LiveResults{
		QuestionID:   question.ID,
		QuestionText: question.Text,
		Approximate:  true,
		Results:      results,
	}, nil
}

func (s *ResultService) liveCount(ctx context.Context, optionID uint) (int64, error) {
	key := cache.OptionCounterKey(optionID)

	raw, found, err := s.counter.Get(ctx, key)
	if err != nil {
		slog.Warn("Cache unavailable, counting votes in store", "optionID", optionID, "error", err)
		return s.countFromStore(ctx, optionID)
	}
	if found {
		if votes, err := strconv.ParseInt(raw, 10, 64); err == nil {
			return votes, nil
		}
		slog.Warn("Discarding malformed option counter", "optionID", optionID, "value", raw)
	}

	votes, err := s.countFromStore(ctx, optionID)
	if err != nil {
		return 0, err
	}
	if found {
		err = s.counter.SetWithExpiry(ctx, key, strconv.FormatInt(votes, 10), optionCounterTTL)
	} else {
		_, err = s.counter.SetIfAbsent(ctx, key, strconv.FormatInt(votes, 10), optionCounterTTL)
	}
	if err != nil {
		slog.Warn("Failed to seed option counter", "optionID", optionID, "error", err)
	}
	return votes, nil
}

func (s *ResultService) countFromStore(ctx context.Context, optionID uint) (int64, error) {
	votes, err := s.votes.CountVotes(ctx, optionID)
	if err != nil {
		return 0, storeError("count votes", err)
	}
	return votes, nil
}

func optionIDs(options []models.Option) []uint {
	ids := make([]uint, len(options))
	for i, option := range options {
		ids[i] = option.ID
	}
	return ids
}
