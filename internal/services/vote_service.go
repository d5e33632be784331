package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"poll-service/internal/cache"
	"poll-service/internal/models"
)

// VoteStore is the part of the database the vote path needs.
type VoteStore interface {
	FindOption(ctx context.Context, optionID uint) (*models.Option, error)
	InsertVote(ctx context.Context, vote *models.Vote) error
	HasRecentVote(ctx context.Context, questionID uint, clientHash string, since time.Time) (bool, error)
}

// VotePublisher announces committed votes to downstream consumers.
type VotePublisher interface {
	PublishVote(ctx context.Context, event models.VoteEvent) error
}

// NopPublisher drops every event.
type NopPublisher struct{}

func (NopPublisher) PublishVote(context.Context, models.VoteEvent) error { return nil }

type VoteReason string

const (
	ReasonAccepted    VoteReason = "accepted"
	ReasonRateLimited VoteReason = "rate_limited"
)

// VoteResult is the outcome of a vote that reached the rate limiter.
// A rate-limited vote is a normal result, not an error.
type VoteResult struct {
	Accepted   bool
	Reason     VoteReason
	VoteID     uint
	RetryAfter time.Duration
}

type VoteService struct {
	store     VoteStore
	counter   cache.Counter
	publisher VotePublisher
	window    time.Duration
	now       func() time.Time
}

func NewVoteService(store VoteStore, counter cache.Counter, publisher VotePublisher, window time.Duration) *VoteService {
	if publisher == nil {
		publisher = NopPublisher{}
	}
	return &VoteService{
		store:     store,
		counter:   counter,
		publisher: publisher,
		window:    window,
		now:       time.Now,
	}
}

// ClientHash derives the stored client key from the raw identity so that
// addresses never reach the database or the cache.
func ClientHash(identity string) string {
	sum := sha256.Sum256([]byte(identity))
	return hex.EncodeToString(sum[:])
}

// CastVote records one vote for optionID on behalf of clientIdentity, at most
// once per question per client within the vote window.
func (s *VoteService) CastVote(ctx context.Context, optionID uint, clientIdentity string) (VoteResult, error) {
	if optionID == 0 || clientIdentity == "" {
		return VoteResult{}, fmt.Errorf("cast vote: %w", ErrValidation)
	}

	option, err := s.store.FindOption(ctx, optionID)
	if err != nil {
		return VoteResult{}, storeError("cast vote", err)
	}

	clientHash := ClientHash(clientIdentity)
	markerKey := cache.VoteMarkerKey(option.QuestionID, clientHash)

	fresh, err := s.claimWindow(ctx, markerKey, option.QuestionID, clientHash)
	if err != nil {
		return VoteResult{}, err
	}
	if !fresh {
		slog.Debug("Vote rate limited", "optionID", optionID, "questionID", option.QuestionID)
		return VoteResult{Reason: ReasonRateLimited, RetryAfter: s.window}, nil
	}

	counterKey := cache.OptionCounterKey(optionID)
	if _, err := s.counter.Increment(ctx, counterKey); err != nil {
		slog.Warn("Failed to increment option counter", "optionID", optionID, "error", err)
		if errors.Is(err, cache.ErrMalformed) {
			// the next live read rebuilds it from the vote rows
			_ = s.counter.Delete(ctx, counterKey)
		}
	}

	vote := &models.Vote{
		OptionID:   optionID,
		QuestionID: option.QuestionID,
		ClientHash: clientHash,
		CreatedAt:  s.now().UTC(),
	}
	if err := s.store.InsertVote(ctx, vote); err != nil {
		if delErr := s.counter.Delete(ctx, markerKey); delErr != nil {
			slog.Warn("Failed to release vote marker", "questionID", option.QuestionID, "error", delErr)
		}
		slog.Error("Failed to record vote", "optionID", optionID, "error", err)
		return VoteResult{}, storeError("cast vote", err)
	}

	slog.Info("Vote recorded", "voteID", vote.ID, "optionID", optionID, "questionID", option.QuestionID)
	s.publish(ctx, models.VoteEvent{
		VoteID:     vote.ID,
		OptionID:   vote.OptionID,
		QuestionID: vote.QuestionID,
		At:         vote.CreatedAt,
	})

	return VoteResult{Accepted: true, Reason: ReasonAccepted, VoteID: vote.ID}, nil
}

// claimWindow reports whether the client may vote on the question now, and
// if so opens its window. When the cache is down the database answers
// instead and no marker is written.
func (s *VoteService) claimWindow(ctx context.Context, markerKey string, questionID uint, clientHash string) (bool, error) {
	set, err := s.counter.SetIfAbsent(ctx, markerKey, "1", s.window)
	if err == nil {
		return set, nil
	}
	if !errors.Is(err, cache.ErrUnavailable) {
		return false, fmt.Errorf("cast vote: %w: %w", ErrTransient, err)
	}

	slog.Warn("Cache unavailable, checking vote window in store", "questionID", questionID, "error", err)
	recent, err := s.store.HasRecentVote(ctx, questionID, clientHash, s.now().Add(-s.window))
	if err != nil {
		return false, storeError("cast vote", err)
	}
	return !recent, nil
}

// publish never fails the vote. Wire a non-blocking publisher such as
// EventQueue in front of anything that talks to a broker.
func (s *VoteService) publish(ctx context.Context, event models.VoteEvent) {
	if err := s.publisher.PublishVote(ctx, event); err != nil {
		slog.Warn("Vote event not published", "voteID", event.VoteID, "error", err)
	}
}
