package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"poll-service/internal/cache"
	"poll-service/internal/models"
	"poll-service/internal/repositories/postgres"
	"poll-service/internal/testutil"

	"gorm.io/gorm"
)

const testWindow = 5 * time.Minute

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// downCounter fails every call the way an unreachable Redis does.
type downCounter struct{}

func (downCounter) Exists(context.Context, string) (bool, error) { return false, cache.ErrUnavailable }
func (downCounter) Get(context.Context, string) (string, bool, error) {
	return "", false, cache.ErrUnavailable
}
func (downCounter) SetWithExpiry(context.Context, string, string, time.Duration) error {
	return cache.ErrUnavailable
}
func (downCounter) SetIfAbsent(context.Context, string, string, time.Duration) (bool, error) {
	return false, cache.ErrUnavailable
}
func (downCounter) Increment(context.Context, string) (int64, error) { return 0, cache.ErrUnavailable }
func (downCounter) Delete(context.Context, string) error             { return cache.ErrUnavailable }

// brokenInsertStore reads from the real store but cannot write votes.
type brokenInsertStore struct {
	*postgres.VoteRepository
}

func (brokenInsertStore) InsertVote(context.Context, *models.Vote) error {
	return errors.New("connection reset by peer")
}

type recordingPublisher struct {
	events chan models.VoteEvent
}

func newRecordingPublisher() *recordingPublisher {
	return &recordingPublisher{events: make(chan models.VoteEvent, 16)}
}

func (p *recordingPublisher) PublishVote(_ context.Context, event models.VoteEvent) error {
	p.events <- event
	return nil
}

type fixture struct {
	db      *gorm.DB
	clock   *fakeClock
	counter *cache.MemoryCounter
	polls   *postgres.PollRepository
	votes   *postgres.VoteRepository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	clock := newFakeClock()
	db := testutil.SetupTestDB(t)
	return &fixture{
		db:      db,
		clock:   clock,
		counter: cache.NewMemoryCounter(cache.WithClock(clock.Now)),
		polls:   postgres.NewPollRepository(db),
		votes:   postgres.NewVoteRepository(db),
	}
}

func (f *fixture) voteService(store VoteStore, counter cache.Counter, publisher VotePublisher) *VoteService {
	svc := NewVoteService(store, counter, publisher, testWindow)
	svc.now = f.clock.Now
	return svc
}

func (f *fixture) defaultVoteService() *VoteService {
	return f.voteService(f.votes, f.counter, nil)
}

func (f *fixture) countVotes(t *testing.T, optionID uint) int64 {
	t.Helper()
	count, err := f.votes.CountVotes(context.Background(), optionID)
	if err != nil {
		t.Fatalf("count votes: %v", err)
	}
	return count
}

func (f *fixture) voteRows(t *testing.T) int64 {
	t.Helper()
	var rows int64
	if err := f.db.Model(&models.Vote{}).Count(&rows).Error; err != nil {
		t.Fatalf("count vote rows: %v", err)
	}
	return rows
}
