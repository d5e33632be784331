package services

import (
	"context"
	"testing"

	"poll-service/internal/cache"
	"poll-service/internal/models"
	"poll-service/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetResultsIsAuthoritative(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	poll := testutil.SeedPoll(t, f.db, "P", testutil.SeedQuestion{Text: "Favourite?", Options: []string{"A", "B"}})
	question := poll.Questions[0]
	svc := f.defaultVoteService()
	results := NewResultService(f.polls, f.votes, f.counter)

	for _, client := range []string{"c1", "c2", "c3"} {
		_, err := svc.CastVote(ctx, question.Options[0].ID, client)
		require.NoError(t, err)
	}

	expected := &models.QuestionResults{
		QuestionID:   question.ID,
		QuestionText: "Favourite?",
		Results: []models.OptionResult{
			{OptionID: question.Options[0].ID, Text: "A", Votes: 3},
			{OptionID: question.Options[1].ID, Text: "B", Votes: 0},
		},
	}

	got, err := results.GetResults(ctx, question.ID)
	require.NoError(t, err)
	assert.Equal(t, expected, got)

	f.counter.Flush()
	require.NoError(t, f.counter.SetWithExpiry(ctx, cache.OptionCounterKey(question.Options[1].ID), "42", 0))

	got, err = results.GetResults(ctx, question.ID)
	require.NoError(t, err)
	assert.Equal(t, expected, got, "counter state never leaks into authoritative results")
}

func TestGetResultsUnknownQuestion(t *testing.T) {
	f := newFixture(t)
	_, err := NewResultService(f.polls, f.votes, f.counter).GetResults(context.Background(), 77)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = NewResultService(f.polls, f.votes, f.counter).GetLiveResults(context.Background(), 77)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetLiveResultsSeedsMissingCounters(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	poll := testutil.SeedPoll(t, f.db, "P", testutil.SeedQuestion{Text: "Q", Options: []string{"A", "B"}})
	a, b := poll.Questions[0].Options[0], poll.Questions[0].Options[1]
	testutil.SeedVotes(t, f.db, a, 2)
	results := NewResultService(f.polls, f.votes, f.counter)

	live, err := results.GetLiveResults(ctx, poll.Questions[0].ID)
	require.NoError(t, err)
	assert.True(t, live.Approximate)
	require.Len(t, live.Results, 2)
	assert.Equal(t, int64(2), live.Results[0].ApproximateVotes)
	assert.Equal(t, int64(0), live.Results[1].ApproximateVotes)

	raw, found, _ := f.counter.Get(ctx, cache.OptionCounterKey(a.ID))
	assert.True(t, found)
	assert.Equal(t, "2", raw)
	raw, found, _ = f.counter.Get(ctx, cache.OptionCounterKey(b.ID))
	assert.True(t, found)
	assert.Equal(t, "0", raw)

	_, err = f.defaultVoteService().CastVote(ctx, b.ID, "10.0.0.1")
	require.NoError(t, err)

	live, err = results.GetLiveResults(ctx, poll.Questions[0].ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), live.Results[1].ApproximateVotes)
}

func TestGetLiveResultsServesCounterValues(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	poll := testutil.SeedPoll(t, f.db, "P", testutil.SeedQuestion{Text: "Q", Options: []string{"A"}})
	a := poll.Questions[0].Options[0]
	testutil.SeedVotes(t, f.db, a, 1)
	require.NoError(t, f.counter.SetWithExpiry(ctx, cache.OptionCounterKey(a.ID), "5", 0))

	live, err := NewResultService(f.polls, f.votes, f.counter).GetLiveResults(ctx, poll.Questions[0].ID)
	require.NoError(t, err)
	assert.Equal(t, int64(5), live.Results[0].ApproximateVotes, "live results may drift from the store")
}

func TestGetLiveResultsCacheDown(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	poll := testutil.SeedPoll(t, f.db, "P", testutil.SeedQuestion{Text: "Q", Options: []string{"A", "B"}})
	testutil.SeedVotes(t, f.db, poll.Questions[0].Options[1], 4)

	live, err := NewResultService(f.polls, f.votes, downCounter{}).GetLiveResults(ctx, poll.Questions[0].ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), live.Results[0].ApproximateVotes)
	assert.Equal(t, int64(4), live.Results[1].ApproximateVotes)
}

func TestGetLiveResultsRepairsMalformedCounter(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	poll := testutil.SeedPoll(t, f.db, "P", testutil.SeedQuestion{Text: "Q", Options: []string{"A"}})
	a := poll.Questions[0].Options[0]
	testutil.SeedVotes(t, f.db, a, 3)
	require.NoError(t, f.counter.SetWithExpiry(ctx, cache.OptionCounterKey(a.ID), "garbage", 0))

	live, err := NewResultService(f.polls, f.votes, f.counter).GetLiveResults(ctx, poll.Questions[0].ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), live.Results[0].ApproximateVotes)

	raw, _, _ := f.counter.Get(ctx, cache.OptionCounterKey(a.ID))
	assert.Equal(t, "3", raw)
}
