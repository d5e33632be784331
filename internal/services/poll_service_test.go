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

func TestPollServiceBuildAndList(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	svc := NewPollService(f.polls, f.votes, f.counter)

	poll, err := svc.Create(ctx, &models.CreatePollRequest{Title: "  Lunch  ", Description: "Friday"})
	require.NoError(t, err)
	assert.Equal(t, "Lunch", poll.Title)
	assert.Empty(t, poll.Questions)

	question, err := svc.AddQuestion(ctx, poll.ID, &models.CreateQuestionRequest{Text: "Where?"})
	require.NoError(t, err)
	assert.Equal(t, poll.ID, question.PollID)

	first, err := svc.AddOption(ctx, question.ID, &models.CreateOptionRequest{Text: "Thai"})
	require.NoError(t, err)
	_, err = svc.AddOption(ctx, question.ID, &models.CreateOptionRequest{Text: "Pizza"})
	require.NoError(t, err)

	_, err = f.defaultVoteService().CastVote(ctx, first.ID, "10.0.0.1")
	require.NoError(t, err)

	polls, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, polls, 1)
	require.Len(t, polls[0].Questions, 1)
	options := polls[0].Questions[0].Options
	require.Len(t, options, 2)
	assert.Equal(t, "Thai", options[0].Text)
	assert.Equal(t, int64(1), options[0].VotesCount)
	assert.Equal(t, int64(0), options[1].VotesCount)

	got, err := svc.Get(ctx, poll.ID)
	require.NoError(t, err)
	assert.Equal(t, polls[0], *got)
}

func TestPollServiceValidationAndMissingParents(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	svc := NewPollService(f.polls, f.votes, f.counter)

	_, err := svc.Create(ctx, &models.CreatePollRequest{Title: "   "})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.AddQuestion(ctx, 12, &models.CreateQuestionRequest{Text: "Q"})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.AddOption(ctx, 12, &models.CreateOptionRequest{Text: "O"})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.AddOption(ctx, 12, &models.CreateOptionRequest{Text: ""})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Get(ctx, 12)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, svc.Delete(ctx, 12), ErrNotFound)
}

func TestPollServiceDeleteDropsCounters(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	svc := NewPollService(f.polls, f.votes, f.counter)
	poll := testutil.SeedPoll(t, f.db, "P", testutil.SeedQuestion{Text: "Q", Options: []string{"A"}})
	a := poll.Questions[0].Options[0]

	_, err := f.defaultVoteService().CastVote(ctx, a.ID, "10.0.0.1")
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, poll.ID))

	exists, err := f.counter.Exists(ctx, cache.OptionCounterKey(a.ID))
	require.NoError(t, err)
	assert.False(t, exists)
	assert.Zero(t, f.voteRows(t))

	_, err = f.defaultVoteService().CastVote(ctx, a.ID, "10.0.0.2")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPollServiceBulkUpsert(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	svc := NewPollService(f.polls, f.votes, f.counter)
	existing := testutil.SeedPoll(t, f.db, "Old", testutil.SeedQuestion{Text: "Q", Options: []string{"A"}})

	polls, err := svc.BulkUpsert(ctx, &models.BulkUpsertPollsRequest{Polls: []models.UpsertPollRequest{
		{ID: existing.ID, Title: "Renamed", Questions: []models.UpsertQuestionRequest{
			{ID: existing.Questions[0].ID, Text: "Q", Options: []models.UpsertOptionRequest{
				{ID: existing.Questions[0].Options[0].ID, Text: "A"},
				{Text: "B"},
			}},
		}},
		{Title: "Brand new", Questions: []models.UpsertQuestionRequest{
			{Text: "Fresh?", Options: []models.UpsertOptionRequest{{Text: "Yes"}, {Text: "No"}}},
		}},
	}})
	require.NoError(t, err)
	require.Len(t, polls, 2)
	assert.Equal(t, "Renamed", polls[0].Title)
	assert.Len(t, polls[0].Questions[0].Options, 2)
	assert.NotZero(t, polls[1].ID)
	assert.Len(t, polls[1].Questions[0].Options, 2)

	_, err = svc.BulkUpsert(ctx, &models.BulkUpsertPollsRequest{Polls: []models.UpsertPollRequest{{ID: 9999, Title: "Ghost"}}})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.BulkUpsert(ctx, &models.BulkUpsertPollsRequest{})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.BulkUpsert(ctx, &models.BulkUpsertPollsRequest{Polls: []models.UpsertPollRequest{
		{Title: "T", Questions: []models.UpsertQuestionRequest{{Text: ""}}},
	}})
	assert.ErrorIs(t, err, ErrValidation)
}
