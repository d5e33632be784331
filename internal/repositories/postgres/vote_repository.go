package postgres

import (
	"context"
	"time"

	"poll-service/internal/models"

	"gorm.io/gorm"
)

type VoteRepository struct {
	db *gorm.DB
}

func NewVoteRepository(db *gorm.DB) *VoteRepository {
	return &VoteRepository{db: db}
}

// FindOption resolves an option, which carries its parent question id.
func (r *VoteRepository) FindOption(ctx context.Context, optionID uint) (*models.Option, error) {
	var option models.Option
	if err := r.db.WithContext(ctx).First(&option, optionID).Error; err != nil {
		return nil, wrap("find option", err)
	}
	return &option, nil
}

// InsertVote records one ballot. The option is re-checked inside the
// transaction so a vote never outlives a concurrently deleted poll.
func (r *VoteRepository) InsertVote(ctx context.Context, vote *models.Vote) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := exists(tx, &models.Option{}, "id = ?", vote.OptionID); err != nil {
			return wrap("insert vote", err)
		}
		return wrap("insert vote", tx.Create(vote).Error)
	})
}

// CountVotes is the authoritative tally of one option.
func (r *VoteRepository) CountVotes(ctx context.Context, optionID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Vote{}).Where("option_id = ?", optionID).Count(&count).Error
	return count, wrap("count votes", err)
}

type optionCount struct {
	OptionID uint
	Votes    int64
}

// CountVotesByOption tallies the given options in one query. Options without
// votes are absent from the result.
func (r *VoteRepository) CountVotesByOption(ctx context.Context, optionIDs []uint) (map[uint]int64, error) {
	counts := make(map[uint]int64, len(optionIDs))
	if len(optionIDs) == 0 {
		return counts, nil
	}

	var rows []optionCount
	err := r.db.WithContext(ctx).Model(&models.Vote{}).
		Select("option_id, COUNT(*) AS votes").
		Where("option_id IN ?", optionIDs).
		Group("option_id").
		Scan(&rows).Error
	if err != nil {
		return nil, wrap("count votes by option", err)
	}

	for _, row := range rows {
		counts[row.OptionID] = row.Votes
	}
	return counts, nil
}

// CountAllOptions tallies every option, including those with no votes.
func (r *VoteRepository) CountAllOptions(ctx context.Context) (map[uint]int64, error) {
	var rows []optionCount
	err := r.db.WithContext(ctx).Model(&models.Option{}).
		Select("options.id AS option_id, COUNT(votes.id) AS votes").
		Joins("LEFT JOIN votes ON votes.option_id = options.id").
		Group("options.id").
		Scan(&rows).Error
	if err != nil {
		return nil, wrap("count all options", err)
	}

	counts := make(map[uint]int64, len(rows))
	for _, row := range rows {
		counts[row.OptionID] = row.Votes
	}
	return counts, nil
}

// HasRecentVote reports whether the client voted on the question at or after
// since. It backs the vote rate limit when the cache is down.
func (r *VoteRepository) HasRecentVote(ctx context.Context, questionID uint, clientHash string, since time.Time) (bool, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Model(&models.Vote{}).
		Where("question_id = ? AND client_hash = ? AND created_at >= ?", questionID, clientHash, since.UTC()).
		Limit(1).
		Pluck("id", &ids).Error
	if err != nil {
		return false, wrap("recent vote", err)
	}
	return len(ids) > 0, nil
}
