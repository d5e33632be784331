package models

import (
	"time"
)

/** --------------------ENTITIES-------------------- */
// Vote is one accepted ballot. Rows are never updated.
type Vote struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	OptionID   uint      `gorm:"not null;index" json:"option_id"`
	QuestionID uint      `gorm:"not null;index:idx_votes_question_client,priority:1" json:"question_id"`
	ClientHash string    `gorm:"size:64;not null;index:idx_votes_question_client,priority:2" json:"-"`
	CreatedAt  time.Time `gorm:"not null;index:idx_votes_question_client,priority:3" json:"created_at"`
}

/** -------------------- DTOs -------------------- */
// VoteResponse is returned for both accepted and rate-limited votes.
type VoteResponse struct {
	Message string `json:"message"`
	VoteID  uint   `json:"vote_id,omitempty"`
}

// VoteEvent is published after a vote commits
type VoteEvent struct {
	VoteID     uint      `json:"vote_id"`
	OptionID   uint      `json:"option_id"`
	QuestionID uint      `json:"question_id"`
	At         time.Time `json:"at"`
}

// QuestionResults is the authoritative tally of a question
type QuestionResults struct {
	QuestionID   uint           `json:"question_id"`
	QuestionText string         `json:"question_text"`
	Results      []OptionResult `json:"results"`
}

type OptionResult struct {
	OptionID uint   `json:"option_id"`
	Text     string `json:"text"`
	Votes    int64  `json:"votes"`
}

// LiveResults is served from the fast counters and may lag the
// authoritative tally.
type LiveResults struct {
	QuestionID   uint               `json:"question_id"`
	QuestionText string             `json:"question_text"`
	Approximate  bool               `json:"approximate"`
	Results      []LiveOptionResult `json:"results"`
}

type LiveOptionResult struct {
	OptionID         uint   `json:"option_id"`
	Text             string `json:"text"`
	ApproximateVotes int64  `json:"approximate_votes"`
}
