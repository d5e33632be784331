package models

import (
	"time"
)

/** --------------------ENTITIES-------------------- */
// Poll is a named collection of questions
type Poll struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"size:100;not null" json:"title"`
	Description string    `gorm:"size:255" json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Questions []Question `gorm:"foreignKey:PollID" json:"questions"`
}

// Question belongs to exactly one poll
type Question struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PollID    uint      `gorm:"not null;index" json:"poll_id"`
	Text      string    `gorm:"size:255;not null" json:"text"`
	Position  int       `gorm:"not null;default:0" json:"position"`
	CreatedAt time.Time `json:"created_at"`

	Options []Option `gorm:"foreignKey:QuestionID" json:"options"`
}

// Option is one selectable answer to a question
type Option struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	QuestionID uint      `gorm:"not null;index" json:"question_id"`
	Text       string    `gorm:"size:100;not null" json:"text"`
	Position   int       `gorm:"not null;default:0" json:"position"`
	CreatedAt  time.Time `json:"created_at"`
}

/** -------------------- DTOs -------------------- */
// Request
type CreatePollRequest struct {
	Title       string `json:"title" binding:"required,max=100"`
	Description string `json:"description" binding:"max=255"`
}

type CreateQuestionRequest struct {
	Text string `json:"text" binding:"required,max=255"`
}

type CreateOptionRequest struct {
	Text string `json:"text" binding:"required,max=100"`
}

type BulkUpsertPollsRequest struct {
	Polls []UpsertPollRequest `json:"polls" binding:"required,min=1,dive"`
}

// UpsertPollRequest is one entry of a bulk upsert. Entries without an ID are
// created; entries with an ID update the existing row.
type UpsertPollRequest struct {
	ID          uint                    `json:"id,omitempty"`
	Title       string                  `json:"title" binding:"required,max=100"`
	Description string                  `json:"description" binding:"max=255"`
	Questions   []UpsertQuestionRequest `json:"questions" binding:"dive"`
}

type UpsertQuestionRequest struct {
	ID      uint                  `json:"id,omitempty"`
	Text    string                `json:"text" binding:"required,max=255"`
	Options []UpsertOptionRequest `json:"options" binding:"dive"`
}

type UpsertOptionRequest struct {
	ID   uint   `json:"id,omitempty"`
	Text string `json:"text" binding:"required,max=100"`
}

// Response
type PollResponse struct {
	ID          uint               `json:"id"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Questions   []QuestionResponse `json:"questions"`
}

type QuestionResponse struct {
	ID      uint             `json:"id"`
	Text    string           `json:"text"`
	PollID  uint             `json:"poll_id"`
	Options []OptionResponse `json:"options"`
}

// OptionResponse carries the authoritative vote count
type OptionResponse struct {
	ID         uint   `json:"id"`
	Text       string `json:"text"`
	QuestionID uint   `json:"question_id"`
	VotesCount int64  `json:"votes_count"`
}
