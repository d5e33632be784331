package postgres

import (
	"context"

	"poll-service/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PollRepository struct {
	db *gorm.DB
}

func NewPollRepository(db *gorm.DB) *PollRepository {
	return &PollRepository{db: db}
}

func byPosition(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC, id ASC")
}

func preloadTree(db *gorm.DB) *gorm.DB {
	return db.Preload("Questions", byPosition).Preload("Questions.Options", byPosition)
}

func (r *PollRepository) Create(ctx context.Context, poll *models.Poll) error {
	err := r.db.WithContext(ctx).Omit(clause.Associations).Create(poll).Error
	return wrap("create poll", err)
}

// List returns every poll with its questions and options in display order.
func (r *PollRepository) List(ctx context.Context) ([]models.Poll, error) {
	var polls []models.Poll
	err := preloadTree(r.db.WithContext(ctx)).Order("id ASC").Find(&polls).Error
	return polls, wrap("list polls", err)
}

func (r *PollRepository) FindByID(ctx context.Context, id uint) (*models.Poll, error) {
	var poll models.Poll
	if err := preloadTree(r.db.WithContext(ctx)).First(&poll, id).Error; err != nil {
		return nil, wrap("find poll", err)
	}
	return &poll, nil
}

// Delete removes the poll with its questions, options and every vote cast
// on those options, in one transaction.
func (r *PollRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var poll models.Poll
		if err := tx.Select("id").First(&poll, id).Error; err != nil {
			return wrap("delete poll", err)
		}

		questionIDs := tx.Model(&models.Question{}).Select("id").Where("poll_id = ?", id)
		optionIDs := tx.Model(&models.Option{}).Select("id").Where("question_id IN (?)", questionIDs)

		if err := tx.Where("option_id IN (?)", optionIDs).Delete(&models.Vote{}).Error; err != nil {
			return wrap("delete poll votes", err)
		}
		if err := tx.Where("question_id IN (?)", questionIDs).Delete(&models.Option{}).Error; err != nil {
			return wrap("delete poll options", err)
		}
		if err := tx.Where("poll_id = ?", id).Delete(&models.Question{}).Error; err != nil {
			return wrap("delete poll questions", err)
		}
		return wrap("delete poll", tx.Delete(&models.Poll{}, id).Error)
	})
}

// CreateQuestion appends a question to the end of its poll.
func (r *PollRepository) CreateQuestion(ctx context.Context, question *models.Question) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return createQuestion(tx, question)
	})
}

// CreateOption appends an option to the end of its question.
func (r *PollRepository) CreateOption(ctx context.Context, option *models.Option) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return createOption(tx, option)
	})
}

func (r *PollRepository) FindQuestion(ctx context.Context, id uint) (*models.Question, error) {
	var question models.Question
	if err := r.db.WithContext(ctx).Preload("Options", byPosition).First(&question, id).Error; err != nil {
		return nil, wrap("find question", err)
	}
	return &question, nil
}

// Upsert writes one poll tree in a single transaction. Rows with an ID are
// updated in place and must belong to the enclosing parent; rows without one
// are appended. Nothing is deleted.
func (r *PollRepository) Upsert(ctx context.Context, poll *models.Poll) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if poll.ID == 0 {
			if err := tx.Omit(clause.Associations).Create(poll).Error; err != nil {
				return wrap("upsert poll", err)
			}
		} else {
			if err := exists(tx, &models.Poll{}, "id = ?", poll.ID); err != nil {
				return wrap("upsert poll", err)
			}
			err := tx.Model(&models.Poll{ID: poll.ID}).Updates(map[string]interface{}{
				"title":       poll.Title,
				"description": poll.Description,
			}).Error
			if err != nil {
				return wrap("upsert poll", err)
			}
		}

		for i := range poll.Questions {
			q := &poll.Questions[i]
			q.PollID = poll.ID
			if q.ID == 0 {
				if err := createQuestion(tx, q); err != nil {
					return err
				}
			} else {
				if err := exists(tx, &models.Question{}, "id = ? AND poll_id = ?", q.ID, poll.ID); err != nil {
					return wrap("upsert question", err)
				}
				if err := tx.Model(&models.Question{ID: q.ID}).Update("text", q.Text).Error; err != nil {
					return wrap("upsert question", err)
				}
			}

			for j := range q.Options {
				o := &q.Options[j]
				o.QuestionID = q.ID
				if o.ID == 0 {
					if err := createOption(tx, o); err != nil {
						return err
					}
					continue
				}
				if err := exists(tx, &models.Option{}, "id = ? AND question_id = ?", o.ID, q.ID); err != nil {
					return wrap("upsert option", err)
				}
				if err := tx.Model(&models.Option{ID: o.ID}).Update("text", o.Text).Error; err != nil {
					return wrap("upsert option", err)
				}
			}
		}
		return nil
	})
}

func createQuestion(tx *gorm.DB, question *models.Question) error {
	if err := exists(tx, &models.Poll{}, "id = ?", question.PollID); err != nil {
		return wrap("create question", err)
	}
	pos, err := nextPosition(tx, &models.Question{}, "poll_id = ?", question.PollID)
	if err != nil {
		return wrap("create question", err)
	}
	question.Position = pos
	return wrap("create question", tx.Omit(clause.Associations).Create(question).Error)
}

func createOption(tx *gorm.DB, option *models.Option) error {
	if err := exists(tx, &models.Question{}, "id = ?", option.QuestionID); err != nil {
		return wrap("create option", err)
	}
	pos, err := nextPosition(tx, &models.Option{}, "question_id = ?", option.QuestionID)
	if err != nil {
		return wrap("create option", err)
	}
	option.Position = pos
	return wrap("create option", tx.Create(option).Error)
}

func exists(tx *gorm.DB, model interface{}, query string, args ...interface{}) error {
	var count int64
	if err := tx.Model(model).Where(query, args...).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrNotFound
	}
	return nil
}

func nextPosition(tx *gorm.DB, model interface{}, query string, args ...interface{}) (int, error) {
	var last int
	err := tx.Model(model).Where(query, args...).Select("COALESCE(MAX(position), -1)").Scan(&last).Error
	return last + 1, err
}
