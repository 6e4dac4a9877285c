package repository

import (
	"github.com/kmorozova/answerboard/internal/model"
	"gorm.io/gorm"
)

// UpdateValidator inspects the stored record an update is about to patch.
// It runs inside the store's critical section (transaction or lock), so a
// rejected transition cannot be raced past by a concurrent update.
type UpdateValidator func(current *model.Answer) error

// AnswerRepository is the record store contract. Both the gorm-backed
// implementation here and the in-memory one in internal/store satisfy it;
// unknown ids are reported as gorm.ErrRecordNotFound either way.
type AnswerRepository interface {
	Save(answer *model.Answer) error
	FindByID(id string) (*model.Answer, error)
	FindAll() ([]model.Answer, error)
	FindByStudent(student string) ([]model.Answer, error)
	Update(id string, patch model.AnswerPatch, validate UpdateValidator) (*model.Answer, error)
}

type answerRepository struct {
	db *gorm.DB
}

func NewAnswerRepository(db *gorm.DB) AnswerRepository {
	return &answerRepository{db: db}
}

// Save upserts by primary key: an existing id is fully replaced, a new one
// is appended.
func (r *answerRepository) Save(answer *model.Answer) error {
	return r.db.Save(answer).Error
}

func (r *answerRepository) FindByID(id string) (*model.Answer, error) {
	var answer model.Answer
	err := r.db.First(&answer, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &answer, nil
}

func (r *answerRepository) FindAll() ([]model.Answer, error) {
	var answers []model.Answer
	err := r.db.Order("created_at ASC").Find(&answers).Error
	return answers, err
}

func (r *answerRepository) FindByStudent(student string) ([]model.Answer, error) {
	var answers []model.Answer
	err := r.db.Where("student = ?", student).Order("created_at ASC").Find(&answers).Error
	return answers, err
}

func (r *answerRepository) Update(id string, patch model.AnswerPatch, validate UpdateValidator) (*model.Answer, error) {
	var answer model.Answer
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&answer, "id = ?", id).Error; err != nil {
			return err
		}
		if validate != nil {
			if err := validate(&answer); err != nil {
				return err
			}
		}
		patch.Apply(&answer)
		return tx.Save(&answer).Error
	})
	if err != nil {
		return nil, err
	}
	return &answer, nil
}
