// Package store provides in-memory implementations of the repository
// contracts. This is the default backend: the application behaves as a
// self-contained mock with no persistence, which is also what the tests run
// against. Construct one store per process (or per test) and inject it;
// there is no package-level state.
package store

import (
	"sync"
	"time"

	"github.com/kmorozova/answerboard/internal/model"
	"github.com/kmorozova/answerboard/internal/repository"
	"gorm.io/gorm"
)

// AnswerStore keeps answers in insertion order with an id index. All reads
// hand out copies, so callers never hold an alias into the store.
type AnswerStore struct {
	mu      sync.RWMutex
	answers []model.Answer
	index   map[string]int
}

var _ repository.AnswerRepository = (*AnswerStore)(nil)

func NewAnswerStore() *AnswerStore {
	return &AnswerStore{index: make(map[string]int)}
}

// cloneAnswer deep-copies an answer. A plain struct copy would still share
// the pointees of Score, Comment, FileName and FileType with the stored
// record, letting callers mutate store state through a returned value.
func cloneAnswer(a model.Answer) model.Answer {
	if a.FileName != nil {
		v := *a.FileName
		a.FileName = &v
	}
	if a.FileType != nil {
		v := *a.FileType
		a.FileType = &v
	}
	if a.Score != nil {
		v := *a.Score
		a.Score = &v
	}
	if a.Comment != nil {
		v := *a.Comment
		a.Comment = &v
	}
	return a
}

func (s *AnswerStore) Save(answer *model.Answer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	if answer.CreatedAt.IsZero() {
		answer.CreatedAt = now
	}
	answer.UpdatedAt = now
	if i, ok := s.index[answer.ID]; ok {
		s.answers[i] = cloneAnswer(*answer)
		return nil
	}
	s.index[answer.ID] = len(s.answers)
	s.answers = append(s.answers, cloneAnswer(*answer))
	return nil
}

func (s *AnswerStore) FindByID(id string) (*model.Answer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.index[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	answer := cloneAnswer(s.answers[i])
	return &answer, nil
}

// FindAll returns a snapshot of every answer in insertion order.
func (s *AnswerStore) FindAll() ([]model.Answer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Answer, 0, len(s.answers))
	for _, a := range s.answers {
		out = append(out, cloneAnswer(a))
	}
	return out, nil
}

func (s *AnswerStore) FindByStudent(student string) ([]model.Answer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Answer, 0)
	for _, a := range s.answers {
		if a.Student == student {
			out = append(out, cloneAnswer(a))
		}
	}
	return out, nil
}

// Update shallow-merges the patch onto the stored record and returns a copy
// of the result. The validator, when supplied, runs on the current record
// under the write lock, so its decision cannot go stale between check and
// merge.
func (s *AnswerStore) Update(id string, patch model.AnswerPatch, validate repository.UpdateValidator) (*model.Answer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.index[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	if validate != nil {
		current := cloneAnswer(s.answers[i])
		if err := validate(&current); err != nil {
			return nil, err
		}
	}
	merged := s.answers[i]
	patch.Apply(&merged)
	merged.UpdatedAt = time.Now()
	s.answers[i] = cloneAnswer(merged)
	answer := cloneAnswer(merged)
	return &answer, nil
}

// UserStore is the in-memory registered-user set.
type UserStore struct {
	mu      sync.RWMutex
	byEmail map[string]model.RegisteredUser
	nextID  uint
}

var _ repository.UserRepository = (*UserStore)(nil)

func NewUserStore() *UserStore {
	return &UserStore{byEmail: make(map[string]model.RegisteredUser)}
}

func cloneUser(u model.RegisteredUser) model.RegisteredUser {
	if u.MiddleName != nil {
		v := *u.MiddleName
		u.MiddleName = &v
	}
	return u
}

func (s *UserStore) Create(user *model.RegisteredUser) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byEmail[user.Email]; ok {
		return gorm.ErrDuplicatedKey
	}
	s.nextID++
	user.ID = s.nextID
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	s.byEmail[user.Email] = cloneUser(*user)
	return nil
}

func (s *UserStore) FindByEmail(email string) (*model.RegisteredUser, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.byEmail[email]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	out := cloneUser(user)
	return &out, nil
}
