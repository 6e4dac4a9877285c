package store

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/kmorozova/answerboard/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func sampleAnswer(id, student string) *model.Answer {
	return &model.Answer{
		ID:      id,
		Student: student,
		Subject: "Math",
		Text:    "some answer text",
		Status:  model.StatusPending,
	}
}

func TestAnswerStoreSaveAndFind(t *testing.T) {
	s := NewAnswerStore()

	require.NoError(t, s.Save(sampleAnswer("100", "a@x.com")))

	got, err := s.FindByID("100")
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", got.Student)
	assert.Equal(t, model.StatusPending, got.Status)
	assert.False(t, got.CreatedAt.IsZero())

	_, err = s.FindByID("missing")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestAnswerStoreSaveReplacesExistingID(t *testing.T) {
	s := NewAnswerStore()

	require.NoError(t, s.Save(sampleAnswer("100", "a@x.com")))

	replacement := sampleAnswer("100", "a@x.com")
	replacement.Subject = "Physics"
	require.NoError(t, s.Save(replacement))

	got, err := s.FindByID("100")
	require.NoError(t, err)
	assert.Equal(t, "Physics", got.Subject)

	all, err := s.FindAll()
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestAnswerStoreFindAllInsertionOrder(t *testing.T) {
	s := NewAnswerStore()

	for i := 0; i < 5; i++ {
		require.NoError(t, s.Save(sampleAnswer(fmt.Sprintf("%d", i), "a@x.com")))
	}

	all, err := s.FindAll()
	require.NoError(t, err)
	require.Len(t, all, 5)
	for i, a := range all {
		assert.Equal(t, fmt.Sprintf("%d", i), a.ID)
	}
}

func TestAnswerStoreReadsReturnCopies(t *testing.T) {
	s := NewAnswerStore()
	require.NoError(t, s.Save(sampleAnswer("100", "a@x.com")))

	got, err := s.FindByID("100")
	require.NoError(t, err)
	got.Subject = "mutated"

	all, err := s.FindAll()
	require.NoError(t, err)
	all[0].Student = "mutated@x.com"

	fresh, err := s.FindByID("100")
	require.NoError(t, err)
	assert.Equal(t, "Math", fresh.Subject)
	assert.Equal(t, "a@x.com", fresh.Student)
}

// A shallow struct copy is not enough: the pointer fields would still alias
// the stored record, so writing through them must not reach the store either.
func TestAnswerStoreReadsDoNotAliasPointerFields(t *testing.T) {
	s := NewAnswerStore()

	answer := sampleAnswer("100", "a@x.com")
	score := 85
	comment := "solid work"
	file := "essay.pdf"
	answer.Score = &score
	answer.Comment = &comment
	answer.FileName = &file
	answer.Status = model.StatusEvaluated
	require.NoError(t, s.Save(answer))

	// The caller keeps its pointers after Save; writes through them stay local.
	score = 0
	comment = "scribbled over"

	got, err := s.FindByID("100")
	require.NoError(t, err)
	require.NotNil(t, got.Score)
	assert.Equal(t, 85, *got.Score)
	assert.Equal(t, "solid work", *got.Comment)

	// Same for pointers handed out by reads.
	*got.Score = 1
	*got.Comment = "defaced"
	*got.FileName = "swapped.pdf"

	all, err := s.FindAll()
	require.NoError(t, err)
	require.Len(t, all, 1)
	*all[0].Score = 2

	mine, err := s.FindByStudent("a@x.com")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	*mine[0].Comment = "defaced again"

	fresh, err := s.FindByID("100")
	require.NoError(t, err)
	assert.Equal(t, 85, *fresh.Score)
	assert.Equal(t, "solid work", *fresh.Comment)
	assert.Equal(t, "essay.pdf", *fresh.FileName)
}

func TestAnswerStoreFindByStudent(t *testing.T) {
	s := NewAnswerStore()
	require.NoError(t, s.Save(sampleAnswer("1", "s@x.com")))
	require.NoError(t, s.Save(sampleAnswer("2", "other@x.com")))
	require.NoError(t, s.Save(sampleAnswer("3", "s@x.com")))

	mine, err := s.FindByStudent("s@x.com")
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, "1", mine[0].ID)
	assert.Equal(t, "3", mine[1].ID)

	none, err := s.FindByStudent("nobody@x.com")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestAnswerStoreUpdateMergesSuppliedFields(t *testing.T) {
	s := NewAnswerStore()
	require.NoError(t, s.Save(sampleAnswer("100", "a@x.com")))

	score := 90
	comment := "ok"
	status := model.StatusEvaluated
	updated, err := s.Update("100", model.AnswerPatch{
		Score:   &score,
		Comment: &comment,
		Status:  &status,
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, 90, *updated.Score)
	assert.Equal(t, "ok", *updated.Comment)
	assert.Equal(t, model.StatusEvaluated, updated.Status)
	// Untouched fields survive the merge.
	assert.Equal(t, "Math", updated.Subject)
	assert.Equal(t, "a@x.com", updated.Student)

	// The patch's own pointers must not end up shared with the stored record.
	score = 7
	fresh, err := s.FindByID("100")
	require.NoError(t, err)
	assert.Equal(t, 90, *fresh.Score)

	_, err = s.Update("missing", model.AnswerPatch{Score: &score}, nil)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestAnswerStoreUpdateValidatorSeesStoredState(t *testing.T) {
	s := NewAnswerStore()
	require.NoError(t, s.Save(sampleAnswer("100", "a@x.com")))

	status := model.StatusInProgress
	var seen model.AnswerStatus
	_, err := s.Update("100", model.AnswerPatch{Status: &status}, func(current *model.Answer) error {
		seen = current.Status
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, seen)

	got, err := s.FindByID("100")
	require.NoError(t, err)
	assert.Equal(t, model.StatusInProgress, got.Status)
}

func TestAnswerStoreUpdateValidatorRejectionLeavesRecordUntouched(t *testing.T) {
	s := NewAnswerStore()
	require.NoError(t, s.Save(sampleAnswer("100", "a@x.com")))

	rejected := errors.New("no going back")
	status := model.StatusEvaluated
	_, err := s.Update("100", model.AnswerPatch{Status: &status}, func(*model.Answer) error {
		return rejected
	})
	assert.ErrorIs(t, err, rejected)

	got, err := s.FindByID("100")
	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, got.Status)
}

// Concurrent updates each get the validator run against the record as it
// stands when their turn under the lock comes, so a guard on the current
// status cannot be bypassed by interleaving.
func TestAnswerStoreConcurrentUpdatesSerializeValidation(t *testing.T) {
	s := NewAnswerStore()
	require.NoError(t, s.Save(sampleAnswer("100", "a@x.com")))

	const workers = 16
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			status := model.StatusInProgress
			if i%2 == 0 {
				status = model.StatusEvaluated
			}
			_, _ = s.Update("100", model.AnswerPatch{Status: &status}, func(current *model.Answer) error {
				if !model.ValidTransition(current.Status, status) {
					return errors.New("backwards transition")
				}
				return nil
			})
		}(i)
	}
	wg.Wait()

	// At least one writer reached evaluated, after which every in_progress
	// attempt must have been rejected by its validator.
	got, err := s.FindByID("100")
	require.NoError(t, err)
	assert.Equal(t, model.StatusEvaluated, got.Status)
}

func TestUserStoreDuplicateEmail(t *testing.T) {
	s := NewUserStore()

	user := &model.RegisteredUser{Email: "u@x.com", FirstName: "A", LastName: "B", Role: model.RoleStudent}
	require.NoError(t, s.Create(user))
	assert.NotZero(t, user.ID)

	dup := &model.RegisteredUser{Email: "u@x.com", FirstName: "C", LastName: "D", Role: model.RoleTeacher}
	assert.ErrorIs(t, s.Create(dup), gorm.ErrDuplicatedKey)

	got, err := s.FindByEmail("u@x.com")
	require.NoError(t, err)
	assert.Equal(t, "A", got.FirstName)

	_, err = s.FindByEmail("missing@x.com")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestSeedLoadsDemoAnswers(t *testing.T) {
	s := NewAnswerStore()
	Seed(s)

	all, err := s.FindAll()
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, model.StatusEvaluated, all[0].Status)
	assert.Equal(t, 85, *all[0].Score)
}
