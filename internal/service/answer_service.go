package service

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/jinzhu/copier"
	"github.com/kmorozova/answerboard/internal/dto"
	"github.com/kmorozova/answerboard/internal/model"
	"github.com/kmorozova/answerboard/internal/repository"
	"github.com/rs/zerolog/log"
)

// AnswerService owns the answer lifecycle: creation via upload or inline
// evaluation, listing, partial updates by the reviewing teacher, and
// scorer-driven automatic evaluation.
type AnswerService interface {
	Upload(ctx context.Context, req dto.UploadRequest) (*dto.UploadResponse, error)
	EvaluateInline(ctx context.Context, req dto.UploadRequest) (*dto.EvaluateResponse, error)
	List() ([]dto.AnswerResponse, error)
	Get(id string) (*dto.AnswerResponse, error)
	ListByStudent(student string) ([]dto.AnswerResponse, error)
	Update(id string, req dto.AnswerUpdateRequest) (*dto.AnswerResponse, error)
	AutoEvaluate(ctx context.Context, id string) (*dto.AnswerResponse, error)
}

type answerService struct {
	answerRepo repository.AnswerRepository
	scorer     Scorer

	idMu   sync.Mutex
	lastID int64
}

func NewAnswerService(answerRepo repository.AnswerRepository, scorer Scorer) AnswerService {
	return &answerService{answerRepo: answerRepo, scorer: scorer}
}

// nextID produces a timestamp-derived id, bumped past the previous one so two
// submissions in the same millisecond never collide.
func (s *answerService) nextID() string {
	s.idMu.Lock()
	defer s.idMu.Unlock()
	id := time.Now().UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return strconv.FormatInt(id, 10)
}

func validateSubmission(req dto.UploadRequest) error {
	if req.Student == "" || req.Subject == "" {
		return validationErr("All required fields must be filled")
	}
	if req.Text == "" && (req.FileName == nil || *req.FileName == "") {
		return validationErr("All required fields must be filled")
	}
	if req.FileType != nil && !model.AllowedFileTypes[*req.FileType] {
		return validationErr(fmt.Sprintf("Unsupported file type %q", *req.FileType))
	}
	return nil
}

func (s *answerService) Upload(_ context.Context, req dto.UploadRequest) (*dto.UploadResponse, error) {
	if err := validateSubmission(req); err != nil {
		return nil, err
	}

	answer := model.Answer{
		ID:       s.nextID(),
		Student:  req.Student,
		Subject:  req.Subject,
		Text:     req.Text,
		FileName: req.FileName,
		FileType: req.FileType,
		Status:   model.StatusPending,
	}
	if err := s.answerRepo.Save(&answer); err != nil {
		log.Error().Err(err).Str("student", req.Student).Msg("Upload: failed to save answer")
		return nil, fmt.Errorf("failed to save answer: %w", err)
	}

	log.Info().Str("id", answer.ID).Str("student", answer.Student).Str("subject", answer.Subject).Msg("Answer uploaded")
	return &dto.UploadResponse{ID: answer.ID, Status: answer.Status}, nil
}

// EvaluateInline is the legacy submission path: the answer is scored as part
// of the request and stored already evaluated.
func (s *answerService) EvaluateInline(ctx context.Context, req dto.UploadRequest) (*dto.EvaluateResponse, error) {
	if err := validateSubmission(req); err != nil {
		return nil, err
	}

	answer := model.Answer{
		ID:       s.nextID(),
		Student:  req.Student,
		Subject:  req.Subject,
		Text:     req.Text,
		FileName: req.FileName,
		FileType: req.FileType,
		Status:   model.StatusPending,
	}

	score, comment, err := s.scorer.Score(ctx, &answer)
	if err != nil {
		log.Error().Err(err).Str("student", req.Student).Msg("EvaluateInline: scoring failed")
		return nil, fmt.Errorf("failed to score answer: %w", err)
	}
	answer.Status = model.StatusEvaluated
	answer.Score = &score
	answer.Comment = &comment

	if err := s.answerRepo.Save(&answer); err != nil {
		log.Error().Err(err).Str("student", req.Student).Msg("EvaluateInline: failed to save answer")
		return nil, fmt.Errorf("failed to save answer: %w", err)
	}

	log.Info().Str("id", answer.ID).Int("score", score).Msg("Answer evaluated inline")
	return &dto.EvaluateResponse{ID: answer.ID, Score: score, Comment: comment}, nil
}

func (s *answerService) List() ([]dto.AnswerResponse, error) {
	answers, err := s.answerRepo.FindAll()
	if err != nil {
		return nil, fmt.Errorf("failed to list answers: %w", err)
	}
	return toAnswerResponses(answers)
}

func (s *answerService) Get(id string) (*dto.AnswerResponse, error) {
	answer, err := s.answerRepo.FindByID(id)
	if err != nil {
		return nil, err
	}
	return toAnswerResponse(answer)
}

func (s *answerService) ListByStudent(student string) ([]dto.AnswerResponse, error) {
	answers, err := s.answerRepo.FindByStudent(student)
	if err != nil {
		return nil, fmt.Errorf("failed to list answers for student: %w", err)
	}
	return toAnswerResponses(answers)
}

func (s *answerService) Update(id string, req dto.AnswerUpdateRequest) (*dto.AnswerResponse, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}

	patch := req.Patch()
	updated, err := s.answerRepo.Update(id, patch, func(current *model.Answer) error {
		return validatePatch(current, patch)
	})
	if err != nil {
		return nil, err
	}

	log.Info().Str("id", id).Str("status", string(updated.Status)).Msg("Answer updated")
	return toAnswerResponse(updated)
}

func (s *answerService) AutoEvaluate(ctx context.Context, id string) (*dto.AnswerResponse, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}

	answer, err := s.answerRepo.FindByID(id)
	if err != nil {
		return nil, err
	}

	score, comment, err := s.scorer.Score(ctx, answer)
	if err != nil {
		log.Error().Err(err).Str("id", id).Msg("AutoEvaluate: scoring failed")
		return nil, fmt.Errorf("failed to score answer: %w", err)
	}

	status := model.StatusEvaluated
	patch := model.AnswerPatch{
		Status:  &status,
		Score:   &score,
		Comment: &comment,
	}
	updated, err := s.answerRepo.Update(id, patch, func(current *model.Answer) error {
		return validatePatch(current, patch)
	})
	if err != nil {
		return nil, err
	}

	log.Info().Str("id", id).Int("score", score).Msg("Answer auto-evaluated")
	return toAnswerResponse(updated)
}

// validateID rejects ids that could never have been generated. Unknown but
// well-formed ids fall through to the repository's not-found.
func validateID(id string) error {
	if id == "" {
		return validationErr("Missing answer id")
	}
	if _, err := strconv.ParseInt(id, 10, 64); err != nil {
		return validationErr("Malformed answer id")
	}
	return nil
}

// validatePatch enforces the evaluation invariants before the merge is
// applied: scores stay in [0,100], the status lifecycle only moves forward,
// and a record cannot enter "evaluated" without both a score and a comment.
func validatePatch(current *model.Answer, patch model.AnswerPatch) error {
	if patch.Score != nil && (*patch.Score < 0 || *patch.Score > 100) {
		return validationErr("Score must be between 0 and 100")
	}
	if patch.FileType != nil && !model.AllowedFileTypes[*patch.FileType] {
		return validationErr(fmt.Sprintf("Unsupported file type %q", *patch.FileType))
	}

	if patch.Status != nil {
		if !model.ValidTransition(current.Status, *patch.Status) {
			return validationErr(fmt.Sprintf("Cannot change status from %q to %q", current.Status, *patch.Status))
		}
		if *patch.Status == model.StatusEvaluated {
			merged := *current
			patch.Apply(&merged)
			if merged.Score == nil || merged.Comment == nil {
				return validationErr("Evaluated answers require both a score and a comment")
			}
		}
	}
	return nil
}

func toAnswerResponse(answer *model.Answer) (*dto.AnswerResponse, error) {
	var resp dto.AnswerResponse
	if err := copier.Copy(&resp, answer); err != nil {
		return nil, fmt.Errorf("failed to map answer: %w", err)
	}
	resp.Status = model.NormalizeStatus(resp.Status)
	return &resp, nil
}

func toAnswerResponses(answers []model.Answer) ([]dto.AnswerResponse, error) {
	out := make([]dto.AnswerResponse, 0, len(answers))
	for i := range answers {
		resp, err := toAnswerResponse(&answers[i])
		if err != nil {
			return nil, err
		}
		out = append(out, *resp)
	}
	return out, nil
}
