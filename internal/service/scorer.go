package service

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/kmorozova/answerboard/internal/model"
)

// Scorer grades a submission. The HTTP request context is threaded through
// so an aborted request cancels any in-flight scoring call.
type Scorer interface {
	Score(ctx context.Context, answer *model.Answer) (score int, comment string, err error)
}

// RandomScorer is the simulated grading engine: a pseudo-random score in
// [70,100] with a templated comment. It stands in for a real grader during
// development; tests inject a fixed-seed rand to make it deterministic.
type RandomScorer struct {
	rng *rand.Rand
}

func NewRandomScorer(rng *rand.Rand) *RandomScorer {
	return &RandomScorer{rng: rng}
}

func (s *RandomScorer) Score(_ context.Context, answer *model.Answer) (int, string, error) {
	score := s.rng.Intn(31) + 70
	comment := fmt.Sprintf("Answer from %s on %s has been evaluated", answer.Student, answer.Subject)
	return score, comment, nil
}
