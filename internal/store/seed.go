package store

import (
	"github.com/kmorozova/answerboard/internal/model"
	"github.com/rs/zerolog/log"
)

func ptr[T any](v T) *T { return &v }

// Seed loads a handful of sample answers so a fresh development instance has
// something to show. Enabled with SEED_DEMO_DATA=true.
func Seed(answers *AnswerStore) {
	demo := []model.Answer{
		{
			ID:      "1",
			Student: "student@example.com",
			Subject: "Mathematics",
			Text:    "Sample solution for the calculus assignment",
			Status:  model.StatusEvaluated,
			Score:   ptr(85),
			Comment: ptr("Good work!"),
		},
		{
			ID:      "2",
			Student: "student@example.com",
			Subject: "Physics",
			Text:    "Answer to the mechanics problem",
			Status:  model.StatusPending,
		},
		{
			ID:      "3",
			Student: "another@example.com",
			Subject: "Computer Science",
			Text:    "Solution for the programming exercise",
			Status:  model.StatusInProgress,
			Comment: ptr("Under review"),
		},
	}
	for i := range demo {
		if err := answers.Save(&demo[i]); err != nil {
			log.Error().Err(err).Str("id", demo[i].ID).Msg("Failed to seed demo answer")
		}
	}
	log.Info().Int("count", len(demo)).Msg("Seeded demo answers")
}
