package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/kmorozova/answerboard/config"
	"github.com/kmorozova/answerboard/internal/model"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"
)

// GeminiScorer grades submissions with an LLM. It is selected over the
// random scorer when GEMINI_API_KEY is configured.
type GeminiScorer struct {
	client *genai.GenerativeModel
	cfg    *config.Config
}

func NewGeminiScorer(cfg *config.Config) (*GeminiScorer, error) {
	if cfg.GeminiApiKey == "" {
		log.Warn().Msg("GEMINI_API_KEY is not set. GeminiScorer will be non-functional.")
		return &GeminiScorer{cfg: cfg, client: nil}, nil
	}
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.GeminiApiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Gemini client: %w", err)
	}
	model := client.GenerativeModel("gemini-1.5-flash")
	return &GeminiScorer{client: model, cfg: cfg}, nil
}

// parseScoreAndComment splits the model output into its "Score:" and
// "Comment:" parts.
func parseScoreAndComment(rawResponse string) (scoreStr string, commentStr string, err error) {
	scorePrefix := "Score:"
	commentPrefix := "Comment:"

	scoreIndex := strings.Index(rawResponse, scorePrefix)
	commentIndex := strings.Index(rawResponse, commentPrefix)

	if scoreIndex == -1 {
		return "", rawResponse, fmt.Errorf("response does not contain 'Score:' prefix. Raw: %s", rawResponse)
	}

	endOfScoreLine := strings.Index(rawResponse[scoreIndex:], "\n")
	if endOfScoreLine == -1 {
		scoreStr = strings.TrimSpace(rawResponse[scoreIndex+len(scorePrefix):])
	} else {
		scoreStr = strings.TrimSpace(rawResponse[scoreIndex+len(scorePrefix) : scoreIndex+endOfScoreLine])
	}

	if commentIndex != -1 && commentIndex > scoreIndex {
		commentStr = strings.TrimSpace(rawResponse[commentIndex+len(commentPrefix):])
	} else if endOfScoreLine != -1 && len(rawResponse) > scoreIndex+endOfScoreLine+1 {
		commentStr = strings.TrimSpace(rawResponse[scoreIndex+endOfScoreLine+1:])
	} else {
		commentStr = "Comment not found in the expected format after the score."
	}

	parts := strings.Fields(scoreStr)
	if len(parts) > 0 {
		scoreStr = parts[0]
	}

	return scoreStr, commentStr, nil
}

func (s *GeminiScorer) Score(ctx context.Context, answer *model.Answer) (int, string, error) {
	if s.client == nil {
		return 0, "", fmt.Errorf("gemini client not initialized")
	}

	var prompt strings.Builder
	prompt.WriteString("You are an experienced instructor grading a student submission.\n")
	prompt.WriteString(fmt.Sprintf("Subject: %s\n", answer.Subject))
	if answer.FileName != nil {
		prompt.WriteString(fmt.Sprintf("The student attached a file named %q; only the text below is available to you.\n", *answer.FileName))
	}
	prompt.WriteString("Student's answer:\n---\n")
	prompt.WriteString(answer.Text)
	prompt.WriteString("\n---\n\n")
	prompt.WriteString("Evaluate the answer for correctness, completeness and clarity.\n")
	prompt.WriteString("Format your response strictly as:\n")
	prompt.WriteString("Score: [integer from 0 to 100]\n")
	prompt.WriteString("Comment: [short constructive feedback for the student]\n")

	resp, err := s.client.GenerateContent(ctx, genai.Text(prompt.String()))
	if err != nil {
		log.Error().Err(err).Str("answerID", answer.ID).Msg("Gemini API error during scoring")
		return 0, "", fmt.Errorf("gemini API error: %w", err)
	}

	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		log.Warn().Msg("Gemini returned no candidates or parts in response.")
		return 0, "", fmt.Errorf("gemini returned no content")
	}

	fullResponseText := ""
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			fullResponseText += string(txt)
		}
	}
	if fullResponseText == "" {
		return 0, "", fmt.Errorf("gemini returned no text content")
	}

	scoreStr, commentStr, parseErr := parseScoreAndComment(fullResponseText)
	if parseErr != nil {
		log.Warn().Err(parseErr).Str("rawResponse", fullResponseText).Msg("Failed to parse score and comment from Gemini response")
		return 0, "", parseErr
	}

	parsedScore, scoreErr := strconv.Atoi(strings.TrimSpace(scoreStr))
	if scoreErr != nil {
		log.Warn().Err(scoreErr).Str("scoreStr", scoreStr).Msg("Failed to parse score string to int")
		return 0, "", fmt.Errorf("could not parse score value (%q) from AI response", scoreStr)
	}

	if parsedScore > 100 {
		parsedScore = 100
	}
	if parsedScore < 0 {
		parsedScore = 0
	}

	return parsedScore, strings.TrimSpace(commentStr), nil
}
