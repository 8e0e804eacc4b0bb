package au

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	// google ai
	"google.golang.org/genai"

	gt "github.com/meinside/gemini-things-go"
)

const (
	defaultGoogleAIModel = "gemini-2.0-flash"

	scoreSystemInstructionFormat = `You are a strict reviewer ranking AI research papers and news items.

Current datetime is %[1]s.

Respond to user messages according to the following principles:
- Respond with a single number between 0 and 10.
- Do not explain the number.
- Be as consistent as possible.
`
	scorePromptFormat = `Rate the significance and quality of the following item on a scale from 0 (noise) to 10 (groundbreaking):

Title: %[1]s

Abstract: %[2]s`

	generationTimeoutSeconds = 60 // 1 minute
)

// Scorer rates an item by its title and abstract excerpt, returning a score
// in [0, 10].
type Scorer interface {
	Score(ctx context.Context, title, abstract string) (float64, error)
}

// GeminiScorer scores items with the Google AI API.
type GeminiScorer struct {
	apiKey string
	model  string
}

// NewGeminiScorer returns a new scorer backed by the Google AI API.
func NewGeminiScorer(apiKey string) *GeminiScorer {
	return &GeminiScorer{
		apiKey: apiKey,
		model:  defaultGoogleAIModel,
	}
}

// SetModel sets the scorer's Google AI model.
func (s *GeminiScorer) SetModel(model string) {
	s.model = model
}

// Score rates given title and abstract.
func (s *GeminiScorer) Score(ctx context.Context, title, abstract string) (score float64, err error) {
	ctx, cancel := context.WithTimeout(ctx, generationTimeoutSeconds*time.Second)
	defer cancel()

	gtc, err := gt.NewClient(s.apiKey, s.model)
	if err != nil {
		return 0, fmt.Errorf("error initializing gemini-things client: %w", err)
	}
	gtc.SetTimeout(generationTimeoutSeconds)
	defer gtc.Close()

	// system instruction
	gtc.SetSystemInstructionFunc(scoreSystemInstruction)

	prompt := fmt.Sprintf(scorePromptFormat, title, abstract)

	// generate
	var result *genai.GenerateContentResponse
	if result, err = gtc.Generate(
		ctx,
		[]gt.Prompt{gt.PromptFromText(prompt)},
		gt.NewGenerationOptions(),
	); err != nil {
		return 0, fmt.Errorf("failed to generate score: %w", err)
	}

	generated := ""
	if len(result.Candidates) > 0 {
		if content := result.Candidates[0].Content; content != nil {
			for _, part := range content.Parts {
				generated += part.Text
			}
		}
	}

	return parseScore(generated)
}

// generate a system instruction for scoring
func scoreSystemInstruction() string {
	return fmt.Sprintf(scoreSystemInstructionFormat,
		time.Now().Format("2006-01-02 15:04:05 (Mon) MST"),
	)
}

// parse the first number found in given generated text, clamped to [0, 10]
func parseScore(generated string) (float64, error) {
	for _, field := range strings.Fields(generated) {
		field = strings.Trim(field, "*`.,:;")

		if parsed, err := strconv.ParseFloat(field, 64); err == nil {
			return clampScore(parsed), nil
		}
	}

	return 0, fmt.Errorf("no numeric score in generated text: '%s'", generated)
}
