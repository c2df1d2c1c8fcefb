package ai

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/healthmate-pk/healthmate-api/internal/config"
)

const analysisPrompt = `You are a medical AI assistant analyzing a medical report. Provide a concise analysis in the following JSON format:

{
  "summaryEnglish": "Brief summary in English (max 300 words)",
  "summaryRomanUrdu": "Same summary in Roman Urdu (max 300 words)",
  "abnormalValues": [
    {
      "parameter": "Parameter name",
      "value": "Actual value",
      "normalRange": "Normal range",
      "severity": "low/moderate/high/critical",
      "description": "Brief explanation (max 100 words)"
    }
  ],
  "doctorQuestions": [
    {
      "question": "Important question to ask doctor (max 100 words)",
      "priority": "low/medium/high"
    }
  ],
  "foodRecommendations": {
    "avoid": [
      {
        "food": "Food item to avoid",
        "reason": "Brief reason (max 50 words)"
      }
    ],
    "include": [
      {
        "food": "Food item to include",
        "benefit": "Brief benefit (max 50 words)"
      }
    ]
  },
  "disclaimer": "This analysis is for informational purposes only. Always consult your doctor for proper medical advice and treatment."
}

IMPORTANT:
- Return ONLY valid JSON, no additional text or markdown
- Keep summaries under 300 words
- Be concise and focus on key findings only
- Ensure all fields are present in the JSON response`

// GeminiAnalyzer sends the report file inline to Gemini and parses the
// JSON reply into an Analysis.
type GeminiAnalyzer struct {
	client  *genai.Client
	model   string
	timeout time.Duration
	log     *zap.Logger
}

var _ ReportAnalyzer = (*GeminiAnalyzer)(nil)

func NewGeminiAnalyzer(ctx context.Context, cfg config.GeminiConfig, log *zap.Logger) (*GeminiAnalyzer, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating Gemini client: %w", err)
	}

	return &GeminiAnalyzer{
		client:  client,
		model:   cfg.Model,
		timeout: cfg.Timeout,
		log:     log,
	}, nil
}

func (g *GeminiAnalyzer) Analyze(ctx context.Context, file []byte, fileName, mimeType string) (*Analysis, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromText(analysisPrompt),
			genai.NewPartFromBytes(file, mimeType),
		}, genai.RoleUser),
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, nil)
	if err != nil {
		return nil, fmt.Errorf("generating analysis for %s: %w", fileName, err)
	}

	text := resp.Text()
	analysis, err := parseAnalysis(text)
	if err != nil {
		g.log.Error("unparsable model response",
			zap.String("file_name", fileName),
			zap.String("model", g.model),
			zap.Error(err))
		return nil, err
	}

	analysis.Model = g.model
	return analysis, nil
}
