// Package ai turns uploaded report files into structured health insights.
// The service layer depends on the ReportAnalyzer interface; Gemini is the
// production implementation.
package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/healthmate-pk/healthmate-api/internal/domain/report"
)

// DefaultDisclaimer is attached to every insight when the model omits one.
const DefaultDisclaimer = "This analysis is for informational purposes only. Always consult your doctor for proper medical advice and treatment."

const maxSummaryLen = 2000

// defaultConfidence is recorded on every insight; the model does not
// report a confidence of its own.
const defaultConfidence = 0.8

var ErrUnparsableResponse = errors.New("no valid JSON found in model response")

// Analysis is the model's structured reading of one report. Field names
// follow the JSON contract the prompt asks the model to emit.
type Analysis struct {
	SummaryEnglish      string                     `json:"summaryEnglish"`
	SummaryRomanUrdu    string                     `json:"summaryRomanUrdu"`
	AbnormalValues      []report.AbnormalValue     `json:"abnormalValues"`
	DoctorQuestions     []report.DoctorQuestion    `json:"doctorQuestions"`
	FoodRecommendations report.FoodRecommendations `json:"foodRecommendations"`
	Disclaimer          string                     `json:"disclaimer"`
	Model               string                     `json:"-"`
	Confidence          float64                    `json:"-"`
}

type ReportAnalyzer interface {
	// Analyze reads the raw file bytes and returns the structured analysis.
	Analyze(ctx context.Context, file []byte, fileName, mimeType string) (*Analysis, error)
}

var jsonObjectPattern = regexp.MustCompile(`(?s)\{.*\}`)

// parseAnalysis extracts the JSON object from a model reply. Models wrap
// answers in markdown fences or prose often enough that strict decoding
// of the raw text is not viable.
func parseAnalysis(text string) (*Analysis, error) {
	clean := strings.TrimSpace(text)
	clean = strings.ReplaceAll(clean, "```json", "")
	clean = strings.ReplaceAll(clean, "```", "")

	raw := jsonObjectPattern.FindString(clean)
	if raw == "" {
		return nil, ErrUnparsableResponse
	}

	var analysis Analysis
	if err := json.Unmarshal([]byte(raw), &analysis); err != nil {
		return nil, fmt.Errorf("decoding model response: %w", err)
	}

	analysis.SummaryEnglish = truncateSummary(analysis.SummaryEnglish)
	analysis.SummaryRomanUrdu = truncateSummary(analysis.SummaryRomanUrdu)
	if analysis.Disclaimer == "" {
		analysis.Disclaimer = DefaultDisclaimer
	}
	analysis.Confidence = defaultConfidence
	return &analysis, nil
}

func truncateSummary(s string) string {
	if len(s) <= maxSummaryLen {
		return s
	}
	return s[:maxSummaryLen-3] + "..."
}
