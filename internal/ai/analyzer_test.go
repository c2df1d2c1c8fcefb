package ai

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAnalysisFencedJSON(t *testing.T) {
	reply := "```json\n" + `{
		"summaryEnglish": "Hemoglobin is slightly low.",
		"summaryRomanUrdu": "Hemoglobin thora kam hai.",
		"abnormalValues": [
			{"parameter": "Hemoglobin", "value": "11.2 g/dL", "normalRange": "13.5-17.5 g/dL", "severity": "low"}
		],
		"doctorQuestions": [
			{"question": "Should I take iron supplements?", "reason": "Low hemoglobin"}
		],
		"disclaimer": "Talk to your doctor."
	}` + "\n```"

	analysis, err := parseAnalysis(reply)
	require.NoError(t, err)

	assert.Equal(t, "Hemoglobin is slightly low.", analysis.SummaryEnglish)
	assert.Equal(t, "Hemoglobin thora kam hai.", analysis.SummaryRomanUrdu)
	require.Len(t, analysis.AbnormalValues, 1)
	assert.Equal(t, "Hemoglobin", analysis.AbnormalValues[0].Parameter)
	require.Len(t, analysis.DoctorQuestions, 1)
	assert.Equal(t, "Talk to your doctor.", analysis.Disclaimer)
}

func TestParseAnalysisProseWrappedJSON(t *testing.T) {
	reply := `Here is the analysis you asked for:

{"summaryEnglish": "All values within normal limits.", "summaryRomanUrdu": "Sab theek hai."}

Let me know if you need anything else.`

	analysis, err := parseAnalysis(reply)
	require.NoError(t, err)
	assert.Equal(t, "All values within normal limits.", analysis.SummaryEnglish)
}

func TestParseAnalysisNoJSON(t *testing.T) {
	_, err := parseAnalysis("I cannot read this file, it appears to be corrupted.")
	assert.ErrorIs(t, err, ErrUnparsableResponse)
}

func TestParseAnalysisMalformedJSON(t *testing.T) {
	_, err := parseAnalysis(`{"summaryEnglish": }`)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUnparsableResponse)
}

func TestParseAnalysisTruncatesLongSummaries(t *testing.T) {
	long := strings.Repeat("a", 3000)
	analysis, err := parseAnalysis(`{"summaryEnglish": "` + long + `"}`)
	require.NoError(t, err)

	assert.Len(t, analysis.SummaryEnglish, maxSummaryLen)
	assert.True(t, strings.HasSuffix(analysis.SummaryEnglish, "..."))
}

func TestParseAnalysisDefaultsDisclaimer(t *testing.T) {
	analysis, err := parseAnalysis(`{"summaryEnglish": "Normal."}`)
	require.NoError(t, err)
	assert.Equal(t, DefaultDisclaimer, analysis.Disclaimer)
}

func TestParseAnalysisSetsConfidence(t *testing.T) {
	analysis, err := parseAnalysis(`{"summaryEnglish": "Normal."}`)
	require.NoError(t, err)
	assert.Equal(t, 0.8, analysis.Confidence)
}
