package router

import (
	"math"
	"strings"

	"github.com/zen-systems/swarmgate/pkg/config"
	"github.com/zen-systems/swarmgate/pkg/schema"
)

// Complexity score thresholds and term caps.
const (
	moderateThreshold    = 20.0
	complexThreshold     = 40.0
	veryComplexThreshold = 70.0

	textLengthCap = 25.0
	subTaskCap    = 30.0
	technicalCap  = 25.0

	maxSuggestedAgents = 8
)

// Analyzer scores task difficulty from text size, sub-task count, and
// keyword signals.
type Analyzer struct {
	cfg *config.RoutingConfig
}

// NewAnalyzer creates an analyzer over the given vocabularies.
func NewAnalyzer(cfg *config.RoutingConfig) *Analyzer {
	return &Analyzer{cfg: cfg}
}

// Analyze sums four weighted terms into a complexity score and derives the
// level plus a baseline execution suggestion. The complex-keyword term is
// intentionally uncapped, so the score can exceed 100.
func (a *Analyzer) Analyze(title, description string, subTaskCount int) schema.ComplexityAnalysis {
	if subTaskCount < 0 {
		subTaskCount = 0
	}
	combined := strings.ToLower(strings.TrimSpace(title + " " + description))
	wordCount := len(strings.Fields(combined))

	technical := countMatches(combined, a.cfg.TechnicalTerms)
	keywords := countMatches(combined, a.cfg.ComplexKeywords)

	score := math.Min(float64(wordCount)/4, textLengthCap)
	score += math.Min(float64(subTaskCount)*5, subTaskCap)
	score += math.Min(float64(technical)*5, technicalCap)
	score += float64(keywords) * 5

	level := LevelForScore(score)

	rec := schema.ComplexityRecommendation{
		Mode:           schema.ModeSingle,
		SuggestedModel: a.suggestedModel(score),
	}
	if score >= complexThreshold {
		rec.Mode = schema.ModeSwarm
		rec.SuggestedAgents = minInt(int(math.Ceil(score/15)), maxSuggestedAgents)
	}

	return schema.ComplexityAnalysis{
		Score: score,
		Level: level,
		Factors: schema.ComplexityFactors{
			TextLength:     wordCount,
			KeywordDensity: keywords,
			SubTaskCount:   subTaskCount,
			TechnicalTerms: technical,
		},
		Recommendation: rec,
	}
}

// LevelForScore maps a score onto the fixed level thresholds.
func LevelForScore(score float64) schema.ComplexityLevel {
	switch {
	case score >= veryComplexThreshold:
		return schema.LevelVeryComplex
	case score >= complexThreshold:
		return schema.LevelComplex
	case score >= moderateThreshold:
		return schema.LevelModerate
	default:
		return schema.LevelSimple
	}
}

// suggestedModel picks the primary provider's tier model for the score band.
func (a *Analyzer) suggestedModel(score float64) string {
	tiers := a.cfg.Tiers(a.cfg.PrimaryProvider)
	switch {
	case score >= veryComplexThreshold:
		return tiers.Top
	case score >= complexThreshold:
		return tiers.Mid
	default:
		return tiers.Low
	}
}

// countMatches counts distinct vocabulary entries present in the text.
func countMatches(text string, vocab []string) int {
	count := 0
	for _, term := range vocab {
		if containsTrigger(text, strings.ToLower(term)) {
			count++
		}
	}
	return count
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
