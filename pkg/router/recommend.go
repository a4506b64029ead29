package router

import (
	"fmt"
	"strings"

	"github.com/zen-systems/swarmgate/pkg/config"
	"github.com/zen-systems/swarmgate/pkg/schema"
)

// Swarm sizing limits shared by the adjustment and routing steps.
const (
	maxSwarmAgents       = 8
	defaultSwarmAgentCap = 5
)

// An alternative provider is proposed when it would cost at most this
// fraction of the chosen provider's estimate.
const materialSavingsRatio = 0.5

// Options tunes an enhanced recommendation.
type Options struct {
	AvailableProviders []schema.Provider
	SubTaskCount       int
	PreferQuality      bool
}

// Engine combines classification, complexity, availability, and cost into a
// single execution recommendation.
type Engine struct {
	cfg        *config.RoutingConfig
	classifier *Classifier
	analyzer   *Analyzer
	estimator  *Estimator
}

// NewEngine creates a recommendation engine over the given tables.
func NewEngine(cfg *config.RoutingConfig) *Engine {
	return &Engine{
		cfg:        cfg,
		classifier: NewClassifier(cfg),
		analyzer:   NewAnalyzer(cfg),
		estimator:  NewEstimator(cfg),
	}
}

// BaseRecommendation returns the default route for a task type. When a
// non-empty availability list excludes the default provider, the primary
// provider is substituted if available, else the first available provider
// in catalog order. An explicitly empty list bypasses substitution.
func (e *Engine) BaseRecommendation(taskType schema.TaskType, available []schema.Provider) schema.TaskRecommendation {
	route := e.cfg.DefaultFor(taskType)
	rec := schema.TaskRecommendation{
		Provider:  route.Provider,
		Model:     route.Model,
		Mode:      route.Mode,
		Strategy:  route.Strategy,
		MaxAgents: route.MaxAgents,
		Reason:    route.Reason,
	}

	normalized := e.cfg.NormalizeProviders(available)
	if len(normalized) == 0 || containsProvider(normalized, rec.Provider) {
		return rec
	}

	substitute := normalized[0]
	if containsProvider(normalized, e.cfg.PrimaryProvider) {
		substitute = e.cfg.PrimaryProvider
	}
	rec.Reason = fmt.Sprintf("%s; substituted %s because %s is not available",
		rec.Reason, substitute, rec.Provider)
	rec.Provider = substitute
	rec.Model = e.cfg.Tiers(substitute).Mid
	return rec
}

// AdjustForComplexity layers sub-task and title-keyword signals onto a
// recommendation, returning a new value.
func (e *Engine) AdjustForComplexity(rec schema.TaskRecommendation, title string, subTaskCount int) schema.TaskRecommendation {
	adjusted := rec

	if subTaskCount > 3 {
		adjusted.Mode = schema.ModeSwarm
		adjusted.Strategy = schema.SwarmDevelopment
		adjusted.MaxAgents = minInt(subTaskCount, maxSwarmAgents)
		adjusted.Reason = fmt.Sprintf("%s; %d sub-tasks warrant a swarm", adjusted.Reason, subTaskCount)
	}

	titleLower := strings.ToLower(title)
	top := e.cfg.Tiers(adjusted.Provider).Top
	if adjusted.Provider == e.cfg.PrimaryProvider && adjusted.Model != top {
		if trig, ok := firstTrigger(titleLower, e.cfg.ComplexKeywords); ok {
			adjusted.Model = top
			adjusted.Reason = fmt.Sprintf("%s; %q in the title upgrades to the top model", adjusted.Reason, trig)
		}
	}

	return adjusted
}

// EnhancedRecommendation classifies and analyzes the task, applies
// availability and complexity adjustments, then attaches a cost estimate and
// any materially cheaper alternatives.
func (e *Engine) EnhancedRecommendation(title, description string, opts Options) schema.EnhancedRecommendation {
	taskType := e.classifier.Classify(title, description)
	analysis := e.analyzer.Analyze(title, description, opts.SubTaskCount)

	rec := e.BaseRecommendation(taskType, opts.AvailableProviders)
	rec = e.AdjustForComplexity(rec, title, opts.SubTaskCount)
	rec = e.applyComplexityOverrides(rec, analysis, opts)

	tokens := EstimateTaskTokens(analysis.Factors.TextLength)
	est := e.estimator.Estimate(rec.Provider, tokens, int(float64(tokens)*outputTokenRatio))

	return schema.EnhancedRecommendation{
		TaskRecommendation: rec,
		TaskType:           taskType,
		Complexity:         analysis,
		EstimatedCost:      &est,
		Alternatives:       e.cheaperAlternatives(rec.Provider, est, tokens, opts.AvailableProviders),
	}
}

// applyComplexityOverrides forces the level-driven mode and model choices.
func (e *Engine) applyComplexityOverrides(rec schema.TaskRecommendation, analysis schema.ComplexityAnalysis, opts Options) schema.TaskRecommendation {
	adjusted := rec
	tiers := e.cfg.Tiers(adjusted.Provider)

	switch analysis.Level {
	case schema.LevelVeryComplex:
		adjusted.Mode = schema.ModeSwarm
		if adjusted.Strategy == "" {
			adjusted.Strategy = schema.SwarmDevelopment
		}
		if analysis.Recommendation.SuggestedAgents > 0 {
			adjusted.MaxAgents = analysis.Recommendation.SuggestedAgents
		} else if adjusted.MaxAgents == 0 {
			adjusted.MaxAgents = minInt(defaultSwarmAgentCap, opts.SubTaskCount+2)
		}
		adjusted.Model = tiers.Top
		adjusted.Reason = adjusted.Reason + "; very complex task forces a top-model swarm"
	case schema.LevelComplex:
		if adjusted.Model != tiers.Top {
			adjusted.Model = tiers.Mid
		}
	case schema.LevelSimple:
		if opts.PreferQuality {
			break
		}
		adjusted.Model = tiers.Low
		lowCost := e.cfg.LowCostProvider
		available := e.cfg.NormalizeProviders(opts.AvailableProviders)
		if adjusted.Provider != lowCost &&
			(opts.AvailableProviders == nil || containsProvider(available, lowCost)) {
			adjusted.Provider = lowCost
			adjusted.Model = e.cfg.Tiers(lowCost).Low
			adjusted.Reason = adjusted.Reason + "; simple task downgraded to the low-cost provider"
		}
	}

	// Keep swarm fields consistent with the final mode.
	if adjusted.Mode != schema.ModeSwarm {
		adjusted.Strategy = ""
		adjusted.MaxAgents = 0
	}

	return adjusted
}

// cheaperAlternatives proposes available providers whose estimate is at most
// half the chosen provider's.
func (e *Engine) cheaperAlternatives(chosen schema.Provider, est schema.CostEstimate, tokens int, available []schema.Provider) []schema.Alternative {
	if est.EstimatedCost <= 0 {
		return nil
	}
	candidates := e.cfg.NormalizeProviders(available)
	if available == nil {
		candidates = e.cfg.KnownProviders()
	}

	outputTokens := int(float64(tokens) * outputTokenRatio)
	var alts []schema.Alternative
	for _, p := range candidates {
		if p == chosen {
			continue
		}
		alt := e.estimator.Estimate(p, tokens, outputTokens)
		if alt.EstimatedCost <= 0 || alt.EstimatedCost > est.EstimatedCost*materialSavingsRatio {
			continue
		}
		alts = append(alts, schema.Alternative{
			Provider:      p,
			Model:         e.cfg.Tiers(p).Mid,
			EstimatedCost: alt.EstimatedCost,
			Reason: fmt.Sprintf("estimated $%.4f vs $%.4f on %s",
				alt.EstimatedCost, est.EstimatedCost, chosen),
		})
	}
	return alts
}

func containsProvider(list []schema.Provider, p schema.Provider) bool {
	for _, item := range list {
		if item == p {
			return true
		}
	}
	return false
}
