package router

import (
	"fmt"
	"log"

	"github.com/zen-systems/swarmgate/pkg/config"
	"github.com/zen-systems/swarmgate/pkg/schema"
)

// RouteOptions tunes a routing call. A nil AvailableProviders means the full
// catalog; an explicitly empty slice means no providers are available.
type RouteOptions struct {
	SubTaskCount       int
	AvailableProviders []schema.Provider
	Budget             float64
	PreferQuality      bool
	PreferSpeed        bool
}

// Router is the top-level entry point. It arbitrates between consensus,
// swarm, and single-agent outcomes in a fixed priority order.
type Router struct {
	cfg        *config.RoutingConfig
	classifier *Classifier
	analyzer   *Analyzer
	estimator  *Estimator
	advisor    *Advisor
	engine     *Engine
	debug      bool
}

// RouterOption configures a Router.
type RouterOption func(*Router)

// WithDebug enables debug logging.
func WithDebug(debug bool) RouterOption {
	return func(r *Router) {
		r.debug = debug
	}
}

// NewRouter creates a router over the given decision tables.
func NewRouter(cfg *config.RoutingConfig, opts ...RouterOption) *Router {
	r := &Router{
		cfg:        cfg,
		classifier: NewClassifier(cfg),
		analyzer:   NewAnalyzer(cfg),
		estimator:  NewEstimator(cfg),
		advisor:    NewAdvisor(cfg),
		engine:     NewEngine(cfg),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Route emits the final routing decision for a task. The priority order is
// fixed: consensus when quality is preferred and the advisor agrees, then
// swarm for very complex or many-sub-task or test/research work, then single
// with a soft budget check.
func (r *Router) Route(title, description string, opts RouteOptions) schema.AutoRoutingResult {
	available := opts.AvailableProviders
	if available == nil {
		available = r.cfg.KnownProviders()
	} else {
		available = r.cfg.NormalizeProviders(available)
	}

	taskType := r.classifier.Classify(title, description)
	analysis := r.analyzer.Analyze(title, description, opts.SubTaskCount)

	if r.debug {
		log.Printf("[router] task_type=%s level=%s score=%.1f providers=%d",
			taskType, analysis.Level, analysis.Score, len(available))
	}

	if opts.PreferQuality && len(available) >= 2 {
		cons := r.advisor.Recommend(ConsensusInput{
			Title:         title,
			Description:   description,
			TaskType:      taskType,
			Complexity:    &analysis,
			Available:     available,
			PreferQuality: opts.PreferQuality,
			PreferSpeed:   opts.PreferSpeed,
		})
		if cons.ShouldUseConsensus {
			lead := cons.Providers[0]
			return schema.AutoRoutingResult{
				Mode:      schema.ModeConsensus,
				Provider:  lead,
				Model:     r.cfg.Tiers(lead).Mid,
				Consensus: &cons,
				Reason:    cons.Reason,
			}
		}
	}

	rec := r.engine.BaseRecommendation(taskType, opts.AvailableProviders)
	rec = r.engine.AdjustForComplexity(rec, title, opts.SubTaskCount)

	if analysis.Level == schema.LevelVeryComplex || opts.SubTaskCount > 3 ||
		taskType == schema.TaskTest || taskType == schema.TaskResearch {
		strategy := rec.Strategy
		if strategy == "" {
			strategy = schema.SwarmDevelopment
		}
		agents := rec.MaxAgents
		if agents == 0 {
			agents = minInt(defaultSwarmAgentCap, opts.SubTaskCount+2)
		}
		return schema.AutoRoutingResult{
			Mode:     schema.ModeSwarm,
			Provider: rec.Provider,
			Model:    rec.Model,
			Swarm:    &schema.SwarmPlan{Strategy: strategy, MaxAgents: agents},
			Reason:   rec.Reason,
		}
	}

	result := schema.AutoRoutingResult{
		Mode:     schema.ModeSingle,
		Provider: rec.Provider,
		Model:    rec.Model,
		Reason:   rec.Reason,
	}

	if opts.Budget > 0 {
		result = r.applyBudget(result, analysis, available, opts.Budget)
	}

	return result
}

// applyBudget substitutes a cheaper provider when the chosen one exceeds the
// budget. Finding none is a soft warning, never a failure: the over-budget
// choice is returned with an annotated reason.
func (r *Router) applyBudget(result schema.AutoRoutingResult, analysis schema.ComplexityAnalysis, available []schema.Provider, budget float64) schema.AutoRoutingResult {
	tokens := EstimateTaskTokens(analysis.Factors.TextLength)
	est := r.estimator.Estimate(result.Provider, tokens, int(float64(tokens)*outputTokenRatio))
	if est.EstimatedCost <= budget {
		return result
	}

	substitute, ok := r.estimator.CheapestWithinBudget(budget, tokens, available)
	if !ok {
		result.Reason = fmt.Sprintf("%s; estimated $%.4f exceeds budget $%.4f and no cheaper provider qualifies",
			result.Reason, est.EstimatedCost, budget)
		return result
	}

	result.Reason = fmt.Sprintf("%s; switched to %s to fit the $%.4f budget",
		result.Reason, substitute, budget)
	result.Provider = substitute
	result.Model = r.cfg.Tiers(substitute).Mid
	return result
}
