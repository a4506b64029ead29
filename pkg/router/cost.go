package router

import (
	"sort"

	"github.com/zen-systems/swarmgate/pkg/config"
	"github.com/zen-systems/swarmgate/pkg/schema"
)

// Budget searches assume output runs at 1.5x the input token count.
const outputTokenRatio = 1.5

// Estimator converts token counts into monetary estimates from the
// per-provider price table.
type Estimator struct {
	cfg *config.RoutingConfig
}

// NewEstimator creates an estimator over the given pricing table.
func NewEstimator(cfg *config.RoutingConfig) *Estimator {
	return &Estimator{cfg: cfg}
}

// Estimate prices a token split on one provider. Providers without a pricing
// entry estimate to zero cost rather than failing.
func (e *Estimator) Estimate(provider schema.Provider, inputTokens, outputTokens int) schema.CostEstimate {
	est := schema.CostEstimate{
		Provider:        provider,
		EstimatedTokens: inputTokens + outputTokens,
	}
	pricing, ok := e.cfg.PricingFor(provider)
	if !ok {
		return est
	}
	est.EstimatedCost = (float64(inputTokens)*pricing.InputPer1K +
		float64(outputTokens)*pricing.OutputPer1K) / 1000
	return est
}

// CheapestWithinBudget returns the cheapest candidate whose estimated cost
// for the given input token count fits the budget. Candidates without a
// pricing entry are skipped. The bool is false when no candidate qualifies.
func (e *Estimator) CheapestWithinBudget(budget float64, estimatedTokens int, candidates []schema.Provider) (schema.Provider, bool) {
	type priced struct {
		provider schema.Provider
		cost     float64
	}

	outputTokens := int(float64(estimatedTokens) * outputTokenRatio)
	var costs []priced
	for _, p := range e.cfg.NormalizeProviders(candidates) {
		if _, ok := e.cfg.PricingFor(p); !ok {
			continue
		}
		est := e.Estimate(p, estimatedTokens, outputTokens)
		costs = append(costs, priced{provider: p, cost: est.EstimatedCost})
	}

	sort.SliceStable(costs, func(i, j int) bool {
		return costs[i].cost < costs[j].cost
	})

	for _, c := range costs {
		if c.cost <= budget {
			return c.provider, true
		}
	}
	return "", false
}

// EstimateTaskTokens approximates the input token volume of a task from its
// word count. A coarse heuristic, not a tokenizer.
func EstimateTaskTokens(textLength int) int {
	return textLength * 100
}
