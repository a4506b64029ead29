package router

import (
	"fmt"
	"strings"

	"github.com/zen-systems/swarmgate/pkg/config"
	"github.com/zen-systems/swarmgate/pkg/schema"
)

// Consensus runs across at most this many providers.
const maxConsensusProviders = 3

// ConsensusInput carries everything the advisor weighs. TaskType and
// Complexity are optional; a zero TaskType means unclassified and a nil
// Complexity is treated as simple.
type ConsensusInput struct {
	Title         string
	Description   string
	TaskType      schema.TaskType
	Complexity    *schema.ComplexityAnalysis
	Available     []schema.Provider
	PreferQuality bool
	PreferSpeed   bool
}

// Advisor decides whether a task warrants multi-provider agreement and which
// voting strategy to use.
type Advisor struct {
	cfg *config.RoutingConfig
}

// NewAdvisor creates an advisor over the given trigger tables.
func NewAdvisor(cfg *config.RoutingConfig) *Advisor {
	return &Advisor{cfg: cfg}
}

// ShouldUseConsensus gates consensus mode. It is false whenever fewer than
// two providers are available, regardless of any other signal.
func (a *Advisor) ShouldUseConsensus(in ConsensusInput) bool {
	if len(in.Available) < 2 {
		return false
	}
	yes, _ := a.consensusSignals(in)
	return yes
}

// SelectStrategy applies the strategy rules in fixed priority order and
// returns the first match.
func (a *Advisor) SelectStrategy(in ConsensusInput) schema.ConsensusStrategy {
	strategy, _ := a.strategyWithRule(in)
	return strategy
}

// Recommend combines the gate, the strategy, and provider selection into a
// full consensus recommendation.
func (a *Advisor) Recommend(in ConsensusInput) schema.ConsensusRecommendation {
	strategy, rule := a.strategyWithRule(in)

	if len(in.Available) < 2 {
		return schema.ConsensusRecommendation{
			Strategy: strategy,
			Reason:   "fewer than two providers available",
		}
	}

	yes, signals := a.consensusSignals(in)
	if !yes {
		return schema.ConsensusRecommendation{
			Strategy: strategy,
			Reason:   "no consensus signal matched",
		}
	}

	providers := a.selectProviders(strategy, in.Available)

	reasons := signals
	if rule != "" {
		reasons = append(reasons, rule)
	}
	reason := strings.Join(reasons, "; ")
	if reason == "" {
		reason = fmt.Sprintf("strategy %s with %d providers", strategy, len(providers))
	}

	return schema.ConsensusRecommendation{
		ShouldUseConsensus: true,
		Strategy:           strategy,
		Providers:          providers,
		Reason:             reason,
	}
}

// consensusSignals evaluates the gate rules and returns the texts of the
// rules that fired.
func (a *Advisor) consensusSignals(in ConsensusInput) (bool, []string) {
	var signals []string

	switch in.TaskType {
	case schema.TaskReview, schema.TaskDesign, schema.TaskResearch, schema.TaskRefactor:
		signals = append(signals, fmt.Sprintf("%s tasks benefit from multi-model agreement", in.TaskType))
	}

	level := schema.LevelSimple
	if in.Complexity != nil {
		level = in.Complexity.Level
	}
	if level == schema.LevelVeryComplex && in.PreferQuality {
		signals = append(signals, "very complex task with quality preference")
	}

	if level != schema.LevelSimple {
		text := strings.ToLower(in.Title + " " + in.Description)
		if trig, ok := firstTrigger(text, a.cfg.Consensus.General); ok {
			signals = append(signals, fmt.Sprintf("matched consensus trigger %q", trig))
		}
	}

	return len(signals) > 0, signals
}

// strategyWithRule picks the voting strategy and the text of the rule that
// chose it.
func (a *Advisor) strategyWithRule(in ConsensusInput) (schema.ConsensusStrategy, string) {
	text := strings.ToLower(in.Title + " " + in.Description)

	if trig, ok := firstTrigger(text, a.cfg.Consensus.Security); ok {
		return schema.StrategyUnanimous, fmt.Sprintf("security-sensitive phrase %q requires unanimity", trig)
	}
	if in.TaskType == schema.TaskReview {
		return schema.StrategyMajority, "review tasks settle by majority"
	}
	if trig, ok := firstTrigger(text, a.cfg.Consensus.Review); ok {
		return schema.StrategyMajority, fmt.Sprintf("review phrase %q settles by majority", trig)
	}
	if in.TaskType == schema.TaskResearch {
		return schema.StrategyWeighted, "research tasks weight provider strengths"
	}
	if trig, ok := firstTrigger(text, a.cfg.Consensus.Compare); ok {
		return schema.StrategyWeighted, fmt.Sprintf("comparison phrase %q weights provider strengths", trig)
	}
	if in.TaskType == schema.TaskDesign || in.TaskType == schema.TaskRefactor {
		return schema.StrategyBestOfN, fmt.Sprintf("%s tasks pick the best of several drafts", in.TaskType)
	}
	if in.PreferSpeed {
		return schema.StrategyMajority, "speed preference settles by majority"
	}
	return schema.StrategyWeighted, ""
}

// selectProviders picks the participants for a strategy. Weighted puts the
// primary provider first when available; the others take the first providers
// in catalog order.
func (a *Advisor) selectProviders(strategy schema.ConsensusStrategy, available []schema.Provider) []schema.Provider {
	normalized := a.cfg.NormalizeProviders(available)

	if strategy != schema.StrategyWeighted {
		if len(normalized) > maxConsensusProviders {
			normalized = normalized[:maxConsensusProviders]
		}
		return normalized
	}

	var providers []schema.Provider
	for _, p := range normalized {
		if p == a.cfg.PrimaryProvider {
			providers = append(providers, p)
			break
		}
	}
	for _, p := range normalized {
		if len(providers) >= maxConsensusProviders {
			break
		}
		if p != a.cfg.PrimaryProvider {
			providers = append(providers, p)
		}
	}
	return providers
}

// firstTrigger returns the first vocabulary entry present in the text.
func firstTrigger(text string, vocab []string) (string, bool) {
	for _, term := range vocab {
		if containsTrigger(text, strings.ToLower(term)) {
			return term, true
		}
	}
	return "", false
}
