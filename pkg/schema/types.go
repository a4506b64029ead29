package schema

// TaskType is the closed set of task categories the classifier can assign.
type TaskType string

const (
	TaskImplementation TaskType = "implementation"
	TaskBugfix         TaskType = "bugfix"
	TaskRefactor       TaskType = "refactor"
	TaskTest           TaskType = "test"
	TaskDocumentation  TaskType = "documentation"
	TaskResearch       TaskType = "research"
	TaskDesign         TaskType = "design"
	TaskReview         TaskType = "review"
	TaskConfig         TaskType = "config"
	TaskUnknown        TaskType = "unknown"
)

// Label returns the display name for a task type. Rendering (icons, colors)
// belongs to the display layer; only the text lives here.
func (t TaskType) Label() string {
	switch t {
	case TaskImplementation:
		return "Implementation"
	case TaskBugfix:
		return "Bug Fix"
	case TaskRefactor:
		return "Refactor"
	case TaskTest:
		return "Testing"
	case TaskDocumentation:
		return "Documentation"
	case TaskResearch:
		return "Research"
	case TaskDesign:
		return "Design"
	case TaskReview:
		return "Review"
	case TaskConfig:
		return "Configuration"
	default:
		return "Unknown"
	}
}

// ComplexityLevel buckets a complexity score via fixed thresholds.
type ComplexityLevel string

const (
	LevelSimple      ComplexityLevel = "simple"
	LevelModerate    ComplexityLevel = "moderate"
	LevelComplex     ComplexityLevel = "complex"
	LevelVeryComplex ComplexityLevel = "very-complex"
)

// Mode is how the execution layer should run a task.
type Mode string

const (
	ModeSingle    Mode = "single"
	ModeSwarm     Mode = "swarm"
	ModeConsensus Mode = "consensus"
)

// ConsensusStrategy is the voting strategy for consensus mode.
type ConsensusStrategy string

const (
	StrategyUnanimous ConsensusStrategy = "unanimous"
	StrategyMajority  ConsensusStrategy = "majority"
	StrategyWeighted  ConsensusStrategy = "weighted"
	StrategyBestOfN   ConsensusStrategy = "best-of-n"
)

// SwarmStrategy is the coordination strategy for swarm mode.
type SwarmStrategy string

const (
	SwarmDevelopment SwarmStrategy = "development"
	SwarmResearch    SwarmStrategy = "research"
	SwarmTesting     SwarmStrategy = "testing"
	SwarmAnalysis    SwarmStrategy = "analysis"
)

// Provider identifies an AI backend from the fixed catalog.
type Provider string

const (
	ProviderAnthropic Provider = "anthropic"
	ProviderOpenAI    Provider = "openai"
	ProviderGoogle    Provider = "google"
	ProviderDeepSeek  Provider = "deepseek"
)

// ComplexityFactors breaks down what contributed to a complexity score.
type ComplexityFactors struct {
	TextLength     int `json:"text_length"`
	KeywordDensity int `json:"keyword_density"`
	SubTaskCount   int `json:"sub_task_count"`
	TechnicalTerms int `json:"technical_terms"`
}

// ComplexityRecommendation is the baseline execution suggestion embedded in
// a complexity analysis. SuggestedAgents is set only when Mode is swarm.
type ComplexityRecommendation struct {
	Mode            Mode   `json:"mode"`
	SuggestedAgents int    `json:"suggested_agents,omitempty"`
	SuggestedModel  string `json:"suggested_model"`
}

// ComplexityAnalysis is the analyzer's full output. The score is nominally
// 0-100 but the complex-keyword term is uncapped, so it can exceed 100.
type ComplexityAnalysis struct {
	Score          float64                  `json:"score"`
	Level          ComplexityLevel          `json:"level"`
	Factors        ComplexityFactors        `json:"factors"`
	Recommendation ComplexityRecommendation `json:"recommendation"`
}

// TaskRecommendation is a single best-effort execution recommendation.
// Strategy and MaxAgents are populated only when Mode is swarm.
type TaskRecommendation struct {
	Provider  Provider      `json:"provider"`
	Model     string        `json:"model"`
	Mode      Mode          `json:"mode"`
	Strategy  SwarmStrategy `json:"strategy,omitempty"`
	MaxAgents int           `json:"max_agents,omitempty"`
	Reason    string        `json:"reason"`
}

// ConsensusRecommendation is the advisor's verdict. Providers is empty
// whenever ShouldUseConsensus is false.
type ConsensusRecommendation struct {
	ShouldUseConsensus bool              `json:"should_use_consensus"`
	Strategy           ConsensusStrategy `json:"strategy"`
	Providers          []Provider        `json:"providers,omitempty"`
	Reason             string            `json:"reason"`
}

// SwarmPlan carries the swarm parameters of a routing result.
type SwarmPlan struct {
	Strategy  SwarmStrategy `json:"strategy"`
	MaxAgents int           `json:"max_agents"`
}

// AutoRoutingResult is the router's final decision. Exactly one of Consensus
// and Swarm is set, matching Mode.
type AutoRoutingResult struct {
	Mode      Mode                     `json:"mode"`
	Provider  Provider                 `json:"provider"`
	Model     string                   `json:"model"`
	Consensus *ConsensusRecommendation `json:"consensus,omitempty"`
	Swarm     *SwarmPlan               `json:"swarm,omitempty"`
	Reason    string                   `json:"reason"`
}

// CostEstimate is a coarse monetary estimate for running a task on a provider.
type CostEstimate struct {
	Provider        Provider `json:"provider"`
	EstimatedTokens int      `json:"estimated_tokens"`
	EstimatedCost   float64  `json:"estimated_cost"`
}

// Alternative proposes a materially cheaper provider for the same task.
type Alternative struct {
	Provider      Provider `json:"provider"`
	Model         string   `json:"model"`
	EstimatedCost float64  `json:"estimated_cost"`
	Reason        string   `json:"reason"`
}

// EnhancedRecommendation layers complexity and cost context on top of a
// base recommendation.
type EnhancedRecommendation struct {
	TaskRecommendation
	TaskType      TaskType           `json:"task_type"`
	Complexity    ComplexityAnalysis `json:"complexity"`
	EstimatedCost *CostEstimate      `json:"estimated_cost,omitempty"`
	Alternatives  []Alternative      `json:"alternatives,omitempty"`
}
