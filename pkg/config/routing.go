package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/zen-systems/swarmgate/pkg/schema"
)

// RoutingConfig holds every decision table the engine consumes: category
// trigger words, complexity vocabularies, consensus triggers, the provider
// catalog with pricing and model tiers, and the per-task-type defaults.
// Category declaration order is the classifier tie-break order, and provider
// declaration order is the canonical order used for deterministic selection.
type RoutingConfig struct {
	Categories      []CategoryRule    `yaml:"categories"`
	TechnicalTerms  []string          `yaml:"technical_terms"`
	ComplexKeywords []string          `yaml:"complex_keywords"`
	Consensus       ConsensusTriggers `yaml:"consensus"`
	Providers       []ProviderSpec    `yaml:"providers"`
	Defaults        []DefaultRoute    `yaml:"defaults"`
	PrimaryProvider schema.Provider   `yaml:"primary_provider"`
	LowCostProvider schema.Provider   `yaml:"low_cost_provider"`
}

// CategoryRule maps a task type to its trigger words and phrases.
type CategoryRule struct {
	Type     schema.TaskType `yaml:"type"`
	Triggers []string        `yaml:"triggers"`
}

// ConsensusTriggers holds the phrase lists the consensus advisor matches.
type ConsensusTriggers struct {
	General  []string `yaml:"general"`
	Security []string `yaml:"security"`
	Review   []string `yaml:"review"`
	Compare  []string `yaml:"compare"`
}

// ProviderSpec describes one provider in the catalog.
type ProviderSpec struct {
	Name    schema.Provider `yaml:"name"`
	Models  ModelTiers      `yaml:"models"`
	Pricing ProviderPricing `yaml:"pricing"`
}

// ModelTiers names a provider's top, mid, and low tier models.
type ModelTiers struct {
	Top string `yaml:"top"`
	Mid string `yaml:"mid"`
	Low string `yaml:"low"`
}

// ProviderPricing is the fixed price pair per 1,000 tokens.
type ProviderPricing struct {
	InputPer1K  float64 `yaml:"input_per_1k"`
	OutputPer1K float64 `yaml:"output_per_1k"`
}

// DefaultRoute is the default recommendation for one task type.
// Strategy and MaxAgents are set only for swarm-mode defaults.
type DefaultRoute struct {
	Type      schema.TaskType      `yaml:"type"`
	Provider  schema.Provider      `yaml:"provider"`
	Model     string               `yaml:"model"`
	Mode      schema.Mode          `yaml:"mode"`
	Strategy  schema.SwarmStrategy `yaml:"strategy,omitempty"`
	MaxAgents int                  `yaml:"max_agents,omitempty"`
	Reason    string               `yaml:"reason"`
}

// LoadRoutingConfig reads routing configuration from a YAML file.
func LoadRoutingConfig(path string) (*RoutingConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg RoutingConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	applyRoutingDefaults(&cfg)
	return &cfg, nil
}

// DefaultRoutingConfig returns the built-in decision tables.
func DefaultRoutingConfig() *RoutingConfig {
	cfg := &RoutingConfig{
		Categories: []CategoryRule{
			{Type: schema.TaskImplementation, Triggers: []string{
				"implement", "build", "develop", "add feature", "new feature",
				"implementar", "desarrollar", "construir",
			}},
			{Type: schema.TaskBugfix, Triggers: []string{
				"bug", "fix", "error", "crash", "broken", "defect", "regression",
				"corregir", "arreglar", "fallo",
			}},
			{Type: schema.TaskRefactor, Triggers: []string{
				"refactor", "restructure", "rewrite", "clean up", "simplify",
				"refactorizar", "reestructurar", "simplificar",
			}},
			{Type: schema.TaskTest, Triggers: []string{
				"test", "tests", "testing", "coverage", "mock", "unit test", "e2e",
				"prueba", "pruebas", "cobertura",
			}},
			{Type: schema.TaskDocumentation, Triggers: []string{
				"document", "documentation", "docs", "readme", "changelog",
				"documentar", "documentacion",
			}},
			{Type: schema.TaskResearch, Triggers: []string{
				"research", "investigate", "explore", "find out", "evaluate options",
				"investigar", "explorar",
			}},
			{Type: schema.TaskDesign, Triggers: []string{
				"design", "architecture", "architect", "wireframe", "data model",
				"diseno", "disenar", "arquitectura",
			}},
			{Type: schema.TaskReview, Triggers: []string{
				"review", "audit", "inspect", "assess",
				"revisar", "auditoria",
			}},
			{Type: schema.TaskConfig, Triggers: []string{
				"config", "configuration", "setup", "settings", "environment variable",
				"configurar", "configuracion",
			}},
		},
		TechnicalTerms: []string{
			"api", "database", "authentication", "authorization", "migration",
			"integration", "distributed", "concurrent", "async", "websocket",
			"graphql", "microservice", "kubernetes", "docker", "ci/cd",
			"cache", "queue", "encryption", "oauth", "grpc",
		},
		ComplexKeywords: []string{
			"complex", "entire", "refactor", "optimize", "overhaul",
			"complejo", "completo", "optimizar",
		},
		Consensus: ConsensusTriggers{
			General: []string{
				"verify", "compare", "confirm", "consensus", "review", "critical",
				"security", "verificar", "comparar", "confirmar", "critico", "seguridad",
			},
			Security: []string{
				"security", "critical", "vulnerability", "exploit",
				"seguridad", "critico", "vulnerabilidad",
			},
			Review: []string{
				"review", "audit", "evaluate", "revisar", "auditoria",
			},
			Compare: []string{
				"compare", "versus", "vs", "benchmark", "comparar",
			},
		},
		Providers: []ProviderSpec{
			{
				Name: schema.ProviderAnthropic,
				Models: ModelTiers{
					Top: "claude-opus-4-20250514",
					Mid: "claude-sonnet-4-20250514",
					Low: "claude-3-5-haiku-20241022",
				},
				Pricing: ProviderPricing{InputPer1K: 0.003, OutputPer1K: 0.015},
			},
			{
				Name: schema.ProviderOpenAI,
				Models: ModelTiers{
					Top: "gpt-5.2-pro",
					Mid: "gpt-5.2-thinking",
					Low: "gpt-5.2-instant",
				},
				Pricing: ProviderPricing{InputPer1K: 0.0025, OutputPer1K: 0.01},
			},
			{
				Name: schema.ProviderGoogle,
				Models: ModelTiers{
					Top: "gemini-2.0-pro",
					Mid: "gemini-2.0-flash",
					Low: "gemini-2.0-flash-lite",
				},
				Pricing: ProviderPricing{InputPer1K: 0.00125, OutputPer1K: 0.005},
			},
			{
				Name: schema.ProviderDeepSeek,
				Models: ModelTiers{
					Top: "deepseek-reasoner",
					Mid: "deepseek-chat",
					Low: "deepseek-coder",
				},
				Pricing: ProviderPricing{InputPer1K: 0.00027, OutputPer1K: 0.0011},
			},
		},
		Defaults: []DefaultRoute{
			{
				Type: schema.TaskImplementation, Provider: schema.ProviderAnthropic,
				Model: "claude-sonnet-4-20250514", Mode: schema.ModeSingle,
				Reason: "implementation work routes to the primary coding model",
			},
			{
				Type: schema.TaskBugfix, Provider: schema.ProviderAnthropic,
				Model: "claude-sonnet-4-20250514", Mode: schema.ModeSingle,
				Reason: "bug fixes need focused single-agent debugging",
			},
			{
				Type: schema.TaskRefactor, Provider: schema.ProviderOpenAI,
				Model: "gpt-5.2-codex", Mode: schema.ModeSingle,
				Reason: "refactors route to the code-specialized model",
			},
			{
				Type: schema.TaskTest, Provider: schema.ProviderOpenAI,
				Model: "gpt-5.2-codex", Mode: schema.ModeSwarm,
				Strategy: schema.SwarmTesting, MaxAgents: 3,
				Reason: "test suites parallelize well across agents",
			},
			{
				Type: schema.TaskDocumentation, Provider: schema.ProviderGoogle,
				Model: "gemini-2.0-flash", Mode: schema.ModeSingle,
				Reason: "documentation runs on a fast low-cost model",
			},
			{
				Type: schema.TaskResearch, Provider: schema.ProviderGoogle,
				Model: "gemini-2.0-pro", Mode: schema.ModeSwarm,
				Strategy: schema.SwarmResearch, MaxAgents: 3,
				Reason: "research fans out across parallel explorers",
			},
			{
				Type: schema.TaskDesign, Provider: schema.ProviderAnthropic,
				Model: "claude-opus-4-20250514", Mode: schema.ModeSingle,
				Reason: "design decisions get the strongest reasoning model",
			},
			{
				Type: schema.TaskReview, Provider: schema.ProviderAnthropic,
				Model: "claude-sonnet-4-20250514", Mode: schema.ModeSingle,
				Reason: "reviews route to the primary model",
			},
			{
				Type: schema.TaskConfig, Provider: schema.ProviderDeepSeek,
				Model: "deepseek-chat", Mode: schema.ModeSingle,
				Reason: "configuration edits run on the cheapest capable model",
			},
			{
				Type: schema.TaskUnknown, Provider: schema.ProviderAnthropic,
				Model: "claude-sonnet-4-20250514", Mode: schema.ModeSingle,
				Reason: "unclassified tasks route to the primary default",
			},
		},
		PrimaryProvider: schema.ProviderAnthropic,
		LowCostProvider: schema.ProviderDeepSeek,
	}

	return cfg
}

// applyRoutingDefaults fills any table a partial YAML file left out with the
// built-in defaults, so operators can override one table at a time.
func applyRoutingDefaults(cfg *RoutingConfig) {
	if cfg == nil {
		return
	}
	d := DefaultRoutingConfig()
	if cfg.Categories == nil {
		cfg.Categories = d.Categories
	}
	if cfg.TechnicalTerms == nil {
		cfg.TechnicalTerms = d.TechnicalTerms
	}
	if cfg.ComplexKeywords == nil {
		cfg.ComplexKeywords = d.ComplexKeywords
	}
	if cfg.Consensus.General == nil && cfg.Consensus.Security == nil &&
		cfg.Consensus.Review == nil && cfg.Consensus.Compare == nil {
		cfg.Consensus = d.Consensus
	}
	if cfg.Providers == nil {
		cfg.Providers = d.Providers
	}
	if cfg.Defaults == nil {
		cfg.Defaults = d.Defaults
	}
	if cfg.PrimaryProvider == "" {
		cfg.PrimaryProvider = d.PrimaryProvider
	}
	if cfg.LowCostProvider == "" {
		cfg.LowCostProvider = d.LowCostProvider
	}
}

// Validate checks the tables for internal consistency.
func (c *RoutingConfig) Validate() error {
	if len(c.Providers) == 0 {
		return fmt.Errorf("routing config: no providers declared")
	}
	if _, ok := c.ProviderSpecFor(c.PrimaryProvider); !ok {
		return fmt.Errorf("routing config: primary provider %q not in catalog", c.PrimaryProvider)
	}
	if _, ok := c.ProviderSpecFor(c.LowCostProvider); !ok {
		return fmt.Errorf("routing config: low-cost provider %q not in catalog", c.LowCostProvider)
	}
	for _, rule := range c.Categories {
		if rule.Type == schema.TaskUnknown {
			return fmt.Errorf("routing config: %q must not declare triggers", schema.TaskUnknown)
		}
		if len(rule.Triggers) == 0 {
			return fmt.Errorf("routing config: category %q has no triggers", rule.Type)
		}
	}
	foundUnknown := false
	for _, route := range c.Defaults {
		if _, ok := c.ProviderSpecFor(route.Provider); !ok {
			return fmt.Errorf("routing config: default for %q uses unknown provider %q", route.Type, route.Provider)
		}
		if route.Reason == "" {
			return fmt.Errorf("routing config: default for %q has an empty reason", route.Type)
		}
		if route.Type == schema.TaskUnknown {
			foundUnknown = true
		}
	}
	if !foundUnknown {
		return fmt.Errorf("routing config: defaults must include an entry for %q", schema.TaskUnknown)
	}
	return nil
}

// ProviderSpecFor looks up a provider in the catalog.
func (c *RoutingConfig) ProviderSpecFor(p schema.Provider) (ProviderSpec, bool) {
	for _, spec := range c.Providers {
		if spec.Name == p {
			return spec, true
		}
	}
	return ProviderSpec{}, false
}

// Tiers returns the model tiers for a provider, or zero tiers if unknown.
func (c *RoutingConfig) Tiers(p schema.Provider) ModelTiers {
	spec, _ := c.ProviderSpecFor(p)
	return spec.Models
}

// PricingFor returns the price pair for a provider.
func (c *RoutingConfig) PricingFor(p schema.Provider) (ProviderPricing, bool) {
	spec, ok := c.ProviderSpecFor(p)
	return spec.Pricing, ok
}

// DefaultFor returns the default route for a task type, falling back to the
// unknown entry when the type has no row of its own.
func (c *RoutingConfig) DefaultFor(t schema.TaskType) DefaultRoute {
	var unknown DefaultRoute
	for _, route := range c.Defaults {
		if route.Type == t {
			return route
		}
		if route.Type == schema.TaskUnknown {
			unknown = route
		}
	}
	return unknown
}

// KnownProviders returns the catalog providers in declaration order.
func (c *RoutingConfig) KnownProviders() []schema.Provider {
	providers := make([]schema.Provider, 0, len(c.Providers))
	for _, spec := range c.Providers {
		providers = append(providers, spec.Name)
	}
	return providers
}

// NormalizeProviders filters the catalog order down to the given set,
// dropping duplicates and unknown names. The result is order-insensitive in
// the input, which keeps downstream "first available" picks deterministic.
func (c *RoutingConfig) NormalizeProviders(available []schema.Provider) []schema.Provider {
	if available == nil {
		return nil
	}
	member := make(map[schema.Provider]bool, len(available))
	for _, p := range available {
		member[p] = true
	}
	normalized := make([]schema.Provider, 0, len(available))
	for _, spec := range c.Providers {
		if member[spec.Name] {
			normalized = append(normalized, spec.Name)
		}
	}
	return normalized
}
