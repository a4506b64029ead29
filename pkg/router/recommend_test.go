package router

import (
	"reflect"
	"strings"
	"testing"

	"github.com/zen-systems/swarmgate/pkg/config"
	"github.com/zen-systems/swarmgate/pkg/schema"
)

func TestEngine_BaseRecommendation(t *testing.T) {
	e := NewEngine(config.DefaultRoutingConfig())

	tests := []struct {
		name             string
		taskType         schema.TaskType
		available        []schema.Provider
		expectedProvider schema.Provider
		expectedModel    string
		expectSubNote    bool
	}{
		{
			name:             "default entry without availability constraint",
			taskType:         schema.TaskBugfix,
			available:        nil,
			expectedProvider: schema.ProviderAnthropic,
			expectedModel:    "claude-sonnet-4-20250514",
		},
		{
			name:             "default provider available",
			taskType:         schema.TaskRefactor,
			available:        []schema.Provider{schema.ProviderOpenAI, schema.ProviderGoogle},
			expectedProvider: schema.ProviderOpenAI,
			expectedModel:    "gpt-5.2-codex",
		},
		{
			name:             "substitution prefers the primary",
			taskType:         schema.TaskRefactor,
			available:        []schema.Provider{schema.ProviderGoogle, schema.ProviderAnthropic},
			expectedProvider: schema.ProviderAnthropic,
			expectedModel:    "claude-sonnet-4-20250514",
			expectSubNote:    true,
		},
		{
			name:             "substitution falls back to the first available",
			taskType:         schema.TaskRefactor,
			available:        []schema.Provider{schema.ProviderDeepSeek, schema.ProviderGoogle},
			expectedProvider: schema.ProviderGoogle,
			expectedModel:    "gemini-2.0-flash",
			expectSubNote:    true,
		},
		{
			name:             "empty list bypasses substitution",
			taskType:         schema.TaskRefactor,
			available:        []schema.Provider{},
			expectedProvider: schema.ProviderOpenAI,
			expectedModel:    "gpt-5.2-codex",
		},
		{
			name:             "unlisted type falls back to the unknown entry",
			taskType:         schema.TaskType("mystery"),
			available:        nil,
			expectedProvider: schema.ProviderAnthropic,
			expectedModel:    "claude-sonnet-4-20250514",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := e.BaseRecommendation(tt.taskType, tt.available)
			if rec.Provider != tt.expectedProvider {
				t.Errorf("Provider = %v, want %v", rec.Provider, tt.expectedProvider)
			}
			if rec.Model != tt.expectedModel {
				t.Errorf("Model = %q, want %q", rec.Model, tt.expectedModel)
			}
			if rec.Reason == "" {
				t.Errorf("Reason must not be empty")
			}
			if tt.expectSubNote && !strings.Contains(rec.Reason, "substituted") {
				t.Errorf("Reason %q should note the substitution", rec.Reason)
			}
			if len(tt.available) > 0 && !containsProvider(tt.available, rec.Provider) {
				t.Errorf("Provider %v is outside the available set %v", rec.Provider, tt.available)
			}
		})
	}
}

func TestEngine_AdjustForComplexity(t *testing.T) {
	e := NewEngine(config.DefaultRoutingConfig())
	base := e.BaseRecommendation(schema.TaskBugfix, nil)

	t.Run("sub-tasks force a swarm", func(t *testing.T) {
		adjusted := e.AdjustForComplexity(base, "Fix the importer", 5)
		if adjusted.Mode != schema.ModeSwarm {
			t.Fatalf("Mode = %v, want swarm", adjusted.Mode)
		}
		if adjusted.Strategy != schema.SwarmDevelopment {
			t.Errorf("Strategy = %v, want development", adjusted.Strategy)
		}
		if adjusted.MaxAgents != 5 {
			t.Errorf("MaxAgents = %d, want 5", adjusted.MaxAgents)
		}
	})

	t.Run("agent count caps at eight", func(t *testing.T) {
		adjusted := e.AdjustForComplexity(base, "Fix the importer", 12)
		if adjusted.MaxAgents != 8 {
			t.Errorf("MaxAgents = %d, want 8", adjusted.MaxAgents)
		}
	})

	t.Run("few sub-tasks leave the mode alone", func(t *testing.T) {
		adjusted := e.AdjustForComplexity(base, "Fix the importer", 3)
		if adjusted.Mode != schema.ModeSingle {
			t.Errorf("Mode = %v, want single", adjusted.Mode)
		}
	})

	t.Run("title keyword upgrades the primary model", func(t *testing.T) {
		adjusted := e.AdjustForComplexity(base, "Optimize the cache layer", 0)
		if adjusted.Model != "claude-opus-4-20250514" {
			t.Errorf("Model = %q, want the top tier", adjusted.Model)
		}
	})

	t.Run("non-primary provider is not upgraded", func(t *testing.T) {
		rec := e.BaseRecommendation(schema.TaskRefactor, nil)
		adjusted := e.AdjustForComplexity(rec, "Optimize the cache layer", 0)
		if adjusted.Model != rec.Model {
			t.Errorf("Model changed to %q for a non-primary provider", adjusted.Model)
		}
	})

	t.Run("input value is not mutated", func(t *testing.T) {
		before := base
		_ = e.AdjustForComplexity(base, "Optimize everything", 6)
		if !reflect.DeepEqual(before, base) {
			t.Errorf("AdjustForComplexity mutated its input")
		}
	})
}

func TestEngine_EnhancedRecommendation(t *testing.T) {
	e := NewEngine(config.DefaultRoutingConfig())

	t.Run("very complex forces a top-model swarm", func(t *testing.T) {
		enhanced := e.EnhancedRecommendation(
			"Refactor entire complex distributed microservice architecture with database migration and authentication",
			"", Options{SubTaskCount: 6})

		if enhanced.TaskType != schema.TaskRefactor {
			t.Fatalf("TaskType = %v, want refactor", enhanced.TaskType)
		}
		if enhanced.Complexity.Level != schema.LevelVeryComplex {
			t.Fatalf("Level = %v, want very-complex (score %.2f)", enhanced.Complexity.Level, enhanced.Complexity.Score)
		}
		if enhanced.Mode != schema.ModeSwarm {
			t.Errorf("Mode = %v, want swarm", enhanced.Mode)
		}
		if enhanced.Model != "gpt-5.2-pro" {
			t.Errorf("Model = %q, want the provider's top tier", enhanced.Model)
		}
		if enhanced.MaxAgents != enhanced.Complexity.Recommendation.SuggestedAgents {
			t.Errorf("MaxAgents = %d, want the complexity-derived %d",
				enhanced.MaxAgents, enhanced.Complexity.Recommendation.SuggestedAgents)
		}
	})

	t.Run("simple task downgrades to the low-cost provider", func(t *testing.T) {
		enhanced := e.EnhancedRecommendation("Update readme", "", Options{})
		if enhanced.Complexity.Level != schema.LevelSimple {
			t.Fatalf("Level = %v, want simple", enhanced.Complexity.Level)
		}
		if enhanced.Provider != schema.ProviderDeepSeek {
			t.Errorf("Provider = %v, want the low-cost provider", enhanced.Provider)
		}
		if enhanced.Model != "deepseek-coder" {
			t.Errorf("Model = %q, want the low-cost low tier", enhanced.Model)
		}
		if enhanced.Mode != schema.ModeSingle {
			t.Errorf("Mode = %v, want single", enhanced.Mode)
		}
	})

	t.Run("quality preference keeps the default model on simple tasks", func(t *testing.T) {
		enhanced := e.EnhancedRecommendation("Update readme", "", Options{PreferQuality: true})
		if enhanced.Provider != schema.ProviderGoogle {
			t.Errorf("Provider = %v, want the documentation default", enhanced.Provider)
		}
		if enhanced.Model != "gemini-2.0-flash" {
			t.Errorf("Model = %q, want the documentation default", enhanced.Model)
		}
	})

	t.Run("cost estimate and cheaper alternatives are attached", func(t *testing.T) {
		enhanced := e.EnhancedRecommendation(
			"Fix crash in authentication and database layer when the api gateway restarts under concurrent load",
			"", Options{})

		if enhanced.EstimatedCost == nil || enhanced.EstimatedCost.EstimatedCost <= 0 {
			t.Fatalf("expected a positive cost estimate, got %+v", enhanced.EstimatedCost)
		}
		if len(enhanced.Alternatives) == 0 {
			t.Fatalf("expected cheaper alternatives")
		}
		foundDeepSeek := false
		for _, alt := range enhanced.Alternatives {
			if alt.EstimatedCost > enhanced.EstimatedCost.EstimatedCost*0.5 {
				t.Errorf("alternative %v is not materially cheaper", alt.Provider)
			}
			if alt.Provider == schema.ProviderDeepSeek {
				foundDeepSeek = true
			}
		}
		if !foundDeepSeek {
			t.Errorf("expected deepseek among the alternatives, got %v", enhanced.Alternatives)
		}
	})

	t.Run("swarm fields are cleared in single mode", func(t *testing.T) {
		enhanced := e.EnhancedRecommendation("Update readme", "", Options{})
		if enhanced.Strategy != "" || enhanced.MaxAgents != 0 {
			t.Errorf("single-mode recommendation carries swarm fields: %+v", enhanced.TaskRecommendation)
		}
	})
}

func TestEngine_EnhancedRecommendationIdempotent(t *testing.T) {
	e := NewEngine(config.DefaultRoutingConfig())

	title := "Refactor the billing pipeline for concurrent processing"
	description := "split the importer, verify totals, and compare backends"

	orderings := [][]schema.Provider{
		{schema.ProviderAnthropic, schema.ProviderGoogle, schema.ProviderDeepSeek},
		{schema.ProviderDeepSeek, schema.ProviderAnthropic, schema.ProviderGoogle},
		{schema.ProviderGoogle, schema.ProviderDeepSeek, schema.ProviderAnthropic},
	}

	first := e.EnhancedRecommendation(title, description, Options{
		AvailableProviders: orderings[0],
		SubTaskCount:       2,
	})

	for _, order := range orderings {
		again := e.EnhancedRecommendation(title, description, Options{
			AvailableProviders: order,
			SubTaskCount:       2,
		})
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("output differs for equivalent provider set %v:\n%+v\nvs\n%+v", order, first, again)
		}
	}
}
