package router

import (
	"testing"

	"github.com/zen-systems/swarmgate/pkg/config"
	"github.com/zen-systems/swarmgate/pkg/schema"
)

func TestClassifier_Classify(t *testing.T) {
	c := NewClassifier(config.DefaultRoutingConfig())

	tests := []struct {
		name        string
		title       string
		description string
		expected    schema.TaskType
	}{
		{
			name:     "bugfix cluster",
			title:    "Fix login bug causing crash",
			expected: schema.TaskBugfix,
		},
		{
			name:     "implementation trigger",
			title:    "Implement rate limiting for the public endpoints",
			expected: schema.TaskImplementation,
		},
		{
			name:     "refactor wins tie with design by declaration order",
			title:    "Refactor entire distributed microservice architecture",
			expected: schema.TaskRefactor,
		},
		{
			name:     "test trigger",
			title:    "Add unit test coverage for the parser",
			expected: schema.TaskTest,
		},
		{
			name:     "documentation trigger",
			title:    "Update the readme with install steps",
			expected: schema.TaskDocumentation,
		},
		{
			name:     "research trigger",
			title:    "Investigate flaky CI runs",
			expected: schema.TaskResearch,
		},
		{
			name:     "spanish bugfix synonym",
			title:    "Corregir el fallo de inicio",
			expected: schema.TaskBugfix,
		},
		{
			name:     "spanish research synonym",
			title:    "Investigar opciones de almacenamiento",
			expected: schema.TaskResearch,
		},
		{
			name:        "description contributes to the score",
			title:       "Login page",
			description: "Users report a crash when the session expires",
			expected:    schema.TaskBugfix,
		},
		{
			name:        "title bonus outweighs description-only match",
			title:       "Review the session module",
			description: "we can fix the naming later",
			expected:    schema.TaskReview,
		},
		{
			name:     "no trigger matches",
			title:    "Hello there",
			expected: schema.TaskUnknown,
		},
		{
			name:     "empty title",
			title:    "",
			expected: schema.TaskUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Classify(tt.title, tt.description)
			if got != tt.expected {
				t.Errorf("Classify(%q, %q) = %v, want %v", tt.title, tt.description, got, tt.expected)
			}
		})
	}
}

func TestClassifier_Deterministic(t *testing.T) {
	c := NewClassifier(config.DefaultRoutingConfig())

	title := "Refactor the audit module and fix the crash in the config loader"
	description := "several triggers compete here"

	first := c.Classify(title, description)
	for i := 0; i < 10; i++ {
		if got := c.Classify(title, description); got != first {
			t.Fatalf("Classify is not deterministic: got %v then %v", first, got)
		}
	}
}

func TestClassifier_TieBreakByDeclarationOrder(t *testing.T) {
	cfg := config.DefaultRoutingConfig()
	cfg.Categories = []config.CategoryRule{
		{Type: schema.TaskReview, Triggers: []string{"ship"}},
		{Type: schema.TaskDesign, Triggers: []string{"ship"}},
	}
	c := NewClassifier(cfg)

	if got := c.Classify("Ship the release", ""); got != schema.TaskReview {
		t.Errorf("expected first-declared category to win the tie, got %v", got)
	}
}

func TestContainsTrigger(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		trigger  string
		expected bool
	}{
		{name: "match at start", text: "review this change", trigger: "review", expected: true},
		{name: "match in middle", text: "please review this", trigger: "review", expected: true},
		{name: "match at end", text: "needs a review", trigger: "review", expected: true},
		{name: "prefix of longer word", text: "reviewing the change", trigger: "review", expected: false},
		{name: "suffix of longer word", text: "prereview notes", trigger: "review", expected: false},
		{name: "multi-word phrase", text: "please add feature flags", trigger: "add feature", expected: true},
		{name: "punctuation boundary", text: "fix, then ship", trigger: "fix", expected: true},
		{name: "slash in trigger", text: "wire up ci/cd for the repo", trigger: "ci/cd", expected: true},
		{name: "no match", text: "hello world", trigger: "review", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := containsTrigger(tt.text, tt.trigger); got != tt.expected {
				t.Errorf("containsTrigger(%q, %q) = %v, want %v", tt.text, tt.trigger, got, tt.expected)
			}
		})
	}
}
