package router

import (
	"strings"

	"github.com/zen-systems/swarmgate/pkg/config"
	"github.com/zen-systems/swarmgate/pkg/schema"
)

// Classifier assigns a task type from keyword triggers.
type Classifier struct {
	cfg *config.RoutingConfig
}

// NewClassifier creates a classifier over the given trigger tables.
func NewClassifier(cfg *config.RoutingConfig) *Classifier {
	return &Classifier{cfg: cfg}
}

// Classify scores every category's triggers against the combined title and
// description and returns the highest-scoring task type. Each distinct
// trigger found anywhere scores 1, plus a 0.5 bonus when it also appears in
// the title. Exact ties go to the first-declared category; a zero score
// means unknown.
func (c *Classifier) Classify(title, description string) schema.TaskType {
	titleLower := strings.ToLower(title)
	combined := titleLower + " " + strings.ToLower(description)

	best := schema.TaskUnknown
	bestScore := 0.0

	for _, rule := range c.cfg.Categories {
		score := 0.0
		for _, trig := range rule.Triggers {
			trigger := strings.ToLower(trig)
			if !containsTrigger(combined, trigger) {
				continue
			}
			score++
			if containsTrigger(titleLower, trigger) {
				score += 0.5
			}
		}
		if score > bestScore {
			bestScore = score
			best = rule.Type
		}
	}

	return best
}

// containsTrigger checks if the text contains the trigger phrase on word
// boundaries. Both arguments must already be lowercase.
func containsTrigger(text, trigger string) bool {
	idx := strings.Index(text, trigger)
	if idx == -1 {
		return false
	}

	if idx > 0 && isWordChar(text[idx-1]) {
		return false
	}

	endIdx := idx + len(trigger)
	if endIdx < len(text) && isWordChar(text[endIdx]) {
		return false
	}

	return true
}

func isWordChar(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '_'
}
