package routing

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/spec-kit/complaint-service/internal/domain"
)

// Decision is the routing outcome for a completed complaint.
type Decision string

const (
	DecisionRefund       Decision = "REFUND"
	DecisionReplacement  Decision = "REPLACEMENT"
	DecisionManualReview Decision = "MANUAL_REVIEW"
)

// Rules holds the keyword categories driving routing and issue
// categorization. They are data so deployments can tune them without a
// rebuild.
type Rules struct {
	DefectKeywords    []string            `yaml:"defect_keywords"`
	WrongItemKeywords []string            `yaml:"wrong_item_keywords"`
	IssueCategories   map[string][]string `yaml:"issue_categories"`
}

// DefaultRules returns the built-in bilingual keyword sets.
func DefaultRules() Rules {
	return Rules{
		DefectKeywords: []string{
			"thick", "separated", "expired", "defect", "broken", "damaged",
			"سميك", "منفصل", "منتهي", "معيب", "مكسور", "تالف",
		},
		WrongItemKeywords: []string{
			"wrong", "different", "not what",
			"غلط", "مختلف", "مش اللي طلبته",
		},
		IssueCategories: map[string][]string{
			"quality":       {"quality", "defect", "broken", "damaged", "thick", "separated", "جودة", "معيب", "مكسور", "سميك"},
			"wrong_product": {"wrong", "different", "not what", "غلط", "مختلف"},
			"missing_parts": {"missing", "incomplete", "ناقص", "مش كامل"},
			"not_working":   {"not working", "doesnt work", "doesn't work", "مش شغال", "مش بيشتغل"},
			"expired":       {"expired", "old", "منتهي", "قديم"},
			"packaging":     {"packaging", "box", "leaking", "تغليف", "علبة"},
		},
	}
}

// LoadRules reads rules from a YAML file, falling back to defaults for
// any section left empty. An empty path means built-in rules only.
func LoadRules(path string) (Rules, error) {
	rules := DefaultRules()
	if path == "" {
		return rules, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return rules, fmt.Errorf("read routing rules: %w", err)
	}
	var loaded Rules
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return rules, fmt.Errorf("parse routing rules: %w", err)
	}
	if len(loaded.DefectKeywords) > 0 {
		rules.DefectKeywords = loaded.DefectKeywords
	}
	if len(loaded.WrongItemKeywords) > 0 {
		rules.WrongItemKeywords = loaded.WrongItemKeywords
	}
	if len(loaded.IssueCategories) > 0 {
		rules.IssueCategories = loaded.IssueCategories
	}
	return rules, nil
}

// Router decides refund, replacement or manual review for a completed
// complaint draft. The rule table is evaluated top-down, first match wins,
// and it never fails: unmatched input falls through to manual review.
type Router struct {
	rules Rules
}

// NewRouter builds a Router over the given rules.
func NewRouter(rules Rules) *Router {
	return &Router{rules: rules}
}

// Route applies the rule table to the draft.
func (r *Router) Route(draft domain.Draft) Decision {
	issue := strings.ToLower(draft.Issue)
	hasPhoto := len(draft.Photos) > 0

	switch {
	case containsAny(issue, r.rules.DefectKeywords) && hasPhoto:
		return DecisionRefund
	case containsAny(issue, r.rules.DefectKeywords):
		// Defect claimed but no photo evidence.
		return DecisionManualReview
	case containsAny(issue, r.rules.WrongItemKeywords):
		return DecisionReplacement
	default:
		return DecisionManualReview
	}
}

// InitialStatus maps a routing decision to the ticket status it starts in.
// Auto-approved decisions skip manual review entirely.
func (d Decision) InitialStatus() domain.TicketStatus {
	if d == DecisionManualReview {
		return domain.TicketStatusUnderReview
	}
	return domain.TicketStatusDecided
}

// Compensation returns the compensation type for auto-approved decisions,
// or nil for manual review.
func (d Decision) Compensation() *domain.CompensationType {
	switch d {
	case DecisionRefund:
		c := domain.CompensationRefund
		return &c
	case DecisionReplacement:
		c := domain.CompensationReplacement
		return &c
	default:
		return nil
	}
}

// CategorizeIssue labels the issue text with the first matching category,
// or "other".
func (r *Router) CategorizeIssue(issue string) string {
	lowered := strings.ToLower(issue)
	// Stable iteration so the same text always gets the same label.
	for _, category := range []string{"quality", "wrong_product", "missing_parts", "not_working", "expired", "packaging"} {
		if containsAny(lowered, r.rules.IssueCategories[category]) {
			return category
		}
	}
	for category, keywords := range r.rules.IssueCategories {
		if containsAny(lowered, keywords) {
			return category
		}
	}
	return "other"
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if kw != "" && strings.Contains(text, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}
