package routing

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spec-kit/complaint-service/internal/domain"
)

func TestRoute(t *testing.T) {
	r := NewRouter(DefaultRules())

	tests := []struct {
		name   string
		issue  string
		photos []string
		want   Decision
	}{
		{"defect with photo", "the paint is too thick", []string{"media-1"}, DecisionRefund},
		{"defect without photo", "the paint is too thick", nil, DecisionManualReview},
		{"arabic defect with photo", "الدهان سميك جدا", []string{"media-1"}, DecisionRefund},
		{"wrong item", "you sent the wrong color", nil, DecisionReplacement},
		{"arabic wrong item", "المنتج غلط", nil, DecisionReplacement},
		{"separated paint", "paint separated in the can", []string{"m"}, DecisionRefund},
		{"expired product", "the product is expired", []string{"m"}, DecisionRefund},
		{"unclassified", "it smells strange", nil, DecisionManualReview},
		// Defect keywords outrank wrong-item keywords when both appear.
		{"defect and wrong item", "wrong item and also broken", nil, DecisionManualReview},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.Route(domain.Draft{Issue: tt.issue, Photos: tt.photos})
			if got != tt.want {
				t.Errorf("Route(%q, photos=%d) = %v, want %v", tt.issue, len(tt.photos), got, tt.want)
			}
		})
	}
}

func TestDecisionInitialStatus(t *testing.T) {
	if got := DecisionRefund.InitialStatus(); got != domain.TicketStatusDecided {
		t.Errorf("refund status = %v", got)
	}
	if got := DecisionReplacement.InitialStatus(); got != domain.TicketStatusDecided {
		t.Errorf("replacement status = %v", got)
	}
	if got := DecisionManualReview.InitialStatus(); got != domain.TicketStatusUnderReview {
		t.Errorf("manual review status = %v", got)
	}
}

func TestDecisionCompensation(t *testing.T) {
	if c := DecisionRefund.Compensation(); c == nil || *c != domain.CompensationRefund {
		t.Errorf("refund compensation = %v", c)
	}
	if c := DecisionReplacement.Compensation(); c == nil || *c != domain.CompensationReplacement {
		t.Errorf("replacement compensation = %v", c)
	}
	if c := DecisionManualReview.Compensation(); c != nil {
		t.Errorf("manual review compensation = %v, want nil", *c)
	}
}

func TestCategorizeIssue(t *testing.T) {
	r := NewRouter(DefaultRules())

	tests := []struct {
		issue string
		want  string
	}{
		{"paint is too thick", "quality"},
		{"you sent the wrong color", "wrong_product"},
		{"parts are missing from the box", "missing_parts"},
		{"the pump doesn't work", "not_working"},
		{"can was leaking in the package", "packaging"},
		{"no idea what happened", "other"},
	}
	for _, tt := range tests {
		if got := r.CategorizeIssue(tt.issue); got != tt.want {
			t.Errorf("CategorizeIssue(%q) = %q, want %q", tt.issue, got, tt.want)
		}
	}
}

func TestLoadRulesOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.yaml")
	content := []byte("defect_keywords:\n  - leaky\nwrong_item_keywords:\n  - mismatch\n")
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatal(err)
	}

	rules, err := LoadRules(path)
	if err != nil {
		t.Fatalf("LoadRules: %v", err)
	}
	if len(rules.DefectKeywords) != 1 || rules.DefectKeywords[0] != "leaky" {
		t.Errorf("defect keywords = %v", rules.DefectKeywords)
	}
	// Sections absent from the file keep their defaults.
	if len(rules.IssueCategories) == 0 {
		t.Error("issue categories lost their defaults")
	}
}

func TestLoadRulesEmptyPathUsesDefaults(t *testing.T) {
	rules, err := LoadRules("")
	if err != nil {
		t.Fatalf("LoadRules(\"\"): %v", err)
	}
	if len(rules.DefectKeywords) == 0 {
		t.Error("defaults missing")
	}
}
