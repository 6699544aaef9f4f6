package conflict

import (
	"testing"

	"github.com/iWorld-y/brd_agent/app/brd_agent/pkg/model"
)

func TestDetectSentimentConflict(t *testing.T) {
	items := []string{
		"This proposal is excellent, a great and wonderful improvement for everyone.",
		"This plan is terrible, an awful and horrible mistake that will hurt us.",
	}
	conflicts := Detect(items)
	if len(conflicts) == 0 {
		t.Fatal("Detect() found no conflicts between strongly opposed items")
	}
	found := false
	for _, c := range conflicts {
		if c.Type == "sentiment" {
			found = true
			if c.Severity != model.SeverityHigh {
				t.Errorf("Severity = %q, want high for polarity diff %.2f", c.Severity, c.PolarityDiff)
			}
		}
	}
	if !found {
		t.Error("no sentiment conflict reported")
	}
}

func TestDetectExplicitDisagreement(t *testing.T) {
	items := []string{
		"I strongly disagree with the migration approach.",
		"The migration window is scheduled for Saturday.",
	}
	explicit := 0
	for _, c := range Detect(items) {
		if c.Type == "explicit" {
			explicit++
			if c.Severity != model.SeverityMedium {
				t.Errorf("Severity = %q, want medium", c.Severity)
			}
		}
	}
	if explicit != 1 {
		t.Errorf("explicit conflicts = %d, want 1", explicit)
	}
}

func TestDetectExplicitBreaksAfterFirstKeyword(t *testing.T) {
	// 同一条目包含多个分歧关键词，只记一次
	items := []string{
		"However, I disagree and this is inconsistent with the earlier decision.",
		"The rollout schedule stays as planned.",
	}
	count := 0
	for _, c := range Detect(items) {
		if c.Type == "explicit" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("explicit conflicts = %d, want 1", count)
	}
}

func TestDetectSingleItemReturnsNothing(t *testing.T) {
	if got := Detect([]string{"I disagree with everything here."}); len(got) != 0 {
		t.Errorf("Detect() = %v, want none for a single item", got)
	}
}

func TestDetectNeutralItems(t *testing.T) {
	items := []string{
		"The meeting is at noon.",
		"The report covers three regions.",
	}
	if got := Detect(items); len(got) != 0 {
		t.Errorf("Detect() = %v, want none for neutral items", got)
	}
}

func TestPolarityRange(t *testing.T) {
	for _, text := range []string{"great wonderful excellent", "horrible terrible awful", "the table is brown"} {
		p := Polarity(text)
		if p < -1 || p > 1 {
			t.Errorf("Polarity(%q) = %.2f, out of range", text, p)
		}
	}
}
