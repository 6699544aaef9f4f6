package ingest

import (
	"reflect"
	"testing"
)

func TestExtractEntitiesDates(t *testing.T) {
	text := "Kickoff on March 15, 2025. Code freeze 03/20/2025, release 2025-04-01, review in Q2 2025, report by end of week, QA signoff by end of sprint, status EOD."
	e := ExtractEntities(text)
	want := []string{"March 15, 2025", "03/20/2025", "2025-04-01", "Q2 2025", "by end of week", "by end of sprint", "EOD"}
	if !reflect.DeepEqual(e.Dates, want) {
		t.Errorf("Dates = %v, want %v", e.Dates, want)
	}
}

func TestExtractEntitiesDedupFirstSeen(t *testing.T) {
	text := "Deadline 2025-04-01 confirmed. Again: 2025-04-01. Contact sarah@corp.com or sarah@corp.com."
	e := ExtractEntities(text)
	if len(e.Dates) != 1 || e.Dates[0] != "2025-04-01" {
		t.Errorf("Dates = %v, want single 2025-04-01", e.Dates)
	}
	if len(e.Emails) != 1 || e.Emails[0] != "sarah@corp.com" {
		t.Errorf("Emails = %v, want single sarah@corp.com", e.Emails)
	}
}

func TestExtractEntitiesPeople(t *testing.T) {
	text := "Present were Sarah Chen (VP Product) and Mike (Engineering Lead)."
	e := ExtractEntities(text)
	if len(e.People) != 2 {
		t.Fatalf("People = %v, want 2 entries", e.People)
	}
	if e.People[0].Name != "Sarah Chen" || e.People[0].Role != "VP Product" {
		t.Errorf("People[0] = %+v", e.People[0])
	}
	if e.People[1].Name != "Mike" || e.People[1].Role != "Engineering Lead" {
		t.Errorf("People[1] = %+v", e.People[1])
	}
}

func TestExtractEntitiesActionItems(t *testing.T) {
	text := `Notes:
- Mike: finalize the schema migration
Action item: schedule the security review`
	e := ExtractEntities(text)
	if len(e.ActionItems) != 2 {
		t.Fatalf("ActionItems = %v, want 2 entries", e.ActionItems)
	}
	if e.ActionItems[0] != "Mike - finalize the schema migration" {
		t.Errorf("ActionItems[0] = %q", e.ActionItems[0])
	}
	if e.ActionItems[1] != "schedule the security review" {
		t.Errorf("ActionItems[1] = %q", e.ActionItems[1])
	}
}

func TestExtractEntitiesRequirements(t *testing.T) {
	text := "Intro text. The system must support single sign-on. Nothing else here."
	e := ExtractEntities(text)
	if len(e.Requirements) != 1 {
		t.Fatalf("Requirements = %v, want 1 entry", e.Requirements)
	}
	if e.Requirements[0] != "The system must support single sign-on." {
		t.Errorf("Requirements[0] = %q", e.Requirements[0])
	}
}
