package ingest

import (
	"testing"

	"github.com/iWorld-y/brd_agent/app/brd_agent/pkg/model"
	"github.com/iWorld-y/brd_agent/app/brd_agent/pkg/noise"
)

func TestNewDocumentEmailWithScorer(t *testing.T) {
	text := "From: a@x.com\nTo: b@x.com\nSubject: Plan\n\nThe requirement must be approved before the deadline milestone."
	doc := NewDocument(text, "inbox.eml", noise.NewScorer(0))
	if doc.Type != model.ChannelEmail {
		t.Errorf("Type = %v, want email", doc.Type)
	}
	if doc.ID == "" {
		t.Error("ID not assigned")
	}
	if doc.Sender != "a@x.com" {
		t.Errorf("Sender = %q", doc.Sender)
	}
	if doc.NoiseScore < 0 || doc.NoiseScore > 1 {
		t.Errorf("NoiseScore = %.2f, out of range", doc.NoiseScore)
	}
	if doc.IsNoise {
		t.Error("business email flagged as noise")
	}
}

func TestNewDocumentFlagsChatter(t *testing.T) {
	doc := NewDocument("Team lunch and happy hour on friday, bring weekend plans and birthday cake!", "note.txt", noise.NewScorer(0))
	if !doc.IsNoise {
		t.Errorf("IsNoise = false for social chatter, score %.2f", doc.NoiseScore)
	}
}
