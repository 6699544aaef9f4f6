package noise

import (
	"strings"
	"testing"
)

func TestKeywordScoreNoiseHeavy(t *testing.T) {
	s := NewScorer(0)
	text := "Join us for the team lunch and happy hour! Birthday cake in the kitchen, bring your weekend plans."
	score := s.KeywordScore(text)
	if score <= DefaultNoiseThreshold {
		t.Errorf("KeywordScore() = %.2f, want > %.2f", score, DefaultNoiseThreshold)
	}
	if !s.IsNoise(text) {
		t.Error("IsNoise() = false, want true for social chatter")
	}
}

func TestKeywordScoreRelevanceHeavy(t *testing.T) {
	s := NewScorer(0)
	text := "The requirement states the api must meet the security and performance acceptance criteria before the deadline."
	score := s.KeywordScore(text)
	if score >= 0.5 {
		t.Errorf("KeywordScore() = %.2f, want < 0.5", score)
	}
	if s.IsNoise(text) {
		t.Error("IsNoise() = true, want false for business content")
	}
}

func TestKeywordScoreNeutral(t *testing.T) {
	s := NewScorer(0)
	if got := s.KeywordScore("hello there everyone"); got != 0.5 {
		t.Errorf("KeywordScore() = %.2f, want 0.5 with no keyword hits", got)
	}
}

func TestFilterRelevantKeepsBusinessSentences(t *testing.T) {
	s := NewScorer(0)
	text := "The system must support a requirement for api security and compliance. My cat did something funny yesterday afternoon. The deadline milestone for the sprint deliverable is next phase."
	filtered, relevance := s.FilterRelevant(text)
	if filtered == "" {
		t.Fatal("FilterRelevant() returned empty text")
	}
	if relevance < 0 || relevance > 1 {
		t.Errorf("relevance = %.2f, want within [0, 1]", relevance)
	}
	if !strings.Contains(filtered, "requirement") {
		t.Errorf("filtered text dropped the requirement sentence: %q", filtered)
	}
}

func TestFilterRelevantFallbackKeepsAtLeastOne(t *testing.T) {
	s := NewScorer(0)
	// 无任何业务词，靠 top-half 兜底
	text := "We went hiking on saturday morning. The trail was muddy after the rain."
	filtered, _ := s.FilterRelevant(text)
	if filtered == "" {
		t.Error("FilterRelevant() kept no sentences, want at least one")
	}
}

func TestFilterRelevantEmptyInput(t *testing.T) {
	s := NewScorer(0)
	filtered, _ := s.FilterRelevant("   \n  ")
	if filtered != "" {
		t.Errorf("FilterRelevant() = %q, want empty", filtered)
	}
}

func TestSplitSentencesDropsShortFragments(t *testing.T) {
	got := SplitSentences("Yes. The budget was approved for the next sprint cycle! Ok.")
	if len(got) != 1 {
		t.Fatalf("SplitSentences() = %v, want exactly the long sentence", got)
	}
	if !strings.HasPrefix(got[0], "The budget") {
		t.Errorf("kept sentence = %q", got[0])
	}
}

func TestCleanText(t *testing.T) {
	text := "The launch is approved.\n> old quoted reply\n| another quoted style\nThis email and any attachments are confidential.\n--\nSarah Chen\nVP Product"
	got := CleanText(text)
	if strings.Contains(got, "Sarah Chen") {
		t.Errorf("CleanText() kept signature: %q", got)
	}
	if strings.Contains(got, "quoted reply") || strings.Contains(got, "quoted style") {
		t.Errorf("CleanText() kept quoted line: %q", got)
	}
	if strings.Contains(got, "confidential") {
		t.Errorf("CleanText() kept disclaimer: %q", got)
	}
	if !strings.Contains(got, "The launch is approved.") {
		t.Errorf("CleanText() dropped body: %q", got)
	}
}
