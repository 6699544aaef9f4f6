package synthesis

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/iWorld-y/brd_agent/app/brd_agent/pkg/logger"
	"github.com/iWorld-y/brd_agent/app/brd_agent/pkg/model"
	"github.com/iWorld-y/brd_agent/app/brd_agent/pkg/noise"
)

func TestMain(m *testing.M) {
	_ = logger.InitLogger("error", "")
	os.Exit(m.Run())
}

// stubExtractor 按文本内容返回预设结果
type stubExtractor struct {
	byContent map[string]*model.BRD
}

func (s *stubExtractor) Extract(ctx context.Context, text string, channel model.ChannelType) (*model.BRD, error) {
	for key, brd := range s.byContent {
		if strings.Contains(text, key) {
			return brd, nil
		}
	}
	return &model.BRD{}, nil
}

func emailDoc(subject, content, sender string, recipients ...string) model.Document {
	return model.Document{
		ID: subject, Type: model.ChannelEmail,
		Subject: subject, Content: content,
		Sender: sender, Recipients: recipients,
	}
}

func meetingDoc(id, content string) model.Document {
	return model.Document{ID: id, Type: model.ChannelMeeting, Content: content}
}

func TestSynthesizeAssignsRequirementIDs(t *testing.T) {
	ext := &stubExtractor{byContent: map[string]*model.BRD{
		"oauth": {
			ProjectTopic: "Auth Revamp",
			Requirements: []model.Requirement{{Text: "Support OAuth2 login"}, {Text: "Sessions expire after 24h"}},
		},
		"sprint review": {
			Requirements: []model.Requirement{{Text: "Support OAuth2 login"}, {Text: "Audit log every sign-in"}},
		},
	}}
	s := NewSynthesizer(ext, noise.NewScorer(0), "")

	docs := []model.Document{
		emailDoc("Auth plan", "We need oauth support rolled out to every tenant this quarter.", "sarah@corp.com", "mike@corp.com"),
		meetingDoc("m1", "Attendees: Sarah, Mike\nNotes from the sprint review covering auth."),
	}
	brd, err := s.Synthesize(context.Background(), docs)
	if err != nil {
		t.Fatalf("Synthesize() error = %v", err)
	}

	if len(brd.Requirements) != 3 {
		t.Fatalf("Requirements = %v, want 3 after cross-channel dedup", brd.Requirements)
	}
	for i, want := range []string{"REQ-0001", "REQ-0002", "REQ-0003"} {
		if brd.Requirements[i].ID != want {
			t.Errorf("Requirements[%d].ID = %q, want %q", i, brd.Requirements[i].ID, want)
		}
	}
	// 邮件渠道先合并，前两条需求溯源到邮件
	if brd.Requirements[0].Traceability == nil || brd.Requirements[0].Traceability.SourceChannel != model.ChannelEmail {
		t.Errorf("Requirements[0].Traceability = %+v", brd.Requirements[0].Traceability)
	}
	if brd.Requirements[2].Traceability == nil || brd.Requirements[2].Traceability.SourceChannel != model.ChannelMeeting {
		t.Errorf("Requirements[2].Traceability = %+v", brd.Requirements[2].Traceability)
	}
	if brd.ProjectTopic != "Auth Revamp" {
		t.Errorf("ProjectTopic = %q", brd.ProjectTopic)
	}
}

func TestSynthesizeCrossChannelConflict(t *testing.T) {
	ext := &stubExtractor{byContent: map[string]*model.BRD{}}
	s := NewSynthesizer(ext, noise.NewScorer(0), "")

	docs := []model.Document{
		emailDoc("Launch date", "Per the exec review, we must ship by March 1 to hit the contract window.", "vp@corp.com", "team@corp.com"),
		meetingDoc("m1", "Engineering sync notes: realistically we cannot ship before April 1 given the migration backlog."),
	}
	brd, err := s.Synthesize(context.Background(), docs)
	if err != nil {
		t.Fatalf("Synthesize() error = %v", err)
	}

	critical := 0
	for _, c := range brd.Conflicts {
		if c.Severity == model.SeverityCritical && c.Type == "cross_channel" {
			critical++
		}
	}
	if critical == 0 {
		t.Fatalf("no CRITICAL cross-channel conflict detected: %+v", brd.Conflicts)
	}
	if brd.Synthesis == nil || brd.Synthesis.Stats.CriticalConflicts == 0 {
		t.Error("critical conflicts not reflected in synthesis stats")
	}
}

func TestSynthesizeFiltersNoiseEmails(t *testing.T) {
	ext := &stubExtractor{byContent: map[string]*model.BRD{}}
	s := NewSynthesizer(ext, noise.NewScorer(0), "")

	docs := []model.Document{
		emailDoc("Team lunch friday", "Pizza in the kitchen, bring your own drinks and weekend plans!", "hr@corp.com"),
		emailDoc("Short", "too short", "a@corp.com"),
		emailDoc("Roadmap", "The roadmap requirement review happens next week, please prepare your sections.", "pm@corp.com"),
	}
	brd, err := s.Synthesize(context.Background(), docs)
	if err != nil {
		t.Fatalf("Synthesize() error = %v", err)
	}
	if brd.Synthesis.Stats.EmailsLoaded != 3 {
		t.Errorf("EmailsLoaded = %d, want 3", brd.Synthesis.Stats.EmailsLoaded)
	}
	if brd.Synthesis.Stats.EmailsFiltered != 2 {
		t.Errorf("EmailsFiltered = %d, want 2", brd.Synthesis.Stats.EmailsFiltered)
	}
}

func TestSynthesizeProjectFilter(t *testing.T) {
	ext := &stubExtractor{byContent: map[string]*model.BRD{}}
	s := NewSynthesizer(ext, noise.NewScorer(0), "phoenix")

	docs := []model.Document{
		emailDoc("Status", "Project Phoenix requirement review is scheduled for Thursday afternoon.", "pm@corp.com"),
		emailDoc("Other", "The Atlas rollout needs another infrastructure review before the freeze.", "pm@corp.com"),
	}
	brd, err := s.Synthesize(context.Background(), docs)
	if err != nil {
		t.Fatalf("Synthesize() error = %v", err)
	}
	if brd.Synthesis.Stats.EmailsFiltered != 1 {
		t.Errorf("EmailsFiltered = %d, want 1 (non-project email)", brd.Synthesis.Stats.EmailsFiltered)
	}
}

func TestSynthesizeStakeholderFillOnlyMerge(t *testing.T) {
	ext := &stubExtractor{byContent: map[string]*model.BRD{
		"budget review": {
			Stakeholders: []model.Stakeholder{{Name: "Sarah", Role: "PM", Sentiment: "positive"}},
		},
		"standup notes": {
			Stakeholders: []model.Stakeholder{{Name: "Sarah", Role: "Engineer", Stance: "supportive"}},
		},
	}}
	s := NewSynthesizer(ext, noise.NewScorer(0), "")

	docs := []model.Document{
		emailDoc("Budget", "The budget review covers the next two quarters of platform spending.", "sarah@corp.com"),
		meetingDoc("m1", "Attendees: Sarah\nThe standup notes mention the budget line again."),
	}
	brd, err := s.Synthesize(context.Background(), docs)
	if err != nil {
		t.Fatalf("Synthesize() error = %v", err)
	}
	if len(brd.Stakeholders) != 1 {
		t.Fatalf("Stakeholders = %+v, want 1", brd.Stakeholders)
	}
	got := brd.Stakeholders[0]
	// 先到的 Role 保留，空缺的 Stance 被补上
	if got.Role != "PM" || got.Stance != "supportive" || got.Sentiment != "positive" {
		t.Errorf("merged stakeholder = %+v", got)
	}
}
