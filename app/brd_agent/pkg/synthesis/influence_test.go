package synthesis

import (
	"testing"

	"github.com/iWorld-y/brd_agent/app/brd_agent/pkg/model"
)

func TestBuildStakeholderMapFromMeetingMetadata(t *testing.T) {
	// 会议出席只看参会名单，与提取结果无关
	docs := []model.Document{
		{ID: "m1", Type: model.ChannelMeeting, Recipients: []string{"Alice", "Bob"}},
	}
	m := BuildStakeholderMap(docs, []*model.BRD{{}})
	if len(m.Stakeholders) != 2 {
		t.Fatalf("Stakeholders = %+v, want 2 from participant metadata", m.Stakeholders)
	}
	for _, s := range m.Stakeholders {
		if s.MeetingParticipation != 1 {
			t.Errorf("%s MeetingParticipation = %d, want 1", s.Name, s.MeetingParticipation)
		}
		if s.InfluenceScore != 0.4 {
			t.Errorf("%s InfluenceScore = %.2f, want 0.4", s.Name, s.InfluenceScore)
		}
	}
}

func TestBuildStakeholderMapRawCountInfluence(t *testing.T) {
	docs := []model.Document{
		emailDoc("e1", "The budget requirement needs review before sign-off.", "Alice", "Bob", "Carol"),
		emailDoc("e2", "Another review round on the requirement scope.", "Alice", "Bob"),
		emailDoc("e3", "Final review notes on the budget.", "Alice"),
	}
	m := BuildStakeholderMap(docs, make([]*model.BRD, len(docs)))

	want := map[string]float64{"Alice": 1.8, "Bob": 1.2, "Carol": 0.6}
	if len(m.Stakeholders) != len(want) {
		t.Fatalf("Stakeholders = %+v, want 3", m.Stakeholders)
	}
	for _, s := range m.Stakeholders {
		if s.InfluenceScore != want[s.Name] {
			t.Errorf("%s InfluenceScore = %.2f, want %.2f", s.Name, s.InfluenceScore, want[s.Name])
		}
	}
	// 原始计数下 Alice 互动最多，进入决策层
	if len(m.Hierarchy) == 0 || len(m.Hierarchy[0].Members) != 1 || m.Hierarchy[0].Members[0] != "Alice" {
		t.Errorf("Hierarchy = %+v, want Alice alone at the top", m.Hierarchy)
	}
}

func TestBuildStakeholderMapMixedChannels(t *testing.T) {
	docs := []model.Document{
		emailDoc("e1", "Requirement review thread for the rollout.", "Alice", "Bob"),
		{ID: "m1", Type: model.ChannelMeeting, Recipients: []string{"Bob", "Carol"}},
	}
	m := BuildStakeholderMap(docs, make([]*model.BRD, len(docs)))

	// Bob: 1 封邮件 + 1 次会议 = 0.6 + 0.4 = 1.0
	for _, s := range m.Stakeholders {
		if s.Name == "Bob" {
			if s.InfluenceScore != 1.0 || s.EmailInteractions != 1 || s.MeetingParticipation != 1 {
				t.Errorf("Bob = %+v, want score 1.0 from both channels", s)
			}
			return
		}
	}
	t.Fatalf("Bob missing from map: %+v", m.Stakeholders)
}
