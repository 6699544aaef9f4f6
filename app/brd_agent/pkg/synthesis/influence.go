package synthesis

import (
	"math"
	"sort"
	"strings"

	"github.com/iWorld-y/brd_agent/app/brd_agent/pkg/model"
)

// 影响力权重：邮件往来占大头，会议出席为辅
const (
	emailWeight   = 0.6
	meetingWeight = 0.4
)

// 角色推断关键词，按声明顺序匹配
var roleKeywords = []struct {
	role     string
	keywords []string
}{
	{"Executive", []string{"vp", "chief", "ceo", "cto", "cfo", "director", "head of", "executive"}},
	{"PM", []string{"product manager", "project manager", "pm", "product"}},
	{"Security", []string{"security"}},
	{"QA", []string{"qa", "test", "quality"}},
	{"Designer", []string{"design", "ux", "ui"}},
	{"Engineer", []string{"engineer", "developer", "dev", "architect"}},
}

// BuildStakeholderMap 只从沟通元数据构建影响力图谱，不读消息正文。
// 邮件按发件与收件各计一次互动，会议按参会名单计出席，
// 影响力 = 0.6 × 邮件互动数 + 0.4 × 会议出席数。
func BuildStakeholderMap(docs []model.Document, results []*model.BRD) *model.StakeholderMap {
	emailCounts := map[string]int{}
	meetingCounts := map[string]int{}
	knownRoles := map[string]string{}
	relSeen := map[string]bool{}
	var relationships []model.Relationship

	for i, doc := range docs {
		switch doc.Type {
		case model.ChannelEmail:
			if doc.Sender != "" {
				emailCounts[doc.Sender]++
			}
			for _, r := range doc.Recipients {
				emailCounts[r]++
				if doc.Sender != "" {
					key := doc.Sender + "->" + r
					if !relSeen[key] {
						relSeen[key] = true
						relationships = append(relationships, model.Relationship{
							From: doc.Sender, To: r, Type: "email",
						})
					}
				}
			}
		case model.ChannelMeeting:
			for _, p := range doc.Recipients {
				if p != "" {
					meetingCounts[p]++
				}
			}
			// 提取结果只用来补角色描述，不参与计数
			if results[i] == nil {
				continue
			}
			for _, st := range results[i].Stakeholders {
				if st.Name != "" && st.Role != "" && st.Role != "Unknown" {
					knownRoles[st.Name] = st.Role
				}
			}
		}
	}

	names := map[string]bool{}
	for n := range emailCounts {
		names[n] = true
	}
	for n := range meetingCounts {
		names[n] = true
	}
	if len(names) == 0 {
		return &model.StakeholderMap{}
	}

	var stakeholders []model.StakeholderInfluence
	for name := range names {
		score := emailWeight*float64(emailCounts[name]) + meetingWeight*float64(meetingCounts[name])
		stakeholders = append(stakeholders, model.StakeholderInfluence{
			Name:                 name,
			InfluenceScore:       math.Round(score*100) / 100,
			EmailInteractions:    emailCounts[name],
			MeetingParticipation: meetingCounts[name],
			Role:                 InferRole(name, knownRoles[name]),
		})
	}
	sort.Slice(stakeholders, func(i, j int) bool {
		if stakeholders[i].InfluenceScore != stakeholders[j].InfluenceScore {
			return stakeholders[i].InfluenceScore > stakeholders[j].InfluenceScore
		}
		return stakeholders[i].Name < stakeholders[j].Name
	})

	return &model.StakeholderMap{
		Stakeholders:  stakeholders,
		Relationships: relationships,
		Hierarchy:     detectHierarchy(stakeholders),
	}
}

// InferRole 先看提取阶段给出的角色描述，再退回到名字或邮箱里的线索
func InferRole(name, knownRole string) string {
	for _, source := range []string{knownRole, name} {
		lower := strings.ToLower(source)
		if lower == "" {
			continue
		}
		for _, rk := range roleKeywords {
			for _, kw := range rk.keywords {
				if strings.Contains(lower, kw) {
					return rk.role
				}
			}
		}
	}
	if knownRole != "" && knownRole != "Unknown" {
		return knownRole
	}
	return "Stakeholder"
}

// detectHierarchy 至少三人时按影响力分层：第一名视为决策层，随后两名为管理层，其余为执行层
func detectHierarchy(stakeholders []model.StakeholderInfluence) []model.HierarchyLevel {
	if len(stakeholders) < 3 {
		return nil
	}
	nameOf := func(from, to int) []string {
		var out []string
		for _, s := range stakeholders[from:to] {
			out = append(out, s.Name)
		}
		return out
	}
	return []model.HierarchyLevel{
		{Level: "Executive", Members: nameOf(0, 1)},
		{Level: "Management", Members: nameOf(1, 3)},
		{Level: "Individual Contributors", Members: nameOf(3, len(stakeholders))},
	}
}
