package engine

import (
	"github.com/iWorld-y/brd_agent/app/brd_agent/pkg/model"
)

// mergeChunkResults 把多个分块的提取结果合并为一份。
// 主题与流程图取首个非空值，列表按文本去重，干系人按名字去重并互补空字段。
func mergeChunkResults(parts []*model.BRD) *model.BRD {
	merged := emptyBRD()
	merged.MermaidCode = ""

	seenReqs := map[string]bool{}
	seenDecisions := map[string]bool{}
	seenFeedback := map[string]bool{}
	seenActions := map[string]bool{}
	stakeholderIdx := map[string]int{}

	for _, part := range parts {
		if part == nil {
			continue
		}
		if merged.ProjectTopic == "" {
			merged.ProjectTopic = part.ProjectTopic
		}
		if merged.MermaidCode == "" {
			merged.MermaidCode = part.MermaidCode
		}
		if merged.NoiseReductionLogic == "" {
			merged.NoiseReductionLogic = part.NoiseReductionLogic
		}
		if merged.RawLLMOutput == "" {
			merged.RawLLMOutput = part.RawLLMOutput
		}
		if part.ProjectHealthScore > 0 && merged.ProjectHealthScore == 85 {
			merged.ProjectHealthScore = part.ProjectHealthScore
		}

		for _, r := range part.Requirements {
			if r.Text != "" && !seenReqs[r.Text] {
				seenReqs[r.Text] = true
				merged.Requirements = append(merged.Requirements, r)
			}
		}
		for _, d := range part.Decisions {
			if d.Text != "" && !seenDecisions[d.Text] {
				seenDecisions[d.Text] = true
				merged.Decisions = append(merged.Decisions, d)
			}
		}
		for _, s := range part.Stakeholders {
			if s.Name == "" {
				continue
			}
			if idx, ok := stakeholderIdx[s.Name]; ok {
				merged.Stakeholders[idx].Fill(s)
				continue
			}
			stakeholderIdx[s.Name] = len(merged.Stakeholders)
			merged.Stakeholders = append(merged.Stakeholders, s)
		}
		merged.Timelines = append(merged.Timelines, part.Timelines...)
		for _, f := range part.Feedback {
			if f != "" && !seenFeedback[f] {
				seenFeedback[f] = true
				merged.Feedback = append(merged.Feedback, f)
			}
		}
		for _, a := range part.ActionItems {
			if a != "" && !seenActions[a] {
				seenActions[a] = true
				merged.ActionItems = append(merged.ActionItems, a)
			}
		}
		merged.Conflicts = append(merged.Conflicts, part.Conflicts...)
	}

	if merged.MermaidCode == "" {
		merged.MermaidCode = fallbackMermaid
	}
	return merged
}

// mergeEntities 把正则提取的实体补进 BRD，只补不在场的条目，不覆盖模型结果
func mergeEntities(brd *model.BRD, entities model.Entities) {
	for _, date := range entities.Dates {
		exists := false
		for _, t := range brd.Timelines {
			if t.Date == date {
				exists = true
				break
			}
		}
		if !exists {
			brd.Timelines = append(brd.Timelines, model.TimelineItem{
				Date:      date,
				Milestone: "Detected deadline",
			})
		}
	}

	for _, person := range entities.People {
		if !brd.HasStakeholder(person.Name) {
			brd.Stakeholders = append(brd.Stakeholders, person)
		}
	}

	for _, req := range entities.Requirements {
		if !brd.HasRequirementText(req) {
			brd.Requirements = append(brd.Requirements, model.Requirement{Text: req, Source: "regex"})
		}
	}

	for _, item := range entities.ActionItems {
		exists := false
		for _, a := range brd.ActionItems {
			if a == item {
				exists = true
				break
			}
		}
		if !exists {
			brd.ActionItems = append(brd.ActionItems, item)
		}
	}
}
