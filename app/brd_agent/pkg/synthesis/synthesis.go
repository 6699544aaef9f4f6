package synthesis

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/iWorld-y/brd_agent/app/brd_agent/pkg/engine"
	"github.com/iWorld-y/brd_agent/app/brd_agent/pkg/logger"
	"github.com/iWorld-y/brd_agent/app/brd_agent/pkg/model"
	"github.com/iWorld-y/brd_agent/app/brd_agent/pkg/noise"
)

// Extractor 单文档提取能力，由提取引擎实现
type Extractor interface {
	Extract(ctx context.Context, text string, channel model.ChannelType) (*model.BRD, error)
}

// 邮件正文短于该长度视为无信息量，直接过滤
const minEmailContentLen = 50

// Synthesizer 跨渠道合成器：过滤、逐文档提取、统一合并、冲突交叉检查、影响力图谱
type Synthesizer struct {
	extractor     Extractor
	scorer        *noise.Scorer
	projectFilter string
}

// NewSynthesizer 创建合成器，projectFilter 非空时只保留提及该项目的邮件
func NewSynthesizer(extractor Extractor, scorer *noise.Scorer, projectFilter string) *Synthesizer {
	return &Synthesizer{
		extractor:     extractor,
		scorer:        scorer,
		projectFilter: strings.ToLower(projectFilter),
	}
}

// Synthesize 把多渠道沟通记录合成一份统一 BRD
func (s *Synthesizer) Synthesize(ctx context.Context, docs []model.Document) (*model.BRD, error) {
	var stats model.SynthesisStats
	var synthesisLog []string

	var kept []model.Document
	for _, doc := range docs {
		switch doc.Type {
		case model.ChannelEmail:
			stats.EmailsLoaded++
			if reason := s.filterEmail(doc); reason != "" {
				stats.EmailsFiltered++
				synthesisLog = append(synthesisLog, fmt.Sprintf("filtered email %q: %s", doc.Subject, reason))
				continue
			}
		case model.ChannelMeeting:
			stats.MeetingsLoaded++
		}
		kept = append(kept, doc)
	}
	logger.Log.Infof("synthesis input: %d documents kept, %d emails filtered", len(kept), stats.EmailsFiltered)

	if len(kept) == 0 {
		brd := &model.BRD{
			ProjectHealthScore: 85,
			Synthesis: &model.SynthesisMeta{
				Timestamp: time.Now().UTC().Format(time.RFC3339),
				Stats:     stats,
				Log:       synthesisLog,
			},
		}
		return brd, nil
	}

	// 逐文档并行提取，结果槽位与输入顺序一致
	results := make([]*model.BRD, len(kept))
	errs := make([]error, len(kept))
	var wg sync.WaitGroup
	for i, doc := range kept {
		wg.Add(1)
		go func(idx int, d model.Document) {
			defer wg.Done()
			results[idx], errs[idx] = s.extractor.Extract(ctx, documentText(d), d.Type)
		}(i, doc)
	}
	wg.Wait()
	for i, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("extraction failed for %s: %w", kept[i].ID, err)
		}
	}

	merged := s.mergeResults(kept, results)

	crossConflicts := DetectCrossChannelConflicts(kept)
	merged.Conflicts = append(merged.Conflicts, crossConflicts...)
	for _, c := range merged.Conflicts {
		stats.ConflictsDetected++
		if c.Severity == model.SeverityCritical {
			stats.CriticalConflicts++
		}
	}

	merged.StakeholderMap = BuildStakeholderMap(kept, results)
	s.fillRolesFromMap(merged)

	stats.RequirementsExtracted = len(merged.Requirements)
	merged.ExecutionSummary = buildExecutionSummary(merged, stats)
	merged.NoiseReductionLogic = fmt.Sprintf(
		"Filtered %d of %d emails as noise before extraction; remaining content merged across %d documents",
		stats.EmailsFiltered, stats.EmailsLoaded, len(kept))
	merged.ConfidenceScore = engine.ConfidenceScore(merged)
	merged.Synthesis = &model.SynthesisMeta{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Stats:     stats,
		Log:       synthesisLog,
	}

	logger.Log.Infof("synthesis complete: %d requirements, %d conflicts (%d critical)",
		stats.RequirementsExtracted, stats.ConflictsDetected, stats.CriticalConflicts)
	return merged, nil
}

// filterEmail 返回过滤原因，空串表示保留
func (s *Synthesizer) filterEmail(doc model.Document) string {
	combined := strings.ToLower(doc.Subject + " " + doc.Content)
	for _, kw := range noise.NoiseKeywords {
		if strings.Contains(combined, kw) {
			return "noise keyword: " + kw
		}
	}
	relevant := false
	for _, kw := range noise.RelevanceKeywords {
		if strings.Contains(combined, kw) {
			relevant = true
			break
		}
	}
	if !relevant {
		return "no relevance keyword"
	}
	if len(doc.Content) < minEmailContentLen {
		return "content too short"
	}
	if s.projectFilter != "" && !strings.Contains(combined, s.projectFilter) {
		return "does not mention project"
	}
	return ""
}

func documentText(doc model.Document) string {
	if doc.Type == model.ChannelEmail && doc.Subject != "" {
		return "Subject: " + doc.Subject + "\n\n" + doc.Content
	}
	return doc.Content
}

// mergeResults 按渠道顺序（邮件、会议、聊天）合并逐文档结果，
// 需求按文本去重并在去重顺序上分配 REQ-NNNN 编号与溯源信息。
func (s *Synthesizer) mergeResults(docs []model.Document, results []*model.BRD) *model.BRD {
	merged := &model.BRD{ProjectHealthScore: 85}

	order := []model.ChannelType{model.ChannelEmail, model.ChannelMeeting, model.ChannelChat}
	seenReqs := map[string]bool{}
	seenDecisions := map[string]bool{}
	seenFeedback := map[string]bool{}
	seenActions := map[string]bool{}
	stakeholderIdx := map[string]int{}
	healthTotal, healthCount := 0, 0

	for _, channel := range order {
		for i, doc := range docs {
			if doc.Type != channel || results[i] == nil {
				continue
			}
			brd := results[i]

			if merged.ProjectTopic == "" {
				merged.ProjectTopic = brd.ProjectTopic
			}
			if merged.MermaidCode == "" {
				merged.MermaidCode = brd.MermaidCode
			}
			if brd.ProjectHealthScore > 0 {
				healthTotal += brd.ProjectHealthScore
				healthCount++
			}

			trace := traceFor(doc)
			for _, r := range brd.Requirements {
				if r.Text == "" || seenReqs[r.Text] {
					continue
				}
				seenReqs[r.Text] = true
				r.ID = fmt.Sprintf("REQ-%04d", len(merged.Requirements)+1)
				if r.Status == "" {
					r.Status = "pending_review"
				}
				r.Traceability = trace
				merged.Requirements = append(merged.Requirements, r)
			}
			for _, d := range brd.Decisions {
				if d.Text == "" || seenDecisions[d.Text] {
					continue
				}
				seenDecisions[d.Text] = true
				d.SourceChannel = channel
				merged.Decisions = append(merged.Decisions, d)
			}
			for _, st := range brd.Stakeholders {
				if st.Name == "" {
					continue
				}
				if idx, ok := stakeholderIdx[st.Name]; ok {
					merged.Stakeholders[idx].Fill(st)
					continue
				}
				stakeholderIdx[st.Name] = len(merged.Stakeholders)
				merged.Stakeholders = append(merged.Stakeholders, st)
			}
			for _, tl := range brd.Timelines {
				tl.SourceChannel = channel
				merged.Timelines = append(merged.Timelines, tl)
			}
			for _, f := range brd.Feedback {
				if f != "" && !seenFeedback[f] {
					seenFeedback[f] = true
					merged.Feedback = append(merged.Feedback, f)
				}
			}
			for _, a := range brd.ActionItems {
				if a != "" && !seenActions[a] {
					seenActions[a] = true
					merged.ActionItems = append(merged.ActionItems, a)
				}
			}
			merged.Conflicts = append(merged.Conflicts, brd.Conflicts...)
		}
	}

	if healthCount > 0 {
		merged.ProjectHealthScore = healthTotal / healthCount
	}

	sort.SliceStable(merged.Timelines, func(i, j int) bool {
		return merged.Timelines[i].Date < merged.Timelines[j].Date
	})
	return merged
}

func traceFor(doc model.Document) *model.Traceability {
	return &model.Traceability{
		SourceChannel: doc.Type,
		Sender:        doc.Sender,
		Subject:       doc.Subject,
		Timestamp:     doc.Timestamp,
		Participants:  doc.Recipients,
	}
}

// fillRolesFromMap 用影响力图谱推断出的角色补全 role 为空或 Unknown 的干系人
func (s *Synthesizer) fillRolesFromMap(brd *model.BRD) {
	if brd.StakeholderMap == nil {
		return
	}
	roles := map[string]string{}
	for _, si := range brd.StakeholderMap.Stakeholders {
		roles[si.Name] = si.Role
	}
	for i := range brd.Stakeholders {
		if brd.Stakeholders[i].Role == "" || brd.Stakeholders[i].Role == "Unknown" {
			if r, ok := roles[brd.Stakeholders[i].Name]; ok {
				brd.Stakeholders[i].Role = r
			}
		}
	}
}

// buildExecutionSummary 汇总各类别数量与关键主题，生成一段执行摘要
func buildExecutionSummary(brd *model.BRD, stats model.SynthesisStats) string {
	var sb strings.Builder
	topic := brd.ProjectTopic
	if topic == "" {
		topic = "the project"
	}
	fmt.Fprintf(&sb, "Synthesised view of %s across %d emails and %d meetings: ",
		topic, stats.EmailsLoaded-stats.EmailsFiltered, stats.MeetingsLoaded)
	fmt.Fprintf(&sb, "%d requirements, %d decisions, %d stakeholders, %d timeline entries.",
		len(brd.Requirements), len(brd.Decisions), len(brd.Stakeholders), len(brd.Timelines))
	critical := 0
	for _, c := range brd.Conflicts {
		if c.Severity == model.SeverityCritical {
			critical++
		}
	}
	if critical > 0 {
		fmt.Fprintf(&sb, " %d CRITICAL cross-channel conflicts require resolution before sign-off.", critical)
	}
	return sb.String()
}
