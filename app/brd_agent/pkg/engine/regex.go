package engine

import (
	"github.com/iWorld-y/brd_agent/app/brd_agent/pkg/ingest"
	"github.com/iWorld-y/brd_agent/app/brd_agent/pkg/model"
)

// RegexExtract 纯正则降级提取，无需模型即可产出基础 BRD。
// subject 非空时作为项目主题。
func RegexExtract(text, subject string, channel model.ChannelType) *model.BRD {
	entities := ingest.ExtractEntities(text)

	brd := emptyBRD()
	brd.ChannelType = channel
	brd.ProjectTopic = subject
	brd.NoiseReductionLogic = "Regex-only extraction, no semantic filtering applied"

	for _, req := range entities.Requirements {
		brd.Requirements = append(brd.Requirements, model.Requirement{Text: req, Source: "regex"})
	}
	brd.Stakeholders = append(brd.Stakeholders, entities.People...)
	for _, date := range entities.Dates {
		brd.Timelines = append(brd.Timelines, model.TimelineItem{
			Date:          date,
			Milestone:     "Detected deadline",
			SourceChannel: channel,
		})
	}
	brd.ActionItems = append(brd.ActionItems, entities.ActionItems...)

	brd.ConfidenceScore = ConfidenceScore(brd)
	return brd
}
