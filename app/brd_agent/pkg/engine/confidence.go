package engine

import (
	"math"

	"github.com/iWorld-y/brd_agent/app/brd_agent/pkg/model"
)

// 各类别对置信度的权重，三条即视为该类别完整
var confidenceWeights = []struct {
	weight float64
	count  func(*model.BRD) int
}{
	{0.25, func(b *model.BRD) int { return len(b.Requirements) }},
	{0.20, func(b *model.BRD) int { return len(b.Decisions) }},
	{0.20, func(b *model.BRD) int { return len(b.Stakeholders) }},
	{0.15, func(b *model.BRD) int { return len(b.Timelines) }},
	{0.10, func(b *model.BRD) int { return len(b.Feedback) }},
	{0.10, func(b *model.BRD) int { return len(b.ActionItems) }},
}

// ConfidenceScore 按提取完整度打分。每类取 weight*min(1, count/3)，
// 识别出项目主题额外加 0.10，上限 1.0，保留两位小数。
func ConfidenceScore(brd *model.BRD) float64 {
	score := 0.0
	for _, w := range confidenceWeights {
		ratio := float64(w.count(brd)) / 3.0
		if ratio > 1 {
			ratio = 1
		}
		score += w.weight * ratio
	}
	if brd.ProjectTopic != "" {
		score += 0.10
	}
	if score > 1 {
		score = 1
	}
	return math.Round(score*100) / 100
}
