package conflict

import (
	"fmt"
	"math"
	"strings"

	"github.com/grassmudhorses/vader-go/lexicon"
	"github.com/grassmudhorses/vader-go/sentitext"

	"github.com/iWorld-y/brd_agent/app/brd_agent/pkg/model"
)

// 显式分歧关键词，单条命中即记一次 medium 冲突
var disagreementKeywords = []string{
	"disagree", "conflict", "oppose", "contrary",
	"however", "on the other hand", "inconsistent",
}

// Polarity 计算文本情感极性，范围 [-1, 1]
func Polarity(text string) float64 {
	parsed := sentitext.Parse(text, lexicon.DefaultLexicon)
	return sentitext.PolarityScore(parsed).Compound
}

// Detect 在反馈条目集合中检测观点冲突，少于两条时不做判断。
// 两种信号：成对情感极性相反（双方绝对值均超过 0.1），
// 以及条目内出现显式分歧关键词。两种信号可对同一条目同时触发。
func Detect(items []string) []model.Conflict {
	if len(items) < 2 {
		return nil
	}

	var conflicts []model.Conflict

	polarities := make([]float64, len(items))
	for i, item := range items {
		polarities[i] = Polarity(item)
	}

	for i := 0; i < len(items); i++ {
		for j := i + 1; j < len(items); j++ {
			p1, p2 := polarities[i], polarities[j]
			if math.Abs(p1) <= 0.1 || math.Abs(p2) <= 0.1 {
				continue
			}
			if (p1 > 0) == (p2 > 0) {
				continue
			}
			diff := math.Abs(p1 - p2)
			severity := model.SeverityLow
			if diff > 1.0 {
				severity = model.SeverityHigh
			} else if diff > 0.5 {
				severity = model.SeverityMedium
			}
			conflicts = append(conflicts, model.Conflict{
				Description:  fmt.Sprintf("Sentiment conflict between items: %q vs %q", truncate(items[i]), truncate(items[j])),
				Severity:     severity,
				Type:         "sentiment",
				Item1:        items[i],
				Item2:        items[j],
				PolarityDiff: diff,
			})
		}
	}

	for _, item := range items {
		lower := strings.ToLower(item)
		for _, kw := range disagreementKeywords {
			if strings.Contains(lower, kw) {
				conflicts = append(conflicts, model.Conflict{
					Description: fmt.Sprintf("Explicit disagreement detected: %q", truncate(item)),
					Severity:    model.SeverityMedium,
					Type:        "explicit",
					Item1:       item,
				})
				break
			}
		}
	}

	return conflicts
}

func truncate(s string) string {
	if len(s) > 80 {
		return s[:80] + "..."
	}
	return s
}
