package engine

import (
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/iWorld-y/brd_agent/app/brd_agent/pkg/model"
)

var validationToken = regexp.MustCompile(`[a-zA-Z0-9]{3,}`)

// 校验分词阶段忽略的高频词
var validationStopwords = map[string]bool{
	"the": true, "and": true, "for": true, "that": true, "this": true,
	"with": true, "are": true, "was": true, "will": true, "have": true,
	"has": true, "not": true, "but": true, "from": true, "they": true,
	"been": true, "its": true, "our": true, "all": true, "can": true,
}

// ValidateSummary 将提取结果与人工摘要做词重叠比对，给出 P/R/F1。
// 匹配词最多返回 20 个。
func ValidateSummary(extracted, groundTruth string) model.ValidationReport {
	extTokens := validationTokens(extracted)
	truthTokens := validationTokens(groundTruth)

	var matched []string
	for t := range truthTokens {
		if extTokens[t] {
			matched = append(matched, t)
		}
	}
	sort.Strings(matched)

	report := model.ValidationReport{MatchedKeywords: matched}
	if len(matched) > 20 {
		report.MatchedKeywords = matched[:20]
	}
	if len(extTokens) > 0 {
		report.Precision = round3(float64(len(matched)) / float64(len(extTokens)))
	}
	if len(truthTokens) > 0 {
		report.Recall = round3(float64(len(matched)) / float64(len(truthTokens)))
	}
	if report.Precision+report.Recall > 0 {
		report.F1Score = round3(2 * report.Precision * report.Recall / (report.Precision + report.Recall))
	}
	return report
}

func validationTokens(text string) map[string]bool {
	tokens := map[string]bool{}
	for _, t := range validationToken.FindAllString(strings.ToLower(text), -1) {
		if !validationStopwords[t] {
			tokens[t] = true
		}
	}
	return tokens
}

func round3(x float64) float64 {
	return math.Round(x*1000) / 1000
}
