package ingest

import (
	"regexp"
	"strings"

	"github.com/iWorld-y/brd_agent/app/brd_agent/pkg/model"
)

// 日期类模式，按顺序匹配
var datePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(?:January|February|March|April|May|June|July|August|September|October|November|December)\s+\d{1,2}(?:st|nd|rd|th)?(?:,?\s*\d{4})?`),
	regexp.MustCompile(`(?i)\b(?:Jan|Feb|Mar|Apr|Jun|Jul|Aug|Sep|Sept|Oct|Nov|Dec)\.?\s+\d{1,2}(?:st|nd|rd|th)?(?:,?\s*\d{4})?`),
	regexp.MustCompile(`\b\d{1,2}/\d{1,2}/\d{2,4}\b`),
	regexp.MustCompile(`\b\d{4}-\d{2}-\d{2}\b`),
	regexp.MustCompile(`(?i)\bQ[1-4]\s*\d{4}\b`),
	regexp.MustCompile(`(?i)\b(?:by\s+)?end of (?:week|month|quarter|year|sprint|day)\b`),
	regexp.MustCompile(`(?i)\b(?:EOD|EOW|EOM)\b`),
}

var (
	emailPattern = regexp.MustCompile(`\b[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}\b`)

	actionBulletPattern   = regexp.MustCompile(`(?m)^\s*[-•]\s*(\w+):\s*(.+)$`)
	actionExplicitPattern = regexp.MustCompile(`(?im)(?:Action item|TODO|Task):\s*(.+)`)

	requirementPattern = regexp.MustCompile(`(?i)(?:^|\. )([^.\n]*?(?:must|shall|should|need to|required to|requirement)[^.\n]*\.)`)

	personRolePattern = regexp.MustCompile(`\b([A-Z][a-z]+(?:\s+[A-Z][a-z]+)?)\s*\(([^)]+)\)`)
)

// ExtractEntities 用正则从原文提取日期、邮箱、人名、行动项与需求句。
// 各列表按首次出现顺序去重。
func ExtractEntities(text string) model.Entities {
	var e model.Entities

	seenDates := map[string]bool{}
	for _, p := range datePatterns {
		for _, m := range p.FindAllString(text, -1) {
			m = strings.TrimSpace(m)
			if !seenDates[m] {
				seenDates[m] = true
				e.Dates = append(e.Dates, m)
			}
		}
	}

	seenEmails := map[string]bool{}
	for _, m := range emailPattern.FindAllString(text, -1) {
		if !seenEmails[m] {
			seenEmails[m] = true
			e.Emails = append(e.Emails, m)
		}
	}

	seenPeople := map[string]bool{}
	for _, m := range personRolePattern.FindAllStringSubmatch(text, -1) {
		name, role := strings.TrimSpace(m[1]), strings.TrimSpace(m[2])
		if !seenPeople[name] {
			seenPeople[name] = true
			e.People = append(e.People, model.Stakeholder{Name: name, Role: role})
		}
	}

	seenActions := map[string]bool{}
	for _, m := range actionBulletPattern.FindAllStringSubmatch(text, -1) {
		item := strings.TrimSpace(m[1]) + " - " + strings.TrimSpace(m[2])
		if !seenActions[item] {
			seenActions[item] = true
			e.ActionItems = append(e.ActionItems, item)
		}
	}
	for _, m := range actionExplicitPattern.FindAllStringSubmatch(text, -1) {
		item := strings.TrimSpace(m[1])
		if !seenActions[item] {
			seenActions[item] = true
			e.ActionItems = append(e.ActionItems, item)
		}
	}

	seenReqs := map[string]bool{}
	for _, m := range requirementPattern.FindAllStringSubmatch(text, -1) {
		req := strings.TrimSpace(m[1])
		if !seenReqs[req] {
			seenReqs[req] = true
			e.Requirements = append(e.Requirements, req)
		}
	}

	return e
}
