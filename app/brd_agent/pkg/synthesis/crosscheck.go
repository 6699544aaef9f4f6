package synthesis

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/iWorld-y/brd_agent/app/brd_agent/pkg/model"
)

var (
	mustPattern     = regexp.MustCompile(`(?i)must\s+([^.\n]+)`)
	cannotPattern   = regexp.MustCompile(`(?i)cannot\s+([^.\n]+)`)
	approvedPattern = regexp.MustCompile(`(?i)approved\s+([^.\n]+)`)
	rejectedPattern = regexp.MustCompile(`(?i)rejected\s+([^.\n]+)`)
	deadlinePattern = regexp.MustCompile(`(?i)deadline.*?(\d{1,2}[/-]\d{1,2}[/-]\d{2,4}|\w+\s+\d{1,2})`)
)

// DetectCrossChannelConflicts 在邮件与会议内容之间交叉检查直接矛盾：
// must/cannot 语句、approved/rejected 语句，以及提到的 deadline 不一致。
// 此类冲突一律标为 CRITICAL。
func DetectCrossChannelConflicts(docs []model.Document) []model.Conflict {
	var emailText, meetingText strings.Builder
	for _, doc := range docs {
		switch doc.Type {
		case model.ChannelEmail:
			emailText.WriteString(doc.Subject)
			emailText.WriteString("\n")
			emailText.WriteString(doc.Content)
			emailText.WriteString("\n")
		case model.ChannelMeeting:
			meetingText.WriteString(doc.Content)
			meetingText.WriteString("\n")
		}
	}
	emails, meetings := emailText.String(), meetingText.String()
	if emails == "" || meetings == "" {
		return nil
	}

	var conflicts []model.Conflict
	conflicts = append(conflicts, matchOpposites(emails, meetings, mustPattern, cannotPattern,
		"Email states a hard requirement that meeting notes say cannot happen")...)
	conflicts = append(conflicts, matchOpposites(emails, meetings, approvedPattern, rejectedPattern,
		"Item approved in email but rejected in meeting")...)
	conflicts = append(conflicts, matchOpposites(meetings, emails, approvedPattern, rejectedPattern,
		"Item approved in meeting but rejected in email")...)

	if c := deadlineMismatch(emails, meetings); c != nil {
		conflicts = append(conflicts, *c)
	}
	return conflicts
}

// matchOpposites 把正向语句与反向语句配对。
// 短语互相包含，或首词相同（例如 "ship by March 1" 对 "ship before April 1"），视为同一对象。
func matchOpposites(posText, negText string, posPattern, negPattern *regexp.Regexp, description string) []model.Conflict {
	positives := capturePhrases(posText, posPattern)
	negatives := capturePhrases(negText, negPattern)

	var conflicts []model.Conflict
	for _, pos := range positives {
		for _, neg := range negatives {
			if !phrasesRefer(pos, neg) {
				continue
			}
			conflicts = append(conflicts, model.Conflict{
				Description: fmt.Sprintf("%s: %q vs %q", description, pos, neg),
				Severity:    model.SeverityCritical,
				Type:        "cross_channel",
				Item1:       pos,
				Item2:       neg,
			})
		}
	}
	return conflicts
}

func capturePhrases(text string, pattern *regexp.Regexp) []string {
	var phrases []string
	seen := map[string]bool{}
	for _, m := range pattern.FindAllStringSubmatch(text, -1) {
		p := strings.ToLower(strings.TrimSpace(m[1]))
		if p != "" && !seen[p] {
			seen[p] = true
			phrases = append(phrases, p)
		}
	}
	return phrases
}

func phrasesRefer(a, b string) bool {
	if strings.Contains(a, b) || strings.Contains(b, a) {
		return true
	}
	aFields, bFields := strings.Fields(a), strings.Fields(b)
	return len(aFields) > 0 && len(bFields) > 0 && aFields[0] == bFields[0]
}

func deadlineMismatch(emails, meetings string) *model.Conflict {
	em := deadlinePattern.FindStringSubmatch(emails)
	mm := deadlinePattern.FindStringSubmatch(meetings)
	if em == nil || mm == nil {
		return nil
	}
	emailDeadline := strings.TrimSpace(em[1])
	meetingDeadline := strings.TrimSpace(mm[1])
	if strings.EqualFold(emailDeadline, meetingDeadline) {
		return nil
	}
	return &model.Conflict{
		Description: fmt.Sprintf("Deadline mismatch across channels: email says %q, meeting says %q", emailDeadline, meetingDeadline),
		Severity:    model.SeverityCritical,
		Type:        "cross_channel",
		Item1:       emailDeadline,
		Item2:       meetingDeadline,
	}
}
