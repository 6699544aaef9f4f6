package ingest

import (
	"regexp"
	"strings"

	"github.com/iWorld-y/brd_agent/app/brd_agent/pkg/model"
)

var (
	fromPattern    = regexp.MustCompile(`(?im)^From:\s*(.+)$`)
	toPattern      = regexp.MustCompile(`(?im)^To:\s*(.+)$`)
	ccPattern      = regexp.MustCompile(`(?im)^Cc:\s*(.+)$`)
	subjectPattern = regexp.MustCompile(`(?im)^Subject:\s*(.+)$`)
	datePattern    = regexp.MustCompile(`(?im)^Date:\s*(.+)$`)
)

// ParseEmail 从原始邮件文本解析头部与正文。
// 头部按第一个空行与正文分界；收件人只保留含 @ 的地址。
func ParseEmail(raw string) model.Document {
	header := raw
	body := ""
	if idx := strings.Index(raw, "\n\n"); idx >= 0 {
		header = raw[:idx]
		body = strings.TrimSpace(raw[idx+2:])
	}

	doc := model.Document{
		Type:    model.ChannelEmail,
		Content: body,
	}
	if m := fromPattern.FindStringSubmatch(header); m != nil {
		doc.Sender = strings.TrimSpace(m[1])
	}
	if m := subjectPattern.FindStringSubmatch(header); m != nil {
		doc.Subject = strings.TrimSpace(m[1])
	}
	if m := datePattern.FindStringSubmatch(header); m != nil {
		doc.Timestamp = strings.TrimSpace(m[1])
	}

	var recipients []string
	for _, p := range []*regexp.Regexp{toPattern, ccPattern} {
		if m := p.FindStringSubmatch(header); m != nil {
			for _, part := range strings.FieldsFunc(m[1], func(r rune) bool {
				return r == ',' || r == ';'
			}) {
				addr := strings.TrimSpace(part)
				if strings.Contains(addr, "@") {
					recipients = append(recipients, addr)
				}
			}
		}
	}
	doc.Recipients = recipients

	if body == "" {
		doc.Content = strings.TrimSpace(raw)
	}
	return doc
}
