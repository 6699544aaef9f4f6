package noise

import (
	"regexp"
	"strings"
)

var (
	signatureMarker = regexp.MustCompile(`(?im)^\s*(--|__|—|best,|regards,|thanks,|cheers,|sincerely,)\s*$`)
	quotedLine      = regexp.MustCompile(`(?m)^\s*[>|].*$`)
	disclaimerLine  = regexp.MustCompile(`(?im)^.*(this (e-?mail|message) (and any attachments )?(is|are|may be) confidential|intended solely for|do not reply to this|unsubscribe from this list).*$`)
	blankRuns       = regexp.MustCompile(`\n{3,}`)
	spaceRuns       = regexp.MustCompile(`[ \t]{2,}`)
)

// CleanText 去除邮件签名、引用行与免责声明，并压缩多余空白。
// 签名分隔线之后的内容整体丢弃。
func CleanText(text string) string {
	if loc := signatureMarker.FindStringIndex(text); loc != nil {
		text = text[:loc[0]]
	}
	text = quotedLine.ReplaceAllString(text, "")
	text = disclaimerLine.ReplaceAllString(text, "")
	text = spaceRuns.ReplaceAllString(text, " ")
	text = blankRuns.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}
