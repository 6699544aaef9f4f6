package classify

import (
	"regexp"
	"strings"

	"github.com/iWorld-y/brd_agent/app/brd_agent/pkg/model"
)

// 邮件特征标记，在小写文本上做子串匹配
var emailMarkers = []string{
	"from:", "to:", "subject:", "cc:", "bcc:",
	"regards,", "best,", "sincerely,", "dear ",
}

// 会议纪要特征标记
var meetingMarkers = []string{
	"attendees:", "participants:", "meeting transcript",
	"facilitator:", "scrum master:", "minutes of meeting",
	"action items:", "agenda:", "discussed",
}

// 聊天记录特征，逐条正则计数
var chatPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\[\d{4}-\d{2}-\d{2}`),
	regexp.MustCompile(`@\w+:`),
	regexp.MustCompile(`#\w+.*channel`),
	regexp.MustCompile(`\d{1,2}:\d{2}\]?\s*@?\w+:`),
}

// Classify 根据结构特征识别沟通渠道类型。
// 三类特征各自计数，取命中最多的一类；全部为零时默认按邮件处理。
func Classify(text string) model.ChannelType {
	lower := strings.ToLower(text)

	emailScore := 0
	for _, m := range emailMarkers {
		if strings.Contains(lower, m) {
			emailScore++
		}
	}

	meetingScore := 0
	for _, m := range meetingMarkers {
		if strings.Contains(lower, m) {
			meetingScore++
		}
	}

	chatScore := 0
	for _, p := range chatPatterns {
		if p.MatchString(text) {
			chatScore++
		}
	}

	if meetingScore > emailScore && meetingScore >= chatScore {
		return model.ChannelMeeting
	}
	if chatScore > emailScore && chatScore > meetingScore {
		return model.ChannelChat
	}
	return model.ChannelEmail
}
