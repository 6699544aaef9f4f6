package noise

// RelevanceKeywords 业务相关词表，同时作为 TF-IDF 查询文档
var RelevanceKeywords = []string{
	"requirement", "requirements", "must", "shall", "should", "need",
	"feature", "specification", "deadline", "timeline", "milestone",
	"stakeholder", "decision", "approved", "rejected", "budget",
	"priority", "scope", "deliverable", "objective", "constraint",
	"risk", "dependency", "acceptance criteria", "user story",
	"functional", "non-functional", "integration", "api", "database",
	"security", "performance", "scalability", "compliance",
	"action item", "feedback", "review", "approve", "sign-off",
	"phase", "sprint",
}

// NoiseKeywords 噪声词表，命中即提高噪声分
var NoiseKeywords = []string{
	"lunch", "newsletter", "happy hour", "birthday", "potluck",
	"parking", "weather", "sports", "fantasy football", "recipe",
	"vacation photos", "joke", "forward:", "fw:", "fyi",
	"out of office", "unsubscribe", "spam", "advertisement",
	"personal", "weekend plans", "social event",
}

// 英文停用词，TF-IDF 分词阶段过滤
var stopwords = map[string]bool{
	"a": true, "an": true, "and": true, "are": true, "as": true,
	"at": true, "be": true, "but": true, "by": true, "for": true,
	"from": true, "has": true, "have": true, "he": true, "in": true,
	"is": true, "it": true, "its": true, "of": true, "on": true,
	"or": true, "our": true, "she": true, "that": true, "the": true,
	"their": true, "they": true, "this": true, "to": true, "was": true,
	"we": true, "were": true, "will": true, "with": true, "you": true,
}
