package domain

// BRDSummary 提取结果摘要信息
type BRDSummary struct {
	CommID       string
	Version      int
	ProjectTopic string
	Confidence   float64
	CreatedAt    string
}

// Stats 看板统计
type Stats struct {
	Communications int
	Extractions    int
	NoiseDocuments int
}
