package model

import (
	"encoding/json"
	"strings"
)

// ChannelType 沟通渠道类型
type ChannelType string

const (
	ChannelEmail   ChannelType = "email"
	ChannelMeeting ChannelType = "meeting"
	ChannelChat    ChannelType = "chat"
)

// Valid 判断是否为已知渠道
func (c ChannelType) Valid() bool {
	switch c {
	case ChannelEmail, ChannelMeeting, ChannelChat:
		return true
	}
	return false
}

// Document 一条已采集的原始沟通记录。采集后不可变，提取过程不会修改它。
type Document struct {
	ID                 string      `json:"id"`
	Type               ChannelType `json:"type"`
	Subject            string      `json:"subject,omitempty"`
	Sender             string      `json:"sender,omitempty"`
	Recipients         []string    `json:"recipients,omitempty"`
	Content            string      `json:"content"`
	Timestamp          string      `json:"timestamp,omitempty"`
	SourceDataset      string      `json:"source_dataset,omitempty"`
	NoiseScore         float64     `json:"noise_score"`
	IsNoise            bool        `json:"is_noise"`
}

// Requirement 单条需求。LLM 可能返回纯字符串，也可能返回结构化对象，
// 解码时统一归一化为本类型，下游不再按表示形式分支。
type Requirement struct {
	ID           string        `json:"id,omitempty"`
	Text         string        `json:"text"`
	Type         string        `json:"type,omitempty"`
	Source       string        `json:"source,omitempty"`
	Status       string        `json:"status,omitempty"`
	Traceability *Traceability `json:"traceability,omitempty"`
}

// UnmarshalJSON 接受字符串或对象两种形式
func (r *Requirement) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		r.Text = s
		return nil
	}
	type plain Requirement
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*r = Requirement(p)
	return nil
}

// Traceability 需求溯源信息：来源渠道与来源文档元数据
type Traceability struct {
	SourceChannel ChannelType `json:"source_channel"`
	Sender        string      `json:"sender,omitempty"`
	Subject       string      `json:"subject,omitempty"`
	Timestamp     string      `json:"timestamp,omitempty"`
	Participants  []string    `json:"participants,omitempty"`
}

// Decision 单条决策
type Decision struct {
	Text          string      `json:"text"`
	Source        string      `json:"source,omitempty"`
	SourceChannel ChannelType `json:"source_channel,omitempty"`
	Status        string      `json:"status,omitempty"`
}

// UnmarshalJSON 接受字符串或对象两种形式
func (d *Decision) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		d.Text = s
		return nil
	}
	type plain Decision
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*d = Decision(p)
	return nil
}

// Stakeholder 干系人，按 name 去重
type Stakeholder struct {
	Name      string `json:"name"`
	Role      string `json:"role,omitempty"`
	Stance    string `json:"stance,omitempty"`
	Sentiment string `json:"sentiment,omitempty"`
}

// UnmarshalJSON 接受纯名字字符串或对象两种形式
func (s *Stakeholder) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		s.Name = name
		s.Role = "Unknown"
		return nil
	}
	type plain Stakeholder
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*s = Stakeholder(p)
	return nil
}

// Fill 仅填补空字段，不覆盖已有值
func (s *Stakeholder) Fill(other Stakeholder) {
	if s.Role == "" || s.Role == "Unknown" {
		if other.Role != "" {
			s.Role = other.Role
		}
	}
	if s.Stance == "" {
		s.Stance = other.Stance
	}
	if s.Sentiment == "" {
		s.Sentiment = other.Sentiment
	}
}

// TimelineItem 时间线条目，date 为自由文本，不解析为日历日期
type TimelineItem struct {
	Date          string      `json:"date"`
	Milestone     string      `json:"milestone"`
	SourceChannel ChannelType `json:"source_channel,omitempty"`
}

// Conflict 检测到的冲突
type Conflict struct {
	Description  string  `json:"description"`
	Severity     string  `json:"severity"`
	Type         string  `json:"type,omitempty"`
	Item1        string  `json:"item_1,omitempty"`
	Item2        string  `json:"item_2,omitempty"`
	PolarityDiff float64 `json:"polarity_diff,omitempty"`
}

// 冲突严重程度取值
const (
	SeverityLow      = "low"
	SeverityMedium   = "medium"
	SeverityHigh     = "high"
	SeverityCritical = "CRITICAL"
)

// Entities 正则提取出的实体集合
type Entities struct {
	Dates        []string      `json:"dates"`
	Emails       []string      `json:"emails"`
	People       []Stakeholder `json:"people"`
	ActionItems  []string      `json:"action_items"`
	Requirements []string      `json:"requirements"`
}

// BRD 一次提取（单文档或跨渠道合并）的结构化输出
type BRD struct {
	ChannelType         ChannelType       `json:"channel_type,omitempty"`
	ProjectTopic        string            `json:"project_topic"`
	ExecutionSummary    string            `json:"execution_summary,omitempty"`
	Requirements        []Requirement     `json:"requirements"`
	Decisions           []Decision        `json:"decisions"`
	Stakeholders        []Stakeholder     `json:"stakeholders"`
	Timelines           []TimelineItem    `json:"timelines"`
	Feedback            []string          `json:"feedback"`
	ActionItems         []string          `json:"action_items"`
	Conflicts           []Conflict        `json:"conflicts"`
	NoiseReductionLogic string            `json:"noise_reduction_logic,omitempty"`
	MermaidCode         string            `json:"mermaid_code,omitempty"`
	ProjectHealthScore  int               `json:"project_health_score"`
	MarkdownReport      string            `json:"markdown_report,omitempty"`
	NoiseScore          float64           `json:"noise_score"`
	ConfidenceScore     float64           `json:"confidence_score"`
	RawFilteredText     string            `json:"raw_filtered_text,omitempty"`
	RawLLMOutput        string            `json:"raw_llm_output,omitempty"`
	RefinementReasoning string            `json:"refinement_reasoning,omitempty"`
	ChangeSummary       string            `json:"change_summary,omitempty"`
	Source              *Traceability     `json:"source,omitempty"`
	StakeholderMap      *StakeholderMap   `json:"stakeholder_map,omitempty"`
	Synthesis           *SynthesisMeta    `json:"synthesis_metadata,omitempty"`
	Validation          *ValidationReport `json:"validation,omitempty"`
}

// HasRequirementText 按精确文本判断需求是否已存在
func (b *BRD) HasRequirementText(text string) bool {
	for _, r := range b.Requirements {
		if r.Text == text {
			return true
		}
	}
	return false
}

// HasStakeholder 按名字判断干系人是否已存在
func (b *BRD) HasStakeholder(name string) bool {
	for _, s := range b.Stakeholders {
		if s.Name == name {
			return true
		}
	}
	return false
}

// StakeholderInfluence 基于沟通元数据计算出的干系人影响力
type StakeholderInfluence struct {
	Name                 string  `json:"name"`
	InfluenceScore       float64 `json:"influence_score"`
	EmailInteractions    int     `json:"email_interactions"`
	MeetingParticipation int     `json:"meeting_participation"`
	Role                 string  `json:"role"`
}

// Relationship 干系人之间的沟通关系
type Relationship struct {
	From string `json:"from"`
	To   string `json:"to"`
	Type string `json:"type"`
}

// HierarchyLevel 组织层级
type HierarchyLevel struct {
	Level   string   `json:"level"`
	Members []string `json:"members"`
}

// StakeholderMap 干系人影响力图谱
type StakeholderMap struct {
	Stakeholders  []StakeholderInfluence `json:"stakeholders"`
	Relationships []Relationship         `json:"relationships"`
	Hierarchy     []HierarchyLevel       `json:"hierarchy_detected"`
}

// SynthesisStats 跨渠道合成统计
type SynthesisStats struct {
	EmailsLoaded          int `json:"emails_loaded"`
	EmailsFiltered        int `json:"emails_filtered"`
	MeetingsLoaded        int `json:"meetings_loaded"`
	RequirementsExtracted int `json:"requirements_extracted"`
	ConflictsDetected     int `json:"conflicts_detected"`
	CriticalConflicts     int `json:"critical_conflicts"`
}

// SynthesisMeta 合成元数据：时间戳、统计与过滤日志
type SynthesisMeta struct {
	Timestamp string         `json:"timestamp"`
	Stats     SynthesisStats `json:"stats"`
	Log       []string       `json:"synthesis_log,omitempty"`
}

// ImpactedStakeholder 情景模拟中受影响的干系人
type ImpactedStakeholder struct {
	Name         string `json:"name"`
	NewSentiment string `json:"new_sentiment"`
	Reason       string `json:"reason"`
}

// SimulationResult What-If 情景模拟结果，纯 LLM 输出，无确定性后处理
type SimulationResult struct {
	Analysis             string                `json:"analysis"`
	ImpactedStakeholders []ImpactedStakeholder `json:"impacted_stakeholders"`
	NewHealthScore       int                   `json:"new_health_score"`
	Advice               string                `json:"advice"`
}

// ValidationReport 抽取结果与人工摘要的词重叠校验
type ValidationReport struct {
	Precision       float64  `json:"precision"`
	Recall          float64  `json:"recall"`
	F1Score         float64  `json:"f1_score"`
	MatchedKeywords []string `json:"matched_keywords"`
}

// SummaryText 拼接需求与决策文本，供校验与主题归纳使用
func (b *BRD) SummaryText() string {
	var sb strings.Builder
	sb.WriteString(b.ProjectTopic)
	for _, r := range b.Requirements {
		sb.WriteString(" ")
		sb.WriteString(r.Text)
	}
	for _, d := range b.Decisions {
		sb.WriteString(" ")
		sb.WriteString(d.Text)
	}
	return sb.String()
}
