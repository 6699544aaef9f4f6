package engine

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/iWorld-y/brd_agent/app/brd_agent/pkg/logger"
	"github.com/iWorld-y/brd_agent/app/brd_agent/pkg/model"
)

// 解析失败时的兜底流程图
const fallbackMermaid = `flowchart TD
    A[Raw Communications] --> B[Noise Filtering]
    B --> C[Requirement Extraction]
    C --> D[Business Requirements Document]`

var jsonObjectPattern = regexp.MustCompile(`\{[\s\S]*\}`)

// llmBRD 模型返回的原始载荷
type llmBRD struct {
	ProjectTopic        string               `json:"project_topic"`
	Requirements        []model.Requirement  `json:"requirements"`
	Decisions           []model.Decision     `json:"decisions"`
	Stakeholders        []model.Stakeholder  `json:"stakeholders"`
	Timelines           []model.TimelineItem `json:"timelines"`
	Feedback            []string             `json:"feedback"`
	ActionItems         []string             `json:"action_items"`
	NoiseReductionLogic string               `json:"noise_reduction_logic"`
	MermaidCode         string               `json:"mermaid_code"`
	ProjectHealthScore  int                  `json:"project_health_score"`
}

// stripFences 去掉模型输出常见的 markdown 代码围栏
func stripFences(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// parseBRD 解析模型输出。围栏剥离后先截取首个 JSON 对象再严格反序列化；
// 彻底失败时返回空模板并保留原始输出，不向上抛错。
func parseBRD(raw string) *model.BRD {
	cleaned := stripFences(raw)
	if m := jsonObjectPattern.FindString(cleaned); m != "" {
		cleaned = m
	}

	var payload llmBRD
	if err := json.Unmarshal([]byte(cleaned), &payload); err != nil {
		logger.Log.Warnf("failed to parse model output as JSON: %v", err)
		brd := emptyBRD()
		brd.RawLLMOutput = raw
		return brd
	}

	brd := &model.BRD{
		ProjectTopic:        payload.ProjectTopic,
		Requirements:        payload.Requirements,
		Decisions:           payload.Decisions,
		Stakeholders:        payload.Stakeholders,
		Timelines:           payload.Timelines,
		Feedback:            payload.Feedback,
		ActionItems:         payload.ActionItems,
		NoiseReductionLogic: payload.NoiseReductionLogic,
		MermaidCode:         payload.MermaidCode,
		ProjectHealthScore:  payload.ProjectHealthScore,
	}
	if brd.ProjectHealthScore == 0 {
		brd.ProjectHealthScore = 85
	}
	return brd
}

// emptyBRD 空模板：所有列表为空，健康分给默认值，流程图用兜底版本
func emptyBRD() *model.BRD {
	return &model.BRD{
		Requirements:       []model.Requirement{},
		Decisions:          []model.Decision{},
		Stakeholders:       []model.Stakeholder{},
		Timelines:          []model.TimelineItem{},
		Feedback:           []string{},
		ActionItems:        []string{},
		Conflicts:          []model.Conflict{},
		MermaidCode:        fallbackMermaid,
		ProjectHealthScore: 85,
	}
}
