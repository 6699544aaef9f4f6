package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/cloudwego/eino-ext/components/model/openai"
	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"golang.org/x/time/rate"

	"github.com/iWorld-y/brd_agent/app/brd_agent/pkg/classify"
	"github.com/iWorld-y/brd_agent/app/brd_agent/pkg/config"
	"github.com/iWorld-y/brd_agent/app/brd_agent/pkg/conflict"
	"github.com/iWorld-y/brd_agent/app/brd_agent/pkg/ingest"
	"github.com/iWorld-y/brd_agent/app/brd_agent/pkg/logger"
	"github.com/iWorld-y/brd_agent/app/brd_agent/pkg/model"
	"github.com/iWorld-y/brd_agent/app/brd_agent/pkg/noise"
)

const (
	maxRetries = 3
	baseDelay  = 5 * time.Second
)

// Engine BRD 提取引擎。chatModel 为空时走纯正则降级模式。
type Engine struct {
	cfg       *config.Config
	chatModel einomodel.BaseChatModel
	scorer    *noise.Scorer
	limiter   *rate.Limiter
}

// NewEngine 按配置创建引擎，API Key 缺失时不建模型、只做正则提取
func NewEngine(ctx context.Context, cfg *config.Config) (*Engine, error) {
	e := &Engine{
		cfg:    cfg,
		scorer: noise.NewScorer(cfg.Pipeline.NoiseThreshold),
	}

	if cfg.LLM.APIKey == "" {
		logger.Log.Warn("no LLM api key configured, falling back to regex-only extraction")
		return e, nil
	}

	cm, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		BaseURL: cfg.LLM.BaseURL,
		APIKey:  cfg.LLM.APIKey,
		Model:   cfg.LLM.Model,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create chat model: %w", err)
	}
	e.chatModel = cm

	qps := cfg.Concurrency.QPS
	if qps <= 0 {
		qps = 1
	}
	rpm := cfg.Concurrency.RPM
	if rpm <= 0 {
		rpm = 60
	}
	e.limiter = rate.NewLimiter(rate.Limit(float64(rpm)/60.0), qps)

	return e, nil
}

// NewEngineWithModel 注入已有模型实例，测试用
func NewEngineWithModel(cfg *config.Config, cm einomodel.BaseChatModel) *Engine {
	return &Engine{
		cfg:       cfg,
		chatModel: cm,
		scorer:    noise.NewScorer(cfg.Pipeline.NoiseThreshold),
		limiter:   rate.NewLimiter(rate.Limit(100), 100),
	}
}

// Scorer 返回引擎内部的噪声评分器
func (e *Engine) Scorer() *noise.Scorer {
	return e.scorer
}

// HasModel 是否配置了 LLM
func (e *Engine) HasModel() bool {
	return e.chatModel != nil
}

// Extract 对单条沟通文本执行完整提取管线：
// 清洗 -> 噪声过滤 -> 分块 -> 模型提取 -> 分块合并 -> 实体补全 -> 冲突检测 -> 置信度。
// 内容问题不报错，只影响产出质量；空白输入得到置信度为 0 的空结果，
// 模型调用失败退化为对应分块的空结果，不中断管线。
func (e *Engine) Extract(ctx context.Context, text string, channel model.ChannelType) (*model.BRD, error) {
	if !channel.Valid() {
		channel = classify.Classify(text)
	}

	if strings.TrimSpace(text) == "" {
		brd := emptyBRD()
		brd.ChannelType = channel
		brd.ConfidenceScore = 0.0
		return brd, nil
	}

	cleaned := noise.CleanText(text)
	filtered, relevance := e.scorer.FilterRelevant(cleaned)
	noiseScore := 1.0 - relevance
	if noiseScore < 0 {
		noiseScore = 0
	}
	if filtered == "" {
		filtered = cleaned
	}

	var brd *model.BRD
	if e.chatModel == nil {
		brd = RegexExtract(filtered, "", channel)
	} else {
		brd = e.extractWithModel(ctx, filtered, channel)
		mergeEntities(brd, ingest.ExtractEntities(filtered))
	}

	if e.cfg.Pipeline.ConflictDetectionEnabled() && len(brd.Feedback) > 0 {
		brd.Conflicts = conflict.Detect(brd.Feedback)
	}

	brd.ChannelType = channel
	brd.NoiseScore = noiseScore
	brd.RawFilteredText = filtered
	brd.ConfidenceScore = ConfidenceScore(brd)

	logger.Log.Infof("extracted BRD: channel=%s requirements=%d decisions=%d confidence=%.2f",
		channel, len(brd.Requirements), len(brd.Decisions), brd.ConfidenceScore)
	return brd, nil
}

// extractWithModel 分块并行调用模型，再把分块结果合并
func (e *Engine) extractWithModel(ctx context.Context, text string, channel model.ChannelType) *model.BRD {
	size := e.cfg.Pipeline.ChunkSize
	if size <= 0 {
		size = ingest.DefaultChunkSize
	}
	overlap := e.cfg.Pipeline.ChunkOverlap
	if overlap <= 0 {
		overlap = ingest.DefaultChunkOverlap
	}

	chunks := ingest.Chunk(text, size, overlap)
	if len(chunks) == 0 {
		return emptyBRD()
	}
	if len(chunks) > 1 {
		logger.Log.Infof("text split into %d chunks for extraction", len(chunks))
	}

	results := make([]*model.BRD, len(chunks))
	var wg sync.WaitGroup
	for i, chunk := range chunks {
		wg.Add(1)
		go func(idx int, content string) {
			defer wg.Done()
			results[idx] = e.extractChunk(ctx, content, channel)
		}(i, chunk)
	}
	wg.Wait()

	if len(results) == 1 {
		return results[0]
	}
	return mergeChunkResults(results)
}

// extractChunk 单分块提取，模型调用失败时用空结果顶替该分块
func (e *Engine) extractChunk(ctx context.Context, content string, channel model.ChannelType) *model.BRD {
	raw, err := e.generate(ctx,
		extractSystemPrompt,
		fmt.Sprintf(extractUserPrompt, channel, content))
	if err != nil {
		logger.Log.Errorf("chunk extraction failed, substituting empty result: %v", err)
		return emptyBRD()
	}
	return parseBRD(raw)
}

// GenerateReport 基于已提取的 BRD 生成 markdown 报告
func (e *Engine) GenerateReport(ctx context.Context, brd *model.BRD) (string, error) {
	if e.chatModel == nil {
		return "", nil
	}
	payload, err := json.Marshal(brd)
	if err != nil {
		return "", err
	}
	return e.generate(ctx, reportSystemPrompt, string(payload))
}

// Refine 按指令精修 BRD。模型给出的结果为空（无需求也无决策）时原样返回输入。
func (e *Engine) Refine(ctx context.Context, brd *model.BRD, instruction string) (*model.BRD, error) {
	if e.chatModel == nil {
		return brd, nil
	}
	payload, err := json.Marshal(brd)
	if err != nil {
		return nil, err
	}

	raw, err := e.generate(ctx, refineSystemPrompt, fmt.Sprintf(refineUserPrompt, payload, instruction))
	if err != nil {
		return nil, err
	}

	refined := parseBRD(raw)
	if len(refined.Requirements) == 0 && len(refined.Decisions) == 0 {
		logger.Log.Warn("refinement produced an empty document, keeping original")
		return brd, nil
	}

	var extra struct {
		RefinementReasoning string `json:"refinement_reasoning"`
		ChangeSummary       string `json:"change_summary"`
	}
	_ = json.Unmarshal([]byte(stripFences(raw)), &extra)
	refined.RefinementReasoning = extra.RefinementReasoning
	refined.ChangeSummary = extra.ChangeSummary
	if refined.RefinementReasoning == "" {
		refined.RefinementReasoning = "Applied instruction: " + instruction
	}
	if refined.ChangeSummary == "" {
		refined.ChangeSummary = "Document refined"
	}
	refined.ConfidenceScore = ConfidenceScore(refined)
	return refined, nil
}

// Simulate 对 BRD 运行 What-If 情景模拟，结果完全来自模型
func (e *Engine) Simulate(ctx context.Context, brd *model.BRD, scenario string) (*model.SimulationResult, error) {
	if e.chatModel == nil {
		return nil, fmt.Errorf("scenario simulation requires a configured LLM")
	}
	payload, err := json.Marshal(brd)
	if err != nil {
		return nil, err
	}

	raw, err := e.generate(ctx, simulateSystemPrompt, fmt.Sprintf(simulateUserPrompt, payload, scenario))
	if err != nil {
		return nil, err
	}

	cleaned := stripFences(raw)
	if m := jsonObjectPattern.FindString(cleaned); m != "" {
		cleaned = m
	}
	var result model.SimulationResult
	if err := json.Unmarshal([]byte(cleaned), &result); err != nil {
		return nil, fmt.Errorf("failed to parse simulation result: %w", err)
	}
	return &result, nil
}

// generate 单次模型调用，带限流与指数退避重试
func (e *Engine) generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	messages := []*schema.Message{
		{Role: schema.System, Content: systemPrompt},
		{Role: schema.User, Content: userPrompt},
	}

	var lastErr error
	for i := 0; i <= maxRetries; i++ {
		if e.limiter != nil {
			if err := e.limiter.Wait(ctx); err != nil {
				return "", err
			}
		}

		resp, err := e.chatModel.Generate(ctx, messages)
		if err == nil {
			return resp.Content, nil
		}
		lastErr = err

		if !isRateLimited(err) {
			return "", fmt.Errorf("model generation failed: %w", err)
		}
		delay := baseDelay * time.Duration(1<<i)
		logger.Log.Warnf("rate limited by model provider, retrying in %v (attempt %d/%d)", delay, i+1, maxRetries)
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return "", fmt.Errorf("model generation failed after %d retries: %w", maxRetries, lastErr)
}

func isRateLimited(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "429") ||
		strings.Contains(msg, "too many requests") ||
		strings.Contains(msg, "resource_exhausted")
}
