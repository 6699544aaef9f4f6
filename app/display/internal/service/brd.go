package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-kratos/kratos/v2/log"

	"github.com/iWorld-y/brd_agent/app/brd_agent/pkg/model"
	"github.com/iWorld-y/brd_agent/app/display/internal/domain"
	"github.com/iWorld-y/brd_agent/app/display/internal/usecase"
)

// 入库内容的最短长度
const minIngestContentLen = 10

// BRDService BRD 展示服务
type BRDService struct {
	uc  *usecase.BRDUseCase
	log *log.Helper
}

// NewBRDService 创建展示服务实例
func NewBRDService(uc *usecase.BRDUseCase, logger log.Logger) *BRDService {
	return &BRDService{uc: uc, log: log.NewHelper(logger)}
}

// ProcessTextReq 即席提取请求，channel_type 缺省时自动识别
type ProcessTextReq struct {
	Text        string            `json:"text"`
	ChannelType model.ChannelType `json:"channel_type,omitempty"`
}

// ProcessText 对一段文本即席提取
func (s *BRDService) ProcessText(ctx context.Context, req *ProcessTextReq) (*model.BRD, error) {
	if strings.TrimSpace(req.Text) == "" {
		return nil, fmt.Errorf("text is required")
	}
	if req.ChannelType != "" && !req.ChannelType.Valid() {
		return nil, fmt.Errorf("channel_type must be email, meeting or chat")
	}
	return s.uc.ProcessText(ctx, req.Text, req.ChannelType)
}

// IngestReq 入库请求，content 之外的元数据字段可缺省
type IngestReq struct {
	Type       model.ChannelType `json:"type,omitempty"`
	Subject    string            `json:"subject,omitempty"`
	Sender     string            `json:"sender,omitempty"`
	Recipients []string          `json:"recipients,omitempty"`
	Content    string            `json:"content"`
	Source     string            `json:"source,omitempty"`
}

// IngestReply 入库响应
type IngestReply struct {
	ID          string            `json:"id"`
	ChannelType model.ChannelType `json:"channel_type"`
	IsNoise     bool              `json:"is_noise"`
	NoiseScore  float64           `json:"noise_score"`
}

// Ingest 入库一条原始沟通记录
func (s *BRDService) Ingest(ctx context.Context, req *IngestReq) (*IngestReply, error) {
	if len(strings.TrimSpace(req.Content)) < minIngestContentLen {
		return nil, fmt.Errorf("content must be at least %d characters", minIngestContentLen)
	}
	if req.Type != "" && !req.Type.Valid() {
		return nil, fmt.Errorf("type must be email, meeting or chat")
	}
	doc, err := s.uc.Ingest(ctx, usecase.IngestInput{
		Type:       req.Type,
		Subject:    req.Subject,
		Sender:     req.Sender,
		Recipients: req.Recipients,
		Content:    req.Content,
		Source:     req.Source,
	})
	if err != nil {
		return nil, err
	}
	return &IngestReply{
		ID:          doc.ID,
		ChannelType: doc.Type,
		IsNoise:     doc.IsNoise,
		NoiseScore:  doc.NoiseScore,
	}, nil
}

// ExtractionReply 带版本号的提取结果
type ExtractionReply struct {
	Version int        `json:"version"`
	BRD     *model.BRD `json:"brd"`
}

// Process 对已入库记录执行提取
func (s *BRDService) Process(ctx context.Context, commID string) (*ExtractionReply, error) {
	if commID == "" {
		return nil, fmt.Errorf("id is required")
	}
	brd, version, err := s.uc.Process(ctx, commID)
	if err != nil {
		return nil, err
	}
	return &ExtractionReply{Version: version, BRD: brd}, nil
}

// Get 取提取结果
func (s *BRDService) Get(ctx context.Context, commID string, version int) (*ExtractionReply, error) {
	if commID == "" {
		return nil, fmt.Errorf("id is required")
	}
	brd, got, err := s.uc.Get(ctx, commID, version)
	if err != nil {
		return nil, err
	}
	return &ExtractionReply{Version: got, BRD: brd}, nil
}

// ListReply 摘要列表
type ListReply struct {
	Items []*domain.BRDSummary `json:"items"`
	Total int                  `json:"total"`
}

// List 列出最新提取结果
func (s *BRDService) List(ctx context.Context, limit int) (*ListReply, error) {
	items, err := s.uc.List(ctx, limit)
	if err != nil {
		return nil, err
	}
	return &ListReply{Items: items, Total: len(items)}, nil
}

// Search 全文检索
func (s *BRDService) Search(ctx context.Context, query string, limit int) (*ListReply, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("q is required")
	}
	items, err := s.uc.Search(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	return &ListReply{Items: items, Total: len(items)}, nil
}

// RefineReq 精修请求
type RefineReq struct {
	ID          string `json:"id"`
	Instruction string `json:"instruction"`
}

// Refine 精修最新版本
func (s *BRDService) Refine(ctx context.Context, req *RefineReq) (*ExtractionReply, error) {
	if req.ID == "" || strings.TrimSpace(req.Instruction) == "" {
		return nil, fmt.Errorf("id and instruction are required")
	}
	brd, version, err := s.uc.Refine(ctx, req.ID, req.Instruction)
	if err != nil {
		return nil, err
	}
	return &ExtractionReply{Version: version, BRD: brd}, nil
}

// SimulateReq 情景模拟请求
type SimulateReq struct {
	ID       string `json:"id"`
	Scenario string `json:"scenario"`
}

// Simulate 运行 What-If 情景模拟
func (s *BRDService) Simulate(ctx context.Context, req *SimulateReq) (*model.SimulationResult, error) {
	if req.ID == "" || strings.TrimSpace(req.Scenario) == "" {
		return nil, fmt.Errorf("id and scenario are required")
	}
	return s.uc.Simulate(ctx, req.ID, req.Scenario)
}

// Stats 看板统计
func (s *BRDService) Stats(ctx context.Context) (domain.Stats, error) {
	return s.uc.Stats(ctx)
}
