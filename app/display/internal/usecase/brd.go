package usecase

import (
	"context"
	"fmt"

	"github.com/go-kratos/kratos/v2/log"

	"github.com/iWorld-y/brd_agent/app/brd_agent/pkg/ingest"
	"github.com/iWorld-y/brd_agent/app/brd_agent/pkg/model"
	"github.com/iWorld-y/brd_agent/app/brd_agent/pkg/noise"
	"github.com/iWorld-y/brd_agent/app/display/internal/domain"
	"github.com/iWorld-y/brd_agent/app/display/internal/repo"
)

// Extractor BRD 提取引擎能力
type Extractor interface {
	Extract(ctx context.Context, text string, channel model.ChannelType) (*model.BRD, error)
	Refine(ctx context.Context, brd *model.BRD, instruction string) (*model.BRD, error)
	Simulate(ctx context.Context, brd *model.BRD, scenario string) (*model.SimulationResult, error)
	GenerateReport(ctx context.Context, brd *model.BRD) (string, error)
}

// BRDUseCase BRD 业务逻辑
type BRDUseCase struct {
	repo      repo.BRDRepo
	extractor Extractor
	scorer    *noise.Scorer
	log       *log.Helper
}

// NewBRDUseCase 创建 BRD 业务逻辑实例
func NewBRDUseCase(repo repo.BRDRepo, extractor Extractor, scorer *noise.Scorer, logger log.Logger) *BRDUseCase {
	return &BRDUseCase{
		repo:      repo,
		extractor: extractor,
		scorer:    scorer,
		log:       log.NewHelper(logger),
	}
}

// ProcessText 对一段文本即席提取，不落库。channel 为空时由引擎自行识别。
func (uc *BRDUseCase) ProcessText(ctx context.Context, text string, channel model.ChannelType) (*model.BRD, error) {
	brd, err := uc.extractor.Extract(ctx, text, channel)
	if err != nil {
		return nil, err
	}
	if report, err := uc.extractor.GenerateReport(ctx, brd); err == nil {
		brd.MarkdownReport = report
	} else {
		uc.log.Warnf("markdown report generation failed: %v", err)
	}
	return brd, nil
}

// IngestInput 入库参数，除 Content 外均可缺省
type IngestInput struct {
	Type       model.ChannelType
	Subject    string
	Sender     string
	Recipients []string
	Content    string
	Source     string
}

// Ingest 入库一条原始沟通记录，返回生成的文档。
// 渠道与邮件头先从正文推断，调用方显式给出的元数据优先。
func (uc *BRDUseCase) Ingest(ctx context.Context, in IngestInput) (model.Document, error) {
	source := in.Source
	if source == "" {
		source = "api"
	}
	doc := ingest.NewDocument(in.Content, source, uc.scorer)
	if in.Type.Valid() {
		doc.Type = in.Type
	}
	if in.Subject != "" {
		doc.Subject = in.Subject
	}
	if in.Sender != "" {
		doc.Sender = in.Sender
	}
	if len(in.Recipients) > 0 {
		doc.Recipients = in.Recipients
	}
	if err := uc.repo.SaveCommunication(ctx, doc); err != nil {
		return model.Document{}, err
	}
	return doc, nil
}

// Process 对已入库的沟通记录执行提取并保存为新版本
func (uc *BRDUseCase) Process(ctx context.Context, commID string) (*model.BRD, int, error) {
	doc, err := uc.repo.GetCommunication(ctx, commID)
	if err != nil {
		return nil, 0, err
	}

	text := doc.Content
	if doc.Type == model.ChannelEmail && doc.Subject != "" {
		text = "Subject: " + doc.Subject + "\n\n" + doc.Content
	}
	brd, err := uc.extractor.Extract(ctx, text, doc.Type)
	if err != nil {
		return nil, 0, err
	}
	brd.Source = &model.Traceability{
		SourceChannel: doc.Type,
		Sender:        doc.Sender,
		Subject:       doc.Subject,
		Timestamp:     doc.Timestamp,
		Participants:  doc.Recipients,
	}

	version, err := uc.repo.SaveExtraction(ctx, commID, brd)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to persist extraction: %w", err)
	}
	return brd, version, nil
}

// Get 取提取结果，version <= 0 表示最新版本
func (uc *BRDUseCase) Get(ctx context.Context, commID string, version int) (*model.BRD, int, error) {
	return uc.repo.GetExtraction(ctx, commID, version)
}

// List 列出最新提取结果
func (uc *BRDUseCase) List(ctx context.Context, limit int) ([]*domain.BRDSummary, error) {
	return uc.repo.ListExtractions(ctx, limit)
}

// Search 全文检索提取结果
func (uc *BRDUseCase) Search(ctx context.Context, query string, limit int) ([]*domain.BRDSummary, error) {
	return uc.repo.SearchExtractions(ctx, query, limit)
}

// Refine 按指令精修最新版本并另存为新版本
func (uc *BRDUseCase) Refine(ctx context.Context, commID, instruction string) (*model.BRD, int, error) {
	brd, _, err := uc.repo.GetExtraction(ctx, commID, 0)
	if err != nil {
		return nil, 0, err
	}
	refined, err := uc.extractor.Refine(ctx, brd, instruction)
	if err != nil {
		return nil, 0, err
	}
	version, err := uc.repo.SaveExtraction(ctx, commID, refined)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to persist refined extraction: %w", err)
	}
	return refined, version, nil
}

// Simulate 对最新版本运行 What-If 情景模拟，不落库
func (uc *BRDUseCase) Simulate(ctx context.Context, commID, scenario string) (*model.SimulationResult, error) {
	brd, _, err := uc.repo.GetExtraction(ctx, commID, 0)
	if err != nil {
		return nil, err
	}
	return uc.extractor.Simulate(ctx, brd, scenario)
}

// Stats 看板统计
func (uc *BRDUseCase) Stats(ctx context.Context) (domain.Stats, error) {
	return uc.repo.GetStats(ctx)
}
