package repo

import (
	"context"

	"github.com/iWorld-y/brd_agent/app/brd_agent/pkg/model"
	"github.com/iWorld-y/brd_agent/app/display/internal/domain"
)

// BRDRepo BRD 仓库接口
type BRDRepo interface {
	// SaveCommunication 保存沟通记录
	SaveCommunication(ctx context.Context, doc model.Document) error
	// GetCommunication 按 ID 取沟通记录
	GetCommunication(ctx context.Context, id string) (model.Document, error)
	// SaveExtraction 保存提取结果并返回版本号
	SaveExtraction(ctx context.Context, commID string, brd *model.BRD) (int, error)
	// GetExtraction 取指定版本的提取结果，version <= 0 表示最新版本
	GetExtraction(ctx context.Context, commID string, version int) (*model.BRD, int, error)
	// ListExtractions 列出各沟通记录的最新提取结果
	ListExtractions(ctx context.Context, limit int) ([]*domain.BRDSummary, error)
	// SearchExtractions 全文检索提取结果
	SearchExtractions(ctx context.Context, query string, limit int) ([]*domain.BRDSummary, error)
	// GetStats 看板统计
	GetStats(ctx context.Context) (domain.Stats, error)
}
