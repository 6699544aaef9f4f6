package data

import (
	"context"

	"github.com/go-kratos/kratos/v2/log"

	"github.com/iWorld-y/brd_agent/app/brd_agent/pkg/model"
	"github.com/iWorld-y/brd_agent/app/brd_agent/pkg/storage"
	"github.com/iWorld-y/brd_agent/app/display/internal/domain"
	"github.com/iWorld-y/brd_agent/app/display/internal/repo"
)

type brdRepo struct {
	data *Data
	log  *log.Helper
}

// NewBRDRepo 创建 BRD 仓库实现
func NewBRDRepo(data *Data, logger log.Logger) repo.BRDRepo {
	return &brdRepo{
		data: data,
		log:  log.NewHelper(logger),
	}
}

func (r *brdRepo) SaveCommunication(ctx context.Context, doc model.Document) error {
	return r.data.store.SaveCommunication(ctx, doc)
}

func (r *brdRepo) GetCommunication(ctx context.Context, id string) (model.Document, error) {
	return r.data.store.GetCommunication(ctx, id)
}

func (r *brdRepo) SaveExtraction(ctx context.Context, commID string, brd *model.BRD) (int, error) {
	return r.data.store.SaveExtraction(ctx, commID, brd)
}

func (r *brdRepo) GetExtraction(ctx context.Context, commID string, version int) (*model.BRD, int, error) {
	return r.data.store.GetExtraction(ctx, commID, version)
}

func (r *brdRepo) ListExtractions(ctx context.Context, limit int) ([]*domain.BRDSummary, error) {
	rows, err := r.data.store.ListExtractions(ctx, limit)
	if err != nil {
		return nil, err
	}
	return toSummaries(rows), nil
}

func (r *brdRepo) SearchExtractions(ctx context.Context, query string, limit int) ([]*domain.BRDSummary, error) {
	rows, err := r.data.store.SearchExtractions(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	return toSummaries(rows), nil
}

func (r *brdRepo) GetStats(ctx context.Context) (domain.Stats, error) {
	st, err := r.data.store.GetStats(ctx)
	if err != nil {
		return domain.Stats{}, err
	}
	return domain.Stats{
		Communications: st.Communications,
		Extractions:    st.Extractions,
		NoiseDocuments: st.NoiseDocuments,
	}, nil
}

func toSummaries(rows []storage.ExtractionSummary) []*domain.BRDSummary {
	out := make([]*domain.BRDSummary, 0, len(rows))
	for _, row := range rows {
		out = append(out, &domain.BRDSummary{
			CommID:       row.CommID,
			Version:      row.Version,
			ProjectTopic: row.ProjectTopic,
			Confidence:   row.Confidence,
			CreatedAt:    row.CreatedAt,
		})
	}
	return out
}
