package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/lib/pq"

	"github.com/iWorld-y/brd_agent/app/brd_agent/pkg/config"
	"github.com/iWorld-y/brd_agent/app/brd_agent/pkg/logger"
	"github.com/iWorld-y/brd_agent/app/brd_agent/pkg/model"
)

// Store PostgreSQL 持久层，保存沟通记录与带版本号的提取结果
type Store struct {
	db *sql.DB
}

// NewStore 连接数据库并确保表结构存在
func NewStore(cfg config.DBConfig) (*Store, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name)
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &Store{db: db}
	if err := s.initSchema(); err != nil {
		return nil, err
	}
	logger.Log.Infof("connected to database %s@%s:%d", cfg.Name, cfg.Host, cfg.Port)
	return s, nil
}

// Close 关闭数据库连接
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) initSchema() error {
	schema := `
CREATE TABLE IF NOT EXISTS communications (
	id             TEXT PRIMARY KEY,
	channel_type   TEXT NOT NULL,
	subject        TEXT NOT NULL DEFAULT '',
	sender         TEXT NOT NULL DEFAULT '',
	recipients     TEXT[] NOT NULL DEFAULT '{}',
	content        TEXT NOT NULL,
	ts             TEXT NOT NULL DEFAULT '',
	source_dataset TEXT NOT NULL DEFAULT '',
	noise_score    DOUBLE PRECISION NOT NULL DEFAULT 0,
	is_noise       BOOLEAN NOT NULL DEFAULT FALSE,
	created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS brd_extractions (
	id            SERIAL PRIMARY KEY,
	comm_id       TEXT NOT NULL REFERENCES communications(id),
	version_num   INTEGER NOT NULL,
	project_topic TEXT NOT NULL DEFAULT '',
	confidence    DOUBLE PRECISION NOT NULL DEFAULT 0,
	payload       JSONB NOT NULL,
	search_vec    TSVECTOR,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	UNIQUE (comm_id, version_num)
);

CREATE INDEX IF NOT EXISTS idx_brd_extractions_search ON brd_extractions USING GIN (search_vec);
CREATE INDEX IF NOT EXISTS idx_brd_extractions_comm ON brd_extractions (comm_id, version_num DESC);
`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to init schema: %w", err)
	}
	return nil
}

// SaveCommunication 保存一条沟通记录，主键冲突时更新噪声评分
func (s *Store) SaveCommunication(ctx context.Context, doc model.Document) error {
	_, err := s.db.ExecContext(ctx, `
INSERT INTO communications (id, channel_type, subject, sender, recipients, content, ts, source_dataset, noise_score, is_noise)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
ON CONFLICT (id) DO UPDATE SET noise_score = EXCLUDED.noise_score, is_noise = EXCLUDED.is_noise`,
		doc.ID, doc.Type, doc.Subject, doc.Sender, pq.Array(doc.Recipients),
		doc.Content, doc.Timestamp, doc.SourceDataset, doc.NoiseScore, doc.IsNoise)
	if err != nil {
		return fmt.Errorf("failed to save communication %s: %w", doc.ID, err)
	}
	return nil
}

// SaveExtraction 保存提取结果。同一沟通记录的版本号在事务内取当前最大值加一，
// 首个版本为 1。返回本次写入的版本号。
func (s *Store) SaveExtraction(ctx context.Context, commID string, brd *model.BRD) (int, error) {
	payload, err := json.Marshal(brd)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal extraction: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	var version int
	err = tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(version_num), 0) + 1 FROM brd_extractions WHERE comm_id = $1`,
		commID).Scan(&version)
	if err != nil {
		return 0, fmt.Errorf("failed to allocate version: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
INSERT INTO brd_extractions (comm_id, version_num, project_topic, confidence, payload, search_vec)
VALUES ($1, $2, $3, $4, $5, to_tsvector('english', $3 || ' ' || $6))`,
		commID, version, brd.ProjectTopic, brd.ConfidenceScore, payload, brd.SummaryText())
	if err != nil {
		return 0, fmt.Errorf("failed to insert extraction: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	logger.Log.Infof("saved extraction for %s as version %d", commID, version)
	return version, nil
}

// GetExtraction 取指定沟通记录的指定版本，version <= 0 表示最新版本
func (s *Store) GetExtraction(ctx context.Context, commID string, version int) (*model.BRD, int, error) {
	query := `SELECT version_num, payload FROM brd_extractions WHERE comm_id = $1`
	args := []any{commID}
	if version > 0 {
		query += ` AND version_num = $2`
		args = append(args, version)
	} else {
		query += ` ORDER BY version_num DESC LIMIT 1`
	}

	var got int
	var payload []byte
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&got, &payload); err != nil {
		if err == sql.ErrNoRows {
			return nil, 0, fmt.Errorf("no extraction found for %s", commID)
		}
		return nil, 0, err
	}

	var brd model.BRD
	if err := json.Unmarshal(payload, &brd); err != nil {
		return nil, 0, fmt.Errorf("failed to decode extraction payload: %w", err)
	}
	return &brd, got, nil
}

// ExtractionSummary 提取结果列表项
type ExtractionSummary struct {
	CommID       string  `json:"comm_id"`
	Version      int     `json:"version"`
	ProjectTopic string  `json:"project_topic"`
	Confidence   float64 `json:"confidence"`
	CreatedAt    string  `json:"created_at"`
}

// ListExtractions 按时间倒序列出每条沟通记录的最新版本
func (s *Store) ListExtractions(ctx context.Context, limit int) ([]ExtractionSummary, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `
SELECT DISTINCT ON (comm_id) comm_id, version_num, project_topic, confidence, created_at::TEXT
FROM brd_extractions
ORDER BY comm_id, version_num DESC
LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ExtractionSummary
	for rows.Next() {
		var e ExtractionSummary
		if err := rows.Scan(&e.CommID, &e.Version, &e.ProjectTopic, &e.Confidence, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// SearchExtractions 全文检索，tsquery 优先，payload 子串匹配兜底
func (s *Store) SearchExtractions(ctx context.Context, query string, limit int) ([]ExtractionSummary, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
SELECT comm_id, version_num, project_topic, confidence, created_at::TEXT
FROM brd_extractions
WHERE search_vec @@ plainto_tsquery('english', $1)
   OR payload::TEXT ILIKE '%' || $1 || '%'
ORDER BY created_at DESC
LIMIT $2`, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ExtractionSummary
	for rows.Next() {
		var e ExtractionSummary
		if err := rows.Scan(&e.CommID, &e.Version, &e.ProjectTopic, &e.Confidence, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// GetCommunication 按 ID 取单条沟通记录
func (s *Store) GetCommunication(ctx context.Context, id string) (model.Document, error) {
	var d model.Document
	var recipients pq.StringArray
	err := s.db.QueryRowContext(ctx, `
SELECT id, channel_type, subject, sender, recipients, content, ts, source_dataset, noise_score, is_noise
FROM communications WHERE id = $1`, id).
		Scan(&d.ID, &d.Type, &d.Subject, &d.Sender, &recipients,
			&d.Content, &d.Timestamp, &d.SourceDataset, &d.NoiseScore, &d.IsNoise)
	if err != nil {
		if err == sql.ErrNoRows {
			return model.Document{}, fmt.Errorf("communication %s not found", id)
		}
		return model.Document{}, err
	}
	d.Recipients = recipients
	return d, nil
}

// GetCommunications 按采集时间倒序取沟通记录
func (s *Store) GetCommunications(ctx context.Context, limit int) ([]model.Document, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `
SELECT id, channel_type, subject, sender, recipients, content, ts, source_dataset, noise_score, is_noise
FROM communications
ORDER BY created_at DESC
LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Document
	for rows.Next() {
		var d model.Document
		var recipients pq.StringArray
		if err := rows.Scan(&d.ID, &d.Type, &d.Subject, &d.Sender, &recipients,
			&d.Content, &d.Timestamp, &d.SourceDataset, &d.NoiseScore, &d.IsNoise); err != nil {
			return nil, err
		}
		d.Recipients = recipients
		out = append(out, d)
	}
	return out, rows.Err()
}

// Stats 存量统计
type Stats struct {
	Communications int `json:"communications"`
	Extractions    int `json:"extractions"`
	NoiseDocuments int `json:"noise_documents"`
}

// GetStats 返回库内存量统计
func (s *Store) GetStats(ctx context.Context) (Stats, error) {
	var st Stats
	err := s.db.QueryRowContext(ctx, `
SELECT
	(SELECT COUNT(*) FROM communications),
	(SELECT COUNT(*) FROM brd_extractions),
	(SELECT COUNT(*) FROM communications WHERE is_noise)`).
		Scan(&st.Communications, &st.Extractions, &st.NoiseDocuments)
	if err != nil {
		return Stats{}, fmt.Errorf("failed to query stats: %w", err)
	}
	return st, nil
}
