package ingest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	readability "github.com/go-shiori/go-readability"
	"github.com/google/uuid"

	"github.com/iWorld-y/brd_agent/app/brd_agent/pkg/classify"
	"github.com/iWorld-y/brd_agent/app/brd_agent/pkg/logger"
	"github.com/iWorld-y/brd_agent/app/brd_agent/pkg/model"
	"github.com/iWorld-y/brd_agent/app/brd_agent/pkg/noise"
)

// LoadDirectory 读取目录下的沟通文件并转为 Document。
// 支持 .txt/.md/.eml 纯文本与 .html（经 readability 提取正文），
// 单个文件失败只记日志不中断。
func LoadDirectory(dir string, scorer *noise.Scorer) ([]model.Document, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read input dir %s: %w", dir, err)
	}

	var docs []model.Document
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		switch ext {
		case ".txt", ".md", ".eml", ".html", ".htm":
		default:
			continue
		}

		path := filepath.Join(dir, entry.Name())
		doc, err := LoadFile(path, scorer)
		if err != nil {
			logger.Log.Warnf("skip %s: %v", entry.Name(), err)
			continue
		}
		docs = append(docs, doc)
	}

	logger.Log.Infof("loaded %d documents from %s", len(docs), dir)
	return docs, nil
}

// LoadFile 读取单个文件并完成渠道识别与噪声预评分
func LoadFile(path string, scorer *noise.Scorer) (model.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Document{}, err
	}
	text := string(data)

	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".html" || ext == ".htm" {
		article, err := readability.FromReader(strings.NewReader(text), nil)
		if err != nil {
			return model.Document{}, fmt.Errorf("readability parse failed: %w", err)
		}
		text = article.TextContent
	}

	return NewDocument(text, filepath.Base(path), scorer), nil
}

// NewDocument 从原始文本构建 Document：识别渠道、解析邮件头、打噪声分
func NewDocument(text, sourceName string, scorer *noise.Scorer) model.Document {
	channel := classify.Classify(text)

	var doc model.Document
	if channel == model.ChannelEmail {
		doc = ParseEmail(text)
	} else {
		doc = model.Document{Type: channel, Content: strings.TrimSpace(text)}
	}
	doc.ID = uuid.NewString()
	doc.SourceDataset = sourceName

	if scorer != nil {
		// 噪声分走 TF-IDF 相关度，噪声旗标走关键词启发
		doc.NoiseScore = scorer.Score(doc.Subject + " " + doc.Content)
		doc.IsNoise = scorer.IsNoise(doc.Subject + " " + doc.Content)
	}
	return doc
}
