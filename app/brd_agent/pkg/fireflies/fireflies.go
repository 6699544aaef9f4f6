package fireflies

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/iWorld-y/brd_agent/app/brd_agent/pkg/config"
	"github.com/iWorld-y/brd_agent/app/brd_agent/pkg/logger"
	"github.com/iWorld-y/brd_agent/app/brd_agent/pkg/model"
)

const apiURL = "https://api.fireflies.ai/graphql"

// Client Fireflies.ai 会议纪要抓取客户端
type Client struct {
	cfg        config.FirefliesConfig
	httpClient *http.Client
}

// NewClient 创建 Fireflies 客户端
func NewClient(cfg config.FirefliesConfig) *Client {
	if cfg.Limit <= 0 {
		cfg.Limit = 10
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

const transcriptsQuery = `
query Transcripts($limit: Int) {
  transcripts(limit: $limit) {
    id
    title
    date
    participants
    sentences {
      speaker_name
      text
    }
  }
}`

type graphqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

type transcriptsResponse struct {
	Data struct {
		Transcripts []struct {
			ID           string   `json:"id"`
			Title        string   `json:"title"`
			Date         string   `json:"date"`
			Participants []string `json:"participants"`
			Sentences    []struct {
				SpeakerName string `json:"speaker_name"`
				Text        string `json:"text"`
			} `json:"sentences"`
		} `json:"transcripts"`
	} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// Fetch 拉取会议转写，每场会议生成一条 meeting 文档
func (c *Client) Fetch(ctx context.Context) ([]model.Document, error) {
	body, err := json.Marshal(graphqlRequest{
		Query:     transcriptsQuery,
		Variables: map[string]any{"limit": c.cfg.Limit},
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fireflies request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fireflies returned status %d", resp.StatusCode)
	}

	var payload transcriptsResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode fireflies response: %w", err)
	}
	if len(payload.Errors) > 0 {
		return nil, fmt.Errorf("fireflies api error: %s", payload.Errors[0].Message)
	}

	var docs []model.Document
	for _, t := range payload.Data.Transcripts {
		var sb strings.Builder
		fmt.Fprintf(&sb, "Meeting Transcript: %s\n", t.Title)
		if len(t.Participants) > 0 {
			fmt.Fprintf(&sb, "Participants: %s\n", strings.Join(t.Participants, ", "))
		}
		sb.WriteString("\n")
		for _, s := range t.Sentences {
			fmt.Fprintf(&sb, "%s: %s\n", s.SpeakerName, s.Text)
		}

		docs = append(docs, model.Document{
			ID:            uuid.NewString(),
			Type:          model.ChannelMeeting,
			Subject:       t.Title,
			Content:       sb.String(),
			Timestamp:     t.Date,
			Recipients:    t.Participants,
			SourceDataset: "fireflies:" + t.ID,
		})
	}
	logger.Log.Infof("fetched %d meeting transcripts from fireflies", len(docs))
	return docs, nil
}
