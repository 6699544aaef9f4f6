package slack

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/iWorld-y/brd_agent/app/brd_agent/pkg/config"
	"github.com/iWorld-y/brd_agent/app/brd_agent/pkg/logger"
	"github.com/iWorld-y/brd_agent/app/brd_agent/pkg/model"
)

const apiBaseURL = "https://slack.com/api"

// Client Slack 频道历史抓取客户端
type Client struct {
	cfg        config.SlackConfig
	httpClient *http.Client
}

// NewClient 创建 Slack 客户端
func NewClient(cfg config.SlackConfig) *Client {
	if cfg.Limit <= 0 {
		cfg.Limit = 100
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

type historyResponse struct {
	OK       bool   `json:"ok"`
	Error    string `json:"error"`
	Messages []struct {
		Type string `json:"type"`
		User string `json:"user"`
		Text string `json:"text"`
		TS   string `json:"ts"`
	} `json:"messages"`
}

// Fetch 拉取频道历史并拼成一条聊天记录文档，消息按时间正序排列
func (c *Client) Fetch(ctx context.Context) ([]model.Document, error) {
	params := url.Values{}
	params.Set("channel", c.cfg.ChannelID)
	params.Set("limit", strconv.Itoa(c.cfg.Limit))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		apiBaseURL+"/conversations.history?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.Token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("slack request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("slack returned status %d", resp.StatusCode)
	}

	var history historyResponse
	if err := json.NewDecoder(resp.Body).Decode(&history); err != nil {
		return nil, fmt.Errorf("failed to decode slack response: %w", err)
	}
	if !history.OK {
		return nil, fmt.Errorf("slack api error: %s", history.Error)
	}
	if len(history.Messages) == 0 {
		return nil, nil
	}

	// 接口返回新消息在前，倒序还原对话顺序
	var sb strings.Builder
	for i := len(history.Messages) - 1; i >= 0; i-- {
		m := history.Messages[i]
		if m.Type != "message" || m.Text == "" {
			continue
		}
		fmt.Fprintf(&sb, "[%s] @%s: %s\n", formatTS(m.TS), m.User, m.Text)
	}

	doc := model.Document{
		ID:            uuid.NewString(),
		Type:          model.ChannelChat,
		Content:       sb.String(),
		SourceDataset: "slack:" + c.cfg.ChannelID,
	}
	logger.Log.Infof("fetched %d slack messages from channel %s", len(history.Messages), c.cfg.ChannelID)
	return []model.Document{doc}, nil
}

// formatTS Slack 的 ts 是 "秒.序号" 字符串，转成可读时间
func formatTS(ts string) string {
	sec, _, found := strings.Cut(ts, ".")
	if !found {
		sec = ts
	}
	n, err := strconv.ParseInt(sec, 10, 64)
	if err != nil {
		return ts
	}
	return time.Unix(n, 0).UTC().Format("2006-01-02 15:04")
}
