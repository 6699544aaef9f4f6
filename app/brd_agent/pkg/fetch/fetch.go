package fetch

import (
	"context"
	"fmt"

	"github.com/iWorld-y/brd_agent/app/brd_agent/pkg/config"
	"github.com/iWorld-y/brd_agent/app/brd_agent/pkg/fireflies"
	"github.com/iWorld-y/brd_agent/app/brd_agent/pkg/model"
	"github.com/iWorld-y/brd_agent/app/brd_agent/pkg/slack"
)

// Fetcher 从外部渠道拉取沟通记录
type Fetcher interface {
	Fetch(ctx context.Context) ([]model.Document, error)
}

// NewFetcher 按渠道名创建抓取器
func NewFetcher(name string, cfg *config.Config) (Fetcher, error) {
	switch name {
	case "slack":
		return slack.NewClient(cfg.Channels.Slack), nil
	case "fireflies":
		return fireflies.NewClient(cfg.Channels.Fireflies), nil
	default:
		return nil, fmt.Errorf("unknown fetch channel: %s", name)
	}
}

// Enabled 返回配置中已启用的渠道名
func Enabled(cfg *config.Config) []string {
	var out []string
	if cfg.Channels.Slack.Token != "" && cfg.Channels.Slack.ChannelID != "" {
		out = append(out, "slack")
	}
	if cfg.Channels.Fireflies.APIKey != "" {
		out = append(out, "fireflies")
	}
	return out
}
