package server

import (
	"context"
	"fmt"

	"github.com/go-kratos/kratos/v2/log"

	"github.com/iWorld-y/brd_agent/app/brd_agent/pkg/config"
	"github.com/iWorld-y/brd_agent/app/brd_agent/pkg/engine"
	agentLogger "github.com/iWorld-y/brd_agent/app/brd_agent/pkg/logger"
	"github.com/iWorld-y/brd_agent/app/display/internal/conf"
)

// NewAgentEngine 初始化 brd_agent 提取引擎
func NewAgentEngine(c *conf.Agent, logger log.Logger) (*engine.Engine, func(), error) {
	if c == nil {
		return nil, nil, fmt.Errorf("agent config section is missing")
	}

	// 将 internal/conf.Agent 转换为 pkg/config.Config，缺省的小节按零值处理
	agentCfg := &config.Config{}
	if c.Llm != nil {
		agentCfg.LLM = config.LLMConfig{
			BaseURL: c.Llm.BaseUrl,
			APIKey:  c.Llm.ApiKey,
			Model:   c.Llm.Model,
		}
	}
	if c.Log != nil {
		agentCfg.Log = config.LogConfig{
			Level: c.Log.Level,
			File:  c.Log.File,
		}
	}
	if c.Concurrency != nil {
		agentCfg.Concurrency = config.ConcurrencyConfig{
			QPS: int(c.Concurrency.Qps),
			RPM: int(c.Concurrency.Rpm),
		}
	}
	if c.Db != nil {
		agentCfg.DB = config.DBConfig{
			Host:     c.Db.Host,
			Port:     int(c.Db.Port),
			User:     c.Db.User,
			Password: c.Db.Password,
			Name:     c.Db.Name,
		}
	}
	if c.Pipeline != nil {
		agentCfg.Pipeline = config.PipelineConfig{
			ChunkSize:               int(c.Pipeline.ChunkSize),
			ChunkOverlap:            int(c.Pipeline.ChunkOverlap),
			NoiseThreshold:          c.Pipeline.NoiseThreshold,
			EnableConflictDetection: c.Pipeline.EnableConflictDetection,
			ProjectFilter:           c.Pipeline.ProjectFilter,
		}
	}

	// 初始化日志
	if err := agentLogger.InitLogger(agentCfg.Log.Level, agentCfg.Log.File); err != nil {
		log.NewHelper(logger).Errorf("Failed to init brd_agent logger: %v", err)
		_ = agentLogger.InitLogger("info", "") // 降级处理
	}

	// 初始化提取引擎
	eng, err := engine.NewEngine(context.Background(), agentCfg)
	if err != nil {
		log.NewHelper(logger).Errorf("Failed to init engine: %v", err)
		return nil, nil, err
	}

	cleanup := func() {
		log.NewHelper(logger).Info("Cleaning up brd_agent engine")
	}

	return eng, cleanup, nil
}
