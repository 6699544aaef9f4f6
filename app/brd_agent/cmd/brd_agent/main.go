package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"
	"path/filepath"

	"github.com/iWorld-y/brd_agent/app/brd_agent/pkg/config"
	"github.com/iWorld-y/brd_agent/app/brd_agent/pkg/engine"
	"github.com/iWorld-y/brd_agent/app/brd_agent/pkg/fetch"
	"github.com/iWorld-y/brd_agent/app/brd_agent/pkg/ingest"
	"github.com/iWorld-y/brd_agent/app/brd_agent/pkg/logger"
	"github.com/iWorld-y/brd_agent/app/brd_agent/pkg/model"
	"github.com/iWorld-y/brd_agent/app/brd_agent/pkg/storage"
	"github.com/iWorld-y/brd_agent/app/brd_agent/pkg/synthesis"
)

func main() {
	confPath := flag.String("conf", "configs/config.yaml", "config path")
	flag.Parse()

	// 1. 加载配置
	cfg, err := config.LoadConfig(*confPath)
	if err != nil {
		log.Fatalf("无法加载配置文件: %v", err)
	}

	// 2. 初始化日志
	if err = logger.InitLogger(cfg.Log.Level, cfg.Log.File); err != nil {
		log.Fatalf("无法初始化日志: %v", err)
	}
	logger.Log.Info("启动 BRD 提取代理...")

	ctx := context.Background()

	// 初始化数据库连接
	// 如果配置了数据库信息，则尝试连接；失败时仅输出文件
	var store *storage.Store
	if cfg.DB.Host != "" {
		s, err := storage.NewStore(cfg.DB)
		if err != nil {
			logger.Log.Errorf("无法连接数据库: %v. 将仅生成 JSON 文件。", err)
		} else {
			store = s
			defer store.Close()
		}
	} else {
		logger.Log.Info("未配置数据库信息，跳过数据库连接")
	}

	// 3. 初始化提取引擎（内含 LLM 与限流器）
	eng, err := engine.NewEngine(ctx, cfg)
	if err != nil {
		logger.Log.Fatalf("引擎初始化失败: %v", err)
	}

	// 4. 加载本地沟通文件
	var docs []model.Document
	if cfg.InputDir != "" {
		loaded, err := ingest.LoadDirectory(cfg.InputDir, eng.Scorer())
		if err != nil {
			logger.Log.Fatalf("加载输入目录失败: %v", err)
		}
		docs = append(docs, loaded...)
	}

	// 5. 抓取已配置的外部渠道
	for _, name := range fetch.Enabled(cfg) {
		fetcher, err := fetch.NewFetcher(name, cfg)
		if err != nil {
			logger.Log.Errorf("创建抓取器失败 [%s]: %v", name, err)
			continue
		}
		fetched, err := fetcher.Fetch(ctx)
		if err != nil {
			logger.Log.Errorf("渠道抓取失败 [%s]: %v", name, err)
			continue
		}
		docs = append(docs, fetched...)
	}

	if len(docs) == 0 {
		logger.Log.Fatal("没有可处理的沟通记录，请配置 input_dir 或抓取渠道")
	}

	// 入库原始沟通记录
	if store != nil {
		for _, doc := range docs {
			if err := store.SaveCommunication(ctx, doc); err != nil {
				logger.Log.Errorf("保存沟通记录失败 [%s]: %v", doc.ID, err)
			}
		}
	}

	// 6. 跨渠道合成统一 BRD
	synth := synthesis.NewSynthesizer(eng, eng.Scorer(), cfg.Pipeline.ProjectFilter)
	brd, err := synth.Synthesize(ctx, docs)
	if err != nil {
		logger.Log.Fatalf("跨渠道合成失败: %v", err)
	}

	// 7. 生成 markdown 报告（可选，失败不影响主产出）
	if eng.HasModel() {
		if report, err := eng.GenerateReport(ctx, brd); err != nil {
			logger.Log.Errorf("生成 markdown 报告失败: %v", err)
		} else {
			brd.MarkdownReport = report
		}
	}

	// 8. 与人工基准摘要做词重叠校验（可选）
	if cfg.GroundTruthFile != "" {
		if gt, err := os.ReadFile(cfg.GroundTruthFile); err != nil {
			logger.Log.Errorf("读取基准摘要失败: %v", err)
		} else {
			report := engine.ValidateSummary(brd.SummaryText(), string(gt))
			brd.Validation = &report
			logger.Log.Infof("摘要校验: precision=%.3f recall=%.3f f1=%.3f",
				report.Precision, report.Recall, report.F1Score)
		}
	}

	// 9. 持久化合成结果，挂在一条固定的合成锚点记录下
	if store != nil {
		anchor := model.Document{
			ID:            "synthesis",
			Type:          model.ChannelEmail,
			Subject:       "Cross-channel synthesis",
			Content:       "synthesised from " + cfg.InputDir,
			SourceDataset: "synthesis",
		}
		if err := store.SaveCommunication(ctx, anchor); err != nil {
			logger.Log.Errorf("保存合成锚点失败: %v", err)
		} else if _, err := store.SaveExtraction(ctx, anchor.ID, brd); err != nil {
			logger.Log.Errorf("保存合成结果失败: %v", err)
		}
	}

	// 10. 输出 JSON 文件
	outPath := cfg.OutputFile
	if outPath == "" {
		outPath = "output/brd.json"
	}
	if err := writeJSON(outPath, brd); err != nil {
		logger.Log.Fatalf("写出结果失败: %v", err)
	}

	logger.Log.Infof("✅ BRD 提取完成: %s (需求 %d 条, 冲突 %d 个)",
		outPath, len(brd.Requirements), len(brd.Conflicts))
}

// writeJSON 把结果写为带缩进的 JSON 文件
func writeJSON(path string, brd *model.BRD) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	data, err := json.MarshalIndent(brd, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
