package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Config 项目配置结构体
type Config struct {
	LLM         LLMConfig         `yaml:"llm"`
	DB          DBConfig          `yaml:"db"`
	Log         LogConfig         `yaml:"log"`
	Concurrency ConcurrencyConfig `yaml:"concurrency"`
	Pipeline    PipelineConfig    `yaml:"pipeline"`
	Channels    ChannelsConfig    `yaml:"channels"`
	InputDir    string            `yaml:"input_dir"`
	OutputFile  string            `yaml:"output_file"`
	// GroundTruthFile 可选的人工基准摘要文件，配置后对合成结果做词重叠校验
	GroundTruthFile string `yaml:"ground_truth_file"`
}

// LLMConfig LLM 相关配置
type LLMConfig struct {
	BaseURL string `yaml:"base_url"`
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`
}

// DBConfig 数据库相关配置
type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
}

// LogConfig 日志相关配置
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// ConcurrencyConfig 并发控制配置
type ConcurrencyConfig struct {
	QPS int `yaml:"qps"`
	RPM int `yaml:"rpm"`
}

// PipelineConfig 提取管线配置
type PipelineConfig struct {
	ChunkSize               int     `yaml:"chunk_size"`
	ChunkOverlap            int     `yaml:"chunk_overlap"`
	NoiseThreshold          float64 `yaml:"noise_threshold"`
	EnableConflictDetection *bool   `yaml:"enable_conflict_detection"`
	ProjectFilter           string  `yaml:"project_filter"`
}

// ConflictDetectionEnabled 默认开启冲突检测
func (p PipelineConfig) ConflictDetectionEnabled() bool {
	if p.EnableConflictDetection == nil {
		return true
	}
	return *p.EnableConflictDetection
}

// ChannelsConfig 多渠道抓取配置
type ChannelsConfig struct {
	Slack     SlackConfig     `yaml:"slack"`
	Fireflies FirefliesConfig `yaml:"fireflies"`
}

// SlackConfig Slack 渠道配置
type SlackConfig struct {
	Token     string `yaml:"token"`
	ChannelID string `yaml:"channel_id"`
	Limit     int    `yaml:"limit"`
}

// FirefliesConfig Fireflies.ai 渠道配置
type FirefliesConfig struct {
	APIKey string `yaml:"api_key"`
	Limit  int    `yaml:"limit"`
}

// LoadConfig 从指定路径加载配置
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
