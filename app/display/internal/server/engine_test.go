package server

import (
	"testing"

	"github.com/go-kratos/kratos/v2/log"

	"github.com/iWorld-y/brd_agent/app/display/internal/conf"
)

func TestNewAgentEngineToleratesMissingSections(t *testing.T) {
	// 配置文件缺小节时不 panic，降级为无模型引擎
	eng, cleanup, err := NewAgentEngine(&conf.Agent{}, log.DefaultLogger)
	if err != nil {
		t.Fatalf("NewAgentEngine() error = %v", err)
	}
	defer cleanup()
	if eng.HasModel() {
		t.Error("engine has a model without an llm section")
	}
}

func TestNewAgentEngineNilConfig(t *testing.T) {
	if _, _, err := NewAgentEngine(nil, log.DefaultLogger); err == nil {
		t.Error("NewAgentEngine() succeeded with nil config")
	}
}
