package data

import (
	"testing"

	"github.com/go-kratos/kratos/v2/log"

	"github.com/iWorld-y/brd_agent/app/display/internal/conf"
)

func TestNewDataRequiresDbSection(t *testing.T) {
	if _, _, err := NewData(&conf.Agent{}, log.DefaultLogger); err == nil {
		t.Error("NewData() succeeded without a db section")
	}
	if _, _, err := NewData(nil, log.DefaultLogger); err == nil {
		t.Error("NewData() succeeded with nil config")
	}
}
