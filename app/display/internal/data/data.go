package data

import (
	"fmt"

	"github.com/go-kratos/kratos/v2/log"

	"github.com/iWorld-y/brd_agent/app/brd_agent/pkg/config"
	"github.com/iWorld-y/brd_agent/app/brd_agent/pkg/storage"
	"github.com/iWorld-y/brd_agent/app/display/internal/conf"
)

// Data 数据访问层资源
type Data struct {
	store *storage.Store
}

// NewData 建立数据库连接
func NewData(c *conf.Agent, logger log.Logger) (*Data, func(), error) {
	if c == nil || c.Db == nil {
		return nil, nil, fmt.Errorf("db config section is missing")
	}
	store, err := storage.NewStore(config.DBConfig{
		Host:     c.Db.Host,
		Port:     int(c.Db.Port),
		User:     c.Db.User,
		Password: c.Db.Password,
		Name:     c.Db.Name,
	})
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {
		log.NewHelper(logger).Info("closing the data resources")
		_ = store.Close()
	}
	return &Data{store: store}, cleanup, nil
}
