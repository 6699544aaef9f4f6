package main

import (
	"flag"
	"os"

	"github.com/go-kratos/kratos/v2"
	"github.com/go-kratos/kratos/v2/config"
	"github.com/go-kratos/kratos/v2/config/file"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/transport/http"

	"github.com/iWorld-y/brd_agent/app/display/internal/conf"
	"github.com/iWorld-y/brd_agent/app/display/internal/data"
	"github.com/iWorld-y/brd_agent/app/display/internal/server"
	"github.com/iWorld-y/brd_agent/app/display/internal/service"
	"github.com/iWorld-y/brd_agent/app/display/internal/usecase"
)

// go build -ldflags "-X main.Version=x.y.z"
var (
	// Name 是服务的名称
	Name string = "display"
	// Version 是服务的版本号
	Version string
	// flagconf 是配置文件的路径命令行参数
	flagconf string

	id, _ = os.Hostname()
)

func init() {
	// 初始化命令行参数，默认指向 display 项目的配置文件
	flag.StringVar(&flagconf, "conf", "app/display/configs/config.yaml", "config path, eg: -conf config.yaml")
}

func main() {
	flag.Parse()
	// 初始化日志记录器，包含时间戳、调用者信息、服务ID等上下文
	logger := log.With(log.NewStdLogger(os.Stdout),
		"ts", log.DefaultTimestamp,
		"caller", log.DefaultCaller,
		"service.id", id,
		"service.name", Name,
		"service.version", Version,
	)

	// 初始化配置加载器
	c := config.New(
		config.WithSource(
			file.NewSource(flagconf),
		),
	)
	defer c.Close()

	if err := c.Load(); err != nil {
		panic(err)
	}

	// 扫描配置到 Bootstrap 结构体
	var bc conf.Bootstrap
	if err := c.Scan(&bc); err != nil {
		panic(err)
	}

	app, cleanup, err := initApp(bc.Server, bc.Agent, logger)
	if err != nil {
		panic(err)
	}
	defer cleanup()

	if err := app.Run(); err != nil {
		panic(err)
	}
}

// initApp 手工装配各层依赖
func initApp(sc *conf.Server, ac *conf.Agent, logger log.Logger) (*kratos.App, func(), error) {
	eng, engCleanup, err := server.NewAgentEngine(ac, logger)
	if err != nil {
		return nil, nil, err
	}

	d, dataCleanup, err := data.NewData(ac, logger)
	if err != nil {
		engCleanup()
		return nil, nil, err
	}

	repo := data.NewBRDRepo(d, logger)
	uc := usecase.NewBRDUseCase(repo, eng, eng.Scorer(), logger)
	svc := service.NewBRDService(uc, logger)
	hs := server.NewHTTPServer(sc, svc, logger)

	cleanup := func() {
		dataCleanup()
		engCleanup()
	}
	return newApp(logger, hs), cleanup, nil
}

func newApp(logger log.Logger, hs *http.Server) *kratos.App {
	return kratos.New(
		kratos.ID(id),
		kratos.Name(Name),
		kratos.Version(Version),
		kratos.Metadata(map[string]string{}),
		kratos.Logger(logger),
		kratos.Server(hs),
	)
}
