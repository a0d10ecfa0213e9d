package main

import (
	"flag"
	"os"

	"github.com/go-kratos/kratos/v2"
	"github.com/go-kratos/kratos/v2/config"
	"github.com/go-kratos/kratos/v2/config/file"
	"github.com/go-kratos/kratos/v2/log"
	khttp "github.com/go-kratos/kratos/v2/transport/http"

	"github.com/hooplytics/traderadar/internal/biz"
	"github.com/hooplytics/traderadar/internal/conf"
	"github.com/hooplytics/traderadar/internal/data"
	"github.com/hooplytics/traderadar/internal/server"
	"github.com/hooplytics/traderadar/internal/service"
)

// go build -ldflags "-X main.Version=x.y.z"
var (
	// Name is the service name.
	Name string = "traderadar"
	// Version is the service version.
	Version string
	// flagconf is the config file path flag.
	flagconf string

	id, _ = os.Hostname()
)

func init() {
	flag.StringVar(&flagconf, "conf", "configs/config.yaml", "config path, eg: -conf config.yaml")
}

func main() {
	flag.Parse()
	logger := log.With(log.NewStdLogger(os.Stdout),
		"ts", log.DefaultTimestamp,
		"caller", log.DefaultCaller,
		"service.id", id,
		"service.name", Name,
		"service.version", Version,
	)

	c := config.New(
		config.WithSource(
			file.NewSource(flagconf),
		),
	)
	defer c.Close()

	if err := c.Load(); err != nil {
		panic(err)
	}

	var bc conf.Bootstrap
	if err := c.Scan(&bc); err != nil {
		panic(err)
	}

	app, cleanup, err := initApp(&bc, logger)
	if err != nil {
		panic(err)
	}
	defer cleanup()

	if err := app.Run(); err != nil {
		panic(err)
	}
}

// initApp wires the application by hand.
func initApp(bc *conf.Bootstrap, logger log.Logger) (*kratos.App, func(), error) {
	d, cleanupData, err := data.NewData(bc.Data, logger)
	if err != nil {
		return nil, nil, err
	}

	eng, cleanupEngine, err := server.NewEvaluationEngine(bc.Engine, logger)
	if err != nil {
		cleanupData()
		return nil, nil, err
	}

	repo := data.NewEvaluationRepo(d, logger)
	uc := biz.NewEvaluationUseCase(repo, logger)
	svc := service.NewTradeService(eng, uc, logger)
	hs := server.NewHTTPServer(bc.Server, svc, logger)

	cleanup := func() {
		cleanupEngine()
		cleanupData()
	}
	return newApp(logger, hs), cleanup, nil
}

func newApp(logger log.Logger, hs *khttp.Server) *kratos.App {
	return kratos.New(
		kratos.ID(id),
		kratos.Name(Name),
		kratos.Version(Version),
		kratos.Metadata(map[string]string{}),
		kratos.Logger(logger),
		kratos.Server(hs),
	)
}
