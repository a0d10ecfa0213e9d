package server

import (
	"time"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/middleware/recovery"
	"github.com/go-kratos/kratos/v2/transport/http"

	"github.com/hooplytics/traderadar/internal/conf"
	"github.com/hooplytics/traderadar/internal/service"
)

func NewHTTPServer(c *conf.Server, s *service.TradeService, logger log.Logger) *http.Server {
	var opts = []http.ServerOption{
		http.Middleware(
			recovery.Recovery(),
		),
	}
	if c.Http.Addr != "" {
		opts = append(opts, http.Address(c.Http.Addr))
	}
	if c.Http.Timeout != "" {
		if d, err := time.ParseDuration(c.Http.Timeout); err == nil {
			opts = append(opts, http.Timeout(d))
		}
	}

	srv := http.NewServer(opts...)

	r := srv.Route("/")
	r.POST("/v1/trades/evaluate", s.EvaluateTrade)
	r.GET("/v1/evaluations", s.ListEvaluations)
	r.GET("/v1/evaluations/{id}", s.GetEvaluation)

	return srv
}
