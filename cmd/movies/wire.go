//go:build wireinject
// +build wireinject

// The build tag makes sure the stub is not built in the final build.

package main

import (
	"github.com/go-kratos/kratos/v2"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/wire"

	"github.com/yixianOu/movie-rating/internal/biz"
	"github.com/yixianOu/movie-rating/internal/conf"
	"github.com/yixianOu/movie-rating/internal/data"
	"github.com/yixianOu/movie-rating/internal/server"
	"github.com/yixianOu/movie-rating/internal/service"
)

// wireApp init kratos application.
func wireApp(*conf.Server, *conf.Data, *conf.Auth, *conf.Pagination, log.Logger) (*kratos.App, func(), error) {
	panic(wire.Build(
		server.ProviderSet,
		data.ProviderSet,
		biz.ProviderSet,
		service.ProviderSet,
		wire.Bind(new(server.HealthChecker), new(*data.Data)),
		newApp,
	))
}

// wireStats builds the catalog counter for the stats command.
func wireStats(*conf.Data, log.Logger) (biz.StatsRepo, func(), error) {
	panic(wire.Build(data.NewData, data.NewStatsRepo))
}
