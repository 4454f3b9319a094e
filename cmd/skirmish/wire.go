//go:build wireinject

package main

import (
	"io"

	"github.com/google/wire"
	"go.uber.org/zap"

	"github.com/cory-johannsen/skirmish/internal/config"
)

func initializeApp(cfg config.Config, logger *zap.Logger, in io.Reader, out io.Writer) (*App, func(), error) {
	wire.Build(appSet)
	return nil, nil, nil
}
