//go:build wireinject
// +build wireinject

package main

import (
	"qmt-data/internal/app"

	"github.com/google/wire"
)

// InitializeApp builds App from config and flag overrides via Wire.
// Caller must call the returned cleanup when done.
func InitializeApp(o app.Overrides) (*App, func(), error) {
	wire.Build(
		app.ProvideConfig,
		app.ProvideParser,
		app.ProvideTableSaver,
		app.ProvideStore,
		app.ProvideRegistry,
		app.ProvideMetrics,
		app.ProvideRunner,
		wire.Struct(new(App), "*"),
	)
	return nil, nil, nil
}
