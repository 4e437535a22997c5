package globals

import (
	"context"

	"worksearch/internal/catalogue"
	"worksearch/internal/components/telemetry"
	"worksearch/internal/config"
	"worksearch/lib/restyutil"
)

type ctxKey string

const key ctxKey = "worksearch.ctx"

type Value struct {
	Config    config.Config
	Telemetry telemetry.API
	// Sentry is true when a dsn was configured and sentry initialized.
	Sentry bool
	// Dump is nil unless --dump was given.
	Dump restyutil.Output
}

func (v *Value) ClientOptions() catalogue.ClientOptions {
	opts := v.Config.ClientOptions(v.Telemetry)
	opts.Dump = v.Dump
	return opts
}

func Set(ctx context.Context, value *Value) context.Context {
	return context.WithValue(ctx, key, value)
}

func Get(ctx context.Context) *Value {
	return ctx.Value(key).(*Value)
}
