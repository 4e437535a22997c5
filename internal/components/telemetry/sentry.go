package telemetry

import (
	"errors"
	"fmt"

	"github.com/getsentry/sentry-go"
)

// SentryAPI forwards broken components and warnings to sentry. Debug messages
// and counts are dropped.
type SentryAPI struct {
	hub *sentry.Hub
}

// NewSentryAPI creates a SentryAPI reporting through the given hub, if hub is nil
// the current global hub is used.
func NewSentryAPI(hub *sentry.Hub) SentryAPI {
	if hub == nil {
		hub = sentry.CurrentHub()
	}
	return SentryAPI{hub: hub}
}

// InitSentry initializes the global sentry client, an empty dsn leaves sentry disabled.
func InitSentry(dsn, release string) (bool, error) {
	if dsn == "" {
		return false, nil
	}
	err := sentry.Init(sentry.ClientOptions{
		Dsn:     dsn,
		Release: release,
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

// firstError picks out the first error in params so sentry can group on it.
func firstError(params []any) error {
	for _, p := range params {
		if err, ok := p.(error); ok {
			return err
		}
	}
	return nil
}

func (s SentryAPI) capture(level sentry.Level, id string, params []any) {
	s.hub.WithScope(func(scope *sentry.Scope) {
		scope.SetLevel(level)
		scope.SetTag("component", id)
		extra := map[string]any{}
		for i, p := range params {
			extra[fmt.Sprintf("params.%d", i)] = fmt.Sprint(p)
		}
		scope.SetContext("report", extra)

		err := firstError(params)
		if err == nil {
			err = errors.New(id)
		}
		s.hub.CaptureException(fmt.Errorf("%s: %w", id, err))
	})
}

func (s SentryAPI) ReportBroken(id string, params ...any) {
	s.capture(sentry.LevelError, id, params)
}

func (s SentryAPI) ReportWarning(id string, params ...any) {
	s.capture(sentry.LevelWarning, id, params)
}

func (SentryAPI) ReportDebug(string, ...any) {}

func (SentryAPI) ReportCount(string, int64) {}
