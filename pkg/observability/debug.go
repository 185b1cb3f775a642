package observability

import (
	"log/slog"

	"github.com/aretw0/facet/pkg/domain"
)

// DebugHooks logs every lifecycle event at debug level.
func DebugHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnInstantiate: func(e *domain.ObjectEvent) {
			logger.Debug("Instantiate", "class", e.Class, "object", e.Object, "args", e.Args)
		},
		OnDestroy: func(e *domain.ObjectEvent) {
			logger.Debug("Destroy", "class", e.Class, "object", e.Object)
		},
		OnPropertyGet: func(e *domain.PropertyEvent) {
			logProperty(logger, "Get", e)
		},
		OnPropertySet: func(e *domain.PropertyEvent) {
			logProperty(logger, "Set", e)
		},
		OnSignalEmit: func(e *domain.SignalEvent) {
			if e.Err != nil {
				logger.Debug("Emit (Error)", "class", e.Class, "signal", e.Signal, "callbacks", e.Callbacks, "err", e.Err)
			} else {
				logger.Debug("Emit", "class", e.Class, "signal", e.Signal, "callbacks", e.Callbacks, "args", e.Args)
			}
		},
		OnSignalChange: func(e *domain.SignalEvent) {
			logger.Debug("Signal Changed", "class", e.Class, "signal", e.Signal, "callbacks", e.Callbacks)
		},
	}
}

func logProperty(logger *slog.Logger, verb string, e *domain.PropertyEvent) {
	attrs := []any{"class", e.Class, "key", e.Key}
	if e.Miss {
		attrs = append(attrs, "miss", true)
	}
	if e.Coerced {
		attrs = append(attrs, "coerced", true)
	}
	if e.Err != nil {
		logger.Debug(verb+" (Error)", append(attrs, "err", e.Err)...)
		return
	}
	logger.Debug(verb, attrs...)
}
