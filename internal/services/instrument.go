package services

import (
	"log/slog"
	"time"

	"github.com/yukikurage/duty-tracker/internal/logging"
	"github.com/yukikurage/duty-tracker/internal/metrics"
)

// instrumentation writes the activity log line and the metric for every
// operation a service runs.
type instrumentation struct {
	log     *slog.Logger
	metrics metrics.Recorder
}

func newInstrumentation(log *slog.Logger, rec metrics.Recorder) instrumentation {
	if log == nil {
		log = logging.Discard()
	}
	if rec == nil {
		rec = metrics.Nop{}
	}
	return instrumentation{log: log, metrics: rec}
}

// done records op. Successful operations log at Info, rejected ones at Warn.
func (i instrumentation) done(op string, started time.Time, err error, attrs ...any) {
	i.metrics.ObserveOperation(op, started, err)
	if err != nil {
		i.log.Warn(op+" rejected", append(attrs, "error", err)...)
		return
	}
	i.log.Info(op, attrs...)
}
