package telemetry

import (
	"github.com/idlink-io/idlink/internal/shared/logger"
)

// LogTelemetry records captured exceptions through the structured logger.
// It stands in for an external error tracker; swapping in a real one only
// requires another implementation of the application-layer interface.
type LogTelemetry struct {
	logger logger.Interface
}

func NewLogTelemetry(log logger.Interface) *LogTelemetry {
	return &LogTelemetry{logger: log.With("component", "telemetry")}
}

func (t *LogTelemetry) CaptureException(err error) {
	if err == nil {
		return
	}
	t.logger.Errorw("captured exception", "error", err)
}
