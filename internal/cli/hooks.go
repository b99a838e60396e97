package cli

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/dscmigrate/pkg/observability"
)

var (
	_ observability.ConversionHooks = (*logHooks)(nil)
	_ observability.BatchHooks      = (*logHooks)(nil)
)

// logHooks reports conversion events at debug level.
type logHooks struct {
	logger *log.Logger
}

// RegisterLogHooks routes observability events to the CLI logger.
func (c *CLI) RegisterLogHooks() {
	h := &logHooks{logger: c.Logger}
	observability.SetConversionHooks(h)
	observability.SetBatchHooks(h)
}

func (h *logHooks) OnConvertStart(_ context.Context, name string) {
	h.logger.Debug("converting", "file", name)
}

func (h *logHooks) OnConvertComplete(_ context.Context, name string, records int, duration time.Duration, err error) {
	if err != nil {
		h.logger.Debug("conversion failed", "file", name, "duration", duration.Round(time.Microsecond), "err", err)
		return
	}
	h.logger.Debug("conversion complete", "file", name, "records", records, "duration", duration.Round(time.Microsecond))
}

func (h *logHooks) OnDiagnostic(_ context.Context, name, code, resource string) {
	h.logger.Debug("diagnostic", "file", name, "code", code, "resource", resource)
}

func (h *logHooks) OnBatchStart(_ context.Context, dir string, candidates int) {
	h.logger.Debug("batch start", "dir", dir, "candidates", candidates)
}

func (h *logHooks) OnBatchComplete(_ context.Context, dir string, converted, failed, skipped int, duration time.Duration) {
	h.logger.Debug("batch complete",
		"dir", dir,
		"converted", converted,
		"failed", failed,
		"skipped", skipped,
		"duration", duration.Round(time.Millisecond))
}
