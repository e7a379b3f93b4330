package gallery

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const instrumentation = "gallery/internal/gallery"

var (
	tracer = otel.Tracer(instrumentation)

	likeRollbacks         metric.Int64Counter
	downloadWriteFailures metric.Int64Counter
	loadFallbacks         metric.Int64Counter
)

func init() {
	meter := otel.Meter(instrumentation)

	likeRollbacks, _ = meter.Int64Counter("gallery.like.rollbacks",
		metric.WithDescription("Optimistic like toggles reverted after a failed remote write"))
	downloadWriteFailures, _ = meter.Int64Counter("gallery.download.write_failures",
		metric.WithDescription("Download counts that could not be recorded remotely"))
	loadFallbacks, _ = meter.Int64Counter("gallery.load.fallbacks",
		metric.WithDescription("Bulk loads that fell back to the placeholder collection"))
}
