package compositor

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	metricFramesComposited = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "casement",
		Name:      "frames_composited_total",
		Help:      "Number of frames assembled by the compositor.",
	})
	metricFramesSkipped = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "casement",
		Name:      "frames_skipped_total",
		Help:      "Number of frames skipped because they were byte-identical to the previous one.",
	})
	metricBytesWritten = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "casement",
		Name:      "output_bytes_total",
		Help:      "Bytes written to the terminal output stream.",
	})
)
