package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "typeshelf"

var (
	RateLimitAllowed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "rate_limit_allowed_total", Help: "Number of allowed requests by limiter type."},
		[]string{"limiter"},
	)
	RateLimitRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "rate_limit_rejected_total", Help: "Number of rejected requests by limiter type."},
		[]string{"limiter"},
	)

	FontsUploaded = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: namespace, Name: "fonts_uploaded_total", Help: "Number of font files stored."},
	)
	FontUploadBytes = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "font_upload_bytes",
			Help:      "Size of accepted font uploads.",
			Buckets:   prometheus.ExponentialBuckets(16*1024, 4, 6),
		},
	)
	FontUploadsRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "font_uploads_rejected_total", Help: "Rejected font uploads by reason."},
		[]string{"reason"},
	)
	FontsDeleted = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: namespace, Name: "fonts_deleted_total", Help: "Number of font files removed."},
	)

	// GroupOperations counts font-group store calls by operation and outcome
	// (ok, validation, not_found, io_failure).
	GroupOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "font_group_operations_total", Help: "Font group operations by op and result."},
		[]string{"op", "result"},
	)
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(RateLimitAllowed)
	reg.MustRegister(RateLimitRejected)
	reg.MustRegister(FontsUploaded)
	reg.MustRegister(FontUploadBytes)
	reg.MustRegister(FontUploadsRejected)
	reg.MustRegister(FontsDeleted)
	reg.MustRegister(GroupOperations)
}
