package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	PostsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "blog", Name: "posts_created_total", Help: "Number of posts created."},
	)
	PostsDeleted = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "blog", Name: "posts_deleted_total", Help: "Number of posts deleted."},
	)
	CommentsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "blog", Name: "comments_created_total", Help: "Number of comments created."},
	)
	LikesToggled = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "blog", Name: "likes_toggled_total", Help: "Number of like toggles by resulting action."},
		[]string{"action"},
	)
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "blog", Name: "http_requests_total", Help: "Number of HTTP requests by route and status."},
		[]string{"method", "route", "status"},
	)
	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Namespace: "blog", Name: "http_request_duration_seconds", Help: "HTTP request latency.", Buckets: prometheus.DefBuckets},
		[]string{"method", "route"},
	)
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(PostsCreated)
	reg.MustRegister(PostsDeleted)
	reg.MustRegister(CommentsCreated)
	reg.MustRegister(LikesToggled)
	reg.MustRegister(HTTPRequests)
	reg.MustRegister(HTTPDuration)
}
