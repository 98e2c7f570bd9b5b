package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

var (
	SchedulerJobDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "scheduler_job_duration_seconds",
		Help:    "Duration of scheduler job runs",
		Buckets: prometheus.DefBuckets,
	}, []string{"job", "status"})

	SchedulerJobTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "scheduler_job_total",
		Help: "Scheduler job runs",
	}, []string{"job", "status"})

	NotificationsDelivered = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "notifications_delivered_total",
		Help: "Notifications delivered to chats",
	})
	NotificationsMuted = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "notifications_muted_total",
		Help: "Notifications suppressed by an active mute",
	})
	NotificationsFailed = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "notifications_failed_total",
		Help: "Notification sends that failed",
	})

	DeliveryJobsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "delivery_jobs_total",
		Help: "Queued delivery jobs by outcome",
	}, []string{"status"})

	NetworkRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "network_request_duration_seconds",
		Help:    "Duration of network requests",
		Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 15, 20, 25, 30, 35, 40, 45, 50, 55, 60},
	}, []string{"component", "operation", "target", "status"})

	NetworkRequestTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "network_request_total",
		Help: "Number of network requests",
	}, []string{"component", "operation", "target", "status"})
)

// MustRegister registers all metrics.
func MustRegister(registerer prometheus.Registerer) {
	registerer.MustRegister(
		SchedulerJobDuration,
		SchedulerJobTotal,
		NotificationsDelivered,
		NotificationsMuted,
		NotificationsFailed,
		DeliveryJobsTotal,
		NetworkRequestDuration,
		NetworkRequestTotal,
	)
}

// StartServer runs an HTTP server with the /metrics endpoint.
func StartServer(ctx context.Context, logger zerolog.Logger, addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}

	shutdownCtx, cancel := context.WithCancel(context.Background())
	go func() {
		select {
		case <-ctx.Done():
		case <-shutdownCtx.Done():
		}
		shutdownTimeout, timeoutCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer timeoutCancel()
		if err := srv.Shutdown(shutdownTimeout); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("metrics: graceful shutdown failed")
		}
	}()

	go func() {
		logger.Info().Str("addr", addr).Msg("metrics: server started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("metrics: server stopped")
		}
		cancel()
	}()
}

// ObserveNetworkRequest records the duration and status of a network request.
func ObserveNetworkRequest(component, operation, target string, start time.Time, err error) {
	if component == "" {
		component = "unknown"
	}
	if operation == "" {
		operation = "unknown"
	}
	if target == "" {
		target = "unknown"
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	duration := time.Since(start).Seconds()
	NetworkRequestDuration.WithLabelValues(component, operation, target, status).Observe(duration)
	NetworkRequestTotal.WithLabelValues(component, operation, target, status).Inc()
}

// ObserveSchedulerJob records the duration and status of one job run.
func ObserveSchedulerJob(job string, start time.Time, err error) {
	if job == "" {
		job = "unknown"
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	SchedulerJobDuration.WithLabelValues(job, status).Observe(time.Since(start).Seconds())
	SchedulerJobTotal.WithLabelValues(job, status).Inc()
}

// IncNotificationDelivered counts a delivered notification.
func IncNotificationDelivered() {
	NotificationsDelivered.Inc()
}

// IncNotificationMuted counts a notification suppressed by a mute.
func IncNotificationMuted() {
	NotificationsMuted.Inc()
}

// IncNotificationFailed counts a failed notification send.
func IncNotificationFailed() {
	NotificationsFailed.Inc()
}

// IncDeliveryJob counts a queued delivery job outcome.
func IncDeliveryJob(status string) {
	DeliveryJobsTotal.WithLabelValues(status).Inc()
}
