package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Result label values.
const (
	ResultOK      = "ok"
	ResultInvalid = "invalid"
	ResultExpired = "expired"
	ResultRepeat  = "repeat"
	ResultFailed  = "failed"
)

var (
	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "rental_http_request_duration_seconds",
		Help:    "Duration of HTTP requests by route template",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})

	processesCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rental_processes_created_total",
		Help: "Rental processes created, by whether references were dropped",
	}, []string{"linking"})

	stepAdvances = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rental_step_advances_total",
		Help: "Step submissions by step number and result",
	}, []string{"step", "result"})

	coDebtorConfirmations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rental_codebtor_confirmations_total",
		Help: "Co-debtor confirmation attempts by result",
	}, []string{"result"})

	notifications = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rental_notifications_total",
		Help: "Outbound notifications by kind and result",
	}, []string{"kind", "result"})

	contractsInitiated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rental_contracts_initiated_total",
		Help: "Contract initiation attempts by result",
	}, []string{"result"})
)

// ObserveProcessCreated records a new process; dropped is true when
// lenient linking discarded at least one reference.
func ObserveProcessCreated(dropped bool) {
	label := "complete"
	if dropped {
		label = "dropped"
	}
	processesCreated.WithLabelValues(label).Inc()
}

func ObserveStep(step int, result string) {
	stepAdvances.WithLabelValues(strconv.Itoa(step), result).Inc()
}

func ObserveConfirmation(result string) {
	coDebtorConfirmations.WithLabelValues(result).Inc()
}

func ObserveNotification(kind string, err error) {
	result := ResultOK
	if err != nil {
		result = ResultFailed
	}
	notifications.WithLabelValues(kind, result).Inc()
}

func ObserveContract(result string) {
	contractsInitiated.WithLabelValues(result).Inc()
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Middleware times every request, labelled by the mux route template so
// process ids do not explode cardinality.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		route := "unmatched"
		if cr := mux.CurrentRoute(r); cr != nil {
			if tpl, err := cr.GetPathTemplate(); err == nil {
				route = tpl
			}
		}
		httpRequestDuration.
			WithLabelValues(r.Method, route, strconv.Itoa(rec.status)).
			Observe(time.Since(start).Seconds())
	})
}
