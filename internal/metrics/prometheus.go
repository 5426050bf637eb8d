package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PrometheusRecorder implements Recorder on Prometheus collectors.
type PrometheusRecorder struct {
	redirects        *prometheus.CounterVec
	redirectDuration prometheus.Histogram
	linksCreated     prometheus.Counter
	collisions       prometheus.Counter
	signups          prometheus.Counter
	logins           *prometheus.CounterVec
	passwordsChanged prometheus.Counter
	storeReady       prometheus.Gauge
}

// NewPrometheus creates a PrometheusRecorder and registers its collectors with reg.
func NewPrometheus(reg prometheus.Registerer) *PrometheusRecorder {
	p := &PrometheusRecorder{
		redirects: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "linkly_redirects_total",
			Help: "Short link visits by outcome.",
		}, []string{"outcome"}),
		redirectDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "linkly_redirect_duration_seconds",
			Help:    "Time spent resolving a short link.",
			Buckets: prometheus.DefBuckets,
		}),
		linksCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "linkly_links_created_total",
			Help: "Short links created.",
		}),
		collisions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "linkly_short_code_collisions_total",
			Help: "Generated short codes rejected as duplicates.",
		}),
		signups: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "linkly_signups_total",
			Help: "Accounts created.",
		}),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "linkly_logins_total",
			Help: "Login attempts by outcome.",
		}, []string{"outcome"}),
		passwordsChanged: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "linkly_password_changes_total",
			Help: "Successful password changes.",
		}),
		storeReady: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "linkly_store_ready",
			Help: "1 when the database answered the last health check.",
		}),
	}

	reg.MustRegister(
		p.redirects,
		p.redirectDuration,
		p.linksCreated,
		p.collisions,
		p.signups,
		p.logins,
		p.passwordsChanged,
		p.storeReady,
	)

	return p
}

// IncRedirect counts a redirect by outcome.
func (p *PrometheusRecorder) IncRedirect(outcome string) {
	p.redirects.WithLabelValues(outcome).Inc()
}

// ObserveRedirectDuration records redirect duration.
func (p *PrometheusRecorder) ObserveRedirectDuration(duration time.Duration) {
	p.redirectDuration.Observe(duration.Seconds())
}

// IncLinkCreated increments link created counter.
func (p *PrometheusRecorder) IncLinkCreated() {
	p.linksCreated.Inc()
}

// IncShortCodeCollision increments the regenerated short code counter.
func (p *PrometheusRecorder) IncShortCodeCollision() {
	p.collisions.Inc()
}

// IncSignup increments the signup counter.
func (p *PrometheusRecorder) IncSignup() {
	p.signups.Inc()
}

// IncLogin counts a login attempt by outcome.
func (p *PrometheusRecorder) IncLogin(outcome string) {
	p.logins.WithLabelValues(outcome).Inc()
}

// IncPasswordChanged increments the password change counter.
func (p *PrometheusRecorder) IncPasswordChanged() {
	p.passwordsChanged.Inc()
}

// SetStoreReady records the store readiness flag.
func (p *PrometheusRecorder) SetStoreReady(ready bool) {
	if ready {
		p.storeReady.Set(1)
		return
	}
	p.storeReady.Set(0)
}

// Handler returns the scrape handler for gatherer.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
