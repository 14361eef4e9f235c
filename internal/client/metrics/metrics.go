// Package metrics defines the client's Prometheus counters.
package metrics

import (
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

const namespace = "vitapick_client"

// Result label values.
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
	ResultSkipped = "skipped"
)

type Metrics struct {
	Refreshes      *prometheus.CounterVec
	Retries        prometheus.Counter
	LoginRedirects prometheus.Counter
	PushUpserts    *prometheus.CounterVec
}

// New creates the counters and registers them with reg. A nil reg leaves them
// unregistered, which is what tests usually want.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Refreshes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "token_refreshes_total",
			Help:      "Access-token refresh calls by result.",
		}, []string{"result"}),
		Retries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "request_retries_total",
			Help:      "Requests re-issued after a token refresh.",
		}),
		LoginRedirects: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "login_redirects_total",
			Help:      "Unrecoverable auth failures that sent the user to login.",
		}),
		PushUpserts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "push_token_syncs_total",
			Help:      "Push token synchronizations by result.",
		}, []string{"result"}),
	}

	if reg != nil {
		reg.MustRegister(m.Refreshes, m.Retries, m.LoginRedirects, m.PushUpserts)
	}
	return m
}

// Write renders every family gathered from g in the Prometheus text
// exposition format.
func Write(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}

	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("write %s: %w", mf.GetName(), err)
		}
	}
	return nil
}
