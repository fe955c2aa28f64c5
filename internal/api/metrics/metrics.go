// Package metrics defines and registers all custom Prometheus metrics for
// the Trekha identity service. It is the single source of truth for metric
// names, labels, and help strings.
//
// Metrics register with the default Prometheus registry at import time via
// promauto; the /metrics endpoint is mounted by the router.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "identity"

// LoginsTotal counts login attempts.
// Label:
//   - result: "success" or "failure" (failure is the single generic
//     bad-credentials outcome; causes are never distinguished)
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// RegistrationsTotal counts completed passenger registrations.
// Label:
//   - channel: "EMAIL" or "MOBILE"
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of completed registrations, by channel.",
	},
	[]string{"channel"},
)

// TokenValidationsTotal counts bearer-token outcomes seen by the request
// authenticator.
// Label:
//   - result: "valid", "expired", "malformed", "bad_signature", "phantom"
var TokenValidationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_validations_total",
		Help:      "Total number of bearer tokens inspected, by outcome.",
	},
	[]string{"result"},
)

// VerificationsTotal counts verification-token consumption attempts.
// Labels:
//   - channel: "EMAIL" or "MOBILE"
//   - result: "success", "expired", "not_found", "mismatch"
var VerificationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "verifications_total",
		Help:      "Total number of verification attempts, by channel and result.",
	},
	[]string{"channel", "result"},
)

// PasswordResetsTotal counts password-reset flow outcomes.
// Labels:
//   - stage: "request" or "reset"
//   - result: "success" or "failure"
var PasswordResetsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "password_resets_total",
		Help:      "Total number of password reset operations, by stage and result.",
	},
	[]string{"stage", "result"},
)
