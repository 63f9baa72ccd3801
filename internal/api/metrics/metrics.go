// Package metrics defines the custom Prometheus metrics of the accounts
// service. HTTP request metrics come from the echoprometheus middleware; the
// counters here cover account outcomes that HTTP status codes do not tell
// apart.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "accounts"

// RegistrationsTotal counts registration attempts.
// Label:
//   - result: "created", "invalid" or "error"
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of registration attempts, by result.",
	},
	[]string{"result"},
)

// LoginsTotal counts login attempts.
// Label:
//   - result: "success", "invalid_credentials", "inactive" or "error"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// GateDecisionsTotal counts admin gate decisions taken by the HTTP layer.
// Label:
//   - decision: "allow" or "deny"
var GateDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "gate_decisions_total",
		Help:      "Total number of admin authorization decisions, by outcome.",
	},
	[]string{"decision"},
)

// PasswordResetsTotal counts password reset steps.
// Labels:
//   - stage: "requested" or "confirmed"
//   - result: "ok" or "rejected"
var PasswordResetsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "password_resets_total",
		Help:      "Total number of password reset requests and confirmations.",
	},
	[]string{"stage", "result"},
)
