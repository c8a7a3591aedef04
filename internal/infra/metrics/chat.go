package metrics

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
)

func init() {
	register(
		chatMessagesTotal,
		chatRepliesTotal,
		chatTriggerDrops,
		windowTrimsTotal,
		safetyFlagsTotal,
	)
}

var (
	chatMessagesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_messages_total",
			Help: "Inbound messages seen per surface.",
		},
		[]string{"surface"},
	)

	chatRepliesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_replies_total",
			Help: "Replies produced per surface and outcome (ok/fallback).",
		},
		[]string{"surface", "outcome"},
	)

	chatTriggerDrops = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_trigger_drops_total",
			Help: "Messages recorded but silently dropped by the trigger gate.",
		},
		[]string{"surface"},
	)

	windowTrimsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "window_trims_total",
			Help: "Conversation window trims performed by the retention policy.",
		},
	)

	safetyFlagsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "safety_flags_total",
			Help: "Users newly flagged unsafe by the lexical classifier.",
		},
	)
)

func IncMessage(surface string)       { chatMessagesTotal.WithLabelValues(norm(surface)).Inc() }
func IncTriggerDrop(surface string)   { chatTriggerDrops.WithLabelValues(norm(surface)).Inc() }
func IncWindowTrim()                  { windowTrimsTotal.Inc() }
func IncSafetyFlag()                  { safetyFlagsTotal.Inc() }
func IncReply(surface, outcome string) {
	chatRepliesTotal.WithLabelValues(norm(surface), norm(outcome)).Inc()
}

func norm(s string) string {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return "unknown"
	}
	return s
}
