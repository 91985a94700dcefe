// Package metrics exposes the service's Prometheus collectors. Silent
// drops are deliberate policy on the wire, so the counters here are the
// only place they become visible.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// PlayersConnected tracks the current registry size.
	PlayersConnected = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "cellsync_players_connected",
		Help: "The number of players currently joined to the room",
	})
	// JoinsTotal counts successful admissions.
	JoinsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cellsync_joins_total",
		Help: "The total number of successful joins",
	})
	// JoinsRejectedTotal counts capacity rejections.
	JoinsRejectedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cellsync_joins_rejected_total",
		Help: "The total number of joins rejected because the room was full",
	})
	// RateLimitedTotal counts messages dropped by the rate limiter.
	RateLimitedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cellsync_messages_rate_limited_total",
		Help: "The total number of inbound messages dropped by the rate limiter",
	})
	// InvalidDroppedTotal counts messages dropped by validation.
	InvalidDroppedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cellsync_messages_invalid_total",
		Help: "The total number of inbound messages dropped as malformed",
	})
	// SlowConsumerDropsTotal counts frames dropped on full send queues.
	SlowConsumerDropsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cellsync_slow_consumer_drops_total",
		Help: "The total number of outbound frames dropped on full client queues",
	})
	// EvictionsTotal counts staleness evictions.
	EvictionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cellsync_evictions_total",
		Help: "The total number of players evicted for staleness",
	})
	// BroadcastTicksTotal counts non-empty broadcast ticks.
	BroadcastTicksTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cellsync_broadcast_ticks_total",
		Help: "The total number of snapshot broadcasts sent",
	})
	// BroadcastLatency measures time spent assembling and fanning out a tick.
	BroadcastLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "cellsync_broadcast_latency_seconds",
		Help:    "Latency of one broadcast tick, eviction included",
		Buckets: prometheus.DefBuckets,
	})
)
