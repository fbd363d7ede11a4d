package store

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// mutations counts successful store writes by operation. Exposed on
// /metrics alongside the HTTP-level series.
var mutations = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "spire",
	Subsystem: "store",
	Name:      "mutations_total",
	Help:      "Successful content store mutations by operation.",
}, []string{"op"})
