// Package metrics holds the domain Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/fx"

	"github.com/Additional-Code/gridlock/internal/observability"
)

// Rejection reasons recorded on BidsRejected.
const (
	ReasonValidation = "validation"
	ReasonNotFound   = "not_found"
	ReasonTooLow     = "too_low"
	ReasonSuperseded = "superseded"
)

// Recorder groups the counters services increment.
type Recorder struct {
	BidsPlaced         prometheus.Counter
	BidsRejected       *prometheus.CounterVec
	AuctionTransitions *prometheus.CounterVec
	VehiclesCreated    prometheus.Counter
	UsersRegistered    prometheus.Counter
	SweepRuns          *prometheus.CounterVec
}

// Module registers collectors on the registry owned by the observability
// manager, the same one served at the Prometheus path.
var Module = fx.Provide(func(obs *observability.Manager) *Recorder { return New(obs.Registerer()) })

// New registers every collector on reg.
func New(reg prometheus.Registerer) *Recorder {
	f := promauto.With(reg)
	return &Recorder{
		BidsPlaced: f.NewCounter(prometheus.CounterOpts{
			Namespace: "gridlock",
			Name:      "bids_placed_total",
			Help:      "Bids accepted and committed.",
		}),
		BidsRejected: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gridlock",
			Name:      "bids_rejected_total",
			Help:      "Bids refused, by reason.",
		}, []string{"reason"}),
		AuctionTransitions: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gridlock",
			Name:      "auction_transitions_total",
			Help:      "Auction status changes applied.",
		}, []string{"from", "to"}),
		VehiclesCreated: f.NewCounter(prometheus.CounterOpts{
			Namespace: "gridlock",
			Name:      "vehicles_created_total",
			Help:      "Vehicles listed.",
		}),
		UsersRegistered: f.NewCounter(prometheus.CounterOpts{
			Namespace: "gridlock",
			Name:      "users_registered_total",
			Help:      "Users registered.",
		}),
		SweepRuns: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gridlock",
			Name:      "auction_sweeps_total",
			Help:      "Sweeper passes, by outcome.",
		}, []string{"outcome"}),
	}
}

// Nop returns a recorder backed by a throwaway registry.
func Nop() *Recorder {
	return New(prometheus.NewRegistry())
}
