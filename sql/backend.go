package sql

import (
	"github.com/uptrace/bun"
)

// Backend bundles the individual SQL-backed components into the full
// queuectl.Backend contract. Each component also works standalone, but
// Backend is the convenient way to construct everything a Queue needs
// from one *bun.DB.
type Backend struct {
	*Enqueuer
	*Claimer
	*Reporter
	*Inspector
	*DLQ
	*Config
	*Reaper
}

// NewBackend constructs a Backend over db. The caller must have already
// run InitDB. The embedded *Reaper also satisfies reaper.Store, so a
// Backend can be passed directly to reaper.New.
func NewBackend(db *bun.DB) *Backend {
	return &Backend{
		Enqueuer:  NewEnqueuer(db),
		Claimer:   NewClaimer(db),
		Reporter:  NewReporter(db),
		Inspector: NewInspector(db),
		DLQ:       NewDLQ(db),
		Config:    NewConfig(db),
		Reaper:    NewReaper(db),
	}
}
