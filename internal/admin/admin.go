// Package admin is the thin façade the CLI and any read-only
// dashboard call into: one store method per operation, no worker-loop
// logic, so commands stay argument-parsing only.
package admin

import (
	"fmt"

	"queueCtl/internal/apierr"
	"queueCtl/internal/model"
	"queueCtl/internal/store"
	"queueCtl/internal/supervisor"
)

type API struct {
	Store      *store.Store
	Supervisor *supervisor.Supervisor
}

func New(st *store.Store, sup *supervisor.Supervisor) *API {
	return &API{Store: st, Supervisor: sup}
}

func (a *API) Enqueue(spec model.Spec) (string, error) {
	return a.Store.Enqueue(spec)
}

func (a *API) List(filter model.Filter) ([]model.Job, error) {
	return a.Store.List(filter)
}

func (a *API) Status() (model.Status, error) {
	return a.Supervisor.Status()
}

// Purge deletes completed jobs. The selector must be passed
// explicitly; purging everything by default is not an option.
func (a *API) Purge(completed bool) (int, error) {
	if !completed {
		return 0, fmt.Errorf("%w: purge requires --completed", apierr.ErrInvalidSpec)
	}
	return a.Store.Purge(model.StateCompleted)
}

func (a *API) DLQList() ([]model.Job, error) {
	return a.Store.List(model.Filter{State: model.StateDead})
}

func (a *API) DLQRetry(jobID string) error {
	return a.Store.RequeueDead(jobID)
}

func (a *API) ConfigGet(key string) (string, bool, error) {
	return a.Store.ConfigGet(key)
}

func (a *API) ConfigSet(key, value string) error {
	return a.Store.ConfigSet(key, value)
}
