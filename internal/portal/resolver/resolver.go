// Package resolver turns the directory into the valid department, team and
// reporting-manager choices for the signed-in identity.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"workportal/internal/client"
	"workportal/internal/domain/auth"
	"workportal/internal/domain/directory"
)

type Resolver struct {
	api      *client.Client
	identity auth.User

	mu   sync.RWMutex
	snap directory.Snapshot
}

// New builds a resolver for identity; a zero identity resolves as an employee.
func New(api *client.Client, identity auth.User) *Resolver {
	return &Resolver{api: api, identity: identity}
}

// Fetch loads the directory and status options. A failed part stays empty
// and is reported in the joined error while the other part still loads.
func (r *Resolver) Fetch(ctx context.Context) error {
	var errs []error
	listing, err := r.api.Departments(ctx)
	if err != nil {
		errs = append(errs, fmt.Errorf("load departments: %w", err))
	}
	statuses, err := r.api.StatusOptions(ctx)
	if err != nil {
		errs = append(errs, fmt.Errorf("load status options: %w", err))
	}

	r.mu.Lock()
	r.snap = directory.Snapshot{
		Departments:   listing.Departments,
		Escalation:    listing.Escalation,
		StatusOptions: statuses,
	}
	r.mu.Unlock()
	return errors.Join(errs...)
}

// Load replaces the cached directory without a network call.
func (r *Resolver) Load(snap directory.Snapshot) {
	r.mu.Lock()
	r.snap = snap
	r.mu.Unlock()
}

func (r *Resolver) snapshot() directory.Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snap
}

func (r *Resolver) Identity() auth.User { return r.identity }

// Directory is the loaded department tree, empty before Fetch.
func (r *Resolver) Directory() directory.Directory {
	return r.snapshot().Departments
}

func (r *Resolver) Departments() []string {
	return r.snapshot().Departments.Departments()
}

func (r *Resolver) TeamsFor(department string) []string {
	return r.snapshot().Departments.TeamsFor(department)
}

// ManagersFor lists the reporting managers for a department and team.
// Managers always get the escalation list.
func (r *Resolver) ManagersFor(department, team string) []string {
	snap := r.snapshot()
	if !r.identity.IsManager() && (department == "" || team == "") {
		return []string{}
	}
	out := directory.ManagersFor(snap, r.identity.IsManager(), department, team)
	if out == nil {
		return []string{}
	}
	return out
}

func (r *Resolver) StatusOptions() []string {
	return append([]string{}, r.snapshot().StatusOptions...)
}

func (r *Resolver) Escalation() []string {
	return append([]string{}, r.snapshot().Escalation...)
}

func (r *Resolver) AllManagers() []string {
	return r.snapshot().AllManagers()
}

// Defaults pre-fills a submission. An employee whose profile names a known
// department and team gets them locked; the first eligible manager is
// pre-selected but stays editable.
func (r *Resolver) Defaults() Selection {
	sel := Selection{}
	dept, team := r.identity.Department, r.identity.Team
	if dept != "" && team != "" && r.snapshot().Departments.Has(dept, team) {
		sel.Department = dept
		sel.Team = team
		sel.Locked = !r.identity.IsManager()
	}
	if managers := r.ManagersFor(sel.Department, sel.Team); len(managers) > 0 {
		sel.Manager = managers[0]
	}
	return sel
}
