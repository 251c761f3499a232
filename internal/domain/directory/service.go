package directory

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrUnknownDepartment = errors.New("unknown department")
	ErrUnknownTeam       = errors.New("unknown team for department")
	ErrUnknownManager    = errors.New("reporting manager is not valid for this submitter")
)

type Service struct {
	Store StoreAPI
}

func NewService(store StoreAPI) *Service {
	return &Service{Store: store}
}

func (s *Service) Snapshot(ctx context.Context) (Snapshot, error) {
	snap, err := s.Store.Load(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	if snap.Departments == nil {
		snap.Departments = Directory{}
	}
	if snap.Escalation == nil {
		snap.Escalation = []string{}
	}
	if snap.StatusOptions == nil {
		snap.StatusOptions = []string{}
	}
	if snap.ManagerResources == nil {
		snap.ManagerResources = map[string]int{}
	}
	return snap, nil
}

// ValidateChain checks department, team and reporting manager against the
// directory. Manager-role submitters pick from the escalation list instead of
// the team's managers; department and team must still exist.
func ValidateChain(snap Snapshot, isManager bool, department, team, manager string) error {
	if _, ok := snap.Departments[department]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownDepartment, department)
	}
	if !snap.Departments.Has(department, team) {
		return fmt.Errorf("%w: %s", ErrUnknownTeam, team)
	}
	for _, candidate := range ManagersFor(snap, isManager, department, team) {
		if candidate == manager {
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrUnknownManager, manager)
}

// ManagersFor resolves the reporting managers a submitter may pick.
func ManagersFor(snap Snapshot, isManager bool, department, team string) []string {
	if isManager {
		return append([]string{}, snap.Escalation...)
	}
	return snap.Departments.ManagersFor(department, team)
}
