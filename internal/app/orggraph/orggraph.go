package orggraph

import (
	"backend/internal/app/apperr"
	"backend/internal/app/ds"
)

// Directory is the user store surface the graph needs. Implemented by the
// repository; tests use an in-memory fake.
type Directory interface {
	GetUser(id uint) (*ds.User, error)
	ListSupervisees(supervisorID uint) ([]ds.User, error)
	UpdateSupervisor(subordinateID uint, supervisorID *uint) error
	UpdateLocation(userID uint, state, city string) error
}

// Graph answers hierarchy and geography queries over the directory. It holds
// no state of its own: every call reads the store, so supervisor changes take
// effect immediately for subsequent visibility computations.
type Graph struct {
	dir Directory
}

func New(dir Directory) *Graph {
	return &Graph{dir: dir}
}

// Supervisees returns the actors one level down the tree.
func (g *Graph) Supervisees(actorID uint) ([]ds.User, error) {
	return g.dir.ListSupervisees(actorID)
}

// Geography returns the actor's assigned state and city.
func (g *Graph) Geography(actorID uint) (state, city string, err error) {
	u, err := g.dir.GetUser(actorID)
	if err != nil {
		return "", "", err
	}
	return u.AssignedState, u.AssignedCity, nil
}

// ScopeStates returns a manager's assigned state set. Empty means
// unrestricted.
func (g *Graph) ScopeStates(managerID uint) ([]string, error) {
	u, err := g.dir.GetUser(managerID)
	if err != nil {
		return nil, err
	}
	return u.StateScope(), nil
}

// Supervises reports whether actorID sits one level below supervisorID.
func (g *Graph) Supervises(supervisorID, actorID uint) (bool, error) {
	u, err := g.dir.GetUser(actorID)
	if err != nil {
		return false, err
	}
	return u.SupervisorID != nil && *u.SupervisorID == supervisorID, nil
}

// AssignSupervisor overwrites the subordinate's back-reference. The tree
// cannot cycle by construction, but an assignment that would close a loop
// (or a self-reference) is rejected before the write.
func (g *Graph) AssignSupervisor(subordinateID, supervisorID uint) error {
	if subordinateID == supervisorID {
		return apperr.Validationf("an actor cannot supervise itself")
	}
	if _, err := g.dir.GetUser(subordinateID); err != nil {
		return apperr.NotFoundf("subordinate %d not found", subordinateID)
	}

	// Walk up from the proposed supervisor; hitting the subordinate means the
	// assignment would create a cycle.
	cur := supervisorID
	for i := 0; i < maxChainDepth; i++ {
		u, err := g.dir.GetUser(cur)
		if err != nil {
			return apperr.NotFoundf("supervisor %d not found", cur)
		}
		if u.ID == subordinateID {
			return apperr.Validationf("assignment would create a supervision cycle")
		}
		if u.SupervisorID == nil {
			break
		}
		cur = *u.SupervisorID
	}

	return g.dir.UpdateSupervisor(subordinateID, &supervisorID)
}

// AssignLocation sets the actor's state/city scope.
func (g *Graph) AssignLocation(actorID uint, state, city string) error {
	if state == "" {
		return apperr.Validationf("state is required")
	}
	if _, err := g.dir.GetUser(actorID); err != nil {
		return apperr.NotFoundf("actor %d not found", actorID)
	}
	return g.dir.UpdateLocation(actorID, state, city)
}

// maxChainDepth bounds the upward walk; the hierarchy is three levels deep in
// practice, anything longer indicates corrupted data.
const maxChainDepth = 32
