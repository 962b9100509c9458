package orggraph_test

import (
	"fmt"
	"testing"

	"backend/internal/app/apperr"
	"backend/internal/app/ds"
	"backend/internal/app/orggraph"
)

type fakeDirectory struct {
	users map[uint]*ds.User
}

func (d *fakeDirectory) GetUser(id uint) (*ds.User, error) {
	u, ok := d.users[id]
	if !ok {
		return nil, fmt.Errorf("user %d not found", id)
	}
	cp := *u
	return &cp, nil
}

func (d *fakeDirectory) ListSupervisees(supervisorID uint) ([]ds.User, error) {
	var out []ds.User
	for _, u := range d.users {
		if u.SupervisorID != nil && *u.SupervisorID == supervisorID {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (d *fakeDirectory) UpdateSupervisor(subordinateID uint, supervisorID *uint) error {
	u, ok := d.users[subordinateID]
	if !ok {
		return fmt.Errorf("user %d not found", subordinateID)
	}
	u.SupervisorID = supervisorID
	return nil
}

func (d *fakeDirectory) UpdateLocation(userID uint, state, city string) error {
	u, ok := d.users[userID]
	if !ok {
		return fmt.Errorf("user %d not found", userID)
	}
	u.AssignedState = state
	u.AssignedCity = city
	return nil
}

// newChain builds manager(1) -> area manager(2) -> sales manager(3), plus an
// unattached user 4.
func newChain() *fakeDirectory {
	one, two := uint(1), uint(2)
	return &fakeDirectory{users: map[uint]*ds.User{
		1: {ID: 1, Roles: "manager"},
		2: {ID: 2, Roles: "area_manager", SupervisorID: &one},
		3: {ID: 3, Roles: "sales_manager", SupervisorID: &two},
		4: {ID: 4, Roles: "sales_manager"},
	}}
}

func TestSupervises(t *testing.T) {
	g := orggraph.New(newChain())

	ok, err := g.Supervises(1, 2)
	if err != nil || !ok {
		t.Fatalf("1 supervises 2: got %v, %v", ok, err)
	}
	// One level only: the manager does not directly supervise the sales
	// manager two levels down.
	ok, err = g.Supervises(1, 3)
	if err != nil || ok {
		t.Fatalf("1 supervises 3: got %v, %v", ok, err)
	}
	ok, err = g.Supervises(2, 1)
	if err != nil || ok {
		t.Fatalf("reverse direction: got %v, %v", ok, err)
	}
}

func TestAssignSupervisorRejectsSelf(t *testing.T) {
	g := orggraph.New(newChain())
	if err := g.AssignSupervisor(2, 2); !apperr.IsKind(err, apperr.Validation) {
		t.Fatalf("got %v, want validation error", err)
	}
}

func TestAssignSupervisorRejectsCycle(t *testing.T) {
	g := orggraph.New(newChain())
	// 1 -> 2 -> 3 exists; making 3 supervise 1 closes a loop.
	if err := g.AssignSupervisor(1, 3); !apperr.IsKind(err, apperr.Validation) {
		t.Fatalf("got %v, want validation error", err)
	}
	// A direct two-node loop as well.
	if err := g.AssignSupervisor(1, 2); !apperr.IsKind(err, apperr.Validation) {
		t.Fatalf("got %v, want validation error", err)
	}
}

func TestAssignSupervisorUnknownUsers(t *testing.T) {
	g := orggraph.New(newChain())
	if err := g.AssignSupervisor(99, 1); !apperr.IsKind(err, apperr.NotFound) {
		t.Fatalf("unknown subordinate: got %v", err)
	}
	if err := g.AssignSupervisor(4, 99); !apperr.IsKind(err, apperr.NotFound) {
		t.Fatalf("unknown supervisor: got %v", err)
	}
}

// A supervisor change is visible to the next query immediately: the graph
// holds no cache.
func TestAssignSupervisorTakesEffectImmediately(t *testing.T) {
	dir := newChain()
	g := orggraph.New(dir)

	if err := g.AssignSupervisor(4, 2); err != nil {
		t.Fatalf("assign: %v", err)
	}
	ok, err := g.Supervises(2, 4)
	if err != nil || !ok {
		t.Fatalf("2 supervises 4 after assignment: got %v, %v", ok, err)
	}

	sups, err := g.Supervisees(2)
	if err != nil {
		t.Fatal(err)
	}
	found := false
	for _, u := range sups {
		if u.ID == 4 {
			found = true
		}
	}
	if !found {
		t.Fatalf("user 4 missing from supervisees of 2: %+v", sups)
	}
}

// Reassignment overwrites the previous back-reference rather than
// accumulating supervisors.
func TestReassignmentReplacesSupervisor(t *testing.T) {
	dir := newChain()
	g := orggraph.New(dir)

	if err := g.AssignSupervisor(3, 1); err != nil {
		t.Fatalf("reassign: %v", err)
	}
	ok, _ := g.Supervises(1, 3)
	if !ok {
		t.Fatal("new supervisor not in effect")
	}
	ok, _ = g.Supervises(2, 3)
	if ok {
		t.Fatal("old supervisor still in effect")
	}
}

func TestAssignLocation(t *testing.T) {
	dir := newChain()
	g := orggraph.New(dir)

	if err := g.AssignLocation(2, "", "Austin"); !apperr.IsKind(err, apperr.Validation) {
		t.Fatalf("empty state: got %v", err)
	}
	if err := g.AssignLocation(99, "Texas", "Austin"); !apperr.IsKind(err, apperr.NotFound) {
		t.Fatalf("unknown actor: got %v", err)
	}
	if err := g.AssignLocation(2, "Texas", "Austin"); err != nil {
		t.Fatalf("assign: %v", err)
	}
	state, city, err := g.Geography(2)
	if err != nil || state != "Texas" || city != "Austin" {
		t.Fatalf("geography = %q/%q, %v", state, city, err)
	}
}

func TestScopeStates(t *testing.T) {
	dir := newChain()
	dir.users[1].AssignedStates = "Texas, Arizona"
	g := orggraph.New(dir)

	states, err := g.ScopeStates(1)
	if err != nil {
		t.Fatal(err)
	}
	if len(states) != 2 || states[0] != "Texas" || states[1] != "Arizona" {
		t.Fatalf("states = %v", states)
	}

	states, err = g.ScopeStates(2)
	if err != nil {
		t.Fatal(err)
	}
	if len(states) != 0 {
		t.Fatalf("unscoped user states = %v, want empty", states)
	}
}
