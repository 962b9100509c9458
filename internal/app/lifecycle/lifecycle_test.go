package lifecycle_test

import (
	"fmt"
	"sync"
	"testing"

	"backend/internal/app/apperr"
	"backend/internal/app/ds"
	"backend/internal/app/events"
	"backend/internal/app/lifecycle"
	"backend/internal/app/role"
)

// memStore is an in-memory Store with the same compare-and-set contract as
// the repository: a status write applies only when the stored value still
// matches the expected precondition.
type memStore struct {
	mu       sync.Mutex
	users    map[uint]*ds.User
	projects map[uint]*ds.Project
	bids     map[uint]*ds.Bid
	steps    map[uint]*ds.ProcessStep
	nextID   uint
}

func newMemStore() *memStore {
	return &memStore{
		users:    make(map[uint]*ds.User),
		projects: make(map[uint]*ds.Project),
		bids:     make(map[uint]*ds.Bid),
		steps:    make(map[uint]*ds.ProcessStep),
		nextID:   1,
	}
}

func (s *memStore) id() uint {
	id := s.nextID
	s.nextID++
	return id
}

func (s *memStore) addUser(u ds.User) uint {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u.ID == 0 {
		u.ID = s.id()
	}
	s.users[u.ID] = &u
	return u.ID
}

func (s *memStore) GetUser(id uint) (*ds.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, fmt.Errorf("user %d not found", id)
	}
	cp := *u
	return &cp, nil
}

func (s *memStore) CreateProject(p *ds.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p.ID = s.id()
	cp := *p
	s.projects[p.ID] = &cp
	return nil
}

func (s *memStore) GetProject(id uint) (*ds.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.projects[id]
	if !ok {
		return nil, fmt.Errorf("project %d not found", id)
	}
	cp := *p
	return &cp, nil
}

func (s *memStore) CreateBid(b *ds.Bid) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, other := range s.bids {
		if other.ProjectID == b.ProjectID && other.VendorID == b.VendorID {
			return apperr.Conflictf("vendor %d already bid on project %d", b.VendorID, b.ProjectID)
		}
	}
	b.ID = s.id()
	cp := *b
	s.bids[b.ID] = &cp
	return nil
}

func (s *memStore) GetBid(id uint) (*ds.Bid, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bids[id]
	if !ok {
		return nil, fmt.Errorf("bid %d not found", id)
	}
	cp := *b
	return &cp, nil
}

func (s *memStore) AwardProject(projectID, vendorID uint, steps []ds.ProcessStep) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.projects[projectID]
	if !ok {
		return false, fmt.Errorf("project %d not found", projectID)
	}
	if p.Status != ds.StatusPending {
		return false, apperr.Conflictf("project %d is no longer pending", projectID)
	}
	p.Status = ds.StatusAssigned
	v := vendorID
	p.AssignedVendorID = &v

	for _, st := range s.steps {
		if st.ProjectID == projectID {
			return false, nil
		}
	}
	for i := range steps {
		cp := steps[i]
		cp.ID = s.id()
		s.steps[cp.ID] = &cp
	}
	return true, nil
}

func (s *memStore) GetStep(id uint) (*ds.ProcessStep, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.steps[id]
	if !ok {
		return nil, fmt.Errorf("step %d not found", id)
	}
	cp := *st
	return &cp, nil
}

func (s *memStore) ListSteps(projectID uint) ([]ds.ProcessStep, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []ds.ProcessStep
	for _, st := range s.steps {
		if st.ProjectID == projectID {
			out = append(out, *st)
		}
	}
	return out, nil
}

func (s *memStore) CountStepsNotApproved(projectID uint) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for _, st := range s.steps {
		if st.ProjectID == projectID && st.ReviewStatus != ds.ReviewApproved {
			n++
		}
	}
	return n, nil
}

func (s *memStore) UpdateStepReview(stepID uint, from, to, comment, evidenceURL string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.steps[stepID]
	if !ok {
		return fmt.Errorf("step %d not found", stepID)
	}
	if st.ReviewStatus != from {
		return apperr.Conflictf("step %d is no longer %s", stepID, from)
	}
	st.ReviewStatus = to
	st.ReviewerComment = comment
	st.EvidenceURL = evidenceURL
	return nil
}

func (s *memStore) SetProjectStatus(projectID uint, from, to string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.projects[projectID]
	if !ok {
		return fmt.Errorf("project %d not found", projectID)
	}
	if p.Status != from {
		return apperr.Conflictf("project %d is no longer %s", projectID, from)
	}
	p.Status = to
	return nil
}

// Supervises implements the lifecycle Org surface over the same user map.
func (s *memStore) Supervises(supervisorID, actorID uint) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[actorID]
	if !ok {
		return false, fmt.Errorf("user %d not found", actorID)
	}
	return u.SupervisorID != nil && *u.SupervisorID == supervisorID, nil
}

type fixture struct {
	store   *memStore
	engine  *lifecycle.Engine
	admin   uint
	manager uint
	am      uint
	sm      uint
	vendor  uint
	vendor2 uint
	client  uint
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	s := newMemStore()
	f := &fixture{store: s}
	f.admin = s.addUser(ds.User{Login: "admin", Roles: string(role.Admin)})
	f.manager = s.addUser(ds.User{Login: "manager", Roles: string(role.Manager), AssignedStates: "Texas"})
	mgr := f.manager
	f.am = s.addUser(ds.User{Login: "am", Roles: string(role.AreaManager), AssignedState: "Texas", AssignedCity: "Austin", SupervisorID: &mgr})
	am := f.am
	f.sm = s.addUser(ds.User{Login: "sm", Roles: string(role.SalesManager), SupervisorID: &am})
	f.vendor = s.addUser(ds.User{Login: "vendor", Roles: string(role.Vendor)})
	f.vendor2 = s.addUser(ds.User{Login: "vendor2", Roles: string(role.Vendor)})
	f.client = s.addUser(ds.User{Login: "client", Roles: string(role.Client)})
	f.engine = lifecycle.New(s, s, events.NewDispatcher())
	return f
}

func (f *fixture) newProject(t *testing.T, method string) *ds.Project {
	t.Helper()
	p, err := f.engine.CreateProject(f.sm, lifecycle.CreateProjectInput{
		Title:            "Rooftop array",
		State:            "Texas",
		City:             "Austin",
		ClientID:         f.client,
		TotalCost:        25000,
		AssignmentMethod: method,
	})
	if err != nil {
		t.Fatalf("create project: %v", err)
	}
	return p
}

func (f *fixture) awarded(t *testing.T) *ds.Project {
	t.Helper()
	p := f.newProject(t, ds.AssignmentBidding)
	if _, err := f.engine.Award(f.sm, p.ID, lifecycle.AwardInput{VendorID: f.vendor}); err != nil {
		t.Fatalf("award: %v", err)
	}
	got, err := f.store.GetProject(p.ID)
	if err != nil {
		t.Fatal(err)
	}
	return got
}

func (f *fixture) approveAll(t *testing.T, projectID uint) {
	t.Helper()
	steps, _ := f.store.ListSteps(projectID)
	for _, st := range steps {
		if st.ReviewStatus == ds.ReviewApproved {
			continue
		}
		if st.ReviewStatus != ds.ReviewUnderReview {
			if err := f.engine.SubmitStep(f.vendor, st.ID, ""); err != nil {
				t.Fatalf("submit step %d: %v", st.StepNumber, err)
			}
		}
		if err := f.engine.ReviewStep(f.sm, st.ID, ds.ReviewApproved, ""); err != nil {
			t.Fatalf("approve step %d: %v", st.StepNumber, err)
		}
	}
}

func TestCreateProjectValidation(t *testing.T) {
	f := newFixture(t)
	_, err := f.engine.CreateProject(f.sm, lifecycle.CreateProjectInput{State: "Texas", City: "Austin", ClientID: f.client})
	if !apperr.IsKind(err, apperr.Validation) {
		t.Fatalf("missing title: got %v", err)
	}
	_, err = f.engine.CreateProject(f.sm, lifecycle.CreateProjectInput{Title: "x", ClientID: f.client})
	if !apperr.IsKind(err, apperr.Validation) {
		t.Fatalf("missing location: got %v", err)
	}
	_, err = f.engine.CreateProject(f.sm, lifecycle.CreateProjectInput{
		Title: "x", State: "Texas", City: "Austin", ClientID: f.client, AssignmentMethod: "raffle",
	})
	if !apperr.IsKind(err, apperr.Validation) {
		t.Fatalf("unknown method: got %v", err)
	}
}

func TestAwardInitializesStepBatch(t *testing.T) {
	f := newFixture(t)
	p := f.newProject(t, ds.AssignmentBidding)

	res, err := f.engine.Award(f.sm, p.ID, lifecycle.AwardInput{VendorID: f.vendor})
	if err != nil {
		t.Fatalf("award: %v", err)
	}
	if !res.StepsInitialized || res.VendorID != f.vendor {
		t.Fatalf("unexpected result %+v", res)
	}

	got, _ := f.store.GetProject(p.ID)
	if got.Status != ds.StatusAssigned {
		t.Fatalf("status = %s, want assigned", got.Status)
	}
	if got.AssignedVendorID == nil || *got.AssignedVendorID != f.vendor {
		t.Fatalf("vendor not set: %+v", got)
	}

	steps, _ := f.store.ListSteps(p.ID)
	if len(steps) != len(ds.DefaultStepNames) {
		t.Fatalf("got %d steps, want %d", len(steps), len(ds.DefaultStepNames))
	}
	seen := make(map[int]bool)
	for _, st := range steps {
		if st.ReviewStatus != ds.ReviewPending {
			t.Fatalf("step %d starts %s, want pending", st.StepNumber, st.ReviewStatus)
		}
		seen[st.StepNumber] = true
	}
	for n := 1; n <= len(ds.DefaultStepNames); n++ {
		if !seen[n] {
			t.Fatalf("step number %d missing", n)
		}
	}
}

// Two concurrent awards of the same pending project: exactly one wins, the
// other gets a conflict, and exactly one step batch exists afterwards.
func TestConcurrentAwardSingleWinner(t *testing.T) {
	f := newFixture(t)
	p := f.newProject(t, ds.AssignmentBidding)

	results := make(chan error, 2)
	var wg sync.WaitGroup
	for _, vendorID := range []uint{f.vendor, f.vendor2} {
		wg.Add(1)
		go func(v uint) {
			defer wg.Done()
			_, err := f.engine.Award(f.sm, p.ID, lifecycle.AwardInput{VendorID: v})
			results <- err
		}(vendorID)
	}
	wg.Wait()
	close(results)

	var wins, conflicts int
	for err := range results {
		switch {
		case err == nil:
			wins++
		case apperr.IsKind(err, apperr.Conflict):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if wins != 1 || conflicts != 1 {
		t.Fatalf("wins=%d conflicts=%d, want exactly one of each", wins, conflicts)
	}

	steps, _ := f.store.ListSteps(p.ID)
	if len(steps) != len(ds.DefaultStepNames) {
		t.Fatalf("got %d steps, want one batch of %d", len(steps), len(ds.DefaultStepNames))
	}
}

// A pre-existing batch makes award a soft success: no duplicate steps, no
// error, StepsInitialized false.
func TestAwardStepBatchIdempotent(t *testing.T) {
	f := newFixture(t)
	p := f.newProject(t, ds.AssignmentBidding)
	for _, st := range ds.DefaultStepBatch(p.ID) {
		cp := st
		cp.ID = f.store.id()
		f.store.steps[cp.ID] = &cp
	}

	res, err := f.engine.Award(f.sm, p.ID, lifecycle.AwardInput{VendorID: f.vendor})
	if err != nil {
		t.Fatalf("award: %v", err)
	}
	if res.StepsInitialized {
		t.Fatal("StepsInitialized = true, want false for existing batch")
	}
	steps, _ := f.store.ListSteps(p.ID)
	if len(steps) != len(ds.DefaultStepNames) {
		t.Fatalf("got %d steps, want %d", len(steps), len(ds.DefaultStepNames))
	}
}

func TestAwardByBid(t *testing.T) {
	f := newFixture(t)
	p := f.newProject(t, ds.AssignmentBidding)
	b, err := f.engine.PlaceBid(f.vendor, p.ID, 19000, "fast crew")
	if err != nil {
		t.Fatalf("place bid: %v", err)
	}

	res, err := f.engine.Award(f.sm, p.ID, lifecycle.AwardInput{BidID: b.ID})
	if err != nil {
		t.Fatalf("award by bid: %v", err)
	}
	if res.VendorID != f.vendor {
		t.Fatalf("awarded vendor %d, want %d", res.VendorID, f.vendor)
	}

	// A second bid on the now-assigned project is rejected.
	_, err = f.engine.PlaceBid(f.vendor2, p.ID, 18000, "")
	if !apperr.IsKind(err, apperr.Conflict) {
		t.Fatalf("bid on assigned project: got %v", err)
	}
}

func TestPlaceBidRejectedOnManualProject(t *testing.T) {
	f := newFixture(t)
	p := f.newProject(t, ds.AssignmentManual)
	_, err := f.engine.PlaceBid(f.vendor, p.ID, 1000, "")
	if !apperr.IsKind(err, apperr.Validation) {
		t.Fatalf("got %v, want validation error", err)
	}
}

func TestAwardRejectsNonVendor(t *testing.T) {
	f := newFixture(t)
	p := f.newProject(t, ds.AssignmentBidding)
	_, err := f.engine.Award(f.sm, p.ID, lifecycle.AwardInput{VendorID: f.client})
	if !apperr.IsKind(err, apperr.Validation) {
		t.Fatalf("got %v, want validation error", err)
	}
}

func TestManualMethodAwardsImmediately(t *testing.T) {
	f := newFixture(t)
	p, err := f.engine.CreateProject(f.sm, lifecycle.CreateProjectInput{
		Title:            "Carport canopy",
		State:            "Texas",
		City:             "Austin",
		ClientID:         f.client,
		AssignmentMethod: ds.AssignmentManual,
		VendorID:         f.vendor,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if p.Status != ds.StatusAssigned {
		t.Fatalf("status = %s, want assigned", p.Status)
	}
	steps, _ := f.store.ListSteps(p.ID)
	if len(steps) != len(ds.DefaultStepNames) {
		t.Fatalf("got %d steps, want %d", len(steps), len(ds.DefaultStepNames))
	}
}

func TestSubmitStepOnlyAssignedVendor(t *testing.T) {
	f := newFixture(t)
	p := f.awarded(t)
	steps, _ := f.store.ListSteps(p.ID)
	step := steps[0]

	if err := f.engine.SubmitStep(f.vendor2, step.ID, ""); !apperr.IsKind(err, apperr.Authorization) {
		t.Fatalf("other vendor: got %v, want authorization error", err)
	}
	if err := f.engine.SubmitStep(f.vendor, step.ID, "evidence_abc.jpg"); err != nil {
		t.Fatalf("assigned vendor: %v", err)
	}

	got, _ := f.store.GetStep(step.ID)
	if got.ReviewStatus != ds.ReviewUnderReview {
		t.Fatalf("step status = %s, want under_review", got.ReviewStatus)
	}
	if got.EvidenceURL != "evidence_abc.jpg" {
		t.Fatalf("evidence not recorded: %q", got.EvidenceURL)
	}

	// First submission drifts the project to in_progress.
	proj, _ := f.store.GetProject(p.ID)
	if proj.Status != ds.StatusInProgress {
		t.Fatalf("project status = %s, want in_progress", proj.Status)
	}
}

func TestSubmitStepRequiresAwaitingState(t *testing.T) {
	f := newFixture(t)
	p := f.awarded(t)
	steps, _ := f.store.ListSteps(p.ID)
	step := steps[0]

	if err := f.engine.SubmitStep(f.vendor, step.ID, ""); err != nil {
		t.Fatal(err)
	}
	// Already under review: a second submission conflicts.
	if err := f.engine.SubmitStep(f.vendor, step.ID, ""); !apperr.IsKind(err, apperr.Conflict) {
		t.Fatalf("got %v, want conflict", err)
	}
}

func TestReviewStepDecisions(t *testing.T) {
	f := newFixture(t)
	p := f.awarded(t)
	steps, _ := f.store.ListSteps(p.ID)
	step := steps[0]

	// Not under review yet.
	if err := f.engine.ReviewStep(f.sm, step.ID, ds.ReviewApproved, ""); !apperr.IsKind(err, apperr.Conflict) {
		t.Fatalf("review pending step: got %v, want conflict", err)
	}

	if err := f.engine.SubmitStep(f.vendor, step.ID, ""); err != nil {
		t.Fatal(err)
	}

	// Rejection without a comment is invalid.
	if err := f.engine.ReviewStep(f.sm, step.ID, ds.ReviewRejected, ""); !apperr.IsKind(err, apperr.Validation) {
		t.Fatalf("comment-less rejection: got %v, want validation error", err)
	}
	if err := f.engine.ReviewStep(f.sm, step.ID, "maybe", "hm"); !apperr.IsKind(err, apperr.Validation) {
		t.Fatalf("unknown decision: got %v, want validation error", err)
	}

	if err := f.engine.ReviewStep(f.sm, step.ID, ds.ReviewRejected, "panel misaligned"); err != nil {
		t.Fatalf("reject: %v", err)
	}
	got, _ := f.store.GetStep(step.ID)
	if got.ReviewStatus != ds.ReviewRejected || got.ReviewerComment != "panel misaligned" {
		t.Fatalf("after rejection: %+v", got)
	}

	// Rejected steps are resubmittable, then approvable.
	if err := f.engine.SubmitStep(f.vendor, step.ID, "evidence_retry.jpg"); err != nil {
		t.Fatalf("resubmit: %v", err)
	}
	if err := f.engine.ReviewStep(f.sm, step.ID, ds.ReviewApproved, ""); err != nil {
		t.Fatalf("approve: %v", err)
	}
	got, _ = f.store.GetStep(step.ID)
	if got.ReviewStatus != ds.ReviewApproved {
		t.Fatalf("final status = %s, want approved", got.ReviewStatus)
	}
}

func TestReviewAuthorization(t *testing.T) {
	f := newFixture(t)
	p := f.newProject(t, ds.AssignmentBidding)

	// Delegate review to the area manager via explicit assignment.
	stored := f.store.projects[p.ID]
	am := f.am
	stored.AssignedAreaManagerID = &am

	if _, err := f.engine.Award(f.sm, p.ID, lifecycle.AwardInput{VendorID: f.vendor}); err != nil {
		t.Fatal(err)
	}
	steps, _ := f.store.ListSteps(p.ID)
	step := steps[0]
	if err := f.engine.SubmitStep(f.vendor, step.ID, ""); err != nil {
		t.Fatal(err)
	}

	// The vendor cannot review its own work.
	if err := f.engine.ReviewStep(f.vendor, step.ID, ds.ReviewApproved, ""); !apperr.IsKind(err, apperr.Authorization) {
		t.Fatalf("vendor review: got %v, want authorization error", err)
	}
	// The assigned area manager can.
	if err := f.engine.ReviewStep(f.am, step.ID, ds.ReviewApproved, ""); err != nil {
		t.Fatalf("area manager review: %v", err)
	}
}

func TestCompleteGatedOnApprovals(t *testing.T) {
	f := newFixture(t)
	p := f.awarded(t)

	// Nothing approved yet.
	if err := f.engine.Complete(f.sm, p.ID); !apperr.IsKind(err, apperr.Conflict) {
		t.Fatalf("early complete: got %v, want conflict", err)
	}

	f.approveAll(t, p.ID)

	// Approving the last step does not complete the project by itself.
	got, _ := f.store.GetProject(p.ID)
	if got.Status == ds.StatusCompleted {
		t.Fatal("project auto-completed on last approval")
	}

	if err := f.engine.Complete(f.sm, p.ID); err != nil {
		t.Fatalf("complete: %v", err)
	}
	got, _ = f.store.GetProject(p.ID)
	if got.Status != ds.StatusCompleted {
		t.Fatalf("status = %s, want completed", got.Status)
	}
}

func TestCompleteRequiresSteps(t *testing.T) {
	f := newFixture(t)
	p := f.newProject(t, ds.AssignmentBidding)
	// Force the status past pending without a batch.
	f.store.projects[p.ID].Status = ds.StatusAssigned

	if err := f.engine.Complete(f.sm, p.ID); !apperr.IsKind(err, apperr.Conflict) {
		t.Fatalf("got %v, want conflict for missing steps", err)
	}
}

func TestCancelTransitions(t *testing.T) {
	f := newFixture(t)

	p := f.newProject(t, ds.AssignmentBidding)
	if err := f.engine.Cancel(f.sm, p.ID); err != nil {
		t.Fatalf("cancel pending: %v", err)
	}

	p2 := f.awarded(t)
	f.approveAll(t, p2.ID)
	if err := f.engine.Complete(f.sm, p2.ID); err != nil {
		t.Fatal(err)
	}
	if err := f.engine.Cancel(f.sm, p2.ID); !apperr.IsKind(err, apperr.Conflict) {
		t.Fatalf("cancel completed: got %v, want conflict", err)
	}
	if err := f.engine.Cancel(f.sm, p.ID); !apperr.IsKind(err, apperr.Conflict) {
		t.Fatalf("cancel cancelled: got %v, want conflict", err)
	}
}

// Write scope: admin and author always, a manager only over its direct
// subordinates' projects.
func TestWriteScope(t *testing.T) {
	f := newFixture(t)
	p := f.newProject(t, ds.AssignmentBidding)

	if err := f.engine.Cancel(f.vendor, p.ID); !apperr.IsKind(err, apperr.Authorization) {
		t.Fatalf("vendor cancel: got %v, want authorization error", err)
	}
	// The manager supervises the area manager, not the sales manager, so the
	// one-level rule denies it here.
	if err := f.engine.Cancel(f.manager, p.ID); !apperr.IsKind(err, apperr.Authorization) {
		t.Fatalf("skip-level manager cancel: got %v, want authorization error", err)
	}

	// A project authored by the area manager is cancellable by its manager.
	p2, err := f.engine.CreateProject(f.am, lifecycle.CreateProjectInput{
		Title: "Ground mount", State: "Texas", City: "Austin", ClientID: f.client,
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := f.engine.Cancel(f.manager, p2.ID); err != nil {
		t.Fatalf("supervising manager cancel: %v", err)
	}

	p3 := f.newProject(t, ds.AssignmentBidding)
	if err := f.engine.Cancel(f.admin, p3.ID); err != nil {
		t.Fatalf("admin cancel: %v", err)
	}
}
