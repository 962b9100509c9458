package lifecycle

import (
	"time"

	"backend/internal/app/apperr"
	"backend/internal/app/ds"
	"backend/internal/app/events"
	"backend/internal/app/role"
)

// Store is the persistence surface the engine drives. All status mutations
// are compare-and-set: the write applies only when the stored state still
// matches the expected precondition, otherwise the store returns a conflict.
type Store interface {
	GetUser(id uint) (*ds.User, error)
	CreateProject(p *ds.Project) error
	GetProject(id uint) (*ds.Project, error)
	CreateBid(b *ds.Bid) error
	GetBid(id uint) (*ds.Bid, error)

	// AwardProject atomically moves the project pending -> assigned, sets the
	// vendor and inserts the step batch when none exists yet. The existence
	// check and the insert run inside the same transaction as the status
	// update. Returns whether the batch was created.
	AwardProject(projectID, vendorID uint, steps []ds.ProcessStep) (stepsCreated bool, err error)

	GetStep(id uint) (*ds.ProcessStep, error)
	ListSteps(projectID uint) ([]ds.ProcessStep, error)
	CountStepsNotApproved(projectID uint) (int64, error)
	UpdateStepReview(stepID uint, from, to, comment, evidenceURL string) error
	SetProjectStatus(projectID uint, from, to string) error
}

// Org answers the supervision query used by write-scope checks.
type Org interface {
	Supervises(supervisorID, actorID uint) (bool, error)
}

// Engine applies the project lifecycle and step review transitions. Read
// scope (visibility) and write scope are checked separately: a visible
// project is not necessarily writable.
type Engine struct {
	store  Store
	org    Org
	events events.Emitter
	now    func() time.Time
}

func New(store Store, org Org, emitter events.Emitter) *Engine {
	return &Engine{store: store, org: org, events: emitter, now: time.Now}
}

// CreateProjectInput carries the createProject fields.
type CreateProjectInput struct {
	Title            string
	State            string
	City             string
	ClientID         uint
	TotalCost        float64
	AssignmentMethod string
	VendorID         uint // optional; triggers immediate award for manual method
	AreaManagerID    uint // optional explicit visibility override
}

// CreateProject builds a pending project. With the manual assignment method
// and a vendor supplied, the award transition runs immediately instead of
// leaving the project open for bidding.
func (e *Engine) CreateProject(actorID uint, in CreateProjectInput) (*ds.Project, error) {
	if in.Title == "" {
		return nil, apperr.Validationf("title is required")
	}
	if in.State == "" || in.City == "" {
		return nil, apperr.Validationf("state and city are required")
	}
	if in.ClientID == 0 {
		return nil, apperr.Validationf("client_id is required")
	}
	method := in.AssignmentMethod
	if method == "" {
		method = ds.AssignmentBidding
	}
	if method != ds.AssignmentBidding && method != ds.AssignmentManual {
		return nil, apperr.Validationf("unknown vendor assignment method %q", method)
	}

	p := &ds.Project{
		Title:                  in.Title,
		CreatedAt:              e.now(),
		AuthorID:               actorID,
		ClientID:               in.ClientID,
		State:                  in.State,
		City:                   in.City,
		Status:                 ds.StatusPending,
		VendorAssignmentMethod: method,
		TotalCost:              in.TotalCost,
	}
	if in.AreaManagerID != 0 {
		am := in.AreaManagerID
		p.AssignedAreaManagerID = &am
	}
	if err := e.store.CreateProject(p); err != nil {
		return nil, err
	}
	e.events.Emit(events.Event{
		Type:      events.TypeProjectCreated,
		ProjectID: p.ID,
		ActorID:   actorID,
	})

	if method == ds.AssignmentManual && in.VendorID != 0 {
		if _, err := e.Award(actorID, p.ID, AwardInput{VendorID: in.VendorID}); err != nil {
			return nil, err
		}
		return e.store.GetProject(p.ID)
	}
	return p, nil
}

// PlaceBid records a vendor offer on an open bidding project.
func (e *Engine) PlaceBid(vendorID, projectID uint, amount float64, comment string) (*ds.Bid, error) {
	if amount <= 0 {
		return nil, apperr.Validationf("bid amount must be positive")
	}
	p, err := e.store.GetProject(projectID)
	if err != nil {
		return nil, apperr.NotFoundf("project %d not found", projectID)
	}
	if p.VendorAssignmentMethod != ds.AssignmentBidding {
		return nil, apperr.Validationf("project %d does not accept bids", projectID)
	}
	if p.Status != ds.StatusPending {
		return nil, apperr.Conflictf("project %d is no longer open for bidding", projectID)
	}

	b := &ds.Bid{
		ProjectID: projectID,
		VendorID:  vendorID,
		Amount:    amount,
		Comment:   comment,
		CreatedAt: e.now(),
	}
	if err := e.store.CreateBid(b); err != nil {
		return nil, err
	}
	return b, nil
}

// AwardInput selects the vendor either directly or via a bid on the project.
type AwardInput struct {
	VendorID uint
	BidID    uint
}

// AwardResult reports the transition outcome. StepsInitialized is false when
// the default batch already existed (soft success, not an error).
type AwardResult struct {
	VendorID         uint
	StepsInitialized bool
}

// Award moves a pending project to assigned: sets the vendor, instantiates
// the default step batch exactly once and emits the awarded event. Losing the
// status race returns a conflict; the caller re-fetches and retries.
func (e *Engine) Award(actorID, projectID uint, in AwardInput) (*AwardResult, error) {
	p, err := e.store.GetProject(projectID)
	if err != nil {
		return nil, apperr.NotFoundf("project %d not found", projectID)
	}
	if err := e.authorizeWrite(actorID, p); err != nil {
		return nil, err
	}

	vendorID := in.VendorID
	if in.BidID != 0 {
		bid, err := e.store.GetBid(in.BidID)
		if err != nil {
			return nil, apperr.NotFoundf("bid %d not found", in.BidID)
		}
		if bid.ProjectID != projectID {
			return nil, apperr.Validationf("bid %d does not belong to project %d", in.BidID, projectID)
		}
		if vendorID != 0 && vendorID != bid.VendorID {
			return nil, apperr.Validationf("vendor_id does not match bid %d", in.BidID)
		}
		vendorID = bid.VendorID
	}
	if vendorID == 0 {
		return nil, apperr.Validationf("vendor_id or bid_id is required")
	}
	vendor, err := e.store.GetUser(vendorID)
	if err != nil || vendor == nil {
		return nil, apperr.NotFoundf("vendor %d not found", vendorID)
	}
	if !vendor.HasRole(role.Vendor) {
		return nil, apperr.Validationf("user %d is not a vendor", vendorID)
	}
	if p.Status != ds.StatusPending {
		return nil, apperr.Conflictf("project %d is no longer pending", projectID)
	}

	created, err := e.store.AwardProject(projectID, vendorID, ds.DefaultStepBatch(projectID))
	if err != nil {
		return nil, err
	}

	e.events.Emit(events.Event{
		Type:      events.TypeProjectAwarded,
		ProjectID: projectID,
		ActorID:   actorID,
		Payload:   map[string]interface{}{"vendor_id": vendorID},
	})
	return &AwardResult{VendorID: vendorID, StepsInitialized: created}, nil
}

// SubmitStep is the vendor side of the review sub-workflow: a pending or
// rejected step returns to under_review, unboundedly. The parent project
// drifts to in_progress on the first submission.
func (e *Engine) SubmitStep(actorID, stepID uint, evidenceURL string) error {
	step, err := e.store.GetStep(stepID)
	if err != nil {
		return apperr.NotFoundf("step %d not found", stepID)
	}
	p, err := e.store.GetProject(step.ProjectID)
	if err != nil {
		return apperr.NotFoundf("project %d not found", step.ProjectID)
	}

	actor, err := e.store.GetUser(actorID)
	if err != nil || actor == nil {
		return apperr.Authorizationf("actor %d is not allowed to submit this step", actorID)
	}
	assignedVendor := p.AssignedVendorID != nil && *p.AssignedVendorID == actorID
	if !assignedVendor && !actor.HasRole(role.Admin) {
		return apperr.Authorizationf("only the assigned vendor may submit step evidence")
	}

	from := step.ReviewStatus
	if from != ds.ReviewPending && from != ds.ReviewRejected {
		return apperr.Conflictf("step %d is not awaiting submission", stepID)
	}
	if err := e.store.UpdateStepReview(stepID, from, ds.ReviewUnderReview, "", evidenceURL); err != nil {
		return err
	}

	// Derived status: completion is gated on step approval, so a lost race
	// here is harmless.
	if p.Status == ds.StatusAssigned {
		if err := e.store.SetProjectStatus(p.ID, ds.StatusAssigned, ds.StatusInProgress); err != nil &&
			!apperr.IsKind(err, apperr.Conflict) {
			return err
		}
	}

	e.events.Emit(events.Event{
		Type:      events.TypeStepSubmitted,
		ProjectID: p.ID,
		ActorID:   actorID,
		Payload:   map[string]interface{}{"step_id": stepID},
	})
	return nil
}

// ReviewStep records a reviewer decision on a step under review. Rejection
// requires a comment; deciding a step never auto-completes the project.
func (e *Engine) ReviewStep(actorID, stepID uint, decision, comment string) error {
	if decision != ds.ReviewApproved && decision != ds.ReviewRejected {
		return apperr.Validationf("decision must be approved or rejected")
	}
	if decision == ds.ReviewRejected && comment == "" {
		return apperr.Validationf("a rejection requires a comment")
	}

	step, err := e.store.GetStep(stepID)
	if err != nil {
		return apperr.NotFoundf("step %d not found", stepID)
	}
	p, err := e.store.GetProject(step.ProjectID)
	if err != nil {
		return apperr.NotFoundf("project %d not found", step.ProjectID)
	}
	if err := e.authorizeReview(actorID, p); err != nil {
		return err
	}
	if step.ReviewStatus != ds.ReviewUnderReview {
		return apperr.Conflictf("step %d is not under review", stepID)
	}

	if err := e.store.UpdateStepReview(stepID, ds.ReviewUnderReview, decision, comment, step.EvidenceURL); err != nil {
		return err
	}
	e.events.Emit(events.Event{
		Type:      events.TypeStepReviewed,
		ProjectID: p.ID,
		ActorID:   actorID,
		Payload:   map[string]interface{}{"step_id": stepID, "decision": decision},
	})
	return nil
}

// Complete closes a project once every step is approved. The transition must
// be requested explicitly; it is never triggered by a step decision.
func (e *Engine) Complete(actorID, projectID uint) error {
	p, err := e.store.GetProject(projectID)
	if err != nil {
		return apperr.NotFoundf("project %d not found", projectID)
	}
	if err := e.authorizeWrite(actorID, p); err != nil {
		return err
	}
	if p.Status != ds.StatusAssigned && p.Status != ds.StatusInProgress {
		return apperr.Conflictf("project %d cannot be completed from status %s", projectID, p.Status)
	}

	steps, err := e.store.ListSteps(projectID)
	if err != nil {
		return err
	}
	if len(steps) == 0 {
		return apperr.Conflictf("project %d has no process steps", projectID)
	}
	notApproved, err := e.store.CountStepsNotApproved(projectID)
	if err != nil {
		return err
	}
	if notApproved > 0 {
		return apperr.Conflictf("project %d still has %d unapproved steps", projectID, notApproved)
	}

	if err := e.store.SetProjectStatus(projectID, p.Status, ds.StatusCompleted); err != nil {
		return err
	}
	e.events.Emit(events.Event{
		Type:      events.TypeProjectDone,
		ProjectID: projectID,
		ActorID:   actorID,
	})
	return nil
}

// Cancel aborts a project from any non-terminal state.
func (e *Engine) Cancel(actorID, projectID uint) error {
	p, err := e.store.GetProject(projectID)
	if err != nil {
		return apperr.NotFoundf("project %d not found", projectID)
	}
	if err := e.authorizeWrite(actorID, p); err != nil {
		return err
	}
	switch p.Status {
	case ds.StatusCompleted, ds.StatusCancelled:
		return apperr.Conflictf("project %d is already %s", projectID, p.Status)
	}
	return e.store.SetProjectStatus(projectID, p.Status, ds.StatusCancelled)
}

// authorizeWrite gates the award/complete/cancel transitions: admin, the
// project author, or a manager supervising the author.
func (e *Engine) authorizeWrite(actorID uint, p *ds.Project) error {
	actor, err := e.store.GetUser(actorID)
	if err != nil || actor == nil {
		return apperr.Authorizationf("actor %d may not modify project %d", actorID, p.ID)
	}
	if actor.HasRole(role.Admin) || p.AuthorID == actorID {
		return nil
	}
	if actor.HasRole(role.Manager) {
		ok, err := e.org.Supervises(actorID, p.AuthorID)
		if err == nil && ok {
			return nil
		}
	}
	return apperr.Authorizationf("actor %d may not modify project %d", actorID, p.ID)
}

// authorizeReview extends the write scope with the project's delegated
// reviewer, the explicitly assigned area manager.
func (e *Engine) authorizeReview(actorID uint, p *ds.Project) error {
	if p.AssignedAreaManagerID != nil && *p.AssignedAreaManagerID == actorID {
		return nil
	}
	return e.authorizeWrite(actorID, p)
}
