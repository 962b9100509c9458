package visibility

import (
	"sort"

	"backend/internal/app/ds"
	"backend/internal/app/role"
)

// Kind selects which entity class a resolution runs over. Projects, leads and
// review items share the same precedence rules, parameterized by kind.
type Kind string

const (
	KindProject    Kind = "project"
	KindLead       Kind = "lead"
	KindReviewItem Kind = "review_item"
)

// Record is the attribute slice of one entity the resolver needs. Review
// items carry the attributes of their parent project.
type Record struct {
	ID                    uint
	AuthorID              uint
	AssignedAreaManagerID uint // 0 = unassigned
	State                 string
	City                  string
	VendorID              uint // 0 = none
}

// BidRef links a bid to its project and vendor for bid scoping.
type BidRef struct {
	ID        uint
	ProjectID uint
	VendorID  uint
}

// Source loads entity records from the store.
type Source interface {
	Records(kind Kind) ([]Record, error)
	BidRefs() ([]BidRef, error)
}

// Org answers the hierarchy queries a manager resolution needs.
type Org interface {
	Supervisees(actorID uint) ([]ds.User, error)
}

// Users looks up actors.
type Users interface {
	GetUser(id uint) (*ds.User, error)
}

// Strategy computes the ids one role grants on top of the universal
// self-authored rule.
type Strategy func(r *Resolver, actor *ds.User, recs []Record, out map[uint]struct{}) error

// Resolver computes the exact entity id set an actor may read or act on. An
// entity is included if it matches any applicable rule; the result is
// de-duplicated, callers paginate and filter afterwards.
type Resolver struct {
	src        Source
	org        Org
	users      Users
	strategies map[role.Role]Strategy
}

func NewResolver(src Source, org Org, users Users) *Resolver {
	r := &Resolver{src: src, org: org, users: users}
	r.strategies = map[role.Role]Strategy{
		role.Admin:       adminStrategy,
		role.Manager:     managerStrategy,
		role.AreaManager: areaManagerStrategy,
		role.Vendor:      vendorStrategy,
		// sales_manager, client and cleaner get no grant beyond self-authored.
		role.SalesManager: noGrant,
		role.Client:       noGrant,
		role.Cleaner:      noGrant,
	}
	return r
}

// VisibleIDs resolves the visible id set of the given kind for the actor.
// Unknown actors and unknown roles resolve to the empty set, never to
// everything.
func (r *Resolver) VisibleIDs(actorID uint, kind Kind) ([]uint, error) {
	actor, err := r.users.GetUser(actorID)
	if err != nil || actor == nil {
		return []uint{}, nil
	}

	recs, err := r.src.Records(kind)
	if err != nil {
		return nil, err
	}

	out := make(map[uint]struct{})

	// Self-authored entities are visible for every role.
	for _, rec := range recs {
		if rec.AuthorID == actor.ID {
			out[rec.ID] = struct{}{}
		}
	}

	for _, tag := range actor.RoleList() {
		strategy, ok := r.strategies[tag]
		if !ok {
			continue
		}
		if err := strategy(r, actor, recs, out); err != nil {
			return nil, err
		}
	}

	return sortedIDs(out), nil
}

// VisibleProjectIDs resolves the project scope, the most common query.
func (r *Resolver) VisibleProjectIDs(actorID uint) ([]uint, error) {
	return r.VisibleIDs(actorID, KindProject)
}

// VisibleBidIDs scopes bids: admins see all, vendors see their own, everyone
// else sees bids on projects they can see.
func (r *Resolver) VisibleBidIDs(actorID uint) ([]uint, error) {
	actor, err := r.users.GetUser(actorID)
	if err != nil || actor == nil {
		return []uint{}, nil
	}

	bids, err := r.src.BidRefs()
	if err != nil {
		return nil, err
	}

	out := make(map[uint]struct{})
	if actor.HasRole(role.Admin) {
		for _, b := range bids {
			out[b.ID] = struct{}{}
		}
		return sortedIDs(out), nil
	}

	if actor.HasRole(role.Vendor) {
		for _, b := range bids {
			if b.VendorID == actor.ID {
				out[b.ID] = struct{}{}
			}
		}
	}

	projectIDs, err := r.VisibleProjectIDs(actorID)
	if err != nil {
		return nil, err
	}
	visible := make(map[uint]struct{}, len(projectIDs))
	for _, id := range projectIDs {
		visible[id] = struct{}{}
	}
	for _, b := range bids {
		if _, ok := visible[b.ProjectID]; ok {
			out[b.ID] = struct{}{}
		}
	}

	return sortedIDs(out), nil
}

func adminStrategy(_ *Resolver, _ *ds.User, recs []Record, out map[uint]struct{}) error {
	for _, rec := range recs {
		out[rec.ID] = struct{}{}
	}
	return nil
}

// managerStrategy: an empty configured state set falls back to global scope
// (observed legacy behavior, kept deliberately); otherwise the manager sees
// entities in its states plus everything its supervised area managers see by
// the area-manager rule.
func managerStrategy(r *Resolver, actor *ds.User, recs []Record, out map[uint]struct{}) error {
	scope := actor.StateScope()
	if len(scope) == 0 {
		return adminStrategy(r, actor, recs, out)
	}

	inScope := make(map[string]struct{}, len(scope))
	for _, s := range scope {
		inScope[s] = struct{}{}
	}
	for _, rec := range recs {
		if _, ok := inScope[rec.State]; ok {
			out[rec.ID] = struct{}{}
		}
	}

	sups, err := r.org.Supervisees(actor.ID)
	if err != nil {
		return err
	}
	for i := range sups {
		if !sups[i].HasRole(role.AreaManager) {
			continue
		}
		collectAreaManagerMatches(&sups[i], recs, out)
	}
	return nil
}

func areaManagerStrategy(_ *Resolver, actor *ds.User, recs []Record, out map[uint]struct{}) error {
	collectAreaManagerMatches(actor, recs, out)
	return nil
}

// collectAreaManagerMatches applies the two area-manager rules: explicit
// assignment wins regardless of geography, and a location match counts only
// when the entity is unassigned or assigned to this same manager.
func collectAreaManagerMatches(am *ds.User, recs []Record, out map[uint]struct{}) {
	for _, rec := range recs {
		if rec.AssignedAreaManagerID == am.ID {
			out[rec.ID] = struct{}{}
			continue
		}
		if am.AssignedState == "" {
			continue
		}
		if rec.State == am.AssignedState && rec.City == am.AssignedCity &&
			rec.AssignedAreaManagerID == 0 {
			out[rec.ID] = struct{}{}
		}
	}
}

func vendorStrategy(_ *Resolver, actor *ds.User, recs []Record, out map[uint]struct{}) error {
	for _, rec := range recs {
		if rec.VendorID == actor.ID {
			out[rec.ID] = struct{}{}
		}
	}
	return nil
}

func noGrant(_ *Resolver, _ *ds.User, _ []Record, _ map[uint]struct{}) error {
	return nil
}

func sortedIDs(set map[uint]struct{}) []uint {
	ids := make([]uint, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
