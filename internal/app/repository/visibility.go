package repository

import (
	"backend/internal/app/ds"
	"backend/internal/app/visibility"
)

// The repository is the resolver's record source. Review items inherit the
// attributes of their parent project, joined in Go (map join like the rest of
// this package).

func (r *Repository) Records(kind visibility.Kind) ([]visibility.Record, error) {
	switch kind {
	case visibility.KindProject:
		return r.projectRecords()
	case visibility.KindLead:
		return r.leadRecords()
	case visibility.KindReviewItem:
		return r.reviewItemRecords()
	}
	return []visibility.Record{}, nil
}

func (r *Repository) projectRecords() ([]visibility.Record, error) {
	var projects []ds.Project
	if err := r.db.Find(&projects).Error; err != nil {
		return nil, err
	}
	recs := make([]visibility.Record, len(projects))
	for i, p := range projects {
		recs[i] = projectRecord(&p, p.ID)
	}
	return recs, nil
}

func (r *Repository) leadRecords() ([]visibility.Record, error) {
	var leads []ds.Lead
	if err := r.db.Find(&leads).Error; err != nil {
		return nil, err
	}
	recs := make([]visibility.Record, len(leads))
	for i, l := range leads {
		recs[i] = visibility.Record{
			ID:                    l.ID,
			AuthorID:              l.AuthorID,
			AssignedAreaManagerID: deref(l.AssignedAreaManagerID),
			State:                 l.State,
			City:                  l.City,
		}
	}
	return recs, nil
}

func (r *Repository) reviewItemRecords() ([]visibility.Record, error) {
	var steps []ds.ProcessStep
	err := r.db.Where("review_status = ?", ds.ReviewUnderReview).Find(&steps).Error
	if err != nil {
		return nil, err
	}
	if len(steps) == 0 {
		return []visibility.Record{}, nil
	}

	var projects []ds.Project
	if err := r.db.Find(&projects).Error; err != nil {
		return nil, err
	}
	projectMap := make(map[uint]*ds.Project, len(projects))
	for i := range projects {
		projectMap[projects[i].ID] = &projects[i]
	}

	recs := make([]visibility.Record, 0, len(steps))
	for _, s := range steps {
		p, ok := projectMap[s.ProjectID]
		if !ok {
			continue
		}
		recs = append(recs, projectRecord(p, s.ID))
	}
	return recs, nil
}

func (r *Repository) BidRefs() ([]visibility.BidRef, error) {
	var bids []ds.Bid
	if err := r.db.Find(&bids).Error; err != nil {
		return nil, err
	}
	refs := make([]visibility.BidRef, len(bids))
	for i, b := range bids {
		refs[i] = visibility.BidRef{ID: b.ID, ProjectID: b.ProjectID, VendorID: b.VendorID}
	}
	return refs, nil
}

func projectRecord(p *ds.Project, id uint) visibility.Record {
	return visibility.Record{
		ID:                    id,
		AuthorID:              p.AuthorID,
		AssignedAreaManagerID: deref(p.AssignedAreaManagerID),
		State:                 p.State,
		City:                  p.City,
		VendorID:              deref(p.AssignedVendorID),
	}
}

func deref(v *uint) uint {
	if v == nil {
		return 0
	}
	return *v
}
