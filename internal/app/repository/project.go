package repository

import (
	"backend/internal/app/apperr"
	"backend/internal/app/ds"

	"gorm.io/gorm"
)

// Project methods.

func (r *Repository) CreateProject(p *ds.Project) error {
	return r.db.Create(p).Error
}

func (r *Repository) GetProject(id uint) (*ds.Project, error) {
	var p ds.Project
	err := r.db.Preload("Author").First(&p, id).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetProjectsByIDs loads the given projects ordered by creation time, newest
// first. Callers pass the id set the visibility resolver produced.
func (r *Repository) GetProjectsByIDs(ids []uint) ([]ds.Project, error) {
	if len(ids) == 0 {
		return []ds.Project{}, nil
	}
	var projects []ds.Project
	err := r.db.Preload("Author").Where("id IN ?", ids).
		Order("created_at DESC").Find(&projects).Error
	return projects, err
}

// AwardProject is the single atomic award unit: a compare-and-set on status
// plus the idempotent default step batch insert. Two concurrent awards on the
// same pending project leave exactly one winner; the loser gets a conflict.
func (r *Repository) AwardProject(projectID, vendorID uint, steps []ds.ProcessStep) (bool, error) {
	created := false
	err := r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&ds.Project{}).
			Where("id = ? AND status = ?", projectID, ds.StatusPending).
			Updates(map[string]interface{}{
				"status":             ds.StatusAssigned,
				"assigned_vendor_id": vendorID,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperr.Conflictf("project %d is no longer pending", projectID)
		}

		// Existence check inside the same transaction as the status update,
		// so a duplicate batch cannot race in.
		var count int64
		if err := tx.Model(&ds.ProcessStep{}).
			Where("project_id = ?", projectID).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}
		if err := tx.Create(&steps).Error; err != nil {
			return err
		}
		created = true
		return nil
	})
	return created, err
}

// SetProjectStatus applies a compare-and-set status transition.
func (r *Repository) SetProjectStatus(projectID uint, from, to string) error {
	res := r.db.Model(&ds.Project{}).
		Where("id = ? AND status = ?", projectID, from).
		Update("status", to)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.Conflictf("project %d is not %s anymore", projectID, from)
	}
	return nil
}
