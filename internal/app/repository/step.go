package repository

import (
	"backend/internal/app/apperr"
	"backend/internal/app/ds"
)

// Process step methods.

func (r *Repository) GetStep(id uint) (*ds.ProcessStep, error) {
	var step ds.ProcessStep
	err := r.db.First(&step, id).Error
	if err != nil {
		return nil, err
	}
	return &step, nil
}

func (r *Repository) ListSteps(projectID uint) ([]ds.ProcessStep, error) {
	var steps []ds.ProcessStep
	err := r.db.Where("project_id = ?", projectID).
		Order("step_number ASC").Find(&steps).Error
	return steps, err
}

func (r *Repository) CountStepsNotApproved(projectID uint) (int64, error) {
	var count int64
	err := r.db.Model(&ds.ProcessStep{}).
		Where("project_id = ? AND review_status != ?", projectID, ds.ReviewApproved).
		Count(&count).Error
	return count, err
}

// UpdateStepReview applies a compare-and-set on review_status.
func (r *Repository) UpdateStepReview(stepID uint, from, to, comment, evidenceURL string) error {
	res := r.db.Model(&ds.ProcessStep{}).
		Where("id = ? AND review_status = ?", stepID, from).
		Updates(map[string]interface{}{
			"review_status":    to,
			"reviewer_comment": comment,
			"evidence_url":     evidenceURL,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.Conflictf("step %d is not %s anymore", stepID, from)
	}
	return nil
}
