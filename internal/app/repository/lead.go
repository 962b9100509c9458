package repository

import (
	"backend/internal/app/ds"
)

// Lead methods.

func (r *Repository) CreateLead(l *ds.Lead) error {
	return r.db.Create(l).Error
}

func (r *Repository) GetLead(id uint) (*ds.Lead, error) {
	var l ds.Lead
	err := r.db.Preload("Author").First(&l, id).Error
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *Repository) GetLeadsByIDs(ids []uint) ([]ds.Lead, error) {
	if len(ids) == 0 {
		return []ds.Lead{}, nil
	}
	var leads []ds.Lead
	err := r.db.Preload("Author").Where("id IN ?", ids).
		Order("created_at DESC").Find(&leads).Error
	return leads, err
}

func (r *Repository) UpdateLeadStatus(id uint, status string) error {
	return r.db.Model(&ds.Lead{}).Where("id = ?", id).
		Update("status", status).Error
}
