package repository

import (
	"backend/internal/app/ds"
)

// Bid methods.

func (r *Repository) CreateBid(b *ds.Bid) error {
	return r.db.Create(b).Error
}

func (r *Repository) GetBid(id uint) (*ds.Bid, error) {
	var b ds.Bid
	err := r.db.First(&b, id).Error
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *Repository) GetBidsByIDs(ids []uint) ([]ds.Bid, error) {
	if len(ids) == 0 {
		return []ds.Bid{}, nil
	}
	var bids []ds.Bid
	err := r.db.Preload("Vendor").Where("id IN ?", ids).
		Order("created_at DESC").Find(&bids).Error
	return bids, err
}

func (r *Repository) ListBidsForProject(projectID uint) ([]ds.Bid, error) {
	var bids []ds.Bid
	err := r.db.Preload("Vendor").Where("project_id = ?", projectID).
		Order("amount ASC").Find(&bids).Error
	return bids, err
}
