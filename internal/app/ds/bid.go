package ds

import "time"

// Bid is one vendor offer on an open project. Bids freeze once the project is
// awarded; at most one is the winning bid.
type Bid struct {
	ID        uint      `gorm:"primaryKey"`
	ProjectID uint      `gorm:"not null;index;uniqueIndex:idx_project_vendor_bid"`
	VendorID  uint      `gorm:"not null;index;uniqueIndex:idx_project_vendor_bid"`
	Amount    float64   `gorm:"type:decimal(12,2);not null"`
	Comment   string    `gorm:"type:text"`
	CreatedAt time.Time `gorm:"not null"`

	Project *Project `gorm:"foreignKey:ProjectID"`
	Vendor  *User    `gorm:"foreignKey:VendorID"`
}
