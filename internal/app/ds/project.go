package ds

import "time"

// Project statuses.
const (
	StatusPending    = "pending"
	StatusAssigned   = "assigned"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusCancelled  = "cancelled"
)

// Vendor assignment methods.
const (
	AssignmentBidding = "bidding"
	AssignmentManual  = "manual"
)

// Project is one solar installation job. Status is mutated only through the
// lifecycle engine; assigned/in_progress/completed imply AssignedVendorID set.
type Project struct {
	ID        uint      `gorm:"primaryKey"`
	Title     string    `gorm:"type:varchar(200);not null"`
	CreatedAt time.Time `gorm:"not null"`

	AuthorID uint `gorm:"not null;index"`
	ClientID uint `gorm:"not null"`

	// AssignedAreaManagerID is an explicit visibility override. NULL means the
	// project is claimable by geography.
	AssignedAreaManagerID *uint `gorm:"index"`

	State string `gorm:"type:varchar(50);not null"`
	City  string `gorm:"type:varchar(50);not null"`

	Status                 string `gorm:"type:varchar(20);not null;default:'pending'"`
	VendorAssignmentMethod string `gorm:"type:varchar(20);not null;default:'bidding'"`
	AssignedVendorID       *uint  `gorm:"index"`

	TotalCost  float64 `gorm:"type:decimal(12,2);default:0"`
	ClientPaid float64 `gorm:"type:decimal(12,2);default:0"`
	VendorPaid float64 `gorm:"type:decimal(12,2);default:0"`

	Author *User `gorm:"foreignKey:AuthorID"`
}
