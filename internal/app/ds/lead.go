package ds

import "time"

// Lead statuses.
const (
	LeadNew       = "new"
	LeadContacted = "contacted"
	LeadConverted = "converted"
	LeadDropped   = "dropped"
)

// Lead is a sales prospect. AssignedAreaManagerID is derived from the
// creator's supervisor at creation time and shares the project visibility
// precedence.
type Lead struct {
	ID        uint      `gorm:"primaryKey"`
	CreatedAt time.Time `gorm:"not null"`

	AuthorID              uint  `gorm:"not null;index"`
	AssignedAreaManagerID *uint `gorm:"index"`

	ClientName string `gorm:"type:varchar(100);not null"`
	Phone      string `gorm:"type:varchar(30)"`
	State      string `gorm:"type:varchar(50)"`
	City       string `gorm:"type:varchar(50)"`
	Status     string `gorm:"type:varchar(20);not null;default:'new'"`

	Author *User `gorm:"foreignKey:AuthorID"`
}
