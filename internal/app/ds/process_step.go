package ds

// Step review statuses.
const (
	ReviewPending     = "pending"
	ReviewUnderReview = "under_review"
	ReviewApproved    = "approved"
	ReviewRejected    = "rejected"
)

// ProcessStep is one stage of a project's installation checklist. The default
// batch is created exactly once per project, at award time.
type ProcessStep struct {
	ID         uint   `gorm:"primaryKey"`
	ProjectID  uint   `gorm:"not null;index;uniqueIndex:idx_project_step_number"`
	StepNumber int    `gorm:"not null;uniqueIndex:idx_project_step_number"`
	Name       string `gorm:"type:varchar(100);not null"`

	ReviewStatus    string `gorm:"type:varchar(20);not null;default:'pending'"`
	ReviewerComment string `gorm:"type:text"`

	// EvidenceURL is the MinIO object name of the photo the vendor attached on
	// submission, if any.
	EvidenceURL string `gorm:"type:varchar(255)"`

	Project *Project `gorm:"foreignKey:ProjectID"`
}

// DefaultStepNames is the organization's installation checklist template,
// instantiated as a batch when a vendor is assigned.
var DefaultStepNames = []string{
	"Site Survey",
	"Permitting",
	"Equipment Delivery",
	"Mounting and Racking",
	"Electrical Wiring",
	"Inspection and Commissioning",
}

// DefaultStepBatch builds the template batch for a project with ascending,
// gap-free step numbers starting at 1.
func DefaultStepBatch(projectID uint) []ProcessStep {
	steps := make([]ProcessStep, len(DefaultStepNames))
	for i, name := range DefaultStepNames {
		steps[i] = ProcessStep{
			ProjectID:    projectID,
			StepNumber:   i + 1,
			Name:         name,
			ReviewStatus: ReviewPending,
		}
	}
	return steps
}
