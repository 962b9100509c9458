package dto

import "time"

// ============ Common ============

type ErrorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type SuccessResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// ============ Projects ============

type ProjectResponse struct {
	ID                     uint      `json:"id"`
	Title                  string    `json:"title"`
	CreatedAt              time.Time `json:"created_at"`
	Author                 string    `json:"author"`
	ClientID               uint      `json:"client_id"`
	AssignedAreaManagerID  uint      `json:"assigned_area_manager_id,omitempty"`
	State                  string    `json:"state"`
	City                   string    `json:"city"`
	Status                 string    `json:"status"`
	VendorAssignmentMethod string    `json:"vendor_assignment_method"`
	AssignedVendorID       uint      `json:"assigned_vendor_id,omitempty"`
	TotalCost              float64   `json:"total_cost"`
	ClientPaid             float64   `json:"client_paid"`
	VendorPaid             float64   `json:"vendor_paid"`

	Steps []StepResponse `json:"steps,omitempty"` // only on GET one project
}

type ProjectListResponse struct {
	Projects []ProjectResponse `json:"projects"`
	Total    int               `json:"total"`
}

type CreateProjectRequest struct {
	Title            string  `json:"title" binding:"required"`
	State            string  `json:"state" binding:"required"`
	City             string  `json:"city" binding:"required"`
	ClientID         uint    `json:"client_id" binding:"required"`
	TotalCost        float64 `json:"total_cost" binding:"omitempty,gte=0"`
	AssignmentMethod string  `json:"vendor_assignment_method" binding:"omitempty,oneof=bidding manual"`
	VendorID         uint    `json:"vendor_id"`
	AreaManagerID    uint    `json:"area_manager_id"`
}

type AwardProjectRequest struct {
	VendorID uint `json:"vendor_id"`
	BidID    uint `json:"bid_id"`
}

// ============ Bids ============

type BidResponse struct {
	ID        uint      `json:"id"`
	ProjectID uint      `json:"project_id"`
	VendorID  uint      `json:"vendor_id"`
	Vendor    string    `json:"vendor,omitempty"`
	Amount    float64   `json:"amount"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type BidListResponse struct {
	Bids  []BidResponse `json:"bids"`
	Total int           `json:"total"`
}

type PlaceBidRequest struct {
	Amount  float64 `json:"amount" binding:"required,gt=0"`
	Comment string  `json:"comment"`
}

// ============ Process steps ============

type StepResponse struct {
	ID              uint   `json:"id"`
	ProjectID       uint   `json:"project_id"`
	StepNumber      int    `json:"step_number"`
	Name            string `json:"name"`
	ReviewStatus    string `json:"review_status"`
	ReviewerComment string `json:"reviewer_comment,omitempty"`
	EvidenceURL     string `json:"evidence_url,omitempty"`
}

type StepListResponse struct {
	Steps []StepResponse `json:"steps"`
	Total int            `json:"total"`
}

type ReviewStepRequest struct {
	Decision string `json:"decision" binding:"required,oneof=approved rejected"`
	Comment  string `json:"comment"`
}

// ============ Leads ============

type LeadResponse struct {
	ID                    uint      `json:"id"`
	CreatedAt             time.Time `json:"created_at"`
	Author                string    `json:"author"`
	AssignedAreaManagerID uint      `json:"assigned_area_manager_id,omitempty"`
	ClientName            string    `json:"client_name"`
	Phone                 string    `json:"phone,omitempty"`
	State                 string    `json:"state"`
	City                  string    `json:"city"`
	Status                string    `json:"status"`
}

type LeadListResponse struct {
	Leads []LeadResponse `json:"leads"`
	Total int            `json:"total"`
}

type UpdateLeadStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=new contacted converted dropped"`
}

type CreateLeadRequest struct {
	ClientName string `json:"client_name" binding:"required"`
	Phone      string `json:"phone"`
	State      string `json:"state" binding:"required"`
	City       string `json:"city" binding:"required"`
}

// ============ Dashboard ============

// DashboardStatsResponse carries the financial rollup over the caller's
// visible project set. Currency rounded to 2 decimals, percentages to 1.
type DashboardStatsResponse struct {
	TotalRevenue        float64 `json:"total_revenue"`
	TotalCosts          float64 `json:"total_costs"`
	TotalProfit         float64 `json:"total_profit"`
	ProfitMargin        float64 `json:"profit_margin"`
	TotalClientPayments float64 `json:"total_client_payments"`
	TotalOutstanding    float64 `json:"total_outstanding"`
	CollectionRate      float64 `json:"collection_rate"`

	ProjectCount   int            `json:"project_count"`
	CountsByStatus map[string]int `json:"counts_by_status"`
}

// ============ Org graph ============

type AssignSupervisorRequest struct {
	SupervisorID uint `json:"supervisor_id" binding:"required"`
}

type AssignLocationRequest struct {
	State string `json:"state" binding:"required"`
	City  string `json:"city"`
}

// ============ Users ============

type UserResponse struct {
	ID       uint     `json:"id"`
	Login    string   `json:"login"`
	FullName string   `json:"full_name"`
	Roles    []string `json:"roles"`
}

type RegisterRequest struct {
	Login    string   `json:"login" binding:"required,min=3,max=50"`
	Password string   `json:"password" binding:"required,min=6"`
	FullName string   `json:"full_name" binding:"required"`
	Roles    []string `json:"roles"`
}

type UpdateProfileRequest struct {
	FullName *string `json:"full_name"`
	Password *string `json:"password" binding:"omitempty,min=6"`
}

type LoginRequest struct {
	Login    string `json:"login" binding:"required"`
	Password string `json:"password" binding:"required"`
}
