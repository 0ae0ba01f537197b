// ABOUTME: Data models for M&A CRM entities
// ABOUTME: Defines Deal, Company, Contact, and Activity records with field rules
package models

// Field rules live in the validate tags and are enforced by the schema
// package. The "stage" tag is registered there as well.

// Deal is one M&A opportunity tracked through the pipeline.
type Deal struct {
	ID              string         `json:"id" validate:"required"`
	Name            string         `json:"name" validate:"required,min=2"`
	MandateType     string         `json:"mandateType" validate:"required,oneof=Sell Buy"`
	Sector          string         `json:"sector" validate:"required"`
	EVMin           Amount         `json:"evMin" validate:"gte=0"`
	EVMax           Amount         `json:"evMax" validate:"gte=0"`
	Stage           string         `json:"stage" validate:"required,stage"`
	ProbabilityPct  int            `json:"probabilityPct" validate:"gte=0,lte=100"`
	FeeModel        string         `json:"feeModel,omitempty" validate:"omitempty,oneof=percentage fixed"`
	CloseTargetDate string         `json:"closeTargetDate,omitempty"`
	CompanyID       string         `json:"companyId,omitempty"`
	ContactID       string         `json:"contactId,omitempty"`
	CreatedAt       string         `json:"createdAt,omitempty"`
	UpdatedAt       string         `json:"updatedAt,omitempty"`
	Metadata        map[string]any `json:"metadata,omitempty"`
}

// SetStage moves the deal to stage and recomputes its probability so the
// two never drift apart.
func (d *Deal) SetStage(stage string) {
	d.Stage = stage
	d.ProbabilityPct = ProbabilityForStage(stage)
}

// WeightedEV is the EV midpoint scaled by the deal's probability.
func (d *Deal) WeightedEV() Amount {
	mid := Midpoint(d.EVMin, d.EVMax)
	return Amount{mid.Mul(pct(d.ProbabilityPct))}
}

// Company is a business entity, independent of any deal.
type Company struct {
	ID          string         `json:"id" validate:"required"`
	Name        string         `json:"name" validate:"required,min=2"`
	Sector      string         `json:"sector" validate:"required"`
	Country     string         `json:"country" validate:"required,min=2"`
	EbitdaLTM   *Amount        `json:"ebitdaLtm,omitempty"`
	IngresosLTM *Amount        `json:"ingresos_ltm,omitempty"`
	Website     string         `json:"website,omitempty" validate:"omitempty,url"`
	CreatedAt   string         `json:"createdAt,omitempty"`
	UpdatedAt   string         `json:"updatedAt,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// Contact is a person, optionally attached to a Company.
type Contact struct {
	ID        string         `json:"id" validate:"required"`
	Name      string         `json:"name" validate:"required,min=2"`
	Email     string         `json:"email" validate:"required,email"`
	Phone     string         `json:"phone,omitempty"`
	Role      string         `json:"role,omitempty"`
	Language  string         `json:"language,omitempty"`
	CompanyID string         `json:"companyId,omitempty"`
	Influence *int           `json:"influence,omitempty" validate:"omitempty,gte=0,lte=5"`
	CreatedAt string         `json:"createdAt,omitempty"`
	UpdatedAt string         `json:"updatedAt,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// Activity is a logged call, email or meeting.
type Activity struct {
	ID          string         `json:"id" validate:"required"`
	Title       string         `json:"title" validate:"required"`
	Type        string         `json:"type" validate:"required,oneof=call email meeting"`
	Description string         `json:"description,omitempty"`
	Result      string         `json:"result,omitempty"`
	NextStep    string         `json:"nextStep,omitempty"`
	DueDate     string         `json:"dueDate,omitempty"`
	DealID      string         `json:"dealId,omitempty"`
	ContactID   string         `json:"contactId,omitempty"`
	CreatedAt   string         `json:"createdAt,omitempty"`
	UpdatedAt   string         `json:"updatedAt,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// Mandate types.
const (
	MandateSell = "Sell"
	MandateBuy  = "Buy"
)

// Fee models.
const (
	FeePercentage = "percentage"
	FeeFixed      = "fixed"
)

// Activity types.
const (
	ActivityCall    = "call"
	ActivityEmail   = "email"
	ActivityMeeting = "meeting"
)

// Entity kinds, used by importers and tools that accept any record.
const (
	KindDeal     = "deal"
	KindCompany  = "company"
	KindContact  = "contact"
	KindActivity = "activity"
)
