package http

import "time"

type articleDTO struct {
	ID          string  `json:"id"`
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	Unit        string  `json:"unit"`
	UnitPrice   float64 `json:"unit_price"`
	TotalPrice  float64 `json:"total_price"`
	Notes       string  `json:"notes,omitempty"`
}

type taskDTO struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	Articles    []articleDTO `json:"articles"`
	TotalPrice  float64      `json:"total_price"`
	Expanded    bool         `json:"expanded"`
}

type phaseDTO struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Tasks       []taskDTO `json:"tasks"`
	TotalPrice  float64   `json:"total_price"`
	Expanded    bool      `json:"expanded"`
}

type documentDTO struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Type       string    `json:"type"`
	URL        string    `json:"url"`
	UploadedAt time.Time `json:"uploaded_at"`
	UploadedBy string    `json:"uploaded_by,omitempty"`
	Size       int64     `json:"size"`
}

type studyDTO struct {
	Status          string        `json:"status"`
	EngineerName    string        `json:"engineer_name,omitempty"`
	EngineerContact string        `json:"engineer_contact,omitempty"`
	StartDate       *time.Time    `json:"start_date,omitempty"`
	CompletionDate  *time.Time    `json:"completion_date,omitempty"`
	Notes           string        `json:"notes,omitempty"`
	Documents       []documentDTO `json:"documents,omitempty"`
}

type provisionsDTO struct {
	Foundations   float64 `json:"foundations"`
	Structure     float64 `json:"structure"`
	Reinforcement float64 `json:"reinforcement"`
	Disclaimer    string  `json:"disclaimer,omitempty"`
}

type locationDTO struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Address   string  `json:"address,omitempty"`
}

type quoteDTO struct {
	ID          string `json:"id,omitempty"`
	Reference   string `json:"reference,omitempty"`
	Title       string `json:"title"`
	ClientName  string `json:"client_name"`
	ClientEmail string `json:"client_email,omitempty"`
	ClientPhone string `json:"client_phone,omitempty"`
	CompanyName string `json:"company_name,omitempty"`
	ProjectType string `json:"project_type,omitempty"`

	Phases []phaseDTO `json:"phases"`

	Subtotal       float64 `json:"subtotal"`
	DiscountRate   float64 `json:"discount_rate"`
	DiscountAmount float64 `json:"discount_amount"`
	TaxRate        float64 `json:"tax_rate"`
	TaxAmount      float64 `json:"tax_amount"`
	TotalAmount    float64 `json:"total_amount"`

	ValidityDays int        `json:"validity_days"`
	ValidUntil   *time.Time `json:"valid_until,omitempty"`
	PaymentTerms string     `json:"payment_terms,omitempty"`
	Notes        string     `json:"notes,omitempty"`

	Status            string  `json:"status,omitempty"`
	QuoteType         string  `json:"quote_type,omitempty"`
	UncertaintyMargin float64 `json:"uncertainty_margin"`

	StructuralStudy      *studyDTO      `json:"structural_study,omitempty"`
	StructuralProvisions *provisionsDTO `json:"structural_provisions,omitempty"`
	Location             *locationDTO   `json:"location,omitempty"`

	CreatedAt *time.Time `json:"created_at,omitempty"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

type saveResponse struct {
	ID        string `json:"id"`
	Reference string `json:"reference"`
}

type verdictResponse struct {
	CanConvert bool     `json:"can_convert"`
	Reasons    []string `json:"reasons"`
}

type statusRequest struct {
	Status string `json:"status"`
}

type studyRequest struct {
	Status          string     `json:"status"`
	EngineerName    *string    `json:"engineer_name"`
	EngineerContact *string    `json:"engineer_contact"`
	StartDate       *time.Time `json:"start_date"`
	CompletionDate  *time.Time `json:"completion_date"`
	Notes           *string    `json:"notes"`
}

// provisionsRequest sets explicit buckets or loads a template. An empty
// body clears the provisions.
type provisionsRequest struct {
	TemplateID string         `json:"template_id,omitempty"`
	Provisions *provisionsDTO `json:"provisions,omitempty"`
}

type templateRequest struct {
	TemplateID string `json:"template_id"`
}

type referenceRequest struct {
	Date *time.Time `json:"date"`
}

type referenceResponse struct {
	Reference string `json:"reference"`
}

type clauseDTO struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	Category  string `json:"category"`
	Mandatory bool   `json:"mandatory"`
}

type termsResponse struct {
	Disclaimer        string      `json:"disclaimer"`
	RecommendedMargin float64     `json:"recommended_margin"`
	Clauses           []clauseDTO `json:"clauses"`
}

type quoteTemplateDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	ProjectType string `json:"project_type"`
	Phases      int    `json:"phases"`
}

type provisionTemplateDTO struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	ProjectType string        `json:"project_type"`
	Provisions  provisionsDTO `json:"provisions"`
}

type errorResponse struct {
	Code    int      `json:"code"`
	Message string   `json:"message"`
	Reasons []string `json:"reasons,omitempty"`
}
