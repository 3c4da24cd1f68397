package repository

import (
	"time"

	"github.com/you-humble/btp-quote/internal/model"
)

type QuoteEntity struct {
	ID          string            `bson:"_id"`
	Reference   string            `bson:"reference,omitempty"`
	Title       string            `bson:"title"`
	ClientName  string            `bson:"client_name"`
	ClientEmail string            `bson:"client_email,omitempty"`
	ClientPhone string            `bson:"client_phone,omitempty"`
	CompanyName string            `bson:"company_name,omitempty"`
	ProjectType model.ProjectType `bson:"project_type"`
	Phases      []PhaseEntity     `bson:"phases"`

	Subtotal       float64 `bson:"subtotal"`
	DiscountRate   float64 `bson:"discount_rate"`
	DiscountAmount float64 `bson:"discount_amount"`
	TaxRate        float64 `bson:"tax_rate"`
	TaxAmount      float64 `bson:"tax_amount"`
	TotalAmount    float64 `bson:"total_amount"`

	ValidityDays int        `bson:"validity_days"`
	ValidUntil   *time.Time `bson:"valid_until,omitempty"`
	PaymentTerms string     `bson:"payment_terms,omitempty"`
	Notes        string     `bson:"notes,omitempty"`

	Status            model.QuoteStatus `bson:"status"`
	QuoteType         model.QuoteType   `bson:"quote_type"`
	UncertaintyMargin float64           `bson:"uncertainty_margin"`

	StructuralStudy      StudyEntity       `bson:"structural_study"`
	StructuralProvisions *ProvisionsEntity `bson:"structural_provisions"`
	Location             *LocationEntity   `bson:"location,omitempty"`

	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

type PhaseEntity struct {
	ID          string       `bson:"id"`
	Name        string       `bson:"name"`
	Description string       `bson:"description,omitempty"`
	Tasks       []TaskEntity `bson:"tasks"`
	TotalPrice  float64      `bson:"total_price"`
	Expanded    bool         `bson:"expanded"`
}

type TaskEntity struct {
	ID          string          `bson:"id"`
	Name        string          `bson:"name"`
	Description string          `bson:"description,omitempty"`
	Articles    []ArticleEntity `bson:"articles"`
	TotalPrice  float64         `bson:"total_price"`
	Expanded    bool            `bson:"expanded"`
}

type ArticleEntity struct {
	ID          string  `bson:"id"`
	Description string  `bson:"description"`
	Quantity    float64 `bson:"quantity"`
	Unit        string  `bson:"unit"`
	UnitPrice   float64 `bson:"unit_price"`
	TotalPrice  float64 `bson:"total_price"`
	Notes       string  `bson:"notes,omitempty"`
}

type StudyEntity struct {
	Status          model.StudyStatus         `bson:"status"`
	EngineerName    string                    `bson:"engineer_name,omitempty"`
	EngineerContact string                    `bson:"engineer_contact,omitempty"`
	StartDate       *time.Time                `bson:"start_date,omitempty"`
	CompletionDate  *time.Time                `bson:"completion_date,omitempty"`
	Notes           string                    `bson:"notes,omitempty"`
	Documents       map[string]DocumentEntity `bson:"documents,omitempty"`
}

type DocumentEntity struct {
	Name       string    `bson:"name"`
	Type       string    `bson:"type"`
	URL        string    `bson:"url"`
	UploadedAt time.Time `bson:"uploaded_at"`
	UploadedBy string    `bson:"uploaded_by,omitempty"`
	Size       int64     `bson:"size"`
}

type ProvisionsEntity struct {
	Foundations   float64 `bson:"foundations"`
	Structure     float64 `bson:"structure"`
	Reinforcement float64 `bson:"reinforcement"`
	Disclaimer    string  `bson:"disclaimer,omitempty"`
}

type LocationEntity struct {
	Latitude  float64 `bson:"latitude"`
	Longitude float64 `bson:"longitude"`
	Address   string  `bson:"address,omitempty"`
}
