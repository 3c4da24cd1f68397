package model

import (
	"maps"
	"slices"
	"time"
)

type (
	QuoteStatus string
	QuoteType   string
	ProjectType string
)

const (
	StatusDraft    QuoteStatus = "draft"
	StatusSent     QuoteStatus = "sent"
	StatusAccepted QuoteStatus = "accepted"
	StatusRejected QuoteStatus = "rejected"
	StatusExpired  QuoteStatus = "expired"
)

const (
	QuoteTypePreliminary QuoteType = "preliminary"
	QuoteTypeDefinitive  QuoteType = "definitive"
)

const (
	ProjectConstruction   ProjectType = "construction"
	ProjectRenovation     ProjectType = "renovation"
	ProjectExtension      ProjectType = "extension"
	ProjectInfrastructure ProjectType = "infrastructure"
	ProjectMaintenance    ProjectType = "maintenance"
	ProjectDemolition     ProjectType = "demolition"
)

const (
	DefaultTaxRate      = 18.0
	DefaultValidityDays = 30
	DefaultPaymentTerms = "50% à la commande, 50% à la livraison"
	DefaultUnit         = "unité"
)

// Units offered to quote authors. Free-form units are accepted as well.
var Units = []string{
	"unité", "m²", "m³", "m", "kg", "tonne",
	"jour", "heure", "forfait", "lot", "pièce",
}

// Article is a priced line item.
type Article struct {
	ID          string
	Description string
	// Non-negative.
	Quantity float64
	Unit     string
	// Non-negative, minor currency unit precision.
	UnitPrice float64
	// Quantity × UnitPrice once recalculated.
	TotalPrice float64
	Notes      string
}

// Task groups articles.
type Task struct {
	ID          string
	Name        string
	Description string
	// Order is display-relevant only.
	Articles []Article
	// Sum of article totals.
	TotalPrice float64
	// UI state, carried through storage untouched.
	Expanded bool
}

// Phase groups tasks.
type Phase struct {
	ID          string
	Name        string
	Description string
	Tasks       []Task
	// Sum of task totals.
	TotalPrice float64
	Expanded   bool
}

type Location struct {
	Latitude  float64
	Longitude float64
	Address   string
}

// Quote is the aggregate root and the unit of persistence.
type Quote struct {
	ID string
	// Assigned once on first durable create, never rewritten.
	Reference string
	Title     string

	ClientName  string
	ClientEmail string
	ClientPhone string
	CompanyName string

	ProjectType ProjectType
	Phases      []Phase

	Subtotal       float64
	DiscountRate   float64
	DiscountAmount float64
	TaxRate        float64
	TaxAmount      float64
	TotalAmount    float64

	ValidityDays int
	ValidUntil   time.Time
	PaymentTerms string
	Notes        string

	Status            QuoteStatus
	QuoteType         QuoteType
	UncertaintyMargin float64

	StructuralStudy      StructuralStudy
	StructuralProvisions *StructuralProvisions

	CreatedAt time.Time
	UpdatedAt time.Time
	Location  *Location
}

// Clone returns a deep copy; the copy shares no slices, maps or pointers
// with q.
func (q Quote) Clone() Quote {
	out := q
	out.Phases = clonePhases(q.Phases)
	out.StructuralStudy = q.StructuralStudy.Clone()

	if q.StructuralProvisions != nil {
		p := *q.StructuralProvisions
		out.StructuralProvisions = &p
	}
	if q.Location != nil {
		l := *q.Location
		out.Location = &l
	}

	return out
}

func (p Phase) Clone() Phase {
	out := p
	out.Tasks = make([]Task, len(p.Tasks))
	for i, t := range p.Tasks {
		out.Tasks[i] = t.Clone()
	}
	return out
}

func (t Task) Clone() Task {
	out := t
	out.Articles = slices.Clone(t.Articles)
	if out.Articles == nil {
		out.Articles = []Article{}
	}
	return out
}

func clonePhases(in []Phase) []Phase {
	out := make([]Phase, len(in))
	for i, p := range in {
		out[i] = p.Clone()
	}
	return out
}

// ArticleCount counts leaf lines across the tree.
func (q Quote) ArticleCount() int {
	n := 0
	for _, p := range q.Phases {
		for _, t := range p.Tasks {
			n += len(t.Articles)
		}
	}
	return n
}

// Expired reports whether the validity window has closed at now.
func (q Quote) Expired(now time.Time) bool {
	return !q.ValidUntil.IsZero() && !now.Before(q.ValidUntil)
}

// NewQuote returns a draft preliminary quote carrying the defaults authors
// start from.
func NewQuote() Quote {
	return Quote{
		ProjectType:       ProjectConstruction,
		Phases:            []Phase{},
		TaxRate:           DefaultTaxRate,
		ValidityDays:      DefaultValidityDays,
		PaymentTerms:      DefaultPaymentTerms,
		Status:            StatusDraft,
		QuoteType:         QuoteTypePreliminary,
		UncertaintyMargin: DefaultPreliminaryMargin,
		StructuralStudy:   StructuralStudy{Status: StudyNone, Documents: map[string]StudyDocument{}},
	}
}

func cloneDocuments(in map[string]StudyDocument) map[string]StudyDocument {
	if in == nil {
		return map[string]StudyDocument{}
	}
	return maps.Clone(in)
}
