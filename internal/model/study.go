package model

import "time"

type StudyStatus string

const (
	StudyNone       StudyStatus = "none"
	StudyPending    StudyStatus = "pending"
	StudyInProgress StudyStatus = "in_progress"
	StudyCompleted  StudyStatus = "completed"
)

const (
	DefinitiveMargin         = 10.0
	DefaultPreliminaryMargin = 35.0
)

// StructuralStudy tracks the engineering verification attached to a quote.
type StructuralStudy struct {
	Status          StudyStatus
	EngineerName    string
	EngineerContact string
	StartDate       *time.Time
	CompletionDate  *time.Time
	Notes           string
	// Keyed by document id.
	Documents map[string]StudyDocument
}

type StudyDocument struct {
	ID         string
	Name       string
	Type       string
	URL        string
	UploadedAt time.Time
	UploadedBy string
	Size       int64
}

func (s StructuralStudy) Clone() StructuralStudy {
	out := s
	out.Documents = cloneDocuments(s.Documents)
	if s.StartDate != nil {
		d := *s.StartDate
		out.StartDate = &d
	}
	if s.CompletionDate != nil {
		d := *s.CompletionDate
		out.CompletionDate = &d
	}
	return out
}

// StudyDetails carries the optional fields updated together with a study
// status. Nil fields are left untouched.
type StudyDetails struct {
	EngineerName    *string
	EngineerContact *string
	StartDate       *time.Time
	CompletionDate  *time.Time
	Notes           *string
}

// StructuralProvisions are placeholder cost buckets used before the study
// completes.
type StructuralProvisions struct {
	Foundations   float64
	Structure     float64
	Reinforcement float64
	Disclaimer    string
}

// Total sums the three buckets.
func (p *StructuralProvisions) Total() float64 {
	if p == nil {
		return 0
	}
	return p.Foundations + p.Structure + p.Reinforcement
}

// Empty reports whether no provisions record is attached. A record whose
// buckets are all zero still counts as present.
func (p *StructuralProvisions) Empty() bool {
	return p == nil
}
