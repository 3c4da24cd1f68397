package model

import (
	"io"
	"time"
)

type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// SaveResult is returned by a successful save.
type SaveResult struct {
	ID        string
	Reference string
}

// Verdict is the boolean-plus-reasons answer to a rule check.
type Verdict struct {
	CanConvert bool
	Reasons    []string
}

// ListParams selects and orders quotes. Zero values mean "all statuses,
// newest first".
type ListParams struct {
	Status     QuoteStatus
	ClientName string
	OrderBy    string
	Direction  SortDirection
}

func (p ListParams) WithDefaults() ListParams {
	if p.OrderBy == "" {
		p.OrderBy = FieldCreatedAt
	}
	if p.Direction == "" {
		p.Direction = SortDesc
	}
	return p
}

// UploadParams describes a supporting document for a structural study.
type UploadParams struct {
	Name        string
	ContentType string
	Size        int64
	Body        io.Reader
	UploadedBy  string
}

// StoredObject is what the object storage reports after an upload.
type StoredObject struct {
	Key string
	URL string
	At  time.Time
}
