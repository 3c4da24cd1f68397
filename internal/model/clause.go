package model

type ClauseCategory string

const (
	ClauseEstimative     ClauseCategory = "estimative"
	ClauseDefinitive     ClauseCategory = "definitive"
	ClauseGeneral        ClauseCategory = "general"
	ClauseResponsibility ClauseCategory = "responsibility"
	ClauseRevision       ClauseCategory = "revision"
)

type PriceRevision string

const (
	RevisionBT01  PriceRevision = "BT01"
	RevisionTP01  PriceRevision = "TP01"
	RevisionFixed PriceRevision = "fixed"
)

type LegalClause struct {
	ID        string
	Title     string
	Content   string
	Category  ClauseCategory
	Mandatory bool
}

// QuoteTerms bundles the disclaimer and the clause set printed on a quote.
type QuoteTerms struct {
	Disclaimer        string
	RecommendedMargin float64
	Clauses           []LegalClause
}
