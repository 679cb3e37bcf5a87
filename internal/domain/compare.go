package domain

// PriceTier identifies which extraction strategy produced a price.
type PriceTier string

const (
	TierStructured PriceTier = "structured"
	TierMeta       PriceTier = "meta"
	TierPattern    PriceTier = "pattern"
)

// RawPage is the reader-proxy output for one source, consumed only by the
// extractors and discarded once the source's pipeline completes.
type RawPage struct {
	SourceKey string
	URL       string
	Text      string
}

// PriceCandidate is a single extracted price tagged with its tier.
// The tiered strategy yields at most one candidate per source.
type PriceCandidate struct {
	Value float64
	Tier  PriceTier
}

// ResultRecord is one accepted per-source comparison entry. Immutable once
// constructed; a source contributes zero or one record per report.
type ResultRecord struct {
	Source string  `json:"source"`
	Name   string  `json:"name"`
	Price  float64 `json:"price"`
	URL    string  `json:"url"`
	Score  float64 `json:"score"`
}

// ComparisonReport is the public output of a comparison. Results are sorted
// by price ascending with descending match score as tiebreak. Summary fields
// are nil when too few records exist to compute them.
type ComparisonReport struct {
	Query             string         `json:"query"`
	Results           []ResultRecord `json:"results"`
	BestPrice         *float64       `json:"bestPrice"`
	Savings           *float64       `json:"savings"`
	SavingsPercentage *float64       `json:"savingsPercentage"`
	Count             int            `json:"count"`
}

// CompareRequest is the inbound request from the presentation shell.
type CompareRequest struct {
	Query string `json:"query" binding:"required"`
}
