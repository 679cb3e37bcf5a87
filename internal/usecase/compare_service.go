package usecase

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/medcompare/backend/internal/domain"
)

// CompareServiceConfig holds the tunable pipeline constants
type CompareServiceConfig struct {
	MinScore      float64
	MinPrice      float64
	MaxPrice      float64
	DosageBonus   float64
	SourceTimeout time.Duration
}

// CompareService runs the full extraction-and-ranking pipeline: every
// registered source is fetched, extracted, scored and normalized as an
// independent unit, and the surviving candidates are ranked into a report.
type CompareService struct {
	sources       []domain.Source
	pageReader    domain.PageReader
	extractor     *PriceExtractor
	matcher       *MatchingService
	sourceTimeout time.Duration
}

// NewCompareService creates a compare service over an immutable source
// registry with the given page reader and pipeline configuration.
func NewCompareService(
	sources []domain.Source,
	pageReader domain.PageReader,
	config CompareServiceConfig,
) *CompareService {
	sourceTimeout := config.SourceTimeout
	if sourceTimeout <= 0 {
		sourceTimeout = 6 * time.Second
	}

	return &CompareService{
		sources:       sources,
		pageReader:    pageReader,
		extractor:     NewPriceExtractor(config.MinPrice, config.MaxPrice),
		matcher:       NewMatchingService(MatchConfig{MinScore: config.MinScore, DosageBonus: config.DosageBonus}),
		sourceTimeout: sourceTimeout,
	}
}

// sourceOutcome records how one source's pipeline unit ended: either an
// accepted record, or the stage and error that removed the source. Failures
// stay visible in logs without ever reaching the caller.
type sourceOutcome struct {
	source string
	record *domain.ResultRecord
	stage  string
	err    error
}

// Compare answers "what does this medicine cost right now" across all
// registered sources. Per-source failures are isolated; zero surviving
// sources is a valid empty report, not an error.
func (s *CompareService) Compare(ctx context.Context, query string) (*domain.ComparisonReport, error) {
	query = strings.TrimSpace(query)
	if utf8.RuneCountInString(query) < 2 {
		return nil, domain.ErrInvalidQuery
	}

	// Sources are independent units with no shared state; fan out so the
	// request costs roughly the slowest source, not the sum of all.
	outcomes := make([]sourceOutcome, len(s.sources))
	var wg sync.WaitGroup
	for i, source := range s.sources {
		wg.Add(1)
		go func(i int, source domain.Source) {
			defer wg.Done()
			outcomes[i] = s.runSource(ctx, source, query)
		}(i, source)
	}
	wg.Wait()

	results := make([]domain.ResultRecord, 0, len(outcomes))
	for _, outcome := range outcomes {
		if outcome.err != nil {
			log.Printf("[COMPARE] source %s dropped at %s: %v", outcome.source, outcome.stage, outcome.err)
			continue
		}
		if outcome.record != nil {
			results = append(results, *outcome.record)
		}
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Price != results[j].Price {
			return results[i].Price < results[j].Price
		}
		return results[i].Score > results[j].Score
	})

	return buildReport(query, results), nil
}

// runSource executes acquisition, extraction, matching and normalization
// for one source under its own timeout. The deferred recover is the unit's
// failure boundary: nothing escaping here may cancel sibling units.
func (s *CompareService) runSource(ctx context.Context, source domain.Source, query string) (outcome sourceOutcome) {
	outcome = sourceOutcome{source: source.Key}
	defer func() {
		if r := recover(); r != nil {
			outcome.record = nil
			outcome.stage = "panic"
			outcome.err = fmt.Errorf("recovered: %v", r)
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, s.sourceTimeout)
	defer cancel()

	searchURL := source.SearchURL(query)
	text, err := s.pageReader.ReadPage(ctx, searchURL)
	if err != nil {
		outcome.stage = "acquire"
		outcome.err = err
		return outcome
	}

	rawPage := domain.RawPage{SourceKey: source.Key, URL: searchURL, Text: text}
	page := ParsePage(rawPage.Text)

	candidate, ok := s.extractor.Extract(page)
	if !ok {
		outcome.stage = "extract"
		outcome.err = domain.ErrNoPrice
		return outcome
	}

	title := page.Title()
	score := s.matcher.Score(query, title)
	if !s.matcher.Accept(score) {
		outcome.stage = "match"
		outcome.err = fmt.Errorf("%w: %.2f for %q", domain.ErrLowConfidence, score, title)
		return outcome
	}

	outcome.record = &domain.ResultRecord{
		Source: source.Key,
		Name:   title,
		Price:  candidate.Value,
		URL:    resolveResultURL(source, page, rawPage.URL),
		Score:  score,
	}
	return outcome
}

// resolveResultURL picks the page's canonical link when declared, falling
// back to the built search URL, and makes root-relative links absolute
// against the source's base URL.
func resolveResultURL(source domain.Source, page *Page, searchURL string) string {
	resolved := page.CanonicalURL()
	if resolved == "" {
		resolved = searchURL
	}
	if strings.HasPrefix(resolved, "/") {
		resolved = source.BaseURL + resolved
	}
	return resolved
}

// buildReport assembles the ranked report and its summary statistics from
// the sorted result set.
func buildReport(query string, results []domain.ResultRecord) *domain.ComparisonReport {
	report := &domain.ComparisonReport{
		Query:   query,
		Results: results,
		Count:   len(results),
	}

	if len(results) == 0 {
		return report
	}

	report.BestPrice = floatPtr(results[0].Price)

	if len(results) > 1 {
		highest := results[len(results)-1].Price
		savings := highest - results[0].Price
		report.Savings = floatPtr(savings)

		percentage := 0.0
		if highest > 0 {
			percentage = savings / highest * 100
		}
		report.SavingsPercentage = floatPtr(percentage)
	}

	return report
}

func floatPtr(v float64) *float64 {
	return &v
}
