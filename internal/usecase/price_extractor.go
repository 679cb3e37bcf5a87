package usecase

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"

	"github.com/PuerkitoBio/goquery"
	"github.com/medcompare/backend/internal/domain"
)

// Package-level compiled regex patterns for performance
var (
	nonNumericRegex = regexp.MustCompile(`[^0-9.]`)

	// pricePatternRegex matches a currency symbol or common price prefix
	// followed by a 2-6 digit amount with optional decimal paise.
	pricePatternRegex = regexp.MustCompile(`(?i)(?:₹|rs\.?\s*|mrp\s*:?\s*₹?)\s*([0-9]{2,6}(?:\.[0-9]{1,2})?)`)

	metaPriceHintRegex = regexp.MustCompile(`(?i)price|amount`)
)

// Plausibility bounds for the pattern tier, both exclusive. Free-text
// matches outside this range are quantities, pin codes or phone fragments,
// not retail prices.
const (
	defaultMinPrice = 1
	defaultMaxPrice = 50000
)

// priceStrategy is one extraction tier: a pure function from page to an
// optional price, tried in a fixed order with first success winning.
type priceStrategy struct {
	tier    domain.PriceTier
	extract func(p *Page) (float64, bool)
}

// PriceExtractor derives a single numeric price from raw page text using a
// tiered fallback: structured data, then markup metadata, then free-text
// pattern matching.
type PriceExtractor struct {
	minPrice   float64
	maxPrice   float64
	strategies []priceStrategy
}

// NewPriceExtractor creates a price extractor with the given plausibility
// bounds for the pattern tier. Non-positive or inverted bounds fall back to
// the defaults.
func NewPriceExtractor(minPrice, maxPrice float64) *PriceExtractor {
	if minPrice <= 0 || maxPrice <= minPrice {
		minPrice = defaultMinPrice
		maxPrice = defaultMaxPrice
	}

	e := &PriceExtractor{
		minPrice: minPrice,
		maxPrice: maxPrice,
	}
	e.strategies = []priceStrategy{
		{tier: domain.TierStructured, extract: structuredPrice},
		{tier: domain.TierMeta, extract: metaPrice},
		{tier: domain.TierPattern, extract: e.patternPrice},
	}
	return e
}

// Extract runs the tiers in order and returns the first accepted price
// tagged with the tier that produced it.
func (e *PriceExtractor) Extract(p *Page) (domain.PriceCandidate, bool) {
	for _, strategy := range e.strategies {
		if value, ok := strategy.extract(p); ok {
			return domain.PriceCandidate{Value: value, Tier: strategy.tier}, true
		}
	}
	return domain.PriceCandidate{}, false
}

// ldProduct is the validated optional shape of one JSON-LD block. Offers is
// kept raw because the markup convention allows both a single object and an
// array.
type ldProduct struct {
	Price  any             `json:"price"`
	Offers json.RawMessage `json:"offers"`
}

// ldOffer carries the price fields of one offers entry
type ldOffer struct {
	Price     any `json:"price"`
	LowPrice  any `json:"lowPrice"`
	HighPrice any `json:"highPrice"`
}

// structuredPrice scans JSON-LD script blocks for product/offer prices.
// Each block is parsed independently; a malformed block is skipped, never
// fatal. Returns the first finite positive value found.
func structuredPrice(p *Page) (float64, bool) {
	if p.doc == nil {
		return 0, false
	}

	var price float64
	found := false
	p.doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		for _, product := range decodeLdProducts(s.Text()) {
			if v, ok := productPrice(product); ok {
				price = v
				found = true
				return false
			}
		}
		return true
	})

	return price, found
}

// decodeLdProducts parses a script payload into product blocks, accepting
// both a single object and an array. Malformed payloads yield nothing.
func decodeLdProducts(payload string) []ldProduct {
	data := []byte(payload)

	var many []ldProduct
	if err := json.Unmarshal(data, &many); err == nil {
		return many
	}

	var one ldProduct
	if err := json.Unmarshal(data, &one); err == nil {
		return []ldProduct{one}
	}

	return nil
}

// productPrice returns the first usable price in a product block, checking
// the offers entries before the block's own price field.
func productPrice(product ldProduct) (float64, bool) {
	for _, offer := range decodeLdOffers(product.Offers) {
		for _, field := range []any{offer.Price, offer.LowPrice, offer.HighPrice} {
			if v, ok := numericValue(field); ok {
				return v, true
			}
		}
	}

	return numericValue(product.Price)
}

// decodeLdOffers parses an offers field that may be an object or an array
func decodeLdOffers(raw json.RawMessage) []ldOffer {
	if len(raw) == 0 {
		return nil
	}

	var many []ldOffer
	if err := json.Unmarshal(raw, &many); err == nil {
		return many
	}

	var one ldOffer
	if err := json.Unmarshal(raw, &one); err == nil {
		return []ldOffer{one}
	}

	return nil
}

// numericValue coerces a JSON price field (string or number) into a finite
// positive float, stripping currency symbols and thousands separators.
func numericValue(field any) (float64, bool) {
	switch v := field.(type) {
	case float64:
		if v > 0 && !math.IsInf(v, 0) {
			return v, true
		}
	case string:
		return parsePriceString(v)
	}
	return 0, false
}

// parsePriceString strips non-numeric characters and parses the remainder
func parsePriceString(s string) (float64, bool) {
	cleaned := nonNumericRegex.ReplaceAllString(s, "")
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || v <= 0 || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// metaPrice collects numeric candidates from metadata tags whose name or
// property hints at a price, and returns the minimum. Pages often surface
// list price, discounted price and shipping in separate tags; the lowest
// one corresponds to the purchasable price most often.
func metaPrice(p *Page) (float64, bool) {
	if p.doc == nil {
		return 0, false
	}

	var candidates []float64
	p.doc.Find("meta").Each(func(_ int, s *goquery.Selection) {
		name, _ := s.Attr("name")
		property, _ := s.Attr("property")
		itemprop, _ := s.Attr("itemprop")
		if !metaPriceHintRegex.MatchString(name + " " + property + " " + itemprop) {
			return
		}

		content, ok := s.Attr("content")
		if !ok {
			return
		}
		if v, parsed := parsePriceString(content); parsed {
			candidates = append(candidates, v)
		}
	})

	return minOf(candidates)
}

// patternPrice scans the whitespace-collapsed raw text for currency-prefixed
// amounts, filters to the plausible retail range and returns the minimum.
func (e *PriceExtractor) patternPrice(p *Page) (float64, bool) {
	text := multipleSpacesRegex.ReplaceAllString(p.raw, " ")

	var candidates []float64
	for _, m := range pricePatternRegex.FindAllStringSubmatch(text, -1) {
		v, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			continue
		}
		if v > e.minPrice && v < e.maxPrice {
			candidates = append(candidates, v)
		}
	}

	return minOf(candidates)
}

// minOf returns the smallest candidate, or false for an empty set
func minOf(candidates []float64) (float64, bool) {
	if len(candidates) == 0 {
		return 0, false
	}
	min := candidates[0]
	for _, v := range candidates[1:] {
		if v < min {
			min = v
		}
	}
	return min, true
}
