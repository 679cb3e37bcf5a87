package domain

import "errors"

var (
	// ErrInvalidQuery is returned when the query is empty or shorter than 2 characters
	ErrInvalidQuery = errors.New("query must be at least 2 characters")

	// ErrReaderFailure is returned when the reader proxy request fails
	ErrReaderFailure = errors.New("reader proxy request failed")

	// ErrNoPrice is returned when no extraction tier yields a price
	ErrNoPrice = errors.New("no price found on page")

	// ErrLowConfidence is returned when the title match score is below the acceptance threshold
	ErrLowConfidence = errors.New("match confidence below threshold")
)
