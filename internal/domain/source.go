package domain

import (
	"net/url"
	"strings"
)

// Source describes one online pharmacy the comparison runs against.
// SearchURL builds the retailer's search page URL for a query; BaseURL
// resolves root-relative canonical links found on result pages.
type Source struct {
	Key       string
	BaseURL   string
	SearchURL func(query string) string
}

// DefaultSources returns the fixed, ordered registry of pharmacies.
// Adding or removing a retailer is a change to this list only; the
// pipeline never special-cases individual sources.
func DefaultSources() []Source {
	return []Source{
		{
			Key:     "1mg",
			BaseURL: "https://www.1mg.com",
			SearchURL: func(q string) string {
				return "https://www.1mg.com/search/all?name=" + url.QueryEscape(q)
			},
		},
		{
			Key:     "Netmeds",
			BaseURL: "https://www.netmeds.com",
			SearchURL: func(q string) string {
				// Netmeds uses hyphenated path segments instead of encoded spaces
				return "https://www.netmeds.com/catalogsearch/result/" +
					strings.ReplaceAll(url.PathEscape(q), "%20", "-") + "/all"
			},
		},
		{
			Key:     "PharmEasy",
			BaseURL: "https://pharmeasy.in",
			SearchURL: func(q string) string {
				return "https://pharmeasy.in/search/all?name=" + url.QueryEscape(q)
			},
		},
		{
			Key:     "Apollo Pharmacy",
			BaseURL: "https://www.apollopharmacy.in",
			SearchURL: func(q string) string {
				return "https://www.apollopharmacy.in/search-medicines/" + url.PathEscape(q)
			},
		},
	}
}
