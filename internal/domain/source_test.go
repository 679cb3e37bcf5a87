package domain

import (
	"strings"
	"testing"
)

func TestDefaultSources(t *testing.T) {
	sources := DefaultSources()

	if len(sources) != 4 {
		t.Fatalf("len(sources) = %d, want 4", len(sources))
	}

	for _, source := range sources {
		if source.Key == "" || source.BaseURL == "" || source.SearchURL == nil {
			t.Errorf("incomplete source descriptor: %+v", source)
		}
		if !strings.HasPrefix(source.BaseURL, "https://") {
			t.Errorf("source %s base URL %q is not absolute", source.Key, source.BaseURL)
		}
	}
}

func TestSearchURLBuilders(t *testing.T) {
	byKey := make(map[string]Source)
	for _, source := range DefaultSources() {
		byKey[source.Key] = source
	}

	t.Run("1mg encodes the query parameter", func(t *testing.T) {
		url := byKey["1mg"].SearchURL("dolo 650")
		if url != "https://www.1mg.com/search/all?name=dolo+650" {
			t.Errorf("url = %q", url)
		}
	})

	t.Run("netmeds hyphenates path segments", func(t *testing.T) {
		url := byKey["Netmeds"].SearchURL("dolo 650")
		if url != "https://www.netmeds.com/catalogsearch/result/dolo-650/all" {
			t.Errorf("url = %q", url)
		}
		if strings.Contains(url, "%20") {
			t.Errorf("url %q still contains encoded spaces", url)
		}
	})

	t.Run("pharmeasy encodes the query parameter", func(t *testing.T) {
		url := byKey["PharmEasy"].SearchURL("dolo 650")
		if url != "https://pharmeasy.in/search/all?name=dolo+650" {
			t.Errorf("url = %q", url)
		}
	})

	t.Run("apollo escapes the path segment", func(t *testing.T) {
		url := byKey["Apollo Pharmacy"].SearchURL("dolo 650")
		if url != "https://www.apollopharmacy.in/search-medicines/dolo%20650" {
			t.Errorf("url = %q", url)
		}
	})
}
