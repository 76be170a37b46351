// Package model defines the data structures used throughout the application.
// In Go, we use structs to represent our data — similar to classes in other languages,
// but without inheritance. Go favours composition over inheritance.
package model

import (
	"regexp"
	"strings"
)

// Category is the closed set of sections an article can be published under.
//
// WHY A NAMED STRING TYPE (not iota constants)?
// Categories travel through JSON and URLs ("/category/finance"), so the wire
// representation IS the value. A named string type gives us type safety at
// the Go level while keeping serialization trivial.
type Category string

const (
	CategoryHealthcare  Category = "healthcare"
	CategoryFinance     Category = "finance"
	CategoryRealEstate  Category = "real-estate"
	CategorySupplyChain Category = "supply-chain"
)

// Categories lists all valid categories, in display order.
var Categories = []Category{
	CategoryHealthcare,
	CategoryFinance,
	CategoryRealEstate,
	CategorySupplyChain,
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryHealthcare, CategoryFinance, CategoryRealEstate, CategorySupplyChain:
		return true
	}
	return false
}

// Article represents a published (or draft) blog article.
//
// The `json:"..."` tags match the persisted snapshot format exactly — the
// store serializes articles verbatim, so renaming a tag is a breaking change
// to every snapshot already on disk.
//
// Slug should be unique and URL-safe (see Slugify), but the store does not
// enforce uniqueness; lookups return the first exact match.
type Article struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Slug          string   `json:"slug"`
	Summary       string   `json:"summary"`
	Content       string   `json:"content"` // raw markdown
	Category      Category `json:"category"`
	Author        string   `json:"author"`
	PublishedDate string   `json:"publishedDate"` // ISO date, e.g. "2023-09-15"
	ImageURL      string   `json:"imageUrl"`
	Featured      bool     `json:"featured"`
}

// nonWord matches runs of characters that don't belong in a URL slug.
var nonWord = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify derives a URL-safe slug from an article title:
// lowercase, non-word runs collapsed to single hyphens, no leading/trailing hyphen.
//
//	Slugify("AI-Powered Diagnostics: The Future!") → "ai-powered-diagnostics-the-future"
func Slugify(title string) string {
	slug := strings.ToLower(title)
	slug = nonWord.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}
