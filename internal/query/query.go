// Package query narrows in-memory collections by a free-text term and an
// optional categorical filter. Inputs are never modified.
package query

import (
	"strings"

	"github.com/diewo77/go-workshop/internal/models"
)

// All is the filter value that disables categorical filtering.
const All = "all"

// Filter is a search term plus a categorical value.
type Filter struct {
	Term     string
	Category string
}

// Matcher describes how to search one element type.
type Matcher[T any] struct {
	// Fields returns the text fields searched by the term.
	Fields func(T) []string
	// Category returns the value compared against Filter.Category.
	Category func(T) string
}

// Apply returns the items matching both the term (case-insensitive substring
// of any field) and the category (exact). Order is preserved.
func Apply[T any](items []T, f Filter, m Matcher[T]) []T {
	term := strings.ToLower(strings.TrimSpace(f.Term))
	cat := strings.TrimSpace(f.Category)
	out := make([]T, 0, len(items))
	for _, it := range items {
		if cat != "" && cat != All && m.Category(it) != cat {
			continue
		}
		if term != "" && !containsAny(m.Fields(it), term) {
			continue
		}
		out = append(out, it)
	}
	return out
}

func containsAny(fields []string, term string) bool {
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), term) {
			return true
		}
	}
	return false
}

var productMatcher = Matcher[models.Product]{
	Fields:   func(p models.Product) []string { return []string{p.Name, p.Brand, p.Category} },
	Category: func(p models.Product) string { return string(p.Type) },
}

var jobCardMatcher = Matcher[models.JobCard]{
	Fields:   func(c models.JobCard) []string { return []string{c.CustomerName, c.VehicleNumber, c.VehicleModel} },
	Category: func(c models.JobCard) string { return string(c.Status) },
}

var logMatcher = Matcher[models.ActivityLog]{
	Fields:   func(l models.ActivityLog) []string { return []string{l.UserName, string(l.Action), l.Details} },
	Category: func(l models.ActivityLog) string { return string(l.Action) },
}

var invoiceMatcher = Matcher[models.Invoice]{
	Fields:   func(i models.Invoice) []string { return []string{i.InvoiceNumber, i.CustomerName, i.VehicleNumber} },
	Category: func(i models.Invoice) string { return string(i.Status) },
}

// Products filters by name, brand or category and by product type.
func Products(items []models.Product, f Filter) []models.Product {
	return Apply(items, f, productMatcher)
}

// JobCards filters by customer or vehicle and by status.
func JobCards(items []models.JobCard, f Filter) []models.JobCard {
	return Apply(items, f, jobCardMatcher)
}

// Logs filters by user name, action or details and by action.
func Logs(items []models.ActivityLog, f Filter) []models.ActivityLog {
	return Apply(items, f, logMatcher)
}

// Invoices filters by number, customer or vehicle and by status.
func Invoices(items []models.Invoice, f Filter) []models.Invoice {
	return Apply(items, f, invoiceMatcher)
}
