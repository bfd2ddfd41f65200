package persistence

import (
	"strings"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// ClaimSortFields contains allowed sort fields for claim listings
var ClaimSortFields = map[string]bool{
	"id":              true,
	"created_at":      true,
	"updated_at":      true,
	"claim_number":    true,
	"claim_type":      true,
	"status":          true,
	"claimed_amount":  true,
	"approved_amount": true,
	"paid_amount":     true,
	"claimant_name":   true,
	"incident_date":   true,
	"received_date":   true,
	"due_date":        true,
	"closed_date":     true,
	"assigned_to":     true,
}
