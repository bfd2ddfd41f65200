package persistence

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateSortOrder(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty string returns DESC", "", "DESC"},
		{"ASC uppercase returns ASC", "ASC", "ASC"},
		{"asc lowercase returns ASC", "asc", "ASC"},
		{"DESC uppercase returns DESC", "DESC", "DESC"},
		{"invalid value returns DESC", "INVALID", "DESC"},
		{"sql injection attempt returns DESC", "ASC; DROP TABLE claims;--", "DESC"},
		{"whitespace only returns DESC", "   ", "DESC"},
		{"whitespace around ASC returns ASC", "  asc  ", "ASC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ValidateSortOrder(tt.input)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestValidateSortField(t *testing.T) {
	allowedFields := map[string]bool{
		"id":           true,
		"created_at":   true,
		"updated_at":   true,
		"claim_number": true,
	}

	tests := []struct {
		name         string
		input        string
		allowedMap   map[string]bool
		defaultField string
		expected     string
	}{
		{"empty string returns default", "", allowedFields, "created_at", "created_at"},
		{"valid field returns field", "claim_number", allowedFields, "created_at", "claim_number"},
		{"valid field id returns field", "id", allowedFields, "created_at", "id"},
		{"invalid field returns default", "invalid_field", allowedFields, "created_at", "created_at"},
		{"sql injection attempt returns default", "id; DROP TABLE claims;--", allowedFields, "created_at", "created_at"},
		{"case sensitive - uppercase invalid", "CLAIM_NUMBER", allowedFields, "created_at", "created_at"},
		{"whitespace only returns default", "   ", allowedFields, "created_at", "created_at"},
		{"whitespace around valid field returns field", "  claim_number  ", allowedFields, "created_at", "claim_number"},
		{"field with spaces injection returns default", "claim_number claims", allowedFields, "created_at", "created_at"},
		{"field with quotes injection returns default", "claim_number'--", allowedFields, "created_at", "created_at"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ValidateSortField(tt.input, tt.allowedMap, tt.defaultField)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestClaimSortFields(t *testing.T) {
	for _, field := range []string{"id", "created_at", "updated_at", "claim_number", "status", "claimed_amount"} {
		assert.True(t, ClaimSortFields[field], "ClaimSortFields should contain '%s'", field)
	}
	assert.False(t, ClaimSortFields["denial_reason"], "free-text columns are not sortable")
}

func TestSQLInjectionPrevention(t *testing.T) {
	injectionPayloads := []string{
		"id; DROP TABLE claims;--",
		"id' OR '1'='1",
		"id\"; DROP TABLE claims;--",
		"id UNION SELECT * FROM claims",
		"id ORDER BY 1",
		"id, (SELECT secret FROM claims)",
		"CASE WHEN 1=1 THEN id ELSE claim_number END",
		"id/**/;DROP TABLE claims",
		"id\n; DROP TABLE claims",
		"id\t; DROP TABLE claims",
		"' OR ''='",
		"1; EXEC xp_cmdshell('dir')",
	}

	for _, payload := range injectionPayloads {
		t.Run("field: "+payload[:min(len(payload), 30)], func(t *testing.T) {
			result := ValidateSortField(payload, ClaimSortFields, "created_at")
			assert.Equal(t, "created_at", result, "SQL injection payload should be rejected: %s", payload)
		})

		t.Run("order: "+payload[:min(len(payload), 30)], func(t *testing.T) {
			result := ValidateSortOrder(payload)
			assert.Equal(t, "DESC", result, "SQL injection payload should be rejected: %s", payload)
		})
	}
}
