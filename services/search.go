package services

import (
	"law_office_app_go/models"
	"strings"
)

func normalizeSearch(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// matchesSearch looks for term in the client's names and the case number
func matchesSearch(c models.Case, term string) bool {
	for _, field := range []string{c.FirstName, c.LastName, c.ClientName(), c.CaseNum} {
		if strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	return false
}
