package services

import (
	"strings"

	"github.com/civicdesk/backend/internal/models"
)

// Keyword weights used for automatic triage of new complaints. Matching is
// plain substring matching on the lowercased description, so a keyword
// embedded in a longer word still counts ("roadside" scores as "road").
// That is the established behavior and downstream reporting depends on it.
var priorityKeywords = map[string]int{
	"accident": 5,
	"danger":   4,
	"fire":     5,
	"injured":  4,
	"leak":     2,
	"road":     2,
	"garbage":  1,
}

const (
	priorityHighThreshold   = 7
	priorityMediumThreshold = 3
)

// PriorityScore sums the weight of every keyword present in the description.
// Each keyword counts at most once regardless of repetitions.
func PriorityScore(description string) int {
	text := strings.ToLower(description)
	score := 0
	for word, weight := range priorityKeywords {
		if strings.Contains(text, word) {
			score += weight
		}
	}
	return score
}

// DerivePriority maps a description to a complaint priority: score >= 7 is
// High, >= 3 is Medium, anything else Low.
func DerivePriority(description string) models.ComplaintPriority {
	score := PriorityScore(description)
	switch {
	case score >= priorityHighThreshold:
		return models.PriorityHigh
	case score >= priorityMediumThreshold:
		return models.PriorityMedium
	default:
		return models.PriorityLow
	}
}
