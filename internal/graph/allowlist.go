package graph

import "fmt"

// The ontology file names levels, priorities, and relationship types that
// end up in graph properties and queries. Everything is checked against
// these fixed sets before any query is built; query structure itself only
// ever contains the literal labels below, never interpolated input.

var allowedNodeLabels = map[string]bool{
	"TestCategory":   true,
	"EmotionalState": true,
	"Resource":       true,
	"ResourceType":   true,
	"Theme":          true,
	"TestResult":     true,
}

var allowedRelationships = map[string]bool{
	"INDICATES":   true,
	"HELPS_WITH":  true,
	"RELATED_TO":  true,
	"BELONGS_TO":  true,
	"ADDRESSES":   true,
	"RECOMMENDS":  true,
	"RATED":       true,
	"DETECTED":    true,
	"RECOMMENDED": true,
}

var allowedLevels = map[string]bool{
	"low":    true,
	"medium": true,
	"high":   true,
}

var allowedPriorities = map[string]bool{
	"low":    true,
	"medium": true,
	"high":   true,
}

func checkLevel(context, level string) error {
	if level != "" && !allowedLevels[level] {
		return fmt.Errorf("ontology: %s: level %q not allowed", context, level)
	}
	return nil
}

func checkPriority(context, priority string) error {
	if priority != "" && !allowedPriorities[priority] {
		return fmt.Errorf("ontology: %s: priority %q not allowed", context, priority)
	}
	return nil
}
