package grid

import "strings"

// KeyColumns groups column names by the business concern their header
// suggests. Matching is case-insensitive substring; the first matching
// bucket wins.
type KeyColumns struct {
	Demand      []string `json:"demand"`
	Supply      []string `json:"supply"`
	TagPipeline []string `json:"tag_pipeline"`
	Other       []string `json:"other"`
}

var (
	demandKeywords = []string{"demand", "requirement", "need", "request", "order"}
	supplyKeywords = []string{"supply", "available", "stock", "inventory", "resource"}
	tagKeywords    = []string{"tag", "pipeline", "stage", "phase", "status", "progress"}

	// pipelineKeywords pick the column the status chart counts over.
	pipelineKeywords = []string{"status", "stage", "phase", "state", "pipeline"}
)

// IdentifyKeyColumns buckets columns into demand, supply and tag/pipeline
// groups by header keywords.
func IdentifyKeyColumns(columns []string) KeyColumns {
	var kc KeyColumns
	for _, column := range columns {
		lower := strings.ToLower(column)
		switch {
		case matchesAny(lower, demandKeywords):
			kc.Demand = append(kc.Demand, column)
		case matchesAny(lower, supplyKeywords):
			kc.Supply = append(kc.Supply, column)
		case matchesAny(lower, tagKeywords):
			kc.TagPipeline = append(kc.TagPipeline, column)
		default:
			kc.Other = append(kc.Other, column)
		}
	}
	return kc
}

// PipelineColumn returns the first column whose header looks like a
// pipeline stage or status indicator.
func PipelineColumn(columns []string) (string, bool) {
	for _, column := range columns {
		if matchesAny(strings.ToLower(column), pipelineKeywords) {
			return column, true
		}
	}
	return "", false
}

func matchesAny(lower string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}
