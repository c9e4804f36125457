package fusion

import (
	"github.com/pqcshield/scanner/internal/model"
)

const maxRecommendations = 5

// recommendations walks SAST results in emission order and emits up to
// five densely ranked remediation entries, per spec §4.6.
func recommendations(sast model.SASTReport) []model.Recommendation {
	var recs []model.Recommendation

	for _, fr := range sast.Results {
		if fr.Skipped {
			continue
		}
		for _, v := range fr.Vulnerabilities {
			if len(recs) >= maxRecommendations {
				return recs
			}
			recs = append(recs, model.Recommendation{
				PriorityRank:     len(recs) + 1,
				AIRecommendation: "## " + v.Description + "\n" + v.Recommendation,
				Algorithm:        v.Algorithm,
				Context:          fr.FilePath,
				EstimatedEffort:  "1-2 M/D",
			})
		}
	}

	return recs
}
