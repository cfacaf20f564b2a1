package service

import (
	"sort"
	"strings"

	"casebank-backend/models"
)

// FilterJudgments returns the judgments matching a search query. An
// empty or whitespace query returns the full slice in stored order.
// Matching is a case-insensitive substring test over case name, brief
// facts and decision; the other fields are deliberately not searched.
func FilterJudgments(judgments []*models.Judgment, query string) []*models.Judgment {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return judgments
	}

	var matched []*models.Judgment
	for _, judgment := range judgments {
		if strings.Contains(strings.ToLower(judgment.CaseName), query) ||
			strings.Contains(strings.ToLower(judgment.BriefFacts), query) ||
			strings.Contains(strings.ToLower(judgment.DecisionHeld), query) {
			matched = append(matched, judgment)
		}
	}
	return matched
}

// FilterGoodLaw returns the judgments still citable as good law
func FilterGoodLaw(judgments []*models.Judgment) []*models.Judgment {
	var good []*models.Judgment
	for _, judgment := range judgments {
		if judgment.Status == models.StatusGoodLaw {
			good = append(good, judgment)
		}
	}
	return good
}

// UsagesForJudgment returns the usage links pointing at a judgment.
// The comparison is byte-for-byte with no trimming on either side: an
// ID stored with stray whitespace never matches, and that is the
// stored record's problem, not the resolver's.
func UsagesForJudgment(usages []*models.InternalUsage, judgmentID string) []*models.InternalUsage {
	var matched []*models.InternalUsage
	for _, usage := range usages {
		if usage.JudgmentID == judgmentID {
			matched = append(matched, usage)
		}
	}
	return matched
}

// RepliesCiting returns the notice replies whose cited-case list
// mentions a judgment's case name. This is a substring test against
// the comma-joined names, so "State v. Kumar" also matches a reply
// citing "State v. Kumar Singh"; a known limitation carried over from
// how the citation list is stored.
func RepliesCiting(replies []*models.NoticeReply, caseName string) []*models.NoticeReply {
	var matched []*models.NoticeReply
	for _, reply := range replies {
		if strings.Contains(reply.InternalJudgmentsUsed, caseName) {
			matched = append(matched, reply)
		}
	}
	return matched
}

// RecordsForMatter returns the usage links and replies filed under an
// exact matter name.
func RecordsForMatter(usages []*models.InternalUsage, replies []*models.NoticeReply, matter string) ([]*models.InternalUsage, []*models.NoticeReply) {
	var matchedUsages []*models.InternalUsage
	for _, usage := range usages {
		if usage.InternalMatterName == matter {
			matchedUsages = append(matchedUsages, usage)
		}
	}

	var matchedReplies []*models.NoticeReply
	for _, reply := range replies {
		if reply.MatterName == matter {
			matchedReplies = append(matchedReplies, reply)
		}
	}

	return matchedUsages, matchedReplies
}

// DistinctMatters returns the sorted union of matter names across
// usage links and replies, skipping empty names.
func DistinctMatters(usages []*models.InternalUsage, replies []*models.NoticeReply) []string {
	seen := make(map[string]struct{})
	for _, usage := range usages {
		if usage.InternalMatterName != "" {
			seen[usage.InternalMatterName] = struct{}{}
		}
	}
	for _, reply := range replies {
		if reply.MatterName != "" {
			seen[reply.MatterName] = struct{}{}
		}
	}

	matters := make([]string, 0, len(seen))
	for matter := range seen {
		matters = append(matters, matter)
	}
	sort.Strings(matters)
	return matters
}
