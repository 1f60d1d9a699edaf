package extract

import "strings"

const maxSuggestedReviewers = 3

// Reviewers suggests reviewers from the roster. Roster members mentioned in
// the analysis win (capped at three); if the analysis names nobody, the
// first two roster entries are handed back unfiltered. An empty roster
// yields no suggestions.
func Reviewers(text string, roster []string) []string {
	if len(roster) == 0 {
		return nil
	}

	lower := strings.ToLower(text)
	var mentioned []string
	for _, member := range roster {
		if member == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(member)) {
			mentioned = append(mentioned, member)
			if len(mentioned) == maxSuggestedReviewers {
				break
			}
		}
	}
	if len(mentioned) > 0 {
		return mentioned
	}

	if len(roster) > 2 {
		roster = roster[:2]
	}
	return roster
}
