package core

import (
	"github.com/agnivade/levenshtein"
)

// MaxLinkDistance is the largest edit distance at which an investment
// category is reported as a probable misspelling of a goal category.
const MaxLinkDistance = 2

// SuggestGoalLinks reports investment categories that match no goal exactly
// but sit within MaxLinkDistance edits of one. Such transactions do not count
// towards the goal. Nothing is rewritten; the caller only surfaces the hint.
// Each category is reported once, against its closest goal.
func SuggestGoalLinks(goals []Goal, txs []Transaction) []LinkSuggestion {
	if len(goals) == 0 {
		return nil
	}
	linked := make(map[string]struct{}, len(goals))
	for _, g := range goals {
		linked[g.Category] = struct{}{}
	}

	index := make(map[string]int)
	var out []LinkSuggestion
	for _, tx := range txs {
		if tx.Type != Invest {
			continue
		}
		if _, ok := linked[tx.Category]; ok {
			continue
		}
		if i, ok := index[tx.Category]; ok {
			out[i].Amount.Cents += tx.Amount.Cents
			continue
		}

		best, bestDist := -1, MaxLinkDistance+1
		for gi, g := range goals {
			if d := levenshtein.ComputeDistance(tx.Category, g.Category); d < bestDist {
				best, bestDist = gi, d
			}
		}
		if best < 0 {
			continue
		}
		index[tx.Category] = len(out)
		out = append(out, LinkSuggestion{
			Category: tx.Category,
			Goal:     goals[best],
			Distance: bestDist,
			Amount:   tx.Amount,
		})
	}
	return out
}
