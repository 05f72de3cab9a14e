package arbitrage

import (
	"slices"
	"sort"

	"github.com/navid-fn/radar/internal/models"
)

// Ranking is a list of opportunities ordered by percentage difference,
// largest first.
type Ranking []models.Opportunity

// Rank returns a new Ranking; ops is left untouched. Ties keep their input
// order, so ranking an already ranked list returns the same list.
func Rank(ops []models.Opportunity) Ranking {
	ranked := slices.Clone(ops)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].PercentageDifference.GreaterThan(ranked[j].PercentageDifference)
	})
	return Ranking(ranked)
}

// Top returns a copy of the first n opportunities.
func (r Ranking) Top(n int) []models.Opportunity {
	if n <= 0 {
		return []models.Opportunity{}
	}
	if n > len(r) {
		n = len(r)
	}
	return slices.Clone(r[:n])
}
