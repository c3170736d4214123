// Package recommend ranks the charity catalog against a donor's stated
// causes, interests and giving history.
package recommend

import (
	"sort"

	"jariyah/internal/models"
)

const (
	causeWeight         = 2
	tagWeight           = 1
	maxInteractionBonus = 5
	// fullMatchScore is the score displayed as a 100% match.
	fullMatchScore = 10
)

// Scored is a charity together with its match score.
type Scored struct {
	Charity models.Charity `json:"charity"`
	Score   int            `json:"matchScore"`
}

// MatchPercent is the score shown to donors, capped at 100.
func (s Scored) MatchPercent() float64 {
	p := float64(s.Score) / fullMatchScore * 100
	if p > 100 {
		return 100
	}
	return p
}

// Score rates how well charity fits profile.
func Score(charity models.Charity, profile models.UserProfile) int {
	score := causeWeight * overlap(charity.Causes, profile.PreferredCauses)
	score += tagWeight * overlap(charity.Tags, profile.Interests)
	if h, ok := profile.DonationHistory[charity.ID]; ok {
		score += min(h.InteractionCount, maxInteractionBonus)
	}
	return score
}

// Rank scores every charity and sorts by descending score. Equal scores keep
// catalog order so a prefix of the result is deterministic.
func Rank(charities []models.Charity, profile models.UserProfile) []Scored {
	ranked := make([]Scored, len(charities))
	for i, c := range charities {
		ranked[i] = Scored{Charity: c, Score: Score(c, profile)}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return ranked
}

// Top returns at most n entries of a ranked list.
func Top(ranked []Scored, n int) []Scored {
	if n < 0 || n >= len(ranked) {
		return ranked
	}
	return ranked[:n]
}

// overlap counts distinct members of a that also appear in b.
func overlap(a, b []string) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	in := make(map[string]struct{}, len(b))
	for _, s := range b {
		in[s] = struct{}{}
	}
	seen := make(map[string]struct{}, len(a))
	n := 0
	for _, s := range a {
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		if _, ok := in[s]; ok {
			n++
		}
	}
	return n
}
