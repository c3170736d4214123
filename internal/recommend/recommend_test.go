package recommend

import (
	"testing"
	"time"

	"jariyah/internal/models"
)

func TestScore_CausesAndTags(t *testing.T) {
	charity := models.Charity{ID: "c1", Causes: []string{"education", "health"}, Tags: []string{"children"}}
	profile := models.NewProfile("u1")
	profile.PreferredCauses = []string{"education"}
	profile.Interests = []string{"children"}

	if got := Score(charity, profile); got != 3 {
		t.Errorf("Score() = %d, want 3", got)
	}
}

func TestScore_InteractionBonusCapped(t *testing.T) {
	charity := models.Charity{ID: "c1"}
	profile := models.NewProfile("u1")

	profile.DonationHistory["c1"] = models.Interaction{InteractionCount: 2, LastInteraction: time.Now()}
	if got := Score(charity, profile); got != 2 {
		t.Errorf("Score() with 2 interactions = %d, want 2", got)
	}

	profile.DonationHistory["c1"] = models.Interaction{InteractionCount: 40}
	if got := Score(charity, profile); got != 5 {
		t.Errorf("Score() with 40 interactions = %d, want 5", got)
	}
}

func TestScore_DuplicateTagsCountOnce(t *testing.T) {
	charity := models.Charity{ID: "c1", Tags: []string{"water", "water"}}
	profile := models.NewProfile("u1")
	profile.Interests = []string{"water", "water"}

	if got := Score(charity, profile); got != 1 {
		t.Errorf("Score() = %d, want 1", got)
	}
}

func TestRank_SampleCatalog(t *testing.T) {
	ranked := Rank(models.SampleCharities(), models.DefaultProfile())

	// education fund: causes{education}=2, tags{education}=1 -> 3
	// clean water: tags{health}=1 -> 1
	// tech: causes{education, social justice}=4, tags{technology, education}=2 -> 6
	wantIDs := []string{"3", "1", "2"}
	wantScores := []int{6, 3, 1}
	for i := range wantIDs {
		if ranked[i].Charity.ID != wantIDs[i] || ranked[i].Score != wantScores[i] {
			t.Errorf("ranked[%d] = %s/%d, want %s/%d",
				i, ranked[i].Charity.ID, ranked[i].Score, wantIDs[i], wantScores[i])
		}
	}
}

func TestRank_StableOnTies(t *testing.T) {
	catalog := []models.Charity{
		{ID: "a"}, {ID: "b", Tags: []string{"x"}}, {ID: "c"}, {ID: "d"}, {ID: "e", Tags: []string{"x"}},
	}
	profile := models.NewProfile("u1")
	profile.Interests = []string{"x"}

	ranked := Rank(catalog, profile)
	want := []string{"b", "e", "a", "c", "d"}
	for i, id := range want {
		if ranked[i].Charity.ID != id {
			t.Errorf("ranked[%d] = %s, want %s", i, ranked[i].Charity.ID, id)
		}
	}
}

func TestRank_EmptyPreferencesKeepsCatalogOrder(t *testing.T) {
	catalog := models.SampleCharities()
	ranked := Rank(catalog, models.NewProfile("u1"))
	for i := range catalog {
		if ranked[i].Charity.ID != catalog[i].ID || ranked[i].Score != 0 {
			t.Errorf("ranked[%d] = %s/%d, want %s/0", i, ranked[i].Charity.ID, ranked[i].Score, catalog[i].ID)
		}
	}
}

func TestTopAndMatchPercent(t *testing.T) {
	ranked := Rank(models.SampleCharities(), models.DefaultProfile())
	if got := Top(ranked, 2); len(got) != 2 {
		t.Errorf("Top(2) returned %d entries", len(got))
	}
	if got := Top(ranked, 10); len(got) != 3 {
		t.Errorf("Top(10) returned %d entries", len(got))
	}

	if got := (Scored{Score: 6}).MatchPercent(); got != 60 {
		t.Errorf("MatchPercent(6) = %v, want 60", got)
	}
	if got := (Scored{Score: 14}).MatchPercent(); got != 100 {
		t.Errorf("MatchPercent(14) = %v, want 100", got)
	}
}
