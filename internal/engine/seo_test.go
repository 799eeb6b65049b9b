package engine

import (
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/vitasana/review-risk/internal/domain"
)

var seoRefTime = time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

func fixedSEOScorer() *SEOScorer {
	return NewSEOScorerAt(nil, func() time.Time { return seoRefTime })
}

const healthyExperience = "Convivo con l'emicrania da quando avevo venticinque anni e ho imparato a riconoscere i primi sintomi prima che il dolore diventi davvero insopportabile. All'inizio prendevo antidolorifici da banco senza alcun criterio, poi un neurologo mi ha impostato una terapia di profilassi che ha cambiato completamente le mie giornate.\n\nNel giro di sei mesi gli attacchi sono passati da dodici al mese a tre o quattro, e sono tornata a lavorare con regolarità. Non è stata una strada semplice e qualche giornata storta capita ancora, però adesso so come gestirla! Consiglio a chiunque soffra di emicrania di non rassegnarsi e di farsi seguire da uno specialista serio, perché la differenza si vede davvero."

// healthyReview triggers no penalty at the reference time.
func healthyReview() *domain.Review {
	return &domain.Review{
		ID:             42,
		Title:          "La mia battaglia quotidiana con l'emicrania",
		Experience:     healthyExperience,
		AuthorName:     strPtr("Maria R."),
		ConditionLabel: "emicrania",
		CreatedAt:      seoRefTime.AddDate(0, 0, -10),
		Likes:          4,
		Comments:       1,
	}
}

func TestSEOScoreHealthyReview(t *testing.T) {
	got := fixedSEOScorer().Score(healthyReview())

	if got.Score != 100 {
		t.Errorf("Score = %d, want 100 (issues: %v)", got.Score, got.Reasons)
	}
	if got.Category != domain.CategoryBasso {
		t.Errorf("Category = %s, want %s", got.Category, domain.CategoryBasso)
	}
	if len(got.Reasons) != 0 {
		t.Errorf("Reasons = %v, want none", got.Reasons)
	}
}

func TestSEOScorePenalties(t *testing.T) {
	scorer := fixedSEOScorer()

	tests := []struct {
		name         string
		mutate       func(r *domain.Review)
		wantScore    int
		wantCategory domain.RiskCategory
		wantIssue    string
	}{
		{
			name: "thin content",
			mutate: func(r *domain.Review) {
				r.Experience = "I sintomi erano forti ma la terapia mi ha aiutato molto."
			},
			wantScore:    70,
			wantCategory: domain.CategoryMedio,
			wantIssue:    "contenuto troppo scarno",
		},
		{
			name: "content below recommended length",
			mutate: func(r *domain.Review) {
				r.Experience = "Convivo con l'emicrania da molti anni e ho imparato a riconoscere i sintomi in anticipo, prima che la giornata sia compromessa. Il neurologo mi ha prescritto una terapia di profilassi che funziona bene e gli attacchi sono diminuiti in modo evidente. Qualche giornata storta capita ancora, ma adesso riesco a gestirla senza fermare tutta la mia vita."
			},
			wantScore:    85,
			wantCategory: domain.CategoryBasso,
			wantIssue:    "contenuto sotto la soglia consigliata",
		},
		{
			name: "duplicated boilerplate openings",
			mutate: func(r *domain.Review) {
				r.Experience = "La mia esperienza con questa patologia: vorrei condividere quello che ho vissuto.\n\n" + r.Experience
			},
			wantScore:    80,
			wantCategory: domain.CategoryBasso,
			wantIssue:    "frasi di apertura generiche duplicate",
		},
		{
			name: "condition stuffed in title",
			mutate: func(r *domain.Review) {
				r.Title = "Emicrania, ancora emicrania, sempre emicrania ogni giorno"
			},
			wantScore:    75,
			wantCategory: domain.CategoryMedio,
			wantIssue:    "nome della patologia ripetuto nel titolo",
		},
		{
			name: "condition keyword density in body",
			mutate: func(r *domain.Review) {
				// 12 occurrences over ~122 words, well past the 5% limit.
				r.Experience = healthyExperience + "\n\n" + strings.Repeat("emicrania ", 10)
			},
			wantScore:    80,
			wantCategory: domain.CategoryBasso,
			wantIssue:    "densità eccessiva della parola chiave nel testo",
		},
		{
			name: "title too short",
			mutate: func(r *domain.Review) {
				r.Title = "Emicrania"
			},
			wantScore:    85,
			wantCategory: domain.CategoryBasso,
			wantIssue:    "titolo troppo corto",
		},
		{
			name: "title too long",
			mutate: func(r *domain.Review) {
				r.Title = "La mia lunghissima e dettagliata esperienza personale quotidiana con l'emicrania cronica"
			},
			wantScore:    90,
			wantCategory: domain.CategoryBasso,
			wantIssue:    "titolo troppo lungo",
		},
		{
			name: "engagement decay on old review",
			mutate: func(r *domain.Review) {
				r.CreatedAt = seoRefTime.AddDate(0, 0, -120)
				r.Likes = 1
				r.Comments = 0
			},
			wantScore:    85,
			wantCategory: domain.CategoryBasso,
			wantIssue:    "interazioni in calo rispetto all'età della recensione",
		},
		{
			name: "stale review with healthy engagement",
			mutate: func(r *domain.Review) {
				r.CreatedAt = seoRefTime.AddDate(0, 0, -400)
				r.Likes = 50
			},
			wantScore:    90,
			wantCategory: domain.CategoryBasso,
			wantIssue:    "recensione più vecchia di un anno",
		},
		{
			name: "long text without paragraphs",
			mutate: func(r *domain.Review) {
				r.Experience = strings.ReplaceAll(r.Experience, "\n\n", " ")
			},
			wantScore:    90,
			wantCategory: domain.CategoryBasso,
			wantIssue:    "testo lungo senza paragrafi",
		},
		{
			name: "anonymous author",
			mutate: func(r *domain.Review) {
				r.AuthorName = nil
			},
			wantScore:    80,
			wantCategory: domain.CategoryBasso,
			wantIssue:    "autore anonimo",
		},
		{
			name: "special character noise",
			mutate: func(r *domain.Review) {
				r.Experience += "\n\n" + strings.Repeat("#", 60)
			},
			wantScore:    85,
			wantCategory: domain.CategoryBasso,
			wantIssue:    "densità anomala di caratteri speciali",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			review := healthyReview()
			tt.mutate(review)

			got := scorer.Score(review)

			if got.Score != tt.wantScore {
				t.Errorf("Score = %d, want %d (issues: %v)", got.Score, tt.wantScore, got.Reasons)
			}
			if got.Category != tt.wantCategory {
				t.Errorf("Category = %s, want %s", got.Category, tt.wantCategory)
			}
			if !containsString(got.Reasons, tt.wantIssue) {
				t.Errorf("Reasons = %v, want to contain %q", got.Reasons, tt.wantIssue)
			}
			if len(got.Recommendations) != len(got.Reasons) {
				t.Errorf("got %d recommendations for %d issues", len(got.Recommendations), len(got.Reasons))
			}
		})
	}
}

func TestSEOScoreLowClinicalContent(t *testing.T) {
	review := healthyReview()
	review.Experience = "Da qualche anno convivo con questo problema e ho dovuto cambiare tante piccole abitudini della vita di tutti i giorni. Ho iniziato a dormire con orari regolari, a bere più acqua e a ridurre il caffè, e devo dire che qualcosa è migliorato.\n\nNon è stato facile accettare i limiti che questo comporta, soprattutto sul lavoro e con gli amici. Ci sono settimane buone e settimane difficili, però ho imparato a non farmi prendere dallo sconforto e a chiedere aiuto quando serve. Con il tempo ho trovato un equilibrio che mi permette di fare quasi tutto quello che facevo prima, e questo per me vale moltissimo! Racconto tutto questo perché a me sarebbe servito leggere una testimonianza così qualche anno fa, quando mi sembrava di essere l'unica persona al mondo con questo problema."

	got := fixedSEOScorer().Score(review)

	if got.Score != 85 {
		t.Errorf("Score = %d, want 85 (issues: %v)", got.Score, got.Reasons)
	}
	if !containsString(got.Reasons, "contenuto medico poco informativo") {
		t.Errorf("Reasons = %v, want low-information issue", got.Reasons)
	}
}

func TestSEOScoreEmptyReviewIsCritico(t *testing.T) {
	// Empty everything: thin content (30) + short title (15) +
	// anonymous (20) + low clinical content (15) leaves 20.
	got := fixedSEOScorer().Score(&domain.Review{})

	if got.Score != 20 {
		t.Errorf("Score = %d, want 20 (issues: %v)", got.Score, got.Reasons)
	}
	if got.Category != domain.CategoryCritico {
		t.Errorf("Category = %s, want %s", got.Category, domain.CategoryCritico)
	}
}

func TestSEOCategoryThresholds(t *testing.T) {
	tests := []struct {
		score int
		want  domain.RiskCategory
	}{
		{100, domain.CategoryBasso},
		{80, domain.CategoryBasso},
		{79, domain.CategoryMedio},
		{60, domain.CategoryMedio},
		{59, domain.CategoryAlto},
		{40, domain.CategoryAlto},
		{39, domain.CategoryCritico},
		{0, domain.CategoryCritico},
		{-10, domain.CategoryCritico},
	}
	for _, tt := range tests {
		if got := seoCategory(tt.score); got != tt.want {
			t.Errorf("seoCategory(%d) = %s, want %s", tt.score, got, tt.want)
		}
	}
}

func TestSEODeterminism(t *testing.T) {
	scorer := fixedSEOScorer()
	review := healthyReview()

	first := scorer.Score(review)
	second := scorer.Score(review)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("scoring is not deterministic:\nfirst  = %+v\nsecond = %+v", first, second)
	}
}

func TestSEOPenaltiesOnlyLowerTheScore(t *testing.T) {
	scorer := fixedSEOScorer()
	base := scorer.Score(healthyReview()).Score

	mutated := healthyReview()
	mutated.AuthorName = nil
	mutated.Title = "Emicrania"

	if got := scorer.Score(mutated).Score; got > base {
		t.Errorf("triggering penalties raised the score: %d -> %d", base, got)
	}
}

func TestSEOScoreBatchSharesReferenceTime(t *testing.T) {
	scorer := fixedSEOScorer()
	reviews := []*domain.Review{healthyReview(), healthyReview(), healthyReview()}
	reviews[1].ID = 43
	reviews[2].ID = 44

	results := scorer.ScoreBatch(reviews)

	if len(results) != len(reviews) {
		t.Fatalf("len(results) = %d, want %d", len(results), len(reviews))
	}
	for i, res := range results {
		if res.ReviewID != reviews[i].ID {
			t.Errorf("results[%d].ReviewID = %d, want %d", i, res.ReviewID, reviews[i].ID)
		}
		if res.Score != results[0].Score {
			t.Errorf("results[%d].Score = %d, want %d", i, res.Score, results[0].Score)
		}
	}
}

func containsString(list []string, want string) bool {
	for _, s := range list {
		if s == want {
			return true
		}
	}
	return false
}
