package services

import (
	"testing"

	"officials-rating-server/models"
)

func uniformReview(score int) models.Review {
	return models.Review{
		Mechanics:       score,
		Professionalism: score,
		Positioning:     score,
		Stalling:        score,
		Consistency:     score,
		Appearance:      score,
	}
}

func TestComputeCategoryAveragesEmpty(t *testing.T) {
	averages := ComputeCategoryAverages(nil)
	if averages != (models.CategoryAverages{}) {
		t.Errorf("expected all-zero averages for empty review set, got %+v", averages)
	}
}

func TestComputeCategoryAveragesRoundsHalfUp(t *testing.T) {
	tests := []struct {
		name      string
		mechanics []int
		want      int
	}{
		{"exact mean", []int{1, 2, 3, 4, 5}, 3},
		{"rounds 3.5 up", []int{3, 4}, 4},
		{"rounds 2.5 up", []int{2, 3}, 3},
		{"rounds 4.33 down", []int{4, 4, 5}, 4},
		{"rounds 4.67 up", []int{4, 5, 5}, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var reviews []models.Review
			for _, score := range tt.mechanics {
				r := uniformReview(3)
				r.Mechanics = score
				reviews = append(reviews, r)
			}

			averages := ComputeCategoryAverages(reviews)
			if averages.Mechanics != tt.want {
				t.Errorf("mechanics average for %v = %d, want %d", tt.mechanics, averages.Mechanics, tt.want)
			}
		})
	}
}

// The overall score averages the six already-rounded category averages, so
// category averages {4,4,4,4,4,5} give round(25/6) = round(4.17) = 4.
func TestComputeCategoryAveragesTwoStageOverall(t *testing.T) {
	review := uniformReview(4)
	review.Appearance = 5

	averages := ComputeCategoryAverages([]models.Review{review})
	if averages.Appearance != 5 {
		t.Fatalf("appearance average = %d, want 5", averages.Appearance)
	}
	if averages.Overall != 4 {
		t.Errorf("overall = %d, want 4", averages.Overall)
	}
}

func TestComputeCategoryAveragesOppositeExtremes(t *testing.T) {
	reviews := []models.Review{uniformReview(5), uniformReview(1)}

	averages := ComputeCategoryAverages(reviews)
	want := models.CategoryAverages{
		Mechanics: 3, Professionalism: 3, Positioning: 3,
		Stalling: 3, Consistency: 3, Appearance: 3, Overall: 3,
	}
	if averages != want {
		t.Errorf("averages = %+v, want %+v", averages, want)
	}
}

func TestRecomputeOfficialPersistsAggregate(t *testing.T) {
	db := newTestDB(t)
	aggregator := NewRatingAggregator(db)

	official := createOfficial(t, db, "Ray Vasquez")
	event := createEvent(t, db, "District Duals")
	assignOfficial(t, db, official.ID, event.ID)

	for _, score := range []int{5, 1} {
		user := createUser(t, db)
		review := models.Review{OfficialID: official.ID, UserID: user.ID, EventID: event.ID}
		review.Mechanics, review.Professionalism, review.Positioning = score, score, score
		review.Stalling, review.Consistency, review.Appearance = score, score, score
		if err := db.Create(&review).Error; err != nil {
			t.Fatalf("failed to create review: %v", err)
		}
	}

	if err := aggregator.RecomputeOfficial(official.ID); err != nil {
		t.Fatalf("RecomputeOfficial failed: %v", err)
	}

	got := fetchOfficial(t, db, official.ID)
	if got.AverageRating != 3 || got.TotalReviews != 2 {
		t.Errorf("official aggregate = (%d, %d), want (3, 2)", got.AverageRating, got.TotalReviews)
	}
}

func TestRecomputeOfficialZeroReviews(t *testing.T) {
	db := newTestDB(t)
	aggregator := NewRatingAggregator(db)

	official := createOfficial(t, db, "Dana Whitfield")
	// Pre-dirty the cache to prove recompute resets it
	db.Model(&models.Official{}).Where("id = ?", official.ID).
		Updates(map[string]interface{}{"average_rating": 4, "total_reviews": 9})

	if err := aggregator.RecomputeOfficial(official.ID); err != nil {
		t.Fatalf("RecomputeOfficial failed: %v", err)
	}

	got := fetchOfficial(t, db, official.ID)
	if got.AverageRating != 0 || got.TotalReviews != 0 {
		t.Errorf("official with no reviews has aggregate (%d, %d), want (0, 0)", got.AverageRating, got.TotalReviews)
	}
}

func TestRecomputeOfficialIdempotent(t *testing.T) {
	db := newTestDB(t)
	aggregator := NewRatingAggregator(db)
	ledger := NewReviewLedger(db, aggregator)

	official := createOfficial(t, db, "Sam Okafor")
	event := createEvent(t, db, "Holiday Invitational")
	assignOfficial(t, db, official.ID, event.ID)

	user := createUser(t, db)
	if _, err := ledger.Submit(user.ID, uniformInput(official.ID, event.ID, 4)); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	if err := aggregator.RecomputeOfficial(official.ID); err != nil {
		t.Fatalf("first recompute failed: %v", err)
	}
	first := fetchOfficial(t, db, official.ID)

	if err := aggregator.RecomputeOfficial(official.ID); err != nil {
		t.Fatalf("second recompute failed: %v", err)
	}
	second := fetchOfficial(t, db, official.ID)

	if first.AverageRating != second.AverageRating || first.TotalReviews != second.TotalReviews {
		t.Errorf("recompute not idempotent: (%d, %d) then (%d, %d)",
			first.AverageRating, first.TotalReviews, second.AverageRating, second.TotalReviews)
	}
}

func TestRecomputeOfficialMissingOfficial(t *testing.T) {
	db := newTestDB(t)
	aggregator := NewRatingAggregator(db)

	// Updating a nonexistent official affects zero rows and is not an error.
	if err := aggregator.RecomputeOfficial(9999); err != nil {
		t.Errorf("RecomputeOfficial for missing official returned error: %v", err)
	}
}

func TestRecomputeOfficialExcludesOrphanedReviews(t *testing.T) {
	db := newTestDB(t)
	aggregator := NewRatingAggregator(db)
	ledger := NewReviewLedger(db, aggregator)

	official := createOfficial(t, db, "Lee Tran")
	event := createEvent(t, db, "Sectional Qualifier")
	assignOfficial(t, db, official.ID, event.ID)

	user := createUser(t, db)
	if _, err := ledger.Submit(user.ID, uniformInput(official.ID, event.ID, 5)); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	// Soft-delete the event without cascading; the review no longer joins.
	if err := db.Delete(&models.Event{}, event.ID).Error; err != nil {
		t.Fatalf("failed to delete event: %v", err)
	}

	if err := aggregator.RecomputeOfficial(official.ID); err != nil {
		t.Fatalf("RecomputeOfficial failed: %v", err)
	}

	got := fetchOfficial(t, db, official.ID)
	if got.AverageRating != 0 || got.TotalReviews != 0 {
		t.Errorf("orphaned review still counted: aggregate (%d, %d), want (0, 0)", got.AverageRating, got.TotalReviews)
	}
}

func TestRecomputeAllCoversEveryOfficial(t *testing.T) {
	db := newTestDB(t)
	aggregator := NewRatingAggregator(db)
	ledger := NewReviewLedger(db, aggregator)

	rated := createOfficial(t, db, "Pat Doyle")
	unrated := createOfficial(t, db, "Chris Nam")
	event := createEvent(t, db, "State Tournament")
	assignOfficial(t, db, rated.ID, event.ID)

	user := createUser(t, db)
	if _, err := ledger.Submit(user.ID, uniformInput(rated.ID, event.ID, 4)); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	// Dirty both caches, then refresh everything.
	db.Model(&models.Official{}).
		Updates(map[string]interface{}{"average_rating": 1, "total_reviews": 7})

	if err := aggregator.RecomputeAll(); err != nil {
		t.Fatalf("RecomputeAll failed: %v", err)
	}

	gotRated := fetchOfficial(t, db, rated.ID)
	if gotRated.AverageRating != 4 || gotRated.TotalReviews != 1 {
		t.Errorf("rated official aggregate = (%d, %d), want (4, 1)", gotRated.AverageRating, gotRated.TotalReviews)
	}

	gotUnrated := fetchOfficial(t, db, unrated.ID)
	if gotUnrated.AverageRating != 0 || gotUnrated.TotalReviews != 0 {
		t.Errorf("unrated official aggregate = (%d, %d), want (0, 0)", gotUnrated.AverageRating, gotUnrated.TotalReviews)
	}
}

func TestCategoryAveragesReadSide(t *testing.T) {
	db := newTestDB(t)
	aggregator := NewRatingAggregator(db)
	ledger := NewReviewLedger(db, aggregator)

	official := createOfficial(t, db, "Morgan Ellis")
	event := createEvent(t, db, "Conference Championships")
	assignOfficial(t, db, official.ID, event.ID)

	user := createUser(t, db)
	input := uniformInput(official.ID, event.ID, 4)
	input.Stalling = 2
	if _, err := ledger.Submit(user.ID, input); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	averages, count, err := aggregator.CategoryAverages(official.ID)
	if err != nil {
		t.Fatalf("CategoryAverages failed: %v", err)
	}
	if count != 1 {
		t.Errorf("count = %d, want 1", count)
	}
	if averages.Stalling != 2 || averages.Mechanics != 4 {
		t.Errorf("averages = %+v, want stalling 2 and mechanics 4", averages)
	}
	// round((4+4+4+2+4+4)/6) = round(3.67) = 4
	if averages.Overall != 4 {
		t.Errorf("overall = %d, want 4", averages.Overall)
	}
}
