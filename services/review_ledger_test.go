package services

import (
	"errors"
	"testing"

	"gorm.io/gorm"

	"officials-rating-server/models"
)

func newLedger(t *testing.T) (*gorm.DB, *ReviewLedger, *RatingAggregator) {
	t.Helper()
	db := newTestDB(t)
	aggregator := NewRatingAggregator(db)
	return db, NewReviewLedger(db, aggregator), aggregator
}

func countReviews(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var n int64
	if err := db.Model(&models.Review{}).Count(&n).Error; err != nil {
		t.Fatalf("failed to count reviews: %v", err)
	}
	return n
}

func TestSubmitCreatesReviewAndRecomputes(t *testing.T) {
	db, ledger, _ := newLedger(t)

	official := createOfficial(t, db, "Ray Vasquez")
	event := createEvent(t, db, "District Duals")
	assignOfficial(t, db, official.ID, event.ID)
	user := createUser(t, db)

	input := uniformInput(official.ID, event.ID, 5)
	input.Comment = "Sharp calls all night"

	review, err := ledger.Submit(user.ID, input)
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	if review.IsReported {
		t.Error("new review must not start reported")
	}
	if review.CreatedAt.IsZero() {
		t.Error("expected server-assigned creation timestamp")
	}
	if review.Reviewer.ID != user.ID {
		t.Errorf("review not joined with reviewer: got user %d, want %d", review.Reviewer.ID, user.ID)
	}
	if review.Event.ID != event.ID {
		t.Errorf("review not joined with event: got event %d, want %d", review.Event.ID, event.ID)
	}

	got := fetchOfficial(t, db, official.ID)
	if got.AverageRating != 5 || got.TotalReviews != 1 {
		t.Errorf("official aggregate after submit = (%d, %d), want (5, 1)", got.AverageRating, got.TotalReviews)
	}
}

func TestSubmitDuplicateRejected(t *testing.T) {
	db, ledger, _ := newLedger(t)

	official := createOfficial(t, db, "Sam Okafor")
	event := createEvent(t, db, "Holiday Invitational")
	assignOfficial(t, db, official.ID, event.ID)
	user := createUser(t, db)

	if _, err := ledger.Submit(user.ID, uniformInput(official.ID, event.ID, 4)); err != nil {
		t.Fatalf("first Submit failed: %v", err)
	}

	_, err := ledger.Submit(user.ID, uniformInput(official.ID, event.ID, 2))
	if !errors.Is(err, ErrDuplicateReview) {
		t.Fatalf("second Submit error = %v, want ErrDuplicateReview", err)
	}

	if n := countReviews(t, db); n != 1 {
		t.Errorf("review count after rejected duplicate = %d, want 1", n)
	}
	got := fetchOfficial(t, db, official.ID)
	if got.AverageRating != 4 || got.TotalReviews != 1 {
		t.Errorf("aggregate changed by rejected duplicate: (%d, %d), want (4, 1)", got.AverageRating, got.TotalReviews)
	}
}

func TestSubmitSameOfficialDifferentEvent(t *testing.T) {
	db, ledger, _ := newLedger(t)

	official := createOfficial(t, db, "Dana Whitfield")
	first := createEvent(t, db, "Sectional Qualifier")
	second := createEvent(t, db, "State Tournament")
	assignOfficial(t, db, official.ID, first.ID)
	assignOfficial(t, db, official.ID, second.ID)
	user := createUser(t, db)

	if _, err := ledger.Submit(user.ID, uniformInput(official.ID, first.ID, 3)); err != nil {
		t.Fatalf("Submit for first event failed: %v", err)
	}
	if _, err := ledger.Submit(user.ID, uniformInput(official.ID, second.ID, 5)); err != nil {
		t.Fatalf("Submit for second event failed: %v", err)
	}

	got := fetchOfficial(t, db, official.ID)
	if got.TotalReviews != 2 {
		t.Errorf("total_reviews = %d, want 2", got.TotalReviews)
	}
}

func TestSubmitUnassignedOfficialRejected(t *testing.T) {
	db, ledger, _ := newLedger(t)

	official := createOfficial(t, db, "Lee Tran")
	event := createEvent(t, db, "District Duals")
	// No assignment record created.
	user := createUser(t, db)

	_, err := ledger.Submit(user.ID, uniformInput(official.ID, event.ID, 5))
	if !errors.Is(err, ErrOfficialNotAssigned) {
		t.Fatalf("Submit error = %v, want ErrOfficialNotAssigned", err)
	}
	if n := countReviews(t, db); n != 0 {
		t.Errorf("review count = %d, want 0 (nothing written before precondition failure)", n)
	}
}

func TestUniqueIndexBacksDuplicateCheck(t *testing.T) {
	db, _, _ := newLedger(t)

	official := createOfficial(t, db, "Pat Doyle")
	event := createEvent(t, db, "Conference Championships")
	user := createUser(t, db)

	make3 := func() *models.Review {
		return &models.Review{
			OfficialID: official.ID, UserID: user.ID, EventID: event.ID,
			Mechanics: 3, Professionalism: 3, Positioning: 3,
			Stalling: 3, Consistency: 3, Appearance: 3,
		}
	}

	if err := db.Create(make3()).Error; err != nil {
		t.Fatalf("first insert failed: %v", err)
	}
	// Bypasses the ledger pre-check entirely; the index must still reject it.
	err := db.Create(make3()).Error
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Fatalf("second insert error = %v, want gorm.ErrDuplicatedKey", err)
	}
}

func TestDeleteMissingReview(t *testing.T) {
	_, ledger, _ := newLedger(t)

	if err := ledger.Delete(12345); !errors.Is(err, ErrReviewNotFound) {
		t.Errorf("Delete error = %v, want ErrReviewNotFound", err)
	}
}

func TestDeleteConvergesToRemainingReviews(t *testing.T) {
	db, ledger, _ := newLedger(t)

	official := createOfficial(t, db, "Morgan Ellis")
	event := createEvent(t, db, "Holiday Invitational")
	assignOfficial(t, db, official.ID, event.ID)

	keeper := createUser(t, db)
	kept, err := ledger.Submit(keeper.ID, uniformInput(official.ID, event.ID, 5))
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	other := createUser(t, db)
	doomed, err := ledger.Submit(other.ID, uniformInput(official.ID, event.ID, 1))
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	if err := ledger.Delete(doomed.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	want := ComputeCategoryAverages([]models.Review{*kept})
	got := fetchOfficial(t, db, official.ID)
	if got.AverageRating != want.Overall || got.TotalReviews != 1 {
		t.Errorf("aggregate after delete = (%d, %d), want (%d, 1)", got.AverageRating, got.TotalReviews, want.Overall)
	}
}

func TestReportFlagsWithoutAggregation(t *testing.T) {
	db, ledger, _ := newLedger(t)

	official := createOfficial(t, db, "Chris Nam")
	event := createEvent(t, db, "Sectional Qualifier")
	assignOfficial(t, db, official.ID, event.ID)
	user := createUser(t, db)

	review, err := ledger.Submit(user.ID, uniformInput(official.ID, event.ID, 2))
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	if err := ledger.Report(review.ID); err != nil {
		t.Fatalf("Report failed: %v", err)
	}

	var got models.Review
	if err := db.First(&got, review.ID).Error; err != nil {
		t.Fatalf("failed to reload review: %v", err)
	}
	if !got.IsReported {
		t.Error("review not flagged as reported")
	}

	// Reported reviews still count toward ratings.
	official2 := fetchOfficial(t, db, official.ID)
	if official2.TotalReviews != 1 || official2.AverageRating != 2 {
		t.Errorf("aggregate changed by report: (%d, %d), want (2, 1)", official2.AverageRating, official2.TotalReviews)
	}

	if err := ledger.Report(99999); !errors.Is(err, ErrReviewNotFound) {
		t.Errorf("Report on missing review = %v, want ErrReviewNotFound", err)
	}
}

func TestUnassignRemovesAssignmentAndReviews(t *testing.T) {
	db, ledger, _ := newLedger(t)

	official := createOfficial(t, db, "Pat Doyle")
	kept := createEvent(t, db, "Sectional Qualifier")
	dropped := createEvent(t, db, "District Duals")
	assignOfficial(t, db, official.ID, kept.ID)
	assignOfficial(t, db, official.ID, dropped.ID)
	user := createUser(t, db)

	if _, err := ledger.Submit(user.ID, uniformInput(official.ID, kept.ID, 5)); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if _, err := ledger.Submit(user.ID, uniformInput(official.ID, dropped.ID, 1)); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	if err := ledger.Unassign(dropped.ID, official.ID); err != nil {
		t.Fatalf("Unassign failed: %v", err)
	}

	if n := countReviews(t, db); n != 1 {
		t.Errorf("review count after unassign = %d, want 1", n)
	}
	got := fetchOfficial(t, db, official.ID)
	if got.AverageRating != 5 || got.TotalReviews != 1 {
		t.Errorf("aggregate after unassign = (%d, %d), want (5, 1)", got.AverageRating, got.TotalReviews)
	}

	// Resubmission for the pair fails the assignment precondition now.
	if _, err := ledger.Submit(user.ID, uniformInput(official.ID, dropped.ID, 3)); !errors.Is(err, ErrOfficialNotAssigned) {
		t.Errorf("Submit after unassign = %v, want ErrOfficialNotAssigned", err)
	}

	if err := ledger.Unassign(dropped.ID, official.ID); !errors.Is(err, ErrAssignmentNotFound) {
		t.Errorf("second Unassign = %v, want ErrAssignmentNotFound", err)
	}
}

func TestPurgeUserRemovesReviewsAndRefreshes(t *testing.T) {
	db, ledger, _ := newLedger(t)

	official := createOfficial(t, db, "Ray Vasquez")
	event := createEvent(t, db, "District Duals")
	assignOfficial(t, db, official.ID, event.ID)

	stays := createUser(t, db)
	if _, err := ledger.Submit(stays.ID, uniformInput(official.ID, event.ID, 5)); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	leaves := createUser(t, db)
	if _, err := ledger.Submit(leaves.ID, uniformInput(official.ID, event.ID, 1)); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	if err := ledger.PurgeUser(leaves.ID); err != nil {
		t.Fatalf("PurgeUser failed: %v", err)
	}

	if n := countReviews(t, db); n != 1 {
		t.Errorf("review count after purge = %d, want 1", n)
	}
	got := fetchOfficial(t, db, official.ID)
	if got.AverageRating != 5 || got.TotalReviews != 1 {
		t.Errorf("aggregate after purge = (%d, %d), want (5, 1)", got.AverageRating, got.TotalReviews)
	}
}

func TestPurgeEventRemovesDependents(t *testing.T) {
	db, ledger, _ := newLedger(t)

	official := createOfficial(t, db, "Sam Okafor")
	event := createEvent(t, db, "Holiday Invitational")
	assignOfficial(t, db, official.ID, event.ID)
	user := createUser(t, db)
	if _, err := ledger.Submit(user.ID, uniformInput(official.ID, event.ID, 4)); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	if err := ledger.PurgeEvent(event.ID); err != nil {
		t.Fatalf("PurgeEvent failed: %v", err)
	}

	if n := countReviews(t, db); n != 0 {
		t.Errorf("review count after event purge = %d, want 0", n)
	}
	var assignments int64
	db.Model(&models.EventOfficial{}).Where("event_id = ?", event.ID).Count(&assignments)
	if assignments != 0 {
		t.Errorf("assignment count after event purge = %d, want 0", assignments)
	}
	got := fetchOfficial(t, db, official.ID)
	if got.AverageRating != 0 || got.TotalReviews != 0 {
		t.Errorf("aggregate after event purge = (%d, %d), want (0, 0)", got.AverageRating, got.TotalReviews)
	}
}

func TestPurgeOfficialRemovesDependents(t *testing.T) {
	db, ledger, _ := newLedger(t)

	official := createOfficial(t, db, "Dana Whitfield")
	event := createEvent(t, db, "State Tournament")
	assignOfficial(t, db, official.ID, event.ID)
	user := createUser(t, db)
	if _, err := ledger.Submit(user.ID, uniformInput(official.ID, event.ID, 3)); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	if err := ledger.PurgeOfficial(official.ID); err != nil {
		t.Fatalf("PurgeOfficial failed: %v", err)
	}

	if n := countReviews(t, db); n != 0 {
		t.Errorf("review count after official purge = %d, want 0", n)
	}

	if err := ledger.PurgeOfficial(official.ID); !errors.Is(err, ErrOfficialNotFound) {
		t.Errorf("PurgeOfficial on missing official = %v, want ErrOfficialNotFound", err)
	}
}
