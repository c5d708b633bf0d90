package services

import (
	"log"
	"math"
	"time"

	"gorm.io/gorm"

	"officials-rating-server/models"
)

// RatingAggregator recomputes an official's denormalized rating fields from
// their current review set. Every write is a full overwrite derived from a
// fresh read, never an applied delta, so repeated or concurrent recomputes
// converge on the same values.
type RatingAggregator struct {
	db *gorm.DB
}

// NewRatingAggregator creates a new rating aggregator
func NewRatingAggregator(db *gorm.DB) *RatingAggregator {
	return &RatingAggregator{db: db}
}

// RecomputeOfficial recalculates and persists average_rating and total_reviews
// for one official. An official with no reviews is reset to zeroes. A missing
// official updates zero rows and is not an error at this layer.
func (a *RatingAggregator) RecomputeOfficial(officialID uint) error {
	reviews, err := a.validReviews(officialID)
	if err != nil {
		return err
	}

	averages := ComputeCategoryAverages(reviews)

	updates := map[string]interface{}{
		"average_rating": averages.Overall,
		"total_reviews":  len(reviews),
		"updated_at":     time.Now(),
	}
	return a.db.Model(&models.Official{}).Where("id = ?", officialID).Updates(updates).Error
}

// RecomputeAll refreshes the cached ratings of every official. Per-official
// failures are logged and skipped so one bad record cannot block the rest of
// the batch. Used after bulk-affecting deletes and as an admin maintenance
// action for fixing drift.
func (a *RatingAggregator) RecomputeAll() error {
	var ids []uint
	if err := a.db.Model(&models.Official{}).Pluck("id", &ids).Error; err != nil {
		return err
	}

	for _, id := range ids {
		if err := a.RecomputeOfficial(id); err != nil {
			log.Printf("❌ Failed to recompute ratings for official %d: %v", id, err)
		}
	}

	log.Printf("✅ Rating refresh completed for %d officials", len(ids))
	return nil
}

// CategoryAverages returns the six rounded per-category means, the overall
// score, and the review count for one official, computed fresh from current
// reviews.
func (a *RatingAggregator) CategoryAverages(officialID uint) (models.CategoryAverages, int, error) {
	reviews, err := a.validReviews(officialID)
	if err != nil {
		return models.CategoryAverages{}, 0, err
	}
	return ComputeCategoryAverages(reviews), len(reviews), nil
}

// validReviews loads the official's reviews through inner joins to live user
// and event rows. A review whose reviewer or event has been deleted without
// cascading simply drops out of the join.
func (a *RatingAggregator) validReviews(officialID uint) ([]models.Review, error) {
	var reviews []models.Review
	err := a.db.
		Joins("JOIN users ON users.id = reviews.user_id AND users.deleted_at IS NULL").
		Joins("JOIN events ON events.id = reviews.event_id AND events.deleted_at IS NULL").
		Where("reviews.official_id = ?", officialID).
		Find(&reviews).Error
	return reviews, err
}

// ComputeCategoryAverages reduces a review set to rounded per-category means
// plus the overall score. With no reviews everything is zero.
//
// The overall score is the rounded mean of the six rounded category averages,
// not of the raw scores. Keep it that way: displayed ratings were built on
// this two-stage rounding and changing it would shift existing values.
func ComputeCategoryAverages(reviews []models.Review) models.CategoryAverages {
	if len(reviews) == 0 {
		return models.CategoryAverages{}
	}

	var mechanics, professionalism, positioning, stalling, consistency, appearance int
	for _, r := range reviews {
		mechanics += r.Mechanics
		professionalism += r.Professionalism
		positioning += r.Positioning
		stalling += r.Stalling
		consistency += r.Consistency
		appearance += r.Appearance
	}

	n := float64(len(reviews))
	averages := models.CategoryAverages{
		Mechanics:       roundHalfUp(float64(mechanics) / n),
		Professionalism: roundHalfUp(float64(professionalism) / n),
		Positioning:     roundHalfUp(float64(positioning) / n),
		Stalling:        roundHalfUp(float64(stalling) / n),
		Consistency:     roundHalfUp(float64(consistency) / n),
		Appearance:      roundHalfUp(float64(appearance) / n),
	}

	sum := averages.Mechanics + averages.Professionalism + averages.Positioning +
		averages.Stalling + averages.Consistency + averages.Appearance
	averages.Overall = roundHalfUp(float64(sum) / 6)

	return averages
}

func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}
