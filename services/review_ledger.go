package services

import (
	"errors"
	"log"

	"gorm.io/gorm"

	"officials-rating-server/models"
)

// ReviewLedger owns creation, uniqueness enforcement, and deletion of review
// records. Every write that changes an official's review set triggers the
// rating aggregator so the cached ratings never reference removed reviews.
type ReviewLedger struct {
	db         *gorm.DB
	aggregator *RatingAggregator
}

// NewReviewLedger creates a new review ledger
func NewReviewLedger(db *gorm.DB, aggregator *RatingAggregator) *ReviewLedger {
	return &ReviewLedger{db: db, aggregator: aggregator}
}

// Submit validates and persists a new review for the given reviewer.
//
// Preconditions, in order: no review may already exist for this
// (reviewer, official, event), and the official must have an assignment record
// for the event. Violations are reported before anything is written. The
// duplicate pre-check is racy on its own; the composite unique index on
// reviews is the real guarantee, and a duplicate-key error from the insert is
// translated to ErrDuplicateReview as well.
func (l *ReviewLedger) Submit(userID uint, input models.ReviewCreate) (*models.Review, error) {
	var existing models.Review
	err := l.db.
		Where("user_id = ? AND official_id = ? AND event_id = ?", userID, input.OfficialID, input.EventID).
		First(&existing).Error
	if err == nil {
		return nil, ErrDuplicateReview
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	var assigned int64
	if err := l.db.Model(&models.EventOfficial{}).
		Where("official_id = ? AND event_id = ?", input.OfficialID, input.EventID).
		Count(&assigned).Error; err != nil {
		return nil, err
	}
	if assigned == 0 {
		return nil, ErrOfficialNotAssigned
	}

	review := models.Review{
		OfficialID:      input.OfficialID,
		UserID:          userID,
		EventID:         input.EventID,
		Mechanics:       input.Mechanics,
		Professionalism: input.Professionalism,
		Positioning:     input.Positioning,
		Stalling:        input.Stalling,
		Consistency:     input.Consistency,
		Appearance:      input.Appearance,
		Comment:         input.Comment,
		IsReported:      false,
		IsAnonymous:     input.IsAnonymous,
	}

	if err := l.db.Create(&review).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateReview
		}
		return nil, err
	}

	// Ratings are self-healing: a failed recompute here leaves the official
	// stale until the next recompute, so the submission itself still succeeds.
	if err := l.aggregator.RecomputeOfficial(review.OfficialID); err != nil {
		log.Printf("⚠️ Review %d saved but rating recompute failed for official %d: %v", review.ID, review.OfficialID, err)
	}

	var created models.Review
	if err := l.db.Preload("Reviewer").Preload("Event").First(&created, review.ID).Error; err != nil {
		return &review, nil
	}
	return &created, nil
}

// Delete removes a review and recomputes the affected official's rating
func (l *ReviewLedger) Delete(reviewID uint) error {
	var review models.Review
	if err := l.db.First(&review, reviewID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrReviewNotFound
		}
		return err
	}

	if err := l.db.Delete(&review).Error; err != nil {
		return err
	}

	if err := l.aggregator.RecomputeOfficial(review.OfficialID); err != nil {
		log.Printf("⚠️ Review %d deleted but rating recompute failed for official %d: %v", reviewID, review.OfficialID, err)
	}
	return nil
}

// Report flags a review for moderation. Reported reviews still count toward
// ratings; removal is a manual follow-up, so no recompute happens here.
func (l *ReviewLedger) Report(reviewID uint) error {
	result := l.db.Model(&models.Review{}).
		Where("id = ?", reviewID).
		Update("is_reported", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrReviewNotFound
	}
	return nil
}

// Unassign removes an official's assignment from an event. Reviews for the
// pair lose their precondition, so they are deleted in the same transaction
// and the official's rating is recomputed.
func (l *ReviewLedger) Unassign(eventID, officialID uint) error {
	err := l.db.Transaction(func(tx *gorm.DB) error {
		result := tx.
			Where("event_id = ? AND official_id = ?", eventID, officialID).
			Delete(&models.EventOfficial{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrAssignmentNotFound
		}
		return tx.
			Where("event_id = ? AND official_id = ?", eventID, officialID).
			Delete(&models.Review{}).Error
	})
	if err != nil {
		return err
	}

	if err := l.aggregator.RecomputeOfficial(officialID); err != nil {
		log.Printf("⚠️ Official %d unassigned from event %d but rating recompute failed: %v", officialID, eventID, err)
	}
	return nil
}

// PurgeUser deletes a user together with their reviews and refresh tokens,
// then refreshes every official's rating, since the removed reviews may have
// touched many officials. The deletes run as one ordered transaction.
func (l *ReviewLedger) PurgeUser(userID uint) error {
	err := l.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&models.Review{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.RefreshToken{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.User{}, userID).Error
	})
	if err != nil {
		return err
	}

	if err := l.aggregator.RecomputeAll(); err != nil {
		log.Printf("⚠️ User %d deleted but global rating refresh failed: %v", userID, err)
	}
	return nil
}

// PurgeEvent deletes an event together with its official assignments, team
// entries, and reviews, then refreshes all ratings.
func (l *ReviewLedger) PurgeEvent(eventID uint) error {
	err := l.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("event_id = ?", eventID).Delete(&models.EventOfficial{}).Error; err != nil {
			return err
		}
		if err := tx.Where("event_id = ?", eventID).Delete(&models.EventTeam{}).Error; err != nil {
			return err
		}
		if err := tx.Where("event_id = ?", eventID).Delete(&models.Review{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Event{}, eventID).Error
	})
	if err != nil {
		return err
	}

	if err := l.aggregator.RecomputeAll(); err != nil {
		log.Printf("⚠️ Event %d deleted but global rating refresh failed: %v", eventID, err)
	}
	return nil
}

// PurgeOfficial deletes an official together with their event assignments and
// reviews, then refreshes all ratings.
func (l *ReviewLedger) PurgeOfficial(officialID uint) error {
	var official models.Official
	if err := l.db.First(&official, officialID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrOfficialNotFound
		}
		return err
	}

	err := l.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("official_id = ?", officialID).Delete(&models.EventOfficial{}).Error; err != nil {
			return err
		}
		if err := tx.Where("official_id = ?", officialID).Delete(&models.Review{}).Error; err != nil {
			return err
		}
		return tx.Delete(&official).Error
	})
	if err != nil {
		return err
	}

	if err := l.aggregator.RecomputeAll(); err != nil {
		log.Printf("⚠️ Official %d deleted but global rating refresh failed: %v", officialID, err)
	}
	return nil
}
