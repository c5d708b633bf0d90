package routes

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"officials-rating-server/database"
	"officials-rating-server/middleware"
	"officials-rating-server/models"
	"officials-rating-server/services"
	ws "officials-rating-server/websocket"
)

// RegisterReviewRoutes registers review submission and moderation routes.
// All of them require authentication; deletion additionally requires a
// supervisor or admin.
func RegisterReviewRoutes(router *gin.RouterGroup, ledger *services.ReviewLedger, hub *ws.Hub) {
	reviewRoutes := router.Group("/reviews")
	{
		reviewRoutes.POST("", submitReview(ledger, hub))
		reviewRoutes.GET("/mine", getMyReviews)
		reviewRoutes.POST("/:reviewId/report", reportReview(ledger))
		reviewRoutes.DELETE("/:reviewId",
			middleware.RequireRoles(models.RoleSupervisor, models.RoleAdmin),
			deleteReview(ledger))
	}
}

// reviewErrorResponse maps ledger errors onto HTTP responses with the
// specific precondition that failed.
func reviewErrorResponse(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrDuplicateReview):
		c.JSON(http.StatusConflict, gin.H{"error": "Duplicate review", "message": err.Error()})
	case errors.Is(err, services.ErrOfficialNotAssigned):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Official not assigned", "message": err.Error()})
	case errors.Is(err, services.ErrReviewNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Review not found", "message": err.Error()})
	case errors.Is(err, services.ErrOfficialNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Official not found", "message": err.Error()})
	case errors.Is(err, services.ErrAssignmentNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Assignment not found", "message": err.Error()})
	default:
		log.Printf("❌ Review operation failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error", "message": "Operation failed"})
	}
}

// submitReview creates a new review for an official at an event
func submitReview(ledger *services.ReviewLedger, hub *ws.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.ReviewCreate
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid review data", "details": err.Error()})
			return
		}

		input.Comment = middleware.SanitizeInput(input.Comment)
		userID := c.GetUint("user_id")

		review, err := ledger.Submit(userID, input)
		if err != nil {
			reviewErrorResponse(c, err)
			return
		}

		if hub != nil {
			reviewerName := review.Reviewer.FullName
			if review.IsAnonymous {
				reviewerName = "Anonymous"
			}
			hub.Broadcast <- &ws.Message{
				Type: "review_submitted",
				Data: map[string]interface{}{
					"review_id":   review.ID,
					"official_id": review.OfficialID,
					"event_id":    review.EventID,
					"event_name":  review.Event.Name,
					"reviewer":    reviewerName,
					"created_at":  review.CreatedAt,
				},
				Timestamp: time.Now(),
			}
		}

		c.JSON(http.StatusCreated, gin.H{
			"message": "Review submitted successfully",
			"review":  review,
		})
	}
}

// getMyReviews retrieves all reviews submitted by the current user
func getMyReviews(c *gin.Context) {
	userID := c.GetUint("user_id")

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 50 {
		limit = 10
	}
	offset := (page - 1) * limit

	var total int64
	database.DB.Model(&models.Review{}).Where("user_id = ?", userID).Count(&total)

	var reviews []models.Review
	if err := database.DB.
		Where("user_id = ?", userID).
		Preload("Official").
		Preload("Event").
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&reviews).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch reviews"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"reviews": reviews,
		"pagination": gin.H{
			"page":  page,
			"limit": limit,
			"total": total,
			"pages": (total + int64(limit) - 1) / int64(limit),
		},
	})
}

// reportReview flags a review for moderation follow-up
func reportReview(ledger *services.ReviewLedger) gin.HandlerFunc {
	return func(c *gin.Context) {
		reviewID, err := strconv.ParseUint(c.Param("reviewId"), 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid review ID"})
			return
		}

		if err := ledger.Report(uint(reviewID)); err != nil {
			reviewErrorResponse(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Review reported successfully"})
	}
}

// deleteReview removes a review; the affected official's rating is recomputed
// by the ledger.
func deleteReview(ledger *services.ReviewLedger) gin.HandlerFunc {
	return func(c *gin.Context) {
		reviewID, err := strconv.ParseUint(c.Param("reviewId"), 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid review ID"})
			return
		}

		if err := ledger.Delete(uint(reviewID)); err != nil {
			reviewErrorResponse(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Review deleted successfully"})
	}
}
