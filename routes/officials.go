package routes

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"officials-rating-server/database"
	"officials-rating-server/middleware"
	"officials-rating-server/models"
	"officials-rating-server/services"
)

// RegisterOfficialRoutes registers the public, read-only official routes
func RegisterOfficialRoutes(router *gin.RouterGroup, aggregator *services.RatingAggregator) {
	officialRoutes := router.Group("/officials")
	{
		officialRoutes.GET("", listOfficials)
		officialRoutes.GET("/:officialId", getOfficial)
		officialRoutes.GET("/:officialId/reviews", getOfficialReviews)
		officialRoutes.GET("/:officialId/summary", getOfficialSummary(aggregator))
	}
}

// listOfficials retrieves officials with optional name/association filtering
func listOfficials(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	offset := (page - 1) * limit

	query := database.DB.Model(&models.Official{})
	if q := c.Query("q"); q != "" {
		query = query.Where("name ILIKE ?", "%"+q+"%")
	}
	if association := c.Query("association"); association != "" {
		query = query.Where("association = ?", association)
	}

	var total int64
	query.Count(&total)

	var officials []models.Official
	if err := query.
		Order("average_rating DESC, total_reviews DESC, name ASC").
		Offset(offset).
		Limit(limit).
		Find(&officials).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch officials"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"officials": officials,
		"pagination": gin.H{
			"page":  page,
			"limit": limit,
			"total": total,
			"pages": (total + int64(limit) - 1) / int64(limit),
		},
	})
}

// getOfficial retrieves a single official by ID
func getOfficial(c *gin.Context) {
	officialID, err := strconv.ParseUint(c.Param("officialId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid official ID"})
		return
	}

	var official models.Official
	if err := database.DB.First(&official, officialID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Official not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch official"})
		}
		return
	}

	c.JSON(http.StatusOK, official)
}

// getOfficialReviews retrieves reviews for an official. Reviewer identity is
// withheld for anonymous reviews.
func getOfficialReviews(c *gin.Context) {
	officialID, err := strconv.ParseUint(c.Param("officialId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid official ID"})
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 50 {
		limit = 10
	}
	offset := (page - 1) * limit

	query := database.DB.Where("official_id = ?", officialID)

	var total int64
	query.Model(&models.Review{}).Count(&total)

	var reviews []models.Review
	if err := query.
		Preload("Reviewer").
		Preload("Event").
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&reviews).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch reviews"})
		return
	}

	type reviewEntry struct {
		models.Review
		ReviewerName string `json:"reviewer_name"`
	}

	entries := make([]reviewEntry, 0, len(reviews))
	for _, review := range reviews {
		name := review.Reviewer.FullName
		if review.IsAnonymous {
			name = "Anonymous"
		}
		review.Reviewer = models.User{}
		entries = append(entries, reviewEntry{Review: review, ReviewerName: name})
	}

	c.JSON(http.StatusOK, gin.H{
		"reviews": entries,
		"pagination": gin.H{
			"page":  page,
			"limit": limit,
			"total": total,
			"pages": (total + int64(limit) - 1) / int64(limit),
		},
	})
}

// getOfficialSummary returns the official's per-category averages computed
// fresh from current reviews
func getOfficialSummary(aggregator *services.RatingAggregator) gin.HandlerFunc {
	return func(c *gin.Context) {
		officialID, err := strconv.ParseUint(c.Param("officialId"), 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid official ID"})
			return
		}

		var official models.Official
		if err := database.DB.First(&official, officialID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				c.JSON(http.StatusNotFound, gin.H{"error": "Official not found"})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch official"})
			}
			return
		}

		averages, count, err := aggregator.CategoryAverages(uint(officialID))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute rating summary"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"official_id":   official.ID,
			"name":          official.Name,
			"averages":      averages,
			"total_reviews": count,
		})
	}
}

// CreateOfficial creates a new official (admin only)
func CreateOfficial(c *gin.Context) {
	var req models.OfficialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid official data", "details": err.Error()})
		return
	}

	official := models.Official{
		Name:            middleware.SanitizeInput(req.Name),
		Location:        middleware.SanitizeInput(req.Location),
		Association:     middleware.SanitizeInput(req.Association),
		YearsExperience: req.YearsExperience,
	}

	if err := database.DB.Create(&official).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create official"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Official created successfully",
		"official": official,
	})
}

// UpdateOfficial updates an official's identity fields. The cached rating
// fields are owned by the aggregator and are not writable here.
func UpdateOfficial(c *gin.Context) {
	officialID, err := strconv.ParseUint(c.Param("officialId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid official ID"})
		return
	}

	var official models.Official
	if err := database.DB.First(&official, officialID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Official not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch official"})
		}
		return
	}

	var req models.OfficialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid official data", "details": err.Error()})
		return
	}

	updates := map[string]interface{}{
		"name":             middleware.SanitizeInput(req.Name),
		"location":         middleware.SanitizeInput(req.Location),
		"association":      middleware.SanitizeInput(req.Association),
		"years_experience": req.YearsExperience,
	}

	if err := database.DB.Model(&official).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update official"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Official updated successfully",
		"official": official,
	})
}

// DeleteOfficial removes an official along with their assignments and
// reviews, then refreshes all cached ratings
func DeleteOfficial(ledger *services.ReviewLedger) gin.HandlerFunc {
	return func(c *gin.Context) {
		officialID, err := strconv.ParseUint(c.Param("officialId"), 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid official ID"})
			return
		}

		if err := ledger.PurgeOfficial(uint(officialID)); err != nil {
			reviewErrorResponse(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Official deleted successfully"})
	}
}
