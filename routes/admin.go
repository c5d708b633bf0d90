package routes

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"officials-rating-server/database"
	"officials-rating-server/models"
	"officials-rating-server/services"
	"officials-rating-server/utils"
)

// AdminAuthMiddleware authenticates admin users. Unlike AuthMiddleware it
// does not require approval: the bootstrap admin is created pre-approved, and
// a demoted admin should not lock themselves out of the approval queue.
func AdminAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader("Authorization")
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			c.Abort()
			return
		}

		if len(token) > 7 && token[:7] == "Bearer " {
			token = token[7:]
		}

		claims, err := utils.VerifyToken(token)
		if err != nil {
			log.Printf("❌ Token verification failed: %v", err)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			c.Abort()
			return
		}

		var user models.User
		if err := database.DB.First(&user, claims.UserID).Error; err != nil {
			log.Printf("❌ User not found: %v", err)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
			c.Abort()
			return
		}

		if user.Role != models.RoleAdmin {
			log.Printf("❌ User %d is not admin, role: %s", user.ID, user.Role)
			c.JSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
			c.Abort()
			return
		}

		if !user.IsActive {
			log.Printf("❌ Admin user %d is inactive", user.ID)
			c.JSON(http.StatusForbidden, gin.H{"error": "Account is inactive"})
			c.Abort()
			return
		}

		c.Set("user_id", user.ID)
		c.Set("user", user)
		c.Next()
	}
}

// RegisterAdminRoutes registers the admin management surface: user approval,
// catalog CRUD for officials/teams, and maintenance actions.
func RegisterAdminRoutes(router *gin.RouterGroup, ledger *services.ReviewLedger, aggregator *services.RatingAggregator) {
	router.Use(AdminAuthMiddleware())

	router.GET("/dashboard/stats", getDashboardStats)

	userRoutes := router.Group("/users")
	{
		userRoutes.GET("", getAllUsers)
		userRoutes.GET("/:userId", getUserByID)
		userRoutes.PATCH("/:userId/approve", approveUser)
		userRoutes.PATCH("/:userId/status", updateUserStatus)
		userRoutes.DELETE("/:userId", deleteUser(ledger))
	}

	officialRoutes := router.Group("/officials")
	{
		officialRoutes.POST("", CreateOfficial)
		officialRoutes.PUT("/:officialId", UpdateOfficial)
		officialRoutes.DELETE("/:officialId", DeleteOfficial(ledger))
		officialRoutes.POST("/:officialId/photo", UploadOfficialPhoto)
	}

	teamRoutes := router.Group("/teams")
	{
		teamRoutes.POST("", CreateTeam)
		teamRoutes.PUT("/:teamId", UpdateTeam)
		teamRoutes.DELETE("/:teamId", DeleteTeam)
	}

	reviewRoutes := router.Group("/reviews")
	{
		reviewRoutes.GET("/reported", getReportedReviews)
	}

	router.POST("/maintenance/recompute-ratings", recomputeRatings(aggregator))
}

// getDashboardStats returns aggregate counts for the admin dashboard
func getDashboardStats(c *gin.Context) {
	var stats struct {
		TotalUsers      int64 `json:"total_users"`
		PendingUsers    int64 `json:"pending_users"`
		TotalOfficials  int64 `json:"total_officials"`
		TotalEvents     int64 `json:"total_events"`
		TotalTeams      int64 `json:"total_teams"`
		TotalReviews    int64 `json:"total_reviews"`
		ReportedReviews int64 `json:"reported_reviews"`
	}

	database.DB.Model(&models.User{}).Count(&stats.TotalUsers)
	database.DB.Model(&models.User{}).Where("is_approved = ?", false).Count(&stats.PendingUsers)
	database.DB.Model(&models.Official{}).Count(&stats.TotalOfficials)
	database.DB.Model(&models.Event{}).Count(&stats.TotalEvents)
	database.DB.Model(&models.Team{}).Count(&stats.TotalTeams)
	database.DB.Model(&models.Review{}).Count(&stats.TotalReviews)
	database.DB.Model(&models.Review{}).Where("is_reported = ?", true).Count(&stats.ReportedReviews)

	c.JSON(http.StatusOK, gin.H{"stats": stats})
}

// getAllUsers retrieves users with optional status filtering. The approval
// queue is ?status=pending.
func getAllUsers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	offset := (page - 1) * limit

	query := database.DB.Model(&models.User{})
	switch c.Query("status") {
	case "pending":
		query = query.Where("is_approved = ?", false)
	case "approved":
		query = query.Where("is_approved = ?", true)
	case "inactive":
		query = query.Where("is_active = ?", false)
	}
	if role := c.Query("role"); role != "" {
		query = query.Where("role = ?", role)
	}

	var total int64
	query.Count(&total)

	var users []models.User
	if err := query.
		Preload("Team").
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"users": users,
		"pagination": gin.H{
			"page":  page,
			"limit": limit,
			"total": total,
			"pages": (total + int64(limit) - 1) / int64(limit),
		},
	})
}

// getUserByID retrieves a single user with their team and review history
func getUserByID(c *gin.Context) {
	userID, err := strconv.ParseUint(c.Param("userId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	var user models.User
	if err := database.DB.Preload("Team").First(&user, userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch user"})
		}
		return
	}

	var reviewCount int64
	database.DB.Model(&models.Review{}).Where("user_id = ?", userID).Count(&reviewCount)

	c.JSON(http.StatusOK, gin.H{
		"user":         user,
		"review_count": reviewCount,
	})
}

// approveUser marks a pending account as approved so it can sign in
func approveUser(c *gin.Context) {
	userID, err := strconv.ParseUint(c.Param("userId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	var user models.User
	if err := database.DB.First(&user, userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch user"})
		}
		return
	}

	if user.IsApproved {
		c.JSON(http.StatusOK, gin.H{"message": "User is already approved", "user": user})
		return
	}

	if err := database.DB.Model(&user).Update("is_approved", true).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to approve user"})
		return
	}

	log.Printf("✅ User %d approved by admin %d", user.ID, c.GetUint("user_id"))

	c.JSON(http.StatusOK, gin.H{
		"message": "User approved successfully",
		"user":    user,
	})
}

// updateUserStatus activates or deactivates an account. Deactivation revokes
// all refresh tokens so existing sessions die with it.
func updateUserStatus(c *gin.Context) {
	userID, err := strconv.ParseUint(c.Param("userId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	var req struct {
		IsActive *bool `json:"is_active" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	var user models.User
	if err := database.DB.First(&user, userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch user"})
		}
		return
	}

	if user.ID == c.GetUint("user_id") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "You cannot change your own status"})
		return
	}

	if err := database.DB.Model(&user).Update("is_active", *req.IsActive).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user status"})
		return
	}

	if !*req.IsActive {
		jwtService := services.NewJWTService(database.DB)
		if err := jwtService.RevokeAllUserTokens(user.ID); err != nil {
			log.Printf("⚠️ Failed to revoke tokens for deactivated user %d: %v", user.ID, err)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "User status updated successfully",
		"user":    user,
	})
}

// deleteUser removes a user and all their reviews, then refreshes every
// official's cached rating
func deleteUser(ledger *services.ReviewLedger) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := strconv.ParseUint(c.Param("userId"), 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
			return
		}

		if uint(userID) == c.GetUint("user_id") {
			c.JSON(http.StatusBadRequest, gin.H{"error": "You cannot delete your own account"})
			return
		}

		var user models.User
		if err := database.DB.First(&user, userID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch user"})
			}
			return
		}

		if err := ledger.PurgeUser(uint(userID)); err != nil {
			reviewErrorResponse(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
	}
}

// getReportedReviews lists reviews flagged for moderation, oldest first
func getReportedReviews(c *gin.Context) {
	var reviews []models.Review
	if err := database.DB.
		Where("is_reported = ?", true).
		Preload("Reviewer").
		Preload("Official").
		Preload("Event").
		Order("created_at ASC").
		Find(&reviews).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch reported reviews"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"reviews": reviews})
}

// recomputeRatings forces a full rating refresh across all officials
func recomputeRatings(aggregator *services.RatingAggregator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := aggregator.RecomputeAll(); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to recompute ratings"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Ratings recomputed successfully"})
	}
}
