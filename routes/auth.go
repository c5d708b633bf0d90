package routes

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"officials-rating-server/database"
	"officials-rating-server/middleware"
	"officials-rating-server/models"
	"officials-rating-server/services"
)

// RegisterAuthRoutes registers authentication routes
func RegisterAuthRoutes(router *gin.RouterGroup) {
	jwtService := services.NewJWTService(database.DB)

	// Sign up endpoint. New accounts are created unapproved and must wait for
	// an administrator before they can sign in.
	router.POST("/signup", func(c *gin.Context) {
		var req struct {
			FullName        string `json:"full_name" binding:"required,min=2,max=100"`
			Email           string `json:"email" binding:"required,email"`
			Password        string `json:"password" binding:"required,min=8,max=128"`
			ConfirmPassword string `json:"confirm_password" binding:"required"`
			Role            string `json:"role" binding:"omitempty,oneof=coach supervisor"`
			Region          string `json:"region" binding:"omitempty,max=100"`
			TeamID          *uint  `json:"team_id"`
		}

		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "Invalid request",
				"message": err.Error(),
			})
			return
		}

		req.FullName = middleware.SanitizeInput(req.FullName)
		req.Email = strings.ToLower(strings.TrimSpace(req.Email))

		isStrong, problems := middleware.ValidatePasswordStrength(req.Password)
		if !isStrong {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "Weak password",
				"message": "Password does not meet security requirements",
				"details": problems,
			})
			return
		}

		if req.Password != req.ConfirmPassword {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "Password mismatch",
				"message": "Passwords do not match",
			})
			return
		}

		var existingUser models.User
		if err := database.DB.Where("email = ?", req.Email).First(&existingUser).Error; err == nil {
			c.JSON(http.StatusConflict, gin.H{
				"error":   "User already exists",
				"message": "An account with this email already exists",
			})
			return
		}

		if req.TeamID != nil {
			var team models.Team
			if err := database.DB.First(&team, *req.TeamID).Error; err != nil {
				c.JSON(http.StatusBadRequest, gin.H{
					"error":   "Invalid team",
					"message": "The selected team does not exist",
				})
				return
			}
		}

		hashedPassword, err := jwtService.HashPassword(req.Password)
		if err != nil {
			log.Printf("❌ Password hashing failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   "Internal server error",
				"message": "Failed to process password",
			})
			return
		}

		userRole := models.RoleCoach
		if strings.ToLower(req.Role) == "supervisor" {
			userRole = models.RoleSupervisor
		}

		user := models.User{
			FullName:     req.FullName,
			Email:        req.Email,
			PasswordHash: hashedPassword,
			Role:         userRole,
			Region:       middleware.SanitizeInput(req.Region),
			TeamID:       req.TeamID,
			IsApproved:   false,
			IsActive:     true,
		}

		if err := database.DB.Create(&user).Error; err != nil {
			log.Printf("❌ User creation failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   "Internal server error",
				"message": "Failed to create account",
			})
			return
		}

		log.Printf("✅ User %d registered, pending approval", user.ID)

		c.JSON(http.StatusCreated, gin.H{
			"success": true,
			"message": "Account created. An administrator must approve it before you can sign in.",
			"data": gin.H{
				"user": gin.H{
					"id":          user.ID,
					"full_name":   user.FullName,
					"email":       user.Email,
					"role":        user.Role,
					"region":      user.Region,
					"is_approved": user.IsApproved,
					"created_at":  user.CreatedAt,
				},
			},
		})
	})

	// Sign in endpoint
	router.POST("/signin", func(c *gin.Context) {
		var req struct {
			Email    string `json:"email" binding:"required,email"`
			Password string `json:"password" binding:"required"`
		}

		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "Invalid request",
				"message": err.Error(),
			})
			return
		}

		req.Email = strings.ToLower(strings.TrimSpace(req.Email))

		var user models.User
		if err := database.DB.Where("email = ?", req.Email).First(&user).Error; err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "Invalid credentials",
				"message": "Email or password is incorrect",
			})
			return
		}

		if !user.IsActive {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "Account deactivated",
				"message": "Your account has been deactivated",
			})
			return
		}

		if !jwtService.CheckPasswordHash(req.Password, user.PasswordHash) {
			log.Printf("❌ Invalid password for user: %d", user.ID)
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "Invalid credentials",
				"message": "Email or password is incorrect",
			})
			return
		}

		if !user.IsApproved {
			c.JSON(http.StatusForbidden, gin.H{
				"error":   "Account pending approval",
				"message": "Your account has not been approved by an administrator yet",
			})
			return
		}

		if err := jwtService.RevokeAllUserTokens(user.ID); err != nil {
			log.Printf("⚠️ Failed to revoke existing tokens for user %d: %v", user.ID, err)
		}

		tokenPair, err := jwtService.GenerateTokenPair(&user,
			c.GetHeader("X-Device-ID"), c.GetHeader("User-Agent"), c.ClientIP())
		if err != nil {
			log.Printf("❌ Token generation failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   "Internal server error",
				"message": "Failed to generate authentication tokens",
			})
			return
		}

		log.Printf("✅ User signed in successfully: %d", user.ID)

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Sign in successful",
			"data": gin.H{
				"user": gin.H{
					"id":          user.ID,
					"full_name":   user.FullName,
					"email":       user.Email,
					"role":        user.Role,
					"region":      user.Region,
					"team_id":     user.TeamID,
					"is_approved": user.IsApproved,
					"created_at":  user.CreatedAt,
				},
				"tokens": tokenPair,
			},
		})
	})

	// Refresh token endpoint
	router.POST("/refresh", func(c *gin.Context) {
		var req struct {
			RefreshToken string `json:"refresh_token" binding:"required"`
		}

		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "Invalid request",
				"message": err.Error(),
			})
			return
		}

		tokenPair, err := jwtService.RefreshAccessToken(req.RefreshToken)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "Invalid refresh token",
				"message": "Refresh token is invalid or expired",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Token refreshed successfully",
			"data":    gin.H{"tokens": tokenPair},
		})
	})

	// Sign out endpoint
	router.POST("/signout", middleware.AuthMiddleware(), func(c *gin.Context) {
		userID := c.GetUint("user_id")

		var req struct {
			RefreshToken string `json:"refresh_token"`
		}

		if err := c.ShouldBindJSON(&req); err == nil && req.RefreshToken != "" {
			if err := jwtService.RevokeRefreshToken(req.RefreshToken); err != nil {
				log.Printf("⚠️ Failed to revoke refresh token: %v", err)
			}
		} else {
			if err := jwtService.RevokeAllUserTokens(userID); err != nil {
				log.Printf("⚠️ Failed to revoke all tokens for user %d: %v", userID, err)
			}
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Sign out successful",
		})
	})

	// Get current user endpoint
	router.GET("/me", middleware.AuthMiddleware(), func(c *gin.Context) {
		userID := c.GetUint("user_id")

		var user models.User
		if err := database.DB.Preload("Team").First(&user, userID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{
				"error":   "User not found",
				"message": "User not found",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data":    gin.H{"user": user},
		})
	})

	// Change password endpoint
	router.POST("/change-password", middleware.AuthMiddleware(), func(c *gin.Context) {
		userID := c.GetUint("user_id")

		var req struct {
			CurrentPassword string `json:"current_password" binding:"required"`
			NewPassword     string `json:"new_password" binding:"required,min=8,max=128"`
		}

		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "Invalid request",
				"message": err.Error(),
			})
			return
		}

		var user models.User
		if err := database.DB.First(&user, userID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{
				"error":   "User not found",
				"message": "User not found",
			})
			return
		}

		if !jwtService.CheckPasswordHash(req.CurrentPassword, user.PasswordHash) {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "Invalid current password",
				"message": "Current password is incorrect",
			})
			return
		}

		isStrong, problems := middleware.ValidatePasswordStrength(req.NewPassword)
		if !isStrong {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "Weak password",
				"message": "New password does not meet security requirements",
				"details": problems,
			})
			return
		}

		hashedPassword, err := jwtService.HashPassword(req.NewPassword)
		if err != nil {
			log.Printf("❌ Password hashing failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   "Internal server error",
				"message": "Failed to process new password",
			})
			return
		}

		if err := database.DB.Model(&user).Update("password_hash", hashedPassword).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   "Internal server error",
				"message": "Failed to update password",
			})
			return
		}

		if err := jwtService.RevokeAllUserTokens(userID); err != nil {
			log.Printf("⚠️ Failed to revoke tokens after password change for user %d: %v", userID, err)
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Password changed successfully",
		})
	})
}
