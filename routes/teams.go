package routes

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"officials-rating-server/database"
	"officials-rating-server/middleware"
	"officials-rating-server/models"
)

// RegisterTeamRoutes registers the public team listing used by signup
func RegisterTeamRoutes(router *gin.RouterGroup) {
	teamRoutes := router.Group("/teams")
	{
		teamRoutes.GET("", listTeams)
		teamRoutes.GET("/:teamId", getTeam)
	}
}

// listTeams retrieves all teams, optionally filtered by state or division
func listTeams(c *gin.Context) {
	query := database.DB.Model(&models.Team{})
	if state := c.Query("state"); state != "" {
		query = query.Where("state = ?", state)
	}
	if division := c.Query("division"); division != "" {
		query = query.Where("division = ?", division)
	}

	var teams []models.Team
	if err := query.Order("name ASC").Find(&teams).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch teams"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"teams": teams})
}

// getTeam retrieves a single team by ID
func getTeam(c *gin.Context) {
	teamID, err := strconv.ParseUint(c.Param("teamId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid team ID"})
		return
	}

	var team models.Team
	if err := database.DB.First(&team, teamID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Team not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch team"})
		}
		return
	}

	c.JSON(http.StatusOK, team)
}

// CreateTeam creates a new team (admin only)
func CreateTeam(c *gin.Context) {
	var req models.TeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid team data", "details": err.Error()})
		return
	}

	team := models.Team{
		Name:     middleware.SanitizeInput(req.Name),
		City:     middleware.SanitizeInput(req.City),
		State:    middleware.SanitizeInput(req.State),
		Division: middleware.SanitizeInput(req.Division),
	}

	if err := database.DB.Create(&team).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create team"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Team created successfully",
		"team":    team,
	})
}

// UpdateTeam updates a team (admin only)
func UpdateTeam(c *gin.Context) {
	teamID, err := strconv.ParseUint(c.Param("teamId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid team ID"})
		return
	}

	var team models.Team
	if err := database.DB.First(&team, teamID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Team not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch team"})
		}
		return
	}

	var req models.TeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid team data", "details": err.Error()})
		return
	}

	updates := map[string]interface{}{
		"name":     middleware.SanitizeInput(req.Name),
		"city":     middleware.SanitizeInput(req.City),
		"state":    middleware.SanitizeInput(req.State),
		"division": middleware.SanitizeInput(req.Division),
	}

	if err := database.DB.Model(&team).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update team"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Team updated successfully",
		"team":    team,
	})
}

// DeleteTeam removes a team. Users keep their accounts; their team link is
// cleared, and event entries for the team are removed.
func DeleteTeam(c *gin.Context) {
	teamID, err := strconv.ParseUint(c.Param("teamId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid team ID"})
		return
	}

	var team models.Team
	if err := database.DB.First(&team, teamID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Team not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch team"})
		}
		return
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.User{}).
			Where("team_id = ?", teamID).
			Update("team_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Where("team_id = ?", teamID).Delete(&models.EventTeam{}).Error; err != nil {
			return err
		}
		return tx.Delete(&team).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete team"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Team deleted successfully"})
}
