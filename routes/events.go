package routes

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"officials-rating-server/database"
	"officials-rating-server/middleware"
	"officials-rating-server/models"
	"officials-rating-server/services"
)

// RegisterEventRoutes registers event routes. Reads are public; writes
// require a supervisor or admin.
func RegisterEventRoutes(public *gin.RouterGroup, protected *gin.RouterGroup, ledger *services.ReviewLedger) {
	publicRoutes := public.Group("/events")
	{
		publicRoutes.GET("", listEvents)
		publicRoutes.GET("/:eventId", getEvent)
	}

	writeRoutes := protected.Group("/events",
		middleware.RequireRoles(models.RoleSupervisor, models.RoleAdmin))
	{
		writeRoutes.POST("", createEvent)
		writeRoutes.PUT("/:eventId", updateEvent)
		writeRoutes.DELETE("/:eventId", deleteEvent(ledger))
		writeRoutes.POST("/:eventId/officials", assignOfficial)
		writeRoutes.DELETE("/:eventId/officials/:officialId", unassignOfficial(ledger))
		writeRoutes.POST("/:eventId/teams", addTeamToEvent)
		writeRoutes.DELETE("/:eventId/teams/:teamId", removeTeamFromEvent)
	}
}

func parseEventDate(value string) (time.Time, error) {
	return time.Parse("2006-01-02", value)
}

// listEvents retrieves events, newest first, with optional upcoming filter
func listEvents(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	offset := (page - 1) * limit

	query := database.DB.Model(&models.Event{})
	switch c.Query("when") {
	case "upcoming":
		query = query.Where("date >= ?", time.Now().Truncate(24*time.Hour))
	case "past":
		query = query.Where("date < ?", time.Now().Truncate(24*time.Hour))
	}

	var total int64
	query.Count(&total)

	var events []models.Event
	if err := query.
		Order("date DESC, name ASC").
		Offset(offset).
		Limit(limit).
		Find(&events).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch events"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"events": events,
		"pagination": gin.H{
			"page":  page,
			"limit": limit,
			"total": total,
			"pages": (total + int64(limit) - 1) / int64(limit),
		},
	})
}

// getEvent retrieves a single event with its officials and team entries
func getEvent(c *gin.Context) {
	eventID, err := strconv.ParseUint(c.Param("eventId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event ID"})
		return
	}

	var event models.Event
	if err := database.DB.
		Preload("Assignments.Official").
		Preload("TeamEntries.Team").
		First(&event, eventID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch event"})
		}
		return
	}

	c.JSON(http.StatusOK, event)
}

// createEvent creates a new event
func createEvent(c *gin.Context) {
	var req models.EventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event data", "details": err.Error()})
		return
	}

	date, err := parseEventDate(req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date", "message": "Date must be in YYYY-MM-DD format"})
		return
	}

	event := models.Event{
		Name:      middleware.SanitizeInput(req.Name),
		Date:      date,
		StartTime: middleware.SanitizeInput(req.StartTime),
		Venue:     middleware.SanitizeInput(req.Venue),
		EventType: middleware.SanitizeInput(req.EventType),
		Host:      middleware.SanitizeInput(req.Host),
	}

	if err := database.DB.Create(&event).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create event"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Event created successfully",
		"event":   event,
	})
}

// updateEvent updates an event's details
func updateEvent(c *gin.Context) {
	eventID, err := strconv.ParseUint(c.Param("eventId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event ID"})
		return
	}

	var event models.Event
	if err := database.DB.First(&event, eventID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch event"})
		}
		return
	}

	var req models.EventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event data", "details": err.Error()})
		return
	}

	date, err := parseEventDate(req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date", "message": "Date must be in YYYY-MM-DD format"})
		return
	}

	updates := map[string]interface{}{
		"name":       middleware.SanitizeInput(req.Name),
		"date":       date,
		"start_time": middleware.SanitizeInput(req.StartTime),
		"venue":      middleware.SanitizeInput(req.Venue),
		"event_type": middleware.SanitizeInput(req.EventType),
		"host":       middleware.SanitizeInput(req.Host),
	}

	if err := database.DB.Model(&event).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update event"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Event updated successfully",
		"event":   event,
	})
}

// deleteEvent removes an event with its assignments, team entries, and
// reviews, then refreshes all cached ratings
func deleteEvent(ledger *services.ReviewLedger) gin.HandlerFunc {
	return func(c *gin.Context) {
		eventID, err := strconv.ParseUint(c.Param("eventId"), 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event ID"})
			return
		}

		var event models.Event
		if err := database.DB.First(&event, eventID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch event"})
			}
			return
		}

		if err := ledger.PurgeEvent(uint(eventID)); err != nil {
			reviewErrorResponse(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Event deleted successfully"})
	}
}

// assignOfficial records that an official worked an event. This is the
// precondition for reviews of that official at that event.
func assignOfficial(c *gin.Context) {
	eventID, err := strconv.ParseUint(c.Param("eventId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event ID"})
		return
	}

	var req models.AssignOfficialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid assignment data", "details": err.Error()})
		return
	}

	var event models.Event
	if err := database.DB.First(&event, eventID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
		return
	}

	var official models.Official
	if err := database.DB.First(&official, req.OfficialID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Official not found"})
		return
	}

	assignment := models.EventOfficial{
		EventID:    uint(eventID),
		OfficialID: req.OfficialID,
		Role:       middleware.SanitizeInput(req.Role),
	}

	if err := database.DB.Create(&assignment).Error; err != nil {
		if err == gorm.ErrDuplicatedKey {
			c.JSON(http.StatusConflict, gin.H{
				"error":   "Already assigned",
				"message": "This official is already assigned to this event",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to assign official"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":    "Official assigned successfully",
		"assignment": assignment,
	})
}

// unassignOfficial removes an official's assignment from an event. Any
// reviews already submitted for the pair go with it, so ratings are
// refreshed afterwards.
func unassignOfficial(ledger *services.ReviewLedger) gin.HandlerFunc {
	return func(c *gin.Context) {
		eventID, err := strconv.ParseUint(c.Param("eventId"), 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event ID"})
			return
		}
		officialID, err := strconv.ParseUint(c.Param("officialId"), 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid official ID"})
			return
		}

		if err := ledger.Unassign(uint(eventID), uint(officialID)); err != nil {
			reviewErrorResponse(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Official unassigned successfully"})
	}
}

// addTeamToEvent records a team's participation at an event
func addTeamToEvent(c *gin.Context) {
	eventID, err := strconv.ParseUint(c.Param("eventId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event ID"})
		return
	}

	var req models.AddTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid team entry data", "details": err.Error()})
		return
	}

	var event models.Event
	if err := database.DB.First(&event, eventID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
		return
	}

	var team models.Team
	if err := database.DB.First(&team, req.TeamID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Team not found"})
		return
	}

	entry := models.EventTeam{
		EventID: uint(eventID),
		TeamID:  req.TeamID,
	}

	if err := database.DB.Create(&entry).Error; err != nil {
		if err == gorm.ErrDuplicatedKey {
			c.JSON(http.StatusConflict, gin.H{
				"error":   "Already entered",
				"message": "This team is already entered in this event",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add team"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Team added successfully",
		"entry":   entry,
	})
}

// removeTeamFromEvent removes a team's entry from an event
func removeTeamFromEvent(c *gin.Context) {
	eventID, err := strconv.ParseUint(c.Param("eventId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event ID"})
		return
	}
	teamID, err := strconv.ParseUint(c.Param("teamId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid team ID"})
		return
	}

	result := database.DB.
		Where("event_id = ? AND team_id = ?", eventID, teamID).
		Delete(&models.EventTeam{})
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove team"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Team entry not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Team removed successfully"})
}
