package routes

import (
	"context"
	"fmt"
	"log"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/gin-gonic/gin"

	"officials-rating-server/config"
	"officials-rating-server/database"
	"officials-rating-server/models"
)

// validateImageFile validates mimetype and size (<= 5MB)
func validateImageFile(h *multipart.FileHeader) bool {
	if h == nil || h.Size <= 0 || h.Size > 5*1024*1024 {
		return false
	}
	ext := strings.ToLower(filepath.Ext(h.Filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".webp":
		return true
	default:
		return false
	}
}

// UploadOfficialPhoto uploads an official's profile photo to Cloudinary and
// stores the resulting URL (admin only)
func UploadOfficialPhoto(c *gin.Context) {
	officialID, err := strconv.ParseUint(c.Param("officialId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid official ID"})
		return
	}

	var official models.Official
	if err := database.DB.First(&official, officialID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Official not found"})
		return
	}

	if err := c.Request.ParseMultipartForm(10 << 20); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid form data"})
		return
	}

	header, err := c.FormFile("photo")
	if err != nil || header == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No photo provided"})
		return
	}

	if !validateImageFile(header) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid photo", "message": "Photo must be a jpg, png, or webp under 5MB"})
		return
	}

	cfg := config.AppConfig.Cloudinary
	if cfg.CloudName == "" || cfg.APIKey == "" || cfg.APISecret == "" {
		log.Printf("❌ Cloudinary environment variables not set")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Photo storage not configured"})
		return
	}

	cloudinaryURL := fmt.Sprintf("cloudinary://%s:%s@%s", cfg.APIKey, cfg.APISecret, cfg.CloudName)
	cld, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		log.Printf("❌ Failed to initialize Cloudinary: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Photo storage initialization failed"})
		return
	}

	file, err := header.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read photo"})
		return
	}
	defer file.Close()

	overwrite := true
	unique := true
	folder := "officials/photos/" + strconv.Itoa(int(officialID))
	up, err := cld.Upload.Upload(context.Background(), file, uploader.UploadParams{
		Folder:         folder,
		PublicID:       strings.TrimSuffix(header.Filename, filepath.Ext(header.Filename)),
		Overwrite:      &overwrite,
		UniqueFilename: &unique,
		ResourceType:   "image",
	})
	if err != nil {
		log.Printf("❌ Photo upload failed for official %d: %v", officialID, err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Photo upload failed"})
		return
	}

	if err := database.DB.Model(&official).Update("photo_url", up.SecureURL).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save photo URL"})
		return
	}

	log.Printf("✅ Photo uploaded for official %d: %s", officialID, up.SecureURL)

	c.JSON(http.StatusOK, gin.H{
		"message":   "Photo uploaded successfully",
		"photo_url": up.SecureURL,
	})
}
