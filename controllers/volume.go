package controllers

import (
	"net/http"
	"strconv"
	"time"

	"journal-management-api/models"

	"github.com/gin-gonic/gin"
)

type createVolumeReq struct {
	VolumeNumber int     `json:"volume_number" binding:"required"`
	Year         int     `json:"year" binding:"required"`
	Title        *string `json:"title"`
}

type createIssueReq struct {
	IssueNumber int     `json:"issue_number" binding:"required"`
	Title       *string `json:"title"`
}

// GetVolumes lists volumes with their issues, newest first.
func GetVolumes(c *gin.Context) {
	var volumes []models.Volume
	if err := getDB().Preload("Issues", "delete_at IS NULL").
		Where("delete_at IS NULL").
		Order("year DESC").
		Order("volume_number DESC").
		Find(&volumes).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"volumes": volumes})
}

// CreateVolume opens a new volume (editor-in-chief / admin).
func CreateVolume(c *gin.Context) {
	var req createVolumeReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var dup int64
	if err := getDB().Model(&models.Volume{}).
		Where("volume_number = ? AND delete_at IS NULL", req.VolumeNumber).
		Count(&dup).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if dup > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "volume number already exists"})
		return
	}

	now := time.Now()
	volume := models.Volume{
		VolumeNumber: req.VolumeNumber,
		Year:         req.Year,
		Title:        req.Title,
		Status:       models.VolumeStatusOpen,
		CreateAt:     now,
		UpdateAt:     now,
	}
	if err := getDB().Create(&volume).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"volume": volume})
}

// CreateIssue adds an issue to a volume (editor-in-chief / admin).
func CreateIssue(c *gin.Context) {
	volumeID, err := strconv.Atoi(c.Param("id"))
	if err != nil || volumeID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid volume id"})
		return
	}

	var req createIssueReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	db := getDB()
	var volume models.Volume
	if err := db.Where("volume_id = ? AND delete_at IS NULL", volumeID).First(&volume).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "volume not found"})
		return
	}

	var dup int64
	if err := db.Model(&models.Issue{}).
		Where("volume_id = ? AND issue_number = ? AND delete_at IS NULL", volumeID, req.IssueNumber).
		Count(&dup).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if dup > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "issue number already exists in this volume"})
		return
	}

	now := time.Now()
	issue := models.Issue{
		VolumeID:    volumeID,
		IssueNumber: req.IssueNumber,
		Title:       req.Title,
		Status:      models.VolumeStatusOpen,
		CreateAt:    now,
		UpdateAt:    now,
	}
	if err := db.Create(&issue).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"issue": issue})
}

// PublishIssue marks an issue (and its volume if still open) as published.
func PublishIssue(c *gin.Context) {
	issueID, err := strconv.Atoi(c.Param("id"))
	if err != nil || issueID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid issue id"})
		return
	}

	db := getDB()
	var issue models.Issue
	if err := db.Where("issue_id = ? AND delete_at IS NULL", issueID).First(&issue).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "issue not found"})
		return
	}
	if issue.Status == models.VolumeStatusPublished {
		c.JSON(http.StatusBadRequest, gin.H{"error": "issue is already published"})
		return
	}

	now := time.Now()
	if err := db.Model(&issue).Updates(map[string]interface{}{
		"status":       models.VolumeStatusPublished,
		"published_at": now,
		"update_at":    now,
	}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	db.Model(&models.Volume{}).
		Where("volume_id = ? AND status = ?", issue.VolumeID, models.VolumeStatusOpen).
		Updates(map[string]interface{}{"status": models.VolumeStatusPublished, "update_at": now})

	c.JSON(http.StatusOK, gin.H{"ok": true})
}
