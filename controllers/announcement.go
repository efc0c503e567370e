package controllers

import (
	"net/http"
	"strconv"
	"time"

	"journal-management-api/models"

	"github.com/gin-gonic/gin"
)

type announcementCreateReq struct {
	Title        string     `json:"title" binding:"required"`
	Body         string     `json:"body" binding:"required"`
	Type         string     `json:"type" binding:"omitempty,oneof=general call_for_papers issue_release"`
	Priority     string     `json:"priority" binding:"omitempty,oneof=low normal high urgent"`
	DisplayOrder *int       `json:"display_order"`
	PublishedAt  *time.Time `json:"published_at"`
	ExpiredAt    *time.Time `json:"expired_at"`
}

type announcementUpdateReq struct {
	Title        *string    `json:"title"`
	Body         *string    `json:"body"`
	Type         *string    `json:"type" binding:"omitempty,oneof=general call_for_papers issue_release"`
	Priority     *string    `json:"priority" binding:"omitempty,oneof=low normal high urgent"`
	Status       *string    `json:"status" binding:"omitempty,oneof=active inactive"`
	DisplayOrder *int       `json:"display_order"`
	PublishedAt  *time.Time `json:"published_at"`
	ExpiredAt    *time.Time `json:"expired_at"`
}

// GetAnnouncements lists active, unexpired announcements for all users.
func GetAnnouncements(c *gin.Context) {
	now := time.Now()
	var items []models.Announcement
	if err := getDB().
		Where("delete_at IS NULL AND status = ?", "active").
		Where("expired_at IS NULL OR expired_at > ?", now).
		Order("display_order ASC").
		Order("create_at DESC").
		Find(&items).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"announcements": items})
}

// CreateAnnouncement publishes journal news (editorial office roles).
func CreateAnnouncement(c *gin.Context) {
	uid, ok := getCurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req announcementCreateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Type == "" {
		req.Type = "general"
	}
	if req.Priority == "" {
		req.Priority = "normal"
	}

	now := time.Now()
	item := models.Announcement{
		Title:        req.Title,
		Body:         req.Body,
		Type:         req.Type,
		Priority:     req.Priority,
		Status:       "active",
		DisplayOrder: req.DisplayOrder,
		PublishedAt:  req.PublishedAt,
		ExpiredAt:    req.ExpiredAt,
		CreatedBy:    uid,
		CreateAt:     now,
		UpdateAt:     now,
	}
	if err := getDB().Create(&item).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"announcement": item})
}

// UpdateAnnouncement edits an announcement.
func UpdateAnnouncement(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid announcement id"})
		return
	}

	var req announcementUpdateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var item models.Announcement
	if err := getDB().Where("announcement_id = ? AND delete_at IS NULL", id).First(&item).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "announcement not found"})
		return
	}

	updates := map[string]interface{}{"update_at": time.Now()}
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Body != nil {
		updates["body"] = *req.Body
	}
	if req.Type != nil {
		updates["type"] = *req.Type
	}
	if req.Priority != nil {
		updates["priority"] = *req.Priority
	}
	if req.Status != nil {
		updates["status"] = *req.Status
	}
	if req.DisplayOrder != nil {
		updates["display_order"] = *req.DisplayOrder
	}
	if req.PublishedAt != nil {
		updates["published_at"] = *req.PublishedAt
	}
	if req.ExpiredAt != nil {
		updates["expired_at"] = *req.ExpiredAt
	}

	if err := getDB().Model(&item).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// DeleteAnnouncement soft-deletes an announcement.
func DeleteAnnouncement(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid announcement id"})
		return
	}

	now := time.Now()
	res := getDB().Model(&models.Announcement{}).
		Where("announcement_id = ? AND delete_at IS NULL", id).
		Updates(map[string]interface{}{"delete_at": now, "update_at": now})
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": res.Error.Error()})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "announcement not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
