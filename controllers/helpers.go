package controllers

import (
	"errors"
	"net/http"

	"journal-management-api/config"
	"journal-management-api/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func getDB() *gorm.DB { return config.DB }

func getCurrentUserID(c *gin.Context) (int, bool) {
	if v, ok := c.Get("userID"); ok {
		switch t := v.(type) {
		case int:
			return t, true
		case int64:
			return int(t), true
		case float64:
			return int(t), true
		case uint:
			return int(t), true
		}
	}
	return 0, false
}

func getCurrentRoleID(c *gin.Context) (int, bool) {
	if v, ok := c.Get("roleID"); ok {
		switch t := v.(type) {
		case int:
			return t, true
		case int64:
			return int(t), true
		case float64:
			return int(t), true
		case uint:
			return int(t), true
		}
	}
	return 0, false
}

// respondServiceError maps service sentinel errors onto HTTP statuses. The
// wire contract is a plain message string, no structured codes.
func respondServiceError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, services.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, services.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, services.ErrConflict):
		status = http.StatusConflict
	case errors.Is(err, services.ErrInvalidState), errors.Is(err, services.ErrValidation):
		status = http.StatusBadRequest
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func reviewWorkflow() *services.ReviewWorkflowService {
	db := getDB()
	return services.NewReviewWorkflowService(db, services.NewNotificationService(db))
}
