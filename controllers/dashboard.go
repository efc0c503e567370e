package controllers

import (
	"net/http"
	"time"

	"journal-management-api/models"

	"github.com/gin-gonic/gin"
)

// GetDashboardStats returns a role-appropriate overview: editors see the
// whole pipeline, reviewers their assignment load, authors their own
// manuscripts.
func GetDashboardStats(c *gin.Context) {
	uid, ok := getCurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	roleID, _ := getCurrentRoleID(c)

	var stats map[string]interface{}
	switch {
	case models.IsEditorRole(roleID) || roleID == models.RoleEditorialAssistant:
		stats = editorDashboard()
	case roleID == models.RoleReviewer:
		stats = reviewerDashboard(uid)
	default:
		stats = authorDashboard(uid)
	}

	stats["current_date"] = time.Now().Format("2006-01-02")
	c.JSON(http.StatusOK, gin.H{"stats": stats})
}

func editorDashboard() map[string]interface{} {
	db := getDB()

	byStatus := map[string]int64{}
	for _, status := range []string{
		models.ArticleStatusSubmitted,
		models.ArticleStatusUnderReview,
		models.ArticleStatusRevisionRequested,
		models.ArticleStatusAccepted,
		models.ArticleStatusPublished,
		models.ArticleStatusRejected,
	} {
		var n int64
		db.Model(&models.Article{}).
			Where("status = ? AND delete_at IS NULL", status).
			Count(&n)
		byStatus[status] = n
	}

	var pendingDecisions int64
	db.Model(&models.EditorialDecision{}).
		Where("status <> ?", models.DecisionStatusDecided).
		Count(&pendingDecisions)

	var overdueReviews int64
	db.Model(&models.ReviewRecord{}).
		Where("status = ?", models.ReviewStatusOverdue).
		Count(&overdueReviews)

	var openInvitations int64
	db.Model(&models.ReviewRecord{}).
		Where("status = ?", models.ReviewStatusPending).
		Count(&openInvitations)

	return map[string]interface{}{
		"articles_by_status": byStatus,
		"pending_decisions":  pendingDecisions,
		"overdue_reviews":    overdueReviews,
		"open_invitations":   openInvitations,
	}
}

func reviewerDashboard(uid int) map[string]interface{} {
	svc := reviewWorkflow()
	stats, err := svc.GetReviewerStats(uid)
	if err != nil {
		return map[string]interface{}{}
	}
	return map[string]interface{}{"reviewing": stats}
}

func authorDashboard(uid int) map[string]interface{} {
	db := getDB()

	byStatus := map[string]int64{}
	rows := []struct {
		Status string
		N      int64
	}{}
	db.Model(&models.Article{}).
		Select("status, COUNT(*) AS n").
		Where("corresponding_author_id = ? AND delete_at IS NULL", uid).
		Group("status").
		Scan(&rows)
	for _, r := range rows {
		byStatus[r.Status] = r.N
	}

	return map[string]interface{}{"my_articles_by_status": byStatus}
}
