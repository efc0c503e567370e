package controllers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"journal-management-api/models"
	"journal-management-api/services"
	"journal-management-api/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type articleAuthorReq struct {
	FirstName   string  `json:"first_name" binding:"required"`
	LastName    string  `json:"last_name" binding:"required"`
	Email       string  `json:"email" binding:"required,email"`
	Affiliation *string `json:"affiliation"`
}

type createArticleReq struct {
	Title    string             `json:"title" binding:"required"`
	Abstract *string            `json:"abstract"`
	Keywords *string            `json:"keywords"`
	Authors  []articleAuthorReq `json:"authors" binding:"required,min=1,dive"`
}

type updateArticleReq struct {
	Title    *string `json:"title"`
	Abstract *string `json:"abstract"`
	Keywords *string `json:"keywords"`
}

type publishArticleReq struct {
	VolumeID int `json:"volume_id" binding:"required"`
	IssueID  int `json:"issue_id" binding:"required"`
}

func newSubmissionNumber() string {
	return fmt.Sprintf("MS-%d-%s", time.Now().Year(),
		strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:8]))
}

// CreateArticle creates a draft manuscript owned by the caller.
func CreateArticle(c *gin.Context) {
	uid, ok := getCurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req createArticleReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	title := utils.SanitizeInput(req.Title)
	if title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title is required"})
		return
	}

	now := time.Now()
	article := models.Article{
		SubmissionNumber:      newSubmissionNumber(),
		Title:                 title,
		Abstract:              req.Abstract,
		Keywords:              req.Keywords,
		Status:                models.ArticleStatusDraft,
		CorrespondingAuthorID: uid,
		CreateAt:              now,
		UpdateAt:              now,
	}
	for i, a := range req.Authors {
		if !utils.ValidateEmail(a.Email) {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid author email %q", a.Email)})
			return
		}
		article.Authors = append(article.Authors, models.ArticleAuthor{
			FirstName:       utils.SanitizeInput(a.FirstName),
			LastName:        utils.SanitizeInput(a.LastName),
			Email:           a.Email,
			Affiliation:     a.Affiliation,
			AuthorOrder:     i + 1,
			IsCorresponding: i == 0,
		})
	}

	if err := getDB().Create(&article).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"article": article})
}

// GetArticles lists manuscripts. Editorial roles see everything; everyone
// else sees only their own submissions. Optional ?status= filter.
func GetArticles(c *gin.Context) {
	uid, ok := getCurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	roleID, _ := getCurrentRoleID(c)

	q := getDB().Preload("Authors").Where("delete_at IS NULL")
	if !models.IsEditorRole(roleID) && roleID != models.RoleEditorialAssistant {
		q = q.Where("corresponding_author_id = ?", uid)
	}
	if status := strings.TrimSpace(c.Query("status")); status != "" {
		q = q.Where("status = ?", status)
	}

	var articles []models.Article
	if err := q.Order("create_at DESC").Find(&articles).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"articles": articles})
}

// GetArticle returns one manuscript if the caller may see it.
func GetArticle(c *gin.Context) {
	uid, ok := getCurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	roleID, _ := getCurrentRoleID(c)

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid article id"})
		return
	}

	var article models.Article
	if err := getDB().Preload("Authors").
		Where("article_id = ? AND delete_at IS NULL", id).
		First(&article).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "article not found"})
		return
	}

	if !canSeeArticle(uid, roleID, &article) {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"article": article})
}

// canSeeArticle: the owner, editorial roles, and assigned reviewers.
func canSeeArticle(uid, roleID int, article *models.Article) bool {
	if article.CorrespondingAuthorID == uid {
		return true
	}
	if models.IsEditorRole(roleID) || roleID == models.RoleEditorialAssistant {
		return true
	}
	var assigned int64
	getDB().Model(&models.ReviewRecord{}).
		Where("article_id = ? AND reviewer_id = ?", article.ArticleID, uid).
		Count(&assigned)
	return assigned > 0
}

// UpdateArticle edits metadata of the caller's own draft or a manuscript
// sent back for revision.
func UpdateArticle(c *gin.Context) {
	uid, ok := getCurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid article id"})
		return
	}

	var req updateArticleReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var article models.Article
	if err := getDB().Where("article_id = ? AND delete_at IS NULL", id).First(&article).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "article not found"})
		return
	}
	if article.CorrespondingAuthorID != uid {
		c.JSON(http.StatusForbidden, gin.H{"error": "only the corresponding author can edit a manuscript"})
		return
	}
	if article.Status != models.ArticleStatusDraft && article.Status != models.ArticleStatusRevisionRequested {
		c.JSON(http.StatusBadRequest, gin.H{"error": "only drafts or manuscripts under revision can be edited"})
		return
	}

	updates := map[string]interface{}{"update_at": time.Now()}
	if req.Title != nil {
		title := utils.SanitizeInput(*req.Title)
		if title == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "title cannot be empty"})
			return
		}
		updates["title"] = title
	}
	if req.Abstract != nil {
		updates["abstract"] = *req.Abstract
	}
	if req.Keywords != nil {
		updates["keywords"] = *req.Keywords
	}

	if err := getDB().Model(&article).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// SubmitArticle moves the caller's draft (or revision) into the review
// pipeline and tells the editors-in-chief.
func SubmitArticle(c *gin.Context) {
	uid, ok := getCurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid article id"})
		return
	}

	db := getDB()
	var article models.Article
	if err := db.Where("article_id = ? AND delete_at IS NULL", id).First(&article).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "article not found"})
		return
	}
	if article.CorrespondingAuthorID != uid {
		c.JSON(http.StatusForbidden, gin.H{"error": "only the corresponding author can submit a manuscript"})
		return
	}
	if article.Status != models.ArticleStatusDraft && article.Status != models.ArticleStatusRevisionRequested {
		c.JSON(http.StatusBadRequest, gin.H{"error": "only drafts or manuscripts under revision can be submitted"})
		return
	}

	now := time.Now()
	if err := db.Model(&article).Updates(map[string]interface{}{
		"status":       models.ArticleStatusSubmitted,
		"submitted_at": now,
		"update_at":    now,
	}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	notifier := services.NewNotificationService(db)
	var chiefs []models.User
	if err := db.Where("role_id = ? AND delete_at IS NULL", models.RoleEditorInChief).Find(&chiefs).Error; err == nil {
		for _, chief := range chiefs {
			notifier.Notify(chief.UserID,
				"New submission",
				fmt.Sprintf("Manuscript %s (%q) has been submitted and awaits reviewer assignment.",
					article.SubmissionNumber, article.Title),
				"info", &article.ArticleID)
		}
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "submission_number": article.SubmissionNumber})
}

// PublishArticle places an accepted manuscript into a volume/issue.
func PublishArticle(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid article id"})
		return
	}

	var req publishArticleReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	db := getDB()
	var article models.Article
	if err := db.Where("article_id = ? AND delete_at IS NULL", id).First(&article).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "article not found"})
		return
	}
	if article.Status != models.ArticleStatusAccepted {
		c.JSON(http.StatusBadRequest, gin.H{"error": "only accepted manuscripts can be published"})
		return
	}

	var issue models.Issue
	if err := db.Where("issue_id = ? AND volume_id = ? AND delete_at IS NULL", req.IssueID, req.VolumeID).
		First(&issue).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "issue not found in volume"})
		return
	}

	now := time.Now()
	if err := db.Model(&article).Updates(map[string]interface{}{
		"status":       models.ArticleStatusPublished,
		"volume_id":    req.VolumeID,
		"issue_id":     req.IssueID,
		"published_at": now,
		"update_at":    now,
	}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	services.NewNotificationService(db).Notify(article.CorrespondingAuthorID,
		"Article published",
		fmt.Sprintf("Manuscript %s (%q) has been published.", article.SubmissionNumber, article.Title),
		"success", &article.ArticleID)

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// DeleteArticle soft-deletes a manuscript (admin only, routed accordingly).
func DeleteArticle(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid article id"})
		return
	}

	now := time.Now()
	res := getDB().Model(&models.Article{}).
		Where("article_id = ? AND delete_at IS NULL", id).
		Updates(map[string]interface{}{"delete_at": now, "update_at": now})
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": res.Error.Error()})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "article not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}
