package controllers

import (
	"net/http"
	"strconv"
	"time"

	"journal-management-api/services"

	"github.com/gin-gonic/gin"
)

type assignReviewerReq struct {
	ArticleID    int     `json:"article_id" binding:"required"`
	ReviewerID   int     `json:"reviewer_id" binding:"required"`
	DueDate      string  `json:"due_date" binding:"required"` // ISO date or RFC3339
	IsAnonymous  bool    `json:"is_anonymous"`
	Instructions *string `json:"instructions"`
}

type declineReviewReq struct {
	Reason string `json:"reason" binding:"required"`
}

type submitReviewReq struct {
	Recommendation       string                 `json:"recommendation" binding:"required"`
	Comments             string                 `json:"comments" binding:"required"`
	ConfidentialComments *string                `json:"confidential_comments"`
	Ratings              services.ReviewRatings `json:"ratings" binding:"required"`
}

type editorialDecisionReq struct {
	Decision string  `json:"decision" binding:"required"`
	Comments *string `json:"comments"`
}

func parseDueDate(raw string) (time.Time, bool) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, true
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// AssignReviewer creates a review assignment for an article.
func AssignReviewer(c *gin.Context) {
	uid, ok := getCurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req assignReviewerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	dueDate, ok := parseDueDate(req.DueDate)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "due_date must be an ISO date (YYYY-MM-DD) or RFC3339 timestamp"})
		return
	}

	record, err := reviewWorkflow().AssignReviewer(services.AssignReviewerInput{
		ArticleID:    req.ArticleID,
		ReviewerID:   req.ReviewerID,
		AssignedBy:   uid,
		DueDate:      dueDate,
		IsAnonymous:  req.IsAnonymous,
		Instructions: req.Instructions,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"review": record})
}

// AcceptReview lets the assigned reviewer accept a pending invitation.
func AcceptReview(c *gin.Context) {
	uid, ok := getCurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	reviewID, err := strconv.Atoi(c.Param("id"))
	if err != nil || reviewID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid review id"})
		return
	}

	record, svcErr := reviewWorkflow().AcceptReview(reviewID, uid)
	if svcErr != nil {
		respondServiceError(c, svcErr)
		return
	}

	c.JSON(http.StatusOK, gin.H{"review": record})
}

// DeclineReview lets the assigned reviewer decline a pending invitation.
func DeclineReview(c *gin.Context) {
	uid, ok := getCurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	reviewID, err := strconv.Atoi(c.Param("id"))
	if err != nil || reviewID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid review id"})
		return
	}

	var req declineReviewReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "a decline reason is required"})
		return
	}

	record, svcErr := reviewWorkflow().DeclineReview(reviewID, uid, req.Reason)
	if svcErr != nil {
		respondServiceError(c, svcErr)
		return
	}

	c.JSON(http.StatusOK, gin.H{"review": record})
}

// SubmitReview lets the assigned reviewer submit a completed review.
func SubmitReview(c *gin.Context) {
	uid, ok := getCurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	reviewID, err := strconv.Atoi(c.Param("id"))
	if err != nil || reviewID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid review id"})
		return
	}

	var req submitReviewReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	record, svcErr := reviewWorkflow().SubmitReview(reviewID, uid, services.SubmitReviewInput{
		Recommendation:       req.Recommendation,
		Comments:             req.Comments,
		ConfidentialComments: req.ConfidentialComments,
		Ratings:              req.Ratings,
	})
	if svcErr != nil {
		respondServiceError(c, svcErr)
		return
	}

	c.JSON(http.StatusOK, gin.H{"review": record})
}

// MakeEditorialDecision records the editor's decision on a pending decision
// record and propagates it to the article.
func MakeEditorialDecision(c *gin.Context) {
	uid, ok := getCurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	decisionID, err := strconv.Atoi(c.Param("id"))
	if err != nil || decisionID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid decision id"})
		return
	}

	var req editorialDecisionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	decision, svcErr := reviewWorkflow().MakeEditorialDecision(decisionID, req.Decision, req.Comments, uid)
	if svcErr != nil {
		respondServiceError(c, svcErr)
		return
	}

	c.JSON(http.StatusOK, gin.H{"decision": decision})
}

// GetEditorialQueue lists undecided decisions, most urgent first.
func GetEditorialQueue(c *gin.Context) {
	queue, err := reviewWorkflow().GetEditorialQueue()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"queue": queue})
}

// GetMyReviews lists the caller's review assignments.
func GetMyReviews(c *gin.Context) {
	uid, ok := getCurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	records, err := reviewWorkflow().ListReviewsForReviewer(uid, c.Query("status"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reviews": records})
}

// GetMyReviewerStats returns the caller's reviewing aggregate.
func GetMyReviewerStats(c *gin.Context) {
	uid, ok := getCurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	stats, err := reviewWorkflow().GetReviewerStats(uid)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"stats": stats})
}

// GetArticleReviews lists every review record of one article (editor view).
func GetArticleReviews(c *gin.Context) {
	articleID, err := strconv.Atoi(c.Param("id"))
	if err != nil || articleID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid article id"})
		return
	}

	records, svcErr := reviewWorkflow().ListReviewsForArticle(articleID)
	if svcErr != nil {
		respondServiceError(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reviews": records})
}
