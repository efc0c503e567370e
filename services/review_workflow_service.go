package services

import (
	"errors"
	"fmt"
	"math"
	"time"
	"unicode/utf8"

	"journal-management-api/models"

	"gorm.io/gorm"
)

const (
	// Completed reviews needed before an editorial decision record is opened.
	minCompletedReviews = 2

	// Declining an assignment requires a substantive reason.
	minDeclineReasonLen = 20
)

// Notifier delivers an in-app notification (and whatever fan-out the
// implementation adds, e.g. email). Calls are fire-and-forget: failures are
// the implementation's problem and never fail the workflow operation.
type Notifier interface {
	Notify(userID int, title, message, kind string, articleID *int)
}

// ReviewWorkflowService coordinates articles, review records and editorial
// decisions: it creates assignments, moves review status on reviewer action,
// aggregates completed reviews into a decision and propagates a made decision
// back onto the article.
type ReviewWorkflowService struct {
	db       *gorm.DB
	notifier Notifier
}

func NewReviewWorkflowService(db *gorm.DB, notifier Notifier) *ReviewWorkflowService {
	return &ReviewWorkflowService{db: db, notifier: notifier}
}

// AssignReviewerInput carries the parameters of a reviewer assignment.
type AssignReviewerInput struct {
	ArticleID    int
	ReviewerID   int
	AssignedBy   int
	DueDate      time.Time
	IsAnonymous  bool
	Instructions *string
}

// AssignReviewer creates a pending review record for (article, reviewer).
// The article must be submitted or under review; a submitted article is
// advanced to under_review. The active-assignment uniqueness check runs
// inside the insert transaction so two concurrent calls cannot both pass it.
func (s *ReviewWorkflowService) AssignReviewer(in AssignReviewerInput) (*models.ReviewRecord, error) {
	var article models.Article
	if err := s.db.Where("article_id = ? AND delete_at IS NULL", in.ArticleID).First(&article).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: article %d", ErrNotFound, in.ArticleID)
		}
		return nil, err
	}
	if !article.AcceptsReviewers() {
		return nil, fmt.Errorf("%w: article %s is %s; reviewers can only be assigned while it is submitted or under review",
			ErrInvalidState, article.SubmissionNumber, article.Status)
	}

	var reviewer models.User
	if err := s.db.Where("user_id = ? AND delete_at IS NULL", in.ReviewerID).First(&reviewer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: reviewer %d", ErrNotFound, in.ReviewerID)
		}
		return nil, err
	}
	if !models.IsReviewerCapable(reviewer.RoleID) {
		return nil, fmt.Errorf("%w: user %d does not hold a reviewer-capable role", ErrForbidden, in.ReviewerID)
	}

	now := time.Now()
	record := &models.ReviewRecord{
		ArticleID:    in.ArticleID,
		ReviewerID:   in.ReviewerID,
		AssignedBy:   in.AssignedBy,
		Status:       models.ReviewStatusPending,
		DueDate:      in.DueDate,
		Instructions: in.Instructions,
		IsAnonymous:  in.IsAnonymous,
		CreateAt:     now,
		UpdateAt:     now,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var active int64
		if err := tx.Model(&models.ReviewRecord{}).
			Where("article_id = ? AND reviewer_id = ? AND status <> ?",
				in.ArticleID, in.ReviewerID, models.ReviewStatusDeclined).
			Count(&active).Error; err != nil {
			return err
		}
		if active > 0 {
			return fmt.Errorf("%w: reviewer %d already has an active assignment for article %d",
				ErrConflict, in.ReviewerID, in.ArticleID)
		}
		if err := tx.Create(record).Error; err != nil {
			return err
		}
		if article.Status == models.ArticleStatusSubmitted {
			if err := tx.Model(&models.Article{}).
				Where("article_id = ?", article.ArticleID).
				Updates(map[string]interface{}{
					"status":    models.ArticleStatusUnderReview,
					"update_at": now,
				}).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifier.Notify(in.ReviewerID,
		"Review invitation",
		fmt.Sprintf("You have been invited to review manuscript %s (%q). The review is due on %s.",
			article.SubmissionNumber, article.Title, in.DueDate.Format("2 January 2006")),
		"info", &article.ArticleID)

	return record, nil
}

// AcceptReview moves a pending record to in_progress for the owning reviewer.
func (s *ReviewWorkflowService) AcceptReview(reviewID, reviewerID int) (*models.ReviewRecord, error) {
	record, err := s.ownedPendingRecord(reviewID, reviewerID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	updates := map[string]interface{}{
		"status":        models.ReviewStatusInProgress,
		"accepted_date": now,
		"update_at":     now,
	}
	if err := s.db.Model(record).Updates(updates).Error; err != nil {
		return nil, err
	}
	record.Status = models.ReviewStatusInProgress
	record.AcceptedDate = &now
	record.UpdateAt = now

	s.notifier.Notify(record.AssignedBy,
		"Review invitation accepted",
		fmt.Sprintf("Reviewer accepted the invitation for manuscript %s.", record.Article.SubmissionNumber),
		"success", &record.ArticleID)

	return record, nil
}

// DeclineReview moves a pending record to declined. The reason is required
// and must carry at least minDeclineReasonLen characters; it is stored in the
// confidential comments, visible to editors only.
func (s *ReviewWorkflowService) DeclineReview(reviewID, reviewerID int, reason string) (*models.ReviewRecord, error) {
	if utf8.RuneCountInString(reason) < minDeclineReasonLen {
		return nil, fmt.Errorf("%w: a decline reason of at least %d characters is required",
			ErrValidation, minDeclineReasonLen)
	}

	record, err := s.ownedPendingRecord(reviewID, reviewerID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	updates := map[string]interface{}{
		"status":                models.ReviewStatusDeclined,
		"declined_date":         now,
		"confidential_comments": reason,
		"update_at":             now,
	}
	if err := s.db.Model(record).Updates(updates).Error; err != nil {
		return nil, err
	}
	record.Status = models.ReviewStatusDeclined
	record.DeclinedDate = &now
	record.ConfidentialComments = &reason
	record.UpdateAt = now

	// Reassignment stays a manual editorial action.
	s.notifier.Notify(record.AssignedBy,
		"Review invitation declined",
		fmt.Sprintf("Reviewer declined the invitation for manuscript %s. A replacement reviewer may be needed.",
			record.Article.SubmissionNumber),
		"warning", &record.ArticleID)

	return record, nil
}

// ReviewRatings are the five required 1-5 sub-scores of a submitted review.
type ReviewRatings struct {
	Originality  *int `json:"originality"`
	Methodology  *int `json:"methodology"`
	Significance *int `json:"significance"`
	Clarity      *int `json:"clarity"`
	Overall      *int `json:"overall"`
}

func (r ReviewRatings) validate() error {
	fields := map[string]*int{
		"originality":  r.Originality,
		"methodology":  r.Methodology,
		"significance": r.Significance,
		"clarity":      r.Clarity,
		"overall":      r.Overall,
	}
	for name, v := range fields {
		if v == nil {
			return fmt.Errorf("%w: rating %s is required", ErrValidation, name)
		}
		if *v < 1 || *v > 5 {
			return fmt.Errorf("%w: rating %s must be between 1 and 5", ErrValidation, name)
		}
	}
	return nil
}

// SubmitReviewInput carries a completed review.
type SubmitReviewInput struct {
	Recommendation       string
	Comments             string
	ConfidentialComments *string
	Ratings              ReviewRatings
}

// SubmitReview completes an in_progress record and, once the completed-review
// threshold for the article is met, opens the editorial decision. Counting
// and creation run in one transaction and the decision table carries a unique
// index on article_id, so concurrent submissions produce exactly one decision.
func (s *ReviewWorkflowService) SubmitReview(reviewID, reviewerID int, in SubmitReviewInput) (*models.ReviewRecord, error) {
	if !models.ValidRecommendation(in.Recommendation) {
		return nil, fmt.Errorf("%w: unknown recommendation %q", ErrValidation, in.Recommendation)
	}
	if err := in.Ratings.validate(); err != nil {
		return nil, err
	}

	record, err := s.loadRecord(reviewID)
	if err != nil {
		return nil, err
	}
	if record.ReviewerID != reviewerID {
		return nil, fmt.Errorf("%w: review %d belongs to another reviewer", ErrForbidden, reviewID)
	}
	if record.Status != models.ReviewStatusInProgress {
		return nil, fmt.Errorf("%w: review %d is %s; only an accepted (in_progress) review can be submitted",
			ErrInvalidState, reviewID, record.Status)
	}

	now := time.Now()
	err = s.db.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"status":              models.ReviewStatusCompleted,
			"submitted_date":      now,
			"recommendation":      in.Recommendation,
			"comments":            in.Comments,
			"rating_originality":  *in.Ratings.Originality,
			"rating_methodology":  *in.Ratings.Methodology,
			"rating_significance": *in.Ratings.Significance,
			"rating_clarity":      *in.Ratings.Clarity,
			"rating_overall":      *in.Ratings.Overall,
			"update_at":           now,
		}
		if in.ConfidentialComments != nil {
			updates["confidential_comments"] = *in.ConfidentialComments
		}
		if err := tx.Model(&models.ReviewRecord{}).
			Where("review_id = ?", record.ReviewID).
			Updates(updates).Error; err != nil {
			return err
		}
		return s.maybeOpenDecision(tx, record.ArticleID, now)
	})
	if err != nil {
		return nil, err
	}

	record.Status = models.ReviewStatusCompleted
	record.SubmittedDate = &now
	record.Recommendation = &in.Recommendation
	record.Comments = &in.Comments
	record.ConfidentialComments = in.ConfidentialComments
	record.RatingOriginality = in.Ratings.Originality
	record.RatingMethodology = in.Ratings.Methodology
	record.RatingSignificance = in.Ratings.Significance
	record.RatingClarity = in.Ratings.Clarity
	record.RatingOverall = in.Ratings.Overall
	record.UpdateAt = now

	s.notifier.Notify(record.AssignedBy,
		"Review completed",
		fmt.Sprintf("A review for manuscript %s has been submitted (recommendation: %s).",
			record.Article.SubmissionNumber, in.Recommendation),
		"success", &record.ArticleID)

	return record, nil
}

// maybeOpenDecision creates the editorial decision for an article once at
// least minCompletedReviews reviews are completed and none exists yet. Runs
// inside the submit transaction; a duplicate-key error from the article_id
// unique index means another submission won the race and is not an error.
func (s *ReviewWorkflowService) maybeOpenDecision(tx *gorm.DB, articleID int, now time.Time) error {
	var completed []models.ReviewRecord
	if err := tx.Where("article_id = ? AND status = ?", articleID, models.ReviewStatusCompleted).
		Order("submitted_date ASC").
		Find(&completed).Error; err != nil {
		return err
	}
	if len(completed) < minCompletedReviews {
		return nil
	}

	var existing int64
	if err := tx.Model(&models.EditorialDecision{}).
		Where("article_id = ?", articleID).
		Count(&existing).Error; err != nil {
		return err
	}
	if existing > 0 {
		return nil
	}

	recs := make([]string, 0, len(completed))
	for _, r := range completed {
		if r.Recommendation != nil {
			recs = append(recs, *r.Recommendation)
		}
	}

	decision := models.EditorialDecision{
		ArticleID:            articleID,
		Status:               models.DecisionStatusPending,
		RecommendationsCount: len(completed),
		Priority:             models.DecisionPriorityNormal,
		CreateAt:             now,
		UpdateAt:             now,
	}
	decision.EncodeRecommendations(recs)

	if err := tx.Create(&decision).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil
		}
		return err
	}
	return nil
}

// MakeEditorialDecision records the editor's decision and propagates it onto
// the article. A decided decision is terminal: a second call fails with
// ErrInvalidState instead of silently overwriting the outcome.
func (s *ReviewWorkflowService) MakeEditorialDecision(decisionID int, decisionValue string, comments *string, editorID int) (*models.EditorialDecision, error) {
	if !models.ValidDecision(decisionValue) {
		return nil, fmt.Errorf("%w: unknown decision %q", ErrValidation, decisionValue)
	}

	var decision models.EditorialDecision
	if err := s.db.Where("decision_id = ?", decisionID).First(&decision).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: editorial decision %d", ErrNotFound, decisionID)
		}
		return nil, err
	}
	if decision.IsDecided() {
		return nil, fmt.Errorf("%w: editorial decision %d has already been made", ErrInvalidState, decisionID)
	}

	var article models.Article
	if err := s.db.Where("article_id = ? AND delete_at IS NULL", decision.ArticleID).First(&article).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: article %d", ErrNotFound, decision.ArticleID)
		}
		return nil, err
	}

	var editor models.User
	if err := s.db.Where("user_id = ? AND delete_at IS NULL", editorID).First(&editor).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: editor %d", ErrNotFound, editorID)
		}
		return nil, err
	}
	editorName := editor.DisplayName()

	now := time.Now()
	articleStatus := articleStatusForDecision(decisionValue)

	err := s.db.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"status":          models.DecisionStatusDecided,
			"decision":        decisionValue,
			"decided_by":      editorID,
			"decided_by_name": editorName,
			"decided_date":    now,
			"update_at":       now,
		}
		if comments != nil {
			updates["comments"] = *comments
		}
		if err := tx.Model(&models.EditorialDecision{}).
			Where("decision_id = ?", decision.DecisionID).
			Updates(updates).Error; err != nil {
			return err
		}

		articleUpdates := map[string]interface{}{
			"status":    articleStatus,
			"update_at": now,
		}
		if decisionValue == models.RecommendationAccept {
			articleUpdates["acceptance_date"] = now
		}
		return tx.Model(&models.Article{}).
			Where("article_id = ?", article.ArticleID).
			Updates(articleUpdates).Error
	})
	if err != nil {
		return nil, err
	}

	decision.Status = models.DecisionStatusDecided
	decision.Decision = &decisionValue
	decision.DecidedBy = &editorID
	decision.DecidedByName = &editorName
	decision.DecidedDate = &now
	decision.Comments = comments
	decision.UpdateAt = now

	s.notifier.Notify(article.CorrespondingAuthorID,
		"Editorial decision",
		fmt.Sprintf("An editorial decision has been made for manuscript %s (%q): %s.",
			article.SubmissionNumber, article.Title, decisionValue),
		"info", &article.ArticleID)

	return &decision, nil
}

func articleStatusForDecision(decision string) string {
	switch decision {
	case models.RecommendationAccept:
		return models.ArticleStatusAccepted
	case models.RecommendationReject:
		return models.ArticleStatusRejected
	default: // minor_revision, major_revision
		return models.ArticleStatusRevisionRequested
	}
}

// GetEditorialQueue returns all undecided decisions, most urgent first and
// oldest first within a priority.
func (s *ReviewWorkflowService) GetEditorialQueue() ([]models.EditorialDecision, error) {
	var queue []models.EditorialDecision
	err := s.db.Preload("Article").
		Where("status <> ?", models.DecisionStatusDecided).
		Order("CASE priority WHEN 'urgent' THEN 0 WHEN 'high' THEN 1 WHEN 'normal' THEN 2 ELSE 3 END").
		Order("create_at ASC").
		Find(&queue).Error
	if err != nil {
		return nil, err
	}
	return queue, nil
}

// ReviewerStats aggregates one reviewer's records.
type ReviewerStats struct {
	Total             int     `json:"total"`
	Completed         int     `json:"completed"`
	Pending           int     `json:"pending"`
	InProgress        int     `json:"in_progress"`
	Declined          int     `json:"declined"`
	Overdue           int     `json:"overdue"`
	AverageRating     float64 `json:"average_rating"`
	OnTimeSubmissions int     `json:"on_time_submissions"`
	CompletionRate    int     `json:"completion_rate"`
}

// GetReviewerStats computes the reviewer's aggregate. AverageRating is the
// mean of completed records' overall rating; CompletionRate is
// round(completed/total*100), 0 when the reviewer has no records.
func (s *ReviewWorkflowService) GetReviewerStats(reviewerID int) (*ReviewerStats, error) {
	var records []models.ReviewRecord
	if err := s.db.Where("reviewer_id = ?", reviewerID).Find(&records).Error; err != nil {
		return nil, err
	}

	stats := &ReviewerStats{Total: len(records)}
	ratingSum := 0
	rated := 0
	for _, r := range records {
		switch r.Status {
		case models.ReviewStatusCompleted:
			stats.Completed++
			if r.RatingOverall != nil {
				ratingSum += *r.RatingOverall
				rated++
			}
			if r.SubmittedDate != nil && !r.SubmittedDate.After(r.DueDate) {
				stats.OnTimeSubmissions++
			}
		case models.ReviewStatusPending:
			stats.Pending++
		case models.ReviewStatusInProgress:
			stats.InProgress++
		case models.ReviewStatusDeclined:
			stats.Declined++
		case models.ReviewStatusOverdue:
			stats.Overdue++
		}
	}
	if rated > 0 {
		stats.AverageRating = float64(ratingSum) / float64(rated)
	}
	if stats.Total > 0 {
		stats.CompletionRate = int(math.Round(float64(stats.Completed) / float64(stats.Total) * 100))
	}
	return stats, nil
}

// ListReviewsForReviewer returns the reviewer's records, optionally filtered
// by status, newest assignment first.
func (s *ReviewWorkflowService) ListReviewsForReviewer(reviewerID int, status string) ([]models.ReviewRecord, error) {
	q := s.db.Preload("Article").Where("reviewer_id = ?", reviewerID)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var records []models.ReviewRecord
	if err := q.Order("create_at DESC").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// ListReviewsForArticle returns every record of one article, oldest first.
func (s *ReviewWorkflowService) ListReviewsForArticle(articleID int) ([]models.ReviewRecord, error) {
	var exists int64
	if err := s.db.Model(&models.Article{}).
		Where("article_id = ? AND delete_at IS NULL", articleID).
		Count(&exists).Error; err != nil {
		return nil, err
	}
	if exists == 0 {
		return nil, fmt.Errorf("%w: article %d", ErrNotFound, articleID)
	}

	var records []models.ReviewRecord
	if err := s.db.Preload("Reviewer").
		Where("article_id = ?", articleID).
		Order("create_at ASC").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// MarkOverdueReviews flips pending and in_progress records whose due date has
// passed to overdue and returns how many were touched. Nothing inside the
// API server schedules this on its own; cmd/review-sweep (or the optional
// REVIEW_SWEEP_INTERVAL_HOURS ticker) drives it.
func (s *ReviewWorkflowService) MarkOverdueReviews(now time.Time) (int64, error) {
	res := s.db.Model(&models.ReviewRecord{}).
		Where("status IN ? AND due_date < ?",
			[]string{models.ReviewStatusPending, models.ReviewStatusInProgress}, now).
		Updates(map[string]interface{}{
			"status":    models.ReviewStatusOverdue,
			"update_at": now,
		})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func (s *ReviewWorkflowService) loadRecord(reviewID int) (*models.ReviewRecord, error) {
	var record models.ReviewRecord
	if err := s.db.Preload("Article").Where("review_id = ?", reviewID).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: review %d", ErrNotFound, reviewID)
		}
		return nil, err
	}
	return &record, nil
}

// ownedPendingRecord loads a record and checks the caller owns it and has not
// responded yet.
func (s *ReviewWorkflowService) ownedPendingRecord(reviewID, reviewerID int) (*models.ReviewRecord, error) {
	record, err := s.loadRecord(reviewID)
	if err != nil {
		return nil, err
	}
	if record.ReviewerID != reviewerID {
		return nil, fmt.Errorf("%w: review %d belongs to another reviewer", ErrForbidden, reviewID)
	}
	if record.Status != models.ReviewStatusPending {
		return nil, fmt.Errorf("%w: review %d has already been responded to (status %s)",
			ErrInvalidState, reviewID, record.Status)
	}
	return record, nil
}
