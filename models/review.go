package models

import "time"

// Review record status values. completed, declined and overdue are terminal:
// no reviewer action succeeds against them.
const (
	ReviewStatusPending    = "pending"
	ReviewStatusInProgress = "in_progress"
	ReviewStatusCompleted  = "completed"
	ReviewStatusDeclined   = "declined"
	ReviewStatusOverdue    = "overdue"
)

// Reviewer recommendation values, set only when a review is submitted.
const (
	RecommendationAccept        = "accept"
	RecommendationMinorRevision = "minor_revision"
	RecommendationMajorRevision = "major_revision"
	RecommendationReject        = "reject"
)

// ReviewRecord is one reviewer's assignment and lifecycle state for one
// article. A reviewer holds at most one non-declined record per article.
type ReviewRecord struct {
	ReviewID   int    `gorm:"primaryKey;column:review_id" json:"review_id"`
	ArticleID  int    `gorm:"column:article_id;index:idx_review_article_reviewer" json:"article_id"`
	ReviewerID int    `gorm:"column:reviewer_id;index:idx_review_article_reviewer" json:"reviewer_id"`
	AssignedBy int    `gorm:"column:assigned_by" json:"assigned_by"`
	Status     string `gorm:"column:status;default:pending" json:"status"`

	DueDate       time.Time  `gorm:"column:due_date" json:"due_date"`
	AcceptedDate  *time.Time `gorm:"column:accepted_date" json:"accepted_date,omitempty"`
	DeclinedDate  *time.Time `gorm:"column:declined_date" json:"declined_date,omitempty"`
	SubmittedDate *time.Time `gorm:"column:submitted_date" json:"submitted_date,omitempty"`

	Recommendation       *string `gorm:"column:recommendation" json:"recommendation,omitempty"`
	Comments             *string `gorm:"column:comments" json:"comments,omitempty"`
	ConfidentialComments *string `gorm:"column:confidential_comments" json:"confidential_comments,omitempty"`
	Instructions         *string `gorm:"column:instructions" json:"instructions,omitempty"`

	// Five 1-5 sub-scores, all required on submission.
	RatingOriginality  *int `gorm:"column:rating_originality" json:"rating_originality,omitempty"`
	RatingMethodology  *int `gorm:"column:rating_methodology" json:"rating_methodology,omitempty"`
	RatingSignificance *int `gorm:"column:rating_significance" json:"rating_significance,omitempty"`
	RatingClarity      *int `gorm:"column:rating_clarity" json:"rating_clarity,omitempty"`
	RatingOverall      *int `gorm:"column:rating_overall" json:"rating_overall,omitempty"`

	IsAnonymous bool      `gorm:"column:is_anonymous" json:"is_anonymous"`
	CreateAt    time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt    time.Time `gorm:"column:update_at" json:"update_at"`

	// Relations
	Article  Article `gorm:"foreignKey:ArticleID" json:"article,omitempty"`
	Reviewer User    `gorm:"foreignKey:ReviewerID" json:"reviewer,omitempty"`
	Assigner User    `gorm:"foreignKey:AssignedBy" json:"assigner,omitempty"`
}

func (ReviewRecord) TableName() string {
	return "review_records"
}

// IsTerminal reports whether the record can no longer be acted on by the
// assigned reviewer.
func (r *ReviewRecord) IsTerminal() bool {
	switch r.Status {
	case ReviewStatusCompleted, ReviewStatusDeclined, ReviewStatusOverdue:
		return true
	}
	return false
}

// ValidRecommendation reports whether v is one of the recommendation enum
// values.
func ValidRecommendation(v string) bool {
	switch v {
	case RecommendationAccept, RecommendationMinorRevision, RecommendationMajorRevision, RecommendationReject:
		return true
	}
	return false
}
