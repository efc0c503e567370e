package models

import "time"

// Article status values.
const (
	ArticleStatusDraft             = "draft"
	ArticleStatusSubmitted         = "submitted"
	ArticleStatusUnderReview       = "under_review"
	ArticleStatusRevisionRequested = "revision_requested"
	ArticleStatusAccepted          = "accepted"
	ArticleStatusPublished         = "published"
	ArticleStatusRejected          = "rejected"
)

// Article represents a manuscript and its editorial state.
type Article struct {
	ArticleID             int        `gorm:"primaryKey;column:article_id" json:"article_id"`
	SubmissionNumber      string     `gorm:"column:submission_number;unique" json:"submission_number"`
	Title                 string     `gorm:"column:title" json:"title"`
	Abstract              *string    `gorm:"column:abstract" json:"abstract,omitempty"`
	Keywords              *string    `gorm:"column:keywords" json:"keywords,omitempty"`
	Status                string     `gorm:"column:status;default:draft" json:"status"`
	CorrespondingAuthorID int        `gorm:"column:corresponding_author_id" json:"corresponding_author_id"`
	VolumeID              *int       `gorm:"column:volume_id" json:"volume_id,omitempty"`
	IssueID               *int       `gorm:"column:issue_id" json:"issue_id,omitempty"`
	SubmittedAt           *time.Time `gorm:"column:submitted_at" json:"submitted_at,omitempty"`
	AcceptanceDate        *time.Time `gorm:"column:acceptance_date" json:"acceptance_date,omitempty"`
	PublishedAt           *time.Time `gorm:"column:published_at" json:"published_at,omitempty"`
	CreateAt              time.Time  `gorm:"column:create_at" json:"create_at"`
	UpdateAt              time.Time  `gorm:"column:update_at" json:"update_at"`
	DeleteAt              *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`

	// Relations
	Authors             []ArticleAuthor `gorm:"foreignKey:ArticleID" json:"authors,omitempty"`
	CorrespondingAuthor User            `gorm:"foreignKey:CorrespondingAuthorID" json:"corresponding_author,omitempty"`
}

// ArticleAuthor is one listed author of an article, in byline order.
// The corresponding author additionally has a user account referenced
// from articles.corresponding_author_id.
type ArticleAuthor struct {
	AuthorID        int     `gorm:"primaryKey;column:author_id" json:"author_id"`
	ArticleID       int     `gorm:"column:article_id;index" json:"article_id"`
	FirstName       string  `gorm:"column:first_name" json:"first_name"`
	LastName        string  `gorm:"column:last_name" json:"last_name"`
	Email           string  `gorm:"column:email" json:"email"`
	Affiliation     *string `gorm:"column:affiliation" json:"affiliation,omitempty"`
	AuthorOrder     int     `gorm:"column:author_order" json:"author_order"`
	IsCorresponding bool    `gorm:"column:is_corresponding" json:"is_corresponding"`
}

func (Article) TableName() string {
	return "articles"
}

func (ArticleAuthor) TableName() string {
	return "article_authors"
}

// AcceptsReviewers reports whether reviewers may still be assigned.
func (a *Article) AcceptsReviewers() bool {
	return a.Status == ArticleStatusSubmitted || a.Status == ArticleStatusUnderReview
}
