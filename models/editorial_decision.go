package models

import (
	"encoding/json"
	"time"
)

// Editorial decision status values.
const (
	DecisionStatusPending     = "pending"
	DecisionStatusUnderReview = "under_review"
	DecisionStatusDecided     = "decided"
)

// Editorial decision priority values, highest first in the queue.
const (
	DecisionPriorityLow    = "low"
	DecisionPriorityNormal = "normal"
	DecisionPriorityHigh   = "high"
	DecisionPriorityUrgent = "urgent"
)

// EditorialDecision aggregates the completed reviews of one article into the
// record an editor decides on. The unique index on article_id guarantees at
// most one decision per article even under concurrent review submissions.
type EditorialDecision struct {
	DecisionID int     `gorm:"primaryKey;column:decision_id" json:"decision_id"`
	ArticleID  int     `gorm:"column:article_id;uniqueIndex" json:"article_id"`
	Status     string  `gorm:"column:status;default:pending" json:"status"`
	Decision   *string `gorm:"column:decision" json:"decision,omitempty"`

	RecommendationsCount int    `gorm:"column:recommendations_count" json:"recommendations_count"`
	Recommendations      string `gorm:"column:recommendations" json:"recommendations"` // JSON array, submission order

	DecidedBy     *int       `gorm:"column:decided_by" json:"decided_by,omitempty"`
	DecidedByName *string    `gorm:"column:decided_by_name" json:"decided_by_name,omitempty"`
	DecidedDate   *time.Time `gorm:"column:decided_date" json:"decided_date,omitempty"`

	Priority string  `gorm:"column:priority;default:normal" json:"priority"`
	Notes    *string `gorm:"column:notes" json:"notes,omitempty"`
	Comments *string `gorm:"column:comments" json:"comments,omitempty"`

	CreateAt time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt time.Time `gorm:"column:update_at" json:"update_at"`

	// Relations
	Article Article `gorm:"foreignKey:ArticleID" json:"article,omitempty"`
}

func (EditorialDecision) TableName() string {
	return "editorial_decisions"
}

// RecommendationList decodes the stored JSON recommendation list.
func (d *EditorialDecision) RecommendationList() []string {
	if d.Recommendations == "" {
		return nil
	}
	var out []string
	if err := json.Unmarshal([]byte(d.Recommendations), &out); err != nil {
		return nil
	}
	return out
}

// EncodeRecommendations stores the list as JSON, keeping submission order.
func (d *EditorialDecision) EncodeRecommendations(recs []string) {
	b, err := json.Marshal(recs)
	if err != nil {
		d.Recommendations = "[]"
		return
	}
	d.Recommendations = string(b)
}

// IsDecided reports whether the decision is terminal.
func (d *EditorialDecision) IsDecided() bool {
	return d.Status == DecisionStatusDecided
}

// ValidDecision reports whether v is one of the decision enum values.
// The decision enum shares its values with reviewer recommendations.
func ValidDecision(v string) bool {
	return ValidRecommendation(v)
}

// ValidDecisionPriority reports whether v is one of the priority values.
func ValidDecisionPriority(v string) bool {
	switch v {
	case DecisionPriorityLow, DecisionPriorityNormal, DecisionPriorityHigh, DecisionPriorityUrgent:
		return true
	}
	return false
}
