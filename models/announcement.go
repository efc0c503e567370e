package models

import "time"

// Announcement represents the announcements table (journal news, calls for
// papers, issue releases).
type Announcement struct {
	AnnouncementID int     `gorm:"primaryKey;column:announcement_id" json:"announcement_id"`
	Title          string  `gorm:"column:title" json:"title"`
	Body           string  `gorm:"column:body" json:"body"`
	Type           string  `gorm:"column:type;default:general" json:"type"` // general|call_for_papers|issue_release
	Priority       string  `gorm:"column:priority;default:normal" json:"priority"`
	Status         string  `gorm:"column:status;default:active" json:"status"`
	DisplayOrder   *int    `gorm:"column:display_order" json:"display_order,omitempty"`

	PublishedAt *time.Time `gorm:"column:published_at" json:"published_at,omitempty"`
	ExpiredAt   *time.Time `gorm:"column:expired_at" json:"expired_at,omitempty"`

	CreatedBy int        `gorm:"column:created_by" json:"created_by"`
	CreateAt  time.Time  `gorm:"column:create_at" json:"create_at"`
	UpdateAt  time.Time  `gorm:"column:update_at" json:"update_at"`
	DeleteAt  *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`

	Creator User `gorm:"foreignKey:CreatedBy" json:"creator,omitempty"`
}

func (Announcement) TableName() string {
	return "announcements"
}

// IsExpired reports whether the announcement's display window has passed.
func (a *Announcement) IsExpired() bool {
	if a.ExpiredAt == nil {
		return false
	}
	return a.ExpiredAt.Before(time.Now())
}

// IsActive reports whether the announcement should be shown.
func (a *Announcement) IsActive() bool {
	return a.Status == "active" && !a.IsExpired()
}
