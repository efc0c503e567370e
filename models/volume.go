package models

import "time"

// Volume and issue status values.
const (
	VolumeStatusOpen      = "open"
	VolumeStatusPublished = "published"
	VolumeStatusArchived  = "archived"
)

// Volume groups the issues of one publication year.
type Volume struct {
	VolumeID     int        `gorm:"primaryKey;column:volume_id" json:"volume_id"`
	VolumeNumber int        `gorm:"column:volume_number" json:"volume_number"`
	Year         int        `gorm:"column:year" json:"year"`
	Title        *string    `gorm:"column:title" json:"title,omitempty"`
	Status       string     `gorm:"column:status;default:open" json:"status"`
	CreateAt     time.Time  `gorm:"column:create_at" json:"create_at"`
	UpdateAt     time.Time  `gorm:"column:update_at" json:"update_at"`
	DeleteAt     *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`

	Issues []Issue `gorm:"foreignKey:VolumeID" json:"issues,omitempty"`
}

// Issue is one published collection of articles inside a volume.
type Issue struct {
	IssueID     int        `gorm:"primaryKey;column:issue_id" json:"issue_id"`
	VolumeID    int        `gorm:"column:volume_id;index" json:"volume_id"`
	IssueNumber int        `gorm:"column:issue_number" json:"issue_number"`
	Title       *string    `gorm:"column:title" json:"title,omitempty"`
	Status      string     `gorm:"column:status;default:open" json:"status"`
	PublishedAt *time.Time `gorm:"column:published_at" json:"published_at,omitempty"`
	CreateAt    time.Time  `gorm:"column:create_at" json:"create_at"`
	UpdateAt    time.Time  `gorm:"column:update_at" json:"update_at"`
	DeleteAt    *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`

	Volume Volume `gorm:"foreignKey:VolumeID" json:"volume,omitempty"`
}

func (Volume) TableName() string {
	return "volumes"
}

func (Issue) TableName() string {
	return "issues"
}
