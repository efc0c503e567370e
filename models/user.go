package models

import (
	"strings"
	"time"
)

// Role IDs match the roles table seed data.
const (
	RoleAuthor             = 1
	RoleReviewer           = 2
	RoleEditorialAssistant = 3
	RoleAssociateEditor    = 4
	RoleEditorialBoard     = 5
	RoleEditorInChief      = 6
	RoleAdmin              = 7
)

type User struct {
	UserID      int        `gorm:"primaryKey;column:user_id" json:"user_id"`
	Prefix      *string    `gorm:"column:prefix" json:"prefix,omitempty"`
	UserFname   string     `gorm:"column:user_fname" json:"user_fname"`
	UserLname   string     `gorm:"column:user_lname" json:"user_lname"`
	Email       string     `gorm:"column:email;unique" json:"email"`
	Password    string     `gorm:"column:password" json:"-"`
	RoleID      int        `gorm:"column:role_id" json:"role_id"`
	Affiliation *string    `gorm:"column:affiliation" json:"affiliation,omitempty"`
	OrcidID     *string    `gorm:"column:orcid_id" json:"orcid_id,omitempty"`
	CreateAt    *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt    *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt    *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`

	// Relations
	Role Role `gorm:"foreignKey:RoleID" json:"role,omitempty"`
}

type Role struct {
	RoleID   int        `gorm:"primaryKey;column:role_id" json:"role_id"`
	Role     string     `gorm:"column:role" json:"role"`
	CreateAt *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`
}

// TableName overrides
func (User) TableName() string {
	return "users"
}

func (Role) TableName() string {
	return "roles"
}

// DisplayName joins prefix and name parts for notifications and emails.
func (u *User) DisplayName() string {
	parts := make([]string, 0, 3)
	if u.Prefix != nil && strings.TrimSpace(*u.Prefix) != "" {
		parts = append(parts, strings.TrimSpace(*u.Prefix))
	}
	if strings.TrimSpace(u.UserFname) != "" {
		parts = append(parts, strings.TrimSpace(u.UserFname))
	}
	if strings.TrimSpace(u.UserLname) != "" {
		parts = append(parts, strings.TrimSpace(u.UserLname))
	}
	return strings.Join(parts, " ")
}

// IsReviewerCapable reports whether a role may sit on a review panel.
// Editorial assistants handle logistics only and authors never review.
func IsReviewerCapable(roleID int) bool {
	switch roleID {
	case RoleReviewer, RoleAssociateEditor, RoleEditorialBoard, RoleEditorInChief:
		return true
	}
	return false
}

// IsEditorRole reports whether a role can see the editorial side of the
// workflow (queues, all reviews of an article).
func IsEditorRole(roleID int) bool {
	switch roleID {
	case RoleAssociateEditor, RoleEditorialBoard, RoleEditorInChief, RoleAdmin:
		return true
	}
	return false
}
