package services

import (
	"fmt"
	"html/template"
	"log"
	"strings"
	"time"

	"journal-management-api/config"
	"journal-management-api/models"

	"gorm.io/gorm"
)

// NotificationService persists in-app notifications and fans each one out to
// the recipient's email address. Email delivery is best-effort: failures are
// logged and never surface to the caller.
type NotificationService struct {
	db *gorm.DB
}

func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{db: db}
}

// Notify stores a notification row and sends the email copy in the
// background. Implements the workflow Notifier port.
func (s *NotificationService) Notify(userID int, title, message, kind string, articleID *int) {
	n := models.Notification{
		UserID:   uint(userID),
		Title:    title,
		Message:  message,
		Type:     kind,
		CreateAt: time.Now(),
	}
	if articleID != nil {
		id := uint(*articleID)
		n.RelatedArticleID = &id
	}
	if err := s.db.Create(&n).Error; err != nil {
		log.Printf("notification insert failed (user=%d title=%q): %v", userID, title, err)
		return
	}

	go s.emailCopy(userID, title, message)
}

func (s *NotificationService) emailCopy(userID int, subject, message string) {
	var user models.User
	if err := s.db.Select("user_id, prefix, user_fname, user_lname, email").
		Where("user_id = ? AND delete_at IS NULL", userID).
		First(&user).Error; err != nil {
		log.Printf("notification email skipped, user %d not found: %v", userID, err)
		return
	}
	if strings.TrimSpace(user.Email) == "" {
		return
	}

	html := buildEmailHTML(subject, user.DisplayName(), message)
	sendMailSafe([]string{user.Email}, subject, html)
}

func sendMailSafe(to []string, subject, html string) {
	if err := config.SendMail(to, subject, html); err != nil {
		log.Printf("notification email send failed (subject=%q to=%v): %v", subject, to, err)
	}
}

func buildEmailHTML(subject, recipientName, message string) string {
	name := strings.TrimSpace(recipientName)
	if name == "" {
		name = "Colleague"
	}

	escapedSubject := template.HTMLEscapeString(subject)
	escapedGreeting := template.HTMLEscapeString(fmt.Sprintf("Dear %s,", name))
	escapedMessage := template.HTMLEscapeString(strings.TrimSpace(message))
	escapedMessage = strings.ReplaceAll(strings.ReplaceAll(escapedMessage, "\r\n", "\n"), "\r", "\n")
	escapedMessage = strings.ReplaceAll(escapedMessage, "\n", "<br />")

	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>%s</title>
</head>
<body style="margin:0;padding:0;background-color:#f9fafb;font-family:'Segoe UI',Tahoma,Arial,sans-serif;">
<div style="max-width:640px;margin:0 auto;padding:24px 20px;">
  <div style="background-color:#ffffff;border:1px solid #e5e7eb;border-radius:12px;padding:24px 24px 28px 24px;">
    <p style="margin:0 0 16px 0;font-size:16px;line-height:1.7;color:#111827;">%s</p>
    <p style="margin:0 0 0 0;font-size:16px;line-height:1.7;color:#111827;word-break:break-word;">%s</p>
  </div>
</div>
</body>
</html>`, escapedSubject, escapedGreeting, escapedMessage)
}
