package services

import (
	"fmt"
	"testing"
	"time"

	"journal-management-api/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens an in-memory database with the full schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&models.Role{},
		&models.User{},
		&models.Article{},
		&models.ArticleAuthor{},
		&models.ReviewRecord{},
		&models.EditorialDecision{},
		&models.Notification{},
		&models.Announcement{},
		&models.Volume{},
		&models.Issue{},
		&models.FileUpload{},
		&models.ArticleDocument{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test schema: %v", err)
	}
	return db
}

// fakeNotifier records workflow notifications instead of delivering them.
type fakeNotifier struct {
	sent []sentNotification
}

type sentNotification struct {
	UserID    int
	Title     string
	Kind      string
	ArticleID *int
}

func (f *fakeNotifier) Notify(userID int, title, message, kind string, articleID *int) {
	f.sent = append(f.sent, sentNotification{UserID: userID, Title: title, Kind: kind, ArticleID: articleID})
}

func newTestService(t *testing.T) (*ReviewWorkflowService, *gorm.DB, *fakeNotifier) {
	t.Helper()
	db := newTestDB(t)
	notifier := &fakeNotifier{}
	return NewReviewWorkflowService(db, notifier), db, notifier
}

var userSeq int

func seedUser(t *testing.T, db *gorm.DB, roleID int) *models.User {
	t.Helper()
	userSeq++
	now := time.Now()
	user := &models.User{
		UserFname: fmt.Sprintf("Test%d", userSeq),
		UserLname: "User",
		Email:     fmt.Sprintf("user%d@journal.test", userSeq),
		Password:  "irrelevant",
		RoleID:    roleID,
		CreateAt:  &now,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	return user
}

func seedArticle(t *testing.T, db *gorm.DB, authorID int, status string) *models.Article {
	t.Helper()
	userSeq++
	now := time.Now()
	article := &models.Article{
		SubmissionNumber:      fmt.Sprintf("MS-2026-%08d", userSeq),
		Title:                 "A Study of Editorial Workflows",
		Status:                status,
		CorrespondingAuthorID: authorID,
		CreateAt:              now,
		UpdateAt:              now,
	}
	if status != models.ArticleStatusDraft {
		article.SubmittedAt = &now
	}
	if err := db.Create(article).Error; err != nil {
		t.Fatalf("failed to seed article: %v", err)
	}
	return article
}

func intPtr(v int) *int { return &v }

func allRatings(v int) ReviewRatings {
	return ReviewRatings{
		Originality:  intPtr(v),
		Methodology:  intPtr(v),
		Significance: intPtr(v),
		Clarity:      intPtr(v),
		Overall:      intPtr(v),
	}
}

// assignAndAccept walks a fresh record to in_progress.
func assignAndAccept(t *testing.T, svc *ReviewWorkflowService, articleID, reviewerID, editorID int) *models.ReviewRecord {
	t.Helper()
	record, err := svc.AssignReviewer(AssignReviewerInput{
		ArticleID:  articleID,
		ReviewerID: reviewerID,
		AssignedBy: editorID,
		DueDate:    time.Now().Add(14 * 24 * time.Hour),
	})
	if err != nil {
		t.Fatalf("AssignReviewer failed: %v", err)
	}
	accepted, err := svc.AcceptReview(record.ReviewID, reviewerID)
	if err != nil {
		t.Fatalf("AcceptReview failed: %v", err)
	}
	return accepted
}
