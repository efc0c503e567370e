package controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"journal-management-api/config"
	"journal-management-api/middleware"
	"journal-management-api/models"
	"journal-management-api/routes"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	t.Setenv("JWT_SECRET", "e2e-test-secret")

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to access underlying database: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(
		&models.Role{}, &models.User{},
		&models.Article{}, &models.ArticleAuthor{},
		&models.ReviewRecord{}, &models.EditorialDecision{},
		&models.Notification{}, &models.Announcement{},
		&models.Volume{}, &models.Issue{},
		&models.FileUpload{}, &models.ArticleDocument{},
	); err != nil {
		t.Fatalf("failed to migrate schema: %v", err)
	}

	config.DB = db

	router := gin.New()
	routes.SetupRoutes(router)
	return router, db
}

var userSeq int

func seedUser(t *testing.T, db *gorm.DB, roleID int, password string) *models.User {
	t.Helper()
	userSeq++
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	now := time.Now()
	user := &models.User{
		UserFname: fmt.Sprintf("Test%d", userSeq),
		UserLname: "User",
		Email:     fmt.Sprintf("user%d@journal.test", userSeq),
		Password:  string(hashed),
		RoleID:    roleID,
		CreateAt:  &now,
		UpdateAt:  &now,
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
		Title:                 "Latency Bounds in Distributed Consensus",
		Status:                status,
		CorrespondingAuthorID: authorID,
		CreateAt:              now,
		UpdateAt:              now,
	}
	if err := db.Create(article).Error; err != nil {
		t.Fatalf("failed to seed article: %v", err)
	}
	return article
}

func tokenFor(t *testing.T, user *models.User) string {
	t.Helper()
	claims := middleware.Claims{
		UserID: user.UserID,
		Email:  user.Email,
		RoleID: user.RoleID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).
		SignedString([]byte(os.Getenv("JWT_SECRET")))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return signed
}

func doJSON(t *testing.T, router *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal request body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
		t.Fatalf("failed to decode response %q: %v", w.Body.String(), err)
	}
}

func TestLoginAndProfile(t *testing.T) {
	router, db := setupRouter(t)
	user := seedUser(t, db, models.RoleAuthor, "s3cure-enough-PW")

	w := doJSON(t, router, http.MethodPost, "/api/v1/login", "", gin.H{
		"email":    user.Email,
		"password": "s3cure-enough-PW",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 from login, got %d: %s", w.Code, w.Body.String())
	}
	var login struct {
		Token string `json:"token"`
	}
	decodeBody(t, w, &login)
	if login.Token == "" {
		t.Fatal("expected a token in the login response")
	}

	w = doJSON(t, router, http.MethodPost, "/api/v1/login", "", gin.H{
		"email":    user.Email,
		"password": "wrong-password",
	})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for a bad password, got %d", w.Code)
	}

	w = doJSON(t, router, http.MethodGet, "/api/v1/profile", login.Token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 from profile, got %d: %s", w.Code, w.Body.String())
	}
	var profile struct {
		User models.User `json:"user"`
	}
	decodeBody(t, w, &profile)
	if profile.User.UserID != user.UserID {
		t.Fatalf("expected profile of user %d, got %d", user.UserID, profile.User.UserID)
	}

	if w := doJSON(t, router, http.MethodGet, "/api/v1/profile", "", nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without a token, got %d", w.Code)
	}
}

func TestReviewWorkflowOverHTTP(t *testing.T) {
	router, db := setupRouter(t)

	author := seedUser(t, db, models.RoleAuthor, "pw-author-123456")
	editor := seedUser(t, db, models.RoleAssociateEditor, "pw-editor-123456")
	chief := seedUser(t, db, models.RoleEditorInChief, "pw-chief-1234567")
	r1 := seedUser(t, db, models.RoleReviewer, "pw-reviewer-12345")
	r2 := seedUser(t, db, models.RoleReviewer, "pw-reviewer-67890")
	article := seedArticle(t, db, author.UserID, models.ArticleStatusSubmitted)

	editorToken := tokenFor(t, editor)
	chiefToken := tokenFor(t, chief)
	r1Token := tokenFor(t, r1)
	r2Token := tokenFor(t, r2)

	due := time.Now().Add(14 * 24 * time.Hour).Format("2006-01-02")

	assign := func(reviewerID int) int {
		w := doJSON(t, router, http.MethodPost, "/api/v1/review-workflow/assign-reviewer", editorToken, gin.H{
			"article_id":  article.ArticleID,
			"reviewer_id": reviewerID,
			"due_date":    due,
		})
		if w.Code != http.StatusCreated {
			t.Fatalf("expected 201 from assign, got %d: %s", w.Code, w.Body.String())
		}
		var resp struct {
			Review models.ReviewRecord `json:"review"`
		}
		decodeBody(t, w, &resp)
		return resp.Review.ReviewID
	}

	review1 := assign(r1.UserID)
	review2 := assign(r2.UserID)

	// Duplicate active assignment is rejected.
	w := doJSON(t, router, http.MethodPost, "/api/v1/review-workflow/assign-reviewer", editorToken, gin.H{
		"article_id":  article.ArticleID,
		"reviewer_id": r1.UserID,
		"due_date":    due,
	})
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409 for a duplicate assignment, got %d: %s", w.Code, w.Body.String())
	}

	// The invitation landed in the reviewer's notifications.
	w = doJSON(t, router, http.MethodGet, "/api/v1/notifications", r1Token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 from notifications, got %d: %s", w.Code, w.Body.String())
	}
	var notifications struct {
		Items []models.Notification `json:"items"`
	}
	decodeBody(t, w, &notifications)
	if len(notifications.Items) != 1 {
		t.Fatalf("expected 1 notification for the invited reviewer, got %d", len(notifications.Items))
	}

	accept := func(reviewID int, token string) {
		w := doJSON(t, router, http.MethodPost,
			fmt.Sprintf("/api/v1/review-workflow/reviews/%d/accept", reviewID), token, nil)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200 from accept, got %d: %s", w.Code, w.Body.String())
		}
	}
	submit := func(reviewID int, token, recommendation string) {
		w := doJSON(t, router, http.MethodPost,
			fmt.Sprintf("/api/v1/review-workflow/reviews/%d/submit", reviewID), token, gin.H{
				"recommendation": recommendation,
				"comments":       "Detailed comments for the authors.",
				"ratings": gin.H{
					"originality":  4,
					"methodology":  4,
					"significance": 4,
					"clarity":      4,
					"overall":      4,
				},
			})
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200 from submit, got %d: %s", w.Code, w.Body.String())
		}
	}

	accept(review1, r1Token)

	// Submitting someone else's review is forbidden.
	w = doJSON(t, router, http.MethodPost,
		fmt.Sprintf("/api/v1/review-workflow/reviews/%d/submit", review1), r2Token, gin.H{
			"recommendation": models.RecommendationAccept,
			"comments":       "n/a",
			"ratings": gin.H{
				"originality": 3, "methodology": 3, "significance": 3, "clarity": 3, "overall": 3,
			},
		})
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 submitting a foreign review, got %d: %s", w.Code, w.Body.String())
	}

	submit(review1, r1Token, models.RecommendationAccept)
	accept(review2, r2Token)
	time.Sleep(5 * time.Millisecond)
	submit(review2, r2Token, models.RecommendationMinorRevision)

	// Two completed reviews opened the editorial decision.
	w = doJSON(t, router, http.MethodGet, "/api/v1/review-workflow/editorial/queue", editorToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 from queue, got %d: %s", w.Code, w.Body.String())
	}
	var queue struct {
		Queue []models.EditorialDecision `json:"queue"`
	}
	decodeBody(t, w, &queue)
	if len(queue.Queue) != 1 {
		t.Fatalf("expected 1 pending decision in the queue, got %d", len(queue.Queue))
	}
	decisionID := queue.Queue[0].DecisionID
	if queue.Queue[0].RecommendationsCount != 2 {
		t.Fatalf("expected recommendations_count 2, got %d", queue.Queue[0].RecommendationsCount)
	}

	// The associate editor may not decide; only the editor-in-chief can.
	w = doJSON(t, router, http.MethodPost,
		fmt.Sprintf("/api/v1/review-workflow/editorial-decision/%d", decisionID), editorToken, gin.H{
			"decision": models.RecommendationAccept,
		})
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for an associate editor deciding, got %d: %s", w.Code, w.Body.String())
	}

	w = doJSON(t, router, http.MethodPost,
		fmt.Sprintf("/api/v1/review-workflow/editorial-decision/%d", decisionID), chiefToken, gin.H{
			"decision": models.RecommendationAccept,
		})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 from decision, got %d: %s", w.Code, w.Body.String())
	}

	var reloaded models.Article
	if err := db.First(&reloaded, "article_id = ?", article.ArticleID).Error; err != nil {
		t.Fatalf("failed to reload article: %v", err)
	}
	if reloaded.Status != models.ArticleStatusAccepted {
		t.Fatalf("expected article accepted after the decision, got %s", reloaded.Status)
	}

	// Deciding twice fails and the queue is empty again.
	w = doJSON(t, router, http.MethodPost,
		fmt.Sprintf("/api/v1/review-workflow/editorial-decision/%d", decisionID), chiefToken, gin.H{
			"decision": models.RecommendationReject,
		})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 deciding twice, got %d: %s", w.Code, w.Body.String())
	}

	w = doJSON(t, router, http.MethodGet, "/api/v1/review-workflow/editorial/queue", editorToken, nil)
	decodeBody(t, w, &queue)
	if len(queue.Queue) != 0 {
		t.Fatalf("expected an empty queue after the decision, got %d entries", len(queue.Queue))
	}

	// Reviewer-side stats reflect the completed review.
	w = doJSON(t, router, http.MethodGet, "/api/v1/review-workflow/my-stats", r1Token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 from my-stats, got %d: %s", w.Code, w.Body.String())
	}
	var stats struct {
		Stats struct {
			Total     int `json:"total"`
			Completed int `json:"completed"`
		} `json:"stats"`
	}
	decodeBody(t, w, &stats)
	if stats.Stats.Total != 1 || stats.Stats.Completed != 1 {
		t.Fatalf("unexpected reviewer stats: %+v", stats.Stats)
	}
}

func TestCreateArticleSanitizesInput(t *testing.T) {
	router, db := setupRouter(t)

	author := seedUser(t, db, models.RoleAuthor, "pw-author-123456")
	token := tokenFor(t, author)

	w := doJSON(t, router, http.MethodPost, "/api/v1/articles", token, gin.H{
		"title": "  Peer Review at Scale\x00  ",
		"authors": []gin.H{
			{"first_name": "  Ada ", "last_name": "Lovelace", "email": "ada@example.org"},
		},
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 from create, got %d: %s", w.Code, w.Body.String())
	}
	var created struct {
		Article models.Article `json:"article"`
	}
	decodeBody(t, w, &created)
	if created.Article.Title != "Peer Review at Scale" {
		t.Fatalf("expected padding and null bytes stripped from the title, got %q", created.Article.Title)
	}
	if len(created.Article.Authors) != 1 || created.Article.Authors[0].FirstName != "Ada" {
		t.Fatalf("expected sanitized author names, got %+v", created.Article.Authors)
	}

	w = doJSON(t, router, http.MethodPost, "/api/v1/articles", token, gin.H{
		"title": "Another Manuscript",
		"authors": []gin.H{
			{"first_name": "No", "last_name": "Address", "email": "not-an-email"},
		},
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for an invalid author email, got %d: %s", w.Code, w.Body.String())
	}
}

func TestWorkflowRouteRoleEnforcement(t *testing.T) {
	router, db := setupRouter(t)

	author := seedUser(t, db, models.RoleAuthor, "pw-author-123456")
	reviewer := seedUser(t, db, models.RoleReviewer, "pw-reviewer-12345")
	article := seedArticle(t, db, author.UserID, models.ArticleStatusSubmitted)

	authorToken := tokenFor(t, author)
	reviewerToken := tokenFor(t, reviewer)

	w := doJSON(t, router, http.MethodPost, "/api/v1/review-workflow/assign-reviewer", reviewerToken, gin.H{
		"article_id":  article.ArticleID,
		"reviewer_id": reviewer.UserID,
		"due_date":    "2026-10-01",
	})
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for a reviewer assigning, got %d: %s", w.Code, w.Body.String())
	}

	if w := doJSON(t, router, http.MethodGet, "/api/v1/review-workflow/editorial/queue", authorToken, nil); w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for an author reading the queue, got %d", w.Code)
	}

	if w := doJSON(t, router, http.MethodGet, "/api/v1/review-workflow/editorial/queue", "", nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without a token, got %d", w.Code)
	}
}
