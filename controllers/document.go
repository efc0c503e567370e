package controllers

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"journal-management-api/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func uploadPath() string {
	p := os.Getenv("UPLOAD_PATH")
	if p == "" {
		p = "./uploads"
	}
	return p
}

// UploadArticleDocument stores a manuscript or supplementary file for an
// article. Multipart form: file, document_type.
func UploadArticleDocument(c *gin.Context) {
	uid, ok := getCurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	roleID, _ := getCurrentRoleID(c)

	articleID, err := strconv.Atoi(c.Param("id"))
	if err != nil || articleID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid article id"})
		return
	}

	db := getDB()
	var article models.Article
	if err := db.Where("article_id = ? AND delete_at IS NULL", articleID).First(&article).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "article not found"})
		return
	}
	if !canSeeArticle(uid, roleID, &article) {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}

	docType := strings.TrimSpace(c.PostForm("document_type"))
	if docType == "" {
		docType = models.DocumentTypeManuscript
	}
	if !models.ValidDocumentKind(docType) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown document_type"})
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}

	stored := fmt.Sprintf("%s%s", uuid.New().String(), filepath.Ext(file.Filename))
	dest := filepath.Join(uploadPath(), stored)
	if err := c.SaveUploadedFile(file, dest); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store file"})
		return
	}

	now := time.Now()
	upload := models.FileUpload{
		OriginalName: file.Filename,
		StoredPath:   dest,
		FileSize:     file.Size,
		MimeType:     file.Header.Get("Content-Type"),
		UploadedBy:   uid,
		UploadedAt:   now,
		CreateAt:     now,
		UpdateAt:     now,
	}
	doc := models.ArticleDocument{
		ArticleID:    articleID,
		DocumentType: docType,
		CreateAt:     now,
	}
	if err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&upload).Error; err != nil {
			return err
		}
		doc.FileID = upload.FileID
		return tx.Create(&doc).Error
	}); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"document": doc, "file": upload})
}

// GetArticleDocuments lists an article's documents.
func GetArticleDocuments(c *gin.Context) {
	uid, ok := getCurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	roleID, _ := getCurrentRoleID(c)

	articleID, err := strconv.Atoi(c.Param("id"))
	if err != nil || articleID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid article id"})
		return
	}

	db := getDB()
	var article models.Article
	if err := db.Where("article_id = ? AND delete_at IS NULL", articleID).First(&article).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "article not found"})
		return
	}
	if !canSeeArticle(uid, roleID, &article) {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}

	var docs []models.ArticleDocument
	if err := db.Preload("File").
		Where("article_id = ? AND delete_at IS NULL", articleID).
		Order("create_at ASC").
		Find(&docs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"documents": docs})
}

// DownloadDocument streams a stored file if the caller may see its article.
func DownloadDocument(c *gin.Context) {
	uid, ok := getCurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	roleID, _ := getCurrentRoleID(c)

	documentID, err := strconv.Atoi(c.Param("document_id"))
	if err != nil || documentID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid document id"})
		return
	}

	db := getDB()
	var doc models.ArticleDocument
	if err := db.Preload("File").Preload("Article").
		Where("document_id = ? AND delete_at IS NULL", documentID).
		First(&doc).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "document not found"})
		return
	}
	if !canSeeArticle(uid, roleID, &doc.Article) {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}

	if _, err := os.Stat(doc.File.StoredPath); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "stored file missing"})
		return
	}

	c.FileAttachment(doc.File.StoredPath, doc.File.OriginalName)
}
