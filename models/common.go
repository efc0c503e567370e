package models

import "time"

// Document type values for article documents.
const (
	DocumentTypeManuscript       = "manuscript"
	DocumentTypeSupplementary    = "supplementary"
	DocumentTypeCoverLetter      = "cover_letter"
	DocumentTypeReviewAttachment = "review_attachment"
)

// FileUpload represents the file_uploads table
type FileUpload struct {
	FileID       int        `gorm:"primaryKey;column:file_id" json:"file_id"`
	OriginalName string     `gorm:"column:original_name" json:"original_name"`
	StoredPath   string     `gorm:"column:stored_path" json:"stored_path"`
	FileSize     int64      `gorm:"column:file_size" json:"file_size"`
	MimeType     string     `gorm:"column:mime_type" json:"mime_type"`
	UploadedBy   int        `gorm:"column:uploaded_by" json:"uploaded_by"`
	UploadedAt   time.Time  `gorm:"column:uploaded_at" json:"uploaded_at"`
	CreateAt     time.Time  `gorm:"column:create_at" json:"create_at"`
	UpdateAt     time.Time  `gorm:"column:update_at" json:"update_at"`
	DeleteAt     *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`

	// Relations
	Uploader User `gorm:"foreignKey:UploadedBy" json:"uploader,omitempty"`
}

// ArticleDocument links an uploaded file to an article (and optionally to a
// review record for reviewer attachments).
type ArticleDocument struct {
	DocumentID   int        `gorm:"primaryKey;column:document_id" json:"document_id"`
	ArticleID    int        `gorm:"column:article_id;index" json:"article_id"`
	FileID       int        `gorm:"column:file_id" json:"file_id"`
	DocumentType string     `gorm:"column:document_type;default:manuscript" json:"document_type"`
	ReviewID     *int       `gorm:"column:review_id" json:"review_id,omitempty"`
	CreateAt     time.Time  `gorm:"column:create_at" json:"create_at"`
	DeleteAt     *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`

	// Relations
	File    FileUpload `gorm:"foreignKey:FileID" json:"file,omitempty"`
	Article Article    `gorm:"foreignKey:ArticleID" json:"article,omitempty"`
}

// TableName overrides
func (FileUpload) TableName() string {
	return "file_uploads"
}

func (ArticleDocument) TableName() string {
	return "article_documents"
}

// Helper methods for file validation
func (f *FileUpload) IsValidDocumentType() bool {
	validTypes := []string{
		"application/pdf",
		"application/msword",
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		"application/zip",
	}
	for _, validType := range validTypes {
		if f.MimeType == validType {
			return true
		}
	}
	return false
}

func (f *FileUpload) GetFileSizeInMB() float64 {
	return float64(f.FileSize) / (1024 * 1024)
}

// ValidDocumentKind reports whether v is one of the document type values.
func ValidDocumentKind(v string) bool {
	switch v {
	case DocumentTypeManuscript, DocumentTypeSupplementary, DocumentTypeCoverLetter, DocumentTypeReviewAttachment:
		return true
	}
	return false
}
