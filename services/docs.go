package services

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"orgst/models"
)

// Roles allowed to read mentors_only documents
var mentorDocRoles = []string{"mentor", "coach"}

// CreateDocumentInput is the typed input for CreateDocument
type CreateDocumentInput struct {
	Title      string
	BodyMD     string
	CreatedBy  *models.User
	Visibility string
	TagNames   []string
	ProjectID  *uint
}

// CreateDocument creates a wiki document with its first version and tags.
// Slugs are derived from the title and suffixed on collision so they stay
// unique.
func CreateDocument(db *gorm.DB, in CreateDocumentInput) (*models.Document, error) {
	visibility := in.Visibility
	if visibility == "" {
		visibility = models.DocCommunity
	}

	var doc models.Document
	err := db.Transaction(func(tx *gorm.DB) error {
		slug, err := uniqueSlug(tx, models.BuildSlug(in.Title))
		if err != nil {
			return err
		}

		doc = models.Document{
			Slug:        slug,
			Title:       in.Title,
			Visibility:  visibility,
			ProjectID:   in.ProjectID,
			CreatedByID: in.CreatedBy.ID,
		}
		if err := tx.Create(&doc).Error; err != nil {
			return err
		}

		if err := tx.Create(&models.DocumentVersion{
			DocumentID:    doc.ID,
			VersionNumber: 1,
			BodyMD:        in.BodyMD,
			AuthoredByID:  in.CreatedBy.ID,
		}).Error; err != nil {
			return err
		}

		seen := make(map[string]bool)
		for _, name := range in.TagNames {
			name = strings.TrimSpace(name)
			if name == "" || seen[name] {
				continue
			}
			seen[name] = true

			tag := models.DocTag{Name: name}
			if err := tx.Where("name = ?", name).FirstOrCreate(&tag).Error; err != nil {
				return err
			}
			if err := tx.Create(&models.DocumentTag{
				DocumentID: doc.ID,
				DocTagID:   tag.ID,
			}).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// AddVersion appends the next revision of a document body
func AddVersion(db *gorm.DB, doc *models.Document, bodyMD string, authoredBy *models.User) (*models.DocumentVersion, error) {
	var version models.DocumentVersion
	err := db.Transaction(func(tx *gorm.DB) error {
		// Lock the document row so concurrent writers get distinct numbers.
		var locked models.Document
		if err := lockForUpdate(tx).First(&locked, doc.ID).Error; err != nil {
			return err
		}

		var last int
		row := tx.Model(&models.DocumentVersion{}).
			Where("document_id = ?", doc.ID).
			Select("COALESCE(MAX(version_number), 0)").
			Row()
		if err := row.Scan(&last); err != nil {
			return err
		}

		version = models.DocumentVersion{
			DocumentID:    doc.ID,
			VersionNumber: last + 1,
			BodyMD:        bodyMD,
			AuthoredByID:  authoredBy.ID,
		}
		return tx.Create(&version).Error
	})
	if err != nil {
		return nil, err
	}
	return &version, nil
}

// CanViewDocument applies the visibility rules: staff see everything,
// community documents need any authenticated user, private documents only
// their creator, mentors_only documents a mentor or coach role.
func CanViewDocument(db *gorm.DB, user *models.User, doc *models.Document) bool {
	if user == nil {
		return false
	}
	if user.IsStaff {
		return true
	}
	switch doc.Visibility {
	case models.DocCommunity:
		return true
	case models.DocPrivate:
		return doc.CreatedByID == user.ID
	case models.DocMentorsOnly:
		return UserHasAnyRole(db, user, mentorDocRoles...)
	default:
		return false
	}
}

// ListDocuments returns the documents the user may see, optionally filtered
// by title substring, tag name and project.
func ListDocuments(db *gorm.DB, user *models.User, q, tag string, projectID *uint) ([]models.Document, error) {
	query := db.Model(&models.Document{}).Preload("Tags.DocTag")

	if !user.IsStaff {
		visible := db.Where("visibility = ?", models.DocCommunity).
			Or("visibility = ? AND created_by_id = ?", models.DocPrivate, user.ID)
		if UserHasAnyRole(db, user, mentorDocRoles...) {
			visible = visible.Or("visibility = ?", models.DocMentorsOnly)
		}
		query = query.Where(visible)
	}

	if q != "" {
		query = query.Where("title LIKE ?", "%"+q+"%")
	}
	if tag != "" {
		query = query.Where(
			"id IN (?)",
			db.Model(&models.DocumentTag{}).
				Select("document_tags.document_id").
				Joins("JOIN doc_tags ON doc_tags.id = document_tags.doc_tag_id").
				Where("doc_tags.name = ?", tag),
		)
	}
	if projectID != nil {
		query = query.Where("project_id = ?", *projectID)
	}

	var docs []models.Document
	if err := query.Order("id").Find(&docs).Error; err != nil {
		return nil, err
	}
	return docs, nil
}

// GetDocumentBySlug returns nil when the slug is unknown
func GetDocumentBySlug(db *gorm.DB, slug string) (*models.Document, error) {
	var doc models.Document
	err := db.Preload("Tags.DocTag").Preload("Versions", func(db *gorm.DB) *gorm.DB {
		return db.Order("version_number")
	}).Where("slug = ?", slug).First(&doc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// uniqueSlug suffixes the base slug until it is free
func uniqueSlug(tx *gorm.DB, base string) (string, error) {
	candidate := base
	for i := 2; ; i++ {
		var count int64
		if err := tx.Model(&models.Document{}).Where("slug = ?", candidate).Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
}
