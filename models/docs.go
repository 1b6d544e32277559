package models

import (
	"regexp"
	"strings"

	"gorm.io/gorm"
)

// Document visibility values
const (
	DocPrivate     = "private"
	DocCommunity   = "community"
	DocMentorsOnly = "mentors_only"
)

// Document is a wiki page. The markdown body lives in append-only
// DocumentVersion rows; the document itself carries the latest metadata.
type Document struct {
	gorm.Model
	Slug       string `gorm:"uniqueIndex;not null" json:"slug"`
	Title      string `gorm:"not null" json:"title"`
	Visibility string `gorm:"default:'community';index" json:"visibility"`

	ProjectID   *uint `gorm:"index" json:"project_id,omitempty"`
	CreatedByID uint  `gorm:"not null;index" json:"created_by_id"`

	Project   *Project          `json:"-"`
	CreatedBy User              `gorm:"foreignKey:CreatedByID" json:"-"`
	Versions  []DocumentVersion `gorm:"foreignKey:DocumentID" json:"versions,omitempty"`
	Tags      []DocumentTag     `gorm:"foreignKey:DocumentID" json:"tags,omitempty"`
}

var slugCleaner = regexp.MustCompile(`[^a-z0-9]+`)

// BuildSlug normalizes a title into a URL slug, truncated to 220 characters.
// Falls back to "doc" when nothing survives normalization.
func BuildSlug(title string) string {
	slug := strings.ToLower(strings.TrimSpace(title))
	slug = slugCleaner.ReplaceAllString(slug, "-")
	slug = strings.Trim(slug, "-")
	if len(slug) > 220 {
		slug = strings.Trim(slug[:220], "-")
	}
	if slug == "" {
		return "doc"
	}
	return slug
}

// DocumentVersion is one revision of a document body, numbered from 1
type DocumentVersion struct {
	gorm.Model
	DocumentID    uint   `gorm:"not null;index;uniqueIndex:uniq_doc_version" json:"document_id"`
	VersionNumber int    `gorm:"not null;uniqueIndex:uniq_doc_version" json:"version_number"`
	BodyMD        string `gorm:"not null" json:"body_md"`
	AuthoredByID  uint   `gorm:"not null" json:"authored_by_id"`

	Document   Document `json:"-"`
	AuthoredBy User     `gorm:"foreignKey:AuthoredByID" json:"-"`
}

// DocTag is a global label for documents
type DocTag struct {
	gorm.Model
	Name string `gorm:"uniqueIndex;not null" json:"name"`
}

// DocumentTag links documents to tags
type DocumentTag struct {
	gorm.Model
	DocumentID uint `gorm:"not null;index;uniqueIndex:uniq_document_tag" json:"document_id"`
	DocTagID   uint `gorm:"not null;index;uniqueIndex:uniq_document_tag" json:"doc_tag_id"`

	Document Document `json:"-"`
	DocTag   DocTag   `json:"tag"`
}
