package services

import (
	"strings"
	"testing"

	"orgst/models"
)

func TestCreateDocumentCreatesFirstVersionAndTags(t *testing.T) {
	db := newTestDB(t)
	author := newTestUser(t, db, "author", "author@orgst.dev")

	doc, err := CreateDocument(db, CreateDocumentInput{
		Title:     "Meu Doc",
		BodyMD:    "# hello",
		CreatedBy: author,
		TagNames:  []string{" python ", "django", "", "   "},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	var versions []models.DocumentVersion
	if err := db.Where("document_id = ?", doc.ID).Find(&versions).Error; err != nil {
		t.Fatalf("load versions: %v", err)
	}
	if len(versions) != 1 || versions[0].VersionNumber != 1 {
		t.Fatalf("expected exactly version 1, got %d versions", len(versions))
	}

	reloaded, err := GetDocumentBySlug(db, doc.Slug)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	var names []string
	for _, dt := range reloaded.Tags {
		names = append(names, dt.DocTag.Name)
	}
	if len(names) != 2 {
		t.Fatalf("expected tags [django python], got %v", names)
	}
}

func TestCreateDocumentUniqueSlugSuffixes(t *testing.T) {
	db := newTestDB(t)
	author := newTestUser(t, db, "author", "author@orgst.dev")

	d1, err := CreateDocument(db, CreateDocumentInput{Title: "Same Title", BodyMD: "a", CreatedBy: author})
	if err != nil {
		t.Fatalf("first: %v", err)
	}
	d2, err := CreateDocument(db, CreateDocumentInput{Title: "Same Title", BodyMD: "b", CreatedBy: author})
	if err != nil {
		t.Fatalf("second: %v", err)
	}

	if d1.Slug == d2.Slug {
		t.Fatal("slugs must be unique")
	}
	if !strings.HasPrefix(d2.Slug, d1.Slug) {
		t.Fatalf("expected suffixed slug, got %q and %q", d1.Slug, d2.Slug)
	}
}

func TestBuildSlugFallsBackToDoc(t *testing.T) {
	if got := models.BuildSlug(""); got != "doc" {
		t.Fatalf("expected doc, got %q", got)
	}
	if got := models.BuildSlug("   "); got != "doc" {
		t.Fatalf("expected doc, got %q", got)
	}
	if got := models.BuildSlug("Olá Mundo -- Django!!"); got == "" || len(got) > 220 {
		t.Fatalf("unexpected slug %q", got)
	}
}

func TestAddVersionIncrements(t *testing.T) {
	db := newTestDB(t)
	author := newTestUser(t, db, "author", "author@orgst.dev")

	doc, err := CreateDocument(db, CreateDocumentInput{Title: "Doc", BodyMD: "v1", CreatedBy: author})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	v2, err := AddVersion(db, doc, "v2", author)
	if err != nil {
		t.Fatalf("add v2: %v", err)
	}
	v3, err := AddVersion(db, doc, "v3", author)
	if err != nil {
		t.Fatalf("add v3: %v", err)
	}

	if v2.VersionNumber != 2 || v3.VersionNumber != 3 {
		t.Fatalf("expected versions 2 and 3, got %d and %d", v2.VersionNumber, v3.VersionNumber)
	}
}

func TestCanViewDocument(t *testing.T) {
	db := newTestDB(t)
	author := newTestUser(t, db, "author", "author@orgst.dev")
	other := newTestUser(t, db, "other", "other@orgst.dev")
	mentor := newTestUser(t, db, "mentor", "mentor@orgst.dev", "mentor")
	staff := newTestUser(t, db, "staff", "staff@orgst.dev")
	staff.IsStaff = true
	if err := db.Save(staff).Error; err != nil {
		t.Fatalf("promote staff: %v", err)
	}

	private, _ := CreateDocument(db, CreateDocumentInput{
		Title: "Priv", BodyMD: "x", CreatedBy: author, Visibility: models.DocPrivate,
	})
	community, _ := CreateDocument(db, CreateDocumentInput{
		Title: "Pub", BodyMD: "x", CreatedBy: author, Visibility: models.DocCommunity,
	})
	mentorsOnly, _ := CreateDocument(db, CreateDocumentInput{
		Title: "Mentors", BodyMD: "x", CreatedBy: author, Visibility: models.DocMentorsOnly,
	})

	if CanViewDocument(db, nil, community) {
		t.Fatal("anonymous viewers are always denied")
	}
	if !CanViewDocument(db, staff, private) {
		t.Fatal("staff can view anything")
	}
	if !CanViewDocument(db, other, community) {
		t.Fatal("community docs are visible to any authenticated user")
	}
	if CanViewDocument(db, other, private) {
		t.Fatal("private docs are creator-only")
	}
	if !CanViewDocument(db, author, private) {
		t.Fatal("creator can view own private doc")
	}
	if !CanViewDocument(db, mentor, mentorsOnly) {
		t.Fatal("mentor can view mentors_only doc")
	}
	if CanViewDocument(db, other, mentorsOnly) {
		t.Fatal("non-mentor must not view mentors_only doc")
	}
}

func TestListDocumentsRespectsVisibility(t *testing.T) {
	db := newTestDB(t)
	user := newTestUser(t, db, "user", "user@orgst.dev")
	other := newTestUser(t, db, "other", "other@orgst.dev")

	public, _ := CreateDocument(db, CreateDocumentInput{Title: "Public", BodyMD: "a", CreatedBy: other})
	privateOther, _ := CreateDocument(db, CreateDocumentInput{
		Title: "Private", BodyMD: "b", CreatedBy: other, Visibility: models.DocPrivate,
	})
	privateMine, _ := CreateDocument(db, CreateDocumentInput{
		Title: "Mine", BodyMD: "c", CreatedBy: user, Visibility: models.DocPrivate,
	})

	docs, err := ListDocuments(db, user, "", "", nil)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	ids := make(map[uint]bool)
	for _, d := range docs {
		ids[d.ID] = true
	}

	if !ids[public.ID] {
		t.Fatal("community doc missing")
	}
	if !ids[privateMine.ID] {
		t.Fatal("own private doc missing")
	}
	if ids[privateOther.ID] {
		t.Fatal("someone else's private doc leaked")
	}
}

func TestListDocumentsTagFilter(t *testing.T) {
	db := newTestDB(t)
	user := newTestUser(t, db, "user", "user@orgst.dev")

	tagged, _ := CreateDocument(db, CreateDocumentInput{
		Title: "Tagged", BodyMD: "a", CreatedBy: user, TagNames: []string{"python"},
	})
	CreateDocument(db, CreateDocumentInput{Title: "Other", BodyMD: "b", CreatedBy: user})

	docs, err := ListDocuments(db, user, "", "python", nil)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(docs) != 1 || docs[0].ID != tagged.ID {
		t.Fatalf("expected only the tagged doc, got %d docs", len(docs))
	}
}
