package menucontent

import (
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"github.com/TavolaMedia/menustack-go/internal/domain/entities/menu"
	"github.com/TavolaMedia/menustack-go/internal/domain/menutree"
	"github.com/TavolaMedia/menustack-go/internal/infrastructure/caching"
	"github.com/TavolaMedia/menustack-go/internal/infrastructure/persistence/database"

	_ "github.com/mattn/go-sqlite3"
)

func newTestRepo(t *testing.T) (*DocumentRepository, *sql.DB) {
	t.Helper()

	raw, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	// One connection keeps every statement on the same in-memory database.
	raw.SetMaxOpenConns(1)
	t.Cleanup(func() { raw.Close() })

	db := &database.DB{DB: raw}
	if err := db.EnsureSchema(); err != nil {
		t.Fatalf("ensure schema: %v", err)
	}

	return NewDocumentRepository(raw, caching.NewContentCache(time.Hour), nil), raw
}

func insertMenuDocument(t *testing.T, raw *sql.DB) {
	t.Helper()

	elements := []*menu.ElementNode{
		{ID: "intro", ElType: menu.TypeSection, Role: menu.RolePlain},
		{
			ID: "dish1", ElType: menu.TypeSection, Role: menu.RoleDish,
			Elements: []*menu.ElementNode{
				{ID: "h1", ElType: menu.TypeWidget, WidgetType: menu.WidgetHeading, Settings: map[string]any{"title": "Carbonara"}},
			},
		},
	}
	blob, err := json.Marshal(elements)
	if err != nil {
		t.Fatalf("marshal elements: %v", err)
	}

	now := time.Now().UTC()
	_, err = raw.Exec(
		`INSERT INTO menu_documents (id, title, slug, elements, created, changed) VALUES (?, ?, ?, ?, ?, ?)`,
		1, "Menu", "menu", string(blob), now, now,
	)
	if err != nil {
		t.Fatalf("insert document: %v", err)
	}
}

func TestFindByIDReturnsPrivateCopy(t *testing.T) {
	repo, raw := newTestRepo(t)
	insertMenuDocument(t, raw)

	doc, err := repo.FindByID(1)
	if err != nil {
		t.Fatalf("FindByID = %v", err)
	}

	// Mutate the returned tree without saving.
	if err := menutree.DeleteSection(&doc.Elements, "dish1"); err != nil {
		t.Fatalf("DeleteSection = %v", err)
	}

	reread, err := repo.FindByID(1)
	if err != nil {
		t.Fatalf("FindByID = %v", err)
	}
	if menutree.FindByID(reread.Elements, "dish1") == nil {
		t.Error("unsaved mutation leaked into later reads")
	}
}

func TestFailedUpdateDoesNotPoisonCache(t *testing.T) {
	repo, raw := newTestRepo(t)
	insertMenuDocument(t, raw)

	doc, err := repo.FindByID(1)
	if err != nil {
		t.Fatalf("FindByID = %v", err)
	}
	if err := menutree.DeleteSection(&doc.Elements, "dish1"); err != nil {
		t.Fatalf("DeleteSection = %v", err)
	}

	// Closing the database forces the save to fail after the mutation.
	raw.Close()
	if err := repo.Update(doc); err == nil {
		t.Fatal("update on closed database succeeded")
	}

	reread, err := repo.FindByID(1)
	if err != nil {
		t.Fatalf("FindByID after failed update = %v", err)
	}
	if menutree.FindByID(reread.Elements, "dish1") == nil {
		t.Error("cache served a tree that was never persisted")
	}
}

func TestUpdateRefreshesCache(t *testing.T) {
	repo, raw := newTestRepo(t)
	insertMenuDocument(t, raw)

	doc, err := repo.FindByID(1)
	if err != nil {
		t.Fatalf("FindByID = %v", err)
	}

	heading := menutree.FindByID(doc.Elements, "h1")
	heading.SetSetting("title", "Amatriciana")
	if err := repo.Update(doc); err != nil {
		t.Fatalf("Update = %v", err)
	}

	reread, err := repo.FindByID(1)
	if err != nil {
		t.Fatalf("FindByID = %v", err)
	}
	if got := menutree.FindByID(reread.Elements, "h1").StringSetting("title"); got != "Amatriciana" {
		t.Errorf("heading title after save = %q", got)
	}
}
