package services

import (
	"testing"

	"github.com/TavolaMedia/menustack-go/internal/domain/entities/menu"
	"github.com/TavolaMedia/menustack-go/internal/domain/menutree"
)

func imageDocument() *menu.MenuDocument {
	return &menu.MenuDocument{
		ID: 1, Title: "Menu", Slug: "menu",
		Elements: []*menu.ElementNode{
			{
				ID: "dish1", ElType: menu.TypeSection, Role: menu.RoleDish,
				Elements: []*menu.ElementNode{
					{ID: "img1", ElType: menu.TypeWidget, WidgetType: menu.WidgetImage, Settings: map[string]any{}},
				},
			},
		},
	}
}

func imageSettings(t *testing.T, doc *menu.MenuDocument) map[string]any {
	t.Helper()
	widget := menutree.FindByID(doc.Elements, "img1")
	image, ok := widget.Settings["image"].(map[string]any)
	if !ok {
		t.Fatalf("image setting = %#v", widget.Settings["image"])
	}
	return image
}

func TestApplyImagePlaceholderReference(t *testing.T) {
	// "placeholder" and empty references mean no attachment; the widget
	// falls back to the placeholder image with empty id and alt.
	for _, ref := range []string{"placeholder", ""} {
		t.Run("ref "+ref, func(t *testing.T) {
			doc := imageDocument()
			svc := NewWidgetService(newFakeDocumentRepo(doc), &fakeAttachmentRepo{})

			err := svc.ApplyToDocument(doc, menu.WidgetChange{
				WidgetID:   "img1",
				WidgetType: menu.WidgetImage,
				Settings:   map[string]any{"attachmentId": ref},
			})
			if err != nil {
				t.Fatalf("ApplyToDocument = %v", err)
			}

			image := imageSettings(t, doc)
			if image["url"] != menutree.PlaceholderImage {
				t.Errorf("image url = %v, want %s", image["url"], menutree.PlaceholderImage)
			}
			if image["id"] != float64(0) || image["alt"] != "" {
				t.Errorf("image id/alt = %v/%v, want 0/empty", image["id"], image["alt"])
			}
		})
	}
}

func TestApplyImageResolvesAttachment(t *testing.T) {
	doc := imageDocument()
	attachments := &fakeAttachmentRepo{atts: map[int64]*menu.Attachment{
		7: {ID: 7, URL: "/media/carbonara.jpg", Alt: "Carbonara", Title: "Carbonara"},
	}}
	svc := NewWidgetService(newFakeDocumentRepo(doc), attachments)

	err := svc.ApplyToDocument(doc, menu.WidgetChange{
		WidgetID:   "img1",
		WidgetType: menu.WidgetImage,
		Settings:   map[string]any{"attachmentId": "7"},
	})
	if err != nil {
		t.Fatalf("ApplyToDocument = %v", err)
	}

	image := imageSettings(t, doc)
	if image["url"] != "/media/carbonara.jpg" || image["id"] != float64(7) || image["alt"] != "Carbonara" {
		t.Errorf("image = %v", image)
	}
}

func TestApplyImageRejectsMalformedReference(t *testing.T) {
	doc := imageDocument()
	svc := NewWidgetService(newFakeDocumentRepo(doc), &fakeAttachmentRepo{})

	err := svc.ApplyToDocument(doc, menu.WidgetChange{
		WidgetID:   "img1",
		WidgetType: menu.WidgetImage,
		Settings:   map[string]any{"attachmentId": "not-a-number"},
	})
	if err == nil {
		t.Fatal("malformed attachment reference accepted")
	}
}
