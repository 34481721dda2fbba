package menutree

import (
	"fmt"

	"github.com/TavolaMedia/menustack-go/internal/domain/entities/menu"
)

// ApplyWidgetChange patches a widget's settings according to its type.
// Unknown widget types are refused so a batch can report the item without
// touching the tree.
func ApplyWidgetChange(w *menu.ElementNode, change menu.WidgetChange) error {
	switch w.WidgetType {
	case menu.WidgetHeading:
		w.SetSetting("title", change.Content)

	case menu.WidgetPriceHeading:
		updatePriceHeading(w, change)

	case menu.WidgetTextEditor:
		w.SetSetting("editor", EnsureParagraph(Sanitize(change.Content)))

	case menu.WidgetImage:
		updateImage(w, change)

	case menu.WidgetPriceTable, menu.WidgetPriceList:
		w.SetSetting("price", ExtractNumeric(change.Content))

	default:
		return fmt.Errorf("widget %s (%s): %w", w.ID, w.WidgetType, ErrUnknownWidgetType)
	}
	return nil
}

// updatePriceHeading stores the raw price value and currency preferences on
// the widget, then rewrites the visible title from them. Currency settings
// omitted from the change fall back to what the widget already carries.
func updatePriceHeading(w *menu.ElementNode, change menu.WidgetChange) {
	cur := CurrencyFromWidget(w)
	if change.Settings != nil {
		if v, ok := change.Settings[menu.SettingCurrency].(string); ok {
			cur.Currency = v
		}
		if v, ok := change.Settings[menu.SettingCurrencyPosition].(string); ok {
			cur.Position = v
		}
		if v, ok := change.Settings[menu.SettingShowCurrency].(bool); ok {
			cur.Show = v
		}
	}

	value := ExtractNumeric(change.Content)
	w.SetSetting(menu.SettingPriceValue, value)
	w.SetSetting(menu.SettingCurrency, cur.Currency)
	w.SetSetting(menu.SettingCurrencyPosition, cur.Position)
	w.SetSetting(menu.SettingShowCurrency, cur.Show)
	w.SetSetting("title", FormatPrice(value, cur))
}

// updateImage points the widget at a resolved attachment, or at the
// placeholder sentinel when no attachment is referenced.
func updateImage(w *menu.ElementNode, change menu.WidgetChange) {
	url := ""
	var id any = float64(0)
	alt := ""
	title := ""
	if change.Settings != nil {
		if v, ok := change.Settings["url"].(string); ok {
			url = v
		}
		if v, ok := change.Settings["id"]; ok {
			id = v
		}
		if v, ok := change.Settings["alt"].(string); ok {
			alt = v
		}
		if v, ok := change.Settings["title"].(string); ok {
			title = v
		}
	}
	if url == "" {
		url = PlaceholderImage
		id = float64(0)
	}
	w.SetSetting("image", map[string]any{
		"url":   url,
		"id":    id,
		"alt":   alt,
		"title": title,
	})
}
