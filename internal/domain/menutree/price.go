package menutree

import (
	"strings"

	"github.com/TavolaMedia/menustack-go/internal/domain/entities/menu"
)

// DefaultCurrency is assumed for price headings that predate stored currency
// settings.
var DefaultCurrency = menu.CurrencySettings{Currency: "€", Position: "after", Show: true}

// FormatPrice renders a price value with the configured currency.
func FormatPrice(value string, cur menu.CurrencySettings) string {
	if !cur.Show {
		return value
	}
	if cur.Position == "before" {
		return cur.Currency + value
	}
	return value + cur.Currency
}

// CurrencyFromWidget reads the currency settings persisted on a price
// heading, falling back to the defaults for each missing field.
func CurrencyFromWidget(w *menu.ElementNode) menu.CurrencySettings {
	cur := DefaultCurrency
	if v := w.StringSetting(menu.SettingCurrency); v != "" {
		cur.Currency = v
	}
	if v := w.StringSetting(menu.SettingCurrencyPosition); v != "" {
		cur.Position = v
	}
	if w.Settings != nil {
		if v, ok := w.Settings[menu.SettingShowCurrency].(bool); ok {
			cur.Show = v
		}
	}
	return cur
}

// PriceValue returns the raw numeric value of a price heading. Widgets that
// predate the stored value fall back to stripping the formatted title.
func PriceValue(w *menu.ElementNode) string {
	if v := w.StringSetting(menu.SettingPriceValue); v != "" {
		return v
	}
	return ExtractNumeric(w.StringSetting("title"))
}

// ExtractNumeric strips everything but digits and decimal separators, so
// formatted titles like "12,50€" reduce to "12,50".
func ExtractNumeric(s string) string {
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' || r == ',' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ApplyCurrency rewrites every price heading in the forest with the given
// currency settings, persisting the settings on each widget, and returns the
// number of widgets updated.
func ApplyCurrency(roots []*menu.ElementNode, cur menu.CurrencySettings) int {
	updated := 0
	Walk(roots, func(n, _ *menu.ElementNode) bool {
		if n.ElType == menu.TypeWidget && n.WidgetType == menu.WidgetPriceHeading {
			value := PriceValue(n)
			n.SetSetting(menu.SettingPriceValue, value)
			n.SetSetting(menu.SettingCurrency, cur.Currency)
			n.SetSetting(menu.SettingCurrencyPosition, cur.Position)
			n.SetSetting(menu.SettingShowCurrency, cur.Show)
			n.SetSetting("title", FormatPrice(value, cur))
			updated++
		}
		return true
	})
	return updated
}
