package menu

// Meta keys for the out-of-band attribute store. Attribute records are keyed
// by section ID and survive the section they describe; deleting a dish leaves
// its attribute rows behind.
const (
	DishAttributeKeyPrefix     = "efe_dish_attributes_"
	AllergenAttributeKeyPrefix = "efe_allergen_attributes_"

	GlobalCurrencyKey         = "efe_global_currency"
	GlobalCurrencyPositionKey = "efe_global_currency_position"
	GlobalShowCurrencyKey     = "efe_global_show_currency"
)

// DishAttributeNames lists the recognized dish flags in display order.
var DishAttributeNames = []string{"vegetarian", "chef_special", "gluten_free", "spicy"}

// AllergenNames lists the fourteen EU-regulated allergens in display order.
var AllergenNames = []string{
	"gluten", "crustaceans", "eggs", "fish", "peanuts", "soy", "milk",
	"nuts", "celery", "mustard", "sesame", "sulphites", "lupin", "molluscs",
}

// DishAttributeKey builds the meta key holding a section's dish flags.
func DishAttributeKey(sectionID string) string {
	return DishAttributeKeyPrefix + sectionID
}

// AllergenAttributeKey builds the meta key holding a section's allergen flags.
func AllergenAttributeKey(sectionID string) string {
	return AllergenAttributeKeyPrefix + sectionID
}

// DefaultDishAttributes returns the all-false flag set assigned to newly
// created dishes.
func DefaultDishAttributes() map[string]bool {
	out := make(map[string]bool, len(DishAttributeNames))
	for _, name := range DishAttributeNames {
		out[name] = false
	}
	return out
}

// DefaultAllergenAttributes returns the all-false allergen set assigned to
// newly created dishes.
func DefaultAllergenAttributes() map[string]bool {
	out := make(map[string]bool, len(AllergenNames))
	for _, name := range AllergenNames {
		out[name] = false
	}
	return out
}

// NormalizeDishAttributes keeps only recognized dish flags, filling missing
// ones with false.
func NormalizeDishAttributes(values map[string]bool) map[string]bool {
	out := DefaultDishAttributes()
	for _, name := range DishAttributeNames {
		if v, ok := values[name]; ok {
			out[name] = v
		}
	}
	return out
}

// NormalizeAllergenAttributes keeps only recognized allergen flags, filling
// missing ones with false.
func NormalizeAllergenAttributes(values map[string]bool) map[string]bool {
	out := DefaultAllergenAttributes()
	for _, name := range AllergenNames {
		if v, ok := values[name]; ok {
			out[name] = v
		}
	}
	return out
}

// CurrencySettings describes how price headings render their currency.
type CurrencySettings struct {
	Currency string `json:"currency"`
	Position string `json:"position"` // "before" or "after"
	Show     bool   `json:"show"`
}

// Per-widget settings keys persisted alongside a formatted price heading so
// the stored value survives reformatting.
const (
	SettingPriceValue       = "efe_price_value"
	SettingCurrency         = "efe_currency"
	SettingCurrencyPosition = "efe_currency_position"
	SettingShowCurrency     = "efe_show_currency"
)
