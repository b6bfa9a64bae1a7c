package models

// Menu categories shown to customers. The admin console may only assign
// one of these to a menu item.
const (
	CategoryBreakfast = "Breakfast"
	CategoryLunch     = "Lunch"
	CategoryDinner    = "Dinner"
	CategorySnacks    = "Snacks"
)

// Categories lists all valid menu categories in display order.
var Categories = []string{CategoryBreakfast, CategoryLunch, CategoryDinner, CategorySnacks}

// MenuItem represents a dish on the menu. Admin-owned; the customer view is
// read-only and filtered by category and availability.
type MenuItem struct {
	ID          int64   `json:"id" yaml:"id"`
	Name        string  `json:"name" yaml:"name"`
	Category    string  `json:"category" yaml:"category"`
	Price       float64 `json:"price" yaml:"price"`
	Description string  `json:"description" yaml:"description"`
	Image       string  `json:"image" yaml:"image"`
	Available   bool    `json:"available" yaml:"available"`
	PrepTime    int     `json:"prepTime" yaml:"prepTime"`
}

// ValidCategory reports whether c is one of the known menu categories.
func ValidCategory(c string) bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}
