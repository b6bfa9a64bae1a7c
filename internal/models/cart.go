package models

// CartLine is one menu item in the cart with its selected quantity.
// Lines are unique by ID; adding an item that is already present increments
// the quantity instead of appending a second line.
type CartLine struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
	Image    string  `json:"image"`
	PrepTime int     `json:"prepTime"`
}

// CartLineFromMenuItem builds a cart line with quantity 1 from a menu item.
func CartLineFromMenuItem(item MenuItem) CartLine {
	return CartLine{
		ID:       item.ID,
		Name:     item.Name,
		Category: item.Category,
		Price:    item.Price,
		Quantity: 1,
		Image:    item.Image,
		PrepTime: item.PrepTime,
	}
}

// CartSubtotal returns the sum of price times quantity over all lines.
func CartSubtotal(lines []CartLine) float64 {
	var subtotal float64
	for _, line := range lines {
		subtotal += line.Price * float64(line.Quantity)
	}
	return subtotal
}
