package models

// OperatingHours is the daily open/close window, "HH:MM" 24-hour clock.
type OperatingHours struct {
	Open  string `json:"open"`
	Close string `json:"close"`
}

// Settings are storefront parameters carried in application state.
type Settings struct {
	DeliveryFee    float64        `json:"deliveryFee"`
	MinimumOrder   float64        `json:"minimumOrder"`
	OperatingHours OperatingHours `json:"operatingHours"`
}

// DefaultSettings returns the storefront defaults.
func DefaultSettings() Settings {
	return Settings{
		DeliveryFee:  250,
		MinimumOrder: 750,
		OperatingHours: OperatingHours{
			Open:  "08:00",
			Close: "22:00",
		},
	}
}
