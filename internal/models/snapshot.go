package models

// SnapshotVersion is the schema version written with every durable snapshot.
// Readers reset to defaults on a version they do not understand.
const SnapshotVersion = 1

// Snapshot is the serialized mirror of application state written to durable
// storage. Nil fields are treated as absent on restore: the corresponding
// state keeps its defaults (shallow merge).
type Snapshot struct {
	Version       int            `json:"version"`
	Cart          []CartLine     `json:"cart,omitempty"`
	Orders        []Order        `json:"orders,omitempty"`
	MenuItems     []MenuItem     `json:"menuItems,omitempty"`
	Notifications []Notification `json:"notifications,omitempty"`
	Settings      *Settings      `json:"settings,omitempty"`
}
