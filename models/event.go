// File: models/event.go
package models

// catalog event actions
const (
	ActionCreated  = "created"
	ActionUpdated  = "updated"
	ActionDeleted  = "deleted"
	ActionFeatured = "featured"
)

// catalog event entities
const (
	EntityCar   = "car"
	EntityVideo = "video"
)

// CatalogEvent is pushed to live-update subscribers after every successful catalog mutation.
// Data carries the record after the change and is omitted for deletions.
type CatalogEvent struct {
	Action string      `json:"action"`
	Entity string      `json:"entity"`
	ID     int64       `json:"id"`
	Data   interface{} `json:"data,omitempty"`
}
