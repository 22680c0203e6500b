// internal/domain/models/building.go
package models

// Building is a managed PG property. Code is the business identity; ID is
// whatever row id the data store assigned.
type Building struct {
	ID               RowID     `json:"id,omitempty"`
	Code             string    `json:"code"`
	Name             string    `json:"name"`
	Address          string    `json:"address"`
	ContactPerson    string    `json:"contact_person"`
	ContactPhone     string    `json:"contact_phone"`
	Status           string    `json:"status"`
	TotalRooms       int       `json:"total_rooms"`
	TotalCapacity    int       `json:"total_capacity"`
	CurrentOccupancy int       `json:"current_occupancy"`
	CreatedAt        Timestamp `json:"created_at"`
	UpdatedAt        Timestamp `json:"updated_at"`
}

// BuildingColumns is the projection used when loading buildings.
var BuildingColumns = []string{
	"id", "code", "name", "address", "contact_person", "contact_phone", "status",
	"total_rooms", "total_capacity", "current_occupancy", "created_at", "updated_at",
}

// IsActive reports whether the building is listed in the directory.
func (b Building) IsActive() bool { return b.Status == StatusActive }
