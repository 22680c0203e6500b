// internal/domain/models/room.go
package models

// Room belongs to exactly one building via BuildingCode.
type Room struct {
	ID               RowID  `json:"id,omitempty"`
	RoomNumber       string `json:"room_number"`
	BuildingCode     string `json:"building_code"`
	Capacity         int    `json:"capacity"`
	CurrentOccupancy int    `json:"current_occupancy"`
	Status           string `json:"status"`
}

var RoomColumns = []string{"id", "room_number", "building_code", "capacity", "current_occupancy", "status"}
