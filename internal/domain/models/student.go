// internal/domain/models/student.go
package models

// Student is a resident. StudentID is the stable external identifier that
// payments reference; ID is the store's row id.
type Student struct {
	ID           RowID     `json:"id,omitempty"`
	StudentID    string    `json:"student_id"`
	FullName     string    `json:"full_name"`
	Phone        string    `json:"phone"`
	BuildingCode string    `json:"building_code"`
	RoomNumber   string    `json:"room_number"`
	Status       string    `json:"status"`
	CreatedAt    Timestamp `json:"created_at"`
}

var StudentColumns = []string{"id", "student_id", "full_name", "phone", "building_code", "room_number", "status", "created_at"}

func (s Student) IsActive() bool { return s.Status == StatusActive }
