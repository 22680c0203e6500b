// internal/app/features/buildings/types.go
package buildings

import (
	"github.com/dalemusser/pghub/internal/app/system/formutil"
	"github.com/dalemusser/pghub/internal/app/system/viewdata"
)

type listItem struct {
	ID               string
	Code             string
	Name             string
	ContactPerson    string
	ContactPhone     string
	Status           string
	Active           bool
	TotalRooms       int
	TotalCapacity    int
	CurrentOccupancy int
	Rate             string
}

type listData struct {
	viewdata.BaseVM
	Items       []listItem
	ActiveCount int
	Shown       string // "all", "active" or "inactive"
}

// formData backs both the new and edit forms.
type formData struct {
	formutil.Base
	ID               string
	IsEdit           bool
	Code             string
	Name             string
	Address          string
	ContactPerson    string
	ContactPhone     string
	Status           string
	TotalRooms       string
	TotalCapacity    string
	CurrentOccupancy string
}

type viewData struct {
	viewdata.BaseVM
	ID               string
	Code             string
	Name             string
	Address          string
	ContactPerson    string
	ContactPhone     string
	Status           string
	Active           bool
	TotalRooms       int
	TotalCapacity    int
	CurrentOccupancy int
	Rate             string
	CreatedAt        string
	UpdatedAt        string
}
