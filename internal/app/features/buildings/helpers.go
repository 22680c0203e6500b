// internal/app/features/buildings/helpers.go
package buildings

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/dalemusser/pghub/internal/app/system/dashstats"
	"github.com/dalemusser/pghub/internal/app/system/directory"
	"github.com/dalemusser/pghub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/pghub/internal/app/system/inputval"
	"github.com/dalemusser/pghub/internal/app/system/normalize"
	"github.com/dalemusser/pghub/internal/domain/models"
)

// buildingInput defines validation rules for the building form.
type buildingInput struct {
	Code             string `validate:"required,max=10,buildingcode" label:"Code"`
	Name             string `validate:"required,max=120" label:"Name"`
	Address          string `validate:"max=300" label:"Address"`
	ContactPerson    string `validate:"max=120" label:"Contact person"`
	ContactPhone     string `validate:"max=20,phone" label:"Contact phone"`
	Status           string `validate:"required,status" label:"Status"`
	TotalRooms       int    `validate:"gte=0,lte=10000" label:"Total rooms"`
	TotalCapacity    int    `validate:"gte=0,lte=100000" label:"Total capacity"`
	CurrentOccupancy int    `validate:"gte=0" label:"Current occupancy"`
}

// readForm copies the posted fields into a formData for re-rendering.
func readForm(r *http.Request) formData {
	return formData{
		Code:             normalize.BuildingCode(r.FormValue("code")),
		Name:             htmlsanitize.PlainText(normalize.Name(r.FormValue("name"))),
		Address:          htmlsanitize.PlainText(normalize.Name(r.FormValue("address"))),
		ContactPerson:    htmlsanitize.PlainText(normalize.Name(r.FormValue("contact_person"))),
		ContactPhone:     normalize.Phone(r.FormValue("contact_phone")),
		Status:           normalize.Status(r.FormValue("status")),
		TotalRooms:       strings.TrimSpace(r.FormValue("total_rooms")),
		TotalCapacity:    strings.TrimSpace(r.FormValue("total_capacity")),
		CurrentOccupancy: strings.TrimSpace(r.FormValue("current_occupancy")),
	}
}

// toInput validates f and returns the directory input, or the first
// user-facing error message.
func (f formData) toInput() (directory.Input, string) {
	status := f.Status
	if status == "" {
		status = models.StatusActive
	}

	rooms, msg := parseCount(f.TotalRooms, "Total rooms")
	if msg != "" {
		return directory.Input{}, msg
	}
	capacity, msg := parseCount(f.TotalCapacity, "Total capacity")
	if msg != "" {
		return directory.Input{}, msg
	}
	occupancy, msg := parseCount(f.CurrentOccupancy, "Current occupancy")
	if msg != "" {
		return directory.Input{}, msg
	}

	in := buildingInput{
		Code:             f.Code,
		Name:             f.Name,
		Address:          f.Address,
		ContactPerson:    f.ContactPerson,
		ContactPhone:     f.ContactPhone,
		Status:           status,
		TotalRooms:       rooms,
		TotalCapacity:    capacity,
		CurrentOccupancy: occupancy,
	}
	if res := inputval.Validate(in); res.HasErrors() {
		return directory.Input{}, res.First()
	}
	if occupancy > capacity {
		return directory.Input{}, "Current occupancy cannot exceed total capacity."
	}

	return directory.Input{
		Code:             in.Code,
		Name:             in.Name,
		Address:          in.Address,
		ContactPerson:    in.ContactPerson,
		ContactPhone:     in.ContactPhone,
		Status:           in.Status,
		TotalRooms:       in.TotalRooms,
		TotalCapacity:    in.TotalCapacity,
		CurrentOccupancy: in.CurrentOccupancy,
	}, ""
}

// parseCount reads an optional non-negative whole number. Blank is zero.
func parseCount(s, label string) (int, string) {
	if s == "" {
		return 0, ""
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, label + " must be a whole number."
	}
	return n, ""
}

func fromBuilding(b models.Building) formData {
	return formData{
		ID:               b.ID.String(),
		Code:             b.Code,
		Name:             b.Name,
		Address:          b.Address,
		ContactPerson:    b.ContactPerson,
		ContactPhone:     b.ContactPhone,
		Status:           b.Status,
		TotalRooms:       strconv.Itoa(b.TotalRooms),
		TotalCapacity:    strconv.Itoa(b.TotalCapacity),
		CurrentOccupancy: strconv.Itoa(b.CurrentOccupancy),
	}
}

func rateText(b models.Building) string {
	return fmt.Sprintf("%.1f%%", dashstats.OccupancyRate(b.CurrentOccupancy, b.TotalCapacity))
}
