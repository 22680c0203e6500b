package directory

import (
	"context"
	"fmt"

	"github.com/dalemusser/pghub/internal/app/store/datastore"
	"github.com/dalemusser/pghub/internal/app/system/normalize"
	"github.com/dalemusser/pghub/internal/domain/models"
	"go.uber.org/zap"
)

// Input is the editable part of a building.
type Input struct {
	Code             string
	Name             string
	Address          string
	ContactPerson    string
	ContactPhone     string
	Status           string
	TotalRooms       int
	TotalCapacity    int
	CurrentOccupancy int
}

func (in Input) normalized() Input {
	in.Code = normalize.BuildingCode(in.Code)
	in.Name = normalize.Name(in.Name)
	in.Address = normalize.Name(in.Address)
	in.ContactPerson = normalize.Name(in.ContactPerson)
	in.ContactPhone = normalize.Phone(in.ContactPhone)
	in.Status = normalize.Status(in.Status)
	if in.Status == "" {
		in.Status = models.StatusActive
	}
	return in
}

// Create stores a new building and invalidates the directory.
func (c *Cache) Create(ctx context.Context, in Input) (models.Building, error) {
	in = in.normalized()
	if !IsValidCode(in.Code) {
		return models.Building{}, fmt.Errorf("%w: %q", ErrInvalidCode, in.Code)
	}

	now := models.NewTimestamp(c.now())
	b := models.Building{
		Code:             in.Code,
		Name:             in.Name,
		Address:          in.Address,
		ContactPerson:    in.ContactPerson,
		ContactPhone:     in.ContactPhone,
		Status:           in.Status,
		TotalRooms:       in.TotalRooms,
		TotalCapacity:    in.TotalCapacity,
		CurrentOccupancy: in.CurrentOccupancy,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	defer c.Invalidate()
	created, err := c.repo.Create(ctx, b)
	if err != nil {
		c.log.Error("create building failed", zap.String("code", in.Code), zap.Error(err))
		return models.Building{}, err
	}
	c.log.Info("building created", zap.String("code", created.Code), zap.String("id", created.ID.String()))
	return created, nil
}

// Update rewrites the editable fields of building id and invalidates the
// directory.
func (c *Cache) Update(ctx context.Context, id models.RowID, in Input) (models.Building, error) {
	in = in.normalized()
	if !IsValidCode(in.Code) {
		return models.Building{}, fmt.Errorf("%w: %q", ErrInvalidCode, in.Code)
	}

	fields := datastore.Row{
		"code":              in.Code,
		"name":              in.Name,
		"address":           in.Address,
		"contact_person":    in.ContactPerson,
		"contact_phone":     in.ContactPhone,
		"status":            in.Status,
		"total_rooms":       in.TotalRooms,
		"total_capacity":    in.TotalCapacity,
		"current_occupancy": in.CurrentOccupancy,
		"updated_at":        datastore.TimeValue(c.now()),
	}
	return c.update(ctx, id, fields)
}

// SetStatus flips a building between active and inactive. Buildings are
// never deleted.
func (c *Cache) SetStatus(ctx context.Context, id models.RowID, status string) (models.Building, error) {
	status = normalize.Status(status)
	if status != models.StatusActive && status != models.StatusInactive {
		return models.Building{}, fmt.Errorf("invalid building status %q", status)
	}
	return c.update(ctx, id, datastore.Row{
		"status":     status,
		"updated_at": datastore.TimeValue(c.now()),
	})
}

func (c *Cache) update(ctx context.Context, id models.RowID, fields datastore.Row) (models.Building, error) {
	defer c.Invalidate()
	updated, err := c.repo.Update(ctx, id, fields)
	if err != nil {
		c.log.Error("update building failed", zap.String("id", id.String()), zap.Error(err))
		return models.Building{}, err
	}
	c.log.Info("building updated", zap.String("id", id.String()), zap.String("code", updated.Code))
	return updated, nil
}
