// internal/app/store/payments/paymentstore.go
package paymentstore

import (
	"context"
	"fmt"

	"github.com/dalemusser/pghub/internal/app/store/datastore"
	"github.com/dalemusser/pghub/internal/domain/models"
)

const Table = "payments"

type Store struct {
	ds datastore.Store
}

func New(ds datastore.Store) *Store {
	return &Store{ds: ds}
}

// List returns every payment.
func (s *Store) List(ctx context.Context) ([]models.Payment, error) {
	return s.list(ctx)
}

// ListByMonth returns payments for one billing period ("YYYY-MM").
func (s *Store) ListByMonth(ctx context.Context, monthYear string) ([]models.Payment, error) {
	return s.list(ctx, datastore.Eq("month_year", monthYear))
}

func (s *Store) list(ctx context.Context, filters ...datastore.Filter) ([]models.Payment, error) {
	rows, err := s.ds.Select(ctx, datastore.Query{Table: Table, Columns: models.PaymentColumns, Filters: filters})
	if err != nil {
		return nil, fmt.Errorf("select payments: %w", err)
	}
	var out []models.Payment
	if err := datastore.DecodeRows(rows, &out); err != nil {
		return nil, err
	}
	return out, nil
}
