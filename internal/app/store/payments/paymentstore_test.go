package paymentstore_test

import (
	"testing"
	"time"

	paymentstore "github.com/dalemusser/pghub/internal/app/store/payments"
	"github.com/dalemusser/pghub/internal/testutil"
)

func TestListByMonth(t *testing.T) {
	fx := testutil.NewFixtures(t)
	at := time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC)
	fx.Payment("P1", "S1", "A1", 6500, "2025-03", at)
	fx.Payment("P2", "S2", "A1", 6000.5, "2025-03", at)
	fx.Payment("P3", "S1", "A1", 6500, "2025-02", at)

	ctx, cancel := testutil.TestContext()
	defer cancel()
	store := paymentstore.New(fx.Store)

	march, err := store.ListByMonth(ctx, "2025-03")
	if err != nil {
		t.Fatalf("ListByMonth: %v", err)
	}
	if len(march) != 2 {
		t.Fatalf("got %d payments, want 2", len(march))
	}
	var sum float64
	for _, p := range march {
		sum += p.AmountPaid
	}
	if sum != 12500.5 {
		t.Errorf("sum: got %v, want 12500.5", sum)
	}

	all, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("List: got %d, want 3", len(all))
	}
}
