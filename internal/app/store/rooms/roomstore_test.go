package roomstore_test

import (
	"testing"

	roomstore "github.com/dalemusser/pghub/internal/app/store/rooms"
	"github.com/dalemusser/pghub/internal/testutil"
)

func TestListByBuilding(t *testing.T) {
	fx := testutil.NewFixtures(t)
	fx.Room("A1", "101", 3, 2)
	fx.Room("A1", "102", 2, 2)
	fx.Room("B1", "201", 4, 1)

	ctx, cancel := testutil.TestContext()
	defer cancel()
	store := roomstore.New(fx.Store)

	all, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("List: got %d rooms, want 3", len(all))
	}

	a1, err := store.ListByBuilding(ctx, "A1")
	if err != nil {
		t.Fatalf("ListByBuilding: %v", err)
	}
	if len(a1) != 2 {
		t.Fatalf("A1: got %d rooms, want 2", len(a1))
	}
	for _, r := range a1 {
		if r.BuildingCode != "A1" {
			t.Errorf("room %s belongs to %s", r.RoomNumber, r.BuildingCode)
		}
	}
}
