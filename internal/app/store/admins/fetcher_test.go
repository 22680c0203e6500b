package adminstore_test

import (
	"errors"
	"testing"

	adminstore "github.com/dalemusser/pghub/internal/app/store/admins"
	"github.com/dalemusser/pghub/internal/domain/models"
	"github.com/dalemusser/pghub/internal/testutil"
)

func TestFetchUser_Active(t *testing.T) {
	fx := testutil.NewFixtures(t)
	a := fx.Admin("meera", "pw-123456", models.RoleSuperAdmin, models.StatusActive)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u, ok := adminstore.NewFetcher(fx.Store).FetchUser(ctx, a.ID.String())
	if !ok || u == nil {
		t.Fatal("expected active admin to be returned")
	}
	if u.Username != "meera" || u.Role != models.RoleSuperAdmin || u.ID != a.ID.String() {
		t.Errorf("got %+v", u)
	}
}

func TestFetchUser_InactiveOrMissing(t *testing.T) {
	fx := testutil.NewFixtures(t)
	a := fx.Admin("old", "pw-123456", models.RoleAdmin, models.StatusInactive)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	f := adminstore.NewFetcher(fx.Store)
	if _, ok := f.FetchUser(ctx, a.ID.String()); ok {
		t.Error("inactive admin should not be returned")
	}
	if _, ok := f.FetchUser(ctx, "9999"); ok {
		t.Error("unknown id should not be returned")
	}
	if _, ok := f.FetchUser(ctx, ""); ok {
		t.Error("blank id should not be returned")
	}
}

func TestFetchUser_StoreFailure(t *testing.T) {
	fx := testutil.NewFixtures(t)
	a := fx.Admin("asha", "pw-123456", models.RoleAdmin, models.StatusActive)
	fx.Store.FailTable(adminstore.Table, errors.New("store down"))
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, ok := adminstore.NewFetcher(fx.Store).FetchUser(ctx, a.ID.String()); ok {
		t.Error("lookup error should drop the session user")
	}
}
