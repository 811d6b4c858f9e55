package store_test

import (
	"context"
	"errors"
	"testing"

	"storefront/internal/domain"
	"storefront/internal/store"
	"storefront/internal/store/storetest"
)

func strPtr(s string) *string { return &s }

func seedUser(t *testing.T, st *store.Store, email string, role domain.Role) *domain.User {
	t.Helper()
	u := &domain.User{Email: email, Password: "hash", Role: role, Username: strPtr("name")}
	if err := st.Users().Create(context.Background(), u); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

func TestUserStoreCreateAndLookup(t *testing.T) {
	ctx := context.Background()
	st := storetest.NewStore(t)

	u := &domain.User{Email: "alice@example.com", Password: "hash"}
	if err := st.Users().Create(ctx, u); err != nil {
		t.Fatalf("create: %v", err)
	}
	if u.ID == 0 {
		t.Fatalf("expected generated id")
	}
	if u.Role != domain.RoleNormalUser {
		t.Fatalf("expected default role, got %q", u.Role)
	}

	got, err := st.Users().GetByEmail(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("get by email: %v", err)
	}
	if got.ID != u.ID || got.IsAccountVerified {
		t.Fatalf("unexpected user %+v", got)
	}

	if _, err := st.Users().GetByEmail(ctx, "ALICE@example.com"); !errors.Is(err, store.ErrRecordNotFound) {
		t.Fatalf("expected case-sensitive miss, got %v", err)
	}
	if _, err := st.Users().GetByID(ctx, 9999); !errors.Is(err, store.ErrRecordNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUserStoreDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	st := storetest.NewStore(t)
	seedUser(t, st, "dup@example.com", domain.RoleNormalUser)

	err := st.Users().Create(ctx, &domain.User{Email: "dup@example.com", Password: "x"})
	if !errors.Is(err, store.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
}

func TestConsumeResetTokenIsSingleUse(t *testing.T) {
	ctx := context.Background()
	st := storetest.NewStore(t)
	u := seedUser(t, st, "reset@example.com", domain.RoleNormalUser)

	if err := st.Users().SetResetToken(ctx, u.ID, "tok-1"); err != nil {
		t.Fatalf("set token: %v", err)
	}
	if err := st.Users().ConsumeResetToken(ctx, u.ID, "wrong", "new-hash"); !errors.Is(err, store.ErrStaleToken) {
		t.Fatalf("expected stale token, got %v", err)
	}
	if err := st.Users().ConsumeResetToken(ctx, u.ID, "tok-1", "new-hash"); err != nil {
		t.Fatalf("consume: %v", err)
	}
	if err := st.Users().ConsumeResetToken(ctx, u.ID, "tok-1", "other-hash"); !errors.Is(err, store.ErrStaleToken) {
		t.Fatalf("expected second consume to fail, got %v", err)
	}

	got, _ := st.Users().GetByID(ctx, u.ID)
	if got.Password != "new-hash" || got.ResetPasswordToken != nil {
		t.Fatalf("unexpected state after consume: %+v", got)
	}
}

func TestMarkEmailVerified(t *testing.T) {
	ctx := context.Background()
	st := storetest.NewStore(t)
	u := seedUser(t, st, "verify@example.com", domain.RoleNormalUser)

	if err := st.Users().SetVerificationToken(ctx, u.ID, "vt"); err != nil {
		t.Fatalf("set token: %v", err)
	}
	if err := st.Users().MarkEmailVerified(ctx, u.ID, "vt"); err != nil {
		t.Fatalf("verify: %v", err)
	}
	got, _ := st.Users().GetByID(ctx, u.ID)
	if !got.IsAccountVerified || got.VerificationToken != nil {
		t.Fatalf("expected verified with token cleared, got %+v", got)
	}
	if err := st.Users().MarkEmailVerified(ctx, u.ID, "vt"); !errors.Is(err, store.ErrStaleToken) {
		t.Fatalf("expected stale token on replay, got %v", err)
	}
}

func TestSetProfileImageClears(t *testing.T) {
	ctx := context.Background()
	st := storetest.NewStore(t)
	u := seedUser(t, st, "img@example.com", domain.RoleNormalUser)

	if err := st.Users().SetProfileImage(ctx, u.ID, strPtr("a.png")); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := st.Users().SetProfileImage(ctx, u.ID, nil); err != nil {
		t.Fatalf("clear: %v", err)
	}
	got, _ := st.Users().GetByID(ctx, u.ID)
	if got.ProfileImage != nil {
		t.Fatalf("expected nil profile image, got %q", *got.ProfileImage)
	}
}

func TestDeleteUserData(t *testing.T) {
	ctx := context.Background()
	st := storetest.NewStore(t)
	admin := seedUser(t, st, "admin@example.com", domain.RoleAdmin)
	other := seedUser(t, st, "other@example.com", domain.RoleNormalUser)

	p := &domain.Product{Title: "lamp", Description: "a desk lamp", Price: 10, UserID: admin.ID}
	if err := st.Products().Create(ctx, p); err != nil {
		t.Fatalf("create product: %v", err)
	}
	for _, uid := range []domain.UserID{admin.ID, other.ID} {
		if err := st.Reviews().Create(ctx, &domain.Review{Rating: 4, Comment: "nice", ProductID: p.ID, UserID: uid}); err != nil {
			t.Fatalf("create review: %v", err)
		}
	}

	counts, err := st.DeleteUserData(ctx, admin.ID)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if counts["users"] != 1 || counts["products"] != 1 || counts["reviews"] != 2 {
		t.Fatalf("unexpected counts %v", counts)
	}
	if _, err := st.Users().GetByID(ctx, admin.ID); !errors.Is(err, store.ErrRecordNotFound) {
		t.Fatalf("expected user gone, got %v", err)
	}
	if _, err := st.Users().GetByID(ctx, other.ID); err != nil {
		t.Fatalf("other user should remain: %v", err)
	}

	if _, err := st.DeleteUserData(ctx, admin.ID); !errors.Is(err, store.ErrRecordNotFound) {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
}

func TestWithTxRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	st := storetest.NewStore(t)
	if err := st.Ping(ctx); err != nil {
		t.Fatalf("ping: %v", err)
	}

	boom := errors.New("boom")
	err := st.WithTx(ctx, func(tx *store.Store) error {
		if err := tx.Users().Create(ctx, &domain.User{Email: "tx@example.com", Password: "hash"}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if _, err := st.Users().GetByEmail(ctx, "tx@example.com"); !errors.Is(err, store.ErrRecordNotFound) {
		t.Fatalf("expected rollback, got %v", err)
	}
}
