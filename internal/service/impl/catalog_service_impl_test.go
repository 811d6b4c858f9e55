package impl

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"storefront/internal/domain"
	"storefront/internal/dto"
	"storefront/internal/service"
	"storefront/internal/storage"
	"storefront/internal/store"
	"storefront/internal/store/storetest"

	"golang.org/x/crypto/bcrypt"
)

func strPtr(s string) *string { return &s }
func floatPtr(f float64) *float64 { return &f }

type catalogFixture struct {
	st       *store.Store
	users    *UserServiceImpl
	products *ProductServiceImpl
	reviews  *ReviewServiceImpl
	images   *storage.LocalStore
	admin    domain.Claims
	alice    domain.Claims
	bob      domain.Claims
}

func newCatalogFixture(t *testing.T) *catalogFixture {
	t.Helper()
	st := storetest.NewStore(t)
	images, err := storage.NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("image store: %v", err)
	}
	f := &catalogFixture{
		st:       st,
		users:    NewUserServiceImpl(st, NewPasswordServiceBcrypt(bcrypt.MinCost), images),
		products: NewProductServiceImpl(st),
		reviews:  NewReviewServiceImpl(st),
		images:   images,
	}
	f.admin = f.seed(t, "admin@example.com", domain.RoleAdmin)
	f.alice = f.seed(t, "alice@example.com", domain.RoleNormalUser)
	f.bob = f.seed(t, "bob@example.com", domain.RoleNormalUser)
	return f
}

func (f *catalogFixture) seed(t *testing.T, email string, role domain.Role) domain.Claims {
	t.Helper()
	u := &domain.User{Email: email, Password: "hash", Role: role, IsAccountVerified: true}
	if err := f.st.Users().Create(context.Background(), u); err != nil {
		t.Fatalf("seed %s: %v", email, err)
	}
	return domain.Claims{ID: u.ID, Role: role}
}

func (f *catalogFixture) product(t *testing.T) *domain.Product {
	t.Helper()
	p, err := f.products.Create(context.Background(), dto.CreateProductRequest{Title: "Desk Lamp", Description: "bright lamp", Price: floatPtr(25)}, f.admin.ID)
	if err != nil {
		t.Fatalf("create product: %v", err)
	}
	return p
}

func TestProductCreateLowercasesTitle(t *testing.T) {
	f := newCatalogFixture(t)
	p := f.product(t)
	if p.Title != "desk lamp" || p.UserID != f.admin.ID {
		t.Fatalf("unexpected product %+v", p)
	}

	found, err := f.products.List(context.Background(), dto.ProductFilter{Title: "LAMP"})
	if err != nil || len(found) != 1 {
		t.Fatalf("expected title filter match, got %d (%v)", len(found), err)
	}

	updated, err := f.products.Update(context.Background(), p.ID, dto.UpdateProductRequest{Title: strPtr("Floor LAMP")})
	if err != nil || updated.Title != "floor lamp" || updated.Price != 25 {
		t.Fatalf("unexpected update %+v (%v)", updated, err)
	}

	if _, err := f.products.Get(context.Background(), 999); !errors.Is(err, domain.ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
	resp, err := f.products.Delete(context.Background(), p.ID)
	if err != nil || resp.Message != MsgProductDeleted {
		t.Fatalf("delete: %v", err)
	}
	if _, err := f.products.Delete(context.Background(), p.ID); !errors.Is(err, domain.ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
}

func TestReviewLifecycleAndPermissions(t *testing.T) {
	f := newCatalogFixture(t)
	ctx := context.Background()
	p := f.product(t)

	created, err := f.reviews.Create(ctx, p.ID, f.alice.ID, dto.CreateReviewRequest{Rating: 4, Comment: "works well"})
	if err != nil {
		t.Fatalf("create review: %v", err)
	}
	if created.UserID != f.alice.ID || created.ProductID != p.ID || created.ID == 0 {
		t.Fatalf("unexpected response %+v", created)
	}
	if _, err := f.reviews.Create(ctx, 999, f.alice.ID, dto.CreateReviewRequest{Rating: 4, Comment: "x"}); !errors.Is(err, domain.ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}

	if _, err := f.reviews.Update(ctx, created.ID, f.bob, dto.UpdateReviewRequest{Comment: strPtr("hijack")}); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("stranger update must be forbidden, got %v", err)
	}
	if _, err := f.reviews.Update(ctx, created.ID, f.admin, dto.UpdateReviewRequest{Comment: strPtr("admin edit")}); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("admin update must be forbidden, got %v", err)
	}
	updated, err := f.reviews.Update(ctx, created.ID, f.alice, dto.UpdateReviewRequest{Rating: floatPtr(5)})
	if err != nil || updated.Rating != 5 || updated.Comment != "works well" {
		t.Fatalf("owner update: %+v (%v)", updated, err)
	}

	if _, err := f.reviews.Delete(ctx, created.ID, f.bob); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("stranger delete must be forbidden, got %v", err)
	}
	if resp, err := f.reviews.Delete(ctx, created.ID, f.admin); err != nil || resp.Message != MsgReviewDeleted {
		t.Fatalf("admin delete: %v", err)
	}
	if _, err := f.reviews.Get(ctx, created.ID); !errors.Is(err, domain.ErrReviewNotFound) {
		t.Fatalf("expected ErrReviewNotFound, got %v", err)
	}
}

func TestReviewOwnerCanDelete(t *testing.T) {
	f := newCatalogFixture(t)
	ctx := context.Background()
	p := f.product(t)
	r, err := f.reviews.Create(ctx, p.ID, f.bob.ID, dto.CreateReviewRequest{Rating: 2, Comment: "meh"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := f.reviews.Delete(ctx, r.ID, f.bob); err != nil {
		t.Fatalf("owner delete: %v", err)
	}
}

func TestReviewListPagination(t *testing.T) {
	f := newCatalogFixture(t)
	ctx := context.Background()
	p := f.product(t)
	for i := 0; i < 5; i++ {
		if _, err := f.reviews.Create(ctx, p.ID, f.alice.ID, dto.CreateReviewRequest{Rating: 3, Comment: "review"}); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	tests := []struct {
		name string
		page dto.Pagination
		want int
	}{
		{name: "first page", page: dto.Pagination{PageNumber: 1, ReviewsPerPage: 2}, want: 2},
		{name: "last page", page: dto.Pagination{PageNumber: 3, ReviewsPerPage: 2}, want: 1},
		{name: "past end", page: dto.Pagination{PageNumber: 4, ReviewsPerPage: 2}, want: 0},
		{name: "no pagination", page: dto.Pagination{PageNumber: 1, ReviewsPerPage: 0}, want: 5},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := f.reviews.List(ctx, tc.page)
			if err != nil {
				t.Fatalf("list: %v", err)
			}
			if len(got) != tc.want {
				t.Fatalf("expected %d reviews, got %d", tc.want, len(got))
			}
			for _, r := range got {
				if r.User == nil || r.User.ID != f.alice.ID {
					t.Fatalf("expected author joined in, got %+v", r.User)
				}
			}
		})
	}
}

func TestUserUpdateAndDelete(t *testing.T) {
	f := newCatalogFixture(t)
	ctx := context.Background()

	u, err := f.users.Update(ctx, f.alice.ID, dto.UpdateUserRequest{Username: strPtr("Alice"), Password: strPtr("new-secret")})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if u.DisplayName() != "Alice" || !f.users.PasswordService.Verify("new-secret", u.Password) {
		t.Fatalf("unexpected user after update %+v", u)
	}

	if _, err := f.users.Delete(ctx, f.alice.ID, f.bob); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if _, err := f.users.Delete(ctx, 999, f.admin); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
	if resp, err := f.users.Delete(ctx, f.bob.ID, f.bob); err != nil || resp.Message != MsgUserDeleted {
		t.Fatalf("self delete: %v", err)
	}
	if resp, err := f.users.Delete(ctx, f.alice.ID, f.admin); err != nil || resp.Message != MsgUserDeleted {
		t.Fatalf("admin delete: %v", err)
	}
	if _, err := f.users.GetCurrentUser(ctx, f.alice.ID); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected alice gone, got %v", err)
	}
}

const (
	pngHeader  = "\x89PNG\r\n\x1a\n"
	jpegHeader = "\xff\xd8\xff\xe0"
)

func upload(name, ct, body string) service.Upload {
	return service.Upload{Filename: name, ContentType: ct, Size: int64(len(body)), Body: strings.NewReader(body)}
}

func TestProfileImageReplaceAndRemove(t *testing.T) {
	f := newCatalogFixture(t)
	ctx := context.Background()

	first, err := f.users.SetProfileImage(ctx, f.alice.ID, upload("me.png", "image/png", pngHeader+"first"))
	if err != nil {
		t.Fatalf("set first: %v", err)
	}
	oldName := *first.ProfileImage

	second, err := f.users.SetProfileImage(ctx, f.alice.ID, upload("me2.jpg", "image/jpeg", jpegHeader+"second"))
	if err != nil {
		t.Fatalf("set second: %v", err)
	}
	newName := *second.ProfileImage
	if newName == oldName {
		t.Fatalf("expected a new object name")
	}
	if _, _, err := f.images.Open(ctx, oldName); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("old image should be deleted, got %v", err)
	}

	rc, ct, err := f.users.OpenProfileImage(ctx, newName)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	body, _ := io.ReadAll(rc)
	rc.Close()
	if string(body) != jpegHeader+"second" || ct != "image/jpeg" || !strings.HasSuffix(newName, ".jpg") {
		t.Fatalf("unexpected image %q %q", body, ct)
	}

	removed, err := f.users.RemoveProfileImage(ctx, f.alice.ID)
	if err != nil || removed.ProfileImage != nil {
		t.Fatalf("remove: %+v (%v)", removed, err)
	}
	if _, err := f.users.RemoveProfileImage(ctx, f.alice.ID); !errors.Is(err, domain.ErrNoProfileImage) {
		t.Fatalf("expected ErrNoProfileImage, got %v", err)
	}
	if _, _, err := f.users.OpenProfileImage(ctx, newName); !errors.Is(err, domain.ErrImageNotFound) {
		t.Fatalf("expected ErrImageNotFound, got %v", err)
	}
}

func TestProfileImageRejectsNonImages(t *testing.T) {
	f := newCatalogFixture(t)
	_, err := f.users.SetProfileImage(context.Background(), f.alice.ID, upload("doc.pdf", "application/pdf", "%PDF"))
	if !errors.Is(err, domain.ErrUnsupportedContentType) {
		t.Fatalf("expected ErrUnsupportedContentType, got %v", err)
	}
	// Declared as an image, but the bytes are markup.
	_, err = f.users.SetProfileImage(context.Background(), f.alice.ID, upload("evil.html", "image/png", "<script>alert(1)</script>"))
	if !errors.Is(err, domain.ErrUnsupportedContentType) {
		t.Fatalf("expected sniffed markup to be rejected, got %v", err)
	}
	big := service.Upload{Filename: "big.png", ContentType: "image/png", Size: storage.MaxImageSize + 1, Body: strings.NewReader("")}
	if _, err := f.users.SetProfileImage(context.Background(), f.alice.ID, big); !errors.Is(err, domain.ErrFileTooLarge) {
		t.Fatalf("expected ErrFileTooLarge, got %v", err)
	}
}

// Runs the account flows against sqlite so the conditional updates are
// exercised on a real database.
func TestAuthFlowOnDatabase(t *testing.T) {
	st := storetest.NewStore(t)
	mailer := &stubMailer{}
	tokens, err := NewTokenServiceHS256(TokenConfig{Issuer: "storefront", SigningKey: []byte("test-secret-0123456789")})
	if err != nil {
		t.Fatalf("token service: %v", err)
	}
	svc, err := NewAuthServiceImpl(st, NewPasswordServiceBcrypt(bcrypt.MinCost), tokens, mailer, AuthConfig{AppDomain: "http://api", ClientDomain: "http://client"})
	if err != nil {
		t.Fatalf("auth service: %v", err)
	}
	ctx := context.Background()

	if _, err := svc.Register(ctx, dto.RegisterRequest{Email: "alice@example.com", Password: "secret123", Username: "alice"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	id, vt := linkParts(t, mailer.last(t).link)
	if _, err := svc.VerifyEmail(ctx, id, vt); err != nil {
		t.Fatalf("verify: %v", err)
	}
	if _, err := svc.VerifyEmail(ctx, id, vt); !errors.Is(err, domain.ErrNoVerificationPending) {
		t.Fatalf("expected ErrNoVerificationPending, got %v", err)
	}

	login, err := svc.Login(ctx, dto.LoginRequest{Email: "alice@example.com", Password: "secret123"})
	if err != nil || !login.Authenticated() {
		t.Fatalf("login: %+v (%v)", login, err)
	}
	claims, err := tokens.Verify(login.AccessToken)
	if err != nil || claims != (domain.Claims{ID: id, Role: domain.RoleNormalUser}) {
		t.Fatalf("unexpected claims %+v (%v)", claims, err)
	}

	if _, err := svc.RequestPasswordReset(ctx, "alice@example.com"); err != nil {
		t.Fatalf("request reset: %v", err)
	}
	_, rt := linkParts(t, mailer.last(t).link)
	if _, err := svc.ConsumeReset(ctx, dto.ResetPasswordRequest{UserID: id, ResetPasswordToken: rt, NewPassword: "changed1"}); err != nil {
		t.Fatalf("consume: %v", err)
	}
	if _, err := svc.ConsumeReset(ctx, dto.ResetPasswordRequest{UserID: id, ResetPasswordToken: rt, NewPassword: "changed2"}); !errors.Is(err, domain.ErrInvalidLink) {
		t.Fatalf("expected single use, got %v", err)
	}
}

func TestUserUpdateRejectsBlankUsername(t *testing.T) {
	f := newCatalogFixture(t)
	ctx := context.Background()
	if _, err := f.users.Update(ctx, f.alice.ID, dto.UpdateUserRequest{Username: strPtr("alice")}); err != nil {
		t.Fatalf("update: %v", err)
	}

	_, err := f.users.Update(ctx, f.alice.ID, dto.UpdateUserRequest{Username: strPtr("   ")})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	u, err := f.users.GetCurrentUser(ctx, f.alice.ID)
	if err != nil || u.DisplayName() != "alice" {
		t.Fatalf("username should be unchanged, got %q (%v)", u.DisplayName(), err)
	}
}
