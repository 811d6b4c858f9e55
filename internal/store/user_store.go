package store

import (
	"context"

	"storefront/internal/domain"

	"gorm.io/gorm"
)

type UserStore struct{ db *gorm.DB }

func (u *UserStore) Create(ctx context.Context, usr *domain.User) error {
	if usr.Role == "" {
		usr.Role = domain.RoleNormalUser
	}
	return translate(u.db.WithContext(ctx).Create(usr).Error)
}

func (u *UserStore) GetByID(ctx context.Context, id domain.UserID) (*domain.User, error) {
	var user domain.User
	if err := u.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (u *UserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	if err := u.db.WithContext(ctx).First(&user, "email = ?", email).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (u *UserStore) List(ctx context.Context) ([]*domain.User, error) {
	var users []*domain.User
	if err := u.db.WithContext(ctx).Order("id ASC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// Update applies the given column values to one user.
func (u *UserStore) Update(ctx context.Context, id domain.UserID, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	res := u.db.WithContext(ctx).Model(&domain.User{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

func (u *UserStore) SetVerificationToken(ctx context.Context, id domain.UserID, token string) error {
	return u.Update(ctx, id, map[string]any{"verification_token": token})
}

func (u *UserStore) SetResetToken(ctx context.Context, id domain.UserID, token string) error {
	return u.Update(ctx, id, map[string]any{"reset_password_token": token})
}

func (u *UserStore) SetProfileImage(ctx context.Context, id domain.UserID, name *string) error {
	return u.Update(ctx, id, map[string]any{"profile_image": name})
}

// ConsumeResetToken swaps the password hash and clears the reset token only
// while the stored token still equals token.
func (u *UserStore) ConsumeResetToken(ctx context.Context, id domain.UserID, token, passwordHash string) error {
	res := u.db.WithContext(ctx).Model(&domain.User{}).
		Where("id = ? AND reset_password_token = ?", id, token).
		Updates(map[string]any{
			"password":             passwordHash,
			"reset_password_token": nil,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStaleToken
	}
	return nil
}

// MarkEmailVerified flips the account to verified and clears the token under
// the same token-equality condition as ConsumeResetToken.
func (u *UserStore) MarkEmailVerified(ctx context.Context, id domain.UserID, token string) error {
	res := u.db.WithContext(ctx).Model(&domain.User{}).
		Where("id = ? AND verification_token = ?", id, token).
		Updates(map[string]any{
			"is_account_verified": true,
			"verification_token":  nil,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStaleToken
	}
	return nil
}
