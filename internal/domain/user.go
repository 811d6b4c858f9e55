package domain

import "time"

type User struct {
	ID                 UserID    `gorm:"primaryKey;autoIncrement" json:"id"`
	Username           *string   `gorm:"type:varchar(150)" json:"username"`
	Email              string    `gorm:"type:varchar(250);uniqueIndex:ux_users_email;not null" json:"email"`
	Password           string    `gorm:"type:text;not null" json:"-"`
	Role               Role      `gorm:"column:user_type;type:varchar(32);not null;default:normal_user" json:"userType"`
	IsAccountVerified  bool      `gorm:"not null;default:false" json:"isAccountVerified"`
	VerificationToken  *string   `gorm:"type:text" json:"-"`
	ResetPasswordToken *string   `gorm:"type:text" json:"-"`
	ProfileImage       *string   `gorm:"type:text" json:"profileImage"`
	CreatedAt          time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt          time.Time `gorm:"not null" json:"updatedAt"`
}

func (User) TableName() string { return "users" }

func (u *User) DisplayName() string {
	if u.Username == nil {
		return ""
	}
	return *u.Username
}
