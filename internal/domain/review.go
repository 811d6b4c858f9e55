package domain

import "time"

// Review belongs to the user that wrote it. User is only populated when the
// store query joins it in.
type Review struct {
	ID        ReviewID  `gorm:"primaryKey;autoIncrement" json:"id"`
	Rating    float64   `gorm:"not null" json:"rating"`
	Comment   string    `gorm:"type:text;not null" json:"comment"`
	ProductID ProductID `gorm:"index;not null" json:"productId"`
	UserID    UserID    `gorm:"index;not null" json:"userId"`
	User      *User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
	Product   *Product  `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null" json:"updatedAt"`
}

func (Review) TableName() string { return "reviews" }

func (r *Review) OwnerID() UserID { return r.UserID }
