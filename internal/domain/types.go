package domain

type UserID = int64
type ProductID = int64
type ReviewID = int64

// Role is the closed set of account types.
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleNormalUser Role = "normal_user"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleNormalUser:
		return true
	default:
		return false
	}
}
