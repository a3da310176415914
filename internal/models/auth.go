package models

// RegisterRequest is the body of POST /auth/register
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	FullName string `json:"full_name" binding:"required"`
	Phone    string `json:"phone"`
}

// LoginRequest is the body of POST /auth/login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse carries the issued token and the public user profile.
type AuthResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

// Identity is the authenticated caller passed into every core
// operation. It is produced by the JWT middleware; core code trusts it
// and performs no authentication of its own.
type Identity struct {
	UserID string
	Email  string
	Role   Role
}

// IsStaff reports whether the caller holds the staff capability.
func (i Identity) IsStaff() bool {
	return i.Role == RoleAdmin
}
