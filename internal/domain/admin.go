package domain

// Admin is the back-office operator configured for the shop
type Admin struct {
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
	Role         string `json:"role"`
}

// RoleAdmin grants access to the back-office routes
const RoleAdmin = "admin"
