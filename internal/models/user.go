package models

import "time"

// UserType distinguishes customers from the two provider kinds.
type UserType string

const (
	UserTypeCustomer   UserType = "customer"
	UserTypeContractor UserType = "contractor"
	UserTypeFreelancer UserType = "freelancer"
)

// IsProvider reports whether the user offers services.
func (t UserType) IsProvider() bool {
	return t == UserTypeContractor || t == UserTypeFreelancer
}

// User represents an application user stored in the users table.
type User struct {
	ID           int64     `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	UserType     UserType  `db:"user_type" json:"user_type"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}
