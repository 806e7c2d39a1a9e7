package userRepo

import "slotline/models"

// UserRepository defines methods for user data access.
type UserRepository interface {
	// GetByID retrieves a user by its unique ID.
	GetByID(id string) (*models.User, error)
	// GetByEmail retrieves a user by email address.
	GetByEmail(email string) (*models.User, error)
	// GetOrCreate returns the user with the given email, creating it with the
	// given name if none exists. Email is the natural key: calling twice with
	// the same email always yields the same user.
	GetOrCreate(email, name string) (*models.User, error)
}
