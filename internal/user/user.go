// Package user holds the user record and its persistence interface.
package user

import (
	"context"
	"errors"
)

// ErrNotFound is returned when no user exists with the requested id.
var ErrNotFound = errors.New("user not found")

// User is a stored user record. The id is assigned by the store and is
// unique; name is the only mutable field.
type User struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Store defines persistence operations for users.
type Store interface {
	// Create stores a new user with the given name and returns the record
	// with its assigned id.
	Create(ctx context.Context, name string) (User, error)

	// List returns all users ordered by ascending id.
	List(ctx context.Context) ([]User, error)

	// Get returns the user with the given id, or ErrNotFound.
	Get(ctx context.Context, id int64) (User, error)

	// Update renames the user with the given id, or returns ErrNotFound.
	Update(ctx context.Context, id int64, name string) error

	// Delete removes the user with the given id, or returns ErrNotFound.
	Delete(ctx context.Context, id int64) error
}
