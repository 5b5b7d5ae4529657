package services

import "errors"

// Sentinel errors returned by the service layer. Controllers map these to
// HTTP status codes.
var (
	// ErrEmailTaken is returned when registering with an email that is
	// already in use.
	ErrEmailTaken = errors.New("email already registered")

	// ErrInvalidCredentials is returned on a failed login. It deliberately
	// does not distinguish unknown email from wrong password.
	ErrInvalidCredentials = errors.New("incorrect email or password")

	// ErrSweetNotFound is returned when the referenced sweet does not exist.
	ErrSweetNotFound = errors.New("sweet not found")

	// ErrNoFields is returned when a partial update carries no fields.
	ErrNoFields = errors.New("no fields to update")

	// ErrOutOfStock is returned when a purchase finds zero quantity.
	ErrOutOfStock = errors.New("sweet is out of stock")

	// ErrInvalidAmount is returned when a restock amount is not positive.
	ErrInvalidAmount = errors.New("restock amount must be a positive integer")

	// ErrUserNotFound is returned when the referenced user does not exist.
	ErrUserNotFound = errors.New("user not found")
)
