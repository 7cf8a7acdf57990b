package models

// User is an account. Username and Email are unique; rows are never updated.
// Password holds whatever the configured credentials.Verifier stores.
type User struct {
	ID       int64
	UserName string
	Email    string
	Password string
}
