package users

import "time"

// User representa una cuenta de la app.
// PasswordHash es bcrypt; nunca sale por la API.
type User struct {
	ID string

	FirstName string
	Email     string

	PasswordHash string

	CreatedAt time.Time
}
