package entity

// User is the descriptor returned by the auth endpoints. There is exactly
// one configured identity (the admin); users are never stored.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

const RoleAdmin = "admin"
