package model

// User represents a user in the database.
type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	IsAdmin      bool
}

// RegisterRequest represents a user registration request.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest represents a user login request.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is the body returned after a successful login.
// The session token itself travels in the authToken cookie.
type LoginResponse struct {
	APICalls int    `json:"api_calls"`
	IsAdmin  bool   `json:"isAdmin"`
	Username string `json:"username"`
}

// SessionResponse echoes the identity carried by the session token.
type SessionResponse struct {
	IsAdmin  bool   `json:"isAdmin"`
	APICalls int    `json:"apiCalls"`
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

// UpdateUserRequest represents a username change.
type UpdateUserRequest struct {
	Username string `json:"username"`
}

// AdminUser is a user row as shown to administrators, without the password hash.
type AdminUser struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	IsAdmin  bool   `json:"is_admin"`
	APICalls int    `json:"api_calls"`
}

// AdminUsersResponse is the body of the admin user listing.
type AdminUsersResponse struct {
	Users   []AdminUser `json:"users"`
	IsAdmin bool        `json:"isAdmin"`
}
