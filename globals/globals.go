package globals

import (
	"context"
	"os"
)

var JwtSecret = []byte(jwtSecretFromEnv())

func jwtSecretFromEnv() string {
	if s := os.Getenv("JWT_SECRET"); s != "" {
		return s
	}
	return "your_secret_key" // Replace with a secure secret key
}

// Context keys
type ContextKey string

const RoleKey ContextKey = "role"
const UserIDKey ContextKey = "userId"

// GuestUserID is the fixed sentinel identity for unauthenticated visitors.
// Guests may read shared state and append order items with a guest name,
// nothing else.
const GuestUserID = "guest"

const GuestDisplayName = "Gość"

var Ctx = context.Background()
