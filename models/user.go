package models

import "time"

type User struct {
	UserID        string    `json:"userid" bson:"userid"`
	Username      string    `json:"username" bson:"username"`
	Name          string    `json:"name,omitempty" bson:"name,omitempty"`
	Email         string    `json:"email" bson:"email"`
	Password      string    `json:"-" bson:"password"`
	Role          []string  `json:"role" bson:"role"`
	Avatar        string    `json:"avatar,omitempty" bson:"avatar,omitempty"`
	CreatedAt     time.Time `json:"created_at" bson:"created_at"`
	LastLogin     time.Time `json:"last_login" bson:"last_login"`
	RefreshToken  string    `json:"-" bson:"refresh_token,omitempty"`
	RefreshExpiry time.Time `json:"-" bson:"refresh_expiry,omitempty"`
}

// PublicUser is the directory view rendered next to reservations and votes.
type PublicUser struct {
	UserID   string   `json:"userid" bson:"userid"`
	Username string   `json:"username" bson:"username"`
	Name     string   `json:"name,omitempty" bson:"name,omitempty"`
	Email    string   `json:"email" bson:"email"`
	Role     []string `json:"role" bson:"role"`
	Avatar   string   `json:"avatar,omitempty" bson:"avatar,omitempty"`
}
