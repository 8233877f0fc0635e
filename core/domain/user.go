package domain

import (
	"time"

	"golang.org/x/oauth2"
)

// User is a Google-authenticated student. The OAuth token is stored alongside
// the profile so the fetch pipeline can build Gmail/Calendar clients.
type User struct {
	GoogleID  string        `bson:"google_id" json:"google_id"`
	Email     string        `bson:"email" json:"email"`
	Name      string        `bson:"name" json:"name"`
	Picture   string        `bson:"picture,omitempty" json:"picture,omitempty"`
	Token     *oauth2.Token `bson:"token" json:"-"`
	CreatedAt time.Time     `bson:"created_at" json:"created_at"`
	LastLogin time.Time     `bson:"last_login" json:"last_login"`
}
