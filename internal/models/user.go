package models

import "time"

// User is a registered blog account.
type User struct {
	ID           string    `bson:"_id,omitempty" json:"id"`
	Username     string    `bson:"username" json:"username"`
	Email        string    `bson:"email" json:"email"`
	FullName     string    `bson:"fullName" json:"fullName"`
	Avatar       string    `bson:"avatar" json:"avatar"`
	PasswordHash string    `bson:"password" json:"-"`
	CreatedAt    time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time `bson:"updatedAt" json:"updatedAt"`
}

// Author is the public projection of a User embedded in posts and comments.
type Author struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	FullName string `json:"fullName"`
	Avatar   string `json:"avatar"`
}

// Author returns the public projection of u.
func (u *User) Author() Author {
	return Author{ID: u.ID, Username: u.Username, FullName: u.FullName, Avatar: u.Avatar}
}
