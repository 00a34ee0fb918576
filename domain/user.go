// Package domain contains core concepts of the chat system.
// This file defines User entities and the public identity projection.
package domain

import "time"

type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	AvatarImage  string
	IsOnline     bool
	CreatedAt    time.Time
}

// PublicIdentity is the subset of a user safe to hand to other clients.
// It is what an approved identity reveal attaches to an anonymous message.
type PublicIdentity struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	AvatarImage string `json:"avatarImage"`
}

func (u User) PublicIdentity() PublicIdentity {
	return PublicIdentity{ID: u.ID, Username: u.Username, AvatarImage: u.AvatarImage}
}
