// Package model defines the data structures used throughout the application.
// In Go, we use structs to represent our data — similar to classes in other languages,
// but without inheritance. Go favours composition over inheritance.
package model

import "time"

// User represents a registered account.
//
// The struct carries both `json` and `bson` tags because the same record crosses
// two boundaries: the JSON API (a subset of fields) and the document store.
// Fields tagged `json:"-"` NEVER leave the server — password material and issued
// tokens must not appear in any API response.
//
// WHY Salt AS A SEPARATE FIELD?
// PasswordHash is a PBKDF2 digest of (password, salt). The salt is generated once
// at registration and stored next to the hash — the pair is meaningless if the two
// are ever separated or swapped between users. Both are hex strings so the record
// stays printable in any backend.
//
// Tokens is the append-only history of bearer tokens issued to this user. Every
// successful signup or login appends exactly one entry; nothing ever removes one.
type User struct {
	ID           string    `json:"id"    bson:"_id,omitempty"`
	Name         string    `json:"name"  bson:"name"`
	Email        string    `json:"email" bson:"email"` // lower-cased, unique
	PasswordHash string    `json:"-"     bson:"password_hash"`
	Salt         string    `json:"-"     bson:"salt"`
	IsActive     bool      `json:"-"     bson:"is_active"`
	Tokens       []string  `json:"-"     bson:"tokens"`
	CreatedAt    time.Time `json:"createdAt" bson:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" bson:"updated_at"`
}

// HasCredentials reports whether the record carries a usable hash/salt pair.
// Records missing either can never authenticate — the engine treats them
// exactly like a wrong password.
func (u *User) HasCredentials() bool {
	return u.PasswordHash != "" && u.Salt != ""
}
