package model

import "time"

// ContactMessage is one submission from the public contact form.
// Write-only from the API's point of view — there is no endpoint that reads
// these back; they are reviewed directly in the store.
type ContactMessage struct {
	ID        string    `json:"id"        bson:"_id,omitempty"`
	Name      string    `json:"name"      bson:"name"`
	Email     string    `json:"email"     bson:"email"`
	Subject   string    `json:"subject"   bson:"subject"`
	Message   string    `json:"message"   bson:"message"`
	CreatedAt time.Time `json:"createdAt" bson:"created_at"`
}
