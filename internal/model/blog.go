package model

import "time"

// BlogPost represents a published article.
//
// Slug is the URL-facing identifier (e.g. "launch-week-recap") and is what the
// public API looks posts up by. The internal ID stays out of URLs so posts can
// be re-imported without breaking links.
type BlogPost struct {
	ID          string    `json:"id"          bson:"_id,omitempty"`
	Slug        string    `json:"slug"        bson:"slug"`
	Title       string    `json:"title"       bson:"title"`
	Excerpt     string    `json:"excerpt"     bson:"excerpt"`
	Content     string    `json:"content"     bson:"content"`
	Author      string    `json:"author"      bson:"author"`
	Tags        []string  `json:"tags"        bson:"tags"`
	PublishedAt time.Time `json:"publishedAt" bson:"published_at"`
	CreatedAt   time.Time `json:"createdAt"   bson:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt"   bson:"updated_at"`
}
