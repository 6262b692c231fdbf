package models

import "time"

// User is created on a user's first successful login and never deleted.
// Upvotes/Downvotes are word-id membership sets; a word id must appear in at
// most one of the two. WordsAuthor is the denormalized back-reference to the
// words this user submitted.
type User struct {
	ID            string    `json:"id" bson:"_id"`
	GoogleID      string    `json:"google_id" bson:"google_id"`
	Name          string    `json:"name" bson:"name"`
	Email         string    `json:"email" bson:"email"`
	Picture       string    `json:"picture" bson:"picture,omitempty"`
	EmailVerified bool      `json:"email_verified" bson:"email_verified"`
	WordsAuthor   []string  `json:"words_author" bson:"words_author"`
	Upvotes       []string  `json:"upvotes" bson:"upvotes"`
	Downvotes     []string  `json:"downvotes" bson:"downvotes"`
	CreatedAt     time.Time `json:"created_at" bson:"created_at"`
}

// Identity is the claim set returned by the identity provider.
type Identity struct {
	Subject       string `json:"subject"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	Picture       string `json:"picture"`
	EmailVerified bool   `json:"email_verified"`
}
