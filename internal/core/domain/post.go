package domain

import "time"

// Post is a social post on the marketplace feed.
type Post struct {
	ID        string    `json:"id"`
	AuthorID  string    `json:"authorId"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Images    []string  `json:"images"`
	Tags      []string  `json:"tags"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// PostPatch carries the optional fields of a post update. Nil leaves a
// field untouched.
type PostPatch struct {
	Title  *string
	Body   *string
	Images *[]string
	Tags   *[]string
}
