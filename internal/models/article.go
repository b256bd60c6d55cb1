package models

import "github.com/google/uuid"

// NewArticle creates an article with a generated UUID and its position in
// the source file. Seq preserves file order for deterministic tie-breaking.
func NewArticle(seq int64) *Article {
	return &Article{
		ID:  uuid.New(),
		Seq: seq,
	}
}
