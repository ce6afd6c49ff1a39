package models

import "time"

const (
	// PointsPerPost: сколько баллов приносит одна похвала.
	PointsPerPost = 10
	// AnonymousAuthor подставляется, если автор не указан.
	AnonymousAuthor = "anonymous"
)

type PraisePost struct {
	ID            int64     `json:"id"`
	InstitutionID int       `json:"institution_id"`
	AuthorInfo    string    `json:"author_info"`
	Content       string    `json:"content"`
	PointsAwarded int       `json:"points_awarded"`
	CreatedAt     time.Time `json:"created_at"`
}
