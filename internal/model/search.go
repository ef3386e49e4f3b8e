package model

// MemberSearchCondition filters member searches. Empty fields are ignored.
type MemberSearchCondition struct {
	Username string `json:"username"`
	TeamName string `json:"team_name"`
	AgeGoe   *int   `json:"age_goe" validate:"omitempty,gte=0"`
	AgeLoe   *int   `json:"age_loe" validate:"omitempty,gte=0"`
}

type PageRequest struct {
	Offset int64 `json:"offset" validate:"gte=0"`
	Limit  int64 `json:"limit" validate:"gte=1,lte=1000"`
}

type Page[T any] struct {
	Content []T   `json:"content"`
	Total   int64 `json:"total"`
	Offset  int64 `json:"offset"`
	Limit   int64 `json:"limit"`
}
