package model

type Team struct {
	ID   int64  `json:"id"`
	Name string `json:"name" validate:"required"`
}

type TeamWithMembers struct {
	ID      int64     `json:"id"`
	Name    string    `json:"name"`
	Members []*Member `json:"members"`
}

type TeamStats struct {
	TeamName    string `json:"team_name"`
	MemberCount int64  `json:"member_count"`
	AvgAge      int64  `json:"avg_age"`
	MinAge      int64  `json:"min_age"`
	MaxAge      int64  `json:"max_age"`
}
