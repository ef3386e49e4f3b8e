package model

type Member struct {
	ID       int64   `json:"id"`
	Username *string `json:"username"`
	Age      int     `json:"age" validate:"gte=0"`
	TeamID   *int64  `json:"team_id,omitempty"`
}

// NewMember builds an unsaved member. A nil team leaves the member unaffiliated.
func NewMember(username string, age int, team *Team) Member {
	m := Member{Username: &username, Age: age}
	if team != nil {
		id := team.ID
		m.TeamID = &id
	}
	return m
}

// MemberTeam is the flat member/team projection returned by member searches.
type MemberTeam struct {
	MemberID int64   `json:"member_id"`
	Username *string `json:"username"`
	Age      int     `json:"age"`
	TeamID   *int64  `json:"team_id"`
	TeamName *string `json:"team_name"`
}
