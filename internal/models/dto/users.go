package dto

import "github.com/hongminglow/lendsqr-admin/internal/models"

type UserPage struct {
	Users        []models.User `json:"users"`
	Page         int           `json:"page"`
	PageSize     int           `json:"pageSize"`
	TotalPages   int           `json:"totalPages"`
	Total        int           `json:"total"`
	PrevDisabled bool          `json:"prevDisabled"`
	NextDisabled bool          `json:"nextDisabled"`
}

type UserDetail struct {
	User    models.User    `json:"user"`
	Profile models.Profile `json:"profile"`
	// Source is "handoff" when the record came from the session's hand-off
	// slot and "lookup" when it was found by identifier.
	Source string `json:"source"`
}

type StatsResponse struct {
	Users         int      `json:"users"`
	ActiveUsers   int      `json:"activeUsers"`
	WithLoans     int      `json:"usersWithLoans"`
	WithSavings   int      `json:"usersWithSavings"`
	Organizations []string `json:"organizations"`
	Statuses      []string `json:"statuses"`
}
