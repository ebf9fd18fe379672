package dto

import "time"

type RefreshResponseDTO struct {
	Success            bool      `json:"success"`
	Checked            int       `json:"checked"`
	Updated            int       `json:"updated"`
	Message            string    `json:"message"`
	RemainingRefreshes int       `json:"remainingRefreshes"`
	NextRefreshDate    time.Time `json:"nextRefreshDate"`
}

type RefreshErrorDTO struct {
	Error           string     `json:"error"`
	Message         string     `json:"message,omitempty"`
	NextRefreshDate *time.Time `json:"nextRefreshDate,omitempty"`
}
