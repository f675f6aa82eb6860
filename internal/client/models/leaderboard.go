package models

// LeaderboardEntry ranks a user by eco-credits earned.
type LeaderboardEntry struct {
	Rank            int    `json:"rank"`
	UserID          int64  `json:"user_id"`
	UserName        string `json:"user_name"`
	Department      string `json:"department,omitempty"`
	TotalEcoCredits int    `json:"total_eco_credits"`
}
