package models

// BarterIntentCreate offers an owned item in exchange for a wanted category.
type BarterIntentCreate struct {
	ItemID          int64  `json:"item_id"`
	WantCategory    string `json:"want_category"`
	WantDescription string `json:"want_description,omitempty"`
	Emergency       bool   `json:"emergency"`
}

// BarterIntent is a stored barter intent.
type BarterIntent struct {
	ID              int64     `json:"id"`
	UserID          int64     `json:"user_id"`
	ItemID          int64     `json:"item_id"`
	WantCategory    string    `json:"want_category"`
	WantDescription string    `json:"want_description,omitempty"`
	Emergency       bool      `json:"emergency"`
	Active          bool      `json:"active"`
	CreatedAt       Timestamp `json:"created_at"`
}

// BarterIntentResult tells whether posting the intent closed a match.
type BarterIntentResult struct {
	BarterIntent BarterIntent `json:"barter_intent"`
	MatchFound   bool         `json:"match_found"`
	Match        *Match       `json:"match,omitempty"`
	Message      string       `json:"message,omitempty"`
}
