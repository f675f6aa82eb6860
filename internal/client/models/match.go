package models

const (
	MatchDirect   = "direct"
	MatchThreeWay = "three_way"

	MatchPending   = "pending"
	MatchAccepted  = "accepted"
	MatchCompleted = "completed"
)

// Participant is one side of a match: who gives which item and what they receive.
type Participant struct {
	UserID   int64  `json:"user_id"`
	UserName string `json:"user_name"`
	ItemID   int64  `json:"item_id"`
	ItemName string `json:"item_name"`
	Wants    string `json:"wants"`
}

// Match is a proposed direct swap or three-way cycle.
type Match struct {
	ID           int64         `json:"id"`
	Type         string        `json:"type"`
	Participants []Participant `json:"participants"`
	Status       string        `json:"status"`
	AcceptedBy   []int64       `json:"accepted_by,omitempty"`
	Explanation  string        `json:"explanation,omitempty"`
	Flow         string        `json:"flow,omitempty"`
	CreatedAt    Timestamp     `json:"created_at"`
}

// AcceptedByUser reports whether userID already accepted m.
func (m Match) AcceptedByUser(userID int64) bool {
	for _, id := range m.AcceptedBy {
		if id == userID {
			return true
		}
	}
	return false
}

// AcceptResult is returned after accepting a match.
type AcceptResult struct {
	MatchID    int64   `json:"match_id"`
	Status     string  `json:"status"`
	AcceptedBy []int64 `json:"accepted_by"`
	Message    string  `json:"message"`
}
