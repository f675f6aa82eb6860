package models

const (
	ReportLost  = "lost"
	ReportFound = "found"
)

// LostFoundCreate is the payload of a lost or found report.
type LostFoundCreate struct {
	ItemName    string  `json:"item_name"`
	Category    string  `json:"category"`
	Description string  `json:"description,omitempty"`
	Type        string  `json:"type"`
	PhotoURL    *string `json:"photo_url"`
}

// LostFoundReport is a stored lost or found report.
type LostFoundReport struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	ItemName    string    `json:"item_name"`
	Category    string    `json:"category"`
	Description string    `json:"description,omitempty"`
	Type        string    `json:"type"`
	PhotoURL    string    `json:"photo_url,omitempty"`
	Active      bool      `json:"active"`
	CreatedAt   Timestamp `json:"created_at"`
}

// LostFoundFilter narrows the lost & found listing. Category takes
// precedence over Type on the server.
type LostFoundFilter struct {
	Type     string
	Category string
}

// PhotoRef is returned by the lost & found photo upload endpoint.
type PhotoRef struct {
	PhotoURL string `json:"photo_url"`
}
