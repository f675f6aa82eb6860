package models

// Item is an asset a user listed for barter.
type Item struct {
	ID         int64     `json:"id"`
	OwnerID    int64     `json:"owner_id"`
	Name       string    `json:"name"`
	Category   string    `json:"category"`
	Condition  string    `json:"condition"`
	Department string    `json:"department,omitempty"`
	PhotoURL   string    `json:"photo_url,omitempty"`
	Status     string    `json:"status,omitempty"`
	CreatedAt  Timestamp `json:"created_at"`
}

// PhotoAnalysis is the backend's assessment of an uploaded item photo.
type PhotoAnalysis struct {
	ItemName            string   `json:"item_name"`
	Category            string   `json:"category"`
	Condition           string   `json:"condition"`
	EstimatedDepartment string   `json:"estimated_department,omitempty"`
	Description         string   `json:"description"`
	SuggestedWants      []string `json:"suggested_wants,omitempty"`
	EcoValue            int      `json:"eco_value"`
	Confidence          float64  `json:"confidence"`
	ReusabilityScore    int      `json:"reusability_score,omitempty"`
}

// PhotoUploadResult is returned by the item photo upload endpoint.
type PhotoUploadResult struct {
	Item     Item          `json:"item"`
	Analysis PhotoAnalysis `json:"analysis"`
	PhotoURL string        `json:"photo_url"`
}

// Photo is an image ready to be sent as multipart form data.
type Photo struct {
	Filename    string
	ContentType string
	Data        []byte
}
