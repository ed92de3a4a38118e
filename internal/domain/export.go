package domain

// ExportRow is one flattened (trek, date) row of the admin export.
// A trek with no dates contributes one row with empty date fields.
// Dates are formatted "2006-01-02" so spreadsheets parse them directly.
type ExportRow struct {
	TrekID     string   `json:"trekId"`
	TrekName   string   `json:"trekName"`
	Location   string   `json:"trekLocation"`
	Difficulty string   `json:"trekDifficulty"`
	TrekType   string   `json:"trekType"`
	DateID     string   `json:"dateId,omitempty"`
	StartDate  string   `json:"startDate,omitempty"`
	EndDate    string   `json:"endDate,omitempty"`
	Days       *float64 `json:"days,omitempty"`
	Price      float64  `json:"price"`
	Images     []string `json:"images"`
}
