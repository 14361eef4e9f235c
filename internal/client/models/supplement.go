package models

type Supplement struct {
	ID        int64    `json:"id"`
	Name      string   `json:"name"`
	Brand     string   `json:"brand,omitempty"`
	Category  string   `json:"category,omitempty"`
	ImageURL  string   `json:"imageUrl,omitempty"`
	Nutrients []string `json:"nutrients,omitempty"`
	Liked     bool     `json:"liked"`
}

type SupplementPage struct {
	Content       []Supplement `json:"content"`
	Page          int          `json:"page"`
	Size          int          `json:"size"`
	TotalElements int64        `json:"totalElements"`
	HasNext       bool         `json:"hasNext"`
}

type SearchQuery struct {
	Keyword  string
	Category string
	Page     int
	Size     int
}

type AnalyzeRequest struct {
	SupplementIDs []int64 `json:"supplementIds"`
}

type Interaction struct {
	Nutrients   []string `json:"nutrients"`
	Description string   `json:"description"`
}

type CombinationAnalysis struct {
	Score     int           `json:"score"`
	Summary   string        `json:"summary"`
	Synergies []Interaction `json:"synergies"`
	Conflicts []Interaction `json:"conflicts"`
}

type Recommendation struct {
	ID          int64        `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Supplements []Supplement `json:"supplements"`
}
