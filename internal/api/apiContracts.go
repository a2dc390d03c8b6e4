package api

// requests---------------------

// ChatRequest is the body of POST /v1/chat. TopK is optional and defaults to the configured value.
type ChatRequest struct {
	Message string `json:"message" validate:"required" example:"What is the vacation policy?"`
	TopK    *int   `json:"top_k,omitempty" minimum:"1" maximum:"20" example:"4"`
}

// responses--------------------

type ChatResponse struct {
	Answer  string   `json:"answer" example:"Full-time employees accrue 20 days per year [1]."`
	Sources []Source `json:"sources"`
}

// Source is one retrieved passage, in retrieval order; sources[n-1] is citation [n].
type Source struct {
	Text     string         `json:"text"`
	Location map[string]any `json:"location"`
	Metadata map[string]any `json:"metadata"`
	Score    *float64       `json:"score"`
}

type ErrorResponse struct {
	Detail string `json:"detail" example:"top_k: must be between 1 and 20"`
}

type HealthResponse struct {
	Status string `json:"status" example:"ok"`
}
