package http

// HealthResponse is the response body for GET /health.
type HealthResponse struct {
	Status string `json:"status"`
}

// ListResponse is the response body for GET /api/v1/itineraries.
type ListResponse struct {
	Keys []string `json:"keys"`
}

// GroupsResponse is the response body for the by-date and by-category
// views.
type GroupsResponse[G any] struct {
	Title  string `json:"title"`
	Dates  string `json:"dates"`
	Groups []G    `json:"groups"`
}
