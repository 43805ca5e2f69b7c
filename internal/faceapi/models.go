package faceapi

// RegisterResponse mirrors POST /register. Counts and qualities come from
// the backend verbatim; this service never recomputes them.
type RegisterResponse struct {
	Success         bool      `json:"success"`
	Name            string    `json:"name"`
	ModelUsed       string    `json:"model_used"`
	Message         string    `json:"message"`
	TotalRegistered int       `json:"total_registered"`
	FailedCount     int       `json:"failed_count"`
	Qualities       []float64 `json:"qualities"`
}

// SaveResponse mirrors POST /database/save.
type SaveResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// DeleteResponse mirrors DELETE /database/{name}. A remote 404 is reported
// here as Success=false rather than as an error.
type DeleteResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// errorBody is the backend's error envelope, used to pull a message out of
// 404 delete replies.
type errorBody struct {
	Detail string `json:"detail"`
}
