package handler

// createTaskRequest mirrors the POST /todos body. Field names match the wire
// contract of the original deployment (userEmail, not ownerEmail).
type createTaskRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	UserEmail   string   `json:"userEmail"`
	Status      string   `json:"status"`
	SharedWith  []string `json:"sharedWith"`
}

// updateTaskRequest uses pointer fields so absent and present-but-empty are
// distinguishable; presence drives the partial update.
type updateTaskRequest struct {
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	Status      *string   `json:"status"`
	SharedWith  *[]string `json:"sharedWith"`
}

// setStatusRequest mirrors the PATCH /todos/{id}/status body.
type setStatusRequest struct {
	Status string `json:"status"`
}
