package api

type (
	// CreateFlowRequest contains parameters for creating a new flow
	CreateFlowRequest struct {
		DisplayName string   `json:"display_name" binding:"required"`
		FolderID    FolderID `json:"folder_id,omitempty"`
	}

	// FlowsListResponse contains a page of flows and the cursor for the
	// next page, empty when the listing is exhausted
	FlowsListResponse struct {
		Flows      []*Flow `json:"flows"`
		NextCursor string  `json:"next_cursor,omitempty"`
		Count      int     `json:"count"`
	}

	// FlowCountResponse contains the number of flows matching a filter
	FlowCountResponse struct {
		Count int64 `json:"count"`
	}

	// MessageResponse contains a simple message string
	MessageResponse struct {
		Message string `json:"message"`
	}

	// ErrorResponse contains error details for failed requests. Code and
	// Params carry machine-readable details for domain errors such as the
	// edit-conflict rejection
	ErrorResponse struct {
		Params map[string]any `json:"params,omitempty"`
		Error  string         `json:"error"`
		Code   string         `json:"code,omitempty"`
		Status int            `json:"status,omitempty"`
	}
)
