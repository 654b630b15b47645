package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/tidwall/gjson"

	"github.com/liuhuapiaoyuan/activepieces/internal/flow"
	"github.com/liuhuapiaoyuan/activepieces/internal/perm"
	"github.com/liuhuapiaoyuan/activepieces/internal/project"
	"github.com/liuhuapiaoyuan/activepieces/pkg/api"
)

var (
	ErrInvalidJSON  = errors.New("invalid JSON payload")
	ErrMissingKind  = errors.New("operation type is required")
	ErrInvalidLimit = errors.New("invalid limit")
)

// CodeFlowInUse tags the edit-conflict rejection in error responses
const CodeFlowInUse = "FLOW_IN_USE"

func (s *Server) createFlow(c *gin.Context) {
	var req api.CreateFlowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{
			Error:  fmt.Sprintf("%s: %v", ErrInvalidJSON, err),
			Status: http.StatusBadRequest,
		})
		return
	}

	principal := principalFrom(c)
	actor, ok := s.resolveActor(c, principal)
	if !ok {
		return
	}

	f, err := s.flows.Create(
		c.Request.Context(), principal.ProjectID, actor, &req,
	)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, f)
}

func (s *Server) applyOperation(c *gin.Context) {
	flowID := api.FlowID(c.Param("flowID"))

	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{
			Error:  fmt.Sprintf("%s: %v", ErrInvalidJSON, err),
			Status: http.StatusBadRequest,
		})
		return
	}

	// Peek the operation kind before decoding so authorization happens
	// first, even for payloads we would otherwise fail to parse
	kind := api.OperationKind(gjson.GetBytes(body, "type").String())
	if kind == "" {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{
			Error:  ErrMissingKind.Error(),
			Status: http.StatusBadRequest,
		})
		return
	}

	principal := principalFrom(c)
	actor, ok := s.resolveActor(c, principal)
	if !ok {
		return
	}

	role, err := s.projects.RoleOf(
		c.Request.Context(), principal.ProjectID, actor,
	)
	if err != nil {
		s.writeError(c, err)
		return
	}
	if err := perm.Authorize(role, kind); err != nil {
		s.writeError(c, err)
		return
	}

	var op api.FlowOperationRequest
	if err := json.Unmarshal(body, &op); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{
			Error:  fmt.Sprintf("%s: %v", ErrInvalidJSON, err),
			Status: http.StatusBadRequest,
		})
		return
	}

	f, err := s.flows.Apply(
		c.Request.Context(), principal.ProjectID, flowID, actor, &op,
	)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, f)
}

func (s *Server) listFlows(c *gin.Context) {
	principal := principalFrom(c)

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{
				Error:  fmt.Sprintf("%s: %q", ErrInvalidLimit, raw),
				Status: http.StatusBadRequest,
			})
			return
		}
		limit = parsed
	}

	flows, next, err := s.flows.List(c.Request.Context(), flow.ListQuery{
		ProjectID: principal.ProjectID,
		FolderID:  api.FolderID(c.Query("folderId")),
		Status:    api.FlowStatus(c.Query("status")),
		Cursor:    c.Query("cursor"),
		Limit:     limit,
	})
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, api.FlowsListResponse{
		Flows:      flows,
		NextCursor: next,
		Count:      len(flows),
	})
}

func (s *Server) countFlows(c *gin.Context) {
	principal := principalFrom(c)

	count, err := s.flows.Count(
		c.Request.Context(), principal.ProjectID,
		api.FolderID(c.Query("folderId")),
	)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, api.FlowCountResponse{Count: count})
}

func (s *Server) getFlow(c *gin.Context) {
	principal := principalFrom(c)

	f, err := s.flows.Get(
		c.Request.Context(), principal.ProjectID,
		api.FlowID(c.Param("flowID")),
		api.VersionID(c.Query("versionId")),
	)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, f)
}

func (s *Server) getFlowTemplate(c *gin.Context) {
	principal := principalFrom(c)

	tmpl, err := s.flows.GetTemplate(
		c.Request.Context(), principal.ProjectID,
		api.FlowID(c.Param("flowID")),
	)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, tmpl)
}

func (s *Server) deleteFlow(c *gin.Context) {
	principal := principalFrom(c)
	actor, ok := s.resolveActor(c, principal)
	if !ok {
		return
	}

	err := s.flows.Delete(
		c.Request.Context(), principal.ProjectID,
		api.FlowID(c.Param("flowID")), actor,
	)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// resolveActor determines whose role governs the request. Human principals
// act as themselves; service principals act as the project owner, which
// breaks down once projects grow multiple admins
func (s *Server) resolveActor(
	c *gin.Context, principal *api.Principal,
) (api.UserID, bool) {
	if !principal.IsService() {
		return principal.ID, true
	}

	owner, err := s.projects.OwnerID(c.Request.Context(), principal.ProjectID)
	if err != nil {
		s.writeError(c, err)
		return "", false
	}
	return owner, true
}

// writeError translates domain errors into HTTP error responses
func (s *Server) writeError(c *gin.Context, err error) {
	var inUse *flow.InUseError
	if errors.As(err, &inUse) {
		c.JSON(http.StatusConflict, api.ErrorResponse{
			Error:  inUse.Error(),
			Code:   CodeFlowInUse,
			Status: http.StatusConflict,
			Params: map[string]any{
				"version_id": string(inUse.VersionID),
			},
		})
		return
	}

	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, flow.ErrFlowNotFound),
		errors.Is(err, flow.ErrVersionNotFound):
		status = http.StatusNotFound
	case errors.Is(err, perm.ErrPermissionDenied),
		errors.Is(err, perm.ErrOperationNotPermitted),
		errors.Is(err, project.ErrMemberNotFound),
		errors.Is(err, project.ErrProjectNotFound):
		status = http.StatusForbidden
	case errors.Is(err, flow.ErrVersionLocked),
		errors.Is(err, flow.ErrFlowExists):
		status = http.StatusConflict
	case errors.Is(err, flow.ErrInvalidOperation),
		errors.Is(err, flow.ErrActionNotFound),
		errors.Is(err, flow.ErrInvalidCursor):
		status = http.StatusBadRequest
	}

	c.JSON(status, api.ErrorResponse{
		Error:  err.Error(),
		Status: status,
	})
}
