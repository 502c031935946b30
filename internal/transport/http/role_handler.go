package http

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/syria-community/role-bridge/internal/domain"
	"github.com/syria-community/role-bridge/internal/service"
	"github.com/syria-community/role-bridge/internal/util"
)

type RoleHandler struct {
	roles *service.RoleAssignmentService
}

type AssignmentRecordResponse struct {
	ID        string  `json:"id"`
	UserID    string  `json:"userId"`
	RoleKey   string  `json:"roleKey"`
	RoleID    *string `json:"roleId,omitempty"`
	Outcome   string  `json:"outcome"`
	Message   string  `json:"message"`
	CreatedAt string  `json:"createdAt"`
}

// RegisterRoles mounts the role endpoints. tokens may be nil, which leaves the
// write endpoints open.
func RegisterRoles(e *echo.Echo, roles *service.RoleAssignmentService, tokens *util.JWTManager) {
	handler := &RoleHandler{roles: roles}

	e.GET("/health", handler.health)
	e.GET("/api/roles", handler.listRoles)
	e.POST("/api/assign-role", handler.assignRole, RequireBearer(tokens))
	e.GET("/api/assignments", handler.listAssignments, RequireBearer(tokens))
}

func (h *RoleHandler) health(c echo.Context) error {
	return c.JSON(http.StatusOK, util.Envelope{
		"ok":            true,
		"discord_ready": h.roles.Ready(),
	})
}

func (h *RoleHandler) listRoles(c echo.Context) error {
	return c.JSON(http.StatusOK, util.Data("roles", h.roles.RoleKeys()))
}

func (h *RoleHandler) assignRole(c echo.Context) error {
	var req domain.AssignmentRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("Missing User ID Or Role Key"))
	}

	result, err := h.roles.Assign(c.Request().Context(), req.UserID, req.RoleKey)
	if err != nil {
		status, message := statusForAssignmentError(err)
		if status >= http.StatusInternalServerError {
			log.Printf("Role Assignment Error: %v", err)
		}
		return c.JSON(status, util.Error(message))
	}
	return c.JSON(http.StatusOK, util.Result(result.Success, result.Message))
}

func (h *RoleHandler) listAssignments(c echo.Context) error {
	limit := 20
	if v := strings.TrimSpace(c.QueryParam("limit")); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	records, err := h.roles.RecentAssignments(c.Request().Context(), limit)
	if err != nil {
		if errors.Is(err, service.ErrAssignmentLogDisabled) {
			return c.JSON(http.StatusServiceUnavailable, util.Error("Assignment Log Not Configured"))
		}
		log.Printf("assignment log: list: %v", err)
		return c.JSON(http.StatusInternalServerError, util.Error("Unable To Load Assignments"))
	}

	items := make([]AssignmentRecordResponse, 0, len(records))
	for _, record := range records {
		items = append(items, toAssignmentRecordResponse(record))
	}
	return c.JSON(http.StatusOK, util.Data("items", items))
}

// statusForAssignmentError maps service errors to the HTTP status and the
// message returned to the caller.
func statusForAssignmentError(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrInvalidRequest):
		return http.StatusBadRequest, "Missing User ID Or Role Key"
	case errors.Is(err, service.ErrInvalidRoleKey):
		return http.StatusBadRequest, "Invalid Role Key"
	case errors.Is(err, service.ErrMemberNotFound):
		return http.StatusNotFound, "User Not Found In Server"
	case errors.Is(err, service.ErrBotNotConnected):
		return http.StatusInternalServerError, "Bot Is Not Connected To Discord"
	case errors.Is(err, service.ErrGuildNotFound):
		return http.StatusInternalServerError, "Guild Not Found Or Bot Is Not In Server"
	case errors.Is(err, service.ErrPlatformTimeout):
		return http.StatusGatewayTimeout, "Discord Request Timed Out"
	}
	if msg := strings.TrimSpace(err.Error()); msg != "" {
		return http.StatusInternalServerError, msg
	}
	return http.StatusInternalServerError, "Internal Server Error"
}

func toAssignmentRecordResponse(record domain.AssignmentRecord) AssignmentRecordResponse {
	return AssignmentRecordResponse{
		ID:        record.ID.String(),
		UserID:    record.UserID,
		RoleKey:   record.RoleKey,
		RoleID:    record.RoleID,
		Outcome:   string(record.Outcome),
		Message:   record.Message,
		CreatedAt: record.CreatedAt.UTC().Format(time.RFC3339),
	}
}
