package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"vibe-service/internal/services"
	"vibe-service/internal/telemetry"
)

// GroupHandler serves squads.
type GroupHandler struct {
	groups *services.GroupService
	audit  *telemetry.AuditEmitter
}

// NewGroupHandler constructs a GroupHandler.
func NewGroupHandler(groups *services.GroupService, audit *telemetry.AuditEmitter) *GroupHandler {
	return &GroupHandler{groups: groups, audit: audit}
}

type createGroupRequest struct {
	Name        string `json:"name" form:"name"`
	Description string `json:"description" form:"description"`
}

// CreateGroup accepts JSON or a multipart form with an optional "avatar".
func (h *GroupHandler) CreateGroup(c *gin.Context) {
	var req createGroupRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "code": "validation"})
		return
	}

	var avatar *services.Photo
	if fh, err := c.FormFile("avatar"); err == nil {
		photo, err := readPhoto(fh)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "could not read avatar", "code": "validation"})
			return
		}
		avatar = &photo
	}

	group, err := h.groups.Create(c.Request.Context(), userIDFromContext(c), req.Name, req.Description, avatar)
	if err != nil {
		respondError(c, err)
		return
	}
	audit(c, h.audit, "group.create", group.ID, group.Name)
	c.JSON(http.StatusCreated, group)
}

// ListGroups lists groups for the current user.
func (h *GroupHandler) ListGroups(c *gin.Context) {
	groups, err := h.groups.List(c.Request.Context(), userIDFromContext(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, groups)
}

type addMemberRequest struct {
	UserID string `json:"user_id" binding:"required"`
}

// AddMember invites a user into the group. Admin only.
func (h *GroupHandler) AddMember(c *gin.Context) {
	var req addMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "code": "validation"})
		return
	}
	groupID := c.Param("id")
	if err := h.groups.AddMember(c.Request.Context(), userIDFromContext(c), groupID, req.UserID); err != nil {
		respondError(c, err)
		return
	}
	audit(c, h.audit, "group.add_member", groupID, req.UserID)
	c.JSON(http.StatusCreated, gin.H{"status": "pending"})
}

// Members lists the group's members.
func (h *GroupHandler) Members(c *gin.Context) {
	members, err := h.groups.Members(c.Request.Context(), userIDFromContext(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, members)
}
