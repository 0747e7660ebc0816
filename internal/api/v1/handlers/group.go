package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"studyforge/internal/api/middleware"
	"studyforge/internal/api/v1/dto"
	"studyforge/internal/api/v1/services"
)

// GroupHandler handles sharing-group API endpoints
type GroupHandler struct {
	service services.GroupService
}

// NewGroupHandler creates a new group handler
func NewGroupHandler(service services.GroupService) *GroupHandler {
	return &GroupHandler{
		service: service,
	}
}

// Create handles POST /api/v1/groups
//
// @Summary Create a sharing group
// @Description Creates a group owned by the caller. Member cap follows the caller's plan.
// @Tags groups
// @Accept json
// @Produce json
// @Param group body dto.CreateGroupRequest true "Group creation data"
// @Success 201 {object} dto.GroupResponse "Group created"
// @Failure 422 {object} errors.APIError "Validation error"
// @Router /groups [post]
func (h *GroupHandler) Create(c *gin.Context) {
	var req dto.CreateGroupRequest
	if err := middleware.ValidateRequest(c, &req); err != nil {
		middleware.HandleError(c, err)
		return
	}

	response, err := h.service.CreateGroup(c.Request.Context(), middleware.CurrentUser(c), &req)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response)
}

// List handles GET /api/v1/groups
//
// @Summary List sharing groups
// @Description Lists groups the caller owns and groups they belong to
// @Tags groups
// @Produce json
// @Success 200 {object} dto.GroupListResponse "Groups"
// @Router /groups [get]
func (h *GroupHandler) List(c *gin.Context) {
	response, err := h.service.ListGroups(c.Request.Context(), middleware.CurrentUser(c))
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// Delete handles DELETE /api/v1/groups/:id
//
// @Summary Delete a sharing group
// @Description Deletes the group and its memberships. Group owner or application owner only.
// @Tags groups
// @Param id path string true "Group ID"
// @Success 204 "Group deleted"
// @Failure 403 {object} errors.APIError "Not allowed"
// @Failure 404 {object} errors.APIError "Group not found"
// @Router /groups/{id} [delete]
func (h *GroupHandler) Delete(c *gin.Context) {
	if err := h.service.DeleteGroup(c.Request.Context(), middleware.CurrentUser(c), c.Param("id")); err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// RequestToJoin handles POST /api/v1/groups/:id/join-requests
//
// @Summary Request to join a group
// @Description Records a pending join request for the caller. One pending request per group.
// @Tags groups
// @Produce json
// @Param id path string true "Group ID"
// @Success 201 {object} dto.JoinRequestResponse "Request created"
// @Failure 404 {object} errors.APIError "Group not found"
// @Failure 409 {object} errors.APIError "Request already pending"
// @Router /groups/{id}/join-requests [post]
func (h *GroupHandler) RequestToJoin(c *gin.Context) {
	response, err := h.service.RequestToJoin(c.Request.Context(), middleware.CurrentUser(c), c.Param("id"))
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response)
}

// Invite handles POST /api/v1/groups/:id/invites
//
// @Summary Invite a user to the group
// @Description Records an owner-initiated join request the invited user can accept
// @Tags groups
// @Accept json
// @Produce json
// @Param id path string true "Group ID"
// @Param invite body dto.InviteRequest true "User to invite"
// @Success 201 {object} dto.JoinRequestResponse "Invite created"
// @Failure 403 {object} errors.APIError "Not allowed"
// @Failure 404 {object} errors.APIError "Group not found"
// @Router /groups/{id}/invites [post]
func (h *GroupHandler) Invite(c *gin.Context) {
	var req dto.InviteRequest
	if err := middleware.ValidateRequest(c, &req); err != nil {
		middleware.HandleError(c, err)
		return
	}

	response, err := h.service.InviteUser(c.Request.Context(), middleware.CurrentUser(c), c.Param("id"), &req)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response)
}

// ListRequests handles GET /api/v1/groups/:id/join-requests
//
// @Summary List pending join requests
// @Description Lists unresolved join requests for the group's managers
// @Tags groups
// @Produce json
// @Param id path string true "Group ID"
// @Success 200 {array} dto.JoinRequestResponse "Pending requests"
// @Failure 403 {object} errors.APIError "Not allowed"
// @Router /groups/{id}/join-requests [get]
func (h *GroupHandler) ListRequests(c *gin.Context) {
	response, err := h.service.ListPendingRequests(c.Request.Context(), middleware.CurrentUser(c), c.Param("id"))
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// Respond handles POST /api/v1/groups/:id/join-requests/:reqId/respond
//
// @Summary Respond to a join request
// @Description Accepts or rejects a pending request. Capacity is re-checked at acceptance.
// @Tags groups
// @Accept json
// @Param id path string true "Group ID"
// @Param reqId path string true "Join request ID"
// @Param response body dto.RespondToRequestRequest true "Accept or reject"
// @Success 204 "Request resolved"
// @Failure 403 {object} errors.APIError "Not allowed"
// @Failure 404 {object} errors.APIError "Request not found or already resolved"
// @Failure 409 {object} errors.APIError "Group is full"
// @Router /groups/{id}/join-requests/{reqId}/respond [post]
func (h *GroupHandler) Respond(c *gin.Context) {
	var req dto.RespondToRequestRequest
	if err := middleware.ValidateRequest(c, &req); err != nil {
		middleware.HandleError(c, err)
		return
	}

	err := h.service.RespondToRequest(c.Request.Context(), middleware.CurrentUser(c),
		c.Param("id"), c.Param("reqId"), *req.Accept)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// RemoveMember handles DELETE /api/v1/groups/:id/members/:userId
//
// @Summary Remove a member
// @Description Marks the member as left. Group owner and moderation roles only.
// @Tags groups
// @Param id path string true "Group ID"
// @Param userId path string true "Member user ID"
// @Success 204 "Member removed"
// @Failure 400 {object} errors.APIError "User is not an active member"
// @Failure 403 {object} errors.APIError "Not allowed"
// @Router /groups/{id}/members/{userId} [delete]
func (h *GroupHandler) RemoveMember(c *gin.Context) {
	err := h.service.RemoveMember(c.Request.Context(), middleware.CurrentUser(c),
		c.Param("id"), c.Param("userId"))
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Leave handles POST /api/v1/groups/:id/leave
//
// @Summary Leave a group
// @Description Marks the caller's membership as left
// @Tags groups
// @Param id path string true "Group ID"
// @Success 204 "Left the group"
// @Failure 400 {object} errors.APIError "Not an active member"
// @Router /groups/{id}/leave [post]
func (h *GroupHandler) Leave(c *gin.Context) {
	if err := h.service.LeaveGroup(c.Request.Context(), middleware.CurrentUser(c), c.Param("id")); err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
