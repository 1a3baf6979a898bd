// controller/permission_controller.go
package controller

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	permy_errors "github.com/dev-mohitbeniwal/permy/errors"
	pdp_model "github.com/dev-mohitbeniwal/permy/pdp/model"
	"github.com/dev-mohitbeniwal/permy/service"
	"github.com/dev-mohitbeniwal/permy/util"
	helper_util "github.com/dev-mohitbeniwal/permy/util/helper"
)

type PermissionController struct {
	permissionService service.IPermissionService
}

func NewPermissionController(permissionService service.IPermissionService) *PermissionController {
	return &PermissionController{
		permissionService: permissionService,
	}
}

// RegisterRoutes registers the API routes for permissions
func (pc *PermissionController) RegisterRoutes(r *gin.RouterGroup) {
	permissions := r.Group("/permissions")
	{
		permissions.POST("/check", pc.Check)
		permissions.GET("/catalog", pc.GetCatalog)
		permissions.GET("/decisions", pc.ListDecisions)
	}
}

// Check endpoint
func (pc *PermissionController) Check(c *gin.Context) {
	var req pdp_model.CheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid permission check data", permy_errors.ErrInvalidCheckData)
		return
	}

	decision, err := pc.permissionService.Check(c.Request.Context(), req, util.GetRequestIDFromContext(c))
	if err != nil {
		switch {
		case errors.Is(err, permy_errors.ErrInvalidCheckData):
			util.RespondWithError(c, http.StatusBadRequest, "Invalid permission check data", err)
		case errors.Is(err, permy_errors.ErrSubjectNotFound):
			util.RespondWithError(c, http.StatusNotFound, "Subject not found", err)
		case permy_errors.IsDecisionError(err):
			util.RespondWithError(c, http.StatusUnprocessableEntity, err.Error(), err)
		default:
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to check permission", permy_errors.ErrInternalServer)
		}
		return
	}

	c.JSON(http.StatusOK, decision)
}

// GetCatalog endpoint
func (pc *PermissionController) GetCatalog(c *gin.Context) {
	catalog, err := pc.permissionService.Catalog(c)
	if err != nil {
		util.RespondWithError(c, http.StatusInternalServerError, "Failed to build permission catalog", err)
		return
	}

	c.JSON(http.StatusOK, catalog)
}

// ListDecisions endpoint
func (pc *PermissionController) ListDecisions(c *gin.Context) {
	from, to, err := helper_util.ParseTimeRange(c.Query("from"), c.Query("to"), time.Now())
	if err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid time range", err)
		return
	}
	limit, offset, err := helper_util.GetPaginationParams(c)
	if err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid pagination parameters", err)
		return
	}

	decisions, err := pc.permissionService.Decisions(c, service.DecisionQuery{
		From:        from,
		To:          to,
		SubjectID:   c.Query("subject_id"),
		ResourceKey: c.Query("resource_key"),
		Limit:       limit,
		Offset:      offset,
	})
	if err != nil {
		util.RespondWithError(c, http.StatusInternalServerError, "Failed to list decisions", err)
		return
	}

	c.JSON(http.StatusOK, decisions)
}
