package handler

import (
	"context"

	"wanderlust/internal/core"
	"wanderlust/internal/dto"
	"wanderlust/internal/middleware"
	cErr "wanderlust/internal/pkg/error"
	"wanderlust/internal/pkg/request"
	"wanderlust/internal/pkg/response"
	"wanderlust/internal/service"
	"wanderlust/internal/telemetry"
	"wanderlust/utils/validate"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const identityIDParam = "identityID"

type IdentityOperations interface {
	ListIdentities(ctx context.Context, role core.Role) ([]*dto.IdentityResponseDto, error)
	GetIdentity(ctx context.Context, id primitive.ObjectID) (*dto.IdentityResponseDto, error)
	UpdateIdentityRole(ctx context.Context, actor core.IdentitySnapshot, id primitive.ObjectID, input *dto.UpdateIdentityRoleDto) (*dto.IdentityResponseDto, error)
}

type AdminIdentityHandler struct {
	trace      *telemetry.Trace
	identities IdentityOperations
}

func NewAdminIdentityHandler(trace *telemetry.Trace, identityService *service.IdentityService) *AdminIdentityHandler {
	return &AdminIdentityHandler{trace: trace, identities: identityService}
}

// List 身分列表
// @Summary 取得身分列表
// @Tags Admin-Identity
// @Security BearerAuth
// @Produce json
// @Param role query string false "角色" Enums(user, admin, owner, agent)
// @Success 200 {array} dto.IdentityResponseDto
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /admin/identities [get]
func (h *AdminIdentityHandler) List(c *gin.Context) {
	ctx, _, end := h.trace.WithSpan(c)
	defer end(nil)

	identities, err := h.identities.ListIdentities(ctx, core.Role(c.Query("role")))
	if err != nil {
		response.AbortWithError(c, err)
		return
	}
	response.Success(c, identities)
}

// Get 取得身分
// @Summary 取得單一身分
// @Tags Admin-Identity
// @Security BearerAuth
// @Produce json
// @Param identityID path string true "Identity ID"
// @Success 200 {object} dto.IdentityResponseDto
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /admin/identities/{identityID} [get]
func (h *AdminIdentityHandler) Get(c *gin.Context) {
	ctx, _, end := h.trace.WithSpan(c)
	defer end(nil)

	id, cause, respErr := validate.ParseObjectID(c, identityIDParam)
	if cause != nil {
		end(cause)
		response.AbortWithError(c, respErr)
		return
	}
	identity, err := h.identities.GetIdentity(ctx, id)
	if err != nil {
		response.AbortWithError(c, err)
		return
	}
	response.Success(c, identity)
}

// UpdateRole 修改角色
// @Summary 修改身分角色
// @Tags Admin-Identity
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param identityID path string true "Identity ID"
// @Param body body dto.UpdateIdentityRoleDto true "新角色"
// @Success 200 {object} dto.IdentityResponseDto
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /admin/identities/{identityID}/role [patch]
func (h *AdminIdentityHandler) UpdateRole(c *gin.Context) {
	ctx, _, end := h.trace.WithSpan(c)
	defer end(nil)

	actor := middleware.CurrentIdentity(c)
	if actor == nil {
		response.AbortWithError(c, cErr.Unauthorized("authentication required"))
		return
	}
	id, cause, respErr := validate.ParseObjectID(c, identityIDParam)
	if cause != nil {
		end(cause)
		response.AbortWithError(c, respErr)
		return
	}
	var req dto.UpdateIdentityRoleDto
	if err := request.BindJSON(c, &req); err != nil {
		end(err)
		response.AbortWithError(c, err)
		return
	}
	identity, err := h.identities.UpdateIdentityRole(ctx, *actor, id, &req)
	if err != nil {
		response.AbortWithError(c, err)
		return
	}
	response.Success(c, identity)
}
