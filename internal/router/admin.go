package router

import (
	"wanderlust/internal/handler"
	"wanderlust/internal/middleware"

	"github.com/gin-gonic/gin"
)

type AdminRouter struct {
	identityHandler *handler.AdminIdentityHandler
	session         *middleware.Session
}

func NewAdminRouter(
	identityHandler *handler.AdminIdentityHandler,
	session *middleware.Session,
) *AdminRouter {
	return &AdminRouter{
		identityHandler: identityHandler,
		session:         session,
	}
}

func (ar *AdminRouter) RegisterRoutes(r *gin.Engine) {
	admin := r.Group("/admin/identities", ar.session.Required(), middleware.RequireAdmin())
	{
		admin.GET("", ar.identityHandler.List)
		admin.GET("/:identityID", ar.identityHandler.Get)
		admin.PATCH("/:identityID/role", ar.identityHandler.UpdateRole)
	}
}
