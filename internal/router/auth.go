package router

import (
	"wanderlust/internal/handler"
	"wanderlust/internal/middleware"

	"github.com/gin-gonic/gin"
)

type AuthRouter struct {
	authHandler *handler.AuthHandler
	session     *middleware.Session
	throttle    *middleware.LoginThrottle
}

func NewAuthRouter(
	authHandler *handler.AuthHandler,
	session *middleware.Session,
	throttle *middleware.LoginThrottle,
) *AuthRouter {
	return &AuthRouter{
		authHandler: authHandler,
		session:     session,
		throttle:    throttle,
	}
}

func (ar *AuthRouter) RegisterRoutes(r *gin.Engine) {
	auth := r.Group("/auth")
	{
		auth.POST("/register", ar.authHandler.Register)
		auth.POST("/signin", ar.throttle.Guard(), ar.authHandler.SignIn)
		auth.POST("/oauth/:provider", ar.authHandler.SignInExternal)

		// 以下需登入
		auth.POST("/password", ar.session.Required(), ar.authHandler.SetPassword)
		auth.GET("/session", ar.session.Required(), ar.authHandler.Session)
		auth.POST("/session/refresh", ar.session.Required(), ar.authHandler.Refresh)
		auth.POST("/signout", ar.session.Required(), ar.authHandler.SignOut)
	}

	me := r.Group("/me", ar.session.Required())
	{
		me.GET("/profile", ar.authHandler.Profile)
		me.PUT("/profile", ar.authHandler.UpdateProfile)
	}
}
