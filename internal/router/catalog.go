package router

import (
	"wanderlust/internal/database/mongodb/model"
	"wanderlust/internal/handler"
	"wanderlust/internal/middleware"

	"github.com/gin-gonic/gin"
)

type CatalogRouter struct {
	session  *middleware.Session
	hotels   *handler.HotelHandler
	resorts  *handler.ResortHandler
	tours    *handler.TourHandler
	packages *handler.PackageHandler
	rentals  *handler.RentalHandler
	services *handler.TravelServiceHandler
}

func NewCatalogRouter(
	session *middleware.Session,
	hotels *handler.HotelHandler,
	resorts *handler.ResortHandler,
	tours *handler.TourHandler,
	packages *handler.PackageHandler,
	rentals *handler.RentalHandler,
	services *handler.TravelServiceHandler,
) *CatalogRouter {
	return &CatalogRouter{
		session:  session,
		hotels:   hotels,
		resorts:  resorts,
		tours:    tours,
		packages: packages,
		rentals:  rentals,
		services: services,
	}
}

func (cr *CatalogRouter) RegisterRoutes(r *gin.Engine) {
	registerCatalog(r.Group("/hotels"), cr.session, cr.hotels)
	registerCatalog(r.Group("/resorts"), cr.session, cr.resorts)
	registerCatalog(r.Group("/tours"), cr.session, cr.tours)
	registerCatalog(r.Group("/packages"), cr.session, cr.packages)
	registerCatalog(r.Group("/rentals"), cr.session, cr.rentals)
	registerCatalog(r.Group("/services"), cr.session, cr.services)
}

// 讀取公開；異動由 service 判斷 401 / 403
func registerCatalog[D model.CatalogDocument](g *gin.RouterGroup, session *middleware.Session, h *handler.CatalogHandler[D]) {
	g.GET("", session.Optional(), h.List)
	g.GET("/:id", session.Optional(), h.Get)
	g.POST("", session.Attach(), h.Create)
	g.PUT("/:id", session.Attach(), h.Update)
	g.DELETE("/:id", session.Attach(), h.Delete)
}
