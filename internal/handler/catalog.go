package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"

	"wanderlust/internal/core"
	"wanderlust/internal/database/mongodb/model"
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

const catalogIDParam = "id"

// CatalogOperations 由 service.CatalogService 實作
type CatalogOperations[D model.CatalogDocument] interface {
	Kind() core.CatalogKind
	Authorize(actor *core.IdentitySnapshot) error
	List(ctx context.Context, query core.CatalogQuery) ([]D, error)
	Get(ctx context.Context, id primitive.ObjectID) (D, error)
	Create(ctx context.Context, actor *core.IdentitySnapshot, document D) (D, error)
	Update(ctx context.Context, actor *core.IdentitySnapshot, id primitive.ObjectID, document D) (D, error)
	Delete(ctx context.Context, actor *core.IdentitySnapshot, id primitive.ObjectID) error
}

// CatalogHandler 六種目錄資源共用；newDocument 產生空白文件供解析 body
type CatalogHandler[D model.CatalogDocument] struct {
	trace       *telemetry.Trace
	service     CatalogOperations[D]
	newDocument func() D
}

func NewCatalogHandler[D model.CatalogDocument](trace *telemetry.Trace, service CatalogOperations[D], newDocument func() D) *CatalogHandler[D] {
	return &CatalogHandler[D]{trace: trace, service: service, newDocument: newDocument}
}

type (
	HotelHandler         = CatalogHandler[*model.Hotel]
	ResortHandler        = CatalogHandler[*model.Resort]
	TourHandler          = CatalogHandler[*model.Tour]
	PackageHandler       = CatalogHandler[*model.TravelPackage]
	RentalHandler        = CatalogHandler[*model.RentalService]
	TravelServiceHandler = CatalogHandler[*model.TravelService]
)

func NewHotelHandler(trace *telemetry.Trace, svc *service.HotelService) *HotelHandler {
	return NewCatalogHandler[*model.Hotel](trace, svc, func() *model.Hotel { return &model.Hotel{} })
}

func NewResortHandler(trace *telemetry.Trace, svc *service.ResortService) *ResortHandler {
	return NewCatalogHandler[*model.Resort](trace, svc, func() *model.Resort { return &model.Resort{} })
}

func NewTourHandler(trace *telemetry.Trace, svc *service.TourService) *TourHandler {
	return NewCatalogHandler[*model.Tour](trace, svc, func() *model.Tour { return &model.Tour{} })
}

func NewPackageHandler(trace *telemetry.Trace, svc *service.PackageService) *PackageHandler {
	return NewCatalogHandler[*model.TravelPackage](trace, svc, func() *model.TravelPackage { return &model.TravelPackage{} })
}

func NewRentalHandler(trace *telemetry.Trace, svc *service.RentalService) *RentalHandler {
	return NewCatalogHandler[*model.RentalService](trace, svc, func() *model.RentalService { return &model.RentalService{} })
}

func NewTravelServiceHandler(trace *telemetry.Trace, svc *service.TravelServiceService) *TravelServiceHandler {
	return NewCatalogHandler[*model.TravelService](trace, svc, func() *model.TravelService { return &model.TravelService{} })
}

// List 目錄列表
// @Summary 取得目錄列表（新到舊）
// @Tags Catalog
// @Produce json
// @Param type query string false "類型（hotel / package / rental）"
// @Param category query string false "分類（tour / resort / service）"
// @Param q query string false "名稱或描述關鍵字"
// @Param city query string false "城市"
// @Param state query string false "州"
// @Param minPrice query number false "最低價格"
// @Param maxPrice query number false "最高價格"
// @Param minDays query int false "最少天數（tour / package）"
// @Param maxDays query int false "最多天數（tour / package）"
// @Param active query bool false "是否上架"
// @Success 200 {array} map[string]any
// @Failure 400 {object} response.Response
// @Router /hotels [get]
// @Router /resorts [get]
// @Router /tours [get]
// @Router /packages [get]
// @Router /rentals [get]
// @Router /services [get]
func (h *CatalogHandler[D]) List(c *gin.Context) {
	ctx, _, end := h.trace.WithSpan(c, "handler."+string(h.service.Kind())+".list")
	defer end(nil)

	var query core.CatalogQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		end(err)
		response.AbortWithError(c, cErr.BadRequestParams("invalid query parameters"))
		return
	}
	if err := request.Struct(&query); err != nil {
		end(err)
		response.AbortWithError(c, err)
		return
	}

	documents, err := h.service.List(ctx, query)
	if err != nil {
		response.AbortWithError(c, err)
		return
	}
	response.Success(c, documents)
}

// Get 取得單筆
// @Summary 取得單筆目錄資料
// @Tags Catalog
// @Produce json
// @Param id path string true "Resource ID"
// @Success 200 {object} map[string]any
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /hotels/{id} [get]
// @Router /resorts/{id} [get]
// @Router /tours/{id} [get]
// @Router /packages/{id} [get]
// @Router /rentals/{id} [get]
// @Router /services/{id} [get]
func (h *CatalogHandler[D]) Get(c *gin.Context) {
	ctx, _, end := h.trace.WithSpan(c, "handler."+string(h.service.Kind())+".get")
	defer end(nil)

	id, cause, respErr := validate.ParseObjectID(c, catalogIDParam)
	if cause != nil {
		end(cause)
		response.AbortWithError(c, respErr)
		return
	}
	document, err := h.service.Get(ctx, id)
	if err != nil {
		response.AbortWithError(c, err)
		return
	}
	response.Success(c, document)
}

// Create 新增
// @Summary 新增目錄資料（管理員）
// @Tags Catalog
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param body body map[string]any true "資源內容"
// @Success 201 {object} map[string]any
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /hotels [post]
// @Router /resorts [post]
// @Router /tours [post]
// @Router /packages [post]
// @Router /rentals [post]
// @Router /services [post]
func (h *CatalogHandler[D]) Create(c *gin.Context) {
	ctx, _, end := h.trace.WithSpan(c, "handler."+string(h.service.Kind())+".create")
	defer end(nil)

	actor := middleware.CurrentIdentity(c)
	if err := h.service.Authorize(actor); err != nil {
		response.AbortWithError(c, err)
		return
	}
	document, err := h.decode(c)
	if err != nil {
		end(err)
		response.AbortWithError(c, err)
		return
	}
	created, err := h.service.Create(ctx, actor, document)
	if err != nil {
		response.AbortWithError(c, err)
		return
	}
	response.Create(c, created)
}

// Update 整筆更新
// @Summary 更新目錄資料（管理員）
// @Tags Catalog
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Resource ID"
// @Param body body map[string]any true "資源內容"
// @Success 200 {object} map[string]any
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /hotels/{id} [put]
// @Router /resorts/{id} [put]
// @Router /tours/{id} [put]
// @Router /packages/{id} [put]
// @Router /rentals/{id} [put]
// @Router /services/{id} [put]
func (h *CatalogHandler[D]) Update(c *gin.Context) {
	ctx, _, end := h.trace.WithSpan(c, "handler."+string(h.service.Kind())+".update")
	defer end(nil)

	actor := middleware.CurrentIdentity(c)
	if err := h.service.Authorize(actor); err != nil {
		response.AbortWithError(c, err)
		return
	}
	id, cause, respErr := validate.ParseObjectID(c, catalogIDParam)
	if cause != nil {
		end(cause)
		response.AbortWithError(c, respErr)
		return
	}
	document, err := h.decode(c)
	if err != nil {
		end(err)
		response.AbortWithError(c, err)
		return
	}
	updated, err := h.service.Update(ctx, actor, id, document)
	if err != nil {
		response.AbortWithError(c, err)
		return
	}
	response.Success(c, updated)
}

// Delete 刪除
// @Summary 刪除目錄資料（管理員）
// @Tags Catalog
// @Security BearerAuth
// @Produce json
// @Param id path string true "Resource ID"
// @Success 200 {object} map[string]string
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /hotels/{id} [delete]
// @Router /resorts/{id} [delete]
// @Router /tours/{id} [delete]
// @Router /packages/{id} [delete]
// @Router /rentals/{id} [delete]
// @Router /services/{id} [delete]
func (h *CatalogHandler[D]) Delete(c *gin.Context) {
	ctx, _, end := h.trace.WithSpan(c, "handler."+string(h.service.Kind())+".delete")
	defer end(nil)

	actor := middleware.CurrentIdentity(c)
	if err := h.service.Authorize(actor); err != nil {
		response.AbortWithError(c, err)
		return
	}
	id, cause, respErr := validate.ParseObjectID(c, catalogIDParam)
	if cause != nil {
		end(cause)
		response.AbortWithError(c, respErr)
		return
	}
	if err := h.service.Delete(ctx, actor, id); err != nil {
		response.AbortWithError(c, err)
		return
	}
	response.Success(c, gin.H{"id": id.Hex(), "message": string(h.service.Kind()) + " deleted"})
}

// decode 只負責解析 JSON；欄位驗證在 service 完成
func (h *CatalogHandler[D]) decode(c *gin.Context) (D, error) {
	document := h.newDocument()
	if c.Request.Body == nil {
		var zero D
		return zero, cErr.BadRequestBody("request body is required")
	}
	if err := json.NewDecoder(c.Request.Body).Decode(document); err != nil {
		var zero D
		if errors.Is(err, io.EOF) {
			return zero, cErr.BadRequestBody("request body is required")
		}
		return zero, cErr.BadRequestBody("invalid json")
	}
	return document, nil
}
