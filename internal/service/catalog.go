package service

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"wanderlust/internal/core"
	"wanderlust/internal/database/mongodb/model"
	cErr "wanderlust/internal/pkg/error"
	"wanderlust/internal/pkg/request"
	"wanderlust/internal/telemetry"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// CatalogFields 各資源用於篩選的欄位
type CatalogFields struct {
	Kind         core.CatalogKind
	TypeField    string   // type 或 category
	PriceField   string   // 主要價格欄位
	DaysField    string   // 無天數的資源為空
	SearchFields []string // q 比對的欄位
	CityFields   []string
	StateFields  []string
}

// catalogHooks 各資源的預設值、商業規則與唯一性條件
type catalogHooks[D model.CatalogDocument] struct {
	prepare func(D)
	rules   func(D) []cErr.FieldError
	unique  func(D) bson.M // nil 代表無唯一性限制
}

// CatalogService 六種目錄資源共用的 CRUD 流程：先授權、再驗證、最後才存取資料庫
type CatalogService[D model.CatalogDocument] struct {
	logger   *zap.Logger
	trace    *telemetry.Trace
	metric   *telemetry.Metric
	store    CatalogStore[D]
	creators CreatorLookup
	fields   CatalogFields
	hooks    catalogHooks[D]
}

func newCatalogService[D model.CatalogDocument](
	logger *zap.Logger,
	trace *telemetry.Trace,
	metric *telemetry.Metric,
	store CatalogStore[D],
	creators CreatorLookup,
	fields CatalogFields,
	hooks catalogHooks[D],
) *CatalogService[D] {
	return &CatalogService[D]{
		logger:   logger,
		trace:    trace,
		metric:   metric,
		store:    store,
		creators: creators,
		fields:   fields,
		hooks:    hooks,
	}
}

func (s *CatalogService[D]) Kind() core.CatalogKind {
	return s.fields.Kind
}

func (s *CatalogService[D]) List(ctx context.Context, query core.CatalogQuery) (_ []D, returnedError error) {
	ctx, span, end := s.trace.WithSpan(ctx, "catalog."+string(s.fields.Kind)+".list")
	defer func() { end(returnedError) }()

	filter := buildCatalogFilter(s.fields, query)
	documents, err := s.store.List(ctx, filter)
	if err != nil {
		s.logger.Error("list catalog failed", zap.String("kind", string(s.fields.Kind)), zap.Error(err))
		return nil, cErr.DatabaseError()
	}
	if err := s.populateCreators(ctx, documents...); err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(filter))
	for key := range filter {
		keys = append(keys, key)
	}
	s.trace.ApplyTraceAttributes(span, core.TraceCatalogListMeta{
		Kind:        string(s.fields.Kind),
		Type:        firstNonEmpty(query.Kind, query.Category),
		Search:      query.Search,
		City:        query.City,
		State:       query.State,
		Filters:     keys,
		ResultCount: len(documents),
	})
	return documents, nil
}

func (s *CatalogService[D]) Get(ctx context.Context, id primitive.ObjectID) (_ D, returnedError error) {
	ctx, _, end := s.trace.WithSpan(ctx, "catalog."+string(s.fields.Kind)+".get")
	defer func() { end(returnedError) }()

	var zero D
	document, err := s.store.GetByID(ctx, id)
	if err != nil {
		return zero, s.storageError(err)
	}
	if err := s.populateCreators(ctx, document); err != nil {
		return zero, err
	}
	return document, nil
}

func (s *CatalogService[D]) Create(ctx context.Context, actor *core.IdentitySnapshot, document D) (_ D, returnedError error) {
	ctx, span, end := s.trace.WithSpan(ctx, "catalog."+string(s.fields.Kind)+".create")
	defer func() { end(returnedError) }()

	var zero D
	meta := core.TraceCatalogMutationMeta{Kind: string(s.fields.Kind), Op: "create"}
	defer func() { s.recordMutation(span, meta, returnedError) }()

	actorID, err := s.authorize(actor)
	if err != nil {
		return zero, err
	}
	meta.ActorID, meta.ActorRole = actor.ID, string(actor.Role)
	if err := s.validate(document); err != nil {
		return zero, err
	}
	if err := s.checkUnique(ctx, document, primitive.NilObjectID); err != nil {
		return zero, err
	}

	base := document.Base()
	base.ID = primitive.NilObjectID
	base.CreatedBy = actorID
	created, err := s.store.Create(ctx, document)
	if err != nil {
		return zero, s.storageError(err)
	}
	meta.ResourceID = created.Base().ID.Hex()
	if err := s.populateCreators(ctx, created); err != nil {
		return zero, err
	}
	return created, nil
}

func (s *CatalogService[D]) Update(ctx context.Context, actor *core.IdentitySnapshot, id primitive.ObjectID, document D) (_ D, returnedError error) {
	ctx, span, end := s.trace.WithSpan(ctx, "catalog."+string(s.fields.Kind)+".update")
	defer func() { end(returnedError) }()

	var zero D
	meta := core.TraceCatalogMutationMeta{Kind: string(s.fields.Kind), Op: "update", ResourceID: id.Hex()}
	defer func() { s.recordMutation(span, meta, returnedError) }()

	if _, err := s.authorize(actor); err != nil {
		return zero, err
	}
	meta.ActorID, meta.ActorRole = actor.ID, string(actor.Role)
	if err := s.validate(document); err != nil {
		return zero, err
	}
	existing, err := s.store.GetByID(ctx, id)
	if err != nil {
		return zero, s.storageError(err)
	}
	if err := s.checkUnique(ctx, document, id); err != nil {
		return zero, err
	}

	// createdBy / createdAt 不可由請求覆寫
	base, previous := document.Base(), existing.Base()
	base.CreatedBy = previous.CreatedBy
	base.CreatedAt = previous.CreatedAt
	updated, err := s.store.ReplaceByID(ctx, id, document)
	if err != nil {
		return zero, s.storageError(err)
	}
	if err := s.populateCreators(ctx, updated); err != nil {
		return zero, err
	}
	return updated, nil
}

func (s *CatalogService[D]) Delete(ctx context.Context, actor *core.IdentitySnapshot, id primitive.ObjectID) (returnedError error) {
	ctx, span, end := s.trace.WithSpan(ctx, "catalog."+string(s.fields.Kind)+".delete")
	defer func() { end(returnedError) }()

	meta := core.TraceCatalogMutationMeta{Kind: string(s.fields.Kind), Op: "delete", ResourceID: id.Hex()}
	defer func() { s.recordMutation(span, meta, returnedError) }()

	if _, err := s.authorize(actor); err != nil {
		return err
	}
	meta.ActorID, meta.ActorRole = actor.ID, string(actor.Role)
	if err := s.store.DeleteByID(ctx, id); err != nil {
		return s.storageError(err)
	}
	return nil
}

// Authorize 供 handler 在解析 body 前先確認權限
func (s *CatalogService[D]) Authorize(actor *core.IdentitySnapshot) error {
	_, err := s.authorize(actor)
	return err
}

// authorize 未登入 401、非管理員 403
func (s *CatalogService[D]) authorize(actor *core.IdentitySnapshot) (primitive.ObjectID, error) {
	if actor == nil || actor.ID == "" {
		return primitive.NilObjectID, cErr.Unauthorized("authentication required")
	}
	if !actor.IsAdmin() {
		return primitive.NilObjectID, cErr.Forbidden("admin role required")
	}
	actorID, err := primitive.ObjectIDFromHex(actor.ID)
	if err != nil {
		return primitive.NilObjectID, cErr.InvalidSession("session identity is invalid")
	}
	return actorID, nil
}

func (s *CatalogService[D]) validate(document D) error {
	if s.hooks.prepare != nil {
		s.hooks.prepare(document)
	}
	details := request.Validate(document)
	if s.hooks.rules != nil {
		details = append(details, s.hooks.rules(document)...)
	}
	if len(details) > 0 {
		return cErr.ValidationFailed(details)
	}
	return nil
}

func (s *CatalogService[D]) checkUnique(ctx context.Context, document D, excludeID primitive.ObjectID) error {
	if s.hooks.unique == nil {
		return nil
	}
	filter := s.hooks.unique(document)
	if filter == nil {
		return nil
	}
	if !excludeID.IsZero() {
		filter["_id"] = bson.M{"$ne": excludeID}
	}
	exists, err := s.store.Exists(ctx, filter)
	if err != nil {
		s.logger.Error("catalog uniqueness check failed", zap.String("kind", string(s.fields.Kind)), zap.Error(err))
		return cErr.DatabaseError()
	}
	if exists {
		return cErr.Conflict("an active " + string(s.fields.Kind) + " with this name already exists")
	}
	return nil
}

// populateCreators 一次查回所有建立者，填入 createdBy
func (s *CatalogService[D]) populateCreators(ctx context.Context, documents ...D) error {
	if s.creators == nil || len(documents) == 0 {
		return nil
	}
	seen := make(map[primitive.ObjectID]struct{})
	ids := make([]primitive.ObjectID, 0, len(documents))
	for _, document := range documents {
		id := document.Base().CreatedBy
		if id.IsZero() {
			continue
		}
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return nil
	}
	identities, err := s.creators.FindByIDs(ctx, ids)
	if err != nil {
		s.logger.Error("populate creators failed", zap.Error(err))
		return cErr.DatabaseError()
	}
	byID := make(map[primitive.ObjectID]*model.CreatorRef, len(identities))
	for _, identity := range identities {
		byID[identity.ID] = &model.CreatorRef{ID: identity.ID.Hex(), Name: identity.Name, Email: identity.Email}
	}
	for _, document := range documents {
		base := document.Base()
		if ref, ok := byID[base.CreatedBy]; ok {
			base.Creator = ref
		} else if !base.CreatedBy.IsZero() {
			base.Creator = &model.CreatorRef{ID: base.CreatedBy.Hex()}
		}
	}
	return nil
}

func (s *CatalogService[D]) storageError(err error) error {
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return cErr.NotFound(string(s.fields.Kind) + " not found")
	case mongo.IsDuplicateKeyError(err):
		return cErr.Conflict("an active " + string(s.fields.Kind) + " with this name already exists")
	default:
		s.logger.Error("catalog storage failed", zap.String("kind", string(s.fields.Kind)), zap.Error(err))
		return cErr.DatabaseError()
	}
}

func (s *CatalogService[D]) recordMutation(span trace.Span, meta core.TraceCatalogMutationMeta, err error) {
	meta.Outcome = outcomeSuccess
	if err != nil {
		meta.Outcome = cErr.From(err).Error()
	}
	s.metric.CatalogMutation(meta.Kind, meta.Op, meta.Outcome)
	s.trace.ApplyTraceAttributes(span, meta)
}

// buildCatalogFilter 將查詢參數轉成 Mongo filter
func buildCatalogFilter(fields CatalogFields, query core.CatalogQuery) bson.M {
	filter := bson.M{}
	if kind := strings.TrimSpace(firstNonEmpty(query.Kind, query.Category)); kind != "" && fields.TypeField != "" {
		filter[fields.TypeField] = kind
	}

	var and []bson.M
	if search := strings.TrimSpace(query.Search); search != "" && len(fields.SearchFields) > 0 {
		and = append(and, anyFieldContains(fields.SearchFields, search))
	}
	if city := strings.TrimSpace(query.City); city != "" && len(fields.CityFields) > 0 {
		and = append(and, anyFieldContains(fields.CityFields, city))
	}
	if state := strings.TrimSpace(query.State); state != "" && len(fields.StateFields) > 0 {
		and = append(and, anyFieldContains(fields.StateFields, state))
	}
	if len(and) == 1 {
		for key, value := range and[0] {
			filter[key] = value
		}
	} else if len(and) > 1 {
		filter["$and"] = and
	}

	if r := numberRange(query.MinPrice, query.MaxPrice); r != nil && fields.PriceField != "" {
		filter[fields.PriceField] = r
	}
	if fields.DaysField != "" {
		var minDays, maxDays *float64
		if query.MinDays != nil {
			v := float64(*query.MinDays)
			minDays = &v
		}
		if query.MaxDays != nil {
			v := float64(*query.MaxDays)
			maxDays = &v
		}
		if r := numberRange(minDays, maxDays); r != nil {
			filter[fields.DaysField] = r
		}
	}
	if query.Active != nil {
		filter["isActive"] = *query.Active
	}
	return filter
}

// anyFieldContains 不分大小寫的子字串比對，使用者輸入會先跳脫
func anyFieldContains(fieldNames []string, value string) bson.M {
	pattern := primitive.Regex{Pattern: regexp.QuoteMeta(value), Options: "i"}
	if len(fieldNames) == 1 {
		return bson.M{fieldNames[0]: pattern}
	}
	or := make([]bson.M, 0, len(fieldNames))
	for _, name := range fieldNames {
		or = append(or, bson.M{name: pattern})
	}
	return bson.M{"$or": or}
}

func numberRange(minValue, maxValue *float64) bson.M {
	if minValue == nil && maxValue == nil {
		return nil
	}
	r := bson.M{}
	if minValue != nil {
		r["$gte"] = *minValue
	}
	if maxValue != nil {
		r["$lte"] = *maxValue
	}
	return r
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// 共用預設值：幣別預設 INR 並轉大寫、未指定時為啟用
func prepareBase(base *model.CatalogBase) {
	if base.IsActive == nil {
		active := true
		base.IsActive = &active
	}
}

func defaultCurrency(currency *string) {
	*currency = strings.ToUpper(strings.TrimSpace(*currency))
	if *currency == "" {
		*currency = core.DefaultCurrency
	}
}

func nameKey(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

// activeNameFilter 只有啟用中的資料需要名稱唯一
func activeNameFilter(base *model.CatalogBase, key string) bson.M {
	if !base.Active() || key == "" {
		return nil
	}
	return bson.M{"nameKey": key, "isActive": true}
}
