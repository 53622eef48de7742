package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"wanderlust/internal/core"
	"wanderlust/internal/database/mongodb/model"
	cErr "wanderlust/internal/pkg/error"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// fakeTours 只記錄呼叫，行為以欄位控制
type fakeTours struct {
	listQuery *core.CatalogQuery
	created   *model.Tour
	updatedID primitive.ObjectID
	deletedID primitive.ObjectID
	getErr    error
	createErr error
}

func (f *fakeTours) Kind() core.CatalogKind { return core.CatalogTour }

func (f *fakeTours) Authorize(actor *core.IdentitySnapshot) error {
	if actor == nil {
		return cErr.Unauthorized("authentication required")
	}
	if !actor.IsAdmin() {
		return cErr.Forbidden("admin role required")
	}
	return nil
}

func (f *fakeTours) List(ctx context.Context, query core.CatalogQuery) ([]*model.Tour, error) {
	f.listQuery = &query
	return []*model.Tour{{Name: "Kerala Backwaters"}}, nil
}

func (f *fakeTours) Get(ctx context.Context, id primitive.ObjectID) (*model.Tour, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	tour := &model.Tour{Name: "Kerala Backwaters"}
	tour.ID = id
	return tour, nil
}

func (f *fakeTours) Create(ctx context.Context, actor *core.IdentitySnapshot, document *model.Tour) (*model.Tour, error) {
	if err := f.Authorize(actor); err != nil {
		return nil, err
	}
	if f.createErr != nil {
		return nil, f.createErr
	}
	document.ID = primitive.NewObjectID()
	f.created = document
	return document, nil
}

func (f *fakeTours) Update(ctx context.Context, actor *core.IdentitySnapshot, id primitive.ObjectID, document *model.Tour) (*model.Tour, error) {
	f.updatedID = id
	document.ID = id
	return document, nil
}

func (f *fakeTours) Delete(ctx context.Context, actor *core.IdentitySnapshot, id primitive.ObjectID) error {
	f.deletedID = id
	return nil
}

func newTourServer(tours *fakeTours) *testServer {
	s := newTestServer()
	h := NewCatalogHandler[*model.Tour](s.trace, tours, func() *model.Tour { return &model.Tour{} })
	group := s.engine.Group("/tours")
	group.GET("", s.session.Optional(), h.List)
	group.GET("/:id", s.session.Optional(), h.Get)
	group.POST("", s.session.Attach(), h.Create)
	group.PUT("/:id", s.session.Attach(), h.Update)
	group.DELETE("/:id", s.session.Attach(), h.Delete)
	return s
}

func TestCatalogHandler_ListBindsQuery(t *testing.T) {
	tours := &fakeTours{}
	s := newTourServer(tours)

	rec := s.do(http.MethodGet, "/tours?category=beach&q=goa&minPrice=1000&maxDays=5&active=true", "", "")
	expectStatus(t, rec, http.StatusOK)

	q := tours.listQuery
	if q == nil || q.Category != "beach" || q.Search != "goa" {
		t.Fatalf("unexpected query: %+v", q)
	}
	if q.MinPrice == nil || *q.MinPrice != 1000 || q.MaxDays == nil || *q.MaxDays != 5 {
		t.Errorf("numeric filters not bound: %+v", q)
	}
	if q.Active == nil || !*q.Active {
		t.Errorf("active flag not bound")
	}

	var data []map[string]any
	if err := json.Unmarshal(decode(t, rec).Data, &data); err != nil || len(data) != 1 {
		t.Fatalf("unexpected data: %v %v", data, err)
	}
}

func TestCatalogHandler_ListRejectsNegativePrice(t *testing.T) {
	tours := &fakeTours{}
	s := newTourServer(tours)

	rec := s.do(http.MethodGet, "/tours?minPrice=-1", "", "")
	expectStatus(t, rec, http.StatusBadRequest)
	if body := decode(t, rec); body.Code != cErr.VALIDATION_FAILED {
		t.Errorf("unexpected code %d", body.Code)
	}
	if tours.listQuery != nil {
		t.Error("service must not be called")
	}
}

func TestCatalogHandler_GetInvalidID(t *testing.T) {
	s := newTourServer(&fakeTours{})
	rec := s.do(http.MethodGet, "/tours/not-an-id", "", "")
	expectStatus(t, rec, http.StatusBadRequest)
	if body := decode(t, rec); body.Code != cErr.BAD_REQUEST_PARAMS {
		t.Errorf("unexpected code %d", body.Code)
	}
}

func TestCatalogHandler_GetNotFound(t *testing.T) {
	s := newTourServer(&fakeTours{getErr: cErr.NotFound("tour not found")})
	rec := s.do(http.MethodGet, "/tours/"+primitive.NewObjectID().Hex(), "", "")
	expectStatus(t, rec, http.StatusNotFound)
}

func TestCatalogHandler_CreateAuthorizationBeforeBody(t *testing.T) {
	cases := []struct {
		name  string
		token string
		want  int
	}{
		{name: "anonymous", want: http.StatusUnauthorized},
		{name: "non admin", token: "user-token", want: http.StatusForbidden},
		{name: "admin with broken body", token: "admin-token", want: http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tours := &fakeTours{}
			s := newTourServer(tours)
			rec := s.do(http.MethodPost, "/tours", tc.token, `{"name":`)
			expectStatus(t, rec, tc.want)
			if tours.created != nil {
				t.Error("nothing should be created")
			}
		})
	}
}

func TestCatalogHandler_Create(t *testing.T) {
	tours := &fakeTours{}
	s := newTourServer(tours)

	rec := s.do(http.MethodPost, "/tours", "admin-token", `{"name":"Goa Beach Escape","category":"beach","destinations":["Goa"]}`)
	expectStatus(t, rec, http.StatusCreated)
	if tours.created == nil || tours.created.Name != "Goa Beach Escape" {
		t.Fatalf("unexpected created document: %+v", tours.created)
	}

	var data map[string]any
	if err := json.Unmarshal(decode(t, rec).Data, &data); err != nil {
		t.Fatal(err)
	}
	if data["id"] != tours.created.ID.Hex() {
		t.Errorf("expected id %s, got %v", tours.created.ID.Hex(), data["id"])
	}
}

func TestCatalogHandler_CreateConflict(t *testing.T) {
	s := newTourServer(&fakeTours{createErr: cErr.Conflict("an active tour with this name already exists")})
	rec := s.do(http.MethodPost, "/tours", "admin-token", `{"name":"Goa Beach Escape"}`)
	expectStatus(t, rec, http.StatusConflict)
}

func TestCatalogHandler_UpdateAndDelete(t *testing.T) {
	tours := &fakeTours{}
	s := newTourServer(tours)
	id := primitive.NewObjectID()

	rec := s.do(http.MethodPut, "/tours/"+id.Hex(), "admin-token", `{"name":"Renamed"}`)
	expectStatus(t, rec, http.StatusOK)
	if tours.updatedID != id {
		t.Errorf("expected update of %s, got %s", id.Hex(), tours.updatedID.Hex())
	}

	rec = s.do(http.MethodDelete, "/tours/"+id.Hex(), "admin-token", "")
	expectStatus(t, rec, http.StatusOK)
	if tours.deletedID != id {
		t.Errorf("expected delete of %s", id.Hex())
	}
	if body := decode(t, rec); body.Description != "tour deleted" {
		t.Errorf("unexpected description %q", body.Description)
	}

	rec = s.do(http.MethodDelete, "/tours/"+id.Hex(), "user-token", "")
	expectStatus(t, rec, http.StatusForbidden)
}
