package handler

import (
	"context"
	"net/http"
	"testing"

	"wanderlust/internal/core"
	"wanderlust/internal/dto"
	"wanderlust/internal/middleware"
	cErr "wanderlust/internal/pkg/error"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeIdentities struct {
	listedRole core.Role
	roleActor  core.IdentitySnapshot
	roleInput  *dto.UpdateIdentityRoleDto
}

func (f *fakeIdentities) ListIdentities(ctx context.Context, role core.Role) ([]*dto.IdentityResponseDto, error) {
	if role != "" && !role.Valid() {
		return nil, cErr.BadRequestParams("unknown role")
	}
	f.listedRole = role
	return []*dto.IdentityResponseDto{{ID: userID, Role: core.RoleUser}}, nil
}

func (f *fakeIdentities) GetIdentity(ctx context.Context, id primitive.ObjectID) (*dto.IdentityResponseDto, error) {
	return nil, cErr.NotFound("identity not found")
}

func (f *fakeIdentities) UpdateIdentityRole(ctx context.Context, actor core.IdentitySnapshot, id primitive.ObjectID, input *dto.UpdateIdentityRoleDto) (*dto.IdentityResponseDto, error) {
	f.roleActor, f.roleInput = actor, input
	return &dto.IdentityResponseDto{ID: id.Hex(), Role: input.Role}, nil
}

func newIdentityServer(identities *fakeIdentities) *testServer {
	s := newTestServer()
	h := &AdminIdentityHandler{trace: s.trace, identities: identities}
	admin := s.engine.Group("/admin", s.session.Required(), middleware.RequireAdmin())
	admin.GET("/identities", h.List)
	admin.GET("/identities/:identityID", h.Get)
	admin.PATCH("/identities/:identityID/role", h.UpdateRole)
	return s
}

func TestAdminIdentityHandler_RequiresAdmin(t *testing.T) {
	s := newIdentityServer(&fakeIdentities{})
	expectStatus(t, s.do(http.MethodGet, "/admin/identities", "", ""), http.StatusUnauthorized)
	expectStatus(t, s.do(http.MethodGet, "/admin/identities", "user-token", ""), http.StatusForbidden)
}

func TestAdminIdentityHandler_List(t *testing.T) {
	identities := &fakeIdentities{}
	s := newIdentityServer(identities)

	expectStatus(t, s.do(http.MethodGet, "/admin/identities?role=agent", "admin-token", ""), http.StatusOK)
	if identities.listedRole != core.RoleAgent {
		t.Errorf("expected role filter agent, got %q", identities.listedRole)
	}
	expectStatus(t, s.do(http.MethodGet, "/admin/identities?role=pirate", "admin-token", ""), http.StatusBadRequest)
}

func TestAdminIdentityHandler_Get(t *testing.T) {
	s := newIdentityServer(&fakeIdentities{})
	expectStatus(t, s.do(http.MethodGet, "/admin/identities/xyz", "admin-token", ""), http.StatusBadRequest)
	expectStatus(t, s.do(http.MethodGet, "/admin/identities/"+primitive.NewObjectID().Hex(), "admin-token", ""), http.StatusNotFound)
}

func TestAdminIdentityHandler_UpdateRole(t *testing.T) {
	identities := &fakeIdentities{}
	s := newIdentityServer(identities)
	target := primitive.NewObjectID()

	rec := s.do(http.MethodPatch, "/admin/identities/"+target.Hex()+"/role", "admin-token", `{"role":"owner"}`)
	expectStatus(t, rec, http.StatusOK)
	if identities.roleActor.ID != adminID || identities.roleInput.Role != core.RoleOwner {
		t.Errorf("unexpected call: actor=%+v input=%+v", identities.roleActor, identities.roleInput)
	}

	rec = s.do(http.MethodPatch, "/admin/identities/"+target.Hex()+"/role", "admin-token", `{"role":"pirate"}`)
	expectStatus(t, rec, http.StatusBadRequest)
}
