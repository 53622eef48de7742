package service

import (
	"context"
	"errors"
	"reflect"
	"sort"
	"sync"
	"time"

	"wanderlust/config"
	"wanderlust/internal/core"
	fluentdModel "wanderlust/internal/database/fluentd/model"
	"wanderlust/internal/database/mongodb/model"
	cErr "wanderlust/internal/pkg/error"
	"wanderlust/internal/telemetry"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

var errStoreDown = errors.New("store down")

func duplicateKeyError() error {
	return mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000, Message: "E11000 duplicate key"}}}
}

func asError(err error) *cErr.Error {
	var e *cErr.Error
	if errors.As(err, &e) {
		return e
	}
	return nil
}

func testTrace() *telemetry.Trace {
	return &telemetry.Trace{}
}

func testConfig() *config.Configuration {
	return &config.Configuration{
		Auth: config.Auth{
			SessionSecret: "test-secret-0123456789",
			Issuer:        "wanderlust-test",
			SessionTTL:    600,
			BcryptCost:    10,
		},
	}
}

// fakeIdentityStore 模擬 mongodb identity repository（含 email 唯一索引）
type fakeIdentityStore struct {
	mu         sync.Mutex
	byID       map[primitive.ObjectID]*model.Identity
	writes     int
	createErrs []error // 依序回傳，用來模擬競爭
	replaceErr error
	findErr    error
}

func newFakeIdentityStore() *fakeIdentityStore {
	return &fakeIdentityStore{byID: map[primitive.ObjectID]*model.Identity{}}
}

func clone(identity *model.Identity) *model.Identity {
	c := *identity
	if identity.ExternalIdentities != nil {
		c.ExternalIdentities = make(map[string]model.ExternalIdentity, len(identity.ExternalIdentities))
		for k, v := range identity.ExternalIdentities {
			c.ExternalIdentities[k] = v
		}
	}
	return &c
}

func (f *fakeIdentityStore) put(identity *model.Identity) *model.Identity {
	if identity.ID.IsZero() {
		identity.ID = primitive.NewObjectID()
	}
	if err := identity.BeforeSave(time.Now().UTC()); err != nil {
		panic(err)
	}
	f.byID[identity.ID] = clone(identity)
	return identity
}

func (f *fakeIdentityStore) Create(_ context.Context, identity *model.Identity) (*model.Identity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.createErrs) > 0 {
		err := f.createErrs[0]
		f.createErrs = f.createErrs[1:]
		if err != nil {
			return nil, err
		}
	}
	if err := identity.BeforeSave(time.Now().UTC()); err != nil {
		return nil, err
	}
	for _, existing := range f.byID {
		if existing.Email == identity.Email {
			return nil, duplicateKeyError()
		}
	}
	if identity.ID.IsZero() {
		identity.ID = primitive.NewObjectID()
	}
	f.writes++
	f.byID[identity.ID] = clone(identity)
	return clone(identity), nil
}

func (f *fakeIdentityStore) GetByID(_ context.Context, identityID primitive.ObjectID) (*model.Identity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	identity, ok := f.byID[identityID]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return clone(identity), nil
}

func (f *fakeIdentityStore) FindByEmail(_ context.Context, email string) (*model.Identity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.findErr != nil {
		return nil, f.findErr
	}
	for _, identity := range f.byID {
		if identity.Email == model.NormalizeEmail(email) {
			return clone(identity), nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (f *fakeIdentityStore) Replace(_ context.Context, identity *model.Identity) (*model.Identity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.replaceErr != nil {
		return nil, f.replaceErr
	}
	if _, ok := f.byID[identity.ID]; !ok {
		return nil, mongo.ErrNoDocuments
	}
	if err := identity.BeforeSave(time.Now().UTC()); err != nil {
		return nil, err
	}
	f.writes++
	f.byID[identity.ID] = clone(identity)
	return clone(identity), nil
}

func (f *fakeIdentityStore) UpdateLastLogin(_ context.Context, identityID primitive.ObjectID, loginTime time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	identity, ok := f.byID[identityID]
	if !ok {
		return 0, nil
	}
	identity.LastLoginAt = &loginTime
	return 1, nil
}

func (f *fakeIdentityStore) UpdateRole(_ context.Context, identityID primitive.ObjectID, role core.Role) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	identity, ok := f.byID[identityID]
	if !ok {
		return 0, nil
	}
	identity.Role = role
	return 1, nil
}

func (f *fakeIdentityStore) List(_ context.Context, role core.Role) ([]*model.Identity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []*model.Identity
	for _, identity := range f.byID {
		if role == "" || identity.Role == role {
			result = append(result, clone(identity))
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID.Hex() > result[j].ID.Hex() })
	return result, nil
}

func (f *fakeIdentityStore) ForEach(ctx context.Context, visit func(identity *model.Identity) error) error {
	identities, _ := f.List(ctx, "")
	for _, identity := range identities {
		if err := visit(identity); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeIdentityStore) FindByIDs(_ context.Context, identityIDs []primitive.ObjectID) ([]*model.Identity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []*model.Identity
	for _, id := range identityIDs {
		if identity, ok := f.byID[id]; ok {
			result = append(result, &model.Identity{ID: identity.ID, Name: identity.Name, Email: identity.Email})
		}
	}
	return result, nil
}

type fakeRevocationStore struct {
	mu      sync.Mutex
	revoked map[string]time.Duration
	err     error
}

func newFakeRevocationStore() *fakeRevocationStore {
	return &fakeRevocationStore{revoked: map[string]time.Duration{}}
}

func (f *fakeRevocationStore) Revoke(_ context.Context, jti string, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.revoked[jti] = ttl
	return nil
}

func (f *fakeRevocationStore) IsRevoked(_ context.Context, jti string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return false, f.err
	}
	_, ok := f.revoked[jti]
	return ok, nil
}

type recordingEventSink struct {
	mu     sync.Mutex
	events []fluentdModel.AuthEventLog
}

func (r *recordingEventSink) LogAuthEvent(_ context.Context, event fluentdModel.AuthEventLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

func (r *recordingEventSink) last() fluentdModel.AuthEventLog {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.events) == 0 {
		return fluentdModel.AuthEventLog{}
	}
	return r.events[len(r.events)-1]
}

type stubVerifier struct {
	assertion *ExternalAssertion
	err       error
}

func (s stubVerifier) Verify(context.Context, string) (*ExternalAssertion, error) {
	return s.assertion, s.err
}

// fakeCatalogStore 以 map 模擬目錄 collection，calls 記錄被呼叫的方法
type fakeCatalogStore[D model.CatalogDocument] struct {
	mu        sync.Mutex
	documents map[primitive.ObjectID]D
	order     []primitive.ObjectID
	calls     []string
	exists    bool
	err       error
	filters   []bson.M
}

func newFakeCatalogStore[D model.CatalogDocument]() *fakeCatalogStore[D] {
	return &fakeCatalogStore[D]{documents: map[primitive.ObjectID]D{}}
}

func (f *fakeCatalogStore[D]) Create(_ context.Context, document D) (D, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "create")
	var zero D
	if f.err != nil {
		return zero, f.err
	}
	base := document.Base()
	base.ID = primitive.NewObjectID()
	base.CreatedAt = time.Now().UTC()
	base.UpdatedAt = base.CreatedAt
	f.documents[base.ID] = document
	f.order = append(f.order, base.ID)
	return document, nil
}

func (f *fakeCatalogStore[D]) GetByID(_ context.Context, documentID primitive.ObjectID) (D, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "get")
	document, ok := f.documents[documentID]
	if !ok {
		var zero D
		return zero, mongo.ErrNoDocuments
	}
	return document, nil
}

func (f *fakeCatalogStore[D]) List(_ context.Context, filter bson.M) ([]D, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "list")
	f.filters = append(f.filters, filter)
	if f.err != nil {
		return nil, f.err
	}
	result := make([]D, 0, len(f.order))
	for i := len(f.order) - 1; i >= 0; i-- {
		if document, ok := f.documents[f.order[i]]; ok {
			result = append(result, document)
		}
	}
	return result, nil
}

func (f *fakeCatalogStore[D]) ReplaceByID(_ context.Context, documentID primitive.ObjectID, document D) (D, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "replace")
	var zero D
	if _, ok := f.documents[documentID]; !ok {
		return zero, mongo.ErrNoDocuments
	}
	base := document.Base()
	base.ID = documentID
	base.UpdatedAt = time.Now().UTC()
	f.documents[documentID] = document
	return document, nil
}

func (f *fakeCatalogStore[D]) DeleteByID(_ context.Context, documentID primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "delete")
	if _, ok := f.documents[documentID]; !ok {
		return mongo.ErrNoDocuments
	}
	delete(f.documents, documentID)
	return nil
}

func (f *fakeCatalogStore[D]) Exists(_ context.Context, filter bson.M) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "exists")
	f.filters = append(f.filters, filter)
	if f.exists {
		return true, nil
	}
	for _, document := range f.documents {
		if matchesFilter(document, filter) {
			return true, nil
		}
	}
	return false, nil
}

// matchesFilter 只支援唯一性檢查用到的等值與 $ne
func matchesFilter(document any, filter bson.M) bool {
	raw, err := bson.Marshal(document)
	if err != nil {
		return false
	}
	var stored bson.M
	if err := bson.Unmarshal(raw, &stored); err != nil {
		return false
	}
	for key, want := range filter {
		if cond, ok := want.(bson.M); ok {
			if ne, ok := cond["$ne"]; ok && reflect.DeepEqual(stored[key], ne) {
				return false
			}
			continue
		}
		if !reflect.DeepEqual(stored[key], want) {
			return false
		}
	}
	return true
}

func (f *fakeCatalogStore[D]) touched() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls) > 0
}

func newTestAuthService(store *fakeIdentityStore, verifier ExternalVerifier) (*AuthService, *recordingEventSink) {
	sink := &recordingEventSink{}
	registry := NewRegistry()
	if verifier != nil {
		registry.Register(core.ProviderGoogle, verifier)
	}
	return NewAuthService(zap.NewNop(), testTrace(), nil, testConfig(), store, sink, registry), sink
}

func adminActor() *core.IdentitySnapshot {
	return &core.IdentitySnapshot{ID: primitive.NewObjectID().Hex(), Name: "Admin", Email: "admin@example.com", Role: core.RoleAdmin}
}
