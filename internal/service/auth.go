package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"wanderlust/config"
	"wanderlust/internal/core"
	fluentdModel "wanderlust/internal/database/fluentd/model"
	"wanderlust/internal/database/mongodb/model"
	"wanderlust/internal/dto"
	cErr "wanderlust/internal/pkg/error"
	"wanderlust/internal/pkg/request"
	"wanderlust/internal/telemetry"
	"wanderlust/utils/fingerprint"
	"wanderlust/utils/password"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// 帳密驗證失敗的內部原因；對外一律回傳 cErr.AuthFailed
var (
	ErrIdentityNotFound = errors.New("identity not found")
	ErrNoPasswordSet    = errors.New("identity has no password")
	ErrPasswordMismatch = errors.New("password mismatch")
)

const (
	authEventSignIn      = "signin"
	authEventExternal    = "external_signin"
	authEventRegister    = "register"
	authEventPasswordSet = "password_set"

	outcomeSuccess = "success"
	outcomeFailure = "failure"
)

type AuthService struct {
	logger     *zap.Logger
	trace      *telemetry.Trace
	metric     *telemetry.Metric
	identities IdentityStore
	events     AuthEventSink
	registry   *Registry
	auth       config.Auth
	now        func() time.Time

	dummyOnce sync.Once
	dummyHash string
}

func NewAuthService(
	logger *zap.Logger,
	trace *telemetry.Trace,
	metric *telemetry.Metric,
	config *config.Configuration,
	identities IdentityStore,
	events AuthEventSink,
	registry *Registry,
) *AuthService {
	return &AuthService{
		logger:     logger,
		trace:      trace,
		metric:     metric,
		identities: identities,
		events:     events,
		registry:   registry,
		auth:       config.Auth.WithDefaults(),
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Register 自行註冊；admin 角色不可自行指定
func (s *AuthService) Register(ctx context.Context, input *dto.RegisterDto) (_ *model.Identity, returnedError error) {
	ctx, span, end := s.trace.WithSpan(ctx)
	defer func() { end(returnedError) }()

	role := input.Role
	if role == "" {
		role = core.RoleUser
	}
	if role == core.RoleAdmin {
		return nil, cErr.Forbidden("admin role cannot be self-assigned")
	}

	hash, err := password.Hash(input.Password, s.auth.BcryptCost)
	if err != nil {
		s.logger.Error("hash password failed", zap.Error(err))
		return nil, cErr.InternalServer("could not register identity")
	}
	identity := &model.Identity{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: hash,
		Phone:        input.Phone,
		Role:         role,
	}
	created, err := s.identities.Create(ctx, identity)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			s.recordAuthEvent(ctx, authEventRegister, outcomeFailure, "duplicate_email", "", "", input.Email)
			return nil, cErr.DuplicateEmail()
		}
		s.logger.Error("create identity failed", zap.Error(err))
		return nil, cErr.DatabaseError()
	}
	s.trace.ApplyTraceAttributes(span, core.TraceAuthMeta{
		Op:         authEventRegister,
		IdentityID: created.ID.Hex(),
		Outcome:    outcomeSuccess,
		Created:    true,
	})
	s.recordAuthEvent(ctx, authEventRegister, outcomeSuccess, "", "", created.ID.Hex(), created.Email)
	return created, nil
}

// SeedAdmin 建立管理員；email 已存在時只提升角色，已有的密碼不覆寫
func (s *AuthService) SeedAdmin(ctx context.Context, input *dto.RegisterDto) (_ *model.Identity, created bool, returnedError error) {
	ctx, span, end := s.trace.WithSpan(ctx)
	defer func() { end(returnedError) }()

	input.Role = core.RoleAdmin
	if err := request.Struct(input); err != nil {
		return nil, false, err
	}
	hash, err := password.Hash(input.Password, s.auth.BcryptCost)
	if err != nil {
		return nil, false, cErr.InternalServer("could not hash password")
	}

	existing, err := s.identities.FindByEmail(ctx, input.Email)
	switch {
	case err == nil:
		existing.Role = core.RoleAdmin
		if !existing.HasPassword() {
			if err := existing.SetPassword(hash); err != nil {
				return nil, false, cErr.InternalServer("could not set password")
			}
		}
		updated, err := s.identities.Replace(ctx, existing)
		if err != nil {
			s.logger.Error("promote admin failed", zap.Error(err))
			return nil, false, cErr.DatabaseError()
		}
		s.trace.ApplyTraceAttributes(span, core.TraceAuthMeta{Op: "seed_admin", IdentityID: updated.ID.Hex(), Outcome: outcomeSuccess})
		return updated, false, nil
	case !errors.Is(err, mongo.ErrNoDocuments):
		return nil, false, cErr.DatabaseError()
	}

	identity, err := s.identities.Create(ctx, &model.Identity{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: hash,
		Phone:        input.Phone,
		Role:         core.RoleAdmin,
	})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, false, cErr.DuplicateEmail()
		}
		s.logger.Error("create admin failed", zap.Error(err))
		return nil, false, cErr.DatabaseError()
	}
	s.trace.ApplyTraceAttributes(span, core.TraceAuthMeta{Op: "seed_admin", IdentityID: identity.ID.Hex(), Outcome: outcomeSuccess, Created: true})
	return identity, true, nil
}

// Authenticate 帳密驗證；失敗原因只寫入日誌與事件，回傳值不區分
func (s *AuthService) Authenticate(ctx context.Context, email, plain string) (_ core.IdentitySnapshot, returnedError error) {
	ctx, span, end := s.trace.WithSpan(ctx)
	defer func() { end(returnedError) }()

	var details []cErr.FieldError
	if strings.TrimSpace(email) == "" {
		details = append(details, cErr.FieldError{Field: "email", Message: "is required"})
	}
	if plain == "" {
		details = append(details, cErr.FieldError{Field: "password", Message: "is required"})
	}
	if len(details) > 0 {
		return core.IdentitySnapshot{}, cErr.ValidationFailed(details)
	}

	identity, reason, err := s.verifyCredentials(ctx, email, plain)
	if err != nil {
		return core.IdentitySnapshot{}, err
	}
	if reason != nil {
		s.trace.ApplyTraceAttributes(span, core.TraceAuthMeta{Op: authEventSignIn, Outcome: outcomeFailure, Reason: reasonLabel(reason)})
		s.logger.Warn("credential sign-in rejected",
			zap.String("reason", reasonLabel(reason)),
			zap.String("email_hash", fingerprint.Of(email, s.auth.SessionSecret)),
		)
		s.recordAuthEvent(ctx, authEventSignIn, outcomeFailure, reasonLabel(reason), "", "", email)
		return core.IdentitySnapshot{}, cErr.AuthFailed()
	}

	now := s.now()
	if _, err := s.identities.UpdateLastLogin(ctx, identity.ID, now); err != nil {
		s.logger.Error("update last login failed", zap.Error(err))
		return core.IdentitySnapshot{}, cErr.DatabaseError()
	}
	identity.LastLoginAt = &now

	s.trace.ApplyTraceAttributes(span, core.TraceAuthMeta{Op: authEventSignIn, IdentityID: identity.ID.Hex(), Outcome: outcomeSuccess})
	s.recordAuthEvent(ctx, authEventSignIn, outcomeSuccess, "", "", identity.ID.Hex(), identity.Email)
	return identity.Snapshot(), nil
}

// verifyCredentials 回傳 (identity, 失敗原因, 系統錯誤)
func (s *AuthService) verifyCredentials(ctx context.Context, email, plain string) (*model.Identity, error, error) {
	identity, err := s.identities.FindByEmail(ctx, email)
	if errors.Is(err, mongo.ErrNoDocuments) {
		// 仍做一次比對，讓回應時間與帳號是否存在無關
		_ = password.Compare(s.dummy(), plain)
		return nil, ErrIdentityNotFound, nil
	}
	if err != nil {
		s.logger.Error("find identity failed", zap.Error(err))
		return nil, nil, cErr.DatabaseError()
	}
	if !identity.HasPassword() {
		_ = password.Compare(s.dummy(), plain)
		return nil, ErrNoPasswordSet, nil
	}
	if err := password.Compare(identity.PasswordHash, plain); err != nil {
		if !errors.Is(err, password.ErrMismatch) {
			s.logger.Error("stored password hash is unreadable", zap.String("identity_id", identity.ID.Hex()), zap.Error(err))
		}
		return nil, ErrPasswordMismatch, nil
	}
	return identity, nil, nil
}

func (s *AuthService) dummy() string {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = password.Hash("wanderlust-timing-equalizer", s.auth.BcryptCost)
	})
	return s.dummyHash
}

// SignInExternal 驗證外部憑證後連結或建立身分
func (s *AuthService) SignInExternal(ctx context.Context, provider core.ExternalProvider, assertion string) (_ core.IdentitySnapshot, returnedError error) {
	ctx, _, end := s.trace.WithSpan(ctx)
	defer func() { end(returnedError) }()

	verifier, ok := s.registry.Get(provider)
	if !ok {
		return core.IdentitySnapshot{}, cErr.BadRequestParams("unsupported provider")
	}
	if strings.TrimSpace(assertion) == "" {
		return core.IdentitySnapshot{}, cErr.ValidationFailed([]cErr.FieldError{{Field: "idToken", Message: "is required"}})
	}
	verified, err := verifier.Verify(ctx, assertion)
	if err != nil {
		s.logger.Warn("external assertion rejected", zap.String("provider", string(provider)), zap.Error(err))
		s.recordAuthEvent(ctx, authEventExternal, outcomeFailure, "assertion_rejected", string(provider), "", "")
		return core.IdentitySnapshot{}, cErr.AuthFailed()
	}
	snapshot, _, err := s.LinkExternal(ctx, provider, verified.AccountID, verified.Email)
	return snapshot, err
}

// LinkExternal 依 email 找到身分後附加外部帳號，找不到則建立新身分。
// 不會更動既有的密碼與角色。回傳的 bool 表示是否新建。
func (s *AuthService) LinkExternal(
	ctx context.Context,
	provider core.ExternalProvider,
	accountID string,
	email string,
) (_ core.IdentitySnapshot, created bool, returnedError error) {
	ctx, span, end := s.trace.WithSpan(ctx)
	defer func() { end(returnedError) }()

	email = model.NormalizeEmail(email)
	if email == "" || strings.TrimSpace(accountID) == "" {
		return core.IdentitySnapshot{}, false, cErr.LinkFailed()
	}
	meta := core.TraceAuthMeta{Op: "link_external", Provider: string(provider)}
	fail := func(reason string, err error) (core.IdentitySnapshot, bool, error) {
		meta.Outcome, meta.Reason = outcomeFailure, reason
		s.trace.ApplyTraceAttributes(span, meta)
		s.logger.Error("link external identity failed", zap.String("reason", reason), zap.String("provider", string(provider)), zap.Error(err))
		s.recordAuthEvent(ctx, authEventExternal, outcomeFailure, reason, string(provider), "", email)
		return core.IdentitySnapshot{}, false, cErr.LinkFailed()
	}

	// 最多兩次：建立時撞到唯一索引代表同時有另一個請求建立了同 email，改走連結流程
	for attempt := 0; attempt < 2; attempt++ {
		now := s.now()
		identity, err := s.identities.FindByEmail(ctx, email)
		switch {
		case err == nil:
			changed, linkErr := identity.LinkExternal(provider, accountID, email, now)
			if linkErr != nil {
				return fail("account_mismatch", linkErr)
			}
			if changed {
				identity.LastLoginAt = &now
				if identity, err = s.identities.Replace(ctx, identity); err != nil {
					return fail("storage", err)
				}
			}
			meta.IdentityID, meta.Linked, meta.Outcome = identity.ID.Hex(), changed, outcomeSuccess
			s.trace.ApplyTraceAttributes(span, meta)
			s.recordAuthEvent(ctx, authEventExternal, outcomeSuccess, "", string(provider), identity.ID.Hex(), email)
			return identity.Snapshot(), false, nil

		case errors.Is(err, mongo.ErrNoDocuments):
			identity = &model.Identity{
				ID:          primitive.NewObjectID(),
				Email:       email,
				Role:        core.RoleUser,
				LastLoginAt: &now,
			}
			if _, linkErr := identity.LinkExternal(provider, accountID, email, now); linkErr != nil {
				return fail("account_mismatch", linkErr)
			}
			identity, err = s.identities.Create(ctx, identity)
			if err != nil {
				if mongo.IsDuplicateKeyError(err) && attempt == 0 {
					continue
				}
				return fail("storage", err)
			}
			meta.IdentityID, meta.Linked, meta.Created, meta.Outcome = identity.ID.Hex(), true, true, outcomeSuccess
			s.trace.ApplyTraceAttributes(span, meta)
			s.recordAuthEvent(ctx, authEventExternal, outcomeSuccess, "created", string(provider), identity.ID.Hex(), email)
			return identity.Snapshot(), true, nil

		default:
			return fail("storage", err)
		}
	}
	return fail("storage", errors.New("identity create race not resolved"))
}

// SetPassword 外部登入的帳號補設密碼；email 必須與目前 session 相同
func (s *AuthService) SetPassword(ctx context.Context, actor core.IdentitySnapshot, input *dto.SetPasswordDto) (_ core.IdentitySnapshot, returnedError error) {
	ctx, _, end := s.trace.WithSpan(ctx)
	defer func() { end(returnedError) }()

	if model.NormalizeEmail(input.Email) != model.NormalizeEmail(actor.Email) {
		return core.IdentitySnapshot{}, cErr.Forbidden("email does not match the signed-in identity")
	}
	identity, err := s.loadActor(ctx, actor)
	if err != nil {
		return core.IdentitySnapshot{}, err
	}
	if identity.HasPassword() {
		return core.IdentitySnapshot{}, cErr.Conflict("password is already set")
	}
	hash, err := password.Hash(input.Password, s.auth.BcryptCost)
	if err != nil {
		s.logger.Error("hash password failed", zap.Error(err))
		return core.IdentitySnapshot{}, cErr.InternalServer("could not set password")
	}
	if err := identity.SetPassword(hash); err != nil {
		if errors.Is(err, core.ErrPasswordAlreadySet) {
			return core.IdentitySnapshot{}, cErr.Conflict("password is already set")
		}
		return core.IdentitySnapshot{}, cErr.InternalServer("could not set password")
	}
	if identity, err = s.identities.Replace(ctx, identity); err != nil {
		s.logger.Error("save password failed", zap.Error(err))
		return core.IdentitySnapshot{}, cErr.DatabaseError()
	}
	s.recordAuthEvent(ctx, authEventPasswordSet, outcomeSuccess, "", "", identity.ID.Hex(), identity.Email)
	return identity.Snapshot(), nil
}

// GetProfile 目前登入者的完整資料
func (s *AuthService) GetProfile(ctx context.Context, actor core.IdentitySnapshot) (_ *model.Identity, returnedError error) {
	ctx, _, end := s.trace.WithSpan(ctx)
	defer func() { end(returnedError) }()

	return s.loadActor(ctx, actor)
}

// UpdateProfile 更新個人資料，profileComplete 由存檔前重新計算
func (s *AuthService) UpdateProfile(ctx context.Context, actor core.IdentitySnapshot, input *dto.UpdateProfileDto) (_ *model.Identity, returnedError error) {
	ctx, _, end := s.trace.WithSpan(ctx)
	defer func() { end(returnedError) }()

	identity, err := s.loadActor(ctx, actor)
	if err != nil {
		return nil, err
	}
	if input.Name != nil {
		identity.Name = *input.Name
	}
	if input.Phone != nil {
		identity.Phone = *input.Phone
	}
	if input.DateOfBirth != nil {
		identity.DateOfBirth = *input.DateOfBirth
	}
	if input.Gender != nil {
		identity.Gender = *input.Gender
	}
	if input.Address != nil {
		identity.Address = input.Address
	}
	updated, err := s.identities.Replace(ctx, identity)
	if err != nil {
		s.logger.Error("update profile failed", zap.Error(err))
		return nil, cErr.DatabaseError()
	}
	return updated, nil
}

func (s *AuthService) loadActor(ctx context.Context, actor core.IdentitySnapshot) (*model.Identity, error) {
	identityID, err := primitive.ObjectIDFromHex(actor.ID)
	if err != nil {
		return nil, cErr.InvalidSession("session identity is invalid")
	}
	identity, err := s.identities.GetByID(ctx, identityID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, cErr.InvalidSession("session identity no longer exists")
		}
		return nil, cErr.DatabaseError()
	}
	return identity, nil
}

// recordAuthEvent 同時寫入 metric 與 fluentd；email 只記錄指紋
func (s *AuthService) recordAuthEvent(ctx context.Context, event, outcome, reason, provider, identityID, email string) {
	s.metric.AuthEvent(event, outcome, reason)
	if s.events == nil {
		return
	}
	err := s.events.LogAuthEvent(ctx, fluentdModel.AuthEventLog{
		Event:      event,
		Outcome:    outcome,
		Reason:     reason,
		Provider:   provider,
		IdentityID: identityID,
		EmailHash:  fingerprint.Of(email, s.auth.SessionSecret),
	})
	if err != nil {
		s.logger.Warn("ship auth event failed", zap.String("event", event), zap.Error(err))
	}
}

func reasonLabel(reason error) string {
	switch {
	case errors.Is(reason, ErrIdentityNotFound):
		return "identity_not_found"
	case errors.Is(reason, ErrNoPasswordSet):
		return "no_password_set"
	case errors.Is(reason, ErrPasswordMismatch):
		return "password_mismatch"
	default:
		return "unknown"
	}
}
