package service

import (
	"context"
	"errors"
	"sort"

	"wanderlust/internal/core"
	"wanderlust/internal/database/mongodb/model"
	"wanderlust/internal/dto"
	cErr "wanderlust/internal/pkg/error"
	"wanderlust/internal/telemetry"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// IdentityService 管理端的身分查詢與角色調整，以及資料修復
type IdentityService struct {
	logger     *zap.Logger
	trace      *telemetry.Trace
	identities IdentityStore
}

func NewIdentityService(logger *zap.Logger, trace *telemetry.Trace, identities IdentityStore) *IdentityService {
	return &IdentityService{logger: logger, trace: trace, identities: identities}
}

// 依角色列舉（空字串代表全部）
func (s *IdentityService) ListIdentities(ctx context.Context, role core.Role) (_ []*dto.IdentityResponseDto, returnedError error) {
	ctx, span, end := s.trace.WithSpan(ctx)
	defer func() { end(returnedError) }()

	if role != "" && !role.Valid() {
		return nil, cErr.BadRequestParams("invalid role")
	}
	identities, err := s.identities.List(ctx, role)
	if err != nil {
		return nil, cErr.DatabaseError()
	}
	resp := make([]*dto.IdentityResponseDto, len(identities))
	for i, identity := range identities {
		resp[i] = ToIdentityResponseDto(identity)
	}
	s.trace.ApplyTraceAttributes(span, core.TraceIdentityListMeta{Role: string(role), ResultCount: len(resp)})
	return resp, nil
}

func (s *IdentityService) GetIdentity(ctx context.Context, id primitive.ObjectID) (_ *dto.IdentityResponseDto, returnedError error) {
	ctx, _, end := s.trace.WithSpan(ctx)
	defer func() { end(returnedError) }()

	identity, err := s.identities.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, cErr.NotFound("identity not found")
		}
		return nil, cErr.DatabaseError()
	}
	return ToIdentityResponseDto(identity), nil
}

// UpdateIdentityRole 管理員不可修改自己的角色，避免失去管理權限
func (s *IdentityService) UpdateIdentityRole(ctx context.Context, actor core.IdentitySnapshot, id primitive.ObjectID, input *dto.UpdateIdentityRoleDto) (_ *dto.IdentityResponseDto, returnedError error) {
	ctx, _, end := s.trace.WithSpan(ctx)
	defer func() { end(returnedError) }()

	if actor.ID == id.Hex() {
		return nil, cErr.Forbidden("cannot change your own role")
	}
	matchedCount, err := s.identities.UpdateRole(ctx, id, input.Role)
	if err != nil {
		return nil, cErr.DatabaseError()
	}
	if matchedCount == 0 {
		return nil, cErr.NotFound("identity not found")
	}
	return s.GetIdentity(ctx, id)
}

// ReconcileProfiles 修正 profileComplete 與實際欄位不一致的舊資料
func (s *IdentityService) ReconcileProfiles(ctx context.Context) (scanned int, repaired int, returnedError error) {
	ctx, span, end := s.trace.WithSpan(ctx, string(core.SpanProfileReconcileJob))
	defer func() { end(returnedError) }()

	returnedError = s.identities.ForEach(ctx, func(identity *model.Identity) error {
		scanned++
		if identity.ProfileComplete == core.ProfileCompleteFor(identity.Name, identity.Email, identity.Phone) {
			return nil
		}
		if _, err := s.identities.Replace(ctx, identity); err != nil {
			// 無任何登入方式的舊資料無法存回，略過並記錄
			s.logger.Warn("reconcile identity skipped", zap.String("identity_id", identity.ID.Hex()), zap.Error(err))
			return nil
		}
		repaired++
		return nil
	})

	meta := core.TraceReconcileMeta{Scanned: scanned, Repaired: repaired}
	if returnedError != nil {
		msg := returnedError.Error()
		meta.Error = &msg
	}
	s.trace.ApplyTraceAttributes(span, meta)
	s.logger.Info("profile reconcile finished", zap.Int("scanned", scanned), zap.Int("repaired", repaired))
	return scanned, repaired, returnedError
}

// ToIdentityResponseDto 轉成對外格式，不含密碼雜湊
func ToIdentityResponseDto(m *model.Identity) *dto.IdentityResponseDto {
	resp := &dto.IdentityResponseDto{
		ID:                    m.ID.Hex(),
		Name:                  m.Name,
		Email:                 m.Email,
		Role:                  m.Role,
		ProfileComplete:       m.ProfileComplete,
		HasCredentialPassword: m.HasCredentialPassword,
		EmailVerified:         m.EmailVerified,
		Phone:                 m.Phone,
		DateOfBirth:           m.DateOfBirth,
		Gender:                m.Gender,
		Address:               m.Address,
		LastLoginAt:           m.LastLoginAt,
		CreatedAt:             m.CreatedAt,
		UpdatedAt:             m.UpdatedAt,
	}
	for provider := range m.ExternalIdentities {
		resp.LinkedProviders = append(resp.LinkedProviders, provider)
	}
	sort.Strings(resp.LinkedProviders)
	return resp
}
