package session

import (
	"errors"
	"time"

	"wanderlust/internal/core"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

var (
	ErrInvalid      = errors.New("invalid session token")
	ErrMissingKey   = errors.New("session secret is not configured")
	ErrMissingIdent = errors.New("snapshot has no identity id")
)

// Options 簽發與解析 token 所需的設定
type Options struct {
	Secret []byte
	Issuer string
	TTL    time.Duration
	Now    func() time.Time // 測試可注入
}

func (o Options) now() time.Time {
	if o.Now != nil {
		return o.Now()
	}
	return time.Now()
}

// Issue 由身分快照產生已簽章的 token；不含任何密碼資訊
func Issue(snapshot core.IdentitySnapshot, opts Options) (string, *core.SessionClaims, error) {
	if len(opts.Secret) == 0 {
		return "", nil, ErrMissingKey
	}
	if snapshot.ID == "" {
		return "", nil, ErrMissingIdent
	}
	jti, err := uuid.NewV7()
	if err != nil {
		jti = uuid.New()
	}
	issuedAt := opts.now().UTC()
	claims := &core.SessionClaims{
		IdentityID:            snapshot.ID,
		Role:                  snapshot.Role,
		ProfileComplete:       snapshot.ProfileComplete,
		HasCredentialPassword: snapshot.HasCredentialPassword,
		Name:                  snapshot.Name,
		Email:                 snapshot.Email,
		Phone:                 snapshot.Phone,
		Gender:                snapshot.Gender,
		DateOfBirth:           snapshot.DateOfBirth,
		Address:               snapshot.Address,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti.String(),
			Issuer:    opts.Issuer,
			Subject:   snapshot.ID,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(opts.TTL)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(opts.Secret)
	if err != nil {
		return "", nil, err
	}
	return token, claims, nil
}

// Decode 驗證簽章、演算法、issuer 與有效期限；任何失敗皆回傳 ErrInvalid
func Decode(token string, opts Options) (*core.SessionClaims, error) {
	if len(opts.Secret) == 0 {
		return nil, ErrMissingKey
	}
	claims := &core.SessionClaims{}
	// 時間相關檢查改由下方以 opts.Now 處理
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	parsed, err := parser.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return opts.Secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, ErrInvalid
	}
	now := opts.now()
	if !claims.VerifyExpiresAt(now, true) || !claims.VerifyNotBefore(now, false) {
		return nil, ErrInvalid
	}
	if opts.Issuer != "" && !claims.VerifyIssuer(opts.Issuer, true) {
		return nil, ErrInvalid
	}
	if claims.IdentityID == "" || claims.ID == "" {
		return nil, ErrInvalid
	}
	return claims, nil
}

// Remaining token 剩餘有效時間，供撤銷清單設定 TTL
func Remaining(claims *core.SessionClaims, now time.Time) time.Duration {
	if claims == nil || claims.ExpiresAt == nil {
		return 0
	}
	return claims.ExpiresAt.Time.Sub(now)
}
