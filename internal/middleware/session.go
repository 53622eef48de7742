package middleware

import (
	"context"
	"strings"

	"wanderlust/config"
	"wanderlust/internal/core"
	cErr "wanderlust/internal/pkg/error"
	"wanderlust/internal/pkg/response"
	"wanderlust/internal/telemetry"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	contextIdentityKey = "identity"
	contextClaimsKey   = "sessionClaims"

	tokenSourceHeader = "header"
	tokenSourceCookie = "cookie"
)

// SessionValidator 由 service.SessionService 實作
type SessionValidator interface {
	Validate(ctx context.Context, token string) (*core.SessionClaims, error)
}

type sessionMode int

const (
	sessionRequired sessionMode = iota // 沒有 token 即 401
	sessionAttach                      // 有 token 必須有效；沒有則交給 service 判斷
	sessionOptional                    // token 無效也放行（公開路由）
)

type Session struct {
	logger     *zap.Logger
	trace      *telemetry.Trace
	validator  SessionValidator
	cookieName string
}

func NewSession(logger *zap.Logger, trace *telemetry.Trace, conf *config.Configuration, validator SessionValidator) *Session {
	return &Session{
		logger:     logger,
		trace:      trace,
		validator:  validator,
		cookieName: conf.Auth.WithDefaults().CookieName,
	}
}

func (m *Session) Required() gin.HandlerFunc {
	return m.handler(sessionRequired)
}

func (m *Session) Attach() gin.HandlerFunc {
	return m.handler(sessionAttach)
}

func (m *Session) Optional() gin.HandlerFunc {
	return m.handler(sessionOptional)
}

func (m *Session) handler(mode sessionMode) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, span, end := m.trace.WithSpan(c.Request.Context(), string(core.SpanSessionMiddleware))
		token, source := m.readToken(c)
		meta := core.TraceSessionMiddlewareMeta{Source: source}

		if token == "" {
			if mode == sessionRequired {
				meta.Status = "missing_token"
				m.trace.ApplyTraceAttributes(span, meta)
				err := cErr.Unauthorized("authentication required")
				end(err)
				response.AbortWithError(c, err)
				return
			}
			meta.Status = "anonymous"
			m.trace.ApplyTraceAttributes(span, meta)
			end(nil)
			c.Next()
			return
		}

		claims, err := m.validator.Validate(ctx, token)
		if err != nil {
			meta.Status = "rejected"
			m.trace.ApplyTraceAttributes(span, meta)
			if mode == sessionOptional {
				m.logger.Debug("ignore invalid session on public route", zap.String("path", c.FullPath()), zap.Error(err))
				end(nil)
				c.Next()
				return
			}
			end(err)
			response.AbortWithError(c, err)
			return
		}

		snapshot := claims.Snapshot()
		meta.IdentityID, meta.Role, meta.Status = snapshot.ID, string(snapshot.Role), "authenticated"
		m.trace.ApplyTraceAttributes(span, meta)
		c.Set(contextClaimsKey, claims)
		c.Set(contextIdentityKey, &snapshot)
		end(nil)
		c.Next()
	}
}

// readToken 先讀 Authorization: Bearer，再讀 cookie
func (m *Session) readToken(c *gin.Context) (string, string) {
	if header := c.GetHeader("Authorization"); header != "" {
		scheme, token, ok := strings.Cut(header, " ")
		if ok && strings.EqualFold(scheme, "Bearer") {
			if token = strings.TrimSpace(token); token != "" {
				return token, tokenSourceHeader
			}
		}
	}
	if cookie, err := c.Cookie(m.cookieName); err == nil && cookie != "" {
		return cookie, tokenSourceCookie
	}
	return "", ""
}

// CurrentIdentity 目前請求的登入者；未登入回傳 nil
func CurrentIdentity(c *gin.Context) *core.IdentitySnapshot {
	if v, ok := c.Get(contextIdentityKey); ok {
		if snapshot, ok := v.(*core.IdentitySnapshot); ok {
			return snapshot
		}
	}
	return nil
}

func CurrentClaims(c *gin.Context) *core.SessionClaims {
	if v, ok := c.Get(contextClaimsKey); ok {
		if claims, ok := v.(*core.SessionClaims); ok {
			return claims
		}
	}
	return nil
}

// RequireAdmin 需放在 Required() 之後
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := CurrentIdentity(c)
		if identity == nil {
			response.AbortWithError(c, cErr.Unauthorized("authentication required"))
			return
		}
		if !identity.IsAdmin() {
			response.AbortWithError(c, cErr.Forbidden("admin role required"))
			return
		}
		c.Next()
	}
}
