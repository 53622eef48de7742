package handler

import (
	"context"
	"net/http"
	"time"

	"wanderlust/config"
	"wanderlust/internal/core"
	"wanderlust/internal/database/mongodb/model"
	"wanderlust/internal/dto"
	"wanderlust/internal/middleware"
	cErr "wanderlust/internal/pkg/error"
	"wanderlust/internal/pkg/request"
	"wanderlust/internal/pkg/response"
	"wanderlust/internal/service"
	"wanderlust/internal/telemetry"

	"github.com/gin-gonic/gin"
)

// AuthOperations 由 service.AuthService 實作
type AuthOperations interface {
	Register(ctx context.Context, input *dto.RegisterDto) (*model.Identity, error)
	Authenticate(ctx context.Context, email, plain string) (core.IdentitySnapshot, error)
	SignInExternal(ctx context.Context, provider core.ExternalProvider, assertion string) (core.IdentitySnapshot, error)
	SetPassword(ctx context.Context, actor core.IdentitySnapshot, input *dto.SetPasswordDto) (core.IdentitySnapshot, error)
	GetProfile(ctx context.Context, actor core.IdentitySnapshot) (*model.Identity, error)
	UpdateProfile(ctx context.Context, actor core.IdentitySnapshot, input *dto.UpdateProfileDto) (*model.Identity, error)
}

// SessionOperations 由 service.SessionService 實作
type SessionOperations interface {
	Issue(ctx context.Context, snapshot core.IdentitySnapshot) (*dto.SessionResponseDto, error)
	Refresh(ctx context.Context, claims *core.SessionClaims) (*dto.SessionResponseDto, error)
	Revoke(ctx context.Context, claims *core.SessionClaims) error
	CookieMaxAge() int
}

type AuthHandler struct {
	trace    *telemetry.Trace
	auth     AuthOperations
	sessions SessionOperations
	cookie   config.Auth
}

func NewAuthHandler(trace *telemetry.Trace, conf *config.Configuration, authService *service.AuthService, sessionService *service.SessionService) *AuthHandler {
	return newAuthHandler(trace, conf, authService, sessionService)
}

func newAuthHandler(trace *telemetry.Trace, conf *config.Configuration, auth AuthOperations, sessions SessionOperations) *AuthHandler {
	return &AuthHandler{trace: trace, auth: auth, sessions: sessions, cookie: conf.Auth.WithDefaults()}
}

// Register 自行註冊
// @Summary 註冊帳號
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body dto.RegisterDto true "註冊資料"
// @Success 201 {object} dto.IdentityResponseDto
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	ctx, _, end := h.trace.WithSpan(c)
	defer end(nil)

	var req dto.RegisterDto
	if err := request.BindJSON(c, &req); err != nil {
		end(err)
		response.AbortWithError(c, err)
		return
	}
	identity, err := h.auth.Register(ctx, &req)
	if err != nil {
		response.AbortWithError(c, err)
		return
	}
	response.Create(c, service.ToIdentityResponseDto(identity))
}

// SignIn 帳密登入
// @Summary 帳密登入
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body dto.SignInDto true "帳號密碼"
// @Success 200 {object} dto.SessionResponseDto
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 429 {object} response.Response
// @Router /auth/signin [post]
func (h *AuthHandler) SignIn(c *gin.Context) {
	ctx, _, end := h.trace.WithSpan(c)
	defer end(nil)

	var req dto.SignInDto
	if err := request.BindJSON(c, &req); err != nil {
		end(err)
		response.AbortWithError(c, err)
		return
	}
	snapshot, err := h.auth.Authenticate(ctx, req.Email, req.Password)
	if err != nil {
		response.AbortWithError(c, err)
		return
	}
	h.issue(ctx, c, snapshot)
}

// SignInExternal 外部登入
// @Summary 外部帳號登入（Google ID token）
// @Tags Auth
// @Accept json
// @Produce json
// @Param provider path string true "外部來源" Enums(google)
// @Param body body dto.ExternalSignInDto true "ID token"
// @Success 200 {object} dto.SessionResponseDto
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 500 {object} response.Response
// @Router /auth/oauth/{provider} [post]
func (h *AuthHandler) SignInExternal(c *gin.Context) {
	ctx, _, end := h.trace.WithSpan(c)
	defer end(nil)

	var req dto.ExternalSignInDto
	if err := request.BindJSON(c, &req); err != nil {
		end(err)
		response.AbortWithError(c, err)
		return
	}
	snapshot, err := h.auth.SignInExternal(ctx, core.ExternalProvider(c.Param("provider")), req.IDToken)
	if err != nil {
		response.AbortWithError(c, err)
		return
	}
	h.issue(ctx, c, snapshot)
}

// SetPassword 外部登入帳號補設密碼，成功後換發 session
// @Summary 設定密碼
// @Tags Auth
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param body body dto.SetPasswordDto true "email 與新密碼"
// @Success 200 {object} dto.SessionResponseDto
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /auth/password [post]
func (h *AuthHandler) SetPassword(c *gin.Context) {
	ctx, _, end := h.trace.WithSpan(c)
	defer end(nil)

	actor, claims := middleware.CurrentIdentity(c), middleware.CurrentClaims(c)
	if actor == nil || claims == nil {
		response.AbortWithError(c, cErr.Unauthorized("authentication required"))
		return
	}
	var req dto.SetPasswordDto
	if err := request.BindJSON(c, &req); err != nil {
		end(err)
		response.AbortWithError(c, err)
		return
	}
	if _, err := h.auth.SetPassword(ctx, *actor, &req); err != nil {
		response.AbortWithError(c, err)
		return
	}
	h.refresh(ctx, c, claims, gin.H{"message": "Password Set"})
}

// Session 目前 session
// @Summary 取得目前 session
// @Tags Auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.SessionInfoDto
// @Failure 401 {object} response.Response
// @Router /auth/session [get]
func (h *AuthHandler) Session(c *gin.Context) {
	claims := middleware.CurrentClaims(c)
	if claims == nil {
		response.AbortWithError(c, cErr.Unauthorized("authentication required"))
		return
	}
	info := dto.SessionInfoDto{Identity: claims.Snapshot()}
	if claims.IssuedAt != nil {
		info.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		info.ExpiresAt = claims.ExpiresAt.Time
	}
	response.Success(c, info)
}

// Refresh 以最新資料換發 session
// @Summary 換發 session
// @Tags Auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.SessionResponseDto
// @Failure 401 {object} response.Response
// @Router /auth/session/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	ctx, _, end := h.trace.WithSpan(c)
	defer end(nil)

	claims := middleware.CurrentClaims(c)
	if claims == nil {
		response.AbortWithError(c, cErr.Unauthorized("authentication required"))
		return
	}
	h.refresh(ctx, c, claims, nil)
}

// SignOut 登出
// @Summary 登出
// @Tags Auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 401 {object} response.Response
// @Router /auth/signout [post]
func (h *AuthHandler) SignOut(c *gin.Context) {
	ctx, _, end := h.trace.WithSpan(c)
	defer end(nil)

	claims := middleware.CurrentClaims(c)
	if claims == nil {
		response.AbortWithError(c, cErr.Unauthorized("authentication required"))
		return
	}
	if err := h.sessions.Revoke(ctx, claims); err != nil {
		response.AbortWithError(c, err)
		return
	}
	h.clearCookie(c)
	response.Success(c, gin.H{"message": "Signed Out"})
}

// Profile 個人資料
// @Summary 取得個人資料
// @Tags Me
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.IdentityResponseDto
// @Failure 401 {object} response.Response
// @Router /me/profile [get]
func (h *AuthHandler) Profile(c *gin.Context) {
	ctx, _, end := h.trace.WithSpan(c)
	defer end(nil)

	actor := middleware.CurrentIdentity(c)
	if actor == nil {
		response.AbortWithError(c, cErr.Unauthorized("authentication required"))
		return
	}
	identity, err := h.auth.GetProfile(ctx, *actor)
	if err != nil {
		response.AbortWithError(c, err)
		return
	}
	response.Success(c, service.ToIdentityResponseDto(identity))
}

// UpdateProfile 更新個人資料並換發 session，讓 profileComplete 立即生效
// @Summary 更新個人資料
// @Tags Me
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param body body dto.UpdateProfileDto true "個人資料"
// @Success 200 {object} dto.ProfileResponseDto
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /me/profile [put]
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	ctx, _, end := h.trace.WithSpan(c)
	defer end(nil)

	actor, claims := middleware.CurrentIdentity(c), middleware.CurrentClaims(c)
	if actor == nil || claims == nil {
		response.AbortWithError(c, cErr.Unauthorized("authentication required"))
		return
	}
	var req dto.UpdateProfileDto
	if err := request.BindJSON(c, &req); err != nil {
		end(err)
		response.AbortWithError(c, err)
		return
	}
	identity, err := h.auth.UpdateProfile(ctx, *actor, &req)
	if err != nil {
		response.AbortWithError(c, err)
		return
	}
	issued, err := h.sessions.Refresh(ctx, claims)
	if err != nil {
		response.AbortWithError(c, err)
		return
	}
	h.setCookie(c, issued)
	response.Success(c, dto.ProfileResponseDto{
		Profile: service.ToIdentityResponseDto(identity),
		Session: issued,
	})
}

func (h *AuthHandler) issue(ctx context.Context, c *gin.Context, snapshot core.IdentitySnapshot) {
	issued, err := h.sessions.Issue(ctx, snapshot)
	if err != nil {
		response.AbortWithError(c, err)
		return
	}
	h.setCookie(c, issued)
	response.Success(c, issued)
}

func (h *AuthHandler) refresh(ctx context.Context, c *gin.Context, claims *core.SessionClaims, extra gin.H) {
	issued, err := h.sessions.Refresh(ctx, claims)
	if err != nil {
		response.AbortWithError(c, err)
		return
	}
	h.setCookie(c, issued)
	if extra != nil {
		extra["session"] = issued
		response.Success(c, extra)
		return
	}
	response.Success(c, issued)
}

// session cookie 與 bearer token 相同；HttpOnly，SameSite=Lax
func (h *AuthHandler) setCookie(c *gin.Context, issued *dto.SessionResponseDto) {
	maxAge := h.sessions.CookieMaxAge()
	if remaining := int(time.Until(issued.ExpiresAt) / time.Second); remaining > 0 && remaining < maxAge {
		maxAge = remaining
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.CookieName, issued.Token, maxAge, "/", h.cookie.CookieDomain, h.cookie.CookieSecure, true)
}

func (h *AuthHandler) clearCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.CookieName, "", -1, "/", h.cookie.CookieDomain, h.cookie.CookieSecure, true)
}
