package handlers

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/idlink-io/idlink/internal/application/identity"
	"github.com/idlink-io/idlink/internal/domain/account"
	"github.com/idlink-io/idlink/internal/infrastructure/auth"
	"github.com/idlink-io/idlink/internal/infrastructure/cache"
	"github.com/idlink-io/idlink/internal/shared/config"
	"github.com/idlink-io/idlink/internal/shared/constants"
	"github.com/idlink-io/idlink/internal/shared/id"
	"github.com/idlink-io/idlink/internal/shared/logger"
	"github.com/idlink-io/idlink/internal/shared/utils"
)

const marketingCookieName = "marketing_meta"

// marketing attribution params captured at initiation and replayed into the
// account record at signup
var marketingParams = []string{"utm_source", "utm_medium", "utm_campaign", "referrer"}

type AuthHandler struct {
	initiateUseCase     *identity.InitiateLoginUseCase
	callbackUseCase     *identity.HandleCallbackUseCase
	directory           account.Directory
	signupMarker        *cache.RedisSignupMarker
	jwtService          *auth.JWTService
	cookieConfig        config.CookieConfig
	frontendCallbackURL string
	logger              logger.Interface
}

func NewAuthHandler(
	initiateUC *identity.InitiateLoginUseCase,
	callbackUC *identity.HandleCallbackUseCase,
	directory account.Directory,
	signupMarker *cache.RedisSignupMarker,
	jwtService *auth.JWTService,
	cookieConfig config.CookieConfig,
	frontendCallbackURL string,
	logger logger.Interface,
) *AuthHandler {
	return &AuthHandler{
		initiateUseCase:     initiateUC,
		callbackUseCase:     callbackUC,
		directory:           directory,
		signupMarker:        signupMarker,
		jwtService:          jwtService,
		cookieConfig:        cookieConfig,
		frontendCallbackURL: frontendCallbackURL,
		logger:              logger,
	}
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required,jwt"`
}

// InitiateOAuth redirects the browser to the provider's authorization page.
// Marketing attribution params on the request are parked in a short-lived
// cookie so the callback can fold them into a signup.
func (h *AuthHandler) InitiateOAuth(c *gin.Context) {
	provider := c.Param("provider")

	result, err := h.initiateUseCase.Execute(c.Request.Context(), identity.InitiateLoginCommand{Provider: provider})
	if err != nil {
		h.logger.Errorw("OAuth initiation failed", "error", err, "provider", provider)
		utils.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	h.parkMarketingMeta(c)

	c.Redirect(http.StatusTemporaryRedirect, result.AuthURL)
}

func (h *AuthHandler) HandleOAuthCallback(c *gin.Context) {
	provider := c.Param("provider")
	code := c.Query("code")
	state := c.Query("state")

	// Check OAuth provider errors
	if errParam := c.Query("error"); errParam != "" {
		h.logger.Warnw("OAuth provider returned error",
			"provider", provider,
			"error_code", errParam,
			"error_description", c.Query("error_description"),
		)
		h.redirectWithError(c, providerErrorMessage(errParam))
		return
	}

	if code == "" {
		h.logger.Warnw("OAuth callback missing code", "provider", provider)
		h.redirectWithError(c, "authorization code missing from callback")
		return
	}

	if state == "" {
		h.logger.Warnw("OAuth callback missing state", "provider", provider)
		h.redirectWithError(c, "state parameter missing from callback")
		return
	}

	sessionAccountID := sessionAccountFromContext(c)
	sessionID := h.ensureSessionID(c)
	ctx := constants.WithSessionID(c.Request.Context(), sessionID)

	outcome, err := h.callbackUseCase.Execute(ctx, identity.HandleCallbackCommand{
		Provider:         provider,
		Code:             code,
		State:            state,
		SessionAccountID: sessionAccountID,
		MarketingMeta:    h.collectMarketingMeta(c),
	})
	if err != nil {
		h.logger.Errorw("OAuth callback failed", "error", err, "provider", provider)
		h.redirectWithError(c, handshakeErrorMessage(err))
		return
	}

	if outcome.IsRejected() {
		h.logger.Infow("authentication rejected", "provider", provider, "reason", outcome.Reason)
		h.redirectWithError(c, outcome.Reason)
		return
	}

	tokens, err := h.jwtService.Generate(outcome.Account.ID, sessionID)
	if err != nil {
		h.logger.Errorw("failed to issue tokens", "error", err, "account_id", outcome.Account.ID)
		h.redirectWithError(c, "authentication failed")
		return
	}

	accessMaxAge := h.jwtService.AccessExpMinutes() * 60
	refreshMaxAge := h.jwtService.RefreshExpDays() * 24 * 60 * 60
	utils.SetAuthCookies(c, h.cookieConfig, tokens.AccessToken, tokens.RefreshToken, accessMaxAge, refreshMaxAge)
	h.clearMarketingMeta(c)

	target := h.frontendCallbackURL
	if outcome.IsNewSignup() {
		target += "?signup=true"
	}
	c.Redirect(http.StatusTemporaryRedirect, target)
}

func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	accountID, exists := c.Get(constants.ContextKeyAccountID)
	if !exists {
		utils.ErrorResponse(c, http.StatusUnauthorized, "not authenticated")
		return
	}

	current, err := h.directory.LoadAccount(c.Request.Context(), accountID.(uint))
	if err != nil {
		h.logger.Errorw("failed to load current account", "error", err, "account_id", accountID)
		utils.ErrorResponse(c, http.StatusNotFound, "account not found")
		return
	}

	newSignup := false
	if sessionID, ok := c.Get(constants.ContextKeySessionID); ok {
		newSignup = h.signupMarker.ConsumeNewSignup(c.Request.Context(), sessionID.(string))
	}

	utils.SuccessResponse(c, http.StatusOK, "success", gin.H{
		"account":    current.GetDisplayInfo(),
		"new_signup": newSignup,
	})
}

func (h *AuthHandler) RefreshToken(c *gin.Context) {
	refreshToken := utils.GetTokenFromCookie(c, utils.RefreshTokenCookie)

	if refreshToken == "" {
		var req RefreshTokenRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.ErrorResponse(c, http.StatusBadRequest, "refresh token is required")
			return
		}
		if err := utils.ValidateStruct(&req); err != nil {
			utils.AppErrorResponse(c, err)
			return
		}
		refreshToken = req.RefreshToken
	}

	tokens, err := h.jwtService.Refresh(refreshToken)
	if err != nil {
		h.logger.Errorw("token refresh failed", "error", err)
		utils.ErrorResponse(c, http.StatusUnauthorized, "invalid or expired refresh token")
		return
	}

	accessMaxAge := h.jwtService.AccessExpMinutes() * 60
	refreshMaxAge := h.jwtService.RefreshExpDays() * 24 * 60 * 60
	utils.SetAuthCookies(c, h.cookieConfig, tokens.AccessToken, tokens.RefreshToken, accessMaxAge, refreshMaxAge)

	utils.SuccessResponse(c, http.StatusOK, "token refreshed successfully", nil)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	utils.ClearAuthCookies(c, h.cookieConfig)
	utils.SuccessResponse(c, http.StatusOK, "logout successful", nil)
}

// ensureSessionID reuses the authenticated session id when present, otherwise
// mints a fresh one for the session being established.
func (h *AuthHandler) ensureSessionID(c *gin.Context) string {
	if v, ok := c.Get(constants.ContextKeySessionID); ok {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	sessionID, err := id.GenerateWithPrefix(id.PrefixSession, 16)
	if err != nil {
		// crypto/rand failing is effectively unreachable
		h.logger.Errorw("failed to generate session id", "error", err)
		return ""
	}
	return sessionID
}

func sessionAccountFromContext(c *gin.Context) uint {
	if v, ok := c.Get(constants.ContextKeyAccountID); ok {
		if accountID, ok := v.(uint); ok {
			return accountID
		}
	}
	return 0
}

func (h *AuthHandler) parkMarketingMeta(c *gin.Context) {
	meta := map[string]string{}
	for _, key := range marketingParams {
		if v := c.Query(key); v != "" {
			meta[key] = v
		}
	}
	if len(meta) == 0 {
		return
	}

	data, err := json.Marshal(meta)
	if err != nil {
		return
	}
	c.SetCookie(marketingCookieName, url.QueryEscape(string(data)), 600,
		h.cookieConfig.Path, h.cookieConfig.Domain, h.cookieConfig.Secure, true)
}

func (h *AuthHandler) collectMarketingMeta(c *gin.Context) map[string]string {
	raw, err := c.Cookie(marketingCookieName)
	if err != nil {
		return nil
	}
	decoded, err := url.QueryUnescape(raw)
	if err != nil {
		return nil
	}
	var meta map[string]string
	if err := json.Unmarshal([]byte(decoded), &meta); err != nil {
		return nil
	}
	return meta
}

func (h *AuthHandler) clearMarketingMeta(c *gin.Context) {
	c.SetCookie(marketingCookieName, "", -1,
		h.cookieConfig.Path, h.cookieConfig.Domain, h.cookieConfig.Secure, true)
}

func (h *AuthHandler) redirectWithError(c *gin.Context, message string) {
	c.Redirect(http.StatusTemporaryRedirect,
		h.frontendCallbackURL+"?error="+url.QueryEscape(message))
}

func providerErrorMessage(code string) string {
	switch code {
	case "access_denied":
		return "authorization was denied at the provider"
	case "temporarily_unavailable":
		return "the provider is temporarily unavailable, please try again"
	default:
		return "the provider rejected the authorization request"
	}
}

func handshakeErrorMessage(err error) string {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "invalid or expired state"):
		return "login session expired, please try again"
	case strings.Contains(msg, "exchange"):
		return "could not complete the provider handshake"
	case strings.Contains(msg, "user info"):
		return "could not retrieve your profile from the provider"
	default:
		return "authentication failed"
	}
}
