package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	apiauth "github.com/mediacloud/sous-chef-kitchen/pkg/api/types/auth"
	apierr "github.com/mediacloud/sous-chef-kitchen/pkg/api/types/errors"
)

// EmailHeader carries the requester's Media Cloud email alongside their
// API key.
const EmailHeader = "X-Mediacloud-Email"

const identityKey = "kitchen.identity"

// Identity is the resolved caller of an authenticated request.
type Identity struct {
	Email  string
	Status apiauth.Status
}

func (i Identity) IsAdmin() bool {
	return i.Status.MediaCloudStaff
}

// CredentialValidator resolves an email + Media Cloud API key pair.
type CredentialValidator interface {
	ValidateAuth(ctx context.Context, email, apiKey string) apiauth.Status
}

// SessionVerifier resolves a previously issued session token.
type SessionVerifier interface {
	Verify(token string) (string, apiauth.Status, error)
}

// AuthMiddleware resolves the caller's identity.
//
// The bearer token is tried as a session token first, then as a Media
// Cloud API key together with the X-Mediacloud-Email header. The
// resolved status is stored even when it grants nothing, so the
// validate endpoint can report how far the credentials reach; gate
// everything else behind RequireAuthorized.
func AuthMiddleware(validator CredentialValidator, sessions SessionVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := bearerToken(c)
			if !ok {
				return apierr.Unauthorized("missing bearer token", nil)
			}

			if sessions != nil {
				if email, status, err := sessions.Verify(token); err == nil {
					c.Set(identityKey, Identity{Email: email, Status: status})
					return next(c)
				}
			}

			email := c.Request().Header.Get(EmailHeader)
			status := validator.ValidateAuth(c.Request().Context(), email, token)
			c.Set(identityKey, Identity{Email: email, Status: status})
			return next(c)
		}
	}
}

// RequireAuthorized rejects callers whose status does not reach the
// kitchen: unknown credentials with 401, recognized but unauthorized
// ones with 403.
func RequireAuthorized() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, ok := CurrentIdentity(c)
			if !ok {
				return apierr.Unauthorized("not authenticated", nil)
			}
			if !id.Status.Authorized() {
				if id.Status.MediaCloudAuthorized {
					return apierr.Forbidden("not authorized for the kitchen", nil)
				}
				return apierr.Unauthorized("credentials not recognized", nil)
			}
			return next(c)
		}
	}
}

// CurrentIdentity returns the caller set by AuthMiddleware.
func CurrentIdentity(c echo.Context) (Identity, bool) {
	id, ok := c.Get(identityKey).(Identity)
	return id, ok
}

// ValidateAuthHandler echoes back the caller's authorization status.
// Recognized but unauthorized credentials still get their (partial)
// status, with a 403.
func ValidateAuthHandler() echo.HandlerFunc {
	return func(c echo.Context) error {
		id, ok := CurrentIdentity(c)
		if !ok {
			return apierr.Unauthorized("not authenticated", nil)
		}
		code := http.StatusOK
		if !id.Status.Authorized() {
			code = http.StatusForbidden
		}
		return c.JSON(code, id.Status)
	}
}

// SessionIssuer mints session tokens for authenticated callers.
type SessionIssuer interface {
	Issue(email string, status apiauth.Status) (apiauth.Session, error)
}

// CreateSessionHandler trades validated credentials for a session token,
// sparing clients one upstream round-trip per request.
func CreateSessionHandler(issuer SessionIssuer) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, ok := CurrentIdentity(c)
		if !ok {
			return apierr.Unauthorized("not authenticated", nil)
		}
		sess, err := issuer.Issue(id.Email, id.Status)
		if err != nil {
			return apierr.InternalServerError(err)
		}
		return c.JSON(http.StatusOK, sess)
	}
}

func bearerToken(c echo.Context) (string, bool) {
	header := c.Request().Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return "", false
	}
	return strings.TrimSpace(token), true
}
