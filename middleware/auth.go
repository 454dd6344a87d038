package middleware

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	jwtmiddleware "github.com/auth0/go-jwt-middleware/v2"
	"github.com/auth0/go-jwt-middleware/v2/jwks"
	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/restaurant-assistant-api/config"
	"github.com/sirupsen/logrus"
)

// ScopeManageRestaurant is required on every administrative route
const ScopeManageRestaurant = "manage:restaurant"

// CustomClaims contains custom data we want from the token.
type CustomClaims struct {
	Scope string `json:"scope"`
}

// Validate does nothing for this example, but we need
// it to satisfy validator.CustomClaims interface.
func (c CustomClaims) Validate(ctx context.Context) error {
	return nil
}

// HasScope checks whether our claims have a specific scope.
func (c CustomClaims) HasScope(expectedScope string) bool {
	for _, scope := range strings.Fields(c.Scope) {
		if scope == expectedScope {
			return true
		}
	}
	return false
}

// EnsureValidToken is a middleware that will check the validity of our JWT.
func EnsureValidToken(cfg *config.Config, log *logrus.Logger) (gin.HandlerFunc, error) {
	issuerURL, err := url.Parse("https://" + cfg.Auth0Domain + "/")
	if err != nil {
		return nil, fmt.Errorf("failed to parse the issuer url: %w", err)
	}

	provider := jwks.NewCachingProvider(issuerURL, 5*time.Minute)

	jwtValidator, err := validator.New(
		provider.KeyFunc,
		validator.RS256,
		issuerURL.String(),
		[]string{cfg.Auth0Audience},
		validator.WithCustomClaims(
			func() validator.CustomClaims {
				return &CustomClaims{}
			},
		),
		validator.WithAllowedClockSkew(time.Minute),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to set up the jwt validator: %w", err)
	}

	errorHandler := func(w http.ResponseWriter, r *http.Request, err error) {
		log.WithError(err).Warn("Encountered error while validating JWT")

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		if _, writeErr := w.Write([]byte(`{"success":false,"error":{"code":"INVALID_TOKEN","message":"Failed to validate JWT."}}`)); writeErr != nil {
			log.WithError(writeErr).Error("Failed to write error response")
		}
	}

	middleware := jwtmiddleware.New(
		jwtValidator.ValidateToken,
		jwtmiddleware.WithErrorHandler(errorHandler),
	)

	return func(c *gin.Context) {
		validated := false
		var handler http.HandlerFunc = func(w http.ResponseWriter, r *http.Request) {
			validated = true
			token := r.Context().Value(jwtmiddleware.ContextKey{}).(*validator.ValidatedClaims)

			c.Set("user_id", token.RegisteredClaims.Subject)
			c.Set("validated_claims", token)
			c.Request = r

			c.Next()
		}

		middleware.CheckJWT(handler).ServeHTTP(c.Writer, c.Request)

		// the error handler already wrote the 401; stop the rest of the chain
		if !validated {
			c.Abort()
		}
	}, nil
}

// GetUserID extracts the user ID from the Gin context
func GetUserID(c *gin.Context) (string, error) {
	userID, exists := c.Get("user_id")
	if !exists {
		return "", &AuthError{Code: "MISSING_USER_ID", Message: "User ID not found in context"}
	}

	userIDStr, ok := userID.(string)
	if !ok {
		return "", &AuthError{Code: "INVALID_USER_ID", Message: "User ID is not a string"}
	}

	return userIDStr, nil
}

// GetClaims extracts the validated JWT claims from the Gin context
func GetClaims(c *gin.Context) (*validator.ValidatedClaims, error) {
	claims, exists := c.Get("validated_claims")
	if !exists {
		return nil, &AuthError{Code: "MISSING_CLAIMS", Message: "Claims not found in context"}
	}

	validatedClaims, ok := claims.(*validator.ValidatedClaims)
	if !ok {
		return nil, &AuthError{Code: "INVALID_CLAIMS", Message: "Claims are not in the expected format"}
	}

	return validatedClaims, nil
}

// RequireScope is a middleware that checks if the token has a specific scope
func RequireScope(scope string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := GetClaims(c)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "MISSING_CLAIMS",
					"message": "Could not retrieve token claims",
				},
			})
			return
		}

		customClaims, ok := claims.CustomClaims.(*CustomClaims)
		if !ok || !customClaims.HasScope(scope) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "INSUFFICIENT_SCOPE",
					"message": "Insufficient permissions to access this resource",
				},
			})
			return
		}

		c.Next()
	}
}

// AuthError represents an authentication error
type AuthError struct {
	Code    string
	Message string
}

func (e *AuthError) Error() string {
	return e.Message
}
