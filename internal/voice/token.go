// Package voice issues signed capability tokens and builds call-routing
// documents for the telephony provider.
package voice

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/soyeahso/switchboard/internal/config"
	"github.com/soyeahso/switchboard/internal/domain"
)

var errNoSigningSecret = errors.New("voice API secret is not configured")

// TokenIssuer signs time-bounded capability tokens granting a named
// identity inbound and outbound voice privileges.
type TokenIssuer struct {
	accountSID string
	apiKey     string
	apiSecret  string
	appSID     string
	ttl        time.Duration
}

// NewTokenIssuer creates an issuer from the voice config.
func NewTokenIssuer(cfg config.VoiceConfig) *TokenIssuer {
	ttl := time.Duration(cfg.TokenTTLMinutes) * time.Minute
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &TokenIssuer{
		accountSID: cfg.AccountSID,
		apiKey:     cfg.APIKey,
		apiSecret:  cfg.APISecret,
		appSID:     cfg.AppSID,
		ttl:        ttl,
	}
}

// Issue signs a capability token for the given identity. The token uses
// the provider's access-token format: HS256, issuer = API key, subject =
// account SID, with a grants claim naming the identity and its voice
// privileges.
func (i *TokenIssuer) Issue(identity string) (string, error) {
	if identity == "" {
		return "", &domain.ValidationError{Field: "identity", Message: "identity is required"}
	}
	if i.apiSecret == "" {
		return "", &domain.TokenIssuanceError{Err: errNoSigningSecret}
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"jti": fmt.Sprintf("%s-%d", i.apiKey, now.Unix()),
		"iss": i.apiKey,
		"sub": i.accountSID,
		"iat": now.Unix(),
		"exp": now.Add(i.ttl).Unix(),
		"grants": map[string]any{
			"identity": identity,
			"voice": map[string]any{
				"outgoing": map[string]any{
					"application_sid": i.appSID,
				},
				"incoming": map[string]any{
					"allow": true,
				},
			},
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	token.Header["cty"] = "twilio-fat;v=1"

	signed, err := token.SignedString([]byte(i.apiSecret))
	if err != nil {
		return "", &domain.TokenIssuanceError{Err: err}
	}
	return signed, nil
}
