package httptransport

import (
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	dErrors "github.com/mohamedwael201193/air-gate-os/pkg/domain-errors"
	"github.com/mohamedwael201193/air-gate-os/pkg/httputil"
	"github.com/mohamedwael201193/air-gate-os/pkg/secrets"
)

const devTokenTTL = 15 * time.Minute

var validScopes = map[string]bool{
	"login":  true,
	"issue":  true,
	"verify": true,
}

// DevTokenHandler is a local stand-in for the hosted partner-token backend.
// It mints short-lived, scope-limited JWTs so offline demos have something to
// point AIR_PARTNER_TOKEN_URL at. Never mounted in production builds.
type DevTokenHandler struct {
	signingKey []byte
	secretHash string
	partnerID  string
}

// NewDevTokenHandler creates the dev token endpoint. secretHash is an
// optional bcrypt hash; when set, callers must present the matching secret in
// X-Partner-Secret.
func NewDevTokenHandler(signingKey, secretHash, partnerID string) *DevTokenHandler {
	return &DevTokenHandler{
		signingKey: []byte(signingKey),
		secretHash: secretHash,
		partnerID:  partnerID,
	}
}

// handleIssueToken answers the partner-token contract: POST ?scope=<scope>,
// bearer token returned as plain text.
func (h *DevTokenHandler) handleIssueToken(w http.ResponseWriter, r *http.Request) {
	scope := r.URL.Query().Get("scope")
	if !validScopes[scope] {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "scope must be one of login, issue, verify"))
		return
	}

	if h.secretHash != "" {
		if err := secrets.Verify(r.Header.Get("X-Partner-Secret"), h.secretHash); err != nil {
			httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "invalid partner secret"))
			return
		}
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"iss":   "airgate-dev",
		"sub":   h.partnerID,
		"scope": scope,
		"iat":   now.Unix(),
		"exp":   now.Add(devTokenTTL).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(h.signingKey)
	if err != nil {
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "could not sign token"))
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(token))
}
