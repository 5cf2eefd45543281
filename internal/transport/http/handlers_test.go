package httptransport

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mohamedwael201193/air-gate-os/contracts/air"
	"github.com/mohamedwael201193/air-gate-os/internal/airkit"
	"github.com/mohamedwael201193/air-gate-os/internal/identity"
	"github.com/mohamedwael201193/air-gate-os/internal/ledger"
	"github.com/mohamedwael201193/air-gate-os/internal/platform/health"
	"github.com/mohamedwael201193/air-gate-os/internal/scenario"
	dErrors "github.com/mohamedwael201193/air-gate-os/pkg/domain-errors"
	"github.com/mohamedwael201193/air-gate-os/pkg/secrets"
)

type stubSessions struct {
	ident     *identity.Identity
	loginErr  error
	logoutErr error
}

func (s *stubSessions) Login(ctx context.Context, userAgent string) (*identity.Identity, error) {
	if s.loginErr != nil {
		return nil, s.loginErr
	}
	return s.ident, nil
}

func (s *stubSessions) Logout(ctx context.Context) error { return s.logoutErr }

func (s *stubSessions) Current(ctx context.Context) (*identity.Identity, error) {
	if s.ident == nil {
		return nil, dErrors.New(dErrors.CodeNotFound, "no active identity")
	}
	return s.ident, nil
}

type stubLedger struct {
	credentials   []ledger.CredentialRecord
	verifications []ledger.VerificationRecord
	stats         *ledger.Statistics
	issueErr      error
	verifyErr     error
}

func (s *stubLedger) IssueCredential(ctx context.Context, credType air.CredentialType, subject air.Subject) (*ledger.CredentialRecord, error) {
	if s.issueErr != nil {
		return nil, s.issueErr
	}
	return &ledger.CredentialRecord{ID: "cred-1", Type: credType, Status: ledger.CredentialStatusActive}, nil
}

func (s *stubLedger) VerifyCredential(ctx context.Context, key air.VerifierKey) (*ledger.VerificationRecord, error) {
	if s.verifyErr != nil {
		return nil, s.verifyErr
	}
	return &ledger.VerificationRecord{ID: "verify-1", Type: key, Status: ledger.VerificationSuccess}, nil
}

func (s *stubLedger) ListCredentials(ctx context.Context) ([]ledger.CredentialRecord, error) {
	return s.credentials, nil
}

func (s *stubLedger) ListVerifications(ctx context.Context) ([]ledger.VerificationRecord, error) {
	return s.verifications, nil
}

func (s *stubLedger) Statistics(ctx context.Context) (*ledger.Statistics, error) {
	return s.stats, nil
}

type stubScenarios struct {
	result *scenario.RunResult
	err    error
}

func (s *stubScenarios) Run(ctx context.Context, key scenario.Key, userAgent string, observer scenario.StepObserver) (*scenario.RunResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func newTestRouter(sessions Sessions, credentials Ledger, scenarios Scenarios, devToken *DevTokenHandler) http.Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewRouter(RouterConfig{
		Handler:  NewHandler(sessions, credentials, scenarios, logger),
		Health:   health.New("test"),
		DevToken: devToken,
		Logger:   logger,
	})
}

func doJSON(t *testing.T, router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestAuthEndpoints(t *testing.T) {
	t.Run("login returns the identity", func(t *testing.T) {
		router := newTestRouter(&stubSessions{ident: &identity.Identity{Subject: "did:air:u1", Name: "AIR User"}}, &stubLedger{}, &stubScenarios{}, nil)

		rec := doJSON(t, router, http.MethodPost, "/auth/login", "{}")
		require.Equal(t, http.StatusOK, rec.Code)

		var got identity.Identity
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, "did:air:u1", got.Subject)
	})

	t.Run("login failure maps to 401 with the error envelope", func(t *testing.T) {
		router := newTestRouter(&stubSessions{loginErr: dErrors.New(dErrors.CodeAuthentication, "air login failed")}, &stubLedger{}, &stubScenarios{}, nil)

		rec := doJSON(t, router, http.MethodPost, "/auth/login", "{}")
		require.Equal(t, http.StatusUnauthorized, rec.Code)

		var envelope map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
		assert.Equal(t, "authentication_error", envelope["error"])
		assert.Equal(t, "air login failed", envelope["error_description"])
	})

	t.Run("me without a session is 404", func(t *testing.T) {
		router := newTestRouter(&stubSessions{}, &stubLedger{}, &stubScenarios{}, nil)
		rec := doJSON(t, router, http.MethodGet, "/auth/me", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("logout answers ok", func(t *testing.T) {
		router := newTestRouter(&stubSessions{}, &stubLedger{}, &stubScenarios{}, nil)
		rec := doJSON(t, router, http.MethodPost, "/auth/logout", "{}")
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestLedgerEndpoints(t *testing.T) {
	t.Run("empty credential log reads as an empty array", func(t *testing.T) {
		router := newTestRouter(&stubSessions{}, &stubLedger{}, &stubScenarios{}, nil)
		rec := doJSON(t, router, http.MethodGet, "/credentials", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"credentials":[]}`, rec.Body.String())
	})

	t.Run("issue answers 201 with the record", func(t *testing.T) {
		router := newTestRouter(&stubSessions{}, &stubLedger{}, &stubScenarios{}, nil)
		rec := doJSON(t, router, http.MethodPost, "/credentials/issue", `{"type":"KYC_BASIC"}`)
		require.Equal(t, http.StatusCreated, rec.Code)

		var record ledger.CredentialRecord
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &record))
		assert.Equal(t, air.CredentialTypeKYCBasic, record.Type)
	})

	t.Run("malformed issue body is 400", func(t *testing.T) {
		router := newTestRouter(&stubSessions{}, &stubLedger{}, &stubScenarios{}, nil)
		rec := doJSON(t, router, http.MethodPost, "/credentials/issue", `{broken`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("issuance failure maps to 502", func(t *testing.T) {
		router := newTestRouter(&stubSessions{}, &stubLedger{
			issueErr: dErrors.New(dErrors.CodeIssuance, "failed to issue KYC_BASIC credential"),
		}, &stubScenarios{}, nil)

		rec := doJSON(t, router, http.MethodPost, "/credentials/issue", `{"type":"KYC_BASIC"}`)
		require.Equal(t, http.StatusBadGateway, rec.Code)

		var envelope map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
		assert.Equal(t, "issuance_error", envelope["error"])
	})

	t.Run("verification run answers 201", func(t *testing.T) {
		router := newTestRouter(&stubSessions{}, &stubLedger{}, &stubScenarios{}, nil)
		rec := doJSON(t, router, http.MethodPost, "/verifications/run", `{"gate":"FAN_VIP_GATE"}`)
		require.Equal(t, http.StatusCreated, rec.Code)
	})

	t.Run("stats serializes the aggregate", func(t *testing.T) {
		router := newTestRouter(&stubSessions{}, &stubLedger{
			stats: &ledger.Statistics{TotalCredentials: 2, ActiveCredentials: 2, TotalVerifications: 3, SuccessfulVerifications: 2, SuccessRate: 67},
		}, &stubScenarios{}, nil)

		rec := doJSON(t, router, http.MethodGet, "/stats", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"total_credentials":2,"active_credentials":2,"total_verifications":3,"successful_verifications":2,"success_rate":67}`, rec.Body.String())
	})
}

func TestScenarioEndpoints(t *testing.T) {
	t.Run("list exposes every scenario", func(t *testing.T) {
		router := newTestRouter(&stubSessions{}, &stubLedger{}, &stubScenarios{}, nil)
		rec := doJSON(t, router, http.MethodGet, "/scenarios", "")
		require.Equal(t, http.StatusOK, rec.Code)

		var body struct {
			Scenarios []scenario.Scenario `json:"scenarios"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Len(t, body.Scenarios, 3)
	})

	t.Run("run answers 200 even when the run ends in error", func(t *testing.T) {
		router := newTestRouter(&stubSessions{}, &stubLedger{}, &stubScenarios{
			result: &scenario.RunResult{Scenario: scenario.KeyDeFiJob, Status: scenario.StepError, ErrorCode: "verification_error"},
		}, nil)

		rec := doJSON(t, router, http.MethodPost, "/scenarios/defi_job/run", "{}")
		require.Equal(t, http.StatusOK, rec.Code)

		var result scenario.RunResult
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
		assert.Equal(t, scenario.StepError, result.Status)
	})

	t.Run("unknown scenario is 404", func(t *testing.T) {
		router := newTestRouter(&stubSessions{}, &stubLedger{}, &stubScenarios{
			err: dErrors.New(dErrors.CodeNotFound, "unknown scenario: nope"),
		}, nil)

		rec := doJSON(t, router, http.MethodPost, "/scenarios/nope/run", "{}")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestDevTokenEndpoint(t *testing.T) {
	const signingKey = "test-signing-key"

	t.Run("mints a scope-limited jwt as plain text", func(t *testing.T) {
		router := newTestRouter(&stubSessions{}, &stubLedger{}, &stubScenarios{},
			NewDevTokenHandler(signingKey, "", "partner-1"))

		rec := doJSON(t, router, http.MethodPost, "/partner-token?scope=issue", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Header().Get("Content-Type"), "text/plain")

		token, err := jwt.Parse(rec.Body.String(), func(t *jwt.Token) (any, error) {
			return []byte(signingKey), nil
		})
		require.NoError(t, err)
		claims := token.Claims.(jwt.MapClaims)
		assert.Equal(t, "issue", claims["scope"])
		assert.Equal(t, "partner-1", claims["sub"])
	})

	t.Run("invalid scope is 400", func(t *testing.T) {
		router := newTestRouter(&stubSessions{}, &stubLedger{}, &stubScenarios{},
			NewDevTokenHandler(signingKey, "", "partner-1"))
		rec := doJSON(t, router, http.MethodPost, "/partner-token?scope=admin", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("wrong partner secret is 401", func(t *testing.T) {
		hash, err := secrets.Hash("right-secret")
		require.NoError(t, err)
		router := newTestRouter(&stubSessions{}, &stubLedger{}, &stubScenarios{},
			NewDevTokenHandler(signingKey, hash, "partner-1"))

		req := httptest.NewRequest(http.MethodPost, "/partner-token?scope=login", nil)
		req.Header.Set("X-Partner-Secret", "wrong-secret")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("not mounted when disabled", func(t *testing.T) {
		router := newTestRouter(&stubSessions{}, &stubLedger{}, &stubScenarios{}, nil)
		rec := doJSON(t, router, http.MethodPost, "/partner-token?scope=login", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("serves the airkit token source contract", func(t *testing.T) {
		router := newTestRouter(&stubSessions{}, &stubLedger{}, &stubScenarios{},
			NewDevTokenHandler(signingKey, "", "partner-1"))
		srv := httptest.NewServer(router)
		defer srv.Close()

		source := airkit.NewHTTPTokenSource(srv.URL+"/partner-token", nil)
		token, err := source.PartnerToken(context.Background(), airkit.ScopeVerify)
		require.NoError(t, err)
		assert.NotEmpty(t, token)
	})
}
