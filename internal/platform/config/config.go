package config

import (
	"os"
	"time"
)

// BuildEnv selects which AIR environment the service talks to.
type BuildEnv string

const (
	BuildEnvSandbox    BuildEnv = "sandbox"
	BuildEnvProduction BuildEnv = "production"
	// BuildEnvMock selects the in-process mock AIR capability. It is only
	// ever chosen deliberately through configuration, never as a fallback.
	BuildEnvMock BuildEnv = "mock"
)

// Server captures process level configuration for the demo gateway.
type Server struct {
	Addr     string
	BuildEnv BuildEnv

	// AIR service boundary.
	PartnerID         string
	PartnerTokenURL   string
	AirAPIURL         string
	IssuerDIDOverride string
	RequestTimeout    time.Duration

	// Program registry inputs, kept as raw JSON and parsed at startup.
	IssuerProgramIDs   string
	VerifierProgramIDs string

	// Verification callback and result display.
	RedirectURL     string
	ExplorerBaseURL string

	// Local persisted state. Empty means in-memory only.
	StorePath string

	// Dev partner-token endpoint (sandbox/mock only).
	DevTokenSigningKey   string
	DevPartnerSecretHash string
}

var DefaultRequestTimeout = 30 * time.Second

// FromEnv builds a Server config from environment variables so main stays lean.
// Program-id maps are carried as raw JSON here; the registry validates them.
func FromEnv() Server {
	addr := os.Getenv("AIRGATE_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	buildEnv := BuildEnv(os.Getenv("AIR_BUILD_ENV"))
	switch buildEnv {
	case BuildEnvSandbox, BuildEnvProduction, BuildEnvMock:
	default:
		buildEnv = BuildEnvSandbox
	}

	timeout := DefaultRequestTimeout
	if raw := os.Getenv("AIRGATE_REQUEST_TIMEOUT"); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil {
			timeout = d
		}
	}

	return Server{
		Addr:                 addr,
		BuildEnv:             buildEnv,
		PartnerID:            os.Getenv("AIR_PARTNER_ID"),
		PartnerTokenURL:      os.Getenv("AIR_PARTNER_TOKEN_URL"),
		AirAPIURL:            os.Getenv("AIR_API_URL"),
		IssuerDIDOverride:    os.Getenv("AIR_ISSUER_DID_OVERRIDE"),
		RequestTimeout:       timeout,
		IssuerProgramIDs:     os.Getenv("AIRGATE_ISSUER_PROGRAM_IDS"),
		VerifierProgramIDs:   os.Getenv("AIRGATE_VERIFIER_PROGRAM_IDS"),
		RedirectURL:          os.Getenv("AIRGATE_REDIRECT_URL"),
		ExplorerBaseURL:      os.Getenv("AIRGATE_EXPLORER_BASE_URL"),
		StorePath:            os.Getenv("AIRGATE_STORE_PATH"),
		DevTokenSigningKey:   os.Getenv("AIRGATE_DEV_TOKEN_SIGNING_KEY"),
		DevPartnerSecretHash: os.Getenv("AIRGATE_DEV_PARTNER_SECRET_HASH"),
	}
}

// DevTokenEnabled reports whether the local partner-token endpoint may be
// mounted. Production builds never expose it.
func (s Server) DevTokenEnabled() bool {
	return s.BuildEnv != BuildEnvProduction && s.DevTokenSigningKey != ""
}
