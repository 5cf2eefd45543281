// Package main provides a CLI tool for minting dev partner tokens for the
// AIRGate demo. These tokens use a dev signing key and will NOT work against
// the hosted AIR service.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const defaultTokenTTL = 15 * time.Minute

type tokenOutput struct {
	Token     string         `json:"token"`
	Scope     string         `json:"scope"`
	ExpiresIn string         `json:"expires_in"`
	Claims    map[string]any `json:"claims"`
}

func main() {
	scope := flag.String("scope", "login", "Token scope: login, issue, or verify")
	partnerID := flag.String("partner-id", "demo-partner", "Partner ID placed in the sub claim")
	signingKey := flag.String("signing-key", "", "HS256 signing key (defaults to AIRGATE_DEV_TOKEN_SIGNING_KEY)")
	ttl := flag.Duration("ttl", defaultTokenTTL, "Token time-to-live")
	asJSON := flag.Bool("json", false, "Output as JSON")
	flag.Parse()

	switch *scope {
	case "login", "issue", "verify":
	default:
		fmt.Fprintf(os.Stderr, "invalid scope %q: must be login, issue, or verify\n", *scope)
		os.Exit(1)
	}

	key := *signingKey
	if key == "" {
		key = os.Getenv("AIRGATE_DEV_TOKEN_SIGNING_KEY")
	}
	if key == "" {
		fmt.Fprintln(os.Stderr, "no signing key: pass -signing-key or set AIRGATE_DEV_TOKEN_SIGNING_KEY")
		os.Exit(1)
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"iss":   "airgate-dev",
		"sub":   *partnerID,
		"scope": *scope,
		"iat":   now.Unix(),
		"exp":   now.Add(*ttl).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(key))
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not sign token: %v\n", err)
		os.Exit(1)
	}

	if *asJSON {
		out := tokenOutput{
			Token:     token,
			Scope:     *scope,
			ExpiresIn: ttl.String(),
			Claims:    claims,
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(out)
		return
	}

	fmt.Println(token)
}
