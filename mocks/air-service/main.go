package main

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultPort      = "8082"
	defaultLatencyMs = "100"
)

type loginRequest struct {
	PartnerID string `json:"partnerId"`
	AuthToken string `json:"authToken"`
}

type linkedAccount struct {
	Type    string `json:"type"`
	Address string `json:"address,omitempty"`
	Email   string `json:"email,omitempty"`
}

type loginResponse struct {
	ID                     string          `json:"id"`
	Email                  string          `json:"email"`
	AbstractAccountAddress string          `json:"abstractAccountAddress"`
	LinkedAccounts         []linkedAccount `json:"linkedAccounts"`
}

type issueRequest struct {
	AuthToken         string         `json:"authToken"`
	CredentialID      string         `json:"credentialId"`
	IssuerDID         string         `json:"issuerDid"`
	CredentialSubject map[string]any `json:"credentialSubject"`
}

type issueResponse struct {
	ID                string         `json:"id"`
	CredentialID      string         `json:"credentialId"`
	CredentialSubject map[string]any `json:"credentialSubject"`
	IssuedAt          string         `json:"issuedAt"`
}

type verifyRequest struct {
	AuthToken   string `json:"authToken"`
	ProgramID   string `json:"programId"`
	RedirectURL string `json:"redirectUrl"`
}

type verifyResponse struct {
	Status string `json:"status"`
	TxHash string `json:"txHash,omitempty"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

var latencyMs = getEnvInt("LATENCY_MS", defaultLatencyMs)

func main() {
	port := getEnv("PORT", defaultPort)

	http.HandleFunc("/health", handleHealth)
	http.HandleFunc("/v1/login", handleLogin)
	http.HandleFunc("/v1/credentials/issue", handleIssue)
	http.HandleFunc("/v1/credentials/verify", handleVerify)

	log.Printf("Mock AIR service starting on port %s", port)
	log.Printf("Simulated latency: %dms", latencyMs)

	if err := http.ListenAndServe(":"+port, nil); err != nil {
		log.Fatal(err)
	}
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"status":  "healthy",
		"service": "air-service",
		"version": "1.0.0",
	})
}

// Magic inputs let e2e tests control the mock's behavior:
//   - partner id LOCKED_PARTNER   -> login is rejected
//   - credentialId containing FAIL -> issuance is rejected
//   - programId containing FAIL    -> verification completes as not_verified
func handleLogin(w http.ResponseWriter, r *http.Request) {
	time.Sleep(time.Duration(latencyMs) * time.Millisecond)

	var req loginRequest
	if !decodePost(w, r, &req) {
		return
	}
	if req.AuthToken == "" {
		sendError(w, "authToken is required", http.StatusUnauthorized)
		return
	}
	if req.PartnerID == "LOCKED_PARTNER" {
		sendError(w, "Partner account is locked", http.StatusForbidden)
		return
	}

	digest := shortHash("login|" + req.PartnerID)
	resp := loginResponse{
		ID:                     "did:air:" + digest,
		Email:                  "demo+" + digest[:6] + "@airgate.dev",
		AbstractAccountAddress: "0x" + digest,
		LinkedAccounts: []linkedAccount{
			{Type: "email", Email: "demo+" + digest[:6] + "@airgate.dev"},
			{Type: "wallet", Address: "0x" + digest},
		},
	}

	sendJSON(w, resp)
	log.Printf("Login successful: partner=%s -> %s", req.PartnerID, resp.ID)
}

func handleIssue(w http.ResponseWriter, r *http.Request) {
	time.Sleep(time.Duration(latencyMs) * time.Millisecond)

	var req issueRequest
	if !decodePost(w, r, &req) {
		return
	}
	if req.AuthToken == "" {
		sendError(w, "authToken is required", http.StatusUnauthorized)
		return
	}
	if req.CredentialID == "" {
		sendError(w, "credentialId is required", http.StatusBadRequest)
		return
	}
	if strings.Contains(strings.ToUpper(req.CredentialID), "FAIL") {
		sendError(w, "Issuer program rejected the subject", http.StatusUnprocessableEntity)
		return
	}

	subjectID, _ := req.CredentialSubject["id"].(string)
	resp := issueResponse{
		ID:                fmt.Sprintf("cred_%s", shortHash(req.CredentialID+"|"+subjectID)[:16]),
		CredentialID:      req.CredentialID,
		CredentialSubject: req.CredentialSubject,
		IssuedAt:          time.Now().UTC().Format(time.RFC3339),
	}

	sendJSON(w, resp)
	log.Printf("Credential issued: program=%s -> %s", req.CredentialID, resp.ID)
}

func handleVerify(w http.ResponseWriter, r *http.Request) {
	time.Sleep(time.Duration(latencyMs) * time.Millisecond)

	var req verifyRequest
	if !decodePost(w, r, &req) {
		return
	}
	if req.AuthToken == "" {
		sendError(w, "authToken is required", http.StatusUnauthorized)
		return
	}
	if req.ProgramID == "" {
		sendError(w, "programId is required", http.StatusBadRequest)
		return
	}

	resp := verifyResponse{Status: "verified"}
	if strings.Contains(strings.ToUpper(req.ProgramID), "FAIL") {
		resp.Status = "not_verified"
	} else {
		resp.TxHash = "0x" + shortHash("verify|"+req.ProgramID)
	}

	sendJSON(w, resp)
	log.Printf("Verification completed: program=%s -> %s", req.ProgramID, resp.Status)
}

func decodePost(w http.ResponseWriter, r *http.Request, v any) bool {
	log.Printf("Incoming request: %s %s from %s", r.Method, r.URL.Path, r.RemoteAddr)

	if r.Method != http.MethodPost {
		sendError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return false
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		sendError(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}

func sendJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(v)
}

func sendError(w http.ResponseWriter, message string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(errorResponse{
		Error:   http.StatusText(code),
		Message: message,
		Code:    code,
	})
	log.Printf("Error response: %d - %s", code, message)
}

func shortHash(input string) string {
	sum := sha256.Sum256([]byte(input))
	return hex.EncodeToString(sum[:16])
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key, defaultValue string) int {
	value := getEnv(key, defaultValue)
	intValue, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Invalid integer value for %s, using default: %s", key, defaultValue)
		intValue, _ = strconv.Atoi(defaultValue)
	}
	return intValue
}
