package httptransport

import (
	"net/http"

	"github.com/mohamedwael201193/air-gate-os/contracts/air"
	"github.com/mohamedwael201193/air-gate-os/internal/ledger"
	"github.com/mohamedwael201193/air-gate-os/pkg/httputil"
)

type issueRequest struct {
	Type    air.CredentialType `json:"type"`
	Subject air.Subject        `json:"subject,omitempty"`
}

type verifyRequest struct {
	Gate air.VerifierKey `json:"gate"`
}

func (h *Handler) handleListCredentials(w http.ResponseWriter, r *http.Request) {
	records, err := h.ledger.ListCredentials(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if records == nil {
		records = []ledger.CredentialRecord{}
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"credentials": records})
}

func (h *Handler) handleIssueCredential(w http.ResponseWriter, r *http.Request) {
	req, ok := httputil.DecodeJSON[issueRequest](w, r)
	if !ok {
		return
	}

	record, err := h.ledger.IssueCredential(r.Context(), req.Type, req.Subject)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, record)
}

func (h *Handler) handleListVerifications(w http.ResponseWriter, r *http.Request) {
	records, err := h.ledger.ListVerifications(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if records == nil {
		records = []ledger.VerificationRecord{}
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"verifications": records})
}

func (h *Handler) handleRunVerification(w http.ResponseWriter, r *http.Request) {
	req, ok := httputil.DecodeJSON[verifyRequest](w, r)
	if !ok {
		return
	}

	record, err := h.ledger.VerifyCredential(r.Context(), req.Gate)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, record)
}

func (h *Handler) handleStatistics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.ledger.Statistics(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, stats)
}
