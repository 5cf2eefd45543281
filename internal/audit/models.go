package audit

import "time"

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Timestamp time.Time
	Subject   string
	Action    Action
	Outcome   string
	Detail    string
}

// Action names an auditable operation in the demo workflow.
type Action string

const (
	ActionLogin                 Action = "login"
	ActionLogout                Action = "logout"
	ActionCredentialIssued      Action = "credential_issued"
	ActionVerificationCompleted Action = "verification_completed"
	ActionScenarioRun           Action = "scenario_run"
)
