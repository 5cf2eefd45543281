package scenario

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/mohamedwael201193/air-gate-os/contracts/air"
	"github.com/mohamedwael201193/air-gate-os/internal/airkit"
	"github.com/mohamedwael201193/air-gate-os/internal/airkit/mocks"
	"github.com/mohamedwael201193/air-gate-os/internal/identity"
	"github.com/mohamedwael201193/air-gate-os/internal/ledger"
	"github.com/mohamedwael201193/air-gate-os/internal/registry"
	"github.com/mohamedwael201193/air-gate-os/internal/storage"
	pkgerrors "github.com/mohamedwael201193/air-gate-os/pkg/domain-errors"
)

const (
	issuerMap   = `{"KYC_BASIC":"iss-kyc","WORK_HISTORY":"iss-work","FAN_BADGE":"iss-fan"}`
	verifierMap = `{"DEFI_JOB_GATE_KYC":"ver-kyc","DEFI_JOB_GATE_WORK":"ver-work","FAN_VIP_GATE":"ver-fan","TRADER_TIER_GATE":"ver-trader"}`
)

type stubProvider struct {
	svc airkit.Service
}

func (p stubProvider) Service(ctx context.Context) (airkit.Service, error) {
	return p.svc, nil
}

// ScenarioServiceSuite wires real identity and ledger services over in-memory
// storage so a run exercises the whole workflow; only the AIR boundary is
// mocked.
type ScenarioServiceSuite struct {
	suite.Suite
	ctrl      *gomock.Controller
	mockAir   *mocks.MockService
	kv        *storage.Memory
	ledgerSvc *ledger.Service
	service   *Service
}

func TestScenarioServiceSuite(t *testing.T) {
	suite.Run(t, new(ScenarioServiceSuite))
}

func (s *ScenarioServiceSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.mockAir = mocks.NewMockService(s.ctrl)
	s.kv = storage.NewMemory()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	provider := stubProvider{svc: s.mockAir}

	identitySvc := identity.NewService(provider, identity.NewStore(s.kv, logger), identity.WithLogger(logger))

	reg, err := registry.New(issuerMap, verifierMap)
	s.Require().NoError(err)
	s.ledgerSvc = ledger.NewService(provider, reg, ledger.NewStore(s.kv, logger), identitySvc,
		ledger.WithSubjectHost("demo.airgate.dev"))

	s.service = NewService(identitySvc, s.ledgerSvc, WithLogger(logger))
}

func (s *ScenarioServiceSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *ScenarioServiceSuite) TestRunDeFiJobWithExistingKYC() {
	ctx := context.Background()

	// Active session and an already-issued KYC credential.
	s.mockAir.EXPECT().Login(ctx).Return(&airkit.LoginResult{ID: "did:air:u1"}, nil)
	s.mockAir.EXPECT().IssueCredential(ctx, gomock.Any()).
		Return(&airkit.IssueResult{ID: "cred-kyc"}, nil)

	sessions := s.service.sessions
	_, err := sessions.Login(ctx, "")
	s.Require().NoError(err)
	_, err = s.ledgerSvc.IssueCredential(ctx, air.CredentialTypeKYCBasic, nil)
	s.Require().NoError(err)

	// The run must issue exactly one new credential (WORK_HISTORY) and hit
	// both gates in declared order.
	gomock.InOrder(
		s.mockAir.EXPECT().
			IssueCredential(ctx, gomock.Any()).
			DoAndReturn(func(_ context.Context, p airkit.IssueParams) (*airkit.IssueResult, error) {
				s.Equal(air.ProgramID("iss-work"), p.CredentialID)
				s.Equal("Demo Ltd", p.CredentialSubject["employer"])
				s.Equal(3, p.CredentialSubject["yearsExperience"])
				return &airkit.IssueResult{ID: "cred-work"}, nil
			}),
		s.mockAir.EXPECT().
			VerifyCredential(ctx, gomock.Any()).
			DoAndReturn(func(_ context.Context, p airkit.VerifyParams) (*airkit.VerifyResult, error) {
				s.Equal(air.ProgramID("ver-kyc"), p.ProgramID)
				return &airkit.VerifyResult{Status: "verified", TxHash: "0x1"}, nil
			}),
		s.mockAir.EXPECT().
			VerifyCredential(ctx, gomock.Any()).
			DoAndReturn(func(_ context.Context, p airkit.VerifyParams) (*airkit.VerifyResult, error) {
				s.Equal(air.ProgramID("ver-work"), p.ProgramID)
				return &airkit.VerifyResult{Status: "verified", TxHash: "0x2"}, nil
			}),
	)

	var steps []Step
	result, err := s.service.Run(ctx, KeyDeFiJob, "", func(step Step) { steps = append(steps, step) })
	s.Require().NoError(err)

	s.Equal(StepSuccess, result.Status)
	s.Len(result.Issued, 1, "held KYC must not be re-issued")
	s.Equal(air.CredentialTypeWorkHistory, result.Issued[0].Type)
	s.Equal([]GateResult{
		{Gate: air.VerifierDeFiJobGateKYC, Status: ledger.VerificationSuccess, TxHash: "0x1"},
		{Gate: air.VerifierDeFiJobGateWork, Status: ledger.VerificationSuccess, TxHash: "0x2"},
	}, result.Gates)
	s.Equal([]Step{StepAuthenticating, StepIssuing, StepVerifying, StepSuccess}, steps)
}

func (s *ScenarioServiceSuite) TestRunSecondGateFailureKeepsFirstCommitted() {
	ctx := context.Background()

	s.mockAir.EXPECT().Login(ctx).Return(&airkit.LoginResult{ID: "did:air:u1"}, nil)
	gomock.InOrder(
		s.mockAir.EXPECT().IssueCredential(ctx, gomock.Any()).
			Return(&airkit.IssueResult{ID: "cred-kyc"}, nil),
		s.mockAir.EXPECT().IssueCredential(ctx, gomock.Any()).
			Return(&airkit.IssueResult{ID: "cred-work"}, nil),
		s.mockAir.EXPECT().VerifyCredential(ctx, gomock.Any()).
			Return(&airkit.VerifyResult{Status: "verified", TxHash: "0x1"}, nil),
		s.mockAir.EXPECT().VerifyCredential(ctx, gomock.Any()).
			Return(nil, errors.New("gateway timeout")),
	)

	result, err := s.service.Run(ctx, KeyDeFiJob, "", nil)
	s.Require().NoError(err)

	s.Equal(StepError, result.Status)
	s.Equal(string(pkgerrors.CodeVerification), result.ErrorCode)
	s.Len(result.Gates, 1, "only the completed gate appears in the result")

	// The first verification and both credentials stay committed.
	verifications, err := s.ledgerSvc.ListVerifications(ctx)
	s.Require().NoError(err)
	s.Len(verifications, 1)
	s.Equal(ledger.VerificationSuccess, verifications[0].Status)

	credentials, err := s.ledgerSvc.ListCredentials(ctx)
	s.Require().NoError(err)
	s.Len(credentials, 2)
}

func (s *ScenarioServiceSuite) TestRunLogsInWhenNoSession() {
	ctx := context.Background()

	s.mockAir.EXPECT().Login(ctx).Return(&airkit.LoginResult{ID: "did:air:u2"}, nil)
	s.mockAir.EXPECT().IssueCredential(ctx, gomock.Any()).
		Return(&airkit.IssueResult{ID: "cred-fan"}, nil)
	s.mockAir.EXPECT().VerifyCredential(ctx, gomock.Any()).
		Return(&airkit.VerifyResult{Status: "verified", TxHash: "0x9"}, nil)

	result, err := s.service.Run(ctx, KeyFanVIP, "", nil)
	s.Require().NoError(err)
	s.Equal(StepSuccess, result.Status)
}

func (s *ScenarioServiceSuite) TestRunLoginFailureStopsBeforeIssuing() {
	ctx := context.Background()

	s.mockAir.EXPECT().Login(ctx).Return(nil, errors.New("widget closed"))

	var steps []Step
	result, err := s.service.Run(ctx, KeyTraderTier, "", func(step Step) { steps = append(steps, step) })
	s.Require().NoError(err)

	s.Equal(StepError, result.Status)
	s.Equal(string(pkgerrors.CodeAuthentication), result.ErrorCode)
	s.Empty(result.Issued)
	s.Empty(result.Gates)
	s.Equal([]Step{StepAuthenticating, StepError}, steps)
}

func (s *ScenarioServiceSuite) TestRunNonCompliantGateEndsInError() {
	ctx := context.Background()

	s.mockAir.EXPECT().Login(ctx).Return(&airkit.LoginResult{ID: "did:air:u3"}, nil)
	s.mockAir.EXPECT().IssueCredential(ctx, gomock.Any()).
		Return(&airkit.IssueResult{ID: "cred-kyc"}, nil)
	s.mockAir.EXPECT().VerifyCredential(ctx, gomock.Any()).
		Return(&airkit.VerifyResult{Status: "not_verified"}, nil)

	result, err := s.service.Run(ctx, KeyTraderTier, "", nil)
	s.Require().NoError(err)

	s.Equal(StepError, result.Status)
	s.Len(result.Gates, 1)
	s.Equal(ledger.VerificationFailed, result.Gates[0].Status)

	// The non-compliant run is still recorded in the ledger.
	verifications, err := s.ledgerSvc.ListVerifications(ctx)
	s.Require().NoError(err)
	s.Len(verifications, 1)
}

func (s *ScenarioServiceSuite) TestRunUnknownScenario() {
	_, err := s.service.Run(context.Background(), "space_tourism", "", nil)
	s.Require().Error(err)
	s.True(pkgerrors.HasCode(err, pkgerrors.CodeNotFound))
}

func TestDefaultSubjectKeys(t *testing.T) {
	work := DefaultSubject(air.CredentialTypeWorkHistory)
	if _, ok := work["yearsExperience"]; !ok {
		t.Fatal("work history subject must carry yearsExperience")
	}
	fan := DefaultSubject(air.CredentialTypeFanBadge)
	if fan["eventName"] != "MocaFest" {
		t.Fatalf("fan badge subject eventName = %v", fan["eventName"])
	}
	kyc := DefaultSubject(air.CredentialTypeKYCBasic)
	if kyc["jurisdiction"] != "GB" {
		t.Fatalf("kyc subject jurisdiction = %v", kyc["jurisdiction"])
	}
}

func TestByKey(t *testing.T) {
	for _, sc := range All() {
		got, ok := ByKey(sc.Key)
		if !ok || got.Title != sc.Title {
			t.Fatalf("ByKey(%s) lookup failed", sc.Key)
		}
	}
	if _, ok := ByKey("unknown"); ok {
		t.Fatal("unknown key must not resolve")
	}
}
