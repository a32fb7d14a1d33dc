package milesto_test

import (
	"context"
	"io"
	"log/slog"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/abhi19833/milesto/internal/milesto/domain"
	httpapi "github.com/abhi19833/milesto/internal/milesto/http"
	"github.com/abhi19833/milesto/internal/milesto/service"
	"github.com/abhi19833/milesto/internal/milesto/store/drivers/sqlite"
	"github.com/abhi19833/milesto/pkg/cryptox"
	"github.com/abhi19833/milesto/pkg/jwtx"
	"github.com/abhi19833/milesto/pkg/milestosdk"
	"github.com/stretchr/testify/require"
)

/*
 * End-to-end tests run a full Milesto server in process against an in-memory
 * database and drive it through the milestosdk client, the same way an
 * external consumer would.
 */

const testPassword = "correct-horse"

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "milesto-e2e-*")
	if err != nil {
		panic(err)
	}
	cryptox.SetPepperPath(filepath.Join(dir, "pepper"))

	code := m.Run()

	_ = os.RemoveAll(dir)
	os.Exit(code)
}

// capturingMailer records outgoing mail so tests can follow invite and reset
// links the way a recipient would.
type capturingMailer struct {
	mu          sync.Mutex
	invitations []capturedInvitation
	resets      []string // reset URLs
}

type capturedInvitation struct {
	email     string
	actionURL string
}

func (m *capturingMailer) SendInvitation(_ context.Context, inv domain.Invitation, _ bool, actionURL string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.invitations = append(m.invitations, capturedInvitation{email: inv.Email, actionURL: actionURL})
	return nil
}

func (m *capturingMailer) SendPasswordReset(_ context.Context, _, _, resetURL string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resets = append(m.resets, resetURL)
	return nil
}

func (m *capturingMailer) lastInvitation(t *testing.T) capturedInvitation {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	require.NotEmpty(t, m.invitations)
	return m.invitations[len(m.invitations)-1]
}

type nullUploader struct{}

func (nullUploader) Upload(_ context.Context, fileName string, contents io.Reader) (service.UploadResult, error) {
	n, err := io.Copy(io.Discard, contents)
	if err != nil {
		return service.UploadResult{}, err
	}
	return service.UploadResult{URL: "https://blobs.test/" + fileName, Size: n}, nil
}

func (nullUploader) Delete(context.Context, string) error { return nil }

type staticGenerator struct {
	insights []domain.Insight
}

func (g staticGenerator) GenerateInsights(context.Context, domain.DashboardStats, []domain.Project) ([]domain.Insight, error) {
	return g.insights, nil
}

// startServer wires the full stack onto an httptest server and returns the
// mailer so tests can read captured email.
func startServer(t *testing.T) (*httptest.Server, *capturingMailer) {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	signer, err := jwtx.NewHS256("e2e-signing-secret", "milesto")
	require.NoError(t, err)

	mailer := &capturingMailer{}
	logger := slog.New(slog.DiscardHandler)

	router := httpapi.NewRouter(signer, "test", st, logger)
	router.AuthService = &service.AuthService{
		Store: st, Signer: signer, Mailer: mailer, FrontendURL: "https://milesto.test",
	}
	router.ProjectService = &service.ProjectService{Store: st}
	router.InviteService = &service.InviteService{
		Store: st, Mailer: mailer, FrontendURL: "https://milesto.test",
	}
	router.TaskService = &service.TaskService{Store: st}
	router.DocumentService = &service.DocumentService{Store: st, Uploader: nullUploader{}}
	router.TeamService = &service.TeamService{Store: st}
	router.DashboardService = &service.DashboardService{Store: st, Generator: staticGenerator{}}
	router.ApplyRoutes()

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv, mailer
}

// registerUser signs up a fresh account and returns its authenticated client.
func registerUser(t *testing.T, baseURL, name, email string) (*milestosdk.Client, milestosdk.AuthResponse) {
	t.Helper()

	client := milestosdk.NewClient(baseURL)
	res, err := client.Register(context.Background(), milestosdk.RegisterRequest{
		Name:     name,
		Email:    email,
		Password: testPassword,
	})
	require.NoError(t, err)
	return client, res
}
