package httpx

import (
	"bytes"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/clearmed/clearmed-api/config"
	"github.com/clearmed/clearmed-api/internal/core"
	"github.com/clearmed/clearmed-api/internal/domain/auth"
	"github.com/clearmed/clearmed-api/internal/service"
)

const testCookieName = "clearmed_session"

type routerFixture struct {
	workflow    *core.MockWorkflowClient
	cache       *core.MockCacheRepository
	history     *core.MockScanHistoryRepository
	users       *core.MockUserRepository
	sessions    *service.MockSessionStore
	completions *core.MockCompletionClient
}

// newTestRouter builds the full router on mocked collaborators.
func newTestRouter(t *testing.T, workflowCfg config.WorkflowConfig, chatCfg config.ChatConfig) (http.Handler, *routerFixture) {
	t.Helper()
	ctrl := gomock.NewController(t)
	f := &routerFixture{
		workflow:    core.NewMockWorkflowClient(ctrl),
		cache:       core.NewMockCacheRepository(ctrl),
		history:     core.NewMockScanHistoryRepository(ctrl),
		users:       core.NewMockUserRepository(ctrl),
		sessions:    service.NewMockSessionStore(ctrl),
		completions: core.NewMockCompletionClient(ctrl),
	}

	resolver := core.NewResultResolver(core.ResultResolverOptions{
		Cache:      f.cache,
		Workflow:   f.workflow,
		WebhookTTL: 5 * time.Minute,
	})
	scans := service.NewScanService(service.ScanServiceOptions{
		Workflow: f.workflow,
		Resolver: resolver,
		History:  f.history,
		Config:   workflowCfg,
		NewID:    func() string { return "fixed-id" },
	})
	chat := service.NewChatService(service.ChatServiceOptions{
		Completions: f.completions,
		Assembler:   core.NewContextAssembler(resolver),
		Config:      chatCfg,
	})
	authSvc := service.NewAuthService(service.AuthServiceOptions{
		Users:    f.users,
		Sessions: f.sessions,
		NewID:    func() string { return "sess-1" },
	})

	router := NewRouter(RouterServices{
		Scans:             scans,
		Chat:              chat,
		Auth:              authSvc,
		SessionCookieName: testCookieName,
		ScanTimeout:       time.Minute,
		IsDev:             true,
		Logger:            testLogger(),
	})
	return router, f
}

// expectSession makes the session store answer for one signed-in user.
func (f *routerFixture) expectSession(email string) {
	f.sessions.EXPECT().
		Get(gomock.Any(), "sess-1").
		Return(auth.Session{
			ID:        "sess-1",
			Email:     email,
			Provider:  auth.ProviderPassword,
			ExpiresAt: time.Now().Add(time.Hour),
		}, nil).
		AnyTimes()
}

func withSessionCookie(r *http.Request) *http.Request {
	r.AddCookie(&http.Cookie{Name: testCookieName, Value: "sess-1"})
	return r
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// multipartUpload builds a form body with one file part.
func multipartUpload(t *testing.T, field, filename string, content []byte) (io.Reader, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}
