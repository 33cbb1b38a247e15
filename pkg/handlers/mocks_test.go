package handlers

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/promptvault-io/promptvault-engine/pkg/auth"
	"github.com/promptvault-io/promptvault-engine/pkg/models"
	"github.com/promptvault-io/promptvault-engine/pkg/services"
)

// ============================================================================
// Mock Implementations for Handler Tests
// ============================================================================

// mockPromptServiceForHandler implements services.PromptService.
type mockPromptServiceForHandler struct {
	prompt     *models.Prompt
	prompts    []*models.Prompt
	versions   []*models.PromptVersion
	categories []string
	updated    bool

	err error

	lastInput *services.PromptInput
	lastOpts  services.ListOptions
	lastID    uuid.UUID
	lastVerID uuid.UUID
}

func (m *mockPromptServiceForHandler) Create(ctx context.Context, actor *models.User, input *services.PromptInput) (*models.Prompt, bool, error) {
	m.lastInput = input
	if m.err != nil {
		return nil, false, m.err
	}
	return m.prompt, m.updated, nil
}

func (m *mockPromptServiceForHandler) Get(ctx context.Context, actor *models.User, id uuid.UUID) (*models.Prompt, error) {
	m.lastID = id
	if m.err != nil {
		return nil, m.err
	}
	return m.prompt, nil
}

func (m *mockPromptServiceForHandler) List(ctx context.Context, actor *models.User, opts services.ListOptions) ([]*models.Prompt, error) {
	m.lastOpts = opts
	if m.err != nil {
		return nil, m.err
	}
	return m.prompts, nil
}

func (m *mockPromptServiceForHandler) Update(ctx context.Context, actor *models.User, id uuid.UUID, input *services.PromptInput) (*models.Prompt, error) {
	m.lastID = id
	m.lastInput = input
	if m.err != nil {
		return nil, m.err
	}
	return m.prompt, nil
}

func (m *mockPromptServiceForHandler) Approve(ctx context.Context, actor *models.User, id uuid.UUID) (*models.Prompt, error) {
	m.lastID = id
	if m.err != nil {
		return nil, m.err
	}
	return m.prompt, nil
}

func (m *mockPromptServiceForHandler) Reject(ctx context.Context, actor *models.User, id uuid.UUID) (*models.Prompt, error) {
	m.lastID = id
	if m.err != nil {
		return nil, m.err
	}
	return m.prompt, nil
}

func (m *mockPromptServiceForHandler) History(ctx context.Context, actor *models.User, id uuid.UUID) ([]*models.PromptVersion, error) {
	m.lastID = id
	if m.err != nil {
		return nil, m.err
	}
	return m.versions, nil
}

func (m *mockPromptServiceForHandler) Revert(ctx context.Context, actor *models.User, id, versionID uuid.UUID) (*models.Prompt, error) {
	m.lastID = id
	m.lastVerID = versionID
	if m.err != nil {
		return nil, m.err
	}
	return m.prompt, nil
}

func (m *mockPromptServiceForHandler) Categories(ctx context.Context, actor *models.User) ([]string, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.categories, nil
}

var _ services.PromptService = (*mockPromptServiceForHandler)(nil)

// mockVoteServiceForHandler implements services.VoteService.
type mockVoteServiceForHandler struct {
	prompt    *models.Prompt
	err       error
	lastValue int
}

func (m *mockVoteServiceForHandler) Cast(ctx context.Context, actor *models.User, promptID uuid.UUID, value int) (*models.Prompt, error) {
	m.lastValue = value
	if m.err != nil {
		return nil, m.err
	}
	return m.prompt, nil
}

var _ services.VoteService = (*mockVoteServiceForHandler)(nil)

// mockBookmarkServiceForHandler implements services.BookmarkService.
type mockBookmarkServiceForHandler struct {
	prompt *models.Prompt
	err    error
}

func (m *mockBookmarkServiceForHandler) Toggle(ctx context.Context, actor *models.User, promptID uuid.UUID) (*models.Prompt, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.prompt, nil
}

var _ services.BookmarkService = (*mockBookmarkServiceForHandler)(nil)

// mockUserServiceForHandler implements services.UserService.
type mockUserServiceForHandler struct {
	user       *models.User
	promoted   *models.User
	resolveErr error
	promoteErr error

	lastPromoted string
}

func (m *mockUserServiceForHandler) Resolve(ctx context.Context, claims *auth.Claims) (*models.User, error) {
	if m.resolveErr != nil {
		return nil, m.resolveErr
	}
	return m.user, nil
}

func (m *mockUserServiceForHandler) Promote(ctx context.Context, actor *models.User, username string) (*models.User, error) {
	m.lastPromoted = username
	if m.promoteErr != nil {
		return nil, m.promoteErr
	}
	return m.promoted, nil
}

var _ services.UserService = (*mockUserServiceForHandler)(nil)

// ============================================================================
// Fixtures
// ============================================================================

func handlerTestUser(staff bool) *models.User {
	return &models.User{
		ID:       uuid.New(),
		Username: "tester",
		IsStaff:  staff,
	}
}

func handlerTestPrompt() *models.Prompt {
	return &models.Prompt{
		ID:         uuid.New(),
		UserID:     uuid.New(),
		Title:      "Summarize meeting notes",
		PromptText: "Summarize the following notes.",
		Status:     models.StatusApproved,
	}
}

// authedRequest builds a request carrying claims for the given user, the
// way the auth middleware would before dispatch.
func authedRequest(method, target string, body io.Reader, user *models.User) *http.Request {
	req := httptest.NewRequest(method, target, body)
	claims := &auth.Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: user.ID.String()},
		Username:         user.Username,
		Staff:            user.IsStaff,
	}
	ctx := context.WithValue(req.Context(), auth.ClaimsKey, claims)
	return req.WithContext(ctx)
}
