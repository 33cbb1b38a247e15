package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/promptvault-io/promptvault-engine/pkg/apperrors"
	"github.com/promptvault-io/promptvault-engine/pkg/models"
	"github.com/promptvault-io/promptvault-engine/pkg/repositories"
	"github.com/promptvault-io/promptvault-engine/pkg/screening"
)

// ============================================================================
// Mock Implementations for Service Tests
// ============================================================================

type mockPromptRepo struct {
	prompts map[uuid.UUID]*models.Prompt

	// Archives inserted through Create/Update, in call order.
	archives []*models.PromptVersion

	// Last filter passed to List.
	lastFilter repositories.PromptFilter

	// Vote state keyed by (promptID, userID).
	votes map[[2]uuid.UUID]int

	// Bookmark state keyed by (promptID, userID).
	bookmarks map[[2]uuid.UUID]bool

	userCategories []string

	createErr      error
	getErr         error
	listErr        error
	updateErr      error
	castVoteErr    error
	screeningCalls int
}

func newMockPromptRepo() *mockPromptRepo {
	return &mockPromptRepo{
		prompts:   make(map[uuid.UUID]*models.Prompt),
		votes:     make(map[[2]uuid.UUID]int),
		bookmarks: make(map[[2]uuid.UUID]bool),
	}
}

func (m *mockPromptRepo) add(p *models.Prompt) *models.Prompt {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	m.prompts[p.ID] = p
	return p
}

func (m *mockPromptRepo) Create(ctx context.Context, prompt *models.Prompt, archive *models.PromptVersion) error {
	if m.createErr != nil {
		return m.createErr
	}
	prompt.ID = uuid.New()
	if archive != nil {
		archive.ID = uuid.New()
		archive.PromptID = prompt.ID
		m.archives = append(m.archives, archive)
	}
	m.prompts[prompt.ID] = prompt
	return nil
}

func (m *mockPromptRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Prompt, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	p, ok := m.prompts[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	// Return a copy so service-side mutation does not leak into the store.
	cp := *p
	return &cp, nil
}

func (m *mockPromptRepo) List(ctx context.Context, filter repositories.PromptFilter) ([]*models.Prompt, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	m.lastFilter = filter
	var result []*models.Prompt
	for _, p := range m.prompts {
		if filter.OnlyApproved && p.Status != models.StatusApproved {
			continue
		}
		if filter.OwnerID != nil && p.UserID != *filter.OwnerID {
			continue
		}
		if filter.Status != "" && p.Status != filter.Status {
			continue
		}
		result = append(result, p)
	}
	return result, nil
}

func (m *mockPromptRepo) Update(ctx context.Context, prompt *models.Prompt, archive *models.PromptVersion) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	if _, ok := m.prompts[prompt.ID]; !ok {
		return apperrors.ErrNotFound
	}
	if archive != nil {
		archive.ID = uuid.New()
		m.archives = append(m.archives, archive)
	}
	cp := *prompt
	m.prompts[prompt.ID] = &cp
	return nil
}

func (m *mockPromptRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*models.Prompt, error) {
	p, ok := m.prompts[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	p.Status = status
	cp := *p
	return &cp, nil
}

func (m *mockPromptRepo) SetScreeningResult(ctx context.Context, id uuid.UUID, flagged bool, flags []string) error {
	m.screeningCalls++
	p, ok := m.prompts[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	p.ScreenFlagged = flagged
	p.ScreenFlags = flags
	return nil
}

// CastVote mirrors the real repository's toggle-and-recount semantics on
// the in-memory vote map.
func (m *mockPromptRepo) CastVote(ctx context.Context, promptID, userID uuid.UUID, value int) (*models.Prompt, error) {
	if m.castVoteErr != nil {
		return nil, m.castVoteErr
	}
	p, ok := m.prompts[promptID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}

	key := [2]uuid.UUID{promptID, userID}
	existing, voted := m.votes[key]
	switch {
	case !voted:
		m.votes[key] = value
	case existing == value:
		delete(m.votes, key)
	default:
		m.votes[key] = value
	}

	likes, dislikes := 0, 0
	for k, v := range m.votes {
		if k[0] != promptID {
			continue
		}
		if v == models.VoteUp {
			likes++
		} else {
			dislikes++
		}
	}
	p.LikeCount = likes
	p.DislikeCount = dislikes
	p.Vote = likes - dislikes

	cp := *p
	return &cp, nil
}

func (m *mockPromptRepo) ToggleBookmark(ctx context.Context, promptID, userID uuid.UUID) (bool, error) {
	key := [2]uuid.UUID{promptID, userID}
	if m.bookmarks[key] {
		delete(m.bookmarks, key)
		return false, nil
	}
	m.bookmarks[key] = true
	return true, nil
}

func (m *mockPromptRepo) UserCategories(ctx context.Context, userID uuid.UUID) ([]string, error) {
	return m.userCategories, nil
}

var _ repositories.PromptRepository = (*mockPromptRepo)(nil)

type mockVersionRepo struct {
	versions map[uuid.UUID]*models.PromptVersion
	listErr  error
}

func newMockVersionRepo() *mockVersionRepo {
	return &mockVersionRepo{versions: make(map[uuid.UUID]*models.PromptVersion)}
}

func (m *mockVersionRepo) add(v *models.PromptVersion) *models.PromptVersion {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	m.versions[v.ID] = v
	return v
}

func (m *mockVersionRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.PromptVersion, error) {
	v, ok := m.versions[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return v, nil
}

func (m *mockVersionRepo) ListByPrompt(ctx context.Context, promptID uuid.UUID) ([]*models.PromptVersion, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var result []*models.PromptVersion
	for _, v := range m.versions {
		if v.PromptID == promptID {
			result = append(result, v)
		}
	}
	return result, nil
}

var _ repositories.VersionRepository = (*mockVersionRepo)(nil)

type mockUserRepo struct {
	users map[uuid.UUID]*models.User

	upsertErr   error
	setStaffErr error
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[uuid.UUID]*models.User)}
}

func (m *mockUserRepo) Upsert(ctx context.Context, user *models.User) error {
	if m.upsertErr != nil {
		return m.upsertErr
	}
	if existing, ok := m.users[user.ID]; ok {
		// Staff flag belongs to the database on conflict.
		user.IsStaff = existing.IsStaff
	}
	cp := *user
	m.users[user.ID] = &cp
	return nil
}

func (m *mockUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *mockUserRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	for _, u := range m.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (m *mockUserRepo) SetStaff(ctx context.Context, id uuid.UUID, staff bool) error {
	if m.setStaffErr != nil {
		return m.setStaffErr
	}
	u, ok := m.users[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	u.IsStaff = staff
	return nil
}

var _ repositories.UserRepository = (*mockUserRepo)(nil)

type mockScreener struct {
	result    screening.Result
	screenErr error
	calls     int
	lastText  string
}

func (m *mockScreener) Screen(ctx context.Context, text string) (*screening.Result, error) {
	m.calls++
	m.lastText = text
	if m.screenErr != nil {
		return nil, m.screenErr
	}
	r := m.result
	return &r, nil
}

var _ screening.Screener = (*mockScreener)(nil)

// ============================================================================
// Fixtures
// ============================================================================

func testUser(staff bool) *models.User {
	return &models.User{
		ID:       uuid.New(),
		Username: "tester",
		Email:    "tester@example.com",
		IsStaff:  staff,
	}
}

func testPrompt(ownerID uuid.UUID, status string) *models.Prompt {
	return &models.Prompt{
		ID:         uuid.New(),
		UserID:     ownerID,
		Title:      "Summarize meeting notes",
		PromptText: "Summarize the following notes into action items.",
		Category:   "productivity",
		Status:     status,
	}
}
