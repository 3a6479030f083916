package texts

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neotexto/neotexto-backend/internal/config"
	"github.com/neotexto/neotexto-backend/internal/domain"
	"github.com/neotexto/neotexto-backend/internal/lemma"
	"github.com/neotexto/neotexto-backend/internal/lemma/naive"
)

// ---------------------------------------------------------------------------
// Manual mocks (func fields)
// ---------------------------------------------------------------------------

type mockTextRepo struct {
	mu    sync.Mutex
	texts map[uuid.UUID]*domain.PracticeText
}

func newMockTextRepo() *mockTextRepo {
	return &mockTextRepo{texts: make(map[uuid.UUID]*domain.PracticeText)}
}

func (m *mockTextRepo) Create(_ context.Context, txt *domain.PracticeText) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *txt
	m.texts[txt.ID] = &cp
	return nil
}

func (m *mockTextRepo) Complete(_ context.Context, id uuid.UUID, body, lemmas string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	txt, ok := m.texts[id]
	if !ok {
		return domain.ErrNotFound
	}
	txt.Body = body
	txt.Lemmas = lemmas
	txt.GenerationDone = true
	return nil
}

func (m *mockTextRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.PracticeText, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	txt, ok := m.texts[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *txt
	return &cp, nil
}

func (m *mockTextRepo) ListByUser(_ context.Context, userID uuid.UUID) ([]domain.PracticeText, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []domain.PracticeText{}
	for _, txt := range m.texts {
		if txt.UserID == userID {
			out = append(out, *txt)
		}
	}
	return out, nil
}

func (m *mockTextRepo) Delete(_ context.Context, id, userID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	txt, ok := m.texts[id]
	if !ok || txt.UserID != userID {
		return domain.ErrNotFound
	}
	delete(m.texts, id)
	return nil
}

type mockAccounts struct {
	mu      sync.Mutex
	balance int
	debits  int
}

func (m *mockAccounts) Get(_ context.Context, userID uuid.UUID) (*domain.CreditAccount, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return &domain.CreditAccount{UserID: userID, Balance: m.balance}, nil
}

func (m *mockAccounts) DebitIfSufficient(_ context.Context, _ uuid.UUID, amount int) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.balance < amount {
		return 0, domain.ErrInsufficientCredit
	}
	m.balance -= amount
	m.debits++
	return m.balance, nil
}

type mockVocab struct {
	words []string
}

func (m *mockVocab) RecentSourceWords(_ context.Context, _, _ uuid.UUID, limit int) ([]string, error) {
	if len(m.words) > limit {
		return m.words[:limit], nil
	}
	return m.words, nil
}

type mockLanguages struct {
	byID map[uuid.UUID]domain.Language
}

func (m *mockLanguages) GetByID(_ context.Context, id uuid.UUID) (*domain.Language, error) {
	lang, ok := m.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &lang, nil
}

type mockGenerator struct {
	mu       sync.Mutex
	prompts  []string
	response string
	err      error
}

func (m *mockGenerator) Complete(_ context.Context, prompt string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prompts = append(m.prompts, prompt)
	if m.err != nil {
		return "", m.err
	}
	return m.response, nil
}

func (m *mockGenerator) lastPrompt() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.prompts) == 0 {
		return ""
	}
	return m.prompts[len(m.prompts)-1]
}

// ---------------------------------------------------------------------------
// Fixture
// ---------------------------------------------------------------------------

type fixture struct {
	service   *Service
	texts     *mockTextRepo
	accounts  *mockAccounts
	vocab     *mockVocab
	generator *mockGenerator
	french    domain.Language
	userID    uuid.UUID
}

func newFixture(t *testing.T, balance int) *fixture {
	t.Helper()

	french := domain.Language{ID: uuid.New(), Name: "French", Code: "fr"}
	texts := newMockTextRepo()
	accounts := &mockAccounts{balance: balance}
	vocab := &mockVocab{}
	generator := &mockGenerator{response: "Il était une fois un chien."}
	languages := &mockLanguages{byID: map[uuid.UUID]domain.Language{french.ID: french}}

	service := NewService(
		slog.Default(),
		texts,
		accounts,
		vocab,
		languages,
		generator,
		lemma.NewRegistry(naive.New()),
		config.CreditsConfig{TranslationCost: 1, TextCost: 5},
		config.GeneratorConfig{VocabularyLimit: 20},
	)

	return &fixture{
		service:   service,
		texts:     texts,
		accounts:  accounts,
		vocab:     vocab,
		generator: generator,
		french:    french,
		userID:    uuid.New(),
	}
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestGenerate_ReturnsPlaceholderThenCompletes(t *testing.T) {
	t.Parallel()

	f := newFixture(t, 10)

	txt, err := f.service.Generate(context.Background(), GenerateInput{
		UserID:     f.userID,
		LanguageID: &f.french.ID,
		Subject:    "dogs",
	})
	require.NoError(t, err)

	assert.False(t, txt.GenerationDone)
	assert.Contains(t, txt.Body, "Your text about dogs is being generated")

	f.service.Wait()

	done, err := f.service.GetText(context.Background(), f.userID, txt.ID)
	require.NoError(t, err)
	assert.True(t, done.GenerationDone)
	assert.Contains(t, done.Body, "chien")
	assert.Contains(t, done.Body, lemma.Separator)
	assert.NotEmpty(t, done.Lemmas)
}

func TestGenerate_DebitsAfterSuccess(t *testing.T) {
	t.Parallel()

	f := newFixture(t, 10)

	_, err := f.service.Generate(context.Background(), GenerateInput{
		UserID:     f.userID,
		LanguageID: &f.french.ID,
		Subject:    "dogs",
	})
	require.NoError(t, err)
	f.service.Wait()

	assert.Equal(t, 1, f.accounts.debits)
	assert.Equal(t, 5, f.accounts.balance)
}

func TestGenerate_PromptIncludesVocabularyAndDefaults(t *testing.T) {
	t.Parallel()

	f := newFixture(t, 10)
	f.vocab.words = []string{"chien", "maison", "pomme"}

	_, err := f.service.Generate(context.Background(), GenerateInput{
		UserID:     f.userID,
		LanguageID: &f.french.ID,
	})
	require.NoError(t, err)
	f.service.Wait()

	prompt := f.generator.lastPrompt()
	assert.Contains(t, prompt, "Generate a text of 50 words in French")
	assert.Contains(t, prompt, "about 'anything'")
	assert.Contains(t, prompt, "for a intermediate level.")
	assert.Contains(t, prompt, "chien, maison, pomme")
}

func TestGenerate_NoLanguageDefaultsToEnglish(t *testing.T) {
	t.Parallel()

	f := newFixture(t, 10)

	_, err := f.service.Generate(context.Background(), GenerateInput{
		UserID:  f.userID,
		Subject: "space",
		Length:  80,
		Level:   "beginner",
	})
	require.NoError(t, err)
	f.service.Wait()

	prompt := f.generator.lastPrompt()
	assert.Contains(t, prompt, "Generate a text of 80 words in english")
	assert.Contains(t, prompt, "for a beginner level.")
	assert.NotContains(t, prompt, "from this list")
}

func TestGenerate_InsufficientCredit(t *testing.T) {
	t.Parallel()

	f := newFixture(t, 4)

	_, err := f.service.Generate(context.Background(), GenerateInput{
		UserID:     f.userID,
		LanguageID: &f.french.ID,
		Subject:    "dogs",
	})
	require.ErrorIs(t, err, domain.ErrInsufficientCredit)

	assert.Empty(t, f.generator.prompts)
	assert.Empty(t, f.texts.texts)
}

func TestGenerate_ProviderFailureLeavesPlaceholderAndNoDebit(t *testing.T) {
	t.Parallel()

	f := newFixture(t, 10)
	f.generator.err = errors.New("rate limited")

	txt, err := f.service.Generate(context.Background(), GenerateInput{
		UserID:     f.userID,
		LanguageID: &f.french.ID,
		Subject:    "dogs",
	})
	require.NoError(t, err)
	f.service.Wait()

	stored, err := f.service.GetText(context.Background(), f.userID, txt.ID)
	require.NoError(t, err)
	assert.False(t, stored.GenerationDone)
	assert.Equal(t, 0, f.accounts.debits)
}

func TestGenerate_SurvivesRequestCancellation(t *testing.T) {
	t.Parallel()

	f := newFixture(t, 10)

	ctx, cancel := context.WithCancel(context.Background())
	txt, err := f.service.Generate(ctx, GenerateInput{
		UserID:     f.userID,
		LanguageID: &f.french.ID,
		Subject:    "dogs",
	})
	require.NoError(t, err)

	// The triggering request goes away; generation must not.
	cancel()
	f.service.Wait()

	done, err := f.service.GetText(context.Background(), f.userID, txt.ID)
	require.NoError(t, err)
	assert.True(t, done.GenerationDone)
}

func TestImportText_CleansAndStoresCompleted(t *testing.T) {
	t.Parallel()

	f := newFixture(t, 0) // imports are free

	txt, err := f.service.ImportText(context.Background(), ImportInput{
		UserID:     f.userID,
		LanguageID: f.french.ID,
		Text:       "Le chien fi-\nnit son re-\npas.\nIl dort.",
	})
	require.NoError(t, err)

	assert.True(t, txt.GenerationDone)
	body := strings.Join(lemma.Split(txt.Body), "")
	assert.Contains(t, body, "finit")
	assert.Contains(t, body, "repas")
	assert.NotContains(t, body, "-\n")
	assert.Equal(t, 0, f.accounts.debits)
}

func TestDehyphenate(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want string
	}{
		{"fi-\nnish", "finish"},
		{"I\nam", "I am"},
		{"fi-\nnish the\nline", "finish the line"},
		{"no breaks here", "no breaks here"},
		{"trailing newline\n", "trailing newline\n"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Dehyphenate(tc.in), "input %q", tc.in)
	}
}

func TestGetText_OtherUsersTextIsNotFound(t *testing.T) {
	t.Parallel()

	f := newFixture(t, 10)

	txt, err := f.service.ImportText(context.Background(), ImportInput{
		UserID:     f.userID,
		LanguageID: f.french.ID,
		Text:       "Bonjour.",
	})
	require.NoError(t, err)

	_, err = f.service.GetText(context.Background(), uuid.New(), txt.ID)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestImportText_Validation(t *testing.T) {
	t.Parallel()

	f := newFixture(t, 10)

	_, err := f.service.ImportText(context.Background(), ImportInput{
		UserID:     f.userID,
		LanguageID: f.french.ID,
		Text:       "   ",
	})
	require.ErrorIs(t, err, domain.ErrValidation)
}
