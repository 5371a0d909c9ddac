// File: internal/mocks/mocks.go
package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/mindsetos/teamreport/api/schemas"
	"github.com/mindsetos/teamreport/internal/config"
)

// -- Config Mock --

// MockConfig mocks the config.Interface.
type MockConfig struct {
	mock.Mock
}

// --- Getters ---

func (m *MockConfig) Logger() config.LoggerConfig {
	args := m.Called()
	return args.Get(0).(config.LoggerConfig)
}

func (m *MockConfig) Database() config.DatabaseConfig {
	args := m.Called()
	return args.Get(0).(config.DatabaseConfig)
}

func (m *MockConfig) Server() config.ServerConfig {
	args := m.Called()
	return args.Get(0).(config.ServerConfig)
}

func (m *MockConfig) LLM() config.LLMConfig {
	args := m.Called()
	return args.Get(0).(config.LLMConfig)
}

func (m *MockConfig) Prompt() config.PromptConfig {
	args := m.Called()
	return args.Get(0).(config.PromptConfig)
}

func (m *MockConfig) Cache() config.CacheConfig {
	args := m.Called()
	return args.Get(0).(config.CacheConfig)
}

func (m *MockConfig) Archive() config.ArchiveConfig {
	args := m.Called()
	return args.Get(0).(config.ArchiveConfig)
}

func (m *MockConfig) Report() config.ReportConfig {
	args := m.Called()
	return args.Get(0).(config.ReportConfig)
}

// --- Setters ---

func (m *MockConfig) SetDatabaseURL(url string) {
	m.Called(url)
}

func (m *MockConfig) SetLLMProvider(p config.LLMProvider) {
	m.Called(p)
}

// -- Text Generator Mock --

// MockTextGenerator mocks the schemas.TextGenerator interface.
type MockTextGenerator struct {
	mock.Mock
}

// Generate honors cancellation before recording the call, like a real network client.
func (m *MockTextGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	default:
	}
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

// BlockingGenerator waits until its context ends or Delay passes, then returns Reply.
type BlockingGenerator struct {
	Delay time.Duration
	Reply string
}

func (b *BlockingGenerator) Generate(ctx context.Context, _ string) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case <-time.After(b.Delay):
		return b.Reply, nil
	}
}

// -- Store Mock --

// MockStore mocks the schemas.Store interface.
type MockStore struct {
	mock.Mock
}

func (m *MockStore) ListOrganizations(ctx context.Context) ([]schemas.Organization, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]schemas.Organization), args.Error(1)
}

func (m *MockStore) ListTeams(ctx context.Context, orgID string) ([]schemas.TeamSummary, error) {
	args := m.Called(ctx, orgID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]schemas.TeamSummary), args.Error(1)
}

func (m *MockStore) GetTeamAggregate(ctx context.Context, teamID string) (*schemas.TeamAggregate, error) {
	args := m.Called(ctx, teamID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*schemas.TeamAggregate), args.Error(1)
}

func (m *MockStore) SaveReport(ctx context.Context, teamID, version string, moduleIDs []string, markdown string) (int64, error) {
	args := m.Called(ctx, teamID, version, moduleIDs, markdown)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStore) GetLatestReport(ctx context.Context, teamID string) (*schemas.GeneratedReport, error) {
	args := m.Called(ctx, teamID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*schemas.GeneratedReport), args.Error(1)
}

func (m *MockStore) UpsertOrganizations(ctx context.Context, orgs []schemas.Organization) error {
	return m.Called(ctx, orgs).Error(0)
}

func (m *MockStore) UpsertTeams(ctx context.Context, teams []schemas.TeamAggregate) error {
	return m.Called(ctx, teams).Error(0)
}

var (
	_ config.Interface      = (*MockConfig)(nil)
	_ schemas.TextGenerator = (*MockTextGenerator)(nil)
	_ schemas.TextGenerator = (*BlockingGenerator)(nil)
	_ schemas.Store         = (*MockStore)(nil)
)
