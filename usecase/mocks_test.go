package usecase_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"skallars-social/domain/dto"
	"skallars-social/domain/model"
	"skallars-social/usecase"
)

// Mock implementations

type MockShareQueue struct {
	mock.Mock
}

func (m *MockShareQueue) Enqueue(ctx context.Context, item *model.ShareQueueItem) (*model.ShareQueueItem, error) {
	args := m.Called(ctx, item)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ShareQueueItem), args.Error(1)
}

func (m *MockShareQueue) FetchDue(ctx context.Context, userID string, limit int) ([]*model.ShareQueueItem, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.ShareQueueItem), args.Error(1)
}

func (m *MockShareQueue) Claim(ctx context.Context, id int64, fromStatus string) (bool, error) {
	args := m.Called(ctx, id, fromStatus)
	return args.Bool(0), args.Error(1)
}

func (m *MockShareQueue) MarkResult(ctx context.Context, id int64, status string, errMsg, providerResponse *string) error {
	args := m.Called(ctx, id, status, errMsg, providerResponse)
	return args.Error(0)
}

func (m *MockShareQueue) ReclaimStuck(ctx context.Context, claimedBefore time.Time) (int64, error) {
	args := m.Called(ctx, claimedBefore)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockShareQueue) ListByUser(ctx context.Context, userID string, limit int) ([]*model.ShareQueueItem, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.ShareQueueItem), args.Error(1)
}

type MockShareLog struct {
	mock.Mock
}

func (m *MockShareLog) Insert(ctx context.Context, item *model.ShareLogItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockShareLog) ListByUser(ctx context.Context, userID string, limit int) ([]*model.ShareLogItem, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.ShareLogItem), args.Error(1)
}

func (m *MockShareLog) LastSuccessfulOrgURN(ctx context.Context, userID string) (*string, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*string), args.Error(1)
}

type MockAccountRepo struct {
	mock.Mock
}

func (m *MockAccountRepo) Upsert(ctx context.Context, account *model.LinkedInAccount) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepo) Get(ctx context.Context, userID string) (*model.LinkedInAccount, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.LinkedInAccount), args.Error(1)
}

func (m *MockAccountRepo) Delete(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

type MockStateRepo struct {
	mock.Mock
}

func (m *MockStateRepo) Create(ctx context.Context, state *model.OAuthState) error {
	args := m.Called(ctx, state)
	return args.Error(0)
}

func (m *MockStateRepo) Consume(ctx context.Context, state string) (*model.OAuthState, error) {
	args := m.Called(ctx, state)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.OAuthState), args.Error(1)
}

func (m *MockStateRepo) DeleteExpired(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type MockArticleRepo struct {
	mock.Mock
}

func (m *MockArticleRepo) GetByID(ctx context.Context, id int64) (*model.Article, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Article), args.Error(1)
}

type MockSettingsRepo struct {
	mock.Mock
}

func (m *MockSettingsRepo) Get(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

type MockLinkedInClient struct {
	mock.Mock
}

func (m *MockLinkedInClient) FetchUserInfo(ctx context.Context, accessToken string) (*model.LinkedInProfile, error) {
	args := m.Called(ctx, accessToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.LinkedInProfile), args.Error(1)
}

func (m *MockLinkedInClient) ListOrganizations(ctx context.Context, accessToken string) ([]model.Organization, error) {
	args := m.Called(ctx, accessToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Organization), args.Error(1)
}

func (m *MockLinkedInClient) CreateShare(ctx context.Context, accessToken string, payload map[string]interface{}) (*model.ShareCreated, error) {
	args := m.Called(ctx, accessToken, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ShareCreated), args.Error(1)
}

func (m *MockLinkedInClient) RegisterUpload(ctx context.Context, accessToken, ownerURN string) (*model.UploadSlot, error) {
	args := m.Called(ctx, accessToken, ownerURN)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.UploadSlot), args.Error(1)
}

func (m *MockLinkedInClient) FetchImage(ctx context.Context, imageURL string) ([]byte, error) {
	args := m.Called(ctx, imageURL)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockLinkedInClient) UploadImage(ctx context.Context, accessToken, uploadURL string, data []byte) error {
	args := m.Called(ctx, accessToken, uploadURL, data)
	return args.Error(0)
}

func (m *MockLinkedInClient) SocialActions(ctx context.Context, accessToken string, urns []string) (map[string]model.ShareMetrics, error) {
	args := m.Called(ctx, accessToken, urns)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]model.ShareMetrics), args.Error(1)
}

func (m *MockLinkedInClient) OrganizationShareStatistics(ctx context.Context, accessToken, orgURN string, urns []string) (map[string]model.ShareMetrics, error) {
	args := m.Called(ctx, accessToken, orgURN, urns)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]model.ShareMetrics), args.Error(1)
}

type MockComposer struct {
	mock.Mock
}

func (m *MockComposer) Compose(ctx context.Context, accessToken string, in usecase.ComposeInput) (map[string]interface{}, error) {
	args := m.Called(ctx, accessToken, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]interface{}), args.Error(1)
}

type MockRunner struct {
	mock.Mock
}

func (m *MockRunner) ProcessDue(ctx context.Context, userID string) ([]dto.RunOutcome, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]dto.RunOutcome), args.Error(1)
}

func (m *MockRunner) ReapStuck(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type MockMetrics struct {
	mock.Mock
}

func (m *MockMetrics) Aggregate(ctx context.Context, account *model.LinkedInAccount, targets []dto.MetricsTarget) (map[string]*model.ShareMetrics, []string, error) {
	args := m.Called(ctx, account, targets)
	var out map[string]*model.ShareMetrics
	if args.Get(0) != nil {
		out = args.Get(0).(map[string]*model.ShareMetrics)
	}
	var notes []string
	if args.Get(1) != nil {
		notes = args.Get(1).([]string)
	}
	return out, notes, args.Error(2)
}

type MockOAuthFlow struct {
	mock.Mock
}

func (m *MockOAuthFlow) AuthCodeURL(state string) string {
	args := m.Called(state)
	return args.String(0)
}

func (m *MockOAuthFlow) Exchange(ctx context.Context, code string) (*model.TokenSet, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.TokenSet), args.Error(1)
}

func (m *MockOAuthFlow) Refresh(ctx context.Context, refreshToken string) (*model.TokenSet, error) {
	args := m.Called(ctx, refreshToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.TokenSet), args.Error(1)
}
