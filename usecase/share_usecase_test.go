package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"skallars-social/domain/dto"
	"skallars-social/domain/model"
	"skallars-social/infrastructure/persistence"
	"skallars-social/usecase"
)

type shareFixture struct {
	queue    *MockShareQueue
	logs     *MockShareLog
	settings *MockSettingsRepo
	accounts *MockAccountRepo
	runner   *MockRunner
	metrics  *MockMetrics
	usecase  usecase.IShareUsecase
}

func newShareFixture(caps persistence.SchemaCapabilities) *shareFixture {
	f := &shareFixture{
		queue:    new(MockShareQueue),
		logs:     new(MockShareLog),
		settings: new(MockSettingsRepo),
		accounts: new(MockAccountRepo),
		runner:   new(MockRunner),
		metrics:  new(MockMetrics),
	}
	f.usecase = usecase.NewShareUsecase(f.queue, f.logs, f.settings, f.accounts, f.runner, f.metrics, caps, "PUBLIC")
	return f
}

// enqueueEcho makes Enqueue hand the built item back with an assigned ID, the
// way the repository does.
func enqueueEcho(f *shareFixture) {
	stored := &model.ShareQueueItem{}
	f.queue.On("Enqueue", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		*stored = *(args.Get(1).(*model.ShareQueueItem))
		stored.ID = 99
	}).Return(stored, nil)
}

func TestSchedule_DefaultsMemberArticle(t *testing.T) {
	f := newShareFixture(persistence.SchemaCapabilities{ShareModeColumn: true})
	enqueueEcho(f)

	item, err := f.usecase.Schedule(context.Background(), "7", &dto.ScheduleShareRequest{})

	require.NoError(t, err)
	require.Equal(t, model.TargetMember, item.Target)
	require.Equal(t, model.ShareModeArticle, item.Mode)
	require.Equal(t, "PUBLIC", item.Visibility)
	require.Equal(t, model.ShareStatusScheduled, item.Status)
	require.WithinDuration(t, time.Now().UTC(), item.ScheduledAt, 5*time.Second)
	f.settings.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
}

func TestSchedule_UnknownTargetRejected(t *testing.T) {
	f := newShareFixture(persistence.SchemaCapabilities{ShareModeColumn: true})

	_, err := f.usecase.Schedule(context.Background(), "7", &dto.ScheduleShareRequest{Target: "page"})

	var verr *model.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Equal(t, "Unknown share target.", verr.Reason)
	f.queue.AssertNotCalled(t, "Enqueue", mock.Anything, mock.Anything)
}

func TestSchedule_ImageModeWithoutColumnSupport(t *testing.T) {
	f := newShareFixture(persistence.SchemaCapabilities{ShareModeColumn: false})

	_, err := f.usecase.Schedule(context.Background(), "7", &dto.ScheduleShareRequest{
		Mode:     "image",
		ImageURL: "https://www.skallars.sk/cover.jpg",
	})

	var verr *model.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Equal(t, "Image shares are not supported by this deployment.", verr.Reason)
}

func TestSchedule_ImageModeRequiresURL(t *testing.T) {
	f := newShareFixture(persistence.SchemaCapabilities{ShareModeColumn: true})

	_, err := f.usecase.Schedule(context.Background(), "7", &dto.ScheduleShareRequest{Mode: "image"})

	var verr *model.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Equal(t, "Missing image URL.", verr.Reason)
}

func TestSchedule_OrganizationExplicitURNWins(t *testing.T) {
	f := newShareFixture(persistence.SchemaCapabilities{ShareModeColumn: true})
	enqueueEcho(f)

	item, err := f.usecase.Schedule(context.Background(), "7", &dto.ScheduleShareRequest{
		Target:          "organization",
		OrganizationURN: "urn:li:organization:55",
	})

	require.NoError(t, err)
	require.NotNil(t, item.OrganizationURN)
	require.Equal(t, "urn:li:organization:55", *item.OrganizationURN)
	f.settings.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
	f.logs.AssertNotCalled(t, "LastSuccessfulOrgURN", mock.Anything, mock.Anything)
}

func TestSchedule_OrganizationFromSettings(t *testing.T) {
	f := newShareFixture(persistence.SchemaCapabilities{ShareModeColumn: true})
	enqueueEcho(f)
	f.settings.On("Get", mock.Anything, "linkedin_default_org_urn").Return("urn:li:organization:10", nil).Once()

	item, err := f.usecase.Schedule(context.Background(), "7", &dto.ScheduleShareRequest{Target: "organization"})

	require.NoError(t, err)
	require.Equal(t, "urn:li:organization:10", *item.OrganizationURN)
	f.logs.AssertNotCalled(t, "LastSuccessfulOrgURN", mock.Anything, mock.Anything)
}

func TestSchedule_OrganizationFromLastSuccessfulShare(t *testing.T) {
	f := newShareFixture(persistence.SchemaCapabilities{ShareModeColumn: true})
	enqueueEcho(f)
	f.settings.On("Get", mock.Anything, "linkedin_default_org_urn").Return("", nil).Once()
	last := "urn:li:organization:20"
	f.logs.On("LastSuccessfulOrgURN", mock.Anything, "7").Return(&last, nil).Once()

	item, err := f.usecase.Schedule(context.Background(), "7", &dto.ScheduleShareRequest{Target: "organization"})

	require.NoError(t, err)
	require.Equal(t, "urn:li:organization:20", *item.OrganizationURN)
}

func TestSchedule_OrganizationUnresolvable(t *testing.T) {
	f := newShareFixture(persistence.SchemaCapabilities{ShareModeColumn: true})
	f.settings.On("Get", mock.Anything, "linkedin_default_org_urn").Return("", nil).Once()
	f.logs.On("LastSuccessfulOrgURN", mock.Anything, "7").Return(nil, nil).Once()

	_, err := f.usecase.Schedule(context.Background(), "7", &dto.ScheduleShareRequest{Target: "organization"})

	var verr *model.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Equal(t, "Select a LinkedIn organization to share as before scheduling.", verr.Reason)
	f.queue.AssertNotCalled(t, "Enqueue", mock.Anything, mock.Anything)
}

func TestShareNow_RunsCallerQueue(t *testing.T) {
	f := newShareFixture(persistence.SchemaCapabilities{ShareModeColumn: true})
	enqueueEcho(f)
	f.runner.On("ProcessDue", mock.Anything, "7").
		Return([]dto.RunOutcome{{ItemID: 99, Status: model.ShareStatusSuccess, ShareURL: "https://www.linkedin.com/feed/update/urn:li:share:1"}}, nil).Once()

	item, outcomes, err := f.usecase.ShareNow(context.Background(), "7", &dto.ScheduleShareRequest{})

	require.NoError(t, err)
	require.NotNil(t, item)
	require.WithinDuration(t, time.Now().UTC(), item.ScheduledAt, 5*time.Second)
	require.Len(t, outcomes, 1)
	require.Equal(t, model.ShareStatusSuccess, outcomes[0].Status)
	f.runner.AssertExpectations(t)
}

func TestLogs_WithMetricsAttachesByURN(t *testing.T) {
	f := newShareFixture(persistence.SchemaCapabilities{ShareModeColumn: true})

	urnA := "urn:li:share:1"
	urnB := "urn:li:share:2"
	author := "urn:li:person:abc"
	failMsg := "Token expired."
	rows := []*model.ShareLogItem{
		{ID: 1, UserID: "7", Status: model.ShareStatusSuccess, ShareURN: &urnA, AuthorURN: &author},
		{ID: 2, UserID: "7", Status: model.ShareStatusError, ErrorMessage: &failMsg},
		{ID: 3, UserID: "7", Status: model.ShareStatusSuccess, ShareURN: &urnB, AuthorURN: &author},
	}
	f.logs.On("ListByUser", mock.Anything, "7", 50).Return(rows, nil).Once()
	account := memberAccount(author)
	f.accounts.On("Get", mock.Anything, "7").Return(account, nil).Once()

	// Only successful rows with a share URN become metric targets.
	likes := int64(4)
	comments := int64(1)
	f.metrics.On("Aggregate", mock.Anything, account, []dto.MetricsTarget{
		{URN: urnA, AuthorURN: author},
		{URN: urnB, AuthorURN: author},
	}).Return(map[string]*model.ShareMetrics{
		urnA: {Likes: &likes, Comments: &comments},
		urnB: nil,
	}, []string{}, nil).Once()

	entries, _, err := f.usecase.Logs(context.Background(), "7", 0, true)

	require.NoError(t, err)
	require.Len(t, entries, 3)
	require.NotNil(t, entries[0].Metrics)
	require.Equal(t, int64(4), *entries[0].Metrics.Likes)
	require.Nil(t, entries[1].Metrics)
	require.Nil(t, entries[2].Metrics)
	f.metrics.AssertExpectations(t)
}

func TestLogs_MetricsFailureDegradesGracefully(t *testing.T) {
	f := newShareFixture(persistence.SchemaCapabilities{ShareModeColumn: true})

	urn := "urn:li:share:1"
	rows := []*model.ShareLogItem{{ID: 1, UserID: "7", Status: model.ShareStatusSuccess, ShareURN: &urn}}
	f.logs.On("ListByUser", mock.Anything, "7", 50).Return(rows, nil).Once()
	f.accounts.On("Get", mock.Anything, "7").Return(memberAccount("urn:li:person:abc"), nil).Once()
	f.metrics.On("Aggregate", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, nil, context.DeadlineExceeded).Once()

	entries, notes, err := f.usecase.Logs(context.Background(), "7", 0, true)

	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Nil(t, entries[0].Metrics)
	require.Empty(t, notes)
}

func TestLogs_WithoutMetricsSkipsAccountLookup(t *testing.T) {
	f := newShareFixture(persistence.SchemaCapabilities{ShareModeColumn: true})
	f.logs.On("ListByUser", mock.Anything, "7", 25).Return([]*model.ShareLogItem{}, nil).Once()

	entries, notes, err := f.usecase.Logs(context.Background(), "7", 25, false)

	require.NoError(t, err)
	require.Empty(t, entries)
	require.Empty(t, notes)
	f.accounts.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
	f.metrics.AssertNotCalled(t, "Aggregate", mock.Anything, mock.Anything, mock.Anything)
}
