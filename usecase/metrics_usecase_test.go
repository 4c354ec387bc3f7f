package usecase_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"skallars-social/domain/dto"
	"skallars-social/domain/model"
	"skallars-social/usecase"
)

func int64Ptr(v int64) *int64 { return &v }

func scopedAccount(scopes string) *model.LinkedInAccount {
	expires := time.Now().UTC().Add(time.Hour)
	urn := "urn:li:person:abc"
	return &model.LinkedInAccount{
		UserID:      "7",
		MemberURN:   &urn,
		AccessToken: "token-abc",
		ExpiresAt:   &expires,
		Scopes:      scopes,
	}
}

func TestAggregate_NotConnected(t *testing.T) {
	client := new(MockLinkedInClient)
	metrics := usecase.NewMetricsUsecase(client, nil)

	out, notes, err := metrics.Aggregate(context.Background(), nil, []dto.MetricsTarget{{URN: "urn:li:share:1"}})

	require.NoError(t, err)
	require.Contains(t, out, "urn:li:share:1")
	require.Nil(t, out["urn:li:share:1"])
	require.Equal(t, []string{"LinkedIn is not connected; engagement metrics are unavailable."}, notes)
	client.AssertNotCalled(t, "SocialActions", mock.Anything, mock.Anything, mock.Anything)
}

func TestAggregate_ExpiredToken(t *testing.T) {
	client := new(MockLinkedInClient)
	metrics := usecase.NewMetricsUsecase(client, nil)

	account := scopedAccount("openid profile w_member_social")
	expired := time.Now().UTC().Add(-time.Hour)
	account.ExpiresAt = &expired

	out, notes, err := metrics.Aggregate(context.Background(), account, []dto.MetricsTarget{{URN: "urn:li:share:1"}})

	require.NoError(t, err)
	require.Nil(t, out["urn:li:share:1"])
	require.Len(t, notes, 1)
	require.Contains(t, notes[0], "token is expired")
	client.AssertNotCalled(t, "SocialActions", mock.Anything, mock.Anything, mock.Anything)
}

func TestAggregate_UnreportedURNStaysNil(t *testing.T) {
	client := new(MockLinkedInClient)
	metrics := usecase.NewMetricsUsecase(client, nil)
	account := scopedAccount("openid profile w_member_social")

	client.On("SocialActions", mock.Anything, "token-abc", []string{"urn:li:share:1", "urn:li:share:2"}).
		Return(map[string]model.ShareMetrics{
			"urn:li:share:1": {Likes: int64Ptr(3), Comments: int64Ptr(1)},
		}, nil).Once()

	out, notes, err := metrics.Aggregate(context.Background(), account, []dto.MetricsTarget{
		{URN: "urn:li:share:1", AuthorURN: "urn:li:person:abc"},
		{URN: "urn:li:share:2", AuthorURN: "urn:li:person:abc"},
	})

	require.NoError(t, err)
	require.Empty(t, notes)
	require.NotNil(t, out["urn:li:share:1"])
	require.Equal(t, int64(3), *out["urn:li:share:1"].Likes)
	// No source reported anything for the second URN, so it stays nil rather
	// than becoming an all-zero record.
	require.Contains(t, out, "urn:li:share:2")
	require.Nil(t, out["urn:li:share:2"])
	client.AssertExpectations(t)
}

func TestAggregate_MergesSocialActionsWithOrgStatistics(t *testing.T) {
	client := new(MockLinkedInClient)
	metrics := usecase.NewMetricsUsecase(client, nil)
	account := scopedAccount("openid profile w_member_social r_organization_social")

	orgURN := "urn:li:organization:55"
	shareURN := "urn:li:share:1"

	client.On("SocialActions", mock.Anything, "token-abc", []string{shareURN}).
		Return(map[string]model.ShareMetrics{
			shareURN: {Likes: int64Ptr(3), Comments: int64Ptr(1)},
		}, nil).Once()
	client.On("OrganizationShareStatistics", mock.Anything, "token-abc", orgURN, []string{shareURN}).
		Return(map[string]model.ShareMetrics{
			shareURN: {Likes: int64Ptr(5), Impressions: int64Ptr(200), Clicks: int64Ptr(12)},
		}, nil).Once()

	out, notes, err := metrics.Aggregate(context.Background(), account, []dto.MetricsTarget{
		{URN: shareURN, AuthorURN: orgURN},
	})

	require.NoError(t, err)
	require.Empty(t, notes)
	got := out[shareURN]
	require.NotNil(t, got)
	// The later source wins on overlap, disjoint fields come from both.
	require.Equal(t, int64(5), *got.Likes)
	require.Equal(t, int64(1), *got.Comments)
	require.Equal(t, int64(200), *got.Impressions)
	require.Equal(t, int64(12), *got.Clicks)
	client.AssertExpectations(t)
}

func TestAggregate_MissingOrgScopeSkipsOrgStatistics(t *testing.T) {
	client := new(MockLinkedInClient)
	metrics := usecase.NewMetricsUsecase(client, nil)
	account := scopedAccount("openid profile w_member_social")

	orgURN := "urn:li:organization:55"
	shareURN := "urn:li:ugcPost:9"

	client.On("SocialActions", mock.Anything, "token-abc", []string{shareURN}).
		Return(map[string]model.ShareMetrics{}, nil).Once()

	out, notes, err := metrics.Aggregate(context.Background(), account, []dto.MetricsTarget{
		{URN: shareURN, AuthorURN: orgURN},
	})

	require.NoError(t, err)
	require.Nil(t, out[shareURN])
	require.Equal(t, []string{"Organization post engagement can be incomplete without the r_organization_social scope."}, notes)
	client.AssertNotCalled(t, "OrganizationShareStatistics", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAggregate_ChunksSocialActionsBatches(t *testing.T) {
	client := new(MockLinkedInClient)
	metrics := usecase.NewMetricsUsecase(client, nil)
	account := scopedAccount("openid profile w_member_social")

	targets := make([]dto.MetricsTarget, 0, 25)
	for i := 0; i < 25; i++ {
		targets = append(targets, dto.MetricsTarget{
			URN:       fmt.Sprintf("urn:li:share:%d", i),
			AuthorURN: "urn:li:person:abc",
		})
	}

	client.On("SocialActions", mock.Anything, "token-abc", mock.MatchedBy(func(urns []string) bool {
		return len(urns) == 20
	})).Return(map[string]model.ShareMetrics{}, nil).Once()
	client.On("SocialActions", mock.Anything, "token-abc", mock.MatchedBy(func(urns []string) bool {
		return len(urns) == 5
	})).Return(map[string]model.ShareMetrics{}, nil).Once()

	_, _, err := metrics.Aggregate(context.Background(), account, targets)

	require.NoError(t, err)
	client.AssertExpectations(t)
}

type stubMetricsCache struct {
	entries map[string]model.ShareMetrics
	stored  map[string]model.ShareMetrics
}

func (c *stubMetricsCache) Get(_ context.Context, urn string) *model.ShareMetrics {
	if m, ok := c.entries[urn]; ok {
		return &m
	}
	return nil
}

func (c *stubMetricsCache) Set(_ context.Context, urn string, m model.ShareMetrics) {
	if c.stored == nil {
		c.stored = map[string]model.ShareMetrics{}
	}
	c.stored[urn] = m
}

func TestAggregate_FullyCachedSkipsUpstreamAndScopeNotes(t *testing.T) {
	client := new(MockLinkedInClient)
	cached := &stubMetricsCache{entries: map[string]model.ShareMetrics{
		"urn:li:share:1": {Likes: int64Ptr(7)},
	}}
	metrics := usecase.NewMetricsUsecase(client, cached)
	// No posting or organization scopes, so a live fetch would degrade. A
	// fully cache-served request has nothing to fetch and stays note-free.
	account := scopedAccount("openid profile")

	out, notes, err := metrics.Aggregate(context.Background(), account, []dto.MetricsTarget{
		{URN: "urn:li:share:1", AuthorURN: "urn:li:person:abc"},
	})

	require.NoError(t, err)
	require.Empty(t, notes)
	require.NotNil(t, out["urn:li:share:1"])
	require.Equal(t, int64(7), *out["urn:li:share:1"].Likes)
	client.AssertNotCalled(t, "SocialActions", mock.Anything, mock.Anything, mock.Anything)
}

func TestAggregate_FailedChunkDegrades(t *testing.T) {
	client := new(MockLinkedInClient)
	metrics := usecase.NewMetricsUsecase(client, nil)
	account := scopedAccount("openid profile w_member_social")

	client.On("SocialActions", mock.Anything, "token-abc", mock.Anything).
		Return(nil, &model.UpstreamDeliveryError{StatusCode: 429}).Once()

	out, _, err := metrics.Aggregate(context.Background(), account, []dto.MetricsTarget{
		{URN: "urn:li:share:1", AuthorURN: "urn:li:person:abc"},
	})

	require.NoError(t, err)
	require.Nil(t, out["urn:li:share:1"])
}
