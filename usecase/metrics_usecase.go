package usecase

import (
	"context"
	"strings"
	"time"

	"skallars-social/domain/dto"
	"skallars-social/domain/model"
	"skallars-social/domain/repository"
	"skallars-social/infrastructure/logger"
)

const (
	socialActionsChunk = 20
	orgStatisticsChunk = 15

	orgReadScope = "r_organization_social"
)

// Advisory notes surfaced alongside partial metrics. The read path never
// fails the enclosing request.
const (
	noteNotConnected = "LinkedIn is not connected; engagement metrics are unavailable."
	noteTokenExpired = "The LinkedIn token is expired; engagement metrics can be incomplete. Reconnect to refresh them."
	noteMemberScope  = "Member post engagement can be incomplete without the w_member_social scope."
	noteOrgScope     = "Organization post engagement can be incomplete without the r_organization_social scope."
)

type IMetricsUsecase interface {
	// Aggregate fetches engagement counters for the targets and returns a
	// per-URN record, nil for URNs where no source reported anything, plus
	// advisory notes about degraded sources.
	Aggregate(ctx context.Context, account *model.LinkedInAccount, targets []dto.MetricsTarget) (map[string]*model.ShareMetrics, []string, error)
}

// IMetricsCache is the short-lived per-URN metrics cache consulted before
// any upstream fetch.
type IMetricsCache interface {
	Get(ctx context.Context, urn string) *model.ShareMetrics
	Set(ctx context.Context, urn string, metrics model.ShareMetrics)
}

type metricsUsecase struct {
	linkedinClient repository.ILinkedIn
	metricsCache   IMetricsCache
}

func NewMetricsUsecase(linkedinClient repository.ILinkedIn, metricsCache IMetricsCache) IMetricsUsecase {
	return &metricsUsecase{linkedinClient: linkedinClient, metricsCache: metricsCache}
}

func (u *metricsUsecase) Aggregate(ctx context.Context, account *model.LinkedInAccount, targets []dto.MetricsTarget) (map[string]*model.ShareMetrics, []string, error) {
	out := make(map[string]*model.ShareMetrics, len(targets))
	for _, t := range targets {
		out[t.URN] = nil
	}
	if len(targets) == 0 {
		return out, nil, nil
	}
	if account == nil || account.AccessToken == "" {
		return out, []string{noteNotConnected}, nil
	}
	if account.TokenExpired(time.Now().UTC()) {
		return out, []string{noteTokenExpired}, nil
	}

	notes := make([]string, 0, 2)
	merged := make(map[string]model.ShareMetrics, len(targets))

	// Cache hits skip the upstream fetch entirely.
	pending := make([]dto.MetricsTarget, 0, len(targets))
	for _, t := range targets {
		if u.metricsCache != nil {
			if cached := u.metricsCache.Get(ctx, t.URN); cached != nil {
				merged[t.URN] = *cached
				continue
			}
		}
		pending = append(pending, t)
	}

	u.fetchSocialActions(ctx, account, pending, merged, &notes)
	u.fetchOrgStatistics(ctx, account, pending, merged, &notes)

	for urn, m := range merged {
		if m.Empty() {
			continue
		}
		metrics := m
		out[urn] = &metrics
		if u.metricsCache != nil {
			u.metricsCache.Set(ctx, urn, metrics)
		}
	}
	return out, notes, nil
}

// fetchSocialActions batch-reads like/comment counters, 20 URNs per call. A
// failed chunk contributes nothing instead of aborting the aggregation.
func (u *metricsUsecase) fetchSocialActions(ctx context.Context, account *model.LinkedInAccount, targets []dto.MetricsTarget, merged map[string]model.ShareMetrics, notes *[]string) {
	if len(targets) == 0 {
		return
	}
	if !account.HasScope("w_member_social") && !account.HasScope(orgReadScope) {
		appendNote(notes, noteMemberScope)
	}
	urns := make([]string, 0, len(targets))
	for _, t := range targets {
		urns = append(urns, t.URN)
	}
	for _, chunk := range chunkStrings(urns, socialActionsChunk) {
		batch, err := u.linkedinClient.SocialActions(ctx, account.AccessToken, chunk)
		if err != nil {
			logger.GetLogger().WithField("error", err).Warn("socialActions chunk failed")
			continue
		}
		for urn, m := range batch {
			merged[urn] = model.MergeMetrics(merged[urn], m)
		}
	}
}

// fetchOrgStatistics reads organization share statistics grouped per org, 15
// URNs per call. Member content never reaches this source.
func (u *metricsUsecase) fetchOrgStatistics(ctx context.Context, account *model.LinkedInAccount, targets []dto.MetricsTarget, merged map[string]model.ShareMetrics, notes *[]string) {
	byOrg := make(map[string][]string)
	for _, t := range targets {
		if !strings.HasPrefix(t.AuthorURN, "urn:li:organization:") {
			continue
		}
		byOrg[t.AuthorURN] = append(byOrg[t.AuthorURN], t.URN)
	}
	if len(byOrg) == 0 {
		return
	}
	if !account.HasScope(orgReadScope) {
		appendNote(notes, noteOrgScope)
		return
	}
	for orgURN, urns := range byOrg {
		for _, chunk := range chunkStrings(urns, orgStatisticsChunk) {
			batch, err := u.linkedinClient.OrganizationShareStatistics(ctx, account.AccessToken, orgURN, chunk)
			if err != nil {
				logger.GetLogger().WithField("org", orgURN).WithField("error", err).Warn("organization statistics chunk failed")
				continue
			}
			for urn, m := range batch {
				merged[urn] = model.MergeMetrics(merged[urn], m)
			}
		}
	}
}

func chunkStrings(values []string, size int) [][]string {
	chunks := make([][]string, 0, (len(values)+size-1)/size)
	for len(values) > size {
		chunks = append(chunks, values[:size])
		values = values[size:]
	}
	if len(values) > 0 {
		chunks = append(chunks, values)
	}
	return chunks
}

func appendNote(notes *[]string, note string) {
	for _, n := range *notes {
		if n == note {
			return
		}
	}
	*notes = append(*notes, note)
}
