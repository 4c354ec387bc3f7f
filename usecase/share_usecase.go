package usecase

import (
	"context"
	"time"

	"skallars-social/domain/dto"
	"skallars-social/domain/model"
	"skallars-social/domain/repository"
	"skallars-social/infrastructure/logger"
	"skallars-social/infrastructure/persistence"
)

const defaultOrgSettingKey = "linkedin_default_org_urn"

const selectOrgMessage = "Select a LinkedIn organization to share as before scheduling."

type IShareUsecase interface {
	// Schedule validates the request, resolves the organization target and
	// inserts one queue item.
	Schedule(ctx context.Context, userID string, req *dto.ScheduleShareRequest) (*model.ShareQueueItem, error)
	// ShareNow enqueues a due-now item and immediately runs the caller's due
	// queue, returning the created item and the per-item outcomes.
	ShareNow(ctx context.Context, userID string, req *dto.ScheduleShareRequest) (*model.ShareQueueItem, []dto.RunOutcome, error)
	Queue(ctx context.Context, userID string, limit int) ([]*model.ShareQueueItem, error)
	// Logs lists delivery attempts, optionally enriched with fetched
	// engagement metrics. Notes describe degraded metric sources.
	Logs(ctx context.Context, userID string, limit int, withMetrics bool) ([]dto.ShareLogEntry, []string, error)
	// RunDue triggers the runner: scoped to userID, or across all users
	// when userID is empty (privileged scheduler invocation).
	RunDue(ctx context.Context, userID string) ([]dto.RunOutcome, error)
}

type shareUsecase struct {
	queueRepo    repository.IShareQueue
	logRepo      repository.IShareLog
	settingsRepo repository.ISettings
	accountRepo  repository.ILinkedInAccount
	runner       IRunnerUsecase
	metrics      IMetricsUsecase
	caps         persistence.SchemaCapabilities
	defaultVis   string
}

func NewShareUsecase(
	queueRepo repository.IShareQueue,
	logRepo repository.IShareLog,
	settingsRepo repository.ISettings,
	accountRepo repository.ILinkedInAccount,
	runner IRunnerUsecase,
	metrics IMetricsUsecase,
	caps persistence.SchemaCapabilities,
	defaultVisibility string,
) IShareUsecase {
	if defaultVisibility == "" {
		defaultVisibility = model.VisibilityPublic
	}
	return &shareUsecase{
		queueRepo:    queueRepo,
		logRepo:      logRepo,
		settingsRepo: settingsRepo,
		accountRepo:  accountRepo,
		runner:       runner,
		metrics:      metrics,
		caps:         caps,
		defaultVis:   defaultVisibility,
	}
}

func (u *shareUsecase) Schedule(ctx context.Context, userID string, req *dto.ScheduleShareRequest) (*model.ShareQueueItem, error) {
	item, err := u.buildItem(ctx, userID, req)
	if err != nil {
		return nil, err
	}
	return u.queueRepo.Enqueue(ctx, item)
}

func (u *shareUsecase) ShareNow(ctx context.Context, userID string, req *dto.ScheduleShareRequest) (*model.ShareQueueItem, []dto.RunOutcome, error) {
	now := time.Now().UTC()
	req.ScheduledAt = &now
	item, err := u.Schedule(ctx, userID, req)
	if err != nil {
		return nil, nil, err
	}
	outcomes, err := u.runner.ProcessDue(ctx, userID)
	if err != nil {
		return item, nil, err
	}
	return item, outcomes, nil
}

func (u *shareUsecase) Queue(ctx context.Context, userID string, limit int) ([]*model.ShareQueueItem, error) {
	if limit <= 0 {
		limit = 50
	}
	return u.queueRepo.ListByUser(ctx, userID, limit)
}

func (u *shareUsecase) Logs(ctx context.Context, userID string, limit int, withMetrics bool) ([]dto.ShareLogEntry, []string, error) {
	if limit <= 0 {
		limit = 50
	}
	logs, err := u.logRepo.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, nil, err
	}
	entries := make([]dto.ShareLogEntry, 0, len(logs))
	for _, l := range logs {
		entries = append(entries, dto.ShareLogEntry{Log: l})
	}
	if !withMetrics {
		return entries, nil, nil
	}

	targets := make([]dto.MetricsTarget, 0, len(logs))
	for _, l := range logs {
		if l.Status != model.ShareStatusSuccess || l.ShareURN == nil {
			continue
		}
		target := dto.MetricsTarget{URN: *l.ShareURN}
		if l.AuthorURN != nil {
			target.AuthorURN = *l.AuthorURN
		}
		targets = append(targets, target)
	}
	account, err := u.accountRepo.Get(ctx, userID)
	if err != nil {
		logger.GetLogger().WithField("error", err).Warn("account lookup for metrics failed")
		return entries, nil, nil
	}
	fetched, notes, err := u.metrics.Aggregate(ctx, account, targets)
	if err != nil {
		logger.GetLogger().WithField("error", err).Warn("metrics aggregation failed")
		return entries, nil, nil
	}
	for i := range entries {
		if urn := entries[i].Log.ShareURN; urn != nil {
			entries[i].Metrics = fetched[*urn]
		}
	}
	return entries, notes, nil
}

func (u *shareUsecase) RunDue(ctx context.Context, userID string) ([]dto.RunOutcome, error) {
	return u.runner.ProcessDue(ctx, userID)
}

func (u *shareUsecase) buildItem(ctx context.Context, userID string, req *dto.ScheduleShareRequest) (*model.ShareQueueItem, error) {
	target := model.ShareTarget(req.Target)
	if target == "" {
		target = model.TargetMember
	}
	if target != model.TargetMember && target != model.TargetOrganization {
		return nil, &model.ValidationError{Reason: "Unknown share target."}
	}

	mode := model.ShareMode(req.Mode)
	if mode == "" {
		mode = model.ShareModeArticle
	}
	if mode != model.ShareModeArticle && mode != model.ShareModeImage {
		return nil, &model.ValidationError{Reason: "Unknown share mode."}
	}
	if mode == model.ShareModeImage {
		if !u.caps.ShareModeColumn {
			return nil, &model.ValidationError{Reason: "Image shares are not supported by this deployment."}
		}
		if req.ImageURL == "" {
			return nil, &model.ValidationError{Reason: "Missing image URL."}
		}
	}

	item := &model.ShareQueueItem{
		UserID:     userID,
		ArticleID:  req.ArticleID,
		Target:     target,
		Mode:       mode,
		Visibility: req.Visibility,
		Status:     model.ShareStatusScheduled,
	}
	if item.Visibility == "" {
		item.Visibility = u.defaultVis
	}
	if req.ImageURL != "" {
		v := req.ImageURL
		item.ImageURL = &v
	}
	if req.Message != "" {
		v := req.Message
		item.Message = &v
	}
	item.ScheduledAt = time.Now().UTC()
	if req.ScheduledAt != nil {
		item.ScheduledAt = req.ScheduledAt.UTC()
	}

	if target == model.TargetOrganization {
		orgURN, err := u.resolveOrganization(ctx, userID, req.OrganizationURN)
		if err != nil {
			return nil, err
		}
		item.OrganizationURN = &orgURN
	}
	return item, nil
}

// resolveOrganization picks the acting organization in precedence order:
// explicit request URN, the default-organization settings row, then the most
// recent successful organization share.
func (u *shareUsecase) resolveOrganization(ctx context.Context, userID, requested string) (string, error) {
	if requested != "" {
		return requested, nil
	}
	fromSettings, err := u.settingsRepo.Get(ctx, defaultOrgSettingKey)
	if err != nil {
		return "", err
	}
	if fromSettings != "" {
		return fromSettings, nil
	}
	fromLog, err := u.logRepo.LastSuccessfulOrgURN(ctx, userID)
	if err != nil {
		return "", err
	}
	if fromLog != nil && *fromLog != "" {
		return *fromLog, nil
	}
	return "", &model.ValidationError{Reason: selectOrgMessage}
}
