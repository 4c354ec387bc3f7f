package usecase

import (
	"context"
	"encoding/json"
	"net/url"
	"strings"
	"time"

	"skallars-social/domain/dto"
	"skallars-social/domain/model"
	"skallars-social/domain/repository"
	"skallars-social/infrastructure/logger"
	"skallars-social/infrastructure/persistence"
	"skallars-social/infrastructure/pubsub"
	"skallars-social/infrastructure/realtime"
	"skallars-social/infrastructure/servicebus"
)

const shareURLPrefix = "https://www.linkedin.com/feed/update/"

// RunnerConfig tunes one runner instance.
type RunnerConfig struct {
	BatchSize    int
	LeaseMinutes int
	SiteBaseURL  string
	// Languages is the localized-field fallback order.
	Languages []string
}

type IRunnerUsecase interface {
	// ProcessDue claims and delivers up to BatchSize due items, scoped to
	// userID when non-empty. One item's failure never aborts the batch.
	ProcessDue(ctx context.Context, userID string) ([]dto.RunOutcome, error)
	// ReapStuck returns items stuck in processing past the lease to retry.
	ReapStuck(ctx context.Context) (int64, error)
}

type runnerUsecase struct {
	queueRepo      repository.IShareQueue
	logRepo        repository.IShareLog
	accountRepo    repository.ILinkedInAccount
	articleRepo    repository.IArticle
	linkedinClient repository.ILinkedIn
	composer       IComposer
	cfg            RunnerConfig

	// Optional collaborators, all nil-tolerant.
	hub       *realtime.Hub
	events    pubsub.IShareEvents
	busSender servicebus.IShareEventSender
	archive   *persistence.ResponseArchive
}

func NewRunnerUsecase(
	queueRepo repository.IShareQueue,
	logRepo repository.IShareLog,
	accountRepo repository.ILinkedInAccount,
	articleRepo repository.IArticle,
	linkedinClient repository.ILinkedIn,
	composer IComposer,
	cfg RunnerConfig,
	hub *realtime.Hub,
	events pubsub.IShareEvents,
	busSender servicebus.IShareEventSender,
	archive *persistence.ResponseArchive,
) IRunnerUsecase {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 10
	}
	if cfg.LeaseMinutes <= 0 {
		cfg.LeaseMinutes = 15
	}
	return &runnerUsecase{
		queueRepo:      queueRepo,
		logRepo:        logRepo,
		accountRepo:    accountRepo,
		articleRepo:    articleRepo,
		linkedinClient: linkedinClient,
		composer:       composer,
		cfg:            cfg,
		hub:            hub,
		events:         events,
		busSender:      busSender,
		archive:        archive,
	}
}

func (u *runnerUsecase) ProcessDue(ctx context.Context, userID string) ([]dto.RunOutcome, error) {
	lg := logger.GetLogger()
	items, err := u.queueRepo.FetchDue(ctx, userID, u.cfg.BatchSize)
	if err != nil {
		return nil, err
	}

	outcomes := make([]dto.RunOutcome, 0, len(items))
	for _, item := range items {
		claimed, err := u.queueRepo.Claim(ctx, item.ID, item.Status)
		if err != nil {
			lg.WithField("item_id", item.ID).WithField("error", err).Error("claim failed")
			outcomes = append(outcomes, dto.RunOutcome{ItemID: item.ID, Status: item.Status, Skipped: true, Error: err.Error()})
			continue
		}
		if !claimed {
			// Another runner won the race; not an error.
			outcomes = append(outcomes, dto.RunOutcome{ItemID: item.ID, Status: item.Status, Skipped: true})
			continue
		}
		item.Status = model.ShareStatusProcessing
		outcomes = append(outcomes, u.processItem(ctx, item))
	}
	return outcomes, nil
}

func (u *runnerUsecase) ReapStuck(ctx context.Context) (int64, error) {
	cutoff := time.Now().UTC().Add(-time.Duration(u.cfg.LeaseMinutes) * time.Minute)
	return u.queueRepo.ReclaimStuck(ctx, cutoff)
}

// processItem runs the delivery sequence for one claimed item and always
// leaves it in exactly one terminal status with a matching log row.
func (u *runnerUsecase) processItem(ctx context.Context, item *model.ShareQueueItem) dto.RunOutcome {
	account, err := u.accountRepo.Get(ctx, item.UserID)
	if err != nil {
		return u.fail(ctx, item, nil, err.Error())
	}
	if account == nil || account.AccessToken == "" {
		return u.fail(ctx, item, nil, (&model.NotConnectedError{UserID: item.UserID}).Error())
	}
	if account.TokenExpired(time.Now().UTC()) {
		return u.fail(ctx, item, nil, (&model.TokenExpiredError{ExpiredAt: *account.ExpiresAt}).Error())
	}

	link, title, excerpt, err := u.resolveContent(ctx, item)
	if err != nil {
		return u.fail(ctx, item, nil, err.Error())
	}
	if parsed, perr := url.Parse(link); perr != nil || !parsed.IsAbs() {
		return u.fail(ctx, item, nil, "Share link must be an absolute URL.")
	}

	authorURN := u.resolveAuthor(item, account)
	if authorURN == "" {
		return u.fail(ctx, item, nil, "Missing LinkedIn author.")
	}

	commentary := title
	if item.Message != nil && *item.Message != "" {
		commentary = *item.Message
	}
	in := ComposeInput{
		AuthorURN:   authorURN,
		Visibility:  item.Visibility,
		Mode:        item.Mode,
		Commentary:  commentary,
		LinkURL:     link,
		Title:       title,
		Description: excerpt,
	}
	if item.ImageURL != nil {
		in.ImageURL = *item.ImageURL
	}
	payload, err := u.composer.Compose(ctx, account.AccessToken, in)
	if err != nil {
		return u.fail(ctx, item, &authorURN, err.Error())
	}

	created, err := u.linkedinClient.CreateShare(ctx, account.AccessToken, payload)
	if err != nil {
		var body *string
		var deliveryErr *model.UpstreamDeliveryError
		if e, ok := err.(*model.UpstreamDeliveryError); ok {
			deliveryErr = e
		}
		if deliveryErr != nil && deliveryErr.Body != "" {
			body = &deliveryErr.Body
		}
		return u.failWithResponse(ctx, item, &authorURN, err.Error(), body)
	}

	shareURN := created.URN()
	shareURL := shareURLPrefix + shareURN
	raw := string(created.Raw)
	errMsg := (*string)(nil)
	if err := u.queueRepo.MarkResult(ctx, item.ID, model.ShareStatusSuccess, errMsg, &raw); err != nil {
		logger.GetLogger().WithField("item_id", item.ID).WithField("error", err).Error("terminal write failed")
	}
	item.Status = model.ShareStatusSuccess
	item.ErrorMessage = nil

	logItem := &model.ShareLogItem{
		UserID:           item.UserID,
		ArticleID:        item.ArticleID,
		Target:           item.Target,
		Mode:             item.Mode,
		Visibility:       item.Visibility,
		Status:           model.ShareStatusSuccess,
		AuthorURN:        &authorURN,
		ShareURN:         &shareURN,
		ShareURL:         &shareURL,
		ProviderResponse: &raw,
	}
	if err := u.logRepo.Insert(ctx, logItem); err != nil {
		logger.GetLogger().WithField("item_id", item.ID).WithField("error", err).Error("log insert failed")
	}

	u.archive.Archive(ctx, item.UserID, "ugc_post", item.ID, json.RawMessage(raw))
	u.notify(ctx, item, &shareURN, &shareURL)
	return dto.RunOutcome{ItemID: item.ID, Status: model.ShareStatusSuccess, ShareURL: shareURL}
}

func (u *runnerUsecase) fail(ctx context.Context, item *model.ShareQueueItem, authorURN *string, message string) dto.RunOutcome {
	return u.failWithResponse(ctx, item, authorURN, message, nil)
}

func (u *runnerUsecase) failWithResponse(ctx context.Context, item *model.ShareQueueItem, authorURN *string, message string, providerResponse *string) dto.RunOutcome {
	lg := logger.GetLogger()
	if err := u.queueRepo.MarkResult(ctx, item.ID, model.ShareStatusError, &message, providerResponse); err != nil {
		lg.WithField("item_id", item.ID).WithField("error", err).Error("terminal write failed")
	}
	item.Status = model.ShareStatusError
	item.ErrorMessage = &message

	logItem := &model.ShareLogItem{
		UserID:           item.UserID,
		ArticleID:        item.ArticleID,
		Target:           item.Target,
		Mode:             item.Mode,
		Visibility:       item.Visibility,
		Status:           model.ShareStatusError,
		AuthorURN:        authorURN,
		ProviderResponse: providerResponse,
		ErrorMessage:     &message,
	}
	if err := u.logRepo.Insert(ctx, logItem); err != nil {
		lg.WithField("item_id", item.ID).WithField("error", err).Error("log insert failed")
	}

	u.notify(ctx, item, nil, nil)
	lg.WithField("item_id", item.ID).WithField("error", message).Warn("share delivery failed")
	return dto.RunOutcome{ItemID: item.ID, Status: model.ShareStatusError, Error: message}
}

// resolveContent derives link, title and excerpt from the source article, or
// falls back to the site root for ad hoc shares.
func (u *runnerUsecase) resolveContent(ctx context.Context, item *model.ShareQueueItem) (link, title, excerpt string, err error) {
	link = u.cfg.SiteBaseURL
	if item.ArticleID == nil {
		return link, "", "", nil
	}
	article, err := u.articleRepo.GetByID(ctx, *item.ArticleID)
	if err != nil {
		return "", "", "", err
	}
	if article == nil {
		return link, "", "", nil
	}
	link = strings.TrimRight(u.cfg.SiteBaseURL, "/") + "/articles/" + article.Slug
	title = model.Localized(article.Title, u.cfg.Languages)
	excerpt = model.Localized(article.Excerpt, u.cfg.Languages)
	return link, title, excerpt, nil
}

func (u *runnerUsecase) resolveAuthor(item *model.ShareQueueItem, account *model.LinkedInAccount) string {
	if item.Target == model.TargetOrganization {
		if item.OrganizationURN != nil {
			return *item.OrganizationURN
		}
		return ""
	}
	if account.MemberURN != nil {
		return *account.MemberURN
	}
	return ""
}

// notify fans the terminal transition out to the SSE hub and the configured
// event transports. All best effort.
func (u *runnerUsecase) notify(ctx context.Context, item *model.ShareQueueItem, shareURN, shareURL *string) {
	if u.hub != nil {
		u.hub.BroadcastShareStatus(item, shareURL)
	}
	if u.events != nil {
		u.events.PublishOutcome(ctx, pubsub.FromQueueItem(item, shareURN))
	}
	if u.busSender != nil {
		payload, err := json.Marshal(pubsub.FromQueueItem(item, shareURN))
		if err == nil {
			if err := u.busSender.SendMessage(ctx, payload); err != nil {
				logger.GetLogger().WithField("error", err).Warn("service bus publish failed")
			}
		}
	}
}
