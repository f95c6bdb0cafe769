package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"giftbridge/internal/domain/browser"
	"giftbridge/internal/domain/catalog"
	"giftbridge/internal/domain/giftcard"
	"giftbridge/internal/domain/payservice"
	otelinfra "giftbridge/internal/infrastructure/observability/otel"
)

// errStillPending 引き換えが未確定のまま返ってきたことを表す内部エラー
var errStillPending = errors.New("redemption still pending")

// LifecycleApplicationService 購入済みカードのライフサイクル管理サービス
// アーカイブ・再引き換え・クレームリンク・メニュー操作を担う
type LifecycleApplicationService struct {
	cardRepo      giftcard.CardRepository
	catalogRepo   catalog.CardConfigRepository
	invoiceClient payservice.InvoiceClient
	bridge        browser.Bridge
	logger        *otelinfra.Logger
	metrics       *otelinfra.Metrics
	tracer        trace.Tracer

	supportURL string
	// unarchiveDelay 再描画前の見た目のための間。正しさの要件ではない
	unarchiveDelay      time.Duration
	redeemMaxAttempts   int
	redeemRetryInterval time.Duration
}

// NewLifecycleApplicationService 新しいLifecycleApplicationServiceを作成
func NewLifecycleApplicationService(
	cardRepo giftcard.CardRepository,
	catalogRepo catalog.CardConfigRepository,
	invoiceClient payservice.InvoiceClient,
	bridge browser.Bridge,
	logger *otelinfra.Logger,
	metrics *otelinfra.Metrics,
	supportURL string,
	unarchiveDelay time.Duration,
	redeemMaxAttempts int,
	redeemRetryInterval time.Duration,
) *LifecycleApplicationService {
	return &LifecycleApplicationService{
		cardRepo:            cardRepo,
		catalogRepo:         catalogRepo,
		invoiceClient:       invoiceClient,
		bridge:              bridge,
		logger:              logger,
		metrics:             metrics,
		tracer:              otel.Tracer("lifecycle-service"),
		supportURL:          supportURL,
		unarchiveDelay:      unarchiveDelay,
		redeemMaxAttempts:   redeemMaxAttempts,
		redeemRetryInterval: redeemRetryInterval,
	}
}

// Archive カードをアーカイブする
// ビューセッション中に作られたばかりのレコードの場合はビューを閉じる
func (s *LifecycleApplicationService) Archive(ctx context.Context, req *ArchiveRequest) (*ArchiveResponse, error) {
	ctx, span := s.tracer.Start(ctx, "LifecycleApplicationService.Archive")
	defer span.End()

	span.SetAttributes(attribute.String("invoice_id", req.InvoiceID))

	card, err := s.cardRepo.FindByInvoiceID(ctx, req.InvoiceID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, err
	}
	if card.Status == giftcard.CardStatusUnredeemed {
		return nil, giftcard.ErrCardNotArchivable
	}

	updated := *card
	if !card.Archived {
		updated = card.WithArchived(true)
		if _, err := s.cardRepo.Merge(ctx, updated); err != nil {
			span.RecordError(err)
			span.SetStatus(otelcodes.Error, err.Error())
			return nil, fmt.Errorf("failed to archive card: %w", err)
		}
	}

	s.logger.Info(ctx, "Card archived", map[string]interface{}{
		"invoice_id": req.InvoiceID,
	})
	return &ArchiveResponse{Card: &updated, Dismiss: req.CreatedInSession}, nil
}

// Unarchive カードのアーカイブを解除する
func (s *LifecycleApplicationService) Unarchive(ctx context.Context, invoiceID string) (*giftcard.GiftCard, error) {
	ctx, span := s.tracer.Start(ctx, "LifecycleApplicationService.Unarchive")
	defer span.End()

	span.SetAttributes(attribute.String("invoice_id", invoiceID))

	card, err := s.cardRepo.FindByInvoiceID(ctx, invoiceID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, err
	}

	updated := card.WithArchived(false)
	if _, err := s.cardRepo.Merge(ctx, updated); err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, fmt.Errorf("failed to unarchive card: %w", err)
	}

	// 再描画前の見た目のための間
	select {
	case <-time.After(s.unarchiveDelay):
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	s.logger.Info(ctx, "Card unarchived", map[string]interface{}{
		"invoice_id": invoiceID,
	})
	return &updated, nil
}

// RedeemPending PENDINGのカードの引き換えを有限回再試行する
// 試行し尽くしてもPENDINGのままの場合はレコードを変更せずに返す
func (s *LifecycleApplicationService) RedeemPending(ctx context.Context, invoiceID string) (*giftcard.GiftCard, error) {
	ctx, span := s.tracer.Start(ctx, "LifecycleApplicationService.RedeemPending")
	defer span.End()

	span.SetAttributes(attribute.String("invoice_id", invoiceID))

	card, err := s.cardRepo.FindByInvoiceID(ctx, invoiceID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, err
	}
	if card.Status != giftcard.CardStatusPending {
		return nil, giftcard.ErrCardNotPending
	}

	res, err := backoff.Retry(ctx, func() (*giftcard.RedeemResult, error) {
		res, err := s.invoiceClient.Redeem(ctx, *card)
		if err != nil {
			return nil, err
		}
		if res.Status == giftcard.CardStatusPending {
			return nil, errStillPending
		}
		return res, nil
	},
		backoff.WithBackOff(backoff.NewConstantBackOff(s.redeemRetryInterval)),
		backoff.WithMaxTries(uint(s.redeemMaxAttempts)),
	)
	if err != nil {
		if errors.Is(err, errStillPending) {
			// まだ確定していないだけなのでレコードは触らない
			s.logger.Info(ctx, "Redemption still pending after retries", map[string]interface{}{
				"invoice_id": invoiceID,
			})
			return card, nil
		}
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, fmt.Errorf("pending redemption retry failed: %w", err)
	}

	merged, err := card.WithRedemption(*res)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, err
	}
	if _, err := s.cardRepo.Merge(ctx, merged); err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, fmt.Errorf("failed to persist redeemed card: %w", err)
	}

	s.metrics.RecordRedemption(ctx, merged.Name, merged.Status.String())
	s.logger.Info(ctx, "Pending card redeemed", map[string]interface{}{
		"invoice_id": invoiceID,
		"status":     merged.Status.String(),
	})
	return &merged, nil
}

// ClaimLinkURL カードの引き換え先URLを解決する
// リンク型ブランドはカード自身のクレームリンクを使い、それ以外は
// ブランド設定のredeemUrlへクレームコードを連結して構築する
func (s *LifecycleApplicationService) ClaimLinkURL(card *giftcard.GiftCard, cardConfig *catalog.CardConfig) (string, error) {
	if cardConfig.DefaultClaimCodeType == catalog.ClaimCodeTypeLink {
		if card.ClaimLink != "" {
			return card.ClaimLink, nil
		}
		return "", catalog.ErrNoClaimLink
	}
	if cardConfig.RedeemURL != "" && card.ClaimCode != "" {
		return cardConfig.RedeemURL + card.ClaimCode, nil
	}
	return "", catalog.ErrNoClaimLink
}

// LaunchClaimLink 引き換え先URLを新しいタブで開く
// カードの状態は変更しない
func (s *LifecycleApplicationService) LaunchClaimLink(ctx context.Context, invoiceID string) error {
	ctx, span := s.tracer.Start(ctx, "LifecycleApplicationService.LaunchClaimLink")
	defer span.End()

	span.SetAttributes(attribute.String("invoice_id", invoiceID))

	card, err := s.cardRepo.FindByInvoiceID(ctx, invoiceID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return err
	}

	cardConfig, err := s.catalogRepo.FindByBrand(ctx, card.Name)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return err
	}

	url, err := s.ClaimLinkURL(card, cardConfig)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return err
	}
	return s.bridge.OpenTab(ctx, url)
}

// Menu メニュー操作を実行する
// 認識できない操作はログに残したうえで何もしない
func (s *LifecycleApplicationService) Menu(ctx context.Context, req *MenuRequest) (*MenuResponse, error) {
	ctx, span := s.tracer.Start(ctx, "LifecycleApplicationService.Menu")
	defer span.End()

	span.SetAttributes(
		attribute.String("invoice_id", req.InvoiceID),
		attribute.String("action", string(req.Action)),
	)

	switch req.Action {
	case MenuActionArchive:
		resp, err := s.Archive(ctx, &ArchiveRequest{
			InvoiceID:        req.InvoiceID,
			CreatedInSession: req.CreatedInSession,
		})
		if err != nil {
			return nil, err
		}
		return &MenuResponse{Card: resp.Card, Dismiss: resp.Dismiss, Handled: true}, nil

	case MenuActionUnarchive:
		card, err := s.Unarchive(ctx, req.InvoiceID)
		if err != nil {
			return nil, err
		}
		return &MenuResponse{Card: card, Handled: true}, nil

	case MenuActionHelp:
		if err := s.bridge.OpenTab(ctx, s.supportURL); err != nil {
			return nil, err
		}
		return &MenuResponse{Handled: true}, nil

	case MenuActionEditBalance:
		// 残高編集は未実装。操作自体は認識済みとして扱う
		s.logger.Info(ctx, "Edit balance is not implemented", map[string]interface{}{
			"invoice_id": req.InvoiceID,
		})
		return &MenuResponse{Handled: true}, nil

	default:
		s.logger.Warn(ctx, "Unrecognized menu action", map[string]interface{}{
			"invoice_id": req.InvoiceID,
			"action":     string(req.Action),
		})
		return &MenuResponse{Handled: false}, nil
	}
}
