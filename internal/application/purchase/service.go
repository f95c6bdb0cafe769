package purchase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"giftbridge/internal/domain/browser"
	"giftbridge/internal/domain/catalog"
	"giftbridge/internal/domain/giftcard"
	"giftbridge/internal/domain/payservice"
	"giftbridge/internal/domain/storage"
	otelinfra "giftbridge/internal/infrastructure/observability/otel"
)

// emailStoreKey 購入時に入力されたメールアドレスの保存キー
const emailStoreKey = "email"

// PurchaseApplicationService ギフトカード購入アプリケーションサービス
// インボイス作成から決済レース、引き換え、レコード永続化までの
// 一連のオーケストレーションを担う
type PurchaseApplicationService struct {
	catalogRepo       catalog.CardConfigRepository
	cardRepo          giftcard.CardRepository
	invoiceClient     payservice.InvoiceClient
	settlementWatcher payservice.SettlementWatcher
	paymentURL        payservice.PaymentURL
	accountVerifier   payservice.AccountVerifier
	bridge            browser.Bridge
	store             storage.Store
	logger            *otelinfra.Logger
	metrics           *otelinfra.Metrics
	tracer            trace.Tracer

	// settlementTimeout サーバーイベントが届かない場合のフォールバック
	// 上流の支払いウィンドウは15分で期限切れになる
	settlementTimeout time.Duration
	injectTimeout     time.Duration
}

// NewPurchaseApplicationService 新しいPurchaseApplicationServiceを作成
func NewPurchaseApplicationService(
	catalogRepo catalog.CardConfigRepository,
	cardRepo giftcard.CardRepository,
	invoiceClient payservice.InvoiceClient,
	settlementWatcher payservice.SettlementWatcher,
	paymentURL payservice.PaymentURL,
	accountVerifier payservice.AccountVerifier,
	bridge browser.Bridge,
	store storage.Store,
	logger *otelinfra.Logger,
	metrics *otelinfra.Metrics,
	settlementTimeout time.Duration,
) *PurchaseApplicationService {
	return &PurchaseApplicationService{
		catalogRepo:       catalogRepo,
		cardRepo:          cardRepo,
		invoiceClient:     invoiceClient,
		settlementWatcher: settlementWatcher,
		paymentURL:        paymentURL,
		accountVerifier:   accountVerifier,
		bridge:            bridge,
		store:             store,
		logger:            logger,
		metrics:           metrics,
		tracer:            otel.Tracer("purchase-service"),
		settlementTimeout: settlementTimeout,
		injectTimeout:     10 * time.Second,
	}
}

// Purchase ギフトカードを購入する
// 決済イベントかフォールバックタイマーのどちらかが解決するまで戻らない
func (s *PurchaseApplicationService) Purchase(ctx context.Context, req *PurchaseRequest) (*PurchaseResponse, error) {
	ctx, span := s.tracer.Start(ctx, "PurchaseApplicationService.Purchase")
	defer span.End()

	span.SetAttributes(
		attribute.String("brand", req.Brand),
		attribute.Float64("amount", req.Amount),
		attribute.String("currency", req.Currency),
	)

	s.logger.Info(ctx, "Starting gift card purchase", map[string]interface{}{
		"brand":    req.Brand,
		"amount":   req.Amount,
		"currency": req.Currency,
	})

	cardConfig, err := s.validate(ctx, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		s.metrics.RecordPurchase(ctx, req.Brand, "rejected")
		return nil, err
	}

	// インボイス作成
	params := giftcard.InvoiceParams{
		Amount:   req.Amount,
		Currency: req.Currency,
		Brand:    req.Brand,
		ClientID: uuid.NewString(),
		Email:    req.Email,
	}
	invoice, err := s.invoiceClient.CreateInvoice(ctx, params, req.Account)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		s.metrics.RecordPurchase(ctx, req.Brand, "failed")
		return nil, fmt.Errorf("failed to create invoice: %w", err)
	}

	// 次回購入のためにメールアドレスを保存（失敗しても購入は続行）
	if req.Email != "" {
		if err := s.store.Set(ctx, emailStoreKey, req.Email); err != nil {
			s.logger.Warn(ctx, "Failed to persist email", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}

	// 支払い前の暫定レコードを永続化する
	// プロセスがここで落ちてもインボイスへの参照が残る
	card := giftcard.NewUnredeemedCard(params, invoice.InvoiceID, invoice.AccessKey, invoice.TotalDiscount)
	if _, err := s.cardRepo.Append(ctx, card); err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		s.metrics.RecordPurchase(ctx, req.Brand, "failed")
		return nil, fmt.Errorf("failed to persist unredeemed card: %w", err)
	}

	event, err := s.awaitSettlement(ctx, card)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		s.metrics.RecordPurchase(ctx, req.Brand, "failed")
		return nil, err
	}

	// ウィンドウが支払い前に閉じられた場合は暫定レコードを取り除く
	if event.Closed() {
		if _, err := s.cardRepo.Remove(ctx, card); err != nil {
			s.logger.Error(ctx, "Failed to remove cancelled card", err, map[string]interface{}{
				"invoice_id": card.InvoiceID,
			})
		}
		s.logger.Info(ctx, "Purchase cancelled before payment", map[string]interface{}{
			"invoice_id": card.InvoiceID,
		})
		s.metrics.RecordPurchase(ctx, req.Brand, "cancelled")
		return &PurchaseResponse{Cancelled: true}, nil
	}

	redeemed, err := s.finalize(ctx, card, cardConfig, req.CurrentMerchant)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		s.metrics.RecordPurchase(ctx, req.Brand, "failed")
		return nil, err
	}
	s.metrics.RecordPurchase(ctx, req.Brand, "completed")
	s.metrics.RecordRedemption(ctx, req.Brand, redeemed.Status.String())

	return &PurchaseResponse{Card: &redeemed}, nil
}

// validate 購入リクエストを検証しブランド設定を返す
func (s *PurchaseApplicationService) validate(ctx context.Context, req *PurchaseRequest) (*catalog.CardConfig, error) {
	if err := s.accountVerifier.Verify(req.Account); err != nil {
		return nil, err
	}

	cardConfig, err := s.catalogRepo.FindByBrand(ctx, req.Brand)
	if err != nil {
		return nil, err
	}
	if req.Currency != "" && req.Currency != cardConfig.Currency {
		return nil, fmt.Errorf("%w: currency %s not supported for %s", catalog.ErrInvalidAmount, req.Currency, req.Brand)
	}
	if !cardConfig.IsAmountValid(req.Amount) {
		return nil, fmt.Errorf("%w: %v %s for %s", catalog.ErrInvalidAmount, req.Amount, cardConfig.Currency, req.Brand)
	}
	return cardConfig, nil
}

// awaitSettlement 支払いウィンドウを開き、決済の決着を待つ
// 最初に到着した終端シグナル（サーバーイベントまたはフォールバック
// タイマー）が勝ち、ウィンドウ生成の確認はレースを解決しない
func (s *PurchaseApplicationService) awaitSettlement(ctx context.Context, card giftcard.GiftCard) (*payservice.SettlementEvent, error) {
	raceCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	ackCh := make(chan error, 1)
	go func() {
		ackCh <- s.bridge.LaunchPaymentWindow(raceCtx, s.paymentURL.InvoiceURL(card.InvoiceID))
	}()

	eventCh := make(chan *payservice.SettlementEvent, 1)
	watchErrCh := make(chan error, 1)
	go func() {
		event, err := s.settlementWatcher.AwaitSettlement(raceCtx, card)
		if err != nil {
			watchErrCh <- err
			return
		}
		eventCh <- event
	}()

	timer := time.NewTimer(s.settlementTimeout)
	defer timer.Stop()

	for {
		select {
		case err := <-ackCh:
			if err != nil {
				// ウィンドウが開けなければ支払いは始まらない
				if _, removeErr := s.cardRepo.Remove(ctx, card); removeErr != nil {
					s.logger.Error(ctx, "Failed to remove card after launch failure", removeErr, map[string]interface{}{
						"invoice_id": card.InvoiceID,
					})
				}
				return nil, fmt.Errorf("failed to launch payment window: %w", err)
			}
			s.logger.Debug(ctx, "Payment window opened", map[string]interface{}{
				"invoice_id": card.InvoiceID,
			})
			// 確認はサイドチャネルであり決着を待ち続ける

		case event := <-eventCh:
			s.metrics.RecordSettlement(ctx, "server_event")
			return event, nil

		case err := <-watchErrCh:
			// イベントチャネルを失ってもフォールバックタイマーが決着させる
			s.logger.Warn(ctx, "Settlement watcher lost, relying on fallback timer", map[string]interface{}{
				"invoice_id": card.InvoiceID,
				"error":      err.Error(),
			})

		case <-timer.C:
			// 上流の支払いウィンドウは期限切れ。閉扱いで決着させる
			s.metrics.RecordSettlement(ctx, "fallback_timeout")
			return &payservice.SettlementEvent{Status: payservice.SettlementStatusClosed}, nil

		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

// finalize 支払い済みインボイスの取得と引き換えを並行実行し、
// 結果をレコードへ重ねて永続化する
// どちらかの呼び出しが失敗した場合はレコードをPENDINGへ進めて保存した
// うえでエラーを返す。支払いは済んでいるため削除は行わない
func (s *PurchaseApplicationService) finalize(ctx context.Context, card giftcard.GiftCard, cardConfig *catalog.CardConfig, currentMerchant string) (giftcard.GiftCard, error) {
	var (
		rawInvoice []byte
		redeemRes  *giftcard.RedeemResult
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		raw, err := s.invoiceClient.GetInvoice(gctx, card.InvoiceID)
		if err != nil {
			return fmt.Errorf("failed to fetch invoice details: %w", err)
		}
		rawInvoice = raw
		return nil
	})
	g.Go(func() error {
		res, err := s.invoiceClient.Redeem(gctx, card)
		if err != nil {
			return err
		}
		redeemRes = res
		return nil
	})

	if err := g.Wait(); err != nil {
		s.logger.Error(ctx, "Redemption merge failed, marking card pending", err, map[string]interface{}{
			"invoice_id": card.InvoiceID,
		})
		pending, mergeErr := card.WithRedemption(giftcard.RedeemResult{Status: giftcard.CardStatusPending})
		if mergeErr == nil {
			if _, persistErr := s.cardRepo.Merge(ctx, pending); persistErr != nil {
				s.logger.Error(ctx, "Failed to persist pending card", persistErr, map[string]interface{}{
					"invoice_id": card.InvoiceID,
				})
			}
		}
		return giftcard.GiftCard{}, fmt.Errorf("redemption merge failed: %w", err)
	}

	merged, err := card.WithRedemption(*redeemRes)
	if err != nil {
		return giftcard.GiftCard{}, fmt.Errorf("invalid redemption result %s: %w", redeemRes.Status.String(), err)
	}
	merged.Discounts = cardConfig.Discounts
	merged.Invoice = rawInvoice

	// ここで永続化に失敗すると引き換え済みコードが失われるため、
	// 成功扱いにはできない
	if _, err := s.cardRepo.Merge(ctx, merged); err != nil {
		s.logger.Error(ctx, "Failed to persist redeemed card", err, map[string]interface{}{
			"invoice_id": card.InvoiceID,
		})
		return giftcard.GiftCard{}, fmt.Errorf("failed to persist redeemed card: %w", err)
	}

	if merged.Status == giftcard.CardStatusSuccess && cardConfig.SupportsInjection() && currentMerchant == cardConfig.Name {
		s.injectClaimInfo(ctx, merged, cardConfig)
	}

	return merged, nil
}

// injectClaimInfo マーチャントページへのクレーム情報注入を試みる
// ベストエフォートであり、失敗しても購入結果には影響しない
func (s *PurchaseApplicationService) injectClaimInfo(ctx context.Context, card giftcard.GiftCard, cardConfig *catalog.CardConfig) {
	claim := browser.ClaimInfo{ClaimCode: card.ClaimCode, PIN: card.PIN}
	cfg := *cardConfig

	go func() {
		injectCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.injectTimeout)
		defer cancel()

		if err := s.bridge.InjectClaimInfo(injectCtx, cfg, claim); err != nil {
			s.logger.Warn(injectCtx, "Failed to inject claim info", map[string]interface{}{
				"invoice_id": card.InvoiceID,
				"error":      err.Error(),
			})
		}
	}()
}
