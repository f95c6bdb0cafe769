package wallet

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"giftbridge/internal/domain/catalog"
	"giftbridge/internal/domain/giftcard"
	"giftbridge/internal/domain/storage"
	otelinfra "giftbridge/internal/infrastructure/observability/otel"
)

// emailStoreKey 購入時に入力されたメールアドレスの保存キー
const emailStoreKey = "email"

// WalletApplicationService 保有カードと設定の参照サービス
type WalletApplicationService struct {
	cardRepo    giftcard.CardRepository
	catalogRepo catalog.CardConfigRepository
	store       storage.Store
	logger      *otelinfra.Logger
	metrics     *otelinfra.Metrics
	tracer      trace.Tracer
}

// NewWalletApplicationService 新しいWalletApplicationServiceを作成
func NewWalletApplicationService(
	cardRepo giftcard.CardRepository,
	catalogRepo catalog.CardConfigRepository,
	store storage.Store,
	logger *otelinfra.Logger,
	metrics *otelinfra.Metrics,
) *WalletApplicationService {
	return &WalletApplicationService{
		cardRepo:    cardRepo,
		catalogRepo: catalogRepo,
		store:       store,
		logger:      logger,
		metrics:     metrics,
		tracer:      otel.Tracer("wallet-service"),
	}
}

// ListCards 保有カードの一覧を取得する
// includeArchivedがfalseの場合はアーカイブ済みを除く
func (s *WalletApplicationService) ListCards(ctx context.Context, includeArchived bool) ([]giftcard.GiftCard, error) {
	ctx, span := s.tracer.Start(ctx, "WalletApplicationService.ListCards")
	defer span.End()

	cards, err := s.cardRepo.List(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, err
	}

	s.metrics.RecordCardCount(ctx, int64(len(cards)))

	if includeArchived {
		return cards, nil
	}
	visible := make([]giftcard.GiftCard, 0, len(cards))
	for _, card := range cards {
		if !card.Archived {
			visible = append(visible, card)
		}
	}
	return visible, nil
}

// GetCard invoiceIdでカードを取得する
func (s *WalletApplicationService) GetCard(ctx context.Context, invoiceID string) (*giftcard.GiftCard, error) {
	ctx, span := s.tracer.Start(ctx, "WalletApplicationService.GetCard")
	defer span.End()

	span.SetAttributes(attribute.String("invoice_id", invoiceID))

	card, err := s.cardRepo.FindByInvoiceID(ctx, invoiceID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, err
	}
	return card, nil
}

// ListSupportedCards 購入可能なブランド設定の一覧を取得する
func (s *WalletApplicationService) ListSupportedCards(ctx context.Context) ([]catalog.CardConfig, error) {
	ctx, span := s.tracer.Start(ctx, "WalletApplicationService.ListSupportedCards")
	defer span.End()

	configs, err := s.catalogRepo.FindAll(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, err
	}
	return configs, nil
}

// GetEmail 保存済みのメールアドレスを取得する
// 未保存の場合は空文字列を返す
func (s *WalletApplicationService) GetEmail(ctx context.Context) (string, error) {
	ctx, span := s.tracer.Start(ctx, "WalletApplicationService.GetEmail")
	defer span.End()

	var email string
	err := s.store.Get(ctx, emailStoreKey, &email)
	if errors.Is(err, storage.ErrKeyNotFound) {
		return "", nil
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return "", err
	}
	return email, nil
}

// SetEmail メールアドレスを保存する
func (s *WalletApplicationService) SetEmail(ctx context.Context, email string) error {
	ctx, span := s.tracer.Start(ctx, "WalletApplicationService.SetEmail")
	defer span.End()

	if err := s.store.Set(ctx, emailStoreKey, email); err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return err
	}
	return nil
}
