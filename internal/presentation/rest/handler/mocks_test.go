package handler

import (
	"context"
	"encoding/json"

	"github.com/stretchr/testify/mock"

	"giftbridge/internal/domain/browser"
	"giftbridge/internal/domain/catalog"
	"giftbridge/internal/domain/giftcard"
	"giftbridge/internal/domain/payservice"
)

// MockCardRepository モックカードリポジトリ
type MockCardRepository struct {
	mock.Mock
}

func (m *MockCardRepository) List(ctx context.Context) ([]giftcard.GiftCard, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]giftcard.GiftCard), args.Error(1)
}

func (m *MockCardRepository) FindByInvoiceID(ctx context.Context, invoiceID string) (*giftcard.GiftCard, error) {
	args := m.Called(ctx, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*giftcard.GiftCard), args.Error(1)
}

func (m *MockCardRepository) Append(ctx context.Context, card giftcard.GiftCard) ([]giftcard.GiftCard, error) {
	args := m.Called(ctx, card)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]giftcard.GiftCard), args.Error(1)
}

func (m *MockCardRepository) Merge(ctx context.Context, card giftcard.GiftCard) ([]giftcard.GiftCard, error) {
	args := m.Called(ctx, card)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]giftcard.GiftCard), args.Error(1)
}

func (m *MockCardRepository) Remove(ctx context.Context, card giftcard.GiftCard) ([]giftcard.GiftCard, error) {
	args := m.Called(ctx, card)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]giftcard.GiftCard), args.Error(1)
}

// MockCardConfigRepository モックカード設定リポジトリ
type MockCardConfigRepository struct {
	mock.Mock
}

func (m *MockCardConfigRepository) FindByBrand(ctx context.Context, brand string) (*catalog.CardConfig, error) {
	args := m.Called(ctx, brand)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.CardConfig), args.Error(1)
}

func (m *MockCardConfigRepository) FindAll(ctx context.Context) ([]catalog.CardConfig, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.CardConfig), args.Error(1)
}

// MockInvoiceClient モックインボイスクライアント
type MockInvoiceClient struct {
	mock.Mock
}

func (m *MockInvoiceClient) CreateInvoice(ctx context.Context, params giftcard.InvoiceParams, account *payservice.Account) (*payservice.CreateInvoiceResult, error) {
	args := m.Called(ctx, params, account)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payservice.CreateInvoiceResult), args.Error(1)
}

func (m *MockInvoiceClient) GetInvoice(ctx context.Context, invoiceID string) (json.RawMessage, error) {
	args := m.Called(ctx, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(json.RawMessage), args.Error(1)
}

func (m *MockInvoiceClient) Redeem(ctx context.Context, card giftcard.GiftCard) (*giftcard.RedeemResult, error) {
	args := m.Called(ctx, card)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*giftcard.RedeemResult), args.Error(1)
}

// MockSettlementWatcher モック決済イベントウォッチャー
type MockSettlementWatcher struct {
	mock.Mock
}

func (m *MockSettlementWatcher) AwaitSettlement(ctx context.Context, card giftcard.GiftCard) (*payservice.SettlementEvent, error) {
	args := m.Called(ctx, card)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payservice.SettlementEvent), args.Error(1)
}

// MockPaymentURL モック支払いURLビルダー
type MockPaymentURL struct {
	mock.Mock
}

func (m *MockPaymentURL) InvoiceURL(invoiceID string) string {
	args := m.Called(invoiceID)
	return args.String(0)
}

// MockAccountVerifier モックアカウント検証
type MockAccountVerifier struct {
	mock.Mock
}

func (m *MockAccountVerifier) Verify(account *payservice.Account) error {
	args := m.Called(account)
	return args.Error(0)
}

// MockBridge モック拡張ホストブリッジ
type MockBridge struct {
	mock.Mock
}

func (m *MockBridge) LaunchPaymentWindow(ctx context.Context, url string) error {
	args := m.Called(ctx, url)
	return args.Error(0)
}

func (m *MockBridge) OpenTab(ctx context.Context, url string) error {
	args := m.Called(ctx, url)
	return args.Error(0)
}

func (m *MockBridge) InjectClaimInfo(ctx context.Context, config catalog.CardConfig, claim browser.ClaimInfo) error {
	args := m.Called(ctx, config, claim)
	return args.Error(0)
}

// MockStore モックキーバリューストア
type MockStore struct {
	mock.Mock
}

func (m *MockStore) Get(ctx context.Context, key string, out interface{}) error {
	args := m.Called(ctx, key, out)
	return args.Error(0)
}

func (m *MockStore) Set(ctx context.Context, key string, value interface{}) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}
