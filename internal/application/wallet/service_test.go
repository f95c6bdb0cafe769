package wallet

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"

	"giftbridge/internal/domain/catalog"
	"giftbridge/internal/domain/giftcard"
	"giftbridge/internal/domain/storage"
	otelinfra "giftbridge/internal/infrastructure/observability/otel"
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

func newTestService(t *testing.T) (*WalletApplicationService, *MockCardRepository, *MockCardConfigRepository, *MockStore) {
	t.Helper()

	cardRepo := new(MockCardRepository)
	catalogRepo := new(MockCardConfigRepository)
	store := new(MockStore)

	logger := otelinfra.NewLogger(otel.Tracer("test"))
	metrics, err := otelinfra.NewMetrics("test")
	require.NoError(t, err)

	svc := NewWalletApplicationService(cardRepo, catalogRepo, store, logger, metrics)
	return svc, cardRepo, catalogRepo, store
}

func TestWalletApplicationService_ListCards(t *testing.T) {
	cards := []giftcard.GiftCard{
		{InvoiceID: "inv-1", Name: "Amazon.com", Status: giftcard.CardStatusSuccess},
		{InvoiceID: "inv-2", Name: "Target", Status: giftcard.CardStatusSuccess, Archived: true},
	}

	t.Run("正常系: アーカイブ済みを除いた一覧", func(t *testing.T) {
		svc, cardRepo, _, _ := newTestService(t)
		cardRepo.On("List", mock.Anything).Return(cards, nil)

		got, err := svc.ListCards(context.Background(), false)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "inv-1", got[0].InvoiceID)
	})

	t.Run("正常系: アーカイブ済みを含む一覧", func(t *testing.T) {
		svc, cardRepo, _, _ := newTestService(t)
		cardRepo.On("List", mock.Anything).Return(cards, nil)

		got, err := svc.ListCards(context.Background(), true)
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})

	t.Run("正常系: カードがなくても空の一覧を返す", func(t *testing.T) {
		svc, cardRepo, _, _ := newTestService(t)
		cardRepo.On("List", mock.Anything).Return([]giftcard.GiftCard{}, nil)

		got, err := svc.ListCards(context.Background(), false)
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

func TestWalletApplicationService_GetCard(t *testing.T) {
	t.Run("正常系: invoiceIdで取得", func(t *testing.T) {
		svc, cardRepo, _, _ := newTestService(t)
		card := &giftcard.GiftCard{InvoiceID: "inv-1", Name: "Amazon.com"}
		cardRepo.On("FindByInvoiceID", mock.Anything, "inv-1").Return(card, nil)

		got, err := svc.GetCard(context.Background(), "inv-1")
		require.NoError(t, err)
		assert.Equal(t, "inv-1", got.InvoiceID)
	})

	t.Run("異常系: カードが存在しない", func(t *testing.T) {
		svc, cardRepo, _, _ := newTestService(t)
		cardRepo.On("FindByInvoiceID", mock.Anything, "inv-404").Return(nil, giftcard.ErrCardNotFound)

		_, err := svc.GetCard(context.Background(), "inv-404")
		assert.ErrorIs(t, err, giftcard.ErrCardNotFound)
	})
}

func TestWalletApplicationService_ListSupportedCards(t *testing.T) {
	t.Run("正常系: ブランド設定の一覧を取得", func(t *testing.T) {
		svc, _, catalogRepo, _ := newTestService(t)
		catalogRepo.On("FindAll", mock.Anything).Return([]catalog.CardConfig{{Name: "Amazon.com"}}, nil)

		got, err := svc.ListSupportedCards(context.Background())
		require.NoError(t, err)
		assert.Len(t, got, 1)
	})
}

func TestWalletApplicationService_Email(t *testing.T) {
	t.Run("正常系: 保存済みメールアドレスを取得", func(t *testing.T) {
		svc, _, _, store := newTestService(t)
		store.On("Get", mock.Anything, "email", mock.Anything).
			Run(func(args mock.Arguments) {
				out := args.Get(2).(*string)
				*out = "user@example.com"
			}).
			Return(nil)

		email, err := svc.GetEmail(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "user@example.com", email)
	})

	t.Run("正常系: 未保存の場合は空文字列", func(t *testing.T) {
		svc, _, _, store := newTestService(t)
		store.On("Get", mock.Anything, "email", mock.Anything).Return(storage.ErrKeyNotFound)

		email, err := svc.GetEmail(context.Background())
		require.NoError(t, err)
		assert.Empty(t, email)
	})

	t.Run("正常系: メールアドレスを保存", func(t *testing.T) {
		svc, _, _, store := newTestService(t)
		store.On("Set", mock.Anything, "email", "user@example.com").Return(nil)

		err := svc.SetEmail(context.Background(), "user@example.com")
		require.NoError(t, err)
		store.AssertCalled(t, "Set", mock.Anything, "email", "user@example.com")
	})
}
