package giftcard

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUnredeemedCard(t *testing.T) {
	params := InvoiceParams{
		Amount:   25,
		Currency: "USD",
		Brand:    "Acme",
		ClientID: "client123",
		Email:    "user@example.com",
	}

	card := NewUnredeemedCard(params, "inv123", "key123", 1.25)

	assert.Equal(t, "inv123", card.InvoiceID)
	assert.Equal(t, "key123", card.AccessKey)
	assert.Equal(t, float64(25), card.Amount)
	assert.Equal(t, "USD", card.Currency)
	assert.Equal(t, "client123", card.ClientID)
	assert.Equal(t, "Acme", card.Name)
	assert.Equal(t, CardStatusUnredeemed, card.Status)
	assert.Equal(t, 1.25, card.TotalDiscount)
	assert.False(t, card.Archived)

	// 作成日時はRFC3339で保存される
	parsed, err := time.Parse(time.RFC3339, card.Date)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().UTC(), parsed, 5*time.Second)
}

func TestGiftCard_WithRedemption(t *testing.T) {
	base := GiftCard{
		InvoiceID: "inv123",
		AccessKey: "key123",
		Amount:    25,
		Currency:  "USD",
		ClientID:  "client123",
		Name:      "Acme",
		Status:    CardStatusUnredeemed,
		Date:      "2024-01-01T00:00:00Z",
	}

	tests := []struct {
		name    string
		card    GiftCard
		res     RedeemResult
		want    CardStatus
		wantErr bool
	}{
		{
			name: "正常系: UNREDEEMED → SUCCESS",
			card: base,
			res: RedeemResult{
				Status:    CardStatusSuccess,
				ClaimCode: "CLAIM123",
				PIN:       "9999",
			},
			want:    CardStatusSuccess,
			wantErr: false,
		},
		{
			name: "正常系: UNREDEEMED → PENDING",
			card: base,
			res: RedeemResult{
				Status: CardStatusPending,
			},
			want:    CardStatusPending,
			wantErr: false,
		},
		{
			name: "異常系: SUCCESSからの後退遷移",
			card: func() GiftCard {
				c := base
				c.Status = CardStatusSuccess
				return c
			}(),
			res: RedeemResult{
				Status: CardStatusPending,
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			merged, err := tt.card.WithRedemption(tt.res)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidStatusTransition)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, merged.Status)

			// 既存フィールドはそのまま引き継がれる
			assert.Equal(t, tt.card.InvoiceID, merged.InvoiceID)
			assert.Equal(t, tt.card.AccessKey, merged.AccessKey)
			assert.Equal(t, tt.card.Amount, merged.Amount)
			assert.Equal(t, tt.card.Currency, merged.Currency)
			assert.Equal(t, tt.card.ClientID, merged.ClientID)
			assert.Equal(t, tt.card.Date, merged.Date)
		})
	}
}

func TestGiftCard_WithArchived(t *testing.T) {
	card := GiftCard{
		InvoiceID: "inv123",
		Status:    CardStatusSuccess,
		ClaimCode: "CLAIM123",
		Date:      "2024-01-01T00:00:00Z",
	}

	archived := card.WithArchived(true)
	assert.True(t, archived.Archived)

	restored := archived.WithArchived(false)
	assert.False(t, restored.Archived)

	// アーカイブの往復で他のフィールドは変化しない
	assert.Equal(t, card, restored)
}
