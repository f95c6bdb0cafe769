package giftcard

import (
	"encoding/json"
	"time"

	"giftbridge/internal/domain/catalog"
)

// GiftCard 購入されたギフトカードのレコード
// ストアにはこのJSON表現がそのまま永続化されるため、フィールド名は
// 保存レイアウトと一致させる
type GiftCard struct {
	InvoiceID     string             `json:"invoiceId"`
	AccessKey     string             `json:"accessKey"`
	Amount        float64            `json:"amount"`
	Currency      string             `json:"currency"`
	ClientID      string             `json:"clientId"`
	Name          string             `json:"name"`
	Status        CardStatus         `json:"status"`
	TotalDiscount float64            `json:"totalDiscount,omitempty"`
	Discounts     []catalog.Discount `json:"discounts,omitempty"`
	ClaimCode     string             `json:"claimCode,omitempty"`
	ClaimLink     string             `json:"claimLink,omitempty"`
	PIN           string             `json:"pin,omitempty"`
	Invoice       json.RawMessage    `json:"invoice,omitempty"`
	Archived      bool               `json:"archived"`
	Date          string             `json:"date"`
}

// InvoiceParams ギフトカード購入インテント
type InvoiceParams struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
	Brand    string  `json:"brand"`
	ClientID string  `json:"clientId"`
	Email    string  `json:"email"`
}

// NewUnredeemedCard インボイス作成直後の暫定レコードを作成
func NewUnredeemedCard(params InvoiceParams, invoiceID, accessKey string, totalDiscount float64) GiftCard {
	return GiftCard{
		InvoiceID:     invoiceID,
		AccessKey:     accessKey,
		Amount:        params.Amount,
		Currency:      params.Currency,
		ClientID:      params.ClientID,
		Name:          params.Brand,
		Status:        CardStatusUnredeemed,
		TotalDiscount: totalDiscount,
		Date:          time.Now().UTC().Format(time.RFC3339),
	}
}

// RedeemResult 引き換え呼び出しの結果
type RedeemResult struct {
	Status    CardStatus `json:"status"`
	ClaimCode string     `json:"claimCode,omitempty"`
	ClaimLink string     `json:"claimLink,omitempty"`
	PIN       string     `json:"pin,omitempty"`
}

// WithRedemption 引き換え結果を重ねた新しいレコードを返す
// 金額・通貨・作成日時などの既存フィールドはそのまま引き継がれる
func (g GiftCard) WithRedemption(res RedeemResult) (GiftCard, error) {
	if !g.Status.CanTransitionTo(res.Status) {
		return GiftCard{}, ErrInvalidStatusTransition
	}
	merged := g
	merged.Status = res.Status
	if res.ClaimCode != "" {
		merged.ClaimCode = res.ClaimCode
	}
	if res.ClaimLink != "" {
		merged.ClaimLink = res.ClaimLink
	}
	if res.PIN != "" {
		merged.PIN = res.PIN
	}
	return merged, nil
}

// WithArchived アーカイブフラグだけを変更した新しいレコードを返す
func (g GiftCard) WithArchived(archived bool) GiftCard {
	merged := g
	merged.Archived = archived
	return merged
}
