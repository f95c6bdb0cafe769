package handler

import "encoding/json"

// PurchaseRequest ギフトカード購入リクエスト
// @Description ギフトカード購入リクエスト
type PurchaseRequest struct {
	Brand    string  `json:"brand" example:"Amazon.com"`
	Amount   float64 `json:"amount" example:"25"`
	Currency string  `json:"currency" example:"USD"`
	Email    string  `json:"email,omitempty" example:"user@example.com"`
	// CurrentMerchant ポップアップを開いているマーチャントのブランド名
	CurrentMerchant string   `json:"currentMerchant,omitempty" example:"Amazon.com"`
	Account         *Account `json:"account,omitempty"`
}

// Account 決済サービスのアカウント認証情報
// @Description 決済サービスのアカウント認証情報
type Account struct {
	Email string `json:"email" example:"user@example.com"`
	Token string `json:"token"`
}

// PurchaseResponse ギフトカード購入レスポンス
// @Description ギフトカード購入レスポンス
type PurchaseResponse struct {
	Card      *GiftCardResponse `json:"card,omitempty"`
	Cancelled bool              `json:"cancelled"`
}

// GiftCardResponse ギフトカードレスポンス
// @Description ギフトカードレコード
type GiftCardResponse struct {
	InvoiceID     string          `json:"invoiceId" example:"inv_abc123"`
	Amount        float64         `json:"amount" example:"25"`
	Currency      string          `json:"currency" example:"USD"`
	ClientID      string          `json:"clientId"`
	Name          string          `json:"name" example:"Amazon.com"`
	Status        string          `json:"status" example:"SUCCESS"`
	TotalDiscount float64         `json:"totalDiscount,omitempty" example:"1.25"`
	ClaimCode     string          `json:"claimCode,omitempty"`
	ClaimLink     string          `json:"claimLink,omitempty"`
	PIN           string          `json:"pin,omitempty"`
	Invoice       json.RawMessage `json:"invoice,omitempty"`
	Archived      bool            `json:"archived"`
	Date          string          `json:"date" example:"2026-08-30T10:00:00Z"`
}
