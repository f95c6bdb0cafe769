package handler

// EmailResponse メールアドレスレスポンス
// @Description メールアドレスレスポンス
type EmailResponse struct {
	Email string `json:"email" example:"user@example.com"`
}

// SetEmailRequest メールアドレス保存リクエスト
// @Description メールアドレス保存リクエスト
type SetEmailRequest struct {
	Email string `json:"email" example:"user@example.com"`
}

// SupportedCardResponse 購入可能ブランドのレスポンス
// @Description 購入可能ブランドの設定
type SupportedCardResponse struct {
	Name                 string    `json:"name" example:"Amazon.com"`
	Currency             string    `json:"currency" example:"USD"`
	MinAmount            float64   `json:"minAmount,omitempty" example:"1"`
	MaxAmount            float64   `json:"maxAmount,omitempty" example:"500"`
	SupportedAmounts     []float64 `json:"supportedAmounts,omitempty"`
	DefaultClaimCodeType string    `json:"defaultClaimCodeType" example:"code"`
	// HasRedeemAction 引き換えボタンを出せるブランドかどうか
	HasRedeemAction bool `json:"hasRedeemAction"`
}

// ListSupportedCardsResponse 購入可能ブランド一覧レスポンス
// @Description 購入可能ブランド一覧レスポンス
type ListSupportedCardsResponse struct {
	SupportedCards []SupportedCardResponse `json:"supportedCards"`
}
