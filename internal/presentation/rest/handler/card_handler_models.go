package handler

import "giftbridge/internal/domain/giftcard"

// ErrorResponse エラーレスポンス
// @Description エラーレスポンス
type ErrorResponse struct {
	Error   string `json:"error" example:"card_not_found"`
	Message string `json:"message" example:"gift card not found"`
}

// ListCardsResponse カード一覧レスポンス
// @Description カード一覧レスポンス
type ListCardsResponse struct {
	Cards []GiftCardResponse `json:"cards"`
}

// ArchiveRequest アーカイブリクエスト
// @Description アーカイブリクエスト
type ArchiveRequest struct {
	// CreatedInSession このビューセッション中に購入したばかりのレコードか
	CreatedInSession bool `json:"createdInSession"`
}

// ArchiveResponse アーカイブレスポンス
// @Description アーカイブレスポンス
type ArchiveResponse struct {
	Card    *GiftCardResponse `json:"card"`
	Dismiss bool              `json:"dismiss"`
}

// MenuRequest メニュー操作リクエスト
// @Description メニュー操作リクエスト
type MenuRequest struct {
	Action           string `json:"action" example:"archive" enums:"edit-balance,archive,unarchive,help"`
	CreatedInSession bool   `json:"createdInSession"`
}

// MenuResponse メニュー操作レスポンス
// @Description メニュー操作レスポンス
type MenuResponse struct {
	Card    *GiftCardResponse `json:"card,omitempty"`
	Dismiss bool              `json:"dismiss"`
	Handled bool              `json:"handled"`
}

// toGiftCardResponse ドメインのレコードをAPIレスポンスへ変換
// accessKeyは上流とのやり取り専用のためAPIには出さない
func toGiftCardResponse(card *giftcard.GiftCard) *GiftCardResponse {
	if card == nil {
		return nil
	}
	return &GiftCardResponse{
		InvoiceID:     card.InvoiceID,
		Amount:        card.Amount,
		Currency:      card.Currency,
		ClientID:      card.ClientID,
		Name:          card.Name,
		Status:        card.Status.String(),
		TotalDiscount: card.TotalDiscount,
		ClaimCode:     card.ClaimCode,
		ClaimLink:     card.ClaimLink,
		PIN:           card.PIN,
		Invoice:       card.Invoice,
		Archived:      card.Archived,
		Date:          card.Date,
	}
}

// toGiftCardResponses スライス版の変換
func toGiftCardResponses(cards []giftcard.GiftCard) []GiftCardResponse {
	responses := make([]GiftCardResponse, len(cards))
	for i := range cards {
		responses[i] = *toGiftCardResponse(&cards[i])
	}
	return responses
}
