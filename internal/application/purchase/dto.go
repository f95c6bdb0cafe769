package purchase

import (
	"giftbridge/internal/domain/giftcard"
	"giftbridge/internal/domain/payservice"
)

// PurchaseRequest ギフトカード購入リクエスト
type PurchaseRequest struct {
	Brand    string
	Amount   float64
	Currency string
	Email    string
	// CurrentMerchant ポップアップを開いているマーチャントページのブランド名
	// 購入ブランドと一致した場合のみクレーム情報の注入を試みる
	CurrentMerchant string
	Account         *payservice.Account
}

// PurchaseResponse ギフトカード購入レスポンス
// Cancelledがtrueの場合、ユーザーは支払い前にウィンドウを閉じており
// Cardはnilになる
type PurchaseResponse struct {
	Card      *giftcard.GiftCard
	Cancelled bool
}
