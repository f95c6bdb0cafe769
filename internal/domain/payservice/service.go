package payservice

import (
	"context"
	"encoding/json"

	"giftbridge/internal/domain/giftcard"
)

// Account 決済サービスのアカウント認証情報
// トークンは上流サービスが発行したJWTで、クライアント側では検証せず
// 有効期限の確認のみを行う
type Account struct {
	Email string `json:"email"`
	Token string `json:"token"`
}

// CreateInvoiceResult インボイス作成結果
type CreateInvoiceResult struct {
	InvoiceID     string  `json:"invoiceId"`
	AccessKey     string  `json:"accessKey"`
	TotalDiscount float64 `json:"totalDiscount,omitempty"`
}

// SettlementEvent サーバープッシュされる決済イベント
// Statusが"closed"の場合はユーザーが支払いウィンドウを閉じたことを表す
type SettlementEvent struct {
	Status string `json:"status"`
}

// SettlementStatusClosed 支払い前にウィンドウが閉じられたことを表すステータス
const SettlementStatusClosed = "closed"

// Closed 支払い放棄イベントかどうかを返す
func (e *SettlementEvent) Closed() bool {
	return e.Status == SettlementStatusClosed
}

// InvoiceClient 決済サービスのインボイス・引き換え操作
type InvoiceClient interface {
	// CreateInvoice ギフトカード購入用のインボイスを作成
	CreateInvoice(ctx context.Context, params giftcard.InvoiceParams, account *Account) (*CreateInvoiceResult, error)

	// GetInvoice インボイス詳細を取得
	GetInvoice(ctx context.Context, invoiceID string) (json.RawMessage, error)

	// Redeem 支払い済みインボイスをギフトカードへ引き換える
	Redeem(ctx context.Context, card giftcard.GiftCard) (*giftcard.RedeemResult, error)
}

// SettlementWatcher インボイスの決済イベントを購読するインターフェース
type SettlementWatcher interface {
	// AwaitSettlement 決済イベントを待ち受ける
	// チャネル喪失時はエラーを返し、タイムアウトの扱いは呼び出し側に委ねる
	AwaitSettlement(ctx context.Context, card giftcard.GiftCard) (*SettlementEvent, error)
}

// AccountVerifier 購入前のアカウント認証情報チェック
type AccountVerifier interface {
	// Verify アカウントが購入に使える状態かどうかを確認
	Verify(account *Account) error
}

// PaymentURL インボイスの支払いページURLを構築するインターフェース
type PaymentURL interface {
	// InvoiceURL インボイスIDから支払いページURLを返す
	InvoiceURL(invoiceID string) string
}
