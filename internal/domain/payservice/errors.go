package payservice

import "errors"

var (
	// ErrInvoiceNotFound インボイスが見つからないエラー
	ErrInvoiceNotFound = errors.New("invoice not found")
	// ErrServiceUnavailable 決済サービスに到達できないエラー
	ErrServiceUnavailable = errors.New("pay service unavailable")
	// ErrRedemptionFailed 引き換え呼び出しの失敗エラー
	ErrRedemptionFailed = errors.New("redemption failed")
	// ErrSettlementChannelLost 決済イベントチャネルの喪失エラー
	ErrSettlementChannelLost = errors.New("settlement channel lost")
	// ErrAccountTokenExpired アカウントトークンの有効期限切れエラー
	ErrAccountTokenExpired = errors.New("account token expired")
)
