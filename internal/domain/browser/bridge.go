package browser

import (
	"context"

	"giftbridge/internal/domain/catalog"
)

// ClaimInfo マーチャントページへ注入するクレーム情報
type ClaimInfo struct {
	ClaimCode string `json:"claimCode"`
	PIN       string `json:"pin,omitempty"`
}

// Bridge ブラウザー側の副作用を担う拡張ホストへのインターフェース
type Bridge interface {
	// LaunchPaymentWindow 支払いウィンドウを開く
	// 戻り値はウィンドウが開いたことの確認であり、支払い完了ではない
	LaunchPaymentWindow(ctx context.Context, url string) error

	// OpenTab URLを新しいタブで開く
	OpenTab(ctx context.Context, url string) error

	// InjectClaimInfo 現在のページへクレーム情報を書き込む（ベストエフォート）
	InjectClaimInfo(ctx context.Context, config catalog.CardConfig, claim ClaimInfo) error
}
