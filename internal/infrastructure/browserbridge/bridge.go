package browserbridge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"giftbridge/internal/domain/browser"
	"giftbridge/internal/domain/catalog"
	"giftbridge/internal/infrastructure/config"
	"giftbridge/internal/infrastructure/observability/otel"
)

// Bridge 拡張ホストへコマンドを送るHTTP実装
// ウィンドウ生成・タブ生成・ページへの注入はすべてブラウザー側の
// 拡張ホストが実行し、デーモンはコマンドを送るだけに留める
type Bridge struct {
	origin     string
	httpClient *http.Client
	logger     *otel.Logger
}

// NewBridge 新しいBridgeを作成
func NewBridge(cfg *config.BridgeConfig, logger *otel.Logger) *Bridge {
	return &Bridge{
		origin: cfg.Origin,
		httpClient: &http.Client{
			Timeout: cfg.RequestTimeout,
		},
		logger: logger,
	}
}

// launchCommand 支払いウィンドウ生成コマンド
type launchCommand struct {
	URL string `json:"url"`
}

// injectCommand クレーム情報注入コマンド
type injectCommand struct {
	ClaimCode string                `json:"claimCode"`
	PIN       string                `json:"pin,omitempty"`
	Selectors *catalog.CSSSelectors `json:"cssSelectors,omitempty"`
}

// LaunchPaymentWindow 支払いウィンドウを開く
// 成功はウィンドウが開いたことの確認であり、支払い完了を意味しない
func (b *Bridge) LaunchPaymentWindow(ctx context.Context, url string) error {
	return b.post(ctx, "/commands/launch-payment-window", launchCommand{URL: url})
}

// OpenTab URLを新しいタブで開く
func (b *Bridge) OpenTab(ctx context.Context, url string) error {
	return b.post(ctx, "/commands/open-tab", launchCommand{URL: url})
}

// InjectClaimInfo 現在のページへクレーム情報を書き込む
func (b *Bridge) InjectClaimInfo(ctx context.Context, cardConfig catalog.CardConfig, claim browser.ClaimInfo) error {
	cmd := injectCommand{
		ClaimCode: claim.ClaimCode,
		PIN:       claim.PIN,
		Selectors: cardConfig.CSSSelectors,
	}
	return b.post(ctx, "/commands/inject-claim-info", cmd)
}

// post コマンドを拡張ホストへ送信
func (b *Bridge) post(ctx context.Context, path string, command interface{}) error {
	data, err := json.Marshal(command)
	if err != nil {
		return fmt.Errorf("failed to marshal bridge command: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.origin+path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to build bridge request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", browser.ErrBridgeUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("%w: status %d: %s", browser.ErrBridgeUnavailable, resp.StatusCode, string(body))
	}
	return nil
}
