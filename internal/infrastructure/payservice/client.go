package payservice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v5"

	"giftbridge/internal/domain/catalog"
	"giftbridge/internal/domain/giftcard"
	"giftbridge/internal/domain/payservice"
	"giftbridge/internal/infrastructure/config"
	"giftbridge/internal/infrastructure/observability/otel"
)

// Client 上流決済サービスのHTTPクライアント
// インボイス作成・照会・引き換えとカードカタログ取得を提供する
// pollRetryBaseInterval ポーリング失敗後の再試行待ちの初期値
const pollRetryBaseInterval = 2 * time.Second

type Client struct {
	origin            string
	httpClient        *http.Client
	logger            *otel.Logger
	pollRetryInterval time.Duration

	// カタログは起動後ほとんど変化しないためメモリにキャッシュする
	mu      sync.RWMutex
	catalog map[string]catalog.CardConfig
}

// NewClient 新しいClientを作成
func NewClient(cfg *config.PayServiceConfig, logger *otel.Logger) *Client {
	return &Client{
		origin: cfg.Origin,
		httpClient: &http.Client{
			Timeout: cfg.RequestTimeout,
		},
		logger:            logger,
		pollRetryInterval: pollRetryBaseInterval,
	}
}

// createInvoiceRequest インボイス作成リクエストボディ
type createInvoiceRequest struct {
	Brand    string  `json:"brand"`
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
	ClientID string  `json:"clientId"`
	Email    string  `json:"email,omitempty"`
	Token    string  `json:"token,omitempty"`
}

// redeemRequest 引き換えリクエストボディ
type redeemRequest struct {
	ClientID  string `json:"clientId"`
	InvoiceID string `json:"invoiceId"`
	AccessKey string `json:"accessKey"`
}

// CreateInvoice ギフトカード購入用のインボイスを作成
func (c *Client) CreateInvoice(ctx context.Context, params giftcard.InvoiceParams, account *payservice.Account) (*payservice.CreateInvoiceResult, error) {
	reqBody := createInvoiceRequest{
		Brand:    params.Brand,
		Amount:   params.Amount,
		Currency: params.Currency,
		ClientID: params.ClientID,
		Email:    params.Email,
	}
	if account != nil {
		reqBody.Token = account.Token
	}

	var result payservice.CreateInvoiceResult
	if err := c.postJSON(ctx, c.origin+"/api/v2/giftcards/pay", reqBody, &result); err != nil {
		return nil, err
	}
	if result.InvoiceID == "" || result.AccessKey == "" {
		return nil, fmt.Errorf("incomplete invoice response: %w", payservice.ErrServiceUnavailable)
	}
	return &result, nil
}

// GetInvoice インボイス詳細を取得
// 応答はサービス定義のままのJSONとして保持する
func (c *Client) GetInvoice(ctx context.Context, invoiceID string) (json.RawMessage, error) {
	url := fmt.Sprintf("%s/invoices/%s", c.origin, invoiceID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build invoice request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", payservice.ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, payservice.ErrInvoiceNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status %d", payservice.ErrServiceUnavailable, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read invoice response: %w", err)
	}

	// invoiceのスキーマはサービス側都合で変わるため、封筒のdataだけ剥がす
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && len(envelope.Data) > 0 {
		return envelope.Data, nil
	}
	return body, nil
}

// Redeem 支払い済みインボイスをギフトカードへ引き換える
func (c *Client) Redeem(ctx context.Context, card giftcard.GiftCard) (*giftcard.RedeemResult, error) {
	url := fmt.Sprintf("%s/api/v2/giftcards/redeem/%s", c.origin, card.Name)
	reqBody := redeemRequest{
		ClientID:  card.ClientID,
		InvoiceID: card.InvoiceID,
		AccessKey: card.AccessKey,
	}

	var result giftcard.RedeemResult
	if err := c.postJSON(ctx, url, reqBody, &result); err != nil {
		return nil, fmt.Errorf("%w: %v", payservice.ErrRedemptionFailed, err)
	}
	if !result.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", payservice.ErrRedemptionFailed, result.Status)
	}
	return &result, nil
}

// AwaitSettlement 決済イベントをロングポーリングで待ち受ける
// イベント到着まで複数回のポーリングを繰り返し、上位のデッドラインは
// ctxに委ねる
func (c *Client) AwaitSettlement(ctx context.Context, card giftcard.GiftCard) (*payservice.SettlementEvent, error) {
	url := fmt.Sprintf("%s/api/v2/invoices/%s/events?accessKey=%s", c.origin, card.InvoiceID, card.AccessKey)

	// 失敗時は間隔を空けて再試行する。イベントなしの正常応答は
	// ロングポーリングの一巡なので待ちを入れない
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = c.pollRetryInterval

	for {
		event, retryable, err := c.pollSettlement(ctx, url)
		if err != nil {
			if !retryable {
				return nil, err
			}
			c.logger.Warn(ctx, "settlement poll failed, retrying", map[string]interface{}{
				"invoice_id": card.InvoiceID,
				"error":      err.Error(),
			})
			select {
			case <-time.After(bo.NextBackOff()):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
			continue
		}
		bo.Reset()
		if event != nil {
			return event, nil
		}
	}
}

// pollSettlement 1回のロングポーリングを実行
// イベントが来ない場合は(nil, true, nil)を返して再ポーリングさせる
func (c *Client) pollSettlement(ctx context.Context, url string) (*payservice.SettlementEvent, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, false, fmt.Errorf("failed to build settlement request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, false, ctx.Err()
		}
		return nil, true, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		var event payservice.SettlementEvent
		if err := json.NewDecoder(resp.Body).Decode(&event); err != nil {
			return nil, true, fmt.Errorf("failed to decode settlement event: %w", err)
		}
		if event.Status == "" {
			// イベントなしのタイムアウト応答
			return nil, true, nil
		}
		return &event, false, nil
	case http.StatusNoContent, http.StatusRequestTimeout:
		return nil, true, nil
	case http.StatusNotFound:
		return nil, false, payservice.ErrInvoiceNotFound
	case http.StatusGone:
		return nil, false, payservice.ErrSettlementChannelLost
	default:
		return nil, true, fmt.Errorf("unexpected settlement status %d", resp.StatusCode)
	}
}

// InvoiceURL インボイスIDから支払いページURLを返す
func (c *Client) InvoiceURL(invoiceID string) string {
	return fmt.Sprintf("%s/invoice?id=%s&view=popup", c.origin, invoiceID)
}

// FindByBrand ブランド名でカード設定を取得
func (c *Client) FindByBrand(ctx context.Context, brand string) (*catalog.CardConfig, error) {
	c.mu.RLock()
	cfg, ok := c.catalog[brand]
	c.mu.RUnlock()
	if ok {
		return &cfg, nil
	}

	if err := c.refreshCatalog(ctx); err != nil {
		return nil, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	cfg, ok = c.catalog[brand]
	if !ok {
		return nil, catalog.ErrCardConfigNotFound
	}
	return &cfg, nil
}

// FindAll 全カード設定を取得
func (c *Client) FindAll(ctx context.Context) ([]catalog.CardConfig, error) {
	if err := c.refreshCatalog(ctx); err != nil {
		// 取得に失敗してもキャッシュ済みの設定があればそれを返す
		c.mu.RLock()
		cached := len(c.catalog) > 0
		c.mu.RUnlock()
		if !cached {
			return nil, err
		}
		c.logger.Warn(ctx, "catalog refresh failed, serving cached configs", map[string]interface{}{
			"error": err.Error(),
		})
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	configs := make([]catalog.CardConfig, 0, len(c.catalog))
	for _, cfg := range c.catalog {
		configs = append(configs, cfg)
	}
	return configs, nil
}

// refreshCatalog サポート対象カードの設定一覧を取り直す
func (c *Client) refreshCatalog(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.origin+"/api/v2/giftcards/supported", nil)
	if err != nil {
		return fmt.Errorf("failed to build catalog request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", payservice.ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: unexpected catalog status %d", payservice.ErrServiceUnavailable, resp.StatusCode)
	}

	var configs []catalog.CardConfig
	if err := json.NewDecoder(resp.Body).Decode(&configs); err != nil {
		return fmt.Errorf("failed to decode catalog: %w", err)
	}

	indexed := make(map[string]catalog.CardConfig, len(configs))
	for _, cfg := range configs {
		indexed[cfg.Name] = cfg
	}

	c.mu.Lock()
	c.catalog = indexed
	c.mu.Unlock()
	return nil
}

// postJSON リクエストボディをJSONで送り、応答をoutへデコードする
func (c *Client) postJSON(ctx context.Context, url string, body, out interface{}) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", payservice.ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(respBody))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
