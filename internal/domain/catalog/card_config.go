package catalog

// Discount ブランドごとの割引レート
type Discount struct {
	Code   string  `json:"code,omitempty"`
	Type   string  `json:"type"` // "percentage" または "flatrate"
	Amount float64 `json:"amount"`
}

// CSSSelectors マーチャントサイトへのクレーム情報注入に使うセレクター
type CSSSelectors struct {
	OrderTotal     []string `json:"orderTotal,omitempty"`
	ClaimCodeInput []string `json:"claimCodeInput,omitempty"`
	PinInput       []string `json:"pinInput,omitempty"`
}

// CardConfig ブランドごとの静的なギフトカード設定
// 上流のカタログAPIから取得され、オーケストレーターからは読み取り専用
type CardConfig struct {
	Name                 string        `json:"name"`
	Currency             string        `json:"currency"`
	MinAmount            float64       `json:"minAmount,omitempty"`
	MaxAmount            float64       `json:"maxAmount,omitempty"`
	SupportedAmounts     []float64     `json:"supportedAmounts,omitempty"`
	RedeemURL            string        `json:"redeemUrl,omitempty"`
	DefaultClaimCodeType ClaimCodeType `json:"defaultClaimCodeType"`
	CSSSelectors         *CSSSelectors `json:"cssSelectors,omitempty"`
	Discounts            []Discount    `json:"discounts,omitempty"`
}

// IsAmountValid 要求金額がこのブランドで購入可能かどうかを返す
// 固定額面が定義されている場合は額面の一致、それ以外は範囲で判定する
func (c *CardConfig) IsAmountValid(amount float64) bool {
	if amount <= 0 {
		return false
	}
	if len(c.SupportedAmounts) > 0 {
		for _, supported := range c.SupportedAmounts {
			if amount == supported {
				return true
			}
		}
		return false
	}
	if c.MinAmount > 0 && amount < c.MinAmount {
		return false
	}
	if c.MaxAmount > 0 && amount > c.MaxAmount {
		return false
	}
	return true
}

// SupportsInjection クレーム情報のページ注入に対応しているかどうかを返す
func (c *CardConfig) SupportsInjection() bool {
	return c.CSSSelectors != nil && len(c.CSSSelectors.ClaimCodeInput) > 0
}

// HasRedeemAction 引き換え導線（リンクまたはURL構築）を持つかどうかを返す
func (c *CardConfig) HasRedeemAction() bool {
	return c.RedeemURL != "" || c.DefaultClaimCodeType == ClaimCodeTypeLink
}
