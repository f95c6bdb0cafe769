package catalog

import (
	"fmt"
)

// ClaimCodeType クレームコードの受け渡し方式を表す値オブジェクト
type ClaimCodeType string

const (
	ClaimCodeTypeCode ClaimCodeType = "code" // 画面表示されるコード
	ClaimCodeTypeLink ClaimCodeType = "link" // 直接開くリンク
)

// NewClaimCodeType 新しいClaimCodeTypeを作成
func NewClaimCodeType(s string) (ClaimCodeType, error) {
	switch s {
	case "code", "link":
		return ClaimCodeType(s), nil
	default:
		return "", fmt.Errorf("invalid claim code type: %s", s)
	}
}

// String 文字列表現を返す
func (ct ClaimCodeType) String() string {
	return string(ct)
}

// Valid 有効なクレームコードタイプかどうかを返す
func (ct ClaimCodeType) Valid() bool {
	switch ct {
	case ClaimCodeTypeCode, ClaimCodeTypeLink:
		return true
	default:
		return false
	}
}
