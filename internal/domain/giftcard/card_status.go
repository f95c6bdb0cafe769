package giftcard

import (
	"fmt"
)

// CardStatus ギフトカードのステータスを表す値オブジェクト
type CardStatus string

const (
	CardStatusUnredeemed CardStatus = "UNREDEEMED" // 支払い確定前
	CardStatusPending    CardStatus = "PENDING"    // 支払い確認待ち
	CardStatusSuccess    CardStatus = "SUCCESS"    // 引き換え完了
	CardStatusFailure    CardStatus = "FAILURE"    // 引き換え失敗
)

// NewCardStatus 新しいCardStatusを作成
func NewCardStatus(s string) (CardStatus, error) {
	switch s {
	case "UNREDEEMED", "PENDING", "SUCCESS", "FAILURE":
		return CardStatus(s), nil
	default:
		return "", fmt.Errorf("invalid card status: %s", s)
	}
}

// String 文字列表現を返す
func (cs CardStatus) String() string {
	return string(cs)
}

// Valid 有効なカードステータスかどうかを返す
func (cs CardStatus) Valid() bool {
	switch cs {
	case CardStatusUnredeemed, CardStatusPending, CardStatusSuccess, CardStatusFailure:
		return true
	default:
		return false
	}
}

// IsTerminal SUCCESS/FAILUREの終端ステータスかどうかを返す
func (cs CardStatus) IsTerminal() bool {
	return cs == CardStatusSuccess || cs == CardStatusFailure
}

// CanTransitionTo ステータスが前進方向にのみ遷移できるかどうかを返す
// UNREDEEMED → PENDING/SUCCESS/FAILURE、PENDING → SUCCESS/FAILURE のみ許可
func (cs CardStatus) CanTransitionTo(next CardStatus) bool {
	if cs == next {
		return true
	}
	switch cs {
	case CardStatusUnredeemed:
		return next == CardStatusPending || next.IsTerminal()
	case CardStatusPending:
		return next.IsTerminal()
	default:
		return false
	}
}
