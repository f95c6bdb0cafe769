package catalog

import "errors"

var (
	// ErrCardConfigNotFound カード設定が見つからないエラー
	ErrCardConfigNotFound = errors.New("card config not found")
	// ErrInvalidAmount 購入金額がブランドの許容範囲外エラー
	ErrInvalidAmount = errors.New("invalid amount for card config")
	// ErrNoClaimLink 引き換えリンクを解決できないエラー
	ErrNoClaimLink = errors.New("no claim link available")
)
