package storage

import (
	"context"
	"errors"
)

// ErrKeyNotFound キーが存在しないエラー
var ErrKeyNotFound = errors.New("key not found")

// Store 汎用キーバリューストアインターフェース
// 値はJSONとして永続化される
type Store interface {
	// Get キーに対応する値をoutへデコード
	Get(ctx context.Context, key string, out interface{}) error

	// Set キーに値を保存（全体置き換え）
	Set(ctx context.Context, key string, value interface{}) error
}
