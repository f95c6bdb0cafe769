package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"giftbridge/internal/domain/storage"
)

// KVStore MySQL実装の汎用キーバリューストア
// 値はJSONとしてkv_entriesテーブルに保存される
type KVStore struct {
	db *DB
}

// NewKVStore 新しいKVStoreを作成
func NewKVStore(db *DB) *KVStore {
	return &KVStore{db: db}
}

// Get キーに対応する値をoutへデコード
func (s *KVStore) Get(ctx context.Context, key string, out interface{}) error {
	query := `SELECT v FROM kv_entries WHERE k = ?`

	var raw []byte
	err := s.db.QueryRowContext(ctx, query, key).Scan(&raw)
	if err == sql.ErrNoRows {
		return storage.ErrKeyNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to get key %s: %w", key, err)
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to unmarshal value for key %s: %w", key, err)
	}

	return nil
}

// Set キーに値を保存（全体置き換え）
func (s *KVStore) Set(ctx context.Context, key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value for key %s: %w", key, err)
	}

	query := `
		INSERT INTO kv_entries (k, v, updated_at)
		VALUES (?, ?, NOW())
		ON DUPLICATE KEY UPDATE
			v = VALUES(v),
			updated_at = VALUES(updated_at)
	`

	if _, err := s.db.ExecContext(ctx, query, key, raw); err != nil {
		return fmt.Errorf("failed to set key %s: %w", key, err)
	}

	return nil
}
