package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"giftbridge/internal/domain/giftcard"
)

// cardCollectionKey ギフトカードコレクションの保存キー
const cardCollectionKey = "purchasedGiftCards"

// CardRepository MySQL実装のCardRepository
// コレクション全体をひとつのキーの下にJSONで保持し、書き込みは
// SELECT ... FOR UPDATE付きのトランザクションで直列化する
// 並行する購入同士のlost updateを防ぐ
type CardRepository struct {
	db        *DB
	txManager *TransactionManager
}

// NewCardRepository 新しいCardRepositoryを作成
func NewCardRepository(db *DB, txManager *TransactionManager) *CardRepository {
	return &CardRepository{db: db, txManager: txManager}
}

// List コレクション全体を取得
func (r *CardRepository) List(ctx context.Context) ([]giftcard.GiftCard, error) {
	query := `SELECT v FROM kv_entries WHERE k = ?`

	var raw []byte
	err := r.db.QueryRowContext(ctx, query, cardCollectionKey).Scan(&raw)
	if err == sql.ErrNoRows {
		return []giftcard.GiftCard{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load card collection: %w", err)
	}

	var cards []giftcard.GiftCard
	if err := json.Unmarshal(raw, &cards); err != nil {
		return nil, fmt.Errorf("failed to unmarshal card collection: %w", err)
	}
	if cards == nil {
		cards = []giftcard.GiftCard{}
	}
	return cards, nil
}

// FindByInvoiceID invoiceIdでカードを取得
func (r *CardRepository) FindByInvoiceID(ctx context.Context, invoiceID string) (*giftcard.GiftCard, error) {
	cards, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range cards {
		if cards[i].InvoiceID == invoiceID {
			card := cards[i]
			return &card, nil
		}
	}
	return nil, giftcard.ErrCardNotFound
}

// Append 新しいカードを追加
func (r *CardRepository) Append(ctx context.Context, card giftcard.GiftCard) ([]giftcard.GiftCard, error) {
	return r.mutate(ctx, func(cards []giftcard.GiftCard) ([]giftcard.GiftCard, error) {
		for i := range cards {
			if cards[i].InvoiceID == card.InvoiceID {
				return nil, giftcard.ErrDuplicateCard
			}
		}
		return append(cards, card), nil
	})
}

// Merge 同じinvoiceIdのカードを更新後のレコードで置き換える
func (r *CardRepository) Merge(ctx context.Context, card giftcard.GiftCard) ([]giftcard.GiftCard, error) {
	return r.mutate(ctx, func(cards []giftcard.GiftCard) ([]giftcard.GiftCard, error) {
		for i := range cards {
			if cards[i].InvoiceID == card.InvoiceID {
				cards[i] = card
				return cards, nil
			}
		}
		return nil, giftcard.ErrCardNotFound
	})
}

// Remove invoiceIdが一致するカードを取り除く
func (r *CardRepository) Remove(ctx context.Context, card giftcard.GiftCard) ([]giftcard.GiftCard, error) {
	return r.mutate(ctx, func(cards []giftcard.GiftCard) ([]giftcard.GiftCard, error) {
		filtered := make([]giftcard.GiftCard, 0, len(cards))
		for i := range cards {
			if cards[i].InvoiceID != card.InvoiceID {
				filtered = append(filtered, cards[i])
			}
		}
		return filtered, nil
	})
}

// mutate コレクションへの読み取り・変更・書き込みを1トランザクションで実行
func (r *CardRepository) mutate(
	ctx context.Context,
	fn func([]giftcard.GiftCard) ([]giftcard.GiftCard, error),
) ([]giftcard.GiftCard, error) {
	var result []giftcard.GiftCard

	err := r.txManager.WithTransaction(ctx, func(tx *sql.Tx) error {
		// 行ロックを取得して並行書き込みを直列化する
		selectQuery := `SELECT v FROM kv_entries WHERE k = ? FOR UPDATE`

		var raw []byte
		var cards []giftcard.GiftCard
		err := tx.QueryRowContext(ctx, selectQuery, cardCollectionKey).Scan(&raw)
		switch {
		case err == sql.ErrNoRows:
			// 初回購入時はコレクションが存在しない
		case err != nil:
			return fmt.Errorf("failed to lock card collection: %w", err)
		default:
			if err := json.Unmarshal(raw, &cards); err != nil {
				return fmt.Errorf("failed to unmarshal card collection: %w", err)
			}
		}

		updated, err := fn(cards)
		if err != nil {
			return err
		}
		if updated == nil {
			updated = []giftcard.GiftCard{}
		}

		data, err := json.Marshal(updated)
		if err != nil {
			return fmt.Errorf("failed to marshal card collection: %w", err)
		}

		upsertQuery := `
			INSERT INTO kv_entries (k, v, updated_at)
			VALUES (?, ?, NOW())
			ON DUPLICATE KEY UPDATE
				v = VALUES(v),
				updated_at = VALUES(updated_at)
		`
		if _, err := tx.ExecContext(ctx, upsertQuery, cardCollectionKey, data); err != nil {
			return fmt.Errorf("failed to save card collection: %w", err)
		}

		result = updated
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}
