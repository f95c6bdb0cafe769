package giftcard

import "context"

// CardRepository ギフトカードコレクションのリポジトリインターフェース
// 3操作ともコレクション全体への書き込みを直列化し、書き込み後の
// 完全なコレクションを呼び出し元へ返す
type CardRepository interface {
	// List コレクション全体を取得
	List(ctx context.Context) ([]GiftCard, error)

	// FindByInvoiceID invoiceIdでカードを取得
	FindByInvoiceID(ctx context.Context, invoiceID string) (*GiftCard, error)

	// Append 新しいカードを追加（invoiceId重複はエラー）
	Append(ctx context.Context, card GiftCard) ([]GiftCard, error)

	// Merge 同じinvoiceIdのカードを更新後のレコードで置き換える
	// 他のカードには触れない
	Merge(ctx context.Context, card GiftCard) ([]GiftCard, error)

	// Remove invoiceIdが一致するカードを取り除く
	Remove(ctx context.Context, card GiftCard) ([]GiftCard, error)
}
