package lifecycle

import "giftbridge/internal/domain/giftcard"

// MenuAction カード詳細画面のメニュー操作
// 表示ラベルではなく閉じた列挙で受け取る
type MenuAction string

const (
	MenuActionEditBalance MenuAction = "edit-balance"
	MenuActionArchive     MenuAction = "archive"
	MenuActionUnarchive   MenuAction = "unarchive"
	MenuActionHelp        MenuAction = "help"
)

// ArchiveRequest アーカイブリクエスト
type ArchiveRequest struct {
	InvoiceID string
	// CreatedInSession このビューセッション中に購入されたばかりの
	// レコードかどうか。trueの場合はビューを閉じ、falseの場合は
	// その場で再描画する
	CreatedInSession bool
}

// ArchiveResponse アーカイブレスポンス
type ArchiveResponse struct {
	Card    *giftcard.GiftCard
	Dismiss bool
}

// MenuRequest メニュー操作リクエスト
type MenuRequest struct {
	InvoiceID        string
	Action           MenuAction
	CreatedInSession bool
}

// MenuResponse メニュー操作レスポンス
// Handledがfalseの場合、操作は認識されず状態は変化していない
type MenuResponse struct {
	Card    *giftcard.GiftCard
	Dismiss bool
	Handled bool
}
