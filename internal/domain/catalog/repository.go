package catalog

import "context"

// CardConfigRepository カード設定リポジトリインターフェース
type CardConfigRepository interface {
	// FindByBrand ブランド名でカード設定を取得
	FindByBrand(ctx context.Context, brand string) (*CardConfig, error)

	// FindAll 全カード設定を取得
	FindAll(ctx context.Context) ([]CardConfig, error)
}
