package giftcard

import "errors"

var (
	// ErrCardNotFound カードがコレクションに存在しないエラー
	ErrCardNotFound = errors.New("gift card not found")
	// ErrDuplicateCard 同じinvoiceIdのカードが既に存在するエラー
	ErrDuplicateCard = errors.New("gift card already exists")
	// ErrInvalidStatusTransition 後退方向へのステータス遷移エラー
	ErrInvalidStatusTransition = errors.New("invalid card status transition")
	// ErrCardNotPending PENDING以外のカードに対する再引き換えエラー
	ErrCardNotPending = errors.New("gift card is not pending")
	// ErrCardNotArchivable 支払い確定前のカードに対するアーカイブエラー
	ErrCardNotArchivable = errors.New("gift card is not archivable")
)
