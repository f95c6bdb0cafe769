package payservice

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"giftbridge/internal/domain/payservice"
)

// TokenVerifier JWTの有効期限に基づくAccountVerifier実装
type TokenVerifier struct{}

// NewTokenVerifier 新しいTokenVerifierを作成
func NewTokenVerifier() *TokenVerifier {
	return &TokenVerifier{}
}

// Verify アカウントが購入に使える状態かどうかを確認
func (v *TokenVerifier) Verify(account *payservice.Account) error {
	return VerifyAccountToken(account)
}

// VerifyAccountToken アカウントトークンの有効期限を確認する
// 署名検証は発行元サービスの責務であり、ここでは期限切れトークンで
// 購入を始めないためのクライアント側チェックのみを行う
func VerifyAccountToken(account *payservice.Account) error {
	if account == nil || account.Token == "" {
		// 未ログイン購入は許可されている
		return nil
	}

	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(account.Token, claims); err != nil {
		return fmt.Errorf("%w: %v", payservice.ErrAccountTokenExpired, err)
	}

	exp, err := claims.GetExpirationTime()
	if err != nil {
		return fmt.Errorf("%w: %v", payservice.ErrAccountTokenExpired, err)
	}
	if exp != nil && exp.Before(time.Now()) {
		return payservice.ErrAccountTokenExpired
	}
	return nil
}
