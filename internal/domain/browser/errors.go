package browser

import "errors"

// ErrBridgeUnavailable 拡張ホストに到達できないエラー
var ErrBridgeUnavailable = errors.New("browser bridge unavailable")
