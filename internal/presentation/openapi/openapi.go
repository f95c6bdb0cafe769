// Package openapi ローカルAPIのOpenAPI仕様をバイナリへ埋め込む
package openapi

import _ "embed"

// Spec OpenAPI仕様（YAML）
//
//go:embed openapi.yaml
var Spec []byte
