// Package security はアプリケーションのセキュリティ機能を提供する。
//
// ProfileSanitizerService は会員が入力する表示用フィールド
// （ニックネーム等）からマークアップを除去し、
// 保存した値が後段の画面でXSSとして発火することを防ぐ。
// bluemondayのStrictPolicyを使用し、HTMLタグは一切通過させない。
package security

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// ProfileSanitizerService は入力フィールドのサニタイズ機能のインターフェースを定義する。
// 会員登録時の保存前に使用される。
type ProfileSanitizerService interface {
	// Sanitize は入力文字列からHTMLタグをすべて除去した文字列を返す。
	// 前後の空白も取り除く。空文字列の入力には空文字列を返す。
	// 同一入力に対して常に同一出力を返す（冪等）。
	Sanitize(input string) string
}

// profileSanitizer はProfileSanitizerServiceの実装。
// bluemondayのポリシーを保持し、スレッドセーフにサニタイズ処理を行う。
type profileSanitizer struct {
	policy *bluemonday.Policy
}

// NewProfileSanitizer はProfileSanitizerServiceの新しいインスタンスを生成する。
// StrictPolicyはHTML要素を一切許可しないため、
// scriptタグやon*イベント属性を含む入力はテキストのみに正規化される。
func NewProfileSanitizer() *profileSanitizer {
	return &profileSanitizer{
		policy: bluemonday.StrictPolicy(),
	}
}

// Sanitize は入力文字列からHTMLタグをすべて除去した文字列を返す。
func (s *profileSanitizer) Sanitize(input string) string {
	return strings.TrimSpace(s.policy.Sanitize(input))
}
