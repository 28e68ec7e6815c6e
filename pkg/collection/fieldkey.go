package collection

import (
	"regexp"
	"strings"
)

// well-known labels map to fixed canonical keys
var canonicalFieldKeys = map[string]string{
	"名前":      "name",
	"Name":    "name",
	"年齢":      "age",
	"住所":      "address",
	"電話番号":    "phone",
	"メールアドレス": "email",
	"コメント":    "comment",
	"備考":      "notes",
}

var nonWordChars = regexp.MustCompile(`\W`)

// KeyFor derives the stable storage key for a field label. It must be
// applied identically by the submission writer and by every reader that
// looks up a response value - relabeling a field orphans its old values.
func KeyFor(label string) string {
	if key, ok := canonicalFieldKeys[label]; ok {
		return key
	}
	return strings.ToLower(nonWordChars.ReplaceAllString(label, ""))
}
