package common

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"
)

// GenerateUUID 生成 UUID
func GenerateUUID() string {
	return uuid.New().String()
}

// CapitalizeSentence 將每個以空白分隔的字首轉為大寫，並以單一空白重新連接
//
// 其餘字母保持不變，因此 CapitalizeSentence(CapitalizeSentence(s)) == CapitalizeSentence(s)。
func CapitalizeSentence(sentence string) string {
	words := strings.Fields(sentence)
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		if r == utf8.RuneError {
			continue
		}
		words[i] = string(unicode.ToUpper(r)) + w[size:]
	}
	return strings.Join(words, " ")
}

// CapitalizeAll 對切片內每個字串套用 CapitalizeSentence
func CapitalizeAll(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, CapitalizeSentence(item))
	}
	return out
}
