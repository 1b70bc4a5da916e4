// Package keyword 提供候选文本的关键词抽取：小写化、符号折叠、
// 停用词/纯数字剔除、去重。纯函数、无 I/O、永不报错。
//
// profile（兴趣画像）、filter（负向关键词惩罚）、rank（相关性打分）
// 共用同一套抽取逻辑，保证三个阶段看到的 token 边界一致。
package keyword

import (
	"strings"
	"unicode"
)

// stopWords 是固定的双语停用词表：日语功能词（助词/系词等）与
// 英语冠词/介词/代词/连词。长度 ≤1 的 token 在进表前就被丢弃，
// 因此单字助词（の、が、を…）不需要出现在这里。
var stopWords = map[string]struct{}{}

func init() {
	for _, w := range []string{
		// 日语
		"これ", "それ", "あれ", "この", "その", "あの", "ここ", "そこ",
		"こと", "もの", "ため", "よう", "さん", "ちゃん", "です", "ます",
		"した", "して", "いる", "ある", "する", "なる", "れる", "られる",
		"から", "まで", "など", "という", "について", "において", "による",
		// 英语
		"a", "an", "the", "and", "or", "but", "if", "then", "than",
		"in", "on", "at", "to", "for", "of", "with", "by", "from", "as",
		"is", "are", "was", "were", "be", "been", "being", "am",
		"it", "its", "this", "that", "these", "those",
		"i", "you", "he", "she", "we", "they", "me", "him", "her", "us", "them",
		"my", "your", "his", "our", "their",
		"do", "does", "did", "have", "has", "had",
		"will", "would", "can", "could", "should", "shall", "may", "might",
		"not", "no", "so", "too", "very", "just", "about", "into", "over",
		"after", "before", "between", "out", "up", "down", "off", "all",
		"each", "more", "most", "other", "some", "such", "only", "own", "same",
		"what", "when", "where", "who", "which", "why", "how",
	} {
		stopWords[w] = struct{}{}
	}
}

// Extract 从自由文本中抽取关键词，按首次出现顺序返回去重后的列表。
// 空输入返回空切片。
func Extract(text string) []string {
	if text == "" {
		return nil
	}

	// 小写化后，把非字母数字（符号/标点/括号/空白类）统一折叠为分隔符。
	folded := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return ' '
	}, strings.ToLower(text))

	seen := make(map[string]struct{}, 16)
	out := make([]string, 0, 16)
	for _, tok := range strings.Fields(folded) {
		if len([]rune(tok)) <= 1 {
			continue
		}
		if _, ok := stopWords[tok]; ok {
			continue
		}
		if isNumeric(tok) {
			continue
		}
		if _, ok := seen[tok]; ok {
			continue
		}
		seen[tok] = struct{}{}
		out = append(out, tok)
	}
	return out
}

// Set 与 Extract 相同，但以集合形式返回，便于成员判断。
func Set(text string) map[string]struct{} {
	toks := Extract(text)
	set := make(map[string]struct{}, len(toks))
	for _, t := range toks {
		set[t] = struct{}{}
	}
	return set
}

func isNumeric(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return len(s) > 0
}
