package node

import (
	"strings"
	"unicode/utf8"
)

// ExtractJSONObject 从模型输出中截取第一个完整的 JSON 对象或数组
// 会跳过 markdown 代码块标记和前后说明文字；找不到闭合的值时返回去除首尾空白的原文
func ExtractJSONObject(s string) string {
	raw := strings.TrimSpace(s)
	start := strings.IndexAny(raw, "{[")
	if start < 0 {
		return raw
	}
	if end := matchingClose(raw[start:]); end > 0 {
		return raw[start : start+end+1]
	}
	return raw
}

// matchingClose 返回与首字符配对的闭合括号下标，忽略字符串字面量中的括号
func matchingClose(s string) int {
	depth := 0
	inString, escaped := false, false
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '{', '[':
			depth++
		case '}', ']':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// CleanTitle 去除模型输出中的引号和 markdown 标记，仅保留首行并按字符截断
func CleanTitle(raw string, maxRunes int) string {
	s := strings.TrimSpace(raw)
	if i := strings.IndexAny(s, "\r\n"); i >= 0 {
		s = s[:i]
	}
	s = strings.TrimLeft(s, "#>*-_` ")
	s = strings.NewReplacer("**", "", "__", "", "`", "").Replace(s)
	s = strings.Trim(s, " \t\"'“”‘’「」『』*_")
	return TruncateByRunes(strings.TrimSpace(s), maxRunes)
}

// TruncateByRunes 按字符数截断，不会切断多字节字符
func TruncateByRunes(s string, maxRunes int) string {
	if maxRunes <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= maxRunes {
		return s
	}
	return string([]rune(s)[:maxRunes])
}
