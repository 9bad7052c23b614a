package node

import "strings"

// 提供商拒绝结构化输出参数时常见的报错片段，每组内的片段需同时出现
var responseFormatMarkers = [][]string{
	{"response_format"},
	{"response_schema"},
	{"json_schema"},
	{"json mode"},
	{"unknown parameter", "response"},
	{"invalid", "response"},
	{"failed to parse"},
}

// IsResponseFormatUnsupportedError 判断错误是否因提供商不支持 JSON 输出模式
// 为真时调用方应去掉 response_format 后重试
func IsResponseFormatUnsupportedError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, group := range responseFormatMarkers {
		matched := true
		for _, m := range group {
			if !strings.Contains(msg, m) {
				matched = false
				break
			}
		}
		if matched {
			return true
		}
	}
	return false
}
