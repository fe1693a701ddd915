package util

import (
	"strconv"
	"strings"
)

// MustParseUint 将字符串转换为无符号整数，解析失败时返回 0
func MustParseUint(s string) uint {
	id, _ := strconv.ParseUint(s, 10, 32)
	return uint(id)
}

// FieldAnswers 从表单中提取 "<prefix><id>" 形式的字段，如 field_12 -> {12: value}
func FieldAnswers(form map[string][]string, prefix string) map[uint]string {
	out := make(map[uint]string)
	for key, values := range form {
		if !strings.HasPrefix(key, prefix) || len(values) == 0 {
			continue
		}
		id := MustParseUint(strings.TrimPrefix(key, prefix))
		if id == 0 {
			continue
		}
		out[id] = values[0]
	}
	return out
}
