package challenge

import (
	"regexp"
	"strings"
	"unicode"
)

// Option 单选项：标签与可选颜色
type Option struct {
	Label string  `json:"label"`
	Color *string `json:"color"`
}

// 与原始配置格式一致："标签 (#颜色)"，括号内 "#" 之后到 ")" 之前的内容原样保留
var optionPattern = regexp.MustCompile(`^(.*?)\s*(\(#([^)]*)\))?$`)

// ParseOptions 解析管理员配置的单选项规则，例如 "Yes (#FF0000), No"。
// 解析不会失败：没有标签的片段直接跳过，其余保持输入顺序。
func ParseOptions(raw string) []Option {
	options := make([]Option, 0)
	if strings.TrimSpace(raw) == "" {
		return options
	}

	for _, token := range strings.Split(raw, ",") {
		token = strings.TrimSpace(token)
		m := optionPattern.FindStringSubmatch(token)
		if m == nil {
			continue
		}
		label := strings.TrimSpace(m[1])
		if label == "" {
			continue
		}

		opt := Option{Label: label}
		if m[3] != "" {
			color := "#" + m[3]
			opt.Color = &color
		}
		options = append(options, opt)
	}
	return options
}

// Labels 仅返回标签列表，供表单渲染
func Labels(options []Option) []string {
	labels := make([]string, len(options))
	for i, o := range options {
		labels[i] = o.Label
	}
	return labels
}

// normalizeLabel 去掉所有空白并转小写，标点保持不变
func normalizeLabel(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

// ResolveColor 返回第一个标签与 value 匹配的选项颜色（可能为 nil）；无匹配返回 nil
func ResolveColor(value string, options []Option) *string {
	target := normalizeLabel(value)
	for _, o := range options {
		if normalizeLabel(o.Label) == target {
			return o.Color
		}
	}
	return nil
}
