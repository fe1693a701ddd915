package challenge

import (
	"sort"

	"doe_backend/internal/model"
)

// FormElement 表单渲染用的字段：单选元素附带解析后的选项，编辑时附带当前值
type FormElement struct {
	ID        uint              `json:"id"`
	Name      string            `json:"name"`
	Kind      model.ElementKind `json:"kind"`
	ValueType model.ValueType   `json:"valueType"`
	Options   []Option          `json:"options"`
	Value     *string           `json:"value,omitempty"`
}

// SortElements 按 order、id 排序，返回新切片
func SortElements(elements []model.ChallengeElement) []model.ChallengeElement {
	sorted := append([]model.ChallengeElement(nil), elements...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Order != sorted[j].Order {
			return sorted[i].Order < sorted[j].Order
		}
		return sorted[i].ID < sorted[j].ID
	})
	return sorted
}

// FormElements 返回 ShowAfterConfirm 等于 afterConfirm 的字段。values 非空时填充当前值
func FormElements(elements []model.ChallengeElement, afterConfirm bool, values map[uint]string) []FormElement {
	out := make([]FormElement, 0, len(elements))
	for _, e := range SortElements(elements) {
		if e.ShowAfterConfirm != afterConfirm {
			continue
		}
		fe := FormElement{
			ID:        e.ID,
			Name:      e.Name,
			Kind:      e.Kind,
			ValueType: e.ValueType,
		}
		if e.Kind == model.ElementRadio {
			fe.Options = ParseOptions(e.RawOptionSpec)
		}
		if v, ok := values[e.ID]; ok {
			fe.Value = &v
		}
		out = append(out, fe)
	}
	return out
}
