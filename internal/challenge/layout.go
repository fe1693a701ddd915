package challenge

import (
	"sort"

	"doe_backend/internal/model"
)

// Layout 展示配置的两种形态：TextLayout 或 TableLayout。
// 持久化层同时保存两组配置，读取时只取 DisplayMode 对应的一组。
type Layout interface {
	Mode() model.DisplayMode
}

type TextField struct {
	Order   int
	Element model.ChallengeElement
}

type TextLayout struct {
	Fields []TextField
}

func (TextLayout) Mode() model.DisplayMode { return model.DisplayText }

// Column Element 为 nil 表示静态列
type Column struct {
	Order            int
	Title            string
	Element          *model.ChallengeElement
	CancelEditDelete bool
	CustomValues     []string
}

type TableLayout struct {
	Columns []Column
}

func (TableLayout) Mode() model.DisplayMode { return model.DisplayTable }

// LayoutOf 将持久化的展示配置折叠为 Layout。settings 为空时退化为无字段的文本模式。
// 引用了不存在元素的文本字段会被忽略，表格列则退化为静态列。
func LayoutOf(settings *model.ChallengeDisplaySettings, elements []model.ChallengeElement) Layout {
	if settings == nil {
		return TextLayout{}
	}

	byID := make(map[uint]model.ChallengeElement, len(elements))
	for _, e := range elements {
		byID[e.ID] = e
	}

	if settings.DisplayMode == model.DisplayTable {
		rows := append([]model.TableColumn(nil), settings.TableColumns...)
		sort.SliceStable(rows, func(i, j int) bool {
			if rows[i].Order != rows[j].Order {
				return rows[i].Order < rows[j].Order
			}
			return rows[i].ID < rows[j].ID
		})

		columns := make([]Column, 0, len(rows))
		for _, r := range rows {
			col := Column{
				Order:            r.Order,
				Title:            r.Title,
				CancelEditDelete: r.CancelEditDelete,
				CustomValues:     []string(r.CustomValues),
			}
			if r.ElementID != nil {
				if e, ok := byID[*r.ElementID]; ok {
					col.Element = &e
				}
			}
			columns = append(columns, col)
		}
		return TableLayout{Columns: columns}
	}

	rows := append([]model.TextFieldOrder(nil), settings.TextFields...)
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Order != rows[j].Order {
			return rows[i].Order < rows[j].Order
		}
		return rows[i].ID < rows[j].ID
	})

	fields := make([]TextField, 0, len(rows))
	for _, r := range rows {
		e, ok := byID[r.ElementID]
		if !ok {
			continue
		}
		fields = append(fields, TextField{Order: r.Order, Element: e})
	}
	return TextLayout{Fields: fields}
}
