package challenge

import (
	"sort"
	"strings"
	"time"

	"doe_backend/internal/model"
)

// Sentinel 缺失答案时的占位值
const Sentinel = "—"

type Cell struct {
	Label string  `json:"label,omitempty"`
	Value string  `json:"value"`
	Color *string `json:"color"`
}

type AttemptView struct {
	ID           uint      `json:"id"`
	ChoiceID     uint      `json:"choiceId"`
	SubmittedAt  time.Time `json:"submittedAt"`
	IsDone       bool      `json:"isDone"`
	IsSecondary  bool      `json:"isSecondary"`
	ClonedFromID *uint     `json:"clonedFromId,omitempty"`
	BlockColor   *string   `json:"blockColor"`
	TextDisplay  []Cell    `json:"textDisplay,omitempty"`
	TableCells   []Cell    `json:"tableCells,omitempty"`
}

type ColumnView struct {
	Title            string   `json:"title"`
	ElementID        *uint    `json:"elementId,omitempty"`
	CancelEditDelete bool     `json:"cancelEditDelete"`
	CustomValues     []string `json:"customValues,omitempty"`
}

type Projection struct {
	Mode               model.DisplayMode `json:"displayType"`
	Columns            []ColumnView      `json:"columns,omitempty"`
	Attempts           []AttemptView     `json:"attempts"`
	Filtered           []AttemptView     `json:"attemptsFiltered"`
	DoneCount          int               `json:"doneCount"`
	MinAnswersRequired int               `json:"minAnswersRequired"`
	CancelEditDelete   bool              `json:"cancelEditDelete"`
}

// SubmitEnabled 完成数未达到门槛前允许继续提交，是否拦截由调用方决定
func (p Projection) SubmitEnabled() bool {
	return p.DoneCount < p.MinAnswersRequired
}

// ProjectionInput Choice 为 nil 表示用户尚未提交过
type ProjectionInput struct {
	Challenge *model.Challenge
	Choice    *model.ChallengeUserChoice
}

// Project 按挑战的展示配置把原始提交转换为带颜色、有序、可过滤的视图
func Project(in ProjectionInput) Projection {
	elements := in.Challenge.Elements
	elementByID := make(map[uint]model.ChallengeElement, len(elements))
	for _, e := range elements {
		elementByID[e.ID] = e
	}

	layout := LayoutOf(in.Challenge.DisplaySettings, elements)
	p := Projection{
		Mode:               layout.Mode(),
		Attempts:           []AttemptView{},
		Filtered:           []AttemptView{},
		MinAnswersRequired: in.Challenge.MinAnswersRequired,
	}
	if in.Challenge.DisplaySettings != nil {
		p.CancelEditDelete = in.Challenge.DisplaySettings.CancelEditDelete
	}
	if table, ok := layout.(TableLayout); ok {
		p.Columns = make([]ColumnView, 0, len(table.Columns))
		for _, c := range table.Columns {
			cv := ColumnView{Title: c.Title, CancelEditDelete: c.CancelEditDelete, CustomValues: c.CustomValues}
			if c.Element != nil {
				id := c.Element.ID
				cv.ElementID = &id
			}
			p.Columns = append(p.Columns, cv)
		}
	}

	if in.Choice == nil {
		return p
	}

	attempts := append([]model.ChallengeAttempt(nil), in.Choice.Attempts...)
	sort.SliceStable(attempts, func(i, j int) bool {
		if !attempts[i].SubmittedAt.Equal(attempts[j].SubmittedAt) {
			return attempts[i].SubmittedAt.Before(attempts[j].SubmittedAt)
		}
		return attempts[i].ID < attempts[j].ID
	})

	// 同一元素的选项规则只解析一次
	parsed := make(map[uint][]Option)
	optionsOf := func(e model.ChallengeElement) []Option {
		if opts, ok := parsed[e.ID]; ok {
			return opts
		}
		opts := ParseOptions(e.RawOptionSpec)
		parsed[e.ID] = opts
		return opts
	}
	cellColor := func(e model.ChallengeElement, value string) *string {
		if e.Kind != model.ElementRadio {
			return nil
		}
		return ResolveColor(value, optionsOf(e))
	}

	for _, a := range attempts {
		if a.IsDone {
			p.DoneCount++
		}

		answers := append([]model.ChallengeAnswer(nil), a.Answers...)
		sort.SliceStable(answers, func(i, j int) bool { return answers[i].ID < answers[j].ID })
		valueOf := make(map[uint]string, len(answers))
		for _, ans := range answers {
			if _, seen := valueOf[ans.ElementID]; !seen {
				valueOf[ans.ElementID] = ans.Value
			}
		}

		view := AttemptView{
			ID:           a.ID,
			ChoiceID:     a.ChoiceID,
			SubmittedAt:  a.SubmittedAt,
			IsDone:       a.IsDone,
			IsSecondary:  a.IsSecondary,
			ClonedFromID: a.ClonedFromID,
		}

		for _, ans := range answers {
			e, ok := elementByID[ans.ElementID]
			if !ok || e.RawOptionSpec == "" {
				continue
			}
			if color := ResolveColor(ans.Value, optionsOf(e)); color != nil {
				view.BlockColor = color
				break
			}
		}

		switch l := layout.(type) {
		case TextLayout:
			view.TextDisplay = make([]Cell, 0, len(l.Fields))
			for _, f := range l.Fields {
				value, ok := valueOf[f.Element.ID]
				if !ok {
					value = Sentinel
				}
				view.TextDisplay = append(view.TextDisplay, Cell{
					Label: f.Element.Name,
					Value: value,
					Color: cellColor(f.Element, value),
				})
			}
		case TableLayout:
			view.TableCells = make([]Cell, 0, len(l.Columns))
			for _, c := range l.Columns {
				cell := Cell{Value: Sentinel}
				if c.Element != nil {
					if value, ok := valueOf[c.Element.ID]; ok {
						cell.Value = value
					}
					cell.Color = cellColor(*c.Element, cell.Value)
				}
				view.TableCells = append(view.TableCells, cell)
			}
		}

		p.Attempts = append(p.Attempts, view)
	}

	if p.Mode == model.DisplayTable {
		for _, v := range p.Attempts {
			if !v.IsSecondary && hasContent(v.TableCells) {
				p.Filtered = append(p.Filtered, v)
			}
		}
	} else {
		p.Filtered = append(p.Filtered, p.Attempts...)
	}

	return p
}

// hasContent 至少一个单元格去空白后非空且不是占位值。
// 真实答案恰好等于占位值时同样被视为空。
func hasContent(cells []Cell) bool {
	for _, c := range cells {
		v := strings.TrimSpace(c.Value)
		if v != "" && v != Sentinel {
			return true
		}
	}
	return false
}
