package challenge

import (
	"testing"
	"time"

	"doe_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uintPtr(v uint) *uint { return &v }

func element(id uint, order int, name string, kind model.ElementKind, spec string) model.ChallengeElement {
	e := model.ChallengeElement{
		ChallengeID:   1,
		Order:         order,
		Name:          name,
		Kind:          kind,
		ValueType:     model.ValueText,
		RawOptionSpec: spec,
	}
	e.ID = id
	return e
}

func attempt(id uint, at time.Time, done, secondary bool, answers ...model.ChallengeAnswer) model.ChallengeAttempt {
	for i := range answers {
		answers[i].AttemptID = id
	}
	return model.ChallengeAttempt{ID: id, ChoiceID: 7, SubmittedAt: at, IsDone: done, IsSecondary: secondary, Answers: answers}
}

func answer(id, elementID uint, value string) model.ChallengeAnswer {
	return model.ChallengeAnswer{ID: id, ElementID: elementID, Value: value}
}

func baseChallenge() *model.Challenge {
	c := &model.Challenge{
		Title:              "Budget week",
		MinAnswersRequired: 2,
		Elements: []model.ChallengeElement{
			element(10, 1, "Spent on", model.ElementInput, ""),
			element(11, 2, "Mood", model.ElementRadio, "Good (#00ff00), Bad (#ff0000)"),
			element(12, 3, "Notes", model.ElementMultiline, ""),
		},
	}
	c.ID = 1
	return c
}

func TestProjectWithoutSettingsFallsBackToText(t *testing.T) {
	t0 := time.Date(2025, 4, 1, 10, 0, 0, 0, time.UTC)
	c := baseChallenge()
	choice := &model.ChallengeUserChoice{
		Attempts: []model.ChallengeAttempt{
			attempt(2, t0.Add(time.Hour), false, false, answer(3, 11, "bad")),
			attempt(1, t0, true, false, answer(1, 10, "coffee"), answer(2, 11, " G o o d ")),
		},
	}
	choice.ID = 7

	p := Project(ProjectionInput{Challenge: c, Choice: choice})

	assert.Equal(t, model.DisplayText, p.Mode)
	require.Len(t, p.Attempts, 2)
	assert.Equal(t, uint(1), p.Attempts[0].ID, "attempts ordered by submission time")
	require.NotNil(t, p.Attempts[0].BlockColor)
	assert.Equal(t, "#00ff00", *p.Attempts[0].BlockColor)
	require.NotNil(t, p.Attempts[1].BlockColor)
	assert.Equal(t, "#ff0000", *p.Attempts[1].BlockColor)
	assert.Empty(t, p.Attempts[0].TextDisplay)
	assert.Len(t, p.Filtered, 2)
	assert.Equal(t, 1, p.DoneCount)
	assert.Equal(t, 2, p.MinAnswersRequired)
	assert.True(t, p.SubmitEnabled())
}

func TestProjectTextMode(t *testing.T) {
	c := baseChallenge()
	c.DisplaySettings = &model.ChallengeDisplaySettings{
		DisplayMode: model.DisplayText,
		TextFields: []model.TextFieldOrder{
			{ElementID: 12, Order: 2},
			{ElementID: 11, Order: 1},
		},
		// 非当前模式的配置在渲染时忽略
		TableColumns: []model.TableColumn{{Title: "ignored", Order: 1}},
	}
	choice := &model.ChallengeUserChoice{
		Attempts: []model.ChallengeAttempt{
			attempt(1, time.Now(), true, true, answer(1, 11, "Good")),
		},
	}

	p := Project(ProjectionInput{Challenge: c, Choice: choice})

	require.Len(t, p.Attempts, 1)
	cells := p.Attempts[0].TextDisplay
	require.Len(t, cells, 2)
	assert.Equal(t, "Mood", cells[0].Label)
	assert.Equal(t, "Good", cells[0].Value)
	require.NotNil(t, cells[0].Color)
	assert.Equal(t, "#00ff00", *cells[0].Color)
	assert.Equal(t, "Notes", cells[1].Label)
	assert.Equal(t, Sentinel, cells[1].Value)
	assert.Nil(t, cells[1].Color)
	assert.Nil(t, p.Columns)
	assert.Len(t, p.Filtered, 1, "text mode never filters, secondary included")
}

func TestProjectTableModeFiltering(t *testing.T) {
	c := baseChallenge()
	c.DisplaySettings = &model.ChallengeDisplaySettings{
		DisplayMode:      model.DisplayTable,
		CancelEditDelete: true,
		TableColumns: []model.TableColumn{
			{Title: "Mood", Order: 2, ElementID: uintPtr(11), CancelEditDelete: true},
			{Title: "Custom", Order: 3},
			{Title: "What", Order: 1, ElementID: uintPtr(10)},
		},
	}
	t0 := time.Now()
	choice := &model.ChallengeUserChoice{
		Attempts: []model.ChallengeAttempt{
			attempt(1, t0, true, false, answer(1, 10, "rent"), answer(2, 11, "Bad")),
			attempt(2, t0.Add(time.Second), false, false, answer(3, 12, "only notes")),
			attempt(3, t0.Add(2*time.Second), false, false, answer(4, 10, "   ")),
			attempt(4, t0.Add(3*time.Second), true, true, answer(5, 10, "secondary")),
			attempt(5, t0.Add(4*time.Second), false, false, answer(6, 10, Sentinel)),
		},
	}

	p := Project(ProjectionInput{Challenge: c, Choice: choice})

	require.Len(t, p.Columns, 3)
	assert.Equal(t, "What", p.Columns[0].Title)
	assert.Equal(t, "Mood", p.Columns[1].Title)
	assert.True(t, p.Columns[1].CancelEditDelete)
	assert.Nil(t, p.Columns[2].ElementID)
	assert.True(t, p.CancelEditDelete)

	require.Len(t, p.Attempts, 5)
	first := p.Attempts[0].TableCells
	require.Len(t, first, 3)
	assert.Equal(t, "rent", first[0].Value)
	assert.Nil(t, first[0].Color)
	assert.Equal(t, "Bad", first[1].Value)
	require.NotNil(t, first[1].Color)
	assert.Equal(t, "#ff0000", *first[1].Color)
	assert.Equal(t, Sentinel, first[2].Value)
	assert.Nil(t, first[2].Color)

	// 只有第 1 条满足：非 secondary 且存在非空、非占位的单元格
	require.Len(t, p.Filtered, 1)
	assert.Equal(t, uint(1), p.Filtered[0].ID)
	assert.Equal(t, 2, p.DoneCount)
	assert.False(t, p.SubmitEnabled())
}

func TestProjectWithoutChoice(t *testing.T) {
	p := Project(ProjectionInput{Challenge: baseChallenge()})
	assert.Empty(t, p.Attempts)
	assert.Empty(t, p.Filtered)
	assert.Equal(t, 0, p.DoneCount)
}

func TestProjectBlockColorUsesFirstColoredAnswer(t *testing.T) {
	c := baseChallenge()
	c.Elements = append(c.Elements, element(13, 4, "Energy", model.ElementRadio, "High (#111), Low"))
	choice := &model.ChallengeUserChoice{
		Attempts: []model.ChallengeAttempt{
			attempt(1, time.Now(), false, false,
				answer(1, 13, "Low"),
				answer(2, 11, "unknown"),
				answer(3, 13, "High"),
			),
		},
	}

	p := Project(ProjectionInput{Challenge: c, Choice: choice})

	require.NotNil(t, p.Attempts[0].BlockColor)
	assert.Equal(t, "#111", *p.Attempts[0].BlockColor)
}

func TestFormElements(t *testing.T) {
	c := baseChallenge()
	c.Elements[2].ShowAfterConfirm = true

	form := FormElements(c.Elements, false, map[uint]string{11: "Bad"})
	require.Len(t, form, 2)
	assert.Equal(t, "Spent on", form[0].Name)
	assert.Nil(t, form[0].Options)
	assert.Nil(t, form[0].Value)
	assert.Equal(t, []string{"Good", "Bad"}, Labels(form[1].Options))
	require.NotNil(t, form[1].Value)
	assert.Equal(t, "Bad", *form[1].Value)

	confirm := FormElements(c.Elements, true, nil)
	require.Len(t, confirm, 1)
	assert.Equal(t, "Notes", confirm[0].Name)
}
