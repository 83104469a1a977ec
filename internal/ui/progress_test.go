package ui

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"nbcheck/internal/driver"
)

func TestBoardFraction(t *testing.T) {
	b := newBoard([]string{"a.ipynb", "b.ipynb"})
	assert.Equal(t, 0.0, b.fraction())

	assert.True(t, b.apply(driver.Event{File: "a.ipynb", Stage: driver.StageTranspile, Status: driver.StatusWorking}))
	assert.InDelta(t, 0.25, b.fraction(), 1e-9)

	b.apply(driver.Event{File: "a.ipynb", Stage: driver.StageWrite, Status: driver.StatusDone})
	b.apply(driver.Event{File: "b.ipynb", Stage: driver.StageRead, Status: driver.StatusSkipped})
	assert.InDelta(t, 1.0, b.fraction(), 1e-9)
	assert.Equal(t, "skipped", b.rows[1].label)

	assert.False(t, b.apply(driver.Event{File: "unknown.ipynb", Stage: driver.StageRead, Status: driver.StatusWorking}))
	assert.False(t, b.apply(driver.Event{Stage: driver.StageCheck, Status: driver.StatusWorking}))
	assert.Equal(t, "checking", b.runLabel)
}

func TestViewListsNotebooks(t *testing.T) {
	events := make(chan driver.Event)
	close(events)
	m := NewProgressModel("nbcheck", []string{"a.ipynb"}, events).(*progressModel)
	m.Update(eventMsg(driver.Event{File: "a.ipynb", Stage: driver.StageWrite, Status: driver.StatusWorking}))
	view := m.View()
	assert.Contains(t, view, "writing")
	assert.Contains(t, view, "a.ipynb")
	assert.True(t, strings.Contains(view, "nbcheck"))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcdefg...", truncate("abcdefghijklmnop", 10))
}
