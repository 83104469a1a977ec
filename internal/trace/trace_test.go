package trace

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	for _, s := range []string{"off", "error", "phase", "detail", "debug"} {
		lvl, err := ParseLevel(s)
		require.NoError(t, err)
		assert.Equal(t, s, lvl.String())
	}
	_, err := ParseLevel("loud")
	assert.Error(t, err)
}

func TestLevelFiltersScopes(t *testing.T) {
	assert.True(t, LevelPhase.ShouldEmit(ScopeStage))
	assert.False(t, LevelPhase.ShouldEmit(ScopeNotebook))
	assert.True(t, LevelDetail.ShouldEmit(ScopeNotebook))
	assert.False(t, LevelDetail.ShouldEmit(ScopeCell))
	assert.True(t, LevelDebug.ShouldEmit(ScopeCell))
	assert.False(t, LevelError.ShouldEmit(ScopeRun))
}

func TestNewOffIsNop(t *testing.T) {
	tr, err := New(Config{Level: LevelOff})
	require.NoError(t, err)
	assert.False(t, tr.Enabled())
	assert.Equal(t, uint64(0), Begin(tr, ScopeRun, "x", 0).ID())
}

func TestSpansNDJSON(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelDetail, FormatNDJSON)
	ctx := WithTracer(context.Background(), tr)

	ctx, stage := Start(ctx, ScopeStage, "convert")
	_, nb := Start(ctx, ScopeNotebook, "notebook:a.ipynb")
	_, cell := Start(ctx, ScopeCell, "cell:1")
	cell.End("")
	nb.WithExtra("cells", "3").End("ok")
	stage.End("")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)

	var events []jsonEvent
	for _, l := range lines {
		var ev jsonEvent
		require.NoError(t, json.Unmarshal([]byte(l), &ev))
		events = append(events, ev)
	}
	assert.Equal(t, "begin", events[0].Kind)
	assert.Equal(t, "convert", events[0].Name)
	assert.Equal(t, events[0].SpanID, events[1].ParentID)
	assert.Equal(t, "end", events[2].Kind)
	assert.Equal(t, map[string]string{"cells": "3"}, events[2].Extra)
	assert.Equal(t, "ok", events[2].Detail)
}

func TestErrorPassesErrorLevel(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelError, FormatText)
	Point(tr, ScopeRun, "ignored", "", 0)
	Error(tr, ScopeNotebook, "notebook:x", errors.New("boom"), 0)
	assert.Equal(t, 1, strings.Count(buf.String(), "\n"))
	assert.Contains(t, buf.String(), "! notebook:x (boom)")
}

func TestFromContextDefaultsToNop(t *testing.T) {
	assert.Equal(t, Nop, FromContext(context.Background()))
	assert.Equal(t, uint64(0), ParentID(context.Background()))
}
