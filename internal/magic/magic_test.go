package magic

import (
	"testing"
)

func TestTransform(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"x = 1", "x = 1"},
		{"!ls -la", "get_ipython().system('ls -la')"},
		{"!!ls", "get_ipython().getoutput('ls')"},
		{"!echo 'hi'", `get_ipython().system("echo 'hi'")`},
		{"%matplotlib inline", "get_ipython().run_line_magic('matplotlib', 'inline')"},
		{"%load_ext autoreload", "get_ipython().run_line_magic('load_ext', 'autoreload')"},
		{"%time", "get_ipython().run_line_magic('time', '')"},
		{"%%timeit -n 10", "get_ipython().run_cell_magic('timeit', '-n 10', '')"},
		{"?print", "get_ipython().run_line_magic('pinfo', 'print')"},
		{"print?", "get_ipython().run_line_magic('pinfo', 'print')"},
		{"print??", "get_ipython().run_line_magic('pinfo2', 'print')"},
		{"??print", "get_ipython().run_line_magic('pinfo2', 'print')"},
		{"np.*load*?", "get_ipython().run_line_magic('psearch', 'np.*load*')"},
		{"?", "get_ipython().show_usage()"},
	}
	var tr IPython
	for _, tt := range tests {
		if got := tr.Transform(tt.in); got != tt.want {
			t.Errorf("Transform(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestUsesSession(t *testing.T) {
	var tr IPython
	if !UsesSession(tr.Transform("!pip install x")) {
		t.Error("shell escape should need the session")
	}
	if UsesSession(tr.Transform("import os")) {
		t.Error("plain code should not need the session")
	}
}

func TestPyRepr(t *testing.T) {
	tests := map[string]string{
		``:         `''`,
		`a`:        `'a'`,
		`it's`:     `"it's"`,
		`"q" 'x'`:  `'"q" \'x\''`,
		"a\\b":     `'a\\b'`,
		"tab\there": `'tab\there'`,
		"\x01":     `'\x01'`,
		"ünï":      `'ünï'`,
	}
	for in, want := range tests {
		if got := pyRepr(in); got != want {
			t.Errorf("pyRepr(%q) = %s, want %s", in, got, want)
		}
	}
}
