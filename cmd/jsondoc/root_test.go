package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"plain", `JSON.GET doc $`, []string{"JSON.GET", "doc", "$"}},
		{"single quotes", `JSON.SET doc $ '{"a":1}'`, []string{"JSON.SET", "doc", "$", `{"a":1}`}},
		{"double quotes with escape", `JSON.GET doc NEWLINE "\n" $`, []string{"JSON.GET", "doc", "NEWLINE", "\n", "$"}},
		{"adjacent quote", `a'b c'd`, []string{"ab cd"}},
		{"tabs", "a\tb", []string{"a", "b"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tokenize(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}

	_, err := tokenize(`JSON.SET doc $ '{"a"`)
	assert.Error(t, err)
	_, err = tokenize(`   `)
	assert.Error(t, err)
}

func TestShellSession(t *testing.T) {
	root := NewRootCmd()
	in := strings.Join([]string{
		`JSON.SET doc $ '{"a":[1,2,3]}'`,
		`JSON.GET doc $.a`,
		`JSON.DEL doc $.a[0]`,
		`JSON.GET doc .a`,
		`JSON.BOGUS`,
		`QUIT`,
	}, "\n")

	var out bytes.Buffer
	root.SetIn(strings.NewReader(in))
	root.SetOut(&out)
	root.SetErr(&out)
	require.NoError(t, root.Execute())

	text := out.String()
	assert.Contains(t, text, "OK")
	assert.Contains(t, text, `"[[1,2,3]]"`)
	assert.Contains(t, text, "(integer) 1")
	assert.Contains(t, text, `"[2,3]"`)
	assert.Contains(t, text, "(error)")
}
