package document

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuffer_ReplaceDoesNotFireHooks(t *testing.T) {
	b := NewBuffer("start")
	fired := 0
	b.OnLocalEdit(func(string) { fired++ })

	b.Replace("remote")
	assert.Equal(t, "remote", b.Text())
	assert.Zero(t, fired)
}

func TestBuffer_EditFiresHooks(t *testing.T) {
	b := NewBuffer("")
	var got []string
	b.OnLocalEdit(func(text string) { got = append(got, text) })
	b.OnLocalEdit(func(text string) { got = append(got, "second:"+text) })

	b.Edit("hello")
	assert.Equal(t, []string{"hello", "second:hello"}, got)
}

func TestBuffer_Append(t *testing.T) {
	tests := []struct {
		name  string
		start string
		line  string
		want  string
	}{
		{name: "empty document", start: "", line: "first", want: "first"},
		{name: "adds newline", start: "a", line: "b", want: "a\nb"},
		{name: "keeps existing newline", start: "a\n", line: "b", want: "a\nb"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBuffer(tt.start)
			var hooked string
			b.OnLocalEdit(func(text string) { hooked = text })

			b.Append(tt.line)
			assert.Equal(t, tt.want, b.Text())
			assert.Equal(t, tt.want, hooked)
		})
	}
}

func TestBuffer_HookMayReadBuffer(t *testing.T) {
	b := NewBuffer("")
	var seen string
	b.OnLocalEdit(func(string) { seen = b.Text() })

	b.Edit("reentrant")
	assert.Equal(t, "reentrant", seen)
}

func TestBuffer_Concurrent(t *testing.T) {
	b := NewBuffer("")
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			b.Replace("x")
		}()
		go func() {
			defer wg.Done()
			_ = b.Text()
		}()
	}
	wg.Wait()
	assert.Equal(t, "x", b.Text())
}

func TestExport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "note.txt")
	doc := &AdapterMock{TextFunc: func() string { return "  shared note\n\n" }}

	require.NoError(t, Export(doc, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "shared note", string(data))
	assert.Len(t, doc.TextCalls(), 1)
}

func TestExport_Errors(t *testing.T) {
	assert.Error(t, Export(nil, "x"))

	doc := NewBuffer("text")
	assert.Error(t, Export(doc, filepath.Join(t.TempDir(), "missing", "dir", "note.txt")))
}
