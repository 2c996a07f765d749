package loader_test

import (
	"bytes"
	"testing"

	"github.com/vanderheijden86/canopy/pkg/loader"
)

// FuzzParseJSON ensures arbitrary input never panics and that every parsed
// item keeps a non-empty id.
func FuzzParseJSON(f *testing.F) {
	f.Add([]byte(`{"items":[{"id":"a","children":[{"id":"b"},{"ref":"a"}]}]}`))
	f.Add([]byte(`{"roots":["x"],"items":[]}`))
	f.Add([]byte(`{"items":[{"id":""}]}`))
	f.Add([]byte(`not json`))
	f.Add([]byte{})

	f.Fuzz(func(t *testing.T, data []byte) {
		forest, err := loader.ParseJSON(bytes.NewReader(data), loader.ParseOptions{WarningHandler: func(string) {}})
		if err != nil {
			return
		}
		for _, id := range forest.IDs() {
			if id == "" {
				t.Fatal("parsed an item with an empty id")
			}
		}
	})
}

func FuzzParseYAML(f *testing.F) {
	f.Add([]byte("items:\n  - id: a\n    children:\n      - id: b\n"))
	f.Add([]byte("roots: [a]\n"))
	f.Add([]byte(":\n- - ["))

	f.Fuzz(func(t *testing.T, data []byte) {
		_, _ = loader.ParseYAML(bytes.NewReader(data), loader.ParseOptions{WarningHandler: func(string) {}})
	})
}
