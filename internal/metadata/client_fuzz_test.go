package metadata

import (
	"encoding/json"
	"testing"
)

func FuzzDecodeSearchResults(f *testing.F) {
	f.Add([]byte(`[{"imdbID":"tt0372784","Title":"Batman Begins"}]`))
	f.Add([]byte(`"False"`))
	f.Add([]byte(`null`))
	f.Add([]byte(`{}`))
	f.Add([]byte(``))
	f.Add([]byte(`[{"imdbID":123}]`))

	f.Fuzz(func(t *testing.T, raw []byte) {
		results := DecodeSearchResults(json.RawMessage(raw))
		if results == nil {
			t.Fatalf("DecodeSearchResults returned nil for %q", raw)
		}
	})
}
