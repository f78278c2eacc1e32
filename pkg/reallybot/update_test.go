package reallybot

import (
	"encoding/json"
	"testing"

	"github.com/notnil/chess"
)

func TestUpdateCarriesMoveFields(t *testing.T) {
	raw, err := json.Marshal(newUpdate(chess.NewGame()))
	if err != nil {
		t.Fatal(err)
	}
	var m map[string]json.RawMessage
	if err := json.Unmarshal(raw, &m); err != nil {
		t.Fatal(err)
	}
	// clients index um/bm unconditionally; the fields are always present
	for _, key := range []string{"um", "bm"} {
		if _, ok := m[key]; !ok {
			t.Errorf("%s missing from the wire update", key)
		}
	}
}
