package docstore

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/prixsix/engine/internal/domain/model"
)

// DecodeSlots normalizes a stored ranked list into its canonical shape at
// the store-read boundary. Legacy documents encode the six positions either
// as a plain array or as an object keyed P1..P6; nothing past this function
// may branch on storage-shape variants.
func DecodeSlots(raw []byte) ([]string, error) {
	var asList []string
	if err := json.Unmarshal(raw, &asList); err == nil {
		return asList, nil
	}

	var asObject map[string]string
	if err := json.Unmarshal(raw, &asObject); err != nil {
		return nil, fmt.Errorf("undecodable ranked list: %w", err)
	}

	slots := make([]string, model.SlotCount)
	for key, id := range asObject {
		k := strings.ToLower(strings.TrimSpace(key))
		if len(k) != 2 || k[0] != 'p' || k[1] < '1' || k[1] > '0'+model.SlotCount {
			return nil, fmt.Errorf("unexpected ranked list key %q", key)
		}
		slots[k[1]-'1'] = id
	}
	return slots, nil
}

// EncodeSlots stores a ranked list in its canonical array shape.
func EncodeSlots(slots []string) ([]byte, error) {
	out, err := json.Marshal(slots)
	if err != nil {
		return nil, fmt.Errorf("encode ranked list: %w", err)
	}
	return out, nil
}
