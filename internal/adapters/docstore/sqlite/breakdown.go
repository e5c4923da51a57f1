package sqlite

import (
	"encoding/json"
	"fmt"

	"github.com/prixsix/engine/internal/domain/model"
)

// encodePerSlot stores the per-slot breakdown as a JSON array.
func encodePerSlot(perSlot [model.SlotCount]int) ([]byte, error) {
	out, err := json.Marshal(perSlot[:])
	if err != nil {
		return nil, fmt.Errorf("encode breakdown: %w", err)
	}
	return out, nil
}

// decodePerSlot reads the breakdown back into its fixed-size shape.
func decodePerSlot(raw []byte, perSlot *[model.SlotCount]int) error {
	var values []int
	if err := json.Unmarshal(raw, &values); err != nil {
		return fmt.Errorf("decode breakdown: %w", err)
	}
	if len(values) != model.SlotCount {
		return fmt.Errorf("decode breakdown: expected %d values, got %d", model.SlotCount, len(values))
	}
	copy(perSlot[:], values)
	return nil
}
