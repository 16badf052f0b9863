package repo

import "encoding/json"

// fields that a patch may never override
var protectedFields = []string{"id", "created_at", "created_by"}

// mergePatch applies a flat JSON-style patch to rec by round-tripping
// through the entity's JSON shape. Keys absent from the patch keep their
// current values; explicit nulls clear optional fields.
func mergePatch[T any](rec T, patch map[string]any) (T, error) {
	var out T
	raw, err := json.Marshal(rec)
	if err != nil {
		return out, err
	}
	base := map[string]any{}
	if err := json.Unmarshal(raw, &base); err != nil {
		return out, err
	}
	orig := map[string]any{}
	if err := json.Unmarshal(raw, &orig); err != nil {
		return out, err
	}
	for k, v := range patch {
		base[k] = v
	}
	for _, k := range protectedFields {
		if v, ok := orig[k]; ok {
			base[k] = v
		}
	}
	merged, err := json.Marshal(base)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(merged, &out); err != nil {
		return out, err
	}
	return out, nil
}
