package runtime

// MergeFieldSchemas overlays one schema fragment onto another by field name:
// same-named fields replace the base entry in place, new names are appended
// in order. The base slice is left untouched.
func MergeFieldSchemas(base, overlay []*FieldSchema) []*FieldSchema {
	merged := make([]*FieldSchema, len(base))
	copy(merged, base)

	for _, field := range overlay {
		replaced := false
		for i, existing := range merged {
			if existing.Name == field.Name {
				merged[i] = field
				replaced = true
				break
			}
		}
		if !replaced {
			merged = append(merged, field)
		}
	}
	return merged
}
