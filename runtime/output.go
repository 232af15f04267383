package runtime

// PrepareOutput arranges result items onto a node's declared output channels:
// every channel before index is present but empty and index holds the items.
// Executors use this to route values to the correct declared output.
func PrepareOutput(items []map[string]any, index int) [][]map[string]any {
	out := make([][]map[string]any, index+1)
	for i := 0; i < index; i++ {
		out[i] = []map[string]any{}
	}
	out[index] = items
	return out
}
