package runtime

import "testing"

func TestPrepareOutput(t *testing.T) {
	items := []map[string]any{{"id": 1}, {"id": 2}}

	out := PrepareOutput(items, 2)
	if len(out) != 3 {
		t.Fatalf("len = %d; want 3", len(out))
	}
	for i := 0; i < 2; i++ {
		if out[i] == nil || len(out[i]) != 0 {
			t.Errorf("channel %d = %v; want present but empty", i, out[i])
		}
	}
	if len(out[2]) != 2 || out[2][0]["id"] != 1 {
		t.Errorf("channel 2 = %v; want the items", out[2])
	}
}

func TestPrepareOutput_FirstChannel(t *testing.T) {
	items := []map[string]any{{"ok": true}}
	out := PrepareOutput(items, 0)
	if len(out) != 1 || len(out[0]) != 1 {
		t.Errorf("out = %v; want single channel holding the items", out)
	}
}
