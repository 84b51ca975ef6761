package hotkey

import (
	"testing"
)

func TestParseHotkey(t *testing.T) {
	tests := []struct {
		input    string
		expected []string
	}{
		{"Ctrl+Alt+Q", []string{"ctrl", "alt", "q"}},
		{"Ctrl+Shift+O", []string{"ctrl", "shift", "o"}},
		{"Ctrl+alt+e", []string{"ctrl", "alt", "e"}},
		{"Alt+F4", []string{"alt", "f4"}},
		{"Ctrl+Shift+F13", []string{"ctrl", "shift", "f13"}},
		{"Alt+F24", []string{"alt", "f24"}},
		{"Ctrl+Shift+T", []string{"ctrl", "shift", "t"}},
		{"Ctrl+Win+E", []string{"ctrl", "cmd", "e"}},
		{"Win+Shift+S", []string{"cmd", "shift", "s"}},
		{"Super+Alt+T", []string{"cmd", "alt", "t"}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := parseHotkey(tt.input)
			if len(result) != len(tt.expected) {
				t.Errorf("parseHotkey(%q) returned %d keys, expected %d",
					tt.input, len(result), len(tt.expected))
				return
			}
			for i := range result {
				if result[i] != tt.expected[i] {
					t.Errorf("parseHotkey(%q)[%d] = %q, expected %q",
						tt.input, i, result[i], tt.expected[i])
				}
			}
		})
	}
}

func newTestMatcher(t *testing.T, combos map[string]*int) *matcher {
	t.Helper()
	m := &matcher{}
	for combo, count := range combos {
		count := count
		b, err := newBinding(combo, func() { *count++ })
		if err != nil {
			t.Fatalf("newBinding(%q): %v", combo, err)
		}
		m.bindings = append(m.bindings, b)
	}
	return m
}

func press(m *matcher, key string) {
	for _, cb := range m.keyDown(keyNameToRawcodes(key)[0]) {
		cb()
	}
}

func release(m *matcher, key string) {
	m.keyUp(keyNameToRawcodes(key)[0])
}

func TestMatcherFiresOnFullCombo(t *testing.T) {
	var quit, snap int
	m := newTestMatcher(t, map[string]*int{"Ctrl+Alt+Q": &quit, "Ctrl+Alt+S": &snap})

	press(m, "ctrl")
	press(m, "alt")
	if quit != 0 || snap != 0 {
		t.Fatal("fired before the combo was complete")
	}
	press(m, "s")
	if snap != 1 || quit != 0 {
		t.Fatalf("snap=%d quit=%d after Ctrl+Alt+S", snap, quit)
	}
}

func TestMatcherReleaseBreaksCombo(t *testing.T) {
	var n int
	m := newTestMatcher(t, map[string]*int{"Ctrl+Q": &n})
	press(m, "ctrl")
	release(m, "ctrl")
	press(m, "q")
	if n != 0 {
		t.Fatalf("fired %d times with ctrl released", n)
	}
}

func TestMatcherResetsAfterFiring(t *testing.T) {
	var n int
	m := newTestMatcher(t, map[string]*int{"Ctrl+Q": &n})
	press(m, "ctrl")
	press(m, "q")
	press(m, "q")
	if n != 1 {
		t.Fatalf("fired %d times, expected 1 until keys are pressed again", n)
	}
	press(m, "ctrl")
	press(m, "q")
	if n != 2 {
		t.Fatalf("fired %d times, expected 2", n)
	}
}

func TestNewBindingRejectsUnknownKeys(t *testing.T) {
	if _, err := newBinding("Ctrl+Banana", nil); err == nil {
		t.Error("expected error for unknown key")
	}
	if _, err := newBinding("", nil); err == nil {
		t.Error("expected error for empty combo")
	}
}

func TestRegisterAfterStartFails(t *testing.T) {
	l := NewListener()
	l.started = true
	if err := l.Register("Ctrl+Q", func() {}); err == nil {
		t.Error("expected error registering after start")
	}
}

func TestFunctionKeyNumber(t *testing.T) {
	tests := []struct {
		name string
		want int
		ok   bool
	}{
		{"f1", 1, true},
		{"f9", 9, true},
		{"f24", 24, true},
		{"f0", 0, false},
		{"f25", 25, false},
		{"f", 0, false},
		{"fx", 0, false},
		{"f100", 0, false},
		{"home", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, ok := functionKeyNumber(tt.name)
			if ok != tt.ok || (ok && n != tt.want) {
				t.Errorf("functionKeyNumber(%q) = %d, %v; expected %d, %v", tt.name, n, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestEveryAliasHasRawcodes(t *testing.T) {
	for _, combo := range []string{"Ctrl+Alt+Q", "Control+Shift+F5", "Win+Space", "Cmd+PgUp"} {
		if _, err := newBinding(combo, func() {}); err != nil {
			t.Errorf("newBinding(%q): %v", combo, err)
		}
	}
}
