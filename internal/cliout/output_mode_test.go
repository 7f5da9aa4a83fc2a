package cliout

import "testing"

func TestMode_ZeroValueIsNormal(t *testing.T) {
	var m Mode
	if m != ModeNormal {
		t.Errorf("zero value Mode = %v, want ModeNormal", m)
	}
}

func TestFlags_ZeroValue(t *testing.T) {
	var f Flags
	if f.Yes {
		t.Error("zero value Flags.Yes = true, want false")
	}
	if f.Mode != ModeNormal {
		t.Errorf("zero value Flags.Mode = %v, want ModeNormal", f.Mode)
	}
}
