package bit

import "testing"

func TestCombine(t *testing.T) {
	if got := Combine(0xAB, 0xCD); got != 0xABCD {
		t.Errorf("Combine(0xAB, 0xCD) = 0x%04X, want 0xABCD", got)
	}
}

func TestLowHigh(t *testing.T) {
	if got := Low(0xABCD); got != 0xCD {
		t.Errorf("Low(0xABCD) = 0x%02X, want 0xCD", got)
	}
	if got := High(0xABCD); got != 0xAB {
		t.Errorf("High(0xABCD) = 0x%02X, want 0xAB", got)
	}
}

func TestIsSetSetClear(t *testing.T) {
	var v uint8 = 0

	v = Set(3, v)
	if !IsSet(3, v) {
		t.Error("expected bit 3 to be set")
	}
	if v != 0x08 {
		t.Errorf("Set(3, 0) = 0x%02X, want 0x08", v)
	}

	v = Clear(3, v)
	if IsSet(3, v) {
		t.Error("expected bit 3 to be clear")
	}
	if v != 0 {
		t.Errorf("Clear(3, 0x08) = 0x%02X, want 0x00", v)
	}
}

func TestSetTo(t *testing.T) {
	var v uint8 = 0
	v = SetTo(5, v, true)
	if !IsSet(5, v) {
		t.Error("SetTo(5, v, true) did not set bit 5")
	}
	v = SetTo(5, v, false)
	if IsSet(5, v) {
		t.Error("SetTo(5, v, false) did not clear bit 5")
	}
}

func TestExtractBits(t *testing.T) {
	tests := []struct {
		value          uint8
		high, low      uint8
		want           uint8
	}{
		{0b1111_0000, 7, 4, 0b1111},
		{0b1111_0000, 3, 0, 0b0000},
		{0b0110_0000, 6, 5, 0b11},
		{0xFF, 7, 0, 0xFF},
	}
	for _, tt := range tests {
		if got := ExtractBits(tt.value, tt.high, tt.low); got != tt.want {
			t.Errorf("ExtractBits(0x%02X, %d, %d) = 0x%02X, want 0x%02X", tt.value, tt.high, tt.low, got, tt.want)
		}
	}
}
