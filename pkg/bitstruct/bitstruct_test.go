package bitstruct

import "testing"

func TestNewZeroInitialized(t *testing.T) {
	v := New(48)
	if v.Width() != 48 {
		t.Fatalf("Width() = %d, want 48", v.Width())
	}
	got, err := v.Uint()
	if err != nil {
		t.Fatalf("Uint() error: %v", err)
	}
	if got != 0 {
		t.Fatalf("new vector not zero: %d", got)
	}
}

func TestSetUintRoundTrip(t *testing.T) {
	cases := []struct {
		width int
		val   uint64
	}{
		{1, 1},
		{8, 0xAB},
		{12, 0xFFF},
		{33, 1 << 32},
		{64, 0xDEADBEEFCAFEF00D},
	}
	for _, tc := range cases {
		v := New(tc.width)
		if err := v.SetUint(tc.val); err != nil {
			t.Fatalf("SetUint(%#x) width %d: %v", tc.val, tc.width, err)
		}
		got, err := v.Uint()
		if err != nil {
			t.Fatalf("Uint() width %d: %v", tc.width, err)
		}
		if got != tc.val {
			t.Fatalf("width %d: got %#x, want %#x", tc.width, got, tc.val)
		}
	}
}

func TestSetUintOverflow(t *testing.T) {
	v := New(4)
	if err := v.SetUint(16); err == nil {
		t.Fatalf("expected overflow error for 16 in 4 bits")
	}
	if err := v.SetUint(15); err != nil {
		t.Fatalf("SetUint(15) in 4 bits: %v", err)
	}
}

func TestBitAccess(t *testing.T) {
	v := New(10)
	if err := v.SetBit(9, true); err != nil {
		t.Fatalf("SetBit(9): %v", err)
	}
	got, err := v.Bit(9)
	if err != nil {
		t.Fatalf("Bit(9): %v", err)
	}
	if !got {
		t.Fatalf("Bit(9) = false after SetBit")
	}
	if _, err := v.Bit(10); err == nil {
		t.Fatalf("expected range error for Bit(10)")
	}
}
