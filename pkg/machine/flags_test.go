package machine

import "testing"

func TestZSPTableZero(t *testing.T) {
	var f Flags
	f.SetZSP(0)
	if !f.Z {
		t.Error("SetZSP(0) should set Z")
	}
	if f.S {
		t.Error("SetZSP(0) should not set S")
	}
	if !f.P {
		t.Error("SetZSP(0) should set P (zero has even parity)")
	}
}

func TestZSPTableSign(t *testing.T) {
	var f Flags
	f.SetZSP(0x80)
	if !f.S {
		t.Error("SetZSP(0x80) should set S")
	}
	if f.Z {
		t.Error("SetZSP(0x80) should not set Z")
	}
}

func TestZSPTableParity(t *testing.T) {
	var f Flags
	f.SetZSP(0x01)
	if f.P {
		t.Error("SetZSP(0x01) should clear P (odd parity)")
	}
	f.SetZSP(0xFF)
	if !f.P {
		t.Error("SetZSP(0xFF) should set P (even parity)")
	}
}

func TestZSPDoesNotTouchCYAC(t *testing.T) {
	f := Flags{CY: true, AC: true}
	f.SetZSP(0x05)
	if !f.CY || !f.AC {
		t.Error("SetZSP must not modify CY or AC")
	}
}

func TestPSWRoundTrip(t *testing.T) {
	cases := []Flags{
		{S: true, Z: false, P: true, CY: true, AC: false, K: true, V: false},
		{S: false, Z: true, P: false, CY: false, AC: true, K: false, V: true},
		{},
	}
	for _, want := range cases {
		b := want.PSW()
		var got Flags
		got.SetPSW(b)
		if got != want {
			t.Errorf("PSW round trip: want %+v, got %+v (byte %02X)", want, got, b)
		}
	}
}

func TestPSWBitLayout(t *testing.T) {
	f := Flags{S: true}
	if f.PSW() != 0x80 {
		t.Errorf("S alone should encode to 0x80, got %02X", f.PSW())
	}
	f = Flags{CY: true}
	if f.PSW() != 0x01 {
		t.Errorf("CY alone should encode to 0x01, got %02X", f.PSW())
	}
	f = Flags{K: true}
	if f.PSW() != 0x20 {
		t.Errorf("K alone should encode to 0x20, got %02X", f.PSW())
	}
}

func TestFlagByName(t *testing.T) {
	var f Flags
	ptr, ok := f.FlagByName("CY")
	if !ok {
		t.Fatal("FlagByName(CY) should be found")
	}
	*ptr = true
	if !f.CY {
		t.Error("FlagByName should return a pointer into the struct")
	}
	if _, ok := f.FlagByName("X"); ok {
		t.Error("FlagByName(X) should not be found")
	}
}
