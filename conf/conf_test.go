package conf

import "testing"

func TestLockState(t *testing.T) {
	testCases := []struct {
		in     LockState
		locked bool
		valid  bool
		str    string
	}{
		{LockStateLocked, true, true, "locked"},
		{LockStateUnlocked, false, true, "unlocked"},
		{LockState(0x13), false, false, "invalid (0x13)"},
	}

	for _, tc := range testCases {
		t.Run(tc.str, func(t *testing.T) {
			if got := tc.in.IsLocked(); got != tc.locked {
				t.Errorf("IsLocked: got %v", got)
			}
			if got := tc.in.Valid(); got != tc.valid {
				t.Errorf("Valid: got %v", got)
			}
			if got := tc.in.String(); got != tc.str {
				t.Errorf("String: got %q", got)
			}
		})
	}
}

func TestSlotLocked(t *testing.T) {
	s := SlotLocked(0xfffe)
	if !s.Locked(0) {
		t.Error("slot 0 should be locked")
	}
	if s.Locked(1) {
		t.Error("slot 1 should be unlocked")
	}
	if s.Locked(15) {
		t.Error("slot 15 should be unlocked")
	}
}

func TestSlotConfig(t *testing.T) {
	// Secret P-256 slot as written during provisioning.
	c := SlotConfig{Bits1: 0x83, Bits2: 0x20}

	if got := c.ReadKey(); got != 3 {
		t.Errorf("ReadKey: got %d", got)
	}
	if !c.IsSecret() {
		t.Error("IsSecret: got false")
	}
	if c.EncryptRead() {
		t.Error("EncryptRead: got true")
	}
	if c.NoMac() || c.LimitedUse() {
		t.Error("NoMac/LimitedUse: got true")
	}
	if got := c.WriteKey(); got != 0 {
		t.Errorf("WriteKey: got %d", got)
	}
	if got := c.WriteConfig(); got != 2 {
		t.Errorf("WriteConfig: got %d", got)
	}
	if got := c.Bytes(); got != [2]byte{0x83, 0x20} {
		t.Errorf("Bytes: got % x", got)
	}
}

func TestKeyConfig(t *testing.T) {
	c := KeyConfig{Bits1: 0x33, Bits2: 0x00}

	if !c.Private() {
		t.Error("Private: got false")
	}
	if !c.PubInfo() {
		t.Error("PubInfo: got false")
	}
	if got := c.KeyType(); got != 4 {
		t.Errorf("KeyType: got %d, want P-256", got)
	}
	if !c.Lockable() {
		t.Error("Lockable: got false")
	}
	if c.ReqRandom() || c.ReqAuth() {
		t.Error("ReqRandom/ReqAuth: got true")
	}
	if got := c.AuthKey(); got != 0 {
		t.Errorf("AuthKey: got %d", got)
	}
	if c.IntrusionDisable() {
		t.Error("IntrusionDisable: got true")
	}
	if got := c.X509ID(); got != 0 {
		t.Errorf("X509ID: got %d", got)
	}
	if got := c.Bytes(); got != [2]byte{0x33, 0x00} {
		t.Errorf("Bytes: got % x", got)
	}
}
