package scan

import (
	"testing"
	"time"

	"github.com/CairnDB/cairn/pkg/config"
)

func TestScanInfoValidate(t *testing.T) {
	valid := &ScanInfo{Family: []byte("f"), MaxVersions: 3, MinVersions: 1}
	if err := valid.Validate(); err != nil {
		t.Fatalf("Valid info rejected: %v", err)
	}

	bad := []*ScanInfo{
		{MaxVersions: 1},                                          // empty family
		{Family: []byte("f"), MaxVersions: 0},                     // no versions
		{Family: []byte("f"), MaxVersions: 1, MinVersions: -1},    // negative floor
		{Family: []byte("f"), MaxVersions: 1, MinVersions: 2},     // floor above ceiling
	}
	for i, si := range bad {
		if err := si.Validate(); err == nil {
			t.Errorf("Case %d: expected validation error", i)
		}
	}
}

func TestScanInfoOldestUnexpiredTS(t *testing.T) {
	si := &ScanInfo{Family: []byte("f"), MaxVersions: 1}
	if got := si.OldestUnexpiredTS(testNow); got != 0 {
		t.Errorf("Without a TTL the horizon is 0, got %d", got)
	}

	si.TTL = time.Hour
	want := testNow - time.Hour.Milliseconds()
	if got := si.OldestUnexpiredTS(testNow); got != want {
		t.Errorf("OldestUnexpiredTS = %d, want %d", got, want)
	}

	// Before the store is TTL old, nothing has expired yet.
	if got := si.OldestUnexpiredTS(1000); got != 0 {
		t.Errorf("Horizon before epoch+TTL = %d, want 0", got)
	}
}

func TestNewScanInfoFromConfig(t *testing.T) {
	fc := &config.FamilyConfig{
		Name:                 "f",
		MinVersions:          1,
		MaxVersions:          3,
		TTLSeconds:           60,
		KeepDeletedCells:     config.KeepTTL,
		TimeToPurgeDeletesMs: 5000,
	}
	si, err := NewScanInfoFromConfig(fc)
	if err != nil {
		t.Fatalf("Failed to build scan info: %v", err)
	}
	if string(si.Family) != "f" {
		t.Errorf("Family = %q", si.Family)
	}
	if si.MinVersions != 1 || si.MaxVersions != 3 {
		t.Errorf("Versions = %d/%d, want 1/3", si.MinVersions, si.MaxVersions)
	}
	if si.TTL != time.Minute {
		t.Errorf("TTL = %v, want 1m", si.TTL)
	}
	if si.KeepDeletedCells != KeepDeletedCellsTTL {
		t.Errorf("KeepDeletedCells = %v, want TTL", si.KeepDeletedCells)
	}
	if si.TimeToPurgeDeletes != 5*time.Second {
		t.Errorf("TimeToPurgeDeletes = %v, want 5s", si.TimeToPurgeDeletes)
	}
}

func TestNewScanInfoFromConfigRejectsBadMode(t *testing.T) {
	fc := &config.FamilyConfig{Name: "f", MaxVersions: 1, KeepDeletedCells: "sometimes"}
	if _, err := NewScanInfoFromConfig(fc); err == nil {
		t.Fatal("Expected error for unknown keep mode")
	}
}
