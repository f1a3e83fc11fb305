package scan

import (
	"fmt"
	"time"

	"github.com/CairnDB/cairn/pkg/config"
)

// KeepDeletedCells controls whether the store holds on to deleted cells and
// their markers after deletion.
type KeepDeletedCells int

const (
	// KeepDeletedCellsFalse discards deleted cells once compaction runs.
	KeepDeletedCellsFalse KeepDeletedCells = iota

	// KeepDeletedCellsTrue retains deleted cells, subject to the normal
	// version and TTL rules.
	KeepDeletedCellsTrue

	// KeepDeletedCellsTTL retains deleted cells only until the family TTL
	// expires them.
	KeepDeletedCellsTTL
)

// String returns the mode's name.
func (k KeepDeletedCells) String() string {
	switch k {
	case KeepDeletedCellsFalse:
		return "FALSE"
	case KeepDeletedCellsTrue:
		return "TRUE"
	case KeepDeletedCellsTTL:
		return "TTL"
	default:
		return fmt.Sprintf("KeepDeletedCells(%d)", int(k))
	}
}

// ScanType distinguishes reads on behalf of a client from the internal
// reads that rewrite data.
type ScanType int

const (
	// ScanTypeUser is a client-initiated read.
	ScanTypeUser ScanType = iota

	// ScanTypeCompactRetainDeletes is an internal rewrite that keeps
	// delete markers in its output (minor compaction).
	ScanTypeCompactRetainDeletes

	// ScanTypeCompactDropDeletes is an internal rewrite that elides
	// delete markers from its output (major compaction).
	ScanTypeCompactDropDeletes
)

// String returns the scan type's name.
func (s ScanType) String() string {
	switch s {
	case ScanTypeUser:
		return "USER_SCAN"
	case ScanTypeCompactRetainDeletes:
		return "COMPACT_RETAIN_DELETES"
	case ScanTypeCompactDropDeletes:
		return "COMPACT_DROP_DELETES"
	default:
		return fmt.Sprintf("ScanType(%d)", int(s))
	}
}

// ScanInfo is the immutable per-family store metadata a matcher is built
// from. One ScanInfo serves every scan and compaction of the family.
type ScanInfo struct {
	// Family this store holds.
	Family []byte

	// MinVersions is the floor of versions retained per column even past
	// the TTL horizon.
	MinVersions int

	// MaxVersions is the ceiling of versions retained per column.
	MaxVersions int

	// TTL is the family's time to live; zero or negative means forever.
	TTL time.Duration

	// KeepDeletedCells is the family's deleted-cell retention mode.
	KeepDeletedCells KeepDeletedCells

	// TimeToPurgeDeletes delays purging of delete markers during major
	// compactions, shielding puts that arrive out of order (for example
	// through replication) from premature collection.
	TimeToPurgeDeletes time.Duration
}

// NewScanInfoFromConfig builds the ScanInfo for one configured family.
func NewScanInfoFromConfig(fc *config.FamilyConfig) (*ScanInfo, error) {
	var keep KeepDeletedCells
	switch fc.KeepDeletedCells {
	case config.KeepNone:
		keep = KeepDeletedCellsFalse
	case config.KeepAll:
		keep = KeepDeletedCellsTrue
	case config.KeepTTL:
		keep = KeepDeletedCellsTTL
	default:
		return nil, fmt.Errorf("unknown keep_deleted_cells mode %q", fc.KeepDeletedCells)
	}
	si := &ScanInfo{
		Family:             []byte(fc.Name),
		MinVersions:        fc.MinVersions,
		MaxVersions:        fc.MaxVersions,
		TTL:                time.Duration(fc.TTLSeconds) * time.Second,
		KeepDeletedCells:   keep,
		TimeToPurgeDeletes: time.Duration(fc.TimeToPurgeDeletesMs) * time.Millisecond,
	}
	if err := si.Validate(); err != nil {
		return nil, err
	}
	return si, nil
}

// Validate checks the metadata at construction time.
func (si *ScanInfo) Validate() error {
	if len(si.Family) == 0 {
		return fmt.Errorf("scan info: family must not be empty")
	}
	if si.MaxVersions < 1 {
		return fmt.Errorf("scan info: max versions must be positive, got %d", si.MaxVersions)
	}
	if si.MinVersions < 0 {
		return fmt.Errorf("scan info: min versions must not be negative, got %d", si.MinVersions)
	}
	if si.MinVersions > si.MaxVersions {
		return fmt.Errorf("scan info: min versions %d exceeds max versions %d",
			si.MinVersions, si.MaxVersions)
	}
	return nil
}

// OldestUnexpiredTS derives the TTL horizon at the given wall-clock time
// (milliseconds): the oldest timestamp still unexpired.
func (si *ScanInfo) OldestUnexpiredTS(now int64) int64 {
	if si.TTL <= 0 {
		return 0
	}
	horizon := now - si.TTL.Milliseconds()
	if horizon < 0 {
		return 0
	}
	return horizon
}
