package catalog

import (
	"context"
	"errors"
	"fmt"
	"os"
)

// Mismatch describes a report row that no longer matches the filesystem.
type Mismatch struct {
	Path   string
	Reason string
}

func (m Mismatch) String() string {
	return fmt.Sprintf("%s: %s", m.Path, m.Reason)
}

// Verify re-reads every file listed in inv and reports the ones that are
// missing or whose size or hash changed. Fields absent in inv are not compared.
func Verify(ctx context.Context, inv *Inventory) ([]Mismatch, error) {
	var mismatches []Mismatch
	for want := range inv.Iterate {
		if err := ctx.Err(); err != nil {
			return mismatches, err
		}

		got, err := NewFileRecord(want.Path)
		if err != nil && errors.Is(err, os.ErrNotExist) {
			mismatches = append(mismatches, Mismatch{Path: want.Path, Reason: "missing"})
			continue
		}

		if want.SizeKB != nil {
			switch {
			case got.SizeKB == nil:
				mismatches = append(mismatches, Mismatch{Path: want.Path, Reason: "size unreadable"})
			case formatKB(*got.SizeKB) != formatKB(*want.SizeKB):
				mismatches = append(mismatches, Mismatch{
					Path:   want.Path,
					Reason: fmt.Sprintf("size changed: %s KB -> %s KB", formatKB(*want.SizeKB), formatKB(*got.SizeKB)),
				})
			}
		}
		if want.Hash != nil {
			switch {
			case got.Hash == nil:
				mismatches = append(mismatches, Mismatch{Path: want.Path, Reason: "content unreadable"})
			case *got.Hash != *want.Hash:
				mismatches = append(mismatches, Mismatch{
					Path:   want.Path,
					Reason: fmt.Sprintf("hash changed: %s -> %s", *want.Hash, *got.Hash),
				})
			}
		}
	}
	return mismatches, nil
}
