package catalog

import (
	"encoding/json"
	"maps"
	"slices"
	"sort"
)

// Inventory is the ordered result of a collection.
type Inventory struct {
	Root    string
	records []FileRecord
}

// Summary holds aggregate counts over an inventory.
type Summary struct {
	Files        int     `json:"files"`
	Unreadable   int     `json:"unreadable"`    // records with any absent field
	TotalSizeKB  float64 `json:"total_size_kb"` // sum of present sizes
	UniqueHashes int     `json:"unique_hashes"`
}

// NewInventory wraps records in an Inventory. The slice is copied.
func NewInventory(root string, records []FileRecord) *Inventory {
	return &Inventory{Root: root, records: slices.Clone(records)}
}

func (inv *Inventory) Len() int {
	return len(inv.records)
}

// Get returns the record at index, or the zero record when out of range.
func (inv *Inventory) Get(index int) FileRecord {
	if index < 0 || index >= len(inv.records) {
		return FileRecord{}
	}
	return inv.records[index]
}

func (inv *Inventory) Iterate(yield func(FileRecord) bool) {
	for _, rec := range inv.records {
		if !yield(rec) {
			return
		}
	}
}

// Records returns a copy of the records in inventory order.
func (inv *Inventory) Records() []FileRecord {
	return slices.Clone(inv.records)
}

// SortByPath orders the records by path.
func (inv *Inventory) SortByPath() {
	sort.SliceStable(inv.records, func(i, j int) bool {
		return inv.records[i].Path < inv.records[j].Path
	})
}

func (inv *Inventory) Summary() Summary {
	var s Summary
	hashes := make(map[string]bool)
	for rec := range inv.Iterate {
		s.Files++
		if !rec.Complete() {
			s.Unreadable++
		}
		if rec.SizeKB != nil {
			s.TotalSizeKB += *rec.SizeKB
		}
		if rec.Hash != nil {
			hashes[*rec.Hash] = true
		}
	}
	s.UniqueHashes = len(hashes)
	return s
}

// Duplicates groups paths by content hash, keeping only hashes shared by more
// than one record. Records without a hash are ignored.
func (inv *Inventory) Duplicates() map[string][]string {
	byHash := make(map[string][]string)
	for rec := range inv.Iterate {
		if rec.Hash == nil {
			continue
		}
		byHash[*rec.Hash] = append(byHash[*rec.Hash], rec.Path)
	}
	maps.DeleteFunc(byHash, func(_ string, paths []string) bool {
		return len(paths) < 2
	})
	return byHash
}

// SameSet reports whether a and b hold the same records regardless of order.
func SameSet(a, b *Inventory) bool {
	if a.Len() != b.Len() {
		return false
	}
	counts := make(map[recordKey]int, a.Len())
	for rec := range a.Iterate {
		counts[keyOf(rec)]++
	}
	for rec := range b.Iterate {
		k := keyOf(rec)
		if counts[k] == 0 {
			return false
		}
		counts[k]--
	}
	return true
}

type recordKey struct {
	path, name, ext, size, hash string
}

func keyOf(r FileRecord) recordKey {
	k := recordKey{path: r.Path, name: r.Name, ext: r.Extension, size: "-", hash: "-"}
	if r.SizeKB != nil {
		k.size = formatKB(*r.SizeKB)
	}
	if r.Hash != nil {
		k.hash = *r.Hash
	}
	return k
}

func (inv *Inventory) MarshalJSON() ([]byte, error) {
	if inv.records == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(inv.records)
}

func (inv *Inventory) UnmarshalJSON(data []byte) error {
	return json.Unmarshal(data, &inv.records)
}
