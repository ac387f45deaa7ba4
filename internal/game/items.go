package game

import (
	"fmt"
	"strconv"
	"strings"
)

// ItemKind discriminates the purchasable item families.
type ItemKind int

const (
	KindGenerator ItemKind = iota
	KindPageA
	KindPageB
	KindResetUpgrade
)

func (k ItemKind) String() string {
	switch k {
	case KindGenerator:
		return "generator"
	case KindPageA:
		return "page_a"
	case KindPageB:
		return "page_b"
	case KindResetUpgrade:
		return "reset_upgrade"
	}
	return "unknown"
}

// ItemRef identifies one purchasable item. Index is always 0-based.
type ItemRef struct {
	Kind  ItemKind `json:"kind"`
	Index int      `json:"index"`
}

func GeneratorRef(i int) ItemRef    { return ItemRef{Kind: KindGenerator, Index: i} }
func PageARef(i int) ItemRef        { return ItemRef{Kind: KindPageA, Index: i} }
func PageBRef(i int) ItemRef        { return ItemRef{Kind: KindPageB, Index: i} }
func ResetUpgradeRef(i int) ItemRef { return ItemRef{Kind: KindResetUpgrade, Index: i} }

// Currency is a static property of the item: page B is paid in Secondary, everything else in Primary.
func (r ItemRef) Currency() Currency {
	if r.Kind == KindPageB {
		return Secondary
	}
	return Primary
}

// Validate reports ErrInvalidItem for unknown kinds and out-of-range indexes.
func (r ItemRef) Validate() error {
	var size int
	switch r.Kind {
	case KindGenerator:
		size = GeneratorCount
	case KindPageA:
		size = PageASize
	case KindPageB:
		size = PageBSize
	case KindResetUpgrade:
		size = ResetUpgradeCount
	default:
		return fmt.Errorf("%w: kind %d", ErrInvalidItem, r.Kind)
	}
	if r.Index < 0 || r.Index >= size {
		return fmt.Errorf("%w: %s index %d out of range [0,%d)", ErrInvalidItem, r.Kind, r.Index, size)
	}
	return nil
}

// String renders the composite key understood by ParseItemRef.
func (r ItemRef) String() string {
	switch r.Kind {
	case KindGenerator:
		return fmt.Sprintf("trigger-%d", r.Index)
	case KindPageA:
		return fmt.Sprintf("1-2-%d", r.Index+1)
	case KindPageB:
		return fmt.Sprintf("1-3-%d", r.Index+1)
	case KindResetUpgrade:
		return fmt.Sprintf("reset-%d", r.Index)
	}
	return "unknown"
}

// ParseItemRef resolves a UI composite key once, at the boundary.
//
//	trigger-<i>  generator, 0-based
//	reset-<i>    reset-tier upgrade, 0-based
//	1-2-<n>      page A upgrade, 1-based
//	1-3-<n>      page B upgrade, 1-based
func ParseItemRef(key string) (ItemRef, error) {
	parts := strings.Split(strings.TrimSpace(key), "-")
	switch {
	case len(parts) == 2 && parts[0] == "trigger":
		return parseIndexed(key, KindGenerator, parts[1], 0)
	case len(parts) == 2 && parts[0] == "reset":
		return parseIndexed(key, KindResetUpgrade, parts[1], 0)
	case len(parts) == 3 && parts[0] == "1" && parts[1] == "2":
		return parseIndexed(key, KindPageA, parts[2], 1)
	case len(parts) == 3 && parts[0] == "1" && parts[1] == "3":
		return parseIndexed(key, KindPageB, parts[2], 1)
	}
	return ItemRef{}, fmt.Errorf("%w: malformed key %q", ErrInvalidItem, key)
}

func parseIndexed(key string, kind ItemKind, raw string, base int) (ItemRef, error) {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return ItemRef{}, fmt.Errorf("%w: malformed key %q", ErrInvalidItem, key)
	}
	ref := ItemRef{Kind: kind, Index: n - base}
	if err := ref.Validate(); err != nil {
		return ItemRef{}, err
	}
	return ref, nil
}
