package button

import (
	"fmt"
	"strings"

	"github.com/aretw0/facet/pkg/domain"
)

// KeyMod is a bitmask of keyboard modifiers held with a button.
type KeyMod uint32

// ModNone is the empty mask.
const ModNone KeyMod = 0

const (
	ModShift KeyMod = 1 << iota
	ModCaps
	ModControl
	ModMod1
	ModMod2
	ModMod3
	ModMod4
	ModMod5
)

// canonical order and names used when reading modifiers back.
var modNames = []struct {
	mod  KeyMod
	name string
}{
	{ModShift, "Shift"},
	{ModCaps, "Caps"},
	{ModControl, "Control"},
	{ModMod1, "Mod1"},
	{ModMod2, "Mod2"},
	{ModMod3, "Mod3"},
	{ModMod4, "Mod4"},
	{ModMod5, "Mod5"},
}

var modAliases = map[string]KeyMod{
	"shift":   ModShift,
	"caps":    ModCaps,
	"lock":    ModCaps,
	"control": ModControl,
	"ctrl":    ModControl,
	"mod1":    ModMod1,
	"alt":     ModMod1,
	"mod2":    ModMod2,
	"mod3":    ModMod3,
	"mod4":    ModMod4,
	"super":   ModMod4,
	"logo":    ModMod4,
	"mod5":    ModMod5,
}

// ParseModifier resolves one modifier name, case-insensitively.
func ParseModifier(name string) (KeyMod, error) {
	mod, ok := modAliases[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return ModNone, fmt.Errorf("%w: unknown modifier %q", domain.ErrTypeMismatch, name)
	}
	return mod, nil
}

// ParseModifiers folds a list of names into a mask.
func ParseModifiers(names []any) (KeyMod, error) {
	var mask KeyMod
	for i, raw := range names {
		name, ok := raw.(string)
		if !ok {
			return ModNone, fmt.Errorf("%w: modifier %d is %T, not a string", domain.ErrTypeMismatch, i, raw)
		}
		mod, err := ParseModifier(name)
		if err != nil {
			return ModNone, err
		}
		mask |= mod
	}
	return mask, nil
}

// Names lists the modifiers set in m, in canonical order.
func (m KeyMod) Names() []any {
	names := []any{}
	for _, entry := range modNames {
		if m&entry.mod != 0 {
			names = append(names, entry.name)
		}
	}
	return names
}

// String implements fmt.Stringer.
func (m KeyMod) String() string {
	if m == ModNone {
		return "None"
	}
	parts := make([]string, 0, len(modNames))
	for _, n := range m.Names() {
		parts = append(parts, n.(string))
	}
	return strings.Join(parts, "+")
}
