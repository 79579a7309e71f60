// Package particle is the closed catalog of particle types and their
// classification flags. Lookups are table-indexed by the type's ordinal.
package particle

import (
	"fmt"
	"image/color"
	"strings"
)

// Type identifies a particle kind. The zero value is Air.
type Type uint8

const (
	Air Type = iota
	Block
	Water
	Sand
	RedSand
	Lava
	Steam
	Magma
	Battery
	Wire
	WirePowered
	Relay
	RelayPowered
	Inverter
	Lamp
	LampPowered

	// Count is the number of defined types.
	Count
)

// Background is the type that fills empty cells.
const Background = Air

type flag uint16

const (
	fluid flag = 1 << iota
	neverSleeps
	emits
	conditional
	conducts
	unconditionalOnly
	noPowerEmitters
)

type info struct {
	name      string
	color     color.RGBA
	flags     flag
	powered   Type
	unpowered Type
	// hasPowered/hasUnpowered distinguish "no counterpart" from Air.
	hasPowered   bool
	hasUnpowered bool
}

func rgb(r, g, b uint8) color.RGBA { return color.RGBA{R: r, G: g, B: b, A: 255} }

var infos = [Count]info{
	Air:          {name: "air", color: rgb(0, 0, 0), flags: fluid},
	Block:        {name: "block", color: rgb(127, 127, 127)},
	Water:        {name: "water", color: rgb(0, 21, 255), flags: fluid},
	Sand:         {name: "sand", color: rgb(252, 193, 53)},
	RedSand:      {name: "red_sand", color: rgb(212, 115, 55)},
	Lava:         {name: "lava", color: rgb(255, 32, 32), flags: fluid},
	Steam:        {name: "steam", color: rgb(192, 192, 192), flags: fluid | neverSleeps},
	Magma:        {name: "magma", color: rgb(119, 0, 0)},
	Battery:      {name: "battery", color: rgb(240, 210, 20), flags: emits},
	Wire:         {name: "wire", color: rgb(110, 70, 40), flags: conducts | noPowerEmitters, powered: WirePowered, hasPowered: true},
	WirePowered:  {name: "wire_powered", color: rgb(255, 150, 60), flags: conducts | noPowerEmitters, unpowered: Wire, hasUnpowered: true},
	Relay:        {name: "relay", color: rgb(60, 80, 110), flags: conducts | unconditionalOnly | noPowerEmitters, powered: RelayPowered, hasPowered: true},
	RelayPowered: {name: "relay_powered", color: rgb(110, 200, 255), flags: conducts | unconditionalOnly | noPowerEmitters, unpowered: Relay, hasUnpowered: true},
	Inverter:     {name: "inverter", color: rgb(150, 40, 160), flags: emits | conditional | noPowerEmitters},
	Lamp:         {name: "lamp", color: rgb(70, 70, 30), powered: LampPowered, hasPowered: true},
	LampPowered:  {name: "lamp_powered", color: rgb(255, 250, 170), unpowered: Lamp, hasUnpowered: true},
}

// paintable lists the types offered to painting tools, in palette order.
var paintable = []Type{
	Air, Block, Sand, RedSand, Water, Lava, Steam, Magma,
	Battery, Wire, Relay, Inverter, Lamp,
}

func (t Type) info() *info {
	if t >= Count {
		panic(fmt.Sprintf("particle: unknown type %d", uint8(t)))
	}
	return &infos[t]
}

// String returns the type's catalog name.
func (t Type) String() string {
	if t >= Count {
		return fmt.Sprintf("particle.Type(%d)", uint8(t))
	}
	return infos[t].name
}

// Color returns the render color for the type.
func (t Type) Color() color.RGBA { return t.info().color }

// IsBackground reports whether t is the empty-cell type.
func (t Type) IsBackground() bool { return t == Background }

// IsFluid reports whether other particles may displace t while falling, rising
// or sliding.
func (t Type) IsFluid() bool { return t.info().flags&fluid != 0 }

// NeverSleeps reports whether cells of t stay awake even when surrounded by
// their own kind.
func (t Type) NeverSleeps() bool { return t.info().flags&neverSleeps != 0 }

// EmitsPower reports whether t is a power source.
func (t Type) EmitsPower() bool { return t.info().flags&emits != 0 }

// IsConditional reports whether t only emits when its bundle is unpowered.
func (t Type) IsConditional() bool { return t.info().flags&conditional != 0 }

// ConductsPower reports whether power spreads from t to any neighbour.
func (t Type) ConductsPower() bool { return t.info().flags&conducts != 0 }

// ConductsOnlyUnconditional reports whether conditional sources cannot energize t.
func (t Type) ConductsOnlyUnconditional() bool { return t.info().flags&unconditionalOnly != 0 }

// WillNotPowerEmitters reports whether power leaving t skips emitter neighbours.
func (t Type) WillNotPowerEmitters() bool { return t.info().flags&noPowerEmitters != 0 }

// Powered returns the powered variant of t.
func (t Type) Powered() (Type, bool) {
	in := t.info()
	return in.powered, in.hasPowered
}

// Unpowered returns the unpowered variant of t.
func (t Type) Unpowered() (Type, bool) {
	in := t.info()
	return in.unpowered, in.hasUnpowered
}

// IsPoweredState reports whether t is the powered variant of some type.
func (t Type) IsPoweredState() bool { return t.info().hasUnpowered }

// IsPowerInput reports whether observing t next to a conditional emitter means
// the emitter is being driven.
func (t Type) IsPowerInput() bool {
	return t.IsPoweredState() || (t.EmitsPower() && !t.IsConditional())
}

// All returns every defined type in ordinal order.
func All() []Type {
	out := make([]Type, Count)
	for i := range out {
		out[i] = Type(i)
	}
	return out
}

// Paintable returns the types offered to painting tools.
func Paintable() []Type {
	return append([]Type(nil), paintable...)
}

// Parse resolves a catalog name such as "red_sand". Matching ignores case and
// accepts '-' or ' ' in place of '_'.
func Parse(name string) (Type, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	key = strings.NewReplacer("-", "_", " ", "_").Replace(key)
	for i := range infos {
		if infos[i].name == key {
			return Type(i), nil
		}
	}
	return Air, fmt.Errorf("particle: unknown type %q", name)
}
