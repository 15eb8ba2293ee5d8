package dosimetry

import (
	"fmt"
	"strings"
)

// BlockFactor is the beam-attenuating accessory on a blocked field.
type BlockFactor int

const (
	BlockNone BlockFactor = iota
	BlockTray
	BlockBellyBoard
)

func (b BlockFactor) Value() float64 {
	switch b {
	case BlockNone:
		return 1.0
	case BlockTray:
		return 0.957
	case BlockBellyBoard:
		return 0.978
	}
	panic(fmt.Sprintf("dosimetry: unknown block factor %d", int(b)))
}

func (b BlockFactor) Label() string {
	switch b {
	case BlockNone:
		return "No Tray"
	case BlockTray:
		return "Tray Factor"
	case BlockBellyBoard:
		return "Belly Board"
	}
	panic(fmt.Sprintf("dosimetry: unknown block factor %d", int(b)))
}

func (b BlockFactor) String() string {
	switch b {
	case BlockNone:
		return "NONE"
	case BlockTray:
		return "TRAY"
	case BlockBellyBoard:
		return "BELLY"
	}
	return fmt.Sprintf("BlockFactor(%d)", int(b))
}

// ParseBlockFactor accepts the variant name or its display label. Empty
// text selects BlockNone.
func ParseBlockFactor(text string) (BlockFactor, error) {
	switch strings.ToUpper(strings.TrimSpace(text)) {
	case "", "NONE", "NO TRAY":
		return BlockNone, nil
	case "TRAY", "TRAY FACTOR":
		return BlockTray, nil
	case "BELLY", "BELLY BOARD", "BELLY_BOARD", "BELLYBOARD":
		return BlockBellyBoard, nil
	}
	return BlockNone, &InputError{Field: "BlockFactor", Reason: fmt.Sprintf("unknown block factor %q", text)}
}

// WedgeFactor is a physical wedge filter.
type WedgeFactor int

const (
	WedgeNone WedgeFactor = iota
	Wedge15
	Wedge30
	Wedge45
	Wedge60
)

func (w WedgeFactor) Value() float64 {
	switch w {
	case WedgeNone:
		return 1.0
	case Wedge15:
		return 0.767
	case Wedge30:
		return 0.636
	case Wedge45:
		return 0.487
	case Wedge60:
		return 0.261
	}
	panic(fmt.Sprintf("dosimetry: unknown wedge factor %d", int(w)))
}

func (w WedgeFactor) Label() string {
	switch w {
	case WedgeNone:
		return "No Wedge"
	case Wedge15:
		return "15° Wedge"
	case Wedge30:
		return "30° Wedge"
	case Wedge45:
		return "45° Wedge"
	case Wedge60:
		return "60° Wedge"
	}
	panic(fmt.Sprintf("dosimetry: unknown wedge factor %d", int(w)))
}

func (w WedgeFactor) String() string {
	switch w {
	case WedgeNone:
		return "NONE"
	case Wedge15:
		return "W15"
	case Wedge30:
		return "W30"
	case Wedge45:
		return "W45"
	case Wedge60:
		return "W60"
	}
	return fmt.Sprintf("WedgeFactor(%d)", int(w))
}

// ParseWedgeFactor accepts "W30", "30", "30°" or the display label.
func ParseWedgeFactor(text string) (WedgeFactor, error) {
	s := strings.ToUpper(strings.TrimSpace(text))
	s = strings.TrimSuffix(s, " WEDGE")
	s = strings.TrimSuffix(s, "°")
	s = strings.TrimPrefix(s, "W")
	switch s {
	case "", "NONE", "NO":
		return WedgeNone, nil
	case "15":
		return Wedge15, nil
	case "30":
		return Wedge30, nil
	case "45":
		return Wedge45, nil
	case "60":
		return Wedge60, nil
	}
	return WedgeNone, &InputError{Field: "Wedge", Reason: fmt.Sprintf("unknown wedge %q", text)}
}
