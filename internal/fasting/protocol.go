package fasting

import (
	"strconv"
	"strings"
	"time"
)

type ProtocolType string

const (
	Protocol16x8   ProtocolType = "16:8"
	Protocol18x6   ProtocolType = "18:6"
	ProtocolCustom ProtocolType = "custom"
)

// Protocol holds the fasting/eating window lengths in hours. For the fixed
// types the hours come from the lookup table; custom hours are user-supplied.
type Protocol struct {
	Type         ProtocolType
	FastingHours float64
	EatingHours  float64
}

var fixedProtocolHours = map[ProtocolType][2]float64{
	Protocol16x8: {16, 8},
	Protocol18x6: {18, 6},
}

// NewProtocol builds a protocol of the given type. Fixed types ignore the
// hour arguments in favor of the table; custom hours are clamped to >= 0.
func NewProtocol(t ProtocolType, fastingHours, eatingHours float64) Protocol {
	if hours, ok := fixedProtocolHours[t]; ok {
		return Protocol{Type: t, FastingHours: hours[0], EatingHours: hours[1]}
	}
	if fastingHours < 0 {
		fastingHours = 0
	}
	if eatingHours < 0 {
		eatingHours = 0
	}
	return Protocol{Type: ProtocolCustom, FastingHours: fastingHours, EatingHours: eatingHours}
}

// DefaultProtocol is 16:8, used whenever no explicit preference exists.
func DefaultProtocol() Protocol {
	return NewProtocol(Protocol16x8, 0, 0)
}

// ParseCustom builds a custom protocol from form input. Unparsable values
// default to 0 hours per the interface contract; the state machine floors
// zero-length phases separately.
func ParseCustom(fastingHours, eatingHours string) Protocol {
	return NewProtocol(ProtocolCustom, parseHours(fastingHours), parseHours(eatingHours))
}

func parseHours(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || v < 0 {
		return 0
	}
	return v
}

// Duration returns the configured length of a phase.
func (p Protocol) Duration(phase Phase) time.Duration {
	hours := p.FastingHours
	if phase == PhaseEating {
		hours = p.EatingHours
	}
	return time.Duration(hours * float64(time.Hour))
}

func (p Protocol) Label() string {
	if p.Type == ProtocolCustom {
		return strconv.FormatFloat(p.FastingHours, 'g', -1, 64) + ":" +
			strconv.FormatFloat(p.EatingHours, 'g', -1, 64)
	}
	return string(p.Type)
}
