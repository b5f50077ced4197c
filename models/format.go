package models

import (
	"encoding/json"
	"fmt"
)

// FormatKind is the closed set of supported tournament formats.
type FormatKind string

const (
	FormatSingleElimination FormatKind = "single_elimination"
	FormatDoubleElimination FormatKind = "double_elimination"
	FormatRoundRobin        FormatKind = "round_robin"
	FormatSwiss             FormatKind = "swiss"
)

var formatKinds = []FormatKind{
	FormatSingleElimination,
	FormatDoubleElimination,
	FormatRoundRobin,
	FormatSwiss,
}

func FormatKinds() []FormatKind {
	out := make([]FormatKind, len(formatKinds))
	copy(out, formatKinds)
	return out
}

func (k FormatKind) Valid() bool {
	for _, known := range formatKinds {
		if k == known {
			return true
		}
	}
	return false
}

// ParseFormatKind rejects anything outside the closed set.
func ParseFormatKind(s string) (FormatKind, error) {
	k := FormatKind(s)
	if !k.Valid() {
		return "", fmt.Errorf("unknown tournament format %q", s)
	}
	return k, nil
}

type RoundRobinSchedule string

const (
	ScheduleCircle     RoundRobinSchedule = "circle"
	ScheduleSequential RoundRobinSchedule = "sequential"
)

type SwissPairing string

const (
	PairingRematchAvoiding SwissPairing = "rematch_avoiding"
	PairingStandings       SwissPairing = "standings"
)

// FormatSettings are the scoring and scheduling options a bracket was
// generated with. They travel inside the document so completions apply the
// same rules.
type FormatSettings struct {
	PointsForWin       int                `json:"points_for_win"`
	PointsForDraw      int                `json:"points_for_draw"`
	Legs               int                `json:"legs,omitempty"` // 1 for single round-robin, 2 for double
	RoundRobinSchedule RoundRobinSchedule `json:"round_robin_schedule,omitempty"`
	SwissPairing       SwissPairing       `json:"swiss_pairing,omitempty"`
}

func DefaultFormatSettings() FormatSettings {
	return FormatSettings{
		PointsForWin:       1,
		PointsForDraw:      0,
		Legs:               1,
		RoundRobinSchedule: ScheduleCircle,
		SwissPairing:       PairingRematchAvoiding,
	}
}

// Normalize fills zero values with defaults and clamps out-of-range options.
func (s FormatSettings) Normalize() FormatSettings {
	def := DefaultFormatSettings()
	if s.PointsForWin <= 0 {
		s.PointsForWin = def.PointsForWin
	}
	if s.PointsForDraw < 0 {
		s.PointsForDraw = def.PointsForDraw
	}
	if s.Legs < 1 || s.Legs > 2 {
		s.Legs = def.Legs
	}
	if s.RoundRobinSchedule != ScheduleCircle && s.RoundRobinSchedule != ScheduleSequential {
		s.RoundRobinSchedule = def.RoundRobinSchedule
	}
	if s.SwissPairing != PairingRematchAvoiding && s.SwissPairing != PairingStandings {
		s.SwissPairing = def.SwissPairing
	}
	return s
}

// ParseFormatSettings decodes raw settings JSON. Empty input yields defaults.
func ParseFormatSettings(raw []byte) (FormatSettings, error) {
	if len(raw) == 0 {
		return DefaultFormatSettings(), nil
	}
	var s FormatSettings
	if err := json.Unmarshal(raw, &s); err != nil {
		return FormatSettings{}, fmt.Errorf("invalid format settings: %w", err)
	}
	return s.Normalize(), nil
}
