// Package emit implements the C3 emission policies: which completed
// contexts may emit and when, and how many of their paths get reported.
package emit

import "fmt"

// SkipMode controls when a completed context is eligible to emit given
// concurrent contexts and earlier emissions.
type SkipMode uint8

const (
	// SkipPastLast discards a queued completion that overlaps a previous
	// emission (the default SQL MATCH_RECOGNIZE SKIP PAST LAST ROW).
	SkipPastLast SkipMode = iota
	// SkipToNext holds a queued completion until any overlapping active
	// context resolves (SKIP TO NEXT ROW).
	SkipToNext
)

func (m SkipMode) String() string {
	switch m {
	case SkipPastLast:
		return "PAST_LAST"
	case SkipToNext:
		return "TO_NEXT"
	default:
		return "Unknown"
	}
}

// OutputMode controls how many of a match's completed paths get reported.
type OutputMode uint8

const (
	// OutputOneRow emits only the lexically-first completed path.
	OutputOneRow OutputMode = iota
	// OutputAllRows emits every completed path, in seq order.
	OutputAllRows
)

func (m OutputMode) String() string {
	switch m {
	case OutputOneRow:
		return "ONE_ROW"
	case OutputAllRows:
		return "ALL_ROWS"
	default:
		return "Unknown"
	}
}

// Config configures an Emitter, bundling its knobs behind a
// DefaultConfig/Validate pair the way the teacher's meta.Config does.
type Config struct {
	SkipMode   SkipMode
	OutputMode OutputMode
}

// DefaultConfig returns {PAST_LAST, ONE_ROW}, the spec's defaults.
func DefaultConfig() Config {
	return Config{SkipMode: SkipPastLast, OutputMode: OutputOneRow}
}

// Validate reports whether the configuration's enums hold recognized values.
func (c Config) Validate() error {
	switch c.SkipMode {
	case SkipPastLast, SkipToNext:
	default:
		return fmt.Errorf("emit: invalid SkipMode %d", c.SkipMode)
	}
	switch c.OutputMode {
	case OutputOneRow, OutputAllRows:
	default:
		return fmt.Errorf("emit: invalid OutputMode %d", c.OutputMode)
	}
	return nil
}
