package picker

import (
	"fmt"
	"slices"

	"datepick/internal/model"
)

// Op names a picker command for the surfaces that replay commands from data.
type Op string

const (
	OpNavigateMonth Op = "navigateMonth"
	OpSetMonth      Op = "setMonth"
	OpSetYear       Op = "setYear"
	OpShiftYears    Op = "shiftYears"
	OpStepYear      Op = "stepYear"
	OpSyncYear      Op = "syncVisibleYear"
	OpSelectDay     Op = "selectDay"
	OpSelectMonth   Op = "selectMonth"
	OpSelectYear    Op = "selectYear"
	OpToday         Op = "today"
	OpInit          Op = "init"
)

var knownOps = []Op{
	OpNavigateMonth, OpSetMonth, OpSetYear, OpShiftYears, OpStepYear, OpSyncYear,
	OpSelectDay, OpSelectMonth, OpSelectYear, OpToday, OpInit,
}

// Command is one serialized picker call. N is the integer argument; Value is
// the text for OpInit.
type Command struct {
	Op    Op     `json:"op"`
	N     int    `json:"n,omitempty"`
	Value string `json:"value,omitempty"`
}

// UnknownOpError reports a Command whose Op is not recognized.
type UnknownOpError struct {
	Op Op
}

func (e UnknownOpError) Error() string { return fmt.Sprintf("unknown op %q", string(e.Op)) }

// Validate checks every op before any is applied.
func Validate(cmds []Command) error {
	for _, c := range cmds {
		if !slices.Contains(knownOps, c.Op) {
			return UnknownOpError{Op: c.Op}
		}
	}
	return nil
}

// Apply runs cmds in order and returns the selections they made. Commands
// are validated first, so an unknown op leaves the picker untouched.
func (p *Picker) Apply(cmds ...Command) ([]model.Selection, error) {
	if err := Validate(cmds); err != nil {
		return nil, err
	}
	out := []model.Selection{}
	for _, c := range cmds {
		switch c.Op {
		case OpNavigateMonth:
			p.NavigateMonth(c.N)
		case OpSetMonth:
			p.SetMonth(c.N)
		case OpSetYear:
			p.SetYear(c.N)
		case OpShiftYears:
			p.ShiftVisibleYearWindow(c.N)
		case OpStepYear:
			p.StepYear(c.N)
		case OpSyncYear:
			p.SyncVisibleYear()
		case OpSelectDay:
			out = append(out, p.SelectDay(c.N))
		case OpSelectMonth:
			out = append(out, p.SelectMonth(c.N))
		case OpSelectYear:
			out = append(out, p.SelectYear(c.N))
		case OpToday:
			out = append(out, p.JumpToToday())
		case OpInit:
			p.InitFromValue(c.Value)
		}
	}
	return out, nil
}
