package picker

import (
	"errors"
	"testing"
	"time"

	"datepick/internal/model"
)

func TestApply(t *testing.T) {
	t.Parallel()

	p := New(Options{Value: "01.01.2024", Now: clockAt(2026, time.October, 17)})
	var seen []model.Selection
	p.OnSelect(func(s model.Selection) { seen = append(seen, s) })

	sels, err := p.Apply(
		Command{Op: OpNavigateMonth, N: 1},
		Command{Op: OpSelectDay, N: 14},
		Command{Op: OpStepYear, N: 1},
		Command{Op: OpSelectMonth, N: 3},
		Command{Op: OpInit, Value: "bad"},
	)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(sels) != 2 || sels[0].Formatted != "14.02.2024" || sels[1].Formatted != "01.04.2025" {
		t.Fatalf("unexpected selections %+v", sels)
	}
	if len(seen) != 2 {
		t.Fatalf("expected listeners to see both selections, got %d", len(seen))
	}
	if p.VisibleYear() != 2025 {
		t.Fatalf("expected visible year 2025, got %d", p.VisibleYear())
	}
}

func TestApply_UnknownOpIsAtomic(t *testing.T) {
	t.Parallel()

	p := New(Options{Value: "01.01.2024", Now: clockAt(2026, time.October, 17)})
	before := p.State()
	_, err := p.Apply(Command{Op: OpNavigateMonth, N: 5}, Command{Op: "explode"})
	var uerr UnknownOpError
	if !errors.As(err, &uerr) || uerr.Op != "explode" {
		t.Fatalf("expected UnknownOpError, got %v", err)
	}
	if p.State() != before {
		t.Fatalf("picker changed despite rejected batch: %+v", p.State())
	}
}
