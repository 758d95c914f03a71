package web

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"cloudeng.io/logging/ctxlog"
	"github.com/gofiber/fiber/v2"

	"datepick/internal/dateformat"
	"datepick/internal/model"
	"datepick/internal/picker"
)

func (s *Server) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

func (s *Server) pattern(p string) string {
	if strings.TrimSpace(p) == "" {
		return s.cfg.Pattern
	}
	return p
}

func (s *Server) newPicker(pattern, from, to, value string, weeks int) *picker.Picker {
	if weeks <= 0 {
		weeks = s.cfg.WeeksToShow
	}
	return picker.New(picker.Options{
		Pattern:     s.pattern(pattern),
		From:        from,
		To:          to,
		Value:       value,
		WeeksToShow: weeks,
		Now:         s.cfg.Now,
	})
}

func checkWeeks(n int) error {
	if n < 0 || n > picker.MaxWeeksToShow {
		return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("weeks: want 0-%d, got %d", picker.MaxWeeksToShow, n))
	}
	return nil
}

// queryInt reads an optional integer query parameter.
func queryInt(c *fiber.Ctx, name string) (int, bool, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return 0, false, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false, fiber.NewError(fiber.StatusBadRequest, name+": not an integer: "+raw)
	}
	return n, true, nil
}

// GetCalendar returns a snapshot of a picker built from query parameters.
// year, month and visibleYear move the display after the value is applied.
func (s *Server) GetCalendar(c *fiber.Ctx) error {
	weeks, _, err := queryInt(c, "weeks")
	if err != nil {
		return err
	}
	if err := checkWeeks(weeks); err != nil {
		return err
	}
	p := s.newPicker(c.Query("pattern"), c.Query("from"), c.Query("to"), c.Query("value"), weeks)

	if y, ok, err := queryInt(c, "year"); err != nil {
		return err
	} else if ok {
		p.SetYear(y)
	}
	if m, ok, err := queryInt(c, "month"); err != nil {
		return err
	} else if ok {
		p.SetMonth(m)
	}
	if vy, ok, err := queryInt(c, "visibleYear"); err != nil {
		return err
	} else if ok {
		p.ShiftVisibleYearWindow(vy - p.VisibleYear())
	}
	return c.JSON(p.Snapshot())
}

type commandRequest struct {
	Pattern  string           `json:"pattern"`
	From     string           `json:"from"`
	To       string           `json:"to"`
	Value    string           `json:"value"`
	Weeks    int              `json:"weeks"`
	State    *picker.State    `json:"state,omitempty"`
	Commands []picker.Command `json:"commands"`
}

type commandResponse struct {
	Snapshot   picker.Snapshot   `json:"snapshot"`
	State      picker.State      `json:"state"`
	Selections []model.Selection `json:"selections"`
}

// PostCommands replays commands against a picker rebuilt from the request,
// optionally restored to a previously returned state.
func (s *Server) PostCommands(c *fiber.Ctx) error {
	var req commandRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body: "+err.Error())
	}
	if err := checkWeeks(req.Weeks); err != nil {
		return err
	}
	p := s.newPicker(req.Pattern, req.From, req.To, req.Value, req.Weeks)
	if req.State != nil {
		p.Restore(*req.State)
	}
	for i := range req.Commands {
		if req.Commands[i].Op == picker.OpInit && req.Commands[i].Value == "" {
			req.Commands[i].Value = req.Value
		}
	}
	sels, err := p.Apply(req.Commands...)
	var uerr picker.UnknownOpError
	if errors.As(err, &uerr) {
		return fiber.NewError(fiber.StatusBadRequest, uerr.Error())
	}
	if err != nil {
		return err
	}
	ctxlog.Logger(c.UserContext()).Debug("applied commands", "count", len(req.Commands), "selections", len(sels))
	return c.JSON(commandResponse{Snapshot: p.Snapshot(), State: p.State(), Selections: sels})
}

func (s *Server) GetFormat(c *fiber.Ctx) error {
	raw := strings.TrimSpace(c.Query("date"))
	t, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "date: want YYYY-MM-DD, got "+strconv.Quote(raw))
	}
	pattern := s.pattern(c.Query("pattern"))
	return c.JSON(fiber.Map{
		"pattern":   pattern,
		"formatted": dateformat.Format(model.DateOf(t), pattern),
	})
}

func (s *Server) GetParse(c *fiber.Ctx) error {
	pattern := s.pattern(c.Query("pattern"))
	d, ok := dateformat.ParseAt(c.Query("text"), pattern, s.cfg.Now)
	out := fiber.Map{"ok": ok, "pattern": pattern, "date": nil}
	if ok {
		out["date"] = d
		out["iso"] = d.ISO()
	}
	return c.JSON(out)
}
