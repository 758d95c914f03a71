package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func fixedNow() time.Time { return time.Date(2026, time.October, 17, 12, 0, 0, 0, time.UTC) }

func runCLI(t *testing.T, args []string) (stdout []byte, stderr []byte, err error) {
	t.Helper()

	cmd := newRootCmd(&App{Now: fixedNow})

	var outBuf bytes.Buffer
	var errBuf bytes.Buffer
	cmd.SetOut(&outBuf)
	cmd.SetErr(&errBuf)
	cmd.SetArgs(args)

	e := cmd.Execute()
	return outBuf.Bytes(), errBuf.Bytes(), e
}

// runOK runs args against dir and decodes the envelope's data.
func runOK(t *testing.T, dir string, args ...string) map[string]any {
	t.Helper()
	out, errOut, err := runCLI(t, append([]string{"--dir", dir}, args...))
	if err != nil {
		t.Fatalf("%v: %v\nstderr:\n%s", args, err, string(errOut))
	}
	var env map[string]any
	if err := json.Unmarshal(out, &env); err != nil {
		t.Fatalf("%v: decode: %v\n%s", args, err, string(out))
	}
	data, ok := env["data"].(map[string]any)
	if !ok {
		t.Fatalf("%v: expected object data, got %#v", args, env["data"])
	}
	return data
}

func TestFormat(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	data := runOK(t, dir, "format", "--pattern", "mm/yyyy", "--date", "2026-10-17")
	if data["formatted"] != "10/2026" {
		t.Fatalf("unexpected formatted: %#v", data)
	}

	data = runOK(t, dir, "format")
	if data["formatted"] != "17.10.2026" {
		t.Fatalf("expected today in the default pattern, got %#v", data)
	}

	_, errOut, err := runCLI(t, []string{"--dir", dir, "format", "--date", "17/10/2026"})
	if err == nil || !strings.Contains(string(errOut), "YYYY-MM-DD") {
		t.Fatalf("expected a date error, got err=%v stderr=%q", err, string(errOut))
	}
}

func TestFormat_StrictRejectsOddPattern(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	if _, _, err := runCLI(t, []string{"--dir", dir, "format", "--pattern", "dd.dd", "--strict"}); err == nil {
		t.Fatalf("expected --strict to reject a repeated token")
	}
	// Without --strict the codec still runs and fills the first token only.
	data := runOK(t, dir, "format", "--pattern", "dd.dd", "--date", "2026-10-05")
	if data["formatted"] != "05.dd" {
		t.Fatalf("unexpected formatted: %#v", data)
	}
}

func TestParse_NeverFails(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	data := runOK(t, dir, "parse", "--pattern", "yyyy-mm-dd", "2024-02-29")
	if data["ok"] != true || data["iso"] != "2024-02-29" {
		t.Fatalf("unexpected parse result: %#v", data)
	}
	date := data["date"].(map[string]any)
	if date["month"] != float64(1) || date["day"] != float64(29) {
		t.Fatalf("expected zero-based month 1, got %#v", date)
	}

	data = runOK(t, dir, "parse", "garbage")
	if data["ok"] != false || data["date"] != nil {
		t.Fatalf("expected ok=false date=null, got %#v", data)
	}

	data = runOK(t, dir, "parse", "today")
	if data["iso"] != "2026-10-17" {
		t.Fatalf("expected today, got %#v", data)
	}
}

func TestGrid_Snapshot(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	data := runOK(t, dir, "grid", "--value", "17.10.2026")
	cursor := data["cursor"].(map[string]any)
	if cursor["year"] != float64(2026) || cursor["month"] != float64(9) {
		t.Fatalf("unexpected cursor %#v", cursor)
	}
	// 1 October 2026 is a Thursday.
	if n := len(data["leadingDays"].([]any)); n != 3 {
		t.Fatalf("expected 3 leading days, got %d", n)
	}
	if n := len(data["currentMonthDays"].([]any)); n != 31 {
		t.Fatalf("expected 31 days, got %d", n)
	}
	if data["formatted"] != "17.10.2026" {
		t.Fatalf("unexpected formatted %#v", data["formatted"])
	}

	data = runOK(t, dir, "grid", "--value", "17.10.2026", "--month", "13")
	cursor = data["cursor"].(map[string]any)
	if cursor["year"] != float64(2027) || cursor["month"] != float64(0) {
		t.Fatalf("expected month 13 to show January 2027, got %#v", cursor)
	}
}

func TestGrid_NamedView(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	data := runOK(t, dir, "grid", "months", "--pattern", "mm.yyyy", "--value", "10.2026", "--from", "03.2026")
	if data["view"] != "months" {
		t.Fatalf("unexpected view %#v", data["view"])
	}
	cells := data["cells"].([]any)
	if len(cells) != 12 {
		t.Fatalf("expected 12 months, got %d", len(cells))
	}
	feb := cells[1].(map[string]any)
	if feb["active"] != false {
		t.Fatalf("expected February before the bound to be inactive: %#v", feb)
	}

	data = runOK(t, dir, "grid", "years", "--visible-year", "2030")
	years := data["cells"].([]any)
	if len(years) != 9 || years[0].(map[string]any)["year"] != float64(2026) {
		t.Fatalf("unexpected year window %#v", years)
	}

	if _, _, err := runCLI(t, []string{"--dir", dir, "grid", "weeks"}); err == nil {
		t.Fatalf("expected an unknown view to fail")
	}
}

func TestGrid_TextCalendar(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	out, errOut, err := runCLI(t, []string{"--dir", dir, "--format", "text", "--color", "never", "grid", "--value", "17.10.2026"})
	if err != nil {
		t.Fatalf("grid: %v\n%s", err, string(errOut))
	}
	s := string(out)
	for _, want := range []string{"October 2026", "Mo", "17*"} {
		if !strings.Contains(s, want) {
			t.Fatalf("expected %q in:\n%s", want, s)
		}
	}
	if strings.Contains(s, "\x1b[") {
		t.Fatalf("expected no escape sequences with --color never:\n%q", s)
	}
}

func TestOutput_EDNAndBadFormat(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	out, _, err := runCLI(t, []string{"--dir", dir, "--format", "edn", "format", "--date", "2026-10-17"})
	if err != nil {
		t.Fatalf("format: %v", err)
	}
	if !strings.HasPrefix(string(out), "{:data {") || !strings.Contains(string(out), `:formatted "17.10.2026"`) {
		t.Fatalf("unexpected edn %q", string(out))
	}

	if _, _, err := runCLI(t, []string{"--dir", dir, "--format", "yaml", "format"}); err == nil {
		t.Fatalf("expected unknown --format to fail")
	}
	if _, _, err := runCLI(t, []string{"--dir", dir, "--log-level", "loud", "format"}); err == nil {
		t.Fatalf("expected unknown --log-level to fail")
	}
}

func TestOutput_TextFormatIsResolvedOnce(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	// Every command treats a case variant of text the same way.
	for _, args := range [][]string{
		{"format", "--date", "2026-10-17"},
		{"parse", "17.10.2026"},
	} {
		out, errOut, err := runCLI(t, append([]string{"--dir", dir, "--format", "Text"}, args...))
		if err != nil {
			t.Fatalf("%v: %v\n%s", args, err, errOut)
		}
		if strings.Contains(string(out), `"data"`) {
			t.Fatalf("%v: expected plain text, got %q", args, string(out))
		}
	}
}

func TestGrid_RejectsOversizedWeeks(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	if _, _, err := runCLI(t, []string{"--dir", dir, "grid", "--weeks", "100000000"}); err == nil {
		t.Fatalf("expected --weeks above the limit to fail")
	}
	data := runOK(t, dir, "grid", "--value", "17.10.2026", "--weeks", "12")
	n := len(data["leadingDays"].([]any)) + len(data["currentMonthDays"].([]any)) + len(data["trailingDays"].([]any))
	if n != 84 {
		t.Fatalf("expected 84 day cells, got %d", n)
	}
}

func TestSession_Lifecycle(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	data := runOK(t, dir, "session", "new", "trip", "--value", "17.10.2026", "--from", "10.10.2026")
	snap := data["snapshot"].(map[string]any)
	if snap["formatted"] != "17.10.2026" {
		t.Fatalf("unexpected snapshot %#v", snap)
	}
	if _, _, err := runCLI(t, []string{"--dir", dir, "session", "new", "trip"}); err == nil {
		t.Fatalf("expected a duplicate session to fail")
	}

	data = runOK(t, dir, "session", "nav", "trip", "--months", "1")
	cursor := data["snapshot"].(map[string]any)["cursor"].(map[string]any)
	if cursor["month"] != float64(10) {
		t.Fatalf("expected November, got %#v", cursor)
	}

	data = runOK(t, dir, "session", "select", "trip", "--day", "5")
	if data["snapshot"].(map[string]any)["formatted"] != "05.11.2026" {
		t.Fatalf("unexpected selection %#v", data["snapshot"])
	}
	if n := len(data["selections"].([]any)); n != 1 {
		t.Fatalf("expected one recorded selection, got %d", n)
	}

	runOK(t, dir, "session", "nav", "trip", "--months", "-1")
	_, errOut, err := runCLI(t, []string{"--dir", dir, "session", "select", "trip", "--day", "3"})
	if err == nil || !strings.Contains(string(errOut), "out of range") {
		t.Fatalf("expected out of range, got err=%v stderr=%q", err, string(errOut))
	}
	runOK(t, dir, "session", "select", "trip", "--day", "3", "--force")
	runOK(t, dir, "session", "select", "trip", "--today")

	out, _, err := runCLI(t, []string{"--dir", dir, "session", "history", "trip"})
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	var env struct {
		Data []struct {
			Formatted string `json:"formatted"`
		} `json:"data"`
	}
	if err := json.Unmarshal(out, &env); err != nil {
		t.Fatalf("decode history: %v", err)
	}
	got := make([]string, 0, len(env.Data))
	for _, e := range env.Data {
		got = append(got, e.Formatted)
	}
	want := []string{"17.10.2026", "03.10.2026", "05.11.2026"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("history = %v want %v", got, want)
	}

	out, _, err = runCLI(t, []string{"--dir", dir, "session", "list"})
	if err != nil || !strings.Contains(string(out), `"name":"trip"`) {
		t.Fatalf("list: err=%v out=%s", err, string(out))
	}

	data = runOK(t, dir, "session", "delete", "trip")
	if data["deleted"] != "trip" {
		t.Fatalf("unexpected delete result %#v", data)
	}
	_, errOut, err = runCLI(t, []string{"--dir", dir, "session", "show", "trip"})
	if err == nil || !strings.Contains(string(errOut), "session not found: trip") {
		t.Fatalf("expected not found, got err=%v stderr=%q", err, string(errOut))
	}
}

func TestSession_NavRequiresAFlag(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	runOK(t, dir, "session", "new", "s")
	if _, _, err := runCLI(t, []string{"--dir", dir, "session", "nav", "s"}); err == nil {
		t.Fatalf("expected nav without flags to fail")
	}
	data := runOK(t, dir, "session", "nav", "s", "--set-year", "2030", "--set-month", "0", "--shift-years", "6")
	snap := data["snapshot"].(map[string]any)
	cursor := snap["cursor"].(map[string]any)
	if cursor["year"] != float64(2030) || cursor["month"] != float64(0) {
		t.Fatalf("unexpected cursor %#v", cursor)
	}
	// The year window is left where it was, then shifted.
	if snap["visibleYear"] != float64(2032) {
		t.Fatalf("expected visible year 2032, got %#v", snap["visibleYear"])
	}
}

func TestConfig_SetDrivesDefaults(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	runOK(t, dir, "config", "set", "pattern", "yyyy-mm-dd")
	data := runOK(t, dir, "format", "--date", "2026-10-17")
	if data["formatted"] != "2026-10-17" {
		t.Fatalf("expected the configured pattern, got %#v", data)
	}
	// A flag still wins.
	data = runOK(t, dir, "format", "--date", "2026-10-17", "--pattern", "dd.mm.yyyy")
	if data["formatted"] != "17.10.2026" {
		t.Fatalf("expected the flag pattern, got %#v", data)
	}

	data = runOK(t, dir, "config", "show")
	if data["pattern"] != "yyyy-mm-dd" {
		t.Fatalf("unexpected config %#v", data)
	}

	if _, _, err := runCLI(t, []string{"--dir", dir, "config", "set", "colour", "red"}); err == nil {
		t.Fatalf("expected an unknown key to fail")
	}
}

func TestDocs(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	data := runOK(t, dir, "docs")
	topics, _ := data["topics"].([]any)
	if len(topics) == 0 {
		t.Fatalf("expected topics, got %#v", data)
	}

	out, _, err := runCLI(t, []string{"--dir", dir, "docs", "patterns", "--raw"})
	if err != nil || !strings.Contains(string(out), "yyyy") {
		t.Fatalf("raw docs: err=%v out=%q", err, string(out))
	}

	if _, _, err := runCLI(t, []string{"--dir", dir, "docs", "nope"}); err == nil {
		t.Fatalf("expected unknown topic to fail")
	}
}

func TestPick_TodayKeyPrintsValue(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	cmd := newRootCmd(&App{Now: fixedNow})
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader("t"))
	cmd.SetArgs([]string{"--dir", dir, "pick", "--pattern", "yyyy-mm-dd"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("pick: %v", err)
	}
	if got := strings.TrimSpace(out.String()); got != "2026-10-17" {
		t.Fatalf("expected the picked value on stdout, got %q", got)
	}
}
