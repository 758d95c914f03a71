package main

import (
	"os"
	"strings"

	"datepick/internal/cli"
)

// isDateValue reports whether s looks like a date typed on the command line:
// "today", or digits mixed with common separators.
func isDateValue(s string) bool {
	s = strings.TrimSpace(s)
	if s == "today" {
		return true
	}
	digits := 0
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case strings.ContainsRune("./-_ ", r):
		default:
			return false
		}
	}
	return digits > 0
}

func rewriteDirectValueArgs(argv []string) []string {
	// Convenience: `datepick 17.10.2026` works like `datepick grid --value 17.10.2026`.
	//
	// Cobra treats the first non-flag token as a subcommand, so argv is rewritten
	// before parsing. Persistent flags may come first (`datepick --dir ... today`),
	// so the first positional token is searched for, not just argv[1].
	if len(argv) < 2 {
		return argv
	}

	valueFlags := map[string]bool{
		"--dir":        true,
		"--format":     true,
		"--log-level":  true,
		"--log-format": true,
		"--color":      true,
	}

	rewrite := func(i int) []string {
		out := make([]string, 0, len(argv)+2)
		out = append(out, argv[:i]...)
		out = append(out, "grid", "--value")
		return append(out, argv[i:]...)
	}

	for i := 1; i < len(argv); i++ {
		a := strings.TrimSpace(argv[i])
		if a == "" {
			continue
		}
		if a == "--" {
			if i+1 < len(argv) && isDateValue(argv[i+1]) {
				// Flags end at "--"; keep the value after it.
				out := make([]string, 0, len(argv)+2)
				out = append(out, argv[:i]...)
				out = append(out, "grid", "--value")
				return append(out, argv[i+1:]...)
			}
			return argv
		}
		if strings.HasPrefix(a, "-") {
			if !strings.Contains(a, "=") && valueFlags[a] {
				i++
			}
			continue
		}
		if isDateValue(a) {
			return rewrite(i)
		}
		return argv
	}

	return argv
}

func main() {
	os.Args = rewriteDirectValueArgs(os.Args)

	cmd := cli.NewRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
