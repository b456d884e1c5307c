// Package command parses and dispatches the interactive command line
// shared by the GUI and terminal front-ends. The parser knows nothing
// about either front-end; everything it can do is expressed through the
// Actions interface.
package command

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// Actions is the surface a front-end exposes to the command line.
type Actions interface {
	Save(path string) error
	Load(path string) error
	Pause()
	Resume()
	SetSpeed(tps int) error
	Clear()
	SetBrushState(state int32) error
	SetBrushSize(size int) error
	Center()
	Fit()
	Quit()
}

const helpText = "commands: save <path>, load <path>, pause, resume, speed <tps>, clear, state <n>, brush <n>, center, fit, help, quit"

// Execute runs one command line against act and returns the status message
// to show the user. An empty line is a no-op.
func Execute(line string, act Actions) (string, error) {
	args, err := Tokenize(line)
	if err != nil {
		return "", err
	}
	if len(args) == 0 {
		return "", nil
	}

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "save":
		if len(rest) != 1 {
			return "", usage("save <path>")
		}
		if err := act.Save(rest[0]); err != nil {
			return "", err
		}
		return "saved " + rest[0], nil
	case "load":
		if len(rest) != 1 {
			return "", usage("load <path>")
		}
		if err := act.Load(rest[0]); err != nil {
			return "", err
		}
		return "loaded " + rest[0], nil
	case "pause":
		act.Pause()
		return "paused", nil
	case "resume":
		act.Resume()
		return "running", nil
	case "speed":
		if len(rest) != 1 {
			return "", usage("speed <tps>")
		}
		tps, err := strconv.Atoi(rest[0])
		if err != nil {
			return "", fmt.Errorf("speed: %q is not a number", rest[0])
		}
		if err := act.SetSpeed(tps); err != nil {
			return "", err
		}
		return fmt.Sprintf("speed %d generations/s", tps), nil
	case "clear":
		act.Clear()
		return "cleared", nil
	case "state":
		if len(rest) != 1 {
			return "", usage("state <n>")
		}
		n, err := strconv.ParseInt(rest[0], 10, 32)
		if err != nil {
			return "", fmt.Errorf("state: %q is not a number", rest[0])
		}
		if err := act.SetBrushState(int32(n)); err != nil {
			return "", err
		}
		return "brush state " + rest[0], nil
	case "brush":
		if len(rest) != 1 {
			return "", usage("brush <n>")
		}
		n, err := strconv.Atoi(rest[0])
		if err != nil {
			return "", fmt.Errorf("brush: %q is not a number", rest[0])
		}
		if err := act.SetBrushSize(n); err != nil {
			return "", err
		}
		return "brush size " + rest[0], nil
	case "center":
		act.Center()
		return "centered on origin", nil
	case "fit":
		act.Fit()
		return "fitted to population", nil
	case "help":
		return helpText, nil
	case "quit":
		act.Quit()
		return "", nil
	default:
		return "", fmt.Errorf("unknown command %q (try help)", cmd)
	}
}

func usage(s string) error { return fmt.Errorf("usage: %s", s) }

// Tokenize splits a command line into fields. Double-quoted spans form a
// single token so snapshot paths may contain spaces; there is no escape
// syntax inside quotes.
func Tokenize(line string) ([]string, error) {
	var (
		out      []string
		cur      strings.Builder
		inQuote  bool
		hasToken bool
	)
	for _, r := range line {
		switch {
		case r == '"':
			inQuote = !inQuote
			hasToken = true
		case unicode.IsSpace(r) && !inQuote:
			if hasToken {
				out = append(out, cur.String())
				cur.Reset()
				hasToken = false
			}
		default:
			cur.WriteRune(r)
			hasToken = true
		}
	}
	if inQuote {
		return nil, errors.New("unterminated quote")
	}
	if hasToken {
		out = append(out, cur.String())
	}
	return out, nil
}
