package approval

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// Mode represents the approval mode
type Mode int

const (
	ModeManual  Mode = iota // Ask for each operation
	ModeAuto                // Approve everything, remembered across runs
	ModeSession             // Approve everything for this run
)

func (m Mode) String() string {
	switch m {
	case ModeManual:
		return "manual"
	case ModeAuto:
		return "auto"
	case ModeSession:
		return "session"
	default:
		return "unknown"
	}
}

// ErrDeclined is returned by Require when the user answers no.
var ErrDeclined = errors.New("operation cancelled by user")

var promptColor = color.New(color.FgYellow, color.Bold)

// Approver asks before destructive operations
type Approver struct {
	mode Mode
	in   *bufio.Reader
	out  io.Writer
}

// New creates an approver reading answers from in and writing prompts to out
func New(mode Mode, in io.Reader, out io.Writer) *Approver {
	return &Approver{
		mode: mode,
		in:   bufio.NewReader(in),
		out:  out,
	}
}

// Mode returns the current approval mode
func (a *Approver) Mode() Mode {
	return a.mode
}

// SetMode sets the approval mode
func (a *Approver) SetMode(mode Mode) {
	a.mode = mode
}

// Confirm asks whether action may proceed. Answers: y(es), n(o), a(lways)
// and s(ession). Anything else asks again.
func (a *Approver) Confirm(action string) (bool, error) {
	if a.mode != ModeManual {
		return true, nil
	}

	for {
		promptColor.Fprintf(a.out, "\n%s\n", action)
		fmt.Fprint(a.out, "Proceed? [y/n/a/s]: ")

		response, err := a.in.ReadString('\n')
		if err != nil && (err != io.EOF || response == "") {
			return false, fmt.Errorf("failed to read input: %w", err)
		}

		switch strings.TrimSpace(strings.ToLower(response)) {
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		case "a", "always":
			a.mode = ModeAuto
			fmt.Fprintln(a.out, "All operations will be approved from now on.")
			return true, nil
		case "s", "session":
			a.mode = ModeSession
			fmt.Fprintln(a.out, "All operations will be approved for this session.")
			return true, nil
		default:
			if err == io.EOF {
				return false, fmt.Errorf("failed to read input: %w", err)
			}
			fmt.Fprintln(a.out, "Invalid input. Enter 'y' (yes), 'n' (no), 'a' (always) or 's' (session).")
		}
	}
}

// Require is Confirm that turns a "no" into ErrDeclined.
func (a *Approver) Require(action string) error {
	ok, err := a.Confirm(action)
	if err != nil {
		return err
	}
	if !ok {
		return ErrDeclined
	}
	return nil
}
