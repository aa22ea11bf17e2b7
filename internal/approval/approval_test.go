package approval

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestConfirm_Responses(t *testing.T) {
	tests := []struct {
		input    string
		want     bool
		wantMode Mode
	}{
		{"y\n", true, ModeManual},
		{"YES\n", true, ModeManual},
		{"n\n", false, ModeManual},
		{"a\n", true, ModeAuto},
		{"session\n", true, ModeSession},
		{"maybe\ny\n", true, ModeManual},
		{"n", false, ModeManual},
	}

	for _, tt := range tests {
		var out bytes.Buffer
		approver := New(ModeManual, strings.NewReader(tt.input), &out)

		got, err := approver.Confirm(`delete directory "/tmp/x"`)
		if err != nil {
			t.Fatalf("Confirm(%q) failed: %v", tt.input, err)
		}
		if got != tt.want {
			t.Errorf("Confirm(%q) = %v, want %v", tt.input, got, tt.want)
		}
		if approver.Mode() != tt.wantMode {
			t.Errorf("Confirm(%q) mode = %v, want %v", tt.input, approver.Mode(), tt.wantMode)
		}
		if !strings.Contains(out.String(), `delete directory "/tmp/x"`) {
			t.Errorf("Expected prompt to name the action, got %q", out.String())
		}
	}
}

func TestConfirm_InvalidThenValid(t *testing.T) {
	var out bytes.Buffer
	approver := New(ModeManual, strings.NewReader("x\ny\n"), &out)

	if ok, err := approver.Confirm("rm"); err != nil || !ok {
		t.Fatalf("Confirm() = %v, %v", ok, err)
	}
	if strings.Count(out.String(), "Proceed?") != 2 {
		t.Errorf("Expected to be asked twice, got %q", out.String())
	}
}

func TestConfirm_NonManualSkipsPrompt(t *testing.T) {
	for _, mode := range []Mode{ModeAuto, ModeSession} {
		var out bytes.Buffer
		approver := New(mode, strings.NewReader(""), &out)

		ok, err := approver.Confirm("rm")
		if err != nil || !ok {
			t.Errorf("%v: Confirm() = %v, %v", mode, ok, err)
		}
		if out.Len() != 0 {
			t.Errorf("%v: expected no prompt, got %q", mode, out.String())
		}
	}
}

func TestConfirm_SessionAppliesToLaterCalls(t *testing.T) {
	approver := New(ModeManual, strings.NewReader("s\n"), &bytes.Buffer{})

	if ok, _ := approver.Confirm("first"); !ok {
		t.Fatal("Expected first call to be approved")
	}
	if ok, err := approver.Confirm("second"); err != nil || !ok {
		t.Errorf("Expected second call to be approved without input, got %v, %v", ok, err)
	}
}

func TestConfirm_EOF(t *testing.T) {
	approver := New(ModeManual, strings.NewReader(""), &bytes.Buffer{})

	if _, err := approver.Confirm("rm"); err == nil {
		t.Error("Expected error on empty input, got nil")
	}
}

func TestRequire(t *testing.T) {
	approver := New(ModeManual, strings.NewReader("n\n"), &bytes.Buffer{})

	if err := approver.Require("rm"); !errors.Is(err, ErrDeclined) {
		t.Errorf("Expected ErrDeclined, got %v", err)
	}
}
