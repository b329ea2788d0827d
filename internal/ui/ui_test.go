package ui

import (
	"bytes"
	"math"
	"strings"
	"testing"
)

func capture(t *testing.T) (*bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	var out, errb bytes.Buffer
	oldOut, oldErr := Out, Err
	Out, Err = &out, &errb
	t.Cleanup(func() {
		Out, Err = oldOut, oldErr
		SetColorForcing(false, false)
		SetTheme("classic")
	})
	return &out, &errb
}

func TestPanelAlignsWideRunes(t *testing.T) {
	out, _ := capture(t)
	SetTheme("mono")
	Panel([]string{"ab", "日本"})

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("lines = %q", lines)
	}
	// "日本" is four cells wide, so every row is 4 + 4 cells
	for _, want := range []string{"+------+", "| ab   |", "| 日本 |", "+------+"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("missing %q in\n%s", want, out.String())
		}
	}
}

func TestColorOnlyWhenForced(t *testing.T) {
	capture(t)
	if got := C(fgRed, "x"); got != "x" {
		t.Errorf("non-tty colored: %q", got)
	}
	SetColorForcing(true, false)
	if got := C(fgRed, "x"); got != fgRed+"x"+reset {
		t.Errorf("forced color = %q", got)
	}
	SetColorForcing(true, true)
	if got := C(fgRed, "x"); got != "x" {
		t.Errorf("disabled color = %q", got)
	}
}

func TestOKAndFail(t *testing.T) {
	out, errb := capture(t)
	OK("added")
	Fail("nope")
	if out.String() != "✔ added\n" {
		t.Errorf("ok = %q", out.String())
	}
	if errb.String() != "✖ nope\n" {
		t.Errorf("fail = %q", errb.String())
	}
}

func TestShareBar(t *testing.T) {
	capture(t)
	SetTheme("mono")
	if got := ShareBar(1, 4, 8); got != "##......  25%" {
		t.Errorf("bar = %q", got)
	}
	if got := ShareBar(1, 0, 5); got != ".....   0%" {
		t.Errorf("zero whole = %q", got)
	}
	if got := ShareBar(3, 2, 5); got != "##### 100%" {
		t.Errorf("overflow = %q", got)
	}
}

func TestShareBarNonFiniteInput(t *testing.T) {
	capture(t)
	SetTheme("mono")
	inf := math.Inf(1)
	for _, c := range [][2]float64{{inf, inf}, {math.NaN(), 1}, {-1, 4}, {1, math.NaN()}} {
		if got := ShareBar(c[0], c[1], 5); got != ".....   0%" {
			t.Errorf("ShareBar(%v, %v) = %q", c[0], c[1], got)
		}
	}
	if got := ShareBar(inf, 1, 5); got != "##### 100%" {
		t.Errorf("ShareBar(+Inf, 1) = %q", got)
	}
}
