package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/idilsaglam/shoplist/internal/config"
	"github.com/idilsaglam/shoplist/internal/ui"
)

type harness struct {
	opt      Options
	out, err bytes.Buffer
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{}
	h.opt = Options{Config: &config.Config{
		DataFile:  filepath.Join(t.TempDir(), "shopping_list.json"),
		Theme:     "mono",
		OnCorrupt: config.OnCorruptAbort,
		Color:     config.ColorNever,
	}}
	oldOut, oldErr := ui.Out, ui.Err
	ui.Out, ui.Err = &h.out, &h.err
	ui.SetTheme("mono")
	t.Cleanup(func() {
		ui.Out, ui.Err = oldOut, oldErr
		ui.SetTheme("classic")
	})
	return h
}

func (h *harness) run(args ...string) int {
	h.out.Reset()
	h.err.Reset()
	return Run(args, h.opt)
}

func TestAddListTotal(t *testing.T) {
	h := newHarness(t)
	if code := h.run("add", "apples", "3", "0.5"); code != 0 {
		t.Fatalf("add exit %d: %s", code, h.err.String())
	}
	if code := h.run("add", "oat", "milk", "1", "2.99"); code != 0 {
		t.Fatalf("add exit %d: %s", code, h.err.String())
	}
	if !strings.Contains(h.out.String(), "oat milk") {
		t.Fatalf("add output = %q", h.out.String())
	}

	if code := h.run("ls"); code != 0 {
		t.Fatalf("ls exit %d", code)
	}
	out := h.out.String()
	for _, want := range []string{"- apples (Amount: 3, Price: $0.50)", "- oat milk (Amount: 1, Price: $2.99)", "$4.49"} {
		if !strings.Contains(out, want) {
			t.Errorf("ls missing %q:\n%s", want, out)
		}
	}
	if strings.Index(out, "apples") > strings.Index(out, "oat milk") {
		t.Errorf("ls not in insertion order:\n%s", out)
	}

	h.run("total")
	if got := strings.TrimSpace(h.out.String()); got != "Total cost: $4.49" {
		t.Fatalf("total = %q", got)
	}
}

func TestEditRemoveClear(t *testing.T) {
	h := newHarness(t)
	h.run("add", "milk", "1", "2")
	if code := h.run("edit", "milk", "3"); code != 0 {
		t.Fatalf("edit exit %d: %s", code, h.err.String())
	}
	h.run("total")
	if !strings.Contains(h.out.String(), "$6.00") {
		t.Fatalf("total after edit = %q", h.out.String())
	}
	if code := h.run("rm", "milk"); code != 0 {
		t.Fatalf("rm exit %d", code)
	}
	if code := h.run("rm", "milk"); code != 2 {
		t.Fatalf("second rm exit %d, want 2", code)
	}
	if !strings.Contains(h.err.String(), "milk is not in your shopping list") {
		t.Fatalf("rm error = %q", h.err.String())
	}

	h.run("add", "a", "1", "1")
	if code := h.run("clear"); code != 0 {
		t.Fatalf("clear exit %d", code)
	}
	h.run("ls")
	if !strings.Contains(h.out.String(), "no items") {
		t.Fatalf("ls after clear = %q", h.out.String())
	}
}

func TestExitCodes(t *testing.T) {
	h := newHarness(t)
	tests := []struct {
		args []string
		want int
	}{
		{nil, 2},
		{[]string{"help"}, 0},
		{[]string{"bogus"}, 2},
		{[]string{"add", "milk", "1"}, 2},
		{[]string{"add", "milk", "-1", "2"}, 2},
		{[]string{"add", "milk", "1", "abc"}, 2},
		{[]string{"edit", "milk"}, 2},
		{[]string{"edit", "ghost", "1"}, 2},
		{[]string{"rm"}, 2},
		{[]string{"export", "csv"}, 2},
	}
	for _, tt := range tests {
		if got := h.run(tt.args...); got != tt.want {
			t.Errorf("run(%v) = %d, want %d (stderr %q)", tt.args, got, tt.want, h.err.String())
		}
	}
}

func TestCorruptFile(t *testing.T) {
	h := newHarness(t)
	if err := os.WriteFile(h.opt.Config.DataFile, []byte("{broken"), 0o644); err != nil {
		t.Fatal(err)
	}
	if code := h.run("ls"); code != 1 {
		t.Fatalf("ls on corrupt file exit %d, want 1", code)
	}
	if !strings.Contains(h.err.String(), "SHOPLIST_ON_CORRUPT=reset") {
		t.Fatalf("missing hint: %q", h.err.String())
	}

	h.opt.Config.OnCorrupt = config.OnCorruptReset
	if code := h.run("add", "eggs", "12", "0.25"); code != 0 {
		t.Fatalf("add after reset exit %d: %s", code, h.err.String())
	}
	if !strings.Contains(h.err.String(), ".corrupt") {
		t.Fatalf("missing recovery notice: %q", h.err.String())
	}
	if _, err := os.Stat(h.opt.Config.DataFile + ".corrupt"); err != nil {
		t.Fatalf("quarantine file: %v", err)
	}
}

func TestSaveFailureExitCode(t *testing.T) {
	h := newHarness(t)
	h.opt.Config.DataFile = filepath.Join(t.TempDir(), "no-such-dir", "list.json")
	if code := h.run("add", "milk", "1", "1"); code != 1 {
		t.Fatalf("exit %d, want 1", code)
	}
	if !strings.Contains(h.err.String(), "not saved") {
		t.Fatalf("stderr = %q", h.err.String())
	}
}

func TestExport(t *testing.T) {
	h := newHarness(t)
	h.run("add", "apples", "3", "0.5")
	h.run("export")
	if got, want := h.out.String(), "{\n  \"apples\": [3, 0.5]\n}\n"; got != want {
		t.Fatalf("json export = %q, want %q", got, want)
	}
	h.run("export", "yaml")
	if got := h.out.String(); got != "apples: [3, 0.5]\n" {
		t.Fatalf("yaml export = %q", got)
	}
}

func TestExtremePricesDoNotBreakListing(t *testing.T) {
	h := newHarness(t)
	for _, price := range []string{"1e400", "1e50000000", "1e-50000000", "1000000000000"} {
		if code := h.run("add", "caviar", "1", price); code != 2 {
			t.Fatalf("add price %s exit %d, want 2", price, code)
		}
		if !strings.Contains(h.err.String(), "price") {
			t.Fatalf("add price %s stderr = %q", price, h.err.String())
		}
	}

	h.run("add", "gold", "9000000000", "999999999999.99")
	h.run("add", "dust", "1", "0.00000001")
	h.run("add", "free", "3", "0")
	if code := h.run("ls"); code != 0 {
		t.Fatalf("ls exit %d: %s", code, h.err.String())
	}
	for _, want := range []string{"gold", "dust", "free", "100%", "  0%"} {
		if !strings.Contains(h.out.String(), want) {
			t.Errorf("ls missing %q:\n%s", want, h.out.String())
		}
	}
	if info, err := os.Stat(h.opt.Config.DataFile); err != nil || info.Size() > 1024 {
		t.Fatalf("data file size = %v, %v", info, err)
	}
}

func TestAddRejectsInvalidUTF8Name(t *testing.T) {
	h := newHarness(t)
	if code := h.run("add", "caf\xe9", "1", "1"); code != 2 {
		t.Fatalf("exit %d, want 2", code)
	}
	h.run("export")
	if got := h.out.String(); got != "{}\n" {
		t.Fatalf("list after rejected add = %q", got)
	}
}

func TestListWithOnlyFreeItems(t *testing.T) {
	h := newHarness(t)
	h.run("add", "sample", "2", "0")
	if code := h.run("ls"); code != 0 {
		t.Fatalf("ls exit %d", code)
	}
	if !strings.Contains(h.out.String(), "$0.00") {
		t.Fatalf("ls = %q", h.out.String())
	}
}
