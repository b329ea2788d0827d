package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/shopspring/decimal"

	"github.com/idilsaglam/shoplist/internal/config"
	"github.com/idilsaglam/shoplist/internal/export"
	"github.com/idilsaglam/shoplist/internal/model"
	"github.com/idilsaglam/shoplist/internal/obs"
	"github.com/idilsaglam/shoplist/internal/session"
	"github.com/idilsaglam/shoplist/internal/shoplist"
	"github.com/idilsaglam/shoplist/internal/store/jsonstore"
	"github.com/idilsaglam/shoplist/internal/tui"
	"github.com/idilsaglam/shoplist/internal/ui"
)

// Options carry the resolved configuration from main.
type Options struct {
	Config *config.Config
	Logger *slog.Logger
}

// Run dispatches subcommands and returns an exit code (0 ok, 1 error, 2 usage).
func Run(args []string, opt Options) int {
	if len(args) == 0 {
		PrintHelp()
		return 2
	}
	if opt.Logger == nil {
		opt.Logger = obs.NewLogger(io.Discard, false)
	}
	cmd, a := args[0], args[1:]

	switch cmd {
	case "help", "-h", "--help":
		PrintHelp()
		return 0

	case "ls", "list":
		return withSession(opt, doList)

	case "total":
		return withSession(opt, doTotal)

	case "add":
		if len(a) < 3 {
			ui.Fail("usage: shoplist add <item...> <amount> <price>")
			return 2
		}
		n := len(a)
		name, qty, price := strings.Join(a[:n-2], " "), a[n-2], a[n-1]
		return withSession(opt, func(s *session.Session) int { return doAdd(s, name, qty, price) })

	case "edit":
		if len(a) < 2 {
			ui.Fail("usage: shoplist edit <item...> <new amount>")
			return 2
		}
		n := len(a)
		name, qty := strings.Join(a[:n-1], " "), a[n-1]
		return withSession(opt, func(s *session.Session) int { return doEdit(s, name, qty) })

	case "rm", "remove":
		if len(a) == 0 {
			ui.Fail("usage: shoplist rm <item...>")
			return 2
		}
		name := strings.Join(a, " ")
		return withSession(opt, func(s *session.Session) int { return doRemove(s, name) })

	case "clear":
		return withSession(opt, doClear)

	case "export":
		format := export.FormatJSON
		if len(a) > 1 {
			ui.Fail("usage: shoplist export [json|yaml]")
			return 2
		}
		if len(a) == 1 {
			format = a[0]
		}
		return withSession(opt, func(s *session.Session) int { return doExport(s, format) })

	case "tui":
		return doTUI(opt)
	}

	ui.Fail("unknown subcommand: " + cmd)
	fmt.Fprintln(ui.Err)
	PrintHelp()
	return 2
}

func PrintHelp() {
	fmt.Fprint(ui.Out, `shoplist - keep a shopping list with prices

Usage:
  shoplist [flags] <subcommand> [args]

Subcommands:
  add <item...> <amount> <price>   Add an item, or add to the amount of an existing one
  edit <item...> <amount>          Set the amount of an item
  rm <item...>                     Remove an item
  clear                            Remove every item
  ls                               Show the list
  total                            Show the total cost
  export [json|yaml]               Write the list to stdout
  tui                              Interactive list

Flags:
  -config <file>   .env file to load
  -file <path>     data file (default ./shopping_list.json)
  -theme <name>    classic, neon or mono
  -debug           verbose logging

Examples:
  shoplist add apples 3 0.50
  shoplist add "oat milk" 1 2.99
  shoplist edit apples 6
  shoplist rm oat milk
`)
}

// -------------- subcommand impls ----------------

func openSession(opt Options) (*session.Session, error) {
	st := jsonstore.New(opt.Config.DataFile, opt.Logger)
	s, err := session.Open(st, opt.Config.OnCorrupt, opt.Logger)
	if err != nil {
		return nil, err
	}
	if s.Recovered != "" {
		ui.Hint("data file was unreadable; moved it to " + s.Recovered + " and started a new list")
	}
	return s, nil
}

func withSession(opt Options, fn func(s *session.Session) int) int {
	s, err := openSession(opt)
	if err != nil {
		ui.Fail(err.Error())
		if errors.Is(err, jsonstore.ErrCorrupt) {
			ui.Hint("Hint: fix the file, or set SHOPLIST_ON_CORRUPT=reset to start a new list")
		}
		return 1
	}
	return fn(s)
}

// exitCode maps an operation error to the process exit code.
func exitCode(op string, err error) int {
	ui.Fail(op + ": " + err.Error())
	if errors.Is(err, shoplist.ErrValidation) || errors.Is(err, shoplist.ErrNotFound) {
		return 2
	}
	if errors.Is(err, jsonstore.ErrIO) {
		ui.Hint("the change was not saved")
	}
	return 1
}

func doAdd(s *session.Session, name, qty, price string) int {
	ln, err := s.Add(name, qty, price)
	if err != nil {
		return exitCode("add", err)
	}
	added := strings.TrimSpace(qty)
	ui.OK(fmt.Sprintf("%s %s(s) at $%s each added to your shopping list", added, ln.Name, ln.Entry.UnitPrice.StringFixed(2)))
	return 0
}

func doEdit(s *session.Session, name, qty string) int {
	ln, err := s.EditQuantity(name, qty)
	if err != nil {
		return exitCode("edit", err)
	}
	ui.OK(fmt.Sprintf("the amount of %s is now %d", ln.Name, ln.Entry.Quantity))
	return 0
}

func doRemove(s *session.Session, name string) int {
	if err := s.Remove(name); err != nil {
		return exitCode("rm", err)
	}
	ui.OK(strings.TrimSpace(name) + " removed from your shopping list")
	return 0
}

func doClear(s *session.Session) int {
	if err := s.Clear(); err != nil {
		return exitCode("clear", err)
	}
	ui.OK("all items cleared from your shopping list")
	return 0
}

func doTotal(s *session.Session) int {
	fmt.Fprintf(ui.Out, "Total cost: %s\n", ui.C(ui.Current().Money, "$"+s.TotalCost().StringFixed(2)))
	return 0
}

func doExport(s *session.Session, format string) int {
	if err := export.Write(ui.Out, s.Snapshot(), format); err != nil {
		ui.Fail("export: " + err.Error())
		return 2
	}
	return 0
}

func doList(s *session.Session) int {
	snap := s.Snapshot()
	total := s.TotalCost()

	header := fmt.Sprintf("%s  %s %d  %s %s",
		ui.C(ui.Current().Title, "Shopping List"),
		ui.C(ui.Current().Accent, ui.Current().Bullet), len(snap),
		ui.C(ui.Current().Accent, "Total"), ui.C(ui.Current().Money, "$"+total.StringFixed(2)),
	)

	var lines []string
	lines = append(lines, header, "")
	lines = append(lines, itemLines(snap, total)...)
	lines = append(lines, "")
	lines = append(lines, ui.C(ui.Current().Muted, "Tip: add with `shoplist add apples 3 0.50`"))
	ui.Panel(lines)
	return 0
}

func doTUI(opt Options) int {
	logger, closeLog, err := obs.OpenLogFile(opt.Config.LogFile, opt.Config.Debug)
	if err != nil {
		ui.Fail("log file: " + err.Error())
		return 1
	}
	defer closeLog()
	opt.Logger = logger

	s, err := openSession(opt)
	if err != nil {
		ui.Fail(err.Error())
		return 1
	}
	if err := tui.Run(s, opt.Config.Theme); err != nil {
		ui.Fail("tui: " + err.Error())
		return 1
	}
	if s.Dirty() {
		ui.Fail("last change was not saved to " + s.Path())
		return 1
	}
	return 0
}

// -------------- rendering helpers --------------

func itemLines(snap []model.Line, total decimal.Decimal) []string {
	if len(snap) == 0 {
		return []string{ui.C(ui.Current().Muted, "no items")}
	}
	texts := make([]string, len(snap))
	maxw := 0
	for i, ln := range snap {
		texts[i] = shoplist.FormatLine(ln)
		if w := runewidth.StringWidth(texts[i]); w > maxw {
			maxw = w
		}
	}
	out := make([]string, 0, len(snap))
	for i, ln := range snap {
		share := 0.0
		if total.IsPositive() {
			share = ln.Entry.Cost().Div(total).InexactFloat64()
		}
		bar := ui.ShareBar(share, 1, 10)
		out = append(out, runewidth.FillRight(texts[i], maxw)+"  "+ui.C(ui.Current().Muted, bar))
	}
	return out
}
