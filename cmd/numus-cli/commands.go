package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/olekukonko/tablewriter"

	"numus/internal/core"
	"numus/internal/render"
	"numus/internal/services"
)

var errUsage = errors.New("invalid arguments")

var (
	headerStyle  = lipgloss.NewStyle().Bold(true)
	incomeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#2d7a6f"))
	expenseStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#e74c3c"))
	investStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#f1c40f"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
)

type app struct {
	dashboard *services.Dashboard
	formatter *render.Formatter
	out       io.Writer
}

func (a *app) run(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "summary":
		return a.summary(ctx)
	case "recent":
		return a.recent(ctx)
	case "goals":
		return a.goals(ctx)
	case "add":
		return a.add(ctx, args)
	case "contribute":
		return a.contribute(ctx, args)
	case "objective":
		return a.objective(ctx, args)
	case "report":
		return a.report(ctx, args)
	default:
		return errUsage
	}
}

func (a *app) amount(t core.TxType, m core.Money) string {
	s := a.formatter.Currency(m)
	switch t {
	case core.Income:
		return incomeStyle.Render(s)
	case core.Expense:
		return expenseStyle.Render(s)
	case core.Invest:
		return investStyle.Render(s)
	}
	return s
}

func (a *app) table(headers ...string) *tablewriter.Table {
	table := tablewriter.NewWriter(a.out)
	table.SetHeader(headers)
	table.SetAutoWrapText(false)
	return table
}

func (a *app) summary(ctx context.Context) error {
	snap, err := a.dashboard.Snapshot(ctx)
	if err != nil {
		return err
	}
	if snap.Objective != "" {
		fmt.Fprintln(a.out, headerStyle.Render("Objetivo: ")+snap.Objective)
	}

	table := a.table("Tipo", "Valor")
	table.Append([]string{"Recebido", a.amount(core.Income, snap.Totals.Income)})
	table.Append([]string{"Gasto", a.amount(core.Expense, snap.Totals.Expense)})
	table.Append([]string{"Investido", a.amount(core.Invest, snap.Totals.Invest)})
	table.Append([]string{headerStyle.Render("Saldo"), headerStyle.Render(a.formatter.Currency(snap.Totals.Balance))})
	table.Render()

	if len(snap.Categories) > 0 {
		cats := a.table("Categoria", "Valor")
		for _, c := range snap.Categories {
			cats.Append([]string{c.Name, a.formatter.Currency(c.Amount)})
		}
		cats.Render()
	}
	return nil
}

func (a *app) recent(ctx context.Context) error {
	snap, err := a.dashboard.Snapshot(ctx)
	if err != nil {
		return err
	}
	if len(snap.Recent) == 0 {
		fmt.Fprintln(a.out, mutedStyle.Render("Nenhuma transação"))
		return nil
	}
	a.transactions(snap.Recent)
	return nil
}

func (a *app) transactions(txs []core.Transaction) {
	table := a.table("ID", "Data", "Categoria", "Tipo", "Valor", "Descrição")
	for _, tx := range txs {
		table.Append([]string{
			strconv.FormatInt(tx.ID, 10),
			a.formatter.Date(tx.Date),
			tx.Category,
			render.TypeLabel(tx.Type),
			a.amount(tx.Type, tx.Amount),
			tx.Description,
		})
	}
	table.Render()
}

func (a *app) goals(ctx context.Context) error {
	snap, err := a.dashboard.Snapshot(ctx)
	if err != nil {
		return err
	}
	if len(snap.Goals) == 0 {
		fmt.Fprintln(a.out, mutedStyle.Render("Nenhuma meta criada"))
		return nil
	}
	table := a.table("ID", "Meta", "Categoria", "Guardado", "Alvo", "%")
	for _, g := range snap.Goals {
		table.Append([]string{
			strconv.FormatInt(g.Goal.ID, 10),
			g.Goal.Name,
			g.Goal.Category,
			a.amount(core.Invest, g.Saved),
			a.formatter.Currency(g.Goal.Target),
			strconv.Itoa(g.Percent) + "%",
		})
	}
	table.Render()
	return nil
}

func (a *app) add(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("add", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	typ := fs.String("type", string(core.Expense), "income, expense or invest")
	amount := fs.String("amount", "", "amount, e.g. 12,50")
	category := fs.String("category", "", "category name")
	desc := fs.String("desc", "", "description")
	date := fs.String("date", "", "YYYY-MM-DD, defaults to today")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	cents, err := core.ParseDecimalToCents(*amount)
	if err != nil {
		return fmt.Errorf("amount %q: %w", *amount, core.ErrInvalidAmount)
	}
	tx := core.Transaction{
		Date:        core.DateOf(a.dashboard.Now()),
		Description: strings.TrimSpace(*desc),
		Category:    strings.TrimSpace(*category),
		Type:        core.TxType(*typ),
		Amount:      core.Money{Cents: cents},
	}
	if *date != "" {
		d, err := core.ParseDate(*date)
		if err != nil {
			return err
		}
		tx.Date = d
	}

	tx, err = a.dashboard.AddTransaction(ctx, tx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Transação %d registrada: %s\n", tx.ID, a.amount(tx.Type, tx.Amount))
	return nil
}

func (a *app) contribute(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return errUsage
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return errUsage
	}
	tx, ok, err := a.dashboard.ContributeToGoal(ctx, id, args[1])
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(a.out, mutedStyle.Render("Aporte ignorado"))
		return nil
	}
	fmt.Fprintln(a.out, "Aporte registrado: "+a.amount(tx.Type, tx.Amount))
	return nil
}

func (a *app) objective(ctx context.Context, args []string) error {
	if len(args) == 0 {
		text, err := a.dashboard.Records().LoadObjective(ctx)
		if err != nil {
			return err
		}
		if text == "" {
			fmt.Fprintln(a.out, mutedStyle.Render("Sem objetivo definido"))
			return nil
		}
		fmt.Fprintln(a.out, text)
		return nil
	}
	text, err := a.dashboard.SaveObjective(ctx, strings.Join(args, " "))
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Objetivo salvo: "+text)
	return nil
}

func (a *app) report(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("report", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	category := fs.String("category", "", "exact category")
	typ := fs.String("type", "", "income, expense or invest")
	from := fs.String("from", "", "first date, inclusive")
	to := fs.String("to", "", "last date, inclusive")
	search := fs.String("q", "", "description substring")
	sortBy := fs.String("sort", core.SortDateDesc, "date, -date, amount or -amount")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	f := core.ReportFilter{
		Category: strings.TrimSpace(*category),
		Search:   strings.TrimSpace(*search),
		Sort:     *sortBy,
	}
	if *typ != "" {
		f.Type = core.TxType(*typ)
		if !f.Type.Valid() {
			return fmt.Errorf("type %q: %w", *typ, core.ErrInvalidType)
		}
	}
	for _, b := range []struct {
		raw string
		dst *core.Date
	}{{*from, &f.From}, {*to, &f.To}} {
		if b.raw == "" {
			continue
		}
		d, err := core.ParseDate(b.raw)
		if err != nil {
			return err
		}
		*b.dst = d
	}

	rep, err := a.dashboard.Report(ctx, f)
	if err != nil {
		return err
	}
	if len(rep.Transactions) == 0 {
		fmt.Fprintln(a.out, mutedStyle.Render("Nenhuma transação"))
		return nil
	}
	a.transactions(rep.Transactions)
	fmt.Fprintf(a.out, "%d transações | recebido %s | gasto %s | investido %s\n",
		len(rep.Transactions),
		a.formatter.Currency(rep.Totals.Income),
		a.formatter.Currency(rep.Totals.Expense),
		a.formatter.Currency(rep.Totals.Invest))
	return nil
}
