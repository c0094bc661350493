package tui

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/shopspring/decimal"

	"tally/internal/model"
	"tally/internal/session"
	"tally/internal/validate"
)

// expenseFormValues backs the add/edit expense form.
type expenseFormValues struct {
	title       string
	amount      string
	date        string
	category    string
	description string
}

// signInFormValues backs the sign-in form.
type signInFormValues struct {
	name     string
	email    string
	password string
}

func newExpenseForm(v *expenseFormValues) *huh.Form {
	opts := make([]huh.Option[string], 0, len(model.Categories))
	for _, c := range model.Categories {
		opts = append(opts, huh.NewOption(c.Label(), string(c)))
	}

	return huh.NewForm(huh.NewGroup(
		huh.NewInput().Title("Title").Value(&v.title),
		huh.NewInput().Title("Amount").Value(&v.amount),
		huh.NewInput().Title("Date").Placeholder("YYYY-MM-DD").Value(&v.date),
		huh.NewSelect[string]().Title("Category").Options(opts...).Value(&v.category),
		huh.NewInput().Title("Note").Value(&v.description),
	)).WithShowHelp(true)
}

func newSignInForm(v *signInFormValues) *huh.Form {
	return huh.NewForm(huh.NewGroup(
		huh.NewInput().Title("Name").Value(&v.name),
		huh.NewInput().Title("Email").Value(&v.email),
		huh.NewInput().Title("Password").EchoMode(huh.EchoModePassword).Value(&v.password),
	)).WithShowHelp(true)
}

func newBudgetForm(v *string) *huh.Form {
	return huh.NewForm(huh.NewGroup(
		huh.NewInput().Title("Monthly budget").Placeholder("0 clears it").Value(v),
	)).WithShowHelp(true)
}

// openExpenseForm starts the editor, pre-filled when editing.
func (a *App) openExpenseForm(editID string) tea.Cmd {
	a.editingID = editID
	a.expVals = expenseFormValues{
		date:     time.Now().Format("2006-01-02"),
		category: string(model.CategoryOther),
	}
	if editID != "" {
		for _, e := range a.core.Expenses() {
			if e.ID == editID {
				a.expVals = expenseFormValues{
					title:       e.Title,
					amount:      e.Amount.String(),
					date:        e.Date.String(),
					category:    string(e.Category),
					description: e.Description,
				}
				break
			}
		}
	}
	a.form = newExpenseForm(&a.expVals)
	a.formKind = formExpense
	if a.width > 0 {
		a.form = a.form.WithWidth(min(a.width-4, 64))
	}
	return a.form.Init()
}

func (a *App) openSignInForm() tea.Cmd {
	a.signVals = signInFormValues{}
	a.form = newSignInForm(&a.signVals)
	a.formKind = formSignIn
	if a.width > 0 {
		a.form = a.form.WithWidth(min(a.width-4, 64))
	}
	return a.form.Init()
}

func (a *App) openBudgetForm() tea.Cmd {
	a.budgetVal = ""
	if b := a.core.Budget(); b.IsPositive() {
		a.budgetVal = b.String()
	}
	a.form = newBudgetForm(&a.budgetVal)
	a.formKind = formBudget
	if a.width > 0 {
		a.form = a.form.WithWidth(min(a.width-4, 64))
	}
	return a.form.Init()
}

func (a App) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.form = f
	}

	if a.form.State == huh.StateAborted {
		a.closeForm()
		return a, nil
	}
	if a.form.State != huh.StateCompleted {
		return a, cmd
	}

	kind := a.formKind
	a.closeForm()
	switch kind {
	case formExpense:
		a.submitExpenseForm()
	case formSignIn:
		a.submitSignInForm()
	case formBudget:
		a.submitBudgetForm()
	}
	return a, nil
}

func (a *App) closeForm() {
	a.form = nil
	a.formKind = formNone
}

func (a *App) submitExpenseForm() {
	res, err := a.core.SubmitExpense(a.editingID, validate.Fields{
		Title:       a.expVals.title,
		Amount:      a.expVals.amount,
		Date:        a.expVals.date,
		Category:    a.expVals.category,
		Description: a.expVals.description,
	})
	if err != nil {
		a.setNotice(err.Error(), true)
		return
	}
	if !res.OK {
		a.setNotice(joinFieldErrors(res.Errors), true)
		return
	}
	if a.editingID == "" {
		a.setNotice(fmt.Sprintf("Added %q", res.Expense.Title), false)
		a.exp.cursor = 0
		a.exp.offset = 0
	} else {
		a.setNotice(fmt.Sprintf("Updated %q", res.Expense.Title), false)
	}
	a.editingID = ""
}

func (a *App) submitSignInForm() {
	res, err := a.core.SignIn(session.SignInInput{
		Name:  a.signVals.name,
		Email: a.signVals.email,
	}, a.signVals.password)
	a.signVals.password = ""
	if errors.Is(err, session.ErrAuthentication) {
		a.setNotice("Incorrect password", true)
		return
	}
	if err != nil {
		a.setNotice(err.Error(), true)
		return
	}

	msg := "Signed in as " + res.Identity.Profile.Name
	if res.Registered {
		msg = "Registered " + res.Identity.Profile.Name
	}
	if res.Imported > 0 {
		msg += fmt.Sprintf(" · imported %d guest expense(s)", res.Imported)
	}
	a.setNotice(msg, false)
	a.exp.cursor = 0
	a.exp.offset = 0
}

func (a *App) submitBudgetForm() {
	raw := strings.TrimSpace(a.budgetVal)
	if raw == "" {
		return
	}
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		a.setNotice(fmt.Sprintf("Invalid budget %q", raw), true)
		return
	}
	if err := a.core.SetBudget(amount); err != nil {
		a.setNotice(err.Error(), true)
		return
	}
	if amount.IsZero() {
		a.setNotice("Budget cleared", false)
		return
	}
	a.setNotice("Budget updated", false)
}

func (a *App) setNotice(msg string, isErr bool) {
	a.notice = msg
	a.noticeIsErr = isErr
}

func joinFieldErrors(errs map[string]string) string {
	fields := make([]string, 0, len(errs))
	for f := range errs {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+errs[f])
	}
	return strings.Join(parts, " · ")
}
