package view

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/MrJamesThe3rd/tenantry/internal/screening"
)

type section int

const (
	sectionCredit section = iota
	sectionIncome
)

// sectionFields backs both section forms. Numbers stay strings until saved so
// a blank input can mean "not entered".
type sectionFields struct {
	status       string
	score        string
	collections  bool
	bankruptcies bool
	evictions    bool

	monthly    string
	additional string
	rent       string
}

func creditFields(c screening.CreditCheck) *sectionFields {
	f := &sectionFields{
		status:       string(c.Status),
		collections:  c.Collections,
		bankruptcies: c.Bankruptcies,
		evictions:    c.Evictions,
	}

	if c.CreditScore != nil {
		f.score = strconv.Itoa(*c.CreditScore)
	}

	return f
}

func incomeFields(v screening.IncomeVerification) *sectionFields {
	f := &sectionFields{}
	if v.ProposedRent > 0 {
		f.monthly = formatFigure(v.MonthlyIncome)
		f.additional = formatFigure(v.AdditionalIncome)
		f.rent = formatFigure(v.ProposedRent)
	}

	return f
}

func formatFigure(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func validateScore(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}

	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 || n > 850 {
		return errors.New("enter a score between 0 and 850")
	}

	return nil
}

func validateFigure(optional bool) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			if optional {
				return nil
			}

			return errors.New("required")
		}

		if v, err := parseFigure(s); err != nil || v < 0 {
			return errors.New("enter a positive amount")
		}

		return nil
	}
}

func parseFigure(s string) (float64, error) {
	return strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(s), ",", ""), 64)
}

func buildCreditForm(f *sectionFields) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("status").
				Title("Credit check").
				Options(
					huh.NewOption("Not started", string(screening.StatusNotStarted)),
					huh.NewOption("In progress", string(screening.StatusInProgress)),
					huh.NewOption("Completed", string(screening.StatusCompleted)),
				).
				Value(&f.status),

			huh.NewInput().
				Key("score").
				Title("Credit score").
				Description("Leave blank if no score was returned").
				Value(&f.score).
				Validate(validateScore),

			huh.NewConfirm().Key("collections").Title("Collections?").Value(&f.collections),
			huh.NewConfirm().Key("bankruptcies").Title("Bankruptcies?").Value(&f.bankruptcies),
			huh.NewConfirm().Key("evictions").Title("Evictions?").Value(&f.evictions),
		),
	).WithWidth(50).WithShowHelp(false)
}

func buildIncomeForm(f *sectionFields) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("rent").
				Title("Proposed rent").
				Placeholder("1500.00").
				Value(&f.rent).
				Validate(validateFigure(false)),

			huh.NewInput().
				Key("monthly").
				Title("Monthly income").
				Description("Blank uses the income on the application").
				Value(&f.monthly).
				Validate(validateFigure(true)),

			huh.NewInput().
				Key("additional").
				Title("Additional income").
				Description("Blank uses the income on the application").
				Value(&f.additional).
				Validate(validateFigure(true)),
		),
	).WithWidth(50).WithShowHelp(false)
}

func creditPatch(f sectionFields) screening.Patch {
	status := screening.Status(f.status)
	cc := &screening.CreditCheckPatch{
		Status:       &status,
		Collections:  &f.collections,
		Bankruptcies: &f.bankruptcies,
		Evictions:    &f.evictions,
		CreditScore:  screening.Null[int](),
	}

	if n, err := strconv.Atoi(strings.TrimSpace(f.score)); err == nil {
		cc.CreditScore = screening.Some(n)
	}

	return screening.Patch{CreditCheck: cc}
}

func incomeParams(f sectionFields) (screening.IncomeParams, error) {
	rent, err := parseFigure(f.rent)
	if err != nil {
		return screening.IncomeParams{}, fmt.Errorf("proposed rent: %w", err)
	}

	params := screening.IncomeParams{ProposedRent: rent}

	if strings.TrimSpace(f.monthly) != "" {
		v, err := parseFigure(f.monthly)
		if err != nil {
			return params, fmt.Errorf("monthly income: %w", err)
		}

		params.MonthlyIncome = &v
	}

	if strings.TrimSpace(f.additional) != "" {
		v, err := parseFigure(f.additional)
		if err != nil {
			return params, fmt.Errorf("additional income: %w", err)
		}

		params.AdditionalIncome = &v
	}

	return params, nil
}

func (m ReviewModel) openSection(s section) (tea.Model, tea.Cmd) {
	if s == sectionCredit {
		m.fields = creditFields(m.scr.CreditCheck)
		m.form = buildCreditForm(m.fields)
	} else {
		m.fields = incomeFields(m.scr.IncomeVerification)
		m.form = buildIncomeForm(m.fields)
	}

	m.section = s
	m.state = reviewStateEdit

	return m, m.form.Init()
}

func (m ReviewModel) updateSection(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.Type == tea.KeyEsc {
		m.state = reviewStateDetail
		m.form = nil

		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		m.state = reviewStateDetail
		m.form = nil

		return m, m.saveSectionCmd(m.scr, m.section, *m.fields)
	case huh.StateAborted:
		m.state = reviewStateDetail
		m.form = nil
	}

	return m, cmd
}

func (m ReviewModel) saveSectionCmd(scr *screening.Screening, s section, f sectionFields) tea.Cmd {
	svc := m.screeningService

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		var (
			out *screening.Screening
			err error
		)

		if s == sectionCredit {
			out, err = svc.Update(ctx, scr.ID, creditPatch(f))
		} else {
			var params screening.IncomeParams

			params, err = incomeParams(f)
			if err == nil {
				out, err = svc.CalculateIncome(ctx, scr.ID, params)
			}
		}

		if err != nil {
			return screeningMsg{scr: scr, note: fmt.Sprintf("Cannot save: %v", err)}
		}

		return screeningMsg{scr: out, note: "Saved."}
	}
}
