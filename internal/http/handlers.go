package http

import (
	"net/http"
	"strings"

	"lumina/internal/core"
	"lumina/internal/format"
	"lumina/internal/log"
)

// recentLimit is the dashboard's "latest transactions" size.
const recentLimit = 5

// unsavedWarning is attached to responses whose change is applied in memory
// but could not be written to storage.
const unsavedWarning = "change applied but could not be saved"

type profileView struct {
	core.UserProfile
	Warning string `json:"warning,omitempty"`
}

type transactionView struct {
	core.Transaction
	Display string `json:"display"`
}

type transactionsView struct {
	Transactions []transactionView `json:"transactions"`
	Count        int               `json:"count"`
}

type createdView struct {
	Transaction transactionView `json:"transaction"`
	Warning     string          `json:"warning,omitempty"`
}

type summaryView struct {
	core.Summary
	Currency core.CurrencyCode `json:"currency"`
	Display  summaryDisplay    `json:"display"`
	Recent   []transactionView `json:"recent"`
}

type summaryDisplay struct {
	NetWorth        string `json:"netWorth"`
	Income          string `json:"income"`
	Expense         string `json:"expense"`
	BudgetProgress  string `json:"budgetProgress"`
	BudgetRemaining string `json:"budgetRemaining"`
	DailySafeSpend  string `json:"dailySafeSpend"`
}

type breakdownGroup struct {
	core.CategoryTotal
	Percentage float64 `json:"percentage"`
	Display    string  `json:"display"`
}

type breakdownView struct {
	Type   core.TransactionType `json:"type"`
	Total  core.Money           `json:"total"`
	Groups []breakdownGroup     `json:"groups"`
}

type categoriesView struct {
	Type       core.TransactionType `json:"type"`
	Default    string               `json:"default"`
	Predefined []core.Category      `json:"predefined"`
	Used       []string             `json:"used"`
	All        []string             `json:"all"`
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	NewResponse().JSON(s.finance.Profile()).Write(w)
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	p := NewRequestBodyParser(r)
	if err := p.Parse(); err != nil {
		BadRequestError("invalid request body").Write(w)
		return
	}

	patch := ParseProfilePatch(p)
	if err := patch.Validate(); err != nil {
		UnprocessableEntityError(err.Error()).Write(w)
		return
	}

	profile, err := s.finance.UpdateProfile(r.Context(), patch)
	s.writeProfile(w, r, profile, err)
}

func (s *Server) handleToggleTheme(w http.ResponseWriter, r *http.Request) {
	profile, err := s.finance.ToggleTheme(r.Context())
	s.writeProfile(w, r, profile, err)
}

func (s *Server) handleOnboarding(w http.ResponseWriter, r *http.Request) {
	p := NewRequestBodyParser(r)
	if err := p.Parse(); err != nil {
		BadRequestError("invalid request body").Write(w)
		return
	}

	in, err := ParseOnboarding(p)
	if err != nil {
		UnprocessableEntityError(err.Error()).Write(w)
		return
	}

	profile, err := s.finance.Onboard(r.Context(), in.Name, in.Currency, in.InitialBalance)
	s.writeProfile(w, r, profile, err)
}

func (s *Server) writeProfile(w http.ResponseWriter, r *http.Request, profile core.UserProfile, err error) {
	view := profileView{UserProfile: profile}
	if err != nil {
		s.logPersistError(r, "Profile change not saved", err)
		view.Warning = unsavedWarning
	}
	NewResponse().JSON(view).Write(w)
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	filter, err := ParseFilter(r.URL.Query())
	if err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}

	txs := s.finance.Transactions(filter, ParseLimit(r.URL.Query()))
	currency := s.finance.Profile().Currency
	NewResponse().JSON(transactionsView{
		Transactions: toTransactionViews(txs, currency),
		Count:        len(txs),
	}).Write(w)
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	p := NewRequestBodyParser(r)
	if err := p.Parse(); err != nil {
		BadRequestError("invalid request body").Write(w)
		return
	}

	in, err := ParseTransactionInput(p, s.finance.Now())
	if err != nil {
		UnprocessableEntityError(err.Error()).Write(w)
		return
	}

	tx, err := s.finance.AddTransaction(r.Context(), in)
	view := createdView{Transaction: toTransactionView(tx, s.finance.Profile().Currency)}
	if err != nil {
		s.logPersistError(r, "Transaction not saved", err)
		view.Warning = unsavedWarning
	} else {
		s.structured.LogTransactionAdded(r.Context(), tx.ID, string(tx.Type), tx.Category, tx.Amount.Cents)
	}
	NewResponse().Status(http.StatusCreated).JSON(view).Write(w)
}

func (s *Server) handleGetTransaction(w http.ResponseWriter, r *http.Request) {
	tx, ok := s.finance.Transaction(r.PathValue("id"))
	if !ok {
		NotFoundError("transaction not found").Write(w)
		return
	}
	NewResponse().JSON(toTransactionView(tx, s.finance.Profile().Currency)).Write(w)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(r.PathValue("id"))
	if id == "" {
		BadRequestError("missing transaction id").Write(w)
		return
	}

	if err := s.finance.DeleteTransaction(r.Context(), id); err != nil {
		s.logPersistError(r, "Transaction deletion not saved", err)
		NewResponse().JSON(map[string]string{"warning": unsavedWarning}).Write(w)
		return
	}
	NewResponse().Status(http.StatusNoContent).Write(w)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	sum := s.finance.Summary()
	profile := s.finance.Profile()
	cur := profile.Currency

	NewResponse().JSON(summaryView{
		Summary:  sum,
		Currency: cur,
		Display: summaryDisplay{
			NetWorth:        format.Money(sum.NetWorth, cur, "", format.Options{Whole: true}),
			Income:          format.Money(sum.Month.Income, cur, "", format.Options{}),
			Expense:         format.Money(sum.Month.Expense, cur, "", format.Options{}),
			BudgetProgress:  format.Percent(sum.BudgetProgress),
			BudgetRemaining: format.Money(sum.BudgetRemaining, cur, "", format.Options{}),
			DailySafeSpend:  format.Money(sum.DailySafeSpend, cur, "", format.Options{}),
		},
		Recent: toTransactionViews(s.finance.Recent(recentLimit), cur),
	}).Write(w)
}

func (s *Server) handleBreakdown(w http.ResponseWriter, r *http.Request) {
	t, err := ParseTypeParam(r.URL.Query())
	if err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}

	groups := s.finance.CategoryBreakdown(t)
	cur := s.finance.Profile().Currency

	view := breakdownView{Type: t, Groups: make([]breakdownGroup, 0, len(groups))}
	for _, g := range groups {
		view.Total = view.Total.Add(g.Total)
		view.Groups = append(view.Groups, breakdownGroup{
			CategoryTotal: g,
			Percentage:    core.PercentageOfTotal(g, groups),
			Display:       format.Money(g.Total, cur, "", format.Options{}),
		})
	}
	NewResponse().JSON(view).Write(w)
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	t, err := ParseTypeParam(r.URL.Query())
	if err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}

	NewResponse().JSON(categoriesView{
		Type:       t,
		Default:    core.DefaultCategory(t),
		Predefined: core.PredefinedCategories(t),
		Used:       s.finance.UsedCategories(t),
		All:        s.finance.Categories(t),
	}).Write(w)
}

func (s *Server) handleCurrencies(w http.ResponseWriter, r *http.Request) {
	NewResponse().JSON(core.Currencies()).Write(w)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if err := s.finance.Reset(r.Context()); err != nil {
		s.logPersistError(r, "Reset did not clear storage", err)
		InternalServerError("data was cleared in memory but storage could not be erased").Write(w)
		return
	}
	NewResponse().Status(http.StatusNoContent).Write(w)
}

func (s *Server) logPersistError(r *http.Request, msg string, err error) {
	fields := log.NewFields().WithRequestID(r.Header.Get(requestIDHeader))
	fields.WithErrorType(log.ErrorTypeStorage)
	s.structured.LogError(r.Context(), msg, err, log.ComponentHTTP, log.OpPersist, fields)
}

func toTransactionView(tx core.Transaction, cur core.CurrencyCode) transactionView {
	return transactionView{
		Transaction: tx,
		Display:     format.Money(tx.Signed(), cur, "", format.Options{}),
	}
}

func toTransactionViews(txs []core.Transaction, cur core.CurrencyCode) []transactionView {
	out := make([]transactionView, 0, len(txs))
	for _, tx := range txs {
		out = append(out, toTransactionView(tx, cur))
	}
	return out
}
