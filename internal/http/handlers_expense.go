package http

import (
	"errors"
	"net/http"

	"farmbook/internal/core"
	"farmbook/internal/log"
	"farmbook/internal/store"
)

func (s *Server) handleExpenseList(w http.ResponseWriter, r *http.Request) {
	expenses, err := s.expenses.List(r.Context())
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Expense list error", log.FieldError, err)
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(`<div class="error">Could not load expenses</div>`))
		return
	}

	type row struct {
		ID           int64
		FarmID       int64
		Amount       string
		Category     string
		CategoryTone string
		Date         string
		Description  string
	}
	rows := make([]row, 0, len(expenses))
	for _, e := range expenses {
		rows = append(rows, row{
			ID:           e.ID,
			FarmID:       e.FarmID,
			Amount:       core.FormatCurrency(e.Amount),
			Category:     string(e.Category),
			CategoryTone: string(e.Category.Tone()),
			Date:         e.Date,
			Description:  e.Description,
		})
	}

	s.render(w, r, "expenses.html", struct{ Expenses []row }{rows})
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	if resp := RequirePOST(r); resp != nil {
		resp.Write(w)
		return
	}
	if resp := ParseFormOrFail(r); resp != nil {
		resp.Write(w)
		return
	}

	farmID, ok := ParseID(r.Form, "farm_id")
	if !ok {
		BadRequestError("Missing farm id").Write(w)
		return
	}
	amount, err := core.ParseAmount(r.Form.Get("amount"))
	if err != nil {
		UnprocessableEntityError("Amount must be a positive number").Write(w)
		return
	}
	expense := core.Expense{
		FarmID:      farmID,
		Amount:      amount,
		Category:    core.ExpenseCategory(sanitizeInput(r.Form.Get("category"))),
		Date:        sanitizeInput(r.Form.Get("date")),
		Description: sanitizeInput(r.Form.Get("description")),
	}

	created, err := s.expenses.Create(r.Context(), expense)
	if err != nil {
		if store.IsValidation(err) {
			UnprocessableEntityError("Invalid expense data: " + err.Error()).Write(w)
			return
		}
		s.logger.ErrorContext(r.Context(), "Failed to save expense",
			log.FieldError, err, log.FieldFarmID, farmID, log.FieldAmount, amount)
		InternalServerError("Error saving expense").Write(w)
		return
	}

	s.purgeFinancialCaches()
	seq := s.reportSeq.Add(1)
	s.logger.InfoContext(r.Context(), "Expense created",
		log.FieldRecordID, created.ID, log.FieldFarmID, created.FarmID,
		log.FieldAmount, created.Amount, log.FieldCategory, string(created.Category),
		log.FieldOperation, log.OpCreate)

	NewHTMXResponse().
		TriggerRecordsChanged("expense").
		TriggerReportRefresh("", "", seq).
		TriggerStatsRefresh().
		TriggerFormReset().
		TriggerSuccessNotification("Expense of " + core.FormatCurrency(created.Amount) + " recorded").
		Write(w)
}

// handleUpdateExpense applies a partial update and queues the row for
// ledger sync. Only submitted fields change.
func (s *Server) handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	if resp := RequirePOST(r); resp != nil {
		resp.Write(w)
		return
	}
	if resp := ParseFormOrFail(r); resp != nil {
		resp.Write(w)
		return
	}

	id, ok := ParseID(r.Form, "id")
	if !ok {
		BadRequestError("Missing expense id").Write(w)
		return
	}

	var patch store.ExpensePatch
	if r.Form.Has("amount") {
		amount, err := core.ParseAmount(r.Form.Get("amount"))
		if err != nil {
			UnprocessableEntityError("Amount must be a positive number").Write(w)
			return
		}
		patch.Amount = &amount
	}
	if r.Form.Has("category") {
		category := core.ExpenseCategory(sanitizeInput(r.Form.Get("category")))
		patch.Category = &category
	}
	if r.Form.Has("date") {
		date := sanitizeInput(r.Form.Get("date"))
		patch.Date = &date
	}
	if r.Form.Has("description") {
		description := sanitizeInput(r.Form.Get("description"))
		patch.Description = &description
	}

	updated, err := s.expenses.Update(r.Context(), id, patch)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			NotFoundError("Expense not found").Write(w)
			return
		}
		if store.IsValidation(err) {
			UnprocessableEntityError("Invalid expense data: " + err.Error()).Write(w)
			return
		}
		s.logger.ErrorContext(r.Context(), "Failed to update expense", log.FieldError, err, log.FieldRecordID, id)
		InternalServerError("Error updating expense").Write(w)
		return
	}

	s.purgeFinancialCaches()
	seq := s.reportSeq.Add(1)
	s.logger.InfoContext(r.Context(), "Expense updated",
		log.FieldRecordID, updated.ID, log.FieldAmount, updated.Amount,
		log.FieldCategory, string(updated.Category), log.FieldOperation, log.OpUpdate)

	NewHTMXResponse().
		TriggerRecordsChanged("expense").
		TriggerReportRefresh("", "", seq).
		TriggerStatsRefresh().
		TriggerSuccessNotification("Expense updated to " + core.FormatCurrency(updated.Amount)).
		Write(w)
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	if resp := RequireDeleteOrPOST(r); resp != nil {
		resp.Write(w)
		return
	}
	if resp := ParseFormOrFail(r); resp != nil {
		resp.Write(w)
		return
	}

	id, ok := ParseID(r.Form, "id")
	if !ok {
		BadRequestError("Missing expense id").Write(w)
		return
	}

	if err := s.expenses.Delete(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			NotFoundError("Expense not found").Write(w)
			return
		}
		s.logger.ErrorContext(r.Context(), "Failed to delete expense", log.FieldError, err, log.FieldRecordID, id)
		InternalServerError("Error deleting expense").Write(w)
		return
	}

	s.purgeFinancialCaches()
	seq := s.reportSeq.Add(1)
	s.logger.InfoContext(r.Context(), "Expense deleted",
		log.FieldRecordID, id, log.FieldOperation, log.OpDelete)

	NewHTMXResponse().
		TriggerRecordsChanged("expense").
		TriggerReportRefresh("", "", seq).
		TriggerStatsRefresh().
		TriggerSuccessNotification("Expense deleted").
		Write(w)
}
