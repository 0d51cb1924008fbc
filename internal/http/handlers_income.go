package http

import (
	"errors"
	"net/http"

	"farmbook/internal/core"
	"farmbook/internal/log"
	"farmbook/internal/store"
)

func (s *Server) handleIncomeList(w http.ResponseWriter, r *http.Request) {
	records, err := s.income.List(r.Context())
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Income list error", log.FieldError, err)
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(`<div class="error">Could not load income</div>`))
		return
	}

	type row struct {
		ID          int64
		Amount      string
		Source      string
		SourceTone  string
		Date        string
		Description string
	}
	rows := make([]row, 0, len(records))
	for _, in := range records {
		rows = append(rows, row{
			ID:          in.ID,
			Amount:      core.FormatCurrency(in.Amount),
			Source:      string(in.Source),
			SourceTone:  string(in.Source.Tone()),
			Date:        in.Date,
			Description: in.Description,
		})
	}

	s.render(w, r, "income.html", struct{ Income []row }{rows})
}

func (s *Server) handleCreateIncome(w http.ResponseWriter, r *http.Request) {
	if resp := RequirePOST(r); resp != nil {
		resp.Write(w)
		return
	}
	if resp := ParseFormOrFail(r); resp != nil {
		resp.Write(w)
		return
	}

	amount, err := core.ParseAmount(r.Form.Get("amount"))
	if err != nil {
		UnprocessableEntityError("Amount must be a positive number").Write(w)
		return
	}
	record := core.Income{
		Amount:      amount,
		Source:      core.IncomeSource(sanitizeInput(r.Form.Get("source"))),
		Date:        sanitizeInput(r.Form.Get("date")),
		Description: sanitizeInput(r.Form.Get("description")),
	}

	created, err := s.income.Create(r.Context(), record)
	if err != nil {
		if store.IsValidation(err) {
			UnprocessableEntityError("Invalid income data: " + err.Error()).Write(w)
			return
		}
		s.logger.ErrorContext(r.Context(), "Failed to save income",
			log.FieldError, err, log.FieldAmount, amount, log.FieldSource, string(record.Source))
		InternalServerError("Error saving income").Write(w)
		return
	}

	s.purgeFinancialCaches()
	seq := s.reportSeq.Add(1)
	s.logger.InfoContext(r.Context(), "Income created",
		log.FieldRecordID, created.ID, log.FieldAmount, created.Amount,
		log.FieldSource, string(created.Source), log.FieldOperation, log.OpCreate)

	NewHTMXResponse().
		TriggerRecordsChanged("income").
		TriggerReportRefresh("", "", seq).
		TriggerStatsRefresh().
		TriggerFormReset().
		TriggerSuccessNotification("Income of " + core.FormatCurrency(created.Amount) + " recorded").
		Write(w)
}

// handleUpdateIncome applies a partial update and queues the row for
// ledger sync. Only submitted fields change.
func (s *Server) handleUpdateIncome(w http.ResponseWriter, r *http.Request) {
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
		BadRequestError("Missing income id").Write(w)
		return
	}

	var patch store.IncomePatch
	if r.Form.Has("amount") {
		amount, err := core.ParseAmount(r.Form.Get("amount"))
		if err != nil {
			UnprocessableEntityError("Amount must be a positive number").Write(w)
			return
		}
		patch.Amount = &amount
	}
	if r.Form.Has("source") {
		source := core.IncomeSource(sanitizeInput(r.Form.Get("source")))
		patch.Source = &source
	}
	if r.Form.Has("date") {
		date := sanitizeInput(r.Form.Get("date"))
		patch.Date = &date
	}
	if r.Form.Has("description") {
		description := sanitizeInput(r.Form.Get("description"))
		patch.Description = &description
	}

	updated, err := s.income.Update(r.Context(), id, patch)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			NotFoundError("Income not found").Write(w)
			return
		}
		if store.IsValidation(err) {
			UnprocessableEntityError("Invalid income data: " + err.Error()).Write(w)
			return
		}
		s.logger.ErrorContext(r.Context(), "Failed to update income", log.FieldError, err, log.FieldRecordID, id)
		InternalServerError("Error updating income").Write(w)
		return
	}

	s.purgeFinancialCaches()
	seq := s.reportSeq.Add(1)
	s.logger.InfoContext(r.Context(), "Income updated",
		log.FieldRecordID, updated.ID, log.FieldAmount, updated.Amount,
		log.FieldSource, string(updated.Source), log.FieldOperation, log.OpUpdate)

	NewHTMXResponse().
		TriggerRecordsChanged("income").
		TriggerReportRefresh("", "", seq).
		TriggerStatsRefresh().
		TriggerSuccessNotification("Income updated to " + core.FormatCurrency(updated.Amount)).
		Write(w)
}

func (s *Server) handleDeleteIncome(w http.ResponseWriter, r *http.Request) {
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
		BadRequestError("Missing income id").Write(w)
		return
	}

	if err := s.income.Delete(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			NotFoundError("Income record not found").Write(w)
			return
		}
		s.logger.ErrorContext(r.Context(), "Failed to delete income", log.FieldError, err, log.FieldRecordID, id)
		InternalServerError("Error deleting income").Write(w)
		return
	}

	s.purgeFinancialCaches()
	seq := s.reportSeq.Add(1)
	s.logger.InfoContext(r.Context(), "Income deleted",
		log.FieldRecordID, id, log.FieldOperation, log.OpDelete)

	NewHTMXResponse().
		TriggerRecordsChanged("income").
		TriggerReportRefresh("", "", seq).
		TriggerStatsRefresh().
		TriggerSuccessNotification("Income record deleted").
		Write(w)
}
