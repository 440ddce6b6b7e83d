package statement

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/procureflow/procureflow/internal/ledger"
	"github.com/procureflow/procureflow/internal/ledger/export"
	"github.com/procureflow/procureflow/internal/platform/httpx"
)

// Handler serves vendor statement reads and downloads.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler builds a statement handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers statement routes under /vendors/{id}.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/{id}/statement", h.statement)
	r.Get("/{id}/statement/export.csv", h.exportCSV)
	r.Get("/{id}/statement/export.xlsx", h.exportXLSX)
}

func (h *Handler) statement(w http.ResponseWriter, r *http.Request) {
	view, ok := h.loadView(w, r)
	if !ok {
		return
	}
	httpx.JSON(w, http.StatusOK, view)
}

func (h *Handler) exportCSV(w http.ResponseWriter, r *http.Request) {
	view, ok := h.loadView(w, r)
	if !ok {
		return
	}
	name := export.FileName(view.VendorID, view.Projection, "csv", time.Now().UTC())
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	if err := export.WriteStatementCSV(w, view.Entries, view.OpeningBalance, view.Totals); err != nil {
		h.logger.Error("write statement csv", slog.Int64("vendor_id", view.VendorID), slog.Any("error", err))
	}
}

func (h *Handler) exportXLSX(w http.ResponseWriter, r *http.Request) {
	view, ok := h.loadView(w, r)
	if !ok {
		return
	}
	name := export.FileName(view.VendorID, view.Projection, "xlsx", time.Now().UTC())
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	if err := export.WriteStatementXLSX(w, view.Entries, view.OpeningBalance, view.Totals); err != nil {
		h.logger.Error("write statement xlsx", slog.Int64("vendor_id", view.VendorID), slog.Any("error", err))
	}
}

func (h *Handler) loadView(w http.ResponseWriter, r *http.Request) (View, bool) {
	vendorID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid vendor id")
		return View{}, false
	}
	query, err := parseQuery(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return View{}, false
	}
	view, err := h.service.Statement(r.Context(), vendorID, query)
	if err != nil {
		h.logger.Error("build statement", slog.Int64("vendor_id", vendorID), slog.Any("error", err))
		httpx.RespondError(w, err)
		return View{}, false
	}
	return view, true
}

const queryDateLayout = "2006-01-02"

// parseQuery maps URL parameters onto a statement Query:
//
//	projection=po|invoice
//	date_op=is|between|on-or-before|on-or-after|timespan
//	on=YYYY-MM-DD  from=YYYY-MM-DD  to=YYYY-MM-DD  timespan=<keyword>
//	q=<text>  threshold=<fuzzy rank>  project=<name> (repeatable)
func parseQuery(r *http.Request) (Query, error) {
	values := r.URL.Query()
	query := Query{
		Projection: ledger.Projection(values.Get("projection")),
		Text:       values.Get("q"),
		Projects:   values["project"],
	}
	if query.Projection == "" {
		query.Projection = ledger.ProjectionPO
	}
	if raw := values.Get("threshold"); raw != "" {
		threshold, err := strconv.Atoi(raw)
		if err != nil {
			return Query{}, errInvalidParam("threshold", raw)
		}
		query.TextThreshold = threshold
	}

	op := values.Get("date_op")
	if op == "" {
		return query, nil
	}
	filter := ledger.DateFilter{Op: ledger.DateOp(op), Timespan: values.Get("timespan")}
	var err error
	if filter.On, err = parseDate(values.Get("on")); err != nil {
		return Query{}, err
	}
	if filter.From, err = parseDate(values.Get("from")); err != nil {
		return Query{}, err
	}
	if filter.To, err = parseDate(values.Get("to")); err != nil {
		return Query{}, err
	}
	query.Date = &filter
	return query, nil
}

func parseDate(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(queryDateLayout, raw)
	if err != nil {
		return time.Time{}, errInvalidParam("date", raw)
	}
	return t, nil
}

type paramError struct {
	name  string
	value string
}

func errInvalidParam(name, value string) error {
	return &paramError{name: name, value: value}
}

func (e *paramError) Error() string {
	return "invalid " + e.name + " parameter: " + e.value
}
