package web

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"ratio-analyzer/internal/export"
	"ratio-analyzer/internal/logger"
	"ratio-analyzer/internal/ratio"
	"ratio-analyzer/internal/statement"
)

// ratiosResponse is the JSON payload for the ratios endpoint. Market data is
// best-effort: when the quote provider fails the ratio tables still come
// back, with the failure recorded in market_note.
type ratiosResponse struct {
	Symbol        string              `json:"symbol"`
	Profitability ratio.Table         `json:"profitability"`
	Liquidity     ratio.Table         `json:"liquidity"`
	Leverage      ratio.Table         `json:"leverage"`
	Efficiency    ratio.Table         `json:"efficiency"`
	Market        []ratio.MarketMetric `json:"market,omitempty"`
	MarketNote    string              `json:"market_note,omitempty"`
}

type statementView struct {
	Years []int                 `json:"years"`
	Items map[string][]*float64 `json:"items"`
}

type statementsResponse struct {
	Symbol   string        `json:"symbol"`
	Income   statementView `json:"income"`
	Balance  statementView `json:"balance"`
	CashFlow statementView `json:"cash_flow"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]string{"status": "ok"})
}

func (s *Server) handleRatios(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	symbol := chi.URLParam(r, "symbol")

	fam, inc, bal := s.computeFamilies(w, r, symbol)
	if fam == nil {
		return
	}

	from, to, err := yearRange(r)
	if err != nil {
		errorJSON(w, r, http.StatusBadRequest, err.Error())
		return
	}

	resp := ratiosResponse{
		Symbol:        symbol,
		Profitability: fam.Profitability.ClampYears(from, to),
		Liquidity:     fam.Liquidity.ClampYears(from, to),
		Leverage:      fam.Leverage.ClampYears(from, to),
		Efficiency:    fam.Efficiency.ClampYears(from, to),
	}

	if s.cfg.Market.Enabled {
		metrics, marketErr := ratio.ComputeMarket(ctx, s.source, symbol, inc, bal)
		if marketErr != nil {
			logger.Warn(ctx, "Market metrics unavailable", "symbol", symbol, "error", marketErr)
			resp.MarketNote = marketErr.Error()
		} else {
			resp.Market = metrics
		}
	}

	render.JSON(w, r, resp)
}

func (s *Server) handleRatiosCSV(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")

	fam, _, _ := s.computeFamilies(w, r, symbol)
	if fam == nil {
		return
	}

	from, to, err := yearRange(r)
	if err != nil {
		errorJSON(w, r, http.StatusBadRequest, err.Error())
		return
	}

	combined := ratio.Combined(fam).ClampYears(from, to)

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", symbol+"_ratios.csv"))
	opts := export.Options{Decimals: s.cfg.Output.Decimals, BOM: true}
	if err := export.WriteTable(w, combined, opts); err != nil {
		logger.ErrorWithErr(r.Context(), "Failed to stream CSV", err, "symbol", symbol)
	}
}

func (s *Server) handleStatements(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	symbol := chi.URLParam(r, "symbol")

	set, err := s.source.FetchStatements(ctx, symbol)
	if err != nil {
		errorJSON(w, r, http.StatusBadGateway, err.Error())
		return
	}

	resp := statementsResponse{
		Symbol:   symbol,
		Income:   viewOf(statement.Normalize(set.Income)),
		Balance:  viewOf(statement.Normalize(set.Balance)),
		CashFlow: viewOf(statement.Normalize(set.CashFlow)),
	}
	render.JSON(w, r, resp)
}

// computeFamilies fetches, normalizes and computes the ratio families,
// writing the error response itself when anything fails. A nil Families
// means the response is already written.
func (s *Server) computeFamilies(w http.ResponseWriter, r *http.Request, symbol string) (*ratio.Families, statement.YearTable, statement.YearTable) {
	ctx := r.Context()

	set, err := s.source.FetchStatements(ctx, symbol)
	if err != nil {
		errorJSON(w, r, http.StatusBadGateway, err.Error())
		return nil, statement.YearTable{}, statement.YearTable{}
	}

	inc := statement.Normalize(set.Income)
	bal := statement.Normalize(set.Balance)

	fam, err := ratio.Compute(inc, bal)
	if err != nil {
		if errors.Is(err, ratio.ErrInsufficientData) {
			errorJSON(w, r, http.StatusNotFound, fmt.Sprintf("no usable statement data for %s", symbol))
		} else {
			errorJSON(w, r, http.StatusInternalServerError, err.Error())
		}
		return nil, statement.YearTable{}, statement.YearTable{}
	}
	return fam, inc, bal
}

// yearRange parses the optional from/to query parameters.
func yearRange(r *http.Request) (int, int, error) {
	from, to := 0, math.MaxInt32
	if v := r.URL.Query().Get("from"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0, 0, fmt.Errorf("invalid from year %q", v)
		}
		from = n
	}
	if v := r.URL.Query().Get("to"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0, 0, fmt.Errorf("invalid to year %q", v)
		}
		to = n
	}
	if from > to {
		return 0, 0, fmt.Errorf("from year %d after to year %d", from, to)
	}
	return from, to, nil
}

func viewOf(t statement.YearTable) statementView {
	view := statementView{Years: t.Years(), Items: make(map[string][]*float64)}
	for _, name := range t.Columns() {
		series := t.Get(name)
		vals := make([]*float64, len(view.Years))
		for i, y := range view.Years {
			if v, ok := series.Value(y); ok {
				v := v
				vals[i] = &v
			}
		}
		view.Items[name] = vals
	}
	return view
}

func errorJSON(w http.ResponseWriter, r *http.Request, status int, msg string) {
	render.Status(r, status)
	render.JSON(w, r, map[string]string{"error": msg})
}
