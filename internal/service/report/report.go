// Package report loads, filters, and exports the admin sales report.
package report

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strconv"
	"strings"

	jmespath "github.com/jmespath-community/go-jmespath"

	"github.com/cafetec/cafetec-client/config"
	"github.com/cafetec/cafetec-client/internal/ports"
)

// JMESPathEvaluator abstracts JMESPath operations for testability.
type JMESPathEvaluator interface {
	Validate(expr string) error
	Evaluate(expr string, data any) (any, error)
}

// jmespathLibEvaluator implements JMESPathEvaluator using go-jmespath.
type jmespathLibEvaluator struct{}

func (j jmespathLibEvaluator) Validate(expr string) error {
	if strings.TrimSpace(expr) == "" {
		return nil
	}
	_, err := jmespath.Compile(expr)
	return err
}

func (j jmespathLibEvaluator) Evaluate(expr string, data any) (any, error) {
	return jmespath.Search(expr, data)
}

// ServiceOptions groups dependencies for Service.
type ServiceOptions struct {
	API       ports.ReportAPI
	Config    config.ReportConfig
	Evaluator JMESPathEvaluator
	Logger    *slog.Logger
}

// Service serves the admin sales report: newest rows first, pageable, with an
// optional JMESPath row filter and CSV export.
type Service struct {
	api    ports.ReportAPI
	cfg    config.ReportConfig
	jems   JMESPathEvaluator
	logger *slog.Logger
}

// NewService constructs a report Service. An invalid configured filter
// expression is rejected here rather than on every load.
func NewService(opts ServiceOptions) (*Service, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	jems := opts.Evaluator
	if jems == nil {
		jems = jmespathLibEvaluator{}
	}
	cfg := opts.Config
	cfg.Sanitize()

	if err := jems.Validate(cfg.Filter); err != nil {
		return nil, fmt.Errorf("invalid report filter: %w", err)
	}

	return &Service{
		api:    opts.API,
		cfg:    cfg,
		jems:   jems,
		logger: logger,
	}, nil
}

// Load fetches the sales report, applies the configured filter, and sorts
// rows newest first.
func (s *Service) Load(ctx context.Context, token string) ([]ports.SalesRow, error) {
	rows, err := s.api.Sales(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("load sales report: %w", err)
	}

	rows, err = s.applyFilter(rows)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Date.After(rows[j].Date)
	})
	return rows, nil
}

// applyFilter runs the configured JMESPath expression over the rows. The
// expression sees the rows in their wire shape and must yield a list.
func (s *Service) applyFilter(rows []ports.SalesRow) ([]ports.SalesRow, error) {
	expr := strings.TrimSpace(s.cfg.Filter)
	if expr == "" {
		return rows, nil
	}

	raw, err := json.Marshal(rows)
	if err != nil {
		return nil, fmt.Errorf("marshal report rows: %w", err)
	}
	var data any
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("unmarshal report rows: %w", err)
	}

	res, err := s.jems.Evaluate(expr, data)
	if err != nil {
		return nil, fmt.Errorf("evaluate report filter: %w", err)
	}
	if _, ok := res.([]any); !ok {
		return nil, fmt.Errorf("report filter must yield a list, got %T", res)
	}

	filtered, err := json.Marshal(res)
	if err != nil {
		return nil, fmt.Errorf("marshal filtered rows: %w", err)
	}
	var out []ports.SalesRow
	if err := json.Unmarshal(filtered, &out); err != nil {
		return nil, fmt.Errorf("report filter changed the row shape: %w", err)
	}
	return out, nil
}

// Page returns the 1-based page of rows and the total page count.
func (s *Service) Page(rows []ports.SalesRow, page int) ([]ports.SalesRow, int) {
	size := s.cfg.PageSize
	pages := (len(rows) + size - 1) / size
	if pages == 0 {
		pages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > pages {
		page = pages
	}

	start := (page - 1) * size
	end := start + size
	if start > len(rows) {
		start = len(rows)
	}
	if end > len(rows) {
		end = len(rows)
	}
	return rows[start:end], pages
}

var csvHeader = []string{"fecha", "id_pedido", "nombre_producto", "cantidad", "total", "metodo_pago"}

// ExportCSV writes rows as CSV, header included.
func (s *Service) ExportCSV(w io.Writer, rows []ports.SalesRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, r := range rows {
		record := []string{
			r.Date.Format("2006-01-02 15:04"),
			strconv.FormatInt(r.OrderID, 10),
			r.ProductName,
			strconv.Itoa(r.Quantity),
			r.Total.String(),
			r.Method,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
