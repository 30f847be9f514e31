package config

const (
	minPageSize     = 1
	maxPageSize     = 500
	defaultPageSize = 20
)

// ReportConfig configures the admin sales report view and export.
type ReportConfig struct {
	// PageSize is the number of rows per page in report listings.
	PageSize int `env:"PAGE_SIZE" envDefault:"20"`

	// Filter is an optional JMESPath expression applied to report rows
	// before export. The expression must yield a list.
	Filter string `env:"FILTER"`
}

// Sanitize clamps the page size into its valid range.
func (c *ReportConfig) Sanitize() {
	if c.PageSize < minPageSize || c.PageSize > maxPageSize {
		c.PageSize = defaultPageSize
	}
}
