package printing

import (
	"bytes"
	"context"
	"html/template"
	"maps"
	"strings"
	"sync"
	"time"

	"github.com/foodcourt/pos/internal/domain/printing"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// TemplateEngine binds document models to html/template templates.
// Dates are printed in the engine's location and amounts with Indian digit grouping.
type TemplateEngine struct {
	funcMap  template.FuncMap
	location *time.Location

	mu     sync.Mutex
	parsed map[printing.DocType]*template.Template
}

// TemplateEngineOption configures the template engine
type TemplateEngineOption func(*TemplateEngine)

// WithLocation sets the time zone dates are printed in
func WithLocation(loc *time.Location) TemplateEngineOption {
	return func(e *TemplateEngine) {
		if loc != nil {
			e.location = loc
		}
	}
}

// NewTemplateEngine creates a new template engine with default configuration
func NewTemplateEngine(opts ...TemplateEngineOption) *TemplateEngine {
	e := &TemplateEngine{
		location: time.UTC,
		parsed:   make(map[printing.DocType]*template.Template),
	}
	for _, opt := range opts {
		opt(e)
	}

	e.funcMap = template.FuncMap{
		"formatMoney":    formatMoney,
		"formatAmount":   formatAmount,
		"formatQty":      formatQty,
		"formatPercent":  formatPercent,
		"formatDate":     e.formatDate,
		"formatDateTime": e.formatDateTime,
		"formatTime":     e.formatTime,

		"upper":    strings.ToUpper,
		"title":    titleCase,
		"truncate": truncate,

		"add":     add,
		"sub":     sub,
		"mul":     mul,
		"nonZero": nonZero,

		"default":    defaultFunc,
		"dict":       dict,
		"statusText": statusText,
	}
	return e
}

// RenderDefault renders the built-in template of a document type
func (e *TemplateEngine) RenderDefault(ctx context.Context, docType printing.DocType, data any) (string, error) {
	tmpl, err := e.defaultTemplate(docType)
	if err != nil {
		return "", err
	}
	return execute(tmpl, data)
}

// RenderString renders a template string with the provided data
func (e *TemplateEngine) RenderString(ctx context.Context, name, content string, data any) (string, error) {
	if content == "" {
		return "", NewRenderError(ErrCodeInvalidHTML, "template content is empty", nil)
	}
	tmpl, err := template.New(name).Funcs(e.funcMap).Parse(content)
	if err != nil {
		return "", NewRenderError(ErrCodeInvalidHTML, "failed to parse template", err)
	}
	return execute(tmpl, data)
}

// GetFuncMap returns a copy of the template function map
func (e *TemplateEngine) GetFuncMap() template.FuncMap {
	funcMap := make(template.FuncMap, len(e.funcMap))
	maps.Copy(funcMap, e.funcMap)
	return funcMap
}

func (e *TemplateEngine) defaultTemplate(docType printing.DocType) (*template.Template, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if tmpl, ok := e.parsed[docType]; ok {
		return tmpl, nil
	}
	def := DefaultTemplateFor(docType)
	if def == nil {
		return nil, NewRenderError(ErrCodeTemplateMissing, "no template for document type "+string(docType), nil)
	}
	content, err := LoadTemplateContent(def.FilePath)
	if err != nil {
		return nil, NewRenderError(ErrCodeTemplateMissing, "failed to load template", err)
	}
	tmpl, err := template.New(def.FilePath).Funcs(e.funcMap).Parse(content)
	if err != nil {
		return nil, NewRenderError(ErrCodeInvalidHTML, "failed to parse template", err)
	}
	e.parsed[docType] = tmpl
	return tmpl, nil
}

func execute(tmpl *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", NewRenderError(ErrCodeRenderFailed, "failed to execute template", err)
	}
	return buf.String(), nil
}

var indianPrinter = message.NewPrinter(language.MustParse("en-IN"))

// formatAmount prints two decimals with lakh/crore grouping: 123456.5 -> "1,23,456.50"
func formatAmount(v any) string {
	d := toDecimal(v).Round(2)
	return indianPrinter.Sprint(number.Decimal(d.InexactFloat64(), number.Scale(2)))
}

// formatMoney is formatAmount with the rupee sign in front
func formatMoney(v any) string {
	d := toDecimal(v)
	if d.IsNegative() {
		return "-₹" + formatAmount(d.Abs())
	}
	return "₹" + formatAmount(d)
}

// formatQty drops trailing zeros: 2.5000 -> "2.5"
func formatQty(v any) string {
	return toDecimal(v).String()
}

// formatPercent prints a rate already expressed in percent: 18 -> "18%"
func formatPercent(v any) string {
	return toDecimal(v).Round(2).String() + "%"
}

func (e *TemplateEngine) formatDate(v any) string {
	return e.formatIn(v, "02-01-2006")
}

func (e *TemplateEngine) formatDateTime(v any) string {
	return e.formatIn(v, "02-01-2006 15:04")
}

func (e *TemplateEngine) formatTime(v any) string {
	return e.formatIn(v, "15:04")
}

func (e *TemplateEngine) formatIn(v any, layout string) string {
	t := toTime(v)
	if t.IsZero() {
		return ""
	}
	return t.In(e.location).Format(layout)
}

// truncate shortens a string to max runes, ending with "..."
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}

func titleCase(s string) string {
	return cases.Title(language.English).String(s)
}

func add(a, b any) decimal.Decimal {
	return toDecimal(a).Add(toDecimal(b))
}

func sub(a, b any) decimal.Decimal {
	return toDecimal(a).Sub(toDecimal(b))
}

func mul(a, b any) decimal.Decimal {
	return toDecimal(a).Mul(toDecimal(b))
}

func nonZero(v any) bool {
	return !toDecimal(v).IsZero()
}

func defaultFunc(val, def any) any {
	if s, ok := val.(string); ok && s == "" {
		return def
	}
	if val == nil {
		return def
	}
	return val
}

// dict creates a map from key-value pairs, for passing several values to a sub-template
func dict(pairs ...any) map[string]any {
	result := make(map[string]any, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		if key, ok := pairs[i].(string); ok {
			result[key] = pairs[i+1]
		}
	}
	return result
}

// statusText converts stored codes to the labels printed on slips
func statusText(status string) string {
	labels := map[string]string{
		"active":    "Active",
		"completed": "Completed",
		"cancelled": "Cancelled",
		"ordered":   "Ordered",
		"received":  "Received",
		"pending":   "Pending",
		"partial":   "Partially Paid",
		"paid":      "Paid",
		"cash":      "Cash",
		"card":      "Card",
		"upi":       "UPI",
		"credit":    "Credit",
	}
	if text, ok := labels[strings.ToLower(status)]; ok {
		return text
	}
	return status
}

// toDecimal converts the numeric types templates see to decimal.Decimal
func toDecimal(v any) decimal.Decimal {
	switch val := v.(type) {
	case decimal.Decimal:
		return val
	case *decimal.Decimal:
		if val == nil {
			return decimal.Zero
		}
		return *val
	case int:
		return decimal.NewFromInt(int64(val))
	case int64:
		return decimal.NewFromInt(val)
	case float64:
		return decimal.NewFromFloat(val)
	case string:
		d, err := decimal.NewFromString(val)
		if err != nil {
			return decimal.Zero
		}
		return d
	default:
		return decimal.Zero
	}
}

func toTime(v any) time.Time {
	switch val := v.(type) {
	case time.Time:
		return val
	case *time.Time:
		if val == nil {
			return time.Time{}
		}
		return *val
	case string:
		t, err := time.Parse(time.RFC3339, val)
		if err != nil {
			return time.Time{}
		}
		return t
	default:
		return time.Time{}
	}
}
