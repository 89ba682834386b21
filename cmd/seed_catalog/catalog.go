package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/Cotizador-api/internal/domain/entity"
)

type product struct {
	DefaultCode string
	Name        string
	ListPrice   decimal.Decimal
	TaxRate     decimal.Decimal
	Rubros      []string
}

// readRows devuelve todas las filas (encabezado incluido) de un CSV o de la primera hoja de un XLSX.
func readRows(path string, latin1 bool, sep rune) ([][]string, error) {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		f, err := excelize.OpenFile(path)
		if err != nil {
			return nil, fmt.Errorf("abrir Excel: %w", err)
		}
		defer f.Close()
		return f.GetRows(f.GetSheetName(0))
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("abrir CSV: %w", err)
	}
	defer f.Close()
	return readCSV(f, latin1, sep)
}

func readCSV(r io.Reader, latin1 bool, sep rune) ([][]string, error) {
	if latin1 {
		r = transform.NewReader(r, charmap.ISO8859_1.NewDecoder())
	}
	reader := csv.NewReader(r)
	reader.Comma = sep
	reader.TrimLeadingSpace = true
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("leer CSV: %w", err)
	}
	return rows, nil
}

// parseProducts valida las filas; las inválidas se reportan y se omiten.
func parseProducts(rows [][]string) ([]product, []error) {
	if len(rows) < 2 {
		return nil, []error{fmt.Errorf("se requiere encabezado y al menos una fila")}
	}
	col := make(map[string]int, len(rows[0]))
	for i, h := range rows[0] {
		col[strings.ToLower(strings.TrimSpace(h))] = i
	}
	if _, ok := col["name"]; !ok {
		return nil, []error{fmt.Errorf("falta la columna name")}
	}
	get := func(row []string, key string) string {
		i, ok := col[key]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var out []product
	var errs []error
	for n, row := range rows[1:] {
		line := n + 2
		p := product{
			DefaultCode: get(row, "default_code"),
			Name:        get(row, "name"),
			ListPrice:   decimal.Zero,
			TaxRate:     decimal.NewFromInt(16),
		}
		if p.Name == "" {
			errs = append(errs, fmt.Errorf("fila %d: name vacío", line))
			continue
		}
		var err error
		if v := get(row, "list_price"); v != "" {
			if p.ListPrice, err = decimal.NewFromString(strings.ReplaceAll(v, ",", "")); err != nil || p.ListPrice.IsNegative() {
				errs = append(errs, fmt.Errorf("fila %d: list_price inválido %q", line, v))
				continue
			}
		}
		if v := get(row, "tax_rate"); v != "" {
			if p.TaxRate, err = decimal.NewFromString(v); err != nil || p.TaxRate.IsNegative() {
				errs = append(errs, fmt.Errorf("fila %d: tax_rate inválido %q", line, v))
				continue
			}
		}
		valid := true
		for _, code := range strings.Split(get(row, "rubros"), "|") {
			code = strings.ToLower(strings.TrimSpace(code))
			if code == "" {
				continue
			}
			if !entity.IsRubroCode(code) {
				errs = append(errs, fmt.Errorf("fila %d: rubro desconocido %q", line, code))
				valid = false
				break
			}
			p.Rubros = append(p.Rubros, code)
		}
		if valid {
			out = append(out, p)
		}
	}
	return out, errs
}

// writeSQL emite un INSERT por producto. Los que tienen código se actualizan si ya existen.
func writeSQL(w io.Writer, companyID string, products []product) error {
	var b strings.Builder
	b.WriteString("-- Catálogo de productos cotizables\n")
	fmt.Fprintf(&b, "-- Empresa %s, %d productos\n\n", companyID, len(products))
	for _, p := range products {
		fmt.Fprintf(&b, "INSERT INTO products (id, company_id, default_code, name, list_price, tax_rate, rubro_codes)\n")
		fmt.Fprintf(&b, "VALUES (gen_random_uuid(), '%s', '%s', '%s', %s, %s, %s)",
			escapeSQL(companyID), escapeSQL(p.DefaultCode), escapeSQL(p.Name),
			p.ListPrice.StringFixed(2), p.TaxRate.StringFixed(2), textArray(p.Rubros))
		if p.DefaultCode != "" {
			b.WriteString("\nON CONFLICT (company_id, default_code) WHERE default_code <> '' DO UPDATE SET\n")
			b.WriteString("  name = EXCLUDED.name, list_price = EXCLUDED.list_price, tax_rate = EXCLUDED.tax_rate,\n")
			b.WriteString("  rubro_codes = EXCLUDED.rubro_codes, updated_at = now()")
		}
		b.WriteString(";\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func textArray(codes []string) string {
	if len(codes) == 0 {
		return "'{}'"
	}
	quoted := make([]string, len(codes))
	for i, c := range codes {
		quoted[i] = "'" + escapeSQL(c) + "'"
	}
	return "ARRAY[" + strings.Join(quoted, ", ") + "]::text[]"
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
