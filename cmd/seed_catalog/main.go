// seed_catalog genera el script SQL que carga el catálogo de productos cotizables de una empresa
// a partir de un CSV o XLSX exportado del ERP.
//
// Columnas (con encabezado, en cualquier orden): default_code, name, list_price, tax_rate, rubros.
// rubros lleva los códigos separados por "|" (ej. "mano_obra|uniforme").
//
// Uso: go run ./cmd/seed_catalog --company <uuid> [--latin1] [--out catalogo.sql] productos.csv
package main

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var (
	companyID string
	outPath   string
	latin1    bool
	separator string
)

var rootCmd = &cobra.Command{
	Use:   "seed_catalog [archivo.csv|archivo.xlsx]",
	Short: "Genera INSERTs de productos cotizables desde CSV o XLSX",
	Args:  cobra.ExactArgs(1),
	RunE:  runSeed,
}

func init() {
	rootCmd.Flags().StringVar(&companyID, "company", "", "UUID de la empresa dueña del catálogo (requerido)")
	rootCmd.Flags().StringVar(&outPath, "out", "", "archivo de salida (por defecto stdout)")
	rootCmd.Flags().BoolVar(&latin1, "latin1", false, "el CSV viene en ISO-8859-1 (exportaciones de Excel en Windows)")
	rootCmd.Flags().StringVar(&separator, "sep", ",", "separador del CSV")
	_ = rootCmd.MarkFlagRequired("company")
}

func runSeed(cmd *cobra.Command, args []string) error {
	id, err := uuid.Parse(companyID)
	if err != nil {
		return fmt.Errorf("--company debe ser un UUID: %w", err)
	}
	companyID = id.String()
	if len(separator) != 1 {
		return fmt.Errorf("--sep debe ser un solo carácter")
	}
	rows, err := readRows(args[0], latin1, rune(separator[0]))
	if err != nil {
		return err
	}
	products, errs := parseProducts(rows)
	for _, e := range errs {
		fmt.Fprintln(cmd.ErrOrStderr(), "omitida:", e)
	}
	if len(products) == 0 {
		return fmt.Errorf("ningún producto válido en %s", args[0])
	}

	out := cmd.OutOrStdout()
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("crear archivo: %w", err)
		}
		defer f.Close()
		out = f
	}
	if err := writeSQL(out, companyID, products); err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Generados %d productos (%d filas omitidas)\n", len(products), len(errs))
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
