package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jhoicas/escolar/internal/application/directory"
	"github.com/jhoicas/escolar/internal/infrastructure/pdf"
)

func schoolsCmd(e *env) *cobra.Command {
	var (
		pdfPath string
		asJSON  bool
	)
	cmd := &cobra.Command{
		Use:   "schools",
		Short: "Muestra el directorio de escuelas (opcionalmente como informe PDF)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cache := directory.New(e.remote, nil, e.log)
			list, err := cache.Bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			if pdfPath != "" {
				doc, err := pdf.NewDirectoryReport(e.cfg.App.Name).Generate(list)
				if err != nil {
					return err
				}
				if err := os.WriteFile(pdfPath, doc, 0o644); err != nil {
					return fmt.Errorf("escribir %s: %w", pdfPath, err)
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "informe escrito en %s (%d escuelas)\n", pdfPath, len(list))
				return nil
			}
			if asJSON {
				return printJSON(cmd.OutOrStdout(), list)
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tESCUELA\tCÓDIGO\tESTADO\tMENSUALIDAD")
			for _, s := range list {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", s.ID, s.Name, s.AccessCode, s.Status, pdf.FormatMoney(s.Subscription.MonthlyFee))
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&pdfPath, "pdf", "", "Escribe el informe PDF en esta ruta")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Salida JSON")
	return cmd
}
