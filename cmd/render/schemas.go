package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	infra "github.com/erp/posprint/internal/infrastructure/printing"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newSchemasCmd(root *rootOptions) *cobra.Command {
	var show string

	cmd := &cobra.Command{
		Use:   "schemas",
		Short: "List the available receipt schemas",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			log := root.logger()
			defer func() { _ = log.Sync() }()

			store, err := infra.NewSchemaStore(&infra.SchemaStoreConfig{ExternalDir: root.schemaDir, Logger: log})
			if err != nil {
				return err
			}

			if show != "" {
				schema, ok := store.GetByName(show)
				if !ok {
					return fmt.Errorf("schema not found: %s", show)
				}
				enc := yaml.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent(2)
				defer enc.Close()
				return enc.Encode(schema)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tDOCUMENT TYPE\tSOURCE\tDEFAULT\tSTEPS")
			for _, st := range store.GetAll() {
				def := ""
				if st.IsDefault {
					def = "yes"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
					st.Schema.Name, st.Schema.DocumentType, st.Source, def,
					strings.Join(st.Schema.Leaves(), ","))
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringVar(&show, "show", "", "Print one schema as YAML")
	return cmd
}
