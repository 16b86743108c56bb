package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/structql/structql/cli/internal/config"
	"github.com/structql/structql/cli/internal/ui"
	"github.com/structql/structql/model"
	"github.com/structql/structql/value"
)

func newSQLCommand() *cobra.Command {
	var provider, out string

	cmd := &cobra.Command{
		Use:   "sql",
		Short: "Dump the CREATE TABLE statements implied by the registered models",
		RunE: func(cmd *cobra.Command, args []string) error {
			if provider == "" {
				provider = cfg.Provider
			}
			return runSQL(provider, out)
		},
	}

	cmd.Flags().StringVar(&provider, "provider", "", "target provider (postgresql, mysql, sqlite)")
	cmd.Flags().StringVar(&out, "out", "", "write the statements to a file instead of stdout")

	return cmd
}

func runSQL(provider, out string) error {
	models := model.Models()
	if len(models) == 0 {
		return fmt.Errorf("no models registered; import your generated model package")
	}

	var statements []string
	for _, m := range models {
		stmt, err := createTable(provider, m)
		if err != nil {
			return err
		}
		statements = append(statements, stmt)
	}
	script := strings.Join(statements, "\n\n") + "\n"

	if out != "" {
		if err := afero.WriteFile(config.AppFs, out, []byte(script), 0644); err != nil {
			return fmt.Errorf("write %s: %w", out, err)
		}
		ui.PrintSuccess("wrote %d statements to %s", len(statements), out)
		return nil
	}

	ui.PrintCodeBlock(script, "sql")
	return nil
}

func createTable(provider string, m *model.Meta) (string, error) {
	quote := quoteFor(provider)

	var lines []string
	for _, f := range m.Fields {
		for i, column := range f.Columns {
			typ, err := columnType(provider, f)
			if err != nil {
				return "", fmt.Errorf("model %s, field %s: %w", m.Table, f.Name, err)
			}
			line := fmt.Sprintf("    %s %s", quote(column), typ)
			for _, ann := range f.EffectiveAnnotations[i] {
				if c := constraintFor(ann); c != "" {
					line += " " + c
				}
			}
			if f.Relation != nil && f.Relation.Kind == model.ForeignModel {
				target, ok := model.Lookup(f.Relation.TargetModel)
				if !ok {
					return "", fmt.Errorf("model %s, field %s: relation target %q is not registered",
						m.Table, f.Name, f.Relation.TargetModel)
				}
				targetField, ok := target.Field(f.Relation.TargetField)
				if !ok {
					return "", fmt.Errorf("model %s, field %s: relation target field %q is unknown",
						m.Table, f.Name, f.Relation.TargetField)
				}
				line += fmt.Sprintf(" REFERENCES %s(%s)", quote(target.Table), quote(targetField.Column()))
			}
			lines = append(lines, line)
		}
	}

	return fmt.Sprintf("CREATE TABLE %s (\n%s\n);", quote(m.Table), strings.Join(lines, ",\n")), nil
}

func quoteFor(provider string) func(string) string {
	if provider == "mysql" {
		return func(name string) string { return "`" + name + "`" }
	}
	return func(name string) string { return `"` + name + `"` }
}

func constraintFor(ann model.Annotation) string {
	switch ann {
	case model.AnnPrimaryKey:
		return "PRIMARY KEY"
	case model.AnnNotNull:
		return "NOT NULL"
	case model.AnnUnique:
		return "UNIQUE"
	default:
		return ""
	}
}

// columnType maps a field's value kind to the provider's column type.
func columnType(provider string, f *model.Field) (string, error) {
	autoIncrement := f.HasAnnotation(model.AnnAutoIncrement)

	switch provider {
	case "postgres", "postgresql":
		if autoIncrement {
			return "BIGSERIAL", nil
		}
		switch f.Kind {
		case value.KindString, value.KindChoice:
			return "TEXT", nil
		case value.KindI64:
			return "BIGINT", nil
		case value.KindI32:
			return "INTEGER", nil
		case value.KindI16:
			return "SMALLINT", nil
		case value.KindBool:
			return "BOOLEAN", nil
		case value.KindF64:
			return "DOUBLE PRECISION", nil
		case value.KindF32:
			return "REAL", nil
		case value.KindBinary:
			return "BYTEA", nil
		case value.KindTime:
			return "TIMESTAMPTZ", nil
		case value.KindDate:
			return "DATE", nil
		case value.KindUUID:
			return "UUID", nil
		}
	case "mysql":
		suffix := ""
		if autoIncrement {
			suffix = " AUTO_INCREMENT"
		}
		switch f.Kind {
		case value.KindString, value.KindChoice:
			return "TEXT", nil
		case value.KindI64:
			return "BIGINT" + suffix, nil
		case value.KindI32:
			return "INT" + suffix, nil
		case value.KindI16:
			return "SMALLINT" + suffix, nil
		case value.KindBool:
			return "TINYINT(1)", nil
		case value.KindF64:
			return "DOUBLE", nil
		case value.KindF32:
			return "FLOAT", nil
		case value.KindBinary:
			return "BLOB", nil
		case value.KindTime:
			return "DATETIME", nil
		case value.KindDate:
			return "DATE", nil
		case value.KindUUID:
			return "CHAR(36)", nil
		}
	case "sqlite", "sqlite3":
		switch f.Kind {
		case value.KindString, value.KindChoice, value.KindTime, value.KindDate, value.KindUUID:
			return "TEXT", nil
		case value.KindI64, value.KindI32, value.KindI16, value.KindBool:
			return "INTEGER", nil
		case value.KindF64, value.KindF32:
			return "REAL", nil
		case value.KindBinary:
			return "BLOB", nil
		}
	default:
		return "", fmt.Errorf("unknown provider %q", provider)
	}
	return "", fmt.Errorf("kind %q has no column type for provider %s", f.Kind, provider)
}
