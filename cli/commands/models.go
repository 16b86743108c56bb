package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/structql/structql/cli/internal/ui"
	"github.com/structql/structql/model"
)

func newModelsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List the registered models",
		RunE:  runModels,
	}
}

func runModels(cmd *cobra.Command, args []string) error {
	models := model.Models()
	if len(models) == 0 {
		return fmt.Errorf("no models registered; import your generated model package")
	}

	ui.PrintHeader("structql models", fmt.Sprintf("%d registered", len(models)))

	for _, m := range models {
		ui.PrintSection(m.Table)

		var rows [][]string
		for _, f := range m.Fields {
			rows = append(rows, []string{
				f.Name,
				string(f.Kind),
				strings.Join(f.Columns, ", "),
				annotationSummary(f),
				relationSummary(f),
			})
		}
		ui.PrintTable([]string{"Field", "Kind", "Columns", "Annotations", "Relation"}, rows)
		fmt.Println()
	}
	return nil
}

func annotationSummary(f *model.Field) string {
	seen := make(map[model.Annotation]bool)
	var out []string
	for _, set := range f.EffectiveAnnotations {
		for _, ann := range set {
			if !seen[ann] {
				seen[ann] = true
				out = append(out, string(ann))
			}
		}
	}
	return strings.Join(out, ", ")
}

func relationSummary(f *model.Field) string {
	if f.Relation == nil {
		return ""
	}
	arrow := "->"
	if f.Relation.Kind == model.BackRef {
		arrow = "<-"
	}
	return fmt.Sprintf("%s %s.%s", arrow, f.Relation.TargetModel, f.Relation.TargetField)
}
