package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/bukra-xhamxhiu/master-arbeit-bxh/complexity"
	"github.com/bukra-xhamxhiu/master-arbeit-bxh/evaluation"
	"github.com/bukra-xhamxhiu/master-arbeit-bxh/pipeline"
)

func printJSON(w io.Writer, v interface{}) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to marshal JSON: %v\n", err)
		return
	}
	fmt.Fprintln(w, string(data))
}

// printTable renders rows with the first column left aligned and the rest right aligned.
func printTable(w io.Writer, headers []string, rows [][]string) {
	align := make(tw.Alignment, len(headers))
	for i := range align {
		align[i] = tw.AlignRight
	}
	if len(align) > 0 {
		align[0] = tw.AlignLeft
	}

	table := tablewriter.NewTable(w,
		tablewriter.WithRenderer(renderer.NewBlueprint(tw.Rendition{Borders: tw.BorderNone})),
		tablewriter.WithAlignment(align),
	)
	table.Header(headers)
	for _, row := range rows {
		if err := table.Append(row); err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to add table row: %v\n", err)
			return
		}
	}
	if err := table.Render(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to render table: %v\n", err)
	}
}

func f4(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}

var indexHeaders = []string{"App", "SUCI", "IFCI", "TRCI", "ADI", "WCS"}

func indicesOf(results []pipeline.Result) []complexity.Indices {
	out := make([]complexity.Indices, 0, len(results))
	for _, r := range results {
		out = append(out, r.Indices)
	}
	return out
}

func printIndices(w io.Writer, results []pipeline.Result) {
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		i := r.Indices
		rows = append(rows, []string{i.AppID, f4(i.SUCI), f4(i.IFCI), f4(i.TRCI), f4(i.ADI), f4(i.WCS)})
	}
	printTable(w, indexHeaders, rows)
}

func printScores(w io.Writer, scores []*evaluation.Score) {
	rows := make([][]string, 0, len(scores))
	for _, s := range scores {
		rows = append(rows, []string{s.AppID, f4(s.SUCI), f4(s.IFCI), f4(s.TRCI), f4(s.ADI), f4(s.WCS)})
	}
	printTable(w, indexHeaders, rows)
}

func printRuns(w io.Writer, runs []*evaluation.Run) {
	rows := make([][]string, 0, len(runs))
	for _, r := range runs {
		duration := "-"
		if r.DurationMS != nil {
			duration = strconv.FormatInt(*r.DurationMS, 10) + "ms"
		}
		rows = append(rows, []string{
			r.ID.String(),
			r.ProjectName,
			string(r.Status),
			strconv.Itoa(r.AppCount),
			duration,
			r.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}
	printTable(w, []string{"ID", "Project", "Status", "Apps", "Duration", "Created"}, rows)
}
