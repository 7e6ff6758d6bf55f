package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"thomasfermi/iteration"
)

// result 结果 JSON 格式
type result struct {
	Converged  bool      `json:"converged"`
	Iterations int       `json:"iterations"`
	Error      float64   `json:"error"`
	Alpha      float64   `json:"alpha"`
	Slope      float64   `json:"slope"`
	Boundary   []float64 `json:"boundary"`
	Mesh       []float64 `json:"mesh"`
	Y          []float64 `json:"y"`
	Beta       []float64 `json:"beta"`
}

func writeResult(w io.Writer, res iteration.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(result{
		Converged:  res.Converged,
		Iterations: res.Iterations,
		Error:      res.Error,
		Alpha:      res.Alpha,
		Slope:      res.Slope,
		Boundary:   res.Boundary[:],
		Mesh:       res.Mesh,
		Y:          res.Y,
		Beta:       res.Beta,
	})
}

func writeCSV(w io.Writer, res iteration.Result) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"x", "y", "beta"}); err != nil {
		return err
	}
	format := func(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }
	for i, x := range res.Mesh {
		if err := cw.Write([]string{format(x), format(res.Y[i]), format(res.Beta[i])}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// writeTo 写入文件，path 为 "-" 时写入命令输出
func writeTo(cmd *cobra.Command, path string, render func(io.Writer) error) (err error) {
	if path == "-" {
		return render(cmd.OutOrStdout())
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := file.Close(); err == nil {
			err = cerr
		}
	}()
	if err := render(file); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
