package reporter

import (
	"encoding/csv"
	"os"
	"strconv"
	"time"
)

// csvHeader 是 CSV 输出的列。
var csvHeader = []string{"task", "status", "duration_ms", "start_time", "end_time", "error"}

// CSVReporter 将每个任务的结果写为 CSV 文件的一行。
type CSVReporter struct {
	path string
}

// NewCSVReporter 创建 CSV 文件报告器。
func NewCSVReporter(path string) *CSVReporter {
	return &CSVReporter{path: path}
}

// Name 实现 Reporter 接口。
func (r *CSVReporter) Name() string { return "csv" }

// Write 实现 Reporter 接口。
func (r *CSVReporter) Write(report *RunReport) error {
	f, err := os.Create(r.path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return err
	}

	for _, rec := range report.Records {
		row := []string{
			rec.Name,
			string(rec.Status),
			strconv.FormatInt(rec.Duration.Milliseconds(), 10),
			rec.StartTime.Format(time.RFC3339Nano),
			rec.EndTime.Format(time.RFC3339Nano),
			rec.Error,
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}
