package main

import (
	"fmt"
	"io"
	"time"

	"nbcheck/internal/driver"
)

func printStageTimings(out io.Writer, timings *driver.Timings) {
	rows := []struct {
		label  string
		stages []driver.Stage
	}{
		{"read", []driver.Stage{driver.StageRead}},
		{"transpiled", []driver.Stage{driver.StageTranspile, driver.StageWrite}},
		{"checked", []driver.Stage{driver.StageCheck}},
		{"mapped", []driver.Stage{driver.StageRemap}},
	}
	for _, row := range rows {
		recorded := false
		for _, s := range row.stages {
			recorded = recorded || timings.Has(s)
		}
		if !recorded {
			continue
		}
		fmt.Fprintf(out, "%s %.1f ms\n", row.label, toMillis(timings.Sum(row.stages...)))
	}
}

func toMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
