package main

import (
	"io"

	"gmlsem/internal/observ"
)

func printTimings(out io.Writer, report observ.Report) {
	_ = report.WriteText(out)
}
