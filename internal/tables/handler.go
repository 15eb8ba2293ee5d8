// Package tables exposes the reference data in use: raw values as JSON and
// depth curves as an HTML chart.
package tables

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"TPSuite/internal/dosimetry"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/gorilla/mux"
)

var defaultFieldSizes = []float64{5, 10, 20}

type Handler struct {
	Engine *dosimetry.Engine
}

func (h *Handler) table(name string) (dosimetry.Table, string, bool) {
	t := h.Engine.Tables()
	switch strings.ToLower(name) {
	case "tmr":
		return t.TMR, "TMR", true
	case "pdd":
		return t.PDD, "PDD (%)", true
	case "scp":
		return t.SCP, "Scatter factors", true
	}
	return nil, "", false
}

// Get returns one table as {series: values}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	t, _, ok := h.table(mux.Vars(r)["name"])
	if !ok {
		http.Error(w, "Unknown table", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(t)
}

// Chart plots the depth curve of a depth-keyed table for the field sizes
// given in ?fs=5,10,20. Points come from the same lookup the calculations
// use, so off-axis field sizes show interpolated values.
func (h *Handler) Chart(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	t, title, ok := h.table(name)
	if !ok || strings.EqualFold(name, "scp") {
		http.Error(w, "Unknown depth table", http.StatusNotFound)
		return
	}
	sizes, err := parseFieldSizes(r.URL.Query().Get("fs"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var buf bytes.Buffer
	if err := RenderDepthChart(&buf, title, t, sizes); err != nil {
		http.Error(w, fmt.Sprintf("failed to render chart: %v", err), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

// RenderDepthChart writes an HTML line chart with one series per field size.
func RenderDepthChart(buf *bytes.Buffer, title string, t dosimetry.Table, sizes []float64) error {
	depths := t.Depths()
	if len(depths) == 0 {
		return fmt.Errorf("table has no depth series")
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title, Width: "900px", Height: "600px"}),
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: fmt.Sprintf("depths=%d", len(depths))}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Depth (cm)", NameLocation: "middle", NameGap: 25}),
	)
	line.SetXAxis(depths)
	for _, fs := range sizes {
		data := make([]opts.LineData, 0, len(depths))
		for _, d := range depths {
			data = append(data, opts.LineData{Value: dosimetry.Lookup(fs, d, t)})
		}
		line.AddSeries(dosimetry.FormatFieldSize(fs)+" cm", data)
	}
	return line.Render(buf)
}

func parseFieldSizes(s string) ([]float64, error) {
	if strings.TrimSpace(s) == "" {
		return defaultFieldSizes, nil
	}
	var out []float64
	for _, part := range strings.Split(s, ",") {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil || v <= 0 {
			return nil, fmt.Errorf("invalid field size %q", part)
		}
		out = append(out, v)
	}
	return out, nil
}
