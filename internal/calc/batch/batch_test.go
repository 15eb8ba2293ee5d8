package batch

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"TPSuite/internal/calc/sadopen"
	"TPSuite/internal/calc/session"
	"TPSuite/internal/dosimetry"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func calculator() session.Calculator {
	may := time.Date(2026, time.May, 15, 9, 0, 0, 0, time.UTC)
	e := dosimetry.NewEngine(dosimetry.DefaultTables(), dosimetry.WithClock(func() time.Time { return may }))
	return sadopen.Calculator{Engine: e}
}

func TestRun(t *testing.T) {
	res, err := Run("sad-open", calculator(), []map[string]string{
		{"X": "10", "Y": "10", "Depth": "5", "Dose": "200"},
		{"X": "10", "Y": "0", "Depth": "5", "Dose": "200"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Count)
	assert.Equal(t, 1, res.Failed)
	assert.Equal(t, "1.39 MU", res.Rows[0].Summary)
	assert.Equal(t, "Y must be greater than zero", res.Rows[1].Error)
	assert.Nil(t, res.Rows[1].Result)

	_, err = Run("sad-open", calculator(), nil)
	assert.ErrorIs(t, err, ErrNoRows)
}

func workbook(t *testing.T, rows [][]interface{}) *excelize.File {
	t.Helper()
	f := excelize.NewFile()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	return f
}

func TestReadSheet(t *testing.T) {
	f := workbook(t, [][]interface{}{
		{"x", "Y", "depth", "DOSE", "Comment"},
		{10, 10, 5, 200, "first"},
		{},
		{12, 8, "7", 180, ""},
	})
	defer f.Close()

	rows, err := ReadSheet(f, calculator())
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, map[string]string{"X": "10", "Y": "10", "Depth": "5", "Dose": "200"}, rows[0])
	assert.Equal(t, "7", rows[1]["Depth"])
}

func TestReadSheetUnknownHeader(t *testing.T) {
	f := workbook(t, [][]interface{}{{"a", "b"}, {1, 2}})
	defer f.Close()
	_, err := ReadSheet(f, calculator())
	assert.Error(t, err)
}

func TestImportHandler(t *testing.T) {
	f := workbook(t, [][]interface{}{
		{"X", "Y", "Depth", "Dose"},
		{10, 10, 5, 200},
	})
	var xlsx bytes.Buffer
	_, err := f.WriteTo(&xlsx)
	require.NoError(t, err)
	f.Close()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "fields.xlsx")
	require.NoError(t, err)
	_, err = part.Write(xlsx.Bytes())
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	h := &Handler{Calculators: map[string]session.Calculator{"sad-open": calculator()}}
	router := mux.NewRouter()
	router.HandleFunc("/tools/{scenario}/import", h.Import).Methods("POST")

	req := httptest.NewRequest("POST", "/tools/sad-open/import", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var res struct {
		Count int `json:"count"`
		Rows  []struct {
			Summary string `json:"summary"`
		} `json:"rows"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&res))
	assert.Equal(t, 1, res.Count)
	assert.Equal(t, "1.39 MU", res.Rows[0].Summary)

	req = httptest.NewRequest("POST", "/tools/unknown/import", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
