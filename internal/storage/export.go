package storage

import (
	"encoding/json"
	"io"
	"os"
)

// ExportData is the JSON form of a set of runs.
type ExportData struct {
	Count int        `json:"count"`
	Runs  []Settings `json:"runs"`
}

func ExportJSON(path string, runs []Settings) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	if err := WriteJSON(file, runs); err != nil {
		return err
	}
	return file.Close()
}

func WriteJSON(w io.Writer, runs []Settings) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(ExportData{Count: len(runs), Runs: runs})
}
