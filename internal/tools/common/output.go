package common

import (
	"encoding/json"
	"io"
	"os"
)

// CIResult is the --ci output of every tool.
type CIResult struct {
	OK      bool     `json:"ok"`
	Title   string   `json:"title"`
	Details []string `json:"details,omitempty"`
	Error   string   `json:"error,omitempty"`
}

func NewCIResult(title string, details []string, err error) CIResult {
	result := CIResult{OK: err == nil, Title: title, Details: details}
	if err != nil {
		result.Error = err.Error()
	}
	return result
}

func WriteCIResult(w io.Writer, result CIResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

func PrintCIResult(title string, details []string, err error) {
	_ = WriteCIResult(os.Stdout, NewCIResult(title, details, err))
}
