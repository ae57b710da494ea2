package report

import (
	"encoding/json"
	"io"

	"github.com/1homsi/jarcheck/internal/checker"
)

func WriteCheckJSON(w io.Writer, r *checker.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

func WriteBatchJSON(w io.Writer, results []*checker.Result) error {
	if results == nil {
		results = []*checker.Result{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(results)
}
