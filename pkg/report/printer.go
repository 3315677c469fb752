package report

import (
	"encoding/json"
	"fmt"
	"io"
)

// Printer writes the human-readable transcript of a run. All check output
// goes through it so tests can capture the transcript from a buffer.
type Printer struct {
	w io.Writer
}

func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w}
}

func (p *Printer) Linef(format string, args ...interface{}) {
	fmt.Fprintf(p.w, format+"\n", args...)
}

func (p *Printer) Errorf(err error) {
	fmt.Fprintf(p.w, "Error: %v\n", err)
}

// JSON pretty-prints v with two-space indentation, matching what operators
// expect from the service's own docs.
func (p *Printer) JSON(v interface{}) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintf(p.w, "Error: failed to render JSON: %v\n", err)
		return
	}
	fmt.Fprintf(p.w, "Response: %s\n", data)
}

// Summary renders the pass/fail table and the overall verdict.
func (p *Printer) Summary(rep *RunReport) {
	p.Linef("")
	p.Linef("=== Test Summary ===")
	for _, res := range rep.Results {
		switch {
		case res.Skipped:
			p.Linef("%s: %s", res.Label, res.Detail)
		case res.Passed:
			p.Linef("%s: ✓", res.Label)
		default:
			p.Linef("%s: ✗", res.Label)
		}
	}

	p.Linef("")
	if rep.Passed() {
		p.Linef("🎉 API is working! You can now integrate it with your frontend.")
	} else {
		p.Linef("❌ Some tests failed. Check if the server is running and properly initialized.")
	}
}
