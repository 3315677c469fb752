// Package check defines the individual smoke checks against the
// object-detection API and the runner that executes them in order.
package check

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/luisrosales852/object-detection/pkg/client"
	"github.com/luisrosales852/object-detection/pkg/report"
)

const (
	maxSampleClasses    = 10
	maxSampleCategories = 5
)

// Check is one probe against the service. Run never returns an error:
// every failure is folded into the result so the suite always continues.
type Check interface {
	Name() string
	Label() string
	Run(ctx context.Context, out *report.Printer) report.Result
}

// Health probes GET /health. It passes iff the service answers 200 with a
// JSON body.
type Health struct {
	Client *client.Client
}

func (h *Health) Name() string  { return "health" }
func (h *Health) Label() string { return "Health endpoint" }

func (h *Health) Run(ctx context.Context, out *report.Printer) report.Result {
	out.Linef("Testing /health endpoint...")
	start := time.Now()

	status, err := h.Client.Health(ctx)
	if err != nil {
		out.Errorf(err)
		return h.failed(err, start)
	}

	out.Linef("Status: %d", status.StatusCode)
	out.JSON(status.Body)

	return report.Result{
		Name:     h.Name(),
		Label:    h.Label(),
		Passed:   status.StatusCode == http.StatusOK,
		Detail:   fmt.Sprintf("status %d", status.StatusCode),
		Duration: time.Since(start),
	}
}

func (h *Health) failed(err error, start time.Time) report.Result {
	return report.Result{
		Name:     h.Name(),
		Label:    h.Label(),
		Detail:   err.Error(),
		Duration: time.Since(start),
	}
}

// Classes probes GET /available_classes and prints a bounded sample of the
// class list and category keys. Missing fields degrade to empty values,
// never to a failure.
type Classes struct {
	Client *client.Client
}

func (c *Classes) Name() string  { return "available_classes" }
func (c *Classes) Label() string { return "Available classes endpoint" }

func (c *Classes) Run(ctx context.Context, out *report.Printer) report.Result {
	out.Linef("")
	out.Linef("Testing /available_classes endpoint...")
	start := time.Now()

	inv, err := c.Client.AvailableClasses(ctx)
	if err != nil {
		out.Errorf(err)
		return report.Result{
			Name:     c.Name(),
			Label:    c.Label(),
			Detail:   err.Error(),
			Duration: time.Since(start),
		}
	}

	out.Linef("Status: %d", inv.StatusCode)
	out.Linef("Total classes: %d", inv.TotalClasses)
	out.Linef("Sample classes: %v", report.SampleStrings(inv.Classes, maxSampleClasses))
	out.Linef("Sample categories: %v", report.SampleKeys(inv.Categories, maxSampleCategories))

	return report.Result{
		Name:     c.Name(),
		Label:    c.Label(),
		Passed:   inv.StatusCode == http.StatusOK,
		Detail:   fmt.Sprintf("status %d, %d classes", inv.StatusCode, inv.TotalClasses),
		Duration: time.Since(start),
	}
}

// Detect exercises POST /detect when an image path is configured. Without
// one it only prints a ready-to-run curl invocation and reports itself as
// skipped, matching how the endpoint is documented for manual testing.
type Detect struct {
	Client         *client.Client
	ImagePath      string
	Objects        string
	Confidence     float64
	IncludeSimilar bool
	FallbackToAll  bool
}

func (d *Detect) Name() string  { return "detect" }
func (d *Detect) Label() string { return "Detect endpoint" }

func (d *Detect) Run(ctx context.Context, out *report.Printer) report.Result {
	out.Linef("")
	out.Linef("Testing /detect endpoint...")

	if d.ImagePath == "" {
		d.printManualInstructions(out)
		return report.Result{
			Name:    d.Name(),
			Label:   d.Label(),
			Skipped: true,
			Detail:  "Manual test required",
		}
	}

	start := time.Now()

	f, err := os.Open(d.ImagePath)
	if err != nil {
		out.Errorf(err)
		return d.failed(err, start)
	}
	defer f.Close()

	res, err := d.Client.Detect(ctx, client.DetectRequest{
		Image:          f,
		Filename:       filepath.Base(d.ImagePath),
		Objects:        d.Objects,
		Confidence:     d.Confidence,
		IncludeSimilar: d.IncludeSimilar,
		FallbackToAll:  d.FallbackToAll,
	})
	if err != nil {
		out.Errorf(err)
		return d.failed(err, start)
	}

	out.Linef("Status: %d", res.StatusCode)
	out.JSON(res.Body)

	return report.Result{
		Name:     d.Name(),
		Label:    d.Label(),
		Passed:   res.StatusCode == http.StatusOK,
		Detail:   fmt.Sprintf("status %d", res.StatusCode),
		Duration: time.Since(start),
	}
}

func (d *Detect) failed(err error, start time.Time) report.Result {
	return report.Result{
		Name:     d.Name(),
		Label:    d.Label(),
		Detail:   err.Error(),
		Duration: time.Since(start),
	}
}

func (d *Detect) printManualInstructions(out *report.Printer) {
	base := d.Client.BaseURL()

	out.Linef("Note: This requires an actual image file to test properly.")
	out.Linef("To test this endpoint, run:")
	out.Linef(`curl -X POST "%s/detect" \`, base)
	out.Linef(`  -H "accept: application/json" \`)
	out.Linef(`  -H "Content-Type: multipart/form-data" \`)
	out.Linef(`  -F "file=@your_image.jpg" \`)
	out.Linef(`  -F "objects=car,person" \`)
	out.Linef(`  -F "confidence=0.5"`)
}
