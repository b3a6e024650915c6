package report

import (
	"fmt"
	"io"
	"time"

	"github.com/briandowns/spinner"
	"github.com/younsl/awsaudit/pkg/formatter"
)

// Progress is told when each section starts and ends
type Progress interface {
	Start(section string)
	Stop(result formatter.SectionResult)
}

// NopProgress reports nothing
type NopProgress struct{}

func (NopProgress) Start(string)                 {}
func (NopProgress) Stop(formatter.SectionResult) {}

// SpinnerProgress shows a spinner while a section runs and a completion line
// once it ends
type SpinnerProgress struct {
	out     io.Writer
	spinner *spinner.Spinner
}

// NewSpinnerProgress creates a SpinnerProgress writing to out
func NewSpinnerProgress(out io.Writer) *SpinnerProgress {
	return &SpinnerProgress{out: out}
}

// Start creates and starts a spinner with a message for the given section
func (p *SpinnerProgress) Start(section string) {
	p.spinner = spinner.New(spinner.CharSets[9], 200*time.Millisecond, spinner.WithWriter(p.out))
	p.spinner.Suffix = fmt.Sprintf(" Analyzing %s ...", section)
	p.spinner.Start()
}

// Stop sets the final message from the result and stops the spinner
func (p *SpinnerProgress) Stop(result formatter.SectionResult) {
	if p.spinner == nil {
		return
	}
	if result.Failed() {
		p.spinner.FinalMSG = fmt.Sprintf("✗ %s - Failed after %.2f seconds\n",
			result.Section, result.Duration.Seconds())
	} else {
		p.spinner.FinalMSG = fmt.Sprintf("✓ [%d rows] %s - Completed in %.2f seconds\n",
			result.Rows, result.Section, result.Duration.Seconds())
	}
	p.spinner.Stop()
	p.spinner = nil
}
