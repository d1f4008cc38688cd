package photorganize

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/schollz/progressbar/v3"

	"github.com/user/photorganize/pkg"
)

// progressObserver drives a terminal progress bar. It is only used when
// nothing else writes per-file output (no prompts, no verbose logging).
type progressObserver struct {
	out io.Writer
	bar *progressbar.ProgressBar
}

func newProgressObserver(out io.Writer) *progressObserver {
	return &progressObserver{out: out}
}

func (p *progressObserver) OnStart(total int) {
	if total == 0 {
		return
	}
	p.bar = progressbar.NewOptions(total,
		progressbar.OptionSetWriter(p.out),
		progressbar.OptionSetDescription("Organizing"),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(30),
		progressbar.OptionClearOnFinish(),
	)
}

func (p *progressObserver) OnFileDone(path string, _ Outcome) {
	if p.bar == nil {
		return
	}
	p.bar.Describe(truncateString(filepath.Base(path), 30))
	_ = p.bar.Add(1)
}

func (p *progressObserver) OnFinish(pkg.Summary) {
	if p.bar == nil {
		return
	}
	_ = p.bar.Finish()
	fmt.Fprintln(p.out)
}

func truncateString(s string, max int) string {
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}
