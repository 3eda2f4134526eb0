package download

import (
	"io"
	"sync"

	"github.com/vbauerster/mpb/v5"
	"github.com/vbauerster/mpb/v5/decor"
)

const (
	progressBarWidth = 64
	maxBarNameLength = 32
)

// Progress renders one bar per file being downloaded
type Progress struct {
	mu   sync.Mutex
	p    *mpb.Progress
	bars map[string]*mpb.Bar
}

// NewProgress creates a progress container writing to w
func NewProgress(w io.Writer) *Progress {
	return &Progress{
		p:    mpb.New(mpb.WithWidth(progressBarWidth), mpb.WithOutput(w)),
		bars: make(map[string]*mpb.Bar),
	}
}

func (p *Progress) bar(key, name string, total int64) *mpb.Bar {
	if bar, ok := p.bars[key]; ok {
		return bar
	}
	bar := p.p.AddBar(total,
		mpb.PrependDecorators(
			decor.Name(shortName(name), decor.WCSyncSpaceR),
			decor.CountersKibiByte("% .2f / % .2f"),
			decor.Percentage(decor.WCSyncSpace),
		),
		mpb.AppendDecorators(
			decor.AverageSpeed(decor.UnitKiB, "% .2f"),
		),
	)
	p.bars[key] = bar
	return bar
}

// Update moves the bar for key to downloaded out of total bytes
func (p *Progress) Update(key, name string, downloaded, total int64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	bar := p.bar(key, name, total)
	if bar.Completed() {
		return
	}
	if total > 0 {
		bar.SetTotal(total, false)
	}
	bar.SetCurrent(downloaded)
	if total > 0 && downloaded >= total {
		bar.SetTotal(total, true)
	}
}

// Reader wraps r so that reading from it advances the bar for key
func (p *Progress) Reader(key, name string, total int64, r io.Reader) io.ReadCloser {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.bar(key, name, total).ProxyReader(r)
}

// Complete marks the bar for key as done
func (p *Progress) Complete(key string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if bar, ok := p.bars[key]; ok && !bar.Completed() {
		bar.SetTotal(-1, true)
	}
}

// Wait stops bars that never completed and waits for rendering to finish
func (p *Progress) Wait() {
	p.mu.Lock()
	for _, bar := range p.bars {
		if !bar.Completed() {
			bar.Abort(false)
		}
	}
	p.mu.Unlock()

	p.p.Wait()
}

func shortName(name string) string {
	runes := []rune(name)
	if len(runes) <= maxBarNameLength {
		return name
	}
	return string(runes[:maxBarNameLength-3]) + "..."
}
