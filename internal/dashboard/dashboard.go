// Package dashboard renders a live terminal UI for a running load test.
package dashboard

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	ui "github.com/gizak/termui/v3"
	"github.com/gizak/termui/v3/widgets"

	"craftload/internal/metrics"
)

// RunConfig holds the run parameters shown in the dashboard header.
type RunConfig struct {
	Host            string
	Port            int
	Concurrency     int
	TrialsPerWorker int
	Rate            int
	Timeout         time.Duration
}

// TotalTrials is the fixed trial budget of the run.
func (c RunConfig) TotalTrials() int {
	return c.Concurrency * c.TrialsPerWorker
}

// Dashboard renders live run metrics with termui.
type Dashboard struct {
	collector    *metrics.Collector
	ctx          context.Context
	cancel       context.CancelFunc
	shutdownFunc func()
	wg           sync.WaitGroup
	mu           sync.Mutex

	grid           *ui.Grid
	summaryPara    *widgets.Paragraph
	progressGauge  *widgets.Gauge
	countsPara     *widgets.Paragraph
	latencySparkle *widgets.SparklineGroup
	latencyPara    *widgets.Paragraph
	serverPara     *widgets.Paragraph
	failureList    *widgets.List
	latencyHistory []float64
	startTime      time.Time
	runConfig      RunConfig
}

// New creates a Dashboard and initializes the terminal. shutdownFunc is
// invoked when the user quits with q or Ctrl-C.
func New(collector *metrics.Collector, cfg RunConfig, shutdownFunc func()) (*Dashboard, error) {
	if err := ui.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize termui: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())

	d := &Dashboard{
		collector:      collector,
		ctx:            ctx,
		cancel:         cancel,
		shutdownFunc:   shutdownFunc,
		latencyHistory: make([]float64, 0, 100),
		startTime:      time.Now(),
		runConfig:      cfg,
	}

	d.initWidgets()
	d.setupGrid()

	return d, nil
}

func (d *Dashboard) initWidgets() {
	d.summaryPara = widgets.NewParagraph()
	d.summaryPara.Title = "Run"
	d.summaryPara.Text = "Initializing..."
	d.summaryPara.BorderStyle.Fg = ui.ColorCyan

	d.progressGauge = widgets.NewGauge()
	d.progressGauge.Title = "Trial Progress"
	d.progressGauge.Percent = 0
	d.progressGauge.BarColor = ui.ColorBlue
	d.progressGauge.BorderStyle.Fg = ui.ColorCyan
	d.progressGauge.LabelStyle = ui.NewStyle(ui.ColorWhite)

	d.countsPara = widgets.NewParagraph()
	d.countsPara.Title = "Counts"
	d.countsPara.Text = "Waiting for data..."
	d.countsPara.BorderStyle.Fg = ui.ColorCyan

	sparkline := widgets.NewSparkline()
	sparkline.Title = "Response (ms)"
	sparkline.LineColor = ui.ColorGreen
	sparkline.Data = []float64{0}

	d.latencySparkle = widgets.NewSparklineGroup(sparkline)
	d.latencySparkle.Title = "Response Time"
	d.latencySparkle.BorderStyle.Fg = ui.ColorCyan

	d.latencyPara = widgets.NewParagraph()
	d.latencyPara.Title = "Response Stats"
	d.latencyPara.Text = "Min: 0ms\nMean: 0ms\nMedian: 0ms\nP99: 0ms"
	d.latencyPara.BorderStyle.Fg = ui.ColorCyan

	d.serverPara = widgets.NewParagraph()
	d.serverPara.Title = "Server"
	d.serverPara.Text = "No response yet"
	d.serverPara.TextStyle = ui.NewStyle(ui.ColorGreen)
	d.serverPara.BorderStyle.Fg = ui.ColorCyan

	d.failureList = widgets.NewList()
	d.failureList.Title = "Failures"
	d.failureList.Rows = []string{"No failures"}
	d.failureList.TextStyle = ui.NewStyle(ui.ColorYellow)
	d.failureList.BorderStyle.Fg = ui.ColorCyan
}

func (d *Dashboard) setupGrid() {
	termWidth, termHeight := ui.TerminalDimensions()

	d.grid = ui.NewGrid()
	d.grid.SetRect(0, 0, termWidth, termHeight)

	d.grid.Set(
		ui.NewRow(0.15,
			ui.NewCol(1.0, d.summaryPara),
		),
		ui.NewRow(0.18,
			ui.NewCol(0.5, d.progressGauge),
			ui.NewCol(0.5, d.countsPara),
		),
		ui.NewRow(0.32,
			ui.NewCol(0.65, d.latencySparkle),
			ui.NewCol(0.35, d.latencyPara),
		),
		ui.NewRow(0.35,
			ui.NewCol(0.5, d.serverPara),
			ui.NewCol(0.5, d.failureList),
		),
	)
}

// Start begins the dashboard update loop.
func (d *Dashboard) Start() {
	d.wg.Add(1)
	go d.run()
}

// Stop stops the dashboard and restores the terminal.
func (d *Dashboard) Stop() {
	d.cancel()
	d.wg.Wait()
	ui.Close()
	// Give terminal time to restore
	time.Sleep(100 * time.Millisecond)
}

func (d *Dashboard) run() {
	defer d.wg.Done()

	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	uiEvents := ui.PollEvents()

	d.render()

	for {
		select {
		case <-d.ctx.Done():
			// Drain any remaining events
			for len(uiEvents) > 0 {
				<-uiEvents
			}
			return
		case e := <-uiEvents:
			select {
			case <-d.ctx.Done():
				return
			default:
			}

			switch e.ID {
			case "q", "<C-c>":
				if d.shutdownFunc != nil {
					d.shutdownFunc()
				}
				// Do not return here; wait for Stop() to cancel context
			case "<Resize>":
				payload := e.Payload.(ui.Resize)
				d.grid.SetRect(0, 0, payload.Width, payload.Height)
				ui.Clear()
				d.render()
			}
		case <-ticker.C:
			d.update()
			d.render()
		}
	}
}

// update refreshes all widget data from the collector.
func (d *Dashboard) update() {
	d.mu.Lock()
	defer d.mu.Unlock()

	elapsed := time.Since(d.startTime)
	stats := d.collector.Stats(elapsed)
	total := d.runConfig.TotalTrials()

	d.summaryPara.Text = fmt.Sprintf(
		"Target: %s:%d\nWorkers: %d | Trials/worker: %d | %s | Timeout: %s\nElapsed: %s | %.1f trials/sec",
		d.runConfig.Host,
		d.runConfig.Port,
		d.runConfig.Concurrency,
		d.runConfig.TrialsPerWorker,
		formatRate(d.runConfig.Rate),
		d.runConfig.Timeout,
		elapsed.Round(time.Second),
		stats.TrialsPerSec,
	)

	d.progressGauge.Percent = progressPercent(stats.Total, total)
	d.progressGauge.Label = fmt.Sprintf("%d / %d trials", stats.Total, total)

	d.countsPara.Text = fmt.Sprintf(
		"Completed:    %d\nSuccessful:   %d\nFailed:       %d\nSuccess Rate: %.1f%%",
		stats.Total,
		stats.Successes,
		stats.Failures,
		stats.SuccessRate*100,
	)

	if stats.Successes > 0 {
		d.latencyHistory = append(d.latencyHistory, stats.Response.MeanMs)
		if len(d.latencyHistory) > 100 {
			d.latencyHistory = d.latencyHistory[1:]
		}
		d.latencySparkle.Sparklines[0].Data = d.latencyHistory
		d.latencySparkle.Title = fmt.Sprintf(
			"Response Time | Mean: %.2fms | Min: %.2fms | Max: %.2fms",
			stats.Response.MeanMs,
			stats.Response.MinMs,
			stats.Response.MaxMs,
		)

		d.latencyPara.Text = fmt.Sprintf(
			"Min:    %.2fms\nMean:   %.2fms\nMedian: %.2fms\nMax:    %.2fms\nP90:    %.2fms\nP99:    %.2fms",
			stats.Response.MinMs,
			stats.Response.MeanMs,
			stats.Response.MedianMs,
			stats.Response.MaxMs,
			stats.Response.P90Ms,
			stats.Response.P99Ms,
		)

		d.serverPara.Text = fmt.Sprintf(
			"Version: %s\nMOTD:    %s\nPlayers: %.1f avg online",
			stats.ServerVersion,
			stats.ServerMOTD,
			stats.AvgPlayersOnline,
		)
	}

	d.failureList.Rows = formatFailureRows(stats.Errors)
}

func (d *Dashboard) render() {
	d.mu.Lock()
	defer d.mu.Unlock()

	ui.Render(d.grid)
}

// progressPercent converts completed/expected trials into a 0-100 gauge value.
func progressPercent(done int64, total int) int {
	if total <= 0 {
		return 0
	}
	pct := int(done * 100 / int64(total))
	if pct > 100 {
		pct = 100
	}
	return pct
}

func formatRate(rate int) string {
	if rate > 0 {
		return fmt.Sprintf("Rate: %d/s", rate)
	}
	return "Rate: unlimited"
}

// formatFailureRows turns the error breakdown into list rows, most frequent
// first, capped at 10.
func formatFailureRows(errors map[string]int) []string {
	if len(errors) == 0 {
		return []string{"[No failures](fg:green)"}
	}

	type row struct {
		cause string
		count int
	}
	rows := make([]row, 0, len(errors))
	for cause, count := range errors {
		rows = append(rows, row{cause: cause, count: count})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].count == rows[j].count {
			return rows[i].cause < rows[j].cause
		}
		return rows[i].count > rows[j].count
	})

	maxRows := len(rows)
	if maxRows > 10 {
		maxRows = 10
	}
	formatted := make([]string, 0, maxRows)
	for i := 0; i < maxRows; i++ {
		formatted = append(formatted, fmt.Sprintf("[%s](fg:red) %d", rows[i].cause, rows[i].count))
	}
	return formatted
}
