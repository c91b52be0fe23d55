package cli

import (
	"context"
	"fmt"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/figlayout/pkg/figfile"
	"github.com/matzehuels/figlayout/pkg/figure"
	"github.com/matzehuels/figlayout/pkg/legend"
	"github.com/matzehuels/figlayout/pkg/pipeline"
)

const (
	watchStep       = 20.0
	watchMarginStep = 5.0
	watchRadiusStep = 1.0
	watchPadding    = 0.05
	watchEventLog   = 6
)

// watchCommand creates the watch command, an interactive view of a live
// figure that shows how geometry reacts to changes.
func (c *CLI) watchCommand() *cobra.Command {
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "watch [figure.toml]",
		Short: "Drive a live figure interactively",
		Long: `Open a live figure and change it from the keyboard.

Every change goes through the same relayout path as a resized container:
  ←/→ ↑/↓   container width / height
  m / M     grow / shrink all margins
  + / -     mark radius (padding)
  p         toggle figure padding fraction (0.05 / none)
  l         cycle legend location
  r         request a relayout
  q         quit`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runWatch(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().Float64Var(&opts.Width, "width", 0, "initial container width")
	cmd.Flags().Float64Var(&opts.Height, "height", 0, "initial container height")

	return cmd
}

func (c *CLI) runWatch(ctx context.Context, input string, opts pipeline.Options) error {
	doc, err := figfile.Load(input)
	if err != nil {
		return err
	}
	opts.Logger = loggerFromContext(ctx)
	opts.SetDefaults()

	fig, built, err := pipeline.Open(ctx, doc, opts)
	if err != nil {
		return err
	}
	defer fig.Close()

	m := newWatchModel(input, fig, built)
	unsubscribe := fig.Subscribe(m.forward)
	defer unsubscribe()

	_, err = tea.NewProgram(m, tea.WithContext(ctx)).Run()
	return err
}

// notificationMsg carries a figure notification into the program.
type notificationMsg struct{ n figure.Notification }

// watchModel is the bubbletea model of the watch command.
type watchModel struct {
	input  string
	fig    *figure.Figure
	built  *figfile.Built
	events chan figure.Notification

	geom   figure.Geometry
	legend legend.Result
	log    []string
}

func newWatchModel(input string, fig *figure.Figure, built *figfile.Built) watchModel {
	return watchModel{
		input:  input,
		fig:    fig,
		built:  built,
		events: make(chan figure.Notification, 64),
		geom:   fig.Geometry(),
		legend: fig.Legend(),
	}
}

// forward runs on the figure goroutine; it never blocks.
func (m watchModel) forward(n figure.Notification) {
	select {
	case m.events <- n:
	default:
	}
}

func (m watchModel) waitForNotification() tea.Cmd {
	return func() tea.Msg {
		return notificationMsg{<-m.events}
	}
}

func (m watchModel) Init() tea.Cmd {
	return m.waitForNotification()
}

func (m watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg.String())
	case notificationMsg:
		switch n := msg.n.(type) {
		case figure.MarginUpdated:
			m.geom = n.Geometry
			m.record(fmt.Sprintf("margin updated  %sx%s plot %sx%s",
				px(n.Geometry.Width), px(n.Geometry.Height), px(n.Geometry.PlotWidth), px(n.Geometry.PlotHeight)))
		case figure.LegendUpdated:
			m.legend = n.Legend
			m.record(fmt.Sprintf("legend updated  %s, %d rows", n.Legend.Location, n.Legend.Rows))
		}
		return m, m.waitForNotification()
	}
	return m, nil
}

func (m watchModel) handleKey(key string) (tea.Model, tea.Cmd) {
	model := m.built.Model
	g := m.fig.Geometry()
	switch key {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "left":
		m.fig.Resize(max(g.Width-watchStep, watchStep), g.Height)
	case "right":
		m.fig.Resize(g.Width+watchStep, g.Height)
	case "up":
		m.fig.Resize(g.Width, g.Height+watchStep)
	case "down":
		m.fig.Resize(g.Width, max(g.Height-watchStep, watchStep))
	case "m", "M":
		d := watchMarginStep
		if key == "M" {
			d = -d
		}
		mg := model.Margin()
		model.SetMargin(figure.Margin{
			Top:    max(mg.Top+d, 0),
			Right:  max(mg.Right+d, 0),
			Bottom: max(mg.Bottom+d, 0),
			Left:   max(mg.Left+d, 0),
		})
	case "+", "=", "-":
		d := watchRadiusStep
		if key == "-" {
			d = -d
		}
		for _, s := range m.built.Marks {
			s.SetRadius(max(s.Radius()+d, 0))
		}
	case "p":
		x, y := model.Padding()
		if x == watchPadding && y == watchPadding {
			model.SetPadding(0, 0)
		} else {
			model.SetPadding(watchPadding, watchPadding)
		}
	case "l":
		i := slices.Index(legend.Locations, model.LegendLocation())
		model.SetLegendLocation(legend.Locations[(i+1)%len(legend.Locations)])
	case "r":
		m.fig.Relayout()
	}
	return m, nil
}

func (m *watchModel) record(line string) {
	m.log = append(m.log, line)
	if len(m.log) > watchEventLog {
		m.log = m.log[len(m.log)-watchEventLog:]
	}
}

func (m watchModel) View() string {
	var b strings.Builder
	g := m.geom

	b.WriteString(StyleTitle.Render("figlayout watch") + " " + StyleDim.Render(m.input) + "\n\n")
	b.WriteString(renderTable(
		[]string{"", "width", "height"},
		[][]string{
			{"figure", px(g.Width), px(g.Height)},
			{"plot", px(g.PlotWidth), px(g.PlotHeight)},
		},
	))
	b.WriteString("\n")

	x, y := m.built.Model.Padding()
	stats := m.fig.Stats()
	fmt.Fprintf(&b, "%s %s  %s %s  %s %s\n",
		StyleDim.Render("margin"), StyleValue.Render(fmt.Sprintf("%s/%s/%s/%s", px(g.Margin.Top), px(g.Margin.Right), px(g.Margin.Bottom), px(g.Margin.Left))),
		StyleDim.Render("padding"), StyleValue.Render(fmt.Sprintf("%s,%s", px(x), px(y))),
		StyleDim.Render("relayouts"), StyleNumber.Render(fmt.Sprint(stats.Relayouts)))
	fmt.Fprintf(&b, "%s %s  %s %s\n\n",
		StyleDim.Render("legend"), StyleValue.Render(string(m.legend.Location)),
		StyleDim.Render("rows"), StyleNumber.Render(fmt.Sprint(m.legend.Rows)))

	logStyle := lipgloss.NewStyle().Foreground(colorGray)
	for _, line := range m.log {
		b.WriteString(logStyle.Render("  "+line) + "\n")
	}
	b.WriteString("\n" + StyleDim.Render("←→↑↓ size · m/M margin · +/- radius · p padding · l legend · r relayout · q quit"))
	return b.String()
}
