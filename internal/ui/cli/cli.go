// Package cli implements a command-line UI for the game: it prints the colony and reads
// the player's deploy and remove commands.
package cli

import (
	"bufio"
	"fmt"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/janpfeifer/antsGo/internal/state"
	"github.com/pkg/errors"
	"golang.org/x/term"
	"io"
	"os"
	"regexp"
	"strings"
)

// CellWidth is the inner width of a place cell in the board.
const CellWidth = 11

var ansiFilter = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// displayWidth of s removes its color/control sequences and returns the length of what is left.
func displayWidth(s string) int {
	return len([]rune(ansiFilter.ReplaceAllString(s, "")))
}

// UI prints the game and reads commands.
type UI struct {
	color, clearScreen bool
	reader             *bufio.Reader
	out                io.Writer
	renderer           *lipgloss.Renderer
}

// New creates a UI on the standard input and output.
func New(color, clearScreen bool) *UI {
	return NewWithIO(os.Stdin, os.Stdout, color, clearScreen)
}

// NewWithIO creates a UI that reads commands from in and prints to out.
func NewWithIO(in io.Reader, out io.Writer, color, clearScreen bool) *UI {
	return &UI{
		color:       color,
		clearScreen: clearScreen,
		reader:      bufio.NewReader(in),
		out:         out,
		renderer:    lipgloss.NewRenderer(out),
	}
}

func (ui *UI) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(ui.out, format, args...)
}

func (ui *UI) println(args ...any) {
	_, _ = fmt.Fprintln(ui.out, args...)
}

// style returns a new style, with the colors only if the UI is colored.
func (ui *UI) style(foreground, background string) lipgloss.Style {
	style := ui.renderer.NewStyle()
	if ui.color {
		if foreground != "" {
			style = style.Foreground(lipgloss.Color(foreground))
		}
		if background != "" {
			style = style.Background(lipgloss.Color(background))
		}
	}
	return style
}

// printCentered prints the block centered in the terminal, if the output is a terminal.
func (ui *UI) printCentered(block string) {
	lines := strings.Split(block, "\n")
	terminalWidth := 0
	if f, ok := ui.out.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		terminalWidth, _, _ = term.GetSize(int(f.Fd()))
	}
	blockWidth := 0
	for _, line := range lines {
		blockWidth = max(blockWidth, displayWidth(line))
	}
	indent := max((terminalWidth-blockWidth)/2, 0)
	for _, line := range lines {
		if len(line) == 0 {
			ui.println()
			continue
		}
		ui.printf("%s%s\n", strings.Repeat(" ", indent), line)
	}
}

// Print the colony: a header with the turn, food and bees, followed by one row per tunnel.
func (ui *UI) Print(g *state.GameState) {
	if ui.clearScreen {
		ui.printf("\033c")
	}
	header := ui.style("15", "").Bold(true).
		Render(fmt.Sprintf("Turn #%d    Food: %d    Bees remaining: %d", g.Time(), g.Food(), g.RemainingBees()))
	ui.printf("\n%s\n\n", header)
	ui.printCentered(ui.Board(g))
	if hive, found := g.Place(state.HiveName); found && len(hive.Bees) > 0 {
		ui.printf("%d bees waiting in the hive.\n", len(hive.Bees))
	}
}

// Board renders the tunnels, one per row: the bee entrance is on the left and the ant home
// base on the right.
func (ui *UI) Board(g *state.GameState) string {
	rows := make([]string, 0, len(g.Tunnels()))
	for _, tunnel := range g.Tunnels() {
		cells := make([]string, 0, len(tunnel)+2)
		cells = append(cells, ui.style("11", "").Padding(1, 1).Render("Hive →"))
		for _, p := range tunnel {
			cells = append(cells, ui.cell(p))
		}
		cells = append(cells, ui.style("9", "").Padding(1, 1).Render("→ Base"))
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Center, cells...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// cell renders one place: its name, the ant (and the one it contains) and the bees.
func (ui *UI) cell(p state.PlaceView) string {
	ant := "."
	if p.Ant != nil {
		ant = fmt.Sprintf("%s(%d)", abbreviation(p.Ant.Type), p.Ant.Health)
		if p.Ant.Contained != nil {
			ant = fmt.Sprintf("%s+%s", abbreviation(p.Ant.Type), abbreviation(p.Ant.Contained.Type))
		}
	}
	bees := "-"
	if len(p.Bees) > 0 {
		health := 0
		for _, bee := range p.Bees {
			health += bee.Health
		}
		bees = fmt.Sprintf("B%d:%d", len(p.Bees), health)
	}
	style := ui.style("", "").
		Border(lipgloss.RoundedBorder()).
		Width(CellWidth).
		Align(lipgloss.Center)
	if p.Kind == state.PlaceWater {
		style = style.BorderStyle(lipgloss.DoubleBorder())
		if ui.color {
			style = style.BorderForeground(lipgloss.Color("12"))
		}
	}
	name := p.Name
	if idx := strings.Index(name, "_"); idx >= 0 {
		name = name[idx+1:]
	}
	antStyle, beeStyle := ui.style("10", ""), ui.style("11", "")
	return style.Render(name + "\n" + antStyle.Render(ant) + "\n" + beeStyle.Render(bees))
}

// abbreviation of an ant type name, to fit in the cells.
func abbreviation(name string) string {
	if len(name) <= 4 {
		return name
	}
	return name[:4]
}

// PrintCatalog prints the table of the ant types that can be deployed.
func (ui *UI) PrintCatalog(g *state.GameState) {
	rows := make([][]string, 0, len(g.Catalog()))
	for _, antType := range g.Catalog() {
		cost := fmt.Sprintf("%d", antType.FoodCost)
		if antType.FoodCost > g.Food() {
			cost += " (!)"
		}
		rows = append(rows, []string{antType.Name, cost, fmt.Sprintf("%d", antType.Health),
			fmt.Sprintf("%d", antType.Damage), antType.Description})
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Ant", "Cost", "Health", "Damage", "Description").
		Rows(rows...)
	ui.println(t.Render())
}

// PrintOutcome prints a banner with the end result.
func (ui *UI) PrintOutcome(g *state.GameState) {
	ui.println()
	style := ui.style("0", "10").Padding(1, 2).Bold(true)
	text := "*** ALL BEES VANQUISHED! THE ANTS WIN! ***"
	switch g.Outcome() {
	case state.AntsLose:
		style = ui.style("15", "9").Padding(1, 2).Bold(true)
		text = fmt.Sprintf("*** THE ANTS LOSE: %s ***", g.LossReason())
	case state.InProgress:
		text = "*** Game interrupted ***"
	}
	ui.printCentered(style.Render(text))
	ui.printf("Turns: %d, ants deployed: %d, food left: %d\n\n", g.Time(), g.AntsDeployed(), g.Food())
}

// OnEvent implements state.Listener, printing the notifications of the game.
func (ui *UI) OnEvent(g *state.GameState, event state.Event) {
	switch event.Kind {
	case state.EventBossArrived:
		ui.println(ui.style("15", "5").Bold(true).Render(" " + event.Message + " "))
	case state.EventNotEnoughFood:
		ui.printf("    * %s\n", event.Message)
	case state.EventInsectDied:
		if insect, found := g.Insect(event.Insect); found && insect.IsAnt() {
			ui.printf("    %s died in battle.\n", insect.Name())
		}
	case state.EventAntsWin, state.EventAntsLose:
		// PrintOutcome is called at the end of the game.
	}
}

const helpText = `Commands:
  deploy <ant type> <place>   (or "d"): deploy an ant, e.g. "d Thrower tunnel_0_3"
  remove <place>              (or "r"): remove the ant of a place
  catalog                     (or "c"): list the ant types and their costs
  board                       (or "b"): print the colony again
  next                        (or an empty line): end the turn and let the ants act
  quit                        (or "q"): leave the game`

// ReadCommands reads and executes commands until the player ends the turn (quit=false)
// or leaves the game (quit=true). Rejected commands print a message and don't change
// anything. An end of input is handled as quit.
func (ui *UI) ReadCommands(g *state.GameState) (quit bool, err error) {
	for {
		ui.printf("turn %d, food %d > ", g.Time(), g.Food())
		text, err := ui.reader.ReadString('\n')
		if err != nil && (err != io.EOF || strings.TrimSpace(text) == "") {
			ui.println()
			if err == io.EOF {
				return true, nil
			}
			return true, errors.Wrap(err, "reading commands")
		}
		fields := strings.Fields(text)
		if len(fields) == 0 {
			return false, nil
		}
		switch command, args := strings.ToLower(fields[0]), fields[1:]; command {
		case "next", "n":
			return false, nil
		case "quit", "q", "exit":
			return true, nil
		case "help", "h", "?":
			ui.println(helpText)
		case "catalog", "c":
			ui.PrintCatalog(g)
		case "board", "b":
			ui.Print(g)
		case "deploy", "d":
			if len(args) != 2 {
				ui.println("    * Usage: deploy <ant type> <place>")
				continue
			}
			if err := ui.deploy(g, args[0], args[1]); err != nil {
				ui.printf("    * %s\n", err)
				continue
			}
			ui.Print(g)
		case "remove", "r":
			if len(args) != 1 {
				ui.println("    * Usage: remove <place>")
				continue
			}
			if err := g.Remove(ui.placeName(g, args[0])); err != nil {
				ui.printf("    * %s\n", err)
				continue
			}
			ui.Print(g)
		default:
			ui.printf("    * Unknown command %q, type \"help\" for the list of commands.\n", fields[0])
		}
	}
}

// deploy checks the command before calling GameState.Deploy, so input errors never reach
// the placement contract checks.
func (ui *UI) deploy(g *state.GameState, typeName, placeName string) error {
	var antType *state.AntType
	for _, catalogType := range g.Catalog() {
		if strings.EqualFold(catalogType.Name, typeName) {
			antType = catalogType
			typeName = catalogType.Name
			break
		}
	}
	placeName = ui.placeName(g, placeName)
	if !g.CanDeploy(placeName, typeName) {
		p, found := g.Place(placeName)
		if found && p.Ant != nil && antType != nil && antType.FoodCost <= g.Food() {
			return errors.Errorf("%s can't be placed in %s, occupied by %s", typeName, placeName, p.Ant.Type)
		}
		// Unknown names, the hive or not enough food: Deploy reports it.
	}
	_, err := g.Deploy(placeName, typeName)
	return err
}

// placeName matches the name case-insensitively against the registered places.
func (ui *UI) placeName(g *state.GameState, name string) string {
	if _, found := g.Place(name); found {
		return name
	}
	for _, p := range g.Places() {
		if strings.EqualFold(p.Name, name) {
			return p.Name
		}
	}
	return name
}
