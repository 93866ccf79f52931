// Package cli is an interactive checker for debugging the matcher: every
// line typed is classified against the database.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/bastiangx/streetmangler/internal/utils"
	"github.com/bastiangx/streetmangler/pkg/aggregator"
	"github.com/bastiangx/streetmangler/pkg/config"
	"github.com/bastiangx/streetmangler/pkg/database"
	"github.com/bastiangx/streetmangler/pkg/name"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

// InputHandler reads names from its input and prints how each one
// classifies. A line starting with "?" lists completions of the rest of the
// line and ":d N" changes the spelling distance.
type InputHandler struct {
	db            *database.Database
	distance      int
	completeLimit int
	maxLength     int
	prompt        string
	showTiming    bool
	requestCount  int

	in  io.Reader
	out io.Writer

	classStyle lipgloss.Style
	nameStyle  lipgloss.Style
	dimStyle   lipgloss.Style
}

// NewInputHandler creates a handler on stdin/stdout.
func NewInputHandler(db *database.Database, cfg *config.Config) *InputHandler {
	h := &InputHandler{
		db:            db,
		distance:      cfg.Matcher.Distance,
		completeLimit: cfg.Server.CompletionLimit,
		maxLength:     cfg.Server.MaxNameLength,
		prompt:        cfg.CLI.Prompt,
		showTiming:    cfg.CLI.ShowTiming,
	}
	h.SetIO(os.Stdin, os.Stdout)
	return h
}

// SetIO replaces the input and output streams.
func (h *InputHandler) SetIO(in io.Reader, out io.Writer) {
	h.in = in
	h.out = out

	r := lipgloss.NewRenderer(out)
	h.classStyle = r.NewStyle().Bold(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#907aa9", Dark: "#c4a7e7"})
	h.nameStyle = r.NewStyle().
		Foreground(lipgloss.AdaptiveColor{Light: "#286983", Dark: "#9ccfd8"})
	h.dimStyle = r.NewStyle().Faint(true)
}

// Start runs the loop until the input ends.
func (h *InputHandler) Start() error {
	fmt.Fprintf(h.out, "streetmangler CLI, locale %s, distance %d\n", h.db.Locale().Name(), h.distance)
	fmt.Fprintln(h.out, "type a street name and press Enter (?prefix completes, :d N sets distance, Ctrl+D exits):")

	scanner := bufio.NewScanner(h.in)
	for {
		fmt.Fprint(h.out, h.prompt)
		if !scanner.Scan() {
			fmt.Fprintln(h.out)
			return scanner.Err()
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		h.handleInput(line)
	}
}

func (h *InputHandler) handleInput(line string) {
	h.requestCount++

	switch {
	case strings.HasPrefix(line, ":d"):
		h.setDistance(strings.TrimSpace(strings.TrimPrefix(line, ":d")))
		return
	case strings.HasPrefix(line, "?"):
		h.complete(strings.TrimSpace(line[1:]))
		return
	}

	if !utils.IsValidName(line, h.maxLength) {
		log.Errorf("Invalid or too long name: %q", line)
		return
	}

	start := time.Now()
	res := aggregator.Classify(h.db, line, h.distance)
	elapsed := time.Since(start)
	log.Debugf("Took [ %v ] for %q", elapsed, line)

	fmt.Fprint(h.out, h.classStyle.Render(res.Class.String()))
	for i, s := range res.Suggestions {
		sep := ", "
		if i == 0 {
			sep = ": "
		}
		fmt.Fprint(h.out, sep, h.nameStyle.Render(s))
	}
	if h.showTiming {
		fmt.Fprint(h.out, " ", h.dimStyle.Render(fmt.Sprintf("(%v)", elapsed)))
	}
	fmt.Fprintln(h.out)

	n := name.New(line, h.db.Locale())
	if n.HasStatusPart() {
		fmt.Fprintf(h.out, "  status %q, full form %q\n",
			n.StatusPart().Full(), n.Join(name.ExpandStatus|name.NormalizeWhitespace))
	}
}

func (h *InputHandler) setDistance(arg string) {
	d, err := strconv.Atoi(arg)
	if err != nil || d < 0 {
		log.Errorf("Bad distance: %q", arg)
		return
	}
	h.distance = d
	fmt.Fprintf(h.out, "distance set to %d\n", d)
}

func (h *InputHandler) complete(prefix string) {
	names := h.db.Complete(prefix, h.completeLimit)
	if len(names) == 0 {
		log.Warnf("No completions for %q", prefix)
		return
	}
	for i, s := range names {
		fmt.Fprintf(h.out, "%2d. %s\n", i+1, h.nameStyle.Render(s))
	}
}
