package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/muesli/termenv"

	"github.com/runger/quickopen/internal/cmdutil"
	"github.com/runger/quickopen/internal/config"
	qlog "github.com/runger/quickopen/internal/log"
	"github.com/runger/quickopen/internal/picker"
	"github.com/runger/quickopen/internal/quickopen"
	"github.com/runger/quickopen/internal/source"
	"github.com/runger/quickopen/internal/storage"
)

// Version information (set via ldflags during build).
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Exit codes.
// These match the expectations of editor and shell integrations:
//
//	0 = a file was activated (its path is on stdout)
//	1 = cancelled by user
//	2 = picker unusable (no TTY, bad flags, error)
const (
	exitSuccess   = 0
	exitCancelled = 1
	exitFallback  = 2
)

// maxQueryLen is the maximum length of a query string in bytes.
const maxQueryLen = 4096

// docList collects repeated --doc flags.
type docList []string

func (d *docList) String() string { return strings.Join(*d, ",") }

func (d *docList) Set(v string) error {
	*d = append(*d, v)
	return nil
}

// pickerOpts holds the parsed command-line options.
type pickerOpts struct {
	query    string
	docs     docList
	docsFrom string
	match    string
	backend  string
	output   string
}

func main() {
	os.Exit(run(os.Args[1:]))
}

// run is the main entry point, returning an exit code.
// It is separated from main() to enable testing.
func run(args []string) int {
	// Step 1: Check /dev/tty is openable.
	if err := checkTTY(); err != nil {
		fmt.Fprintf(os.Stderr, "quickopen-picker: %v\n", err)
		return exitFallback
	}

	// Step 2: Check TERM != "dumb".
	if err := checkTERM(); err != nil {
		fmt.Fprintf(os.Stderr, "quickopen-picker: %v\n", err)
		return exitFallback
	}

	// Step 3: Check terminal width >= 20 columns.
	if err := checkTermWidth(); err != nil {
		fmt.Fprintf(os.Stderr, "quickopen-picker: %v\n", err)
		return exitFallback
	}

	// Step 4: Handle informational flags.
	if len(args) > 0 {
		switch args[0] {
		case "--help", "-h":
			printUsage()
			return exitSuccess
		case "--version", "-v":
			printVersion()
			return exitSuccess
		}
	}

	opts, err := parseFlags(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "quickopen-picker: %v\n", err)
		return exitFallback
	}

	// Step 5: Ensure directories exist and acquire the advisory lock.
	paths := config.DefaultPaths()
	if err := paths.EnsureDirectories(); err != nil {
		fmt.Fprintf(os.Stderr, "quickopen-picker: failed to create directories: %v\n", err)
		return exitFallback
	}
	lockFd, err := acquireLock(paths.LockFile())
	if err != nil {
		fmt.Fprintf(os.Stderr, "quickopen-picker: %v\n", err)
		return exitFallback
	}
	defer releaseLock(lockFd)

	// Step 6: Load config, logger and registries.
	env, err := cmdutil.Open(paths, cmdutil.Options{LogToFile: true})
	if err != nil {
		fmt.Fprintf(os.Stderr, "quickopen-picker: %v\n", err)
		return exitFallback
	}
	defer env.Close()

	if opts.match != "" {
		if err := env.Config.Set("picker.match_mode", opts.match); err != nil {
			fmt.Fprintf(os.Stderr, "quickopen-picker: --match: %v\n", err)
			return exitFallback
		}
	}
	if opts.backend != "" {
		env.Config.Picker.Backend = opts.backend
	}

	docs, err := cmdutil.LoadDocuments(opts.docs, opts.docsFrom, os.Stdin)
	if err != nil {
		fmt.Fprintf(os.Stderr, "quickopen-picker: %v\n", err)
		return exitFallback
	}

	// Step 7: Dispatch to backend.
	s := &pickerSession{
		id:      uuid.NewString(),
		started: time.Now(),
		env:     env,
		opts:    opts,
		docs:    docs,
	}
	qlog.LogSessionStart(env.Logger, qlog.SessionInfo{
		SessionID:  s.id,
		Version:    Version,
		ConfigPath: paths.ConfigFile(),
		Sources:    sourceNames(env.Config),
		MatchMode:  env.Config.Picker.MatchMode,
		Documents:  len(docs),
		PID:        os.Getpid(),
	})
	return dispatchBackend(env.Config.Picker.Backend, s)
}

// parseFlags parses the picker flags.
func parseFlags(args []string) (*pickerOpts, error) {
	fs := flag.NewFlagSet("quickopen-picker", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	opts := &pickerOpts{}
	fs.StringVar(&opts.query, "query", "", "initial search query (max 4096 bytes)")
	fs.Var(&opts.docs, "doc", "path of an open document (repeatable)")
	fs.StringVar(&opts.docsFrom, "docs-from", "", "file listing open documents, one per line (- for stdin)")
	fs.StringVar(&opts.match, "match", "", "match mode: substring or fuzzy (default from config)")
	fs.StringVar(&opts.backend, "backend", "", "picker backend: builtin or fzf (default from config)")
	fs.StringVar(&opts.output, "output", "", "output format (only \"plain\" accepted)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: quickopen-picker [flags]\n\nFlags:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	// Reject unknown positional arguments.
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected argument: %s", fs.Arg(0))
	}

	// Validate output.
	if opts.output != "" && opts.output != "plain" {
		return nil, fmt.Errorf("--output must be \"plain\" (got %q)", opts.output)
	}

	// Validate backend.
	switch opts.backend {
	case "", "builtin", "fzf":
	default:
		return nil, fmt.Errorf("--backend must be \"builtin\" or \"fzf\" (got %q)", opts.backend)
	}

	// Sanitize query.
	sanitized, err := sanitizeQuery(opts.query)
	if err != nil {
		return nil, fmt.Errorf("--query: %w", err)
	}
	opts.query = sanitized

	return opts, nil
}

// sanitizeQuery strips control characters and validates the query string.
func sanitizeQuery(q string) (string, error) {
	if q == "" {
		return "", nil
	}

	// Reject newlines before stripping.
	if strings.ContainsAny(q, "\n\r") {
		return "", fmt.Errorf("query must not contain newlines")
	}

	// Strip control characters (0x00-0x1F) except tab (0x09).
	var b strings.Builder
	b.Grow(len(q))
	for _, r := range q {
		if r >= 0x00 && r <= 0x1F && r != 0x09 {
			continue // strip control char
		}
		b.WriteRune(r)
	}
	result := b.String()

	// Truncate to maxQueryLen bytes without splitting a rune.
	if len(result) > maxQueryLen {
		cut := maxQueryLen
		for cut > 0 && !utf8.RuneStart(result[cut]) {
			cut--
		}
		result = result[:cut]
	}

	return result, nil
}

// sourceNames lists the enabled sources for the session log.
func sourceNames(cfg *config.Config) []string {
	kinds := quickopen.EnabledSources(cfg)
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = string(k)
	}
	return names
}

// pickerSession carries one invocation through a backend.
type pickerSession struct {
	id      string
	started time.Time
	env     *cmdutil.Env
	opts    *pickerOpts
	docs    source.StaticDocuments
}

// deps returns the aggregation inputs tagged with the session ID.
func (s *pickerSession) deps() quickopen.Deps {
	deps := s.env.Deps(s.docs)
	deps.SessionID = s.id
	return deps
}

// finish journals the session, records an activated path and maps the
// outcome onto an exit code.
func (s *pickerSession) finish(out io.Writer, outcome storage.Outcome, candidates int, path string) int {
	ctx := context.Background()
	logger := s.env.Logger

	switch outcome {
	case storage.OutcomeActivated:
		qlog.LogActivated(logger, s.id, path, s.opts.query)
		if s.env.Store != nil {
			_ = s.env.Record(ctx, path, "")
		}
	case storage.OutcomeCancelled:
		qlog.LogCancelled(logger, s.id, "user")
	}

	if err := s.env.Journal(ctx, cmdutil.JournalEntry{
		SessionID:  s.id,
		Started:    s.started,
		Candidates: candidates,
		MatchMode:  s.env.Config.Picker.MatchMode,
		Outcome:    outcome,
		Path:       path,
	}); err != nil {
		logger.Warn("session journal write failed", "session_id", s.id, "error", err)
	}

	switch outcome {
	case storage.OutcomeActivated:
		fmt.Fprintln(out, path)
		return exitSuccess
	case storage.OutcomeCancelled:
		return exitCancelled
	default:
		return exitFallback
	}
}

// dispatchBackend executes the selected backend or falls back.
func dispatchBackend(backend string, s *pickerSession) int {
	switch backend {
	case "fzf":
		return dispatchFzf(s)
	case "builtin", "":
		return dispatchBuiltin(s)
	default:
		// Unknown backend, fall back to builtin.
		s.env.Logger.Debug("unknown backend, falling back to builtin", "backend", backend)
		return dispatchBuiltin(s)
	}
}

// dispatchBuiltin runs the built-in Bubble Tea TUI.
func dispatchBuiltin(s *pickerSession) int {
	provider := picker.NewAggregateProvider(s.env.Config, s.deps())
	matcher := quickopen.MatcherFor(s.env.Config.Picker.MatchMode)

	model := picker.NewModel(provider, matcher,
		picker.WithQuery(s.opts.query),
		picker.WithSessionID(s.id),
	)

	// Open /dev/tty for TUI input/output since stdin/stdout are used for data.
	tty, err := os.OpenFile("/dev/tty", os.O_RDWR, 0)
	if err != nil {
		fmt.Fprintf(os.Stderr, "quickopen-picker: cannot open /dev/tty: %v\n", err)
		return exitFallback
	}
	defer tty.Close()

	// Detect color profile from the tty and apply it to the default renderer.
	// When invoked via $(quickopen-picker ...), stdout is a pipe so lipgloss
	// defaults to Ascii (no color). We detect from the real tty instead.
	lipgloss.SetColorProfile(termenv.NewOutput(tty).ColorProfile())

	p := tea.NewProgram(model,
		tea.WithAltScreen(),
		tea.WithInput(tty),
		tea.WithOutput(tty),
	)

	finalModel, err := p.Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "quickopen-picker: TUI error: %v\n", err)
		return s.finish(os.Stdout, storage.OutcomeFailed, 0, "")
	}

	m, ok := finalModel.(picker.Model)
	if !ok {
		fmt.Fprintln(os.Stderr, "quickopen-picker: unexpected model type")
		return exitFallback
	}
	return finishModel(s, m)
}

// finishModel maps the final picker state onto a session outcome.
func finishModel(s *pickerSession, m picker.Model) int {
	candidates := 0
	if sess := m.Session(); sess != nil {
		candidates = len(sess.Full())
	}

	switch {
	case m.Result() != "":
		return s.finish(os.Stdout, storage.OutcomeActivated, candidates, m.Result())
	case m.Err() != nil:
		fmt.Fprintf(os.Stderr, "quickopen-picker: %v\n", m.Err())
		return s.finish(os.Stdout, storage.OutcomeFailed, candidates, "")
	default:
		return s.finish(os.Stdout, storage.OutcomeCancelled, candidates, "")
	}
}

// dispatchFzf checks for fzf on PATH and falls back to builtin if missing.
func dispatchFzf(s *pickerSession) int {
	if _, err := exec.LookPath("fzf"); err != nil {
		s.env.Logger.Debug("fzf not found on PATH, falling back to builtin")
		return dispatchBuiltin(s)
	}

	res, err := quickopen.Aggregate(context.Background(), s.env.Config, s.deps())
	if err != nil {
		fmt.Fprintf(os.Stderr, "quickopen-picker: %v\n", err)
		return s.finish(os.Stdout, storage.OutcomeFailed, 0, "")
	}

	path, err := runFzf(res.Candidates, s.opts.query, s.env.Config.Picker.MatchMode)
	if err != nil {
		var exitErr *exec.ExitError
		// fzf exit code 130 = cancelled by user, exit code 1 = no match
		if errors.As(err, &exitErr) && (exitErr.ExitCode() == 130 || exitErr.ExitCode() == 1) {
			return s.finish(os.Stdout, storage.OutcomeCancelled, len(res.Candidates), "")
		}
		s.env.Logger.Warn("fzf backend error", "error", err)
		return s.finish(os.Stdout, storage.OutcomeFailed, len(res.Candidates), "")
	}
	if path == "" {
		return s.finish(os.Stdout, storage.OutcomeCancelled, len(res.Candidates), "")
	}
	return s.finish(os.Stdout, storage.OutcomeActivated, len(res.Candidates), path)
}

// fzfLines renders candidates as "display name<TAB>path" lines.
func fzfLines(cands []quickopen.Candidate) string {
	var b strings.Builder
	for _, c := range cands {
		name := strings.ReplaceAll(c.DisplayName, "\t", " ")
		b.WriteString(name)
		b.WriteByte('\t')
		b.WriteString(c.Path)
		b.WriteByte('\n')
	}
	return b.String()
}

// fzfArgs builds the fzf command line. Matching is on the display name only.
func fzfArgs(query, matchMode string) []string {
	args := []string{"--no-sort", "--delimiter", "\t", "--nth", "1", "--with-nth", "1,2", "-i"}
	if matchMode != quickopen.MatchFuzzy {
		args = append(args, "--exact")
	}
	if query != "" {
		args = append(args, "--query", query)
	}
	return args
}

// parseFzfSelection returns the path column of fzf's output.
func parseFzfSelection(output string) string {
	line := strings.TrimRight(output, "\n")
	if i := strings.LastIndexByte(line, '\t'); i >= 0 {
		return line[i+1:]
	}
	return line
}

// runFzf pipes the candidates through fzf and returns the chosen path.
func runFzf(cands []quickopen.Candidate, query, matchMode string) (string, error) {
	if len(cands) == 0 {
		return "", nil
	}

	cmd := exec.Command("fzf", fzfArgs(query, matchMode)...)
	cmd.Stdin = strings.NewReader(fzfLines(cands))
	cmd.Stderr = os.Stderr // Let fzf render its TUI on stderr/tty.

	output, err := cmd.Output()
	if err != nil {
		return "", err
	}
	return parseFzfSelection(string(output)), nil
}

// printUsage prints the top-level usage message.
func printUsage() {
	fmt.Fprintln(os.Stderr, `Usage: quickopen-picker [flags]

Pick a file to open. The chosen path is printed on stdout.

Flags:
  --query TEXT       initial search query
  --doc PATH         path of an open document (repeatable)
  --docs-from FILE   file listing open documents, one per line (- for stdin)
  --match MODE       substring or fuzzy
  --backend NAME     builtin or fzf
  --help             Show this help message
  --version          Print version information

Exit codes: 0 = file chosen, 1 = cancelled, 2 = picker unavailable`)
}

// printVersion prints version information.
func printVersion() {
	fmt.Printf("quickopen-picker %s\n", Version)
	fmt.Printf("  commit: %s\n", GitCommit)
	fmt.Printf("  built:  %s\n", BuildDate)
}
