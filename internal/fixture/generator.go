package fixture

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"edbench/internal/config"
)

// Profile identifies the content shape of a generated fixture.
type Profile string

const (
	// ProfileSmallStructured is a short, fixed config-like file.
	ProfileSmallStructured Profile = "small-structured"
	// ProfileNearCode is a long file of near-identical code blocks,
	// targeted by line count.
	ProfileNearCode Profile = "near-code"
	// ProfileTabular is a large JSON array of records, targeted by bytes.
	ProfileTabular Profile = "tabular"
	// ProfileLogLike is a large line-oriented log, targeted by bytes.
	ProfileLogLike Profile = "log-like"
)

// Fixture describes one generated file.
type Fixture struct {
	Name        string
	FileName    string
	Profile     Profile
	TargetBytes int
	TargetLines int
}

// Path returns the fixture's location inside dir.
func (f Fixture) Path(dir string) string {
	return filepath.Join(dir, f.FileName)
}

// DefaultSet returns the four fixtures in their fixed, documented order.
// The order matters: benchmark runs enumerate scenarios in this order so
// that side-by-side runs stay scenario-aligned.
func DefaultSet(s config.Settings) []Fixture {
	return []Fixture{
		{Name: "small-structured", FileName: "small-structured.conf", Profile: ProfileSmallStructured},
		{Name: "near-code", FileName: "near-code.src", Profile: ProfileNearCode, TargetLines: s.NearCodeTargetLines},
		{Name: "large-tabular", FileName: "large-tabular.json", Profile: ProfileTabular, TargetBytes: s.TabularTargetBytes},
		{Name: "large-log-like", FileName: "large-log-like.log", Profile: ProfileLogLike, TargetBytes: s.LogTargetBytes},
	}
}

// Ensure makes sure dir contains every fixture in set. If the directory
// already holds all expected files it is a no-op, so repeated benchmark runs
// stay fast. Otherwise the whole set is regenerated into a temporary
// directory which is renamed into place, so an interrupted generation never
// leaves a half-populated directory behind. Returns whether generation
// happened.
func Ensure(dir string, set []Fixture) (bool, error) {
	if complete(dir, set) {
		slog.Debug("Fixtures already present", "dir", dir)
		return false, nil
	}

	parent := filepath.Dir(dir)
	if err := os.MkdirAll(parent, 0755); err != nil {
		return false, fmt.Errorf("failed to create fixture parent directory %s: %w", parent, err)
	}

	tmp, err := os.MkdirTemp(parent, ".fixtures-*")
	if err != nil {
		return false, fmt.Errorf("failed to create staging directory: %w", err)
	}
	defer os.RemoveAll(tmp)

	for _, fx := range set {
		if err := generate(tmp, fx); err != nil {
			return false, fmt.Errorf("failed to generate fixture %s: %w", fx.Name, err)
		}
		slog.Debug("Generated fixture", "name", fx.Name, "profile", string(fx.Profile))
	}

	// A partially-present directory is replaced wholesale.
	if err := os.RemoveAll(dir); err != nil {
		return false, fmt.Errorf("failed to clear fixture directory %s: %w", dir, err)
	}
	if err := os.Rename(tmp, dir); err != nil {
		return false, fmt.Errorf("failed to move fixtures into place: %w", err)
	}
	slog.Info("Generated fixtures", "dir", dir, "count", len(set))
	return true, nil
}

func complete(dir string, set []Fixture) bool {
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return false
	}
	for _, fx := range set {
		if _, err := os.Stat(fx.Path(dir)); err != nil {
			return false
		}
	}
	return true
}

func generate(dir string, fx Fixture) error {
	f, err := os.Create(fx.Path(dir))
	if err != nil {
		return err
	}
	w := bufio.NewWriter(f)

	switch fx.Profile {
	case ProfileSmallStructured:
		err = writeSmallStructured(w)
	case ProfileNearCode:
		err = writeNearCode(w, fx.TargetLines)
	case ProfileTabular:
		err = writeTabular(w, fx.TargetBytes)
	case ProfileLogLike:
		err = writeLogLike(w, fx.TargetBytes)
	default:
		err = fmt.Errorf("unknown profile %q", fx.Profile)
	}
	if err != nil {
		f.Close()
		return err
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// writeSmallStructured emits a fixed ~100-line editor-config template. It has
// no size loop: the content is identical on every generation.
func writeSmallStructured(w io.Writer) error {
	sections := []string{
		"editor", "display", "search", "indent", "completion",
		"statusline", "clipboard", "undo", "spell", "plugins",
	}
	for i, section := range sections {
		if _, err := fmt.Fprintf(w, "[%s]\n", section); err != nil {
			return err
		}
		for j := 0; j < 8; j++ {
			if _, err := fmt.Fprintf(w, "option_%d = value_%d\n", j, (i*8+j)%5); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}
	return nil
}

// writeNearCode emits one header, then near-identical function blocks with
// the block index interpolated, until the line target is reached. The target
// is a line count, not a byte count.
func writeNearCode(w io.Writer, targetLines int) error {
	header := "// generated source fixture\n" +
		"// every block below is structurally identical\n" +
		"\n"
	lines := 3
	if _, err := io.WriteString(w, header); err != nil {
		return err
	}

	const linesPerBlock = 8
	for i := 0; lines < targetLines; i++ {
		block := fmt.Sprintf(
			"fn process_%d(rows) {\n"+
				"    let total = 0\n"+
				"    for row in rows {\n"+
				"        total += row.weight * %d\n"+
				"    }\n"+
				"    emit(\"block-%d\", total)\n"+
				"}\n"+
				"\n", i, i, i)
		if _, err := io.WriteString(w, block); err != nil {
			return err
		}
		lines += linesPerBlock
	}
	return nil
}

// writeTabular emits a JSON array of records, one per iteration with an
// incrementing id in every field, tracking the running byte count of the
// actual emitted text. The final size overshoots the target by at most one
// record plus the closing token.
func writeTabular(w io.Writer, targetBytes int) error {
	total := 0
	n, err := io.WriteString(w, "[\n")
	if err != nil {
		return err
	}
	total += n

	for i := 0; total < targetBytes; i++ {
		sep := ",\n"
		if i == 0 {
			sep = ""
		}
		record := fmt.Sprintf(
			`%s  {"id": %d, "name": "record-%d", "bucket": "b-%d", "score": %d, "tags": ["t%d", "t%d"]}`,
			sep, i, i, i%16, i*7%1000, i%3, i%11)
		n, err := io.WriteString(w, record)
		if err != nil {
			return err
		}
		total += n
	}

	_, err = io.WriteString(w, "\n]\n")
	return err
}

var (
	logLevels   = []string{"DEBUG", "INFO", "WARN", "ERROR"}
	logServices = []string{"auth", "indexer", "render", "sync", "plugin-host"}
	logBase     = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
)

// writeLogLike emits one log line per iteration, cycling severity and service
// by iteration index and synthesizing a timestamp from a base epoch offset by
// the index, until the running byte count reaches the target.
func writeLogLike(w io.Writer, targetBytes int) error {
	total := 0
	for i := 0; total < targetBytes; i++ {
		line := fmt.Sprintf("%s %-5s %s: request %d handled in %dms\n",
			logBase.Add(time.Duration(i)*time.Second).Format(time.RFC3339),
			logLevels[i%len(logLevels)],
			logServices[i%len(logServices)],
			i, i%97)
		n, err := io.WriteString(w, line)
		if err != nil {
			return err
		}
		total += n
	}
	return nil
}
