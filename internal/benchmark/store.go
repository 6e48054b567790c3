package benchmark

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"
)

const (
	// ArtifactName is the primary results file inside every run directory.
	ArtifactName = "results.txt"
	// timestampLayout sorts lexicographically, so "latest run" reduces to
	// a reverse sort of directory names.
	timestampLayout = "20060102-150405"
	unavailableMean = "n/a"
)

// ErrNoRuns is returned when a label has no recorded runs.
var ErrNoRuns = errors.New("no runs recorded")

// Store manages the results root: one immutable subdirectory per run, named
// <label>_<timestamp>. Old runs are never deleted automatically.
type Store struct {
	Root string
}

func NewStore(root string) *Store {
	return &Store{Root: root}
}

// CreateRunDir makes the directory for a new run. Seconds-level timestamp
// precision is enough for the tool's interactive invocation cadence; a
// same-second collision surfaces as an error rather than mixing two runs.
func (s *Store) CreateRunDir(label string, ts time.Time) (string, error) {
	if err := os.MkdirAll(s.Root, 0755); err != nil {
		return "", fmt.Errorf("failed to create results root %s: %w", s.Root, err)
	}
	dir := filepath.Join(s.Root, fmt.Sprintf("%s_%s", label, ts.Format(timestampLayout)))
	if err := os.Mkdir(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create run directory %s: %w", dir, err)
	}
	return dir, nil
}

// LatestRunDir returns the most recent run directory for a label: the
// greatest directory name matching <label>_*, since names embed a sortable
// timestamp.
func (s *Store) LatestRunDir(label string) (string, error) {
	matches, err := filepath.Glob(filepath.Join(s.Root, label+"_*"))
	if err != nil {
		return "", fmt.Errorf("failed to list runs for label %q: %w", label, err)
	}

	var dirs []string
	for _, m := range matches {
		if info, err := os.Stat(m); err == nil && info.IsDir() {
			dirs = append(dirs, m)
		}
	}
	if len(dirs) == 0 {
		return "", fmt.Errorf("label %q: %w", label, ErrNoRuns)
	}

	sort.Sort(sort.Reverse(sort.StringSlice(dirs)))
	return dirs[0], nil
}

// LoadLatest loads the most recent run recorded under a label.
func (s *Store) LoadLatest(label string) (*Run, error) {
	dir, err := s.LatestRunDir(label)
	if err != nil {
		return nil, err
	}
	return LoadRun(dir)
}

// LoadRun re-reads a persisted run from its directory.
func LoadRun(dir string) (*Run, error) {
	base := filepath.Base(dir)
	idx := strings.LastIndex(base, "_")
	if idx <= 0 || idx == len(base)-1 {
		return nil, fmt.Errorf("run directory %q does not encode label_timestamp", base)
	}
	ts, err := time.Parse(timestampLayout, base[idx+1:])
	if err != nil {
		return nil, fmt.Errorf("run directory %q has an invalid timestamp: %w", base, err)
	}

	f, err := os.Open(filepath.Join(dir, ArtifactName))
	if err != nil {
		return nil, fmt.Errorf("failed to open run artifact: %w", err)
	}
	defer f.Close()

	results, err := ParseArtifact(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse run artifact in %s: %w", dir, err)
	}

	return &Run{
		Label:     base[:idx],
		Timestamp: ts,
		Dir:       dir,
		Results:   results,
	}, nil
}

// ArtifactHeader is the provenance block written at the top of the artifact.
type ArtifactHeader struct {
	Label   string
	Started time.Time
	Backend string
	Target  string
}

// ArtifactWriter appends one record per scenario as it completes, so a crash
// partway through a run still leaves the finished scenarios readable.
type ArtifactWriter struct {
	f *os.File
}

func NewArtifactWriter(dir string, hdr ArtifactHeader) (*ArtifactWriter, error) {
	f, err := os.OpenFile(filepath.Join(dir, ArtifactName),
		os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to create run artifact: %w", err)
	}

	header := fmt.Sprintf("# edbench run\n# label: %s\n# started: %s\n# backend: %s\n# target: %s\n",
		hdr.Label, hdr.Started.Format(time.RFC3339), hdr.Backend, hdr.Target)
	if _, err := f.WriteString(header); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to write artifact header: %w", err)
	}
	return &ArtifactWriter{f: f}, nil
}

// Append writes one scenario record and flushes it to disk immediately.
func (w *ArtifactWriter) Append(sum SampleSummary) error {
	mean := unavailableMean
	if sum.Available {
		mean = strconv.FormatFloat(sum.MeanMs, 'f', 3, 64)
	}
	line := fmt.Sprintf("%s\t%s\t%d/%d\t%s\n",
		sum.Scenario, mean, sum.ValidSamples, sum.TotalRuns, sum.Backend)
	if _, err := w.f.WriteString(line); err != nil {
		return fmt.Errorf("failed to append scenario record: %w", err)
	}
	return w.f.Sync()
}

func (w *ArtifactWriter) Close() error {
	return w.f.Close()
}

// ParseArtifact reads scenario records back out of a results artifact.
// Comment and blank lines are skipped; each record is
// name<TAB>mean_ms|n/a<TAB>valid/total<TAB>backend.
func ParseArtifact(r io.Reader) ([]SampleSummary, error) {
	var results []SampleSummary
	scanner := bufio.NewScanner(r)
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Split(line, "\t")
		if len(fields) != 4 {
			return nil, fmt.Errorf("line %d: expected 4 fields, got %d", lineNo, len(fields))
		}

		sum := SampleSummary{Scenario: fields[0], Backend: fields[3]}

		if fields[1] != unavailableMean {
			mean, err := strconv.ParseFloat(fields[1], 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: invalid mean %q: %w", lineNo, fields[1], err)
			}
			sum.MeanMs = mean
			sum.Available = true
		}

		valid, total, ok := strings.Cut(fields[2], "/")
		if !ok {
			return nil, fmt.Errorf("line %d: invalid sample count %q", lineNo, fields[2])
		}
		v, err := strconv.Atoi(valid)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid valid-sample count %q: %w", lineNo, valid, err)
		}
		tot, err := strconv.Atoi(total)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid total-run count %q: %w", lineNo, total, err)
		}
		sum.ValidSamples = v
		sum.TotalRuns = tot

		results = append(results, sum)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return results, nil
}
