package fixture

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"edbench/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSet(t *testing.T) []Fixture {
	t.Helper()
	s := config.Defaults()
	// Small targets keep the tests fast; the loop logic is size-independent.
	s.TabularTargetBytes = 16 * 1024
	s.LogTargetBytes = 16 * 1024
	s.NearCodeTargetLines = 500
	return DefaultSet(s)
}

func TestEnsureGeneratesAllFixtures(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "fixtures")
	set := testSet(t)

	generated, err := Ensure(dir, set)
	require.NoError(t, err)
	assert.True(t, generated)

	for _, fx := range set {
		info, err := os.Stat(fx.Path(dir))
		require.NoError(t, err, "fixture %s missing", fx.Name)
		assert.Greater(t, info.Size(), int64(0))
	}

	// No staging leftovers next to the fixture directory.
	entries, err := os.ReadDir(filepath.Dir(dir))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestEnsureIsIdempotent(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "fixtures")
	set := testSet(t)

	_, err := Ensure(dir, set)
	require.NoError(t, err)

	before := map[string][]byte{}
	for _, fx := range set {
		data, err := os.ReadFile(fx.Path(dir))
		require.NoError(t, err)
		before[fx.Name] = data
	}

	generated, err := Ensure(dir, set)
	require.NoError(t, err)
	assert.False(t, generated)

	for _, fx := range set {
		data, err := os.ReadFile(fx.Path(dir))
		require.NoError(t, err)
		assert.True(t, bytes.Equal(before[fx.Name], data), "fixture %s changed on second Ensure", fx.Name)
	}
}

func TestEnsureRegeneratesWholesale(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "fixtures")
	set := testSet(t)

	_, err := Ensure(dir, set)
	require.NoError(t, err)

	// A partially-present directory must be rebuilt in full.
	require.NoError(t, os.Remove(set[2].Path(dir)))
	require.NoError(t, os.WriteFile(set[0].Path(dir), []byte("tampered"), 0644))

	generated, err := Ensure(dir, set)
	require.NoError(t, err)
	assert.True(t, generated)

	data, err := os.ReadFile(set[0].Path(dir))
	require.NoError(t, err)
	assert.NotEqual(t, "tampered", string(data))
	_, err = os.Stat(set[2].Path(dir))
	assert.NoError(t, err)
}

func TestSizeTargetedProfilesApproximateTarget(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "fixtures")
	set := testSet(t)

	_, err := Ensure(dir, set)
	require.NoError(t, err)

	for _, fx := range set {
		if fx.TargetBytes == 0 {
			continue
		}
		info, err := os.Stat(fx.Path(dir))
		require.NoError(t, err)
		assert.GreaterOrEqual(t, info.Size(), int64(fx.TargetBytes),
			"%s must meet its byte target", fx.Name)
		// Overshoot is bounded by one iteration's emission (plus the
		// tabular closing token); one record never exceeds 512 bytes.
		assert.Less(t, info.Size(), int64(fx.TargetBytes+512),
			"%s overshot by more than one iteration", fx.Name)
	}
}

func TestNearCodeLineTarget(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "fixtures")
	set := testSet(t)

	_, err := Ensure(dir, set)
	require.NoError(t, err)

	var nearCode Fixture
	for _, fx := range set {
		if fx.Profile == ProfileNearCode {
			nearCode = fx
		}
	}
	require.NotEmpty(t, nearCode.Name)

	data, err := os.ReadFile(nearCode.Path(dir))
	require.NoError(t, err)
	lines := bytes.Count(data, []byte("\n"))

	assert.GreaterOrEqual(t, lines, nearCode.TargetLines)
	assert.Less(t, lines, nearCode.TargetLines+8, "overshoot bounded by one block")
}

func TestSmallStructuredIgnoresSizeTargets(t *testing.T) {
	dirA := filepath.Join(t.TempDir(), "fixtures")
	dirB := filepath.Join(t.TempDir(), "fixtures")

	small := config.Defaults()
	small.TabularTargetBytes = 4 * 1024
	small.LogTargetBytes = 4 * 1024
	small.NearCodeTargetLines = 100

	big := config.Defaults()

	_, err := Ensure(dirA, DefaultSet(small))
	require.NoError(t, err)
	_, err = Ensure(dirB, []Fixture{DefaultSet(big)[0]})
	require.NoError(t, err)

	a, err := os.ReadFile(filepath.Join(dirA, "small-structured.conf"))
	require.NoError(t, err)
	b, err := os.ReadFile(filepath.Join(dirB, "small-structured.conf"))
	require.NoError(t, err)
	assert.True(t, bytes.Equal(a, b), "small-structured content must not depend on size settings")
}

func TestDefaultSetOrder(t *testing.T) {
	set := DefaultSet(config.Defaults())
	require.Len(t, set, 4)
	assert.Equal(t, "small-structured", set[0].Name)
	assert.Equal(t, "near-code", set[1].Name)
	assert.Equal(t, "large-tabular", set[2].Name)
	assert.Equal(t, "large-log-like", set[3].Name)
}
