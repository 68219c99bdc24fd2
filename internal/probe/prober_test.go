package probe

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func countingInspect(calls *int, result Result, err error) inspectFunc {
	return func(ctx context.Context, binary, path string) (Result, error) {
		*calls++
		return result, err
	}
}

func TestProber_Probe_UsesCache(t *testing.T) {
	db := setupTestDB(t)
	p := NewProber("ffprobe", NewCache(db), 0, nil)
	ctx := context.Background()

	result, err := parseResult([]byte(sampleOutput))
	require.NoError(t, err)
	calls := 0
	p.inspect = countingInspect(&calls, result, nil)

	first, err := p.Probe(ctx, "/tv/a.mkv", 100, 7, true)
	require.NoError(t, err)
	assert.Len(t, first, 5)
	assert.Equal(t, 1, calls)

	second, err := p.Probe(ctx, "/tv/a.mkv", 100, 7, true)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, calls, "second probe should be served from cache")

	// useCache=false always re-reads the container
	_, err = p.Probe(ctx, "/tv/a.mkv", 100, 7, false)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)

	// a different size misses
	_, err = p.Probe(ctx, "/tv/a.mkv", 101, 7, true)
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestProber_Probe_NoCache(t *testing.T) {
	p := NewProber("", nil, 0, nil)
	calls := 0
	p.inspect = countingInspect(&calls, Result{}, nil)

	tracks, err := p.Probe(context.Background(), "/tv/a.mkv", 100, 7, true)
	require.NoError(t, err)
	assert.Empty(t, tracks)
	assert.Equal(t, 1, calls)
}

func TestProber_Probe_Error(t *testing.T) {
	p := NewProber("", nil, 0, nil)
	boom := errors.New("boom")
	calls := 0
	p.inspect = countingInspect(&calls, Result{}, boom)

	_, err := p.Probe(context.Background(), "/tv/a.mkv", 100, 7, false)
	assert.ErrorIs(t, err, boom)
}

func TestInspect_EmptyPath(t *testing.T) {
	_, err := Inspect(context.Background(), "", " ")
	assert.Error(t, err)
}
