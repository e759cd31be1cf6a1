package drive

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drpcorg/mealy"
	"github.com/drpcorg/mealy/codec"
)

func summer() mealy.Transducer[int64, int64] {
	return mealy.Scan(func(a, s int64) (int64, int64) {
		return s + a, s + a
	}, 0, codec.Int64)
}

func feed[A, B any](t *testing.T, tr mealy.Transducer[A, B], inputs []A) ([]B, mealy.Transducer[A, B]) {
	var outs []B
	var err error
	var b B
	for _, a := range inputs {
		b, tr, err = tr.Step(context.Background(), a)
		assert.Nil(t, err)
		outs = append(outs, b)
	}
	return outs, tr
}

func openStore(t *testing.T) *Store {
	s, err := Open(Options{Path: t.TempDir()})
	require.Nil(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStoreSaveLoad(t *testing.T) {
	s := openStore(t)

	_, stepped := feed(t, summer(), []int64{10, 20})
	require.Nil(t, s.Save("acc", stepped))

	resumed, err := Load(s, "acc", summer())
	require.Nil(t, err)
	outs, _ := feed(t, resumed, []int64{5})
	assert.Equal(t, []int64{35}, outs)

	// the lineage id survives the round trip
	assert.Equal(t, s.ID("acc"), s.ID("acc"))
}

func TestStoreLoadMissing(t *testing.T) {
	s := openStore(t)
	got, err := Load(s, "nope", summer())
	assert.Equal(t, ErrNotFound, err)
	// the template comes back usable
	outs, _ := feed(t, got, []int64{3})
	assert.Equal(t, []int64{3}, outs)
}

func TestStoreShapeMismatch(t *testing.T) {
	s := openStore(t)
	_, stepped := feed(t, summer(), []int64{1})
	require.Nil(t, s.Save("acc", stepped))

	other := mealy.Scan(func(a int64, n uint64) (int64, uint64) {
		return int64(n), n + 1
	}, 0, codec.Uint64)
	_, err := Load(s, "acc", other)
	assert.Equal(t, ErrShapeMismatch, err)
}

func TestStoreDrop(t *testing.T) {
	s := openStore(t)
	require.Nil(t, s.Save("acc", summer()))
	require.Nil(t, s.Drop("acc"))
	_, err := Load(s, "acc", summer())
	assert.Equal(t, ErrNotFound, err)
}

func TestStoreCacheBypass(t *testing.T) {
	s := openStore(t)
	_, stepped := feed(t, summer(), []int64{7})
	require.Nil(t, s.Save("acc", stepped))

	// loads must also work straight off disk, not just from the cache
	s.cache.Purge()
	resumed, err := Load(s, "acc", summer())
	require.Nil(t, err)
	outs, _ := feed(t, resumed, []int64{1})
	assert.Equal(t, []int64{8}, outs)
}
