/*
Package drive is the driver side of the transducer kernel: the machinery
that owns a process's step loop and persists checkpoints across process
lifetimes. The kernel itself performs no I/O; everything here sits strictly
outside the step contract.

A Store keeps one checkpoint per named lineage in a pebble database. Each
stored value opens with a header record carrying an xxhash fingerprint of
the transducer's shape descriptor and the lineage's uuid, so a checkpoint
saved by a differently-shaped pipeline is rejected up front instead of
being misread.
*/
package drive

import (
	"encoding/binary"

	"github.com/cespare/xxhash"
	"github.com/cockroachdb/pebble"
	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/pkg/errors"
	"github.com/puzpuzpuz/xsync/v3"

	"github.com/drpcorg/mealy"
	"github.com/drpcorg/mealy/utils"
	"github.com/drpcorg/mealy/wire"
)

var (
	ErrNotFound      = errors.New("drive: no checkpoint under that name")
	ErrShapeMismatch = errors.New("drive: checkpoint was saved by a differently-shaped transducer")
	ErrBadHeader     = errors.New("drive: bad checkpoint header")
)

// Checkpointable is the non-generic face every mealy.Transducer exposes.
type Checkpointable interface {
	Encode() []byte
	Shape() string
}

type Options struct {
	Path      string
	CacheSize int // checkpoints kept in memory, default 128
	Logger    utils.Logger
	Metrics   *Metrics // optional, unregistered metrics when nil
}

type Store struct {
	db    *pebble.DB
	cache *lru.Cache[string, []byte]
	ids   *xsync.MapOf[string, uuid.UUID]
	log   utils.Logger
	met   *Metrics
}

func Open(opts Options) (*Store, error) {
	if opts.CacheSize <= 0 {
		opts.CacheSize = 128
	}
	if opts.Logger == nil {
		opts.Logger = utils.NopLogger{}
	}
	if opts.Metrics == nil {
		opts.Metrics = NewMetrics(nil)
	}
	cache, err := lru.New[string, []byte](opts.CacheSize)
	if err != nil {
		return nil, err
	}
	db, err := pebble.Open(opts.Path, &pebble.Options{})
	if err != nil {
		return nil, errors.Wrap(err, "open store")
	}
	return &Store{
		db:    db,
		cache: cache,
		ids:   xsync.NewMapOf[string, uuid.UUID](),
		log:   opts.Logger,
		met:   opts.Metrics,
	}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// ID returns the lineage id saved under the name, allocating one for a
// name never seen before.
func (s *Store) ID(name string) uuid.UUID {
	id, _ := s.ids.LoadOrCompute(name, uuid.New)
	return id
}

// Save persists the transducer's current checkpoint under the name,
// overwriting the previous one.
func (s *Store) Save(name string, t Checkpointable) error {
	var hash [8]byte
	binary.LittleEndian.PutUint64(hash[:], xxhash.Sum64String(t.Shape()))
	id := s.ID(name)
	val := wire.Record('H', hash[:], id[:])
	val = append(val, t.Encode()...)
	if err := s.db.Set([]byte(name), val, pebble.Sync); err != nil {
		return errors.Wrap(err, "save "+name)
	}
	s.cache.Add(name, val)
	s.met.Saves.Inc()
	s.log.Debug("checkpoint saved", "name", name, "bytes", len(val))
	return nil
}

// Drop removes the named checkpoint.
func (s *Store) Drop(name string) error {
	s.cache.Remove(name)
	s.ids.Delete(name)
	return s.db.Delete([]byte(name), pebble.Sync)
}

// Load rebuilds the named lineage's transducer against the template: the
// shape fingerprint is checked before any state bytes are touched. On
// ErrNotFound the template itself is the right thing to run.
func Load[A, B any](s *Store, name string, tmpl mealy.Transducer[A, B]) (mealy.Transducer[A, B], error) {
	val, ok := s.cache.Get(name)
	if !ok {
		v, closer, err := s.db.Get([]byte(name))
		if err == pebble.ErrNotFound {
			return tmpl, ErrNotFound
		}
		if err != nil {
			return tmpl, errors.Wrap(err, "load "+name)
		}
		val = append([]byte(nil), v...)
		_ = closer.Close()
		s.cache.Add(name, val)
	}
	body, err := s.openHeader(name, val, tmpl.Shape())
	if err != nil {
		s.met.DecodeFails.Inc()
		return tmpl, err
	}
	t, err := mealy.Decode(tmpl, body)
	if err != nil {
		s.met.DecodeFails.Inc()
		return tmpl, errors.Wrap(err, "load "+name)
	}
	s.met.Loads.Inc()
	return t, nil
}

// openHeader validates the 'H' record and adopts the stored lineage id.
func (s *Store) openHeader(name string, val []byte, shape string) ([]byte, error) {
	head, rest, err := wire.TakeWary('H', val)
	if err != nil {
		return nil, ErrBadHeader
	}
	if len(head) != 8+16 {
		return nil, ErrBadHeader
	}
	if binary.LittleEndian.Uint64(head[:8]) != xxhash.Sum64String(shape) {
		s.log.Warn("checkpoint shape mismatch", "name", name, "shape", shape)
		return nil, ErrShapeMismatch
	}
	id, err := uuid.FromBytes(head[8:])
	if err != nil {
		return nil, ErrBadHeader
	}
	s.ids.Store(name, id)
	return rest, nil
}
