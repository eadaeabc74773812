package fixture

import (
	"context"
	"sync"

	"github.com/bluele/gcache"
	"github.com/pkg/errors"

	"github.com/meverselabs/kekfork/common/rlog"
)

// errors
var (
	ErrEmptyFixtureName = errors.New("fixture name is empty")
	ErrSnapshotReverted = errors.New("node refused to revert the fixture snapshot")
)

// Snapshotter saves and restores the chain state
type Snapshotter interface {
	Snapshot(ctx context.Context) (string, error)
	Revert(ctx context.Context, id string) (bool, error)
}

// Func builds a fixture on the chain
type Func func(ctx context.Context) (*Fixture, error)

type entry struct {
	snapshotID string
	fx         *Fixture
}

// Loader runs each named fixture once and afterwards restores its snapshot instead of
// running it again. A revert consumes the snapshot so a fresh one is taken each time.
type Loader struct {
	sync.Mutex
	sn    Snapshotter
	cache gcache.Cache
}

// NewLoader makes a Loader over sn
func NewLoader(sn Snapshotter) *Loader {
	return &Loader{
		sn:    sn,
		cache: gcache.New(32).LRU().Build(),
	}
}

// Load returns the fixture named name with the chain in the state right after fn ran
func (l *Loader) Load(ctx context.Context, name string, fn Func) (*Fixture, error) {
	if name == "" {
		return nil, errors.WithStack(ErrEmptyFixtureName)
	}
	l.Lock()
	defer l.Unlock()

	if v, err := l.cache.Get(name); err == nil {
		e := v.(*entry)
		ok, err := l.sn.Revert(ctx, e.snapshotID)
		if err != nil {
			l.cache.Remove(name)
			return nil, errors.Wrapf(err, "revert %s (snapshot %s)", name, e.snapshotID)
		}
		if !ok {
			l.cache.Remove(name)
			return nil, errors.Wrapf(ErrSnapshotReverted, "%s (snapshot %s)", name, e.snapshotID)
		}
		id, err := l.sn.Snapshot(ctx)
		if err != nil {
			l.cache.Remove(name)
			return nil, err
		}
		e.snapshotID = id
		rlog.Debugw("fixture restored", "name", name, "snapshot", id)
		return e.fx, nil
	}

	fx, err := fn(ctx)
	if err != nil {
		return nil, errors.Wrapf(err, "fixture %s", name)
	}
	id, err := l.sn.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	if err := l.cache.Set(name, &entry{snapshotID: id, fx: fx}); err != nil {
		return nil, errors.WithStack(err)
	}
	rlog.Infow("fixture loaded", "name", name, "snapshot", id)
	return fx, nil
}

// Reset forgets every cached fixture
func (l *Loader) Reset() {
	l.Lock()
	defer l.Unlock()
	l.cache.Purge()
}
