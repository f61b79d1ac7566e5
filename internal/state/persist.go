package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/five82/wallfeed/internal/feed"
	"github.com/five82/wallfeed/internal/kv"
)

// Storage keys. Each holds a JSON array.
const (
	KeyFavorites  = "favorites"
	KeyDownloaded = "downloaded"
)

const writeTimeout = 5 * time.Second

// persister writes values in detached goroutines. Each save gets a sequence
// number per key; a goroutine whose value is older than one already written
// skips its write, so storage always ends with the latest mutation.
type persister struct {
	kv  kv.Store
	log *logrus.Entry
	wg  sync.WaitGroup

	issueMu sync.Mutex
	issued  map[string]uint64

	writeMu sync.Mutex
	written map[string]uint64
}

func newPersister(store kv.Store, log *logrus.Entry) *persister {
	return &persister{
		kv:      store,
		log:     log,
		issued:  make(map[string]uint64),
		written: make(map[string]uint64),
	}
}

func (p *persister) loadFavorites(ctx context.Context) ([]feed.Record, error) {
	var out []feed.Record
	if err := p.load(ctx, KeyFavorites, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (p *persister) loadDownloaded(ctx context.Context) ([]string, error) {
	var out []string
	if err := p.load(ctx, KeyDownloaded, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (p *persister) load(ctx context.Context, key string, dest any) error {
	if p.kv == nil {
		return nil
	}
	data, err := p.kv.Get(ctx, key)
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return nil
		}
		return err
	}
	if err := json.Unmarshal(data, dest); err != nil {
		p.log.WithError(err).WithField("key", key).Warn("ignoring corrupt stored value")
		return nil
	}
	return nil
}

func (p *persister) saveFavorites(favorites []feed.Record) {
	if favorites == nil {
		favorites = []feed.Record{}
	}
	p.save(KeyFavorites, favorites)
}

func (p *persister) saveDownloaded(ids []string) {
	if ids == nil {
		ids = []string{}
	}
	p.save(KeyDownloaded, ids)
}

func (p *persister) save(key string, value any) {
	if p.kv == nil {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		p.log.WithError(err).WithField("key", key).Error("encode value")
		return
	}

	p.issueMu.Lock()
	p.issued[key]++
	seq := p.issued[key]
	p.issueMu.Unlock()

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		p.write(key, seq, data)
	}()
}

func (p *persister) write(key string, seq uint64, data []byte) {
	p.writeMu.Lock()
	defer p.writeMu.Unlock()

	if seq <= p.written[key] {
		return
	}
	p.written[key] = seq

	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()
	if err := p.kv.Put(ctx, key, data); err != nil {
		p.log.WithError(fmt.Errorf("persist %s: %w", key, err)).Warn("storage write failed; state kept in memory")
		return
	}
	p.log.WithFields(logrus.Fields{"key": key, "seq": seq}).Debug("persisted")
}

func (p *persister) wait() {
	p.wg.Wait()
}
