package boltdb

import (
	"encoding/json"
	"fmt"
	"log/slog"

	bolt "go.etcd.io/bbolt"

	"github.com/wcraigtrader/wbc/calendar"
)

const rootBucket = "wbc"

// Config
type Config struct {
	Path   string
	Logger *slog.Logger
}

type Repo struct {
	d    *bolt.DB
	root []byte
	path string
	log  *slog.Logger
}

// New returns a new snapshot repository backed by a bolt file. The database
// is opened lazily per operation and closed again, so multiple commands can
// share one file.
func New(c Config) *Repo {
	log := c.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Repo{
		root: []byte(rootBucket),
		path: c.Path,
		log:  log,
	}
}

func (r *Repo) open() error {
	var err error
	r.d, err = bolt.Open(r.path, 0600, nil)
	if err != nil {
		return fmt.Errorf("could not open db %s: %w", r.path, err)
	}
	err = r.d.Update(func(tx *bolt.Tx) error {
		root, err := tx.CreateBucketIfNotExists(r.root)
		if err != nil {
			return fmt.Errorf("unable to create root bucket %s: %w", r.root, err)
		}
		if !root.Writable() {
			return fmt.Errorf("non writeable root bucket %s", r.root)
		}
		return nil
	})
	return err
}

func (r *Repo) close() error {
	if r.d == nil {
		return nil
	}
	return r.d.Close()
}

// SaveSnapshot stores every entry of one published calendar set under its
// snapshot tag, bucketed tag/code/uid. Re-publishing a tag replaces it.
func (r *Repo) SaveSnapshot(tag string, entries []calendar.Entry) error {
	if err := r.open(); err != nil {
		return err
	}
	defer r.close()

	return r.d.Update(func(tx *bolt.Tx) error {
		root := tx.Bucket(r.root)
		if root == nil {
			return fmt.Errorf("invalid bucket %s", r.root)
		}
		if root.Bucket([]byte(tag)) != nil {
			if err := root.DeleteBucket([]byte(tag)); err != nil {
				return fmt.Errorf("unable to replace snapshot %s: %w", tag, err)
			}
		}
		tb, err := root.CreateBucket([]byte(tag))
		if err != nil {
			return fmt.Errorf("unable to create snapshot bucket %s: %w", tag, err)
		}
		for _, e := range entries {
			code := e.Code
			if code == "" {
				code = "-"
			}
			cb, err := tb.CreateBucketIfNotExists([]byte(code))
			if err != nil {
				return fmt.Errorf("unable to create code bucket %s/%s: %w", tag, code, err)
			}
			raw, err := json.Marshal(e)
			if err != nil {
				return fmt.Errorf("could not marshal entry %s: %w", e.UID, err)
			}
			if err := cb.Put([]byte(e.UID), raw); err != nil {
				return fmt.Errorf("could not store entry %s: %w", e.UID, err)
			}
		}
		r.log.Debug("snapshot saved", "tag", tag, "entries", len(entries))
		return nil
	})
}

// LoadSnapshot returns every entry stored under a tag.
func (r *Repo) LoadSnapshot(tag string) ([]calendar.Entry, error) {
	return r.load(tag, "")
}

// LoadCode returns the entries of one tournament within a tag.
func (r *Repo) LoadCode(tag, code string) ([]calendar.Entry, error) {
	return r.load(tag, code)
}

func (r *Repo) load(tag, code string) ([]calendar.Entry, error) {
	if err := r.open(); err != nil {
		return nil, err
	}
	defer r.close()

	entries := make([]calendar.Entry, 0)
	err := r.d.View(func(tx *bolt.Tx) error {
		root := tx.Bucket(r.root)
		if root == nil {
			return fmt.Errorf("invalid bucket %s", r.root)
		}
		tb := root.Bucket([]byte(tag))
		if tb == nil {
			return fmt.Errorf("no snapshot stored for tag %s", tag)
		}
		if code != "" {
			cb := tb.Bucket([]byte(code))
			if cb == nil {
				return nil
			}
			entries = append(entries, loadFromBucket(cb, r.log)...)
			return nil
		}
		return tb.ForEachBucket(func(k []byte) error {
			entries = append(entries, loadFromBucket(tb.Bucket(k), r.log)...)
			return nil
		})
	})
	return entries, err
}

func loadFromBucket(b *bolt.Bucket, log *slog.Logger) []calendar.Entry {
	entries := make([]calendar.Entry, 0)
	c := b.Cursor()
	for key, raw := c.First(); key != nil; key, raw = c.Next() {
		if raw == nil {
			continue
		}
		e := calendar.Entry{}
		if err := json.Unmarshal(raw, &e); err != nil {
			log.Warn("skipping undecodable entry", "uid", string(key), "err", err)
			continue
		}
		entries = append(entries, e)
	}
	return entries
}

// Tags lists the stored snapshot tags.
func (r *Repo) Tags() ([]string, error) {
	if err := r.open(); err != nil {
		return nil, err
	}
	defer r.close()

	tags := make([]string, 0)
	err := r.d.View(func(tx *bolt.Tx) error {
		root := tx.Bucket(r.root)
		if root == nil {
			return fmt.Errorf("invalid bucket %s", r.root)
		}
		return root.ForEachBucket(func(k []byte) error {
			tags = append(tags, string(k))
			return nil
		})
	})
	return tags, err
}
