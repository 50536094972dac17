// Package store saves analysis results into a bolt database.
package store

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/op/go-logging"
	bolt "go.etcd.io/bbolt"

	"bitbucket.org/Davydov/aatree/composition"
	"bitbucket.org/Davydov/aatree/tree"
)

// log is the global logging variable.
var log = logging.MustGetLogger("store")

var (
	// MAIN is the bucket for the run-wide values.
	MAIN = []byte("main")
	// TAXA is the bucket with one entry per taxon.
	TAXA = []byte("taxa")
)

// Keys in the MAIN bucket.
var (
	TreeKey    = []byte("tree")
	ReportKey  = []byte("report")
	SummaryKey = []byte("summary")
)

// Store writes results to the database. A nil *Store discards
// everything, so callers do not need to check if the database was
// requested.
type Store struct {
	db *bolt.DB
}

// Open opens or creates the database file.
func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("while opening database %q: %v", path, err)
	}
	log.Infof("Opened database %s", path)
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// SaveTree saves the tree in newick format.
func (s *Store) SaveTree(t *tree.Tree) error {
	if s == nil {
		return nil
	}
	return SaveData(s.db, MAIN, TreeKey, []byte(t.String()))
}

// SaveReport saves the alignment-wide part of the report and every
// taxon under its name.
func (s *Store) SaveReport(r *composition.Report) error {
	if s == nil {
		return nil
	}
	head := struct {
		Mode composition.Mode            `json:"mode"`
		Mean *composition.FrequencyTable `json:"mean,omitempty"`
		Taxa []string                    `json:"taxa"`
	}{Mode: r.Mode, Mean: r.Mean}
	for _, t := range r.Taxa {
		head.Taxa = append(head.Taxa, t.Name)
	}
	if err := s.saveJSON(MAIN, ReportKey, head); err != nil {
		return err
	}
	for _, t := range r.Taxa {
		if err := s.saveJSON(TAXA, []byte(t.Name), t); err != nil {
			return err
		}
	}
	log.Debugf("Saved %d taxa", len(r.Taxa))
	return nil
}

// SaveSummary saves the run summary.
func (s *Store) SaveSummary(summary interface{}) error {
	if s == nil {
		return nil
	}
	return s.saveJSON(MAIN, SummaryKey, summary)
}

func (s *Store) saveJSON(bucket, key []byte, v interface{}) error {
	b, err := json.Marshal(v)
	if err != nil {
		log.Error("Error serializing", string(key), err)
		return err
	}
	err = SaveData(s.db, bucket, key, b)
	if err != nil {
		log.Error("Error saving", string(key), err)
	}
	return err
}

// Tree loads the saved tree. It returns nil if no tree was saved.
func (s *Store) Tree() (*tree.Tree, error) {
	if s == nil {
		return nil, nil
	}
	b, err := LoadData(s.db, MAIN, TreeKey)
	if err != nil || b == nil {
		return nil, err
	}
	return tree.ParseNewick(strings.NewReader(string(b)))
}

// Dump writes every stored value as "bucket/key<TAB>value", one per
// line, buckets and keys in byte order.
func (s *Store) Dump(w io.Writer) error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.View(func(tx *bolt.Tx) error {
		return tx.ForEach(func(name []byte, b *bolt.Bucket) error {
			return b.ForEach(func(k, v []byte) error {
				_, err := fmt.Fprintf(w, "%s/%s\t%s\n", name, k, v)
				return err
			})
		})
	})
}

// SaveData saves values in bolt database.
func SaveData(db *bolt.DB, bucket, key, data []byte) error {
	if db == nil {
		return nil
	}
	return db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(bucket)
		if err != nil {
			return err
		}
		return b.Put(key, data)
	})
}

// LoadData loads data from bolt database. It returns nil if there is
// no such bucket or key.
func LoadData(db *bolt.DB, bucket, key []byte) ([]byte, error) {
	var data []byte
	if db == nil {
		return nil, nil
	}
	err := db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		if b == nil {
			return nil
		}
		if v := b.Get(key); v != nil {
			data = append(make([]byte, 0, len(v)), v...)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return data, nil
}
