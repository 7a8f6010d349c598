// Package manifest records batch runs and the files they produced in a bbolt database
package manifest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	bolt "go.etcd.io/bbolt"
)

var (
	runsBucket  = []byte("runs")
	filesBucket = []byte("files")
)

// Run summarizes one batch
type Run struct {
	ID        string    `json:"id"`
	Started   time.Time `json:"started"`
	Finished  time.Time `json:"finished"`
	OutputDir string    `json:"output_dir"`
	Seed      uint64    `json:"seed"`
	Requested int       `json:"requested"`
	Written   int       `json:"written"`
	Failed    int       `json:"failed"`
	Bytes     int64     `json:"bytes"`
}

// File is one generated file of a run
type File struct {
	RunID    string `json:"run_id"`
	Name     string `json:"name"`
	Format   string `json:"format"`
	Size     int64  `json:"size"`
	Checksum string `json:"checksum"`
	Seed     uint64 `json:"seed"`
}

// Store is a manifest database
type Store struct {
	db *bolt.DB
}

// Open opens or creates the manifest at path
func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open manifest database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{runsBucket, filesBucket} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize manifest buckets: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database
func (s *Store) Close() error {
	return s.db.Close()
}

func fileKey(runID, name string) []byte {
	return []byte(runID + "/" + name)
}

// Record stores a run and its files in a single transaction
func (s *Store) Record(run Run, files []File) error {
	if run.ID == "" {
		return fmt.Errorf("run has no ID")
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		data, err := json.Marshal(run)
		if err != nil {
			return err
		}
		if err := tx.Bucket(runsBucket).Put([]byte(run.ID), data); err != nil {
			return err
		}

		bkt := tx.Bucket(filesBucket)
		for _, f := range files {
			f.RunID = run.ID
			data, err := json.Marshal(f)
			if err != nil {
				return err
			}
			if err := bkt.Put(fileKey(run.ID, f.Name), data); err != nil {
				return err
			}
		}
		return nil
	})
}

// Run returns the run with id, or nil if it is not recorded
func (s *Store) Run(id string) (*Run, error) {
	var run *Run
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(runsBucket).Get([]byte(id))
		if v == nil {
			return nil
		}
		run = &Run{}
		return json.Unmarshal(v, run)
	})
	return run, err
}

// Runs returns every recorded run, oldest first
func (s *Store) Runs() ([]Run, error) {
	var runs []Run
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(runsBucket).ForEach(func(k, v []byte) error {
			var run Run
			if err := json.Unmarshal(v, &run); err != nil {
				return fmt.Errorf("corrupt run %s: %w", k, err)
			}
			runs = append(runs, run)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(runs, func(i, j int) bool {
		return runs[i].Started.Before(runs[j].Started)
	})
	return runs, nil
}

// Files returns the files of a run in name order
func (s *Store) Files(runID string) ([]File, error) {
	var files []File
	prefix := []byte(runID + "/")
	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(filesBucket).Cursor()
		for k, v := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, v = c.Next() {
			var f File
			if err := json.Unmarshal(v, &f); err != nil {
				return fmt.Errorf("corrupt file record %s: %w", k, err)
			}
			files = append(files, f)
		}
		return nil
	})
	return files, err
}

// FindByChecksum returns every recorded file whose checksum equals sum
func (s *Store) FindByChecksum(sum string) ([]File, error) {
	var files []File
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(filesBucket).ForEach(func(k, v []byte) error {
			var f File
			if err := json.Unmarshal(v, &f); err != nil {
				return fmt.Errorf("corrupt file record %s: %w", k, err)
			}
			if f.Checksum == sum {
				files = append(files, f)
			}
			return nil
		})
	})
	return files, err
}

// Delete removes a run and all of its files
func (s *Store) Delete(runID string) error {
	prefix := []byte(runID + "/")
	return s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.Bucket(runsBucket).Delete([]byte(runID)); err != nil {
			return err
		}
		bkt := tx.Bucket(filesBucket)
		var keys [][]byte
		c := bkt.Cursor()
		for k, _ := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, _ = c.Next() {
			keys = append(keys, bytes.Clone(k))
		}
		for _, k := range keys {
			if err := bkt.Delete(k); err != nil {
				return err
			}
		}
		return nil
	})
}
