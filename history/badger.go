package history

import (
	"encoding/json"
	"fmt"

	"github.com/dgraph-io/badger/v3"
)

const entryPrefix = "hist_"

type Badger struct {
	db *badger.DB
}

func NewBadger(dir string) (*Badger, error) {
	db, err := badger.Open(badger.DefaultOptions(dir).WithLoggingLevel(badger.WARNING))
	if err != nil {
		return nil, err
	}
	return &Badger{db: db}, nil
}

func entryKey(e *Entry) []byte {
	return []byte(fmt.Sprintf("%s%020d_%s", entryPrefix, e.Time.UnixNano(), e.ID))
}

func (b *Badger) Add(e *Entry) error {
	bb, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to serialize entry: %w", err)
	}
	err = b.db.Update(func(txn *badger.Txn) error {
		return txn.Set(entryKey(e), bb)
	})
	if err != nil {
		return fmt.Errorf("failed to save entry: %w", err)
	}
	return nil
}

func (b *Badger) List(limit int) ([]*Entry, error) {
	prefix := []byte(entryPrefix)
	var res []*Entry
	err := b.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Seek(append(prefix, 0xff)); it.ValidForPrefix(prefix); it.Next() {
			if limit > 0 && len(res) == limit {
				break
			}
			e := &Entry{}
			err := it.Item().Value(func(v []byte) error {
				return json.Unmarshal(v, e)
			})
			if err != nil {
				return fmt.Errorf("failed to read entry: %w", err)
			}
			res = append(res, e)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (b *Badger) Close() error {
	return b.db.Close()
}
