// Package jsondb is a small document store backed by a single JSON file.
// The file holds named tables; each table maps a decimal record id to a JSON
// object. The file stays readable by plain JSON tooling, which is the point:
// operational inspection of the bot's state is a `jq` away.
package jsondb

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"sync"
)

// Document is one stored record without its id.
type Document map[string]any

// Record is a document together with its table-assigned id.
type Record struct {
	ID     int
	Fields Document
}

// DB owns the backing file. All operations serialize on one mutex; every
// mutation rewrites the whole file via a temp file and rename, so a single
// insert/update/delete is atomic on disk. No guarantees span multiple calls;
// conflicting updates to the same record are last-write-wins.
type DB struct {
	mu     sync.Mutex
	path   string
	tables map[string]map[int]Document
}

// Open loads the store file, creating an empty store if the file does not
// exist yet.
func Open(path string) (*DB, error) {
	db := &DB{
		path:   path,
		tables: make(map[string]map[int]Document),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return db, nil
		}
		return nil, fmt.Errorf("failed to read store file: %w", err)
	}

	var raw map[string]map[string]Document
	if err = json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse store file %s: %w", path, err)
	}

	for table, docs := range raw {
		db.tables[table] = make(map[int]Document, len(docs))
		for key, doc := range docs {
			id, errAtoi := strconv.Atoi(key)
			if errAtoi != nil {
				return nil, fmt.Errorf("failed to parse record id %q in table %s: %w", key, table, errAtoi)
			}
			db.tables[table][id] = doc
		}
	}

	return db, nil
}

// Table returns a handle to the named table, creating it on first use.
func (db *DB) Table(name string) *Table {
	return &Table{db: db, name: name}
}

// Path returns the location of the backing file.
func (db *DB) Path() string {
	return db.path
}

// persist rewrites the backing file. Callers must hold db.mu.
func (db *DB) persist() error {
	raw := make(map[string]map[string]Document, len(db.tables))
	for table, docs := range db.tables {
		raw[table] = make(map[string]Document, len(docs))
		for id, doc := range docs {
			raw[table][strconv.Itoa(id)] = doc
		}
	}

	data, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode store: %w", err)
	}

	tmp := db.path + ".tmp"
	if err = os.MkdirAll(filepath.Dir(db.path), os.ModePerm); err != nil {
		return fmt.Errorf("failed to create store directory: %w", err)
	}
	if err = os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write store file: %w", err)
	}
	if err = os.Rename(tmp, db.path); err != nil {
		return fmt.Errorf("failed to replace store file: %w", err)
	}
	return nil
}

// Table is a handle to one named table of the store.
type Table struct {
	db   *DB
	name string
}

func (t *Table) docs() map[int]Document {
	docs, ok := t.db.tables[t.name]
	if !ok {
		docs = make(map[int]Document)
		t.db.tables[t.name] = docs
	}
	return docs
}

// Insert stores a new document and returns its assigned id.
func (t *Table) Insert(doc Document) (int, error) {
	t.db.mu.Lock()
	defer t.db.mu.Unlock()

	docs := t.docs()
	id := 1
	for existing := range docs {
		if existing >= id {
			id = existing + 1
		}
	}
	docs[id] = cloneDocument(doc)

	if err := t.db.persist(); err != nil {
		delete(docs, id)
		return 0, err
	}
	return id, nil
}

// Get returns the first record matching the predicate, scanning in id order.
func (t *Table) Get(pred func(Document) bool) (Record, bool) {
	records := t.Search(pred)
	if len(records) == 0 {
		return Record{}, false
	}
	return records[0], true
}

// Search returns all records matching the predicate, in id order.
func (t *Table) Search(pred func(Document) bool) []Record {
	t.db.mu.Lock()
	defer t.db.mu.Unlock()

	var records []Record
	for id, doc := range t.docs() {
		if pred(doc) {
			records = append(records, Record{ID: id, Fields: cloneDocument(doc)})
		}
	}
	sort.Slice(records, func(i, j int) bool { return records[i].ID < records[j].ID })
	return records
}

// Update merges fields into the record with the given id. Updating an id that
// no longer exists is a no-op; the record may have been consumed by a
// concurrent writer and last-write-wins is the contract here.
func (t *Table) Update(id int, fields Document) error {
	t.db.mu.Lock()
	defer t.db.mu.Unlock()

	doc, ok := t.docs()[id]
	if !ok {
		return nil
	}
	for key, value := range fields {
		doc[key] = value
	}
	return t.db.persist()
}

// Upsert merges fields into the first record matching the predicate, or
// inserts a new record when none matches. The scan and the write happen under
// one lock acquisition, so two racing Upserts for the same key cannot both
// take the insert path. Returns the id of the touched record.
func (t *Table) Upsert(pred func(Document) bool, fields Document) (int, error) {
	t.db.mu.Lock()
	defer t.db.mu.Unlock()

	docs := t.docs()

	ids := make([]int, 0, len(docs))
	for id := range docs {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	for _, id := range ids {
		doc := docs[id]
		if !pred(doc) {
			continue
		}
		for key, value := range fields {
			doc[key] = value
		}
		return id, t.db.persist()
	}

	id := 1
	if len(ids) > 0 {
		id = ids[len(ids)-1] + 1
	}
	docs[id] = cloneDocument(fields)

	if err := t.db.persist(); err != nil {
		delete(docs, id)
		return 0, err
	}
	return id, nil
}

// Delete removes the record with the given id. Deleting a nonexistent id is
// a no-op.
func (t *Table) Delete(id int) error {
	t.db.mu.Lock()
	defer t.db.mu.Unlock()

	docs := t.docs()
	if _, ok := docs[id]; !ok {
		return nil
	}
	delete(docs, id)
	return t.db.persist()
}

func cloneDocument(doc Document) Document {
	clone := make(Document, len(doc))
	for key, value := range doc {
		clone[key] = value
	}
	return clone
}
