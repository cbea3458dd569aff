package db

import (
	"encoding/json"
	"fmt"
	"time"

	"somlib/kanon/internal/record"
)

// scanRecord scans a row into a Record. The row must have all 9 columns in
// standard order.
func scanRecord(scanner interface{ Scan(dest ...any) error }) (*record.Record, error) {
	var rec record.Record
	var alternatives, subItems string
	err := scanner.Scan(
		&rec.ID, &rec.Wave, &rec.Variable, &rec.Kind, &rec.RawText,
		&rec.NormalizedText, &alternatives, &subItems, &rec.StemVariable,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(alternatives), &rec.Alternatives); err != nil {
		return nil, fmt.Errorf("decoding alternatives for record %s: %w", rec.ID, err)
	}
	if err := json.Unmarshal([]byte(subItems), &rec.SubItems); err != nil {
		return nil, fmt.Errorf("decoding sub-items for record %s: %w", rec.ID, err)
	}
	// Empty lists are nil in memory; keep reloaded records identical to
	// freshly ingested ones.
	if len(rec.Alternatives) == 0 {
		rec.Alternatives = nil
	}
	if len(rec.SubItems) == 0 {
		rec.SubItems = nil
	}
	return &rec, nil
}

// SaveRecord inserts one ingested record. Records are immutable; a duplicate
// ID is an error, never an update.
func (d *DB) SaveRecord(rec *record.Record) error {
	alternatives, err := json.Marshal(stringsOrEmpty(rec.Alternatives))
	if err != nil {
		return fmt.Errorf("encoding alternatives: %w", err)
	}
	subItems, err := json.Marshal(stringsOrEmpty(rec.SubItems))
	if err != nil {
		return fmt.Errorf("encoding sub-items: %w", err)
	}

	_, err = d.conn.Exec(`
		INSERT INTO records (id, wave, variable, kind, raw_text, normalized_text,
		                     alternatives, sub_items, stem_variable, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, rec.ID, rec.Wave, rec.Variable, string(rec.Kind), rec.RawText,
		rec.NormalizedText, string(alternatives), string(subItems),
		rec.StemVariable, time.Now().UnixMilli())
	if err != nil {
		return fmt.Errorf("saving record %s: %w", rec.ID, err)
	}
	return nil
}

// AllRecords returns all stored records in ingestion order.
func (d *DB) AllRecords() ([]*record.Record, error) {
	rows, err := d.conn.Query(`
		SELECT id, wave, variable, kind, raw_text, normalized_text,
		       alternatives, sub_items, stem_variable
		FROM records ORDER BY rowid
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*record.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// LoadStore rebuilds the in-memory record store from the records table.
func (d *DB) LoadStore(openLimit int) (*record.Store, error) {
	records, err := d.AllRecords()
	if err != nil {
		return nil, fmt.Errorf("loading records: %w", err)
	}
	store := record.NewStore(openLimit)
	for _, rec := range records {
		if err := store.Put(rec); err != nil {
			return nil, err
		}
	}
	return store, nil
}

func stringsOrEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
