package db

import (
	"reflect"
	"testing"

	"somlib/kanon/internal/record"
)

func memDB(t *testing.T) *DB {
	t.Helper()
	database, err := OpenMemory()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { database.Close() })
	return database
}

func TestSaveRecord_RoundTrip(t *testing.T) {
	database := memDB(t)
	store := record.NewStore(20)
	rec, err := store.Add(record.RawRecord{
		Wave:         2023,
		Variable:     "F7",
		Kind:         "question",
		QuestionText: "F7. Prenumererar du på en morgontidning?",
		Alternatives: []string{"Ja", "Nej"},
	})
	if err != nil {
		t.Fatal(err)
	}

	if err := database.SaveRecord(rec); err != nil {
		t.Fatal(err)
	}

	records, err := database.AllRecords()
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if !reflect.DeepEqual(records[0], rec) {
		t.Errorf("round-trip mismatch:\n got %+v\nwant %+v", records[0], rec)
	}
}

func TestSaveRecord_DuplicateID(t *testing.T) {
	database := memDB(t)
	rec := &record.Record{
		ID: "r1", Wave: 2023, Variable: "f1", Kind: record.KindQuestion,
		RawText: "Fråga?", NormalizedText: "fråga",
	}
	if err := database.SaveRecord(rec); err != nil {
		t.Fatal(err)
	}
	if err := database.SaveRecord(rec); err == nil {
		t.Error("saving the same ID twice should fail")
	}
}

func TestAllRecords_InsertionOrder(t *testing.T) {
	// Saves land within one millisecond and the IDs sort against insertion
	// order; reload must still come back in the order records were saved.
	database := memDB(t)
	ids := []string{"z-first", "m-second", "a-third"}
	for _, id := range ids {
		rec := &record.Record{
			ID: id, Wave: 2023, Variable: "f1", Kind: record.KindQuestion,
			RawText: "Fråga?", NormalizedText: "fråga",
		}
		if err := database.SaveRecord(rec); err != nil {
			t.Fatal(err)
		}
	}

	records, err := database.AllRecords()
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != len(ids) {
		t.Fatalf("expected %d records, got %d", len(ids), len(records))
	}
	for i, id := range ids {
		if records[i].ID != id {
			t.Errorf("position %d: got %s, want %s", i, records[i].ID, id)
		}
	}
}

func TestLoadStore_RebuildsStore(t *testing.T) {
	database := memDB(t)
	store := record.NewStore(20)
	raws := []record.RawRecord{
		{Wave: 2023, Variable: "f1", Kind: "question",
			QuestionText: "F1. Alfa?", Alternatives: []string{"Ja", "Nej"}},
		{Wave: 2024, Variable: "f2a", Kind: "battery",
			QuestionText: "F2. Hur ofta?", Alternatives: []string{"Ofta"},
			SubItems: []string{"Radio"}},
	}
	for _, raw := range raws {
		rec, err := store.Add(raw)
		if err != nil {
			t.Fatal(err)
		}
		if err := database.SaveRecord(rec); err != nil {
			t.Fatal(err)
		}
	}

	loaded, err := database.LoadStore(20)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Len() != store.Len() {
		t.Fatalf("expected %d records, got %d", store.Len(), loaded.Len())
	}
	if len(loaded.Questions()) != 1 || len(loaded.Batteries()) != 1 {
		t.Errorf("kind filters after reload: %d questions, %d batteries",
			len(loaded.Questions()), len(loaded.Batteries()))
	}
	for i, want := range store.Records() {
		got := loaded.Records()[i]
		if !reflect.DeepEqual(got, want) {
			t.Errorf("record %d mismatch:\n got %+v\nwant %+v", i, got, want)
		}
	}
}
