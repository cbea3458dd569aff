package match

import (
	"fmt"
	"testing"

	"somlib/kanon/internal/record"
)

// makeRecord builds a normalized question record with a predictable ID.
func makeRecord(id string, wave int, variable, text string, alternatives []string) *record.Record {
	return &record.Record{
		ID:             id,
		Wave:           wave,
		Variable:       variable,
		Kind:           record.KindQuestion,
		RawText:        text,
		NormalizedText: record.NormalizeText(text),
		Alternatives:   record.NormalizeAlternatives(alternatives, 20),
	}
}

func makeBattery(id string, wave int, variable, text string, subItems []string) *record.Record {
	rec := makeRecord(id, wave, variable, text, nil)
	rec.Kind = record.KindBattery
	rec.StemVariable = record.Stem(variable)
	rec.SubItems = record.NormalizeSubItems(subItems)
	return rec
}

func TestGroupExact_MergesRenamedVariables(t *testing.T) {
	records := []*record.Record{
		makeRecord("r1", 2023, "f7", "F7.: Prenumererar du på en morgontidning?", []string{"Ja", "Nej"}),
		makeRecord("r2", 2024, "f9", "F9.: Prenumererar du på en morgontidning?", []string{"Ja", "Nej"}),
	}
	partitions := GroupExact(records)
	if len(partitions) != 1 {
		t.Fatalf("expected 1 partition, got %d", len(partitions))
	}
	p := partitions[0]
	if p.RepID() != "r1" {
		t.Errorf("representative should be the first-ingested member, got %s", p.RepID())
	}
	if len(p.Members) != 2 {
		t.Errorf("expected 2 members, got %d", len(p.Members))
	}
	if !p.Waves()[2023] || !p.Waves()[2024] {
		t.Errorf("partition should cover both waves, got %v", p.Waves())
	}
}

func TestGroupExact_SplitsOnAlternatives(t *testing.T) {
	records := []*record.Record{
		makeRecord("r1", 2023, "f7", "Samma fråga?", []string{"Ja", "Nej"}),
		makeRecord("r2", 2023, "f8", "Samma fråga?", []string{"Ja", "Nej", "Vet ej"}),
	}
	if got := len(GroupExact(records)); got != 2 {
		t.Errorf("different alternative sets should split, got %d partitions", got)
	}
}

func TestGroupExact_DeterministicOrder(t *testing.T) {
	var records []*record.Record
	for i := 0; i < 10; i++ {
		records = append(records, makeRecord(
			fmt.Sprintf("r%d", i), 2023, fmt.Sprintf("f%d", i),
			fmt.Sprintf("Fråga nummer %d?", i), []string{"Ja", "Nej"}))
	}
	first := GroupExact(records)
	second := GroupExact(records)
	if len(first) != len(second) {
		t.Fatalf("partition counts differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].RepID() != second[i].RepID() {
			t.Errorf("partition order differs at %d: %s vs %s", i, first[i].RepID(), second[i].RepID())
		}
	}
}

func TestGroupExact_OpenQuestionTextOnly(t *testing.T) {
	records := []*record.Record{
		makeRecord("r1", 2023, "f10", "Vad tycker du om framtiden?", nil),
		makeRecord("r2", 2024, "f11", "Vad tycker du om framtiden?", nil),
	}
	partitions := GroupExact(records)
	if len(partitions) != 1 {
		t.Fatalf("open questions with identical text should share a partition, got %d", len(partitions))
	}
	if !partitions[0].HasOpenAlternatives() {
		t.Error("partition should report open alternatives")
	}
}
