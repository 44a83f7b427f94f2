package core

import "testing"

func expense(date Date, category string, amount float64) Expense {
	return Expense{Date: date, Category: category, Amount: amount}
}

func TestSummaryByCategory(t *testing.T) {
	oct := NewDate(2025, 10, 14)

	expenses := []Expense{
		expense(oct, "Food", 10),
		expense(oct, "Food", 5),
		expense(oct, "Transport", 3),
	}

	got := SummaryByCategory(expenses)

	want := map[string]float64{"Food": 15, "Transport": 3}
	if len(got) != len(want) {
		t.Fatalf("got %d groups, want %d", len(got), len(want))
	}
	for _, ct := range got {
		if want[ct.Category] != ct.Amount {
			t.Errorf("category %s total = %v, want %v", ct.Category, ct.Amount, want[ct.Category])
		}
	}
}

func TestSummaryByCategoryEmpty(t *testing.T) {
	got := SummaryByCategory(nil)
	if got == nil {
		t.Fatal("empty input must yield an empty slice, not nil")
	}
	if len(got) != 0 {
		t.Errorf("got %d groups, want 0", len(got))
	}
}

func TestSummaryByCategoryZeroAmountRows(t *testing.T) {
	// Rows whose stored amount could not be read scan as zero; they must not
	// blank the whole report.
	oct := NewDate(2025, 10, 14)
	expenses := []Expense{
		expense(oct, "Food", 10),
		expense(oct, "Food", 0),
	}

	got := SummaryByCategory(expenses)
	if len(got) != 1 || got[0].Amount != 10 {
		t.Errorf("got %+v, want single Food group totaling 10", got)
	}
}

func TestSummaryByMonth(t *testing.T) {
	expenses := []Expense{
		expense(NewDate(2025, 10, 14), "Food", 10),
		expense(NewDate(2025, 10, 15), "Transport", 5),
		expense(NewDate(2025, 11, 1), "Food", 7),
	}

	got := SummaryByMonth(expenses)

	want := map[string]float64{"2025-10": 15, "2025-11": 7}
	if len(got) != len(want) {
		t.Fatalf("got %d groups, want %d", len(got), len(want))
	}
	for _, mt := range got {
		if want[mt.Month] != mt.Amount {
			t.Errorf("month %s total = %v, want %v", mt.Month, mt.Amount, want[mt.Month])
		}
	}
}

func TestSummaryByMonthEmpty(t *testing.T) {
	got := SummaryByMonth([]Expense{})
	if got == nil || len(got) != 0 {
		t.Errorf("got %v, want empty slice", got)
	}
}

func TestSummaryDeterministicOrder(t *testing.T) {
	oct := NewDate(2025, 10, 14)
	expenses := []Expense{
		expense(oct, "Transport", 3),
		expense(oct, "Food", 10),
		expense(oct, "Gifts", 2),
	}

	first := SummaryByCategory(expenses)
	second := SummaryByCategory(expenses)
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("ordering not deterministic: %+v vs %+v", first, second)
		}
	}
}
