package extract

import (
	"errors"
	"reflect"
	"testing"

	"biograph/pkg/biography"
)

func TestExtractCompositeDeathCell(t *testing.T) {
	e := NewDateLocationExtractor(CountryCity, nil)

	cell := "1955-04-18 1955年 4月18日 76歳没 アメリカ合衆国 ニュージャージー州 プリンストン"
	dl, age, err := e.Extract(cell)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	want := biography.DateLocation{
		Year: 1955, Month: 4, Day: 18,
		Country: "アメリカ合衆国", Region: "ニュージャージー州", City: "プリンストン",
	}
	if dl != want {
		t.Errorf("got %+v, want %+v", dl, want)
	}
	if age != 76 {
		t.Errorf("got age %d, want 76", age)
	}
}

func TestExtractISOOnlyCell(t *testing.T) {
	e := NewDateLocationExtractor(CountryCity, nil)

	dl, age, err := e.Extract("1879-03-14 ドイツ ウルム")
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	want := biography.DateLocation{Year: 1879, Month: 3, Day: 14, Country: "ドイツ", City: "ウルム"}
	if dl != want {
		t.Errorf("got %+v, want %+v", dl, want)
	}
	if age != 0 {
		t.Errorf("got age %d, want 0", age)
	}
}

func TestExtractNoDateCollapsesSubRecord(t *testing.T) {
	e := NewDateLocationExtractor(CountryCity, nil)

	tests := []struct {
		name string
		cell string
	}{
		{"empty cell", ""},
		{"no date at all", "不明"},
		{"age and location but no date", "76歳没 アメリカ合衆国 プリンストン"},
		{"impossible calendar date", "1955年2月30日 プリンストン"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dl, age, err := e.Extract(tt.cell)
			if !errors.Is(err, ErrNoDate) {
				t.Fatalf("expected ErrNoDate, got %v", err)
			}
			if !dl.IsZero() {
				t.Errorf("expected zero DateLocation, got %+v", dl)
			}
			if age != 0 {
				t.Errorf("expected zero age on collapse, got %d", age)
			}
		})
	}
}

func TestExtractLocationArity(t *testing.T) {
	tests := []struct {
		name   string
		policy TwoTokenPolicy
		cell   string
		want   biography.DateLocation
	}{
		{
			name: "no tokens", policy: CountryCity,
			cell: "1990年1月2日",
			want: biography.DateLocation{Year: 1990, Month: 1, Day: 2},
		},
		{
			name: "one token becomes city", policy: CountryCity,
			cell: "1990年1月2日 東京",
			want: biography.DateLocation{Year: 1990, Month: 1, Day: 2, City: "東京"},
		},
		{
			name: "two tokens country+city", policy: CountryCity,
			cell: "1990年1月2日 日本 東京",
			want: biography.DateLocation{Year: 1990, Month: 1, Day: 2, Country: "日本", City: "東京"},
		},
		{
			name: "two tokens country+region", policy: CountryRegion,
			cell: "1990年1月2日 日本 東京都",
			want: biography.DateLocation{Year: 1990, Month: 1, Day: 2, Country: "日本", Region: "東京都"},
		},
		{
			name: "four tokens drop extras", policy: CountryCity,
			cell: "1990年1月2日 日本 東京都 新宿区 周辺",
			want: biography.DateLocation{Year: 1990, Month: 1, Day: 2, Country: "日本", Region: "東京都", City: "新宿区"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewDateLocationExtractor(tt.policy, nil)
			dl, _, err := e.Extract(tt.cell)
			if err != nil {
				t.Fatalf("Extract failed: %v", err)
			}
			if dl != tt.want {
				t.Errorf("got %+v, want %+v", dl, tt.want)
			}
		})
	}
}

func TestExtractFirstRuleWins(t *testing.T) {
	e := NewDateLocationExtractor(CountryCity, nil)

	// Both formats present with different values: the Japanese pattern is
	// tried first and wins.
	dl, _, err := e.Extract("1955年4月18日 1956-05-19")
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if dl.Year != 1955 || dl.Month != 4 || dl.Day != 18 {
		t.Errorf("expected japanese date to win, got %+v", dl)
	}
	// The losing format must still not leak into the location fields.
	if dl.Country != "" || dl.Region != "" || dl.City != "" {
		t.Errorf("date residue leaked into location: %+v", dl)
	}
}

func TestExtractIsIdempotent(t *testing.T) {
	e := NewDateLocationExtractor(CountryCity, nil)
	cell := "1955年4月18日 76歳没 アメリカ合衆国 プリンストン"

	dl1, age1, err1 := e.Extract(cell)
	dl2, age2, err2 := e.Extract(cell)
	if err1 != nil || err2 != nil {
		t.Fatalf("Extract failed: %v / %v", err1, err2)
	}
	if !reflect.DeepEqual(dl1, dl2) || age1 != age2 {
		t.Errorf("repeated extraction differs: %+v/%d vs %+v/%d", dl1, age1, dl2, age2)
	}
}
