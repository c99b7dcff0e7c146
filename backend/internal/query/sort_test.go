package query

import (
	"math/rand"
	"sort"
	"testing"
	"time"

	"github.com/Nienta-PK/taskmanager/backend/internal/models"
)

func intLess(a, b int) bool { return a < b }

func date(day int) *time.Time {
	d := time.Date(2024, 1, day, 0, 0, 0, 0, time.UTC)
	return &d
}

func ids(tasks []models.TaskView) []int64 {
	out := make([]int64, len(tasks))
	for i, t := range tasks {
		out[i] = t.TaskID
	}
	return out
}

func equalIDs(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestSelectionSort_Ints(t *testing.T) {
	tests := []struct {
		name string
		in   []int
		want []int
	}{
		{"empty", []int{}, []int{}},
		{"single", []int{1}, []int{1}},
		{"reversed", []int{5, 4, 3, 2, 1}, []int{1, 2, 3, 4, 5}},
		{"duplicates", []int{3, 1, 3, 2, 1}, []int{1, 1, 2, 3, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SelectionSort(tt.in, intLess)
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Fatalf("SelectionSort() = %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestMergeSort_MatchesStdlib(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for round := 0; round < 20; round++ {
		in := make([]int, rng.Intn(40))
		for i := range in {
			in[i] = rng.Intn(15)
		}
		want := append([]int(nil), in...)
		sort.Ints(want)

		got := MergeSort(in, intLess)
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("MergeSort(%v) = %v, want %v", in, got, want)
			}
		}
	}
}

func TestMergeSort_DoesNotMutateInput(t *testing.T) {
	in := []int{3, 1, 2}
	MergeSort(in, intLess)

	if in[0] != 3 || in[1] != 1 || in[2] != 2 {
		t.Errorf("Expected input untouched, got %v", in)
	}
}

func TestMergeSort_Stable(t *testing.T) {
	tasks := []models.TaskView{
		{TaskID: 1, DueDate: date(2)},
		{TaskID: 2, DueDate: date(1)},
		{TaskID: 3, DueDate: date(2)},
		{TaskID: 4, DueDate: date(1)},
	}

	got := ids(MergeSort(tasks, lessDueDate))
	want := []int64{2, 4, 1, 3}
	if !equalIDs(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func TestReverse(t *testing.T) {
	in := []int{1, 2, 3, 4}
	Reverse(in)
	want := []int{4, 3, 2, 1}
	for i := range want {
		if in[i] != want[i] {
			t.Fatalf("Reverse() = %v, want %v", in, want)
		}
	}
}

func TestSortKey_DueDateUsesMergeSort(t *testing.T) {
	tasks := []models.TaskView{
		{TaskID: 3, DueDate: date(3)},
		{TaskID: 1, DueDate: date(1)},
		{TaskID: 2, DueDate: date(2)},
	}

	key, err := ParseTaskSortKey("due_date")
	if err != nil {
		t.Fatalf("ParseTaskSortKey() error = %v", err)
	}
	if key.Kind != ByDueDate {
		t.Errorf("Expected ByDueDate kind, got %v", key.Kind)
	}

	got := ids(key.Apply(tasks))
	if !equalIDs(got, []int64{1, 2, 3}) {
		t.Errorf("Expected [1 2 3], got %v", got)
	}
}

func TestSortKey_StrategiesAgree(t *testing.T) {
	tasks := []models.TaskView{
		{TaskID: 3, DueDate: date(3)},
		{TaskID: 1, DueDate: date(1)},
		{TaskID: 2, DueDate: date(2)},
		{TaskID: 5, DueDate: date(9)},
		{TaskID: 4, DueDate: date(4)},
	}

	merged := ids(SortKey{Kind: ByDueDate, Field: "due_date"}.Apply(append([]models.TaskView(nil), tasks...)))
	selected := ids(SortKey{Kind: ByField, Field: "due_date"}.Apply(append([]models.TaskView(nil), tasks...)))

	if !equalIDs(merged, selected) {
		t.Errorf("Expected strategies to agree: merge %v, selection %v", merged, selected)
	}
}

func TestSortKey_NilDueDatesFirst(t *testing.T) {
	tasks := []models.TaskView{
		{TaskID: 1, DueDate: date(5)},
		{TaskID: 2},
		{TaskID: 3, DueDate: date(1)},
	}

	got := ids(SortKey{Kind: ByDueDate}.Apply(tasks))
	if !equalIDs(got, []int64{2, 3, 1}) {
		t.Errorf("Expected [2 3 1], got %v", got)
	}
}

func TestParseTaskSortKey(t *testing.T) {
	tests := []struct {
		name    string
		want    SortKey
		wantErr bool
	}{
		{"", SortKey{Kind: ByField, Field: "task_id"}, false},
		{"title", SortKey{Kind: ByField, Field: "title"}, false},
		{"priority", SortKey{Kind: ByField, Field: "priority"}, false},
		{"create_date", SortKey{Kind: ByField, Field: "create_date"}, false},
		{"due_date", SortKey{Kind: ByDueDate, Field: "due_date"}, false},
		{"password", SortKey{}, true},
	}

	for _, tt := range tests {
		got, err := ParseTaskSortKey(tt.name)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseTaskSortKey(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseTaskSortKey(%q) = %+v, want %+v", tt.name, got, tt.want)
		}
	}
}

func TestSortKey_ByTitleAndImportance(t *testing.T) {
	tasks := []models.TaskView{
		{TaskID: 1, Title: "b", IsImportant: true},
		{TaskID: 2, Title: "c", IsImportant: false},
		{TaskID: 3, Title: "a", IsImportant: true},
	}

	byTitle := ids(SortKey{Kind: ByField, Field: "title"}.Apply(append([]models.TaskView(nil), tasks...)))
	if !equalIDs(byTitle, []int64{3, 1, 2}) {
		t.Errorf("Expected [3 1 2] by title, got %v", byTitle)
	}

	byImportance := SortKey{Kind: ByField, Field: "is_important"}.Apply(append([]models.TaskView(nil), tasks...))
	if byImportance[0].IsImportant {
		t.Errorf("Expected unimportant task first, got %+v", byImportance[0])
	}
}

func TestSortUsers_CreateDateIsLexicographic(t *testing.T) {
	users := []models.UserView{
		{UserID: 1, CreateDate: "2024-10-01 00:00:00"},
		{UserID: 2, CreateDate: "2024-02-01 09:00:00"},
		{UserID: 3, CreateDate: "2023-12-31 23:59:59"},
	}

	got := SortUsers(users, "create_date")
	want := []int64{3, 2, 1}
	for i, u := range got {
		if u.UserID != want[i] {
			t.Fatalf("Position %d: expected user %d, got %d", i, want[i], u.UserID)
		}
	}
}

func TestParseUserSortKey_FallsBack(t *testing.T) {
	if got := ParseUserSortKey("email"); got != "user_id" {
		t.Errorf("Expected fallback to user_id, got %s", got)
	}
	if got := ParseUserSortKey("is_admin"); got != "is_admin" {
		t.Errorf("Expected is_admin, got %s", got)
	}
}
