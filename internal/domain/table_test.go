package domain

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, body string) *Table {
	t.Helper()
	tbl, _, err := ParseTable(strings.NewReader(body))
	require.NoError(t, err)
	return tbl
}

func TestTableSet_MergeContinuesIndex(t *testing.T) {
	set := TableSet{}

	diff := set.Merge("cnt", mustParse(t, "VX_MASK FCST_LEAD\nFULL 60000\nCA 60000\n"))
	assert.True(t, diff.Empty())
	assert.Equal(t, []int{1, 2}, set["cnt"].Index)

	diff = set.Merge("cnt", mustParse(t, "VX_MASK FCST_LEAD\nFULL 120000\nCA NA\nSIERRA 120000\n"))
	assert.True(t, diff.Empty())

	cnt := set["cnt"]
	assert.Equal(t, []int{1, 2, 3, 4, 5}, cnt.Index)
	assert.Equal(t, 1, cnt.MissingCount("FCST_LEAD"))
	assert.Equal(t, 0, cnt.MissingCount("VX_MASK"))
	require.NoError(t, cnt.Validate())
}

func TestTable_AppendIndependentOfContent(t *testing.T) {
	for _, n := range []int{0, 1, 7} {
		for _, k := range []int{0, 1, 4} {
			a := NewTable([]string{"X"})
			for i := 1; i <= n; i++ {
				a.AppendRow(i, []Value{Text("a")})
			}
			b := NewTable([]string{"X"})
			for i := 1; i <= k; i++ {
				b.AppendRow(i, []Value{{}})
			}

			a.Append(b)

			want := make([]int, 0, n+k)
			for i := 1; i <= n+k; i++ {
				want = append(want, i)
			}
			if diff := cmp.Diff(want, a.Index, cmpEmptyInts()); diff != "" {
				t.Fatalf("n=%d k=%d index mismatch (-want +got):\n%s", n, k, diff)
			}
			require.NoError(t, a.Validate())
		}
	}
}

func TestTable_AppendOuterJoin(t *testing.T) {
	a := mustParse(t, "A B\n1 2\n")
	b := mustParse(t, "B C\n3 4\n5 6\n")

	diff := a.Append(b)

	assert.Equal(t, []string{"C"}, diff.Added)
	assert.Equal(t, []string{"A"}, diff.Absent)
	assert.Equal(t, []string{"A", "B", "C"}, a.Columns)
	assert.Equal(t, []int{1, 2, 3}, a.Index)

	want := map[string][]Value{
		"A": {Text("1"), {}, {}},
		"B": {Text("2"), Text("3"), Text("5")},
		"C": {{}, Text("4"), Text("6")},
	}
	if d := cmp.Diff(want, a.Data); d != "" {
		t.Fatalf("data mismatch (-want +got):\n%s", d)
	}
	require.NoError(t, a.Validate())
}

func TestTableSet_FirstTableAdopted(t *testing.T) {
	set := TableSet{}
	tbl := mustParse(t, "A\n1\n")

	set.Merge("cnt", tbl)

	assert.Same(t, tbl, set["cnt"])
	assert.Equal(t, []string{"cnt"}, set.Types())
}

func TestTableSet_TypesAreIndependent(t *testing.T) {
	set := TableSet{}
	set.Merge("cnt", mustParse(t, "A\n1\n2\n"))
	set.Merge("sl1l2", mustParse(t, "B\n1\n"))
	set.Merge("cnt", mustParse(t, "A\n3\n"))

	assert.Equal(t, []string{"cnt", "sl1l2"}, set.Types())
	assert.Equal(t, []int{1, 2, 3}, set["cnt"].Index)
	assert.Equal(t, []int{1}, set["sl1l2"].Index)
	assert.Equal(t, map[string]int{"cnt": 3, "sl1l2": 1}, set.Rows())
}

func TestTable_Filter(t *testing.T) {
	tbl := mustParse(t, "VX_MASK RMSE\nFULL 1\nCA 2\nFULL 3\n")

	full := tbl.Filter(func(i int) bool { return tbl.Value("VX_MASK", i).Text == "FULL" })

	assert.Equal(t, []int{1, 3}, full.Index)
	assert.Equal(t, []Value{Text("1"), Text("3")}, full.Data["RMSE"])
	assert.Equal(t, 3, tbl.Len())
}

func TestTable_Validate(t *testing.T) {
	tbl := mustParse(t, "A B\n1 2\n3 4\n")
	require.NoError(t, tbl.Validate())

	tbl.Index[1] = 5
	assert.ErrorContains(t, tbl.Validate(), "index at row 1")

	tbl.Index[1] = 2
	tbl.Data["B"] = tbl.Data["B"][:1]
	assert.ErrorContains(t, tbl.Validate(), `column "B"`)
}

func TestValue_String(t *testing.T) {
	assert.Equal(t, "NA", Value{}.String())
	assert.Equal(t, "1.25", Text("1.25").String())
	assert.Equal(t, Value{}, ParseToken("NA"))
	assert.Equal(t, Text("0"), ParseToken("0"))
}

func cmpEmptyInts() cmp.Option {
	return cmp.Comparer(func(a, b []int) bool {
		if len(a) != len(b) {
			return false
		}
		for i := range a {
			if a[i] != b[i] {
				return false
			}
		}
		return true
	})
}
