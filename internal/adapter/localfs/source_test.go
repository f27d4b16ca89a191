package localfs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/couchcryptid/gridstat-etl/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDiscover_OrdersByLeadLength(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "grid_stat_FCST_1200000L_20210129_000000V_cnt.txt", "A\n")
	writeFile(t, dir, "grid_stat_FCST_120000L_20210124_120000V_cnt.txt", "A\n")
	writeFile(t, dir, "grid_stat_FCST_60000L_20210124_060000V_cnt.txt", "A\n")
	writeFile(t, dir, "grid_stat_FCST_60000L_20210124_060000V_sl1l2.txt", "A\n")
	writeFile(t, dir, "point_stat_FCST_60000L_20210124_060000V_cnt.txt", "A\n")
	writeFile(t, dir, "grid_stat_FCST_60000L_20210124_060000V_pairs.nc", "")

	paths, err := NewSource().Discover(dir, "")
	require.NoError(t, err)

	names := make([]string, len(paths))
	for i, p := range paths {
		names[i] = filepath.Base(p)
	}
	assert.Equal(t, []string{
		"grid_stat_FCST_60000L_20210124_060000V_cnt.txt",
		"grid_stat_FCST_60000L_20210124_060000V_sl1l2.txt",
		"grid_stat_FCST_120000L_20210124_120000V_cnt.txt",
		"grid_stat_FCST_1200000L_20210129_000000V_cnt.txt",
	}, names)
}

func TestDiscover_Prefix(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "grid_stat_BILIN_27_FCST_60000L_20210124_060000V_cnt.txt", "A\n")
	writeFile(t, dir, "grid_stat_NEAREST_1_FCST_60000L_20210124_060000V_cnt.txt", "A\n")

	paths, err := NewSource().Discover(dir, "BILIN_27")
	require.NoError(t, err)
	require.Len(t, paths, 1)
	assert.Contains(t, paths[0], "BILIN_27")
}

func TestDiscover_EmptyMatchIsNotAnError(t *testing.T) {
	paths, err := NewSource().Discover(t.TempDir(), "")
	require.NoError(t, err)
	assert.Empty(t, paths)
}

func TestDiscover_MissingCycleDir(t *testing.T) {
	_, err := NewSource().Discover(filepath.Join(t.TempDir(), "2021012400"), "")
	require.ErrorIs(t, err, domain.ErrCycleDirMissing)
}

func TestCheckRoot(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, NewSource().CheckRoot(dir))

	err := NewSource().CheckRoot(filepath.Join(dir, "missing"))
	require.ErrorIs(t, err, domain.ErrInputDirMissing)

	file := writeFile(t, dir, "not-a-dir", "")
	require.ErrorIs(t, NewSource().CheckRoot(file), domain.ErrInputDirMissing)
}

func TestParse(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "grid_stat_FCST_60000L_20210124_060000V_cnt.txt",
		"VX_MASK FCST_LEAD\nFULL 60000\nCA NA\n")

	tbl, stats, err := NewSource().Parse(path)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Rows)
	assert.Equal(t, []int{1, 2}, tbl.Index)
	assert.Equal(t, 1, tbl.MissingCount("FCST_LEAD"))

	empty := writeFile(t, dir, "grid_stat_FCST_120000L_20210124_120000V_cnt.txt", "")
	_, _, err = NewSource().Parse(empty)
	require.ErrorIs(t, err, domain.ErrEmptyFile)
	assert.Contains(t, err.Error(), empty)

	_, _, err = NewSource().Parse(filepath.Join(dir, "nope.txt"))
	require.Error(t, err)
}
