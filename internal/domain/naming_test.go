package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

const testStatFile = "grid_stat_FCST_240000L_20210125_000000V_cnt.txt"

func TestFileType(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{testStatFile, "cnt"},
		{"/data/NAM_lag06/2021012400/" + testStatFile, "cnt"},
		{"grid_stat_BILIN_27_FCST_60000L_20210124_060000V_sl1l2.txt", "sl1l2"},
		{"grid_stat_FCST_60000L_20210124_060000V_pairs.nc.txt", "pairs"},
		{"nounderscore.txt", "nounderscore"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FileType(tt.path), tt.path)
	}
}

func TestLeadToken(t *testing.T) {
	assert.Equal(t, "240000L", LeadToken(testStatFile))
	assert.Equal(t, "60000L", LeadToken("/a_b/c_d/grid_stat_PFX_FCST_60000L_20210124_060000V_cnt.txt"))
	assert.Empty(t, LeadToken("grid_stat_cnt.txt"))
}

func TestSortStatFiles_LengthThenLexical(t *testing.T) {
	paths := []string{
		"/cyc/grid_stat_FCST_100_20210125_000000V_cnt.txt",
		"/cyc/grid_stat_FCST_12_20210125_000000V_cnt.txt",
		"/cyc/grid_stat_FCST_6_20210125_000000V_cnt.txt",
	}

	SortStatFiles(paths)

	leads := make([]string, len(paths))
	for i, p := range paths {
		leads[i] = LeadToken(p)
	}
	assert.Equal(t, []string{"6", "12", "100"}, leads)
}

func TestSortStatFiles_SameLeadOrdersByName(t *testing.T) {
	paths := []string{
		"/cyc/grid_stat_FCST_120000L_20210124_120000V_sl1l2.txt",
		"/cyc/grid_stat_FCST_60000L_20210124_060000V_sl1l2.txt",
		"/cyc/grid_stat_FCST_120000L_20210124_120000V_cnt.txt",
		"/cyc/grid_stat_FCST_60000L_20210124_060000V_cnt.txt",
	}

	SortStatFiles(paths)

	assert.Equal(t, []string{
		"/cyc/grid_stat_FCST_60000L_20210124_060000V_cnt.txt",
		"/cyc/grid_stat_FCST_60000L_20210124_060000V_sl1l2.txt",
		"/cyc/grid_stat_FCST_120000L_20210124_120000V_cnt.txt",
		"/cyc/grid_stat_FCST_120000L_20210124_120000V_sl1l2.txt",
	}, paths)
}

func TestStatFilePattern(t *testing.T) {
	assert.Equal(t, "grid_stat_*.txt", StatFilePattern(""))
	assert.Equal(t, "grid_stat_BILIN_27_*.txt", StatFilePattern("BILIN_27"))
}

func TestConfigurationPaths(t *testing.T) {
	cfg := Configuration{
		ControlFlow: "NAM_lag06_b0.00_v06_h0300",
		Grid:        "d02",
		InputRoot:   "/in/CC/NAM_lag06_b0.00_v06_h0300",
		DateSubdir:  "/MET_analysis",
		OutputDir:   "/out/CC/NAM_lag06_b0.00_v06_h0300",
		Start:       "2021012400",
		End:         "2021012800",
	}
	cycle := time.Date(2021, 1, 25, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, "/in/CC/NAM_lag06_b0.00_v06_h0300/2021012500/MET_analysis", cfg.CycleDir(cycle))
	assert.Equal(t, "/out/CC/NAM_lag06_b0.00_v06_h0300/grid_stats_d02_2021012400_to_2021012800.bin", cfg.ArtifactPath())
	assert.Equal(t, "/out/CC/NAM_lag06_b0.00_v06_h0300/proc_gridstat_NAM_lag06_b0.00_v06_h0300_d02_log.txt", cfg.LogPath())
	assert.Equal(t, "Completed: NAM_lag06_b0.00_v06_h0300 d02", cfg.CompletionMessage())

	cfg.Prefix = "BILIN_27"
	assert.Equal(t, "/out/CC/NAM_lag06_b0.00_v06_h0300/grid_stats_BILIN_27_d02_2021012400_to_2021012800.bin", cfg.ArtifactPath())
	assert.Equal(t, "/out/CC/NAM_lag06_b0.00_v06_h0300/proc_gridstat_BILIN_27_NAM_lag06_b0.00_v06_h0300_d02_log.txt", cfg.LogPath())
	assert.Equal(t, "Completed: BILIN_27_NAM_lag06_b0.00_v06_h0300 d02", cfg.CompletionMessage())
}
