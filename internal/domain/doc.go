// Package domain models MET grid_stat verification output and the tables built
// from it.
//
// # Data Source
//
// The Model Evaluation Tools (MET) grid_stat program writes one plain-text file
// per forecast lead time and statistic line type. Files for one forecast cycle
// live in a directory named after the cycle's initialization time:
//
//	<input root>/<YYYYMMDDHH><date subdir>/grid_stat_<prefix>_<model>_<lead>L_<YYYYMMDD>_<HHMMSS>V_<type>.txt
//
// The prefix segment is optional. When it is configured it is followed by an
// underscore, e.g. prefix "BILIN_27" matches "grid_stat_BILIN_27_*.txt".
//
// # File Name Conventions
//
// File type:
//
//	The final underscore-delimited segment minus its extension, e.g. "cnt",
//	"sl1l2", "nbrcnt". Files of one type share a column set.
//
// Lead time:
//
//	The fourth-from-last underscore-delimited segment, e.g. "240000L". MET
//	writes lead times as HHMMSS without left padding the hour, so "60000L" is
//	6 hours and "1200000L" is 120 hours. Plain lexical order would put
//	"1200000L" before "60000L"; files are therefore ordered by the length of
//	the lead token first and the full path second. See [SortStatFiles].
//
// # File Body
//
//	Line 1:    whitespace-separated column names (VERSION MODEL ... FCST_LEAD ...).
//	Line 2..n: whitespace-separated values aligned to the header.
//
// Unknown values:
//
//	"NA" is the MET sentinel for a missing value. It becomes a missing [Value],
//	whose numeric view is NaN. Every other token is kept verbatim.
//
// Malformed rows:
//
//	Rows shorter than the header are padded with missing values. Rows longer
//	than the header are rejected. Blank lines are ignored. A file whose first
//	line is empty is skipped.
//
// # Accumulated Tables
//
// Parsed files of one type are concatenated, in discovery order within a cycle
// and cycle order across the date window, into a single [Table]. Each table
// carries a row index named "line" that starts at 1 and continues across files,
// so the index of an accumulated table is always 1..n with no gaps. Columns
// present in one file but not another are filled with missing values (outer
// join). See [TableSet.Merge].
package domain
