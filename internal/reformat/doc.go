// Package reformat rewrites an existing NEC2 file into canonical fixed
// columns.
//
// The source is streamed line by line. SY lines define variables for the
// lines that follow them; GW, GE, RP and EX lines are resolved against those
// variables and re-rendered; every other line is copied unchanged.
//
// Output is written incrementally. When a field cannot be resolved the
// stream stops, and the lines emitted before the failure stay in the
// destination file.
package reformat
