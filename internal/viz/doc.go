// Package viz styles terminal output for lmpkit: highlighted engine
// scripts, glamour-rendered markdown transcripts and ASCII plots of
// averaged engine output.
package viz
