// Package storage writes rendered posters to local disk for inspection.
//
// Nothing is read back between runs: each render overwrites the previous file. The default
// file is out_bwf.png in the working directory; a leading ~/ in the directory expands to the
// home directory.
package storage
