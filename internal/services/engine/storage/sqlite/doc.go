// Package sqlite stores the committed event journal of every partition in a
// single SQLite database. Positions are contiguous per partition and start
// at 1.
package sqlite
