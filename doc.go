/*
Package extentdb implements the lifecycle of growable, memory-mapped data
files for an embedded storage engine. It sizes and grows files by a
deterministic policy, initializes and upgrades a fixed-layout file header,
and hands out contiguous extent areas from each file through a crash-safe
bump allocator backed by a write-ahead journal.
*/
package extentdb
