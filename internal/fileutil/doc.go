// Package fileutil provides file operation utilities for directory and file management.
//
// EnsureDir creates directories recursively, and CopyFile copies files with
// support for explicit permissions, fsync, and atomic writes via temp-file-then-rename.
// readerpool uses these for preparing table data directories (internal/sqlitereader)
// and for the atomic rename step of RenameTable.
package fileutil
