// Package relocate moves generated artifacts out of a staging clone and into
// the output tree.
//
// Moves are renames. When staging and output live on different filesystems
// the tree is copied and the source removed afterwards.
package relocate
