// Package types defines the record types, category names, store contracts,
// and error classes shared by the dlf seeding toolkit.
//
// Records are tenant scoped: a tenant is a page subtree identified by its
// integer page id (pid). Formats are the one exception and live at pid 0.
package types
