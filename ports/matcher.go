package ports

// ColumnMatcher maps a symbolic DAG node identifier to one of the
// available observation table columns. ok is false when no column
// matches; callers drop the edge rather than failing.
type ColumnMatcher interface {
	Match(nodeID string, available []string) (column string, ok bool)
}
