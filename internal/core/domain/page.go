package domain

// SortOrder is the direction of a chronological listing.
type SortOrder int

const (
	SortAscending SortOrder = iota
	SortDescending
)

// SortOrderFromSignedOffset decodes the compact convention where a negative offset asks for
// newest-first order and its magnitude is the real offset.
func SortOrderFromSignedOffset(offset int) (int, SortOrder) {
	if offset < 0 {
		return -offset, SortDescending
	}
	return offset, SortAscending
}
