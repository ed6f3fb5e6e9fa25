package patch

// Coalesce returns *ptr, or fallback when the field was omitted from a partial update.
func Coalesce[T any](ptr *T, fallback T) T {
	if ptr != nil {
		return *ptr
	}
	return fallback
}
