package object

// Arena tracks every File value opened during one interpreter run so
// Release can close them all in one bulk pass at teardown, the arena
// reclamation discipline spec.md §5 calls for in place of a tracing
// garbage collector: the Go runtime already reclaims plain Int/Real/Str/
// Array values, so the only resource an nm program can leak across a
// run is an open OS handle, and this is the single place that discipline
// is enforced.
type Arena struct {
	files []*File
}

// NewArena returns an empty arena, one per interpreter instance per
// spec.md §5 ("never a process-wide global").
func NewArena() *Arena { return &Arena{} }

// Track registers f so Release will close it.
func (a *Arena) Track(f *File) { a.files = append(a.files, f) }

// Release closes every tracked file, collecting and returning the first
// error encountered while still attempting to close the rest.
func (a *Arena) Release() error {
	var first error
	for _, f := range a.files {
		if f.Handle == nil {
			continue
		}
		if err := f.Handle.Close(); err != nil && first == nil {
			first = err
		}
	}
	a.files = nil
	return first
}
