package resolver

// Stats aggregates counters across a cleanup run.
type Stats struct {
	FilesProcessed       int
	FilesModified        int
	PoliciesProcessed    int
	PoliciesModified     int
	DuplicationsFound    int
	DuplicationsResolved int
}

// Merge adds the counters of other into s.
func (s *Stats) Merge(other Stats) {
	s.FilesProcessed += other.FilesProcessed
	s.FilesModified += other.FilesModified
	s.PoliciesProcessed += other.PoliciesProcessed
	s.PoliciesModified += other.PoliciesModified
	s.DuplicationsFound += other.DuplicationsFound
	s.DuplicationsResolved += other.DuplicationsResolved
}
