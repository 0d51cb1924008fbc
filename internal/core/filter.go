package core

// Dated is any record carrying a yyyy-MM-dd date.
type Dated interface {
	RecordDate() string
}

// DateWarning reports a record that was dropped from a filtered view
// because its date did not parse. Warnings are diagnostics, not
// errors: filtering always succeeds.
type DateWarning struct {
	Date string
	Err  error
}

// FilterByDateRange keeps the records whose date falls inside
// [start, end], bounds inclusive. Filtering only happens when both
// bounds are present; if either is empty the input comes back
// unchanged, warnings and all. Records whose date fails to parse are
// excluded and reported as warnings. Input order is preserved.
func FilterByDateRange[T Dated](records []T, start, end string) ([]T, []DateWarning) {
	if start == "" || end == "" {
		return records, nil
	}

	s, sErr := ParseDay(start)
	e, eErr := ParseDay(end)

	var warnings []DateWarning
	out := make([]T, 0, len(records))
	for _, rec := range records {
		d, err := ParseDay(rec.RecordDate())
		if err != nil {
			warnings = append(warnings, DateWarning{Date: rec.RecordDate(), Err: err})
			continue
		}
		if sErr == nil && d.Before(s) {
			continue
		}
		if eErr == nil && d.After(e) {
			continue
		}
		out = append(out, rec)
	}
	return out, warnings
}
