package query

// Range is a [start:stop:step] selection over the solution sequence.
// Nil fields are absent bounds.
type Range struct {
	Start *int
	Stop  *int
	Step  *int
}

// Between is [start:stop].
func Between(start, stop int) Range { return Range{Start: &start, Stop: &stop} }

// From is [start:].
func From(start int) Range { return Range{Start: &start} }

// Until is [:stop].
func Until(stop int) Range { return Range{Stop: &stop} }

// Every returns r with a step. Slice rejects any step other than 1.
func (r Range) Every(step int) Range {
	r.Step = &step
	return r
}

// Slice returns a new Query paged by r: OFFSET start and LIMIT stop-start
// when both bounds are present. An absent bound clears its field, so
// [5:] has no limit, [:5] has no offset and [:] has neither.
//
// Returns ErrCodeSliceStep for a step other than 1 and ErrCodeSliceBounds
// for negative bounds or stop < start.
func (q *Query) Slice(r Range) (*Query, error) {
	if r.Step != nil && *r.Step != 1 {
		return nil, newConstructionError(ErrCodeSliceStep, "slice step must be 1, got %d", *r.Step)
	}
	if r.Start != nil && *r.Start < 0 {
		return nil, newConstructionError(ErrCodeSliceBounds, "negative slice start %d is not supported", *r.Start)
	}
	if r.Stop != nil && *r.Stop < 0 {
		return nil, newConstructionError(ErrCodeSliceBounds, "negative slice stop %d is not supported", *r.Stop)
	}

	switch {
	case r.Start != nil && r.Stop != nil:
		if *r.Stop < *r.Start {
			return nil, newConstructionError(ErrCodeSliceBounds, "slice stop %d precedes start %d", *r.Stop, *r.Start)
		}
		return q.Offset(*r.Start).Limit(*r.Stop - *r.Start), nil
	case r.Start != nil:
		return q.Offset(*r.Start).Limit(-1), nil
	case r.Stop != nil:
		return q.Limit(*r.Stop).Offset(0), nil
	default:
		return q.Limit(-1).Offset(0), nil
	}
}
