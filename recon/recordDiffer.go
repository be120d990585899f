package recon

import "sort"

// RecordUpdate pairs a desired record with the observed record it converges.
// The observed side contributes the remote id the update is issued against.
type RecordUpdate struct {
	Desired  Record
	Observed Record
}

// DiffResult holds the three disjoint operation sets computed for a domain.
type DiffResult struct {
	Domain  string
	Creates []Record
	Updates []RecordUpdate
	Deletes []Record
}

// Empty reports whether the remote state is already convergent.
func (d DiffResult) Empty() bool {
	return len(d.Creates) == 0 && len(d.Updates) == 0 && len(d.Deletes) == 0
}

// Diff computes the operations needed to converge the observed record set
// of a domain to the desired one.
//
// Matching is strong: a desired record corresponds to an observed record
// only when label, type and content are all equal. Records that match but
// differ in ttl or prio become updates. A content change is never an update,
// it is a delete of the old record plus a create of the new one.
func Diff(desired RecordSet, observed RecordSet, policy Policy) DiffResult {
	result := DiffResult{Domain: desired.Domain}

	wantRecords := withoutIgnoredTypes(desired.Records, policy)
	haveRecords := withoutIgnoredTypes(observed.Records, policy)

	// Both sides are multisets, so matching consumes one observed candidate
	// per desired record on the same key. Candidates sharing a key are
	// consumed lowest remote id first to keep repeated runs reproducible.
	candidates := make(map[matchKey][]Record)
	for _, rec := range haveRecords {
		candidates[rec.key()] = append(candidates[rec.key()], rec)
	}
	for key := range candidates {
		recs := candidates[key]
		sort.Slice(recs, func(i, j int) bool { return recs[i].RemoteID < recs[j].RemoteID })
	}

	for _, want := range wantRecords {
		key := want.key()
		remaining := candidates[key]
		if len(remaining) == 0 {
			result.Creates = append(result.Creates, want)
			continue
		}
		have := remaining[0]
		candidates[key] = remaining[1:]
		if want.needsUpdate(have) {
			result.Updates = append(result.Updates, RecordUpdate{Desired: want, Observed: have})
		}
	}

	if policy.PreserveRemote {
		return result
	}

	// Whatever remains unmatched on the observed side gets deleted. Keep
	// the original observed order.
	remainingIDs := make(map[string]int)
	for _, rest := range candidates {
		for _, rec := range rest {
			remainingIDs[rec.RemoteID]++
		}
	}
	for _, have := range haveRecords {
		if remainingIDs[have.RemoteID] > 0 {
			remainingIDs[have.RemoteID]--
			result.Deletes = append(result.Deletes, have)
		}
	}

	return result
}

func withoutIgnoredTypes(records []Record, policy Policy) []Record {
	kept := make([]Record, 0, len(records))
	for _, rec := range records {
		if policy.Ignores(rec.Type) {
			continue
		}
		kept = append(kept, rec)
	}
	return kept
}
