package reports

// CompositeKey identifies one result record inside the reduced
// document: file path plus resource plus check identity. Check
// identities are globally unique within a scan, so two reports can
// never produce the same key.
func CompositeKey(r CheckResult) string {
	return r.FilePath + ":" + r.Resource + ":" + r.CheckID
}

// Reduce folds a list of scan reports into a single document keyed by
// check type, then by composite key:
//
//	doc[checkType][compositeKey] = record
//
// Reduction is associative and order-independent because keys are
// unique by construction. A returned collision means an upstream
// checker emitted duplicate identities; the later record wins and the
// caller should flag it.
func Reduce(scanReports []ScanReport) (Document, []string) {
	doc := Document{}
	var collisions []string
	for _, report := range scanReports {
		byKey, ok := doc[report.CheckType].(map[string]any)
		if !ok {
			byKey = map[string]any{}
			doc[report.CheckType] = byKey
		}
		for _, res := range report.Results {
			key := CompositeKey(res)
			if _, dup := byKey[key]; dup {
				collisions = append(collisions, key)
			}
			byKey[key] = map[string]any{
				"check_id":      res.CheckID,
				"resource":      res.Resource,
				"file_abs_path": res.FilePath,
				"result":        string(res.Outcome),
			}
		}
	}
	return doc, collisions
}
