package reports

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReduce_TwoReportsDistinctChecks(t *testing.T) {
	scanReports := []ScanReport{
		{
			CheckType: "terraform",
			Results: []CheckResult{
				{CheckID: "CKV_AWS_1", Resource: "aws_s3_bucket.data", FilePath: "/repo/main.tf", Outcome: OutcomeFailed},
			},
		},
		{
			CheckType: "cloudformation",
			Results: []CheckResult{
				{CheckID: "CKV_AWS_20", Resource: "Resources.Bucket", FilePath: "/repo/stack.yaml", Outcome: OutcomePassed},
			},
		},
	}

	doc, collisions := Reduce(scanReports)
	require.Empty(t, collisions)
	require.Len(t, doc, 2)

	tf, ok := doc["terraform"].(map[string]any)
	require.True(t, ok)
	require.Len(t, tf, 1)
	record, ok := tf["/repo/main.tf:aws_s3_bucket.data:CKV_AWS_1"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "CKV_AWS_1", record["check_id"])
	assert.Equal(t, "failed", record["result"])
	assert.Equal(t, "/repo/main.tf", record["file_abs_path"])

	cfn, ok := doc["cloudformation"].(map[string]any)
	require.True(t, ok)
	require.Len(t, cfn, 1)
}

func TestReduce_OrderIndependent(t *testing.T) {
	a := ScanReport{CheckType: "terraform", Results: []CheckResult{
		{CheckID: "CKV_1", Resource: "r1", FilePath: "/f1", Outcome: OutcomePassed},
	}}
	b := ScanReport{CheckType: "terraform", Results: []CheckResult{
		{CheckID: "CKV_2", Resource: "r2", FilePath: "/f2", Outcome: OutcomeFailed},
	}}

	ab, _ := Reduce([]ScanReport{a, b})
	ba, _ := Reduce([]ScanReport{b, a})
	assert.Equal(t, ab, ba)
}

func TestReduce_CollisionKeepsLaterRecord(t *testing.T) {
	// Duplicate identities across reports indicate an upstream defect;
	// the reducer must flag the key and keep the later record.
	dup := CheckResult{CheckID: "CKV_1", Resource: "r", FilePath: "/f", Outcome: OutcomePassed}
	later := dup
	later.Outcome = OutcomeFailed

	doc, collisions := Reduce([]ScanReport{
		{CheckType: "terraform", Results: []CheckResult{dup}},
		{CheckType: "terraform", Results: []CheckResult{later}},
	})

	require.Equal(t, []string{"/f:r:CKV_1"}, collisions)
	tf := doc["terraform"].(map[string]any)
	record := tf["/f:r:CKV_1"].(map[string]any)
	assert.Equal(t, "failed", record["result"])
}

func TestReduce_Empty(t *testing.T) {
	doc, collisions := Reduce(nil)
	assert.Empty(t, doc)
	assert.Empty(t, collisions)
}
