package dtos

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func int64Ptr(v int64) *int64 { return &v }

func TestAssignRequest_ExactlyOneTarget(t *testing.T) {
	cases := []struct {
		name string
		req  AssignRequest
		ok   bool
	}{
		{"single id", AssignRequest{PositionID: int64Ptr(1)}, true},
		{"id list", AssignRequest{PositionIDs: []int64{1, 2}}, true},
		{"both", AssignRequest{PositionID: int64Ptr(1), PositionIDs: []int64{2}}, false},
		{"neither", AssignRequest{}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.ok, tc.req.ExactlyOneTarget())
		})
	}
}

func TestAssignRequest_TargetIDs(t *testing.T) {
	single := AssignRequest{PositionID: int64Ptr(42)}
	require.Equal(t, []int64{42}, single.TargetIDs())

	list := AssignRequest{PositionIDs: []int64{1, 2, 3}}
	require.Equal(t, []int64{1, 2, 3}, list.TargetIDs())
}

func TestAssignRequest_Validate(t *testing.T) {
	require.NoError(t, (&AssignRequest{PositionID: int64Ptr(1)}).Validate())
	require.NoError(t, (&AssignRequest{PositionIDs: []int64{1, 2}, Force: true}).Validate())

	require.Error(t, (&AssignRequest{PositionID: int64Ptr(0)}).Validate())
	require.Error(t, (&AssignRequest{PositionID: int64Ptr(-5)}).Validate())
	require.Error(t, (&AssignRequest{PositionIDs: []int64{1, -2}}).Validate())
}
