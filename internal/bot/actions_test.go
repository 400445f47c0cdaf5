package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseAction(t *testing.T) {
	tests := []struct {
		data   string
		want   Action
		wantOK bool
	}{
		{data: "order:3f2a:A-17", want: OrderSelected{OrderID: "3f2a", OrderNumber: "A-17"}, wantOK: true},
		{data: "order:3f2a:A:17", want: OrderSelected{OrderID: "3f2a", OrderNumber: "A:17"}, wantOK: true},
		{data: "work:Teshib berish", want: WorkTypeSelected{WorkType: "Teshib berish"}, wantOK: true},
		{data: "approve:42", want: ApprovalDecision{UserID: 42, Approve: true}, wantOK: true},
		{data: "reject:42", want: ApprovalDecision{UserID: 42, Approve: false}, wantOK: true},
		{data: "order:3f2a"},
		{data: "order::A-17"},
		{data: "order:3f2a:"},
		{data: "work:"},
		{data: "approve:abc"},
		{data: "reject:-5"},
		{data: "approve:"},
		{data: "date:today"},
		{data: ""},
	}
	for _, tt := range tests {
		t.Run(tt.data, func(t *testing.T) {
			got, ok := ParseAction(tt.data)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPayloadsRoundTrip(t *testing.T) {
	action, ok := ParseAction(orderPayload("id-1", "B-2"))
	assert.True(t, ok)
	assert.Equal(t, OrderSelected{OrderID: "id-1", OrderNumber: "B-2"}, action)

	action, ok = ParseAction(approvalPayload(7, false))
	assert.True(t, ok)
	assert.Equal(t, ApprovalDecision{UserID: 7}, action)
}

func TestOrderPayloadFitsCallbackLimit(t *testing.T) {
	payload := orderPayload("123e4567-e89b-12d3-a456-426614174000", "12345678901234567890")
	assert.LessOrEqual(t, len(payload), 64)
}
