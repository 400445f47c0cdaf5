package bot

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	prefixOrder   = "order:"
	prefixWork    = "work:"
	prefixApprove = "approve:"
	prefixReject  = "reject:"
)

// Action is a parsed inline-button payload
type Action interface {
	isAction()
}

// OrderSelected starts a work log for an order
type OrderSelected struct {
	OrderID     string
	OrderNumber string
}

// WorkTypeSelected picks the work type of the current draft
type WorkTypeSelected struct {
	WorkType string
}

// ApprovalDecision is the admin's answer to a registration request
type ApprovalDecision struct {
	UserID  int64
	Approve bool
}

func (OrderSelected) isAction()    {}
func (WorkTypeSelected) isAction() {}
func (ApprovalDecision) isAction() {}

// ParseAction decodes callback data. ok is false for anything malformed.
func ParseAction(data string) (Action, bool) {
	switch {
	case strings.HasPrefix(data, prefixOrder):
		parts := strings.SplitN(strings.TrimPrefix(data, prefixOrder), ":", 2)
		if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
			return nil, false
		}
		return OrderSelected{OrderID: parts[0], OrderNumber: parts[1]}, true

	case strings.HasPrefix(data, prefixWork):
		workType := strings.TrimPrefix(data, prefixWork)
		if workType == "" {
			return nil, false
		}
		return WorkTypeSelected{WorkType: workType}, true

	case strings.HasPrefix(data, prefixApprove), strings.HasPrefix(data, prefixReject):
		approve := strings.HasPrefix(data, prefixApprove)
		raw := strings.TrimPrefix(strings.TrimPrefix(data, prefixApprove), prefixReject)
		userID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || userID <= 0 {
			return nil, false
		}
		return ApprovalDecision{UserID: userID, Approve: approve}, true
	}
	return nil, false
}

func orderPayload(orderID, orderNumber string) string {
	return prefixOrder + orderID + ":" + orderNumber
}

func workPayload(workType string) string {
	return prefixWork + workType
}

func approvalPayload(userID int64, approve bool) string {
	if approve {
		return fmt.Sprintf("%s%d", prefixApprove, userID)
	}
	return fmt.Sprintf("%s%d", prefixReject, userID)
}
