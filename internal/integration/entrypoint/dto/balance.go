package dto

import (
	"encoding/json"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/cashsplit/backend/internal/domain/entity"
)

// BalancesResponse is the balance sheet of a group with the payments that
// would settle it.
type BalancesResponse struct {
	Balances     []MemberBalanceResponse `json:"balances"`
	Transactions []TransactionResponse   `json:"transactions"`
	Version      int64                   `json:"version"`
}

// MemberBalanceResponse is a member's net position. Positive means the
// member is owed money.
type MemberBalanceResponse struct {
	User          UserSummaryResponse `json:"user"`
	Balance       json.Number         `json:"balance"`
	IsCurrentUser bool                `json:"isCurrentUser"`
}

// TransactionResponse is a planned payment.
type TransactionResponse struct {
	From   UserSummaryResponse `json:"from"`
	To     UserSummaryResponse `json:"to"`
	Amount json.Number         `json:"amount"`
}

// RecordSettlementRequest is the body of a mark-as-paid request.
type RecordSettlementRequest struct {
	PayeeID uuid.UUID       `json:"payeeId" binding:"required"`
	Amount  decimal.Decimal `json:"amount"`
}

// SettlementResponse is returned after a settlement is recorded.
type SettlementResponse struct {
	Settlement ExpenseResponse `json:"settlement"`
	Version    int64           `json:"version"`
}

// ToBalancesResponse renders summary in member order.
func ToBalancesResponse(summary *entity.GroupBalances, members []*entity.GroupMember, currentUser uuid.UUID) BalancesResponse {
	lookup := NewMemberLookup(members)

	response := BalancesResponse{
		Balances:     make([]MemberBalanceResponse, 0, len(members)),
		Transactions: make([]TransactionResponse, len(summary.Transactions)),
		Version:      summary.Version,
	}

	for _, m := range members {
		response.Balances = append(response.Balances, MemberBalanceResponse{
			User:          lookup.User(m.UserID),
			Balance:       Amount(summary.Balances[m.UserID]),
			IsCurrentUser: m.UserID == currentUser,
		})
	}

	for i, t := range summary.Transactions {
		response.Transactions[i] = TransactionResponse{
			From:   lookup.User(t.From),
			To:     lookup.User(t.To),
			Amount: Amount(t.Amount),
		}
	}

	return response
}
