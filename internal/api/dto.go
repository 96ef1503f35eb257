package api

import (
	"github.com/settleup/settleup/internal/models"
	"github.com/settleup/settleup/internal/service"
)

// Amounts cross the API as decimal strings ("12.34") and are converted to
// cents at this boundary. Internals never see decimals.

type registerRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

type userResponse struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Email          string `json:"email,omitempty"`
	ProfilePicture string `json:"profile_picture,omitempty"`
}

type createGroupRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	MemberIDs   []string `json:"member_ids"`
}

type updateGroupRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type addMemberRequest struct {
	UserID string `json:"user_id"`
}

type groupResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	CreatedBy   string `json:"created_by"`
	CreatedAt   int64  `json:"created_at"`
}

type splitRequest struct {
	UserID string `json:"user_id"`
	// Amount is the explicit share for unequal splits.
	Amount string `json:"amount,omitempty"`
	// Shares is the weight for share-based splits.
	Shares int64 `json:"shares,omitempty"`
	// Percentage is the weight for percentage splits.
	Percentage string `json:"percentage,omitempty"`
}

type createExpenseRequest struct {
	GroupID      string         `json:"group_id"`
	PayerID      string         `json:"payer_id"`
	Description  string         `json:"description"`
	Amount       string         `json:"amount"`
	SplitType    string         `json:"split_type"`
	Participants []string       `json:"participants,omitempty"`
	Splits       []splitRequest `json:"splits,omitempty"`
}

type splitResponse struct {
	UserID string `json:"user_id"`
	Amount string `json:"amount"`
}

type expenseResponse struct {
	ID          string          `json:"id"`
	GroupID     string          `json:"group_id"`
	PayerID     string          `json:"payer_id"`
	CreatedBy   string          `json:"created_by"`
	Description string          `json:"description"`
	Amount      string          `json:"amount"`
	SplitType   string          `json:"split_type"`
	Splits      []splitResponse `json:"splits"`
	CreatedAt   int64           `json:"created_at"`
}

type createPaymentRequest struct {
	GroupID     string `json:"group_id"`
	ReceiverID  string `json:"receiver_id"`
	Amount      string `json:"amount"`
	Description string `json:"description,omitempty"`
}

type statusReasonRequest struct {
	Reason string `json:"reason"`
}

type paymentResponse struct {
	ID           string `json:"id"`
	GroupID      string `json:"group_id"`
	PayerID      string `json:"payer_id"`
	ReceiverID   string `json:"receiver_id"`
	Amount       string `json:"amount"`
	Description  string `json:"description,omitempty"`
	Status       string `json:"status"`
	StatusReason string `json:"status_reason,omitempty"`
	ConfirmedAt  int64  `json:"confirmed_at,omitempty"`
	CreatedAt    int64  `json:"created_at"`
}

type memberBalanceResponse struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Net    string `json:"net"`
}

type pairBalanceResponse struct {
	CreditorID   string `json:"creditor_id"`
	CreditorName string `json:"creditor_name"`
	DebtorID     string `json:"debtor_id"`
	DebtorName   string `json:"debtor_name"`
	Amount       string `json:"amount"`
}

type warningResponse struct {
	ExpenseID    string `json:"expense_id"`
	ExpenseTotal string `json:"expense_total"`
	SplitSum     string `json:"split_sum"`
	Diff         string `json:"diff"`
}

type groupBalancesResponse struct {
	GroupID   string                  `json:"group_id"`
	GroupName string                  `json:"group_name"`
	YourNet   string                  `json:"your_net"`
	Members   []memberBalanceResponse `json:"members"`
	Pairwise  []pairBalanceResponse   `json:"pairwise"`
	Warnings  []warningResponse       `json:"warnings,omitempty"`
}

type suggestionResponse struct {
	FromID   string `json:"from_id"`
	FromName string `json:"from_name"`
	ToID     string `json:"to_id"`
	ToName   string `json:"to_name"`
	Amount   string `json:"amount"`
}

type settlementPlanResponse struct {
	GroupID              string               `json:"group_id"`
	GroupName            string               `json:"group_name"`
	Suggestions          []suggestionResponse `json:"suggestions"`
	OriginalTransactions int                  `json:"original_transactions"`
	TransactionsSaved    int                  `json:"transactions_saved"`
}

type groupOverviewResponse struct {
	GroupID   string `json:"group_id"`
	GroupName string `json:"group_name"`
	YourNet   string `json:"your_net"`
}

type overviewResponse struct {
	TotalNet   string                  `json:"total_net"`
	YouAreOwed string                  `json:"you_are_owed"`
	YouOwe     string                  `json:"you_owe"`
	Groups     []groupOverviewResponse `json:"groups"`
}

// meResponse echoes the identity carried by the bearer token.
type meResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type friendBalanceResponse struct {
	FriendID   string `json:"friend_id"`
	FriendName string `json:"friend_name"`
	// GroupID is the hidden group where direct 1:1 records are made.
	GroupID string `json:"group_id"`
	Net     string `json:"net"`
}

func toUserResponse(u *models.User) userResponse {
	return userResponse{
		ID:             u.ID,
		Name:           u.Name,
		Email:          u.Email,
		ProfilePicture: u.ProfilePicture,
	}
}

func toGroupResponse(g *models.Group) groupResponse {
	return groupResponse{
		ID:          g.ID,
		Name:        g.Name,
		Description: g.Description,
		CreatedBy:   g.CreatedBy,
		CreatedAt:   g.CreatedAt,
	}
}

func toExpenseResponse(e *models.Expense) expenseResponse {
	out := expenseResponse{
		ID:          e.ID,
		GroupID:     e.GroupID,
		PayerID:     e.PayerID,
		CreatedBy:   e.CreatedBy,
		Description: e.Description,
		Amount:      e.Amount.String(),
		SplitType:   string(e.SplitType),
		CreatedAt:   e.CreatedAt,
	}
	for _, sp := range e.Splits {
		out.Splits = append(out.Splits, splitResponse{
			UserID: sp.UserID,
			Amount: sp.Amount.String(),
		})
	}
	return out
}

func toPaymentResponse(p *models.Payment) paymentResponse {
	return paymentResponse{
		ID:           p.ID,
		GroupID:      p.GroupID,
		PayerID:      p.PayerID,
		ReceiverID:   p.ReceiverID,
		Amount:       p.Amount.String(),
		Description:  p.Description,
		Status:       string(p.Status),
		StatusReason: p.StatusReason,
		ConfirmedAt:  p.ConfirmedAt,
		CreatedAt:    p.CreatedAt,
	}
}

func toGroupBalancesResponse(b *service.GroupBalances) groupBalancesResponse {
	out := groupBalancesResponse{
		GroupID:   b.GroupID,
		GroupName: b.GroupName,
		YourNet:   b.YourNet.String(),
	}
	for _, m := range b.Members {
		out.Members = append(out.Members, memberBalanceResponse{
			UserID: m.UserID,
			Name:   m.Name,
			Net:    m.Net.String(),
		})
	}
	for _, p := range b.Pairwise {
		out.Pairwise = append(out.Pairwise, pairBalanceResponse{
			CreditorID:   p.CreditorID,
			CreditorName: p.CreditorName,
			DebtorID:     p.DebtorID,
			DebtorName:   p.DebtorName,
			Amount:       p.Amount.String(),
		})
	}
	for _, w := range b.Warnings {
		out.Warnings = append(out.Warnings, warningResponse{
			ExpenseID:    w.ExpenseID,
			ExpenseTotal: w.ExpenseTotal.String(),
			SplitSum:     w.SplitSum.String(),
			Diff:         w.Diff.String(),
		})
	}
	return out
}

func toSettlementPlanResponse(p *service.SettlementPlan) settlementPlanResponse {
	out := settlementPlanResponse{
		GroupID:              p.GroupID,
		GroupName:            p.GroupName,
		OriginalTransactions: p.OriginalTransactions,
		TransactionsSaved:    p.TransactionsSaved,
	}
	for _, s := range p.Suggestions {
		out.Suggestions = append(out.Suggestions, suggestionResponse{
			FromID:   s.FromID,
			FromName: s.FromName,
			ToID:     s.ToID,
			ToName:   s.ToName,
			Amount:   s.Amount.String(),
		})
	}
	return out
}

func toOverviewResponse(o *service.Overview) overviewResponse {
	out := overviewResponse{
		TotalNet:   o.TotalNet.String(),
		YouAreOwed: o.YouAreOwed.String(),
		YouOwe:     o.YouOwe.String(),
	}
	for _, g := range o.Groups {
		out.Groups = append(out.Groups, groupOverviewResponse{
			GroupID:   g.GroupID,
			GroupName: g.GroupName,
			YourNet:   g.YourNet.String(),
		})
	}
	return out
}
